package gpu

import (
	"unsafe"

	"github.com/NerbzHub/SocksAndSandalsGraphicsEngine/core"
	"github.com/NerbzHub/SocksAndSandalsGraphicsEngine/shaders"
	"github.com/cogentcore/webgpu/wgpu"
)

// emitterBatch holds the GPU buffers for one emitter. The vertex buffer is
// allocated once at full pool capacity and only the live range is rewritten
// each frame. The index buffer is filled at creation and never touched again.
type emitterBatch struct {
	emitter      *core.Emitter
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
}

type ParticleRenderPass struct {
	Pipeline *wgpu.RenderPipeline
	Device   *wgpu.Device
	batches  []*emitterBatch
}

func NewParticleRenderPass(device *wgpu.Device, format wgpu.TextureFormat, depthFormat wgpu.TextureFormat) (*ParticleRenderPass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "ParticleShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.ParticlesWGSL},
	})
	if err != nil {
		return nil, err
	}

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "ParticleCameraBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					MinBindingSize:   256,
					HasDynamicOffset: false,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, err
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "ParticlePipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(core.ParticleVertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{
							Format:         wgpu.VertexFormatFloat32x4,
							Offset:         0,
							ShaderLocation: 0,
						},
						{
							Format:         wgpu.VertexFormatFloat32x4,
							Offset:         16,
							ShaderLocation: 1,
						},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		// Blended particles test against mesh depth but never write it.
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: false,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	return &ParticleRenderPass{
		Pipeline: pipeline,
		Device:   device,
	}, nil
}

// AddEmitter allocates the full-capacity vertex buffer and the static index
// buffer for one emitter. Four vertices and six indices per quad slot.
func (p *ParticleRenderPass) AddEmitter(e *core.Emitter) error {
	vSize := uint64(e.Capacity()*4) * uint64(unsafe.Sizeof(core.ParticleVertex{}))
	vb, err := p.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "ParticleVertexBuffer",
		Size:  vSize,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}

	indices := core.QuadIndices(e.Capacity())
	iSize := uint64(len(indices)) * uint64(unsafe.Sizeof(indices[0]))
	ib, err := p.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "ParticleIndexBuffer",
		Size:  iSize,
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vb.Release()
		return err
	}
	p.Device.GetQueue().WriteBuffer(ib, 0, unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), iSize))

	p.batches = append(p.batches, &emitterBatch{
		emitter:      e,
		vertexBuffer: vb,
		indexBuffer:  ib,
	})
	return nil
}

// Update uploads the live vertex range of every registered emitter. Slots
// past the live range keep stale GPU data; the draw never reads them.
func (p *ParticleRenderPass) Update(queue *wgpu.Queue) {
	for _, b := range p.batches {
		vertices := b.emitter.Vertices()
		if len(vertices) == 0 {
			continue
		}
		size := uint64(len(vertices)) * uint64(unsafe.Sizeof(core.ParticleVertex{}))
		queue.WriteBuffer(b.vertexBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), size))
	}
}

func (p *ParticleRenderPass) Draw(pass *wgpu.RenderPassEncoder, cameraBindGroup *wgpu.BindGroup) {
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, cameraBindGroup, nil)

	for _, b := range p.batches {
		indexCount := uint32(b.emitter.IndexCount())
		if indexCount == 0 {
			continue
		}
		pass.SetVertexBuffer(0, b.vertexBuffer, 0, b.vertexBuffer.GetSize())
		pass.SetIndexBuffer(b.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(indexCount, 1, 0, 0, 0)
	}
}

// Release frees every per-emitter buffer and the pipeline.
func (p *ParticleRenderPass) Release() {
	for _, b := range p.batches {
		b.vertexBuffer.Release()
		b.indexBuffer.Release()
	}
	p.batches = nil
	if p.Pipeline != nil {
		p.Pipeline.Release()
		p.Pipeline = nil
	}
}

func (p *ParticleRenderPass) CreateCameraBindGroup(cameraBuffer *wgpu.Buffer) (*wgpu.BindGroup, error) {
	return p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "ParticleCameraBG",
		Layout: p.Pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  cameraBuffer,
				Size:    256,
			},
		},
	})
}
