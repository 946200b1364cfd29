package gpu

import (
	"unsafe"

	"github.com/NerbzHub/SocksAndSandalsGraphicsEngine/core"
	"github.com/NerbzHub/SocksAndSandalsGraphicsEngine/shaders"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// modelUniform matches the WGSL Model struct
type modelUniform struct {
	Transform mgl32.Mat4
	Colour    mgl32.Vec4
}

// MeshObject is one static mesh instance. Transform and Colour may be
// changed between frames; Update pushes them to the GPU.
type MeshObject struct {
	Transform core.Transform
	Colour    mgl32.Vec4

	vertexBuffer  *wgpu.Buffer
	indexBuffer   *wgpu.Buffer
	uniformBuffer *wgpu.Buffer
	bindGroup     *wgpu.BindGroup
	indexCount    uint32
}

type MeshRenderPass struct {
	Pipeline *wgpu.RenderPipeline
	Device   *wgpu.Device
	objects  []*MeshObject
}

func NewMeshRenderPass(device *wgpu.Device, format wgpu.TextureFormat, depthFormat wgpu.TextureFormat) (*MeshRenderPass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "MeshShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.MeshWGSL},
	})
	if err != nil {
		return nil, err
	}

	cameraBgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "MeshCameraBGL",
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

	modelBgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "MeshModelBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
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
		BindGroupLayouts: []*wgpu.BindGroupLayout{
			cameraBgl,
			modelBgl,
		},
	})
	if err != nil {
		return nil, err
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "MeshPipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(core.MeshVertex{})),
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
						{
							Format:         wgpu.VertexFormatFloat32x2,
							Offset:         32,
							ShaderLocation: 2,
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
					Blend:     nil,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
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

	return &MeshRenderPass{
		Pipeline: pipeline,
		Device:   device,
	}, nil
}

// AddMesh uploads the mesh once and registers it for drawing.
func (p *MeshRenderPass) AddMesh(mesh *core.Mesh, transform core.Transform, colour mgl32.Vec4) (*MeshObject, error) {
	queue := p.Device.GetQueue()

	vSize := uint64(len(mesh.Vertices)) * uint64(unsafe.Sizeof(core.MeshVertex{}))
	vb, err := p.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "MeshVertexBuffer",
		Size:  vSize,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	queue.WriteBuffer(vb, 0, unsafe.Slice((*byte)(unsafe.Pointer(&mesh.Vertices[0])), vSize))

	indices := mesh.Indices
	if len(indices)%2 != 0 {
		// Buffer writes must be 4-byte aligned; repeat the last index.
		indices = append(append([]uint16{}, indices...), indices[len(indices)-1])
	}
	iSize := uint64(len(indices)) * uint64(unsafe.Sizeof(indices[0]))
	ib, err := p.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "MeshIndexBuffer",
		Size:  iSize,
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vb.Release()
		return nil, err
	}
	queue.WriteBuffer(ib, 0, unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), iSize))

	ub, err := p.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "MeshModelUniform",
		Size:  256,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vb.Release()
		ib.Release()
		return nil, err
	}

	bg, err := p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "MeshModelBG",
		Layout: p.Pipeline.GetBindGroupLayout(1),
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  ub,
				Size:    256,
			},
		},
	})
	if err != nil {
		vb.Release()
		ib.Release()
		ub.Release()
		return nil, err
	}

	o := &MeshObject{
		Transform:     transform,
		Colour:        colour,
		vertexBuffer:  vb,
		indexBuffer:   ib,
		uniformBuffer: ub,
		bindGroup:     bg,
		indexCount:    uint32(len(mesh.Indices)),
	}
	p.objects = append(p.objects, o)
	return o, nil
}

// Update pushes every object's current transform and colour to the GPU.
func (p *MeshRenderPass) Update(queue *wgpu.Queue) {
	for _, o := range p.objects {
		u := modelUniform{
			Transform: o.Transform.ObjectToWorld(),
			Colour:    o.Colour,
		}
		queue.WriteBuffer(o.uniformBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&u)), unsafe.Sizeof(u)))
	}
}

func (p *MeshRenderPass) Draw(pass *wgpu.RenderPassEncoder, cameraBindGroup *wgpu.BindGroup) {
	if len(p.objects) == 0 {
		return
	}

	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, cameraBindGroup, nil)

	for _, o := range p.objects {
		pass.SetBindGroup(1, o.bindGroup, nil)
		pass.SetVertexBuffer(0, o.vertexBuffer, 0, o.vertexBuffer.GetSize())
		pass.SetIndexBuffer(o.indexBuffer, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
		pass.DrawIndexed(o.indexCount, 1, 0, 0, 0)
	}
}

// Release frees every object's buffers and the pipeline.
func (p *MeshRenderPass) Release() {
	for _, o := range p.objects {
		o.bindGroup.Release()
		o.uniformBuffer.Release()
		o.indexBuffer.Release()
		o.vertexBuffer.Release()
	}
	p.objects = nil
	if p.Pipeline != nil {
		p.Pipeline.Release()
		p.Pipeline = nil
	}
}

func (p *MeshRenderPass) CreateCameraBindGroup(cameraBuffer *wgpu.Buffer) (*wgpu.BindGroup, error) {
	return p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "MeshCameraBG",
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
