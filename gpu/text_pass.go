package gpu

import (
	"unsafe"

	"github.com/NerbzHub/SocksAndSandalsGraphicsEngine/core"
	"github.com/NerbzHub/SocksAndSandalsGraphicsEngine/shaders"
	"github.com/cogentcore/webgpu/wgpu"
)

// TextRenderPass draws pre-built screen-space glyph vertices over the scene.
// The glyph atlas is uploaded once; the vertex buffer grows as needed.
type TextRenderPass struct {
	Pipeline  *wgpu.RenderPipeline
	BindGroup *wgpu.BindGroup
	Device    *wgpu.Device

	atlasTexture *wgpu.Texture
	atlasView    *wgpu.TextureView
	sampler      *wgpu.Sampler
	vertexBuffer *wgpu.Buffer
	vertexCount  uint32
}

func NewTextRenderPass(device *wgpu.Device, format wgpu.TextureFormat, depthFormat wgpu.TextureFormat, tr *core.TextRenderer) (*TextRenderPass, error) {
	queue := device.GetQueue()

	w, h := tr.Atlas.Bounds().Dx(), tr.Atlas.Bounds().Dy()
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "TextAtlas",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}
	queue.WriteTexture(tex.AsImageCopy(), tr.Atlas.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(w),
		RowsPerImage: uint32(h),
	}, &wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1})

	atlasView, err := tex.CreateView(nil)
	if err != nil {
		return nil, err
	}

	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, err
	}

	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "TextShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.TextWGSL},
	})
	if err != nil {
		return nil, err
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "TextPipeline",
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof(core.TextVertex{})),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: format,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOne,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		// Overlay text ignores scene depth entirely.
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: false,
			DepthCompare:      wgpu.CompareFunctionAlways,
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

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "TextAtlasBG",
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: atlasView},
			{Binding: 1, Sampler: sampler},
		},
	})
	if err != nil {
		return nil, err
	}

	return &TextRenderPass{
		Pipeline:     pipeline,
		BindGroup:    bindGroup,
		Device:       device,
		atlasTexture: tex,
		atlasView:    atlasView,
		sampler:      sampler,
	}, nil
}

// Update uploads this frame's glyph vertices, growing the buffer when it
// is too small.
func (p *TextRenderPass) Update(queue *wgpu.Queue, vertices []core.TextVertex) {
	p.vertexCount = uint32(len(vertices))
	if len(vertices) == 0 {
		return
	}

	vSize := uint64(len(vertices)) * uint64(unsafe.Sizeof(core.TextVertex{}))
	if p.vertexBuffer == nil || p.vertexBuffer.GetSize() < vSize {
		if p.vertexBuffer != nil {
			p.vertexBuffer.Release()
		}
		p.vertexBuffer, _ = p.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "TextVertexBuffer",
			Size:  vSize + 64*uint64(unsafe.Sizeof(core.TextVertex{})), // Margin
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
	}
	queue.WriteBuffer(p.vertexBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), vSize))
}

func (p *TextRenderPass) Draw(pass *wgpu.RenderPassEncoder) {
	if p.vertexCount == 0 || p.vertexBuffer == nil {
		return
	}

	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.SetVertexBuffer(0, p.vertexBuffer, 0, p.vertexBuffer.GetSize())
	pass.Draw(p.vertexCount, 1, 0, 0)
}

// Release frees the atlas resources, the vertex buffer, and the pipeline.
func (p *TextRenderPass) Release() {
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.BindGroup != nil {
		p.BindGroup.Release()
		p.BindGroup = nil
	}
	if p.sampler != nil {
		p.sampler.Release()
		p.sampler = nil
	}
	if p.atlasView != nil {
		p.atlasView.Release()
		p.atlasView = nil
	}
	if p.atlasTexture != nil {
		p.atlasTexture.Release()
		p.atlasTexture = nil
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
		p.Pipeline = nil
	}
}
