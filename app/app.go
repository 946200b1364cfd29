package app

import (
	"fmt"
	"unsafe"

	sox "github.com/NerbzHub/SocksAndSandalsGraphicsEngine"
	"github.com/NerbzHub/SocksAndSandalsGraphicsEngine/core"
	"github.com/NerbzHub/SocksAndSandalsGraphicsEngine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// DepthFormat is shared by every pipeline and the depth attachment.
const DepthFormat = wgpu.TextureFormatDepth24Plus

type App struct {
	Window   *glfw.Window
	Log      sox.Logger
	Instance *wgpu.Instance
	Surface  *wgpu.Surface
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Config   *wgpu.SurfaceConfiguration

	Camera   *core.Camera
	Emitters []*core.Emitter

	MeshPass     *gpu.MeshRenderPass
	ParticlePass *gpu.ParticleRenderPass
	TextPass     *gpu.TextRenderPass
	TextRenderer *core.TextRenderer
	TextItems    []core.TextItem

	cameraBuffer     *wgpu.Buffer
	meshCameraBG     *wgpu.BindGroup
	particleCameraBG *wgpu.BindGroup
	depthTexture     *wgpu.Texture
	depthView        *wgpu.TextureView

	MouseCaptured bool

	LastTime       float64
	LastRenderTime float64
	FrameCount     int
	FPS            float64
	FPSTime        float64
}

func NewApp(window *glfw.Window, logger sox.Logger) *App {
	if logger == nil {
		logger = sox.NewNopLogger()
	}
	return &App{
		Window: window,
		Log:    logger,
		Camera: core.NewCamera(),
	}
}

func (a *App) Init(fontPath string) error {
	// WebGPU Init
	a.Instance = wgpu.CreateInstance(nil)

	surface := a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))
	a.Surface = surface

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	a.Queue = a.Device.GetQueue()

	// Config
	width, height := a.Window.GetFramebufferSize()
	caps := surface.GetCapabilities(adapter)
	format := caps.Formats[0]

	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, a.Device, a.Config)

	if err := a.setupDepthTexture(width, height); err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}

	a.cameraBuffer, err = a.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "CameraUniform",
		Size:  256,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create camera buffer: %w", err)
	}

	// Passes
	a.MeshPass, err = gpu.NewMeshRenderPass(a.Device, format, DepthFormat)
	if err != nil {
		return fmt.Errorf("create mesh pass: %w", err)
	}
	a.ParticlePass, err = gpu.NewParticleRenderPass(a.Device, format, DepthFormat)
	if err != nil {
		return fmt.Errorf("create particle pass: %w", err)
	}

	a.meshCameraBG, err = a.MeshPass.CreateCameraBindGroup(a.cameraBuffer)
	if err != nil {
		return fmt.Errorf("create mesh camera bind group: %w", err)
	}
	a.particleCameraBG, err = a.ParticlePass.CreateCameraBindGroup(a.cameraBuffer)
	if err != nil {
		return fmt.Errorf("create particle camera bind group: %w", err)
	}

	// Text Rendering Setup
	a.TextRenderer, err = core.NewTextRenderer(fontPath, 24)
	if err != nil {
		a.Log.Warnf("Failed to initialize text renderer: %v", err)
		a.TextRenderer = nil
	} else {
		a.TextPass, err = gpu.NewTextRenderPass(a.Device, format, DepthFormat, a.TextRenderer)
		if err != nil {
			a.Log.Warnf("Failed to create text pass: %v", err)
			a.TextPass = nil
		}
	}

	// Initialize time
	a.LastTime = glfw.GetTime()

	return nil
}

func (a *App) setupDepthTexture(w, h int) error {
	if a.depthView != nil {
		a.depthView.Release()
		a.depthView = nil
	}
	if a.depthTexture != nil {
		a.depthTexture.Release()
		a.depthTexture = nil
	}

	tex, err := a.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "DepthTexture",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		Dimension:     wgpu.TextureDimension2D,
		Format:        DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}
	a.depthTexture = tex
	a.depthView = view
	return nil
}

func (a *App) Resize(w, h int) {
	if w > 0 && h > 0 {
		a.Config.Width = uint32(w)
		a.Config.Height = uint32(h)
		a.Surface.Configure(a.Adapter, a.Device, a.Config)
		if err := a.setupDepthTexture(w, h); err != nil {
			a.Log.Errorf("Recreate depth texture: %v", err)
		}
	}
}

// AddEmitter registers an emitter for simulation and drawing.
func (a *App) AddEmitter(e *core.Emitter) error {
	if err := a.ParticlePass.AddEmitter(e); err != nil {
		return err
	}
	a.Emitters = append(a.Emitters, e)
	return nil
}

// AddMesh uploads a static mesh and registers it for drawing.
func (a *App) AddMesh(mesh *core.Mesh, transform core.Transform, colour mgl32.Vec4) (*gpu.MeshObject, error) {
	return a.MeshPass.AddMesh(mesh, transform, colour)
}

// Update advances the simulation by the wall-clock frame time and stages
// every GPU upload for the next Render.
func (a *App) Update() {
	now := glfw.GetTime()
	dt := float32(now - a.LastTime)
	a.LastTime = now

	a.handleMovement(dt)

	cameraTransform := a.Camera.WorldTransform()
	for _, e := range a.Emitters {
		e.Update(dt, cameraTransform)
	}

	// Matrices
	view := a.Camera.ViewMatrix()
	aspect := float32(a.Config.Width) / float32(a.Config.Height)
	if aspect == 0 {
		aspect = 1.0
	}
	proj := mgl32.Perspective(mgl32.DegToRad(60), aspect, 0.1, 1000.0)
	viewProj := proj.Mul4(view)
	a.Queue.WriteBuffer(a.cameraBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&viewProj)), unsafe.Sizeof(viewProj)))

	a.MeshPass.Update(a.Queue)
	a.ParticlePass.Update(a.Queue)

	if a.TextPass != nil && len(a.TextItems) > 0 {
		vertices := a.TextRenderer.BuildVertices(a.TextItems, int(a.Config.Width), int(a.Config.Height))
		a.TextPass.Update(a.Queue, vertices)
	}
}

func (a *App) handleMovement(dt float32) {
	move := mgl32.Vec3{}
	if a.Window.GetKey(glfw.KeyW) == glfw.Press {
		move = move.Add(a.Camera.Forward())
	}
	if a.Window.GetKey(glfw.KeyS) == glfw.Press {
		move = move.Sub(a.Camera.Forward())
	}
	if a.Window.GetKey(glfw.KeyD) == glfw.Press {
		move = move.Add(a.Camera.Right())
	}
	if a.Window.GetKey(glfw.KeyA) == glfw.Press {
		move = move.Sub(a.Camera.Right())
	}
	if a.Window.GetKey(glfw.KeySpace) == glfw.Press {
		move = move.Add(mgl32.Vec3{0, 1, 0})
	}
	if a.Window.GetKey(glfw.KeyLeftShift) == glfw.Press {
		move = move.Sub(mgl32.Vec3{0, 1, 0})
	}
	if move.Len() > 0 {
		a.Camera.Position = a.Camera.Position.Add(move.Normalize().Mul(a.Camera.Speed * dt))
	}
}

func (a *App) ClearText() {
	a.TextItems = a.TextItems[:0]
}

func (a *App) DrawText(text string, x, y float32, scale float32, colour [4]float32) {
	a.TextItems = append(a.TextItems, core.TextItem{
		Text:     text,
		Position: [2]float32{x, y},
		Scale:    scale,
		Colour:   colour,
	})
}

func (a *App) Render() {
	if a.depthView == nil {
		return
	}

	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Log.Errorf("GetCurrentTexture failed: %v", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		a.Log.Errorf("CreateView failed: %v", err)
		return
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.Log.Errorf("CreateCommandEncoder failed: %v", err)
		return
	}

	rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{0.05, 0.06, 0.09, 1},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            a.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})

	a.MeshPass.Draw(rPass, a.meshCameraBG)
	a.ParticlePass.Draw(rPass, a.particleCameraBG)
	if a.TextPass != nil && len(a.TextItems) > 0 {
		a.TextPass.Draw(rPass)
	}

	err = rPass.End()
	if err != nil {
		a.Log.Errorf("Render pass End failed: %v", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		a.Log.Errorf("Encoder Finish failed: %v", err)
		return
	}
	a.Queue.Submit(cmd)
	a.Surface.Present()

	// Update FPS
	now := glfw.GetTime()
	if a.LastRenderTime > 0 {
		a.FrameCount++
		a.FPSTime += now - a.LastRenderTime
		if a.FPSTime >= 1.0 {
			a.FPS = float64(a.FrameCount) / a.FPSTime
			a.FrameCount = 0
			a.FPSTime = 0
		}
	}
	a.LastRenderTime = now
}

// Release frees everything the app allocated on the device.
func (a *App) Release() {
	if a.TextPass != nil {
		a.TextPass.Release()
		a.TextPass = nil
	}
	if a.ParticlePass != nil {
		a.ParticlePass.Release()
		a.ParticlePass = nil
	}
	if a.MeshPass != nil {
		a.MeshPass.Release()
		a.MeshPass = nil
	}
	if a.particleCameraBG != nil {
		a.particleCameraBG.Release()
		a.particleCameraBG = nil
	}
	if a.meshCameraBG != nil {
		a.meshCameraBG.Release()
		a.meshCameraBG = nil
	}
	if a.cameraBuffer != nil {
		a.cameraBuffer.Release()
		a.cameraBuffer = nil
	}
	if a.depthView != nil {
		a.depthView.Release()
		a.depthView = nil
	}
	if a.depthTexture != nil {
		a.depthTexture.Release()
		a.depthTexture = nil
	}
}
