package main

import (
	"flag"
	"fmt"
	"runtime"

	sox "github.com/NerbzHub/SocksAndSandalsGraphicsEngine"
	"github.com/NerbzHub/SocksAndSandalsGraphicsEngine/app"
	"github.com/NerbzHub/SocksAndSandalsGraphicsEngine/core"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	runtime.LockOSThread()
}

func defaultPresets() []sox.EmitterPreset {
	return []sox.EmitterPreset{
		{
			Name:     "fountain",
			Position: mgl32.Vec3{0, 0.5, 0},
			Config: core.EmitterConfig{
				MaxParticles: 2000,
				EmitRate:     250,
				LifespanMin:  1.2,
				LifespanMax:  2.8,
				SpeedMin:     4,
				SpeedMax:     7,
				StartSize:    0.35,
				EndSize:      0.05,
				StartColour:  mgl32.Vec4{0.25, 0.55, 1, 1},
				EndColour:    mgl32.Vec4{0.85, 0.95, 1, 0},
			},
		},
		{
			Name:     "embers",
			Position: mgl32.Vec3{-6, 0.5, -3},
			Config: core.EmitterConfig{
				MaxParticles: 600,
				EmitRate:     90,
				LifespanMin:  0.8,
				LifespanMax:  1.8,
				SpeedMin:     1,
				SpeedMax:     3,
				StartSize:    0.25,
				EndSize:      0.02,
				StartColour:  mgl32.Vec4{1, 0.55, 0.12, 1},
				EndColour:    mgl32.Vec4{0.35, 0.05, 0, 0},
			},
		},
	}
}

func main() {
	presetPath := flag.String("presets", "", "Emitter preset file (JSON)")
	fontPath := flag.String("font", "Roboto-Medium.ttf", "Font for the HUD")
	flag.Parse()

	logger := sox.NewDefaultLogger("demo", false)

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(1280, 720, "Socks And Sandals", nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	application := app.NewApp(window, logger)
	if err := application.Init(*fontPath); err != nil {
		panic(err)
	}
	defer application.Release()

	// Scene assets
	server := sox.NewAssetServer()
	groundId := server.AddMesh(core.NewQuadMesh(40))
	blockId := server.AddMesh(core.NewBoxMesh(mgl32.Vec3{1, 1, 1}))

	ground, _ := server.Mesh(groundId)
	if _, err := application.AddMesh(ground, core.NewTransform(), mgl32.Vec4{0.45, 0.5, 0.55, 1}); err != nil {
		panic(err)
	}

	block, _ := server.Mesh(blockId)
	blockTransform := core.NewTransform()
	blockTransform.Position = mgl32.Vec3{4, 1, -2}
	if _, err := application.AddMesh(block, blockTransform, mgl32.Vec4{0.7, 0.35, 0.3, 1}); err != nil {
		panic(err)
	}

	// Emitters
	presets := defaultPresets()
	if *presetPath != "" {
		loaded, err := sox.LoadEmitterPresets(*presetPath)
		if err != nil {
			logger.Warnf("Could not load presets from %s: %v", *presetPath, err)
		} else {
			presets = loaded
		}
	}
	for _, p := range presets {
		server.AddEmitterConfig(p.Config)
		e := p.Spawn()
		if err := application.AddEmitter(e); err != nil {
			panic(err)
		}
		logger.Infof("Emitter %q: %d particle slots at %.0f/s", p.Name, e.Capacity(), p.Config.EmitRate)
	}

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})

	// Input callbacks
	var lastX, lastY float64
	firstMouse := true
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if !application.MouseCaptured {
			firstMouse = true
			return
		}
		if firstMouse {
			lastX, lastY = xpos, ypos
			firstMouse = false
			return
		}
		dx := float32(xpos - lastX)
		dy := float32(ypos - lastY)
		lastX, lastY = xpos, ypos

		cam := application.Camera
		cam.Yaw += dx * cam.Sensitivity
		cam.Pitch -= dy * cam.Sensitivity

		// Clamp pitch
		if cam.Pitch > 1.55 {
			cam.Pitch = 1.55
		}
		if cam.Pitch < -1.55 {
			cam.Pitch = -1.55
		}
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyTab && action == glfw.Press {
			application.MouseCaptured = !application.MouseCaptured
			if application.MouseCaptured {
				w.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			} else {
				w.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
			}
		}
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
		if key == glfw.KeyF5 && action == glfw.Press {
			if err := sox.SaveEmitterPresets("presets_out.json", presets); err != nil {
				logger.Errorf("Save presets: %v", err)
			} else {
				logger.Infof("Saved presets to presets_out.json")
			}
		}
	})

	for !window.ShouldClose() {
		glfw.PollEvents()

		application.ClearText()
		application.DrawText(fmt.Sprintf("FPS: %.1f", application.FPS), 10, 10, 1.0, [4]float32{1, 1, 0, 1})
		y := float32(34)
		for i, e := range application.Emitters {
			application.DrawText(fmt.Sprintf("%s: %d / %d", presets[i].Name, e.Alive(), e.Capacity()), 10, y, 1.0, [4]float32{1, 1, 1, 1})
			y += 24
		}

		application.Update()
		application.Render()
	}
}
