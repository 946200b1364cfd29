package sox

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/NerbzHub/SocksAndSandalsGraphicsEngine/core"
)

// EmitterPreset names one emitter configuration and where to place it.
type EmitterPreset struct {
	Name     string             `json:"name"`
	Position mgl32.Vec3         `json:"position"`
	Config   core.EmitterConfig `json:"config"`
}

type presetFile struct {
	Emitters []EmitterPreset `json:"emitters"`
}

// SaveEmitterPresets writes the presets as indented JSON.
func SaveEmitterPresets(filename string, presets []EmitterPreset) error {
	data := presetFile{Emitters: presets}
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, bytes, 0644)
}

// LoadEmitterPresets reads a file written by SaveEmitterPresets.
func LoadEmitterPresets(filename string) ([]EmitterPreset, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var data presetFile
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return data.Emitters, nil
}

// Spawn builds a live emitter from the preset.
func (p EmitterPreset) Spawn() *core.Emitter {
	e := core.NewEmitter(p.Config)
	e.Position = p.Position
	return e
}
