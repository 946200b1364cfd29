package sox

import (
	"os"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/NerbzHub/SocksAndSandalsGraphicsEngine/core"
)

func TestEmitterPresetRoundTrip(t *testing.T) {
	presets := []EmitterPreset{
		{
			Name:     "fountain",
			Position: mgl32.Vec3{0, 1, 0},
			Config: core.EmitterConfig{
				MaxParticles: 500,
				EmitRate:     120,
				LifespanMin:  1.5,
				LifespanMax:  3,
				SpeedMin:     4,
				SpeedMax:     7,
				StartSize:    0.6,
				EndSize:      0.1,
				StartColour:  mgl32.Vec4{0.2, 0.5, 1, 1},
				EndColour:    mgl32.Vec4{0.8, 0.9, 1, 0},
			},
		},
		{
			Name:     "embers",
			Position: mgl32.Vec3{-4, 0.5, 2},
			Config: core.EmitterConfig{
				MaxParticles: 200,
				EmitRate:     40,
				LifespanMin:  0.8,
				LifespanMax:  1.6,
				SpeedMin:     1,
				SpeedMax:     2.5,
				StartSize:    0.3,
				EndSize:      0.05,
				StartColour:  mgl32.Vec4{1, 0.55, 0.1, 1},
				EndColour:    mgl32.Vec4{0.4, 0.05, 0, 0},
			},
		},
	}

	testFile := "test_presets.json"
	defer os.Remove(testFile)

	if err := SaveEmitterPresets(testFile, presets); err != nil {
		t.Fatalf("Failed to save presets: %v", err)
	}

	loaded, err := LoadEmitterPresets(testFile)
	if err != nil {
		t.Fatalf("Failed to load presets: %v", err)
	}

	if len(loaded) != len(presets) {
		t.Fatalf("Expected %d presets, got %d", len(presets), len(loaded))
	}
	for i := range presets {
		if loaded[i] != presets[i] {
			t.Errorf("Preset %q changed across the round trip: %+v vs %+v", presets[i].Name, loaded[i], presets[i])
		}
	}
}

func TestEmitterPresetSpawn(t *testing.T) {
	preset := EmitterPreset{
		Name:     "fountain",
		Position: mgl32.Vec3{2, 1, -3},
		Config: core.EmitterConfig{
			MaxParticles: 32,
			EmitRate:     8,
			LifespanMin:  1,
			LifespanMax:  1,
			SpeedMin:     1,
			SpeedMax:     1,
			StartSize:    1,
			EndSize:      1,
			StartColour:  mgl32.Vec4{1, 1, 1, 1},
			EndColour:    mgl32.Vec4{1, 1, 1, 0},
		},
	}

	e := preset.Spawn()
	if e.Capacity() != 32 {
		t.Errorf("Expected capacity 32, got %d", e.Capacity())
	}
	if e.Position != preset.Position {
		t.Errorf("Expected emitter at %v, got %v", preset.Position, e.Position)
	}
	if e.Alive() != 0 {
		t.Errorf("Expected a fresh emitter with no live particles, got %d", e.Alive())
	}
}

func TestLoadEmitterPresetsMissingFile(t *testing.T) {
	if _, err := LoadEmitterPresets("no_such_file.json"); err == nil {
		t.Fatal("Expected an error for a missing file")
	}
}

func TestLoadEmitterPresetsMalformed(t *testing.T) {
	testFile := "test_presets_malformed.json"
	defer os.Remove(testFile)

	if err := os.WriteFile(testFile, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	if _, err := LoadEmitterPresets(testFile); err == nil {
		t.Fatal("Expected a parse error")
	}
}
