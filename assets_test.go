package sox

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NerbzHub/SocksAndSandalsGraphicsEngine/core"
)

func TestAssetServerMeshes(t *testing.T) {
	server := NewAssetServer()

	quad := core.NewQuadMesh(10)
	id := server.AddMesh(quad)
	require.NotEmpty(t, id)

	got, ok := server.Mesh(id)
	require.True(t, ok)
	assert.Same(t, quad, got)

	_, ok = server.Mesh("no-such-asset")
	assert.False(t, ok)
}

func TestAssetServerEmitterConfigs(t *testing.T) {
	server := NewAssetServer()

	cfg := core.EmitterConfig{
		MaxParticles: 64,
		EmitRate:     10,
		LifespanMin:  1,
		LifespanMax:  2,
		SpeedMin:     3,
		SpeedMax:     4,
		StartSize:    1,
		EndSize:      0.5,
		StartColour:  mgl32.Vec4{1, 0, 0, 1},
		EndColour:    mgl32.Vec4{1, 1, 0, 0},
	}
	id := server.AddEmitterConfig(cfg)
	require.NotEmpty(t, id)

	got, ok := server.EmitterConfig(id)
	require.True(t, ok)
	assert.Equal(t, cfg, got)

	_, ok = server.EmitterConfig("no-such-asset")
	assert.False(t, ok)
}

func TestAssetIdsAreUnique(t *testing.T) {
	server := NewAssetServer()

	a := server.AddMesh(core.NewQuadMesh(1))
	b := server.AddMesh(core.NewQuadMesh(1))
	assert.NotEqual(t, a, b)
}
