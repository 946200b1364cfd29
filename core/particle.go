package core

import "github.com/go-gl/mathgl/mgl32"

// Particle is one slot in an emitter's pool. Slots below the emitter's
// firstDead boundary are live; the rest are dead and hold stale data.
type Particle struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Lifetime float32 // seconds since emission
	Lifespan float32 // seconds until retirement
	Size     float32
	Colour   mgl32.Vec4
}

// ParticleVertex matches WGSL layout in particles.wgsl
// struct VertexInput { vec4 position; vec4 colour; }
type ParticleVertex struct {
	Position [4]float32
	Colour   [4]float32
}

// QuadIndices returns the index list for quadCount packed quads, two
// triangles per quad: {4i, 4i+1, 4i+2, 4i, 4i+2, 4i+3}. The pattern only
// depends on quadCount, so render passes build it once at full capacity
// and draw a prefix of it each frame.
func QuadIndices(quadCount int) []uint32 {
	indices := make([]uint32, quadCount*6)
	for i := 0; i < quadCount; i++ {
		base := uint32(i * 4)
		indices[i*6+0] = base
		indices[i*6+1] = base + 1
		indices[i*6+2] = base + 2
		indices[i*6+3] = base
		indices[i*6+4] = base + 2
		indices[i*6+5] = base + 3
	}
	return indices
}
