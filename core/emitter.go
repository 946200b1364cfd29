package core

import (
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// EmitterConfig holds the fixed parameters of a particle effect. Values are
// read at construction and never change for the lifetime of the emitter.
//
// Callers must supply MaxParticles > 0, EmitRate > 0,
// 0 <= LifespanMin <= LifespanMax and SpeedMin <= SpeedMax; the emitter
// does not re-check them.
type EmitterConfig struct {
	MaxParticles int     `json:"maxParticles"`
	EmitRate     float32 `json:"emitRate"` // particles per second
	LifespanMin  float32 `json:"lifespanMin"`
	LifespanMax  float32 `json:"lifespanMax"`
	SpeedMin     float32 `json:"speedMin"`
	SpeedMax     float32 `json:"speedMax"`
	StartSize    float32 `json:"startSize"`
	EndSize      float32 `json:"endSize"`

	StartColour mgl32.Vec4 `json:"startColour"`
	EndColour   mgl32.Vec4 `json:"endColour"`
}

// Emitter simulates a fixed-capacity pool of particles on the CPU and
// restages them as camera-facing quads every update. The pool is
// partitioned by firstDead: slots [0, firstDead) are live, the rest dead.
// All storage is allocated once at construction; Update never allocates.
//
// An Emitter is not safe for concurrent use.
type Emitter struct {
	// Position is the world-space spawn point for new particles. It may be
	// moved freely between updates.
	Position mgl32.Vec3

	cfg EmitterConfig

	particles []Particle
	firstDead int

	// Staged quad vertices, 4 per particle. Only [0, firstDead*4) is
	// meaningful after an update; the tail is stale.
	vertices []ParticleVertex

	emitTimer    float32
	emitInterval float32 // seconds between single emissions

	rng *rand.Rand
}

// NewEmitter allocates pool and staging storage for cfg, with randomness
// seeded from the clock.
func NewEmitter(cfg EmitterConfig) *Emitter {
	return NewSeededEmitter(cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSeededEmitter is NewEmitter with a caller-supplied random source, so
// effects can be replayed deterministically.
func NewSeededEmitter(cfg EmitterConfig, rng *rand.Rand) *Emitter {
	return &Emitter{
		cfg:          cfg,
		particles:    make([]Particle, cfg.MaxParticles),
		vertices:     make([]ParticleVertex, cfg.MaxParticles*4),
		emitInterval: 1.0 / cfg.EmitRate,
		rng:          rng,
	}
}

// Emit starts one particle in the first dead slot. When the pool is
// saturated it does nothing; a slot frees up as soon as a live particle
// retires, so the effect resumes by itself.
func (e *Emitter) Emit() {
	if e.firstDead >= len(e.particles) {
		return
	}
	p := &e.particles[e.firstDead]
	e.firstDead++

	p.Position = e.Position
	p.Lifetime = 0
	p.Lifespan = e.randRange(e.cfg.LifespanMin, e.cfg.LifespanMax)
	p.Colour = e.cfg.StartColour
	p.Size = e.cfg.StartSize

	// Direction is sampled per-axis in [-1,1] and normalised. That biases
	// toward cube corners; acceptable for these effects.
	speed := e.randRange(e.cfg.SpeedMin, e.cfg.SpeedMax)
	dir := mgl32.Vec3{
		e.rng.Float32()*2 - 1,
		e.rng.Float32()*2 - 1,
		e.rng.Float32()*2 - 1,
	}
	p.Velocity = dir.Normalize().Mul(speed)
}

// Update advances the effect by dt seconds: runs due emissions, ages and
// retires particles, integrates motion, interpolates size and colour over
// each particle's life, and restages the live pool as billboard quads
// facing the camera. cameraTransform is the camera's world transform; its
// second column is the camera up axis and its fourth the camera position.
//
// Retirement is swap-remove: the last live particle replaces the retired
// slot and the slot is examined again in the same pass, so the moved
// particle is aged and staged this frame like every other survivor.
func (e *Emitter) Update(dt float32, cameraTransform mgl32.Mat4) {
	e.emitTimer += dt
	for e.emitTimer > e.emitInterval {
		e.Emit()
		e.emitTimer -= e.emitInterval
	}

	camPos := cameraTransform.Col(3).Vec3()
	camUp := cameraTransform.Col(1).Vec3()

	quad := 0
	i := 0
	for i < e.firstDead {
		p := &e.particles[i]
		p.Lifetime += dt

		if p.Lifetime >= p.Lifespan {
			*p = e.particles[e.firstDead-1]
			e.firstDead--
			continue
		}

		p.Position = p.Position.Add(p.Velocity.Mul(dt))

		t := p.Lifetime / p.Lifespan
		p.Size = lerp(e.cfg.StartSize, e.cfg.EndSize, t)
		p.Colour = lerpVec4(e.cfg.StartColour, e.cfg.EndColour, t)

		e.stageQuad(quad, p, camPos, camUp)
		quad++
		i++
	}
}

// stageQuad writes the four billboard corners for p into quad slot q.
// The quad lies in the plane perpendicular to the particle-to-camera axis,
// oriented by the camera's up vector.
func (e *Emitter) stageQuad(q int, p *Particle, camPos, camUp mgl32.Vec3) {
	zAxis := camPos.Sub(p.Position).Normalize()
	xAxis := camUp.Cross(zAxis)
	yAxis := zAxis.Cross(xAxis)

	h := p.Size * 0.5
	corners := [4][2]float32{{h, h}, {-h, h}, {-h, -h}, {h, -h}}
	colour := [4]float32{p.Colour.X(), p.Colour.Y(), p.Colour.Z(), p.Colour.W()}

	base := q * 4
	for c, corner := range corners {
		pos := p.Position.Add(xAxis.Mul(corner[0])).Add(yAxis.Mul(corner[1]))
		e.vertices[base+c] = ParticleVertex{
			Position: [4]float32{pos.X(), pos.Y(), pos.Z(), 1},
			Colour:   colour,
		}
	}
}

// Alive reports how many particles are currently live.
func (e *Emitter) Alive() int { return e.firstDead }

// Capacity reports the fixed pool size.
func (e *Emitter) Capacity() int { return len(e.particles) }

// Config returns the parameters the emitter was built with.
func (e *Emitter) Config() EmitterConfig { return e.cfg }

// Vertices returns the staged quad vertices for the live particles, four
// per particle in pool order. The slice aliases internal storage and is
// valid until the next Update.
func (e *Emitter) Vertices() []ParticleVertex {
	return e.vertices[:e.firstDead*4]
}

// IndexCount reports how many indices a draw of the current live pool
// consumes: six per particle.
func (e *Emitter) IndexCount() int { return e.firstDead * 6 }

func (e *Emitter) randRange(min, max float32) float32 {
	return min + e.rng.Float32()*(max-min)
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

func lerpVec4(a, b mgl32.Vec4, t float32) mgl32.Vec4 {
	return mgl32.Vec4{
		lerp(a.X(), b.X(), t),
		lerp(a.Y(), b.Y(), t),
		lerp(a.Z(), b.Z(), t),
		lerp(a.W(), b.W(), t),
	}
}
