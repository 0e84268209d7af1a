package particle

import (
	"log/slog"
	"math/rand/v2"

	"github.com/Carmen-Shannon/volcano/engine/renderer/staging"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultCapacity is the number of particle slots in a pool.
	DefaultCapacity = 3500

	// DefaultMaxLifetime is the lifetime in seconds a respawned particle starts with.
	DefaultMaxLifetime float32 = 7.0

	// DefaultDamping scales the integration step without changing the stored velocity.
	DefaultDamping float32 = 0.75

	// DefaultTurbulence is the full width of the per-frame horizontal velocity jitter.
	DefaultTurbulence float32 = 0.01
)

// DefaultEmissionOrigin is the volcano crater.
var DefaultEmissionOrigin = mgl32.Vec3{4.3, 40, -0.5}

// Particle is one slot of the pool.
type Particle struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3

	// Lifetime is the remaining lifetime in seconds; a slot at or below zero is dead.
	Lifetime float32
}

// Alive reports whether the particle has lifetime left.
func (p *Particle) Alive() bool {
	return p.Lifetime > 0
}

// SpawnReport summarises the spawn phase of one Update.
type SpawnReport struct {
	// Spawned is the number of dead slots resurrected, never more than the spawn budget.
	Spawned int

	// Scanned is the number of slots the cursor examined.
	Scanned int

	// Saturated is set when the scan gave up after examining every slot.
	Saturated bool
}

// particlePool is the implementation of the ParticlePool interface.
type particlePool struct {
	particles      []Particle
	capacity       int
	maxLifetime    float32
	emissionOrigin mgl32.Vec3
	horizontal     [2]float32
	vertical       [2]float32
	damping        float32
	turbulence     float32
	cursor         int
	rng            *rand.Rand
	logger         *slog.Logger

	positions []mgl32.Vec3
	ages      []float32

	instanceBufferKey string
	quadBufferKey     string
	quadStaged        bool
	instanceBuf       []byte
	stagedWriteData   []staging.BufferWrite
}

// ParticlePool defines the interface for a fixed-capacity ring of recycled particles.
//
// All slots are allocated dead at construction. Each Update resurrects up to a spawn budget
// of dead slots at the emission origin, found by a round-robin cursor that persists across
// calls, then integrates every live particle. Slots are never added or removed.
type ParticlePool interface {
	// Update runs one spawn phase followed by one integration step.
	// A saturated pool stops spawning for this call and logs a debug diagnostic.
	//
	// Parameters:
	//   - deltaTime: integration step in seconds
	//   - spawnBudget: the maximum number of dead slots to resurrect
	//
	// Returns:
	//   - SpawnReport: what the spawn phase did
	Update(deltaTime float32, spawnBudget int) SpawnReport

	// CollectRenderable returns the position and normalized age of every live particle.
	// Age is elapsed lifetime over maximum lifetime: 0 at spawn, approaching 1 at death.
	// Both slices are reused by the next call and are empty when nothing is alive.
	//
	// Returns:
	//   - []mgl32.Vec3: live particle positions
	//   - []float32: the matching normalized ages
	CollectRenderable() ([]mgl32.Vec3, []float32)

	// Flush stages the live particles as an instance buffer write, plus the quad mesh on
	// the first call.
	//
	// Returns:
	//   - uint32: the instance count to draw (0 means skip the draw)
	Flush() uint32

	// StagedWriteData returns and clears the pending GPU buffer writes.
	//
	// Returns:
	//   - []staging.BufferWrite: the slice of pending buffer writes
	StagedWriteData() []staging.BufferWrite

	// Particles returns the slot array for inspection. Callers must not modify it.
	//
	// Returns:
	//   - []Particle: all slots, alive or dead
	Particles() []Particle

	// AliveCount returns the number of live particles.
	//
	// Returns:
	//   - int: the live particle count, never above Capacity
	AliveCount() int

	// Capacity returns the fixed number of slots.
	//
	// Returns:
	//   - int: the pool capacity
	Capacity() int

	// MaxLifetime returns the lifetime a respawned particle starts with.
	//
	// Returns:
	//   - float32: the maximum lifetime in seconds
	MaxLifetime() float32

	// EmissionOrigin returns the spawn point.
	//
	// Returns:
	//   - mgl32.Vec3: the emission origin
	EmissionOrigin() mgl32.Vec3

	// SetEmissionOrigin moves the spawn point for future respawns.
	//
	// Parameters:
	//   - origin: the new emission origin
	SetEmissionOrigin(origin mgl32.Vec3)

	// Cursor returns the index of the next slot the spawn scan examines.
	//
	// Returns:
	//   - int: the cursor position
	Cursor() int

	// InstanceBufferKey returns the name of the instance vertex buffer.
	//
	// Returns:
	//   - string: the buffer name
	InstanceBufferKey() string

	// QuadBufferKey returns the name of the billboard quad vertex buffer.
	//
	// Returns:
	//   - string: the buffer name
	QuadBufferKey() string

	// Reset kills every particle and rewinds the cursor.
	Reset()
}

var _ ParticlePool = &particlePool{}

// NewParticlePool creates a new ParticlePool with the specified options.
// Applies default values first, then each option in order. The random source defaults to a
// fixed seed so runs are reproducible unless WithRand or WithSeed is given.
//
// Parameters:
//   - options: functional options to configure the pool
//
// Returns:
//   - ParticlePool: the pool with every slot dead
func NewParticlePool(options ...ParticlePoolBuilderOption) ParticlePool {
	p := &particlePool{
		capacity:          DefaultCapacity,
		maxLifetime:       DefaultMaxLifetime,
		emissionOrigin:    DefaultEmissionOrigin,
		horizontal:        [2]float32{-5, 5},
		vertical:          [2]float32{12, 25},
		damping:           DefaultDamping,
		turbulence:        DefaultTurbulence,
		logger:            slog.Default(),
		instanceBufferKey: "particles/instances",
		quadBufferKey:     "particles/quad",
	}
	for _, opt := range options {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewPCG(1, 1))
	}
	p.particles = make([]Particle, p.capacity)
	p.positions = make([]mgl32.Vec3, 0, p.capacity)
	p.ages = make([]float32, 0, p.capacity)
	return p
}

func (p *particlePool) uniform(r [2]float32) float32 {
	return r[0] + p.rng.Float32()*(r[1]-r[0])
}

// jitter reproduces ((rand % 100) / 100 - 0.5) * turbulence.
func (p *particlePool) jitter() float32 {
	return (float32(p.rng.IntN(100))/100 - 0.5) * p.turbulence
}

func (p *particlePool) Update(deltaTime float32, spawnBudget int) SpawnReport {
	var report SpawnReport
	for report.Spawned < spawnBudget {
		if report.Scanned >= p.capacity {
			report.Saturated = true
			p.logger.Debug("[Particles] no more particles to reset", "capacity", p.capacity, "spawned", report.Spawned, "budget", spawnBudget)
			break
		}
		report.Scanned++
		slot := &p.particles[p.cursor]
		p.cursor = (p.cursor + 1) % p.capacity
		if slot.Alive() {
			continue
		}
		p.respawn(slot)
		report.Spawned++
	}

	for i := range p.particles {
		pt := &p.particles[i]
		if !pt.Alive() {
			continue
		}
		pt.Velocity[0] += p.jitter()
		pt.Velocity[2] += p.jitter()
		pt.Position = pt.Position.Add(pt.Velocity.Mul(deltaTime * p.damping))
		pt.Lifetime -= deltaTime
	}
	return report
}

func (p *particlePool) respawn(pt *Particle) {
	pt.Position = p.emissionOrigin.Add(mgl32.Vec3{p.uniform(p.horizontal), 0, p.uniform(p.horizontal)})
	pt.Velocity = mgl32.Vec3{p.uniform(p.horizontal), p.uniform(p.vertical), p.uniform(p.horizontal)}
	pt.Lifetime = p.maxLifetime
}

func (p *particlePool) CollectRenderable() ([]mgl32.Vec3, []float32) {
	p.positions = p.positions[:0]
	p.ages = p.ages[:0]
	for i := range p.particles {
		pt := &p.particles[i]
		if !pt.Alive() {
			continue
		}
		p.positions = append(p.positions, pt.Position)
		p.ages = append(p.ages, (p.maxLifetime-pt.Lifetime)/p.maxLifetime)
	}
	return p.positions, p.ages
}

func (p *particlePool) Flush() uint32 {
	if !p.quadStaged {
		p.stagedWriteData = append(p.stagedWriteData, staging.BufferWrite{
			Buffer: p.quadBufferKey,
			Usage:  staging.BufferUsageVertex,
			Data:   QuadVertexData(),
		})
		p.quadStaged = true
	}

	positions, ages := p.CollectRenderable()
	if len(positions) == 0 {
		return 0
	}

	var inst GPUParticleInstance
	size := inst.Size()
	if cap(p.instanceBuf) < len(positions)*size {
		p.instanceBuf = make([]byte, p.capacity*size)
	}
	p.instanceBuf = p.instanceBuf[:len(positions)*size]
	for i := range positions {
		inst = GPUParticleInstance{Position: positions[i], Age: ages[i]}
		inst.MarshalInto(p.instanceBuf[i*size : (i+1)*size])
	}
	p.stagedWriteData = append(p.stagedWriteData, staging.BufferWrite{
		Buffer: p.instanceBufferKey,
		Usage:  staging.BufferUsageVertex,
		Data:   p.instanceBuf,
	})
	return uint32(len(positions))
}

func (p *particlePool) StagedWriteData() []staging.BufferWrite {
	writes := p.stagedWriteData
	p.stagedWriteData = nil
	return writes
}

func (p *particlePool) Particles() []Particle {
	return p.particles
}

func (p *particlePool) AliveCount() int {
	n := 0
	for i := range p.particles {
		if p.particles[i].Alive() {
			n++
		}
	}
	return n
}

func (p *particlePool) Capacity() int {
	return p.capacity
}

func (p *particlePool) MaxLifetime() float32 {
	return p.maxLifetime
}

func (p *particlePool) EmissionOrigin() mgl32.Vec3 {
	return p.emissionOrigin
}

func (p *particlePool) SetEmissionOrigin(origin mgl32.Vec3) {
	p.emissionOrigin = origin
}

func (p *particlePool) Cursor() int {
	return p.cursor
}

func (p *particlePool) InstanceBufferKey() string {
	return p.instanceBufferKey
}

func (p *particlePool) QuadBufferKey() string {
	return p.quadBufferKey
}

func (p *particlePool) Reset() {
	for i := range p.particles {
		p.particles[i] = Particle{}
	}
	p.cursor = 0
}
