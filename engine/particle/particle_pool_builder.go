package particle

import (
	"log/slog"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// ParticlePoolBuilderOption is a functional option for configuring a ParticlePool via NewParticlePool.
type ParticlePoolBuilderOption func(*particlePool)

// WithCapacity is an option builder that sets the fixed number of particle slots.
//
// Parameters:
//   - capacity: the slot count (ignored unless positive)
//
// Returns:
//   - ParticlePoolBuilderOption: a function that applies the capacity option to a pool
func WithCapacity(capacity int) ParticlePoolBuilderOption {
	return func(p *particlePool) {
		if capacity > 0 {
			p.capacity = capacity
		}
	}
}

// WithMaxLifetime is an option builder that sets the lifetime of a respawned particle.
//
// Parameters:
//   - seconds: the maximum lifetime (ignored unless positive)
//
// Returns:
//   - ParticlePoolBuilderOption: a function that applies the lifetime option to a pool
func WithMaxLifetime(seconds float32) ParticlePoolBuilderOption {
	return func(p *particlePool) {
		if seconds > 0 {
			p.maxLifetime = seconds
		}
	}
}

// WithEmissionOrigin is an option builder that sets the spawn point.
//
// Parameters:
//   - origin: the emission origin
//
// Returns:
//   - ParticlePoolBuilderOption: a function that applies the origin option to a pool
func WithEmissionOrigin(origin mgl32.Vec3) ParticlePoolBuilderOption {
	return func(p *particlePool) {
		p.emissionOrigin = origin
	}
}

// WithHorizontalRange is an option builder that sets the uniform range of horizontal spawn
// offsets and horizontal spawn velocities.
//
// Parameters:
//   - lo: inclusive lower bound
//   - hi: exclusive upper bound
//
// Returns:
//   - ParticlePoolBuilderOption: a function that applies the range option to a pool
func WithHorizontalRange(lo, hi float32) ParticlePoolBuilderOption {
	return func(p *particlePool) {
		p.horizontal = [2]float32{lo, hi}
	}
}

// WithVerticalRange is an option builder that sets the uniform range of upward spawn velocity.
// Both bounds should be positive so the plume rises.
//
// Parameters:
//   - lo: inclusive lower bound
//   - hi: exclusive upper bound
//
// Returns:
//   - ParticlePoolBuilderOption: a function that applies the range option to a pool
func WithVerticalRange(lo, hi float32) ParticlePoolBuilderOption {
	return func(p *particlePool) {
		p.vertical = [2]float32{lo, hi}
	}
}

// WithDamping is an option builder that sets the integration damping factor.
//
// Parameters:
//   - damping: the factor applied to every position step
//
// Returns:
//   - ParticlePoolBuilderOption: a function that applies the damping option to a pool
func WithDamping(damping float32) ParticlePoolBuilderOption {
	return func(p *particlePool) {
		p.damping = damping
	}
}

// WithTurbulence is an option builder that sets the width of the horizontal velocity jitter.
//
// Parameters:
//   - turbulence: the jitter width; 0 disables it
//
// Returns:
//   - ParticlePoolBuilderOption: a function that applies the turbulence option to a pool
func WithTurbulence(turbulence float32) ParticlePoolBuilderOption {
	return func(p *particlePool) {
		p.turbulence = turbulence
	}
}

// WithRand is an option builder that sets the random source used for spawning and jitter.
//
// Parameters:
//   - r: the random source
//
// Returns:
//   - ParticlePoolBuilderOption: a function that applies the random source option to a pool
func WithRand(r *rand.Rand) ParticlePoolBuilderOption {
	return func(p *particlePool) {
		p.rng = r
	}
}

// WithSeed is an option builder that seeds a PCG random source.
//
// Parameters:
//   - seed: the seed
//
// Returns:
//   - ParticlePoolBuilderOption: a function that applies the seed option to a pool
func WithSeed(seed uint64) ParticlePoolBuilderOption {
	return func(p *particlePool) {
		p.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithBufferKeys is an option builder that names the instance and quad vertex buffers.
//
// Parameters:
//   - instances: the instance buffer name
//   - quad: the quad mesh buffer name
//
// Returns:
//   - ParticlePoolBuilderOption: a function that applies the buffer names to a pool
func WithBufferKeys(instances, quad string) ParticlePoolBuilderOption {
	return func(p *particlePool) {
		p.instanceBufferKey = instances
		p.quadBufferKey = quad
	}
}

// WithLogger is an option builder that sets the logger for saturation diagnostics.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - ParticlePoolBuilderOption: a function that applies the logger option to a pool
func WithLogger(logger *slog.Logger) ParticlePoolBuilderOption {
	return func(p *particlePool) {
		if logger != nil {
			p.logger = logger
		}
	}
}
