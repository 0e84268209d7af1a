package game_object

import "github.com/go-gl/mathgl/mgl32"

// CrabBuilderOption is a functional option for configuring a Crab via NewCrab.
type CrabBuilderOption func(*crab)

// WithCrabObject sets the GameObject holding the crab's transform and model.
//
// Parameters:
//   - obj: the crab's object
//
// Returns:
//   - CrabBuilderOption: a function that applies the object to a crab
func WithCrabObject(obj GameObject) CrabBuilderOption {
	return func(c *crab) {
		c.GameObject = obj
	}
}

// WithFleeDuration sets how long a triggered crab runs.
//
// Parameters:
//   - seconds: the countdown length (ignored unless positive)
//
// Returns:
//   - CrabBuilderOption: a function that applies the duration to a crab
func WithFleeDuration(seconds float32) CrabBuilderOption {
	return func(c *crab) {
		if seconds > 0 {
			c.duration = seconds
		}
	}
}

// WithFleeVelocity sets the per-axis flee speed.
//
// Parameters:
//   - velocity: the speed along each world axis
//
// Returns:
//   - CrabBuilderOption: a function that applies the velocity to a crab
func WithFleeVelocity(velocity mgl32.Vec3) CrabBuilderOption {
	return func(c *crab) {
		c.velocity = velocity
	}
}
