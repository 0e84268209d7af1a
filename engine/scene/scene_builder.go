package scene

import (
	"log/slog"

	"github.com/Carmen-Shannon/volcano/engine/camera"
	"github.com/Carmen-Shannon/volcano/engine/game_object"
	"github.com/Carmen-Shannon/volcano/engine/lava"
	"github.com/Carmen-Shannon/volcano/engine/light"
	"github.com/Carmen-Shannon/volcano/engine/model"
	"github.com/Carmen-Shannon/volcano/engine/particle"
	"github.com/Carmen-Shannon/volcano/engine/renderer/animator"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithLogger sets the logger for scene diagnostics.
//
// Parameters:
//   - logger: the logger; nil keeps the default
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCamera sets the scene's camera. The camera should carry a controller for input and
// crab flee directions.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithParticlePool sets the ash particle pool.
//
// Parameters:
//   - pool: the particle pool
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithParticlePool(pool particle.ParticlePool) SceneBuilderOption {
	return func(s *scene) {
		s.particles = pool
	}
}

// WithSpawnBudget sets how many dead particles each Update may resurrect.
// Negative values are treated as 0.
//
// Parameters:
//   - budget: the spawn budget
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSpawnBudget(budget int) SceneBuilderOption {
	return func(s *scene) {
		s.spawnBudget = max(budget, 0)
	}
}

// WithParticleStep sets the fixed particle integration step. Non-positive values are ignored.
//
// Parameters:
//   - seconds: the step in seconds
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithParticleStep(seconds float32) SceneBuilderOption {
	return func(s *scene) {
		if seconds > 0 {
			s.particleStep = seconds
		}
	}
}

// WithFishSchool sets the fish school and the model its parts are drawn from.
// A nil model keeps the school simulated but undrawn.
//
// Parameters:
//   - school: the fish school
//   - m: the fish model
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithFishSchool(school game_object.FishSchool, m model.Model) SceneBuilderOption {
	return func(s *scene) {
		s.fish = school
		s.fishModel = m
	}
}

// WithCrabHerd sets the crab herd and the model every crab is drawn with.
// A nil model keeps the herd simulated and pickable but undrawn.
//
// Parameters:
//   - herd: the crab herd
//   - m: the crab model
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCrabHerd(herd game_object.CrabHerd, m model.Model) SceneBuilderOption {
	return func(s *scene) {
		s.crabs = herd
		s.crabModel = m
	}
}

// WithLava sets the lava surface.
//
// Parameters:
//   - surface: the lava surface
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLava(surface lava.Surface) SceneBuilderOption {
	return func(s *scene) {
		s.lava = surface
	}
}

// WithSun sets the moving sun.
//
// Parameters:
//   - sun: the sun
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSun(sun light.Sun) SceneBuilderOption {
	return func(s *scene) {
		s.sun = sun
	}
}

// WithAnimators adds skeletal animators advanced every tick. A model drawn by the scene uses
// the bone buffer of the animator bound to it.
//
// Parameters:
//   - animators: the animators
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithAnimators(animators ...animator.Animator) SceneBuilderOption {
	return func(s *scene) {
		for _, a := range animators {
			if a != nil {
				s.animators = append(s.animators, a)
			}
		}
	}
}

// WithStaticModels adds models drawn once at the world origin, such as the volcano and terrain.
//
// Parameters:
//   - models: the static models
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithStaticModels(models ...model.Model) SceneBuilderOption {
	return func(s *scene) {
		for _, m := range models {
			if m != nil {
				s.staticModels = append(s.staticModels, m)
			}
		}
	}
}

// WithViewport sets the initial viewport size used for the camera aspect and picking.
// Non-positive dimensions are ignored.
//
// Parameters:
//   - width: the viewport width in pixels
//   - height: the viewport height in pixels
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithViewport(width, height int) SceneBuilderOption {
	return func(s *scene) {
		if width > 0 && height > 0 {
			s.width, s.height = width, height
		}
	}
}
