package engine

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/volcano/engine/config"
	"github.com/Carmen-Shannon/volcano/engine/profiler"
	"github.com/Carmen-Shannon/volcano/engine/renderer"
	"github.com/Carmen-Shannon/volcano/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithTickRate sets the headless tick rate in frames per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetTickRate(fps)
	}
}

// WithTickInterval sets the headless tick interval directly. Non-positive values are ignored.
//
// Parameters:
//   - d: the tick interval
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickInterval(d time.Duration) EngineBuilderOption {
	return func(e *engine) {
		if d > 0 {
			e.engineTickRate = d
		}
	}
}

// WithFixedStep makes Run advance the scene by a constant step each frame instead of the
// measured wall time. Non-positive values keep wall time.
//
// Parameters:
//   - seconds: the step in seconds
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFixedStep(seconds float32) EngineBuilderOption {
	return func(e *engine) {
		e.fixedStep = max(seconds, 0)
	}
}

// WithWindow attaches a window. The engine then steps from the window's idle callback and
// routes resize and input events to the renderer and scene.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer each Step renders the scene with.
// Without one the engine only simulates.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithConfigs sets a channel of reloaded configs, typically a config.Watcher's.
// Each Step hands the configs received since the previous Step to the scene.
//
// Parameters:
//   - configs: the config channel
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfigs(configs <-chan config.SceneConfig) EngineBuilderOption {
	return func(e *engine) {
		e.configs = configs
	}
}

// WithLogger sets the logger for engine and profiler output.
//
// Parameters:
//   - logger: the logger; nil keeps the default
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock replaces the wall clock used to measure step durations.
//
// Parameters:
//   - now: the clock
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		if now != nil {
			e.clock = now
		}
	}
}
