package animator

import (
	"github.com/Carmen-Shannon/volcano/engine/model"
)

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animator)

// WithMaxBones is an option builder that sets the length of the skinning uniform array.
// Bones with an ID at or beyond the cap are evaluated but not written.
//
// Parameters:
//   - maxBones: the maximum number of skinning matrices
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the max bones option to an animator
func WithMaxBones(maxBones int) AnimatorBuilderOption {
	return func(a *animator) {
		if maxBones > 0 {
			a.opts.MaxBones = maxBones
		}
	}
}

// WithFallbackTicksPerSecond is an option builder that sets the rate used for clips reporting zero.
//
// Parameters:
//   - tps: the fallback ticks per second
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the fallback rate option to an animator
func WithFallbackTicksPerSecond(tps float32) AnimatorBuilderOption {
	return func(a *animator) {
		if tps > 0 {
			a.opts.FallbackTicksPerSecond = tps
		}
	}
}

// WithSpeed is an option builder that sets the playback rate multiplier.
//
// Parameters:
//   - speed: the playback rate multiplier
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the speed option to an animator
func WithSpeed(speed float32) AnimatorBuilderOption {
	return func(a *animator) {
		a.speed = speed
	}
}

// WithBufferKey is an option builder that names the uniform buffer the matrices are staged into.
// Defaults to "bones/<model name>".
//
// Parameters:
//   - key: the buffer name
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the buffer key option to an animator
func WithBufferKey(key string) AnimatorBuilderOption {
	return func(a *animator) {
		a.bufferKey = key
	}
}

// WithModel is an option builder that assigns a Model to the Animator during construction.
// This calls SetModel internally, so it should come after options that affect evaluation.
//
// Parameters:
//   - m: the Model to associate with this animator
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the model option to an animator
func WithModel(m model.Model) AnimatorBuilderOption {
	return func(a *animator) {
		a.SetModel(m)
	}
}
