package game_object

import "github.com/go-gl/mathgl/mgl32"

// FishSchoolBuilderOption is a functional option for configuring a FishSchool via NewFishSchool.
type FishSchoolBuilderOption func(*fishSchool)

// WithFishCount sets the number of fish.
//
// Parameters:
//   - count: the instance count (negative values are treated as 0)
//
// Returns:
//   - FishSchoolBuilderOption: a function that applies the count option to a school
func WithFishCount(count int) FishSchoolBuilderOption {
	return func(s *fishSchool) {
		s.count = max(count, 0)
	}
}

// WithFishSpeed sets the angular speed of every fish.
//
// Parameters:
//   - speed: radians per second
//
// Returns:
//   - FishSchoolBuilderOption: a function that applies the speed option to a school
func WithFishSpeed(speed float32) FishSchoolBuilderOption {
	return func(s *fishSchool) {
		s.speed = speed
	}
}

// WithPartTransforms sets the mesh-local transforms of the head and fin relative to the body.
//
// Parameters:
//   - head: the head mesh transform
//   - fin: the fin mesh transform
//
// Returns:
//   - FishSchoolBuilderOption: a function that applies the part transforms to a school
func WithPartTransforms(head, fin mgl32.Mat4) FishSchoolBuilderOption {
	return func(s *fishSchool) {
		s.headLocal = head
		s.finLocal = fin
	}
}

// WithOscillators replaces the default body, head and fin oscillators.
//
// Parameters:
//   - body: the body sway
//   - head: the head sway
//   - fin: the fin sway
//
// Returns:
//   - FishSchoolBuilderOption: a function that applies the oscillators to a school
func WithOscillators(body, head, fin Oscillator) FishSchoolBuilderOption {
	return func(s *fishSchool) {
		s.body = body
		s.head = head
		s.fin = fin
	}
}

// WithSchoolObject sets the GameObject carrying the school's model and animator.
//
// Parameters:
//   - obj: the school object
//
// Returns:
//   - FishSchoolBuilderOption: a function that applies the object to a school
func WithSchoolObject(obj GameObject) FishSchoolBuilderOption {
	return func(s *fishSchool) {
		s.obj = obj
	}
}

// WithFishBufferPrefix sets the prefix of the per-part instance buffer names.
//
// Parameters:
//   - prefix: the buffer name prefix, "fish" by default
//
// Returns:
//   - FishSchoolBuilderOption: a function that applies the prefix to a school
func WithFishBufferPrefix(prefix string) FishSchoolBuilderOption {
	return func(s *fishSchool) {
		s.bufferPrefix = prefix
	}
}
