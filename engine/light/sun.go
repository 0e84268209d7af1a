package light

import (
	"github.com/Carmen-Shannon/volcano/engine/renderer/staging"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultAmbient is the ambient term written ahead of the sun in the light buffer.
var DefaultAmbient = mgl32.Vec3{0.2, 0.2, 0.2}

type sun struct {
	light           Light
	ambient         mgl32.Vec3
	bufferKey       string
	stagedWriteData []staging.BufferWrite
}

// Sun defines the interface for the scene's oscillating directional light.
//
// At elapsed time t the sun sits at (10 sin 2t, 15 + 2 sin 2t, 10 cos 2t) and shines along
// the normalized position vector.
type Sun interface {
	// Light returns the directional light the sun drives.
	//
	// Returns:
	//   - Light: the underlying light
	Light() Light

	// Update moves the sun to its position at the given elapsed time.
	//
	// Parameters:
	//   - elapsed: total elapsed time in seconds
	Update(elapsed float32)

	// Flush stages the light buffer (header plus the sun).
	Flush()

	// StagedWriteData returns and clears the pending GPU buffer writes.
	//
	// Returns:
	//   - []staging.BufferWrite: the slice of pending buffer writes
	StagedWriteData() []staging.BufferWrite

	// BufferKey returns the name of the light buffer.
	//
	// Returns:
	//   - string: the buffer name
	BufferKey() string
}

var _ Sun = &sun{}

// SunPosition returns the sun position at elapsed time t.
//
// Parameters:
//   - t: elapsed time in seconds
//
// Returns:
//   - mgl32.Vec3: the world-space position
func SunPosition(t float32) mgl32.Vec3 {
	s := math32.Sin(2 * t)
	return mgl32.Vec3{10 * s, 15 + 2*s, 10 * math32.Cos(2*t)}
}

// NewSun creates a Sun positioned for time zero.
//
// Parameters:
//   - opts: options applied to the underlying directional light
//
// Returns:
//   - Sun: the sun
func NewSun(opts ...LightBuilderOption) Sun {
	s := &sun{
		light:     NewLight(LightTypeDirectional, opts...),
		ambient:   DefaultAmbient,
		bufferKey: "lights",
	}
	s.Update(0)
	return s
}

func (s *sun) Light() Light {
	return s.light
}

func (s *sun) Update(elapsed float32) {
	pos := SunPosition(elapsed)
	s.light.SetPosition(pos)
	s.light.SetDirection(pos)
}

func (s *sun) Flush() {
	s.stagedWriteData = append(s.stagedWriteData, staging.BufferWrite{
		Buffer: s.bufferKey,
		Usage:  staging.BufferUsageStorage,
		Data:   MarshalLightBuffer([]Light{s.light}, s.ambient),
	})
}

func (s *sun) StagedWriteData() []staging.BufferWrite {
	writes := s.stagedWriteData
	s.stagedWriteData = nil
	return writes
}

func (s *sun) BufferKey() string {
	return s.bufferKey
}
