package game_object

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Oscillator produces Amplitude * sin(t * Frequency + Phase) degrees.
type Oscillator struct {
	Amplitude float32 // degrees
	Frequency float32 // radians per second
	Phase     float32 // degrees
}

// Default part oscillators. The phase steps fake a wave travelling from tail to head.
var (
	FinOscillator  = Oscillator{Amplitude: 4, Frequency: 2.5, Phase: 0}
	BodyOscillator = Oscillator{Amplitude: 2, Frequency: 2.5, Phase: 45}
	HeadOscillator = Oscillator{Amplitude: 4, Frequency: 2.5, Phase: 90}
)

// Degrees returns the oscillation angle at time t.
//
// Parameters:
//   - t: elapsed time in seconds
//
// Returns:
//   - float32: the angle in degrees
func (o Oscillator) Degrees(t float32) float32 {
	return o.Amplitude * math32.Sin(t*o.Frequency+mgl32.DegToRad(o.Phase))
}

// YawMatrix returns the oscillation at time t as a rotation about +Y.
//
// Parameters:
//   - t: elapsed time in seconds
//
// Returns:
//   - mgl32.Mat4: the rotation matrix
func (o Oscillator) YawMatrix(t float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(mgl32.DegToRad(o.Degrees(t)))
}
