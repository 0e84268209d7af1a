package game_object

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewGameObjectDefaults(t *testing.T) {
	obj := NewGameObject()
	assert.True(t, obj.Enabled())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, obj.Scale())
	assert.Nil(t, obj.Model())
	assert.Nil(t, obj.Animator())
	assert.Equal(t, mgl32.Ident4(), obj.ModelMatrix())
}

func TestGameObjectModelMatrix(t *testing.T) {
	obj := NewGameObject(
		WithID(7),
		WithPosition(1, 2, 3),
		WithRotation(0, math32.Pi/2, 0),
		WithScale(2, 2, 2),
		WithBoundingRadius(1.5),
	)
	assert.Equal(t, uint64(7), obj.ID())
	assert.Equal(t, float32(1.5), obj.BoundingRadius())

	p := obj.ModelMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assert.InDeltaSlice(t, []float32{1, 2, 1}, p[:], 1e-5)

	obj.SetEnabled(false)
	assert.False(t, obj.Enabled())
}

func TestOscillatorPhases(t *testing.T) {
	assert.InDelta(t, 0, FinOscillator.Degrees(0), 1e-6)
	assert.InDelta(t, 2*math32.Sin(mgl32.DegToRad(45)), BodyOscillator.Degrees(0), 1e-6)
	assert.InDelta(t, 4, HeadOscillator.Degrees(0), 1e-6)

	// a quarter period later the fin peaks
	quarter := (math32.Pi / 2) / FinOscillator.Frequency
	assert.InDelta(t, 4, FinOscillator.Degrees(quarter), 1e-5)

	want := mgl32.HomogRotate3DY(mgl32.DegToRad(4))
	assert.True(t, HeadOscillator.YawMatrix(0).ApproxEqualThreshold(want, 1e-6))
}

func TestNewFishOrbit(t *testing.T) {
	o := NewFishOrbit(1, DefaultFishSpeed)
	assert.InDelta(t, 0.6*math32.Pi, o.Angle, 1e-6)
	assert.Equal(t, float32(41), o.Radius)
	assert.Equal(t, float32(45), o.Height)

	for i := 0; i < DefaultFishCount; i++ {
		a := NewFishOrbit(i, DefaultFishSpeed).Angle
		assert.GreaterOrEqual(t, a, float32(0))
		assert.Less(t, a, 2*math32.Pi)
	}
}

func TestOrbitAdvanceWraps(t *testing.T) {
	o := Orbit{Angle: 2*math32.Pi - 0.01, Speed: 1, Radius: 1}
	o.Advance(0.02)
	assert.InDelta(t, 0.01, o.Angle, 1e-5)

	o.Advance(-0.02)
	assert.InDelta(t, 2*math32.Pi-0.01, o.Angle, 1e-5)
}

func TestOrbitMatrixBasis(t *testing.T) {
	o := Orbit{Angle: 0, Radius: 40, Height: 5}
	m := o.Matrix()
	assert.InDeltaSlice(t, []float32{1, 0, 0, 0}, sliceOf(m.Col(0)), 1e-6)
	assert.InDeltaSlice(t, []float32{0, 1, 0, 0}, sliceOf(m.Col(1)), 1e-6)
	assert.InDeltaSlice(t, []float32{0, 0, -1, 0}, sliceOf(m.Col(2)), 1e-6)
	assert.InDeltaSlice(t, []float32{40, 5, 0, 1}, sliceOf(m.Col(3)), 1e-6)

	// a quarter turn later the fish faces -X and sits on +Z
	o.Angle = math32.Pi / 2
	m = o.Matrix()
	assert.InDeltaSlice(t, []float32{1, 0, 0, 0}, sliceOf(m.Col(2)), 1e-6)
	assert.InDeltaSlice(t, []float32{0, 5, 40, 1}, sliceOf(m.Col(3)), 1e-5)
}

func sliceOf(v mgl32.Vec4) []float32 {
	return v[:]
}
