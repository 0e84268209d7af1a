package camera

import (
	"testing"

	"github.com/Carmen-Shannon/volcano/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewCameraControllerDefaults(t *testing.T) {
	cc := NewCameraController()
	assert.Equal(t, DefaultPosition, cc.Position())
	assert.Equal(t, DefaultYaw, cc.Yaw())
	assert.Equal(t, DefaultPitch, cc.Pitch())
	assert.Equal(t, DefaultMoveSpeed, cc.MoveSpeed())
	assert.Equal(t, DefaultMouseSensitivity, cc.MouseSensitivity())
	assert.InDelta(t, 1, cc.Forward().Len(), 1e-6)
}

func TestForwardAndRight(t *testing.T) {
	cc := NewCameraController(WithYawPitch(0, 0))
	f := cc.Forward()
	r := cc.Right()
	assert.InDeltaSlice(t, []float32{1, 0, 0}, f[:], 1e-6)
	assert.InDeltaSlice(t, []float32{0, 0, 1}, r[:], 1e-6)

	cc.SetYawPitch(90, 0)
	f = cc.Forward()
	assert.InDeltaSlice(t, []float32{0, 0, 1}, f[:], 1e-6)

	target := cc.Target()
	want := cc.Position().Add(cc.Forward())
	assert.InDeltaSlice(t, want[:], target[:], 1e-6)
}

func TestTickOnlyMovesWhileKeyHeld(t *testing.T) {
	cc := NewCameraController(WithPosition(mgl32.Vec3{}), WithYawPitch(0, 0))
	assert.False(t, cc.Tick())
	assert.Equal(t, mgl32.Vec3{}, cc.Position())

	cc.SetKey(common.KeyW, true)
	assert.True(t, cc.Tick())
	assert.True(t, cc.Tick())
	p := cc.Position()
	assert.InDeltaSlice(t, []float32{0.2, 0, 0}, p[:], 1e-6)

	cc.SetKey(common.KeyW, false)
	assert.False(t, cc.Tick())
	assert.Equal(t, p, cc.Position())
}

func TestTickKeyAxes(t *testing.T) {
	tests := []struct {
		name string
		key  int
		want mgl32.Vec3
	}{
		{"forward", common.KeyW, mgl32.Vec3{0.1, 0, 0}},
		{"back", common.KeyS, mgl32.Vec3{-0.1, 0, 0}},
		{"left", common.KeyA, mgl32.Vec3{0, 0, -0.1}},
		{"right", common.KeyD, mgl32.Vec3{0, 0, 0.1}},
		{"down", common.KeyQ, mgl32.Vec3{0, -0.1, 0}},
		{"up", common.KeyE, mgl32.Vec3{0, 0.1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := NewCameraController(WithPosition(mgl32.Vec3{}), WithYawPitch(0, 0))
			cc.SetKey(tt.key, true)
			cc.Tick()
			p := cc.Position()
			assert.InDeltaSlice(t, tt.want[:], p[:], 1e-6)
		})
	}
}

func TestTickShiftDoublesSpeed(t *testing.T) {
	cc := NewCameraController(WithPosition(mgl32.Vec3{}), WithYawPitch(0, 0))
	cc.SetKey(common.KeyRightShift, true)
	cc.SetKey(common.KeyE, true)
	cc.Tick()
	assert.InDelta(t, 0.2, cc.Position().Y(), 1e-6)

	cc.SetKey(common.KeyRightShift, false)
	cc.Tick()
	assert.InDelta(t, 0.3, cc.Position().Y(), 1e-6)
}

func TestResetKeyRestoresPosition(t *testing.T) {
	cc := NewCameraController()
	cc.SetPosition(mgl32.Vec3{100, 100, 100})
	cc.SetKey(common.KeyR, true)
	assert.True(t, cc.Tick())
	assert.Equal(t, DefaultPosition, cc.Position())
}

func TestMouseDragTurnsCamera(t *testing.T) {
	cc := NewCameraController(WithYawPitch(0, 0))

	cc.MouseMove(50, 50)
	assert.Zero(t, cc.Yaw(), "no drag without a left press")

	cc.MouseButton(common.MouseButtonLeft, true, 10, 10)
	cc.MouseMove(20, 0)
	assert.InDelta(t, 3, cc.Yaw(), 1e-5)
	assert.InDelta(t, 3, cc.Pitch(), 1e-5)

	cc.MouseMove(20, -1000)
	assert.Equal(t, DefaultPitchLimit, cc.Pitch())

	cc.MouseButton(common.MouseButtonLeft, false, 20, -1000)
	cc.MouseMove(0, 0)
	assert.Equal(t, DefaultPitchLimit, cc.Pitch())

	cc.MouseButton(common.MouseButtonRight, true, 0, 0)
	assert.Zero(t, cc.Yaw())
	assert.Zero(t, cc.Pitch())
}

func TestPitchClampKeepsForwardOffPole(t *testing.T) {
	cc := NewCameraController(WithPitchLimit(45))
	cc.SetYawPitch(0, 80)
	assert.Equal(t, float32(45), cc.Pitch())
	assert.InDelta(t, math32.Sin(mgl32.DegToRad(45)), cc.Forward().Y(), 1e-6)
}

func TestControllerReset(t *testing.T) {
	cc := NewCameraController()
	cc.SetKey(common.KeyW, true)
	cc.SetYawPitch(10, 10)
	cc.Tick()
	cc.Reset()
	assert.Equal(t, DefaultPosition, cc.Position())
	assert.Equal(t, DefaultYaw, cc.Yaw())
	assert.False(t, cc.Tick(), "held keys are cleared")
}
