package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/volcano/engine/renderer/staging"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCameraWithoutController(t *testing.T) {
	c := NewCamera()
	assert.Nil(t, c.Controller())
	assert.Equal(t, mgl32.Ident4(), c.ViewMatrix())
	c.Update()
	assert.Equal(t, mgl32.Ident4(), c.ViewProjectionMatrix())

	_, ok := c.ScreenRay(0, 0, 100, 100)
	assert.False(t, ok)
}

func TestCameraMatricesFollowController(t *testing.T) {
	cc := NewCameraController()
	c := NewCamera(WithController(cc), WithAspect(16.0/9.0))

	assert.True(t, c.ViewMatrix().ApproxEqualThreshold(mgl32.LookAtV(cc.Position(), cc.Target(), mgl32.Vec3{0, 1, 0}), 1e-6))
	assert.True(t, c.ProjectionMatrix().ApproxEqualThreshold(mgl32.Perspective(mgl32.DegToRad(45), 16.0/9.0, 0.1, 1000), 1e-6))

	// the camera position maps to the view-space origin
	eye := c.ViewMatrix().Mul4x1(cc.Position().Vec4(1))
	assert.InDeltaSlice(t, []float32{0, 0, 0, 1}, eye[:], 1e-4)

	cc.SetPosition(mgl32.Vec3{1, 2, 3})
	stale := c.ViewMatrix()
	c.Update()
	assert.NotEqual(t, stale, c.ViewMatrix())
}

func TestScreenRayThroughCentre(t *testing.T) {
	cc := NewCameraController()
	c := NewCamera(WithController(cc), WithAspect(2))

	ray, ok := c.ScreenRay(400, 200, 800, 400)
	require.True(t, ok)
	f := cc.Forward()
	assert.InDeltaSlice(t, f[:], ray.Direction[:], 1e-3)
	assert.InDelta(t, 0.1, ray.Origin.Sub(cc.Position()).Len(), 1e-2)

	// a point straight ahead is hit, one behind is not
	_, hit := ray.IntersectSphere(cc.Position().Add(f.Mul(50)), 1)
	assert.True(t, hit)
	_, hit = ray.IntersectSphere(cc.Position().Sub(f.Mul(50)), 1)
	assert.False(t, hit)

	// the top of the window looks upward
	top, ok := c.ScreenRay(400, 0, 800, 400)
	require.True(t, ok)
	assert.Greater(t, top.Direction.Y(), ray.Direction.Y())
}

func TestCameraFlush(t *testing.T) {
	cc := NewCameraController()
	c := NewCamera(WithController(cc), WithBufferKey("view"))
	c.Flush()

	writes := c.StagedWriteData()
	require.Len(t, writes, 1)
	assert.Equal(t, "view", writes[0].Buffer)
	assert.Equal(t, staging.BufferUsageUniform, writes[0].Usage)
	require.Len(t, writes[0].Data, 80)

	vp := c.ViewProjectionMatrix()
	assert.Equal(t, vp[5], math.Float32frombits(binary.LittleEndian.Uint32(writes[0].Data[20:24])))
	assert.Equal(t, DefaultPosition.Z(), math.Float32frombits(binary.LittleEndian.Uint32(writes[0].Data[72:76])))
	assert.Nil(t, c.StagedWriteData())
}

func TestGPUCameraUniformSize(t *testing.T) {
	var u GPUCameraUniform
	assert.Equal(t, 80, u.Size())
	assert.Len(t, u.Marshal(), 80)
}
