package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLightDefaults(t *testing.T) {
	l := NewLight(LightTypePoint, WithPosition(1, 2, 3), WithDirection(0, 0, 5), WithColor(1, 0, 0))
	assert.Equal(t, LightTypePoint, l.Type())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, l.Position())
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, l.Direction())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, l.Color())
	assert.True(t, l.Enabled())

	l.SetDirection(mgl32.Vec3{})
	assert.Equal(t, mgl32.Vec3{}, l.Direction())
}

func TestSunFollowsPath(t *testing.T) {
	s := NewSun()
	assert.InDeltaSlice(t, []float32{0, 15, 10}, sliceOf(s.Light().Position()), 1e-6)

	const elapsed float32 = 0.7
	s.Update(elapsed)
	want := mgl32.Vec3{10 * math32.Sin(1.4), 15 + 2*math32.Sin(1.4), 10 * math32.Cos(1.4)}
	assert.InDeltaSlice(t, sliceOf(want), sliceOf(s.Light().Position()), 1e-5)
	assert.InDeltaSlice(t, sliceOf(want.Normalize()), sliceOf(s.Light().Direction()), 1e-6)
	assert.Equal(t, LightTypeDirectional, s.Light().Type())
}

func TestSunFlush(t *testing.T) {
	s := NewSun()
	s.Flush()
	writes := s.StagedWriteData()
	require.Len(t, writes, 1)
	assert.Equal(t, "lights", writes[0].Buffer)
	require.Len(t, writes[0].Data, 16+64)
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(writes[0].Data[12:16]))
	assert.Equal(t, float32(15), math.Float32frombits(binary.LittleEndian.Uint32(writes[0].Data[20:24])))
	assert.Nil(t, s.StagedWriteData())
}

func TestMarshalLightBufferSkipsDisabledAndCaps(t *testing.T) {
	lights := make([]Light, 0, MaxGPULights+3)
	lights = append(lights, NewLight(LightTypePoint, WithEnabled(false)))
	for range MaxGPULights + 2 {
		lights = append(lights, NewLight(LightTypePoint))
	}
	buf := MarshalLightBuffer(lights, mgl32.Vec3{0.1, 0.2, 0.3})
	require.Len(t, buf, 16+MaxGPULights*64)
	assert.Equal(t, uint32(MaxGPULights), binary.LittleEndian.Uint32(buf[12:16]))
	assert.Equal(t, float32(0.2), math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])))

	empty := MarshalLightBuffer(nil, mgl32.Vec3{})
	assert.Len(t, empty, 16)
}

func TestGPULightLayout(t *testing.T) {
	g := ToGPULight(NewLight(LightTypePoint, WithRange(42)))
	assert.Equal(t, 64, g.Size())
	buf := g.Marshal()
	assert.Equal(t, uint32(LightTypePoint), binary.LittleEndian.Uint32(buf[12:16]))
	assert.Equal(t, float32(42), math.Float32frombits(binary.LittleEndian.Uint32(buf[44:48])))
	assert.Equal(t, make([]byte, 16), buf[48:64])
}

func sliceOf(v mgl32.Vec3) []float32 {
	return v[:]
}
