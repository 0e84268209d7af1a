package lava

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/volcano/engine/renderer/staging"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveHeight(t *testing.T) {
	w := DefaultWave
	assert.InDelta(t, 2, w.Height(0, 0, 0), 1e-6)
	want := 2 * (math32.Sin(0.1*10+1) + math32.Cos(0.1*-5+0.3))
	assert.InDelta(t, want, w.Height(10, -5, 1), 1e-6)
}

func TestNewSurfaceGrid(t *testing.T) {
	s := NewSurface(WithResolution(3, 4), WithSize(30, 20))
	assert.Equal(t, 3, s.Rows())
	assert.Equal(t, 4, s.Cols())
	require.Len(t, s.Positions(), 12)
	require.Len(t, s.Indices(), 6*2*3)

	first, last := s.Positions()[0], s.Positions()[11]
	assert.Equal(t, float32(-15), first.X())
	assert.Equal(t, float32(-10), first.Z())
	assert.InDelta(t, 15, last.X(), 1e-5)
	assert.InDelta(t, 10, last.Z(), 1e-5)

	assert.Equal(t, mgl32.Vec2{0, 0}, s.UVs()[0])
	assert.Equal(t, mgl32.Vec2{1, 1}, s.UVs()[11])

	for _, idx := range s.Indices() {
		assert.Less(t, idx, uint32(12))
	}
	assert.Equal(t, []uint32{0, 4, 1, 1, 4, 5}, s.Indices()[:6])
}

func TestSurfaceUpdateDisplacesAndReshades(t *testing.T) {
	s := NewSurface(WithResolution(5, 5), WithSize(40, 40))
	const elapsed float32 = 2.5
	s.Update(elapsed)
	assert.Equal(t, elapsed, s.Elapsed())

	for i, p := range s.Positions() {
		assert.InDelta(t, DefaultWave.Height(p.X(), p.Z(), elapsed), p.Y(), 1e-5, "vertex %d", i)
		assert.InDelta(t, 1, s.Normals()[i].Len(), 1e-5)
		assert.Greater(t, s.Normals()[i].Y(), float32(0))
	}

	flat := NewSurface(WithResolution(3, 3), WithWave(Wave{}))
	for _, n := range flat.Normals() {
		assert.Equal(t, mgl32.Vec3{0, 1, 0}, n)
	}
}

func TestSurfaceNormalTiltsDownhill(t *testing.T) {
	// the height field rises along +X and is flat along Z at the centre
	s := NewSurface(WithResolution(3, 3), WithSize(0.2, 0.2), WithWave(Wave{Amplitude: 1, Frequency: 1, Phase: 0}))
	centre := s.Normals()[4]
	assert.Less(t, centre.X(), float32(0))
	assert.InDelta(t, 0, centre.Z(), 1e-2)
}

func TestSurfaceFlush(t *testing.T) {
	s := NewSurface(WithResolution(2, 2), WithSize(2, 2), WithPlacement(mgl32.Vec3{1, 2, 3}), WithBufferKeys("v", "i"))
	assert.Equal(t, mgl32.Translate3D(1, 2, 3), s.ModelMatrix())

	require.Equal(t, uint32(6), s.Flush())
	writes := s.StagedWriteData()
	require.Len(t, writes, 2)
	assert.Equal(t, "i", writes[0].Buffer)
	assert.Equal(t, staging.BufferUsageIndex, writes[0].Usage)
	assert.Len(t, writes[0].Data, 6*4)
	assert.Equal(t, "v", writes[1].Buffer)
	require.Len(t, writes[1].Data, 4*VertexStride)

	last := writes[1].Data[3*VertexStride:]
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(last[24:28])))
	assert.Equal(t, s.Positions()[3].Y(), math.Float32frombits(binary.LittleEndian.Uint32(last[4:8])))

	s.Flush()
	writes = s.StagedWriteData()
	require.Len(t, writes, 1, "indices are only staged once")
	assert.Equal(t, "v", writes[0].Buffer)
}
