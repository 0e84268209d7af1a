package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/volcano/engine/renderer/staging"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFishSchoolDefaults(t *testing.T) {
	s := NewFishSchool()
	assert.Equal(t, DefaultFishCount, s.Count())
	assert.NotNil(t, s.Object())
	for _, o := range s.Orbits() {
		assert.Equal(t, DefaultFishSpeed, o.Speed)
	}
	assert.Equal(t, "fish/body", s.BufferKey(FishBody))
	assert.Equal(t, "fish/head", s.BufferKey(FishHead))
	assert.Equal(t, "fish/fin", s.BufferKey(FishFin))
	assert.Nil(t, s.PartMatrices(FishPart(9)))
}

func TestFishSchoolPartComposition(t *testing.T) {
	head := mgl32.Translate3D(0, 0, 1)
	fin := mgl32.Translate3D(0, 0, -1)
	s := NewFishSchool(WithFishCount(3), WithPartTransforms(head, fin))

	const dt, elapsed float32 = 0.5, 1.25
	s.Update(dt, elapsed)

	for i, o := range s.Orbits() {
		want := NewFishOrbit(i, DefaultFishSpeed)
		want.Advance(dt)
		require.InDelta(t, want.Angle, o.Angle, 1e-6)

		body := o.Matrix().Mul4(BodyOscillator.YawMatrix(elapsed))
		assert.True(t, s.PartMatrices(FishBody)[i].ApproxEqualThreshold(body, 1e-5), "body %d", i)
		assert.True(t, s.PartMatrices(FishHead)[i].ApproxEqualThreshold(body.Mul4(head).Mul4(HeadOscillator.YawMatrix(elapsed)), 1e-5), "head %d", i)
		assert.True(t, s.PartMatrices(FishFin)[i].ApproxEqualThreshold(body.Mul4(fin).Mul4(FinOscillator.YawMatrix(elapsed)), 1e-5), "fin %d", i)
	}
}

func TestFishSchoolSetSpeed(t *testing.T) {
	s := NewFishSchool(WithFishCount(2), WithFishSpeed(0))
	before := s.Orbits()[1].Angle
	s.Update(1, 1)
	assert.Equal(t, before, s.Orbits()[1].Angle)

	s.SetSpeed(0.5)
	s.Update(1, 2)
	assert.InDelta(t, before+0.5, s.Orbits()[1].Angle, 1e-5)
}

func TestFishSchoolFlush(t *testing.T) {
	s := NewFishSchool(WithFishCount(4), WithFishBufferPrefix("sardine"))
	require.Equal(t, uint32(4), s.Flush())

	writes := s.StagedWriteData()
	require.Len(t, writes, 3)
	for i, part := range []FishPart{FishBody, FishHead, FishFin} {
		assert.Equal(t, "sardine/"+part.String(), writes[i].Buffer)
		assert.Equal(t, staging.BufferUsageVertex, writes[i].Usage)
		assert.Len(t, writes[i].Data, 4*64)
	}
	assert.Nil(t, s.StagedWriteData())

	empty := NewFishSchool(WithFishCount(0))
	assert.Zero(t, empty.Flush())
	assert.Empty(t, empty.StagedWriteData())
}
