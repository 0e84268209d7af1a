package particle

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/volcano/engine/renderer/staging"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParticlePoolStartsDead(t *testing.T) {
	p := NewParticlePool()
	assert.Equal(t, DefaultCapacity, p.Capacity())
	assert.Equal(t, DefaultMaxLifetime, p.MaxLifetime())
	assert.Equal(t, DefaultEmissionOrigin, p.EmissionOrigin())
	assert.Zero(t, p.AliveCount())
	for _, pt := range p.Particles() {
		require.Zero(t, pt.Lifetime)
	}

	positions, ages := p.CollectRenderable()
	assert.Empty(t, positions)
	assert.Empty(t, ages)
}

func TestUpdateSpawnsUpToBudget(t *testing.T) {
	p := NewParticlePool(WithCapacity(4), WithSeed(7))

	report := p.Update(1, 2)
	assert.Equal(t, SpawnReport{Spawned: 2, Scanned: 2}, report)
	assert.Equal(t, 2, p.AliveCount())
	assert.Equal(t, 2, p.Cursor())

	for i, pt := range p.Particles() {
		if i < 2 {
			assert.Equal(t, p.MaxLifetime()-1, pt.Lifetime, "slot %d", i)
		} else {
			assert.False(t, pt.Alive(), "slot %d", i)
		}
	}
}

func TestUpdateSaturatedPoolStopsScanning(t *testing.T) {
	p := NewParticlePool(WithCapacity(2))
	require.Equal(t, 2, p.Update(0.1, 2).Spawned)
	require.Equal(t, 2, p.AliveCount())

	report := p.Update(1, 5)
	assert.Equal(t, SpawnReport{Spawned: 0, Scanned: 2, Saturated: true}, report)
	assert.Equal(t, 2, p.AliveCount())
}

func TestUpdateCursorPersistsAcrossCalls(t *testing.T) {
	p := NewParticlePool(WithCapacity(5), WithMaxLifetime(100))

	p.Update(0.01, 3)
	assert.Equal(t, 3, p.Cursor())

	p.Update(0.01, 3)
	assert.Equal(t, 5, p.AliveCount())
	// slots 3 and 4 were free, then the scan wrapped over the two live slots 0 and 1
	// and kept going until it had looked at every slot once
	assert.Equal(t, 3, p.Cursor())
}

func TestUpdateSpawnPlacement(t *testing.T) {
	origin := mgl32.Vec3{1, 2, 3}
	p := NewParticlePool(WithCapacity(64), WithEmissionOrigin(origin), WithTurbulence(0), WithDamping(1), WithSeed(3))
	p.Update(0, 64)

	for _, pt := range p.Particles() {
		require.True(t, pt.Alive())
		assert.Equal(t, origin.Y(), pt.Position.Y(), "spawned with zero vertical offset")
		assert.GreaterOrEqual(t, pt.Position.X()-origin.X(), float32(-5))
		assert.Less(t, pt.Position.X()-origin.X(), float32(5))
		assert.GreaterOrEqual(t, pt.Velocity.Y(), float32(12))
		assert.Less(t, pt.Velocity.Y(), float32(25))
		assert.GreaterOrEqual(t, pt.Velocity.Z(), float32(-5))
		assert.Less(t, pt.Velocity.Z(), float32(5))
	}
}

func TestUpdateIntegratesWithDamping(t *testing.T) {
	p := NewParticlePool(WithCapacity(1), WithTurbulence(0), WithSeed(11))
	p.Update(0, 1)
	before := p.Particles()[0]

	p.Update(0.5, 0)
	after := p.Particles()[0]
	assert.Equal(t, before.Velocity, after.Velocity, "damping never touches the stored velocity")
	want := before.Position.Add(before.Velocity.Mul(0.5 * DefaultDamping))
	assert.InDeltaSlice(t, want[:], after.Position[:], 1e-5)
}

func TestUpdateTurbulenceStaysBounded(t *testing.T) {
	p := NewParticlePool(WithCapacity(1), WithSeed(5))
	p.Update(0, 1)
	before := p.Particles()[0].Velocity

	p.Update(0, 0)
	after := p.Particles()[0].Velocity
	assert.Equal(t, before.Y(), after.Y())
	assert.LessOrEqual(t, math.Abs(float64(after.X()-before.X())), 0.5*float64(DefaultTurbulence)+1e-7)
	assert.LessOrEqual(t, math.Abs(float64(after.Z()-before.Z())), 0.5*float64(DefaultTurbulence)+1e-7)
}

func TestPropertyConservation(t *testing.T) {
	p := NewParticlePool(WithCapacity(16), WithMaxLifetime(0.35), WithSeed(42))
	budgets := []int{0, 3, 7, 1, 20, 5, 0, 16, 2}
	for step := 0; step < 200; step++ {
		budget := budgets[step%len(budgets)]
		report := p.Update(0.05, budget)
		require.LessOrEqual(t, report.Spawned, budget)
		require.LessOrEqual(t, report.Scanned, p.Capacity())
		require.LessOrEqual(t, p.AliveCount(), p.Capacity())
		for _, pt := range p.Particles() {
			require.LessOrEqual(t, pt.Lifetime, p.MaxLifetime())
		}
	}
}

func TestPropertyLifetimeMonotonicity(t *testing.T) {
	p := NewParticlePool(WithCapacity(8), WithSeed(9))
	p.Update(0.1, 8)

	const dt float32 = 0.016
	before := make([]float32, p.Capacity())
	for i, pt := range p.Particles() {
		before[i] = pt.Lifetime
	}
	p.Update(dt, 0)
	for i, pt := range p.Particles() {
		assert.Equal(t, before[i]-dt, pt.Lifetime, "slot %d", i)
	}
}

func TestPropertyZeroBudgetNeverRespawns(t *testing.T) {
	p := NewParticlePool(WithCapacity(4), WithMaxLifetime(1))
	p.Update(0, 4)
	for i := 0; i < 10; i++ {
		report := p.Update(0.25, 0)
		assert.Zero(t, report.Spawned)
		assert.Zero(t, report.Scanned)
	}
	assert.Zero(t, p.AliveCount())
	for _, pt := range p.Particles() {
		assert.LessOrEqual(t, pt.Lifetime, float32(0))
	}
}

func TestCollectRenderableAges(t *testing.T) {
	p := NewParticlePool(WithCapacity(3), WithMaxLifetime(4))
	p.Update(1, 1)
	p.Update(1, 1)

	positions, ages := p.CollectRenderable()
	require.Len(t, positions, 2)
	require.Len(t, ages, 2)
	assert.InDelta(t, 0.5, ages[0], 1e-6)
	assert.InDelta(t, 0.25, ages[1], 1e-6)
	for _, age := range ages {
		assert.GreaterOrEqual(t, age, float32(0))
		assert.Less(t, age, float32(1))
	}
}

func TestFlush(t *testing.T) {
	p := NewParticlePool(WithCapacity(3), WithBufferKeys("ash/instances", "ash/quad"))

	assert.Zero(t, p.Flush(), "nothing alive")
	writes := p.StagedWriteData()
	require.Len(t, writes, 1)
	assert.Equal(t, "ash/quad", writes[0].Buffer)
	assert.Equal(t, staging.BufferUsageVertex, writes[0].Usage)
	assert.Len(t, writes[0].Data, QuadVertexCount*20)
	assert.Nil(t, p.StagedWriteData())

	p.Update(0.5, 2)
	require.Equal(t, uint32(2), p.Flush())
	writes = p.StagedWriteData()
	require.Len(t, writes, 1, "quad is only staged once")
	assert.Equal(t, "ash/instances", writes[0].Buffer)
	require.Len(t, writes[0].Data, 32)

	positions, ages := p.CollectRenderable()
	for i := range positions {
		row := writes[0].Data[i*16 : (i+1)*16]
		x := math.Float32frombits(binary.LittleEndian.Uint32(row[0:4]))
		age := math.Float32frombits(binary.LittleEndian.Uint32(row[12:16]))
		assert.Equal(t, positions[i].X(), x)
		assert.Equal(t, ages[i], age)
	}
}

func TestReset(t *testing.T) {
	p := NewParticlePool(WithCapacity(4))
	p.Update(0.1, 3)
	p.Reset()
	assert.Zero(t, p.AliveCount())
	assert.Zero(t, p.Cursor())
}

func TestQuadVertexData(t *testing.T) {
	data := QuadVertexData()
	require.Len(t, data, QuadVertexCount*20)
	first := math.Float32frombits(binary.LittleEndian.Uint32(data[0:4]))
	last := math.Float32frombits(binary.LittleEndian.Uint32(data[len(data)-20 : len(data)-16]))
	assert.Equal(t, -QuadHalfSize, first)
	assert.Equal(t, QuadHalfSize, last)
}
