package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want float32
	}{
		{"inside range", 1, 1},
		{"pi stays", math32.Pi, math32.Pi},
		{"just past pi", math32.Pi + 0.5, -math32.Pi + 0.5},
		{"below minus pi", -math32.Pi - 0.5, math32.Pi - 0.5},
		{"several turns", 1 + 3*TwoPi, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizeAngle(tt.in), 1e-4)
		})
	}
}

func TestWrapTwoPi(t *testing.T) {
	assert.InDelta(t, 0.5, WrapTwoPi(TwoPi+0.5), 1e-5)
	assert.InDelta(t, TwoPi-0.5, WrapTwoPi(-0.5), 1e-5)
	assert.Equal(t, float32(0), WrapTwoPi(0))
	for _, a := range []float32{-100, -TwoPi, TwoPi, 7, 1e4} {
		w := WrapTwoPi(a)
		assert.GreaterOrEqual(t, w, float32(0))
		assert.Less(t, w, TwoPi)
	}
}

func TestPutMat4LittleEndian(t *testing.T) {
	buf := make([]byte, 64)
	PutMat4(buf, mgl32.Ident4())
	// 1.0f = 0x3F800000 little-endian
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3F}, buf[0:4])
	assert.Equal(t, []byte{0, 0, 0, 0}, buf[4:8])
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3F}, buf[60:64])
}

func TestTRSOrder(t *testing.T) {
	m := TRS(mgl32.Vec3{1, 2, 3}, mgl32.QuatIdent(), mgl32.Vec3{2, 2, 2})
	p := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 3, p[0], 1e-6)
	assert.InDelta(t, 2, p[1], 1e-6)
	assert.InDelta(t, 3, p[2], 1e-6)
	assert.True(t, IsIdentity(TRS(mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1}), 1e-6))
}
