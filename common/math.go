package common

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// TwoPi is a full turn in radians.
const TwoPi = 2 * math32.Pi

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// PutMat4 writes a column-major 4x4 matrix into buf as 16 little-endian float32 values.
//
// Parameters:
//   - buf: destination slice (must be at least 64 bytes)
//   - m: the matrix to write
func PutMat4(buf []byte, m mgl32.Mat4) {
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
}

// PutVec3 writes a vector into buf as 3 little-endian float32 values.
//
// Parameters:
//   - buf: destination slice (must be at least 12 bytes)
//   - v: the vector to write
func PutVec3(buf []byte, v mgl32.Vec3) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v[2]))
}

// NormalizeAngle wraps an angle in radians into [-Pi, Pi].
//
// Parameters:
//   - angle: the angle in radians
//
// Returns:
//   - float32: the equivalent angle within [-Pi, Pi]
func NormalizeAngle(angle float32) float32 {
	if angle >= -math32.Pi && angle <= math32.Pi {
		return angle
	}
	angle = math32.Mod(angle+math32.Pi, TwoPi)
	if angle < 0 {
		angle += TwoPi
	}
	return angle - math32.Pi
}

// WrapTwoPi wraps an angle in radians into [0, 2Pi).
//
// Parameters:
//   - angle: the angle in radians
//
// Returns:
//   - float32: the equivalent angle within [0, 2Pi)
func WrapTwoPi(angle float32) float32 {
	if angle >= 0 && angle < TwoPi {
		return angle
	}
	angle = math32.Mod(angle, TwoPi)
	if angle < 0 {
		angle += TwoPi
	}
	// Mod of a value just below zero can round up to a full turn.
	if angle >= TwoPi {
		angle = 0
	}
	return angle
}

// IsIdentity reports whether every element of m is within eps of the identity matrix.
//
// Parameters:
//   - m: the matrix to test
//   - eps: per-element tolerance
//
// Returns:
//   - bool: true if m is the identity within eps
func IsIdentity(m mgl32.Mat4, eps float32) bool {
	return m.ApproxEqualThreshold(mgl32.Ident4(), eps)
}

// TRS composes translate(t) * rotate(r) * scale(s).
//
// Parameters:
//   - t: translation
//   - r: rotation quaternion
//   - s: per-axis scale
//
// Returns:
//   - mgl32.Mat4: the composed column-major matrix
func TRS(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(t[0], t[1], t[2]).Mul4(r.Mat4()).Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}
