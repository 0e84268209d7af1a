package model

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/volcano/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUSkinnedVertex is the vertex layout of every mesh, skinned or not.
// Static vertices bind joint 0 with full weight.
// Size: 56 bytes, tightly packed vertex attributes.
type GPUSkinnedVertex struct {
	Position mgl32.Vec3 // offset  0: model-space position
	Normal   mgl32.Vec3 // offset 12: model-space normal
	Joints   [4]uint32  // offset 24: bone indices
	Weights  [4]float32 // offset 40: bone weights
}

// Size returns the size of the GPUSkinnedVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (56)
func (g *GPUSkinnedVertex) Size() int {
	return 56
}

// Marshal serializes the GPUSkinnedVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 56-byte buffer ready for GPU upload
func (g *GPUSkinnedVertex) Marshal() []byte {
	buf := make([]byte, 56)
	common.PutVec3(buf[0:12], g.Position)
	common.PutVec3(buf[12:24], g.Normal)
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint32(buf[24+i*4:28+i*4], g.Joints[i])
		binary.LittleEndian.PutUint32(buf[40+i*4:44+i*4], math.Float32bits(g.Weights[i]))
	}
	return buf
}
