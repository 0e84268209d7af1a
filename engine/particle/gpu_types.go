package particle

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/volcano/common"
	"github.com/go-gl/mathgl/mgl32"
)

// QuadHalfSize is half the edge length of a particle billboard.
const QuadHalfSize float32 = 0.05

// GPUParticleInstance is the per-instance vertex layout of the particle draw.
// Size: 16 bytes.
type GPUParticleInstance struct {
	Position mgl32.Vec3 // offset  0: world-space position
	Age      float32    // offset 12: normalized age in [0, 1)
}

// Size returns the size of the GPUParticleInstance struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (16)
func (g *GPUParticleInstance) Size() int {
	return 16
}

// Marshal serializes the instance into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (g *GPUParticleInstance) Marshal() []byte {
	buf := make([]byte, 16)
	g.MarshalInto(buf)
	return buf
}

// MarshalInto writes the instance into buf.
//
// Parameters:
//   - buf: destination slice (must be at least 16 bytes)
func (g *GPUParticleInstance) MarshalInto(buf []byte) {
	common.PutVec3(buf[0:12], g.Position)
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Age))
}

// QuadVertexData returns the billboard quad as two triangles of (x, y, z, u, v) vertices.
//
// Returns:
//   - []byte: 6 vertices of 20 bytes each
func QuadVertexData() []byte {
	h := QuadHalfSize
	verts := [6][5]float32{
		{-h, -h, 0, 0, 0},
		{h, -h, 0, 1, 0},
		{-h, h, 0, 0, 1},
		{-h, h, 0, 0, 1},
		{h, -h, 0, 1, 0},
		{h, h, 0, 1, 1},
	}
	buf := make([]byte, 0, len(verts)*20)
	for _, v := range verts {
		for _, f := range v {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
	}
	return buf
}

// QuadVertexCount is the number of vertices in QuadVertexData.
const QuadVertexCount = 6
