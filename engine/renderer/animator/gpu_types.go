package animator

import (
	"github.com/Carmen-Shannon/volcano/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUBoneMatrices is the GPU layout of a skinning uniform: a fixed array<mat4x4<f32>, MaxBones>.
// Slots without a bone are filled with identity.
// Size: MaxBones * 64 bytes.
type GPUBoneMatrices struct {
	Bones    []mgl32.Mat4
	MaxBones int
}

// Size returns the size of the uniform in bytes.
//
// Returns:
//   - int: MaxBones * 64
func (g *GPUBoneMatrices) Size() int {
	return g.MaxBones * 64
}

// Marshal serializes the bone array into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: Size() bytes ready for GPU upload
func (g *GPUBoneMatrices) Marshal() []byte {
	return g.MarshalInto(nil)
}

// MarshalInto is Marshal reusing buf when it is large enough.
// Bones beyond MaxBones are truncated.
//
// Parameters:
//   - buf: the buffer to reuse (may be nil)
//
// Returns:
//   - []byte: Size() bytes ready for GPU upload
func (g *GPUBoneMatrices) MarshalInto(buf []byte) []byte {
	size := g.Size()
	if cap(buf) < size {
		buf = make([]byte, size)
	}
	buf = buf[:size]
	ident := mgl32.Ident4()
	for i := 0; i < g.MaxBones; i++ {
		m := ident
		if i < len(g.Bones) {
			m = g.Bones[i]
		}
		common.PutMat4(buf[i*64:(i+1)*64], m)
	}
	return buf
}
