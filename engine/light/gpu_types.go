package light

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/volcano/common"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxGPULights is the maximum number of lights that can be marshaled into the
// GPU light buffer per frame. Lights beyond this budget are dropped.
const MaxGPULights = 16

// GPULight is the GPU-aligned representation of a single light source.
// Size: 64 bytes (std430 / WGSL aligned).
type GPULight struct {
	Position   mgl32.Vec3 // offset  0: world-space position
	LightType  uint32     // offset 12: 0 = directional, 1 = point
	Color      mgl32.Vec3 // offset 16: RGB color
	Intensity  float32    // offset 28: scalar multiplier
	Direction  mgl32.Vec3 // offset 32: normalized direction (directional) or unused (point)
	LightRange float32    // offset 44: attenuation cutoff distance
	_pad       [4]uint32  // offset 48: padding to 64-byte alignment
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, 64)
	g.MarshalInto(buf)
	return buf
}

// MarshalInto writes the light into buf; the padding bytes are zeroed.
//
// Parameters:
//   - buf: destination slice (must be at least 64 bytes)
func (g *GPULight) MarshalInto(buf []byte) {
	common.PutVec3(buf[0:12], g.Position)
	binary.LittleEndian.PutUint32(buf[12:16], g.LightType)
	common.PutVec3(buf[16:28], g.Color)
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Intensity))
	common.PutVec3(buf[32:44], g.Direction)
	binary.LittleEndian.PutUint32(buf[44:48], math.Float32bits(g.LightRange))
	clear(buf[48:64])
}

// GPULightHeader is the header prepended to the light buffer.
// Contains the ambient color and the active light count.
// Size: 16 bytes (vec3 + u32, std430 aligned).
type GPULightHeader struct {
	AmbientColor mgl32.Vec3 // offset 0: scene ambient RGB
	LightCount   uint32     // offset 12: number of active lights following the header
}

// Size returns the size of the GPULightHeader struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (h *GPULightHeader) Size() int {
	return int(unsafe.Sizeof(*h))
}

// Marshal serializes the GPULightHeader struct into a byte buffer suitable for
// GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (h *GPULightHeader) Marshal() []byte {
	buf := make([]byte, 16)
	common.PutVec3(buf[0:12], h.AmbientColor)
	binary.LittleEndian.PutUint32(buf[12:16], h.LightCount)
	return buf
}

// ToGPULight converts a Light to its GPU-aligned representation.
//
// Parameters:
//   - l: the Light to convert
//
// Returns:
//   - GPULight: the GPU-aligned representation
func ToGPULight(l Light) GPULight {
	return GPULight{
		Position:   l.Position(),
		LightType:  uint32(l.Type()),
		Color:      l.Color(),
		Intensity:  l.Intensity(),
		Direction:  l.Direction(),
		LightRange: l.Range(),
	}
}

// MarshalLightBuffer marshals a slice of enabled lights into a byte buffer
// suitable for GPU upload. The buffer layout is:
//
//	[GPULightHeader (16 bytes)] [GPULight × count (64 bytes each)]
//
// Only enabled lights are included, up to MaxGPULights.
//
// Parameters:
//   - lights: the full slice of lights to marshal (only enabled lights are included)
//   - ambient: the scene ambient color as RGB
//
// Returns:
//   - []byte: the marshaled buffer ready for GPU upload
func MarshalLightBuffer(lights []Light, ambient mgl32.Vec3) []byte {
	headerSize := (&GPULightHeader{}).Size()
	lightSize := (&GPULight{}).Size()

	enabled := make([]Light, 0, len(lights))
	for _, l := range lights {
		if l.Enabled() && len(enabled) < MaxGPULights {
			enabled = append(enabled, l)
		}
	}

	buf := make([]byte, headerSize+len(enabled)*lightSize)
	header := GPULightHeader{AmbientColor: ambient, LightCount: uint32(len(enabled))}
	copy(buf[:headerSize], header.Marshal())

	offset := headerSize
	for _, l := range enabled {
		gpu := ToGPULight(l)
		gpu.MarshalInto(buf[offset : offset+lightSize])
		offset += lightSize
	}
	return buf
}
