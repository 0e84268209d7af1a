package lava

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/volcano/common"
	"github.com/Carmen-Shannon/volcano/engine/renderer/staging"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultSize is the edge length of the lava plane in world units.
	DefaultSize float32 = 150

	// DefaultResolution is the number of grid points along each edge.
	DefaultResolution = 100

	// VertexStride is the size of one interleaved vertex: position, normal, uv.
	VertexStride = 32
)

// DefaultPlacement is where the plane is centred in the world.
var DefaultPlacement = mgl32.Vec3{10, 3, 0}

// Wave is the displacement field y = Amplitude * (sin(Frequency*x + t) + cos(Frequency*z + Phase*t)).
type Wave struct {
	Amplitude float32
	Frequency float32
	Phase     float32
}

// DefaultWave rolls slowly along X and more slowly along Z.
var DefaultWave = Wave{Amplitude: 2, Frequency: 0.1, Phase: 0.3}

// Height evaluates the wave at a plane-local point.
//
// Parameters:
//   - x, z: plane-local coordinates
//   - t: elapsed time in seconds
//
// Returns:
//   - float32: the displacement
func (w Wave) Height(x, z, t float32) float32 {
	return w.Amplitude * (math32.Sin(w.Frequency*x+t) + math32.Cos(w.Frequency*z+w.Phase*t))
}

type surface struct {
	rows, cols    int
	width, depth  float32
	placement     mgl32.Vec3
	wave          Wave
	positions     []mgl32.Vec3
	normals       []mgl32.Vec3
	uvs           []mgl32.Vec2
	indices       []uint32
	elapsed       float32
	vertexKey     string
	indexKey      string
	indicesStaged bool

	vertexBuf       []byte
	stagedWriteData []staging.BufferWrite
}

// Surface defines the interface for the displaced lava plane.
//
// The plane is a rows x cols grid of vertices spanning width x depth, centred on its local
// origin. Each Update displaces every vertex by the wave and recomputes normals from the
// height field.
type Surface interface {
	// Update displaces the grid for the given elapsed time.
	//
	// Parameters:
	//   - elapsed: total elapsed time in seconds
	Update(elapsed float32)

	// Elapsed returns the time of the last Update.
	//
	// Returns:
	//   - float32: elapsed seconds
	Elapsed() float32

	// Rows returns the number of grid points along Z.
	//
	// Returns:
	//   - int: the row count
	Rows() int

	// Cols returns the number of grid points along X.
	//
	// Returns:
	//   - int: the column count
	Cols() int

	// Positions returns the plane-local vertex positions in row-major order.
	//
	// Returns:
	//   - []mgl32.Vec3: rows*cols positions
	Positions() []mgl32.Vec3

	// Normals returns the vertex normals matching Positions.
	//
	// Returns:
	//   - []mgl32.Vec3: rows*cols unit normals
	Normals() []mgl32.Vec3

	// UVs returns texture coordinates spanning [0, 1] across the plane.
	//
	// Returns:
	//   - []mgl32.Vec2: rows*cols coordinates
	UVs() []mgl32.Vec2

	// Indices returns the triangle list, two counter-clockwise triangles per cell.
	//
	// Returns:
	//   - []uint32: 6*(rows-1)*(cols-1) indices
	Indices() []uint32

	// ModelMatrix returns the translation placing the plane in the world.
	//
	// Returns:
	//   - mgl32.Mat4: the model matrix
	ModelMatrix() mgl32.Mat4

	// Flush stages the interleaved vertex buffer, plus the index buffer on the first call.
	//
	// Returns:
	//   - uint32: the index count to draw
	Flush() uint32

	// StagedWriteData returns and clears the pending GPU buffer writes.
	//
	// Returns:
	//   - []staging.BufferWrite: the slice of pending buffer writes
	StagedWriteData() []staging.BufferWrite

	// VertexBufferKey returns the name of the vertex buffer.
	//
	// Returns:
	//   - string: the buffer name
	VertexBufferKey() string

	// IndexBufferKey returns the name of the index buffer.
	//
	// Returns:
	//   - string: the buffer name
	IndexBufferKey() string
}

var _ Surface = &surface{}

// NewSurface creates a lava plane with the specified options, displaced for time zero.
//
// Parameters:
//   - options: functional options to configure the plane
//
// Returns:
//   - Surface: the lava surface
func NewSurface(options ...SurfaceBuilderOption) Surface {
	s := &surface{
		rows:      DefaultResolution,
		cols:      DefaultResolution,
		width:     DefaultSize,
		depth:     DefaultSize,
		placement: DefaultPlacement,
		wave:      DefaultWave,
		vertexKey: "lava/vertices",
		indexKey:  "lava/indices",
	}
	for _, opt := range options {
		opt(s)
	}
	s.buildGrid()
	s.Update(0)
	return s
}

func (s *surface) buildGrid() {
	n := s.rows * s.cols
	s.positions = make([]mgl32.Vec3, n)
	s.normals = make([]mgl32.Vec3, n)
	s.uvs = make([]mgl32.Vec2, n)

	dx := s.width / float32(s.cols-1)
	dz := s.depth / float32(s.rows-1)
	for z := 0; z < s.rows; z++ {
		for x := 0; x < s.cols; x++ {
			i := z*s.cols + x
			s.positions[i] = mgl32.Vec3{-s.width/2 + float32(x)*dx, 0, -s.depth/2 + float32(z)*dz}
			s.normals[i] = mgl32.Vec3{0, 1, 0}
			s.uvs[i] = mgl32.Vec2{float32(x) / float32(s.cols-1), float32(z) / float32(s.rows-1)}
		}
	}

	s.indices = make([]uint32, 0, 6*(s.rows-1)*(s.cols-1))
	for z := 0; z < s.rows-1; z++ {
		for x := 0; x < s.cols-1; x++ {
			topLeft := uint32(z*s.cols + x)
			topRight := topLeft + 1
			bottomLeft := uint32((z+1)*s.cols + x)
			bottomRight := bottomLeft + 1
			s.indices = append(s.indices,
				topLeft, bottomLeft, topRight,
				topRight, bottomLeft, bottomRight,
			)
		}
	}
}

func (s *surface) Update(elapsed float32) {
	s.elapsed = elapsed
	for i := range s.positions {
		p := &s.positions[i]
		p[1] = s.wave.Height(p[0], p[2], elapsed)
	}
	s.computeNormals()
}

// computeNormals uses central differences inside the grid and one-sided ones on the border.
func (s *surface) computeNormals() {
	height := func(x, z int) float32 {
		return s.positions[z*s.cols+x][1]
	}
	for z := 0; z < s.rows; z++ {
		z0, z1 := max(z-1, 0), min(z+1, s.rows-1)
		for x := 0; x < s.cols; x++ {
			x0, x1 := max(x-1, 0), min(x+1, s.cols-1)
			spanX := s.positions[z*s.cols+x1][0] - s.positions[z*s.cols+x0][0]
			spanZ := s.positions[z1*s.cols+x][2] - s.positions[z0*s.cols+x][2]
			var dhdx, dhdz float32
			if spanX != 0 {
				dhdx = (height(x1, z) - height(x0, z)) / spanX
			}
			if spanZ != 0 {
				dhdz = (height(x, z1) - height(x, z0)) / spanZ
			}
			s.normals[z*s.cols+x] = mgl32.Vec3{-dhdx, 1, -dhdz}.Normalize()
		}
	}
}

func (s *surface) Elapsed() float32 {
	return s.elapsed
}

func (s *surface) Rows() int {
	return s.rows
}

func (s *surface) Cols() int {
	return s.cols
}

func (s *surface) Positions() []mgl32.Vec3 {
	return s.positions
}

func (s *surface) Normals() []mgl32.Vec3 {
	return s.normals
}

func (s *surface) UVs() []mgl32.Vec2 {
	return s.uvs
}

func (s *surface) Indices() []uint32 {
	return s.indices
}

func (s *surface) ModelMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(s.placement[0], s.placement[1], s.placement[2])
}

func (s *surface) Flush() uint32 {
	if !s.indicesStaged {
		s.stagedWriteData = append(s.stagedWriteData, staging.BufferWrite{
			Buffer: s.indexKey,
			Usage:  staging.BufferUsageIndex,
			Data:   common.SliceToBytes(s.indices),
		})
		s.indicesStaged = true
	}

	size := len(s.positions) * VertexStride
	if len(s.vertexBuf) != size {
		s.vertexBuf = make([]byte, size)
	}
	for i := range s.positions {
		v := s.vertexBuf[i*VertexStride : (i+1)*VertexStride]
		common.PutVec3(v[0:12], s.positions[i])
		common.PutVec3(v[12:24], s.normals[i])
		binary.LittleEndian.PutUint32(v[24:28], math.Float32bits(s.uvs[i][0]))
		binary.LittleEndian.PutUint32(v[28:32], math.Float32bits(s.uvs[i][1]))
	}
	s.stagedWriteData = append(s.stagedWriteData, staging.BufferWrite{
		Buffer: s.vertexKey,
		Usage:  staging.BufferUsageVertex,
		Data:   s.vertexBuf,
	})
	return uint32(len(s.indices))
}

func (s *surface) StagedWriteData() []staging.BufferWrite {
	writes := s.stagedWriteData
	s.stagedWriteData = nil
	return writes
}

func (s *surface) VertexBufferKey() string {
	return s.vertexKey
}

func (s *surface) IndexBufferKey() string {
	return s.indexKey
}
