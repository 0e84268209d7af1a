package lava

import "github.com/go-gl/mathgl/mgl32"

// SurfaceBuilderOption is a functional option for configuring a Surface via NewSurface.
type SurfaceBuilderOption func(*surface)

// WithResolution sets the number of grid points along each edge.
//
// Parameters:
//   - rows: points along Z (values below 2 are ignored)
//   - cols: points along X (values below 2 are ignored)
//
// Returns:
//   - SurfaceBuilderOption: a function that applies the resolution to a surface
func WithResolution(rows, cols int) SurfaceBuilderOption {
	return func(s *surface) {
		if rows >= 2 {
			s.rows = rows
		}
		if cols >= 2 {
			s.cols = cols
		}
	}
}

// WithSize sets the extent of the plane.
//
// Parameters:
//   - width: extent along X
//   - depth: extent along Z
//
// Returns:
//   - SurfaceBuilderOption: a function that applies the size to a surface
func WithSize(width, depth float32) SurfaceBuilderOption {
	return func(s *surface) {
		s.width = width
		s.depth = depth
	}
}

// WithPlacement sets the world position of the plane's centre.
//
// Parameters:
//   - placement: the world-space translation
//
// Returns:
//   - SurfaceBuilderOption: a function that applies the placement to a surface
func WithPlacement(placement mgl32.Vec3) SurfaceBuilderOption {
	return func(s *surface) {
		s.placement = placement
	}
}

// WithWave sets the displacement field.
//
// Parameters:
//   - wave: the wave parameters
//
// Returns:
//   - SurfaceBuilderOption: a function that applies the wave to a surface
func WithWave(wave Wave) SurfaceBuilderOption {
	return func(s *surface) {
		s.wave = wave
	}
}

// WithBufferKeys names the vertex and index buffers.
//
// Parameters:
//   - vertices: the vertex buffer name
//   - indices: the index buffer name
//
// Returns:
//   - SurfaceBuilderOption: a function that applies the buffer names to a surface
func WithBufferKeys(vertices, indices string) SurfaceBuilderOption {
	return func(s *surface) {
		s.vertexKey = vertices
		s.indexKey = indices
	}
}
