package game_object

import (
	"log/slog"

	"github.com/Carmen-Shannon/volcano/common"
	"github.com/go-gl/mathgl/mgl32"
)

// CrabPlacement is the resting position and heading of one crab.
type CrabPlacement struct {
	Position mgl32.Vec3
	YawDeg   float32
}

// DefaultCrabPlacements scatters the crabs over the rocks west of the crater.
var DefaultCrabPlacements = []CrabPlacement{
	{Position: mgl32.Vec3{-65, 8, 30}, YawDeg: -64.8},
	{Position: mgl32.Vec3{-94, 9, 23}, YawDeg: 74},
	{Position: mgl32.Vec3{-93, 9, 14}, YawDeg: -30},
	{Position: mgl32.Vec3{-93, 7, 17}, YawDeg: -53},
	{Position: mgl32.Vec3{-84.4, 7, 24.7}, YawDeg: 119},
}

type crabHerd struct {
	crabs  []Crab
	logger *slog.Logger
}

// CrabHerd defines the interface for the set of pickable crabs in a scene.
type CrabHerd interface {
	// Crabs returns the crabs of the herd.
	//
	// Returns:
	//   - []Crab: every crab, in placement order
	Crabs() []Crab

	// Update advances every enabled crab.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	//   - camera: the position crabs flee from
	Update(dt float32, camera mgl32.Vec3)

	// Pick triggers the nearest enabled crab hit by the ray.
	//
	// Parameters:
	//   - ray: the world-space picking ray
	//
	// Returns:
	//   - int: the index of the startled crab
	//   - bool: false if the ray missed every crab
	Pick(ray common.Ray) (int, bool)

	// ModelMatrices appends the model matrix of every enabled crab to dst.
	//
	// Parameters:
	//   - dst: destination slice, may be nil
	//
	// Returns:
	//   - []mgl32.Mat4: dst with one matrix per enabled crab appended
	ModelMatrices(dst []mgl32.Mat4) []mgl32.Mat4
}

var _ CrabHerd = &crabHerd{}

// NewCrabHerd creates a herd from the given crabs.
//
// Parameters:
//   - logger: logger for pick diagnostics, slog.Default() when nil
//   - crabs: the crabs of the herd
//
// Returns:
//   - CrabHerd: the herd
func NewCrabHerd(logger *slog.Logger, crabs ...Crab) CrabHerd {
	if logger == nil {
		logger = slog.Default()
	}
	return &crabHerd{crabs: crabs, logger: logger}
}

// NewCrabsFromPlacements builds one idle crab per placement.
//
// Parameters:
//   - placements: the resting positions and headings
//   - options: options applied to every crab after its object is set
//
// Returns:
//   - []Crab: the crabs, in placement order
func NewCrabsFromPlacements(placements []CrabPlacement, options ...CrabBuilderOption) []Crab {
	crabs := make([]Crab, 0, len(placements))
	for i, p := range placements {
		obj := NewGameObject(
			WithID(uint64(i)),
			WithPosition(p.Position[0], p.Position[1], p.Position[2]),
			WithRotation(0, mgl32.DegToRad(p.YawDeg), 0),
			WithBoundingRadius(DefaultCrabRadius),
		)
		opts := append([]CrabBuilderOption{WithCrabObject(obj)}, options...)
		crabs = append(crabs, NewCrab(opts...))
	}
	return crabs
}

func (h *crabHerd) Crabs() []Crab {
	return h.crabs
}

func (h *crabHerd) Update(dt float32, camera mgl32.Vec3) {
	for _, c := range h.crabs {
		if c.Enabled() {
			c.Update(dt, camera)
		}
	}
}

func (h *crabHerd) Pick(ray common.Ray) (int, bool) {
	best, bestT := -1, float32(0)
	for i, c := range h.crabs {
		if !c.Enabled() {
			continue
		}
		if t, ok := c.Hit(ray); ok && (best < 0 || t < bestT) {
			best, bestT = i, t
		}
	}
	if best < 0 {
		return -1, false
	}
	h.crabs[best].Trigger()
	h.logger.Debug("[Crabs] crab startled", "index", best, "distance", bestT)
	return best, true
}

func (h *crabHerd) ModelMatrices(dst []mgl32.Mat4) []mgl32.Mat4 {
	for _, c := range h.crabs {
		if c.Enabled() {
			dst = append(dst, c.ModelMatrix())
		}
	}
	return dst
}
