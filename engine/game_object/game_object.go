package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/volcano/engine/model"
	"github.com/Carmen-Shannon/volcano/engine/renderer/animator"
	"github.com/go-gl/mathgl/mgl32"
)

type gameObject struct {
	id             uint64
	enabled        atomic.Bool
	mdl            model.Model
	animator       animator.Animator
	position       mgl32.Vec3
	rotation       mgl32.Vec3
	scale          mgl32.Vec3
	boundingRadius float32
}

// GameObject defines the interface for a scene entity with a rule-driven transform.
// The transform is translation, Euler rotation in radians applied X then Y then Z, and scale.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Enabled returns whether this object is enabled for updates and rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Model returns the Model associated with this object, or nil if not set.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// Animator returns the Animator associated with this object.
	//
	// Returns:
	//   - animator.Animator: the associated Animator, or nil
	Animator() animator.Animator

	// Position returns the object's translation.
	//
	// Returns:
	//   - mgl32.Vec3: the world-space position
	Position() mgl32.Vec3

	// Rotation returns the object's Euler rotation in radians.
	//
	// Returns:
	//   - mgl32.Vec3: rotation around X, Y and Z
	Rotation() mgl32.Vec3

	// Scale returns the object's per-axis scale.
	//
	// Returns:
	//   - mgl32.Vec3: the scale factors
	Scale() mgl32.Vec3

	// BoundingRadius returns the radius of the sphere used for picking.
	//
	// Returns:
	//   - float32: the radius, 0 when the object is not pickable
	BoundingRadius() float32

	// ModelMatrix composes translate * Rx * Ry * Rz * scale.
	//
	// Returns:
	//   - mgl32.Mat4: the object's model matrix
	ModelMatrix() mgl32.Mat4

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetEnabled sets whether the object is enabled.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetModel assigns a Model to this object.
	//
	// Parameters:
	//   - m: the Model to associate
	SetModel(m model.Model)

	// SetAnimator sets the Animator associated with this object.
	//
	// Parameters:
	//   - anim: the Animator to associate
	SetAnimator(anim animator.Animator)

	// SetPosition sets the object's translation.
	//
	// Parameters:
	//   - position: the new world-space position
	SetPosition(position mgl32.Vec3)

	// SetRotation sets the object's Euler rotation.
	//
	// Parameters:
	//   - rotation: rotation around X, Y and Z in radians
	SetRotation(rotation mgl32.Vec3)

	// SetScale sets the object's per-axis scale.
	//
	// Parameters:
	//   - scale: the new scale factors
	SetScale(scale mgl32.Vec3)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
// The object starts enabled with unit scale.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		scale: mgl32.Vec3{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Model() model.Model {
	return g.mdl
}

func (g *gameObject) Animator() animator.Animator {
	return g.animator
}

func (g *gameObject) Position() mgl32.Vec3 {
	return g.position
}

func (g *gameObject) Rotation() mgl32.Vec3 {
	return g.rotation
}

func (g *gameObject) Scale() mgl32.Vec3 {
	return g.scale
}

func (g *gameObject) BoundingRadius() float32 {
	return g.boundingRadius
}

func (g *gameObject) ModelMatrix() mgl32.Mat4 {
	m := mgl32.Translate3D(g.position[0], g.position[1], g.position[2])
	m = m.Mul4(mgl32.HomogRotate3DX(g.rotation[0]))
	m = m.Mul4(mgl32.HomogRotate3DY(g.rotation[1]))
	m = m.Mul4(mgl32.HomogRotate3DZ(g.rotation[2]))
	return m.Mul4(mgl32.Scale3D(g.scale[0], g.scale[1], g.scale[2]))
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetModel(m model.Model) {
	g.mdl = m
}

func (g *gameObject) SetAnimator(anim animator.Animator) {
	g.animator = anim
}

func (g *gameObject) SetPosition(position mgl32.Vec3) {
	g.position = position
}

func (g *gameObject) SetRotation(rotation mgl32.Vec3) {
	g.rotation = rotation
}

func (g *gameObject) SetScale(scale mgl32.Vec3) {
	g.scale = scale
}
