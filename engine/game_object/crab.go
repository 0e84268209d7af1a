package game_object

import (
	"github.com/Carmen-Shannon/volcano/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultFleeDuration is how long a startled crab runs, in seconds.
	DefaultFleeDuration float32 = 3.0

	// DefaultCrabRadius is the picking sphere radius of a crab.
	DefaultCrabRadius float32 = 3.0
)

// DefaultFleeVelocity is the per-axis speed of a fleeing crab. It never climbs.
var DefaultFleeVelocity = mgl32.Vec3{5, 0, 5}

type crab struct {
	GameObject
	duration  float32
	velocity  mgl32.Vec3
	fleeing   bool
	timer     float32
	targetYaw float32
}

// Crab defines the interface for a GameObject that runs away from the camera when startled.
//
// A triggered crab moves along the normalized direction from the camera to itself, scaled per
// axis by its flee velocity. During the first half of the flee its yaw blends toward the flee
// heading by a fraction that grows from 0 to 1; the second half keeps the heading it reached.
type Crab interface {
	GameObject

	// Trigger starts or restarts the flee countdown.
	Trigger()

	// Fleeing reports whether the crab is currently running.
	//
	// Returns:
	//   - bool: true while the countdown is active
	Fleeing() bool

	// FleeTimer returns the remaining flee time.
	//
	// Returns:
	//   - float32: seconds left, never negative
	FleeTimer() float32

	// TargetYaw returns the flee heading computed by the last Update of an active flee.
	//
	// Returns:
	//   - float32: the heading in radians within [-Pi, Pi]
	TargetYaw() float32

	// Update advances an active flee by dt. It is a no-op while the crab is idle.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	//   - camera: the position the crab flees from
	Update(dt float32, camera mgl32.Vec3)

	// Hit tests a picking ray against the crab's bounding sphere.
	//
	// Parameters:
	//   - ray: the world-space picking ray
	//
	// Returns:
	//   - float32: the distance along the ray to the hit
	//   - bool: true if the ray hits
	Hit(ray common.Ray) (float32, bool)
}

var _ Crab = &crab{}

// NewCrab creates a new Crab with the specified options. The crab starts idle at the origin
// unless an object is supplied with WithCrabObject.
//
// Parameters:
//   - options: functional options to configure the crab
//
// Returns:
//   - Crab: the idle crab
func NewCrab(options ...CrabBuilderOption) Crab {
	c := &crab{
		duration: DefaultFleeDuration,
		velocity: DefaultFleeVelocity,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.GameObject == nil {
		c.GameObject = NewGameObject(WithBoundingRadius(DefaultCrabRadius))
	}
	return c
}

func (c *crab) Trigger() {
	c.fleeing = true
	c.timer = c.duration
}

func (c *crab) Fleeing() bool {
	return c.fleeing
}

func (c *crab) FleeTimer() float32 {
	return c.timer
}

func (c *crab) TargetYaw() float32 {
	return c.targetYaw
}

func (c *crab) Update(dt float32, camera mgl32.Vec3) {
	if !c.fleeing {
		return
	}

	pos := c.Position()
	away := pos.Sub(camera)
	if away.Len() > 0 {
		away = away.Normalize()
	}
	step := mgl32.Vec3{away[0] * c.velocity[0], away[1] * c.velocity[1], away[2] * c.velocity[2]}
	c.SetPosition(pos.Add(step.Mul(dt)))

	c.targetYaw = common.NormalizeAngle(math32.Atan2(away[0], away[2]))
	if c.timer >= c.duration/2 {
		rot := c.Rotation()
		blend := (c.duration - c.timer) / c.duration * 2
		rot[1] += common.NormalizeAngle(c.targetYaw-rot[1]) * blend
		c.SetRotation(rot)
	}

	c.timer -= dt
	if c.timer <= 0 {
		c.fleeing = false
		c.timer = 0
	}
}

func (c *crab) Hit(ray common.Ray) (float32, bool) {
	if c.BoundingRadius() <= 0 {
		return 0, false
	}
	return ray.IntersectSphere(c.Position(), c.BoundingRadius())
}
