package game_object

import (
	"github.com/Carmen-Shannon/volcano/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Orbit is a point travelling a horizontal circle around the world Y axis.
type Orbit struct {
	Angle  float32 // radians in [0, 2Pi)
	Speed  float32 // radians per second
	Radius float32
	Height float32
}

// NewFishOrbit returns the orbit of the i-th fish of a school: the fish are fanned out
// around the circle, each on a slightly wider and higher ring than the previous one.
//
// Parameters:
//   - i: the fish index
//   - speed: angular speed in radians per second
//
// Returns:
//   - Orbit: the fish's orbit
func NewFishOrbit(i int, speed float32) Orbit {
	f := float32(i)
	return Orbit{
		Angle:  common.WrapTwoPi(0.3 * common.TwoPi * f),
		Speed:  speed,
		Radius: 40 + f,
		Height: 40 + 5*f,
	}
}

// Advance moves the orbit along by dt seconds.
//
// Parameters:
//   - dt: elapsed time in seconds
func (o *Orbit) Advance(dt float32) {
	o.Angle = common.WrapTwoPi(o.Angle + o.Speed*dt)
}

// Position returns (r cos a, height, r sin a).
//
// Returns:
//   - mgl32.Vec3: the world-space position
func (o Orbit) Position() mgl32.Vec3 {
	return mgl32.Vec3{o.Radius * math32.Cos(o.Angle), o.Height, o.Radius * math32.Sin(o.Angle)}
}

// Forward returns the unit tangent of the circle in the direction of travel.
//
// Returns:
//   - mgl32.Vec3: the heading
func (o Orbit) Forward() mgl32.Vec3 {
	return mgl32.Vec3{-math32.Sin(o.Angle), 0, math32.Cos(o.Angle)}
}

// Matrix returns translate(Position) * basis, where the basis columns are right, up and
// -forward.
//
// Returns:
//   - mgl32.Mat4: the instance transform
func (o Orbit) Matrix() mgl32.Mat4 {
	forward := o.Forward()
	right := mgl32.Vec3{0, 1, 0}.Cross(forward).Normalize()
	up := forward.Cross(right)
	p := o.Position()
	return mgl32.Mat4FromCols(
		right.Vec4(0),
		up.Vec4(0),
		forward.Mul(-1).Vec4(0),
		p.Vec4(1),
	)
}
