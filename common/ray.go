package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line starting at Origin and extending along the unit vector Direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// NewRay builds a ray from an origin and a (not necessarily normalized) direction.
//
// Parameters:
//   - origin: the ray start point
//   - direction: the ray direction; normalized on construction
//
// Returns:
//   - Ray: the ray
func NewRay(origin, direction mgl32.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectSphere tests the ray against a sphere.
// An origin inside the sphere counts as a hit at the exit point.
//
// Parameters:
//   - center: sphere center
//   - radius: sphere radius
//
// Returns:
//   - float32: distance along the ray to the nearest non-negative hit
//   - bool: true if the ray hits the sphere
func (r Ray) IntersectSphere(center mgl32.Vec3, radius float32) (float32, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math32.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
