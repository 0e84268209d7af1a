package animator

import (
	"github.com/Carmen-Shannon/volcano/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// bracketFactor returns the interpolation factor of t between start and end.
// A non-positive interval counts as a full 1.0 step. The factor is not clamped, so a time
// before the first key extrapolates along the first interval.
func bracketFactor(t, start, end float32) float32 {
	delta := end - start
	if delta <= 0 {
		delta = 1
	}
	return (t - start) / delta
}

// vectorBracket finds the keyframe interval containing t by scanning forward from the first
// key until t < keys[i].Time. When nothing brackets t it falls back to frame 1 with factor 0.
// Callers must pass at least two keys.
func vectorBracket(keys []model.VectorKeyframe, t float32) (int, float32) {
	for i := 1; i < len(keys); i++ {
		if t < keys[i].Time {
			return i, bracketFactor(t, keys[i-1].Time, keys[i].Time)
		}
	}
	return 1, 0
}

// quaternionBracket is vectorBracket for rotation keys.
func quaternionBracket(keys []model.QuaternionKeyframe, t float32) (int, float32) {
	for i := 1; i < len(keys); i++ {
		if t < keys[i].Time {
			return i, bracketFactor(t, keys[i-1].Time, keys[i].Time)
		}
	}
	return 1, 0
}

func samplePosition(keys []model.VectorKeyframe, t float32) mgl32.Vec3 {
	return sampleVector(keys, t, mgl32.Vec3{})
}

func sampleScale(keys []model.VectorKeyframe, t float32) mgl32.Vec3 {
	return sampleVector(keys, t, mgl32.Vec3{1, 1, 1})
}

func sampleVector(keys []model.VectorKeyframe, t float32, fallback mgl32.Vec3) mgl32.Vec3 {
	switch len(keys) {
	case 0:
		return fallback
	case 1:
		return keys[0].Value
	}
	i, f := vectorBracket(keys, t)
	a, b := keys[i-1].Value, keys[i].Value
	return a.Add(b.Sub(a).Mul(f))
}

func sampleRotation(keys []model.QuaternionKeyframe, t float32) mgl32.Quat {
	switch len(keys) {
	case 0:
		return mgl32.QuatIdent()
	case 1:
		return keys[0].Value.Normalize()
	}
	i, f := quaternionBracket(keys, t)
	return slerp(keys[i-1].Value, keys[i].Value, f)
}

// slerp interpolates along the shorter arc and returns a unit quaternion.
func slerp(a, b mgl32.Quat, f float32) mgl32.Quat {
	a, b = a.Normalize(), b.Normalize()
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, f).Normalize()
}
