package animator

import (
	"math"

	"github.com/Carmen-Shannon/volcano/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultMaxBones is the number of skinning matrices a shader's bone array holds.
	DefaultMaxBones = 100

	// FallbackTicksPerSecond is the playback rate used when a clip reports zero.
	FallbackTicksPerSecond = 25.0
)

// EvaluateOptions configures a pose evaluation.
type EvaluateOptions struct {
	// GlobalInverse cancels the scene root transform when ApplyGlobalInverse is set.
	GlobalInverse mgl32.Mat4

	// ApplyGlobalInverse prefixes every skinning matrix with GlobalInverse.
	ApplyGlobalInverse bool

	// MaxBones caps the output length; bones with an ID at or beyond it are not written.
	MaxBones int

	// FallbackTicksPerSecond replaces a zero clip rate.
	FallbackTicksPerSecond float32
}

// DefaultEvaluateOptions returns options with a 100 bone cap, the 25 tick fallback and no
// global inverse.
func DefaultEvaluateOptions() EvaluateOptions {
	return EvaluateOptions{
		GlobalInverse:          mgl32.Ident4(),
		MaxBones:               DefaultMaxBones,
		FallbackTicksPerSecond: FallbackTicksPerSecond,
	}
}

// AnimationTime converts elapsed seconds into clip ticks, looping over the clip duration.
// The result is always within [0, duration); a non-positive duration yields 0.
//
// Parameters:
//   - elapsedSeconds: wall-clock time since playback started
//   - ticksPerSecond: the clip playback rate
//   - duration: the clip length in ticks
//
// Returns:
//   - float32: the animation time in ticks
func AnimationTime(elapsedSeconds, ticksPerSecond, duration float32) float32 {
	if duration <= 0 {
		return 0
	}
	t := float32(math.Mod(float64(elapsedSeconds)*float64(ticksPerSecond), float64(duration)))
	if t < 0 {
		t += duration
	}
	if t >= duration || math.IsNaN(float64(t)) {
		t = 0
	}
	return t
}

// Evaluate computes the skinning matrices of a skeleton at a point in time.
// It is a pure function: equal inputs produce bit-identical output.
//
// Parameters:
//   - skeleton: the bone hierarchy
//   - clip: the animation clip (nil evaluates every bone as static)
//   - elapsedSeconds: playback time in seconds
//   - opts: evaluation options
//
// Returns:
//   - []mgl32.Mat4: min(boneCount, MaxBones) matrices indexed by bone ID
func Evaluate(skeleton *model.Skeleton, clip *model.AnimationClip, elapsedSeconds float32, opts EvaluateOptions) []mgl32.Mat4 {
	return EvaluateInto(nil, skeleton, clip, elapsedSeconds, opts)
}

// EvaluateInto is Evaluate writing into dst, which is grown as needed and returned.
// Static bones are reset to identity.
//
// Parameters:
//   - dst: the destination slice to reuse (may be nil)
//   - skeleton: the bone hierarchy
//   - clip: the animation clip (nil evaluates every bone as static)
//   - elapsedSeconds: playback time in seconds
//   - opts: evaluation options
//
// Returns:
//   - []mgl32.Mat4: the skinning matrices
func EvaluateInto(dst []mgl32.Mat4, skeleton *model.Skeleton, clip *model.AnimationClip, elapsedSeconds float32, opts EvaluateOptions) []mgl32.Mat4 {
	n := skeleton.BoneCount()
	if opts.MaxBones > 0 && n > opts.MaxBones {
		n = opts.MaxBones
	}
	if cap(dst) < n {
		dst = make([]mgl32.Mat4, n)
	}
	dst = dst[:n]
	for i := range dst {
		dst[i] = mgl32.Ident4()
	}
	if n == 0 {
		return dst
	}

	e := evaluation{
		skeleton: skeleton,
		clip:     clip,
		out:      dst,
		prefix:   mgl32.Ident4(),
	}
	if opts.ApplyGlobalInverse {
		e.prefix = opts.GlobalInverse
	}
	if clip != nil {
		tps := clip.TicksPerSecond
		if tps == 0 {
			tps = opts.FallbackTicksPerSecond
		}
		e.time = AnimationTime(elapsedSeconds, tps, clip.Duration)
	}

	for _, root := range skeleton.Roots {
		e.visit(root, mgl32.Ident4())
	}
	return dst
}

type evaluation struct {
	skeleton *model.Skeleton
	clip     *model.AnimationClip
	out      []mgl32.Mat4
	prefix   mgl32.Mat4
	time     float32
}

func (e *evaluation) visit(id int32, parent mgl32.Mat4) {
	bone := &e.skeleton.Bones[id]

	global := parent
	if track := e.clip.Track(id); track != nil {
		local := model.Transform{
			Translation: samplePosition(track.PositionKeys, e.time),
			Rotation:    sampleRotation(track.RotationKeys, e.time),
			Scale:       sampleScale(track.ScaleKeys, e.time),
		}
		global = parent.Mul4(local.Matrix())
		if int(id) < len(e.out) {
			e.out[id] = e.prefix.Mul4(global).Mul4(bone.Offset)
		}
	}

	for _, child := range bone.Children {
		e.visit(child, global)
	}
}
