package animator

import (
	"math/rand/v2"
	"testing"

	"github.com/Carmen-Shannon/volcano/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain(t *testing.T, names ...string) *model.Skeleton {
	t.Helper()
	var root *model.ImportedNode
	var parent *model.ImportedNode
	bones := make([]model.ImportedBone, len(names))
	for i, name := range names {
		n := &model.ImportedNode{Name: name, Transform: mgl32.Ident4()}
		if parent == nil {
			root = n
		} else {
			parent.Children = append(parent.Children, n)
		}
		parent = n
		bones[i] = model.ImportedBone{Name: name, ID: int32(i), Offset: mgl32.Ident4()}
	}
	skel, err := model.BuildSkeleton(root, bones)
	require.NoError(t, err)
	return skel
}

func translation(m mgl32.Mat4) []float32 {
	v := m.Col(3).Vec3()
	return v[:]
}

func TestEvaluateInterpolatesPosition(t *testing.T) {
	skel := chain(t, "root")
	clip := &model.AnimationClip{
		Duration:       10,
		TicksPerSecond: 10,
		Tracks: []model.BoneTrack{{
			PositionKeys: []model.VectorKeyframe{
				{Time: 0, Value: mgl32.Vec3{0, 0, 0}},
				{Time: 10, Value: mgl32.Vec3{10, 0, 0}},
			},
		}},
	}

	out := Evaluate(skel, clip, 0.5, DefaultEvaluateOptions())
	require.Len(t, out, 1)
	assert.InDeltaSlice(t, []float32{5, 0, 0}, translation(out[0]), 1e-5)
}

func TestEvaluateStaticBoneKeepsIdentityAndPassesParent(t *testing.T) {
	skel := chain(t, "a", "b", "c")
	clip := &model.AnimationClip{
		Duration:       1,
		TicksPerSecond: 1,
		Tracks: []model.BoneTrack{
			{PositionKeys: []model.VectorKeyframe{{Time: 0, Value: mgl32.Vec3{1, 0, 0}}}},
			{},
			{PositionKeys: []model.VectorKeyframe{{Time: 0, Value: mgl32.Vec3{0, 2, 0}}}},
		},
	}

	out := Evaluate(skel, clip, 0.25, DefaultEvaluateOptions())
	require.Len(t, out, 3)
	assert.Equal(t, mgl32.Ident4(), out[1], "static bone")
	assert.InDeltaSlice(t, []float32{1, 2, 0}, translation(out[2]), 1e-6, "child composes with the static bone's parent")
}

func TestEvaluateIsDeterministic(t *testing.T) {
	skel := chain(t, "a", "b")
	clip := randomClip(rand.New(rand.NewPCG(1, 2)), 2, 8, 4)

	for _, elapsed := range []float32{0, 0.37, 1.5, 123.456} {
		first := Evaluate(skel, clip, elapsed, DefaultEvaluateOptions())
		second := Evaluate(skel, clip, elapsed, DefaultEvaluateOptions())
		assert.Equal(t, first, second, "elapsed %v", elapsed)
	}
}

func TestAnimationTimeWraps(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 7))
	for range 1000 {
		elapsed := (r.Float32() - 0.2) * 1e4
		tps := r.Float32()*60 + 0.1
		duration := r.Float32()*100 + 0.01
		at := AnimationTime(elapsed, tps, duration)
		assert.GreaterOrEqual(t, at, float32(0))
		assert.Less(t, at, duration)
	}
	assert.Equal(t, float32(0), AnimationTime(5, 10, 0))
	assert.InDelta(t, 5, AnimationTime(1.5, 10, 10), 1e-5)
}

func TestEvaluateFallbackTicksPerSecond(t *testing.T) {
	skel := chain(t, "root")
	clip := &model.AnimationClip{
		Duration: 100,
		Tracks: []model.BoneTrack{{
			PositionKeys: []model.VectorKeyframe{{Time: 0}, {Time: 100, Value: mgl32.Vec3{100, 0, 0}}},
		}},
	}
	out := Evaluate(skel, clip, 1, DefaultEvaluateOptions())
	assert.InDelta(t, 25, translation(out[0])[0], 1e-4, "zero rate plays at 25 ticks per second")
}

func TestEvaluateAppliesGlobalInverseAndOffset(t *testing.T) {
	root := &model.ImportedNode{Name: "hip", Transform: mgl32.Ident4()}
	skel, err := model.BuildSkeleton(root, []model.ImportedBone{{Name: "hip", ID: 0, Offset: mgl32.Translate3D(0, 0, 3)}})
	require.NoError(t, err)
	clip := &model.AnimationClip{
		Duration: 1,
		Tracks:   []model.BoneTrack{{PositionKeys: []model.VectorKeyframe{{Time: 0, Value: mgl32.Vec3{1, 0, 0}}}}},
	}

	opts := DefaultEvaluateOptions()
	out := Evaluate(skel, clip, 0, opts)
	assert.InDeltaSlice(t, []float32{1, 0, 3}, translation(out[0]), 1e-6)

	opts.GlobalInverse = mgl32.Translate3D(0, -5, 0)
	opts.ApplyGlobalInverse = true
	out = Evaluate(skel, clip, 0, opts)
	assert.InDeltaSlice(t, []float32{1, -5, 3}, translation(out[0]), 1e-6)
}

func TestEvaluateTruncatesAtMaxBones(t *testing.T) {
	skel := chain(t, "a", "b", "c")
	clip := &model.AnimationClip{
		Duration: 1,
		Tracks: []model.BoneTrack{
			{PositionKeys: []model.VectorKeyframe{{Time: 0, Value: mgl32.Vec3{1, 0, 0}}}},
			{PositionKeys: []model.VectorKeyframe{{Time: 0, Value: mgl32.Vec3{1, 0, 0}}}},
			{PositionKeys: []model.VectorKeyframe{{Time: 0, Value: mgl32.Vec3{1, 0, 0}}}},
		},
	}
	opts := DefaultEvaluateOptions()
	opts.MaxBones = 2
	out := Evaluate(skel, clip, 0, opts)
	require.Len(t, out, 2)
	assert.InDelta(t, 2, translation(out[1])[0], 1e-6)
}

func TestEvaluateWithoutClipIsIdentity(t *testing.T) {
	out := Evaluate(chain(t, "a", "b"), nil, 3, DefaultEvaluateOptions())
	assert.Equal(t, []mgl32.Mat4{mgl32.Ident4(), mgl32.Ident4()}, out)

	assert.Empty(t, Evaluate(nil, nil, 0, DefaultEvaluateOptions()))
}

func TestEvaluateIntoReusesBuffer(t *testing.T) {
	skel := chain(t, "a", "b")
	buf := make([]mgl32.Mat4, 0, 8)
	out := EvaluateInto(buf, skel, nil, 0, DefaultEvaluateOptions())
	require.Len(t, out, 2)
	assert.Equal(t, &buf[:1][0], &out[0])
}

func randomClip(r *rand.Rand, bones, keys int, duration float32) *model.AnimationClip {
	clip := &model.AnimationClip{Duration: duration, TicksPerSecond: 1, Tracks: make([]model.BoneTrack, bones)}
	for b := range clip.Tracks {
		tr := &clip.Tracks[b]
		for k := 0; k < keys; k++ {
			ts := duration * float32(k) / float32(keys-1)
			tr.PositionKeys = append(tr.PositionKeys, model.VectorKeyframe{Time: ts, Value: mgl32.Vec3{r.Float32(), r.Float32(), r.Float32()}})
			tr.RotationKeys = append(tr.RotationKeys, model.QuaternionKeyframe{Time: ts, Value: randomQuat(r)})
			tr.ScaleKeys = append(tr.ScaleKeys, model.VectorKeyframe{Time: ts, Value: mgl32.Vec3{1, 1, 1}})
		}
	}
	return clip
}

func randomQuat(r *rand.Rand) mgl32.Quat {
	axis := mgl32.Vec3{r.Float32() - 0.5, r.Float32() - 0.5, r.Float32() - 0.5}
	if axis.Len() < 1e-3 {
		axis = mgl32.Vec3{0, 1, 0}
	}
	return mgl32.QuatRotate(r.Float32()*6.28, axis.Normalize())
}
