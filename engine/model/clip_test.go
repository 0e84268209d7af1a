package model

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoBoneSkeleton(t *testing.T) *Skeleton {
	t.Helper()
	skel, err := BuildSkeleton(node("root", node("hip", node("spine"))), []ImportedBone{
		{Name: "hip", ID: 0, Offset: mgl32.Ident4()},
		{Name: "spine", ID: 1, Offset: mgl32.Ident4()},
	})
	require.NoError(t, err)
	return skel
}

func TestNewAnimationClipBindsByName(t *testing.T) {
	anim := &ImportedAnimation{
		Name:           "swim",
		Duration:       10,
		TicksPerSecond: 10,
		Channels: []ImportedChannel{
			{NodeName: "spine", PositionKeys: []VectorKeyframe{{Time: 0}, {Time: 10, Value: mgl32.Vec3{1, 0, 0}}}},
			{NodeName: "camera", PositionKeys: []VectorKeyframe{{Time: 0}}},
		},
	}

	clip, skipped, err := NewAnimationClip(anim, twoBoneSkeleton(t))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, clip.Tracks, 2)
	assert.Nil(t, clip.Track(0), "hip has no keyframes")
	require.NotNil(t, clip.Track(1))
	assert.Len(t, clip.Track(1).PositionKeys, 2)
	assert.Nil(t, clip.Track(7))
}

func TestNewAnimationClipRejectsUnorderedKeys(t *testing.T) {
	anim := &ImportedAnimation{
		Duration: 5,
		Channels: []ImportedChannel{{
			NodeName:     "hip",
			RotationKeys: []QuaternionKeyframe{{Time: 2, Value: mgl32.QuatIdent()}, {Time: 1, Value: mgl32.QuatIdent()}},
		}},
	}
	_, _, err := NewAnimationClip(anim, twoBoneSkeleton(t))
	assert.ErrorIs(t, err, ErrUnorderedKeyframes)
}

func TestNewAnimationClipRequiresDuration(t *testing.T) {
	anim := &ImportedAnimation{
		Channels: []ImportedChannel{{NodeName: "hip", ScaleKeys: []VectorKeyframe{{Time: 0, Value: mgl32.Vec3{1, 1, 1}}}}},
	}
	_, _, err := NewAnimationClip(anim, twoBoneSkeleton(t))
	assert.ErrorIs(t, err, ErrInvalidClip)

	_, _, err = NewAnimationClip(&ImportedAnimation{}, twoBoneSkeleton(t))
	assert.NoError(t, err, "an empty clip needs no duration")
}
