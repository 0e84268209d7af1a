package model

import (
	"github.com/pkg/errors"
)

var (
	// ErrUnorderedKeyframes is returned when a channel's timestamps decrease.
	ErrUnorderedKeyframes = errors.New("keyframe timestamps are not monotonically non-decreasing")

	// ErrInvalidClip is returned for a clip that has keyframes but no positive duration.
	ErrInvalidClip = errors.New("invalid animation clip")
)

// NewAnimationClip binds an imported animation to a skeleton.
// Channels are matched to bones by node name; channels targeting non-bone nodes are skipped.
//
// Parameters:
//   - anim: the imported animation
//   - skeleton: the skeleton the clip animates
//
// Returns:
//   - *AnimationClip: the clip with one track per bone slot
//   - int: the number of skipped channels
//   - error: a wrapped ErrUnorderedKeyframes or ErrInvalidClip
func NewAnimationClip(anim *ImportedAnimation, skeleton *Skeleton) (*AnimationClip, int, error) {
	clip := &AnimationClip{
		Name:           anim.Name,
		Duration:       anim.Duration,
		TicksPerSecond: anim.TicksPerSecond,
		Tracks:         make([]BoneTrack, skeleton.BoneCount()),
	}

	skipped := 0
	animated := false
	for i := range anim.Channels {
		ch := &anim.Channels[i]
		id, ok := skeleton.BoneNameToIndex[ch.NodeName]
		if !ok {
			skipped++
			continue
		}
		tr := &clip.Tracks[id]
		tr.PositionKeys = append(tr.PositionKeys, ch.PositionKeys...)
		tr.RotationKeys = append(tr.RotationKeys, ch.RotationKeys...)
		tr.ScaleKeys = append(tr.ScaleKeys, ch.ScaleKeys...)

		if k := firstDecrease(len(tr.PositionKeys), func(k int) float32 { return tr.PositionKeys[k].Time }); k >= 0 {
			return nil, skipped, errors.Wrapf(ErrUnorderedKeyframes, "clip %q bone %q position key %d", anim.Name, ch.NodeName, k)
		}
		if k := firstDecrease(len(tr.RotationKeys), func(k int) float32 { return tr.RotationKeys[k].Time }); k >= 0 {
			return nil, skipped, errors.Wrapf(ErrUnorderedKeyframes, "clip %q bone %q rotation key %d", anim.Name, ch.NodeName, k)
		}
		if k := firstDecrease(len(tr.ScaleKeys), func(k int) float32 { return tr.ScaleKeys[k].Time }); k >= 0 {
			return nil, skipped, errors.Wrapf(ErrUnorderedKeyframes, "clip %q bone %q scale key %d", anim.Name, ch.NodeName, k)
		}
		animated = animated || !tr.Empty()
	}

	if animated && clip.Duration <= 0 {
		return nil, skipped, errors.Wrapf(ErrInvalidClip, "clip %q has keyframes but duration %v", anim.Name, clip.Duration)
	}
	return clip, skipped, nil
}

// firstDecrease returns the index of the first timestamp smaller than its predecessor, or -1.
func firstDecrease(n int, time func(i int) float32) int {
	for i := 1; i < n; i++ {
		if time(i) < time(i-1) {
			return i
		}
	}
	return -1
}
