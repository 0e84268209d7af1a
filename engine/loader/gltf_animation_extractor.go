package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/volcano/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfTicksPerSecond is the rate of glTF keyframe times, which are in seconds.
const gltfTicksPerSecond float32 = 1

// gltfExtractAnimation converts one glTF animation into an ImportedAnimation.
// Channels are grouped by target node name in order of first appearance. Cubic spline
// outputs keep only the value element of each in-tangent/value/out-tangent triple.
// Channels that cannot be converted are skipped and reported as warnings.
//
// Parameters:
//   - doc: the decoded document
//   - index: the animation index
//
// Returns:
//   - *model.ImportedAnimation: the converted animation
//   - []string: one warning per skipped channel
//   - error: error if the index is out of range or an accessor cannot be read
func gltfExtractAnimation(doc *gltf.Document, index int) (*model.ImportedAnimation, []string, error) {
	if index < 0 || index >= len(doc.Animations) {
		return nil, nil, errors.Errorf("animation index %d out of range", index)
	}
	src := doc.Animations[index]

	anim := &model.ImportedAnimation{
		Name:           src.Name,
		TicksPerSecond: gltfTicksPerSecond,
	}
	if anim.Name == "" {
		anim.Name = fmt.Sprintf("animation_%d", index)
	}

	var warnings []string
	byNode := make(map[string]int)
	for ci, ch := range src.Channels {
		nodeIdx, ok := gltfIndex(ch.Target.Node)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("channel %d has no target node", ci))
			continue
		}
		samplerIdx, ok := gltfIndex(ch.Sampler)
		if !ok || samplerIdx >= len(src.Samplers) {
			warnings = append(warnings, fmt.Sprintf("channel %d has no sampler", ci))
			continue
		}
		sampler := src.Samplers[samplerIdx]

		times, err := gltfReadTimes(doc, sampler)
		if err != nil {
			return nil, nil, err
		}
		for _, t := range times {
			if t > anim.Duration {
				anim.Duration = t
			}
		}

		name := gltfNodeName(doc, nodeIdx)
		slot, seen := byNode[name]
		if !seen {
			slot = len(anim.Channels)
			byNode[name] = slot
			anim.Channels = append(anim.Channels, model.ImportedChannel{NodeName: name})
		}
		channel := &anim.Channels[slot]

		cubic := sampler.Interpolation == gltf.InterpolationCubicSpline
		switch ch.Target.Path {
		case gltf.TRSTranslation, gltf.TRSScale:
			values, err := gltfReadOutput(doc, sampler)
			if err != nil {
				return nil, nil, err
			}
			vecs, ok := values.([][3]float32)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("channel %d output has type %T", ci, values))
				continue
			}
			keys := make([]model.VectorKeyframe, 0, len(times))
			for i, t := range times {
				v, ok := gltfKeyValue(vecs, i, cubic)
				if !ok {
					break
				}
				keys = append(keys, model.VectorKeyframe{Time: t, Value: mgl32.Vec3(v)})
			}
			if ch.Target.Path == gltf.TRSTranslation {
				channel.PositionKeys = keys
			} else {
				channel.ScaleKeys = keys
			}
		case gltf.TRSRotation:
			values, err := gltfReadOutput(doc, sampler)
			if err != nil {
				return nil, nil, err
			}
			quats, ok := values.([][4]float32)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("channel %d rotation output has type %T", ci, values))
				continue
			}
			keys := make([]model.QuaternionKeyframe, 0, len(times))
			for i, t := range times {
				q, ok := gltfKeyValue(quats, i, cubic)
				if !ok {
					break
				}
				keys = append(keys, model.QuaternionKeyframe{
					Time:  t,
					Value: mgl32.Quat{W: q[3], V: mgl32.Vec3{q[0], q[1], q[2]}}.Normalize(),
				})
			}
			channel.RotationKeys = keys
		default:
			warnings = append(warnings, fmt.Sprintf("channel %d targets unsupported path %v", ci, ch.Target.Path))
		}
	}
	return anim, warnings, nil
}

func gltfReadTimes(doc *gltf.Document, sampler *gltf.AnimationSampler) ([]float32, error) {
	idx, ok := gltfIndex(sampler.Input)
	if !ok || idx >= len(doc.Accessors) {
		return nil, errors.Errorf("sampler input accessor missing")
	}
	data, err := modeler.ReadAccessor(doc, doc.Accessors[idx], nil)
	if err != nil {
		return nil, err
	}
	times, ok := data.([]float32)
	if !ok {
		return nil, errors.Errorf("sampler input accessor %d has type %T, want SCALAR float", idx, data)
	}
	return times, nil
}

func gltfReadOutput(doc *gltf.Document, sampler *gltf.AnimationSampler) (any, error) {
	idx, ok := gltfIndex(sampler.Output)
	if !ok || idx >= len(doc.Accessors) {
		return nil, errors.Errorf("sampler output accessor missing")
	}
	return modeler.ReadAccessor(doc, doc.Accessors[idx], nil)
}

// gltfKeyValue returns the i-th keyframe value, skipping cubic spline tangents.
func gltfKeyValue[T any](values []T, i int, cubic bool) (T, bool) {
	if cubic {
		i = i*3 + 1
	}
	if i >= len(values) {
		var zero T
		return zero, false
	}
	return values[i], true
}
