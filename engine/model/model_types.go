package model

import (
	"github.com/Carmen-Shannon/volcano/common"
	"github.com/go-gl/mathgl/mgl32"
)

// NoParent is the parent index of a root bone.
const NoParent int32 = -1

// --- Transform & Skeleton Types ---

// Transform represents a decomposed transform for animation interpolation.
type Transform struct {
	// Translation is the position offset.
	Translation mgl32.Vec3

	// Rotation is the orientation as a unit quaternion.
	Rotation mgl32.Quat

	// Scale is the scale factor along each axis.
	Scale mgl32.Vec3
}

// IdentityTransform returns a transform with no translation, no rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix composes the transform as translate * rotate * scale.
//
// Returns:
//   - mgl32.Mat4: the composed local matrix
func (t Transform) Matrix() mgl32.Mat4 {
	return common.TRS(t.Translation, t.Rotation, t.Scale)
}

// Bone represents a single bone in a skeleton hierarchy.
// Bones live in the Skeleton arena and refer to each other by index.
type Bone struct {
	// ID is the bone's index into the skeleton arena, the clip tracks and the output matrices.
	ID int32

	// Name is the bone's identifier, unique within a skeleton.
	Name string

	// Offset transforms a vertex from bind/model space into the bone's local space.
	// Fixed at import.
	Offset mgl32.Mat4

	// Parent is the index of the parent bone (NoParent for root bones).
	Parent int32

	// Children are the indices of the bone's direct children in traversal order.
	Children []int32

	// Attached reports whether the bone was found in the node tree.
	// Detached bones keep their slot but are never visited.
	Attached bool
}

// Skeleton represents a bone hierarchy for skeletal animation.
// It is a forest: every attached bone is reachable from exactly one root.
type Skeleton struct {
	// Bones is the bone arena indexed by bone ID.
	Bones []Bone

	// Roots are the indices of attached bones with no parent, in tree order.
	Roots []int32

	// BoneNameToIndex maps bone names to their indices for quick lookup.
	BoneNameToIndex map[string]int32
}

// BoneCount returns the number of bone slots in the arena.
func (s *Skeleton) BoneCount() int {
	if s == nil {
		return 0
	}
	return len(s.Bones)
}

// AttachedCount returns the number of bones reachable from the roots.
func (s *Skeleton) AttachedCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for i := range s.Bones {
		if s.Bones[i].Attached {
			n++
		}
	}
	return n
}

// --- Animation Types ---

// VectorKeyframe stores a 3D vector value at a specific time.
type VectorKeyframe struct {
	// Time is the keyframe timestamp in ticks.
	Time float32

	// Value is the 3D vector value at this keyframe.
	Value mgl32.Vec3
}

// QuaternionKeyframe stores a rotation at a specific time.
type QuaternionKeyframe struct {
	// Time is the keyframe timestamp in ticks.
	Time float32

	// Value is the rotation at this keyframe.
	Value mgl32.Quat
}

// BoneTrack contains the keyframes of a single bone.
// The three channels are sampled independently and need not share timestamps.
type BoneTrack struct {
	PositionKeys []VectorKeyframe
	RotationKeys []QuaternionKeyframe
	ScaleKeys    []VectorKeyframe
}

// Empty reports whether the track has no keyframes in any channel.
func (t *BoneTrack) Empty() bool {
	return len(t.PositionKeys) == 0 && len(t.RotationKeys) == 0 && len(t.ScaleKeys) == 0
}

// AnimationClip is one looping animation bound to a skeleton.
type AnimationClip struct {
	// Name is the animation identifier.
	Name string

	// Duration is the total length of the animation in ticks.
	Duration float32

	// TicksPerSecond is the playback rate; zero means the evaluator's fallback rate.
	TicksPerSecond float32

	// Tracks holds the keyframe track of each bone, indexed by bone ID.
	Tracks []BoneTrack
}

// Track returns the keyframe track for a bone, or nil when the clip has none.
//
// Parameters:
//   - id: the bone index
//
// Returns:
//   - *BoneTrack: the track, or nil if id is out of range or the track is empty
func (c *AnimationClip) Track(id int32) *BoneTrack {
	if c == nil || id < 0 || int(id) >= len(c.Tracks) {
		return nil
	}
	t := &c.Tracks[id]
	if t.Empty() {
		return nil
	}
	return t
}

// --- Import Types ---

// ImportedNode is one node of the importer's scene tree.
type ImportedNode struct {
	// Name identifies the node; bone nodes share their name with the bone table.
	Name string

	// Transform is the node's transform relative to its parent.
	Transform mgl32.Mat4

	// Children are the node's direct children.
	Children []*ImportedNode
}

// ImportedBone is one entry of the importer's bone table.
type ImportedBone struct {
	Name   string
	ID     int32
	Offset mgl32.Mat4
}

// ImportedChannel holds the keyframes targeting one node, grouped by node name.
type ImportedChannel struct {
	NodeName     string
	PositionKeys []VectorKeyframe
	RotationKeys []QuaternionKeyframe
	ScaleKeys    []VectorKeyframe
}

// ImportedAnimation is one animation as reported by the importer.
type ImportedAnimation struct {
	Name           string
	Duration       float32
	TicksPerSecond float32
	Channels       []ImportedChannel
}

// ImportedMesh represents a single mesh primitive within an imported scene.
type ImportedMesh struct {
	// Name is the mesh identifier.
	Name string

	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Joints    [][4]uint16
	Weights   [][4]float32
	Indices   []uint32

	// BoundingMin is the minimum corner of the axis-aligned bounding box.
	BoundingMin mgl32.Vec3

	// BoundingMax is the maximum corner of the axis-aligned bounding box.
	BoundingMax mgl32.Vec3
}

// Skinned reports whether the mesh carries per-vertex joint weights.
func (m *ImportedMesh) Skinned() bool {
	return len(m.Joints) == len(m.Positions) && len(m.Weights) == len(m.Positions) && len(m.Positions) > 0
}

// ImportedScene is everything the importer produces for one asset file.
type ImportedScene struct {
	// Name is the asset identifier.
	Name string

	// Root is the root of the node tree.
	Root *ImportedNode

	// Bones is the flat bone table of the skinned mesh.
	Bones []ImportedBone

	// Animations are the animations bundled with the asset.
	Animations []ImportedAnimation

	// Meshes are the mesh primitives of the asset.
	Meshes []ImportedMesh
}
