package model

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

var (
	// ErrNoBonesMatched is reported when no node of the scene tree is named in the bone table.
	// It is a diagnostic: the returned skeleton is empty and the mesh can still be drawn unskinned.
	ErrNoBonesMatched = errors.New("no bones matched the node tree")

	// ErrMalformedHierarchy is returned for id collisions, duplicate names and cycles.
	ErrMalformedHierarchy = errors.New("malformed bone hierarchy")
)

// BuildSkeleton constructs the bone forest from the importer's node tree and bone table.
// Nodes named in the table become bones attached to their nearest bone ancestor. Other nodes
// are not inserted but their children are still walked. Table bones that never appear in the
// tree keep their arena slot with Attached set to false.
//
// Parameters:
//   - root: the root of the importer's node tree (may be nil)
//   - bones: the bone table; IDs must be unique and within [0, len(bones))
//
// Returns:
//   - *Skeleton: the skeleton (empty but non-nil alongside ErrNoBonesMatched)
//   - error: ErrNoBonesMatched as a diagnostic, or a wrapped ErrMalformedHierarchy
func BuildSkeleton(root *ImportedNode, bones []ImportedBone) (*Skeleton, error) {
	s := &Skeleton{
		Bones:           make([]Bone, len(bones)),
		BoneNameToIndex: make(map[string]int32, len(bones)),
	}
	for i := range s.Bones {
		s.Bones[i] = Bone{ID: int32(i), Parent: NoParent, Offset: mgl32.Ident4()}
	}

	assigned := make([]bool, len(bones))
	for _, b := range bones {
		if b.ID < 0 || int(b.ID) >= len(bones) {
			return nil, errors.Wrapf(ErrMalformedHierarchy, "bone %q id %d out of range [0, %d)", b.Name, b.ID, len(bones))
		}
		if assigned[b.ID] {
			return nil, errors.Wrapf(ErrMalformedHierarchy, "bone id %d assigned to both %q and %q", b.ID, s.Bones[b.ID].Name, b.Name)
		}
		if _, dup := s.BoneNameToIndex[b.Name]; dup {
			return nil, errors.Wrapf(ErrMalformedHierarchy, "duplicate bone name %q", b.Name)
		}
		assigned[b.ID] = true
		s.Bones[b.ID].Name = b.Name
		s.Bones[b.ID].Offset = b.Offset
		s.BoneNameToIndex[b.Name] = b.ID
	}

	if root != nil {
		visited := make(map[*ImportedNode]bool)
		if err := attachBones(s, root, NoParent, visited); err != nil {
			return nil, err
		}
	}

	if len(s.Roots) == 0 {
		return s, ErrNoBonesMatched
	}
	return s, nil
}

func attachBones(s *Skeleton, node *ImportedNode, parent int32, visited map[*ImportedNode]bool) error {
	if visited[node] {
		return errors.Wrapf(ErrMalformedHierarchy, "node %q reached twice", node.Name)
	}
	visited[node] = true

	next := parent
	if id, ok := s.BoneNameToIndex[node.Name]; ok {
		b := &s.Bones[id]
		if b.Attached {
			return errors.Wrapf(ErrMalformedHierarchy, "bone %q appears twice in the node tree", node.Name)
		}
		b.Attached = true
		b.Parent = parent
		if parent == NoParent {
			s.Roots = append(s.Roots, id)
		} else {
			s.Bones[parent].Children = append(s.Bones[parent].Children, id)
		}
		next = id
	}

	for _, child := range node.Children {
		if child == nil {
			continue
		}
		if err := attachBones(s, child, next, visited); err != nil {
			return err
		}
	}
	return nil
}
