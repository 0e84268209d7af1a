package loader

import (
	"github.com/Carmen-Shannon/volcano/common"
	"github.com/Carmen-Shannon/volcano/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// SyntheticRootName names the identity node inserted above a scene with several roots.
const SyntheticRootName = "RootNode"

// gltfExtractNodeTree builds the ImportedNode tree of the document's default scene.
// Documents without scenes use every node that is nobody's child as a root.
//
// Parameters:
//   - doc: the decoded document
//
// Returns:
//   - *model.ImportedNode: the root node, or nil for an empty document
//   - error: error if a node index is out of range or the graph has a cycle
func gltfExtractNodeTree(doc *gltf.Document) (*model.ImportedNode, error) {
	rootIndices := gltfSceneRoots(doc)
	if len(rootIndices) == 0 {
		return nil, nil
	}

	visiting := make(map[int]bool)
	roots := make([]*model.ImportedNode, 0, len(rootIndices))
	for _, idx := range rootIndices {
		n, err := gltfBuildNode(doc, idx, visiting)
		if err != nil {
			return nil, err
		}
		roots = append(roots, n)
	}

	if len(roots) == 1 {
		return roots[0], nil
	}
	return &model.ImportedNode{
		Name:      SyntheticRootName,
		Transform: mgl32.Ident4(),
		Children:  roots,
	}, nil
}

func gltfSceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		sceneIdx := 0
		if i, ok := gltfIndex(doc.Scene); ok && i < len(doc.Scenes) {
			sceneIdx = i
		}
		roots := make([]int, 0, len(doc.Scenes[sceneIdx].Nodes))
		for _, n := range doc.Scenes[sceneIdx].Nodes {
			roots = append(roots, int(n))
		}
		return roots
	}

	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if int(c) < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func gltfBuildNode(doc *gltf.Document, idx int, visiting map[int]bool) (*model.ImportedNode, error) {
	if idx < 0 || idx >= len(doc.Nodes) {
		return nil, errors.Errorf("node index %d out of range [0, %d)", idx, len(doc.Nodes))
	}
	if visiting[idx] {
		return nil, errors.Errorf("node %d is its own ancestor", idx)
	}
	visiting[idx] = true
	defer delete(visiting, idx)

	src := doc.Nodes[idx]
	n := &model.ImportedNode{
		Name:      gltfNodeName(doc, idx),
		Transform: gltfNodeMatrix(src),
		Children:  make([]*model.ImportedNode, 0, len(src.Children)),
	}
	for _, c := range src.Children {
		child, err := gltfBuildNode(doc, int(c), visiting)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

// gltfNodeMatrix returns the node's local transform. An explicit matrix wins over TRS;
// zero rotation and zero scale are read as their glTF defaults.
func gltfNodeMatrix(n *gltf.Node) mgl32.Mat4 {
	var m mgl32.Mat4
	for i := range m {
		m[i] = float32(n.Matrix[i])
	}
	if m != (mgl32.Mat4{}) && m != mgl32.Ident4() {
		return m
	}

	t := mgl32.Vec3{float32(n.Translation[0]), float32(n.Translation[1]), float32(n.Translation[2])}
	r := mgl32.Quat{
		W: float32(n.Rotation[3]),
		V: mgl32.Vec3{float32(n.Rotation[0]), float32(n.Rotation[1]), float32(n.Rotation[2])},
	}
	if r.Len() == 0 {
		r = mgl32.QuatIdent()
	} else {
		r = r.Normalize()
	}
	s := mgl32.Vec3{float32(n.Scale[0]), float32(n.Scale[1]), float32(n.Scale[2])}
	if s == (mgl32.Vec3{}) {
		s = mgl32.Vec3{1, 1, 1}
	}
	return common.TRS(t, r, s)
}

// gltfExtractBones builds the bone table from the first skin. Bone IDs follow the skin's
// joint order, which is also the order JOINTS_0 indexes into. Missing inverse bind
// matrices are identity.
//
// Parameters:
//   - doc: the decoded document
//
// Returns:
//   - []model.ImportedBone: the bone table, nil when the document has no skin
//   - error: error if the inverse bind matrices cannot be read
func gltfExtractBones(doc *gltf.Document) ([]model.ImportedBone, error) {
	if len(doc.Skins) == 0 {
		return nil, nil
	}
	skin := doc.Skins[0]

	var offsets []mgl32.Mat4
	if acc, ok := gltfIndex(skin.InverseBindMatrices); ok {
		if acc >= len(doc.Accessors) {
			return nil, errors.Errorf("inverse bind accessor %d out of range", acc)
		}
		data, err := modeler.ReadAccessor(doc, doc.Accessors[acc], nil)
		if err != nil {
			return nil, err
		}
		mats, ok := data.([][4][4]float32)
		if !ok {
			return nil, errors.Errorf("inverse bind accessor %d has type %T, want MAT4 float", acc, data)
		}
		offsets = make([]mgl32.Mat4, len(mats))
		// modeler returns MAT4 indexed [row][col]
		for i, rows := range mats {
			for c := 0; c < 4; c++ {
				for r := 0; r < 4; r++ {
					offsets[i][c*4+r] = rows[r][c]
				}
			}
		}
	}

	bones := make([]model.ImportedBone, len(skin.Joints))
	for i, j := range skin.Joints {
		offset := mgl32.Ident4()
		if i < len(offsets) {
			offset = offsets[i]
		}
		bones[i] = model.ImportedBone{
			Name:   gltfNodeName(doc, int(j)),
			ID:     int32(i),
			Offset: offset,
		}
	}
	return bones, nil
}
