package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/volcano/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfExtractMeshes converts every primitive of every mesh into an ImportedMesh.
// Primitives without indices get a sequential index list. Joint and weight attributes are kept
// only when both are present.
//
// Parameters:
//   - doc: the decoded document
//
// Returns:
//   - []model.ImportedMesh: one mesh per primitive, flattened across meshes
//   - error: error if a required accessor is missing or unreadable
func gltfExtractMeshes(doc *gltf.Document) ([]model.ImportedMesh, error) {
	var meshes []model.ImportedMesh
	for mi, mesh := range doc.Meshes {
		name := mesh.Name
		if name == "" {
			name = fmt.Sprintf("mesh_%d", mi)
		}
		for pi, prim := range mesh.Primitives {
			m, err := gltfExtractPrimitive(doc, prim)
			if err != nil {
				return nil, errors.Wrapf(err, "mesh %q primitive %d", name, pi)
			}
			m.Name = name
			if len(mesh.Primitives) > 1 {
				m.Name = fmt.Sprintf("%s_%d", name, pi)
			}
			meshes = append(meshes, m)
		}
	}
	return meshes, nil
}

func gltfExtractPrimitive(doc *gltf.Document, prim *gltf.Primitive) (model.ImportedMesh, error) {
	var m model.ImportedMesh

	posAcc, ok := gltfAttribute(doc, prim, "POSITION")
	if !ok {
		return m, errors.Errorf("primitive has no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, posAcc, nil)
	if err != nil {
		return m, errors.Wrap(err, "read positions")
	}
	m.Positions = make([]mgl32.Vec3, len(positions))
	for i, p := range positions {
		m.Positions[i] = mgl32.Vec3(p)
	}
	m.BoundingMin, m.BoundingMax = gltfBounds(m.Positions)

	if acc, ok := gltfAttribute(doc, prim, "NORMAL"); ok {
		normals, err := modeler.ReadNormal(doc, acc, nil)
		if err != nil {
			return m, errors.Wrap(err, "read normals")
		}
		m.Normals = make([]mgl32.Vec3, len(normals))
		for i, n := range normals {
			m.Normals[i] = mgl32.Vec3(n)
		}
	}

	jointAcc, hasJoints := gltfAttribute(doc, prim, "JOINTS_0")
	weightAcc, hasWeights := gltfAttribute(doc, prim, "WEIGHTS_0")
	if hasJoints && hasWeights {
		if m.Joints, err = modeler.ReadJoints(doc, jointAcc, nil); err != nil {
			return m, errors.Wrap(err, "read joints")
		}
		if m.Weights, err = modeler.ReadWeights(doc, weightAcc, nil); err != nil {
			return m, errors.Wrap(err, "read weights")
		}
	}

	if idx, ok := gltfIndex(prim.Indices); ok {
		if idx >= len(doc.Accessors) {
			return m, errors.Errorf("index accessor %d out of range", idx)
		}
		if m.Indices, err = modeler.ReadIndices(doc, doc.Accessors[idx], nil); err != nil {
			return m, errors.Wrap(err, "read indices")
		}
	} else {
		m.Indices = make([]uint32, len(m.Positions))
		for i := range m.Indices {
			m.Indices[i] = uint32(i)
		}
	}
	for _, i := range m.Indices {
		if int(i) >= len(m.Positions) {
			return m, errors.Errorf("index %d out of range for %d vertices", i, len(m.Positions))
		}
	}
	return m, nil
}

func gltfAttribute(doc *gltf.Document, prim *gltf.Primitive, name string) (*gltf.Accessor, bool) {
	idx, ok := prim.Attributes[name]
	if !ok || int(idx) >= len(doc.Accessors) {
		return nil, false
	}
	return doc.Accessors[idx], true
}

func gltfBounds(points []mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	if len(points) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], p[k])
			hi[k] = max(hi[k], p[k])
		}
	}
	return lo, hi
}
