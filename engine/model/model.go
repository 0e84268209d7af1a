package model

import (
	"encoding/binary"
	"log/slog"

	"github.com/Carmen-Shannon/volcano/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// GlobalInverseMode selects whether skinning cancels the scene root transform.
type GlobalInverseMode int

const (
	// GlobalInverseAuto applies the global inverse only when the root transform is not identity.
	GlobalInverseAuto GlobalInverseMode = iota

	// GlobalInverseAlways always applies the inverse of the root transform.
	GlobalInverseAlways

	// GlobalInverseNever never applies a global inverse.
	GlobalInverseNever
)

// ParseGlobalInverseMode converts a config string ("auto", "always", "never") into a mode.
// The empty string selects GlobalInverseAuto.
//
// Parameters:
//   - s: the mode name
//
// Returns:
//   - GlobalInverseMode: the parsed mode
//   - error: error if the name is unknown
func ParseGlobalInverseMode(s string) (GlobalInverseMode, error) {
	switch s {
	case "", "auto":
		return GlobalInverseAuto, nil
	case "always":
		return GlobalInverseAlways, nil
	case "never":
		return GlobalInverseNever, nil
	}
	return GlobalInverseAuto, errors.Errorf("unknown global inverse mode %q", s)
}

// model is the implementation of the Model interface.
type model struct {
	name               string
	animationName      string
	globalInverseMode  GlobalInverseMode
	logger             *slog.Logger
	skeleton           *Skeleton
	clip               *AnimationClip
	meshes             []ImportedMesh
	globalInverse      mgl32.Mat4
	applyGlobalInverse bool
	diagnostics        []error
	boundingRadius     float32
	vertexData         []byte
	indexData          []byte
	indexCount         int
}

// Model defines the interface for a loaded 3D model.
// A Model holds the bone hierarchy, the bound animation clip and the mesh buffers of one asset.
// It is produced from an ImportedScene after the importer has read the file.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Skinned reports whether this model has at least one attached bone.
	//
	// Returns:
	//   - bool: true if the model can be skinned
	Skinned() bool

	// Skeleton retrieves the bone hierarchy for this model.
	// Returns nil for models without a bone table.
	//
	// Returns:
	//   - *Skeleton: the skeleton or nil
	Skeleton() *Skeleton

	// Clip retrieves the animation clip bound to the skeleton.
	// Returns nil when the model has no animation.
	//
	// Returns:
	//   - *AnimationClip: the clip or nil
	Clip() *AnimationClip

	// GlobalInverse retrieves the inverse root transform and whether skinning applies it.
	//
	// Returns:
	//   - mgl32.Mat4: the inverse of the scene root transform
	//   - bool: true if the pose evaluator should apply it
	GlobalInverse() (mgl32.Mat4, bool)

	// Meshes retrieves the imported mesh primitives.
	//
	// Returns:
	//   - []ImportedMesh: the meshes
	Meshes() []ImportedMesh

	// BoundingRadius returns the radius of a sphere around the origin enclosing all meshes.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// VertexData returns the packed GPUSkinnedVertex data of all meshes.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the packed uint32 index data of all meshes.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// IndexCount returns the number of indices in IndexData.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// Diagnostics returns the non-fatal problems found while building the model,
	// such as ErrNoBonesMatched.
	//
	// Returns:
	//   - []error: the diagnostics, empty when the model is complete
	Diagnostics() []error
}

var _ Model = &model{}

// NewModel builds a Model from an imported scene.
// Structural problems that still allow unskinned or static rendering are recorded as
// diagnostics instead of failing.
//
// Parameters:
//   - scene: the importer output
//   - options: functional options to configure the model
//
// Returns:
//   - Model: the model
//   - error: error if the hierarchy or the clip is malformed
func NewModel(scene *ImportedScene, options ...ModelBuilderOption) (Model, error) {
	m := &model{
		name:              scene.Name,
		globalInverseMode: GlobalInverseAuto,
		logger:            slog.Default(),
		meshes:            scene.Meshes,
		globalInverse:     mgl32.Ident4(),
	}
	for _, opt := range options {
		opt(m)
	}

	if len(scene.Bones) > 0 {
		skel, err := BuildSkeleton(scene.Root, scene.Bones)
		switch {
		case errors.Is(err, ErrNoBonesMatched):
			m.diagnostics = append(m.diagnostics, err)
			m.logger.Warn("[Model] skeleton has no matching bones, rendering unskinned", "model", m.name, "bones", len(scene.Bones))
		case err != nil:
			return nil, errors.Wrapf(err, "model %q", m.name)
		}
		m.skeleton = skel
	}

	if anim := m.pickAnimation(scene.Animations); anim != nil && m.skeleton != nil {
		clip, skipped, err := NewAnimationClip(anim, m.skeleton)
		if err != nil {
			return nil, errors.Wrapf(err, "model %q", m.name)
		}
		if skipped > 0 {
			m.logger.Debug("[Model] skipped channels targeting non-bone nodes", "model", m.name, "clip", anim.Name, "skipped", skipped)
		}
		m.clip = clip
	}

	if scene.Root != nil {
		if inv := scene.Root.Transform.Inv(); inv != (mgl32.Mat4{}) {
			m.globalInverse = inv
		}
		rootIsIdentity := common.IsIdentity(scene.Root.Transform, 1e-6)
		switch m.globalInverseMode {
		case GlobalInverseAlways:
			m.applyGlobalInverse = true
		case GlobalInverseAuto:
			m.applyGlobalInverse = !rootIsIdentity
		}
	}

	m.packMeshes()
	return m, nil
}

func (m *model) pickAnimation(anims []ImportedAnimation) *ImportedAnimation {
	if len(anims) == 0 {
		return nil
	}
	if m.animationName == "" {
		return &anims[0]
	}
	for i := range anims {
		if anims[i].Name == m.animationName {
			return &anims[i]
		}
	}
	m.logger.Warn("[Model] animation not found, using first clip", "model", m.name, "animation", m.animationName)
	return &anims[0]
}

func (m *model) packMeshes() {
	var vertexCount, indexCount int
	for i := range m.meshes {
		vertexCount += len(m.meshes[i].Positions)
		indexCount += len(m.meshes[i].Indices)
	}

	var v GPUSkinnedVertex
	m.vertexData = make([]byte, 0, vertexCount*v.Size())
	m.indexData = make([]byte, indexCount*4)
	m.indexCount = indexCount

	base, idx := uint32(0), 0
	for i := range m.meshes {
		mesh := &m.meshes[i]
		for j, p := range mesh.Positions {
			v = meshVertex(mesh, j)
			m.vertexData = append(m.vertexData, v.Marshal()...)

			if l := p.Len(); l > m.boundingRadius {
				m.boundingRadius = l
			}
		}
		for _, index := range mesh.Indices {
			binary.LittleEndian.PutUint32(m.indexData[idx*4:idx*4+4], index+base)
			idx++
		}
		base += uint32(len(mesh.Positions))
	}
}

func meshVertex(mesh *ImportedMesh, j int) GPUSkinnedVertex {
	v := GPUSkinnedVertex{Position: mesh.Positions[j], Weights: [4]float32{1, 0, 0, 0}}
	if j < len(mesh.Normals) {
		v.Normal = mesh.Normals[j]
	}
	if mesh.Skinned() {
		for k := 0; k < 4; k++ {
			v.Joints[k] = uint32(mesh.Joints[j][k])
		}
		v.Weights = mesh.Weights[j]
	}
	return v
}

// PackMesh packs one mesh the way a Model packs all of its meshes, with indices relative to the
// mesh's own first vertex.
//
// Parameters:
//   - mesh: the mesh to pack
//
// Returns:
//   - []byte: GPUSkinnedVertex data
//   - []byte: uint32 index data
func PackMesh(mesh *ImportedMesh) ([]byte, []byte) {
	var v GPUSkinnedVertex
	vertexData := make([]byte, 0, len(mesh.Positions)*v.Size())
	for j := range mesh.Positions {
		v = meshVertex(mesh, j)
		vertexData = append(vertexData, v.Marshal()...)
	}
	indexData := make([]byte, len(mesh.Indices)*4)
	for i, index := range mesh.Indices {
		binary.LittleEndian.PutUint32(indexData[i*4:i*4+4], index)
	}
	return vertexData, indexData
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Skinned() bool {
	return m.skeleton != nil && len(m.skeleton.Roots) > 0
}

func (m *model) Skeleton() *Skeleton {
	return m.skeleton
}

func (m *model) Clip() *AnimationClip {
	return m.clip
}

func (m *model) GlobalInverse() (mgl32.Mat4, bool) {
	return m.globalInverse, m.applyGlobalInverse
}

func (m *model) Meshes() []ImportedMesh {
	return m.meshes
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) IndexData() []byte {
	return m.indexData
}

func (m *model) IndexCount() int {
	return m.indexCount
}

func (m *model) Diagnostics() []error {
	return m.diagnostics
}
