package model

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGlobalInverseMode(t *testing.T) {
	for in, want := range map[string]GlobalInverseMode{
		"":       GlobalInverseAuto,
		"auto":   GlobalInverseAuto,
		"always": GlobalInverseAlways,
		"never":  GlobalInverseNever,
	} {
		got, err := ParseGlobalInverseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseGlobalInverseMode("sometimes")
	assert.Error(t, err)
}

func TestNewModelGlobalInverse(t *testing.T) {
	rotated := &ImportedScene{
		Name:  "fish",
		Root:  &ImportedNode{Name: "root", Transform: mgl32.HomogRotate3DX(mgl32.DegToRad(-90)), Children: []*ImportedNode{node("hip")}},
		Bones: []ImportedBone{{Name: "hip", ID: 0, Offset: mgl32.Ident4()}},
	}

	m, err := NewModel(rotated)
	require.NoError(t, err)
	inv, apply := m.GlobalInverse()
	assert.True(t, apply, "auto applies for a non-identity root")
	assert.True(t, inv.Mul4(rotated.Root.Transform).ApproxEqualThreshold(mgl32.Ident4(), 1e-5))

	m, err = NewModel(rotated, WithGlobalInverseMode(GlobalInverseNever))
	require.NoError(t, err)
	_, apply = m.GlobalInverse()
	assert.False(t, apply)

	identity := &ImportedScene{Root: node("root", node("hip")), Bones: rotated.Bones}
	m, err = NewModel(identity)
	require.NoError(t, err)
	_, apply = m.GlobalInverse()
	assert.False(t, apply, "auto skips an identity root")

	m, err = NewModel(identity, WithGlobalInverseMode(GlobalInverseAlways))
	require.NoError(t, err)
	_, apply = m.GlobalInverse()
	assert.True(t, apply)
}

func TestNewModelUnmatchedBonesDegrades(t *testing.T) {
	m, err := NewModel(&ImportedScene{
		Name:  "rock",
		Root:  node("root", node("mesh")),
		Bones: []ImportedBone{{Name: "hip", ID: 0}},
		Animations: []ImportedAnimation{{
			Name: "idle", Duration: 1,
			Channels: []ImportedChannel{{NodeName: "hip", PositionKeys: []VectorKeyframe{{Time: 0}}}},
		}},
	})
	require.NoError(t, err)
	assert.False(t, m.Skinned())
	require.Len(t, m.Diagnostics(), 1)
	assert.ErrorIs(t, m.Diagnostics()[0], ErrNoBonesMatched)
}

func TestNewModelRejectsMalformedHierarchy(t *testing.T) {
	_, err := NewModel(&ImportedScene{
		Root:  node("root", node("a")),
		Bones: []ImportedBone{{Name: "a", ID: 0}, {Name: "b", ID: 0}},
	})
	assert.ErrorIs(t, err, ErrMalformedHierarchy)
}

func TestNewModelSelectsAnimation(t *testing.T) {
	scene := &ImportedScene{
		Root:  node("root", node("hip")),
		Bones: []ImportedBone{{Name: "hip", ID: 0, Offset: mgl32.Ident4()}},
		Animations: []ImportedAnimation{
			{Name: "idle", Duration: 1},
			{Name: "swim", Duration: 2},
		},
	}
	m, err := NewModel(scene, WithAnimationName("swim"))
	require.NoError(t, err)
	require.NotNil(t, m.Clip())
	assert.Equal(t, "swim", m.Clip().Name)

	m, err = NewModel(scene, WithAnimationName("missing"))
	require.NoError(t, err)
	assert.Equal(t, "idle", m.Clip().Name)
}

func TestNewModelPacksMeshes(t *testing.T) {
	tri := ImportedMesh{
		Positions: []mgl32.Vec3{{0, 0, 0}, {3, 4, 0}, {0, 1, 0}},
		Indices:   []uint32{0, 1, 2},
	}
	m, err := NewModel(&ImportedScene{Meshes: []ImportedMesh{tri, tri}})
	require.NoError(t, err)

	var v GPUSkinnedVertex
	assert.Len(t, m.VertexData(), 6*v.Size())
	assert.Equal(t, 6, m.IndexCount())
	// second mesh indices are rebased past the first mesh's vertices
	assert.Equal(t, []byte{3, 0, 0, 0}, m.IndexData()[12:16])
	assert.InDelta(t, 5, m.BoundingRadius(), 1e-6)
}

func TestPackMeshUsesLocalIndices(t *testing.T) {
	mesh := &ImportedMesh{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Indices:   []uint32{0, 1, 2},
	}
	vertices, indices := PackMesh(mesh)

	var v GPUSkinnedVertex
	assert.Len(t, vertices, 3*v.Size())
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0}, indices)
}
