package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/volcano/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	componentUnsignedShort = 5123
	componentUnsignedInt   = 5125
	componentFloat         = 5126
)

// testAsset assembles a glTF JSON document with one embedded buffer.
type testAsset struct {
	t         *testing.T
	buf       []byte
	views     []map[string]any
	accessors []map[string]any
	doc       map[string]any
}

func newTestAsset(t *testing.T) *testAsset {
	return &testAsset{t: t, doc: map[string]any{"asset": map[string]any{"version": "2.0"}}}
}

func (a *testAsset) accessor(componentType int, typ string, count int, data any) int {
	var b bytes.Buffer
	require.NoError(a.t, binary.Write(&b, binary.LittleEndian, data))
	start := len(a.buf)
	a.buf = append(a.buf, b.Bytes()...)
	for len(a.buf)%4 != 0 {
		a.buf = append(a.buf, 0)
	}
	a.views = append(a.views, map[string]any{"buffer": 0, "byteOffset": start, "byteLength": b.Len()})
	a.accessors = append(a.accessors, map[string]any{
		"bufferView":    len(a.views) - 1,
		"componentType": componentType,
		"type":          typ,
		"count":         count,
	})
	return len(a.accessors) - 1
}

func (a *testAsset) write(name string) string {
	a.doc["buffers"] = []map[string]any{{
		"byteLength": len(a.buf),
		"uri":        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(a.buf),
	}}
	a.doc["bufferViews"] = a.views
	a.doc["accessors"] = a.accessors
	raw, err := json.Marshal(a.doc)
	require.NoError(a.t, err)
	path := filepath.Join(a.t.TempDir(), name)
	require.NoError(a.t, os.WriteFile(path, raw, 0o644))
	return path
}

// matCols lays m out column by column, the byte order glTF stores MAT4 accessors in.
func matCols(m mgl32.Mat4) [4][4]float32 {
	var out [4][4]float32
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c][r] = m[c*4+r]
		}
	}
	return out
}

// writeSkinnedAsset writes a two-bone skinned triangle with a scene of two roots and a
// three-key animation on the second bone.
func writeSkinnedAsset(t *testing.T) string {
	a := newTestAsset(t)
	pos := a.accessor(componentFloat, "VEC3", 3, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 2, -1}})
	nrm := a.accessor(componentFloat, "VEC3", 3, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	jnt := a.accessor(componentUnsignedShort, "VEC4", 3, [][4]uint16{{0, 0, 0, 0}, {0, 1, 0, 0}, {1, 0, 0, 0}})
	wgt := a.accessor(componentFloat, "VEC4", 3, [][4]float32{{1, 0, 0, 0}, {0.5, 0.5, 0, 0}, {1, 0, 0, 0}})
	idx := a.accessor(componentUnsignedInt, "SCALAR", 3, []uint32{0, 1, 2})
	ibm := a.accessor(componentFloat, "MAT4", 2, [][4][4]float32{
		matCols(mgl32.Translate3D(0, -1, 0)),
		matCols(mgl32.Translate3D(0, -2, 0)),
	})
	times := a.accessor(componentFloat, "SCALAR", 3, []float32{0, 1, 2})
	half := float32(0.70710677)
	rots := a.accessor(componentFloat, "VEC4", 3, [][4]float32{{0, 0, 0, 1}, {0, half, 0, half}, {0, 0, 0, 1}})
	trans := a.accessor(componentFloat, "VEC3", 3, [][3]float32{{0, 1, 0}, {0, 2, 0}, {0, 1, 0}})

	a.doc["scene"] = 0
	a.doc["scenes"] = []map[string]any{{"name": "Diver", "nodes": []int{0, 3}}}
	a.doc["nodes"] = []map[string]any{
		{"name": "Armature", "children": []int{1}},
		{"name": "Hips", "children": []int{2}, "translation": []float32{0, 1, 0}},
		{"name": "Spine", "translation": []float32{0, 1, 0}},
		{"name": "Body", "mesh": 0, "skin": 0},
	}
	a.doc["skins"] = []map[string]any{{"joints": []int{1, 2}, "inverseBindMatrices": ibm}}
	a.doc["meshes"] = []map[string]any{{
		"name": "BodyMesh",
		"primitives": []map[string]any{{
			"attributes": map[string]int{"POSITION": pos, "NORMAL": nrm, "JOINTS_0": jnt, "WEIGHTS_0": wgt},
			"indices":    idx,
		}},
	}}
	a.doc["animations"] = []map[string]any{{
		"name": "Swim",
		"samplers": []map[string]any{
			{"input": times, "output": rots},
			{"input": times, "output": trans},
		},
		"channels": []map[string]any{
			{"sampler": 0, "target": map[string]any{"node": 2, "path": "rotation"}},
			{"sampler": 1, "target": map[string]any{"node": 2, "path": "translation"}},
		},
	}}
	return a.write("diver.gltf")
}

// writeStaticAsset writes a single unnamed node holding an unindexed triangle.
func writeStaticAsset(t *testing.T, name string) string {
	a := newTestAsset(t)
	pos := a.accessor(componentFloat, "VEC3", 3, [][3]float32{{-1, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	a.doc["scenes"] = []map[string]any{{"nodes": []int{0}}}
	a.doc["nodes"] = []map[string]any{{"mesh": 0, "translation": []float32{0, 3, 0}}}
	a.doc["meshes"] = []map[string]any{{"primitives": []map[string]any{{"attributes": map[string]int{"POSITION": pos}}}}}
	return a.write(name)
}

func TestLoadSkinnedAsset(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	scene, err := l.Load(writeSkinnedAsset(t))
	require.NoError(t, err)

	assert.Equal(t, "Diver", scene.Name)

	require.NotNil(t, scene.Root)
	assert.Equal(t, SyntheticRootName, scene.Root.Name)
	assert.Equal(t, mgl32.Ident4(), scene.Root.Transform)
	require.Len(t, scene.Root.Children, 2)
	armature := scene.Root.Children[0]
	assert.Equal(t, "Armature", armature.Name)
	assert.Equal(t, "Body", scene.Root.Children[1].Name)
	require.Len(t, armature.Children, 1)
	hips := armature.Children[0]
	assert.Equal(t, "Hips", hips.Name)
	assert.True(t, hips.Transform.ApproxEqualThreshold(mgl32.Translate3D(0, 1, 0), 1e-6))
	require.Len(t, hips.Children, 1)
	assert.Equal(t, "Spine", hips.Children[0].Name)

	require.Len(t, scene.Bones, 2)
	assert.Equal(t, model.ImportedBone{Name: "Hips", ID: 0, Offset: mgl32.Translate3D(0, -1, 0)}, scene.Bones[0])
	assert.Equal(t, model.ImportedBone{Name: "Spine", ID: 1, Offset: mgl32.Translate3D(0, -2, 0)}, scene.Bones[1])

	require.Len(t, scene.Animations, 1)
	anim := scene.Animations[0]
	assert.Equal(t, "Swim", anim.Name)
	assert.Equal(t, float32(2), anim.Duration)
	assert.Equal(t, float32(1), anim.TicksPerSecond)
	require.Len(t, anim.Channels, 1)
	ch := anim.Channels[0]
	assert.Equal(t, "Spine", ch.NodeName)
	require.Len(t, ch.RotationKeys, 3)
	require.Len(t, ch.PositionKeys, 3)
	assert.Empty(t, ch.ScaleKeys)
	assert.Equal(t, float32(1), ch.RotationKeys[1].Time)
	want := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	assert.True(t, ch.RotationKeys[1].Value.ApproxEqualThreshold(want, 1e-5))
	assert.Equal(t, mgl32.Vec3{0, 2, 0}, ch.PositionKeys[1].Value)

	require.Len(t, scene.Meshes, 1)
	mesh := scene.Meshes[0]
	assert.Equal(t, "BodyMesh", mesh.Name)
	assert.Len(t, mesh.Positions, 3)
	assert.Len(t, mesh.Normals, 3)
	assert.True(t, mesh.Skinned())
	assert.Equal(t, [4]uint16{0, 1, 0, 0}, mesh.Joints[1])
	assert.Equal(t, [4]float32{0.5, 0.5, 0, 0}, mesh.Weights[1])
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, mesh.BoundingMin)
	assert.Equal(t, mgl32.Vec3{1, 2, 0}, mesh.BoundingMax)
}

func TestLoadModelBuildsSkeletonAndClip(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	m, err := l.LoadModel(writeSkinnedAsset(t))
	require.NoError(t, err)

	assert.True(t, m.Skinned())
	require.NotNil(t, m.Skeleton())
	assert.Equal(t, 2, m.Skeleton().AttachedCount())
	require.NotNil(t, m.Clip())
	assert.NotNil(t, m.Clip().Track(1))
	assert.Nil(t, m.Clip().Track(0))
	assert.Equal(t, 3, m.IndexCount())
}

func TestLoadStaticAsset(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	scene, err := l.Load(writeStaticAsset(t, "rock.gltf"))
	require.NoError(t, err)

	assert.Equal(t, "rock", scene.Name)
	require.NotNil(t, scene.Root)
	assert.Equal(t, "node_0", scene.Root.Name)
	assert.True(t, scene.Root.Transform.ApproxEqualThreshold(mgl32.Translate3D(0, 3, 0), 1e-6))
	assert.Empty(t, scene.Bones)
	assert.Empty(t, scene.Animations)
	require.Len(t, scene.Meshes, 1)
	assert.Equal(t, "mesh_0", scene.Meshes[0].Name)
	assert.Equal(t, []uint32{0, 1, 2}, scene.Meshes[0].Indices)
	assert.False(t, scene.Meshes[0].Skinned())
}

func TestLoadRequireSkin(t *testing.T) {
	l := NewLoader(BackendTypeGLTF, WithRequireSkin(true))
	_, err := l.Load(writeStaticAsset(t, "rock.gltf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSkin))
}

func TestLoadCachesByPath(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	path := writeStaticAsset(t, "rock.gltf")

	first, err := l.Load(path)
	require.NoError(t, err)
	second, err := l.Load(path)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, l.Get(path))
	assert.Len(t, l.Scenes(), 1)
	assert.Nil(t, l.Get("missing.gltf"))
}

func TestLoadPrepopulatedScene(t *testing.T) {
	pre := &model.ImportedScene{Name: "cached"}
	l := NewLoader(BackendTypeGLTF, WithScene("cached.glb", pre))

	scene, err := l.Load("cached.glb")
	require.NoError(t, err)
	assert.Same(t, pre, scene)
}

func TestLoadErrors(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	_, err := l.Load("crab.fbx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = l.Load(filepath.Join(t.TempDir(), "missing.gltf"))
	assert.Error(t, err)
}

func TestLoadAllKeepsInputOrder(t *testing.T) {
	l := NewLoader(BackendTypeGLTF, WithWorkers(2))
	paths := []string{
		writeSkinnedAsset(t),
		writeStaticAsset(t, "rock.gltf"),
		writeStaticAsset(t, "coral.gltf"),
	}

	scenes, err := l.LoadAll(paths)
	require.NoError(t, err)
	require.Len(t, scenes, 3)
	assert.Equal(t, "Diver", scenes[0].Name)
	assert.Equal(t, "rock", scenes[1].Name)
	assert.Equal(t, "coral", scenes[2].Name)
	assert.Len(t, l.Scenes(), 3)
}

func TestLoadAllReportsFirstFailure(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	scenes, err := l.LoadAll([]string{writeStaticAsset(t, "rock.gltf"), "bad.obj"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	require.Len(t, scenes, 2)
	assert.NotNil(t, scenes[0])
	assert.Nil(t, scenes[1])
}

func TestGLTFNodeMatrixDefaults(t *testing.T) {
	assert.Equal(t, mgl32.Ident4(), gltfNodeMatrix(&gltf.Node{}))

	n := &gltf.Node{}
	n.Translation[0] = 2
	n.Scale[0], n.Scale[1], n.Scale[2] = 3, 3, 3
	want := mgl32.Translate3D(2, 0, 0).Mul4(mgl32.Scale3D(3, 3, 3))
	assert.True(t, gltfNodeMatrix(n).ApproxEqualThreshold(want, 1e-6))
}

func TestGLTFKeyValueCubicSpline(t *testing.T) {
	values := []int{10, 11, 12, 20, 21, 22}

	v, ok := gltfKeyValue(values, 1, true)
	assert.True(t, ok)
	assert.Equal(t, 21, v)

	v, ok = gltfKeyValue(values, 1, false)
	assert.True(t, ok)
	assert.Equal(t, 11, v)

	_, ok = gltfKeyValue(values, 2, true)
	assert.False(t, ok)
}

func TestLoadInverseBindMatricesKeepTranslationColumn(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	scene, err := l.Load(writeSkinnedAsset(t))
	require.NoError(t, err)
	require.Len(t, scene.Bones, 2)

	offset := scene.Bones[1].Offset
	assert.Equal(t, mgl32.Vec4{0, -2, 0, 1}, offset.Col(3))
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, offset.Row(3))
}

func TestGLTFExtractBonesErrorsCarryStack(t *testing.T) {
	doc := &gltf.Document{Skins: []*gltf.Skin{{InverseBindMatrices: gltf.Index(3)}}}

	_, err := gltfExtractBones(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inverse bind accessor 3 out of range")
	_, ok := err.(interface{ StackTrace() errors.StackTrace })
	assert.True(t, ok)
}
