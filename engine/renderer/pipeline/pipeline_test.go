package pipeline

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/volcano/engine/lava"
	"github.com/Carmen-Shannon/volcano/engine/model"
	"github.com/Carmen-Shannon/volcano/engine/particle"
	"github.com/Carmen-Shannon/volcano/engine/renderer"
	"github.com/Carmen-Shannon/volcano/engine/renderer/staging"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("test", "source").(*pipeline)

	assert.Equal(t, "test", p.PipelineKey())
	assert.Equal(t, "source", p.Source())
	assert.Equal(t, "vs_main", p.vertexEntry)
	assert.Equal(t, "fs_main", p.fragmentEntry)
	assert.Zero(t, p.UniformCount())
	assert.True(t, p.depthTestEnabled)
	assert.True(t, p.DepthWriteEnabled())
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeNone, p.cullMode)
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.topology)
	assert.False(t, p.Built())
	assert.Nil(t, p.RenderPipeline())
	assert.Nil(t, p.BindGroupLayout())
}

func TestPipelineBuilderOptions(t *testing.T) {
	p := NewPipeline("test", "",
		WithEntryPoints("vert", "frag"),
		WithUniformCount(-2),
		WithDepthTestEnabled(false),
		WithDepthBias(2, 1.5),
		WithCullMode(wgpu.CullModeBack),
		WithFrontFace(wgpu.FrontFaceCW),
	).(*pipeline)

	assert.Equal(t, "vert", p.vertexEntry)
	assert.Equal(t, "frag", p.fragmentEntry)
	assert.Zero(t, p.UniformCount())
	assert.False(t, p.depthTestEnabled)
	assert.Equal(t, int32(2), p.depthBias)
	assert.InDelta(t, 1.5, p.depthBiasSlopeScale, 1e-6)
	assert.Equal(t, wgpu.CullModeBack, p.cullMode)
	assert.Equal(t, wgpu.FrontFaceCW, p.frontFace)
}

func TestBuildRejectsNilDevice(t *testing.T) {
	assert.Error(t, NewPipeline("test", "").Build(nil, wgpu.TextureFormatBGRA8Unorm, 1))
}

func TestPreprocess(t *testing.T) {
	src := "a\n  //#one\nb\n//#missing\nc"

	assert.Equal(t, "a\nONE\nb\nc", Preprocess(src, map[string]string{"one": "ONE"}))
	assert.Equal(t, "a\nb\nc", Preprocess(src, nil))
}

func TestModelSourceVariants(t *testing.T) {
	rigid := ModelSource(0)
	skinned := ModelSource(64)

	assert.NotContains(t, rigid, "bones")
	assert.NotContains(t, rigid, directivePrefix)
	assert.Contains(t, skinned, "array<mat4x4<f32>, 64>")
	assert.Contains(t, skinned, "bones[in.joints.w] * in.weights.w")
	assert.NotContains(t, skinned, directivePrefix)
}

func TestStandardPipelineLayouts(t *testing.T) {
	particles := NewParticlePipeline("particles")
	require.Len(t, particles.VertexLayouts(), 2)
	assert.Equal(t, uint64(len(particle.QuadVertexData())/particle.QuadVertexCount), particles.VertexLayouts()[0].ArrayStride)
	assert.Equal(t, uint64((&particle.GPUParticleInstance{}).Size()), particles.VertexLayouts()[1].ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeInstance, particles.VertexLayouts()[1].StepMode)
	assert.Equal(t, 1, particles.UniformCount())
	assert.True(t, particles.BlendEnabled())
	assert.False(t, particles.DepthWriteEnabled())

	lavaPipeline := NewLavaPipeline("lava")
	require.Len(t, lavaPipeline.VertexLayouts(), 1)
	assert.Equal(t, uint64(lava.VertexStride), lavaPipeline.VertexLayouts()[0].ArrayStride)
	assert.Equal(t, 3, lavaPipeline.UniformCount())

	models := NewModelPipelines("model", 100)
	require.Len(t, models, 2)
	assert.Equal(t, 2, models[0].UniformCount())
	assert.Equal(t, 3, models[1].UniformCount())
	for _, m := range models {
		require.Len(t, m.VertexLayouts(), 2)
		assert.Equal(t, uint64((&model.GPUSkinnedVertex{}).Size()), m.VertexLayouts()[0].ArrayStride)
		assert.Equal(t, uint64(64), m.VertexLayouts()[1].ArrayStride)
		assert.Len(t, m.VertexLayouts()[1].Attributes, 4)
		assert.Equal(t, uint32(7), m.VertexLayouts()[1].Attributes[3].ShaderLocation)
	}
	assert.True(t, strings.Contains(models[1].Source(), "array<mat4x4<f32>, 100>"))
}

func TestLibraryLookupByUniformCount(t *testing.T) {
	models := NewModelPipelines("model", 8)
	lib := NewLibrary(WithPipelines(models...), WithPipelines(NewLavaPipeline("lava")))

	assert.Same(t, models[0], lib.Pipeline("model", 2))
	assert.Same(t, models[1], lib.Pipeline("model", 3))
	assert.Nil(t, lib.Pipeline("model", 1))
	assert.NotNil(t, lib.Pipeline("lava", 3))

	replacement := NewPipeline("lava", "", WithUniformCount(3))
	lib.Register(replacement, nil)
	assert.Same(t, replacement, lib.Pipeline("lava", 3))
}

func TestHookWithoutGPUIsNoop(t *testing.T) {
	lib := NewLibrary()
	hook := lib.Hook()

	err := hook(renderer.FrameContext{}, []staging.DrawCall{{Pipeline: "unregistered", Count: 3, InstanceCount: 1}})
	assert.NoError(t, err)
	lib.Release()
}

func TestBindGroupKeyTracksBufferIdentity(t *testing.T) {
	p := NewPipeline("model", "", WithUniformCount(2))
	a := &wgpu.Buffer{}

	assert.Equal(t, bindGroupKey(p, []*wgpu.Buffer{a, a}), bindGroupKey(p, []*wgpu.Buffer{a, a}))
	assert.NotEqual(t, bindGroupKey(p, []*wgpu.Buffer{a, nil}), bindGroupKey(p, []*wgpu.Buffer{nil, a}))
	assert.True(t, strings.HasPrefix(bindGroupKey(p, nil), "model/2"))
}
