package pipeline

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/volcano/engine/lava"
	"github.com/Carmen-Shannon/volcano/engine/model"
	"github.com/Carmen-Shannon/volcano/engine/particle"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/particles.wgsl
var particlesSource string

//go:embed assets/lava.wgsl
var lavaSource string

//go:embed assets/model.wgsl
var modelSource string

// directivePrefix marks a WGSL line that Preprocess replaces.
const directivePrefix = "//#"

// Preprocess replaces every line of the form "//#name" with blocks[name].
// Directive lines without a block are dropped.
//
// Parameters:
//   - source: the WGSL source
//   - blocks: replacement text per directive name
//
// Returns:
//   - string: the processed source
func Preprocess(source string, blocks map[string]string) string {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		name, ok := strings.CutPrefix(strings.TrimSpace(line), directivePrefix)
		if !ok {
			out = append(out, line)
			continue
		}
		if block, ok := blocks[name]; ok {
			out = append(out, block)
		}
	}
	return strings.Join(out, "\n")
}

func attr(format wgpu.VertexFormat, offset uint64, location uint32) wgpu.VertexAttribute {
	return wgpu.VertexAttribute{Format: format, Offset: offset, ShaderLocation: location}
}

// instanceMatrixLayout is a per-instance mat4x4 split into four vec4 columns from firstLocation.
func instanceMatrixLayout(firstLocation uint32) wgpu.VertexBufferLayout {
	attrs := make([]wgpu.VertexAttribute, 4)
	for i := range attrs {
		attrs[i] = attr(wgpu.VertexFormatFloat32x4, uint64(i*16), firstLocation+uint32(i))
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: 64,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes:  attrs,
	}
}

// NewParticlePipeline creates the alpha-blended billboard pipeline for ash particles.
// Vertex buffers: the shared quad, then the per-particle instance buffer. Uniforms: camera.
//
// Parameters:
//   - key: the draw call pipeline name
//
// Returns:
//   - Pipeline: the particle pipeline
func NewParticlePipeline(key string) Pipeline {
	instance := &particle.GPUParticleInstance{}
	return NewPipeline(key, particlesSource,
		WithUniformCount(1),
		WithVertexLayouts(
			wgpu.VertexBufferLayout{
				ArrayStride: 20,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					attr(wgpu.VertexFormatFloat32x3, 0, 0),
					attr(wgpu.VertexFormatFloat32x2, 12, 1),
				},
			},
			wgpu.VertexBufferLayout{
				ArrayStride: uint64(instance.Size()),
				StepMode:    wgpu.VertexStepModeInstance,
				Attributes: []wgpu.VertexAttribute{
					attr(wgpu.VertexFormatFloat32x3, 0, 2),
					attr(wgpu.VertexFormatFloat32, 12, 3),
				},
			},
		),
		WithBlendEnabled(true),
		WithDepthWriteEnabled(false),
	)
}

// NewLavaPipeline creates the lit lava surface pipeline.
// Vertex buffers: the lava grid. Uniforms: camera, sun, model matrix.
//
// Parameters:
//   - key: the draw call pipeline name
//
// Returns:
//   - Pipeline: the lava pipeline
func NewLavaPipeline(key string) Pipeline {
	return NewPipeline(key, lavaSource,
		WithUniformCount(3),
		WithVertexLayouts(wgpu.VertexBufferLayout{
			ArrayStride: lava.VertexStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				attr(wgpu.VertexFormatFloat32x3, 0, 0),
				attr(wgpu.VertexFormatFloat32x3, 12, 1),
				attr(wgpu.VertexFormatFloat32x2, 24, 2),
			},
		}),
	)
}

// ModelSource returns the model shader, skinned against maxBones bone matrices when maxBones > 0.
//
// Parameters:
//   - maxBones: the bone array length, or 0 for the rigid variant
//
// Returns:
//   - string: the WGSL source
func ModelSource(maxBones int) string {
	if maxBones <= 0 {
		return Preprocess(modelSource, nil)
	}
	return Preprocess(modelSource, map[string]string{
		"bones": fmt.Sprintf("@group(0) @binding(2) var<uniform> bones: array<mat4x4<f32>, %d>;", maxBones),
		"skin": `    let total = in.weights.x + in.weights.y + in.weights.z + in.weights.w;
    if (total > 0.0) {
        return bones[in.joints.x] * in.weights.x
            + bones[in.joints.y] * in.weights.y
            + bones[in.joints.z] * in.weights.z
            + bones[in.joints.w] * in.weights.w;
    }`,
	})
}

// NewModelPipelines creates the rigid and skinned variants of the instanced model pipeline.
// Vertex buffers: the mesh, then per-instance matrices. Uniforms: camera, sun and, for the
// skinned variant, the bone matrices.
//
// Parameters:
//   - key: the draw call pipeline name
//   - maxBones: the bone array length the animators stage
//
// Returns:
//   - []Pipeline: the rigid and skinned variants
func NewModelPipelines(key string, maxBones int) []Pipeline {
	vertex := &model.GPUSkinnedVertex{}
	layouts := WithVertexLayouts(
		wgpu.VertexBufferLayout{
			ArrayStride: uint64(vertex.Size()),
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				attr(wgpu.VertexFormatFloat32x3, 0, 0),
				attr(wgpu.VertexFormatFloat32x3, 12, 1),
				attr(wgpu.VertexFormatUint32x4, 24, 2),
				attr(wgpu.VertexFormatFloat32x4, 40, 3),
			},
		},
		instanceMatrixLayout(4),
	)
	return []Pipeline{
		NewPipeline(key, ModelSource(0), WithUniformCount(2), layouts),
		NewPipeline(key, ModelSource(maxBones), WithUniformCount(3), layouts),
	}
}
