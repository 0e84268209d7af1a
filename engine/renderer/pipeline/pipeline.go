package pipeline

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the WGSL source, vertex layout and fixed-function state a render pipeline is
// created from, plus the GPU objects once Build has run.
type pipeline struct {
	// pipelineKey is the draw call pipeline name this pipeline serves
	pipelineKey string
	// uniformCount is the number of uniform buffers bound at group 0, bindings 0..n-1
	uniformCount int

	source         string
	vertexEntry    string
	fragmentEntry  string
	vertexLayouts  []wgpu.VertexBufferLayout
	uniformVisible wgpu.ShaderStage

	// GPU objects, nil until Build
	module          *wgpu.ShaderModule
	bindGroupLayout *wgpu.BindGroupLayout
	pipelineLayout  *wgpu.PipelineLayout
	renderPipeline  *wgpu.RenderPipeline

	depthTestEnabled    bool
	depthWriteEnabled   bool
	depthBias           int32
	depthBiasSlopeScale float32
	blendEnabled        bool
	cullMode            wgpu.CullMode
	topology            wgpu.PrimitiveTopology
	frontFace           wgpu.FrontFace
	writeMask           wgpu.ColorWriteMask
	blendState          *wgpu.BlendState
}

// Pipeline defines a render pipeline for one kind of draw call. A draw call selects it by its
// pipeline name and the number of uniform buffers it binds, so a name may have several variants.
type Pipeline interface {
	// PipelineKey returns the draw call pipeline name this pipeline serves.
	//
	// Returns:
	//   - string: the pipeline name
	PipelineKey() string

	// UniformCount returns the number of uniform buffers the pipeline binds at group 0.
	//
	// Returns:
	//   - int: the uniform buffer count
	UniformCount() int

	// Source returns the WGSL source the shader module is created from.
	//
	// Returns:
	//   - string: the WGSL source
	Source() string

	// VertexLayouts returns the vertex buffer layouts, one per vertex buffer slot.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layouts in slot order
	VertexLayouts() []wgpu.VertexBufferLayout

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// Build creates the shader module, bind group layout and render pipeline.
	// Any objects from an earlier Build are released first.
	//
	// Parameters:
	//   - device: the device to create the objects on
	//   - format: the color target format
	//   - sampleCount: the color and depth target sample count
	//
	// Returns:
	//   - error: error if any GPU object could not be created
	Build(device *wgpu.Device, format wgpu.TextureFormat, sampleCount uint32) error

	// Built reports whether Build has succeeded since the last Release.
	//
	// Returns:
	//   - bool: true when the render pipeline exists
	Built() bool

	// RenderPipeline returns the render pipeline created by Build, or nil.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the render pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// BindGroupLayout returns the group 0 layout created by Build, or nil.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout
	BindGroupLayout() *wgpu.BindGroupLayout

	// Release frees the GPU objects. Build may be called again afterwards.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline is the entry point to create a new Pipeline. Entry points default to vs_main
// and fs_main; depth testing and writing are on, blending off, and uniforms are visible to both
// shader stages.
//
// Parameters:
//   - pipelineKey: the draw call pipeline name this pipeline serves
//   - source: the WGSL source holding both entry points
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey, source string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		source:            source,
		vertexEntry:       "vs_main",
		fragmentEntry:     "fs_main",
		uniformVisible:    wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		blendEnabled:      false,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) UniformCount() int {
	return p.uniformCount
}

func (p *pipeline) Source() string {
	return p.source
}

func (p *pipeline) VertexLayouts() []wgpu.VertexBufferLayout {
	return p.vertexLayouts
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) Built() bool {
	return p.renderPipeline != nil
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *pipeline) label() string {
	return fmt.Sprintf("%s/%d", p.pipelineKey, p.uniformCount)
}

func (p *pipeline) Build(device *wgpu.Device, format wgpu.TextureFormat, sampleCount uint32) error {
	if device == nil {
		return errors.New("nil device")
	}
	p.Release()

	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.label() + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.source,
		},
	})
	if err != nil {
		return errors.Wrap(err, "shader module")
	}
	p.module = module

	entries := make([]wgpu.BindGroupLayoutEntry, p.uniformCount)
	for i := range entries {
		entries[i] = wgpu.BindGroupLayoutEntry{
			Binding:    uint32(i),
			Visibility: p.uniformVisible,
		}
		entries[i].Buffer.Type = wgpu.BufferBindingTypeUniform
	}
	p.bindGroupLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   p.label() + " Bind Group Layout",
		Entries: entries,
	})
	if err != nil {
		p.Release()
		return errors.Wrap(err, "bind group layout")
	}

	p.pipelineLayout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.label(),
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.bindGroupLayout},
	})
	if err != nil {
		p.Release()
		return errors.Wrap(err, "pipeline layout")
	}

	target := wgpu.ColorTargetState{
		Format:    format,
		WriteMask: p.writeMask,
	}
	if p.blendEnabled {
		target.Blend = p.blendState
	}

	depthCompare := wgpu.CompareFunctionLess
	if !p.depthTestEnabled {
		depthCompare = wgpu.CompareFunctionAlways
	}

	p.renderPipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.label() + " Render Pipeline",
		Layout: p.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.vertexEntry,
			Buffers:    p.vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.fragmentEntry,
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:              wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled:   p.depthWriteEnabled,
			DepthCompare:        depthCompare,
			DepthBias:           p.depthBias,
			DepthBiasSlopeScale: p.depthBiasSlopeScale,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		p.Release()
		return errors.Wrap(err, "render pipeline")
	}
	return nil
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	if p.pipelineLayout != nil {
		p.pipelineLayout.Release()
		p.pipelineLayout = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	if p.module != nil {
		p.module.Release()
		p.module = nil
	}
}
