package pipeline

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/volcano/engine/renderer"
	"github.com/Carmen-Shannon/volcano/engine/renderer/staging"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

var (
	// ErrUnknownPipeline is returned for a draw call no registered pipeline serves.
	ErrUnknownPipeline = errors.New("unknown pipeline")

	// ErrMissingBuffer is returned when a draw call names a buffer the renderer has not created.
	ErrMissingBuffer = errors.New("missing buffer")
)

// variantKey identifies a pipeline by draw call name and uniform buffer count.
type variantKey struct {
	name     string
	uniforms int
}

// cachedBindGroup keeps its buffers referenced so their addresses stay unique while cached.
type cachedBindGroup struct {
	group   *wgpu.BindGroup
	buffers []*wgpu.Buffer
}

// library is the implementation of the Library interface.
type library struct {
	mu        *sync.Mutex
	pipelines map[variantKey]Pipeline
	logger    *slog.Logger

	// target the built pipelines were created for
	format      wgpu.TextureFormat
	sampleCount uint32

	// bind groups keyed by pipeline and buffer identity, pruned each frame
	bindGroups map[string]cachedBindGroup
	used       map[string]bool
}

// Library owns the render pipelines a renderer's draw hook records draw calls with.
// Pipelines are built lazily on the first frame and rebuilt when the surface format or sample
// count changes.
type Library interface {
	// Register adds pipelines, replacing any earlier one with the same name and uniform count.
	//
	// Parameters:
	//   - pipelines: the pipelines to add
	Register(pipelines ...Pipeline)

	// Pipeline looks up the pipeline serving a draw call.
	//
	// Parameters:
	//   - name: the draw call pipeline name
	//   - uniforms: the number of uniform buffers the draw call binds
	//
	// Returns:
	//   - Pipeline: the pipeline, or nil if none is registered
	Pipeline(name string, uniforms int) Pipeline

	// Hook returns the draw hook to install on a renderer.
	//
	// Returns:
	//   - renderer.DrawHook: the hook recording draw calls into the open pass
	Hook() renderer.DrawHook

	// Release frees every pipeline and cached bind group.
	Release()
}

var _ Library = &library{}

// LibraryBuilderOption is a functional option for configuring a Library.
type LibraryBuilderOption func(*library)

// WithLogger sets the logger pipeline builds are reported to.
//
// Parameters:
//   - logger: the logger; nil keeps the default
//
// Returns:
//   - LibraryBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) LibraryBuilderOption {
	return func(l *library) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithPipelines registers pipelines at construction.
//
// Parameters:
//   - pipelines: the pipelines to register
//
// Returns:
//   - LibraryBuilderOption: option function to apply
func WithPipelines(pipelines ...Pipeline) LibraryBuilderOption {
	return func(l *library) {
		l.Register(pipelines...)
	}
}

// NewLibrary creates an empty Library.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Library: the new library
func NewLibrary(options ...LibraryBuilderOption) Library {
	l := &library{
		mu:         &sync.Mutex{},
		pipelines:  make(map[variantKey]Pipeline),
		logger:     slog.Default(),
		bindGroups: make(map[string]cachedBindGroup),
		used:       make(map[string]bool),
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *library) Register(pipelines ...Pipeline) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, p := range pipelines {
		if p == nil {
			continue
		}
		key := variantKey{p.PipelineKey(), p.UniformCount()}
		if old, ok := l.pipelines[key]; ok && old != p {
			old.Release()
		}
		l.pipelines[key] = p
	}
}

func (l *library) Pipeline(name string, uniforms int) Pipeline {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pipelines[variantKey{name, uniforms}]
}

func (l *library) Hook() renderer.DrawHook {
	return l.record
}

// record draws every call into the open pass. Without a pass or device it does nothing.
func (l *library) record(ctx renderer.FrameContext, draws []staging.DrawCall) error {
	if ctx.Pass == nil || ctx.Device == nil || ctx.Buffers == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if ctx.SurfaceFormat != l.format || ctx.SampleCount != l.sampleCount {
		l.releaseGPU()
		l.format, l.sampleCount = ctx.SurfaceFormat, ctx.SampleCount
	}
	clear(l.used)

	for _, d := range draws {
		p, ok := l.pipelines[variantKey{d.Pipeline, len(d.UniformBuffers)}]
		if !ok {
			return errors.Wrapf(ErrUnknownPipeline, "%s with %d uniforms", d.Pipeline, len(d.UniformBuffers))
		}
		if !p.Built() {
			if err := p.Build(ctx.Device, ctx.SurfaceFormat, ctx.SampleCount); err != nil {
				return errors.Wrapf(err, "build pipeline %s", d.Pipeline)
			}
			l.logger.Debug("[Pipeline] built", "pipeline", d.Pipeline, "uniforms", len(d.UniformBuffers))
		}
		ctx.Pass.SetPipeline(p.RenderPipeline())

		if len(d.UniformBuffers) > 0 {
			bg, err := l.bindGroup(ctx, p, d.UniformBuffers)
			if err != nil {
				return err
			}
			ctx.Pass.SetBindGroup(0, bg, nil)
		}

		for slot, name := range d.VertexBuffers {
			buf := ctx.Buffers.Buffer(name)
			if buf == nil {
				return errors.Wrap(ErrMissingBuffer, name)
			}
			ctx.Pass.SetVertexBuffer(uint32(slot), buf, 0, wgpu.WholeSize)
		}

		if d.Indexed() {
			buf := ctx.Buffers.Buffer(d.IndexBuffer)
			if buf == nil {
				return errors.Wrap(ErrMissingBuffer, d.IndexBuffer)
			}
			ctx.Pass.SetIndexBuffer(buf, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
			ctx.Pass.DrawIndexed(d.Count, d.InstanceCount, 0, 0, 0)
		} else {
			ctx.Pass.Draw(d.Count, d.InstanceCount, 0, 0)
		}
	}

	l.pruneBindGroups()
	return nil
}

// bindGroup returns the cached bind group for these buffers, creating it when a buffer is new
// or was recreated by growth.
func (l *library) bindGroup(ctx renderer.FrameContext, p Pipeline, names []string) (*wgpu.BindGroup, error) {
	bufs := make([]*wgpu.Buffer, len(names))
	for i, name := range names {
		if bufs[i] = ctx.Buffers.Buffer(name); bufs[i] == nil {
			return nil, errors.Wrap(ErrMissingBuffer, name)
		}
	}

	key := bindGroupKey(p, bufs)
	l.used[key] = true
	if cached, ok := l.bindGroups[key]; ok {
		return cached.group, nil
	}

	entries := make([]wgpu.BindGroupEntry, len(bufs))
	for i, buf := range bufs {
		entries[i] = wgpu.BindGroupEntry{
			Binding: uint32(i),
			Buffer:  buf,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}
	}
	bg, err := ctx.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   p.PipelineKey() + " Bind Group",
		Layout:  p.BindGroupLayout(),
		Entries: entries,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "bind group for %s", strings.Join(names, ","))
	}
	l.bindGroups[key] = cachedBindGroup{group: bg, buffers: bufs}
	return bg, nil
}

// bindGroupKey identifies a pipeline variant and the exact buffer objects bound to it.
func bindGroupKey(p Pipeline, bufs []*wgpu.Buffer) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s/%d", p.PipelineKey(), p.UniformCount())
	for _, b := range bufs {
		fmt.Fprintf(&sb, "|%p", b)
	}
	return sb.String()
}

func (l *library) pruneBindGroups() {
	for key, cached := range l.bindGroups {
		if !l.used[key] {
			cached.group.Release()
			delete(l.bindGroups, key)
		}
	}
}

// releaseGPU frees built pipelines and bind groups while keeping the registrations.
func (l *library) releaseGPU() {
	for key, cached := range l.bindGroups {
		cached.group.Release()
		delete(l.bindGroups, key)
	}
	for _, p := range l.pipelines {
		p.Release()
	}
}

func (l *library) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.releaseGPU()
}
