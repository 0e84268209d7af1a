package renderer

import (
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/volcano/engine/renderer/staging"
	"github.com/Carmen-Shannon/volcano/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

// minBufferSize is the smallest GPU buffer the renderer allocates.
const minBufferSize = 256

var (
	// ErrUnknownBuffer is returned when a draw references a buffer nothing has been written to.
	ErrUnknownBuffer = errors.New("draw references an unknown buffer")

	// ErrUsageMismatch is returned when a buffer is written with a different usage than it was created with.
	ErrUsageMismatch = errors.New("buffer usage mismatch")

	// ErrReleased is returned by every operation after Release.
	ErrReleased = errors.New("renderer released")
)

// DefaultClearColor is the underwater blue the frame is cleared to.
var DefaultClearColor = wgpu.Color{R: 0.004, G: 0.361, B: 0.588, A: 1.0}

type bufferInfo struct {
	usage staging.BufferUsage
	size  uint64
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	buffers     map[string]bufferInfo
	hook        DrawHook
	logger      *slog.Logger
	released    bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	clearColor           wgpu.Color
}

// Renderer defines the interface for the rendering system.
//
// Scene code never touches GPU objects: it stages named buffer writes and draw calls, and the
// Renderer creates buffers on first use, grows them when a write no longer fits, and hands the
// open render pass to the host's DrawHook once per frame.
type Renderer interface {
	// WriteBuffers uploads staged writes, creating or growing buffers as needed.
	// Growing a buffer discards its previous contents.
	//
	// Parameters:
	//   - writes: the staged writes, applied in order
	//
	// Returns:
	//   - error: ErrUsageMismatch, a buffer creation failure, or ErrReleased
	WriteBuffers(writes []staging.BufferWrite) error

	// Submit renders one frame. Draws with zero instances or zero count are dropped.
	//
	// Parameters:
	//   - draws: the frame's draw calls
	//
	// Returns:
	//   - error: ErrUnknownBuffer, a backend frame failure, or ErrReleased
	Submit(draws []staging.DrawCall) error

	// Resize configures the underlying backend to handle a new surface size.
	// A zero dimension (minimized window) is ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetDrawHook replaces the hook that encodes draws.
	//
	// Parameters:
	//   - hook: the new hook, or nil to only clear the frame
	SetDrawHook(hook DrawHook)

	// BufferSize returns the allocated size of a named buffer.
	//
	// Parameters:
	//   - name: the buffer name
	//
	// Returns:
	//   - uint64: the allocated size in bytes
	//   - bool: false if the buffer does not exist
	BufferSize(name string) (uint64, bool)

	// Release frees all GPU resources. It is safe to call more than once.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type, drawing to the
// given window's surface. GPU setup failures panic.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := newRenderer(backendType, options...)

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}
	r.configureBackend(window.Width(), window.Height())
	return r
}

// newRendererWithBackend wires an already constructed backend, used by tests.
func newRendererWithBackend(backend RendererBackend, width, height int, options ...RendererBuilderOption) *renderer {
	r := newRenderer(BackendTypeWGPU, options...)
	r.backend = backend
	r.configureBackend(width, height)
	return r
}

func newRenderer(backendType RendererBackendType, options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		buffers:     make(map[string]bufferInfo),
		logger:      slog.Default(),
		clearColor:  DefaultClearColor,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) configureBackend(width, height int) {
	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.SetClearColor(r.clearColor)
	r.backend.ConfigureSurface(width, height)
}

// bufferCapacity rounds a required size up to a power of two, at least minBufferSize.
func bufferCapacity(required uint64) uint64 {
	size := uint64(minBufferSize)
	for size < required {
		size <<= 1
	}
	return size
}

func (r *renderer) WriteBuffers(writes []staging.BufferWrite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrReleased
	}

	for _, w := range writes {
		if len(w.Data) == 0 {
			continue
		}
		info, exists := r.buffers[w.Buffer]
		if exists && info.usage != w.Usage {
			return errors.Wrapf(ErrUsageMismatch, "buffer %q created as %s, written as %s", w.Buffer, info.usage, w.Usage)
		}
		if !exists || w.End() > info.size {
			size := bufferCapacity(w.End())
			if err := r.backend.CreateBuffer(w.Buffer, w.Usage, size); err != nil {
				return errors.Wrapf(err, "create buffer %q", w.Buffer)
			}
			r.buffers[w.Buffer] = bufferInfo{usage: w.Usage, size: size}
			r.logger.Debug("[Renderer] buffer allocated", "buffer", w.Buffer, "usage", w.Usage.String(), "size", size)
		}
		r.backend.WriteBuffer(w.Buffer, w.Offset, w.Data)
	}
	return nil
}

func (r *renderer) Submit(draws []staging.DrawCall) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrReleased
	}

	live := make([]staging.DrawCall, 0, len(draws))
	for _, d := range draws {
		if d.InstanceCount == 0 || d.Count == 0 {
			continue
		}
		if err := r.checkBuffers(d); err != nil {
			return err
		}
		live = append(live, d)
	}
	return r.backend.RenderFrame(live, r.hook)
}

func (r *renderer) checkBuffers(d staging.DrawCall) error {
	names := make([]string, 0, len(d.VertexBuffers)+len(d.UniformBuffers)+1)
	names = append(names, d.VertexBuffers...)
	names = append(names, d.UniformBuffers...)
	if d.Indexed() {
		names = append(names, d.IndexBuffer)
	}
	for _, name := range names {
		if _, ok := r.buffers[name]; !ok {
			return errors.Wrapf(ErrUnknownBuffer, "pipeline %q buffer %q", d.Pipeline, name)
		}
	}
	return nil
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetDrawHook(hook DrawHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hook = hook
}

func (r *renderer) BufferSize(name string) (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.buffers[name]
	return info.size, ok
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.released = true
	r.backend.Release()
	r.buffers = map[string]bufferInfo{}
}
