package renderer

import (
	"github.com/Carmen-Shannon/volcano/engine/renderer/staging"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// BufferSource resolves the GPU buffers created from staged writes.
type BufferSource interface {
	// Buffer returns the named buffer, or nil if nothing has been written to it.
	Buffer(name string) *wgpu.Buffer
}

// FrameContext is what a DrawHook receives for one frame.
type FrameContext struct {
	// Pass is the open render pass, already cleared. Nil for backends without a GPU.
	Pass *wgpu.RenderPassEncoder

	// Device creates pipelines and bind groups. Nil for backends without a GPU.
	Device *wgpu.Device

	// SurfaceFormat is the color target format pipelines must use.
	SurfaceFormat wgpu.TextureFormat

	// SampleCount is the multisample count pipelines must use.
	SampleCount uint32

	// Buffers resolves staged buffers by name.
	Buffers BufferSource
}

// DrawHook encodes the frame's draw calls into the open render pass.
// Pipelines belong to the host that registers the hook.
type DrawHook func(ctx FrameContext, draws []staging.DrawCall) error

// RendererBackend is the GPU API specific half of a Renderer.
// The Renderer decides when buffers are created and which draws reach the backend.
type RendererBackend interface {
	// ConfigureSurface sizes the swapchain and depth target.
	ConfigureSurface(width, height int)

	// SetPresentMode selects vsync or uncapped presentation for the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the render pass is cleared to.
	SetClearColor(color wgpu.Color)

	// CreateBuffer (re)creates the named buffer with the given usage and size.
	// Any previous buffer with the same name is released.
	CreateBuffer(name string, usage staging.BufferUsage, size uint64) error

	// WriteBuffer uploads data into an existing buffer.
	WriteBuffer(name string, offset uint64, data []byte)

	// RenderFrame acquires the surface, clears it, hands the pass to the hook and presents.
	RenderFrame(draws []staging.DrawCall, hook DrawHook) error

	// Release frees every GPU resource the backend owns.
	Release()
}
