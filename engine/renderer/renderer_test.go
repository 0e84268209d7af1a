package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/volcano/engine/renderer/staging"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreate struct {
	name  string
	usage staging.BufferUsage
	size  uint64
}

type fakeBackend struct {
	configured [][2]int
	present    *PresentMode
	clear      wgpu.Color
	creates    []fakeCreate
	writes     []staging.BufferWrite
	frames     [][]staging.DrawCall
	createErr  error
	releases   int
}

func (f *fakeBackend) ConfigureSurface(width, height int) {
	f.configured = append(f.configured, [2]int{width, height})
}

func (f *fakeBackend) SetPresentMode(mode PresentMode) { f.present = &mode }

func (f *fakeBackend) SetClearColor(color wgpu.Color) { f.clear = color }

func (f *fakeBackend) CreateBuffer(name string, usage staging.BufferUsage, size uint64) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.creates = append(f.creates, fakeCreate{name: name, usage: usage, size: size})
	return nil
}

func (f *fakeBackend) WriteBuffer(name string, offset uint64, data []byte) {
	f.writes = append(f.writes, staging.BufferWrite{Buffer: name, Offset: offset, Data: data})
}

func (f *fakeBackend) RenderFrame(draws []staging.DrawCall, hook DrawHook) error {
	f.frames = append(f.frames, draws)
	if hook == nil {
		return nil
	}
	return hook(FrameContext{SampleCount: 1}, draws)
}

func (f *fakeBackend) Release() { f.releases++ }

func TestNewRendererConfiguresBackend(t *testing.T) {
	fb := &fakeBackend{}
	color := wgpu.Color{R: 1, A: 1}
	newRendererWithBackend(fb, 800, 600, WithPresentMode(PresentModeVSync), WithClearColor(color))

	require.NotNil(t, fb.present)
	assert.Equal(t, PresentModeVSync, *fb.present)
	assert.Equal(t, color, fb.clear)
	assert.Equal(t, [][2]int{{800, 600}}, fb.configured)
}

func TestDefaultClearColorIsUnderwaterBlue(t *testing.T) {
	fb := &fakeBackend{}
	newRendererWithBackend(fb, 1, 1)
	assert.Equal(t, DefaultClearColor, fb.clear)
	assert.Nil(t, fb.present)
}

func TestBufferCapacity(t *testing.T) {
	cases := []struct {
		required uint64
		want     uint64
	}{
		{0, 256},
		{1, 256},
		{256, 256},
		{257, 512},
		{4000, 4096},
		{4097, 8192},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, bufferCapacity(c.required), "required %d", c.required)
	}
}

func TestWriteBuffersCreatesOnFirstUseAndGrows(t *testing.T) {
	fb := &fakeBackend{}
	r := newRendererWithBackend(fb, 1, 1)

	require.NoError(t, r.WriteBuffers([]staging.BufferWrite{
		{Buffer: "particles", Usage: staging.BufferUsageVertex, Data: make([]byte, 100)},
	}))
	require.NoError(t, r.WriteBuffers([]staging.BufferWrite{
		{Buffer: "particles", Usage: staging.BufferUsageVertex, Offset: 100, Data: make([]byte, 100)},
	}))
	require.Len(t, fb.creates, 1)
	size, ok := r.BufferSize("particles")
	require.True(t, ok)
	assert.Equal(t, uint64(256), size)

	require.NoError(t, r.WriteBuffers([]staging.BufferWrite{
		{Buffer: "particles", Usage: staging.BufferUsageVertex, Data: make([]byte, 300)},
	}))
	require.Len(t, fb.creates, 2)
	assert.Equal(t, fakeCreate{name: "particles", usage: staging.BufferUsageVertex, size: 512}, fb.creates[1])
	assert.Len(t, fb.writes, 3)
}

func TestWriteBuffersSkipsEmptyWrites(t *testing.T) {
	fb := &fakeBackend{}
	r := newRendererWithBackend(fb, 1, 1)

	require.NoError(t, r.WriteBuffers([]staging.BufferWrite{{Buffer: "empty", Usage: staging.BufferUsageUniform}}))
	assert.Empty(t, fb.creates)
	_, ok := r.BufferSize("empty")
	assert.False(t, ok)
}

func TestWriteBuffersRejectsUsageMismatch(t *testing.T) {
	fb := &fakeBackend{}
	r := newRendererWithBackend(fb, 1, 1)

	require.NoError(t, r.WriteBuffers([]staging.BufferWrite{
		{Buffer: "camera", Usage: staging.BufferUsageUniform, Data: make([]byte, 64)},
	}))
	err := r.WriteBuffers([]staging.BufferWrite{
		{Buffer: "camera", Usage: staging.BufferUsageStorage, Data: make([]byte, 64)},
	})
	assert.ErrorIs(t, err, ErrUsageMismatch)
}

func TestWriteBuffersPropagatesCreateError(t *testing.T) {
	boom := errors.New("out of memory")
	fb := &fakeBackend{createErr: boom}
	r := newRendererWithBackend(fb, 1, 1)

	err := r.WriteBuffers([]staging.BufferWrite{
		{Buffer: "lava", Usage: staging.BufferUsageVertex, Data: []byte{1}},
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, fb.writes)
}

func TestSubmitDropsEmptyDrawsAndRunsHook(t *testing.T) {
	fb := &fakeBackend{}
	var hooked []staging.DrawCall
	r := newRendererWithBackend(fb, 1, 1, WithDrawHook(func(ctx FrameContext, draws []staging.DrawCall) error {
		hooked = draws
		return nil
	}))

	require.NoError(t, r.WriteBuffers([]staging.BufferWrite{
		{Buffer: "mesh", Usage: staging.BufferUsageVertex, Data: make([]byte, 12)},
		{Buffer: "mesh.index", Usage: staging.BufferUsageIndex, Data: make([]byte, 12)},
	}))

	draws := []staging.DrawCall{
		{Pipeline: "model", VertexBuffers: []string{"mesh"}, IndexBuffer: "mesh.index", Count: 3, InstanceCount: 1},
		{Pipeline: "particles", VertexBuffers: []string{"missing"}, Count: 6, InstanceCount: 0},
		{Pipeline: "model", VertexBuffers: []string{"mesh"}, Count: 0, InstanceCount: 4},
	}
	require.NoError(t, r.Submit(draws))

	require.Len(t, fb.frames, 1)
	require.Len(t, hooked, 1)
	assert.Equal(t, "model", hooked[0].Pipeline)
}

func TestSubmitRejectsUnknownBuffer(t *testing.T) {
	fb := &fakeBackend{}
	r := newRendererWithBackend(fb, 1, 1)

	err := r.Submit([]staging.DrawCall{
		{Pipeline: "lava", VertexBuffers: []string{"lava"}, IndexBuffer: "lava.index", Count: 6, InstanceCount: 1},
	})
	assert.ErrorIs(t, err, ErrUnknownBuffer)
	assert.Empty(t, fb.frames)
}

func TestSubmitReturnsHookError(t *testing.T) {
	fb := &fakeBackend{}
	boom := errors.New("pipeline not ready")
	r := newRendererWithBackend(fb, 1, 1)
	r.SetDrawHook(func(ctx FrameContext, draws []staging.DrawCall) error { return boom })

	assert.ErrorIs(t, r.Submit(nil), boom)
}

func TestResizeIgnoresZeroSize(t *testing.T) {
	fb := &fakeBackend{}
	r := newRendererWithBackend(fb, 10, 10)

	r.Resize(0, 480)
	r.Resize(640, 0)
	r.Resize(640, 480)
	assert.Equal(t, [][2]int{{10, 10}, {640, 480}}, fb.configured)
}

func TestReleaseIsIdempotent(t *testing.T) {
	fb := &fakeBackend{}
	r := newRendererWithBackend(fb, 1, 1)

	r.Release()
	r.Release()
	assert.Equal(t, 1, fb.releases)

	assert.ErrorIs(t, r.WriteBuffers([]staging.BufferWrite{{Buffer: "a", Data: []byte{1}}}), ErrReleased)
	assert.ErrorIs(t, r.Submit(nil), ErrReleased)
	r.Resize(100, 100)
	assert.Len(t, fb.configured, 1)
}
