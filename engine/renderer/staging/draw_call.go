package staging

// DrawCall describes one draw issued by the render backend.
// Pipelines are registered by the host under the Pipeline key; buffers are referenced by the
// names used in BufferWrite.
type DrawCall struct {
	// Pipeline is the host pipeline key (e.g. "particles", "skinned").
	Pipeline string

	// VertexBuffers are the buffer names bound as vertex buffers, in slot order.
	VertexBuffers []string

	// IndexBuffer is the index buffer name, or empty for non-indexed draws.
	IndexBuffer string

	// UniformBuffers are the buffer names bound to the pipeline's bind group, in binding order.
	UniformBuffers []string

	// Count is the number of indices (indexed) or vertices (non-indexed) per instance.
	Count uint32

	// InstanceCount is the number of instances to draw.
	InstanceCount uint32
}

// Indexed reports whether the draw uses an index buffer.
func (d DrawCall) Indexed() bool {
	return d.IndexBuffer != ""
}

// Frame is the output of one render pass: buffer writes followed by the draws that read them.
type Frame struct {
	Writes []BufferWrite
	Draws  []DrawCall
}

// Reset clears the frame while keeping its backing arrays.
func (f *Frame) Reset() {
	f.Writes = f.Writes[:0]
	f.Draws = f.Draws[:0]
}

// BytesWritten returns the total size of all staged writes.
func (f *Frame) BytesWritten() int {
	n := 0
	for _, w := range f.Writes {
		n += len(w.Data)
	}
	return n
}
