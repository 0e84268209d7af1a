package staging

// BufferUsage tells the render backend how a staged buffer is bound.
type BufferUsage int

const (
	// BufferUsageVertex is a per-vertex or per-instance vertex buffer.
	BufferUsageVertex BufferUsage = iota

	// BufferUsageIndex is a uint32 index buffer.
	BufferUsageIndex

	// BufferUsageUniform is a uniform buffer.
	BufferUsageUniform

	// BufferUsageStorage is a read-only storage buffer.
	BufferUsageStorage
)

// String returns the usage name.
func (u BufferUsage) String() string {
	switch u {
	case BufferUsageVertex:
		return "vertex"
	case BufferUsageIndex:
		return "index"
	case BufferUsageUniform:
		return "uniform"
	case BufferUsageStorage:
		return "storage"
	}
	return "unknown"
}

// BufferWrite describes a single GPU buffer write operation targeting the named buffer
// at a given byte offset. The render backend creates the buffer on first use.
type BufferWrite struct {
	Buffer string
	Usage  BufferUsage
	Offset uint64
	Data   []byte
}

// End returns the byte offset one past the last byte written.
func (w BufferWrite) End() uint64 {
	return w.Offset + uint64(len(w.Data))
}
