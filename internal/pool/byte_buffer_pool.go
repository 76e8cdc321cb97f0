// Package pool provides pooled byte buffers for strip staging during
// container block I/O.
package pool

import "sync"

// Strip buffers default to the container's default strip size; buffers that
// grew far beyond it are dropped instead of being returned to the pool.
const (
	StripBufferDefaultSize  = 64 * 1024
	StripBufferMaxThreshold = 1024 * 1024
)

// ByteBuffer is a reusable byte slice wrapper.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given initial capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte { return bb.B }

// Len returns the current length of the buffer.
func (bb *ByteBuffer) Len() int { return len(bb.B) }

// Reset empties the buffer but keeps its capacity for reuse.
func (bb *ByteBuffer) Reset() { bb.B = bb.B[:0] }

// Grow sets the buffer length to n, reallocating if the capacity is
// insufficient. The first n existing bytes are preserved.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B) < n {
		grown := make([]byte, n)
		copy(grown, bb.B)
		bb.B = grown

		return
	}
	bb.B = bb.B[:n]
}

var stripBufferPool = sync.Pool{
	New: func() any {
		return NewByteBuffer(StripBufferDefaultSize)
	},
}

// GetStripBuffer returns an empty pooled buffer sized for strip staging.
func GetStripBuffer() *ByteBuffer {
	bb, _ := stripBufferPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// PutStripBuffer returns a buffer to the pool. Oversized buffers are dropped
// to keep the pool's memory footprint bounded.
func PutStripBuffer(bb *ByteBuffer) {
	if bb == nil || cap(bb.B) > StripBufferMaxThreshold {
		return
	}
	stripBufferPool.Put(bb)
}
