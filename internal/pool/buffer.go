package pool

import "sync"

const (
	// SnapshotBufferDefaultSize is the initial capacity of pooled snapshot buffers.
	SnapshotBufferDefaultSize = 16 * 1024
	// SnapshotBufferMaxThreshold is the largest buffer kept for reuse.
	SnapshotBufferMaxThreshold = 1024 * 1024
)

// ByteBuffer is an append-only byte slice wrapper reused across encodes.
type ByteBuffer struct {
	B []byte
}

// Bytes returns the written bytes.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Len returns the number of written bytes.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Reset empties the buffer and keeps its capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Grow makes room for n more bytes. Small buffers grow by the default size, larger
// ones by a quarter of their capacity.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B)-len(bb.B) >= n {
		return
	}

	growBy := SnapshotBufferDefaultSize
	if cap(bb.B) > 4*SnapshotBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	growBy = max(growBy, n)

	next := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(next, bb.B)
	bb.B = next
}

// Write appends data. It never fails.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)

	return len(data), nil
}

var snapshotPool = sync.Pool{
	New: func() any {
		return &ByteBuffer{B: make([]byte, 0, SnapshotBufferDefaultSize)}
	},
}

// GetBuffer takes a reset buffer from the pool.
func GetBuffer() *ByteBuffer {
	bb, _ := snapshotPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// PutBuffer returns bb to the pool unless it grew past SnapshotBufferMaxThreshold.
func PutBuffer(bb *ByteBuffer) {
	if bb == nil || cap(bb.B) > SnapshotBufferMaxThreshold {
		return
	}
	bb.Reset()
	snapshotPool.Put(bb)
}
