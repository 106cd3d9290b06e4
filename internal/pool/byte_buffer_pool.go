package pool

import (
	"io"
	"sync"
)

// Default and retention sizes for pooled buffers.
const (
	ElementBufferDefaultSize   = 1024 * 4        // 4KiB, about 512 float64 elements
	ElementBufferMaxThreshold  = 1024 * 256      // 256KiB
	SnapshotBufferDefaultSize  = 1024 * 64       // 64KiB
	SnapshotBufferMaxThreshold = 1024 * 1024 * 8 // 8MiB
)

const (
	smallBufferGrowthLimit       = 4 * ElementBufferDefaultSize
	largeBufferGrowthDenominator = 4
)

// ByteBuffer is an append-only byte slice wrapper that can be recycled through a ByteBufferPool.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Grow ensures the buffer can hold requiredBytes more bytes without reallocating.
//
// Small buffers grow by ElementBufferDefaultSize; larger buffers grow by 25% of
// their capacity, and always by at least requiredBytes.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	if cap(bb.B)-len(bb.B) >= requiredBytes {
		return
	}

	growBy := ElementBufferDefaultSize
	if cap(bb.B) > smallBufferGrowthLimit {
		growBy = cap(bb.B) / largeBufferGrowthDenominator
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends data to the buffer, growing it as needed. It never fails.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a pool of ByteBuffers backed by sync.Pool.
//
// Buffers whose capacity grew beyond maxThreshold are dropped on Put instead of
// being retained.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	elementDefaultPool  = NewByteBufferPool(ElementBufferDefaultSize, ElementBufferMaxThreshold)
	snapshotDefaultPool = NewByteBufferPool(SnapshotBufferDefaultSize, SnapshotBufferMaxThreshold)
)

// GetElementBuffer retrieves a ByteBuffer sized for encoded element arrays.
func GetElementBuffer() *ByteBuffer {
	return elementDefaultPool.Get()
}

// PutElementBuffer returns a ByteBuffer to the element pool.
func PutElementBuffer(bb *ByteBuffer) {
	elementDefaultPool.Put(bb)
}

// GetSnapshotBuffer retrieves a ByteBuffer sized for snapshot files.
func GetSnapshotBuffer() *ByteBuffer {
	return snapshotDefaultPool.Get()
}

// PutSnapshotBuffer returns a ByteBuffer to the snapshot pool.
func PutSnapshotBuffer(bb *ByteBuffer) {
	snapshotDefaultPool.Put(bb)
}
