package buffer

import (
	"github.com/hupe1980/pointbuf/internal/mem"
	"github.com/hupe1980/pointbuf/layout"
)

// VectorBuffer is an owning, interleaved buffer. All points live in one
// contiguous, 64-byte aligned region that grows by doubling.
//
// Thread safety: concurrent reads are safe; writes require external synchronization.
type VectorBuffer struct {
	memoryMut
	opts options
}

var (
	_ OwningBuffer         = (*VectorBuffer)(nil)
	_ InterleavedBufferMut = (*VectorBuffer)(nil)
)

// NewVectorBuffer creates an empty buffer for l with room for capacity points.
// The layout is cloned.
func NewVectorBuffer(l *layout.Layout, capacity int, opts ...Option) (*VectorBuffer, error) {
	if l == nil || l.Size() == 0 {
		return nil, ErrEmptyLayout
	}
	b := &VectorBuffer{opts: applyOptions(opts)}
	b.layout = l.Clone()
	b.stride = l.Size()
	if capacity > 0 {
		b.data = mem.AllocAlignedCap(0, byteLen(capacity, b.stride))
	}
	return b, nil
}

// Capacity returns the number of points the buffer holds without reallocating.
func (b *VectorBuffer) Capacity() int { return cap(b.data) / b.stride }

// Reserve makes room for at least n points in total.
func (b *VectorBuffer) Reserve(n int) {
	if n <= 0 {
		return
	}
	old := cap(b.data)
	var realloc bool
	b.data, realloc = mem.Reserve(b.data, byteLen(n, b.stride))
	if realloc {
		b.opts.grew("interleaved", old, cap(b.data))
	}
}

// Bytes returns the interleaved memory of all points. Do not modify.
func (b *VectorBuffer) Bytes() []byte { return b.data[:len(b.data):len(b.data)] }

// grow appends n zeroed points and returns the byte offset of the first.
func (b *VectorBuffer) grow(n int) int {
	off := len(b.data)
	old := cap(b.data)
	var realloc bool
	b.data, realloc = mem.Grow(b.data, byteLen(n, b.stride))
	if realloc {
		b.opts.grew("interleaved", old, cap(b.data))
	}
	b.count += n
	return off
}

func (b *VectorBuffer) AppendRawUnchecked(points []byte) {
	n := len(points) / b.stride
	off := b.grow(n)
	copy(b.data[off:], points[:n*b.stride])
}

func (b *VectorBuffer) Resize(n int) {
	switch {
	case n > b.count:
		b.grow(n - b.count)
	case n < b.count:
		b.data = b.data[:n*b.stride]
		b.count = n
	}
}

func (b *VectorBuffer) Clear() {
	b.data = b.data[:0]
	b.count = 0
}

func (b *VectorBuffer) AppendInterleavedUnchecked(src InterleavedBuffer) {
	if src.Len() == 0 {
		return
	}
	b.AppendRawUnchecked(src.PointRangeRef(0, src.Len()))
}

// AppendColumnarUnchecked scatters each source column into the new points.
func (b *VectorBuffer) AppendColumnarUnchecked(src ColumnarBuffer) {
	n := src.Len()
	if n == 0 {
		return
	}
	first := b.count
	b.grow(n)
	for _, m := range b.layout.Members() {
		col := src.AttributeRangeRef(m.Definition(), 0, n)
		size := m.Size()
		for i := 0; i < n; i++ {
			off := (first+i)*b.stride + m.Offset()
			copy(b.data[off:off+size], col[i*size:(i+1)*size])
		}
	}
}

func (b *VectorBuffer) AppendBufferUnchecked(src Buffer) {
	n := src.Len()
	if n == 0 {
		return
	}
	off := b.grow(n)
	src.PointRangeInto(0, n, b.data[off:])
}
