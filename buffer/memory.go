package buffer

import (
	"fmt"

	"github.com/hupe1980/pointbuf/internal/conv"
	"github.com/hupe1980/pointbuf/layout"
)

// byteLen returns n*size, panicking when the product overflows int.
func byteLen(n, size int) int {
	l, err := conv.MulInt(n, size)
	if err != nil {
		panic(fmt.Sprintf("buffer: %d points of %d bytes: %v", n, size, err))
	}
	return l
}

// memory is the read surface shared by every interleaved buffer:
// point i occupies data[i*stride : (i+1)*stride].
type memory struct {
	layout *layout.Layout
	stride int
	data   []byte
	count  int
}

func (m *memory) Len() int { return m.count }

func (m *memory) Layout() *layout.Layout { return m.layout }

func (m *memory) PointInto(i int, dst []byte) {
	copy(dst[:m.stride], m.point(i))
}

func (m *memory) PointRangeInto(start, end int, dst []byte) {
	copy(dst[:(end-start)*m.stride], m.data[start*m.stride:end*m.stride])
}

func (m *memory) AttributeIntoUnchecked(mem layout.Member, i int, dst []byte) {
	off := i*m.stride + mem.Offset()
	copy(dst, m.data[off:off+mem.Size()])
}

// PointRef returns the bytes of point i. Do not modify.
func (m *memory) PointRef(i int) []byte { return m.point(i) }

// PointRangeRef returns the bytes of points [start, end). Do not modify.
func (m *memory) PointRangeRef(start, end int) []byte {
	return m.data[start*m.stride : end*m.stride : end*m.stride]
}

func (m *memory) point(i int) []byte {
	if uint(i) >= uint(m.count) {
		panic(fmt.Sprintf("buffer: point index %d out of range [0:%d]", i, m.count))
	}
	off := i * m.stride
	return m.data[off : off+m.stride : off+m.stride]
}

// memoryMut adds in-place writes to memory.
type memoryMut struct {
	memory
}

func (m *memoryMut) SetPointUnchecked(i int, src []byte) {
	copy(m.point(i), src)
}

func (m *memoryMut) SetPointRangeUnchecked(start, end int, src []byte) {
	copy(m.data[start*m.stride:end*m.stride], src)
}

func (m *memoryMut) SetAttributeUnchecked(mem layout.Member, i int, src []byte) {
	off := i*m.stride + mem.Offset()
	copy(m.data[off:off+mem.Size()], src)
}

func (m *memoryMut) SetAttributeRangeUnchecked(mem layout.Member, start, end int, src []byte) {
	size := mem.Size()
	for i := start; i < end; i++ {
		off := i*m.stride + mem.Offset()
		k := (i - start) * size
		copy(m.data[off:off+size], src[k:k+size])
	}
}

// Swap exchanges points i and j byte by byte.
func (m *memoryMut) Swap(i, j int) {
	if i == j {
		return
	}
	a, b := m.point(i), m.point(j)
	for k := range a {
		a[k], b[k] = b[k], a[k]
	}
}

// PointMut returns the mutable bytes of point i.
func (m *memoryMut) PointMut(i int) []byte { return m.point(i) }

// PointRangeMut returns the mutable bytes of points [start, end).
func (m *memoryMut) PointRangeMut(start, end int) []byte {
	return m.data[start*m.stride : end*m.stride : end*m.stride]
}
