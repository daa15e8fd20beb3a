package buffer

import (
	"fmt"

	"github.com/hupe1980/pointbuf/layout"
)

// window is the point range [start, end) of a slice on its underlying buffer.
type window struct {
	start, end int
}

// Len returns the number of points in the slice.
func (w window) Len() int { return w.end - w.start }

func (w window) at(i int) int {
	if uint(i) >= uint(w.Len()) {
		panic(fmt.Sprintf("buffer: slice index %d out of range [0:%d]", i, w.Len()))
	}
	return w.start + i
}

func (w window) span(start, end int) (int, int) {
	if start < 0 || start > end || end > w.Len() {
		panic(fmt.Sprintf("buffer: slice bounds [%d:%d] out of range [0:%d]", start, end, w.Len()))
	}
	return w.start + start, w.start + end
}

// slicer is implemented by every slice type so that slicing a slice
// produces a new slice on the same underlying buffer.
type slicer interface {
	underlying() (Buffer, window)
}

// flatten resolves b[start:end] to a range on a buffer that is not a slice.
func flatten(b Buffer, start, end int) (Buffer, window) {
	src, w := b, window{start: 0, end: b.Len()}
	if s, ok := b.(slicer); ok {
		src, w = s.underlying()
	}
	start, end = w.span(start, end)
	return src, window{start: start, end: end}
}

// BufferSlice is a read-only window onto a range of points of another buffer.
type BufferSlice struct {
	window
	src Buffer
}

func (s *BufferSlice) underlying() (Buffer, window) { return s.src, s.window }

func (s *BufferSlice) Layout() *layout.Layout { return s.src.Layout() }

func (s *BufferSlice) PointInto(i int, dst []byte) {
	s.src.PointInto(s.at(i), dst)
}

func (s *BufferSlice) PointRangeInto(start, end int, dst []byte) {
	start, end = s.span(start, end)
	s.src.PointRangeInto(start, end, dst)
}

func (s *BufferSlice) AttributeIntoUnchecked(m layout.Member, i int, dst []byte) {
	s.src.AttributeIntoUnchecked(m, s.start+i, dst)
}

// BufferSliceMut is a mutable window onto a range of points of another buffer.
type BufferSliceMut struct {
	BufferSlice
	mut BufferMut
}

func (s *BufferSliceMut) SetPointUnchecked(i int, src []byte) {
	s.mut.SetPointUnchecked(s.start+i, src)
}

func (s *BufferSliceMut) SetPointRangeUnchecked(start, end int, src []byte) {
	s.mut.SetPointRangeUnchecked(s.start+start, s.start+end, src)
}

func (s *BufferSliceMut) SetAttributeUnchecked(m layout.Member, i int, src []byte) {
	s.mut.SetAttributeUnchecked(m, s.start+i, src)
}

func (s *BufferSliceMut) SetAttributeRangeUnchecked(m layout.Member, start, end int, src []byte) {
	s.mut.SetAttributeRangeUnchecked(m, s.start+start, s.start+end, src)
}

func (s *BufferSliceMut) Swap(i, j int) {
	s.mut.Swap(s.at(i), s.at(j))
}

// InterleavedSlice is a read-only slice of an interleaved buffer.
type InterleavedSlice struct {
	BufferSlice
	ilv InterleavedBuffer
}

func (s *InterleavedSlice) PointRef(i int) []byte { return s.ilv.PointRef(s.at(i)) }

func (s *InterleavedSlice) PointRangeRef(start, end int) []byte {
	start, end = s.span(start, end)
	return s.ilv.PointRangeRef(start, end)
}

// InterleavedSliceMut is a mutable slice of an interleaved buffer.
type InterleavedSliceMut struct {
	BufferSliceMut
	ilv InterleavedBufferMut
}

func (s *InterleavedSliceMut) PointRef(i int) []byte { return s.ilv.PointRef(s.at(i)) }

func (s *InterleavedSliceMut) PointRangeRef(start, end int) []byte {
	start, end = s.span(start, end)
	return s.ilv.PointRangeRef(start, end)
}

func (s *InterleavedSliceMut) PointMut(i int) []byte { return s.ilv.PointMut(s.at(i)) }

func (s *InterleavedSliceMut) PointRangeMut(start, end int) []byte {
	start, end = s.span(start, end)
	return s.ilv.PointRangeMut(start, end)
}

// ColumnarSlice is a read-only slice of a columnar buffer.
type ColumnarSlice struct {
	BufferSlice
	col ColumnarBuffer
}

func (s *ColumnarSlice) AttributeRef(def layout.Definition, i int) []byte {
	return s.col.AttributeRef(def, s.at(i))
}

func (s *ColumnarSlice) AttributeRangeRef(def layout.Definition, start, end int) []byte {
	start, end = s.span(start, end)
	return s.col.AttributeRangeRef(def, start, end)
}

// ColumnarSliceMut is a mutable slice of a columnar buffer.
type ColumnarSliceMut struct {
	BufferSliceMut
	col ColumnarBufferMut
}

func (s *ColumnarSliceMut) AttributeRef(def layout.Definition, i int) []byte {
	return s.col.AttributeRef(def, s.at(i))
}

func (s *ColumnarSliceMut) AttributeRangeRef(def layout.Definition, start, end int) []byte {
	start, end = s.span(start, end)
	return s.col.AttributeRangeRef(def, start, end)
}

func (s *ColumnarSliceMut) AttributeMut(def layout.Definition, i int) []byte {
	return s.col.AttributeMut(def, s.at(i))
}

func (s *ColumnarSliceMut) AttributeRangeMut(def layout.Definition, start, end int) []byte {
	start, end = s.span(start, end)
	return s.col.AttributeRangeMut(def, start, end)
}

var (
	_ InterleavedBuffer    = (*InterleavedSlice)(nil)
	_ InterleavedBufferMut = (*InterleavedSliceMut)(nil)
	_ ColumnarBuffer       = (*ColumnarSlice)(nil)
	_ ColumnarBufferMut    = (*ColumnarSliceMut)(nil)
)

// Slice returns a read-only view of points [start, end) of b. The result
// keeps the interleaved or columnar capability of the underlying buffer.
// Slicing a slice yields a slice of the original buffer; no wrappers nest.
func Slice(b Buffer, start, end int) Buffer {
	src, w := flatten(b, start, end)
	base := BufferSlice{window: w, src: src}
	switch v := src.(type) {
	case InterleavedBuffer:
		return &InterleavedSlice{BufferSlice: base, ilv: v}
	case ColumnarBuffer:
		return &ColumnarSlice{BufferSlice: base, col: v}
	default:
		return &base
	}
}

// SliceMut is the mutable form of Slice.
func SliceMut(b BufferMut, start, end int) BufferMut {
	src, w := flatten(b, start, end)
	mut := src.(BufferMut)
	base := BufferSliceMut{BufferSlice: BufferSlice{window: w, src: src}, mut: mut}
	switch v := mut.(type) {
	case InterleavedBufferMut:
		return &InterleavedSliceMut{BufferSliceMut: base, ilv: v}
	case ColumnarBufferMut:
		return &ColumnarSliceMut{BufferSliceMut: base, col: v}
	default:
		return &base
	}
}

// SliceInterleaved returns a typed read-only slice of an interleaved buffer.
func SliceInterleaved(b InterleavedBuffer, start, end int) *InterleavedSlice {
	src, w := flatten(b, start, end)
	return &InterleavedSlice{BufferSlice: BufferSlice{window: w, src: src}, ilv: src.(InterleavedBuffer)}
}

// SliceInterleavedMut returns a typed mutable slice of an interleaved buffer.
func SliceInterleavedMut(b InterleavedBufferMut, start, end int) *InterleavedSliceMut {
	src, w := flatten(b, start, end)
	ilv := src.(InterleavedBufferMut)
	return &InterleavedSliceMut{
		BufferSliceMut: BufferSliceMut{BufferSlice: BufferSlice{window: w, src: src}, mut: ilv},
		ilv:            ilv,
	}
}

// SliceColumnar returns a typed read-only slice of a columnar buffer.
func SliceColumnar(b ColumnarBuffer, start, end int) *ColumnarSlice {
	src, w := flatten(b, start, end)
	return &ColumnarSlice{BufferSlice: BufferSlice{window: w, src: src}, col: src.(ColumnarBuffer)}
}

// SliceColumnarMut returns a typed mutable slice of a columnar buffer.
func SliceColumnarMut(b ColumnarBufferMut, start, end int) *ColumnarSliceMut {
	src, w := flatten(b, start, end)
	col := src.(ColumnarBufferMut)
	return &ColumnarSliceMut{
		BufferSliceMut: BufferSliceMut{BufferSlice: BufferSlice{window: w, src: src}, mut: col},
		col:            col,
	}
}
