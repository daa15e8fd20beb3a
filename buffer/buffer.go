package buffer

import (
	"errors"

	"github.com/hupe1980/pointbuf/layout"
)

var (
	// ErrEmptyLayout is returned when a buffer is created with a zero-size layout.
	ErrEmptyLayout = errors.New("buffer: layout has zero size")
	// ErrMisalignedMemory is returned when external memory is not a whole number of points.
	ErrMisalignedMemory = errors.New("buffer: memory length is not a multiple of the point size")
	// ErrIndexOutOfRange is returned by checked accessors for invalid point indices.
	ErrIndexOutOfRange = errors.New("buffer: index out of range")
	// ErrSizeMismatch is returned when a byte slice does not have the required length.
	ErrSizeMismatch = errors.New("buffer: size mismatch")
	// ErrAttributeNotFound is returned when the layout has no matching attribute.
	ErrAttributeNotFound = errors.New("buffer: attribute not found")
	// ErrLayoutMismatch is returned when two buffers do not share a layout.
	ErrLayoutMismatch = errors.New("buffer: layout mismatch")
)

// Buffer is the baseline read surface every buffer provides.
type Buffer interface {
	// Len returns the number of points.
	Len() int
	// Layout returns the point layout. It must not be modified.
	Layout() *layout.Layout
	// PointInto copies point i into dst, which must be Layout().Size() bytes.
	PointInto(i int, dst []byte)
	// PointRangeInto copies points [start, end) into dst, which must be
	// (end-start)*Layout().Size() bytes.
	PointRangeInto(start, end int, dst []byte)
	// AttributeIntoUnchecked copies the value of member m of point i into dst.
	// m must be a member of this buffer's layout and dst exactly m.Size() bytes.
	AttributeIntoUnchecked(m layout.Member, i int, dst []byte)
}

// BufferMut is a buffer whose point contents can be overwritten.
type BufferMut interface {
	Buffer
	// SetPointUnchecked overwrites point i with src (Layout().Size() bytes).
	SetPointUnchecked(i int, src []byte)
	// SetPointRangeUnchecked overwrites points [start, end) with src.
	SetPointRangeUnchecked(start, end int, src []byte)
	// SetAttributeUnchecked overwrites member m of point i with src (m.Size() bytes).
	SetAttributeUnchecked(m layout.Member, i int, src []byte)
	// SetAttributeRangeUnchecked overwrites member m of points [start, end)
	// with tightly packed values from src.
	SetAttributeRangeUnchecked(m layout.Member, start, end int, src []byte)
	// Swap exchanges the contents of points i and j.
	Swap(i, j int)
}

// OwningBuffer is a buffer that owns and can resize its memory.
type OwningBuffer interface {
	BufferMut
	// AppendRawUnchecked appends interleaved points; len(points) must be a
	// multiple of Layout().Size().
	AppendRawUnchecked(points []byte)
	// Resize changes the number of points. New points are zero-filled.
	Resize(n int)
	// Clear removes all points.
	Clear()
	// AppendInterleavedUnchecked appends all points of src, which must share this layout.
	AppendInterleavedUnchecked(src InterleavedBuffer)
	// AppendColumnarUnchecked appends all points of src, which must share this layout.
	AppendColumnarUnchecked(src ColumnarBuffer)
	// AppendBufferUnchecked appends all points of any src sharing this layout,
	// using only the baseline read surface.
	AppendBufferUnchecked(src Buffer)
}

// InterleavedBuffer stores each point contiguously and exposes point memory.
type InterleavedBuffer interface {
	Buffer
	// PointRef returns the bytes of point i. Do not modify.
	PointRef(i int) []byte
	// PointRangeRef returns the bytes of points [start, end). Do not modify.
	PointRangeRef(start, end int) []byte
}

// InterleavedBufferMut is an interleaved buffer with mutable point memory.
type InterleavedBufferMut interface {
	InterleavedBuffer
	BufferMut
	// PointMut returns the mutable bytes of point i.
	PointMut(i int) []byte
	// PointRangeMut returns the mutable bytes of points [start, end).
	PointRangeMut(start, end int) []byte
}

// ColumnarBuffer stores each attribute contiguously and exposes column memory.
// The def arguments must match a member exactly; otherwise the methods panic.
type ColumnarBuffer interface {
	Buffer
	// AttributeRef returns the bytes of attribute def of point i. Do not modify.
	AttributeRef(def layout.Definition, i int) []byte
	// AttributeRangeRef returns the packed values of def for points [start, end). Do not modify.
	AttributeRangeRef(def layout.Definition, start, end int) []byte
}

// ColumnarBufferMut is a columnar buffer with mutable column memory.
type ColumnarBufferMut interface {
	ColumnarBuffer
	BufferMut
	// AttributeMut returns the mutable bytes of attribute def of point i.
	AttributeMut(def layout.Definition, i int) []byte
	// AttributeRangeMut returns the mutable packed values of def for points [start, end).
	AttributeRangeMut(def layout.Definition, start, end int) []byte
}
