package view

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/hupe1980/pointbuf/buffer"
	"github.com/hupe1980/pointbuf/layout"
)

// bindAttribute resolves def in b and checks that T can hold its values.
func bindAttribute[T any](b buffer.Buffer, def layout.Definition) (layout.Member, error) {
	m, ok := b.Layout().Attribute(def)
	if !ok {
		if stored, found := b.Layout().AttributeByName(def.Name); found {
			return layout.Member{}, &SchemaMismatchError{
				Type:     reflect.TypeFor[T](),
				Expected: stored.Definition().String(),
				Actual:   def.String(),
			}
		}
		return layout.Member{}, fmt.Errorf("%w: %s", ErrAttributeNotFound, def)
	}
	if !layout.Compatible[T](def.Datatype) {
		rt := reflect.TypeFor[T]()
		return layout.Member{}, &SchemaMismatchError{Type: rt, Expected: def.Datatype.String(), Actual: rt.String()}
	}
	return m, nil
}

// AttributeView reads one attribute of every point as values of T.
type AttributeView[T any] struct {
	buf    buffer.Buffer
	member layout.Member
}

// Attribute creates a copying attribute view over any buffer.
func Attribute[T any](b buffer.Buffer, def layout.Definition) (*AttributeView[T], error) {
	m, err := bindAttribute[T](b, def)
	if err != nil {
		return nil, err
	}
	return &AttributeView[T]{buf: b, member: m}, nil
}

// Len returns the number of points in the underlying buffer.
func (v *AttributeView[T]) Len() int { return v.buf.Len() }

// Member returns the viewed member.
func (v *AttributeView[T]) Member() layout.Member { return v.member }

// At returns the value of point i.
func (v *AttributeView[T]) At(i int) T {
	checkIndex(i, v.buf.Len())
	var x T
	v.buf.AttributeIntoUnchecked(v.member, i, bytesOf(&x))
	return x
}

// All iterates over the values of all points.
func (v *AttributeView[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		var x T
		dst := bytesOf(&x)
		for i := 0; i < v.buf.Len(); i++ {
			v.buf.AttributeIntoUnchecked(v.member, i, dst)
			if !yield(i, x) {
				return
			}
		}
	}
}

// AttributeViewMut adds writes and in-place transforms to AttributeView.
type AttributeViewMut[T any] struct {
	AttributeView[T]
	mut buffer.BufferMut
}

// AttributeMut creates a copying, writable attribute view.
func AttributeMut[T any](b buffer.BufferMut, def layout.Definition) (*AttributeViewMut[T], error) {
	m, err := bindAttribute[T](b, def)
	if err != nil {
		return nil, err
	}
	return &AttributeViewMut[T]{AttributeView: AttributeView[T]{buf: b, member: m}, mut: b}, nil
}

// Set overwrites the value of point i.
func (v *AttributeViewMut[T]) Set(i int, x T) {
	checkIndex(i, v.mut.Len())
	v.mut.SetAttributeUnchecked(v.member, i, bytesOf(&x))
}

// Transform replaces every value with fn(i, value). Only the bytes of the
// viewed attribute are written.
//
// Columnar buffers are updated directly in column memory, interleaved
// buffers in point memory; other buffers go through copies.
func (v *AttributeViewMut[T]) Transform(fn func(i int, x T) T) {
	n := v.mut.Len()
	if n == 0 {
		return
	}
	def := v.member.Definition()

	switch b := v.mut.(type) {
	case buffer.ColumnarBufferMut:
		col := b.AttributeRangeMut(def, 0, n)
		if alignedFor[T](col) {
			vals := sliceOf[T](col, n)
			for i := range vals {
				vals[i] = fn(i, vals[i])
			}
			return
		}
	case buffer.InterleavedBufferMut:
		points := b.PointRangeMut(0, n)
		stride := b.Layout().Size()
		off, size := v.member.Offset(), v.member.Size()
		var x T
		xb := bytesOf(&x)
		for i := 0; i < n; i++ {
			field := points[i*stride+off : i*stride+off+size]
			copy(xb, field)
			x = fn(i, x)
			copy(field, xb)
		}
		return
	}

	var x T
	xb := bytesOf(&x)
	for i := 0; i < n; i++ {
		v.mut.AttributeIntoUnchecked(v.member, i, xb)
		x = fn(i, x)
		v.mut.SetAttributeUnchecked(v.member, i, xb)
	}
}

// AttributeRefView hands out references into the column of a columnar buffer.
type AttributeRefView[T any] struct {
	AttributeView[T]
	col buffer.ColumnarBuffer
}

// AttributeRefs creates a reference attribute view. The column memory must
// be aligned for T.
func AttributeRefs[T any](b buffer.ColumnarBuffer, def layout.Definition) (*AttributeRefView[T], error) {
	m, err := bindAttribute[T](b, def)
	if err != nil {
		return nil, err
	}
	if b.Len() > 0 && !alignedFor[T](b.AttributeRef(def, 0)) {
		return nil, unaligned[T]()
	}
	return &AttributeRefView[T]{AttributeView: AttributeView[T]{buf: b, member: m}, col: b}, nil
}

// Ref returns a pointer to the value of point i. Do not modify the value through it.
func (v *AttributeRefView[T]) Ref(i int) *T {
	return refOf[T](v.col.AttributeRef(v.member.Definition(), i))
}

// Range returns the values of points [start, end) aliasing column memory. Do not modify.
func (v *AttributeRefView[T]) Range(start, end int) []T {
	checkRange(start, end, v.col.Len())
	return sliceOf[T](v.col.AttributeRangeRef(v.member.Definition(), start, end), end-start)
}

// AttributeRefViewMut hands out mutable references into column memory.
type AttributeRefViewMut[T any] struct {
	AttributeViewMut[T]
	col buffer.ColumnarBufferMut
}

// AttributeRefsMut creates a mutable reference attribute view.
func AttributeRefsMut[T any](b buffer.ColumnarBufferMut, def layout.Definition) (*AttributeRefViewMut[T], error) {
	ref, err := AttributeRefs[T](b, def)
	if err != nil {
		return nil, err
	}
	return &AttributeRefViewMut[T]{
		AttributeViewMut: AttributeViewMut[T]{AttributeView: ref.AttributeView, mut: b},
		col:              b,
	}, nil
}

// Ref returns a pointer to the value of point i. Do not modify the value through it.
func (v *AttributeRefViewMut[T]) Ref(i int) *T {
	return refOf[T](v.col.AttributeRef(v.member.Definition(), i))
}

// Range returns the values of points [start, end) aliasing column memory. Do not modify.
func (v *AttributeRefViewMut[T]) Range(start, end int) []T {
	checkRange(start, end, v.col.Len())
	return sliceOf[T](v.col.AttributeRangeRef(v.member.Definition(), start, end), end-start)
}

// RefMut returns a mutable pointer to the value of point i.
func (v *AttributeRefViewMut[T]) RefMut(i int) *T {
	return refOf[T](v.col.AttributeMut(v.member.Definition(), i))
}

// RangeMut returns the values of points [start, end) as a mutable slice of column memory.
func (v *AttributeRefViewMut[T]) RangeMut(start, end int) []T {
	checkRange(start, end, v.col.Len())
	return sliceOf[T](v.col.AttributeRangeMut(v.member.Definition(), start, end), end-start)
}
