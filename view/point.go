package view

import (
	"fmt"
	"iter"
	"reflect"
	"sync"

	"github.com/hupe1980/pointbuf/buffer"
	"github.com/hupe1980/pointbuf/layout"
)

type recordEntry struct {
	layout *layout.Layout
	err    error
}

// recordLayouts caches layout.ForType per record type.
var recordLayouts sync.Map // reflect.Type -> recordEntry

func recordLayout(rt reflect.Type) (*layout.Layout, error) {
	if e, ok := recordLayouts.Load(rt); ok {
		entry := e.(recordEntry)
		return entry.layout, entry.err
	}
	l, err := layout.ForType(rt)
	recordLayouts.Store(rt, recordEntry{layout: l, err: err})
	return l, err
}

// checkRecord verifies that T describes exactly one point of b.
func checkRecord[T any](b buffer.Buffer) error {
	rt := reflect.TypeFor[T]()
	l, err := recordLayout(rt)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaMismatch, err)
	}
	if !l.Equal(b.Layout()) {
		return &SchemaMismatchError{Type: rt, Expected: b.Layout().String(), Actual: l.String()}
	}
	return nil
}

// PointView reads whole points as values of the record type T.
type PointView[T any] struct {
	buf buffer.Buffer
}

// Points creates a copying point view over any buffer.
func Points[T any](b buffer.Buffer) (*PointView[T], error) {
	if err := checkRecord[T](b); err != nil {
		return nil, err
	}
	return &PointView[T]{buf: b}, nil
}

// Len returns the number of points in the underlying buffer.
func (v *PointView[T]) Len() int { return v.buf.Len() }

// At returns a copy of point i.
func (v *PointView[T]) At(i int) T {
	checkIndex(i, v.buf.Len())
	var p T
	v.buf.PointInto(i, bytesOf(&p))
	return p
}

// All iterates over copies of all points.
func (v *PointView[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		var p T
		dst := bytesOf(&p)
		for i := 0; i < v.buf.Len(); i++ {
			v.buf.PointInto(i, dst)
			if !yield(i, p) {
				return
			}
		}
	}
}

// PointViewMut adds point writes to PointView.
type PointViewMut[T any] struct {
	PointView[T]
	mut buffer.BufferMut
}

// PointsMut creates a copying, writable point view.
func PointsMut[T any](b buffer.BufferMut) (*PointViewMut[T], error) {
	if err := checkRecord[T](b); err != nil {
		return nil, err
	}
	return &PointViewMut[T]{PointView: PointView[T]{buf: b}, mut: b}, nil
}

// Set overwrites point i with p.
func (v *PointViewMut[T]) Set(i int, p T) {
	checkIndex(i, v.mut.Len())
	v.mut.SetPointUnchecked(i, bytesOf(&p))
}

// PointRefView hands out references to points of an interleaved buffer.
type PointRefView[T any] struct {
	PointView[T]
	ilv buffer.InterleavedBuffer
}

// PointRefs creates a reference point view. The buffer memory must be
// aligned for T.
func PointRefs[T any](b buffer.InterleavedBuffer) (*PointRefView[T], error) {
	if err := checkRecord[T](b); err != nil {
		return nil, err
	}
	if b.Len() > 0 && !alignedFor[T](b.PointRef(0)) {
		return nil, unaligned[T]()
	}
	return &PointRefView[T]{PointView: PointView[T]{buf: b}, ilv: b}, nil
}

// Ref returns a pointer to point i. Do not modify the point through it.
func (v *PointRefView[T]) Ref(i int) *T {
	return refOf[T](v.ilv.PointRef(i))
}

// Range returns points [start, end) as a slice aliasing buffer memory. Do not modify.
func (v *PointRefView[T]) Range(start, end int) []T {
	checkRange(start, end, v.ilv.Len())
	return sliceOf[T](v.ilv.PointRangeRef(start, end), end-start)
}

// PointRefViewMut hands out mutable references to points.
type PointRefViewMut[T any] struct {
	PointRefView[T]
	mut buffer.InterleavedBufferMut
}

// PointRefsMut creates a mutable reference point view.
func PointRefsMut[T any](b buffer.InterleavedBufferMut) (*PointRefViewMut[T], error) {
	ref, err := PointRefs[T](b)
	if err != nil {
		return nil, err
	}
	return &PointRefViewMut[T]{PointRefView: *ref, mut: b}, nil
}

// Set overwrites point i with p.
func (v *PointRefViewMut[T]) Set(i int, p T) {
	*v.RefMut(i) = p
}

// RefMut returns a mutable pointer to point i.
func (v *PointRefViewMut[T]) RefMut(i int) *T {
	return refOf[T](v.mut.PointMut(i))
}

// RangeMut returns points [start, end) as a mutable slice aliasing buffer memory.
func (v *PointRefViewMut[T]) RangeMut(start, end int) []T {
	checkRange(start, end, v.mut.Len())
	return sliceOf[T](v.mut.PointRangeMut(start, end), end-start)
}
