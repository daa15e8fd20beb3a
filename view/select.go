package view

import (
	"cmp"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/pointbuf/buffer"
	"github.com/hupe1980/pointbuf/layout"
)

// Reader is the read access shared by all views.
type Reader[T any] interface {
	Len() int
	At(i int) T
}

// Where returns the indices of all values for which pred returns true.
// The result can be passed to buffer.Gather.
func Where[T any](v Reader[T], pred func(T) bool) *roaring.Bitmap {
	sel := roaring.New()
	for i := 0; i < v.Len(); i++ {
		if pred(v.At(i)) {
			sel.Add(uint32(i)) //nolint:gosec // selections address at most 2^32 points
		}
	}
	return sel
}

type attributeSorter[T cmp.Ordered] struct {
	view *AttributeView[T]
	buf  buffer.BufferMut
}

func (s attributeSorter[T]) Len() int           { return s.buf.Len() }
func (s attributeSorter[T]) Less(i, j int) bool { return cmp.Less(s.view.At(i), s.view.At(j)) }
func (s attributeSorter[T]) Swap(i, j int)      { s.buf.Swap(i, j) }

// SortBy reorders the points of b in place by ascending value of def.
// The sort is stable and moves whole points with Swap, so it works on every
// mutable buffer, including slices.
func SortBy[T cmp.Ordered](b buffer.BufferMut, def layout.Definition) error {
	v, err := Attribute[T](b, def)
	if err != nil {
		return err
	}
	sort.Stable(attributeSorter[T]{view: v, buf: b})
	return nil
}
