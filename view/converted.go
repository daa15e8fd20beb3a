package view

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/hupe1980/pointbuf/buffer"
	"github.com/hupe1980/pointbuf/layout"
)

// maxNumericSize is the size of the largest numeric datatype (vec4<f64>).
const maxNumericSize = 32

// ConvertedView reads an attribute by name and converts every value to T,
// whatever numeric datatype the buffer stores.
type ConvertedView[T any] struct {
	buf    buffer.Buffer
	member layout.Member
	conv   layout.ConvertFunc // nil when the stored datatype is T's
}

// Converted creates a converting view of the attribute called name.
// It fails when the buffer has no such attribute or the stored datatype
// cannot be converted to T.
func Converted[T any](b buffer.Buffer, name string) (*ConvertedView[T], error) {
	m, ok := b.Layout().AttributeByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAttributeNotFound, name)
	}
	stored := m.Datatype()
	rt := reflect.TypeFor[T]()
	dt, err := layout.DatatypeOfType(rt)
	if err != nil {
		return nil, &SchemaMismatchError{Type: rt, Expected: stored.String(), Actual: rt.String()}
	}
	// [N]byte reads a byte array as is; any other pair must convert.
	if dt == stored || (stored.Kind() == layout.KindByteArray && layout.CompatibleType(rt, stored)) {
		return &ConvertedView[T]{buf: b, member: m}, nil
	}
	conv, err := layout.Converter(stored, dt)
	if err != nil {
		return nil, err
	}
	return &ConvertedView[T]{buf: b, member: m, conv: conv}, nil
}

// Len returns the number of points in the underlying buffer.
func (v *ConvertedView[T]) Len() int { return v.buf.Len() }

// At returns the converted value of point i.
func (v *ConvertedView[T]) At(i int) T {
	checkIndex(i, v.buf.Len())
	var (
		x       T
		scratch [maxNumericSize]byte
	)
	src := scratch[:0]
	if v.conv != nil {
		src = scratch[:v.member.Size()]
	}
	v.read(i, bytesOf(&x), src)
	return x
}

// All iterates over the converted values of all points.
func (v *ConvertedView[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		var (
			x       T
			scratch [maxNumericSize]byte
		)
		dst, src := bytesOf(&x), scratch[:0]
		if v.conv != nil {
			src = scratch[:v.member.Size()]
		}
		for i := 0; i < v.buf.Len(); i++ {
			v.read(i, dst, src)
			if !yield(i, x) {
				return
			}
		}
	}
}

func (v *ConvertedView[T]) read(i int, dst, scratch []byte) {
	if v.conv == nil {
		v.buf.AttributeIntoUnchecked(v.member, i, dst)
		return
	}
	v.buf.AttributeIntoUnchecked(v.member, i, scratch)
	v.conv(dst, scratch)
}
