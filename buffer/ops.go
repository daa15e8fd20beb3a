package buffer

import (
	"bytes"
	"fmt"

	"github.com/hupe1980/pointbuf/layout"
)

func checkIndex(b Buffer, i int) error {
	if i < 0 || i >= b.Len() {
		return fmt.Errorf("%w: %d not in [0:%d]", ErrIndexOutOfRange, i, b.Len())
	}
	return nil
}

func checkRange(b Buffer, start, end int) error {
	if start < 0 || start > end || end > b.Len() {
		return fmt.Errorf("%w: [%d:%d] not in [0:%d]", ErrIndexOutOfRange, start, end, b.Len())
	}
	return nil
}

func checkSize(what string, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: %s has %d bytes, want %d", ErrSizeMismatch, what, got, want)
	}
	return nil
}

func member(b Buffer, def layout.Definition) (layout.Member, error) {
	m, ok := b.Layout().Attribute(def)
	if !ok {
		return layout.Member{}, fmt.Errorf("%w: %s in %s", ErrAttributeNotFound, def, b.Layout())
	}
	return m, nil
}

// ReadPoint copies point i of b into dst after checking the index and size.
func ReadPoint(b Buffer, i int, dst []byte) error {
	if err := checkIndex(b, i); err != nil {
		return err
	}
	if err := checkSize("point", len(dst), b.Layout().Size()); err != nil {
		return err
	}
	b.PointInto(i, dst)
	return nil
}

// ReadPointRange copies points [start, end) of b into dst.
func ReadPointRange(b Buffer, start, end int, dst []byte) error {
	if err := checkRange(b, start, end); err != nil {
		return err
	}
	if err := checkSize("point range", len(dst), (end-start)*b.Layout().Size()); err != nil {
		return err
	}
	b.PointRangeInto(start, end, dst)
	return nil
}

// ReadAttribute copies attribute def of point i into dst. The layout must
// contain def with exactly its datatype.
func ReadAttribute(b Buffer, def layout.Definition, i int, dst []byte) error {
	m, err := member(b, def)
	if err != nil {
		return err
	}
	if err := checkIndex(b, i); err != nil {
		return err
	}
	if err := checkSize("attribute", len(dst), m.Size()); err != nil {
		return err
	}
	b.AttributeIntoUnchecked(m, i, dst)
	return nil
}

// ReadAttributeRange copies the values of def for points [start, end) into
// dst, packed without gaps. Columnar buffers are copied column-wise.
func ReadAttributeRange(b Buffer, def layout.Definition, start, end int, dst []byte) error {
	m, err := member(b, def)
	if err != nil {
		return err
	}
	if err := checkRange(b, start, end); err != nil {
		return err
	}
	size := m.Size()
	if err := checkSize("attribute range", len(dst), (end-start)*size); err != nil {
		return err
	}
	if col, ok := b.(ColumnarBuffer); ok {
		copy(dst, col.AttributeRangeRef(def, start, end))
		return nil
	}
	for i := start; i < end; i++ {
		k := (i - start) * size
		b.AttributeIntoUnchecked(m, i, dst[k:k+size])
	}
	return nil
}

// ReadAttributeConverted reads the attribute named def.Name of point i and
// converts it to def.Datatype. The stored datatype may differ from the
// requested one as long as layout.Converter accepts the pair.
func ReadAttributeConverted(b Buffer, def layout.Definition, i int, dst []byte) error {
	m, ok := b.Layout().AttributeByName(def.Name)
	if !ok {
		return fmt.Errorf("%w: %q in %s", ErrAttributeNotFound, def.Name, b.Layout())
	}
	if err := checkIndex(b, i); err != nil {
		return err
	}
	if err := checkSize("attribute", len(dst), def.Size()); err != nil {
		return err
	}
	if m.Datatype() == def.Datatype {
		b.AttributeIntoUnchecked(m, i, dst)
		return nil
	}
	conv, err := layout.Converter(m.Datatype(), def.Datatype)
	if err != nil {
		return err
	}
	scratch := make([]byte, m.Size())
	b.AttributeIntoUnchecked(m, i, scratch)
	conv(dst, scratch)
	return nil
}

// WritePoint overwrites point i of b with src.
func WritePoint(b BufferMut, i int, src []byte) error {
	if err := checkIndex(b, i); err != nil {
		return err
	}
	if err := checkSize("point", len(src), b.Layout().Size()); err != nil {
		return err
	}
	b.SetPointUnchecked(i, src)
	return nil
}

// WriteAttribute overwrites attribute def of point i with src.
func WriteAttribute(b BufferMut, def layout.Definition, i int, src []byte) error {
	m, err := member(b, def)
	if err != nil {
		return err
	}
	if err := checkIndex(b, i); err != nil {
		return err
	}
	if err := checkSize("attribute", len(src), m.Size()); err != nil {
		return err
	}
	b.SetAttributeUnchecked(m, i, src)
	return nil
}

// WriteAttributeRange overwrites attribute def of points [start, end) with
// packed values from src.
func WriteAttributeRange(b BufferMut, def layout.Definition, start, end int, src []byte) error {
	m, err := member(b, def)
	if err != nil {
		return err
	}
	if err := checkRange(b, start, end); err != nil {
		return err
	}
	if err := checkSize("attribute range", len(src), (end-start)*m.Size()); err != nil {
		return err
	}
	b.SetAttributeRangeUnchecked(m, start, end, src)
	return nil
}

// AppendPoints appends interleaved points in b's layout.
func AppendPoints(b OwningBuffer, points []byte) error {
	if size := b.Layout().Size(); len(points)%size != 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of the point size %d", ErrSizeMismatch, len(points), size)
	}
	b.AppendRawUnchecked(points)
	return nil
}

// Append appends every point of src to dst. Both buffers must have equal
// layouts. The copy path is chosen from the capabilities of src and dst:
// interleaved sources are appended as raw memory, columnar sources into
// columnar destinations column by column, everything else point by point.
func Append(dst OwningBuffer, src Buffer) error {
	if !dst.Layout().Equal(src.Layout()) {
		return fmt.Errorf("%w: %s vs %s", ErrLayoutMismatch, dst.Layout(), src.Layout())
	}
	switch s := src.(type) {
	case InterleavedBuffer:
		dst.AppendInterleavedUnchecked(s)
	case ColumnarBuffer:
		dst.AppendColumnarUnchecked(s)
	default:
		dst.AppendBufferUnchecked(src)
	}
	return nil
}

// Equal reports whether a and b have equal layouts and identical point bytes.
// Padding is compared as well.
func Equal(a, b Buffer) bool {
	if a.Len() != b.Len() || !a.Layout().Equal(b.Layout()) {
		return false
	}
	size := a.Layout().Size()
	pa, pb := make([]byte, size), make([]byte, size)
	for i := 0; i < a.Len(); i++ {
		a.PointInto(i, pa)
		b.PointInto(i, pb)
		if !bytes.Equal(pa, pb) {
			return false
		}
	}
	return true
}

// Collect copies b into a new VectorBuffer.
func Collect(b Buffer, opts ...Option) (*VectorBuffer, error) {
	out, err := NewVectorBuffer(b.Layout(), b.Len(), opts...)
	if err != nil {
		return nil, err
	}
	out.AppendBufferUnchecked(b)
	return out, nil
}
