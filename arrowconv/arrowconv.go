package arrowconv

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hupe1980/pointbuf/buffer"
	"github.com/hupe1980/pointbuf/layout"
)

var (
	// ErrUnsupportedDatatype is returned for datatypes without an Arrow mapping.
	ErrUnsupportedDatatype = errors.New("arrowconv: unsupported datatype")
	// ErrMissingColumn is returned when a record lacks a column for a layout member.
	ErrMissingColumn = errors.New("arrowconv: missing column")
	// ErrNullValues is returned for columns that contain nulls.
	ErrNullValues = errors.New("arrowconv: column contains nulls")
)

// DatatypeKey is the field metadata key holding the original datatype name.
const DatatypeKey = "pointbuf.datatype"

// ArrowType returns the Arrow type for dt.
func ArrowType(dt layout.Datatype) (arrow.DataType, error) {
	switch dt.Kind() {
	case layout.KindScalar:
		return scalarType(dt.Elem())
	case layout.KindVector:
		elem, err := scalarType(dt.Elem())
		if err != nil {
			return nil, err
		}
		return arrow.FixedSizeListOfNonNullable(int32(dt.Components()), elem), nil
	case layout.KindByteArray:
		return &arrow.FixedSizeBinaryType{ByteWidth: dt.Size()}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDatatype, dt)
	}
}

// DatatypeOf returns the layout datatype for an Arrow type.
func DatatypeOf(t arrow.DataType) (layout.Datatype, error) {
	switch t := t.(type) {
	case *arrow.FixedSizeListType:
		s, ok := scalarOf(t.Elem())
		if !ok {
			break
		}
		dt := layout.Vector(s, int(t.Len()))
		if dt.IsValid() {
			return dt, nil
		}
	case *arrow.FixedSizeBinaryType:
		return layout.ByteArray(t.ByteWidth), nil
	default:
		if s, ok := scalarOf(t); ok {
			return layout.ScalarType(s), nil
		}
	}
	return layout.Datatype{}, fmt.Errorf("%w: arrow type %s", ErrUnsupportedDatatype, t)
}

// SchemaOf returns the Arrow schema for a layout.
func SchemaOf(l *layout.Layout) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, l.Len())
	for _, m := range l.Members() {
		t, err := ArrowType(m.Datatype())
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", m.Name(), err)
		}
		fields = append(fields, arrow.Field{
			Name:     m.Name(),
			Type:     t,
			Metadata: arrow.NewMetadata([]string{DatatypeKey}, []string{m.Datatype().String()}),
		})
	}
	return arrow.NewSchema(fields, nil), nil
}

// LayoutOf builds a layout with one member per field of s.
func LayoutOf(s *arrow.Schema, rule layout.PackingRule) (*layout.Layout, error) {
	l := &layout.Layout{}
	for _, f := range s.Fields() {
		dt, err := DatatypeOf(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		if _, err := l.AddAttribute(layout.NewDefinition(f.Name, dt), rule); err != nil {
			return nil, err
		}
	}
	if rule == layout.Aligned {
		l.PadToAlignment()
	}
	return l, nil
}

// ToRecord copies all points of b into a new record. The caller must
// Release the record. A nil allocator uses the Go allocator.
func ToRecord(b buffer.Buffer, alloc memory.Allocator) (arrow.Record, error) {
	if alloc == nil {
		alloc = memory.NewGoAllocator()
	}
	schema, err := SchemaOf(b.Layout())
	if err != nil {
		return nil, err
	}

	n := b.Len()
	cols := make([]arrow.Array, 0, b.Layout().Len())
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()

	for _, m := range b.Layout().Members() {
		values := memory.NewResizableBuffer(alloc)
		values.Resize(n * m.Size())
		if err := buffer.ReadAttributeRange(b, m.Definition(), 0, n, values.Bytes()); err != nil {
			values.Release()
			return nil, err
		}
		cols = append(cols, makeArray(schema.Field(len(cols)).Type, m.Datatype(), n, values))
		values.Release()
	}
	return array.NewRecord(schema, cols, int64(n)), nil
}

func makeArray(t arrow.DataType, dt layout.Datatype, n int, values *memory.Buffer) arrow.Array {
	var data arrow.ArrayData
	if dt.Kind() == layout.KindVector {
		fsl := t.(*arrow.FixedSizeListType)
		child := array.NewData(fsl.Elem(), n*dt.Components(), []*memory.Buffer{nil, values}, nil, 0, 0)
		data = array.NewData(t, n, []*memory.Buffer{nil}, []arrow.ArrayData{child}, 0, 0)
		child.Release()
	} else {
		data = array.NewData(t, n, []*memory.Buffer{nil, values}, nil, 0, 0)
	}
	defer data.Release()
	return array.MakeFromData(data)
}

// FromRecord appends all rows of rec to dst. Every member of dst's layout
// needs a column of the same name and datatype; other columns are ignored.
// Nothing is appended on error.
func FromRecord(rec arrow.Record, dst buffer.OwningBuffer) error {
	n := int(rec.NumRows())
	l := dst.Layout()
	schema := rec.Schema()

	columns := make([][]byte, l.Len())
	for i, m := range l.Members() {
		idx := schema.FieldIndices(m.Name())
		if len(idx) == 0 {
			return fmt.Errorf("%w: %q", ErrMissingColumn, m.Name())
		}
		col := rec.Column(idx[0])
		dt, err := DatatypeOf(col.DataType())
		if err != nil {
			return fmt.Errorf("column %q: %w", m.Name(), err)
		}
		if dt != m.Datatype() {
			return fmt.Errorf("%w: column %q is %s, layout has %s", buffer.ErrLayoutMismatch, m.Name(), dt, m.Datatype())
		}
		if col.NullN() > 0 {
			return fmt.Errorf("%w: %q", ErrNullValues, m.Name())
		}
		columns[i] = valueBytes(col.Data(), dt, n)
	}

	start := dst.Len()
	dst.Resize(start + n)
	for i, m := range l.Members() {
		dst.SetAttributeRangeUnchecked(m, start, start+n, columns[i])
	}
	return nil
}

// valueBytes returns the packed value bytes of an array, honoring slice offsets.
func valueBytes(data arrow.ArrayData, dt layout.Datatype, n int) []byte {
	offset := data.Offset()
	if dt.Kind() == layout.KindVector {
		child := data.Children()[0]
		offset = child.Offset() + offset*dt.Components()
		data = child
		elem := dt.Elem().Size()
		return data.Buffers()[1].Bytes()[offset*elem : (offset+n*dt.Components())*elem]
	}
	size := dt.Size()
	return data.Buffers()[1].Bytes()[offset*size : (offset+n)*size]
}

func scalarType(s layout.Scalar) (arrow.DataType, error) {
	switch s {
	case layout.Uint8:
		return arrow.PrimitiveTypes.Uint8, nil
	case layout.Int8:
		return arrow.PrimitiveTypes.Int8, nil
	case layout.Uint16:
		return arrow.PrimitiveTypes.Uint16, nil
	case layout.Int16:
		return arrow.PrimitiveTypes.Int16, nil
	case layout.Uint32:
		return arrow.PrimitiveTypes.Uint32, nil
	case layout.Int32:
		return arrow.PrimitiveTypes.Int32, nil
	case layout.Uint64:
		return arrow.PrimitiveTypes.Uint64, nil
	case layout.Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case layout.Float32:
		return arrow.PrimitiveTypes.Float32, nil
	case layout.Float64:
		return arrow.PrimitiveTypes.Float64, nil
	default:
		return nil, fmt.Errorf("%w: scalar %s", ErrUnsupportedDatatype, s)
	}
}

func scalarOf(t arrow.DataType) (layout.Scalar, bool) {
	switch t.ID() {
	case arrow.UINT8:
		return layout.Uint8, true
	case arrow.INT8:
		return layout.Int8, true
	case arrow.UINT16:
		return layout.Uint16, true
	case arrow.INT16:
		return layout.Int16, true
	case arrow.UINT32:
		return layout.Uint32, true
	case arrow.INT32:
		return layout.Int32, true
	case arrow.UINT64:
		return layout.Uint64, true
	case arrow.INT64:
		return layout.Int64, true
	case arrow.FLOAT32:
		return layout.Float32, true
	case arrow.FLOAT64:
		return layout.Float64, true
	default:
		return 0, false
	}
}
