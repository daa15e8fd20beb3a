package layout

import (
	"fmt"
	"reflect"
	"strings"
)

// RecordTag is the struct tag that maps a record field to an attribute.
// Its value is the attribute name, optionally followed by a datatype:
// `point:"Tag,bytes[4]"`. The shorthands "bytes" and "custom" take the
// field's size and alignment.
const RecordTag = "point"

// DatatypeOf returns the datatype that corresponds to the Go type T.
func DatatypeOf[T any]() (Datatype, error) {
	return DatatypeOfType(reflect.TypeFor[T]())
}

// DatatypeOfType returns the datatype that corresponds to rt.
// Named types are resolved through their underlying kind.
func DatatypeOfType(rt reflect.Type) (Datatype, error) {
	if s, ok := scalarOfKind(rt.Kind()); ok {
		return ScalarType(s), nil
	}
	if rt.Kind() == reflect.Array {
		elem, ok := scalarOfKind(rt.Elem().Kind())
		if ok && (rt.Len() == 3 || rt.Len() == 4) {
			return Vector(elem, rt.Len()), nil
		}
		if ok && elem == Uint8 && rt.Len() > 0 {
			return ByteArray(rt.Len()), nil
		}
	}
	return Datatype{}, fmt.Errorf("%w: %s", ErrUnsupportedType, rt)
}

// Compatible reports whether values of type T can be reinterpreted as values
// of dt: numeric datatypes need the exact Go counterpart, byte arrays any
// [N]byte of the same length, and custom datatypes any pointer-free type of
// the same size.
func Compatible[T any](dt Datatype) bool {
	return CompatibleType(reflect.TypeFor[T](), dt)
}

// CompatibleType is the reflect form of Compatible.
func CompatibleType(rt reflect.Type, dt Datatype) bool {
	if !dt.IsValid() || int(rt.Size()) != dt.Size() {
		return false
	}
	switch dt.Kind() {
	case KindScalar, KindVector:
		got, err := DatatypeOfType(rt)
		return err == nil && got == dt
	case KindByteArray:
		return rt.Kind() == reflect.Array && rt.Elem().Kind() == reflect.Uint8 && rt.Len() == dt.Size()
	case KindCustom:
		return IsPlain(rt)
	default:
		return false
	}
}

// IsPlain reports whether every bit pattern of rt's size is a valid value of
// rt and the type holds no pointers: fixed-size numerics, and arrays and
// structs made of them. Booleans are excluded.
func IsPlain(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Array:
		return IsPlain(rt.Elem())
	case reflect.Struct:
		for i := 0; i < rt.NumField(); i++ {
			if !IsPlain(rt.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ForRecord returns the layout implied by the struct type T.
//
// Every non-blank field needs a `point:"<name>[,<datatype>]"` tag naming
// its attribute. Without a datatype the field type decides, so [4]byte
// becomes vec4<u8>; `point:"Tag,bytes"` makes it bytes[4].
// Blank fields (`_`) are padding. Offsets and size are taken from the Go
// compiler, so the result describes T's memory exactly.
func ForRecord[T any]() (*Layout, error) {
	return ForType(reflect.TypeFor[T]())
}

// ForType is the reflect form of ForRecord.
func ForType(rt reflect.Type) (*Layout, error) {
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %s", ErrNotRecord, rt)
	}
	if !IsPlain(rt) {
		return nil, fmt.Errorf("%w: %s contains non-plain fields", ErrUnsupportedType, rt)
	}

	l := &Layout{}
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.Name == "_" {
			continue
		}
		name, override, _ := strings.Cut(f.Tag.Get(RecordTag), ",")
		if name == "" {
			return nil, fmt.Errorf("%w: field %s.%s has no %q tag", ErrUnsupportedType, rt, f.Name, RecordTag)
		}

		dt, err := fieldDatatype(f.Type, override)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", rt, f.Name, err)
		}
		if _, err := l.addMemberAt(NewDefinition(name, dt), int(f.Offset)); err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", rt, f.Name, err)
		}
	}
	l.size = int(rt.Size())
	return l, nil
}

// fieldDatatype resolves the datatype of a record field from its type and
// the optional tag override.
func fieldDatatype(ft reflect.Type, override string) (Datatype, error) {
	var dt Datatype
	switch override = strings.TrimSpace(override); override {
	case "":
		if d, err := DatatypeOfType(ft); err == nil {
			return d, nil
		}
		return Custom(int(ft.Size()), ft.Align()), nil
	case "bytes":
		dt = ByteArray(int(ft.Size()))
	case "custom":
		dt = Custom(int(ft.Size()), ft.Align())
	default:
		var err error
		if dt, err = ParseDatatype(override); err != nil {
			return Datatype{}, err
		}
	}
	if !CompatibleType(ft, dt) {
		return Datatype{}, fmt.Errorf("%w: %s cannot hold %s", ErrUnsupportedType, ft, dt)
	}
	return dt, nil
}

func scalarOfKind(k reflect.Kind) (Scalar, bool) {
	switch k {
	case reflect.Uint8:
		return Uint8, true
	case reflect.Int8:
		return Int8, true
	case reflect.Uint16:
		return Uint16, true
	case reflect.Int16:
		return Int16, true
	case reflect.Uint32:
		return Uint32, true
	case reflect.Int32:
		return Int32, true
	case reflect.Uint64:
		return Uint64, true
	case reflect.Int64:
		return Int64, true
	case reflect.Float32:
		return Float32, true
	case reflect.Float64:
		return Float64, true
	default:
		return 0, false
	}
}
