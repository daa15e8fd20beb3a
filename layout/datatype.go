package layout

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// Scalar is a primitive numeric component type.
type Scalar uint8

// Supported scalars.
const (
	Uint8 Scalar = iota + 1
	Int8
	Uint16
	Int16
	Uint32
	Int32
	Uint64
	Int64
	Float32
	Float64
)

var scalarNames = [...]string{
	Uint8:   "u8",
	Int8:    "i8",
	Uint16:  "u16",
	Int16:   "i16",
	Uint32:  "u32",
	Int32:   "i32",
	Uint64:  "u64",
	Int64:   "i64",
	Float32: "f32",
	Float64: "f64",
}

// Size returns the scalar size in bytes, or 0 for an invalid scalar.
func (s Scalar) Size() int {
	switch s {
	case Uint8, Int8:
		return 1
	case Uint16, Int16:
		return 2
	case Uint32, Int32, Float32:
		return 4
	case Uint64, Int64, Float64:
		return 8
	default:
		return 0
	}
}

// IsFloat reports whether the scalar is a floating-point type.
func (s Scalar) IsFloat() bool { return s == Float32 || s == Float64 }

// IsSigned reports whether the scalar is a signed integer or a float.
func (s Scalar) IsSigned() bool {
	switch s {
	case Int8, Int16, Int32, Int64, Float32, Float64:
		return true
	default:
		return false
	}
}

// IsValid reports whether s is one of the supported scalars.
func (s Scalar) IsValid() bool { return s >= Uint8 && s <= Float64 }

func (s Scalar) String() string {
	if !s.IsValid() {
		return "invalid"
	}
	return scalarNames[s]
}

func parseScalar(name string) (Scalar, bool) {
	for s := Uint8; s <= Float64; s++ {
		if scalarNames[s] == name {
			return s, true
		}
	}
	return 0, false
}

// Kind is the shape of a datatype.
type Kind uint8

// Datatype kinds.
const (
	KindScalar Kind = iota + 1
	KindVector
	KindByteArray
	KindCustom
)

// Datatype is the runtime type of an attribute. It is a comparable value;
// two datatypes are the same type iff they are ==.
//
// The zero Datatype is invalid.
type Datatype struct {
	kind  Kind
	elem  Scalar
	n     int
	align int
}

// Predefined datatypes.
var (
	U8  = ScalarType(Uint8)
	I8  = ScalarType(Int8)
	U16 = ScalarType(Uint16)
	I16 = ScalarType(Int16)
	U32 = ScalarType(Uint32)
	I32 = ScalarType(Int32)
	U64 = ScalarType(Uint64)
	I64 = ScalarType(Int64)
	F32 = ScalarType(Float32)
	F64 = ScalarType(Float64)

	Vec3U8  = Vector(Uint8, 3)
	Vec3U16 = Vector(Uint16, 3)
	Vec3I32 = Vector(Int32, 3)
	Vec3F32 = Vector(Float32, 3)
	Vec3F64 = Vector(Float64, 3)
	Vec4U8  = Vector(Uint8, 4)
	Vec4U16 = Vector(Uint16, 4)
	Vec4F32 = Vector(Float32, 4)
	Vec4F64 = Vector(Float64, 4)
)

// ScalarType returns the datatype of a single scalar.
func ScalarType(s Scalar) Datatype {
	return Datatype{kind: KindScalar, elem: s, n: 1}
}

// Vector returns an n-component vector datatype. Only 3 and 4 components
// form valid datatypes; anything else fails IsValid.
func Vector(elem Scalar, n int) Datatype {
	return Datatype{kind: KindVector, elem: elem, n: n}
}

// ByteArray returns a raw fixed-size byte array datatype.
func ByteArray(n int) Datatype {
	return Datatype{kind: KindByteArray, elem: Uint8, n: n}
}

// Custom returns a size-only datatype with the given minimum alignment.
// The alignment must be a power of two.
func Custom(size, align int) Datatype {
	return Datatype{kind: KindCustom, n: size, align: align}
}

// Kind returns the datatype kind.
func (d Datatype) Kind() Kind { return d.kind }

// Elem returns the component scalar of scalar, vector and byte-array datatypes.
func (d Datatype) Elem() Scalar { return d.elem }

// Components returns 1 for scalars, the component count for vectors and the
// byte length for byte arrays. Custom datatypes report 1.
func (d Datatype) Components() int {
	if d.kind == KindCustom {
		return 1
	}
	return d.n
}

// IsValid reports whether d describes a usable, non-empty datatype.
func (d Datatype) IsValid() bool {
	switch d.kind {
	case KindScalar:
		return d.elem.IsValid() && d.n == 1
	case KindVector:
		return d.elem.IsValid() && (d.n == 3 || d.n == 4)
	case KindByteArray:
		return d.elem == Uint8 && d.n > 0
	case KindCustom:
		return d.n > 0 && d.align > 0 && bits.OnesCount(uint(d.align)) == 1
	default:
		return false
	}
}

// Size returns the size of one value in bytes.
func (d Datatype) Size() int {
	switch d.kind {
	case KindScalar, KindVector:
		return d.n * d.elem.Size()
	case KindByteArray, KindCustom:
		return d.n
	default:
		return 0
	}
}

// Alignment returns the natural alignment of the datatype: the component size
// for numeric types, 1 for byte arrays and the declared alignment for custom types.
func (d Datatype) Alignment() int {
	switch d.kind {
	case KindScalar, KindVector:
		return d.elem.Size()
	case KindByteArray:
		return 1
	case KindCustom:
		return d.align
	default:
		return 1
	}
}

// IsNumeric reports whether values are made of numeric components.
func (d Datatype) IsNumeric() bool {
	return d.kind == KindScalar || d.kind == KindVector
}

// String returns the canonical text form, e.g. "u16", "vec3<f64>",
// "bytes[16]" or "custom(12,4)". ParseDatatype accepts the same forms.
func (d Datatype) String() string {
	switch d.kind {
	case KindScalar:
		return d.elem.String()
	case KindVector:
		return fmt.Sprintf("vec%d<%s>", d.n, d.elem)
	case KindByteArray:
		return fmt.Sprintf("bytes[%d]", d.n)
	case KindCustom:
		return fmt.Sprintf("custom(%d,%d)", d.n, d.align)
	default:
		return "invalid"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Datatype) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, ErrInvalidDatatype
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Datatype) UnmarshalText(text []byte) error {
	dt, err := ParseDatatype(string(text))
	if err != nil {
		return err
	}
	*d = dt
	return nil
}

// ParseDatatype parses the text form produced by Datatype.String.
func ParseDatatype(s string) (Datatype, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	if sc, ok := parseScalar(s); ok {
		return ScalarType(sc), nil
	}

	switch {
	case strings.HasPrefix(s, "vec") && strings.HasSuffix(s, ">"):
		open := strings.IndexByte(s, '<')
		if open < 0 {
			break
		}
		n, err := strconv.Atoi(s[3:open])
		if err != nil {
			break
		}
		sc, ok := parseScalar(s[open+1 : len(s)-1])
		if !ok {
			break
		}
		dt := Vector(sc, n)
		if !dt.IsValid() {
			break
		}
		return dt, nil
	case strings.HasPrefix(s, "bytes[") && strings.HasSuffix(s, "]"):
		n, err := strconv.Atoi(s[len("bytes[") : len(s)-1])
		if err != nil || n <= 0 {
			break
		}
		return ByteArray(n), nil
	case strings.HasPrefix(s, "custom(") && strings.HasSuffix(s, ")"):
		parts := strings.Split(s[len("custom("):len(s)-1], ",")
		if len(parts) != 2 {
			break
		}
		size, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		align, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			break
		}
		dt := Custom(size, align)
		if !dt.IsValid() {
			break
		}
		return dt, nil
	}

	return Datatype{}, fmt.Errorf("%w: %q", ErrInvalidDatatype, s)
}
