package layout

import (
	"encoding/binary"
	"math"
)

// ConvertFunc converts one value. src holds exactly one value of the source
// datatype and dst exactly one value of the target datatype, both in native
// byte order.
type ConvertFunc func(dst, src []byte)

// Converter returns the conversion from one datatype to another.
//
// Identical datatypes convert by copying. Scalars convert to scalars and
// vectors to vectors with the same number of components; everything else
// (vector to scalar, byte arrays, custom types) fails with a *ConversionError.
//
// Components convert like a numeric cast: integers wrap to the target
// width, floats truncate toward zero and saturate at the target range (NaN
// becomes 0) when converted to integers, and conversions to floats round to
// nearest.
func Converter(from, to Datatype) (ConvertFunc, error) {
	if !from.IsValid() || !to.IsValid() {
		return nil, &ConversionError{From: from, To: to}
	}
	if from == to {
		return func(dst, src []byte) { copy(dst, src) }, nil
	}
	if !from.IsNumeric() || !to.IsNumeric() || from.Kind() != to.Kind() || from.Components() != to.Components() {
		return nil, &ConversionError{From: from, To: to}
	}

	n := from.Components()
	fs, ts := from.Elem(), to.Elem()
	fsz, tsz := fs.Size(), ts.Size()
	return func(dst, src []byte) {
		for c := 0; c < n; c++ {
			convertScalar(dst[c*tsz:(c+1)*tsz], ts, src[c*fsz:(c+1)*fsz], fs)
		}
	}, nil
}

// CanConvert reports whether Converter accepts the pair.
func CanConvert(from, to Datatype) bool {
	_, err := Converter(from, to)
	return err == nil
}

func convertScalar(dst []byte, to Scalar, src []byte, from Scalar) {
	if from.IsFloat() {
		f := loadFloat(src, from)
		if to.IsFloat() {
			storeFloat(dst, to, f)
			return
		}
		storeBits(dst, to, saturate(f, to))
		return
	}

	bits := loadBits(src, from)
	if !to.IsFloat() {
		storeBits(dst, to, bits)
		return
	}
	// Convert straight from the integer so float32 targets round once.
	ne := binary.NativeEndian
	switch {
	case to == Float32 && from.IsSigned():
		ne.PutUint32(dst, math.Float32bits(float32(int64(bits))))
	case to == Float32:
		ne.PutUint32(dst, math.Float32bits(float32(bits)))
	case from.IsSigned():
		ne.PutUint64(dst, math.Float64bits(float64(int64(bits))))
	default:
		ne.PutUint64(dst, math.Float64bits(float64(bits)))
	}
}

// loadBits returns an integer scalar as 64 bits, sign-extended for signed types.
func loadBits(src []byte, s Scalar) uint64 {
	ne := binary.NativeEndian
	switch s {
	case Uint8:
		return uint64(src[0])
	case Int8:
		return uint64(int64(int8(src[0])))
	case Uint16:
		return uint64(ne.Uint16(src))
	case Int16:
		return uint64(int64(int16(ne.Uint16(src))))
	case Uint32:
		return uint64(ne.Uint32(src))
	case Int32:
		return uint64(int64(int32(ne.Uint32(src))))
	default:
		return ne.Uint64(src)
	}
}

// storeBits writes the low bits of v, truncating to the scalar width.
func storeBits(dst []byte, s Scalar, v uint64) {
	ne := binary.NativeEndian
	switch s.Size() {
	case 1:
		dst[0] = byte(v)
	case 2:
		ne.PutUint16(dst, uint16(v))
	case 4:
		ne.PutUint32(dst, uint32(v))
	default:
		ne.PutUint64(dst, v)
	}
}

func loadFloat(src []byte, s Scalar) float64 {
	if s == Float32 {
		return float64(math.Float32frombits(binary.NativeEndian.Uint32(src)))
	}
	return math.Float64frombits(binary.NativeEndian.Uint64(src))
}

func storeFloat(dst []byte, s Scalar, f float64) {
	if s == Float32 {
		binary.NativeEndian.PutUint32(dst, math.Float32bits(float32(f)))
		return
	}
	binary.NativeEndian.PutUint64(dst, math.Float64bits(f))
}

// saturate converts f to the integer scalar s, truncating toward zero and
// clamping to the representable range. NaN maps to 0.
func saturate(f float64, s Scalar) uint64 {
	if math.IsNaN(f) {
		return 0
	}
	f = math.Trunc(f)

	if s.IsSigned() {
		lo, hi := signedRange(s)
		switch {
		case f <= float64(lo):
			return uint64(lo)
		case f >= float64(hi):
			return uint64(hi)
		default:
			return uint64(int64(f))
		}
	}

	hi := unsignedMax(s)
	switch {
	case f <= 0:
		return 0
	case f >= float64(hi):
		return hi
	default:
		return uint64(f)
	}
}

func signedRange(s Scalar) (int64, int64) {
	switch s {
	case Int8:
		return math.MinInt8, math.MaxInt8
	case Int16:
		return math.MinInt16, math.MaxInt16
	case Int32:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}

func unsignedMax(s Scalar) uint64 {
	switch s {
	case Uint8:
		return math.MaxUint8
	case Uint16:
		return math.MaxUint16
	case Uint32:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}
