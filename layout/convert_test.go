package layout

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64Bytes(v float64) []byte {
	b := make([]byte, 8)
	binary.NativeEndian.PutUint64(b, math.Float64bits(v))
	return b
}

func f32Bytes(v float32) []byte {
	b := make([]byte, 4)
	binary.NativeEndian.PutUint32(b, math.Float32bits(v))
	return b
}

func convert(t *testing.T, from, to Datatype, src []byte) []byte {
	t.Helper()
	fn, err := Converter(from, to)
	require.NoError(t, err)
	dst := make([]byte, to.Size())
	fn(dst, src)
	return dst
}

func TestConverter_FloatToInt(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		to   Datatype
		want uint64
	}{
		{"truncates", 3.9, U8, 3},
		{"saturates high", 300, U8, 255},
		{"saturates low", -5, U8, 0},
		{"nan is zero", math.NaN(), U16, 0},
		{"negative signed", -3.9, I8, uint64(0xFD)},
		{"signed saturates low", -1000, I8, uint64(0x80)},
		{"signed saturates high", 1000, I8, 0x7F},
		{"i64 saturates", 1e300, I64, math.MaxInt64},
		{"u64 saturates", math.Inf(1), U64, math.MaxUint64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := convert(t, F64, tt.to, f64Bytes(tt.in))
			assert.Equal(t, tt.want, loadBits(out, tt.to.Elem())&mask(tt.to.Size()))
		})
	}
}

func mask(size int) uint64 {
	if size == 8 {
		return math.MaxUint64
	}
	return 1<<(8*size) - 1
}

func TestConverter_IntToInt(t *testing.T) {
	t.Run("wraps on narrowing", func(t *testing.T) {
		src := make([]byte, 2)
		binary.NativeEndian.PutUint16(src, 0x1234)
		out := convert(t, U16, U8, src)
		assert.Equal(t, []byte{0x34}, out)
	})

	t.Run("sign extends on widening", func(t *testing.T) {
		out := convert(t, I8, I32, []byte{0xFF})
		assert.Equal(t, int32(-1), int32(binary.NativeEndian.Uint32(out)))
	})

	t.Run("negative to unsigned wraps", func(t *testing.T) {
		out := convert(t, I8, U16, []byte{0xFE})
		assert.Equal(t, uint16(0xFFFE), binary.NativeEndian.Uint16(out))
	})
}

func TestConverter_IntToFloat(t *testing.T) {
	src := make([]byte, 8)
	binary.NativeEndian.PutUint64(src, uint64(math.MaxUint64))
	out := convert(t, U64, F32, src)
	assert.Equal(t, float32(math.MaxUint64), math.Float32frombits(binary.NativeEndian.Uint32(out)))

	out = convert(t, I16, F64, []byte{0x00, 0x80}[:2])
	want := float64(int16(binary.NativeEndian.Uint16([]byte{0x00, 0x80})))
	assert.Equal(t, want, math.Float64frombits(binary.NativeEndian.Uint64(out)))
}

func TestConverter_FloatToFloat(t *testing.T) {
	out := convert(t, F64, F32, f64Bytes(1.5))
	assert.Equal(t, f32Bytes(1.5), out)

	out = convert(t, F32, F64, f32Bytes(0.25))
	assert.Equal(t, f64Bytes(0.25), out)
}

func TestConverter_Vectors(t *testing.T) {
	src := make([]byte, 6)
	binary.NativeEndian.PutUint16(src[0:], 1)
	binary.NativeEndian.PutUint16(src[2:], 256)
	binary.NativeEndian.PutUint16(src[4:], 65535)

	out := convert(t, Vec3U16, Vec3U8, src)
	assert.Equal(t, []byte{1, 0, 255}, out)

	out = convert(t, Vec3U16, Vec3F64, src)
	assert.Equal(t, 1.0, math.Float64frombits(binary.NativeEndian.Uint64(out[0:])))
	assert.Equal(t, 256.0, math.Float64frombits(binary.NativeEndian.Uint64(out[8:])))
	assert.Equal(t, 65535.0, math.Float64frombits(binary.NativeEndian.Uint64(out[16:])))
}

func TestConverter_Identity(t *testing.T) {
	out := convert(t, ByteArray(4), ByteArray(4), []byte{1, 2, 3, 4})
	assert.Equal(t, []byte{1, 2, 3, 4}, out)

	out = convert(t, Custom(2, 2), Custom(2, 2), []byte{9, 8})
	assert.Equal(t, []byte{9, 8}, out)
}

func TestConverter_Invalid(t *testing.T) {
	pairs := [][2]Datatype{
		{Vec3F64, F64},
		{F64, Vec3F64},
		{Vec3F32, Vec4F32},
		{ByteArray(4), U32},
		{U32, ByteArray(4)},
		{ByteArray(4), ByteArray(8)},
		{Custom(4, 4), F32},
		{Datatype{}, U8},
	}
	for _, p := range pairs {
		_, err := Converter(p[0], p[1])
		assert.ErrorIs(t, err, ErrInvalidConversion, "%s -> %s", p[0], p[1])
		var ce *ConversionError
		assert.ErrorAs(t, err, &ce)
		assert.False(t, CanConvert(p[0], p[1]))
	}
	assert.True(t, CanConvert(Vec3U16, Vec3U8))
}
