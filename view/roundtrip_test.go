package view

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pointbuf/buffer"
	"github.com/hupe1980/pointbuf/layout"
	"github.com/hupe1980/pointbuf/testutil"
)

// rgb565x3 is a plain record stored as custom(6,2).
type rgb565x3 struct {
	R, G, B uint16
}

type roundTripCase struct {
	dt  layout.Datatype
	run func(t *testing.T, b buffer.OwningBuffer, def layout.Definition, raw []byte)
}

// roundTripFor writes raw values through AttributeMut[T] and checks that
// every read path returns the same bits.
func roundTripFor[T any](dt layout.Datatype) roundTripCase {
	return roundTripCase{dt: dt, run: func(t *testing.T, b buffer.OwningBuffer, def layout.Definition, raw []byte) {
		n := b.Len()
		size := dt.Size()
		want := make([]T, n)
		for i := range want {
			copy(bytesOf(&want[i]), raw[i*size:(i+1)*size])
		}

		mut, err := AttributeMut[T](b, def)
		require.NoError(t, err)
		for i, v := range want {
			mut.Set(i, v)
		}
		for i := range want {
			got := mut.At(i)
			assert.Equal(t, bytesOf(&want[i]), bytesOf(&got), "point %d", i)
		}

		m, _ := b.Layout().Attribute(def)
		field := make([]byte, size)
		for i := range want {
			require.NoError(t, buffer.ReadAttribute(b, def, i, field))
			assert.Equal(t, raw[i*size:(i+1)*size], field, "point %d member %s", i, m)
		}

		cb, ok := b.(buffer.ColumnarBufferMut)
		if !ok {
			return
		}
		refs, err := AttributeRefsMut[T](cb, def)
		require.NoError(t, err)
		col := refs.RangeMut(0, n)
		for i := range col {
			col[i] = want[n-1-i]
		}
		for i := range want {
			got := mut.At(i)
			assert.Equal(t, bytesOf(&want[n-1-i]), bytesOf(&got), "reversed point %d", i)
			assert.Equal(t, bytesOf(&want[n-1-i]), bytesOf(refs.Ref(i)), "ref %d", i)
		}
	}}
}

var roundTripCases = []roundTripCase{
	roundTripFor[uint8](layout.U8),
	roundTripFor[int8](layout.I8),
	roundTripFor[uint16](layout.U16),
	roundTripFor[int16](layout.I16),
	roundTripFor[uint32](layout.U32),
	roundTripFor[int32](layout.I32),
	roundTripFor[uint64](layout.U64),
	roundTripFor[int64](layout.I64),
	roundTripFor[float32](layout.F32),
	roundTripFor[float64](layout.F64),
	roundTripFor[[3]uint8](layout.Vec3U8),
	roundTripFor[[3]uint16](layout.Vec3U16),
	roundTripFor[[3]int32](layout.Vec3I32),
	roundTripFor[[3]float32](layout.Vec3F32),
	roundTripFor[[3]float64](layout.Vec3F64),
	roundTripFor[[4]uint8](layout.Vec4U8),
	roundTripFor[[4]uint16](layout.Vec4U16),
	roundTripFor[[4]float32](layout.Vec4F32),
	roundTripFor[[4]float64](layout.Vec4F64),
	roundTripFor[[4]byte](layout.ByteArray(4)),
	roundTripFor[[5]byte](layout.ByteArray(5)),
	roundTripFor[rgb565x3](layout.Custom(6, 2)),
}

func TestAttributeRoundTripAllDatatypes(t *testing.T) {
	defs := make([]layout.Definition, len(roundTripCases))
	for i, c := range roundTripCases {
		defs[i] = layout.NewDefinition(fmt.Sprintf("A%02d", i), c.dt)
	}
	l := layout.MustNew(layout.Aligned, defs...)
	l.PadToAlignment()

	const n = 13
	raw := testutil.NewRNG(7).Points(l, n)

	kinds := []struct {
		name string
		new  func() (buffer.OwningBuffer, error)
	}{
		{"interleaved", func() (buffer.OwningBuffer, error) { return buffer.NewVectorBuffer(l, n) }},
		{"columnar", func() (buffer.OwningBuffer, error) { return buffer.NewHashMapBuffer(l, n) }},
	}
	for _, k := range kinds {
		t.Run(k.name, func(t *testing.T) {
			b, err := k.new()
			require.NoError(t, err)
			b.Resize(n)

			for i, c := range roundTripCases {
				t.Run(c.dt.String(), func(t *testing.T) {
					m := l.Members()[i]
					col := make([]byte, n*m.Size())
					for p := 0; p < n; p++ {
						copy(col[p*m.Size():], raw[p*l.Size()+m.Offset():p*l.Size()+m.End()])
					}
					c.run(t, b, defs[i], col)
				})
			}
		})
	}
}
