package buffer

import (
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pointbuf/layout"
	"github.com/hupe1980/pointbuf/testutil"
)

// allTypesLayout has one tightly packed attribute per datatype.
func allTypesLayout() *layout.Layout {
	dts := []layout.Datatype{
		layout.U8, layout.I8, layout.U16, layout.I16, layout.U32, layout.I32,
		layout.U64, layout.I64, layout.F32, layout.F64,
		layout.Vec3U8, layout.Vec3U16, layout.Vec3I32, layout.Vec3F32, layout.Vec3F64,
		layout.Vec4U8, layout.Vec4U16, layout.Vec4F32, layout.Vec4F64,
		layout.ByteArray(5), layout.Custom(6, 2),
	}
	defs := make([]layout.Definition, len(dts))
	for i, dt := range dts {
		defs[i] = layout.NewDefinition(fmt.Sprintf("A%02d", i), dt)
	}
	return layout.MustNew(layout.Tight, defs...)
}

var lasLayout = layout.MustNew(layout.Tight, layout.Position3D, layout.Intensity, layout.Classification)

func randomPoints(l *layout.Layout, n int, seed int64) []byte {
	return testutil.NewRNG(seed).Points(l, n)
}

// lasPoint encodes one point of lasLayout.
func lasPoint(x, y, z float64, intensity uint16, class uint8) []byte {
	p := make([]byte, lasLayout.Size())
	ne := binary.NativeEndian
	ne.PutUint64(p[0:], math.Float64bits(x))
	ne.PutUint64(p[8:], math.Float64bits(y))
	ne.PutUint64(p[16:], math.Float64bits(z))
	ne.PutUint16(p[24:], intensity)
	p[26] = class
	return p
}

func lasPoints(n int) []byte {
	var out []byte
	for i := 0; i < n; i++ {
		f := float64(i)
		out = append(out, lasPoint(f, f*2, f*3, uint16(i*10), uint8(i))...)
	}
	return out
}

type owningKind struct {
	name string
	new  func(t *testing.T, l *layout.Layout) OwningBuffer
}

var owningKinds = []owningKind{
	{"vector", func(t *testing.T, l *layout.Layout) OwningBuffer {
		b, err := NewVectorBuffer(l, 0)
		require.NoError(t, err)
		return b
	}},
	{"hashmap", func(t *testing.T, l *layout.Layout) OwningBuffer {
		b, err := NewHashMapBuffer(l, 0)
		require.NoError(t, err)
		return b
	}},
}

func TestNewRejectsEmptyLayout(t *testing.T) {
	_, err := NewVectorBuffer(&layout.Layout{}, 10)
	assert.ErrorIs(t, err, ErrEmptyLayout)
	_, err = NewHashMapBuffer(nil, 10)
	assert.ErrorIs(t, err, ErrEmptyLayout)
	_, err = NewExternalMemoryBuffer(nil, &layout.Layout{})
	assert.ErrorIs(t, err, ErrEmptyLayout)
}

func TestLayoutIsCloned(t *testing.T) {
	l := layout.MustNew(layout.Tight, layout.Intensity)
	b, err := NewVectorBuffer(l, 0)
	require.NoError(t, err)

	_, err = l.AddAttribute(layout.Classification, layout.Tight)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Layout().Size())
	assert.Equal(t, 1, b.Layout().Len())
}

func TestAppendLen(t *testing.T) {
	for _, k := range owningKinds {
		t.Run(k.name, func(t *testing.T) {
			b := k.new(t, lasLayout)
			assert.Equal(t, 0, b.Len())

			require.NoError(t, AppendPoints(b, lasPoints(5)))
			assert.Equal(t, 5, b.Len())

			require.NoError(t, AppendPoints(b, lasPoints(2)))
			assert.Equal(t, 7, b.Len())

			err := AppendPoints(b, make([]byte, lasLayout.Size()+1))
			assert.ErrorIs(t, err, ErrSizeMismatch)
			assert.Equal(t, 7, b.Len())

			b.Clear()
			assert.Equal(t, 0, b.Len())
		})
	}
}

func TestRoundTripAllDatatypes(t *testing.T) {
	l := allTypesLayout()
	const n = 17
	raw := randomPoints(l, n, 42)

	for _, k := range owningKinds {
		t.Run(k.name, func(t *testing.T) {
			b := k.new(t, l)
			require.NoError(t, AppendPoints(b, raw))
			require.Equal(t, n, b.Len())

			point := make([]byte, l.Size())
			for i := 0; i < n; i++ {
				want := raw[i*l.Size() : (i+1)*l.Size()]
				require.NoError(t, ReadPoint(b, i, point))
				assert.Equal(t, want, point, "point %d", i)

				for _, m := range l.Members() {
					got := make([]byte, m.Size())
					require.NoError(t, ReadAttribute(b, m.Definition(), i, got))
					assert.Equal(t, want[m.Offset():m.End()], got, "point %d attribute %s", i, m)
				}
			}

			all := make([]byte, len(raw))
			require.NoError(t, ReadPointRange(b, 0, n, all))
			assert.Equal(t, raw, all)
		})
	}
}

func TestCheckedAccessErrors(t *testing.T) {
	for _, k := range owningKinds {
		t.Run(k.name, func(t *testing.T) {
			b := k.new(t, lasLayout)
			require.NoError(t, AppendPoints(b, lasPoints(3)))

			point := make([]byte, lasLayout.Size())
			assert.ErrorIs(t, ReadPoint(b, 3, point), ErrIndexOutOfRange)
			assert.ErrorIs(t, ReadPoint(b, -1, point), ErrIndexOutOfRange)
			assert.ErrorIs(t, ReadPoint(b, 0, point[:5]), ErrSizeMismatch)
			assert.ErrorIs(t, ReadPointRange(b, 2, 4, make([]byte, 2*lasLayout.Size())), ErrIndexOutOfRange)

			v := make([]byte, 2)
			assert.ErrorIs(t, ReadAttribute(b, layout.GpsTime, 0, v), ErrAttributeNotFound)
			wrongType := layout.Intensity.WithDatatype(layout.U32)
			assert.ErrorIs(t, ReadAttribute(b, wrongType, 0, make([]byte, 4)), ErrAttributeNotFound)
			assert.ErrorIs(t, ReadAttribute(b, layout.Intensity, 0, make([]byte, 4)), ErrSizeMismatch)
			assert.ErrorIs(t, WriteAttribute(b, layout.Intensity, 9, v), ErrIndexOutOfRange)
			assert.ErrorIs(t, WritePoint(b, 0, v), ErrSizeMismatch)
		})
	}
}

func TestWriteAttributeAndPoint(t *testing.T) {
	for _, k := range owningKinds {
		t.Run(k.name, func(t *testing.T) {
			b := k.new(t, lasLayout)
			require.NoError(t, AppendPoints(b, lasPoints(4)))

			v := binary.NativeEndian.AppendUint16(nil, 999)
			require.NoError(t, WriteAttribute(b, layout.Intensity, 2, v))

			got := make([]byte, 2)
			require.NoError(t, ReadAttribute(b, layout.Intensity, 2, got))
			assert.Equal(t, uint16(999), binary.NativeEndian.Uint16(got))

			// Neighbours untouched.
			require.NoError(t, ReadAttribute(b, layout.Intensity, 1, got))
			assert.Equal(t, uint16(10), binary.NativeEndian.Uint16(got))

			p := lasPoint(7, 8, 9, 70, 7)
			require.NoError(t, WritePoint(b, 0, p))
			out := make([]byte, lasLayout.Size())
			require.NoError(t, ReadPoint(b, 0, out))
			assert.Equal(t, p, out)

			values := binary.NativeEndian.AppendUint16(binary.NativeEndian.AppendUint16(nil, 1), 2)
			require.NoError(t, WriteAttributeRange(b, layout.Intensity, 1, 3, values))
			rng := make([]byte, 4)
			require.NoError(t, ReadAttributeRange(b, layout.Intensity, 1, 3, rng))
			assert.Equal(t, values, rng)
		})
	}
}

func TestResizeZeroFills(t *testing.T) {
	for _, k := range owningKinds {
		t.Run(k.name, func(t *testing.T) {
			b := k.new(t, lasLayout)
			raw := lasPoints(3)
			require.NoError(t, AppendPoints(b, raw))

			b.Resize(10)
			require.Equal(t, 10, b.Len())

			all := make([]byte, 10*lasLayout.Size())
			require.NoError(t, ReadPointRange(b, 0, 10, all))
			assert.Equal(t, raw, all[:len(raw)])
			assert.Equal(t, make([]byte, len(all)-len(raw)), all[len(raw):])

			b.Resize(2)
			assert.Equal(t, 2, b.Len())

			// Growing again must not resurrect the truncated points.
			b.Resize(3)
			p := make([]byte, lasLayout.Size())
			require.NoError(t, ReadPoint(b, 2, p))
			assert.Equal(t, make([]byte, lasLayout.Size()), p)
		})
	}
}

func TestResizeOverflowPanics(t *testing.T) {
	for _, k := range owningKinds {
		t.Run(k.name, func(t *testing.T) {
			b := k.new(t, lasLayout)
			require.NoError(t, AppendPoints(b, lasPoints(1)))

			assert.Panics(t, func() { b.Resize(math.MaxInt) })
			assert.Equal(t, 1, b.Len())
		})
	}

	vb, err := NewVectorBuffer(lasLayout, 0)
	require.NoError(t, err)
	vb.Reserve(-1)
	assert.Equal(t, 0, vb.Capacity())
	assert.Panics(t, func() { vb.Reserve(math.MaxInt / 2) })
}

func TestSwap(t *testing.T) {
	for _, k := range owningKinds {
		t.Run(k.name, func(t *testing.T) {
			b := k.new(t, lasLayout)
			raw := lasPoints(4)
			require.NoError(t, AppendPoints(b, raw))

			b.Swap(0, 3)
			b.Swap(1, 1)

			size := lasLayout.Size()
			p := make([]byte, size)
			b.PointInto(0, p)
			assert.Equal(t, raw[3*size:4*size], p)
			b.PointInto(3, p)
			assert.Equal(t, raw[0:size], p)
			b.PointInto(1, p)
			assert.Equal(t, raw[size:2*size], p)
		})
	}
}

func TestInterleavedColumnarEquivalence(t *testing.T) {
	l := layout.MustNew(layout.Aligned, layout.Classification, layout.Position3D, layout.Intensity, layout.GpsTime)
	raw := randomPoints(l, 8, 7)

	vec, err := NewVectorBuffer(l, 8)
	require.NoError(t, err)
	hm, err := NewHashMapBuffer(l, 8)
	require.NoError(t, err)
	require.NoError(t, AppendPoints(vec, raw))
	require.NoError(t, AppendPoints(hm, raw))

	for _, m := range l.Members() {
		a, c := make([]byte, m.Size()), make([]byte, m.Size())
		require.NoError(t, ReadAttribute(vec, m.Definition(), 3, a))
		require.NoError(t, ReadAttribute(hm, m.Definition(), 3, c))
		assert.Equal(t, a, c, m.String())
		assert.Equal(t, vec.PointRef(3)[m.Offset():m.End()], hm.AttributeRef(m.Definition(), 3))
	}

	// Padding is not stored by the columnar buffer.
	p := make([]byte, l.Size())
	hm.PointInto(3, p)
	assert.Equal(t, byte(0), p[1])
}

func TestAppendDispatch(t *testing.T) {
	raw := lasPoints(6)

	vec, err := NewVectorBuffer(lasLayout, 0)
	require.NoError(t, err)
	require.NoError(t, AppendPoints(vec, raw))
	hm, err := NewHashMapBuffer(lasLayout, 0)
	require.NoError(t, err)
	require.NoError(t, AppendPoints(hm, raw))
	ext, err := NewExternalMemoryBuffer(raw, lasLayout)
	require.NoError(t, err)

	sources := map[string]Buffer{
		"interleaved": vec,
		"columnar":    hm,
		"external":    ext,
		"baseline":    baselineOnly{vec},
		"slice":       Slice(vec, 0, 6),
	}
	for _, k := range owningKinds {
		for name, src := range sources {
			t.Run(k.name+"/"+name, func(t *testing.T) {
				dst := k.new(t, lasLayout)
				require.NoError(t, AppendPoints(dst, lasPoints(1)))
				require.NoError(t, Append(dst, src))
				require.Equal(t, 7, dst.Len())
				assert.True(t, Equal(Slice(dst, 1, 7), vec))
			})
		}
	}

	t.Run("layout mismatch", func(t *testing.T) {
		other, err := NewVectorBuffer(layout.MustNew(layout.Tight, layout.Intensity, layout.Position3D, layout.Classification), 0)
		require.NoError(t, err)
		assert.ErrorIs(t, Append(other, vec), ErrLayoutMismatch)
	})
}

// baselineOnly hides every capability except the baseline read surface.
type baselineOnly struct {
	b Buffer
}

func (o baselineOnly) Len() int                                  { return o.b.Len() }
func (o baselineOnly) Layout() *layout.Layout                    { return o.b.Layout() }
func (o baselineOnly) PointInto(i int, dst []byte)               { o.b.PointInto(i, dst) }
func (o baselineOnly) PointRangeInto(start, end int, dst []byte) { o.b.PointRangeInto(start, end, dst) }
func (o baselineOnly) AttributeIntoUnchecked(m layout.Member, i int, dst []byte) {
	o.b.AttributeIntoUnchecked(m, i, dst)
}

func TestReadAttributeConverted(t *testing.T) {
	b, err := NewHashMapBuffer(lasLayout, 0)
	require.NoError(t, err)
	require.NoError(t, AppendPoints(b, lasPoints(3)))

	dst := make([]byte, 8)
	require.NoError(t, ReadAttributeConverted(b, layout.Intensity.WithDatatype(layout.F64), 2, dst))
	assert.Equal(t, 20.0, math.Float64frombits(binary.NativeEndian.Uint64(dst)))

	pos := make([]byte, 12)
	require.NoError(t, ReadAttributeConverted(b, layout.Position3D.WithDatatype(layout.Vec3F32), 2, pos))
	assert.Equal(t, float32(6), math.Float32frombits(binary.NativeEndian.Uint32(pos[8:])))

	err = ReadAttributeConverted(b, layout.Intensity.WithDatatype(layout.Vec3U16), 0, make([]byte, 6))
	assert.ErrorIs(t, err, layout.ErrInvalidConversion)
	err = ReadAttributeConverted(b, layout.NIR, 0, make([]byte, 2))
	assert.ErrorIs(t, err, ErrAttributeNotFound)
}

func TestExternalMemoryBuffer(t *testing.T) {
	raw := lasPoints(4)

	_, err := NewExternalMemoryBuffer(raw[:len(raw)-1], lasLayout)
	assert.ErrorIs(t, err, ErrMisalignedMemory)

	ro, err := NewExternalMemoryBuffer(raw, lasLayout)
	require.NoError(t, err)
	assert.Equal(t, 4, ro.Len())
	assert.Equal(t, raw[lasLayout.Size():2*lasLayout.Size()], ro.PointRef(1))

	rw, err := NewExternalMemoryBufferMut(raw, lasLayout)
	require.NoError(t, err)
	v := binary.NativeEndian.AppendUint16(nil, 4242)
	require.NoError(t, WriteAttribute(rw, layout.Intensity, 3, v))

	// Writes land in the caller's memory and are visible to other views of it.
	off := 3*lasLayout.Size() + 24
	assert.Equal(t, uint16(4242), binary.NativeEndian.Uint16(raw[off:]))
	got := make([]byte, 2)
	require.NoError(t, ReadAttribute(ro, layout.Intensity, 3, got))
	assert.Equal(t, v, got)

	empty, err := NewExternalMemoryBuffer(nil, lasLayout)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestGrowthObserver(t *testing.T) {
	var events [][2]int
	obs := GrowthObserverFunc(func(kind string, oldBytes, newBytes int) {
		assert.Equal(t, "interleaved", kind)
		events = append(events, [2]int{oldBytes, newBytes})
	})

	b, err := NewVectorBuffer(lasLayout, 1, WithGrowthObserver(obs))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		b.AppendRawUnchecked(lasPoints(1))
	}
	require.NotEmpty(t, events)
	for _, e := range events {
		assert.Greater(t, e[1], e[0])
	}
	assert.GreaterOrEqual(t, b.Capacity(), 5)

	var columnar int
	hm, err := NewHashMapBuffer(lasLayout, 0, WithGrowthObserver(GrowthObserverFunc(func(kind string, _, _ int) {
		assert.Equal(t, "columnar", kind)
		columnar++
	})))
	require.NoError(t, err)
	hm.Resize(3)
	assert.Equal(t, lasLayout.Len(), columnar)
}

func TestCollect(t *testing.T) {
	hm, err := NewHashMapBuffer(lasLayout, 0)
	require.NoError(t, err)
	require.NoError(t, AppendPoints(hm, lasPoints(5)))

	vec, err := Collect(hm)
	require.NoError(t, err)
	assert.True(t, Equal(vec, hm))
	assert.Equal(t, lasPoints(5), vec.Bytes())
}
