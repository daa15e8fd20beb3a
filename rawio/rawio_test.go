package rawio_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pointbuf"
	"github.com/hupe1980/pointbuf/buffer"
	"github.com/hupe1980/pointbuf/codec"
	"github.com/hupe1980/pointbuf/layout"
	"github.com/hupe1980/pointbuf/rawio"
	"github.com/hupe1980/pointbuf/view"
)

type lasPoint struct {
	Position       [3]float64 `point:"Position3D"`
	Intensity      uint16     `point:"Intensity"`
	Classification uint8      `point:"Classification"`
	_              [5]byte
}

var lasLayout = func() *layout.Layout {
	l := layout.MustNew(layout.Aligned, layout.Position3D, layout.Intensity, layout.Classification)
	l.PadToAlignment()
	return l
}()

func sample(n int) *buffer.VectorBuffer {
	b, err := buffer.NewVectorBuffer(lasLayout, n)
	if err != nil {
		panic(err)
	}
	pts, err := view.PointsMut[lasPoint](b)
	if err != nil {
		panic(err)
	}
	b.Resize(n)
	for i := range n {
		f := float64(i)
		pts.Set(i, lasPoint{Position: [3]float64{f, f * 2, f * 3}, Intensity: uint16(i * 7), Classification: uint8(i % 13)})
	}
	return b
}

func encode(t *testing.T, b buffer.Buffer, opts ...rawio.Option) []byte {
	t.Helper()
	var out bytes.Buffer
	w, err := rawio.NewWriter(&out, b.Layout(), opts...)
	require.NoError(t, err)
	require.NoError(t, w.WriteBuffer(b))
	require.NoError(t, w.Close())
	return out.Bytes()
}

func TestRoundTrip(t *testing.T) {
	src := sample(1000)

	for _, c := range []rawio.Compression{rawio.CompressionNone, rawio.CompressionZstd, rawio.CompressionLZ4} {
		for _, kind := range []pointbuf.Kind{pointbuf.KindInterleaved, pointbuf.KindColumnar} {
			t.Run(c.String()+"/"+kind.String(), func(t *testing.T) {
				in, err := pointbuf.New(kind, lasLayout, 0)
				require.NoError(t, err)
				require.NoError(t, buffer.Append(in, src))

				data := encode(t, in, rawio.WithCompression(c), rawio.WithChunkSize(100))

				r, err := rawio.NewReader(bytes.NewReader(data))
				require.NoError(t, err)
				defer r.Close()

				assert.True(t, r.Layout().Equal(lasLayout))
				assert.Equal(t, 1000, r.Count())
				assert.Equal(t, c, r.Compression())
				assert.Equal(t, "cbor", r.Codec())
				assert.Zero(t, r.PayloadOffset()%64)

				out, err := pointbuf.New(kind, r.Layout(), 0)
				require.NoError(t, err)
				n, err := r.ReadInto(out, 300)
				require.NoError(t, err)
				assert.Equal(t, 300, n)
				assert.Equal(t, 700, r.Remaining())

				n, err = r.ReadInto(out, -1)
				require.NoError(t, err)
				assert.Equal(t, 700, n)

				_, err = r.ReadInto(out, 1)
				assert.ErrorIs(t, err, io.EOF)

				assert.True(t, buffer.Equal(src, out))
			})
		}
	}
}

func TestUncompressedPayloadIsRaw(t *testing.T) {
	src := sample(3)
	data := encode(t, src)

	off, err := rawio.PayloadOffset(lasLayout)
	require.NoError(t, err)
	assert.Equal(t, src.Bytes(), data[off:])
}

func TestEmptyWriter(t *testing.T) {
	var out bytes.Buffer
	w, err := rawio.NewWriter(&out, lasLayout, rawio.WithCompression(rawio.CompressionZstd))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := rawio.NewReader(&out)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Count())

	b, err := buffer.NewVectorBuffer(lasLayout, 0)
	require.NoError(t, err)
	_, err = r.ReadInto(b, -1)
	assert.ErrorIs(t, err, io.EOF)
}

func TestWriterErrors(t *testing.T) {
	_, err := rawio.NewWriter(io.Discard, &layout.Layout{})
	assert.ErrorIs(t, err, buffer.ErrEmptyLayout)

	w, err := rawio.NewWriter(io.Discard, lasLayout)
	require.NoError(t, err)

	other, err := buffer.NewVectorBuffer(layout.MustNew(layout.Tight, layout.Intensity), 0)
	require.NoError(t, err)
	assert.ErrorIs(t, w.WriteBuffer(other), rawio.ErrLayoutMismatch)

	require.NoError(t, w.WriteBuffer(sample(2)))
	assert.ErrorIs(t, w.WriteBuffer(sample(2)), rawio.ErrAlreadyWritten)
}

func TestShortRead(t *testing.T) {
	for _, kind := range []pointbuf.Kind{pointbuf.KindInterleaved, pointbuf.KindColumnar} {
		t.Run(kind.String(), func(t *testing.T) {
			data := encode(t, sample(10))
			data = data[:len(data)-lasLayout.Size()-3]

			r, err := rawio.NewReader(bytes.NewReader(data))
			require.NoError(t, err)

			out, err := pointbuf.New(kind, lasLayout, 0)
			require.NoError(t, err)
			n, err := r.ReadInto(out, -1)
			assert.ErrorIs(t, err, rawio.ErrShortRead)
			assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
			assert.Equal(t, 8, n)
			assert.Equal(t, 8, out.Len())
		})
	}
}

// withCount rewrites the point count of an encoded stream.
func withCount(data []byte, count uint64) []byte {
	d := bytes.Clone(data)
	n := 7 + int(d[6])
	schemaLen := int(binary.LittleEndian.Uint32(d[n:]))
	binary.LittleEndian.PutUint64(d[n+4+schemaLen:], count)
	return d
}

func TestHugeCountShortRead(t *testing.T) {
	for _, c := range []rawio.Compression{rawio.CompressionNone, rawio.CompressionZstd} {
		for _, kind := range []pointbuf.Kind{pointbuf.KindInterleaved, pointbuf.KindColumnar} {
			t.Run(c.String()+"/"+kind.String(), func(t *testing.T) {
				data := withCount(encode(t, sample(3), rawio.WithCompression(c)), 1<<50)

				r, err := rawio.NewReader(bytes.NewReader(data))
				require.NoError(t, err)
				assert.Equal(t, 1<<50, r.Count())

				out, err := pointbuf.New(kind, lasLayout, 0)
				require.NoError(t, err)
				n, err := r.ReadInto(out, -1)
				assert.ErrorIs(t, err, rawio.ErrShortRead)
				assert.Equal(t, 3, n)
				assert.Equal(t, 3, out.Len())
			})
		}
	}

	path := filepath.Join(t.TempDir(), "huge.pbuf")
	require.NoError(t, os.WriteFile(path, withCount(encode(t, sample(0)), 1<<50), 0o600))
	_, err := rawio.ReadFile(path)
	assert.ErrorIs(t, err, rawio.ErrShortRead)
}

func TestMalformedHeader(t *testing.T) {
	valid := encode(t, sample(1))

	tests := []struct {
		name string
		data func() []byte
	}{
		{"empty", func() []byte { return nil }},
		{"magic", func() []byte {
			d := bytes.Clone(valid)
			copy(d, "LASF")
			return d
		}},
		{"version", func() []byte {
			d := bytes.Clone(valid)
			d[4] = 9
			return d
		}},
		{"codec", func() []byte {
			d := bytes.Clone(valid)
			d[7] = 'x'
			return d
		}},
		{"schema length", func() []byte {
			d := bytes.Clone(valid)
			n := 7 + int(d[6])
			binary.LittleEndian.PutUint32(d[n:], 1<<30)
			return d
		}},
		{"truncated", func() []byte { return valid[:20] }},
		{"count overflow", func() []byte { return withCount(valid, 1<<60) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rawio.NewReader(bytes.NewReader(tt.data()))
			assert.ErrorIs(t, err, rawio.ErrMalformedHeader)
		})
	}
}

func TestByteOrderFlag(t *testing.T) {
	d := encode(t, sample(1))
	d[5] ^= 0x80

	_, err := rawio.NewReader(bytes.NewReader(d))
	assert.ErrorIs(t, err, rawio.ErrByteOrder)
}

func TestReaderLayoutMismatch(t *testing.T) {
	r, err := rawio.NewReader(bytes.NewReader(encode(t, sample(2))))
	require.NoError(t, err)

	dst, err := buffer.NewVectorBuffer(layout.MustNew(layout.Tight, layout.Intensity), 0)
	require.NoError(t, err)
	_, err = r.ReadInto(dst, -1)
	assert.ErrorIs(t, err, rawio.ErrLayoutMismatch)
}

func TestCodecs(t *testing.T) {
	for _, c := range []codec.Codec{codec.CBOR{}, codec.JSON{}, codec.GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			r, err := rawio.NewReader(bytes.NewReader(encode(t, sample(4), rawio.WithCodec(c))))
			require.NoError(t, err)
			assert.Equal(t, c.Name(), r.Codec())
			assert.True(t, r.Layout().Equal(lasLayout))
		})
	}
}

func TestFileRoundTripAndMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.pbuf")
	src := sample(64)
	require.NoError(t, rawio.WriteFile(path, src))

	got, err := rawio.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, buffer.Equal(src, got))

	off, err := rawio.PayloadOffset(lasLayout)
	require.NoError(t, err)
	m, err := pointbuf.OpenMapped(path, lasLayout, pointbuf.WithOffset(off))
	require.NoError(t, err)
	defer m.Close()

	refs, err := view.PointRefs[lasPoint](m)
	require.NoError(t, err)
	require.Equal(t, 64, refs.Len())
	assert.Equal(t, [3]float64{10, 20, 30}, refs.Ref(10).Position)
	assert.Equal(t, uint16(70), refs.Ref(10).Intensity)
}
