package rawio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/pointbuf/buffer"
	"github.com/hupe1980/pointbuf/codec"
	"github.com/hupe1980/pointbuf/internal/conv"
	"github.com/hupe1980/pointbuf/layout"
)

// Reader reads points from a stream written by Writer.
type Reader struct {
	payload     io.Reader
	decoder     *zstd.Decoder
	layout      *layout.Layout
	codec       string
	compression Compression
	count       int
	read        int
	offset      int
	scratch     []byte
}

// NewReader parses the header from r. The payload is consumed by ReadInto.
func NewReader(r io.Reader) (*Reader, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	rd := &Reader{
		layout:      h.layout,
		codec:       h.codec,
		compression: h.compression,
		count:       h.count,
		offset:      h.offset,
	}
	switch h.compression {
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		rd.decoder = dec
		rd.payload = dec
	case CompressionLZ4:
		rd.payload = lz4.NewReader(r)
	default:
		rd.payload = r
	}
	return rd, nil
}

// Layout returns the layout stored in the header.
func (r *Reader) Layout() *layout.Layout { return r.layout }

// Count returns the number of points announced by the header.
func (r *Reader) Count() int { return r.count }

// Remaining returns the number of points not yet read.
func (r *Reader) Remaining() int { return r.count - r.read }

// Compression returns the payload compression.
func (r *Reader) Compression() Compression { return r.compression }

// Codec returns the name of the schema codec.
func (r *Reader) Codec() string { return r.codec }

// PayloadOffset returns the file offset of the first point. For uncompressed
// files it is the offset to map the payload at.
func (r *Reader) PayloadOffset() int { return r.offset }

// ReadInto appends up to n points to dst, or all remaining points if n < 0.
// It returns io.EOF once every point has been read and ErrShortRead if the
// payload ends early; points read before that are kept in dst.
func (r *Reader) ReadInto(dst buffer.OwningBuffer, n int) (int, error) {
	if !dst.Layout().Equal(r.layout) {
		return 0, fmt.Errorf("%w: %s vs %s", ErrLayoutMismatch, dst.Layout(), r.layout)
	}
	remaining := r.count - r.read
	if remaining == 0 {
		return 0, io.EOF
	}
	if n < 0 || n > remaining {
		n = remaining
	}

	// The header count is untrusted; dst grows one chunk at a time.
	stride := r.layout.Size()
	chunk := min(n, defaultChunkPoints, max(1, readChunkBytes/stride))
	done := 0
	if ilv, ok := dst.(buffer.InterleavedBufferMut); ok {
		for done < n {
			want := min(chunk, n-done)
			old := dst.Len()
			dst.Resize(old + want)
			got, err := io.ReadFull(r.payload, ilv.PointRangeMut(old, old+want))
			points := got / stride
			done += points
			r.read += points
			if err != nil {
				dst.Resize(old + points)
				return done, r.payloadErr(err)
			}
		}
		return done, nil
	}

	if cap(r.scratch) < chunk*stride {
		r.scratch = make([]byte, chunk*stride)
	}
	for done < n {
		want := min(chunk, n-done) * stride
		got, err := io.ReadFull(r.payload, r.scratch[:want])
		points := got / stride
		dst.AppendRawUnchecked(r.scratch[:points*stride])
		done += points
		r.read += points
		if err != nil {
			return done, r.payloadErr(err)
		}
	}
	return done, nil
}

func (r *Reader) payloadErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrShortRead
	}
	return err
}

// ReadAll appends all remaining points to dst.
func (r *Reader) ReadAll(dst buffer.OwningBuffer) error {
	_, err := r.ReadInto(dst, -1)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Close releases decoder resources. It does not close the underlying reader.
func (r *Reader) Close() error {
	if r.decoder != nil {
		r.decoder.Close()
		r.decoder = nil
	}
	return nil
}

type header struct {
	layout      *layout.Layout
	codec       string
	compression Compression
	count       int
	offset      int
}

func readHeader(r io.Reader) (header, error) {
	var h header

	fixed := make([]byte, 7)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return h, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}
	if string(fixed[:4]) != magic {
		return h, fmt.Errorf("%w: bad magic %q", ErrMalformedHeader, fixed[:4])
	}
	if fixed[4] != version {
		return h, fmt.Errorf("%w: unsupported version %d", ErrMalformedHeader, fixed[4])
	}
	flags := fixed[5]
	if (flags&flagBigEndian != 0) != hostBigEndian {
		return h, ErrByteOrder
	}
	h.compression = Compression(flags & flagCompressionMask)
	if h.compression > CompressionLZ4 {
		return h, fmt.Errorf("%w: unknown compression %d", ErrMalformedHeader, h.compression)
	}

	name := make([]byte, fixed[6])
	if _, err := io.ReadFull(r, name); err != nil {
		return h, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}
	c, ok := codec.ByName(string(name))
	if !ok {
		return h, fmt.Errorf("%w: unknown codec %q", ErrMalformedHeader, name)
	}
	h.codec = c.Name()

	le := binary.LittleEndian
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return h, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}
	schemaLen, err := conv.Uint32ToInt(le.Uint32(lenBuf[:]))
	if err != nil || schemaLen > maxSchemaLen {
		return h, fmt.Errorf("%w: schema length %d", ErrMalformedHeader, le.Uint32(lenBuf[:]))
	}
	raw := make([]byte, schemaLen)
	if _, err := io.ReadFull(r, raw); err != nil {
		return h, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}
	var s layout.Schema
	if err := c.Unmarshal(raw, &s); err != nil {
		return h, fmt.Errorf("%w: schema: %w", ErrMalformedHeader, err)
	}
	h.layout, err = layout.FromSchema(s)
	if err != nil {
		return h, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}
	if h.layout.Size() == 0 || h.layout.Size() > maxPointSize {
		return h, fmt.Errorf("%w: point size %d", ErrMalformedHeader, h.layout.Size())
	}

	var countBuf [8]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return h, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}
	h.count, err = conv.Uint64ToInt(le.Uint64(countBuf[:]))
	if err != nil {
		return h, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}
	if _, err := conv.MulInt(h.count, h.layout.Size()); err != nil {
		return h, fmt.Errorf("%w: point count: %w", ErrMalformedHeader, err)
	}

	n := 7 + len(name) + 4 + schemaLen + 8
	h.offset = payloadOffset(n)
	if _, err := io.CopyN(io.Discard, r, int64(h.offset-n)); err != nil {
		return h, fmt.Errorf("%w: padding: %w", ErrMalformedHeader, err)
	}
	return h, nil
}

// ReadFile reads a whole file into a new interleaved buffer.
func ReadFile(path string, opts ...buffer.Option) (*buffer.VectorBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r, err := NewReader(f)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	// The count is only a hint until the payload backs it.
	b, err := buffer.NewVectorBuffer(r.Layout(), min(r.Count(), maxPreallocPoints), opts...)
	if err != nil {
		return nil, err
	}
	if err := r.ReadAll(b); err != nil {
		return nil, err
	}
	return b, nil
}
