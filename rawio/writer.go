package rawio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/pointbuf/buffer"
	"github.com/hupe1980/pointbuf/internal/conv"
	"github.com/hupe1980/pointbuf/layout"
)

// Writer writes one buffer to an io.Writer.
//
// The point count is part of the header, so a Writer accepts exactly one
// WriteBuffer call. Close flushes the compressor; it does not close the
// underlying writer.
type Writer struct {
	w       io.Writer
	layout  *layout.Layout
	opts    options
	payload io.WriteCloser
	written bool
	closed  bool
}

// NewWriter creates a writer for buffers with layout l.
func NewWriter(w io.Writer, l *layout.Layout, opts ...Option) (*Writer, error) {
	if l == nil || l.Size() == 0 {
		return nil, buffer.ErrEmptyLayout
	}
	if l.Size() > maxPointSize {
		return nil, fmt.Errorf("rawio: point size %d exceeds %d", l.Size(), maxPointSize)
	}
	o := applyOptions(opts)
	if o.compression > CompressionLZ4 {
		return nil, fmt.Errorf("rawio: unsupported compression %s", o.compression)
	}
	return &Writer{w: w, layout: l.Clone(), opts: o}, nil
}

// WriteBuffer writes the header and all points of b. Only the baseline read
// surface of b is used; interleaved buffers are written without copying.
func (w *Writer) WriteBuffer(b buffer.Buffer) error {
	if w.written {
		return ErrAlreadyWritten
	}
	if !b.Layout().Equal(w.layout) {
		return fmt.Errorf("%w: %s vs %s", ErrLayoutMismatch, b.Layout(), w.layout)
	}
	w.written = true

	if err := w.start(b.Len()); err != nil {
		return err
	}

	n := b.Len()
	stride := w.layout.Size()
	chunk := w.opts.chunkPoints

	if ilv, ok := b.(buffer.InterleavedBuffer); ok {
		for start := 0; start < n; start += chunk {
			end := min(start+chunk, n)
			if _, err := w.payload.Write(ilv.PointRangeRef(start, end)); err != nil {
				return err
			}
		}
		return nil
	}

	scratch := make([]byte, min(chunk, n)*stride)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		p := scratch[:(end-start)*stride]
		b.PointRangeInto(start, end, p)
		if _, err := w.payload.Write(p); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes compressed output. A writer closed without WriteBuffer
// produces a valid file with zero points.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if !w.written {
		w.written = true
		if err := w.start(0); err != nil {
			return err
		}
	}
	if w.payload == nil {
		return nil
	}
	return w.payload.Close()
}

func (w *Writer) start(count int) error {
	header, err := encodeHeader(w.layout, count, w.opts)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(header); err != nil {
		return err
	}

	switch w.opts.compression {
	case CompressionZstd:
		enc, err := zstd.NewWriter(w.w, zstd.WithEncoderLevel(w.opts.zstdLevel))
		if err != nil {
			return err
		}
		w.payload = enc
	case CompressionLZ4:
		w.payload = lz4.NewWriter(w.w)
	default:
		w.payload = nopWriteCloser{w.w}
	}
	return nil
}

func encodeHeader(l *layout.Layout, count int, o options) ([]byte, error) {
	schema, err := o.codec.Marshal(l.Schema())
	if err != nil {
		return nil, fmt.Errorf("rawio: encode schema: %w", err)
	}
	schemaLen, err := conv.IntToUint32(len(schema))
	if err != nil {
		return nil, err
	}
	count64, err := conv.IntToUint64(count)
	if err != nil {
		return nil, err
	}
	name := o.codec.Name()
	if len(name) > 255 {
		return nil, fmt.Errorf("rawio: codec name %q too long", name)
	}

	flags := byte(o.compression) & flagCompressionMask
	if hostBigEndian {
		flags |= flagBigEndian
	}

	le := binary.LittleEndian
	buf := make([]byte, 0, payloadOffset(7+len(name)+4+len(schema)+8))
	buf = append(buf, magic...)
	buf = append(buf, version, flags, byte(len(name)))
	buf = append(buf, name...)
	buf = le.AppendUint32(buf, schemaLen)
	buf = append(buf, schema...)
	buf = le.AppendUint64(buf, count64)
	return buf[:payloadOffset(len(buf))], nil
}

// PayloadOffset returns the byte offset of the payload in a file written
// with the given layout and options. Readers report the same value.
func PayloadOffset(l *layout.Layout, opts ...Option) (int, error) {
	h, err := encodeHeader(l, 0, applyOptions(opts))
	if err != nil {
		return 0, err
	}
	return len(h), nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
