package arrowconv

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hupe1980/pointbuf/buffer"
	"github.com/hupe1980/pointbuf/layout"
)

// WriteStream writes b as one record batch in the Arrow IPC stream format.
// Set zstd to compress the record body.
func WriteStream(w io.Writer, b buffer.Buffer, zstd bool) error {
	alloc := memory.NewGoAllocator()
	rec, err := ToRecord(b, alloc)
	if err != nil {
		return err
	}
	defer rec.Release()

	opts := []ipc.Option{ipc.WithSchema(rec.Schema()), ipc.WithAllocator(alloc)}
	if zstd {
		opts = append(opts, ipc.WithZstd())
	}
	iw := ipc.NewWriter(w, opts...)
	if err := iw.Write(rec); err != nil {
		_ = iw.Close()
		return err
	}
	return iw.Close()
}

// ReadStream reads every record batch of an Arrow IPC stream into a new
// interleaved buffer whose layout is derived from the stream schema.
func ReadStream(r io.Reader, rule layout.PackingRule) (*buffer.VectorBuffer, error) {
	ir, err := ipc.NewReader(r, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, err
	}
	defer ir.Release()

	l, err := LayoutOf(ir.Schema(), rule)
	if err != nil {
		return nil, err
	}
	b, err := buffer.NewVectorBuffer(l, 0)
	if err != nil {
		return nil, err
	}
	for ir.Next() {
		if err := FromRecord(ir.Record(), b); err != nil {
			return nil, err
		}
	}
	if err := ir.Err(); err != nil {
		return nil, err
	}
	return b, nil
}
