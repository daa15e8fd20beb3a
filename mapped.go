package pointbuf

import (
	"context"
	"time"

	"github.com/hupe1980/pointbuf/buffer"
	"github.com/hupe1980/pointbuf/internal/mmap"
	"github.com/hupe1980/pointbuf/layout"
)

// Mapped is a memory-mapped file of interleaved points. It is an external
// memory buffer over the mapping; the buffer and every reference obtained
// from it are invalid after Close.
type Mapped struct {
	buffer.InterleavedBuffer

	mut     *buffer.ExternalMemoryBufferMut // nil for read-only mappings
	mapping *mmap.Mapping
	region  *mmap.Region
	path    string
	logger  *Logger
}

// OpenMapped maps the file at path and exposes its points with layout l.
//
// The file, after the optional WithOffset header, must be a whole number of
// points. Mappings are read-only unless Writable is given.
func OpenMapped(path string, l *layout.Layout, opts ...Option) (*Mapped, error) {
	o := applyOptions(opts)
	logger := o.logger.WithPath(path)
	ctx := context.Background()

	start := time.Now()
	m, err := openMapped(path, l, o)
	size := 0
	if m != nil {
		size = m.region.Size()
	}
	o.metricsCollector.RecordMap(size, time.Since(start), err)
	if err != nil {
		logger.LogMap(ctx, 0, o.writable, err)
		return nil, err
	}
	m.logger = logger
	logger.LogMap(ctx, m.Len(), o.writable, nil)
	return m, nil
}

func openMapped(path string, l *layout.Layout, o options) (*Mapped, error) {
	var (
		mapping *mmap.Mapping
		err     error
	)
	if o.writable {
		mapping, err = mmap.OpenWritable(path)
	} else {
		mapping, err = mmap.Open(path)
	}
	if err != nil {
		return nil, &OpenError{Path: path, cause: err}
	}

	m, err := wrapMapping(mapping, l, o)
	if err != nil {
		_ = mapping.Close()
		return nil, &OpenError{Path: path, cause: err}
	}
	m.path = path
	return m, nil
}

func wrapMapping(mapping *mmap.Mapping, l *layout.Layout, o options) (*Mapped, error) {
	if o.offset < 0 || o.offset > mapping.Size() {
		return nil, &ErrInvalidOffset{Offset: o.offset, Size: mapping.Size()}
	}
	region, err := mapping.Region(o.offset, mapping.Size()-o.offset)
	if err != nil {
		return nil, err
	}
	if o.access != AccessDefault {
		if err := region.Advise(o.access); err != nil {
			return nil, err
		}
	}

	m := &Mapped{mapping: mapping, region: region}
	if o.writable {
		mut, err := buffer.NewExternalMemoryBufferMut(region.Bytes(), l)
		if err != nil {
			return nil, err
		}
		m.mut = mut
		m.InterleavedBuffer = mut
		return m, nil
	}
	ro, err := buffer.NewExternalMemoryBuffer(region.Bytes(), l)
	if err != nil {
		return nil, err
	}
	m.InterleavedBuffer = ro
	return m, nil
}

// Mut returns the mutable buffer of a writable mapping.
func (m *Mapped) Mut() (buffer.InterleavedBufferMut, error) {
	if m.mut == nil {
		return nil, ErrReadOnly
	}
	return m.mut, nil
}

// Path returns the mapped file path.
func (m *Mapped) Path() string { return m.path }

// Advise hints the kernel how the points will be read.
func (m *Mapped) Advise(p AccessPattern) error {
	return m.region.Advise(p)
}

// Close unmaps the file. It is idempotent.
func (m *Mapped) Close() error {
	err := m.mapping.Close()
	if m.logger != nil {
		m.logger.LogUnmap(context.Background(), err)
	}
	return err
}
