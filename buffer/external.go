package buffer

import (
	"github.com/hupe1980/pointbuf/layout"
)

// ExternalMemoryBuffer is a read-only interleaved view over memory owned by
// the caller, such as a memory-mapped file. It never copies or frees the
// memory; the caller keeps it alive and unchanged while the buffer is used.
type ExternalMemoryBuffer struct {
	memory
}

var _ InterleavedBuffer = (*ExternalMemoryBuffer)(nil)

// NewExternalMemoryBuffer wraps data, which must hold a whole number of
// points of layout l. The layout is cloned.
func NewExternalMemoryBuffer(data []byte, l *layout.Layout) (*ExternalMemoryBuffer, error) {
	m, err := wrapMemory(data, l)
	if err != nil {
		return nil, err
	}
	return &ExternalMemoryBuffer{memory: m}, nil
}

// ExternalMemoryBufferMut is the mutable variant of ExternalMemoryBuffer.
// Writes go straight to the caller's memory. The number of points is fixed.
type ExternalMemoryBufferMut struct {
	memoryMut
}

var _ InterleavedBufferMut = (*ExternalMemoryBufferMut)(nil)

// NewExternalMemoryBufferMut wraps data for reading and writing.
func NewExternalMemoryBufferMut(data []byte, l *layout.Layout) (*ExternalMemoryBufferMut, error) {
	m, err := wrapMemory(data, l)
	if err != nil {
		return nil, err
	}
	return &ExternalMemoryBufferMut{memoryMut: memoryMut{memory: m}}, nil
}

func wrapMemory(data []byte, l *layout.Layout) (memory, error) {
	if l == nil || l.Size() == 0 {
		return memory{}, ErrEmptyLayout
	}
	if len(data)%l.Size() != 0 {
		return memory{}, ErrMisalignedMemory
	}
	return memory{
		layout: l.Clone(),
		stride: l.Size(),
		data:   data[:len(data):len(data)],
		count:  len(data) / l.Size(),
	}, nil
}
