package pointbuf

import (
	"errors"
	"fmt"

	"github.com/hupe1980/pointbuf/buffer"
	"github.com/hupe1980/pointbuf/internal/mmap"
)

var (
	// ErrUnknownKind is returned by New for an unsupported buffer kind.
	ErrUnknownKind = errors.New("pointbuf: unknown buffer kind")
	// ErrReadOnly is returned when mutable access is requested from a read-only mapping.
	ErrReadOnly = errors.New("pointbuf: mapping is read-only")
	// ErrClosed is returned when a closed mapping is used.
	ErrClosed = mmap.ErrClosed
	// ErrEmptyLayout is returned for layouts without any bytes.
	ErrEmptyLayout = buffer.ErrEmptyLayout
	// ErrMisalignedMemory is returned when memory does not hold a whole number of points.
	ErrMisalignedMemory = buffer.ErrMisalignedMemory
)

// ErrInvalidOffset indicates a payload offset outside the mapped file.
type ErrInvalidOffset struct {
	Offset int
	Size   int
}

func (e *ErrInvalidOffset) Error() string {
	return fmt.Sprintf("pointbuf: offset %d outside file of %d bytes", e.Offset, e.Size)
}

func (e *ErrInvalidOffset) Unwrap() error { return mmap.ErrInvalidOffset }

// OpenError wraps a failure to map a point file.
//
// The original underlying error can be accessed via errors.Unwrap.
type OpenError struct {
	Path  string
	cause error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("pointbuf: open %s: %v", e.Path, e.cause)
}

func (e *OpenError) Unwrap() error { return e.cause }
