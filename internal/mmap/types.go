package mmap

import "errors"

// AccessPattern is the madvise hint applied to a region.
type AccessPattern int

const (
	AccessDefault    AccessPattern = iota // no advice
	AccessSequential                      // points are scanned front to back
	AccessRandom                          // points are looked up by index
	AccessWillNeed                        // prefetch now
	AccessDontNeed                        // pages may be dropped
)

var (
	// ErrClosed is returned by operations on a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned for files that cannot be mapped as a whole.
	ErrInvalidSize = errors.New("mmap: invalid file size")
	// ErrOutOfBounds is returned for regions that extend past the mapping.
	ErrOutOfBounds = errors.New("mmap: region out of bounds")
	// ErrInvalidOffset is returned for negative offsets.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
)
