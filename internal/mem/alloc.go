package mem

import (
	"unsafe"
)

// Alignment is the byte alignment of every region returned by this package.
const Alignment = 64

// AllocAligned allocates a zeroed byte slice of the given size with 64-byte alignment.
// The returned slice is guaranteed to start at a memory address divisible by 64.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	return AllocAlignedCap(size, size)
}

// AllocAlignedCap allocates a zeroed, 64-byte aligned slice with the given
// length and capacity. The capacity is clamped to at least the length.
func AllocAlignedCap(length, capacity int) []byte {
	if capacity < length {
		capacity = length
	}
	if capacity <= 0 {
		return nil
	}

	buf := make([]byte, capacity+Alignment)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	offset := int((Alignment - (addr & (Alignment - 1))) & (Alignment - 1))

	return buf[offset : offset+length : offset+capacity]
}

// Grow extends buf by n zeroed bytes. When the capacity is insufficient a new
// aligned region is allocated (at least doubling) and the old contents copied.
// The second result reports whether a reallocation happened; references into
// the old region are stale in that case.
func Grow(buf []byte, n int) ([]byte, bool) {
	if n <= 0 {
		return buf, false
	}
	newLen := len(buf) + n
	if newLen <= cap(buf) {
		grown := buf[:newLen]
		clear(grown[len(buf):])
		return grown, false
	}

	newCap := 2 * cap(buf)
	if newCap < newLen {
		newCap = newLen
	}
	grown := AllocAlignedCap(newLen, newCap)
	copy(grown, buf)
	return grown, true
}

// Reserve makes sure buf can hold capacity bytes without another allocation.
func Reserve(buf []byte, capacity int) ([]byte, bool) {
	if capacity <= cap(buf) {
		return buf, false
	}
	grown := AllocAlignedCap(len(buf), capacity)
	copy(grown, buf)
	return grown, true
}

// IsAligned reports whether the first byte of b is aligned to align bytes.
// Empty slices are considered aligned.
func IsAligned(b []byte, align uintptr) bool {
	if len(b) == 0 || align <= 1 {
		return true
	}
	return uintptr(unsafe.Pointer(&b[0]))%align == 0 //nolint:gosec // address inspection only
}
