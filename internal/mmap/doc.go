// Package mmap maps files into memory so their contents can be interpreted
// as point data without copying.
//
// # Usage
//
//	m, err := mmap.Open("points.bin")
//	if err != nil { ... }
//	defer m.Close()
//
//	// Skip a file header and view the payload only
//	region, _ := m.Region(headerSize, m.Size()-headerSize)
//	payload := region.Bytes()
//
//	m.Advise(mmap.AccessSequential)
//
// OpenWritable creates a shared read-write mapping; stores into Bytes() are
// written back to the file by the kernel.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) and madvise(2) via golang.org/x/sys/unix
//   - Windows: CreateFileMapping/MapViewOfFile via golang.org/x/sys/windows
//     (Advise is a no-op)
//
// # Lifetime
//
// A Mapping owns the mapped memory. Close is idempotent. Slices obtained from
// Bytes() or a Region must not be used after Close returns.
package mmap
