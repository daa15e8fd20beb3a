// Package mem provides aligned byte allocation for point storage.
//
// # Aligned Allocation
//
// Owning buffers keep their regions 64-byte aligned so that typed references
// into them (*T, []T) satisfy the alignment of every supported primitive and
// vector type, independent of where the Go allocator places the backing array.
package mem
