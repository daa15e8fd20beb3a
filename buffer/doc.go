// Package buffer stores points described by a runtime layout.
//
// # Capabilities
//
// What a buffer can do is expressed by a small set of flat interfaces that
// concrete types implement selectively. Two axes compose independently:
//
//	Ownership                      Physical layout
//	---------------------------    ------------------------------------------
//	Buffer        copy-out reads   (baseline) copy access only
//	BufferMut     + copy-in, Swap  InterleavedBuffer(Mut)  whole-point refs
//	OwningBuffer  + resize/append  ColumnarBuffer(Mut)     attribute-column refs
//
// Every buffer implements the baseline read surface: Len, Layout, PointInto,
// PointRangeInto and AttributeIntoUnchecked. All checked helpers in this
// package and every view in package view are built on that surface alone, so
// a new buffer type becomes fully usable by implementing just those methods.
//
// # Built-in buffers
//
//	Type                     Ownership           Layout       Storage
//	-----------------------  ------------------  -----------  ----------------------------
//	VectorBuffer             owning              interleaved  one aligned growable region
//	HashMapBuffer            owning              columnar     one region per attribute
//	ExternalMemoryBuffer     borrowed, read-only interleaved  caller memory
//	ExternalMemoryBufferMut  borrowed, mutable   interleaved  caller memory
//
// # Unchecked methods
//
// Methods whose name ends in Unchecked do not validate their arguments: the
// caller guarantees that members belong to the buffer's own layout, that
// indices are in range and that byte slices have the exact size. Violating the
// contract corrupts data or panics. Use the checked helpers (ReadAttribute,
// WriteAttribute, Append, ...) or typed views unless the arguments are known
// to be valid.
//
// # References and growth
//
// Ref and Mut accessors return slices aliasing buffer memory. Ref results must
// not be modified. Any Resize, Append* or Clear on an owning buffer may
// reallocate and leaves previously returned references stale.
//
// # Concurrency
//
// Buffers do no locking. Any number of readers may share a buffer; a writer
// needs exclusive access to the points it touches. Disjoint slices (see
// ForEachChunkMut) can be mutated from different goroutines.
package buffer
