package buffer

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ChunkFunc processes the points [start, start+chunk.Len()) of a buffer.
type ChunkFunc func(ctx context.Context, start int, chunk Buffer) error

// ChunkMutFunc is the mutable form of ChunkFunc.
type ChunkMutFunc func(ctx context.Context, start int, chunk BufferMut) error

// ForEachChunk splits b into slices of at most chunkLen points and runs fn on
// them concurrently, with at most limit goroutines (limit <= 0 means no
// limit). The first error cancels the context passed to the remaining calls
// and is returned.
func ForEachChunk(ctx context.Context, b Buffer, chunkLen, limit int, fn ChunkFunc) error {
	if chunkLen <= 0 {
		chunkLen = b.Len()
	}
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for start := 0; start < b.Len(); start += chunkLen {
		chunk := Slice(b, start, min(start+chunkLen, b.Len()))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, start, chunk)
		})
	}
	return g.Wait()
}

// ForEachChunkMut is like ForEachChunk but hands out disjoint mutable
// slices, so fn may write to its chunk without further synchronization.
func ForEachChunkMut(ctx context.Context, b BufferMut, chunkLen, limit int, fn ChunkMutFunc) error {
	if chunkLen <= 0 {
		chunkLen = b.Len()
	}
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for start := 0; start < b.Len(); start += chunkLen {
		chunk := SliceMut(b, start, min(start+chunkLen, b.Len()))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, start, chunk)
		})
	}
	return g.Wait()
}
