package buffer

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// gatherBatch is the number of points copied per append.
const gatherBatch = 256

// Gather appends the points of src selected by sel to dst, in ascending
// index order. Both buffers must have equal layouts and every selected index
// must be below src.Len().
func Gather(dst OwningBuffer, src Buffer, sel *roaring.Bitmap) error {
	if !dst.Layout().Equal(src.Layout()) {
		return fmt.Errorf("%w: %s vs %s", ErrLayoutMismatch, dst.Layout(), src.Layout())
	}
	if sel == nil || sel.IsEmpty() {
		return nil
	}
	if maxIdx := int(sel.Maximum()); maxIdx >= src.Len() {
		return fmt.Errorf("%w: selection contains %d, buffer has %d points", ErrIndexOutOfRange, maxIdx, src.Len())
	}

	stride := src.Layout().Size()
	ilv, interleaved := src.(InterleavedBuffer)

	batch := make([]byte, 0, gatherBatch*stride)
	it := sel.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		if interleaved {
			batch = append(batch, ilv.PointRef(i)...)
		} else {
			n := len(batch)
			batch = batch[:n+stride]
			src.PointInto(i, batch[n:])
		}
		if len(batch) == cap(batch) {
			dst.AppendRawUnchecked(batch)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		dst.AppendRawUnchecked(batch)
	}
	return nil
}

// Select returns the indices of all points of b for which keep returns true.
func Select(b Buffer, keep func(i int, point []byte) bool) *roaring.Bitmap {
	sel := roaring.New()
	point := make([]byte, b.Layout().Size())
	for i := 0; i < b.Len(); i++ {
		b.PointInto(i, point)
		if keep(i, point) {
			sel.Add(uint32(i)) //nolint:gosec // point counts fit in uint32 for selections
		}
	}
	return sel
}
