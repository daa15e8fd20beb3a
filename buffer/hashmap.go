package buffer

import (
	"fmt"

	"github.com/hupe1980/pointbuf/internal/mem"
	"github.com/hupe1980/pointbuf/layout"
)

type column struct {
	member layout.Member
	data   []byte
}

// HashMapBuffer is an owning, columnar buffer. Each attribute is stored in
// its own aligned region, looked up by attribute name. Values of one
// attribute are packed without gaps, so column i of point k starts at
// k*size.
//
// Thread safety: concurrent reads are safe; writes require external synchronization.
type HashMapBuffer struct {
	layout  *layout.Layout
	columns []column
	byName  map[string]int
	count   int
	gaps    bool // layout has bytes not covered by any member
	opts    options
}

var (
	_ OwningBuffer      = (*HashMapBuffer)(nil)
	_ ColumnarBufferMut = (*HashMapBuffer)(nil)
)

// NewHashMapBuffer creates an empty columnar buffer for l with room for
// capacity points. The layout is cloned.
func NewHashMapBuffer(l *layout.Layout, capacity int, opts ...Option) (*HashMapBuffer, error) {
	if l == nil || l.Size() == 0 {
		return nil, ErrEmptyLayout
	}
	b := &HashMapBuffer{
		layout:  l.Clone(),
		columns: make([]column, l.Len()),
		byName:  make(map[string]int, l.Len()),
		opts:    applyOptions(opts),
	}
	covered := 0
	for i, m := range b.layout.Members() {
		b.columns[i] = column{member: m}
		if capacity > 0 {
			b.columns[i].data = mem.AllocAlignedCap(0, byteLen(capacity, m.Size()))
		}
		b.byName[m.Name()] = i
		covered += m.Size()
	}
	b.gaps = covered != l.Size()
	return b, nil
}

func (b *HashMapBuffer) Len() int { return b.count }

func (b *HashMapBuffer) Layout() *layout.Layout { return b.layout }

// PointInto gathers point i from all columns. Padding bytes are zeroed.
func (b *HashMapBuffer) PointInto(i int, dst []byte) {
	b.checkIndex(i)
	if b.gaps {
		clear(dst[:b.layout.Size()])
	}
	for k := range b.columns {
		c := &b.columns[k]
		size := c.member.Size()
		copy(dst[c.member.Offset():c.member.End()], c.data[i*size:(i+1)*size])
	}
}

func (b *HashMapBuffer) PointRangeInto(start, end int, dst []byte) {
	stride := b.layout.Size()
	for i := start; i < end; i++ {
		b.PointInto(i, dst[(i-start)*stride:(i-start+1)*stride])
	}
}

func (b *HashMapBuffer) AttributeIntoUnchecked(m layout.Member, i int, dst []byte) {
	c := &b.columns[b.byName[m.Name()]]
	size := c.member.Size()
	copy(dst, c.data[i*size:(i+1)*size])
}

func (b *HashMapBuffer) SetPointUnchecked(i int, src []byte) {
	for k := range b.columns {
		c := &b.columns[k]
		size := c.member.Size()
		copy(c.data[i*size:(i+1)*size], src[c.member.Offset():c.member.End()])
	}
}

func (b *HashMapBuffer) SetPointRangeUnchecked(start, end int, src []byte) {
	stride := b.layout.Size()
	for i := start; i < end; i++ {
		b.SetPointUnchecked(i, src[(i-start)*stride:(i-start+1)*stride])
	}
}

func (b *HashMapBuffer) SetAttributeUnchecked(m layout.Member, i int, src []byte) {
	c := &b.columns[b.byName[m.Name()]]
	size := c.member.Size()
	copy(c.data[i*size:(i+1)*size], src)
}

func (b *HashMapBuffer) SetAttributeRangeUnchecked(m layout.Member, start, end int, src []byte) {
	c := &b.columns[b.byName[m.Name()]]
	size := c.member.Size()
	copy(c.data[start*size:end*size], src)
}

// Swap exchanges points i and j in every column.
func (b *HashMapBuffer) Swap(i, j int) {
	b.checkIndex(i)
	b.checkIndex(j)
	if i == j {
		return
	}
	for k := range b.columns {
		c := &b.columns[k]
		size := c.member.Size()
		x, y := c.data[i*size:(i+1)*size], c.data[j*size:(j+1)*size]
		for n := range x {
			x[n], y[n] = y[n], x[n]
		}
	}
}

// AttributeRef returns the bytes of attribute def of point i. Do not modify.
func (b *HashMapBuffer) AttributeRef(def layout.Definition, i int) []byte {
	b.checkIndex(i)
	c := b.column(def)
	size := c.member.Size()
	return c.data[i*size : (i+1)*size : (i+1)*size]
}

// AttributeRangeRef returns the packed values of def for points [start, end). Do not modify.
func (b *HashMapBuffer) AttributeRangeRef(def layout.Definition, start, end int) []byte {
	c := b.column(def)
	size := c.member.Size()
	return c.data[start*size : end*size : end*size]
}

// AttributeMut returns the mutable bytes of attribute def of point i.
func (b *HashMapBuffer) AttributeMut(def layout.Definition, i int) []byte {
	return b.AttributeRef(def, i)
}

// AttributeRangeMut returns the mutable packed values of def for points [start, end).
func (b *HashMapBuffer) AttributeRangeMut(def layout.Definition, start, end int) []byte {
	return b.AttributeRangeRef(def, start, end)
}

func (b *HashMapBuffer) column(def layout.Definition) *column {
	k, ok := b.byName[def.Name]
	if !ok || b.columns[k].member.Definition() != def {
		panic(fmt.Sprintf("buffer: attribute %s not in %s", def, b.layout))
	}
	return &b.columns[k]
}

func (b *HashMapBuffer) checkIndex(i int) {
	if uint(i) >= uint(b.count) {
		panic(fmt.Sprintf("buffer: point index %d out of range [0:%d]", i, b.count))
	}
}

// grow appends n zeroed values to every column and returns the index of the
// first new point.
func (b *HashMapBuffer) grow(n int) int {
	first := b.count
	for k := range b.columns {
		c := &b.columns[k]
		old := cap(c.data)
		var realloc bool
		c.data, realloc = mem.Grow(c.data, byteLen(n, c.member.Size()))
		if realloc {
			b.opts.grew("columnar", old, cap(c.data))
		}
	}
	b.count += n
	return first
}

// Reserve makes room for at least n points in total.
func (b *HashMapBuffer) Reserve(n int) {
	if n <= 0 {
		return
	}
	for k := range b.columns {
		c := &b.columns[k]
		old := cap(c.data)
		var realloc bool
		c.data, realloc = mem.Reserve(c.data, byteLen(n, c.member.Size()))
		if realloc {
			b.opts.grew("columnar", old, cap(c.data))
		}
	}
}

// AppendRawUnchecked splits interleaved points into the columns.
func (b *HashMapBuffer) AppendRawUnchecked(points []byte) {
	stride := b.layout.Size()
	n := len(points) / stride
	if n == 0 {
		return
	}
	first := b.grow(n)
	b.SetPointRangeUnchecked(first, first+n, points[:n*stride])
}

func (b *HashMapBuffer) Resize(n int) {
	switch {
	case n > b.count:
		b.grow(n - b.count)
	case n < b.count:
		for k := range b.columns {
			c := &b.columns[k]
			c.data = c.data[:n*c.member.Size()]
		}
		b.count = n
	}
}

func (b *HashMapBuffer) Clear() {
	b.Resize(0)
}

func (b *HashMapBuffer) AppendInterleavedUnchecked(src InterleavedBuffer) {
	if src.Len() == 0 {
		return
	}
	b.AppendRawUnchecked(src.PointRangeRef(0, src.Len()))
}

// AppendColumnarUnchecked copies whole columns from src.
func (b *HashMapBuffer) AppendColumnarUnchecked(src ColumnarBuffer) {
	n := src.Len()
	if n == 0 {
		return
	}
	first := b.grow(n)
	for k := range b.columns {
		c := &b.columns[k]
		size := c.member.Size()
		copy(c.data[first*size:], src.AttributeRangeRef(c.member.Definition(), 0, n))
	}
}

func (b *HashMapBuffer) AppendBufferUnchecked(src Buffer) {
	n := src.Len()
	if n == 0 {
		return
	}
	first := b.grow(n)
	for k := range b.columns {
		c := &b.columns[k]
		size := c.member.Size()
		for i := 0; i < n; i++ {
			off := (first + i) * size
			src.AttributeIntoUnchecked(c.member, i, c.data[off:off+size])
		}
	}
}
