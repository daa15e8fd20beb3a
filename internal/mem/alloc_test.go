package mem

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestAllocAligned(t *testing.T) {
	sizes := []int{1, 10, 17, 63, 64, 65, 100, 1024}

	for _, size := range sizes {
		buf := AllocAligned(size)
		assert.Len(t, buf, size)

		addr := uintptr(unsafe.Pointer(&buf[0]))
		assert.Equal(t, uintptr(0), addr%Alignment, "Address %d should be aligned to %d for size %d", addr, Alignment, size)
	}

	assert.Nil(t, AllocAligned(0))
	assert.Nil(t, AllocAligned(-1))
}

func TestAllocAlignedCap(t *testing.T) {
	buf := AllocAlignedCap(3, 17)
	assert.Len(t, buf, 3)
	assert.Equal(t, 17, cap(buf))
	assert.True(t, IsAligned(buf, Alignment))
}

func TestGrow(t *testing.T) {
	t.Run("within capacity zeroes the extension", func(t *testing.T) {
		buf := AllocAlignedCap(4, 16)
		copy(buf, []byte{1, 2, 3, 4})
		full := buf[:8]
		full[5] = 9 // stale byte beyond len

		grown, realloc := Grow(buf, 4)
		assert.False(t, realloc)
		assert.Equal(t, []byte{1, 2, 3, 4, 0, 0, 0, 0}, grown)
	})

	t.Run("reallocates aligned and keeps contents", func(t *testing.T) {
		buf := AllocAligned(4)
		copy(buf, []byte{1, 2, 3, 4})

		grown, realloc := Grow(buf, 60)
		assert.True(t, realloc)
		assert.Len(t, grown, 64)
		assert.Equal(t, []byte{1, 2, 3, 4}, grown[:4])
		assert.True(t, IsAligned(grown, Alignment))
	})

	t.Run("grows from nil", func(t *testing.T) {
		grown, realloc := Grow(nil, 17)
		assert.True(t, realloc)
		assert.Len(t, grown, 17)
	})
}

func TestReserve(t *testing.T) {
	buf := AllocAligned(2)
	buf[1] = 7
	res, realloc := Reserve(buf, 128)
	assert.True(t, realloc)
	assert.Len(t, res, 2)
	assert.GreaterOrEqual(t, cap(res), 128)
	assert.Equal(t, byte(7), res[1])

	_, realloc = Reserve(res, 64)
	assert.False(t, realloc)
}

func BenchmarkGrow(b *testing.B) {
	for i := 0; i < b.N; i++ {
		var buf []byte
		for j := 0; j < 1024; j++ {
			buf, _ = Grow(buf, 17)
		}
	}
}
