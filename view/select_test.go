package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pointbuf/buffer"
	"github.com/hupe1980/pointbuf/layout"
)

func TestWhereGather(t *testing.T) {
	src := newHashMap(t, 20)
	intensity, err := Attribute[uint16](src, layout.Intensity)
	require.NoError(t, err)

	sel := Where[uint16](intensity, func(v uint16) bool { return v >= 150 })
	assert.Equal(t, []uint32{15, 16, 17, 18, 19}, sel.ToArray())

	dst, err := buffer.NewVectorBuffer(lasLayout, 0)
	require.NoError(t, err)
	require.NoError(t, buffer.Gather(dst, src, sel))

	pts, err := Points[lasPoint](dst)
	require.NoError(t, err)
	require.Equal(t, 5, pts.Len())
	assert.Equal(t, samplePoint(17), pts.At(2))
}

func TestSortBy(t *testing.T) {
	for _, k := range mutKinds {
		t.Run(k.name, func(t *testing.T) {
			b := k.new(t, 8)
			pts, err := PointsMut[lasPoint](b)
			require.NoError(t, err)
			// Descending intensities, with a tie between points 2 and 3.
			for i := 0; i < 8; i++ {
				p := samplePoint(i)
				p.Intensity = uint16(100 - i*10)
				pts.Set(i, p)
			}
			p := pts.At(3)
			p.Intensity = 80
			pts.Set(3, p)

			require.NoError(t, SortBy[uint16](b, layout.Intensity))

			var prev uint16
			for i, p := range pts.All() {
				assert.GreaterOrEqual(t, p.Intensity, prev, "index %d", i)
				prev = p.Intensity
			}
			// Stable: point 2 stays ahead of point 3.
			assert.Equal(t, samplePoint(2).Position, pts.At(4).Position)
			assert.Equal(t, samplePoint(3).Position, pts.At(5).Position)
		})
	}
}

func TestSortByFloat(t *testing.T) {
	gps := layout.MustNew(layout.Aligned, layout.GpsTime, layout.Intensity)
	hm, err := buffer.NewHashMapBuffer(gps, 0)
	require.NoError(t, err)
	hm.Resize(4)
	times, err := AttributeMut[float64](hm, layout.GpsTime)
	require.NoError(t, err)
	for i, v := range []float64{3.5, -1, 2, 0} {
		times.Set(i, v)
	}

	require.NoError(t, SortBy[float64](hm, layout.GpsTime))
	var got []float64
	for _, v := range times.All() {
		got = append(got, v)
	}
	assert.Equal(t, []float64{-1, 0, 2, 3.5}, got)

	assert.ErrorIs(t, SortBy[float64](hm, layout.Position3D), ErrAttributeNotFound)
}
