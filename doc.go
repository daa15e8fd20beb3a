// Package pointbuf is an in-memory engine for point clouds whose attributes,
// datatypes and byte layout are only known at runtime.
//
// # Quick Start
//
//	l := layout.MustNew(layout.Aligned, layout.Position3D, layout.Intensity, layout.Classification)
//	l.PadToAlignment()
//
//	buf, _ := pointbuf.New(pointbuf.KindInterleaved, l, 1024,
//	    pointbuf.WithLogger(pointbuf.NewTextLogger(slog.LevelDebug)))
//
//	type Point struct {
//	    Position       [3]float64 `point:"Position3D"`
//	    Intensity      uint16     `point:"Intensity"`
//	    Classification uint8      `point:"Classification"`
//	    _              [5]byte
//	}
//	buf.Resize(1)
//	pts, _ := view.PointsMut[Point](buf)
//	pts.Set(0, Point{Position: [3]float64{1, 2, 3}, Intensity: 42})
//
// # Packages
//
//   - layout: datatypes, attribute definitions, layouts, conversions, schemas
//   - buffer: capability interfaces, built-in buffers, slices, bulk helpers
//   - view: typed point and attribute views
//   - rawio: a minimal binary reader/writer with optional compression
//   - arrowconv: Apache Arrow interop
//   - prommetrics: Prometheus metrics for this package
//
// # Foreign Memory
//
// FromMemory wraps caller memory without copying; OpenMapped memory-maps a
// file of interleaved points:
//
//	m, _ := pointbuf.OpenMapped("points.bin", l, pointbuf.WithAccessPattern(pointbuf.AccessSequential))
//	defer m.Close()
//	refs, _ := view.PointRefs[Point](m)
package pointbuf
