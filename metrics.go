package pointbuf

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; package
// prommetrics provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordCreate is called after an owning buffer has been created.
	// kind is the buffer kind, capacity the initial capacity in points.
	RecordCreate(kind string, capacity int)

	// RecordGrow is called whenever buffer storage is reallocated.
	// storage is "interleaved" or "columnar"; sizes are capacities in bytes.
	RecordGrow(storage string, oldBytes, newBytes int)

	// RecordMap is called after each OpenMapped call.
	// bytes is the mapped payload size, err is nil if successful.
	RecordMap(bytes int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCreate(string, int)            {}
func (NoopMetricsCollector) RecordGrow(string, int, int)         {}
func (NoopMetricsCollector) RecordMap(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CreateCount   atomic.Int64
	GrowCount     atomic.Int64
	GrownBytes    atomic.Int64
	MapCount      atomic.Int64
	MapErrors     atomic.Int64
	MappedBytes   atomic.Int64
	MapTotalNanos atomic.Int64
}

// RecordCreate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCreate(string, int) {
	b.CreateCount.Add(1)
}

// RecordGrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGrow(_ string, oldBytes, newBytes int) {
	b.GrowCount.Add(1)
	b.GrownBytes.Add(int64(newBytes - oldBytes))
}

// RecordMap implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMap(bytes int, duration time.Duration, err error) {
	b.MapCount.Add(1)
	b.MapTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.MapErrors.Add(1)
		return
	}
	b.MappedBytes.Add(int64(bytes))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CreateCount: b.CreateCount.Load(),
		GrowCount:   b.GrowCount.Load(),
		GrownBytes:  b.GrownBytes.Load(),
		MapCount:    b.MapCount.Load(),
		MapErrors:   b.MapErrors.Load(),
		MappedBytes: b.MappedBytes.Load(),
		MapAvgNanos: b.getAvgMapNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgMapNanos() int64 {
	count := b.MapCount.Load()
	if count == 0 {
		return 0
	}
	return b.MapTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CreateCount int64
	GrowCount   int64
	GrownBytes  int64
	MapCount    int64
	MapErrors   int64
	MappedBytes int64
	MapAvgNanos int64
}
