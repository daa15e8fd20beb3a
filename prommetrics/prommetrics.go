// Package prommetrics exports pointbuf metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	mc, _ := prommetrics.New(reg)
//	buf, _ := pointbuf.New(pointbuf.KindColumnar, l, 0, pointbuf.WithMetricsCollector(mc))
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/pointbuf"
)

// Collector implements pointbuf.MetricsCollector with Prometheus metrics.
type Collector struct {
	buffersCreated *prometheus.CounterVec
	growths        *prometheus.CounterVec
	grownBytes     *prometheus.CounterVec
	mapLatency     *prometheus.HistogramVec
	mappedBytes    prometheus.Counter
}

var _ pointbuf.MetricsCollector = (*Collector)(nil)

// New creates a collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		buffersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pointbuf_buffers_created_total",
			Help: "Owning buffers created, by kind",
		}, []string{"kind"}),
		growths: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pointbuf_storage_growths_total",
			Help: "Storage reallocations, by storage type",
		}, []string{"storage"}),
		grownBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pointbuf_storage_grown_bytes_total",
			Help: "Bytes added to buffer capacity by reallocations",
		}, []string{"storage"}),
		mapLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pointbuf_map_duration_seconds",
			Help:    "Latency of mapping point files",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		mappedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pointbuf_mapped_bytes_total",
			Help: "Point payload bytes mapped",
		}),
	}

	for _, m := range []prometheus.Collector{c.buffersCreated, c.growths, c.grownBytes, c.mapLatency, c.mappedBytes} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordCreate implements pointbuf.MetricsCollector.
func (c *Collector) RecordCreate(kind string, _ int) {
	c.buffersCreated.WithLabelValues(kind).Inc()
}

// RecordGrow implements pointbuf.MetricsCollector.
func (c *Collector) RecordGrow(storage string, oldBytes, newBytes int) {
	c.growths.WithLabelValues(storage).Inc()
	if newBytes > oldBytes {
		c.grownBytes.WithLabelValues(storage).Add(float64(newBytes - oldBytes))
	}
}

// RecordMap implements pointbuf.MetricsCollector.
func (c *Collector) RecordMap(bytes int, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.mapLatency.WithLabelValues(status).Observe(d.Seconds())
	if err == nil {
		c.mappedBytes.Add(float64(bytes))
	}
}
