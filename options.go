package pointbuf

import (
	"log/slog"

	"github.com/hupe1980/pointbuf/internal/mmap"
)

// AccessPattern hints the kernel how mapped memory will be read.
type AccessPattern = mmap.AccessPattern

// Access patterns for WithAccessPattern and (*Mapped).Advise.
const (
	AccessDefault    = mmap.AccessDefault
	AccessSequential = mmap.AccessSequential
	AccessRandom     = mmap.AccessRandom
	AccessWillNeed   = mmap.AccessWillNeed
	AccessDontNeed   = mmap.AccessDontNeed
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	offset           int
	writable         bool
	access           AccessPattern
}

// Option configures New and OpenMapped.
type Option func(*options)

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &pointbuf.BasicMetricsCollector{}
//	buf, _ := pointbuf.New(pointbuf.KindColumnar, l, 0, pointbuf.WithMetricsCollector(metrics))
//	// ... use buf ...
//	stats := metrics.GetStats()
//	fmt.Printf("Reallocations: %d\n", stats.GrowCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithOffset skips the first n bytes of a mapped file, e.g. a file header.
func WithOffset(n int) Option {
	return func(o *options) {
		o.offset = n
	}
}

// Writable maps the file read-write. Writes through the buffer go straight
// to the file.
func Writable() Option {
	return func(o *options) {
		o.writable = true
	}
}

// WithAccessPattern advises the kernel right after mapping.
func WithAccessPattern(p AccessPattern) Option {
	return func(o *options) {
		o.access = p
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
