package pointbuf

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/pointbuf/buffer"
	"github.com/hupe1980/pointbuf/layout"
)

// Kind selects the physical layout of an owning buffer.
type Kind uint8

const (
	// KindInterleaved stores each point contiguously (buffer.VectorBuffer).
	KindInterleaved Kind = iota
	// KindColumnar stores each attribute contiguously (buffer.HashMapBuffer).
	KindColumnar
)

func (k Kind) String() string {
	switch k {
	case KindInterleaved:
		return "interleaved"
	case KindColumnar:
		return "columnar"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind parses "interleaved" or "columnar".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "interleaved", "vector":
		return KindInterleaved, nil
	case "columnar", "hashmap":
		return KindColumnar, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// growthReporter forwards buffer reallocations to the logger and metrics.
type growthReporter struct {
	logger  *Logger
	metrics MetricsCollector
}

func (g growthReporter) OnGrow(storage string, oldBytes, newBytes int) {
	g.logger.LogGrow(context.Background(), storage, oldBytes, newBytes)
	g.metrics.RecordGrow(storage, oldBytes, newBytes)
}

// New creates an empty owning buffer of the given kind with room for
// capacity points. Reallocations are logged at debug level and reported to
// the metrics collector.
func New(kind Kind, l *layout.Layout, capacity int, opts ...Option) (buffer.OwningBuffer, error) {
	o := applyOptions(opts)
	logger := o.logger.WithKind(kind)

	reporter := buffer.WithGrowthObserver(growthReporter{logger: logger, metrics: o.metricsCollector})

	var (
		b   buffer.OwningBuffer
		err error
	)
	switch kind {
	case KindInterleaved:
		var vb *buffer.VectorBuffer
		if vb, err = buffer.NewVectorBuffer(l, capacity, reporter); err == nil {
			b = vb
		}
	case KindColumnar:
		var hb *buffer.HashMapBuffer
		if hb, err = buffer.NewHashMapBuffer(l, capacity, reporter); err == nil {
			b = hb
		}
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	if err != nil {
		logger.LogCreate(context.Background(), capacity, err)
		return nil, err
	}
	logger.WithLayout(l).LogCreate(context.Background(), capacity, nil)
	o.metricsCollector.RecordCreate(kind.String(), capacity)
	return b, nil
}

// FromMemory wraps caller memory holding interleaved points of layout l
// without copying. The result implements buffer.InterleavedBufferMut when
// mutable is true. The caller keeps data alive while the buffer is in use.
func FromMemory(data []byte, l *layout.Layout, mutable bool) (buffer.InterleavedBuffer, error) {
	if mutable {
		b, err := buffer.NewExternalMemoryBufferMut(data, l)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	b, err := buffer.NewExternalMemoryBuffer(data, l)
	if err != nil {
		return nil, err
	}
	return b, nil
}
