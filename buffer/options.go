package buffer

// GrowthObserver is notified whenever an owning buffer reallocates storage.
// kind is "interleaved" or "columnar"; sizes are capacities in bytes.
type GrowthObserver interface {
	OnGrow(kind string, oldBytes, newBytes int)
}

// GrowthObserverFunc adapts a function to GrowthObserver.
type GrowthObserverFunc func(kind string, oldBytes, newBytes int)

// OnGrow implements GrowthObserver.
func (f GrowthObserverFunc) OnGrow(kind string, oldBytes, newBytes int) { f(kind, oldBytes, newBytes) }

type options struct {
	observer GrowthObserver
}

// Option configures an owning buffer.
type Option func(*options)

// WithGrowthObserver reports storage reallocations to o.
func WithGrowthObserver(o GrowthObserver) Option {
	return func(opts *options) {
		opts.observer = o
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) grew(kind string, oldBytes, newBytes int) {
	if o.observer != nil {
		o.observer.OnGrow(kind, oldBytes, newBytes)
	}
}
