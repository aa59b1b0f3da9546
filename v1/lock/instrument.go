package lock

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mirkobrombin/go-spinlocks/v1/metrics"
)

// InstrumentOption configures an instrumented lock.
type InstrumentOption func(*instrumented)

// WithCounters overrides the acquire and release counter vectors. Both must
// have a single "variant" label.
func WithCounters(acquire, release *prometheus.CounterVec) InstrumentOption {
	return func(i *instrumented) {
		i.acquires = acquire.WithLabelValues(i.variant.String())
		i.releases = release.WithLabelValues(i.variant.String())
	}
}

type instrumented struct {
	Lock
	variant  Variant
	acquires prometheus.Counter
	releases prometheus.Counter
}

// Instrument wraps l so that every Acquire and Release is counted. By default
// the package-level collectors from the metrics package are used; they must be
// registered with metrics.RegisterLockMetrics to be exported.
func Instrument(l Lock, v Variant, opts ...InstrumentOption) Lock {
	i := &instrumented{
		Lock:     l,
		variant:  v,
		acquires: metrics.AcquireCounter.WithLabelValues(v.String()),
		releases: metrics.ReleaseCounter.WithLabelValues(v.String()),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *instrumented) Acquire() {
	i.Lock.Acquire()
	i.acquires.Inc()
}

func (i *instrumented) Release() {
	i.releases.Inc()
	i.Lock.Release()
}
