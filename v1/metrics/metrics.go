package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// AcquireCounter tracks lock acquisitions per variant.
	AcquireCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spinlocks_acquire_total",
		Help: "Total number of lock acquisitions",
	}, []string{"variant"})
	// ReleaseCounter tracks lock releases per variant.
	ReleaseCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spinlocks_release_total",
		Help: "Total number of lock releases",
	}, []string{"variant"})
	// RunCounter tracks completed benchmark runs by outcome (ok or violation).
	RunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spinlocks_runs_total",
		Help: "Total number of completed benchmark runs",
	}, []string{"variant", "outcome"})
	// IncrementsCounter tracks guarded counter increments observed by runs.
	IncrementsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spinlocks_increments_total",
		Help: "Total number of guarded counter increments",
	}, []string{"variant"})
	// RunDuration observes the wall-clock duration of benchmark runs.
	RunDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spinlocks_run_duration_seconds",
		Help:    "Wall-clock duration of benchmark runs",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
	}, []string{"variant"})
	// ViolationGauge reports Expected - Observed of the latest run. It is
	// signed: lost updates give a positive value.
	ViolationGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "spinlocks_last_run_drift",
		Help: "Expected minus observed counter in the latest run (signed)",
	}, []string{"variant"})
)

// NewRegistry creates a new Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// RegisterLockMetrics registers the lock and benchmark collectors on the
// provided registry. It panics if they are already registered.
func RegisterLockMetrics(reg prometheus.Registerer) {
	reg.MustRegister(AcquireCounter, ReleaseCounter, RunCounter, IncrementsCounter, RunDuration, ViolationGauge)
}
