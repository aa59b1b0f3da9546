package bench

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/mirkobrombin/go-spinlocks/v1/lock"
	"github.com/mirkobrombin/go-spinlocks/v1/metrics"
)

var tracer = otel.Tracer("github.com/mirkobrombin/go-spinlocks/v1/bench")

// ctxCheckInterval is how many iterations a worker runs between checks of
// the run context.
const ctxCheckInterval = 1024

// Counter is the shared resource of a run. It is a plain integer and must
// only be touched while the run's lock is held.
type Counter struct {
	value int
}

// Result is the outcome of a single run.
type Result struct {
	RunID      string        `json:"run_id"`
	Variant    lock.Variant  `json:"variant"`
	Threads    int           `json:"threads"`
	Iterations int           `json:"iterations"`
	Observed   int           `json:"observed"`
	Expected   int           `json:"expected"`
	Started    time.Time     `json:"started"`
	Elapsed    time.Duration `json:"elapsed_ns"`
}

// OK reports whether the observed counter matches the expected value.
func (r Result) OK() bool {
	return r.Observed == r.Expected
}

// OpsPerSec returns guarded increments per second.
func (r Result) OpsPerSec() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Observed) / r.Elapsed.Seconds()
}

// Option configures a run.
type Option func(*runOptions)

type runOptions struct {
	instrument bool
}

// WithLockMetrics counts every Acquire and Release of the lock under test in
// metrics.AcquireCounter and metrics.ReleaseCounter. It adds overhead to the
// critical path and skews timings.
func WithLockMetrics() Option {
	return func(o *runOptions) { o.instrument = true }
}

// Run builds a fresh lock for cfg.Variant and benchmarks it.
func Run(ctx context.Context, cfg Config, opts ...Option) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	l, err := lock.New(cfg.Variant)
	if err != nil {
		return Result{}, err
	}
	return RunLock(ctx, l, cfg, opts...)
}

// RunLock benchmarks l. The lock is re-initialised before the workers start;
// cfg.Variant is only used to label the result.
//
// The returned error is non-nil only if the run could not complete: an
// invalid config, a worker that could not be spawned or a cancelled context.
// A counter mismatch is reported through Result.OK.
func RunLock(ctx context.Context, l lock.Lock, cfg Config, opts ...Option) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.instrument {
		l = lock.Instrument(l, cfg.Variant)
	}

	res := Result{
		RunID:      uuid.NewString(),
		Variant:    cfg.Variant,
		Threads:    cfg.Threads,
		Iterations: cfg.Iterations,
		Expected:   cfg.Expected(),
	}

	ctx, span := tracer.Start(ctx, "bench.Run", trace.WithAttributes(
		attribute.String("spinlocks.run_id", res.RunID),
		attribute.String("spinlocks.variant", cfg.Variant.String()),
		attribute.Int("spinlocks.threads", cfg.Threads),
		attribute.Int("spinlocks.iterations", cfg.Iterations),
	))
	defer span.End()

	l.Init()
	counter := &Counter{}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)
	if cfg.MaxWorkers > 0 {
		g.SetLimit(cfg.MaxWorkers)
	}

	// Workers park on start until every one of them has been spawned.
	start := make(chan struct{})
	for i := 0; i < cfg.Threads; i++ {
		spawned := g.TryGo(func() error {
			<-start
			return work(gctx, l, counter, cfg)
		})
		if !spawned {
			cancel()
			close(start)
			_ = g.Wait()
			err := fmt.Errorf("%w: worker %d of %d (limit %d)", ErrSpawnFailed, i+1, cfg.Threads, cfg.MaxWorkers)
			span.RecordError(err)
			return res, err
		}
	}

	res.Started = time.Now()
	close(start)
	err := g.Wait()
	res.Elapsed = time.Since(res.Started)
	if err != nil {
		span.RecordError(err)
		return res, err
	}
	res.Observed = counter.value

	span.SetAttributes(
		attribute.Int("spinlocks.observed", res.Observed),
		attribute.Bool("spinlocks.ok", res.OK()),
	)
	record(res)
	return res, nil
}

func work(ctx context.Context, l lock.Lock, c *Counter, cfg Config) error {
	if cfg.PinThreads {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}
	for i := 0; i < cfg.Iterations; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		l.Acquire()
		c.value++
		l.Release()
	}
	return nil
}

func record(r Result) {
	v := r.Variant.String()
	outcome := "ok"
	if !r.OK() {
		outcome = "violation"
	}
	metrics.RunCounter.WithLabelValues(v, outcome).Inc()
	metrics.RunDuration.WithLabelValues(v).Observe(r.Elapsed.Seconds())
	metrics.IncrementsCounter.WithLabelValues(v).Add(float64(r.Observed))
	metrics.ViolationGauge.WithLabelValues(v).Set(float64(r.Expected - r.Observed))
}
