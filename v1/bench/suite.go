package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mirkobrombin/go-spinlocks/v1/lock"
)

// Sink receives the result of every run performed by a Suite.
type Sink interface {
	Publish(ctx context.Context, r Result) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, r Result) error

// Publish implements Sink.
func (f SinkFunc) Publish(ctx context.Context, r Result) error { return f(ctx, r) }

// Suite runs the benchmark once per variant, in order.
type Suite struct {
	Threads    int
	Iterations int
	// Variants to run. Empty means lock.Variants().
	Variants   []lock.Variant
	PinThreads bool
	Sinks      []Sink
	Options    []Option
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// NewSuite returns a suite running every variant with the default shape.
func NewSuite(sinks ...Sink) *Suite {
	return &Suite{
		Threads:    DefaultThreads,
		Iterations: DefaultIterations,
		Sinks:      sinks,
	}
}

// Run executes the suite. It stops at the first run that fails to complete
// and returns the results gathered so far. Sink failures do not stop the
// suite; they are joined into the returned error.
func (s *Suite) Run(ctx context.Context) ([]Result, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	variants := append([]lock.Variant(nil), s.Variants...)
	if len(variants) == 0 {
		variants = lock.Variants()
	}

	results := make([]Result, 0, len(variants))
	var sinkErrs []error
	for _, v := range variants {
		cfg := Config{
			Variant:    v,
			Threads:    s.Threads,
			Iterations: s.Iterations,
			PinThreads: s.PinThreads,
		}
		logger.Debug("bench: starting run", "variant", v.String(), "threads", cfg.Threads, "iterations", cfg.Iterations)
		r, err := Run(ctx, cfg, s.Options...)
		if err != nil {
			return results, fmt.Errorf("%s: %w", v, err)
		}
		results = append(results, r)

		if r.OK() {
			logger.Info("bench: run finished", "variant", v.String(), "observed", r.Observed, "expected", r.Expected, "elapsed", r.Elapsed)
		} else {
			logger.Warn("bench: correctness violation", "variant", v.String(), "observed", r.Observed, "expected", r.Expected, "run_id", r.RunID)
		}

		for _, sink := range s.Sinks {
			if err := sink.Publish(ctx, r); err != nil {
				logger.Warn("bench: sink publish failed", "variant", v.String(), "error", err)
				sinkErrs = append(sinkErrs, err)
			}
		}
	}
	return results, errors.Join(sinkErrs...)
}

// AllOK reports whether every result matched its expected counter.
func AllOK(results []Result) bool {
	for _, r := range results {
		if !r.OK() {
			return false
		}
	}
	return true
}
