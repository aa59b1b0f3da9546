package bench

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/mirkobrombin/go-spinlocks/v1/lock"
)

type collector struct {
	mu      sync.Mutex
	results []Result
}

func (c *collector) Publish(_ context.Context, r Result) error {
	c.mu.Lock()
	c.results = append(c.results, r)
	c.mu.Unlock()
	return nil
}

func TestSuiteRunsEveryVariantInOrder(t *testing.T) {
	var logs bytes.Buffer
	c := &collector{}
	s := NewSuite(c)
	s.Threads, s.Iterations = 4, 2000
	s.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	results, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("suite: %v", err)
	}
	want := lock.Variants()
	if len(results) != len(want) || len(c.results) != len(want) {
		t.Fatalf("expected %d results, got %d (sink %d)", len(want), len(results), len(c.results))
	}
	for i, r := range results {
		if r.Variant != want[i] {
			t.Fatalf("result %d is %v, want %v", i, r.Variant, want[i])
		}
		if c.results[i].RunID != r.RunID {
			t.Fatalf("sink saw run %s, want %s", c.results[i].RunID, r.RunID)
		}
	}
	if !AllOK(results) {
		t.Fatalf("violation in %+v", results)
	}
	if strings.Count(logs.String(), "run finished") != len(want) {
		t.Fatalf("unexpected logs:\n%s", logs.String())
	}
}

func TestSuiteSelectedVariants(t *testing.T) {
	s := &Suite{Threads: 2, Iterations: 100, Variants: []lock.Variant{lock.Queue, lock.Ticket}}
	results, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("suite: %v", err)
	}
	if len(results) != 2 || results[0].Variant != lock.Queue || results[1].Variant != lock.Ticket {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestSuiteSinkErrorsDoNotStopRuns(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	failing := SinkFunc(func(context.Context, Result) error {
		calls++
		return boom
	})
	c := &collector{}
	s := &Suite{Threads: 1, Iterations: 10, Sinks: []Sink{failing, c}}
	results, err := s.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined sink error, got %v", err)
	}
	if len(results) != 5 || calls != 5 || len(c.results) != 5 {
		t.Fatalf("results %d calls %d collected %d", len(results), calls, len(c.results))
	}
}

func TestSuiteStopsOnRunError(t *testing.T) {
	s := &Suite{Threads: 0, Iterations: 10}
	results, err := s.Run(context.Background())
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestAllOK(t *testing.T) {
	if !AllOK(nil) {
		t.Fatal("empty set is ok")
	}
	if AllOK([]Result{{Observed: 1, Expected: 1}, {Observed: 1, Expected: 2}}) {
		t.Fatal("mismatch not detected")
	}
}
