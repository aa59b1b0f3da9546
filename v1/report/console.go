package report

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mirkobrombin/go-spinlocks/v1/bench"
)

// Text writes results in the plain two-line form:
//
//	Testing Ticket Lock...
//	Result: 400000 (Expected: 400000)
type Text struct {
	mu sync.Mutex
	w  io.Writer
}

// NewText returns a Text sink writing to w.
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

// Publish implements Sink.
func (t *Text) Publish(_ context.Context, r bench.Result) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintf(t.w, "Testing %s...\nResult: %d (Expected: %d)\n\n", r.Variant.Title(), r.Observed, r.Expected)
	return err
}

// Table writes results as rows of a markdown table. The header is written
// before the first row.
type Table struct {
	mu     sync.Mutex
	w      io.Writer
	header bool
}

// NewTable returns a Table sink writing to w.
func NewTable(w io.Writer) *Table {
	return &Table{w: w}
}

// Publish implements Sink.
func (t *Table) Publish(_ context.Context, r bench.Result) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.header {
		if _, err := fmt.Fprintf(t.w, "| %-24s | %-7s | %-10s | %-10s | %-10s | %-4s | %-12s | %-12s |\n",
			"Lock", "Threads", "Iterations", "Observed", "Expected", "OK", "Elapsed", "Ops/sec"); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(t.w, "|:---|---:|---:|---:|---:|:---:|---:|---:|"); err != nil {
			return err
		}
		t.header = true
	}
	ok := "yes"
	if !r.OK() {
		ok = "NO"
	}
	_, err := fmt.Fprintf(t.w, "| %-24s | %-7d | %-10d | %-10d | %-10d | %-4s | %-12s | %-12.0f |\n",
		r.Variant.Title(), r.Threads, r.Iterations, r.Observed, r.Expected, ok, r.Elapsed.Round(time.Microsecond), r.OpsPerSec())
	return err
}
