package report

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/dgraph-io/ristretto"

	"github.com/mirkobrombin/go-spinlocks/v1/bench"
)

// DefaultHistorySize is the number of runs kept by NewHistory(0).
const DefaultHistorySize = 1024

// History keeps a bounded set of recent results addressable by run ID.
// When full, ristretto's admission policy decides which runs are evicted.
type History struct {
	cache  *ristretto.Cache
	closed atomic.Bool
}

// NewHistory returns a History holding up to size runs. A non-positive size
// selects DefaultHistorySize.
func NewHistory(size int64) (*History, error) {
	if size <= 0 {
		size = DefaultHistorySize
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        size * 10,
		MaxCost:            size,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &History{cache: c}, nil
}

// Publish implements Sink. The result is visible to Get when Publish returns.
func (h *History) Publish(ctx context.Context, r bench.Result) error {
	if h.closed.Load() {
		return ErrSinkClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	h.cache.Set(r.RunID, r, 1)
	h.cache.Wait()
	return nil
}

// Get returns the result of run id.
func (h *History) Get(id string) (bench.Result, bool) {
	if h.closed.Load() {
		return bench.Result{}, false
	}
	v, ok := h.cache.Get(id)
	if !ok {
		return bench.Result{}, false
	}
	r, ok := v.(bench.Result)
	return r, ok
}

// Handler serves the result whose run ID is given in the "id" query
// parameter as JSON.
func (h *History) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "missing id", http.StatusBadRequest)
			return
		}
		res, ok := h.Get(id)
		if !ok {
			http.Error(w, "unknown run", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	}
}

// Close releases the cache. Further publishes fail with ErrSinkClosed.
func (h *History) Close() {
	if h.closed.CompareAndSwap(false, true) {
		h.cache.Close()
	}
}
