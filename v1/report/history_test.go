package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mirkobrombin/go-spinlocks/v1/bench"
	"github.com/mirkobrombin/go-spinlocks/v1/lock"
)

func TestHistoryStoresByRunID(t *testing.T) {
	h, err := NewHistory(0)
	if err != nil {
		t.Fatalf("new history: %v", err)
	}
	defer h.Close()
	r := sample(lock.Ticket, 400000)
	if err := h.Publish(context.Background(), r); err != nil {
		t.Fatalf("publish: %v", err)
	}
	got, ok := h.Get(r.RunID)
	if !ok {
		t.Fatal("result not found")
	}
	if got.RunID != r.RunID || got.Observed != r.Observed {
		t.Fatalf("got %+v want %+v", got, r)
	}
	if _, ok := h.Get("missing"); ok {
		t.Fatal("unexpected hit for unknown run")
	}
}

func TestHistoryClosed(t *testing.T) {
	h, err := NewHistory(4)
	if err != nil {
		t.Fatalf("new history: %v", err)
	}
	h.Close()
	h.Close()
	if err := h.Publish(context.Background(), sample(lock.CAS, 1)); !errors.Is(err, ErrSinkClosed) {
		t.Fatalf("expected ErrSinkClosed, got %v", err)
	}
}

func TestHistoryHandler(t *testing.T) {
	h, err := NewHistory(8)
	if err != nil {
		t.Fatalf("new history: %v", err)
	}
	defer h.Close()
	r := sample(lock.Queue, 400000)
	_ = h.Publish(context.Background(), r)

	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "?id=" + r.RunID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var got bench.Result
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.RunID != r.RunID || got.Variant != lock.Queue {
		t.Fatalf("got %+v", got)
	}

	for query, status := range map[string]int{"": http.StatusBadRequest, "?id=nope": http.StatusNotFound} {
		resp, err := http.Get(srv.URL + query)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != status {
			t.Fatalf("%q: expected %d got %d", query, status, resp.StatusCode)
		}
	}
}
