package report

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/mirkobrombin/go-spinlocks/v1/bench"
)

// allVariants is the watch key of clients that want every result.
const allVariants = ""

// Hub fans results out to live watchers. Slow watchers miss results rather
// than block the suite.
type Hub struct {
	mu     sync.Mutex
	subs   map[string][]chan []byte
	closed bool
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string][]chan []byte)}
}

// Publish implements Sink. The JSON result is delivered to watchers of its
// variant and to watchers of every variant.
func (h *Hub) Publish(ctx context.Context, r bench.Result) error {
	b, err := encode(r)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	// sends never block, so they happen under mu and cannot race Unwatch
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrSinkClosed
	}
	for _, key := range []string{r.Variant.String(), allVariants} {
		for _, ch := range h.subs[key] {
			select {
			case ch <- b:
			default:
			}
		}
	}
	return nil
}

// Watch returns a channel receiving results for variant ("" for all) until
// ctx is done or Unwatch is called.
func (h *Hub) Watch(ctx context.Context, variant string) (chan []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ch := make(chan []byte, 16)
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrSinkClosed
	}
	h.subs[variant] = append(h.subs[variant], ch)
	h.mu.Unlock()
	go func() {
		<-ctx.Done()
		h.Unwatch(variant, ch)
	}()
	return ch, nil
}

// Unwatch stops delivering results to ch and closes it.
func (h *Hub) Unwatch(variant string, ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.subs[variant]
	for i, c := range subs {
		if c == ch {
			subs[i] = subs[len(subs)-1]
			subs = subs[:len(subs)-1]
			close(c)
			break
		}
	}
	if len(subs) == 0 {
		delete(h.subs, variant)
	} else {
		h.subs[variant] = subs
	}
}

// Watchers returns the number of registered watchers.
func (h *Hub) Watchers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, s := range h.subs {
		n += len(s)
	}
	return n
}

// Close closes every watcher channel. Further publishes fail with
// ErrSinkClosed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for k, subs := range h.subs {
		for _, c := range subs {
			close(c)
		}
		delete(h.subs, k)
	}
}

// SSEHandler streams results over Server-Sent Events. The optional "variant"
// query parameter restricts the stream to one lock variant.
func (h *Hub) SSEHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		variant := r.URL.Query().Get("variant")
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "stream unsupported", http.StatusInternalServerError)
			return
		}
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		ch, err := h.Watch(ctx, variant)
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if _, err := fmt.Fprintf(w, "data: %s\n\n", msg); err != nil {
					return
				}
				flusher.Flush()
			case <-ctx.Done():
				return
			}
		}
	}
}

var upgrader = websocket.Upgrader{}

// WebSocketHandler streams results over WebSocket, one JSON text message per
// result. The optional "variant" query parameter restricts the stream.
func (h *Hub) WebSocketHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		variant := r.URL.Query().Get("variant")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		ch, err := h.Watch(ctx, variant)
		if err != nil {
			return
		}
		// the read loop only notices the client going away
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}
}
