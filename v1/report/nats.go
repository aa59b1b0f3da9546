package report

import (
	"context"
	"time"

	nats "github.com/nats-io/nats.go"

	"github.com/mirkobrombin/go-spinlocks/v1/bench"
)

// DefaultNATSPrefix is the subject prefix used when none is given.
const DefaultNATSPrefix = "spinlocks.results"

// natsFlushTimeout bounds Publish when ctx carries no deadline.
const natsFlushTimeout = 5 * time.Second

// NATS publishes every result as JSON on "<prefix>.<variant>".
type NATS struct {
	conn   *nats.Conn
	prefix string
}

// NewNATS returns a NATS sink. An empty prefix selects DefaultNATSPrefix.
func NewNATS(conn *nats.Conn, prefix string) *NATS {
	if prefix == "" {
		prefix = DefaultNATSPrefix
	}
	return &NATS{conn: conn, prefix: prefix}
}

// Subject returns the subject results of variant are published on.
func (s *NATS) Subject(variant string) string {
	return s.prefix + "." + variant
}

// Publish implements Sink. It flushes the connection so the result has
// reached the server when Publish returns.
func (s *NATS) Publish(ctx context.Context, r bench.Result) error {
	b, err := encode(r)
	if err != nil {
		return err
	}
	if err := s.conn.Publish(s.Subject(r.Variant.String()), b); err != nil {
		return err
	}
	if _, ok := ctx.Deadline(); ok {
		return s.conn.FlushWithContext(ctx)
	}
	return s.conn.FlushTimeout(natsFlushTimeout)
}
