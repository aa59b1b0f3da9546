package report

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mirkobrombin/go-spinlocks/v1/bench"
	lockerrors "github.com/mirkobrombin/go-spinlocks/v1/errors"
)

// ErrSinkClosed is returned when publishing to a closed sink.
var ErrSinkClosed = lockerrors.ErrSinkClosed

// Sink receives benchmark results.
type Sink = bench.Sink

type multi []Sink

// Multi returns a sink that publishes to every sink in order. All sinks are
// tried; their errors are joined.
func Multi(sinks ...Sink) Sink {
	return multi(append([]Sink(nil), sinks...))
}

func (m multi) Publish(ctx context.Context, r bench.Result) error {
	var errs []error
	for _, s := range m {
		if err := s.Publish(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func encode(r bench.Result) ([]byte, error) {
	return json.Marshal(r)
}

func decode(b []byte) (bench.Result, error) {
	var r bench.Result
	err := json.Unmarshal(b, &r)
	return r, err
}
