package errors

import "errors"

var (
	// ErrInvalidConfig is returned when a benchmark configuration cannot run.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrSpawnFailed is returned when a worker could not be started; the run
	// is aborted.
	ErrSpawnFailed = errors.New("worker spawn failed")
	// ErrUnknownVariant is returned for a lock variant name or value that
	// does not exist.
	ErrUnknownVariant = errors.New("unknown lock variant")
	// ErrSinkClosed is returned when publishing to a closed report sink.
	ErrSinkClosed = errors.New("sink closed")
)
