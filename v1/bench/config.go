package bench

import (
	"fmt"

	lockerrors "github.com/mirkobrombin/go-spinlocks/v1/errors"
	"github.com/mirkobrombin/go-spinlocks/v1/lock"
)

var (
	// ErrInvalidConfig is returned by Validate and Run for unusable configs.
	ErrInvalidConfig = lockerrors.ErrInvalidConfig
	// ErrSpawnFailed is returned when a worker could not be started.
	ErrSpawnFailed = lockerrors.ErrSpawnFailed
)

const (
	// DefaultThreads is the worker count used by DefaultConfig.
	DefaultThreads = 4
	// DefaultIterations is the per-worker iteration count used by DefaultConfig.
	DefaultIterations = 100000
)

// Config describes a single benchmark run.
type Config struct {
	// Variant selects the lock algorithm under test.
	Variant lock.Variant
	// Threads is the number of concurrent workers. Must be at least 1.
	Threads int
	// Iterations is the number of guarded increments per worker. Must be at
	// least 1.
	Iterations int
	// PinThreads locks every worker to its own OS thread for the run.
	PinThreads bool
	// MaxWorkers caps how many workers may be live at once. A run whose
	// Threads exceeds a positive MaxWorkers fails with ErrSpawnFailed.
	// Zero means unlimited.
	MaxWorkers int
}

// DefaultConfig returns the 4 x 100000 test-and-set configuration.
func DefaultConfig() Config {
	return Config{
		Variant:    lock.TestAndSet,
		Threads:    DefaultThreads,
		Iterations: DefaultIterations,
	}
}

// Expected returns the counter value a correct lock produces.
func (c Config) Expected() int {
	return c.Threads * c.Iterations
}

// Validate reports whether the configuration can run.
func (c Config) Validate() error {
	if c.Threads < 1 {
		return fmt.Errorf("%w: threads must be >= 1, got %d", ErrInvalidConfig, c.Threads)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be >= 1, got %d", ErrInvalidConfig, c.Iterations)
	}
	if c.MaxWorkers < 0 {
		return fmt.Errorf("%w: max workers must be >= 0, got %d", ErrInvalidConfig, c.MaxWorkers)
	}
	return nil
}
