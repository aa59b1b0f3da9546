package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelsAreDistinctAndWrappable(t *testing.T) {
	all := []error{ErrInvalidConfig, ErrSpawnFailed, ErrUnknownVariant, ErrSinkClosed}
	for i, a := range all {
		wrapped := fmt.Errorf("ctx: %w", a)
		for j, b := range all {
			if got := errors.Is(wrapped, b); got != (i == j) {
				t.Fatalf("errors.Is(%v, %v) = %v", wrapped, b, got)
			}
		}
	}
}
