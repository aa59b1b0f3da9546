package lock

import (
	"fmt"
	"strings"
	"sync"

	lockerrors "github.com/mirkobrombin/go-spinlocks/v1/errors"
)

// ErrUnknownVariant is returned for a variant that does not exist.
var ErrUnknownVariant = lockerrors.ErrUnknownVariant

// Lock is the capability shared by every variant.
type Lock interface {
	// Init resets the lock to the free state. It must not be called while
	// any goroutine holds or waits for the lock.
	Init()
	// Acquire blocks until the calling goroutine holds the lock.
	Acquire()
	// Release frees the lock. Releasing a lock that is not held is a
	// programming error with undefined outcome.
	Release()
}

// Variant identifies one of the lock algorithms.
type Variant int

const (
	TestAndSet Variant = iota
	CAS
	Ticket
	Yield
	Queue
)

var variantNames = [...]string{"tas", "cas", "ticket", "yield", "queue"}

var variantTitles = [...]string{
	"Test-And-Set Spin Lock",
	"Compare-And-Swap Lock",
	"Ticket Lock",
	"Yield Lock",
	"Queue Lock",
}

// Variants returns every variant in the order the driver runs them.
func Variants() []Variant {
	return []Variant{TestAndSet, CAS, Ticket, Yield, Queue}
}

func (v Variant) valid() bool { return v >= TestAndSet && v <= Queue }

// String returns the short name used on the command line and in metrics.
func (v Variant) String() string {
	if !v.valid() {
		return fmt.Sprintf("variant(%d)", int(v))
	}
	return variantNames[v]
}

// Title returns the human readable name.
func (v Variant) Title() string {
	if !v.valid() {
		return v.String()
	}
	return variantTitles[v]
}

// ParseVariant maps a short name (case-insensitive) to its Variant.
func ParseVariant(s string) (Variant, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range variantNames {
		if n == s {
			return Variant(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// New returns an initialised lock for v.
func New(v Variant) (Lock, error) {
	var l Lock
	switch v {
	case TestAndSet:
		l = &TASLock{}
	case CAS:
		l = &CASLock{}
	case Ticket:
		l = &TicketLock{}
	case Yield:
		l = &YieldLock{}
	case Queue:
		l = NewQueueLock()
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
	l.Init()
	return l, nil
}

type locker struct{ l Lock }

func (k locker) Lock()   { k.l.Acquire() }
func (k locker) Unlock() { k.l.Release() }

// Locker adapts l to sync.Locker.
func Locker(l Lock) sync.Locker {
	return locker{l: l}
}

// MarshalText implements encoding.TextMarshaler using the short name.
func (v Variant) MarshalText() ([]byte, error) {
	if !v.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Variant) UnmarshalText(b []byte) error {
	p, err := ParseVariant(string(b))
	if err != nil {
		return err
	}
	*v = p
	return nil
}
