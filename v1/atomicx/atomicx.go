package atomicx

import "sync/atomic"

// cacheLine is the padding unit used to keep hot words on separate lines.
const cacheLine = 64

// Flag is a 0/1 word manipulated only through atomic operations.
// The zero value is clear.
type Flag struct {
	v atomic.Uint32
	_ [cacheLine - 4]byte
}

// TestAndSet stores 1 and reports whether the flag was already set.
func (f *Flag) TestAndSet() bool {
	return f.v.Swap(1) == 1
}

// CompareAndSwap sets the flag to new only if it currently holds old.
func (f *Flag) CompareAndSwap(old, new uint32) bool {
	return f.v.CompareAndSwap(old, new)
}

// Clear stores 0.
func (f *Flag) Clear() {
	f.v.Store(0)
}

// IsSet reports whether the flag currently holds 1.
func (f *Flag) IsSet() bool {
	return f.v.Load() == 1
}

// Counter is a monotonically increasing word. The zero value is 0.
type Counter struct {
	v atomic.Uint64
	_ [cacheLine - 8]byte
}

// FetchAndAdd adds delta and returns the value held before the addition.
func (c *Counter) FetchAndAdd(delta uint64) uint64 {
	return c.v.Add(delta) - delta
}

// Load returns the current value.
func (c *Counter) Load() uint64 {
	return c.v.Load()
}

// Store sets the value. It must not race with FetchAndAdd callers that rely
// on the sequence; it exists for re-initialisation.
func (c *Counter) Store(v uint64) {
	c.v.Store(v)
}
