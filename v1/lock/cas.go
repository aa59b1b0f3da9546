package lock

import "github.com/mirkobrombin/go-spinlocks/v1/atomicx"

// CASLock is a spinlock that takes the flag with compare-and-swap(0, 1).
// It behaves like TASLock; only the primitive differs.
// The zero value is an unlocked lock.
type CASLock struct {
	flag atomicx.Flag
}

// Init implements Lock.Init.
func (l *CASLock) Init() { l.flag.Clear() }

// Acquire implements Lock.Acquire.
func (l *CASLock) Acquire() {
	for !l.flag.CompareAndSwap(0, 1) {
	}
}

// Release implements Lock.Release.
func (l *CASLock) Release() { l.flag.Clear() }
