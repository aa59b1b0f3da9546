package lock

import "github.com/mirkobrombin/go-spinlocks/v1/atomicx"

// TASLock is a test-and-set spinlock. Waiters busy-wait without backoff and
// there is no fairness: a waiter can starve under contention.
// The zero value is an unlocked lock.
type TASLock struct {
	flag atomicx.Flag
}

// Init implements Lock.Init.
func (l *TASLock) Init() { l.flag.Clear() }

// Acquire implements Lock.Acquire.
func (l *TASLock) Acquire() {
	for l.flag.TestAndSet() {
	}
}

// Release implements Lock.Release.
func (l *TASLock) Release() { l.flag.Clear() }
