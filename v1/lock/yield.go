package lock

import (
	"runtime"

	"github.com/mirkobrombin/go-spinlocks/v1/atomicx"
)

// YieldLock is a test-and-set lock whose waiters give up the processor after
// every failed attempt instead of spinning. It trades a scheduler round trip
// per retry for less wasted CPU. There is no fairness.
// The zero value is an unlocked lock.
type YieldLock struct {
	flag atomicx.Flag
}

// Init implements Lock.Init.
func (l *YieldLock) Init() { l.flag.Clear() }

// Acquire implements Lock.Acquire.
func (l *YieldLock) Acquire() {
	for l.flag.TestAndSet() {
		runtime.Gosched()
	}
}

// Release implements Lock.Release.
func (l *YieldLock) Release() { l.flag.Clear() }
