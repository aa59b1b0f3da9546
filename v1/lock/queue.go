package lock

import (
	"sync"

	"github.com/mirkobrombin/go-spinlocks/v1/atomicx"
)

type queueState int

const (
	queueFree queueState = iota
	queueHeld
)

// QueueLock is a two-phase lock. A guard flag, taken by spinning, protects the
// lock state for a handful of instructions; when the lock is held, waiters
// drop the guard and sleep on a condition variable instead of spinning.
//
// Release always signals one sleeper, whether or not anyone waits, and the
// lock keeps no waiter count. Sleepers are not served in FIFO order and a
// newly arriving goroutine may take the lock ahead of one that was woken.
//
// The zero value is not usable; call Init or use NewQueueLock.
type QueueLock struct {
	guard atomicx.Flag
	state queueState // only accessed with guard held

	mu   sync.Mutex
	cond *sync.Cond
}

// NewQueueLock returns an initialised QueueLock.
func NewQueueLock() *QueueLock {
	l := &QueueLock{}
	l.Init()
	return l
}

// Init implements Lock.Init.
func (l *QueueLock) Init() {
	l.guard.Clear()
	l.state = queueFree
	l.cond = sync.NewCond(&l.mu)
}

func (l *QueueLock) lockGuard() {
	var b backoff
	for l.guard.TestAndSet() {
		b.pause()
	}
}

// Acquire implements Lock.Acquire.
func (l *QueueLock) Acquire() {
	for {
		l.lockGuard()
		if l.state == queueFree {
			l.state = queueHeld
			l.guard.Clear()
			return
		}
		// mu is taken before the guard is dropped: a releaser needs the guard
		// and then mu to signal, so its signal cannot arrive before Wait.
		l.mu.Lock()
		l.guard.Clear()
		l.cond.Wait()
		l.mu.Unlock()
	}
}

// Release implements Lock.Release.
func (l *QueueLock) Release() {
	l.lockGuard()
	l.state = queueFree
	l.mu.Lock()
	l.cond.Signal()
	l.mu.Unlock()
	l.guard.Clear()
}
