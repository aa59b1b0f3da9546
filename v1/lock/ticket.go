package lock

import "github.com/mirkobrombin/go-spinlocks/v1/atomicx"

// TicketLock is a fair spinlock. Each Acquire draws the next ticket with
// fetch-and-add and spins until turn reaches it, so the lock is granted in
// exactly the order tickets were drawn. A waiter yields periodically while
// spinning because the next ticket holder may be descheduled.
//
// Both counters are 64 bits wide. Wraparound would need 2^64 acquisitions
// and is not handled.
// The zero value is an unlocked lock.
type TicketLock struct {
	ticket atomicx.Counter
	turn   atomicx.Counter
}

// Init implements Lock.Init.
func (l *TicketLock) Init() {
	l.ticket.Store(0)
	l.turn.Store(0)
}

// Acquire implements Lock.Acquire.
func (l *TicketLock) Acquire() {
	my := l.ticket.FetchAndAdd(1)
	var b backoff
	for l.turn.Load() != my {
		b.pause()
	}
}

// Release implements Lock.Release.
func (l *TicketLock) Release() { l.turn.FetchAndAdd(1) }
