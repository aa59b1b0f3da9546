// Package lock provides five mutual-exclusion primitives built directly on
// atomic operations: a test-and-set spinlock, a compare-and-swap spinlock, a
// FIFO ticket lock, a spinlock that yields the processor between attempts and
// a two-phase queue lock that spins on a tiny guard and blocks on a condition
// variable while the lock is held.
//
// All variants implement Lock. None of them is reentrant, none supports
// timeouts, and only TicketLock grants the lock in arrival order. A Lock must
// be re-initialised with Init before it is reused for an independent run.
package lock
