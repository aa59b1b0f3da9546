package lock

import "runtime"

// spinsPerYield bounds how long a waiter spins before it hands its processor
// to the scheduler once.
const spinsPerYield = 128

// backoff counts failed attempts of a single wait loop.
type backoff int

// pause is called after every failed attempt. It only spins, except on every
// spinsPerYield-th call where it yields so that a lock holder that is not
// currently running can be scheduled.
func (b *backoff) pause() {
	*b++
	if *b%spinsPerYield == 0 {
		runtime.Gosched()
	}
}
