// Package atomicx wraps the three hardware atomic operations the lock
// algorithms are built on: exchange (test-and-set), compare-and-swap and
// fetch-and-add. Every operation is sequentially consistent, so a Clear or
// FetchAndAdd performed by one goroutine happens before any later operation
// on the same word that observes its effect.
package atomicx
