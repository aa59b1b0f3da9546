// Package bench runs the shared-counter benchmark used to validate the lock
// variants. A run starts a fixed number of workers that each perform a fixed
// number of {Acquire; counter++; Release} steps on one plain integer and
// reports the observed counter next to the expected one. A mismatch is a
// correctness violation of the lock under test; it is reported, never
// returned as an error.
//
// Suite is the sequential driver: it runs one variant after another, each
// with a fresh lock and counter, and hands every Result to a set of sinks.
package bench
