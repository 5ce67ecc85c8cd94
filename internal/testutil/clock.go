// Package testutil provides shared helpers for tests across packages.
package testutil

import (
	"sync"
	"time"
)

// DeterministicClock provides a thread-safe manually-advanced clock for tests.
//
// Unlike the real clock it only moves when told to, so tests of
// interval-driven logic (autosave cadence, flush cadence) produce identical
// results on every run regardless of machine speed.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewDeterministicClock creates a clock frozen at start.
func NewDeterministicClock(start time.Time) *DeterministicClock {
	return &DeterministicClock{now: start}
}

// Now returns the current frozen time.
//
// Thread-safe: uses mutex to protect the time value.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
//
// Monotonic as long as callers pass non-negative durations; the clock itself
// never moves on its own.
func (c *DeterministicClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to an absolute instant.
//
// Used to jump between test phases without accumulating Advance calls.
func (c *DeterministicClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
