// Package singleflight provides a non-blocking mutual-exclusion gate for
// privileged operations. At most one holder at a time; a failed acquisition
// is terminal for that attempt: callers never wait, they drop the attempt.
package singleflight

import "sync/atomic"

// Gate guards a named operation against concurrent execution.
// The zero value is an unheld gate ready for use.
type Gate struct {
	held atomic.Bool
}

// NewGate returns an unheld gate.
func NewGate() *Gate {
	return &Gate{}
}

// TryAcquire takes the gate if it is currently unheld. It returns false
// without blocking or changing state when the gate is already held.
func (g *Gate) TryAcquire() bool {
	return g.held.CompareAndSwap(false, true)
}

// Release frees the gate. It is idempotent: releasing an unheld gate is a
// no-op, so it is safe to call from every exit path.
func (g *Gate) Release() {
	g.held.Store(false)
}

// Held reports whether the gate is currently held.
func (g *Gate) Held() bool {
	return g.held.Load()
}
