// Package syncutil provides a condition variable with timed waits. The
// standard sync.Cond cannot be woken by a deadline, and every blocking wait in
// the pipeline has to come back within a bounded interval to re-check the
// power flag.
package syncutil

import (
	"sync"
	"time"
)

// Cond is a broadcast-only condition variable whose waits can time out.
// Construct with NewCond.
type Cond struct {
	// L is held while observing or changing the condition.
	L sync.Locker

	ch chan struct{}
}

// NewCond returns a Cond bound to l.
func NewCond(l sync.Locker) *Cond {
	return &Cond{L: l, ch: make(chan struct{})}
}

// Broadcast wakes all goroutines waiting on c. The caller must hold c.L.
func (c *Cond) Broadcast() {
	close(c.ch)
	c.ch = make(chan struct{})
}

// WaitTimeout unlocks c.L, waits for a Broadcast or for d to elapse, and
// locks c.L again before returning. It reports whether a Broadcast woke it.
// As with sync.Cond, the caller must re-check its condition in a loop.
func (c *Cond) WaitTimeout(d time.Duration) bool {
	ch := c.ch
	c.L.Unlock()
	defer c.L.Lock()

	if d <= 0 {
		select {
		case <-ch:
			return true
		default:
			return false
		}
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ch:
		return true
	case <-t.C:
		return false
	}
}
