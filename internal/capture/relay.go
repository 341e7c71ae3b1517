package capture

import (
	"sync"
	"time"

	"github.com/banshee-data/backlight/internal/syncutil"
)

// Liveness is the shared power flag consulted by every blocking wait.
type Liveness interface {
	On() bool
}

// Relay is a single-slot mailbox between capture and the sampler. Publishing
// replaces whatever is stored, so a slow consumer only ever sees the newest
// frame.
type Relay struct {
	mu    sync.Mutex
	cond  *syncutil.Cond
	frame *Frame
}

// NewRelay returns an empty relay.
func NewRelay() *Relay {
	r := &Relay{}
	r.cond = syncutil.NewCond(&r.mu)
	return r
}

// Publish stores f, taking over the caller's reference. An unconsumed frame
// already in the slot is released and Publish reports true. It never blocks
// on the consumer.
func (r *Relay) Publish(f *Frame) (displaced bool) {
	r.mu.Lock()
	old := r.frame
	r.frame = f
	r.cond.Broadcast()
	r.mu.Unlock()

	if old != nil {
		old.Release()
		return true
	}
	return false
}

// Take removes the stored frame, waiting up to timeout for one. It returns
// false on timeout or once live reports off. The caller owns the returned
// reference.
func (r *Relay) Take(live Liveness, timeout time.Duration) (*Frame, bool) {
	deadline := time.Now().Add(timeout)

	r.mu.Lock()
	defer r.mu.Unlock()
	for r.frame == nil {
		if !live.On() {
			return nil, false
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, false
		}
		r.cond.WaitTimeout(remaining)
	}
	if !live.On() {
		return nil, false
	}
	f := r.frame
	r.frame = nil
	return f, true
}

// Drain releases any stored frame and returns how many were dropped.
func (r *Relay) Drain() int {
	r.mu.Lock()
	f := r.frame
	r.frame = nil
	r.mu.Unlock()

	if f == nil {
		return 0
	}
	f.Release()
	return 1
}

// Wake releases goroutines blocked in Take so they re-check liveness.
func (r *Relay) Wake() {
	r.mu.Lock()
	r.cond.Broadcast()
	r.mu.Unlock()
}
