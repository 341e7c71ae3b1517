package colorpool

import (
	"sync"
	"time"

	"github.com/banshee-data/backlight/internal/syncutil"
)

// Liveness is the shared power flag consulted by every blocking wait.
type Liveness interface {
	On() bool
}

// SubPool is a mutex-guarded set of snapshots with a timed wait for one to
// become available. A non-zero capacity makes Publish displace the oldest
// entry instead of growing.
type SubPool struct {
	mu       sync.Mutex
	cond     *syncutil.Cond
	items    []*Snapshot
	owner    Owner
	capacity int
}

func newSubPool(owner Owner, capacity int) *SubPool {
	p := &SubPool{owner: owner, capacity: capacity}
	p.cond = syncutil.NewCond(&p.mu)
	return p
}

// Acquire removes a snapshot, waiting up to timeout for one to arrive. It
// returns false on timeout or as soon as live reports off. A zero timeout
// polls once.
func (p *SubPool) Acquire(live Liveness, as Owner, timeout time.Duration) (*Snapshot, bool) {
	deadline := time.Now().Add(timeout)

	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.items) == 0 {
		if !live.On() {
			return nil, false
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, false
		}
		p.cond.WaitTimeout(remaining)
	}
	if !live.On() {
		return nil, false
	}

	s := p.items[0]
	p.items = p.items[1:]
	s.transfer(p.owner, as)
	return s, true
}

// Release hands s to the pool and wakes every waiter. from is the owner
// giving it up.
func (p *SubPool) Release(s *Snapshot, from Owner) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s.transfer(from, p.owner)
	p.items = append(p.items, s)
	p.cond.Broadcast()
}

// Publish is Release with overwrite semantics: when the pool is at
// capacity the oldest snapshot is removed and returned to the caller, who
// now owns it as from.
func (p *SubPool) Publish(s *Snapshot, from Owner) (displaced *Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s.transfer(from, p.owner)
	if p.capacity > 0 && len(p.items) >= p.capacity {
		displaced = p.items[0]
		p.items = p.items[1:]
		displaced.transfer(p.owner, from)
	}
	p.items = append(p.items, s)
	p.cond.Broadcast()
	return displaced
}

// Wake releases every goroutine blocked in Acquire so it re-checks the
// liveness flag.
func (p *SubPool) Wake() {
	p.mu.Lock()
	p.cond.Broadcast()
	p.mu.Unlock()
}

// Len returns the number of snapshots currently held.
func (p *SubPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

func (p *SubPool) drain() []*Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.items
	p.items = nil
	return out
}
