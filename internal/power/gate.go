// Package power turns the power-sense line into the process-wide on/off flag
// that every pipeline stage polls, and wakes anything blocked on it when the
// flag changes.
package power

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/banshee-data/backlight/internal/syncutil"
)

// Gate is the shared power flag plus a list of wake callbacks. Every change
// of state bumps a generation counter, so a holder that saw the gate on can
// tell that it has since been off, however briefly.
type Gate struct {
	on  atomic.Bool
	gen atomic.Uint64

	mu     sync.Mutex
	cond   *syncutil.Cond
	wakers map[int]func()
	nextID int
}

// NewGate returns a gate in the off state.
func NewGate() *Gate {
	g := &Gate{wakers: make(map[int]func())}
	g.cond = syncutil.NewCond(&g.mu)
	return g
}

// On reports the current power state.
func (g *Gate) On() bool { return g.on.Load() }

// Generation counts state changes since the gate was created.
func (g *Gate) Generation() uint64 { return g.gen.Load() }

// Set stores the power state. If it changed, the generation advances, every
// registered waker runs and parked goroutines are released. It reports
// whether the state changed.
func (g *Gate) Set(on bool) bool {
	g.mu.Lock()
	if g.on.Load() == on {
		g.mu.Unlock()
		return false
	}
	g.on.Store(on)
	g.gen.Add(1)
	g.cond.Broadcast()
	wake := make([]func(), 0, len(g.wakers))
	for _, f := range g.wakers {
		wake = append(wake, f)
	}
	g.mu.Unlock()

	for _, f := range wake {
		f()
	}
	return true
}

// Register adds f to the wake list. The returned function removes it.
func (g *Gate) Register(f func()) (unregister func()) {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.wakers[id] = f
	g.mu.Unlock()

	return func() {
		g.mu.Lock()
		delete(g.wakers, id)
		g.mu.Unlock()
	}
}

// WaitUntilOn parks until power is on or ctx is done, re-checking at least
// every recheck. It reports whether power is on.
func (g *Gate) WaitUntilOn(ctx context.Context, recheck time.Duration) bool {
	stop := context.AfterFunc(ctx, func() {
		g.mu.Lock()
		g.cond.Broadcast()
		g.mu.Unlock()
	})
	defer stop()

	g.mu.Lock()
	defer g.mu.Unlock()
	for !g.On() {
		if ctx.Err() != nil {
			return false
		}
		g.cond.WaitTimeout(recheck)
	}
	return true
}
