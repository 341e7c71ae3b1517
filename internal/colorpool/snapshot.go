// Package colorpool recycles the fixed set of colour snapshot buffers between
// the sampler and the renderer.
//
// Exactly PoolSize buffers exist for the life of the process. Each one is
// owned by exactly one party at a time: the empty sub-pool, the sampler
// while it fills it, the filled sub-pool, or the renderer. Ownership is
// recorded on the buffer itself and every hand-off is a compare-and-swap of
// that tag, so a double release or a stray publish panics instead of
// silently duplicating a buffer.
package colorpool

import (
	"fmt"
	"sync/atomic"

	"github.com/banshee-data/backlight/internal/geometry"
	"github.com/banshee-data/backlight/internal/hsv"
)

// Owner identifies who currently holds a snapshot.
type Owner int32

const (
	OwnerEmpty Owner = iota
	OwnerSampler
	OwnerFilled
	OwnerRenderer
	numOwners
)

func (o Owner) String() string {
	switch o {
	case OwnerEmpty:
		return "empty"
	case OwnerSampler:
		return "sampler"
	case OwnerFilled:
		return "filled"
	case OwnerRenderer:
		return "renderer"
	}
	return fmt.Sprintf("Owner(%d)", int32(o))
}

// Snapshot is one complete set of edge colours. Per-edge lengths are fixed
// when the pool is built and never change.
type Snapshot struct {
	Colors [geometry.NumEdges][]hsv.Color

	id    int
	owner atomic.Int32
}

// ID is the buffer's index within its pool.
func (s *Snapshot) ID() int { return s.id }

// Owner reports the current holder.
func (s *Snapshot) Owner() Owner { return Owner(s.owner.Load()) }

func (s *Snapshot) transfer(from, to Owner) {
	if !s.owner.CompareAndSwap(int32(from), int32(to)) {
		panic(fmt.Sprintf("colorpool: snapshot %d moved %s -> %s while owned by %s", s.id, from, to, s.Owner()))
	}
}

func newSnapshot(id int, counts [geometry.NumEdges]int) *Snapshot {
	s := &Snapshot{id: id}
	for e, n := range counts {
		s.Colors[e] = make([]hsv.Color, n)
	}
	return s
}
