package colorpool

import (
	"github.com/banshee-data/backlight/internal/geometry"
)

// PoolSize is the number of snapshot buffers in circulation: one being
// filled, one waiting, one on display.
const PoolSize = 3

// Pool is the empty and filled sub-pools over a fixed set of snapshots.
type Pool struct {
	Empty  *SubPool
	Filled *SubPool

	all [PoolSize]*Snapshot
}

// New allocates PoolSize snapshots sized by counts and places them all in
// Empty.
func New(counts [geometry.NumEdges]int) *Pool {
	p := &Pool{
		Empty:  newSubPool(OwnerEmpty, 0),
		Filled: newSubPool(OwnerFilled, 1),
	}
	for i := range p.all {
		s := newSnapshot(i, counts)
		p.all[i] = s
		p.Empty.items = append(p.Empty.items, s)
	}
	return p
}

// Recharge moves every snapshot sitting in Filled back to Empty. It is
// called between power cycles, once all workers have stopped and returned
// what they held.
func (p *Pool) Recharge() {
	for _, s := range p.Filled.drain() {
		s.transfer(OwnerFilled, OwnerSampler)
		p.Empty.Release(s, OwnerSampler)
	}
}

// Wake wakes waiters on both sub-pools.
func (p *Pool) Wake() {
	p.Empty.Wake()
	p.Filled.Wake()
}

// Census counts snapshots by owner. The counts always sum to PoolSize.
func (p *Pool) Census() map[Owner]int {
	c := make(map[Owner]int, numOwners)
	for _, s := range p.all {
		c[s.Owner()]++
	}
	return c
}
