// Package render drives the LED strip. It maps edge colours onto physical LED
// slots, eases the displayed colours towards each new snapshot over a fixed
// number of ticks, and speaks the wire protocol of the strip controller.
package render

import (
	"fmt"

	"github.com/banshee-data/backlight/internal/geometry"
)

// Layout maps (edge, position) to a physical LED index. Edges are wired in
// Order; each group is numbered along the edge's natural direction unless
// Natural is false for it, in which case the group runs backwards.
type Layout struct {
	Order   [geometry.NumEdges]geometry.Edge
	Counts  [geometry.NumEdges]int
	Natural [geometry.NumEdges]bool

	slots [geometry.NumEdges][]int
	total int
}

// NewLayout validates the wiring description and precomputes LED slots.
// counts and natural are indexed by edge.
func NewLayout(order [geometry.NumEdges]geometry.Edge, counts [geometry.NumEdges]int, natural [geometry.NumEdges]bool) (*Layout, error) {
	var seen [geometry.NumEdges]bool
	for _, e := range order {
		if e < 0 || int(e) >= geometry.NumEdges {
			return nil, fmt.Errorf("invalid edge %d in LED order", int(e))
		}
		if seen[e] {
			return nil, fmt.Errorf("edge %s appears twice in LED order", e)
		}
		seen[e] = true
	}

	l := &Layout{Order: order, Counts: counts, Natural: natural}
	next := 0
	for _, e := range order {
		n := counts[e]
		if n < 0 {
			return nil, fmt.Errorf("negative LED count %d for %s edge", n, e)
		}
		idx := make([]int, n)
		for k := range idx {
			idx[k] = next + k
		}
		if !natural[e] {
			for a, b := 0, n-1; a < b; a, b = a+1, b-1 {
				idx[a], idx[b] = idx[b], idx[a]
			}
		}
		l.slots[e] = idx
		next += n
	}
	l.total = next
	return l, nil
}

// Slot returns the LED index of the k-th colour on edge e.
func (l *Layout) Slot(e geometry.Edge, k int) int {
	return l.slots[e][k]
}

// Slots returns the LED indices for edge e in colour order.
func (l *Layout) Slots(e geometry.Edge) []int {
	return l.slots[e]
}

// Total is the number of LEDs on the strip.
func (l *Layout) Total() int { return l.total }
