package render

import (
	"github.com/banshee-data/backlight/internal/geometry"
	"github.com/banshee-data/backlight/internal/hsv"
)

// DefaultMaxSteps is the number of ticks a transition is spread over.
const DefaultMaxSteps = 30

// Factor is the blend weight for tick i of a maxSteps transition. Applying
// it each tick to the current colour walks from wherever the transition
// started to the target in equal steps, without having to remember the
// start. Factor(maxSteps, maxSteps) is 1. Out of range ticks give 0.
func Factor(i, maxSteps int) float64 {
	if i < 1 || i > maxSteps {
		return 0
	}
	m := float64(maxSteps)
	prev := float64(i-1) / m
	curr := float64(i) / m
	return (curr - prev) / (1 - prev)
}

// Blend moves every entry of current towards target by f.
func Blend(current, target *[geometry.NumEdges][]hsv.Color, f float64) {
	for e := range current {
		cur, tgt := current[e], target[e]
		for k := range cur {
			cur[k] = cur[k].Mix(tgt[k], f)
		}
	}
}

// Write converts current to 8-bit channels and stores each LED at its slot
// in the strip's frame buffer.
func Write(fb []byte, order ChannelOrder, layout *Layout, current *[geometry.NumEdges][]hsv.Color) {
	for _, e := range geometry.Edges {
		slots := layout.Slots(e)
		for k, c := range current[e] {
			r, g, b := c.RGB8()
			i := slots[k] * BytesPerLED
			order.Put(fb[i:i+BytesPerLED], r, g, b)
		}
	}
}
