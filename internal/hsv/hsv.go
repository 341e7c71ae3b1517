// Package hsv is the colour representation shared by the sampler and the
// renderer. Colours are kept in hue/saturation/value so that interpolation
// moves around the colour wheel instead of through grey.
package hsv

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a hue/saturation/value triple. H is in degrees [0, 360); S and V
// are in [0, 1].
type Color struct {
	H, S, V float64
}

// Black is the zero colour.
var Black = Color{}

// FromRGB converts 0-255 channel values to HSV. Inputs are clamped to
// [0, 255] first.
func FromRGB(r, g, b float64) Color {
	c := colorful.Color{R: clamp255(r) / 255, G: clamp255(g) / 255, B: clamp255(b) / 255}
	h, s, v := c.Hsv()
	return Color{H: h, S: s, V: v}
}

// RGB8 converts to 8-bit channels, rounding to nearest.
func (c Color) RGB8() (r, g, b uint8) {
	return colorful.Hsv(c.H, c.S, c.V).Clamped().RGB255()
}

// Mix moves c towards other by factor f in [0, 1]. Hue travels along the
// shorter arc; saturation and value are linear.
func (c Color) Mix(other Color, f float64) Color {
	dh := math.Mod(other.H-c.H, 360)
	if dh > 180 {
		dh -= 360
	} else if dh < -180 {
		dh += 360
	}
	h := math.Mod(c.H+f*dh, 360)
	if h < 0 {
		h += 360
	}
	return Color{
		H: h,
		S: c.S + f*(other.S-c.S),
		V: c.V + f*(other.V-c.V),
	}
}

func clamp255(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return v
}
