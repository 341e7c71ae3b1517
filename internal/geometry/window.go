package geometry

import (
	"fmt"
	"image"
)

// Window is an axis-aligned sample rectangle in raw pixel coordinates.
// Both corners are inclusive.
type Window struct {
	TL image.Point
	BR image.Point
}

// Dx returns the window width in pixels.
func (w Window) Dx() int { return w.BR.X - w.TL.X + 1 }

// Dy returns the window height in pixels.
func (w Window) Dy() int { return w.BR.Y - w.TL.Y + 1 }

// Rect returns the equivalent half-open image.Rectangle.
func (w Window) Rect() image.Rectangle {
	return image.Rect(w.TL.X, w.TL.Y, w.BR.X+1, w.BR.Y+1)
}

// Inside reports whether the window lies entirely within a width×height image.
func (w Window) Inside(width, height int) bool {
	return w.TL.X >= 0 && w.TL.Y >= 0 && w.BR.X < width && w.BR.Y < height
}

// WindowAt centres a size×size window on c, then shifts it so it lies fully
// inside a width×height image. The caller guarantees size <= width, height.
func WindowAt(c image.Point, size, width, height int) Window {
	half := size / 2
	x0 := clampInt(c.X-half, 0, width-size)
	y0 := clampInt(c.Y-half, 0, height-size)
	return Window{
		TL: image.Pt(x0, y0),
		BR: image.Pt(x0+size-1, y0+size-1),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SampleWindows is the full sampling geometry: the kernel, the image size it
// was derived for, and the windows for every edge in configuration order.
type SampleWindows struct {
	Kernel  Kernel
	Width   int
	Height  int
	Windows [NumEdges][]Window
}

// NewSampleWindows derives one clamped window per centre point on each edge.
func NewSampleWindows(points [NumEdges][]image.Point, kernel Kernel, width, height int) (*SampleWindows, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if kernel.Size > width || kernel.Size > height {
		return nil, fmt.Errorf("kernel size %d does not fit a %dx%d image", kernel.Size, width, height)
	}

	sw := &SampleWindows{Kernel: kernel, Width: width, Height: height}
	for _, e := range Edges {
		ws := make([]Window, len(points[e]))
		for i, p := range points[e] {
			ws[i] = WindowAt(p, kernel.Size, width, height)
		}
		sw.Windows[e] = ws
	}
	return sw, nil
}

// Counts returns the number of windows on each edge.
func (sw *SampleWindows) Counts() [NumEdges]int {
	var n [NumEdges]int
	for _, e := range Edges {
		n[e] = len(sw.Windows[e])
	}
	return n
}
