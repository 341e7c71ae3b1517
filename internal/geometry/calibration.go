package geometry

import (
	"fmt"
	"image"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// SplinePoints fits a natural cubic spline through the control points of one
// edge and returns n evenly spaced sample centres between the first and last
// control point. Horizontal edges are fitted as y = f(x), vertical edges as
// x = f(y).
func SplinePoints(e Edge, control []image.Point, n int) ([]image.Point, error) {
	if n <= 0 {
		return nil, nil
	}
	if len(control) < 2 {
		return nil, fmt.Errorf("%s edge: need at least 2 control points, got %d", e, len(control))
	}

	pts := append([]image.Point(nil), control...)
	along := func(p image.Point) int {
		if e.Horizontal() {
			return p.X
		}
		return p.Y
	}
	across := func(p image.Point) int {
		if e.Horizontal() {
			return p.Y
		}
		return p.X
	}
	sort.Slice(pts, func(i, j int) bool { return along(pts[i]) < along(pts[j]) })

	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = float64(along(p))
		ys[i] = float64(across(p))
		if i > 0 && xs[i] == xs[i-1] {
			return nil, fmt.Errorf("%s edge: duplicate control coordinate %v", e, xs[i])
		}
	}

	var spline interp.NaturalCubic
	if err := spline.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("%s edge: fit spline: %w", e, err)
	}

	start, end := xs[0], xs[len(xs)-1]
	out := make([]image.Point, n)
	for i := range out {
		t := start
		if n > 1 {
			t = start + (end-start)*float64(i)/float64(n-1)
		}
		a := int(math.Round(t))
		b := int(math.Round(spline.Predict(t)))
		if e.Horizontal() {
			out[i] = image.Pt(a, b)
		} else {
			out[i] = image.Pt(b, a)
		}
	}
	return out, nil
}
