package hsv

import (
	"math"
	"testing"
)

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestFromRGB(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		want    Color
	}{
		{"red", 255, 0, 0, Color{0, 1, 1}},
		{"green", 0, 255, 0, Color{120, 1, 1}},
		{"blue", 0, 0, 255, Color{240, 1, 1}},
		{"black", 0, 0, 0, Color{0, 0, 0}},
		{"white", 255, 255, 255, Color{0, 0, 1}},
		{"clamped", 300, -20, 0, Color{0, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromRGB(tt.r, tt.g, tt.b)
			if !approx(got.H, tt.want.H, 1e-6) || !approx(got.S, tt.want.S, 1e-6) || !approx(got.V, tt.want.V, 1e-6) {
				t.Errorf("FromRGB(%v,%v,%v) = %+v, want %+v", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestRGB8(t *testing.T) {
	r, g, b := Color{H: 0, S: 1, V: 1}.RGB8()
	if r != 255 || g != 0 || b != 0 {
		t.Errorf("red = (%d,%d,%d)", r, g, b)
	}
	r, g, b = Black.RGB8()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("black = (%d,%d,%d)", r, g, b)
	}
	// out of range values are clamped rather than wrapped
	r, _, _ = Color{H: 0, S: 1, V: 1.2}.RGB8()
	if r != 255 {
		t.Errorf("overbright red channel = %d, want 255", r)
	}
}

func TestMixEndpoints(t *testing.T) {
	a := Color{H: 30, S: 0.2, V: 0.4}
	b := Color{H: 90, S: 0.8, V: 1.0}

	if got := a.Mix(b, 0); got != a {
		t.Errorf("Mix(0) = %+v, want %+v", got, a)
	}
	got := a.Mix(b, 1)
	if !approx(got.H, b.H, 1e-9) || !approx(got.S, b.S, 1e-9) || !approx(got.V, b.V, 1e-9) {
		t.Errorf("Mix(1) = %+v, want %+v", got, b)
	}
	mid := a.Mix(b, 0.5)
	if !approx(mid.H, 60, 1e-9) || !approx(mid.S, 0.5, 1e-9) || !approx(mid.V, 0.7, 1e-9) {
		t.Errorf("Mix(0.5) = %+v", mid)
	}
}

func TestMixTakesShortArc(t *testing.T) {
	a := Color{H: 350, S: 1, V: 1}
	b := Color{H: 10, S: 1, V: 1}

	mid := a.Mix(b, 0.5)
	if !approx(mid.H, 0, 1e-9) && !approx(mid.H, 360, 1e-9) {
		t.Errorf("350->10 midpoint hue = %v, want 0", mid.H)
	}
	back := b.Mix(a, 0.25)
	if !approx(back.H, 5, 1e-9) {
		t.Errorf("10->350 quarter hue = %v, want 5", back.H)
	}
}
