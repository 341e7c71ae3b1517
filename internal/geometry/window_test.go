package geometry

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWindowAt_Clamping(t *testing.T) {
	const w, h, k = 1280, 720, 5

	tests := []struct {
		name   string
		center image.Point
		want   Window
	}{
		{"origin", image.Pt(0, 0), Window{TL: image.Pt(0, 0), BR: image.Pt(4, 4)}},
		{"far corner", image.Pt(1279, 719), Window{TL: image.Pt(1275, 715), BR: image.Pt(1279, 719)}},
		{"interior", image.Pt(640, 360), Window{TL: image.Pt(638, 358), BR: image.Pt(642, 362)}},
		{"negative", image.Pt(-20, 400), Window{TL: image.Pt(0, 398), BR: image.Pt(4, 402)}},
		{"past right edge", image.Pt(5000, 1), Window{TL: image.Pt(1275, 0), BR: image.Pt(1279, 4)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WindowAt(tt.center, k, w, h)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("WindowAt(%v) mismatch (-want +got):\n%s", tt.center, diff)
			}
			if !got.Inside(w, h) {
				t.Errorf("window %v not inside %dx%d", got, w, h)
			}
			if got.Dx() != k || got.Dy() != k {
				t.Errorf("window extent = %dx%d, want %dx%d", got.Dx(), got.Dy(), k, k)
			}
		})
	}
}

func TestWindow_Rect(t *testing.T) {
	win := Window{TL: image.Pt(2, 3), BR: image.Pt(6, 7)}
	if got, want := win.Rect(), image.Rect(2, 3, 7, 8); got != want {
		t.Errorf("Rect() = %v, want %v", got, want)
	}
}

func TestNewSampleWindows(t *testing.T) {
	k := UniformKernel(5)
	var pts [NumEdges][]image.Point
	pts[Top] = []image.Point{{100, 0}, {200, 0}}
	pts[Left] = []image.Point{{0, 360}}

	sw, err := NewSampleWindows(pts, k, 1280, 720)
	if err != nil {
		t.Fatalf("NewSampleWindows: %v", err)
	}
	if diff := cmp.Diff([NumEdges]int{2, 0, 1, 0}, sw.Counts()); diff != "" {
		t.Errorf("Counts mismatch (-want +got):\n%s", diff)
	}
	if got := sw.Windows[Top][1].TL; got != image.Pt(198, 0) {
		t.Errorf("top[1].TL = %v, want (198,0)", got)
	}
}

func TestNewSampleWindows_Errors(t *testing.T) {
	var pts [NumEdges][]image.Point
	if _, err := NewSampleWindows(pts, UniformKernel(5), 0, 720); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := NewSampleWindows(pts, UniformKernel(9), 8, 8); err == nil {
		t.Error("expected error for kernel larger than image")
	}
}
