package geometry

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplinePoints_Straight(t *testing.T) {
	control := []image.Point{{400, 10}, {0, 10}, {200, 10}}
	got, err := SplinePoints(Top, control, 5)
	if err != nil {
		t.Fatalf("SplinePoints: %v", err)
	}
	want := []image.Point{{0, 10}, {100, 10}, {200, 10}, {300, 10}, {400, 10}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSplinePoints_Vertical(t *testing.T) {
	control := []image.Point{{20, 0}, {30, 300}, {40, 600}}
	got, err := SplinePoints(Right, control, 3)
	if err != nil {
		t.Fatalf("SplinePoints: %v", err)
	}
	want := []image.Point{{20, 0}, {30, 300}, {40, 600}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSplinePoints_PassesThroughControl(t *testing.T) {
	control := []image.Point{{0, 20}, {320, 5}, {640, 20}}
	got, err := SplinePoints(Bottom, control, 3)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(control, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSplinePoints_Errors(t *testing.T) {
	if _, err := SplinePoints(Top, []image.Point{{1, 1}}, 3); err == nil {
		t.Error("expected error for single control point")
	}
	if _, err := SplinePoints(Top, []image.Point{{1, 1}, {1, 5}, {9, 9}}, 3); err == nil {
		t.Error("expected error for duplicate x")
	}
	pts, err := SplinePoints(Top, nil, 0)
	if err != nil || pts != nil {
		t.Errorf("n=0: got %v, %v", pts, err)
	}
}
