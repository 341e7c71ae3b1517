package geometry

import (
	"math"
	"testing"
)

func TestGaussianKernel_Normalised(t *testing.T) {
	for _, size := range []int{1, 3, 5, 7, 11} {
		for _, sigma := range []float64{0.5, 1, 2, 5} {
			k, err := GaussianKernel(size, sigma)
			if err != nil {
				t.Fatalf("GaussianKernel(%d, %v): %v", size, sigma, err)
			}
			if got := k.Sum(); math.Abs(got-1) > 1e-5 {
				t.Errorf("GaussianKernel(%d, %v) sum = %v, want 1", size, sigma, got)
			}
			for i, w := range k.Weights {
				if w < 0 {
					t.Errorf("weight %d negative: %v", i, w)
				}
			}
		}
	}
}

func TestGaussianKernel_Shape(t *testing.T) {
	k, err := GaussianKernel(DefaultKernelSize, DefaultKernelSigma)
	if err != nil {
		t.Fatal(err)
	}
	centre := k.At(2, 2)
	for y := 0; y < k.Size; y++ {
		for x := 0; x < k.Size; x++ {
			if k.At(x, y) > centre {
				t.Errorf("weight at (%d,%d) exceeds centre", x, y)
			}
		}
	}
	if math.Abs(k.At(0, 1)-k.At(1, 0)) > 1e-12 || math.Abs(k.At(4, 4)-k.At(0, 0)) > 1e-12 {
		t.Error("kernel is not symmetric")
	}
}

func TestGaussianKernel_Invalid(t *testing.T) {
	for _, tc := range []struct {
		size  int
		sigma float64
	}{{0, 1}, {4, 1}, {-3, 1}, {5, 0}} {
		if _, err := GaussianKernel(tc.size, tc.sigma); err == nil {
			t.Errorf("GaussianKernel(%d, %v): expected error", tc.size, tc.sigma)
		}
	}
}

func TestUniformKernel(t *testing.T) {
	k := UniformKernel(5)
	if math.Abs(k.Sum()-1) > 1e-9 {
		t.Errorf("sum = %v", k.Sum())
	}
	if k.At(3, 1) != k.At(0, 0) {
		t.Error("weights not uniform")
	}
}
