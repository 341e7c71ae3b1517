package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultKernelSize is the side length of the weighting kernel.
	DefaultKernelSize = 5
	// DefaultKernelSigma is the Gaussian standard deviation.
	DefaultKernelSigma = 1.0
)

// Kernel is a square weight matrix stored row-major. Weights are
// non-negative and sum to 1.
type Kernel struct {
	Size    int
	Weights []float64
}

// At returns the weight at column x, row y.
func (k Kernel) At(x, y int) float64 {
	return k.Weights[y*k.Size+x]
}

// Sum returns the total weight.
func (k Kernel) Sum() float64 {
	return floats.Sum(k.Weights)
}

// GaussianKernel builds a size×size Gaussian kernel with the given sigma,
// normalised so that its entries sum to 1. Size must be odd and positive.
func GaussianKernel(size int, sigma float64) (Kernel, error) {
	if size <= 0 || size%2 == 0 {
		return Kernel{}, fmt.Errorf("kernel size must be a positive odd number, got %d", size)
	}
	if sigma <= 0 {
		return Kernel{}, fmt.Errorf("kernel sigma must be positive, got %f", sigma)
	}

	radius := size / 2
	w := make([]float64, size*size)
	twoSigmaSq := 2 * sigma * sigma
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			d := float64(x*x + y*y)
			w[(y+radius)*size+(x+radius)] = math.Exp(-d/twoSigmaSq) / (math.Pi * twoSigmaSq)
		}
	}
	floats.Scale(1/floats.Sum(w), w)

	return Kernel{Size: size, Weights: w}, nil
}

// UniformKernel builds a size×size kernel of equal weights.
func UniformKernel(size int) Kernel {
	w := make([]float64, size*size)
	for i := range w {
		w[i] = 1 / float64(len(w))
	}
	return Kernel{Size: size, Weights: w}
}
