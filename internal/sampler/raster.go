// Package sampler decodes compressed frames into a fixed raster and reduces
// each sample window to one HSV colour under the weighting kernel.
package sampler

import (
	"image"
)

// BytesPerPixel is the raster's pixel stride: R, G, B, A.
const BytesPerPixel = 4

// Raster is the pre-allocated decode target. Its bounds always start at the
// origin so that pixel (x, y) lives at y*Stride + x*BytesPerPixel.
type Raster struct {
	*image.RGBA
}

// NewRaster allocates a width×height raster.
func NewRaster(width, height int) *Raster {
	return &Raster{RGBA: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Width returns the raster width in pixels.
func (r *Raster) Width() int { return r.Rect.Dx() }

// Height returns the raster height in pixels.
func (r *Raster) Height() int { return r.Rect.Dy() }
