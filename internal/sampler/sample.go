package sampler

import (
	"github.com/banshee-data/backlight/internal/colorpool"
	"github.com/banshee-data/backlight/internal/geometry"
	"github.com/banshee-data/backlight/internal/hsv"
)

// Sample fills every position of dst with the kernel-weighted colour of its
// window. The windows must already be clamped inside r.
func Sample(r *Raster, g *geometry.SampleWindows, dst *colorpool.Snapshot) {
	k := g.Kernel
	pix, stride := r.Pix, r.Stride
	for _, e := range geometry.Edges {
		out := dst.Colors[e]
		for i, w := range g.Windows[e] {
			out[i] = convolve(pix, stride, w, k)
		}
	}
}

func convolve(pix []byte, stride int, w geometry.Window, k geometry.Kernel) hsv.Color {
	var r, g, b float64
	for ky := 0; ky < k.Size; ky++ {
		row := (w.TL.Y+ky)*stride + w.TL.X*BytesPerPixel
		weights := k.Weights[ky*k.Size : (ky+1)*k.Size]
		for kx, kw := range weights {
			i := row + kx*BytesPerPixel
			r += kw * float64(pix[i])
			g += kw * float64(pix[i+1])
			b += kw * float64(pix[i+2])
		}
	}
	return hsv.FromRGB(r, g, b)
}
