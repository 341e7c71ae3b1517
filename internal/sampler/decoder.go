package sampler

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// ErrEmptyFrame is returned for a zero-length frame.
var ErrEmptyFrame = errors.New("empty frame")

// Decoder turns one compressed frame into pixels in dst.
type Decoder interface {
	Decode(data []byte, dst *Raster) error
}

// JPEGDecoder decodes MJPEG frames. A frame whose size differs from the
// raster is scaled to fit, so sample coordinates stay in raster space.
type JPEGDecoder struct {
	// Scaler is used when sizes differ. Defaults to draw.ApproxBiLinear.
	Scaler draw.Scaler
}

func (d JPEGDecoder) Decode(data []byte, dst *Raster) error {
	if len(data) == 0 {
		return ErrEmptyFrame
	}
	src, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode jpeg: %w", err)
	}

	sb := src.Bounds()
	if sb.Dx() == dst.Width() && sb.Dy() == dst.Height() {
		draw.Copy(dst.RGBA, image.Point{}, src, sb, draw.Src, nil)
		return nil
	}

	s := d.Scaler
	if s == nil {
		s = draw.ApproxBiLinear
	}
	s.Scale(dst.RGBA, dst.Bounds(), src, sb, draw.Src, nil)
	return nil
}
