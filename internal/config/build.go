package config

import (
	"fmt"
	"image"

	"github.com/banshee-data/backlight/internal/capture"
	"github.com/banshee-data/backlight/internal/geometry"
	"github.com/banshee-data/backlight/internal/power"
	"github.com/banshee-data/backlight/internal/render"
)

func (p *EdgePoints) byEdge() [geometry.NumEdges][][2]int {
	return [geometry.NumEdges][][2]int{
		geometry.Top:    p.Top,
		geometry.Bottom: p.Bottom,
		geometry.Left:   p.Left,
		geometry.Right:  p.Right,
	}
}

func toPoints(raw [][2]int) []image.Point {
	pts := make([]image.Point, len(raw))
	for i, p := range raw {
		pts[i] = image.Pt(p[0], p[1])
	}
	return pts
}

// Kernel builds the weighting kernel.
func (c *Config) Kernel() (geometry.Kernel, error) {
	return geometry.GaussianKernel(c.GetKernelSize(), c.GetKernelSigma())
}

// SampleCenters returns the window centre points per edge, either as listed
// in sample_points or generated along the calibration splines with one point
// per LED.
func (c *Config) SampleCenters() ([geometry.NumEdges][]image.Point, error) {
	var out [geometry.NumEdges][]image.Point
	if c.SamplePoints != nil {
		for e, raw := range c.SamplePoints.byEdge() {
			out[e] = toPoints(raw)
		}
		return out, nil
	}
	if c.Calibration == nil {
		return out, fmt.Errorf("no sample points configured")
	}

	counts, err := c.ledCounts()
	if err != nil {
		return out, err
	}
	for e, raw := range c.Calibration.byEdge() {
		edge := geometry.Edge(e)
		if counts[e] == 0 {
			continue
		}
		pts, err := geometry.SplinePoints(edge, toPoints(raw), counts[e])
		if err != nil {
			return out, fmt.Errorf("calibration: %w", err)
		}
		out[e] = pts
	}
	return out, nil
}

// Geometry derives the clamped sample windows for the configured resolution.
func (c *Config) Geometry() (*geometry.SampleWindows, error) {
	k, err := c.Kernel()
	if err != nil {
		return nil, err
	}
	centers, err := c.SampleCenters()
	if err != nil {
		return nil, err
	}
	return geometry.NewSampleWindows(centers, k, c.Camera.Resolution[0], c.Camera.Resolution[1])
}

func (c *Config) ledCounts() ([geometry.NumEdges]int, error) {
	var counts [geometry.NumEdges]int
	for name, n := range c.LEDs.Counts {
		e, err := geometry.ParseEdge(name)
		if err != nil {
			return counts, fmt.Errorf("leds.counts: %w", err)
		}
		if n < 0 {
			return counts, fmt.Errorf("leds.counts.%s must not be negative, got %d", name, n)
		}
		counts[e] = n
	}
	return counts, nil
}

// Layout builds the LED layout from order, counts and orientation.
func (c *Config) Layout() (*render.Layout, error) {
	if len(c.LEDs.Order) != geometry.NumEdges {
		return nil, fmt.Errorf("leds.order must list all %d edges, got %v", geometry.NumEdges, c.LEDs.Order)
	}
	var order [geometry.NumEdges]geometry.Edge
	for i, name := range c.LEDs.Order {
		e, err := geometry.ParseEdge(name)
		if err != nil {
			return nil, fmt.Errorf("leds.order: %w", err)
		}
		order[i] = e
	}

	counts, err := c.ledCounts()
	if err != nil {
		return nil, err
	}

	natural := [geometry.NumEdges]bool{true, true, true, true}
	for name, v := range c.LEDs.Orientation {
		e, err := geometry.ParseEdge(name)
		if err != nil {
			return nil, fmt.Errorf("leds.orientation: %w", err)
		}
		natural[e] = v
	}

	layout, err := render.NewLayout(order, counts, natural)
	if err != nil {
		return nil, fmt.Errorf("leds: %w", err)
	}
	if layout.Total() == 0 {
		return nil, fmt.Errorf("leds.counts: strip has no LEDs")
	}
	return layout, nil
}

// CaptureSettings builds the sensor settings.
func (c *Config) CaptureSettings() (capture.Settings, error) {
	ctrls, err := capture.ControlsFromMap(c.GetControls())
	if err != nil {
		return capture.Settings{}, fmt.Errorf("camera.controls: %w", err)
	}
	return capture.Settings{
		Width:       c.Camera.Resolution[0],
		Height:      c.Camera.Resolution[1],
		FPS:         c.GetFPS(),
		BufferCount: c.GetBufferCount(),
		Controls:    ctrls,
	}, nil
}

// ChannelConfig builds the strip settings. Count is filled in from the
// layout by the renderer.
func (c *Config) ChannelConfig() (render.ChannelConfig, error) {
	order, err := render.ParseChannelOrder(c.GetChannelOrder())
	if err != nil {
		return render.ChannelConfig{}, fmt.Errorf("leds.channel_order: %w", err)
	}
	serial := render.PortOptions{BaudRate: c.GetBaudRate()}
	if _, err := serial.Normalize(); err != nil {
		return render.ChannelConfig{}, fmt.Errorf("leds: %w", err)
	}
	return render.ChannelConfig{
		Order:      order,
		Brightness: c.GetBrightness(),
		Port:       c.GetPort(),
		Serial:     serial,
	}, nil
}

// GPIO returns the power-sense line settings.
func (c *Config) GPIO() power.GPIOConfig {
	return power.GPIOConfig{
		Chip:      c.GetChip(),
		Line:      c.GetLine(),
		ActiveLow: c.GetActiveLow(),
		Debounce:  c.GetDebounce(),
	}
}
