package render

import (
	"fmt"
	"time"

	"github.com/banshee-data/backlight/internal/colorpool"
	"github.com/banshee-data/backlight/internal/geometry"
	"github.com/banshee-data/backlight/internal/hsv"
	"github.com/banshee-data/backlight/internal/monitoring"
)

const (
	// DefaultTickInterval is how long the renderer waits for a new snapshot
	// while a transition is still running. Zero polls without blocking, so
	// the strip write paces the transition.
	DefaultTickInterval = time.Duration(0)
	// DefaultIdleTimeout is the wait once the target has been reached.
	DefaultIdleTimeout = 30 * time.Millisecond
)

var logf = monitoring.Component("render")

// Liveness is the shared power flag.
type Liveness interface {
	On() bool
}

// Stage eases the strip towards the latest filled snapshot.
type Stage struct {
	Build   BuildFunc
	Channel ChannelConfig
	Layout  *Layout
	Pool    *colorpool.Pool
	Stats   *monitoring.PipelineStats

	MaxSteps     int
	TickInterval time.Duration
	IdleTimeout  time.Duration
}

// Run opens the strip and renders until live reports off. On the way out it
// blanks every LED, hands its snapshot back to the pool and closes the strip.
func (s *Stage) Run(live Liveness) (err error) {
	cfg := s.Channel
	cfg.Count = s.Layout.Total()
	strip, err := s.Build(cfg)
	if err != nil {
		return fmt.Errorf("render: open strip: %w", err)
	}
	if got, want := len(strip.FrameBuffer()), cfg.Count*BytesPerLED; got != want {
		strip.Close()
		return fmt.Errorf("render: strip frame buffer is %d bytes, want %d", got, want)
	}
	logf("driving %d LEDs", cfg.Count)

	maxSteps := s.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	tick := s.TickInterval
	if tick < 0 {
		tick = 0
	}
	idle := s.IdleTimeout
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}

	var current [geometry.NumEdges][]hsv.Color
	for _, e := range geometry.Edges {
		current[e] = make([]hsv.Color, len(s.Layout.Slots(e)))
	}

	var target *colorpool.Snapshot
	defer func() {
		if target != nil {
			s.Pool.Empty.Release(target, colorpool.OwnerRenderer)
		}
		if berr := blank(strip); berr != nil && err == nil {
			err = berr
		}
		if cerr := strip.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("render: close strip: %w", cerr)
		}
		logf("stopped")
	}()

	i := maxSteps
	for live.On() {
		wait := idle
		if target != nil && i < maxSteps {
			wait = tick
		}

		snap, ok := s.Pool.Filled.Acquire(live, colorpool.OwnerRenderer, wait)
		switch {
		case ok:
			if target != nil {
				s.Pool.Empty.Release(target, colorpool.OwnerRenderer)
			}
			target = snap
			i = 1
		case target != nil && i < maxSteps:
			i++
		default:
			continue
		}

		Blend(&current, &target.Colors, Factor(i, maxSteps))
		Write(strip.FrameBuffer(), strip.Order(), s.Layout, &current)
		if err := strip.Render(); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		s.Stats.Renders.Add(1)
	}
	return nil
}

func blank(strip Strip) error {
	fb := strip.FrameBuffer()
	for i := range fb {
		fb[i] = 0
	}
	if err := strip.Render(); err != nil {
		return fmt.Errorf("render: blank: %w", err)
	}
	return nil
}
