package power

import (
	"context"
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// Sense reads the power-sense input.
type Sense interface {
	// Level reports whether the monitored device is powered.
	Level() (bool, error)
	// WaitForEdge blocks until the level changes, timeout elapses or ctx is
	// done. It reports whether an edge was seen.
	WaitForEdge(ctx context.Context, timeout time.Duration) (bool, error)
	Close() error
}

// GPIOConfig selects the power-sense line.
type GPIOConfig struct {
	Chip      string
	Line      int
	ActiveLow bool
	Debounce  time.Duration
}

type gpioSense struct {
	line  *gpiocdev.Line
	edges chan struct{}
}

// OpenGPIO requests the line as an input with edge events on both edges.
func OpenGPIO(cfg GPIOConfig) (Sense, error) {
	s := &gpioSense{edges: make(chan struct{}, 1)}

	opts := []gpiocdev.LineReqOption{
		gpiocdev.WithConsumer("backlight"),
		gpiocdev.AsInput,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(s.onEvent),
	}
	if cfg.ActiveLow {
		opts = append(opts, gpiocdev.AsActiveLow)
	}
	if cfg.Debounce > 0 {
		opts = append(opts, gpiocdev.WithDebounce(cfg.Debounce))
	}

	line, err := gpiocdev.RequestLine(cfg.Chip, cfg.Line, opts...)
	if err != nil {
		return nil, fmt.Errorf("request %s line %d: %w", cfg.Chip, cfg.Line, err)
	}
	s.line = line
	return s, nil
}

func (s *gpioSense) onEvent(gpiocdev.LineEvent) {
	select {
	case s.edges <- struct{}{}:
	default:
	}
}

func (s *gpioSense) Level() (bool, error) {
	v, err := s.line.Value()
	if err != nil {
		return false, err
	}
	return v == 1, nil
}

func (s *gpioSense) WaitForEdge(ctx context.Context, timeout time.Duration) (bool, error) {
	return waitEdge(ctx, s.edges, timeout), nil
}

func (s *gpioSense) Close() error {
	return s.line.Close()
}

func waitEdge(ctx context.Context, edges <-chan struct{}, timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-edges:
		return true
	case <-t.C:
		return false
	case <-ctx.Done():
		return false
	}
}
