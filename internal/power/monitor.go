package power

import (
	"context"
	"fmt"
	"time"

	"github.com/banshee-data/backlight/internal/monitoring"
)

const (
	// DefaultPollTimeout bounds each edge wait; the level is re-read after
	// every wait even without an edge.
	DefaultPollTimeout = 10 * time.Second
	// DefaultMaxFailures is the number of consecutive read errors tolerated.
	DefaultMaxFailures = 3
	// DefaultBackoff is the pause after a failed read.
	DefaultBackoff = 100 * time.Millisecond
)

var logf = monitoring.Component("power")

// Monitor copies the sense line into the gate.
type Monitor struct {
	Sense Sense
	Gate  *Gate

	PollTimeout time.Duration
	MaxFailures int
	Backoff     time.Duration
}

// Run reads the line until ctx is done. It returns an error once
// MaxFailures consecutive reads have failed. On return the gate is off.
func (m *Monitor) Run(ctx context.Context) error {
	poll := m.PollTimeout
	if poll <= 0 {
		poll = DefaultPollTimeout
	}
	maxFailures := m.MaxFailures
	if maxFailures <= 0 {
		maxFailures = DefaultMaxFailures
	}
	backoff := m.Backoff
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	defer m.Gate.Set(false)

	failures := 0
	for {
		level, err := m.Sense.Level()
		if err != nil {
			failures++
			logf("read failed (%d/%d): %v", failures, maxFailures, err)
			if failures >= maxFailures {
				return fmt.Errorf("power: sense line unreadable after %d attempts: %w", failures, err)
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			continue
		}
		failures = 0

		if m.Gate.Set(level) {
			if level {
				logf("power on")
			} else {
				logf("power off")
			}
		}

		if _, err := m.Sense.WaitForEdge(ctx, poll); err != nil {
			logf("edge wait failed: %v", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
