package capture

import (
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/backlight/internal/monitoring"
)

// DefaultCaptureTimeout bounds a single Sensor.Capture call.
const DefaultCaptureTimeout = time.Second

var logf = monitoring.Component("capture")

// Stage drives the sensor for one power cycle and feeds the relay.
type Stage struct {
	Open     OpenFunc
	Device   string
	Settings Settings
	Relay    *Relay
	Stats    *monitoring.PipelineStats

	// CaptureTimeout defaults to DefaultCaptureTimeout.
	CaptureTimeout time.Duration
}

// Run opens and starts the sensor, then publishes frames until live reports
// off. Open, configure and start failures are returned; so is a capture
// error other than a timeout. The relay is drained and the sensor closed
// before Run returns.
func (s *Stage) Run(live Liveness) (err error) {
	sensor, err := s.Open(s.Device)
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	defer func() {
		if cerr := sensor.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("capture: close: %w", cerr)
		}
	}()

	if err := sensor.Configure(s.Settings); err != nil {
		return fmt.Errorf("capture: configure: %w", err)
	}
	if err := sensor.Start(); err != nil {
		return fmt.Errorf("capture: start: %w", err)
	}
	logf("streaming %dx%d from %s", s.Settings.Width, s.Settings.Height, s.Device)

	timeout := s.CaptureTimeout
	if timeout <= 0 {
		timeout = DefaultCaptureTimeout
	}

	runErr := s.loop(live, sensor, timeout)

	dropped := s.Relay.Drain()
	if err := sensor.Stop(); err != nil && runErr == nil {
		runErr = fmt.Errorf("capture: stop: %w", err)
	}
	logf("stopped (drained %d frame(s))", dropped)
	return runErr
}

func (s *Stage) loop(live Liveness, sensor Sensor, timeout time.Duration) error {
	for live.On() {
		f, err := sensor.Capture(timeout)
		if errors.Is(err, ErrCaptureTimeout) {
			continue
		}
		if err != nil {
			return fmt.Errorf("capture: %w", err)
		}
		if !live.On() {
			f.Release()
			break
		}
		s.Stats.FramesCaptured.Add(1)
		if s.Relay.Publish(f) {
			s.Stats.FramesDisplaced.Add(1)
		}
	}
	return nil
}
