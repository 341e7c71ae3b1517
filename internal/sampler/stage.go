package sampler

import (
	"fmt"
	"time"

	"github.com/banshee-data/backlight/internal/capture"
	"github.com/banshee-data/backlight/internal/colorpool"
	"github.com/banshee-data/backlight/internal/geometry"
	"github.com/banshee-data/backlight/internal/monitoring"
)

// DefaultWaitTimeout bounds each wait on the pool or the relay.
const DefaultWaitTimeout = 30 * time.Millisecond

var logf = monitoring.Component("sampler")

// Liveness is the shared power flag.
type Liveness interface {
	On() bool
}

// Stage turns frames from the relay into filled snapshots.
type Stage struct {
	Relay    *capture.Relay
	Pool     *colorpool.Pool
	Geometry *geometry.SampleWindows
	Decoder  Decoder
	Stats    *monitoring.PipelineStats

	WaitTimeout time.Duration
}

// Run loops until live reports off. Undecodable frames are logged and
// skipped; they never end the loop.
func (s *Stage) Run(live Liveness) error {
	if s.Geometry == nil || s.Decoder == nil {
		return fmt.Errorf("sampler: geometry and decoder are required")
	}
	timeout := s.WaitTimeout
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	raster := NewRaster(s.Geometry.Width, s.Geometry.Height)

	for live.On() {
		buf, ok := s.Pool.Empty.Acquire(live, colorpool.OwnerSampler, timeout)
		if !ok {
			continue
		}

		frame := s.take(live, timeout)
		if frame == nil {
			s.Pool.Empty.Release(buf, colorpool.OwnerSampler)
			break
		}

		err := s.Decoder.Decode(frame.Data, raster)
		seq := frame.Seq
		frame.Release()
		if err != nil {
			s.Stats.DecodeFailures.Add(1)
			logf("dropping frame %d: %v", seq, err)
			s.Pool.Empty.Release(buf, colorpool.OwnerSampler)
			continue
		}
		s.Stats.FramesDecoded.Add(1)

		Sample(raster, s.Geometry, buf)

		if !live.On() {
			s.Pool.Empty.Release(buf, colorpool.OwnerSampler)
			break
		}
		if d := s.Pool.Filled.Publish(buf, colorpool.OwnerSampler); d != nil {
			s.Stats.SnapshotsDisplaced.Add(1)
			s.Pool.Empty.Release(d, colorpool.OwnerSampler)
		}
		s.Stats.SnapshotsPublished.Add(1)
	}
	return nil
}

func (s *Stage) take(live Liveness, timeout time.Duration) *capture.Frame {
	for live.On() {
		if f, ok := s.Relay.Take(live, timeout); ok {
			return f
		}
	}
	return nil
}
