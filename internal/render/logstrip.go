package render

import (
	"time"
)

// LogStrip is a Strip without hardware. It logs the first LED and the mean
// colour at most once per Every, for running the daemon on a workstation.
type LogStrip struct {
	Logf  func(format string, v ...interface{})
	Every time.Duration

	order   ChannelOrder
	fb      []byte
	renders int
	last    time.Time
}

// LogBuilder returns a BuildFunc producing LogStrips.
func LogBuilder(logf func(format string, v ...interface{}), every time.Duration) BuildFunc {
	return func(cfg ChannelConfig) (Strip, error) {
		order := cfg.Order
		if order == "" {
			order = OrderRGB
		}
		return &LogStrip{Logf: logf, Every: every, order: order, fb: make([]byte, cfg.Count*BytesPerLED)}, nil
	}
}

func (s *LogStrip) FrameBuffer() []byte { return s.fb }

func (s *LogStrip) Order() ChannelOrder { return s.order }

func (s *LogStrip) Render() error {
	s.renders++
	if len(s.fb) == 0 || time.Since(s.last) < s.Every {
		return nil
	}
	s.last = time.Now()

	var sr, sg, sb int
	n := len(s.fb) / BytesPerLED
	for i := 0; i < n; i++ {
		r, g, b := s.order.Get(s.fb[i*BytesPerLED:])
		sr, sg, sb = sr+int(r), sg+int(g), sb+int(b)
	}
	r0, g0, b0 := s.order.Get(s.fb)
	s.Logf("render %d: led0=#%02x%02x%02x mean=#%02x%02x%02x", s.renders, r0, g0, b0, sr/n, sg/n, sb/n)
	return nil
}

func (s *LogStrip) Close() error {
	s.Logf("closed after %d renders", s.renders)
	return nil
}
