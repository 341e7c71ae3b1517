package capture

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// MockSensor is an in-memory Sensor for tests and development. Frames come
// from Generate at a fixed Interval.
type MockSensor struct {
	Generate func(seq uint64) []byte
	Interval time.Duration

	// Errors injected into the corresponding calls.
	OpenErr      error
	ConfigureErr error
	StartErr     error

	mu        sync.Mutex
	opens     int
	settings  Settings
	streaming bool
	closed    bool
	seq       uint64
	captured  int
	released  int
}

// NewMockSensor returns a sensor producing gen(seq) every interval.
func NewMockSensor(gen func(seq uint64) []byte, interval time.Duration) *MockSensor {
	return &MockSensor{Generate: gen, Interval: interval}
}

// Opener returns an OpenFunc that hands out this sensor, re-arming it on
// each call.
func (m *MockSensor) Opener() OpenFunc {
	return func(string) (Sensor, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.OpenErr != nil {
			return nil, m.OpenErr
		}
		m.opens++
		m.closed = false
		return m, nil
	}
}

func (m *MockSensor) Configure(s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ConfigureErr != nil {
		return m.ConfigureErr
	}
	m.settings = s
	return nil
}

func (m *MockSensor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StartErr != nil {
		return m.StartErr
	}
	m.streaming = true
	return nil
}

func (m *MockSensor) Capture(timeout time.Duration) (*Frame, error) {
	if m.Interval > timeout {
		time.Sleep(timeout)
		return nil, ErrCaptureTimeout
	}
	time.Sleep(m.Interval)

	m.mu.Lock()
	m.seq++
	seq := m.seq
	m.captured++
	m.mu.Unlock()

	return NewFrame(m.Generate(seq), seq, func() {
		m.mu.Lock()
		m.released++
		m.mu.Unlock()
	}), nil
}

func (m *MockSensor) Stop() error {
	m.mu.Lock()
	m.streaming = false
	m.mu.Unlock()
	return nil
}

func (m *MockSensor) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// MockStats is what the sensor has observed so far.
type MockStats struct {
	Opens     int
	Captured  int
	Released  int
	Streaming bool
	Closed    bool
	Settings  Settings
}

// Stats returns a copy of the sensor counters.
func (m *MockSensor) Stats() MockStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MockStats{
		Opens:     m.opens,
		Captured:  m.captured,
		Released:  m.released,
		Streaming: m.streaming,
		Closed:    m.closed,
		Settings:  m.settings,
	}
}

// ColorCycle returns a generator of width×height JPEG frames whose four
// borders carry hues 90° apart, rotating once every period frames. Frames
// are encoded lazily and cached.
func ColorCycle(width, height int, period uint64) func(seq uint64) []byte {
	if period == 0 {
		period = 1
	}
	var mu sync.Mutex
	cache := make(map[uint64][]byte, period)

	return func(seq uint64) []byte {
		step := seq % period
		mu.Lock()
		defer mu.Unlock()
		if b, ok := cache[step]; ok {
			return b
		}
		base := 360 * float64(step) / float64(period)
		img := borderImage(width, height, base)
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
			return nil
		}
		cache[step] = buf.Bytes()
		return cache[step]
	}
}

func borderImage(width, height int, baseHue float64) *image.RGBA {
	var edge [4]color.RGBA
	for i := range edge {
		r, g, b := colorful.Hsv(baseHue+90*float64(i), 1, 1).Clamped().RGB255()
		edge[i] = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		fy := float64(y) / float64(height)
		for x := 0; x < width; x++ {
			fx := float64(x) / float64(width)
			// Nearest border wins: top, bottom, left, right.
			d := [4]float64{fy, 1 - fy, fx, 1 - fx}
			best := 0
			for i := 1; i < 4; i++ {
				if d[i] < d[best] {
					best = i
				}
			}
			img.SetRGBA(x, y, edge[best])
		}
	}
	return img
}
