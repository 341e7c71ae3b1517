package render

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

// MockStrip is an in-memory Strip that keeps a copy of every rendered frame.
type MockStrip struct {
	mu sync.Mutex

	// BuildErr is returned by the BuildFunc from Builder.
	BuildErr error
	// RenderErr is returned by the next Render call if set.
	RenderErr error

	order  ChannelOrder
	fb     []byte
	frames [][]byte
	builds int
	closed bool
}

// NewMockStrip returns a strip of count LEDs.
func NewMockStrip(count int, order ChannelOrder) *MockStrip {
	if order == "" {
		order = OrderRGB
	}
	return &MockStrip{order: order, fb: make([]byte, count*BytesPerLED)}
}

// Builder returns a BuildFunc handing out this strip, resized to the
// requested count.
func (m *MockStrip) Builder() BuildFunc {
	return func(cfg ChannelConfig) (Strip, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.BuildErr != nil {
			return nil, m.BuildErr
		}
		m.builds++
		m.closed = false
		if cfg.Order != "" {
			m.order = cfg.Order
		}
		if n := cfg.Count * BytesPerLED; len(m.fb) != n {
			m.fb = make([]byte, n)
		}
		return m, nil
	}
}

func (m *MockStrip) FrameBuffer() []byte { return m.fb }

func (m *MockStrip) Order() ChannelOrder { return m.order }

func (m *MockStrip) Render() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RenderErr != nil {
		err := m.RenderErr
		m.RenderErr = nil
		return err
	}
	m.frames = append(m.frames, append([]byte(nil), m.fb...))
	return nil
}

func (m *MockStrip) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Frames returns copies of every rendered frame.
func (m *MockStrip) Frames() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.frames...)
}

// LED returns the channels of LED i in the given frame.
func (m *MockStrip) LED(frame []byte, i int) (r, g, b uint8) {
	return m.Order().Get(frame[i*BytesPerLED:])
}

// Closed reports whether Close was called since the last build.
func (m *MockStrip) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Builds counts successful BuildFunc calls.
func (m *MockStrip) Builds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.builds
}

// TestableSerialPort implements SerialPorter with configurable behaviour for
// testing the strip driver.
type TestableSerialPort struct {
	mu sync.Mutex

	// WriteBuffer captures data written to the port
	WriteBuffer *bytes.Buffer

	// WriteLatency adds a delay to each Write call
	WriteLatency time.Duration

	// WriteError is returned by the next Write call if set
	WriteError error

	// CloseError is returned by Close if set
	CloseError error

	// Closed indicates whether Close was called
	Closed bool

	// WriteCalls records the number of Write calls
	WriteCalls int
}

// NewTestableSerialPort creates a new TestableSerialPort for testing.
func NewTestableSerialPort() *TestableSerialPort {
	return &TestableSerialPort{WriteBuffer: bytes.NewBuffer(nil)}
}

// Write writes to the write buffer, optionally simulating latency and errors.
func (t *TestableSerialPort) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.WriteCalls++

	if t.Closed {
		return 0, errors.New("serial port closed")
	}

	if t.WriteError != nil {
		err := t.WriteError
		t.WriteError = nil
		return 0, err
	}

	if t.WriteLatency > 0 {
		t.mu.Unlock()
		time.Sleep(t.WriteLatency)
		t.mu.Lock()
	}

	return t.WriteBuffer.Write(p)
}

// Close marks the port as closed.
func (t *TestableSerialPort) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.Closed = true
	return t.CloseError
}
