package power

import (
	"context"
	"sync"
	"time"
)

// MockSense is a Sense driven from code: tests call Set, the dev daemon
// toggles it from a signal.
type MockSense struct {
	mu       sync.Mutex
	level    bool
	failures int
	failErr  error
	closed   bool

	edges chan struct{}
}

// NewMockSense returns a sense line reporting level.
func NewMockSense(level bool) *MockSense {
	return &MockSense{level: level, edges: make(chan struct{}, 1)}
}

// Set changes the level and raises an edge.
func (m *MockSense) Set(level bool) {
	m.mu.Lock()
	m.level = level
	m.mu.Unlock()
	select {
	case m.edges <- struct{}{}:
	default:
	}
}

// Toggle flips the level and returns the new value.
func (m *MockSense) Toggle() bool {
	m.mu.Lock()
	level := !m.level
	m.mu.Unlock()
	m.Set(level)
	return level
}

// FailNext makes the next n Level calls return err.
func (m *MockSense) FailNext(n int, err error) {
	m.mu.Lock()
	m.failures = n
	m.failErr = err
	m.mu.Unlock()
	select {
	case m.edges <- struct{}{}:
	default:
	}
}

func (m *MockSense) Level() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return false, m.failErr
	}
	return m.level, nil
}

func (m *MockSense) WaitForEdge(ctx context.Context, timeout time.Duration) (bool, error) {
	return waitEdge(ctx, m.edges, timeout), nil
}

func (m *MockSense) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (m *MockSense) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
