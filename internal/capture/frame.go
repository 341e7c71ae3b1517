// Package capture owns the video sensor side of the pipeline: the
// reference-counted compressed frame, the latest-wins relay that hands frames
// to the sampler, and the stage goroutine that drives the sensor.
package capture

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Frame is one compressed image as returned by the sensor. Data may alias a
// driver buffer, so it is only valid until the last reference is released.
type Frame struct {
	Data       []byte
	Seq        uint64
	CapturedAt time.Time

	refs    atomic.Int32
	release func()
}

// NewFrame wraps data with a single reference. release, if non-nil, runs
// exactly once when the reference count reaches zero.
func NewFrame(data []byte, seq uint64, release func()) *Frame {
	f := &Frame{Data: data, Seq: seq, CapturedAt: time.Now(), release: release}
	f.refs.Store(1)
	return f
}

// Retain adds a reference and returns f.
func (f *Frame) Retain() *Frame {
	if f.refs.Add(1) <= 1 {
		panic(fmt.Sprintf("capture: retain of released frame %d", f.Seq))
	}
	return f
}

// Release drops a reference. The driver buffer is handed back when the last
// one goes.
func (f *Frame) Release() {
	switch n := f.refs.Add(-1); {
	case n == 0:
		f.Data = nil
		if f.release != nil {
			f.release()
		}
	case n < 0:
		panic(fmt.Sprintf("capture: frame %d released too many times", f.Seq))
	}
}

// Refs returns the current reference count.
func (f *Frame) Refs() int32 { return f.refs.Load() }
