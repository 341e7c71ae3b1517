package capture

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/blackjack/webcam"

	"github.com/banshee-data/backlight/internal/syncutil"
)

// pixFmtMJPEG is the V4L2 fourcc 'MJPG'.
const pixFmtMJPEG webcam.PixelFormat = 0x47504a4d

// releaseGrace bounds how long Stop waits for frames still held downstream.
const releaseGrace = 500 * time.Millisecond

// webcamSensor drives a V4L2 device through github.com/blackjack/webcam.
// Frames alias the driver's mmap buffers and are queued back to the driver
// from their release hook.
type webcamSensor struct {
	cam    *webcam.Webcam
	device string

	mu          sync.Mutex
	cond        *syncutil.Cond
	outstanding int
	streaming   bool
	seq         uint64
}

// OpenWebcam opens a V4L2 capture device.
func OpenWebcam(device string) (Sensor, error) {
	cam, err := webcam.Open(device)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	s := &webcamSensor{cam: cam, device: device}
	s.cond = syncutil.NewCond(&s.mu)
	return s, nil
}

func (s *webcamSensor) Configure(st Settings) error {
	if _, ok := s.cam.GetSupportedFormats()[pixFmtMJPEG]; !ok {
		return fmt.Errorf("%s: device does not support MJPEG", s.device)
	}
	_, w, h, err := s.cam.SetImageFormat(pixFmtMJPEG, uint32(st.Width), uint32(st.Height))
	if err != nil {
		return fmt.Errorf("%s: set format %dx%d: %w", s.device, st.Width, st.Height, err)
	}
	if int(w) != st.Width || int(h) != st.Height {
		return fmt.Errorf("%s: device negotiated %dx%d, want %dx%d", s.device, w, h, st.Width, st.Height)
	}
	if st.BufferCount > 0 {
		if err := s.cam.SetBufferCount(uint32(st.BufferCount)); err != nil {
			return fmt.Errorf("%s: set buffer count: %w", s.device, err)
		}
	}
	if st.FPS > 0 {
		if err := s.cam.SetFramerate(float32(st.FPS)); err != nil {
			return fmt.Errorf("%s: set framerate: %w", s.device, err)
		}
	}
	for _, c := range st.Controls {
		if err := s.cam.SetControl(webcam.ControlID(c.ID), c.Value); err != nil {
			return fmt.Errorf("%s: set control %s=%d: %w", s.device, c.Name, c.Value, err)
		}
	}
	return nil
}

func (s *webcamSensor) Start() error {
	if err := s.cam.StartStreaming(); err != nil {
		return fmt.Errorf("%s: start streaming: %w", s.device, err)
	}
	s.mu.Lock()
	s.streaming = true
	s.mu.Unlock()
	return nil
}

func (s *webcamSensor) Capture(timeout time.Duration) (*Frame, error) {
	secs := uint32((timeout + time.Second - 1) / time.Second)
	if err := s.cam.WaitForFrame(secs); err != nil {
		var te *webcam.Timeout
		if errors.As(err, &te) {
			return nil, ErrCaptureTimeout
		}
		return nil, fmt.Errorf("%s: wait for frame: %w", s.device, err)
	}

	data, index, err := s.cam.GetFrame()
	if err != nil {
		return nil, fmt.Errorf("%s: dequeue frame: %w", s.device, err)
	}
	if len(data) == 0 {
		s.cam.ReleaseFrame(index)
		return nil, ErrCaptureTimeout
	}

	s.mu.Lock()
	s.outstanding++
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	return NewFrame(data, seq, func() { s.requeue(index) }), nil
}

func (s *webcamSensor) requeue(index uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.streaming {
		s.cam.ReleaseFrame(index)
	}
	s.outstanding--
	s.cond.Broadcast()
}

// Stop waits briefly for downstream holders to let go of mapped buffers
// before turning the stream off.
func (s *webcamSensor) Stop() error {
	deadline := time.Now().Add(releaseGrace)
	s.mu.Lock()
	for s.outstanding > 0 {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		s.cond.WaitTimeout(remaining)
	}
	s.streaming = false
	s.mu.Unlock()

	if err := s.cam.StopStreaming(); err != nil {
		return fmt.Errorf("%s: stop streaming: %w", s.device, err)
	}
	return nil
}

func (s *webcamSensor) Close() error {
	return s.cam.Close()
}

// ControlInfo describes one control exposed by a device.
type ControlInfo struct {
	ID   uint32
	Name string
	Min  int32
	Max  int32
}

// ListControls opens device and reports its controls sorted by id.
func ListControls(device string) ([]ControlInfo, error) {
	cam, err := webcam.Open(device)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	defer cam.Close()

	var out []ControlInfo
	for id, c := range cam.GetControls() {
		out = append(out, ControlInfo{ID: uint32(id), Name: c.Name, Min: c.Min, Max: c.Max})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
