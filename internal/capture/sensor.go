package capture

import (
	"errors"
	"time"
)

// ErrCaptureTimeout is returned by Sensor.Capture when no frame arrived in
// time. It is not a failure; the stage simply tries again.
var ErrCaptureTimeout = errors.New("capture: timed out waiting for frame")

// Control is one V4L2 control applied when the sensor is configured.
type Control struct {
	Name  string
	ID    uint32
	Value int32
}

// Settings describes the stream the sensor must produce.
type Settings struct {
	Width       int
	Height      int
	FPS         int
	BufferCount int
	Controls    []Control
}

// Sensor is a video device producing MJPEG frames.
type Sensor interface {
	Configure(s Settings) error
	Start() error
	// Capture blocks for up to timeout and returns the next frame with one
	// reference held by the caller.
	Capture(timeout time.Duration) (*Frame, error)
	Stop() error
	Close() error
}

// OpenFunc opens the sensor at device. The stage calls it once per power
// cycle so each cycle gets a fresh handle.
type OpenFunc func(device string) (Sensor, error)

// Standard V4L2 control ids.
const (
	CtrlBrightness       uint32 = 0x00980900
	CtrlContrast         uint32 = 0x00980901
	CtrlSaturation       uint32 = 0x00980902
	CtrlHue              uint32 = 0x00980903
	CtrlAutoWhiteBalance uint32 = 0x0098090c
	CtrlGamma            uint32 = 0x00980910
	CtrlGain             uint32 = 0x00980913
	CtrlWhiteBalanceTemp uint32 = 0x0098091a
	CtrlSharpness        uint32 = 0x0098091b
	CtrlExposureAuto     uint32 = 0x009a0901
	CtrlExposureAbsolute uint32 = 0x009a0902
)

// ExposureManual is the auto_exposure menu value for fully manual exposure.
const ExposureManual int32 = 1

// ControlIDs maps configuration names to control ids.
var ControlIDs = map[string]uint32{
	"brightness":                CtrlBrightness,
	"contrast":                  CtrlContrast,
	"saturation":                CtrlSaturation,
	"hue":                       CtrlHue,
	"white_balance_automatic":   CtrlAutoWhiteBalance,
	"gamma":                     CtrlGamma,
	"gain":                      CtrlGain,
	"white_balance_temperature": CtrlWhiteBalanceTemp,
	"sharpness":                 CtrlSharpness,
	"auto_exposure":             CtrlExposureAuto,
	"exposure_time_absolute":    CtrlExposureAbsolute,
}

// controlOrder is the order controls are applied in. Automatic modes must be
// switched off before the manual values they override are written.
var controlOrder = []string{
	"auto_exposure",
	"white_balance_automatic",
	"brightness",
	"contrast",
	"saturation",
	"hue",
	"gamma",
	"gain",
	"sharpness",
	"white_balance_temperature",
	"exposure_time_absolute",
}

// ControlsFromMap converts name→value pairs to Controls in apply order.
// Unknown names are reported as an error.
func ControlsFromMap(m map[string]int32) ([]Control, error) {
	for name := range m {
		if _, ok := ControlIDs[name]; !ok {
			return nil, &UnknownControlError{Name: name}
		}
	}
	out := make([]Control, 0, len(m))
	for _, name := range controlOrder {
		if v, ok := m[name]; ok {
			out = append(out, Control{Name: name, ID: ControlIDs[name], Value: v})
		}
	}
	return out, nil
}

// UnknownControlError names a control that has no V4L2 id.
type UnknownControlError struct {
	Name string
}

func (e *UnknownControlError) Error() string {
	return "capture: unknown camera control " + e.Name
}
