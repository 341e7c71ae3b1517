package config

import (
	"time"

	"github.com/banshee-data/backlight/internal/capture"
	"github.com/banshee-data/backlight/internal/geometry"
	"github.com/banshee-data/backlight/internal/power"
	"github.com/banshee-data/backlight/internal/render"
	"github.com/banshee-data/backlight/internal/sampler"
)

// DefaultControls are applied before any controls from the file. They pin
// exposure and white balance so the LEDs do not drift with the picture.
var DefaultControls = map[string]int32{
	"auto_exposure":             capture.ExposureManual,
	"exposure_time_absolute":    300,
	"white_balance_automatic":   0,
	"white_balance_temperature": 4100,
	"brightness":                64,
	"contrast":                  80,
	"saturation":                150,
	"hue":                       0,
	"gamma":                     100,
	"gain":                      32,
	"sharpness":                 10,
}

// GetDevice returns the capture device path or the default.
func (c *Config) GetDevice() string {
	if c.Camera.Device == nil || *c.Camera.Device == "" {
		return "/dev/video0"
	}
	return *c.Camera.Device
}

// GetFPS returns the requested frame rate or the default.
func (c *Config) GetFPS() int {
	if c.Camera.FPS == nil {
		return 30
	}
	return *c.Camera.FPS
}

// GetBufferCount returns the driver buffer count or the default.
func (c *Config) GetBufferCount() int {
	if c.Camera.BufferCount == nil {
		return 4
	}
	return *c.Camera.BufferCount
}

// GetControls returns DefaultControls overlaid with the file's controls.
func (c *Config) GetControls() map[string]int32 {
	out := make(map[string]int32, len(DefaultControls)+len(c.Camera.Controls))
	for k, v := range DefaultControls {
		out[k] = v
	}
	for k, v := range c.Camera.Controls {
		out[k] = v
	}
	return out
}

// GetPort returns the strip controller's serial port or the default.
func (c *Config) GetPort() string {
	if c.LEDs.Port == nil || *c.LEDs.Port == "" {
		return "/dev/ttyACM0"
	}
	return *c.LEDs.Port
}

// GetBaudRate returns the serial baud rate or the default.
func (c *Config) GetBaudRate() int {
	if c.LEDs.BaudRate == nil {
		return render.DefaultBaudRate
	}
	return *c.LEDs.BaudRate
}

// GetBrightness returns the global brightness or the default (50%).
func (c *Config) GetBrightness() uint8 {
	if c.LEDs.Brightness == nil {
		return 128
	}
	return uint8(*c.LEDs.Brightness)
}

// GetChannelOrder returns the strip's channel order string or the default.
func (c *Config) GetChannelOrder() string {
	if c.LEDs.ChannelOrder == nil {
		return string(render.OrderRGB)
	}
	return *c.LEDs.ChannelOrder
}

// GetChip returns the GPIO chip name or the default.
func (c *Config) GetChip() string {
	if c.Power.Chip == nil || *c.Power.Chip == "" {
		return "gpiochip0"
	}
	return *c.Power.Chip
}

// GetLine returns the GPIO line offset or the default.
func (c *Config) GetLine() int {
	if c.Power.Line == nil {
		return 17
	}
	return *c.Power.Line
}

// GetActiveLow returns whether the power line is active low.
func (c *Config) GetActiveLow() bool {
	if c.Power.ActiveLow == nil {
		return false
	}
	return *c.Power.ActiveLow
}

// GetDebounce returns the line debounce period (default none).
func (c *Config) GetDebounce() time.Duration {
	return durationOr(c.Power.Debounce, 0)
}

// GetPollTimeout returns how long to wait for an edge before re-reading the
// power level.
func (c *Config) GetPollTimeout() time.Duration {
	return durationOr(c.Power.PollTimeout, power.DefaultPollTimeout)
}

// GetWaitTimeout returns the bounded wait used by the relay and pools.
func (c *Config) GetWaitTimeout() time.Duration {
	return durationOr(c.Pipeline.WaitTimeout, sampler.DefaultWaitTimeout)
}

// GetTickInterval returns the renderer's wait while a transition runs.
func (c *Config) GetTickInterval() time.Duration {
	return durationOr(c.Pipeline.TickInterval, render.DefaultTickInterval)
}

// GetIdleTimeout returns the renderer's wait once the target is reached.
func (c *Config) GetIdleTimeout() time.Duration {
	return durationOr(c.Pipeline.IdleTimeout, render.DefaultIdleTimeout)
}

// GetParkTimeout returns the re-check interval while parked waiting for power.
func (c *Config) GetParkTimeout() time.Duration {
	return durationOr(c.Pipeline.ParkTimeout, 10*time.Second)
}

// GetMaxSteps returns the number of ticks per transition.
func (c *Config) GetMaxSteps() int {
	if c.Pipeline.MaxSteps == nil {
		return render.DefaultMaxSteps
	}
	return *c.Pipeline.MaxSteps
}

// GetKernelSize returns the weighting kernel side length.
func (c *Config) GetKernelSize() int {
	if c.Pipeline.KernelSize == nil {
		return geometry.DefaultKernelSize
	}
	return *c.Pipeline.KernelSize
}

// GetKernelSigma returns the Gaussian sigma.
func (c *Config) GetKernelSigma() float64 {
	if c.Pipeline.KernelSigma == nil {
		return geometry.DefaultKernelSigma
	}
	return *c.Pipeline.KernelSigma
}
