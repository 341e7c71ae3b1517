// Package config loads the daemon's JSON configuration and turns it into
// the immutable values the pipeline is built from.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/banshee-data/backlight/internal/fsutil"
)

// DefaultConfigPath is where the daemon looks for its configuration.
const DefaultConfigPath = "config/backlight.json"

// ExampleConfigPath is the annotated example shipped with the repository.
const ExampleConfigPath = "config/backlight.example.json"

// Config is the whole daemon configuration. It is read once at startup and
// never changes afterwards. Optional knobs are pointers; the Get* methods
// supply defaults for anything left out of the file.
type Config struct {
	Camera CameraConfig `json:"camera"`

	// Exactly one of SamplePoints and Calibration must be set.
	SamplePoints *EdgePoints `json:"sample_points,omitempty"`
	Calibration  *EdgePoints `json:"calibration,omitempty"`

	LEDs     LEDConfig      `json:"leds"`
	Power    PowerConfig    `json:"power"`
	Pipeline PipelineConfig `json:"pipeline"`
}

// EdgePoints holds [x, y] pixel coordinates per screen edge.
type EdgePoints struct {
	Top    [][2]int `json:"top"`
	Bottom [][2]int `json:"bottom"`
	Left   [][2]int `json:"left"`
	Right  [][2]int `json:"right"`
}

// CameraConfig describes the capture device.
type CameraConfig struct {
	Device      *string          `json:"device,omitempty"`
	Resolution  [2]int           `json:"resolution"`
	FPS         *int             `json:"fps,omitempty"`
	BufferCount *int             `json:"buffer_count,omitempty"`
	Controls    map[string]int32 `json:"controls,omitempty"`
}

// LEDConfig describes the strip wiring and its controller.
type LEDConfig struct {
	Order        []string        `json:"order"`
	Counts       map[string]int  `json:"counts"`
	Orientation  map[string]bool `json:"orientation,omitempty"` // true = natural
	Port         *string         `json:"port,omitempty"`
	BaudRate     *int            `json:"baud_rate,omitempty"`
	Brightness   *int            `json:"brightness,omitempty"` // 0-255
	ChannelOrder *string         `json:"channel_order,omitempty"`
}

// PowerConfig selects the power-sense GPIO line.
type PowerConfig struct {
	Chip        *string `json:"chip,omitempty"`
	Line        *int    `json:"line,omitempty"`
	ActiveLow   *bool   `json:"active_low,omitempty"`
	Debounce    *string `json:"debounce,omitempty"`     // duration string like "20ms"
	PollTimeout *string `json:"poll_timeout,omitempty"` // duration string like "10s"
}

// PipelineConfig holds the timing and sampling knobs.
type PipelineConfig struct {
	WaitTimeout  *string  `json:"wait_timeout,omitempty"`
	TickInterval *string  `json:"tick_interval,omitempty"`
	IdleTimeout  *string  `json:"idle_timeout,omitempty"`
	ParkTimeout  *string  `json:"park_timeout,omitempty"`
	MaxSteps     *int     `json:"max_steps,omitempty"`
	KernelSize   *int     `json:"kernel_size,omitempty"`
	KernelSigma  *float64 `json:"kernel_sigma,omitempty"`
}

// Load reads and validates a Config from a JSON file on disk.
func Load(path string) (*Config, error) {
	return LoadFS(fsutil.OSFileSystem{}, path)
}

// LoadFS reads and validates a Config from a JSON file in fsys.
// The file is validated to ensure it has a .json extension and is under the max file size.
func LoadFS(fsys fsutil.FileSystem, path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a Config from JSON.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is complete and consistent. The
// checks that need derived values (edge counts against sample points,
// kernel against resolution) go through the same builders the daemon uses.
func (c *Config) Validate() error {
	if c.Camera.Resolution[0] <= 0 || c.Camera.Resolution[1] <= 0 {
		return fmt.Errorf("camera.resolution must be positive, got %v", c.Camera.Resolution)
	}
	if c.Camera.FPS != nil && *c.Camera.FPS <= 0 {
		return fmt.Errorf("camera.fps must be positive, got %d", *c.Camera.FPS)
	}
	if c.Camera.BufferCount != nil && *c.Camera.BufferCount < 2 {
		return fmt.Errorf("camera.buffer_count must be at least 2, got %d", *c.Camera.BufferCount)
	}

	switch {
	case c.SamplePoints == nil && c.Calibration == nil:
		return errors.New("one of sample_points or calibration is required")
	case c.SamplePoints != nil && c.Calibration != nil:
		return errors.New("sample_points and calibration are mutually exclusive")
	}

	if c.LEDs.Brightness != nil && (*c.LEDs.Brightness < 0 || *c.LEDs.Brightness > 255) {
		return fmt.Errorf("leds.brightness must be between 0 and 255, got %d", *c.LEDs.Brightness)
	}
	if c.Pipeline.MaxSteps != nil && *c.Pipeline.MaxSteps < 1 {
		return fmt.Errorf("pipeline.max_steps must be at least 1, got %d", *c.Pipeline.MaxSteps)
	}
	if c.Pipeline.KernelSigma != nil && *c.Pipeline.KernelSigma <= 0 {
		return fmt.Errorf("pipeline.kernel_sigma must be positive, got %f", *c.Pipeline.KernelSigma)
	}

	for name, d := range map[string]*string{
		"power.debounce":         c.Power.Debounce,
		"power.poll_timeout":     c.Power.PollTimeout,
		"pipeline.wait_timeout":  c.Pipeline.WaitTimeout,
		"pipeline.tick_interval": c.Pipeline.TickInterval,
		"pipeline.idle_timeout":  c.Pipeline.IdleTimeout,
		"pipeline.park_timeout":  c.Pipeline.ParkTimeout,
	} {
		if d == nil || *d == "" {
			continue
		}
		v, err := time.ParseDuration(*d)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", name, *d, err)
		}
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, *d)
		}
	}

	if _, err := c.CaptureSettings(); err != nil {
		return err
	}
	if _, err := c.ChannelConfig(); err != nil {
		return err
	}
	layout, err := c.Layout()
	if err != nil {
		return err
	}
	geom, err := c.Geometry()
	if err != nil {
		return err
	}
	if got, want := geom.Counts(), layout.Counts; got != want {
		return fmt.Errorf("sample point counts %v do not match LED counts %v (top, bottom, left, right)", got, want)
	}
	return nil
}

func durationOr(s *string, def time.Duration) time.Duration {
	if s == nil || *s == "" {
		return def
	}
	d, err := time.ParseDuration(*s)
	if err != nil {
		return def
	}
	return d
}
