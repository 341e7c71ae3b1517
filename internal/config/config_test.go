package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/backlight/internal/capture"
	"github.com/banshee-data/backlight/internal/fsutil"
	"github.com/banshee-data/backlight/internal/geometry"
	"github.com/banshee-data/backlight/internal/render"
)

const minimalJSON = `{
  "camera": {"resolution": [1280, 720]},
  "sample_points": {
    "top": [[0, 0], [1279, 0]],
    "bottom": [[640, 719]],
    "left": [],
    "right": [[1279, 719]]
  },
  "leds": {
    "order": ["top", "right", "bottom", "left"],
    "counts": {"top": 2, "bottom": 1, "left": 0, "right": 1}
  }
}`

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoad_Minimal(t *testing.T) {
	cfg, err := Load(writeConfig(t, "backlight.json", minimalJSON))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := cfg.GetDevice(); got != "/dev/video0" {
		t.Errorf("GetDevice() = %q", got)
	}
	if got := cfg.GetFPS(); got != 30 {
		t.Errorf("GetFPS() = %d, want 30", got)
	}
	if got := cfg.GetBrightness(); got != 128 {
		t.Errorf("GetBrightness() = %d, want 128", got)
	}
	if got := cfg.GetMaxSteps(); got != 30 {
		t.Errorf("GetMaxSteps() = %d, want 30", got)
	}
	if got := cfg.GetWaitTimeout(); got != 30*time.Millisecond {
		t.Errorf("GetWaitTimeout() = %v", got)
	}
	if got := cfg.GetTickInterval(); got != 0 {
		t.Errorf("GetTickInterval() = %v", got)
	}
	if got := cfg.GetPollTimeout(); got != 10*time.Second {
		t.Errorf("GetPollTimeout() = %v", got)
	}
	if got := cfg.GetKernelSize(); got != 5 {
		t.Errorf("GetKernelSize() = %d", got)
	}

	geom, err := cfg.Geometry()
	if err != nil {
		t.Fatalf("Geometry: %v", err)
	}
	if diff := cmp.Diff([geometry.NumEdges]int{2, 1, 0, 1}, geom.Counts()); diff != "" {
		t.Errorf("Counts mismatch (-want +got):\n%s", diff)
	}
	for _, e := range geometry.Edges {
		for _, w := range geom.Windows[e] {
			if !w.Inside(1280, 720) {
				t.Errorf("%s window %v outside image", e, w)
			}
		}
	}

	layout, err := cfg.Layout()
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if layout.Total() != 4 {
		t.Errorf("Total() = %d, want 4", layout.Total())
	}
	if got := layout.Slot(geometry.Right, 0); got != 2 {
		t.Errorf("right[0] slot = %d, want 2", got)
	}
}

func TestLoad_Example(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", ExampleConfigPath))
	if err != nil {
		t.Fatalf("Load example: %v", err)
	}
	geom, err := cfg.Geometry()
	if err != nil {
		t.Fatalf("Geometry: %v", err)
	}
	layout, err := cfg.Layout()
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if geom.Counts() != layout.Counts {
		t.Errorf("geometry counts %v != layout counts %v", geom.Counts(), layout.Counts)
	}
	ch, err := cfg.ChannelConfig()
	if err != nil {
		t.Fatalf("ChannelConfig: %v", err)
	}
	if ch.Order != render.OrderGRB {
		t.Errorf("channel order = %s, want GRB", ch.Order)
	}
	if got := cfg.GPIO(); got.Debounce != 20*time.Millisecond || got.Line != 17 {
		t.Errorf("GPIO() = %+v", got)
	}
}

func TestSampleCenters_Calibration(t *testing.T) {
	cfg, err := Parse([]byte(`{
  "camera": {"resolution": [640, 480]},
  "calibration": {
    "top": [[0, 10], [320, 10], [640, 10]],
    "bottom": [], "left": [], "right": []
  },
  "leds": {"order": ["top", "bottom", "left", "right"], "counts": {"top": 5}}
}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	centers, err := cfg.SampleCenters()
	if err != nil {
		t.Fatalf("SampleCenters: %v", err)
	}
	if len(centers[geometry.Top]) != 5 {
		t.Fatalf("top centers = %v", centers[geometry.Top])
	}
	if c := centers[geometry.Top][2]; c.X != 320 || c.Y != 10 {
		t.Errorf("middle center = %v, want (320,10)", c)
	}
}

func TestGetControls_MergesDefaults(t *testing.T) {
	cfg := &Config{Camera: CameraConfig{Controls: map[string]int32{"brightness": 10}}}
	got := cfg.GetControls()
	if got["brightness"] != 10 {
		t.Errorf("brightness = %d, want override 10", got["brightness"])
	}
	if got["auto_exposure"] != capture.ExposureManual {
		t.Errorf("auto_exposure default missing: %v", got)
	}
	if DefaultControls["brightness"] != 64 {
		t.Error("defaults were mutated")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			name:    "zero resolution",
			mutate:  func(s string) string { return strings.Replace(s, "[1280, 720]", "[0, 720]", 1) },
			wantErr: "resolution",
		},
		{
			name:    "count mismatch",
			mutate:  func(s string) string { return strings.Replace(s, `"top": 2`, `"top": 3`, 1) },
			wantErr: "do not match",
		},
		{
			name:    "bad order",
			mutate:  func(s string) string { return strings.Replace(s, `"left"]`, `"top"]`, 1) },
			wantErr: "appears twice",
		},
		{
			name:    "unknown edge",
			mutate:  func(s string) string { return strings.Replace(s, `"left": 0`, `"middle": 0`, 1) },
			wantErr: "invalid edge",
		},
		{
			name: "bad duration",
			mutate: func(s string) string {
				return strings.Replace(s, `"leds"`, `"pipeline": {"tick_interval": "soon"}, "leds"`, 1)
			},
			wantErr: "tick_interval",
		},
		{
			name: "even kernel",
			mutate: func(s string) string {
				return strings.Replace(s, `"leds"`, `"pipeline": {"kernel_size": 4}, "leds"`, 1)
			},
			wantErr: "odd",
		},
		{
			name: "unknown control",
			mutate: func(s string) string {
				return strings.Replace(s, `"resolution"`, `"controls": {"zoom": 1}, "resolution"`, 1)
			},
			wantErr: "zoom",
		},
		{
			name: "bad channel order",
			mutate: func(s string) string {
				return strings.Replace(s, `"order"`, `"channel_order": "RGBW", "order"`, 1)
			},
			wantErr: "channel_order",
		},
		{
			name: "both point sources",
			mutate: func(s string) string {
				return strings.Replace(s, `"leds"`, `"calibration": {}, "leds"`, 1)
			},
			wantErr: "mutually exclusive",
		},
		{
			name: "brightness out of range",
			mutate: func(s string) string {
				return strings.Replace(s, `"order"`, `"brightness": 300, "order"`, 1)
			},
			wantErr: "brightness",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.mutate(minimalJSON)))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_PathChecks(t *testing.T) {
	if _, err := Load(writeConfig(t, "backlight.yaml", minimalJSON)); err == nil {
		t.Error("expected error for non-json extension")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	big := writeConfig(t, "big.json", strings.Repeat(" ", 1024*1024+1))
	if _, err := Load(big); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected size error, got %v", err)
	}
	if _, err := Load(writeConfig(t, "broken.json", "{")); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFS_Memory(t *testing.T) {
	m := fsutil.NewMemoryFileSystem()
	m.Add("etc/backlight.json", []byte(minimalJSON))

	cfg, err := LoadFS(m, "etc/backlight.json")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if got := cfg.Camera.Resolution; got != [2]int{1280, 720} {
		t.Errorf("resolution = %v", got)
	}
	if _, err := LoadFS(m, "etc/other.json"); err == nil {
		t.Error("expected error for missing file")
	}
}
