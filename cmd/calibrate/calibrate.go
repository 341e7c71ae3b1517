// Command calibrate grabs one frame from the camera and writes it as a PNG
// with every sample window outlined, so sample points can be checked
// against the screen.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"time"

	"github.com/banshee-data/backlight/internal/capture"
	"github.com/banshee-data/backlight/internal/config"
	"github.com/banshee-data/backlight/internal/fsutil"
	"github.com/banshee-data/backlight/internal/geometry"
	"github.com/banshee-data/backlight/internal/sampler"
)

var (
	configPath   = flag.String("config", config.DefaultConfigPath, "Path to the JSON configuration file")
	outPath      = flag.String("out", "calibration.png", "Output PNG path")
	warmup       = flag.Int("warmup", 30, "Frames to discard while exposure settles")
	listControls = flag.Bool("controls", false, "List the camera's controls and exit")
	devMode      = flag.Bool("dev", false, "Use the synthetic camera")
)

var outline = color.RGBA{R: 255, A: 255}

// drawWindows outlines each window on img.
func drawWindows(img *image.RGBA, g *geometry.SampleWindows) int {
	n := 0
	for _, e := range geometry.Edges {
		for _, w := range g.Windows[e] {
			for x := w.TL.X; x <= w.BR.X; x++ {
				img.SetRGBA(x, w.TL.Y, outline)
				img.SetRGBA(x, w.BR.Y, outline)
			}
			for y := w.TL.Y; y <= w.BR.Y; y++ {
				img.SetRGBA(w.TL.X, y, outline)
				img.SetRGBA(w.BR.X, y, outline)
			}
			n++
		}
	}
	return n
}

// grab discards skip frames and returns the next one decoded.
func grab(open capture.OpenFunc, device string, settings capture.Settings, skip int) (*sampler.Raster, error) {
	sensor, err := open(device)
	if err != nil {
		return nil, err
	}
	defer sensor.Close()
	if err := sensor.Configure(settings); err != nil {
		return nil, fmt.Errorf("configure: %w", err)
	}
	if err := sensor.Start(); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	defer sensor.Stop()

	raster := sampler.NewRaster(settings.Width, settings.Height)
	for i := 0; ; i++ {
		f, err := sensor.Capture(capture.DefaultCaptureTimeout)
		if err != nil {
			return nil, fmt.Errorf("capture frame %d: %w", i, err)
		}
		if i < skip {
			f.Release()
			continue
		}
		err = sampler.JPEGDecoder{}.Decode(f.Data, raster)
		f.Release()
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return raster, nil
	}
}

func writePNG(fsys fsutil.FileSystem, path string, img image.Image) error {
	f, err := fsys.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if *listControls {
		controls, err := capture.ListControls(cfg.GetDevice())
		if err != nil {
			log.Fatalf("failed to list controls: %v", err)
		}
		for _, c := range controls {
			fmt.Printf("0x%08x  %-40s [%d, %d]\n", c.ID, c.Name, c.Min, c.Max)
		}
		return
	}

	geom, err := cfg.Geometry()
	if err != nil {
		log.Fatalf("invalid sample geometry: %v", err)
	}
	settings, err := cfg.CaptureSettings()
	if err != nil {
		log.Fatalf("invalid camera settings: %v", err)
	}

	open := capture.OpenWebcam
	if *devMode {
		open = capture.NewMockSensor(capture.ColorCycle(settings.Width, settings.Height, 240), 10*time.Millisecond).Opener()
	}

	raster, err := grab(open, cfg.GetDevice(), settings, *warmup)
	if err != nil {
		log.Fatalf("failed to grab frame: %v", err)
	}
	n := drawWindows(raster.RGBA, geom)
	if err := writePNG(fsutil.OSFileSystem{}, *outPath, raster.RGBA); err != nil {
		log.Fatalf("failed to write %s: %v", *outPath, err)
	}
	log.Printf("wrote %s with %d sample windows", *outPath, n)
}
