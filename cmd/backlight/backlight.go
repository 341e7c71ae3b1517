// Command backlight runs the ambient light pipeline: it samples the screen
// edges from a camera and drives an LED strip to match, while the power
// sense line says the display is on.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/backlight/internal/capture"
	"github.com/banshee-data/backlight/internal/config"
	"github.com/banshee-data/backlight/internal/db"
	"github.com/banshee-data/backlight/internal/monitoring"
	"github.com/banshee-data/backlight/internal/pipeline"
	"github.com/banshee-data/backlight/internal/power"
	"github.com/banshee-data/backlight/internal/render"
	"github.com/banshee-data/backlight/internal/version"
)

var (
	configPath  = flag.String("config", config.DefaultConfigPath, "Path to the JSON configuration file")
	listen      = flag.String("listen", ":8080", "Listen address for the debug server (empty to disable)")
	dbPath      = flag.String("db", "backlight.db", "SQLite file for session telemetry (empty to disable)")
	devMode     = flag.Bool("dev", false, "Run with a synthetic camera, a logging strip and a power line toggled by SIGUSR1")
	showVersion = flag.Bool("version", false, "Print the version and exit")
)

// devCyclePeriod is how many frames the synthetic camera takes to rotate its
// border colours once.
const devCyclePeriod = 240

// buildOptions turns the configuration into pipeline options without any
// hardware attached.
func buildOptions(cfg *config.Config) (pipeline.Options, error) {
	geom, err := cfg.Geometry()
	if err != nil {
		return pipeline.Options{}, err
	}
	layout, err := cfg.Layout()
	if err != nil {
		return pipeline.Options{}, err
	}
	settings, err := cfg.CaptureSettings()
	if err != nil {
		return pipeline.Options{}, err
	}
	channel, err := cfg.ChannelConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	channel.Count = layout.Total()
	return pipeline.Options{
		Geometry:     geom,
		Layout:       layout,
		Device:       cfg.GetDevice(),
		Settings:     settings,
		Channel:      channel,
		WaitTimeout:  cfg.GetWaitTimeout(),
		TickInterval: cfg.GetTickInterval(),
		IdleTimeout:  cfg.GetIdleTimeout(),
		ParkTimeout:  cfg.GetParkTimeout(),
		MaxSteps:     cfg.GetMaxSteps(),
	}, nil
}

// devHardware attaches the synthetic camera and logging strip and returns
// a sense line that starts high.
func devHardware(opts *pipeline.Options) *power.MockSense {
	fps := opts.Settings.FPS
	if fps <= 0 {
		fps = 30
	}
	sensor := capture.NewMockSensor(
		capture.ColorCycle(opts.Settings.Width, opts.Settings.Height, devCyclePeriod),
		time.Second/time.Duration(fps),
	)
	opts.OpenSensor = sensor.Opener()
	opts.BuildStrip = render.LogBuilder(monitoring.Component("leds"), 2*time.Second)
	return power.NewMockSense(true)
}

// realHardware attaches the webcam, the serial strip and the GPIO line.
func realHardware(cfg *config.Config, opts *pipeline.Options) (power.Sense, error) {
	opts.OpenSensor = capture.OpenWebcam
	opts.BuildStrip = render.OpenAdalight
	sense, err := power.OpenGPIO(cfg.GPIO())
	if err != nil {
		return nil, fmt.Errorf("failed to open power sense line: %w", err)
	}
	return sense, nil
}

// toggleOnSignal flips the mock sense line on every SIGUSR1.
func toggleOnSignal(ctx context.Context, sense *power.MockSense) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGUSR1)
	defer signal.Stop(sig)
	for {
		select {
		case <-sig:
			log.Printf("SIGUSR1: power sense now %v", sense.Toggle())
		case <-ctx.Done():
			return
		}
	}
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	log.Printf("backlight %s", version.String())

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	opts, err := buildOptions(cfg)
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var sense power.Sense
	if *devMode {
		mock := devHardware(&opts)
		go toggleOnSignal(ctx, mock)
		sense = mock
	} else {
		sense, err = realHardware(cfg, &opts)
		if err != nil {
			log.Fatal(err)
		}
	}
	defer sense.Close()

	var store *db.DB
	if *dbPath != "" {
		store, err = db.Open(*dbPath)
		if err != nil {
			log.Fatalf("failed to open telemetry database: %v", err)
		}
		defer store.Close()
		opts.Sessions = store
	}

	gate := power.NewGate()
	p, err := pipeline.New(gate, opts)
	if err != nil {
		log.Fatalf("failed to build pipeline: %v", err)
	}

	var (
		wg       sync.WaitGroup
		failMu   sync.Mutex
		failures []error
	)
	fail := func(err error) {
		failMu.Lock()
		failures = append(failures, err)
		failMu.Unlock()
		cancel()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		mon := &power.Monitor{Sense: sense, Gate: gate, PollTimeout: cfg.GetPollTimeout()}
		if err := mon.Run(ctx); err != nil {
			fail(fmt.Errorf("power monitor: %w", err))
		}
		log.Print("power monitor stopped")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := p.Run(ctx); err != nil {
			fail(fmt.Errorf("pipeline: %w", err))
		}
		log.Print("pipeline stopped")
	}()

	if *listen != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()

			mux := http.NewServeMux()
			p.AttachAdminRoutes(mux)
			if store != nil {
				if err := store.AttachAdminRoutes(mux); err != nil {
					log.Printf("failed to attach database admin routes: %v", err)
				}
			}
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})

			server := &http.Server{Addr: *listen, Handler: mux}
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					fail(fmt.Errorf("http server: %w", err))
				}
			}()

			<-ctx.Done()
			log.Println("shutting down HTTP server...")
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Printf("HTTP server shutdown error: %v", err)
			}
			log.Printf("HTTP server routine stopped")
		}()
	}

	wg.Wait()
	if err := errors.Join(failures...); err != nil {
		log.Fatalf("exiting: %v", err)
	}
	log.Printf("Graceful shutdown complete")
}
