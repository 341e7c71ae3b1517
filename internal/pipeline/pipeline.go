// Package pipeline wires capture, sampling and rendering together and runs
// them once per power cycle.
//
// While the power gate is off the pipeline is parked. When it turns on, the
// pool is recharged and the three stage goroutines start, each opening its
// own hardware handle. When power goes off (or the process is shutting
// down, or a stage fails) every stage finishes its current step, releases
// what it holds and returns; the pipeline records the cycle and parks again.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/backlight/internal/capture"
	"github.com/banshee-data/backlight/internal/colorpool"
	"github.com/banshee-data/backlight/internal/db"
	"github.com/banshee-data/backlight/internal/geometry"
	"github.com/banshee-data/backlight/internal/monitoring"
	"github.com/banshee-data/backlight/internal/power"
	"github.com/banshee-data/backlight/internal/render"
	"github.com/banshee-data/backlight/internal/sampler"
	"github.com/banshee-data/backlight/internal/timeutil"
)

// DefaultParkTimeout is how often a parked pipeline re-checks the gate
// without being woken.
const DefaultParkTimeout = 10 * time.Second

const recordTimeout = 5 * time.Second

var logf = monitoring.Component("pipeline")

// SessionRecorder persists a finished power cycle.
type SessionRecorder interface {
	RecordSession(ctx context.Context, s db.Session) error
}

// Options is everything needed to build a Pipeline. Geometry and Layout
// must agree on the number of entries per edge.
type Options struct {
	Geometry *geometry.SampleWindows
	Layout   *render.Layout

	OpenSensor     capture.OpenFunc
	Device         string
	Settings       capture.Settings
	CaptureTimeout time.Duration

	Decoder sampler.Decoder

	BuildStrip render.BuildFunc
	Channel    render.ChannelConfig

	WaitTimeout  time.Duration
	TickInterval time.Duration
	IdleTimeout  time.Duration
	ParkTimeout  time.Duration
	MaxSteps     int

	// Sessions is optional.
	Sessions SessionRecorder
	Clock    timeutil.Clock
}

// State is what the pipeline is doing right now.
type State string

const (
	StateParked  State = "parked"
	StateRunning State = "running"
	StateStopped State = "stopped"
	StateFailed  State = "failed"
)

// Status is a point-in-time view for the debug pages.
type Status struct {
	State          State       `json:"state"`
	PowerOn        bool        `json:"power_on"`
	Cycles         int         `json:"cycles"`
	CurrentSession string      `json:"current_session,omitempty"`
	LastSession    *db.Session `json:"last_session,omitempty"`
}

// Pipeline owns the relay and pool and runs the stages.
type Pipeline struct {
	gate  *power.Gate
	relay *capture.Relay
	pool  *colorpool.Pool
	stats *monitoring.PipelineStats

	capture *capture.Stage
	sampler *sampler.Stage
	render  *render.Stage

	parkTimeout time.Duration
	sessions    SessionRecorder
	clock       timeutil.Clock

	mu     sync.Mutex
	status Status
}

// New builds a pipeline gated by gate.
func New(gate *power.Gate, opts Options) (*Pipeline, error) {
	if opts.Geometry == nil || opts.Layout == nil {
		return nil, errors.New("pipeline: geometry and layout are required")
	}
	if got, want := opts.Geometry.Counts(), opts.Layout.Counts; got != want {
		return nil, fmt.Errorf("pipeline: sample counts %v do not match LED counts %v", got, want)
	}
	if opts.OpenSensor == nil || opts.BuildStrip == nil {
		return nil, errors.New("pipeline: sensor and strip constructors are required")
	}
	if opts.Decoder == nil {
		opts.Decoder = sampler.JPEGDecoder{}
	}
	if opts.Clock == nil {
		opts.Clock = timeutil.RealClock{}
	}
	if opts.ParkTimeout <= 0 {
		opts.ParkTimeout = DefaultParkTimeout
	}

	p := &Pipeline{
		gate:        gate,
		relay:       capture.NewRelay(),
		pool:        colorpool.New(opts.Geometry.Counts()),
		stats:       &monitoring.PipelineStats{},
		parkTimeout: opts.ParkTimeout,
		sessions:    opts.Sessions,
		clock:       opts.Clock,
		status:      Status{State: StateParked},
	}
	p.capture = &capture.Stage{
		Open:           opts.OpenSensor,
		Device:         opts.Device,
		Settings:       opts.Settings,
		Relay:          p.relay,
		Stats:          p.stats,
		CaptureTimeout: opts.CaptureTimeout,
	}
	p.sampler = &sampler.Stage{
		Relay:       p.relay,
		Pool:        p.pool,
		Geometry:    opts.Geometry,
		Decoder:     opts.Decoder,
		Stats:       p.stats,
		WaitTimeout: opts.WaitTimeout,
	}
	p.render = &render.Stage{
		Build:        opts.BuildStrip,
		Channel:      opts.Channel,
		Layout:       opts.Layout,
		Pool:         p.pool,
		Stats:        p.stats,
		MaxSteps:     opts.MaxSteps,
		TickInterval: opts.TickInterval,
		IdleTimeout:  opts.IdleTimeout,
	}
	return p, nil
}

// cycle is the liveness flag for one power cycle. It goes false for good
// when power drops (even if it comes straight back), the process is
// shutting down, or a stage has failed.
type cycle struct {
	gate    *power.Gate
	gen     uint64
	ctx     context.Context
	aborted atomic.Bool
}

func (c *cycle) On() bool {
	return c.gate.On() && c.gate.Generation() == c.gen && !c.aborted.Load() && c.ctx.Err() == nil
}

// wake pokes every blocked wait so it re-checks liveness.
func (p *Pipeline) wake() {
	p.relay.Wake()
	p.pool.Wake()
}

// Run parks and cycles until ctx is done. A stage failure ends Run with
// that error after the cycle has wound down.
func (p *Pipeline) Run(ctx context.Context) error {
	unregister := p.gate.Register(p.wake)
	defer unregister()
	stop := context.AfterFunc(ctx, p.wake)
	defer stop()

	for {
		p.setState(StateParked)
		if !p.gate.WaitUntilOn(ctx, p.parkTimeout) {
			p.setState(StateStopped)
			return nil
		}
		if err := p.runCycle(ctx); err != nil {
			p.setState(StateFailed)
			return err
		}
		if ctx.Err() != nil {
			p.setState(StateStopped)
			return nil
		}
	}
}

func (p *Pipeline) runCycle(ctx context.Context) error {
	p.pool.Recharge()
	p.stats.Reset()

	sess := db.Session{ID: uuid.NewString(), StartedAt: p.clock.Now()}
	p.mu.Lock()
	p.status.State = StateRunning
	p.status.CurrentSession = sess.ID
	p.status.Cycles++
	p.mu.Unlock()
	logf("cycle %s starting", sess.ID)

	live := &cycle{gate: p.gate, gen: p.gate.Generation(), ctx: ctx}
	stages := []struct {
		name string
		run  func() error
	}{
		{"capture", func() error { return p.capture.Run(live) }},
		{"sampler", func() error { return p.sampler.Run(live) }},
		{"render", func() error { return p.render.Run(live) }},
	}

	errs := make([]error, len(stages))
	var wg sync.WaitGroup
	for i, st := range stages {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := st.run(); err != nil {
				errs[i] = err
				if live.aborted.CompareAndSwap(false, true) {
					logf("%s failed, stopping cycle: %v", st.name, err)
				}
				p.wake()
			}
		}()
	}
	wg.Wait()
	p.relay.Drain()

	err := errors.Join(errs...)
	sess.EndedAt = p.clock.Now()
	sess.Stats = p.stats.Snapshot()
	if err != nil {
		sess.Error = err.Error()
	}
	p.record(ctx, sess)

	if c := p.pool.Census(); c[colorpool.OwnerSampler] != 0 || c[colorpool.OwnerRenderer] != 0 {
		logf("snapshot still held after cycle %s: %v", sess.ID, c)
	}

	p.mu.Lock()
	p.status.CurrentSession = ""
	p.status.LastSession = &sess
	p.mu.Unlock()
	logf("cycle %s stopped after %s: %d frames, %d snapshots, %d renders",
		sess.ID, sess.Duration().Round(time.Millisecond), sess.Stats.FramesCaptured,
		sess.Stats.SnapshotsPublished, sess.Stats.Renders)
	return err
}

func (p *Pipeline) record(ctx context.Context, sess db.Session) {
	if p.sessions == nil {
		return
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := p.sessions.RecordSession(rctx, sess); err != nil {
		logf("failed to record session %s: %v", sess.ID, err)
	}
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.status.State = s
	p.mu.Unlock()
}

// Status returns the current status.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := p.status
	st.PowerOn = p.gate.On()
	return st
}

// Stats returns the live counters for the current cycle.
func (p *Pipeline) Stats() monitoring.StatsSnapshot {
	return p.stats.Snapshot()
}

// Census reports where the snapshot buffers currently are.
func (p *Pipeline) Census() map[string]int {
	out := make(map[string]int)
	for owner, n := range p.pool.Census() {
		out[owner.String()] = n
	}
	return out
}
