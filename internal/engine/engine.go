/*
PURPOSE:
  Core engine for PI Bench.
  Wraps the series and sampling estimators with timing and turns their outcome
  into a ResultRecord.

REQUIREMENTS:
  User-specified:
  - Two entry points: series (single core) and sampling (multi core).
  - Record estimate, absolute error, elapsed seconds and throughput.

  Implementation-discovered:
  - Clock and host profile must be injectable for tests.
  - Throughput is undefined when elapsed time is below what the clock can measure.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/model
  - Profiler implemented by: internal/sysprofile

ERROR HANDLING:
  - ErrInvalidInput before any work, ErrClockAnomaly on a backwards clock,
    ErrWorkerFailure from the sampling pool. No retries.
  - Never logs. The caller decides how to report.

IMPLEMENTATION RULES:
  - Validate -> start clock -> estimate -> stop clock -> derive metrics -> profile.
  - No global mutable state.

USAGE:
  e := engine.New(engine.WithProfiler(sysprofile.New()))
  rec, err := e.RunSampling(model.NewSamplingConfig(1_000_000, 4, nil, ""))

SELF-HEALING INSTRUCTIONS:
  - If elapsed time is always zero in tests, check the injected Clock.

RELATED FILES:
  - internal/engine/series.go
  - internal/engine/sampling.go

MAINTENANCE:
  - Update when a new estimator mode is added.
*/

package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/pibench/pibench/internal/model"
)

// MinMeasurableElapsed is the shortest elapsed time for which throughput is reported.
const MinMeasurableElapsed = time.Microsecond

// TimestampLayout is the RFC3339 layout used for ResultRecord.TimestampUTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Clock is the time source of a run. Readings from time.Now carry the monotonic clock.
type Clock interface {
	Now() time.Time
}

// Profiler captures the host a run executed on.
type Profiler interface {
	Profile() model.SystemProfile
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type emptyProfiler struct{}

func (emptyProfiler) Profile() model.SystemProfile { return model.SystemProfile{} }

// Outcome is what a timed estimator produced.
type Outcome struct {
	Estimate float64
	Work     uint64
	Elapsed  time.Duration
}

// Engine runs estimators and records their results.
type Engine struct {
	Clock    Clock
	Profiler Profiler
	NewID    func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.Clock = c }
}

// WithProfiler sets the host profiler. Without one the record's system block is empty.
func WithProfiler(p Profiler) Option {
	return func(e *Engine) { e.Profiler = p }
}

// WithIDGenerator replaces the run ID generator.
func WithIDGenerator(f func() string) Option {
	return func(e *Engine) { e.NewID = f }
}

// New creates a new Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		Clock:    systemClock{},
		Profiler: emptyProfiler{},
		NewID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run dispatches on cfg.Mode.
func (e *Engine) Run(cfg model.RunConfiguration) (model.ResultRecord, error) {
	switch cfg.Mode {
	case model.ModeSeries:
		return e.RunSeries(cfg)
	case model.ModeSampling:
		return e.RunSampling(cfg)
	}
	return model.ResultRecord{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, cfg.Mode)
}

// RunSeries times the series estimator.
func (e *Engine) RunSeries(cfg model.RunConfiguration) (model.ResultRecord, error) {
	if cfg.Mode != model.ModeSeries {
		return model.ResultRecord{}, fmt.Errorf("%w: RunSeries called with mode %q", ErrInvalidInput, cfg.Mode)
	}
	if cfg.WorkSize == 0 {
		return model.ResultRecord{}, fmt.Errorf("%w: iterations must be greater than zero", ErrInvalidInput)
	}

	out, err := e.timed(func() (float64, uint64, error) {
		est, err := Series(cfg.WorkSize)
		return est, cfg.WorkSize, err
	})
	if err != nil {
		return model.ResultRecord{}, err
	}

	rec := e.record(cfg, "Single-threaded Leibniz", out)
	return rec, nil
}

// RunSampling times the sampling estimator.
func (e *Engine) RunSampling(cfg model.RunConfiguration) (model.ResultRecord, error) {
	if cfg.Mode != model.ModeSampling {
		return model.ResultRecord{}, fmt.Errorf("%w: RunSampling called with mode %q", ErrInvalidInput, cfg.Mode)
	}
	if cfg.WorkSize == 0 {
		return model.ResultRecord{}, fmt.Errorf("%w: samples must be greater than zero", ErrInvalidInput)
	}
	if cfg.Workers <= 0 {
		return model.ResultRecord{}, fmt.Errorf("%w: thread count must be at least 1", ErrInvalidInput)
	}

	var seed uint64
	if cfg.Seed != nil {
		seed = *cfg.Seed
	} else {
		seed = ClockSeed(e.Clock.Now())
	}

	out, err := e.timed(func() (float64, uint64, error) {
		res, err := Sample(cfg.WorkSize, cfg.Workers, seed)
		return res.Estimate, res.Samples, err
	})
	if err != nil {
		return model.ResultRecord{}, err
	}

	rec := e.record(cfg, fmt.Sprintf("Monte Carlo (%d threads)", cfg.Workers), out)
	rec.Workers = cfg.Workers
	rec.Seed = &seed
	return rec, nil
}

func (e *Engine) timed(fn func() (float64, uint64, error)) (Outcome, error) {
	start := e.Clock.Now()
	est, work, err := fn()
	end := e.Clock.Now()
	if err != nil {
		return Outcome{}, err
	}

	elapsed := end.Sub(start)
	if elapsed < 0 {
		return Outcome{}, fmt.Errorf("%w: end time is %s before start time", ErrClockAnomaly, -elapsed)
	}
	return Outcome{Estimate: est, Work: work, Elapsed: elapsed}, nil
}

func (e *Engine) record(cfg model.RunConfiguration, label string, out Outcome) model.ResultRecord {
	rec := model.ResultRecord{
		RunID:               e.NewID(),
		TimestampUTC:        e.Clock.Now().UTC().Format(TimestampLayout),
		Mode:                label,
		ModeKey:             cfg.Mode,
		WorkLabel:           cfg.Mode.WorkLabel(),
		WorkUnits:           out.Work,
		PiEstimate:          out.Estimate,
		AbsoluteError:       AbsoluteError(out.Estimate),
		ElapsedSeconds:      out.Elapsed.Seconds(),
		ThroughputPerSecond: Throughput(out.Work, out.Elapsed),
		System:              e.Profiler.Profile(),
	}
	if cfg.Notes != "" {
		notes := cfg.Notes
		rec.Notes = &notes
	}
	return rec
}

// AbsoluteError is |estimate - pi|.
func AbsoluteError(estimate float64) float64 {
	return math.Abs(estimate - math.Pi)
}

// Throughput is work per second, or nil when elapsed is below MinMeasurableElapsed.
func Throughput(work uint64, elapsed time.Duration) *float64 {
	if elapsed < MinMeasurableElapsed {
		return nil
	}
	tp := float64(work) / elapsed.Seconds()
	if math.IsNaN(tp) || math.IsInf(tp, 0) || tp < 0 {
		return nil
	}
	return &tp
}
