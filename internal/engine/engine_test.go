package engine

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pibench/pibench/internal/model"
)

// fakeClock returns readings in order and repeats the last one once exhausted.
type fakeClock struct {
	readings []time.Time
	calls    int
}

func (c *fakeClock) Now() time.Time {
	i := c.calls
	if i >= len(c.readings) {
		i = len(c.readings) - 1
	}
	c.calls++
	return c.readings[i]
}

type stubProfiler struct{ profile model.SystemProfile }

func (p stubProfiler) Profile() model.SystemProfile { return p.profile }

func seedPtr(v uint64) *uint64 { return &v }

func newTestEngine(clock Clock) *Engine {
	arch := "amd64"
	cores := 8
	return New(
		WithClock(clock),
		WithProfiler(stubProfiler{model.SystemProfile{CPUArchitecture: &arch, LogicalCores: &cores}}),
		WithIDGenerator(func() string { return "run-1" }),
	)
}

func TestRunSeriesRecord(t *testing.T) {
	base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	clock := &fakeClock{readings: []time.Time{base, base.Add(2 * time.Second)}}
	e := newTestEngine(clock)

	rec, err := e.RunSeries(model.NewSeriesConfig(1, "first term"))
	require.NoError(t, err)

	assert.Equal(t, "run-1", rec.RunID)
	assert.Equal(t, "Single-threaded Leibniz", rec.Mode)
	assert.Equal(t, model.ModeSeries, rec.ModeKey)
	assert.Equal(t, "Iterations", rec.WorkLabel)
	assert.Equal(t, uint64(1), rec.WorkUnits)
	assert.Equal(t, 4.0, rec.PiEstimate)
	assert.InDelta(t, 4.0-math.Pi, rec.AbsoluteError, 1e-15)
	assert.Equal(t, 2.0, rec.ElapsedSeconds)
	require.NotNil(t, rec.ThroughputPerSecond)
	assert.Equal(t, 0.5, *rec.ThroughputPerSecond)
	require.NotNil(t, rec.Notes)
	assert.Equal(t, "first term", *rec.Notes)
	assert.Equal(t, "2026-10-19T10:00:02.000Z", rec.TimestampUTC)
	assert.Nil(t, rec.Seed)
	assert.Zero(t, rec.Workers)
	require.NotNil(t, rec.System.CPUArchitecture)
	assert.Equal(t, "amd64", *rec.System.CPUArchitecture)
}

func TestRunSamplingRecord(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	clock := &fakeClock{readings: []time.Time{base, base.Add(500 * time.Millisecond)}}
	e := newTestEngine(clock)

	rec, err := e.RunSampling(model.NewSamplingConfig(10_000, 3, seedPtr(9), ""))
	require.NoError(t, err)

	assert.Equal(t, "Monte Carlo (3 threads)", rec.Mode)
	assert.Equal(t, model.ModeSampling, rec.ModeKey)
	assert.Equal(t, "Samples", rec.WorkLabel)
	assert.Equal(t, uint64(10_000), rec.WorkUnits)
	assert.Equal(t, 3, rec.Workers)
	require.NotNil(t, rec.Seed)
	assert.Equal(t, uint64(9), *rec.Seed)
	assert.Nil(t, rec.Notes)
	require.NotNil(t, rec.ThroughputPerSecond)
	assert.Equal(t, 20_000.0, *rec.ThroughputPerSecond)

	want, err := Sample(10_000, 3, 9)
	require.NoError(t, err)
	assert.Equal(t, want.Estimate, rec.PiEstimate)
}

func TestRunSamplingDerivesSeedFromClock(t *testing.T) {
	base := time.Unix(0, 987654321)
	clock := &fakeClock{readings: []time.Time{base, base, base.Add(time.Second)}}
	e := newTestEngine(clock)

	rec, err := e.RunSampling(model.NewSamplingConfig(1_000, 2, nil, ""))
	require.NoError(t, err)
	require.NotNil(t, rec.Seed)
	assert.Equal(t, ClockSeed(base), *rec.Seed)

	// Replaying with the recorded seed reproduces the estimate.
	replay, err := newTestEngine(&fakeClock{readings: []time.Time{base, base.Add(time.Second)}}).
		RunSampling(model.NewSamplingConfig(1_000, 2, rec.Seed, ""))
	require.NoError(t, err)
	assert.Equal(t, rec.PiEstimate, replay.PiEstimate)
}

func TestRunDispatch(t *testing.T) {
	base := time.Unix(0, 0)
	e := newTestEngine(&fakeClock{readings: []time.Time{base, base.Add(time.Second)}})

	rec, err := e.Run(model.NewSeriesConfig(1, ""))
	require.NoError(t, err)
	assert.Equal(t, model.ModeSeries, rec.ModeKey)

	_, err = e.Run(model.RunConfiguration{Mode: "bogus", WorkSize: 1})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestInvalidInputHasNoSideEffects(t *testing.T) {
	tests := []struct {
		name string
		run  func(*Engine) (model.ResultRecord, error)
	}{
		{"zero iterations", func(e *Engine) (model.ResultRecord, error) {
			return e.RunSeries(model.NewSeriesConfig(0, ""))
		}},
		{"zero samples", func(e *Engine) (model.ResultRecord, error) {
			return e.RunSampling(model.NewSamplingConfig(0, 4, seedPtr(1), ""))
		}},
		{"zero workers", func(e *Engine) (model.ResultRecord, error) {
			return e.RunSampling(model.NewSamplingConfig(100, 0, seedPtr(1), ""))
		}},
		{"series config to sampling", func(e *Engine) (model.ResultRecord, error) {
			return e.RunSampling(model.NewSeriesConfig(100, ""))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{readings: []time.Time{time.Unix(0, 0)}}
			rec, err := tt.run(newTestEngine(clock))
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, model.ResultRecord{}, rec)
			assert.Zero(t, clock.calls, "clock must not be read before validation passes")
		})
	}
}

func TestClockAnomaly(t *testing.T) {
	base := time.Unix(100, 0)
	clock := &fakeClock{readings: []time.Time{base, base.Add(-time.Millisecond)}}

	rec, err := newTestEngine(clock).RunSeries(model.NewSeriesConfig(10, ""))
	require.ErrorIs(t, err, ErrClockAnomaly)
	assert.Equal(t, model.ResultRecord{}, rec)
}

func TestZeroElapsedThroughputIsNull(t *testing.T) {
	base := time.Unix(100, 0)
	clock := &fakeClock{readings: []time.Time{base, base}}

	rec, err := newTestEngine(clock).RunSeries(model.NewSeriesConfig(10, ""))
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec.ElapsedSeconds)
	assert.Nil(t, rec.ThroughputPerSecond)

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"throughput_per_second":null`)
}

func TestThroughput(t *testing.T) {
	assert.Nil(t, Throughput(100, 0))
	assert.Nil(t, Throughput(100, MinMeasurableElapsed-1))

	tp := Throughput(100, MinMeasurableElapsed)
	require.NotNil(t, tp)
	assert.False(t, math.IsInf(*tp, 0))
	assert.InDelta(t, 1e8, *tp, 1)

	tp = Throughput(0, time.Second)
	require.NotNil(t, tp)
	assert.Equal(t, 0.0, *tp)
}

func TestDefaultEngine(t *testing.T) {
	e := New()
	rec, err := e.RunSeries(model.NewSeriesConfig(1000, ""))
	require.NoError(t, err)
	assert.NotEmpty(t, rec.RunID)
	assert.GreaterOrEqual(t, rec.ElapsedSeconds, 0.0)
	assert.Equal(t, model.SystemProfile{}, rec.System)
}

func TestRunSamplingWorkerPanic(t *testing.T) {
	panicOnWorker(t, 11, 2)

	base := time.Unix(0, 0)
	e := newTestEngine(&fakeClock{readings: []time.Time{base, base.Add(time.Second)}})
	rec, err := e.RunSampling(model.NewSamplingConfig(1_000, 4, seedPtr(11), ""))
	require.ErrorIs(t, err, ErrWorkerFailure)
	assert.Equal(t, model.ResultRecord{}, rec)
}
