package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pibench/pibench/internal/model"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name    string
		total   uint64
		workers int
		want    []uint64
	}{
		{"even", 12, 3, []uint64{4, 4, 4}},
		{"remainder to first workers", 14, 4, []uint64{4, 4, 3, 3}},
		{"more workers than samples", 2, 4, []uint64{1, 1, 0, 0}},
		{"single worker", 9, 1, []uint64{9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Partition(tt.total, tt.workers))
		})
	}
	assert.Nil(t, Partition(10, 0))
}

func TestSampleConservesSamples(t *testing.T) {
	const samples = 100_003
	for _, w := range []int{1, 2, 7, 64} {
		res, err := Sample(samples, w, 2024)
		require.NoError(t, err, "workers=%d", w)
		assert.Equal(t, uint64(samples), res.Hits+res.Misses, "workers=%d", w)
		assert.Equal(t, uint64(samples), res.Samples)
		require.Len(t, res.Partials, w)

		var sum uint64
		for i, p := range res.Partials {
			assert.Equal(t, i, p.Worker)
			assert.LessOrEqual(t, p.Hits, p.Samples)
			sum += p.Samples
		}
		assert.Equal(t, uint64(samples), sum)
	}
}

func TestSampleDeterministic(t *testing.T) {
	a, err := Sample(250_000, 4, 77)
	require.NoError(t, err)
	b, err := Sample(250_000, 4, 77)
	require.NoError(t, err)
	assert.Equal(t, math.Float64bits(a.Estimate), math.Float64bits(b.Estimate))
	assert.Equal(t, a.Partials, b.Partials)
}

func TestSampleWorkerStreamIndependentOfWorkerCount(t *testing.T) {
	// Worker 0 gets the same seed whatever the pool size, so its stream is identical.
	small, err := Sample(1_000, 2, 5)
	require.NoError(t, err)
	large, err := Sample(1_000, 8, 5)
	require.NoError(t, err)
	assert.Equal(t, small.Partials[0].Seed, large.Partials[0].Seed)
	assert.Equal(t, small.Partials[1].Seed, large.Partials[1].Seed)

	a, b := NewLCG(small.Partials[0].Seed), NewLCG(large.Partials[0].Seed)
	for i := 0; i < 1000; i++ {
		require.Equal(t, math.Float64bits(a.Float64()), math.Float64bits(b.Float64()))
	}

	// A worker's hits depend only on its seed and share.
	assert.Equal(t, countHits(large.Partials[3].Samples, WorkerSeed(5, 3)), large.Partials[3].Hits)
}

func TestSampleConverges(t *testing.T) {
	res, err := Sample(2_000_000, 4, 31337)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, res.Estimate, 0.01)
}

func TestSampleInvalidInput(t *testing.T) {
	_, err := Sample(0, 4, 1)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = Sample(100, 0, 1)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = Sample(100, -3, 1)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestReduceRejectsUnderReporting(t *testing.T) {
	partials := []model.PartialResult{
		{Worker: 0, Hits: 3, Samples: 5},
		{Worker: 1, Hits: 2, Samples: 4},
	}
	_, err := reduce(10, 0, partials)
	require.ErrorIs(t, err, ErrWorkerFailure)

	partials[1].Samples = 5
	res, err := reduce(10, 0, partials)
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.Estimate)
}

func TestReduceRejectsImpossibleHits(t *testing.T) {
	partials := []model.PartialResult{{Worker: 0, Hits: 11, Samples: 10}}
	_, err := reduce(10, 0, partials)
	require.ErrorIs(t, err, ErrWorkerFailure)
}

// panicOnWorker makes the worker seeded for index bad panic for the rest of the test.
func panicOnWorker(t *testing.T, base uint64, bad int) {
	t.Helper()
	orig := hitCounter
	t.Cleanup(func() { hitCounter = orig })
	badSeed := WorkerSeed(base, bad)
	hitCounter = func(samples, seed uint64) uint64 {
		if seed == badSeed {
			panic("lost the FPU")
		}
		return orig(samples, seed)
	}
}

func TestSampleWorkerPanic(t *testing.T) {
	panicOnWorker(t, 11, 2)

	res, err := Sample(1_000, 4, 11)
	require.ErrorIs(t, err, ErrWorkerFailure)
	assert.Contains(t, err.Error(), "worker 2 panicked")
	assert.Equal(t, SampleOutcome{}, res)
}
