/*
PURPOSE:
  Monte Carlo estimator: throws random points at the unit square from a fixed
  pool of goroutines and merges their hit counts.

REQUIREMENTS:
  User-specified:
  - Use every core; the thread count is configurable.
  - Reproducible for a given seed and thread count.

  Implementation-discovered:
  - Shares differ by at most one sample; the first total%workers workers take the extra.
  - Each worker owns its generator and counters. No locks in the hot loop.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/engine.go (RunSampling)
  - Uses: internal/engine/rng.go, internal/model.PartialResult
  - Dependencies: golang.org/x/sync/errgroup

ERROR HANDLING:
  - ErrInvalidInput for zero samples or workers, before any goroutine starts.
  - A panicking worker becomes ErrWorkerFailure; so does a reduce that does not add up.

IMPLEMENTATION RULES:
  - Workers write only their own slot of partials; the slice is read after Wait.

USAGE:
  res, err := engine.Sample(200_000_000, runtime.GOMAXPROCS(0), seed)
*/

package engine

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pibench/pibench/internal/model"
)

// SampleOutcome is the merged result of a sampling run.
type SampleOutcome struct {
	Estimate float64
	Samples  uint64
	Hits     uint64
	Misses   uint64
	Seed     uint64
	Partials []model.PartialResult
}

// Partition splits total into workers contiguous shares. The first total%workers
// shares carry one extra unit, so the shares always sum to total.
func Partition(total uint64, workers int) []uint64 {
	if workers <= 0 {
		return nil
	}
	w := uint64(workers)
	per, rem := total/w, total%w
	shares := make([]uint64, workers)
	for i := range shares {
		shares[i] = per
		if uint64(i) < rem {
			shares[i]++
		}
	}
	return shares
}

// Sample estimates pi by throwing samples points at the unit square across
// workers goroutines. Each worker owns its generator and counters; the only
// shared memory is its own slot in the partials slice, read after Wait.
func Sample(samples uint64, workers int, seed uint64) (SampleOutcome, error) {
	if samples == 0 {
		return SampleOutcome{}, fmt.Errorf("%w: samples must be greater than zero", ErrInvalidInput)
	}
	if workers <= 0 {
		return SampleOutcome{}, fmt.Errorf("%w: thread count must be at least 1", ErrInvalidInput)
	}

	shares := Partition(samples, workers)
	partials := make([]model.PartialResult, workers)

	var g errgroup.Group
	for i, share := range shares {
		ws := WorkerSeed(seed, i)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: worker %d panicked: %v", ErrWorkerFailure, i, r)
				}
			}()
			partials[i] = model.PartialResult{
				Worker:  i,
				Seed:    ws,
				Hits:    hitCounter(share, ws),
				Samples: share,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SampleOutcome{}, err
	}

	return reduce(samples, seed, partials)
}

func reduce(samples, seed uint64, partials []model.PartialResult) (SampleOutcome, error) {
	var hits, done uint64
	for _, p := range partials {
		if p.Hits > p.Samples {
			return SampleOutcome{}, fmt.Errorf("%w: worker %d reported %d hits for %d samples",
				ErrWorkerFailure, p.Worker, p.Hits, p.Samples)
		}
		hits += p.Hits
		done += p.Samples
	}
	if done != samples {
		return SampleOutcome{}, fmt.Errorf("%w: workers processed %d of %d samples",
			ErrWorkerFailure, done, samples)
	}

	return SampleOutcome{
		Estimate: 4.0 * float64(hits) / float64(samples),
		Samples:  samples,
		Hits:     hits,
		Misses:   samples - hits,
		Seed:     seed,
		Partials: partials,
	}, nil
}

// hitCounter is the per-worker loop. Tests swap it to inject worker faults.
var hitCounter = countHits

func countHits(samples, seed uint64) uint64 {
	rng := NewLCG(seed)
	var hits uint64
	for n := uint64(0); n < samples; n++ {
		x := rng.Float64()
		y := rng.Float64()
		if x*x+y*y <= 1.0 {
			hits++
		}
	}
	return hits
}
