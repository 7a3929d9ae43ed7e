/*
PURPOSE:
  Seedable pseudo-random stream for the sampling workers.

REQUIREMENTS:
  Implementation-discovered:
  - Same seed, same stream, on every platform.
  - A worker's seed depends on the run seed and its index only, never on the pool size.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine/sampling.go, internal/engine/engine.go (ClockSeed)

IMPLEMENTATION RULES:
  - Changing any constant here changes every recorded seed's meaning.
*/

package engine

import "time"

const (
	lcgMultiplier uint64 = 6364136223846793005
	lcgIncrement  uint64 = 1

	// golden is 2^64 divided by the golden ratio, the splitmix64 stream increment.
	golden uint64 = 0x9E3779B97F4A7C15

	clockSeedMask uint64 = 0xA5A55A5AA5A55A5A

	// floatBits is the width of the high slice of state turned into a float64.
	floatBits = 53
	floatUnit = 1.0 / (1 << floatBits)
)

// LCG is a 64-bit linear congruential generator:
//
//	state = state*6364136223846793005 + 1 (mod 2^64)
//
// The increment is odd, so every seed walks the full 2^64 period. An LCG owns
// its state and is not safe for concurrent use; give each goroutine its own.
type LCG struct {
	state uint64
}

// NewLCG returns a generator whose state starts at seed.
func NewLCG(seed uint64) *LCG {
	return &LCG{state: seed}
}

// Uint64 advances the generator and returns the new state.
func (g *LCG) Uint64() uint64 {
	g.state = g.state*lcgMultiplier + lcgIncrement
	return g.state
}

// Float64 returns a value uniform on [0, 1) built from the top 53 bits of the next state.
func (g *LCG) Float64() float64 {
	return float64(g.Uint64()>>(64-floatBits)) * floatUnit
}

// WorkerSeed derives the seed of worker i from a run's base seed. The result
// depends only on base and i, never on how many workers the run has.
func WorkerSeed(base uint64, i int) uint64 {
	return splitmix64(base + uint64(i+1)*golden)
}

// ClockSeed derives a base seed from a clock reading.
func ClockSeed(t time.Time) uint64 {
	return uint64(t.UnixNano()) ^ clockSeedMask
}

func splitmix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
