/*
PURPOSE:
  Leibniz series estimator, the single-core workload.

REQUIREMENTS:
  User-specified:
  - Strictly sequential, one accumulator.

  Implementation-discovered:
  - Ascending term order keeps the result bit-for-bit reproducible.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/engine.go (RunSeries)

ERROR HANDLING:
  - ErrInvalidInput for zero iterations.
*/

package engine

import "fmt"

// Series sums the first n terms of the Leibniz series and returns four times
// the sum. Terms are added in ascending order into a single accumulator, so the
// result is bit-for-bit reproducible.
func Series(n uint64) (float64, error) {
	if n == 0 {
		return 0, fmt.Errorf("%w: iterations must be greater than zero", ErrInvalidInput)
	}
	return seriesSum(n), nil
}

func seriesSum(n uint64) float64 {
	acc := 0.0
	for k := uint64(0); k < n; k++ {
		sign := 1.0
		if k%2 == 1 {
			sign = -1.0
		}
		acc += sign / float64(2*k+1)
	}
	return 4.0 * acc
}

// SeriesErrorBound is the alternating-series bound on |Series(n) - pi|.
func SeriesErrorBound(n uint64) float64 {
	return 4.0 / float64(2*n+1)
}
