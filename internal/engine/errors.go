/*
PURPOSE:
  Error taxonomy of the engine. Callers compare with errors.Is.

RELATED FILES:
  - internal/store/store.go (ErrCorruptStore)
*/

package engine

import "errors"

var (
	// ErrInvalidInput is returned before any work starts when a run is misconfigured.
	ErrInvalidInput = errors.New("invalid input")

	// ErrClockAnomaly is returned when the end of a run reads earlier than its start.
	ErrClockAnomaly = errors.New("clock anomaly")

	// ErrWorkerFailure is returned when a sampling worker dies or under-reports its work.
	ErrWorkerFailure = errors.New("worker failure")
)
