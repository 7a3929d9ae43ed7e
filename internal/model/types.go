/*
PURPOSE:
  Defines the core data structures used throughout PI Bench.
  These models describe a run request, its outcome, and the persisted record.

REQUIREMENTS:
  User-specified:
  - Record estimate, absolute error, elapsed time and throughput.
  - Track the host the run executed on.

  Implementation-discovered:
  - JSON field names are a persisted contract (dashboard reads them).
  - Older files may lack newer optional fields; every addition must be omitempty or nullable.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine, internal/store, internal/output, internal/server, internal/cli
  - Shared across boundaries.

ERROR HANDLING:
  - ParseMode returns an error for unknown names. Everything else is pure data.

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - RunConfiguration is passed by value and never mutated by the engine.

USAGE:
  cfg := model.NewSamplingConfig(200_000_000, 8, nil, "baseline")

SELF-HEALING INSTRUCTIONS:
  - If new metrics are needed, add an optional field and update the CSV writer header.

RELATED FILES:
  - internal/output/csv.go
  - internal/store/store.go

MAINTENANCE:
  - Update when adding new metrics to capture.
*/

package model

import (
	"fmt"
	"strings"
)

const (
	// DefaultSeriesIterations is the iteration count used when none is configured.
	DefaultSeriesIterations uint64 = 30_000_000_000

	// DefaultSamplingSamples is the sample count used when none is configured.
	DefaultSamplingSamples uint64 = 200_000_000
)

// Mode selects which estimator a run drives.
type Mode string

const (
	ModeSeries   Mode = "single"
	ModeSampling Mode = "monte"
)

// ParseMode accepts the canonical mode names and their aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "leibniz":
		return ModeSeries, nil
	case "monte", "monte-carlo", "multi", "multi-thread":
		return ModeSampling, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// WorkLabel is the unit name of the work a mode performs.
func (m Mode) WorkLabel() string {
	switch m {
	case ModeSeries:
		return "Iterations"
	case ModeSampling:
		return "Samples"
	}
	return "Units"
}

// RunConfiguration is the immutable input to a single run.
type RunConfiguration struct {
	Mode Mode
	// WorkSize is the iteration count (series) or the sample count (sampling).
	WorkSize uint64
	// Workers is only used by sampling runs. Callers resolve the default before construction.
	Workers int
	// Seed is only used by sampling runs. Nil derives a seed from the clock.
	Seed  *uint64
	Notes string
}

// NewSeriesConfig builds a configuration for the series estimator.
func NewSeriesConfig(iterations uint64, notes string) RunConfiguration {
	return RunConfiguration{
		Mode:     ModeSeries,
		WorkSize: iterations,
		Notes:    notes,
	}
}

// NewSamplingConfig builds a configuration for the sampling estimator.
func NewSamplingConfig(samples uint64, workers int, seed *uint64, notes string) RunConfiguration {
	var s *uint64
	if seed != nil {
		v := *seed
		s = &v
	}
	return RunConfiguration{
		Mode:     ModeSampling,
		WorkSize: samples,
		Workers:  workers,
		Seed:     s,
		Notes:    notes,
	}
}

// PartialResult is the tally of one sampling worker.
type PartialResult struct {
	Worker  int
	Seed    uint64
	Hits    uint64
	Samples uint64
}

// SystemProfile is a best-effort snapshot of the host. Nil fields were not available.
type SystemProfile struct {
	OSName               *string `json:"os_name"`
	KernelVersion        *string `json:"kernel_version"`
	CPUArchitecture      *string `json:"cpu_architecture"`
	CPUModel             *string `json:"cpu_model"`
	CPUFrequencyMHz      *uint64 `json:"cpu_frequency_mhz"`
	LogicalCores         *int    `json:"logical_cores"`
	PhysicalCores        *int    `json:"physical_cores"`
	TotalMemoryBytes     *uint64 `json:"total_memory_bytes"`
	AvailableMemoryBytes *uint64 `json:"available_memory_bytes"`
	HardwareTypeGuess    *string `json:"hardware_type_guess"`
}

// ResultRecord represents the outcome of a single benchmark run. It is the unit of persistence.
type ResultRecord struct {
	RunID        string `json:"run_id,omitempty"`
	TimestampUTC string `json:"timestamp_utc"`
	Mode         string `json:"mode"`
	ModeKey      Mode   `json:"mode_key,omitempty"`
	WorkLabel    string `json:"work_label"`
	WorkUnits    uint64 `json:"work_units"`
	Workers      int    `json:"workers,omitempty"`
	// Seed is the resolved base seed of a sampling run.
	Seed           *uint64 `json:"seed,omitempty"`
	PiEstimate     float64 `json:"pi_estimate"`
	AbsoluteError  float64 `json:"absolute_error"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	// ThroughputPerSecond is nil when elapsed time was too small to measure.
	ThroughputPerSecond *float64      `json:"throughput_per_second"`
	Notes               *string       `json:"notes,omitempty"`
	System              SystemProfile `json:"system"`
}

// ModeOf returns the record's mode key, falling back to its display label for older records.
func (r ResultRecord) ModeOf() Mode {
	if r.ModeKey != "" {
		return r.ModeKey
	}
	lower := strings.ToLower(r.Mode)
	switch {
	case strings.Contains(lower, "leibniz"), strings.Contains(lower, "single"):
		return ModeSeries
	case strings.Contains(lower, "monte"):
		return ModeSampling
	}
	return Mode(r.Mode)
}
