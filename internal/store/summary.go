/*
PURPOSE:
  Per-mode aggregates over stored runs.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli (history --summary), internal/server (/api/summary)

IMPLEMENTATION RULES:
  - Runs with a null throughput count as runs but not in throughput figures.
*/

package store

import (
	"math"
	"sort"

	"github.com/pibench/pibench/internal/model"
)

// ModeSummary holds aggregate statistics for one mode.
type ModeSummary struct {
	Mode             model.Mode `json:"mode"`
	Runs             int        `json:"runs"`
	BestThroughput   *float64   `json:"best_throughput_per_second"`
	MeanThroughput   *float64   `json:"mean_throughput_per_second"`
	MinAbsoluteError float64    `json:"min_absolute_error"`
	MeanElapsed      float64    `json:"mean_elapsed_seconds"`
	LatestTimestamp  string     `json:"latest_timestamp_utc"`
	MeasuredRuns     int        `json:"measured_runs"`
	TotalWorkUnits   uint64     `json:"total_work_units"`
	TotalElapsed     float64    `json:"total_elapsed_seconds"`
}

// Summarize groups records by mode. Runs without a throughput count toward
// Runs but not toward the throughput figures. Output is sorted by mode.
func Summarize(records []model.ResultRecord) []ModeSummary {
	byMode := map[model.Mode]*ModeSummary{}
	sums := map[model.Mode]float64{}

	for _, r := range records {
		m := r.ModeOf()
		s, ok := byMode[m]
		if !ok {
			s = &ModeSummary{Mode: m, MinAbsoluteError: math.Inf(1)}
			byMode[m] = s
		}
		s.Runs++
		s.TotalWorkUnits += r.WorkUnits
		s.TotalElapsed += r.ElapsedSeconds
		if r.AbsoluteError < s.MinAbsoluteError {
			s.MinAbsoluteError = r.AbsoluteError
		}
		if r.TimestampUTC > s.LatestTimestamp {
			s.LatestTimestamp = r.TimestampUTC
		}
		if tp := r.ThroughputPerSecond; tp != nil {
			s.MeasuredRuns++
			sums[m] += *tp
			if s.BestThroughput == nil || *tp > *s.BestThroughput {
				best := *tp
				s.BestThroughput = &best
			}
		}
	}

	out := make([]ModeSummary, 0, len(byMode))
	for m, s := range byMode {
		s.MeanElapsed = s.TotalElapsed / float64(s.Runs)
		if s.MeasuredRuns > 0 {
			mean := sums[m] / float64(s.MeasuredRuns)
			s.MeanThroughput = &mean
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mode < out[j].Mode })
	return out
}
