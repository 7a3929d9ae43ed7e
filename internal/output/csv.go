/*
PURPOSE:
  Writes benchmark results to CSV for spreadsheets and plotting tools.
  Ensures data integrity by flushing writes immediately.

REQUIREMENTS:
  User-specified:
  - Export stored runs to CSV.

  Implementation-discovered:
  - Nullable fields (throughput, system profile) become empty cells.
  - Must be able to target stdout as well as a file.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli (export)
  - Consumes: internal/model.ResultRecord

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() after every write.

USAGE:
  w, err := output.NewCSVWriter("results.csv")
  w.Write(record)
  w.Close()

SELF-HEALING INSTRUCTIONS:
  - If CSV format changes, update header and record conversion.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Update Write() mapping when ResultRecord changes.
*/

package output

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/pibench/pibench/internal/model"
)

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{
	"run_id", "timestamp_utc", "mode", "work_label", "work_units", "workers", "seed",
	"pi_estimate", "absolute_error", "elapsed_seconds", "throughput_per_second",
	"os_name", "kernel_version", "cpu_architecture", "cpu_model", "cpu_frequency_mhz",
	"logical_cores", "physical_cores", "total_memory_bytes", "available_memory_bytes",
	"hardware_type_guess", "notes",
}

// CSVWriter handles writing results to a CSV file.
type CSVWriter struct {
	closer io.Closer
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter creates a new CSVWriter.
// It overwrites the file if it exists.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	cw, err := newCSVWriter(f, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return cw, nil
}

// NewCSVStream writes CSV to w. Close flushes but does not close w.
func NewCSVStream(w io.Writer) (*CSVWriter, error) {
	return newCSVWriter(w, nil)
}

func newCSVWriter(w io.Writer, c io.Closer) (*CSVWriter, error) {
	cw := &CSVWriter{closer: c, writer: csv.NewWriter(w)}
	if err := cw.writer.Write(CSVHeader); err != nil {
		return nil, err
	}
	cw.writer.Flush()
	return cw, cw.writer.Error()
}

// Write writes a single result to the CSV file.
// It is thread-safe.
func (cw *CSVWriter) Write(r model.ResultRecord) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	s := r.System
	record := []string{
		r.RunID,
		r.TimestampUTC,
		r.Mode,
		r.WorkLabel,
		strconv.FormatUint(r.WorkUnits, 10),
		optInt(intPtrIfSet(r.Workers)),
		optUint(r.Seed),
		formatFloat(r.PiEstimate),
		formatFloat(r.AbsoluteError),
		formatFloat(r.ElapsedSeconds),
		optFloat(r.ThroughputPerSecond),
		optString(s.OSName),
		optString(s.KernelVersion),
		optString(s.CPUArchitecture),
		optString(s.CPUModel),
		optUint(s.CPUFrequencyMHz),
		optInt(s.LogicalCores),
		optInt(s.PhysicalCores),
		optUint(s.TotalMemoryBytes),
		optUint(s.AvailableMemoryBytes),
		optString(s.HardwareTypeGuess),
		optString(r.Notes),
	}

	if err := cw.writer.Write(record); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// Close flushes and closes the underlying file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	if cw.closer == nil {
		return cw.writer.Error()
	}
	return cw.closer.Close()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func optString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optUint(v *uint64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(*v, 10)
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func intPtrIfSet(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
