/*
PURPOSE:
  Human-readable console output: the per-run summary and the history table.

REQUIREMENTS:
  User-specified:
  - Show mode, work done, estimate, error, elapsed time and throughput after each run.

  Implementation-discovered:
  - Large counts are grouped in threes (50,000,000).
  - Colors are dropped with --no-color or when stdout is not a terminal.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli (single, monte, history)
  - Dependencies: github.com/fatih/color

USAGE:
  output.PrintSummary(os.Stdout, rec)
*/

package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/pibench/pibench/internal/model"
)

var (
	labelColor = color.New(color.FgCyan)
	valueColor = color.New(color.Bold)
	errorColor = color.New(color.FgYellow)
)

// DisableColor turns off ANSI colors for every writer in the process.
func DisableColor() {
	color.NoColor = true
}

// PrintSummary writes the human-readable report of one run.
func PrintSummary(w io.Writer, r model.ResultRecord) {
	line := func(label string, value string) {
		fmt.Fprintf(w, "%s: %s\n", labelColor.Sprintf("%-15s", label), value)
	}

	line("Mode", valueColor.Sprint(r.Mode))
	line(r.WorkLabel, FormatNumber(r.WorkUnits))
	if r.Seed != nil {
		line("Seed", strconv.FormatUint(*r.Seed, 10))
	}
	line("PI estimate", valueColor.Sprintf("%.12f", r.PiEstimate))
	line("Absolute error", errorColor.Sprintf("%.12f", r.AbsoluteError))
	line("Elapsed", fmt.Sprintf("%.3f s", r.ElapsedSeconds))
	line("Throughput", FormatThroughput(r))
	if r.Notes != nil {
		line("Notes", *r.Notes)
	}
	line("Recorded at", r.TimestampUTC)
}

// FormatThroughput renders throughput with its unit, or n/a when it was not measurable.
func FormatThroughput(r model.ResultRecord) string {
	if r.ThroughputPerSecond == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f %s/s", *r.ThroughputPerSecond, strings.ToLower(r.WorkLabel))
}

// FormatNumber groups digits in threes: 50000000 -> 50,000,000.
func FormatNumber(v uint64) string {
	s := strconv.FormatUint(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// PrintHistory writes one row per stored run.
func PrintHistory(w io.Writer, records []model.ResultRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tRECORDED\tMODE\tWORK\tESTIMATE\tERROR\tELAPSED\tTHROUGHPUT\tNOTES")
	for i, r := range records {
		notes := ""
		if r.Notes != nil {
			notes = *r.Notes
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s %s\t%.12f\t%.3e\t%.3f s\t%s\t%s\n",
			i+1, r.TimestampUTC, r.Mode, FormatNumber(r.WorkUnits), strings.ToLower(r.WorkLabel),
			r.PiEstimate, r.AbsoluteError, r.ElapsedSeconds, FormatThroughput(r), notes)
	}
	return tw.Flush()
}
