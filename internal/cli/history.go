/*
PURPOSE:
  Defines the 'history' subcommand.
  Lists runs stored in a JSON history file.

REQUIREMENTS:
  Implementation-discovered:
  - Useful to compare runs without opening the dashboard.
  - Legacy single-object files are listed like arrays.

ARCHITECTURE INTEGRATION:
  - Calls: internal/store.JSONFile.Load(), internal/store.Summarize()

ERROR HANDLING:
  - Corrupt files are reported, never rewritten.

USAGE:
  pibench history --file results/history.json --last 10
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pibench/pibench/internal/config"
	"github.com/pibench/pibench/internal/output"
	"github.com/pibench/pibench/internal/store"
)

func newHistoryCmd(o *rootOptions) *cobra.Command {
	var (
		file    string
		last    int
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List runs stored in a JSON history file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if file == "" {
				file = o.cfg.ResultsFile()
			}

			records, err := store.NewJSONFile(file).Load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintf(out, "No runs recorded in %s\n", file)
				return nil
			}

			if summary {
				for _, s := range store.Summarize(records) {
					best := "n/a"
					if s.BestThroughput != nil {
						best = fmt.Sprintf("%.2f/s", *s.BestThroughput)
					}
					fmt.Fprintf(out, "%-7s runs=%d best=%s min_error=%.3e mean_elapsed=%.3fs latest=%s\n",
						s.Mode, s.Runs, best, s.MinAbsoluteError, s.MeanElapsed, s.LatestTimestamp)
				}
				return nil
			}

			if last > 0 && last < len(records) {
				records = records[len(records)-last:]
			}
			return output.PrintHistory(out, records)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "history file (default: save_json from config, or "+config.DefaultResultsFile+")")
	cmd.Flags().IntVar(&last, "last", 0, "only show the last N runs")
	cmd.Flags().BoolVar(&summary, "summary", false, "show per-mode aggregates instead of individual runs")
	return cmd
}
