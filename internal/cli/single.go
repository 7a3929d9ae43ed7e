package cli

import (
	"github.com/spf13/cobra"

	"github.com/pibench/pibench/internal/model"
)

func newSingleCmd(o *rootOptions) *cobra.Command {
	var (
		iterations uint64
		saveJSON   string
		notes      string
	)

	cmd := &cobra.Command{
		Use:     "single",
		Aliases: []string{"leibniz"},
		Short:   "Single-threaded Leibniz series",
		Long: `Sums the Leibniz series 4 * (1 - 1/3 + 1/5 - ...) on one core.

The loop is strictly sequential with a single accumulator, so the estimate is
bit-for-bit reproducible for a given iteration count.`,
		Example: `  # Run with the configured default iteration count
  pibench single

  # Shorter run, saved to the history file
  pibench single -n 50_000_000 --save-json results/history.json --notes "after repaste"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := o.cfg
			n := cfg.Iterations
			if cmd.Flags().Changed("iterations") {
				n = iterations
			}
			path := cfg.SaveJSON
			if saveFlagChanged(cmd.Flags()) {
				path = saveJSON
			}
			text := cfg.Notes
			if cmd.Flags().Changed("notes") {
				text = notes
			}

			return runBenchmark(cmd, o, model.NewSeriesConfig(n, text), path)
		},
	}

	cmd.Flags().VarP(newCountValue(&iterations), "iterations", "n",
		"number of Leibniz iterations (default from config, built-in 30_000_000_000)")
	addSaveFlags(cmd.Flags(), &saveJSON)
	cmd.Flags().StringVar(&notes, "notes", "", `free-form text describing the run (e.g. "Before heatsink replacement")`)
	return cmd
}
