package cli

import (
	"github.com/spf13/cobra"

	"github.com/pibench/pibench/internal/model"
)

func newMonteCmd(o *rootOptions) *cobra.Command {
	var (
		samples  uint64
		threads  int
		seed     uint64
		saveJSON string
		notes    string
	)

	cmd := &cobra.Command{
		Use:     "monte",
		Aliases: []string{"monte-carlo", "multi", "multi-thread"},
		Short:   "Multi-threaded Monte Carlo (embarrassingly parallel)",
		Long: `Throws random points at the unit square from one goroutine per thread and
counts those inside the quarter circle.

Each worker owns a 64-bit LCG seeded from the run seed and its index, so a run
with --seed is fully reproducible for the same thread count. Without --seed the
seed comes from the clock and is recorded in the result.`,
		Example: `  # All cores, default sample count
  pibench monte

  # Reproducible run on 4 threads
  pibench monte -s 1_000_000_000 -t 4 --seed 42 --save-json results/history.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := o.cfg
			n := cfg.Samples
			if cmd.Flags().Changed("samples") {
				n = samples
			}
			// An explicit --threads 0 is passed through and rejected by the engine.
			workers := cfg.Workers()
			if cmd.Flags().Changed("threads") {
				workers = threads
			}
			runSeed := cfg.Seed
			if cmd.Flags().Changed("seed") {
				runSeed = &seed
			}
			path := cfg.SaveJSON
			if saveFlagChanged(cmd.Flags()) {
				path = saveJSON
			}
			text := cfg.Notes
			if cmd.Flags().Changed("notes") {
				text = notes
			}

			return runBenchmark(cmd, o, model.NewSamplingConfig(n, workers, runSeed, text), path)
		},
	}

	cmd.Flags().VarP(newCountValue(&samples), "samples", "s",
		"total random points to generate (default from config, built-in 200_000_000)")
	cmd.Flags().VarP(newIntCountValue(&threads), "threads", "t", "number of worker threads (default: system parallelism)")
	cmd.Flags().Var(newCountValue(&seed), "seed", "RNG seed for reproducibility")
	addSaveFlags(cmd.Flags(), &saveJSON)
	cmd.Flags().StringVar(&notes, "notes", "", `free-form text describing the run (e.g. "Before heatsink replacement")`)
	return cmd
}
