/*
PURPOSE:
  Orchestrates one benchmark run for the single and monte subcommands.
  Run -> print summary -> optionally append to the JSON history.

REQUIREMENTS:
  User-specified:
  - Show the result on the console.
  - Save to JSON when a path is given.

  Implementation-discovered:
  - A save failure (e.g. corrupt history file) must not hide the computed result:
    the summary is printed first, then the error is returned.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli/single.go, internal/cli/monte.go
  - Uses: internal/engine, internal/store, internal/output

ERROR HANDLING:
  - Engine errors abort before anything is printed or saved.
  - Store errors are logged and returned (exit code 1) after the summary.

IMPLEMENTATION RULES:
  - The engine never logs; all reporting happens here.

RELATED FILES:
  - internal/engine/engine.go
  - internal/store/store.go
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pibench/pibench/internal/model"
	"github.com/pibench/pibench/internal/output"
	"github.com/pibench/pibench/internal/store"
)

func runBenchmark(cmd *cobra.Command, o *rootOptions, cfg model.RunConfiguration, savePath string) error {
	cmd.SilenceUsage = true
	out := cmd.OutOrStdout()

	output.Logger.Debug("Starting run",
		"mode", cfg.Mode,
		"work", cfg.WorkSize,
		"workers", cfg.Workers,
		"seeded", cfg.Seed != nil,
	)

	rec, err := o.newEngine().Run(cfg)
	if err != nil {
		return fmt.Errorf("%s run failed: %w", cfg.Mode, err)
	}

	output.Logger.Debug("Run complete", "mode", rec.Mode, "elapsed_s", rec.ElapsedSeconds, "run_id", rec.RunID)
	output.PrintSummary(out, rec)

	if savePath == "" {
		return nil
	}
	if err := store.NewJSONFile(savePath).Append(rec); err != nil {
		output.Logger.Error("Failed to save result", "path", savePath, "error", err)
		return fmt.Errorf("result was computed but not saved: %w", err)
	}
	fmt.Fprintf(out, "Saved JSON results to %s\n", savePath)
	return nil
}
