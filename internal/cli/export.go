package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pibench/pibench/internal/output"
	"github.com/pibench/pibench/internal/store"
)

func newExportCmd(o *rootOptions) *cobra.Command {
	var (
		file   string
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a JSON history file as CSV or JSON Lines",
		Example: `  pibench export --format csv -o results.csv
  pibench export --file results/history.json --format jsonl | jq .pi_estimate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if file == "" {
				file = o.cfg.ResultsFile()
			}

			records, err := store.NewJSONFile(file).Load()
			if err != nil {
				return err
			}

			w, err := output.NewRecordWriter(format, out, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := output.WriteAll(w, records); err != nil {
				return fmt.Errorf("failed to export %s: %w", file, err)
			}
			if out != "" && out != "-" {
				output.Logger.Info("Export complete", "records", len(records), "format", format, "path", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "history file to read (default: save_json from config)")
	cmd.Flags().StringVar(&format, "format", output.FormatCSV, "output format: csv or jsonl")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default: stdout)")
	return cmd
}
