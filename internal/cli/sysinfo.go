package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/pibench/pibench/internal/sysprofile"
)

func newSysinfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sysinfo",
		Short: "Print the system profile recorded with each run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(sysprofile.New().Profile())
		},
	}
}
