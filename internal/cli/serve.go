package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pibench/pibench/internal/output"
	"github.com/pibench/pibench/internal/server"
	"github.com/pibench/pibench/internal/store"
)

func newServeCmd(o *rootOptions) *cobra.Command {
	var (
		file      string
		addr      string
		dashboard string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON history over HTTP for the dashboard",
		Long: `Starts a read-only HTTP API over a history file:

  GET /api/results[?mode=single|monte]   all runs
  GET /api/results/latest                most recent run
  GET /api/summary                       per-mode aggregates
  GET /results.json                      all runs, always as an array

With --dashboard, files in that directory are served for every other path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg := o.cfg
			if file == "" {
				file = cfg.ResultsFile()
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}
			if dashboard == "" {
				dashboard = cfg.Server.Dashboard
			}

			lvl, err := output.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			gin.SetMode(server.ModeForLevel(lvl))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(store.NewJSONFile(file), server.Options{Addr: addr, Dashboard: dashboard})
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "history file to serve (default: save_json from config)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&dashboard, "dashboard", "", "directory with the static dashboard")
	return cmd
}
