/*
PURPOSE:
  Defines the root Cobra command for the PI Bench CLI.
  Handles global flags and configuration loading shared by every subcommand.

REQUIREMENTS:
  User-specified:
  - Provide a CLI interface.
  - Support global flags like --config.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go.
  - Commands are built by constructors so tests get fresh flag state.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/pibench/main.go
  - Calls: Child commands (single, monte, history, export, serve, sysinfo)
  - Uses: internal/config, internal/output

ERROR HANDLING:
  - Returns error to main.go for exit code handling.
  - main.go prints errors, so cobra's own error printing is silenced.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Config precedence: defaults < config file < .env < environment < flags.

USAGE:
  Called by main.go.

SELF-HEALING INSTRUCTIONS:
  - If adding new global flags, add them to newRootCmd().

RELATED FILES:
  - cmd/pibench/main.go
  - internal/config/config.go

MAINTENANCE:
  - Update when adding global configuration options.
*/

package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pibench/pibench/internal/config"
	"github.com/pibench/pibench/internal/engine"
	"github.com/pibench/pibench/internal/output"
	"github.com/pibench/pibench/internal/sysprofile"
)

// rootOptions carries global flag values and the loaded configuration to subcommands.
type rootOptions struct {
	cfgFile  string
	envFile  string
	logLevel string
	noColor  bool

	cfg       *config.Config
	newEngine func() *engine.Engine
}

func defaultEngine() *engine.Engine {
	return engine.New(engine.WithProfiler(sysprofile.New()))
}

// Execute executes the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{newEngine: defaultEngine})
}

func newRootCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pibench",
		Short: "Estimate pi two ways and record how fast this machine does it",
		Long: `PI Bench runs two pi estimators as a repeatable CPU workload:

  single   Leibniz series on one core (branch-heavy, strictly sequential)
  monte    Monte Carlo sampling across all cores (embarrassingly parallel)

Every run reports the estimate, its absolute error, elapsed time and throughput,
and can be appended to a JSON history file for the dashboard.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.load()
		},
	}

	cmd.PersistentFlags().StringVar(&o.cfgFile, "config", "", "config file (default is ./pibench.yaml)")
	cmd.PersistentFlags().StringVar(&o.envFile, "env-file", "", "dotenv file with PIBENCH_* overrides (default is ./.env if present)")
	cmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().BoolVar(&o.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newSingleCmd(o),
		newMonteCmd(o),
		newHistoryCmd(o),
		newExportCmd(o),
		newServeCmd(o),
		newSysinfoCmd(),
	)
	return cmd
}

func (o *rootOptions) load() error {
	if err := config.LoadEnvFile(o.envFile); err != nil {
		return err
	}

	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}

	lvl, err := output.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	output.SetLevel(lvl)

	if o.noColor || cfg.NoColor {
		output.DisableColor()
	}

	o.cfg = cfg
	return nil
}
