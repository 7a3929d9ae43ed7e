/*
PURPOSE:
  Defines the configuration structure and loading logic for PI Bench.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Allow configuration of iteration/sample counts, thread count, seed, notes and save path.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Needs to support environment overrides (PIBENCH_...), optionally from a .env file.
  - Counts accept underscore separators (50_000_000).

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli
  - Dependencies: gopkg.in/yaml.v3, github.com/joho/godotenv

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - A missing default config file falls back to defaults; a missing explicit one is an error.
  - Malformed environment values are errors naming the variable.

IMPLEMENTATION RULES:
  - Precedence: defaults < config file < .env < environment < CLI flags.
  - Defaults come from the named constants in internal/model.

USAGE:
  cfg, err := config.Load("pibench.yaml")
  err = config.LoadEnvFile(".env")
  err = cfg.ApplyEnv(os.LookupEnv)

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct, DefaultConfig() and ApplyEnv().

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pibench/pibench/internal/model"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PIBENCH_"

// DefaultResultsFile is where history, export and serve look when no file is given.
const DefaultResultsFile = "results/pi_benchmarks.json"

// Config represents the full configuration for PI Bench.
type Config struct {
	Iterations uint64 `yaml:"iterations"`
	Samples    uint64 `yaml:"samples"`
	// Threads of 0 means one worker per available CPU.
	Threads  int     `yaml:"threads"`
	Seed     *uint64 `yaml:"seed"`
	Notes    string  `yaml:"notes"`
	SaveJSON string  `yaml:"save_json"`
	LogLevel string  `yaml:"log_level"`
	NoColor  bool    `yaml:"no_color"`

	Server ServerConfig `yaml:"server"`
}

// ServerConfig configures the results API.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	Dashboard string `yaml:"dashboard"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Iterations: model.DefaultSeriesIterations,
		Samples:    model.DefaultSamplingSamples,
		Threads:    0,
		LogLevel:   "info",
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, returns default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
	} else {
		defaults := []string{"pibench.yaml", "pibench.yml", "runner.yaml"}
		found := false
		for _, name := range defaults {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				found = true
				break
			}
		}
		if !found {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs into the process environment without
// overriding variables that are already set. An empty path tries ./.env and
// ignores its absence.
func LoadEnvFile(path string) error {
	if path == "" {
		if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from PIBENCH_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return strings.TrimSpace(v), true
	}

	if v, ok := get("ITERATIONS"); ok {
		n, err := ParseCount(v)
		if err != nil {
			return fmt.Errorf("%sITERATIONS: %w", EnvPrefix, err)
		}
		c.Iterations = n
	}
	if v, ok := get("SAMPLES"); ok {
		n, err := ParseCount(v)
		if err != nil {
			return fmt.Errorf("%sSAMPLES: %w", EnvPrefix, err)
		}
		c.Samples = n
	}
	if v, ok := get("THREADS"); ok {
		n, err := ParseCount(v)
		if err != nil {
			return fmt.Errorf("%sTHREADS: %w", EnvPrefix, err)
		}
		if n > math.MaxInt {
			return fmt.Errorf("%sTHREADS: %d is out of range", EnvPrefix, n)
		}
		c.Threads = int(n)
	}
	if v, ok := get("SEED"); ok {
		n, err := ParseCount(v)
		if err != nil {
			return fmt.Errorf("%sSEED: %w", EnvPrefix, err)
		}
		c.Seed = &n
	}
	if v, ok := get("NOTES"); ok {
		c.Notes = v
	}
	if v, ok := get("SAVE_JSON"); ok {
		c.SaveJSON = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return nil
}

// Workers resolves the configured thread count, defaulting to the available parallelism.
func (c *Config) Workers() int {
	if c.Threads > 0 {
		return c.Threads
	}
	return runtime.GOMAXPROCS(0)
}

// ResultsFile is the file read by history, export and serve.
func (c *Config) ResultsFile() string {
	if c.SaveJSON != "" {
		return c.SaveJSON
	}
	return DefaultResultsFile
}

// ParseCount parses a non-negative integer that may contain '_' separators.
func ParseCount(s string) (uint64, error) {
	n, err := strconv.ParseUint(strings.ReplaceAll(strings.TrimSpace(s), "_", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("could not parse %q as a non-negative integer", s)
	}
	return n, nil
}
