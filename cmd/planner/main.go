package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"production-planner/internal/common/logger"
	"production-planner/internal/config"
)

var (
	cfgPath  string
	logLevel string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "planner",
		Short:         "Weekly capacity planning for the printing plant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config (default: config.yaml if present)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug|info|warn|error)")

	root.AddCommand(newServeCmd(), newReportCmd(), newWeeksCmd())
	return root
}

// loadConfig reads --config, or config.yaml when present, or falls back to
// the built-in defaults.
func loadConfig() (*config.Config, error) {
	path := cfgPath
	if path == "" {
		found, err := config.FindConfig()
		if errors.Is(err, fs.ErrNotExist) {
			cfg := config.Default()
			return &cfg, nil
		}
		path = found
	}
	return config.Load(path)
}

func newLogger(cfg *config.Config) *logger.Logger {
	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	return logger.NewWithLevel("planner", level)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
