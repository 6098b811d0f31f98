package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	dbPath       string
	logLevel     string
	logFormat    string
	eventsLevel  string
	traceRuns    bool
	otlpEndpoint string

	serviceVersion = "dev"
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	serviceVersion = version

	rootCmd := &cobra.Command{
		Use:   "statesearch",
		Short: "statesearch - state-space search engine",
		Long: `statesearch solves search problems described in CUE problem files.

Features:
  - Breadth-first, depth-first, iterative deepening and best-first (A*) search
  - Built-in numbers game domain
  - Problem domains scripted in Starlark
  - Run history in SQLite
  - Prometheus metrics and OpenTelemetry traces`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultLevel := os.Getenv("LOG_LEVEL")
	if defaultLevel == "" {
		defaultLevel = "info"
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "statesearch.db", "run history database path (empty disables history)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLevel, "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().StringVar(&eventsLevel, "events-level", "info", "lowest search event level logged at debug (info, warning, error)")
	rootCmd.PersistentFlags().BoolVar(&traceRuns, "trace", false, "export run traces to stdout")
	rootCmd.PersistentFlags().StringVar(&otlpEndpoint, "otlp-endpoint", "", "export run traces to an OTLP collector (host:port)")

	// Add subcommands
	rootCmd.AddCommand(newSolveCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newHistoryCommand())
	rootCmd.AddCommand(newStrategiesCommand())

	return rootCmd
}
