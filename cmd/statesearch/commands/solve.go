package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openfroyo/statesearch/pkg/runner"
	"github.com/openfroyo/statesearch/pkg/search"
)

func newSolveCommand() *cobra.Command {
	var (
		file        string
		strategy    string
		step        int
		output      string
		watch       bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a problem file",
		Long: `Solve the problem described by a problem file and print the solutions.

The strategy and step in the file can be overridden on the command line.
Each run is recorded in the run history unless --db is empty.`,
		Example: `  # Solve with the strategy from the file
  statesearch solve -f countdown.cue

  # Collect every solution breadth-first, as JSON
  statesearch solve -f countdown.cue --strategy breadth_all --output json

  # Iterative deepening two levels at a time
  statesearch solve -f counter.cue --strategy iterative_deepening --step 2

  # Solve again whenever the problem or its script changes
  statesearch solve -f counter.cue --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strategy != "" {
				if err := search.Strategy(strategy).Validate(); err != nil {
					return err
				}
			}
			write, err := newResultWriter(output)
			if err != nil {
				return err
			}

			a, err := openApp(cmd, true)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if metricsAddr != "" {
				server, err := a.tel.Metrics.StartMetricsServer(metricsAddr, a.tel.Logger)
				if err != nil {
					return fmt.Errorf("failed to start metrics server: %w", err)
				}
				defer func() {
					ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
					defer cancel()
					_ = server.Shutdown(ctx)
				}()
			}

			ov := runner.Overrides{Strategy: strategy}
			if cmd.Flags().Changed("step") {
				ov.Step = &step
			}

			r := a.runner()

			if watch {
				return r.Watch(cmd.Context(), file, ov, func(result *runner.Result, err error) {
					if result != nil {
						if werr := write(cmd.OutOrStdout(), result); werr != nil {
							a.tel.Logger.WithError(werr).Error("Failed to write result")
						}
					}
					if err != nil {
						a.tel.Logger.WithError(err).Error("Run failed")
					}
				})
			}

			result, err := r.RunFile(cmd.Context(), file, ov)
			if result != nil {
				if werr := write(cmd.OutOrStdout(), result); werr != nil {
					return errors.Join(err, werr)
				}
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "problem file (.cue, .json, .yaml)")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "override the search strategy")
	cmd.Flags().IntVar(&step, "step", 1, "override the iterative deepening step")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json, yaml)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "solve again when the problem changes")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
