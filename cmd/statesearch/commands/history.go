package commands

import (
	"github.com/spf13/cobra"

	"github.com/openfroyo/statesearch/pkg/stores"
)

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the run history",
		Long: `Commands for inspecting recorded search runs.

Runs are stored in the SQLite database given by --db.`,
	}

	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryShowCommand())
	cmd.AddCommand(newHistoryDeleteCommand())

	return cmd
}

func newHistoryListCommand() *cobra.Command {
	var (
		limit    int
		problem  string
		strategy string
		status   string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		Example: `  # Ten most recent runs
  statesearch history list --limit 10

  # Failed runs of one problem
  statesearch history list --problem countdown --status failed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, true)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			store, err := a.requireStore()
			if err != nil {
				return err
			}

			runs, err := store.ListRuns(cmd.Context(), stores.RunFilter{
				Problem:  problem,
				Strategy: strategy,
				Status:   stores.RunStatus(status),
				Limit:    limit,
			})
			if err != nil {
				return err
			}

			switch output {
			case formatJSON:
				return writeJSON(cmd.OutOrStdout(), runs)
			case formatYAML:
				return writeYAML(cmd.OutOrStdout(), runs)
			default:
				return writeRunsText(cmd.OutOrStdout(), runs)
			}
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs")
	cmd.Flags().StringVar(&problem, "problem", "", "only runs of this problem")
	cmd.Flags().StringVar(&strategy, "strategy", "", "only runs with this strategy")
	cmd.Flags().StringVar(&status, "status", "", "only runs with this status")
	cmd.Flags().StringVarP(&output, "output", "o", formatText, "output format (text, json, yaml)")

	return cmd
}

func newHistoryShowCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a run with its solutions and events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, true)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			store, err := a.requireStore()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			run, err := store.GetRun(ctx, args[0])
			if err != nil {
				return err
			}
			solutions, err := store.ListSolutions(ctx, run.ID)
			if err != nil {
				return err
			}
			events, err := store.GetEvents(ctx, run.ID, nil, 0, 0)
			if err != nil {
				return err
			}

			detail := runDetail{Run: run, Solutions: solutions, Events: events}
			switch output {
			case formatJSON:
				return writeJSON(cmd.OutOrStdout(), detail)
			case formatYAML:
				return writeYAML(cmd.OutOrStdout(), detail)
			default:
				return writeRunDetailText(cmd.OutOrStdout(), detail)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", formatText, "output format (text, json, yaml)")

	return cmd
}

func newHistoryDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a run with its solutions and events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, true)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			store, err := a.requireStore()
			if err != nil {
				return err
			}

			if err := store.DeleteRun(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.tel.Logger.WithRunID(args[0]).Info("Run deleted")
			return nil
		},
	}
}
