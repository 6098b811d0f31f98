package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openfroyo/statesearch/pkg/search"
)

func newStrategiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the search strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range search.Strategies() {
				notes := "first solution"
				if s.CollectsAll() {
					notes = "all solutions"
				}
				if s.NeedsHeuristic() {
					notes += ", uses heuristic"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", s, notes)
			}
			return nil
		},
	}
}
