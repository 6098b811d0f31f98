package commands

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openfroyo/statesearch/pkg/config"
)

func newValidateCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a problem file",
		Long: `Validate a problem file without solving it.

This command checks:
  - CUE, JSON or YAML syntax
  - Conformance to the problem file schema
  - Domain specific fields (numbers values and goal, script source)`,
		Example: `  # Validate a problem file
  statesearch validate -f countdown.cue`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Debug().Str("file", file).Msg("Validating problem file")

			parsed, err := config.NewParser().ParseFile(cmd.Context(), file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if parsed.HasErrors() {
				for _, e := range parsed.Errors {
					fmt.Fprintf(out, "%s: %s\n", e.Severity, e.Error())
				}
				return errors.New("problem file is invalid")
			}

			pf := parsed.File
			fmt.Fprintf(out, "%s is valid: problem %q (%s), strategy %s, step %d\n",
				file, pf.Problem.Name, pf.Problem.Domain, pf.Search.Strategy, pf.Search.Step)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "problem file (.cue, .json, .yaml)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
