package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/openfroyo/statesearch/pkg/runner"
	"github.com/openfroyo/statesearch/pkg/stores"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type resultWriter func(w io.Writer, result *runner.Result) error

func newResultWriter(format string) (resultWriter, error) {
	switch format {
	case formatText:
		return writeResultText, nil
	case formatJSON:
		return func(w io.Writer, result *runner.Result) error { return writeJSON(w, result) }, nil
	case formatYAML:
		return func(w io.Writer, result *runner.Result) error { return writeYAML(w, result) }, nil
	default:
		return nil, fmt.Errorf("invalid output format %q (must be text, json or yaml)", format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func writeResultText(w io.Writer, result *runner.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Run:\t%s\n", result.RunID)
	fmt.Fprintf(tw, "Problem:\t%s (%s)\n", result.Problem, result.Domain)
	fmt.Fprintf(tw, "Strategy:\t%s\n", result.Strategy)
	fmt.Fprintf(tw, "Status:\t%s\n", result.Status)
	fmt.Fprintf(tw, "Statistics:\t%s\n", result.Statistics)
	fmt.Fprintf(tw, "Duration:\t%s\n", result.Duration)
	if result.Error != "" {
		fmt.Fprintf(tw, "Error:\t%s\n", result.Error)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for i, sol := range result.Solutions {
		fmt.Fprintf(w, "\nSolution %d (cost %g, length %d):\n", i+1, sol.Cost, sol.Length)
		writeActions(w, sol.Actions)
	}
	return nil
}

func writeActions(w io.Writer, actions []string) {
	if len(actions) == 0 {
		fmt.Fprintln(w, "  (initial state is a goal)")
		return
	}
	for _, action := range actions {
		fmt.Fprintf(w, "  %s\n", action)
	}
}

func writeRunsText(w io.Writer, runs []*stores.Run) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPROBLEM\tSTRATEGY\tSTATUS\tSOLUTIONS\tNODES\tSTARTED")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID, run.Problem, run.Strategy, run.Status,
			run.Solutions, run.NodesExplored, run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

// runDetail is the full history record of one run.
type runDetail struct {
	Run       *stores.Run       `json:"run" yaml:"run"`
	Solutions []stores.Solution `json:"solutions" yaml:"solutions"`
	Events    []*stores.Event   `json:"events" yaml:"events"`
}

func writeRunDetailText(w io.Writer, d runDetail) error {
	run := d.Run
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Run:\t%s\n", run.ID)
	fmt.Fprintf(tw, "Problem:\t%s (%s)\n", run.Problem, run.Domain)
	fmt.Fprintf(tw, "Source:\t%s\n", run.Source)
	fmt.Fprintf(tw, "Strategy:\t%s (step %d)\n", run.Strategy, run.Step)
	fmt.Fprintf(tw, "Status:\t%s\n", run.Status)
	fmt.Fprintf(tw, "Nodes explored:\t%d\n", run.NodesExplored)
	fmt.Fprintf(tw, "Max depth:\t%d\n", run.MaxDepth)
	fmt.Fprintf(tw, "Duration:\t%dms\n", run.DurationMS)
	fmt.Fprintf(tw, "Started:\t%s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if run.Error != nil {
		fmt.Fprintf(tw, "Error:\t%s\n", *run.Error)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, sol := range d.Solutions {
		fmt.Fprintf(w, "\nSolution %d (cost %g, length %d):\n", sol.Index+1, sol.Cost, sol.Length)
		writeActions(w, sol.Actions)
	}

	if len(d.Events) > 0 {
		fmt.Fprintln(w, "\nEvents:")
		for _, e := range d.Events {
			fmt.Fprintf(w, "  %s  %-7s %-22s %s\n",
				e.Timestamp.Local().Format("15:04:05.000"), strings.ToUpper(string(e.Level)), e.Type, e.Message)
		}
	}
	return nil
}
