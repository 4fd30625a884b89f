package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gyeh/laeextract/internal/exitcode"
	"github.com/gyeh/laeextract/internal/model"
	"github.com/gyeh/laeextract/internal/normalize"
	"github.com/gyeh/laeextract/internal/rules"
)

var scoreCmd = &cobra.Command{
	Use:   "score [report-file]",
	Short: "Evaluate a single report from a file or stdin and print every field",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	log := newLogger()

	in := io.Reader(os.Stdin)
	name := "stdin"
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fail(log, exitcode.ValidationError, err, "cannot open report")
		}
		defer f.Close()
		in, name = f, args[0]
	}
	body, err := io.ReadAll(in)
	if err != nil {
		return fail(log, exitcode.ValidationError, err, "cannot read report")
	}

	res := rules.NewExtractor(log).Extract(normalize.ToReport(name, string(body)))
	printResult(os.Stdout, &res)
	return nil
}

func printResult(w io.Writer, res *model.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "field\traw\tevaluated")
	raw, labels := res.Input.Values(), res.Evaluated.Labels()
	for i, f := range model.AllFields {
		fmt.Fprintf(tw, "%s\t%q\t%s\n", f.Name, raw[i], labels[i])
	}
	calc := "undefined"
	if res.ClotBurden != nil {
		calc = model.FormatFloat(*res.ClotBurden)
	}
	fmt.Fprintf(tw, "clot_burden_score_calc\t\t%s\n", calc)
	_ = tw.Flush()
}
