package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gyeh/laeextract/internal/exitcode"
	"github.com/gyeh/laeextract/internal/extract"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Extract findings with the rules engine",
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().StringVar(&cfg.OutputFormat, "format", envOr("OUTPUT_FORMAT", "csv"), "Output table format: csv or parquet")
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	if err := cfg.Validate(); err != nil {
		return fail(newLogger(), exitcode.UsageError, err, "config validation failed")
	}

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	summary, err := extract.RunRules(ctx, s.log, &cfg, s.env)
	s.writeMetrics()
	if err != nil {
		return pipelineExit(s.log, err, "rules extraction failed")
	}
	printSummary(summary)
	return nil
}
