package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/laeextract/internal/exitcode"
	"github.com/gyeh/laeextract/internal/extract"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run validation and field statistics (no writes)",
	RunE:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := newLogger()

	if err := cfg.Validate(); err != nil {
		return fail(log, exitcode.UsageError, err, "config validation failed")
	}

	p, err := extract.BuildPlan(log, &cfg)
	if err != nil {
		return pipelineExit(log, err, "plan failed")
	}
	p.Print(os.Stdout)
	return nil
}
