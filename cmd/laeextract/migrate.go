package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gyeh/laeextract/internal/db"
	"github.com/gyeh/laeextract/internal/exitcode"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database schema migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := newLogger()
	ctx := context.Background()

	if err := cfg.ValidateWithDSN(); err != nil {
		return fail(log, exitcode.UsageError, err, "config validation failed")
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		return fail(log, exitcode.DBError, err, "database connection failed")
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, log); err != nil {
		return fail(log, exitcode.DBError, err, "migration failed")
	}

	log.Info().Msg("all migrations applied successfully")
	return nil
}
