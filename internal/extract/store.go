package extract

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/laeextract/internal/db"
	"github.com/gyeh/laeextract/internal/model"
)

func registerRun(ctx context.Context, env Env, run db.Run) error {
	if env.Store == nil {
		return nil
	}
	return env.Store.RegisterRun(ctx, run)
}

func completeRun(ctx context.Context, env Env, runID uuid.UUID, summary *model.RunSummary) error {
	if env.Store == nil {
		return nil
	}
	return env.Store.CompleteRun(ctx, runID, summary)
}

// failRun marks the run failed and removes any partially stored rows.
// Errors are logged, not returned: the caller is already failing.
func failRun(ctx context.Context, log zerolog.Logger, env Env, runID uuid.UUID) {
	if env.Store == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if err := env.Store.DeleteRunRows(ctx, runID); err != nil {
		log.Warn().Err(err).Msg("cleanup of stored rows failed (non-fatal)")
	}
	if err := env.Store.UpdateRunStatus(ctx, runID, db.StatusFailed); err != nil {
		log.Warn().Err(err).Msg("marking run failed did not succeed")
	}
}

// finish logs the run summary and records it in metrics.
func finish(log zerolog.Logger, env Env, summary *model.RunSummary) {
	if env.Metrics != nil {
		env.Metrics.ObserveSummary(summary, time.Now())
	}
	log.Info().
		Str("mode", summary.Mode).
		Int64("reports_read", summary.ReportsRead).
		Int64("reports_processed", summary.ReportsProcessed).
		Int64("reports_skipped", summary.ReportsSkipped).
		Int64("reports_failed", summary.ReportsFailed).
		Int64("score_mismatches", summary.ScoreMismatches).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("extraction run complete")
}
