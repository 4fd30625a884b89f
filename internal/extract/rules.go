package extract

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/laeextract/internal/config"
	"github.com/gyeh/laeextract/internal/db"
	"github.com/gyeh/laeextract/internal/model"
	"github.com/gyeh/laeextract/internal/output"
	"github.com/gyeh/laeextract/internal/rules"
)

// Evaluate runs the rules engine over reports in order and tallies field
// outcomes into summary.
func Evaluate(log zerolog.Logger, env Env, reports []model.Report, summary *model.RunSummary) []model.Result {
	ex := rules.NewExtractor(log)
	bar := env.progressBar(len(reports), "evaluating")
	defer bar.Finish()

	results := make([]model.Result, 0, len(reports))
	for _, r := range reports {
		res := ex.Extract(r)
		for _, code := range res.Evaluated.ErrorCodes() {
			switch code {
			case model.MissingField:
				summary.FieldsMissing++
			case model.InvalidValue:
				summary.FieldsInvalid++
			}
		}
		if res.ClotBurden != nil {
			summary.ScoresComputed++
		}
		if _, mismatch := rules.ScoreMismatch(&res); mismatch {
			summary.ScoreMismatches++
		}
		if env.Metrics != nil {
			env.Metrics.ObserveResult(&res)
		}
		results = append(results, res)
		summary.ReportsProcessed++
		_ = bar.Add(1)
	}
	return results
}

// RunRules executes a rules-engine run: load → evaluate → export → store.
func RunRules(ctx context.Context, log zerolog.Logger, cfg *config.Config, env Env) (*model.RunSummary, error) {
	totalStart := time.Now()
	runID := uuid.New()
	log = log.With().Str("run_id", runID.String()).Logger()

	format, err := output.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseLoad, Err: err}
	}

	// Phase 1: Load
	log.Info().Str("file", cfg.ReportsFile).Msg("loading reports")
	loaded, err := Load(log, cfg)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseLoad, Err: err}
	}
	summary := &model.RunSummary{
		RunID:        runID.String(),
		Mode:         "rules",
		SourceFile:   loaded.FilePath,
		SourceSHA256: loaded.FileSHA256,
		ReportsRead:  loaded.RowsRead,
		DurationLoad: loaded.Duration,
	}

	run := db.Run{ID: runID, Mode: summary.Mode, SourceFile: loaded.FilePath, SourceSHA256: loaded.FileSHA256}
	if err := registerRun(ctx, env, run); err != nil {
		return nil, &PipelineError{Phase: PhaseStore, Err: err}
	}

	// Phase 2: Evaluate
	log.Info().Int("reports", len(loaded.Reports)).Msg("evaluating reports")
	evalStart := time.Now()
	results := Evaluate(log, env, loaded.Reports, summary)
	summary.DurationEvaluate = time.Since(evalStart)
	log.Info().
		Int64("processed", summary.ReportsProcessed).
		Int64("fields_missing", summary.FieldsMissing).
		Int64("fields_invalid", summary.FieldsInvalid).
		Int64("scores_computed", summary.ScoresComputed).
		Int64("score_mismatches", summary.ScoreMismatches).
		Str("duration", summary.DurationEvaluate.String()).
		Msg("evaluation complete")

	// Phase 3: Export
	exportStart := time.Now()
	tables := output.NewRulesTables(results)
	files, err := output.WriteRules(env.Paths, format, tables)
	summary.OutputFiles = files
	if err != nil {
		failRun(ctx, log, env, runID)
		return summary, &PipelineError{Phase: PhaseExport, Err: err}
	}
	summary.DurationExport = time.Since(exportStart)
	log.Info().Strs("files", files).Str("duration", summary.DurationExport.String()).Msg("tables written")

	// Phase 4: Store
	if env.Store != nil {
		if err := env.Store.UpdateRunStatus(ctx, runID, db.StatusLoading); err != nil {
			return summary, &PipelineError{Phase: PhaseStore, Err: err}
		}
		if _, err := env.Store.CopyRules(ctx, runID, tables.Input, tables.Evaluated); err != nil {
			failRun(ctx, log, env, runID)
			return summary, &PipelineError{Phase: PhaseStore, Err: err}
		}
	}

	summary.DurationTotal = time.Since(totalStart)
	if err := completeRun(ctx, env, runID, summary); err != nil {
		return summary, &PipelineError{Phase: PhaseStore, Err: err}
	}
	finish(log, env, summary)
	return summary, nil
}
