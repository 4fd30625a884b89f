package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gyeh/laeextract/internal/config"
	"github.com/gyeh/laeextract/internal/db"
	"github.com/gyeh/laeextract/internal/llm"
	"github.com/gyeh/laeextract/internal/model"
	"github.com/gyeh/laeextract/internal/output"
)

// RunLLM executes a model extraction run: load → evaluate (bounded worker
// pool, one flushed output row per report) → store. Reports whose model
// call failed are counted in ReportsFailed and do not fail the run.
func RunLLM(ctx context.Context, log zerolog.Logger, cfg *config.Config, gen llm.Generator, env Env) (*model.RunSummary, error) {
	totalStart := time.Now()
	runID := uuid.New()
	log = log.With().Str("run_id", runID.String()).Str("model", cfg.LLM.Model).Logger()

	// Phase 1: Load
	log.Info().Str("file", cfg.ReportsFile).Msg("loading reports")
	loaded, err := Load(log, cfg)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseLoad, Err: err}
	}
	summary := &model.RunSummary{
		RunID:        runID.String(),
		Mode:         "llm",
		SourceFile:   loaded.FilePath,
		SourceSHA256: loaded.FileSHA256,
		ReportsRead:  loaded.RowsRead,
	}

	path := env.Paths.Extracted(cfg.LLM.Model)
	reports, err := pending(log, cfg, path, loaded.Reports, summary)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseLoad, Err: err}
	}
	summary.DurationLoad = time.Since(totalStart)

	run := db.Run{
		ID: runID, Mode: summary.Mode, Model: cfg.LLM.Model,
		SourceFile: loaded.FilePath, SourceSHA256: loaded.FileSHA256,
	}
	if err := registerRun(ctx, env, run); err != nil {
		return nil, &PipelineError{Phase: PhaseStore, Err: err}
	}

	writer, err := output.OpenLLMWriter(path)
	if err != nil {
		failRun(ctx, log, env, runID)
		return nil, &PipelineError{Phase: PhaseExport, Err: err}
	}
	summary.OutputFiles = []string{path}

	// Phase 2: Evaluate
	log.Info().
		Int("reports", len(reports)).
		Int("concurrency", cfg.LLM.Concurrency).
		Str("output", path).
		Msg("extracting reports")
	evalStart := time.Now()
	results, err := extractAll(ctx, log, cfg, gen, env, writer, reports, summary)
	summary.DurationEvaluate = time.Since(evalStart)
	if cerr := writer.Close(); cerr != nil && err == nil {
		err = &PipelineError{Phase: PhaseExport, Err: fmt.Errorf("close %s: %w", path, cerr)}
	}
	if err != nil {
		failRun(ctx, log, env, runID)
		return summary, err
	}
	log.Info().
		Int64("processed", summary.ReportsProcessed).
		Int64("failed", summary.ReportsFailed).
		Int64("prompt_tokens", summary.PromptTokens).
		Int64("completion_tokens", summary.CompletionTokens).
		Str("duration", summary.DurationEvaluate.String()).
		Msg("extraction complete")

	// Phase 3: Store
	if env.Store != nil {
		if err := env.Store.UpdateRunStatus(ctx, runID, db.StatusLoading); err != nil {
			return summary, &PipelineError{Phase: PhaseStore, Err: err}
		}
		if _, err := env.Store.CopyLLM(ctx, runID, results); err != nil {
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

// pending drops reports already extracted without error when resuming.
// Without resume an existing output file is replaced.
func pending(log zerolog.Logger, cfg *config.Config, path string, reports []model.Report, summary *model.RunSummary) ([]model.Report, error) {
	if !cfg.LLM.Resume {
		if err := os.Remove(path); err == nil {
			log.Warn().Str("file", path).Msg("replaced existing extraction table")
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove %s: %w", path, err)
		}
		return reports, nil
	}

	done, err := output.CompletedStudyIDs(path)
	if err != nil {
		return nil, err
	}
	out := reports[:0:0]
	for _, r := range reports {
		if done[r.StudyID] {
			summary.ReportsSkipped++
			continue
		}
		out = append(out, r)
	}
	log.Info().
		Int64("skipped", summary.ReportsSkipped).
		Int("remaining", len(out)).
		Msg("resuming extraction")
	return out, nil
}

// extractAll fans reports out over a bounded worker pool. Results come back
// in input order.
func extractAll(ctx context.Context, log zerolog.Logger, cfg *config.Config, gen llm.Generator, env Env,
	writer *output.LLMWriter, reports []model.Report, summary *model.RunSummary,
) ([]model.LLMResult, error) {
	ex := llm.NewExtractor(gen, llm.Options{
		Model:             cfg.LLM.Model,
		MaxRetries:        cfg.LLM.MaxRetries,
		Timeout:           cfg.LLM.Timeout,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	}, log)
	bar := env.progressBar(len(reports), "extracting")
	defer bar.Finish()

	results := make([]model.LLMResult, len(reports))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.LLM.Concurrency, 1))
	for i, r := range reports {
		g.Go(func() error {
			res, err := ex.Extract(gctx, r)
			if err != nil {
				return &PipelineError{Phase: PhaseEvaluate, Err: err}
			}
			if err := writer.Write(&res); err != nil {
				return &PipelineError{Phase: PhaseExport, Err: err}
			}
			if env.Metrics != nil {
				env.Metrics.ObserveLLM(&res)
			}
			results[i] = res

			mu.Lock()
			summary.ReportsProcessed++
			if res.Error != "" {
				summary.ReportsFailed++
			}
			if res.ClotBurden != nil {
				summary.ScoresComputed++
				if reported := res.Data.Findings.ClotBurdenScore; reported != nil && *reported != *res.ClotBurden {
					summary.ScoreMismatches++
				}
			}
			summary.PromptTokens += int64(res.PromptTokens)
			summary.CompletionTokens += int64(res.CompletionTokens)
			mu.Unlock()

			_ = bar.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
