package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/laeextract/internal/model"
	embedsql "github.com/gyeh/laeextract/internal/sql"
)

// Run statuses stored in lae.runs.status.
const (
	StatusPending   = "pending"
	StatusLoading   = "loading"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run identifies one extraction run in lae.runs.
type Run struct {
	ID           uuid.UUID
	Mode         string // "rules" or "llm"
	Model        string // llm only
	SourceFile   string
	SourceSHA256 string
}

// Store writes extraction results into the lae schema.
type Store struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewStore wraps an open pool.
func NewStore(pool *pgxpool.Pool, log zerolog.Logger) *Store {
	return &Store{pool: pool, log: log}
}

// RegisterRun inserts the run with status pending.
func (s *Store) RegisterRun(ctx context.Context, run Run) error {
	var started time.Time
	err := s.pool.QueryRow(ctx, embedsql.RegisterRun,
		run.ID, run.Mode, run.Model, run.SourceFile, run.SourceSHA256,
	).Scan(&started)
	if err != nil {
		return fmt.Errorf("register run: %w", err)
	}
	s.log.Info().
		Str("run_id", run.ID.String()).
		Str("mode", run.Mode).
		Time("started_at", started).
		Msg("run registered")
	return nil
}

// UpdateRunStatus sets lae.runs.status.
func (s *Store) UpdateRunStatus(ctx context.Context, runID uuid.UUID, status string) error {
	if _, err := s.pool.Exec(ctx, embedsql.UpdateRunStatus, runID, status); err != nil {
		return fmt.Errorf("update run status %s: %w", status, err)
	}
	return nil
}

// CompleteRun marks the run completed and records its counters.
func (s *Store) CompleteRun(ctx context.Context, runID uuid.UUID, summary *model.RunSummary) error {
	_, err := s.pool.Exec(ctx, embedsql.CompleteRun,
		runID, summary.ReportsProcessed, summary.ReportsFailed, summary.ScoreMismatches,
	)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	return nil
}

// DeleteRunRows removes every result row of a run (cleanup of a failed load).
func (s *Store) DeleteRunRows(ctx context.Context, runID uuid.UUID) error {
	for _, table := range []string{"input_values", "evaluated_values", "llm_extractions"} {
		if _, err := s.pool.Exec(ctx,
			fmt.Sprintf("DELETE FROM lae.%s WHERE run_id = $1", table), runID,
		); err != nil {
			return fmt.Errorf("delete %s rows: %w", table, err)
		}
	}
	return nil
}

// CopyRules COPY-loads both rules tables in one transaction.
func (s *Store) CopyRules(ctx context.Context, runID uuid.UUID, input []model.InputValuesRow, evaluated []model.EvaluatedValuesRow) (int64, error) {
	start := time.Now()
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	nIn, err := copyRows(ctx, tx, "input_values", model.InputValuesColumns(), runID, pointers(input))
	if err != nil {
		return 0, err
	}
	nEval, err := copyRows(ctx, tx, "evaluated_values", model.EvaluatedValuesColumns(), runID, pointers(evaluated))
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	s.log.Info().
		Str("run_id", runID.String()).
		Int64("input_values", nIn).
		Int64("evaluated_values", nEval).
		Str("duration", time.Since(start).String()).
		Msg("rules results stored")
	return nIn + nEval, nil
}

// llmColumns is the COPY column order of lae.llm_extractions after run_id.
func llmColumns() []string {
	return []string{
		"study_id", "model", "payload", "clot_burden_score_calc",
		"prompt_tokens", "completion_tokens", "duration_seconds", "error",
	}
}

// CopyLLM COPY-loads model extraction results; Data is stored as jsonb.
func (s *Store) CopyLLM(ctx context.Context, runID uuid.UUID, results []model.LLMResult) (int64, error) {
	start := time.Now()
	rows := make([]*llmRow, 0, len(results))
	for i := range results {
		r := &llmRow{res: &results[i]}
		if results[i].Data != nil {
			payload, err := json.Marshal(results[i].Data)
			if err != nil {
				return 0, fmt.Errorf("marshal %s: %w", results[i].StudyID, err)
			}
			r.payload = payload
		}
		rows = append(rows, r)
	}

	n, err := copyRows(ctx, s.pool, "llm_extractions", llmColumns(), runID, rows)
	if err != nil {
		return 0, err
	}

	s.log.Info().
		Str("run_id", runID.String()).
		Int64("rows", n).
		Str("duration", time.Since(start).String()).
		Msg("llm results stored")
	return n, nil
}

type llmRow struct {
	res     *model.LLMResult
	payload []byte
}

func (r *llmRow) CopyValues(runID uuid.UUID) []any {
	return r.res.CopyValues(runID, r.payload)
}

// copier is satisfied by both *pgxpool.Pool and pgx.Tx.
type copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// copyRows streams rows through a ChannelSource into lae.<table>.
func copyRows[T CopyRow](ctx context.Context, tx copier, table string, cols []string, runID uuid.UUID, rows []T) (int64, error) {
	ch := make(chan T, 256)
	go func() {
		defer close(ch)
		for _, r := range rows {
			select {
			case ch <- r:
			case <-ctx.Done():
				return
			}
		}
	}()

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"lae", table},
		append([]string{"run_id"}, cols...),
		NewChannelSource(runID, ch),
	)
	if err != nil {
		// drain so the producer exits
		for range ch {
		}
		return 0, fmt.Errorf("copy %s: %w", table, err)
	}
	return n, nil
}

func pointers[T any](rows []T) []*T {
	out := make([]*T, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}
