package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/laeextract/internal/db"
	"github.com/gyeh/laeextract/internal/exitcode"
	"github.com/gyeh/laeextract/internal/extract"
	"github.com/gyeh/laeextract/internal/logging"
	"github.com/gyeh/laeextract/internal/metrics"
	"github.com/gyeh/laeextract/internal/model"
	"github.com/gyeh/laeextract/internal/normalize"
	"github.com/gyeh/laeextract/internal/output"
)

// session holds what an extraction command opens before running and must
// release afterwards.
type session struct {
	log     zerolog.Logger
	env     extract.Env
	pool    *pgxpool.Pool
	logFile io.Closer
}

// openSession creates the output directory, the run log, metrics and the
// optional database store.
func openSession(ctx context.Context) (*session, error) {
	log := newLogger()
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fail(log, exitcode.ExportError, err, "cannot create output directory")
	}

	paths := output.Paths{
		Dir:       cfg.OutputDir,
		Timestamp: normalize.RunTimestamp(time.Now(), !cfg.NoTimestamp),
	}
	log, logFile, err := logging.SetupWithFile(cfg.LogFormat, paths.Log())
	if err != nil {
		return nil, fail(newLogger(), exitcode.ExportError, err, "cannot open run log")
	}

	s := &session{
		log:     log,
		logFile: logFile,
		env: extract.Env{
			Paths:    paths,
			Metrics:  metrics.New(),
			Progress: progressWriter(),
		},
	}

	if cfg.DSN != "" {
		pool, err := db.NewPool(ctx, cfg.DSN)
		if err != nil {
			s.close()
			return nil, fail(log, exitcode.DBError, err, "database connection failed")
		}
		s.pool = pool
		s.env.Store = db.NewStore(pool, log)
	}
	return s, nil
}

func (s *session) close() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.logFile != nil {
		_ = s.logFile.Close()
	}
}

// writeMetrics exports the run's metrics when --metrics-file is set.
func (s *session) writeMetrics() {
	if cfg.MetricsFile == "" {
		return
	}
	if err := s.env.Metrics.WriteTextfile(cfg.MetricsFile); err != nil {
		s.log.Warn().Err(err).Msg("metrics export failed (non-fatal)")
	}
}

// pipelineExit maps a pipeline failure to an exit code.
func pipelineExit(log zerolog.Logger, err error, msg string) error {
	var pe *extract.PipelineError
	if !errors.As(err, &pe) {
		return fail(log, exitcode.ExtractError, err, msg)
	}
	log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg(msg)
	code := exitcode.ExtractError
	switch pe.Phase {
	case extract.PhaseLoad:
		code = exitcode.ValidationError
	case extract.PhaseExport:
		code = exitcode.ExportError
	case extract.PhaseStore:
		code = exitcode.DBError
	}
	return &exitError{code: code, err: err, logged: true}
}

func printSummary(s *model.RunSummary) {
	fmt.Printf("%s extraction complete: %d reports processed", s.Mode, s.ReportsProcessed)
	if s.ReportsSkipped > 0 {
		fmt.Printf(", %d skipped", s.ReportsSkipped)
	}
	if s.ReportsFailed > 0 {
		fmt.Printf(", %d failed", s.ReportsFailed)
	}
	fmt.Printf(" (%.1fs)\n", s.DurationTotal.Seconds())
	for _, f := range s.OutputFiles {
		fmt.Printf("  %s\n", f)
	}
}
