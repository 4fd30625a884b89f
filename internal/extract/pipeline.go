// Package extract runs the load, evaluate, export and store phases of an
// extraction run.
package extract

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/gyeh/laeextract/internal/db"
	"github.com/gyeh/laeextract/internal/metrics"
	"github.com/gyeh/laeextract/internal/output"
)

// Pipeline phases.
const (
	PhaseLoad     = "load"
	PhaseEvaluate = "evaluate"
	PhaseExport   = "export"
	PhaseStore    = "store"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Env carries the collaborators of a run. Store, Metrics and Progress are
// optional.
type Env struct {
	Paths    output.Paths
	Store    *db.Store
	Metrics  *metrics.Metrics
	Progress io.Writer
}

func (env Env) progressBar(total int, description string) *progressbar.ProgressBar {
	if env.Progress == nil {
		return progressbar.NewOptions(total, progressbar.OptionSetVisibility(false))
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(env.Progress),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
