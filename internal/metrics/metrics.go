// Package metrics collects per-run Prometheus metrics and writes them in the
// node_exporter textfile format for batch jobs.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gyeh/laeextract/internal/model"
)

// Metrics holds the collectors of one extraction run. Each run gets its own
// registry so repeated runs in one process never collide.
//
// Metrics:
//   - laeextract_reports_total{mode,outcome} - reports processed, skipped or failed
//   - laeextract_field_errors_total{field,code} - per-field decode failures
//   - laeextract_score_mismatches_total - reported vs calculated clot burden score
//   - laeextract_llm_tokens_total{kind} - prompt and completion tokens
//   - laeextract_llm_request_duration_seconds - model latency per report
//   - laeextract_phase_duration_seconds{phase} - wall time of each pipeline phase
//   - laeextract_last_run_timestamp_seconds - completion time of the run
type Metrics struct {
	reg *prometheus.Registry

	Reports         *prometheus.CounterVec
	FieldErrors     *prometheus.CounterVec
	ScoreMismatches prometheus.Counter
	LLMTokens       *prometheus.CounterVec
	LLMDuration     prometheus.Histogram
	PhaseDuration   *prometheus.GaugeVec
	LastRun         prometheus.Gauge
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		Reports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "laeextract_reports_total",
			Help: "Reports handled by outcome",
		}, []string{"mode", "outcome"}),
		FieldErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "laeextract_field_errors_total",
			Help: "Fields that failed to decode",
		}, []string{"field", "code"}),
		ScoreMismatches: f.NewCounter(prometheus.CounterOpts{
			Name: "laeextract_score_mismatches_total",
			Help: "Reports whose reported clot burden score differs from the calculated one",
		}),
		LLMTokens: f.NewCounterVec(prometheus.CounterOpts{
			Name: "laeextract_llm_tokens_total",
			Help: "Tokens used by model requests",
		}, []string{"kind"}),
		LLMDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "laeextract_llm_request_duration_seconds",
			Help:    "Model extraction latency per report including retries",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2m
		}),
		PhaseDuration: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "laeextract_phase_duration_seconds",
			Help: "Wall time of each pipeline phase",
		}, []string{"phase"}),
		LastRun: f.NewGauge(prometheus.GaugeOpts{
			Name: "laeextract_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
	}
}

// Registry exposes the underlying registry for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// ObserveResult records the field errors of one rules-engine result.
func (m *Metrics) ObserveResult(r *model.Result) {
	m.Reports.WithLabelValues("rules", "processed").Inc()
	for i, code := range r.Evaluated.ErrorCodes() {
		if code == model.NoError {
			continue
		}
		m.FieldErrors.WithLabelValues(model.AllFields[i].Name, code.String()).Inc()
	}
}

// ObserveLLM records one model extraction.
func (m *Metrics) ObserveLLM(r *model.LLMResult) {
	outcome := "processed"
	if r.Error != "" {
		outcome = "failed"
	}
	m.Reports.WithLabelValues("llm", outcome).Inc()
	m.LLMTokens.WithLabelValues("prompt").Add(float64(r.PromptTokens))
	m.LLMTokens.WithLabelValues("completion").Add(float64(r.CompletionTokens))
	m.LLMDuration.Observe(r.Duration.Seconds())
}

// ObserveSummary records phase timings and skip counts once a run is done.
func (m *Metrics) ObserveSummary(s *model.RunSummary, finished time.Time) {
	m.ScoreMismatches.Add(float64(s.ScoreMismatches))
	if s.ReportsSkipped > 0 {
		m.Reports.WithLabelValues(s.Mode, "skipped").Add(float64(s.ReportsSkipped))
	}
	m.PhaseDuration.WithLabelValues("load").Set(s.DurationLoad.Seconds())
	m.PhaseDuration.WithLabelValues("evaluate").Set(s.DurationEvaluate.Seconds())
	m.PhaseDuration.WithLabelValues("export").Set(s.DurationExport.Seconds())
	m.PhaseDuration.WithLabelValues("total").Set(s.DurationTotal.Seconds())
	m.LastRun.Set(float64(finished.Unix()))
}

// WriteTextfile writes all metrics to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
