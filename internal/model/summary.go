package model

import "time"

// RunSummary captures metrics from a single extraction run.
type RunSummary struct {
	RunID            string
	Mode             string // "rules" or "llm"
	SourceFile       string
	SourceSHA256     string
	ReportsRead      int64
	ReportsProcessed int64
	ReportsSkipped   int64 // already present in a resumed output
	ReportsFailed    int64 // llm only: no usable response
	FieldsMissing    int64
	FieldsInvalid    int64
	ScoresComputed   int64
	ScoreMismatches  int64 // reported CBS differs from calculated CBS
	PromptTokens     int64
	CompletionTokens int64
	OutputFiles      []string
	DurationLoad     time.Duration
	DurationEvaluate time.Duration
	DurationExport   time.Duration
	DurationTotal    time.Duration
}
