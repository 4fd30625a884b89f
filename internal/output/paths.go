// Package output writes extraction results to CSV and Parquet tables.
package output

import (
	"fmt"
	"path/filepath"

	"github.com/gyeh/laeextract/internal/normalize"
)

// Format is an output table format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatParquet:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported output format %q: want csv or parquet", s)
	}
}

// Paths names every file a run writes. Timestamp may be empty.
type Paths struct {
	Dir       string
	Timestamp string
}

func (p Paths) file(name string) string {
	if p.Timestamp != "" {
		name = p.Timestamp + "_" + name
	}
	return filepath.Join(p.Dir, name)
}

// InputValues is the raw-values table of a rules run.
func (p Paths) InputValues(f Format) string { return p.file("input_values." + string(f)) }

// EvaluatedValues is the decoded-values table of a rules run.
func (p Paths) EvaluatedValues(f Format) string { return p.file("evaluated_values." + string(f)) }

// Extracted is the per-model table of an LLM run. Model names such as
// "qwen2.5:72b" are sanitized.
func (p Paths) Extracted(model string) string {
	name := "extracted_" + model + ".csv"
	if p.Timestamp != "" {
		name = p.Timestamp + "_" + name
	}
	return filepath.Join(p.Dir, normalize.SanitizeFilename(name))
}

// Log is the run log file.
func (p Paths) Log() string { return p.file("log.txt") }
