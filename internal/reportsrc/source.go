// Package reportsrc reads CTPA reports from tabular files.
package reportsrc

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gyeh/laeextract/internal/model"
	"github.com/gyeh/laeextract/internal/normalize"
)

// Options selects the source columns and, for CSV, the character encoding.
type Options struct {
	StudyIDColumn string
	ReportColumn  string
	Encoding      string // "", "utf-8", "windows-1252" or "iso-8859-1"
}

// Reader streams reports one row at a time.
type Reader interface {
	// Read returns the next report, or io.EOF when the source is exhausted.
	Read() (model.Report, error)
	// NumRows returns the row count when the format records it, else -1.
	NumRows() int64
	Close() error
}

// Open picks a reader by file extension.
func Open(path string, opts Options) (Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		r, err := OpenCSV(path, opts)
		if err != nil {
			return nil, err
		}
		return r, nil
	case ".parquet":
		r, err := OpenParquet(path, opts)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unsupported report file %q: want .csv or .parquet", path)
	}
}

// Filter narrows a report set. A non-empty StudyIDs set takes precedence
// over Limit; Limit <= 0 means no limit.
type Filter struct {
	StudyIDs map[string]bool
	Limit    int
}

// ReadAll drains r applying f. It also returns how many rows were read
// before filtering.
func ReadAll(r Reader, f Filter) ([]model.Report, int64, error) {
	var (
		reports []model.Report
		read    int64
	)
	for {
		if len(f.StudyIDs) == 0 && f.Limit > 0 && len(reports) >= f.Limit {
			return reports, read, nil
		}

		rep, err := r.Read()
		if errors.Is(err, io.EOF) {
			return reports, read, nil
		}
		if err != nil {
			return nil, read, err
		}
		read++

		if len(f.StudyIDs) > 0 && !f.StudyIDs[rep.StudyID] {
			continue
		}
		reports = append(reports, rep)
	}
}

func toReport(studyID, body string) model.Report {
	return normalize.ToReport(studyID, body)
}
