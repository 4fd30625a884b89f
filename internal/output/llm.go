package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/gyeh/laeextract/internal/model"
)

// LLMWriter appends extraction results to a CSV file, one flushed row per
// report, so an interrupted run keeps everything written so far. It is safe
// for concurrent use.
type LLMWriter struct {
	mu   sync.Mutex
	f    *os.File
	w    *csv.Writer
	path string
}

// OpenLLMWriter opens path for appending, writing the header when the file
// is new or empty.
func OpenLLMWriter(path string) (*LLMWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	lw := &LLMWriter{f: f, w: csv.NewWriter(f), path: path}
	if stat.Size() == 0 {
		if err := lw.writeRecord(model.LLMColumns()); err != nil {
			f.Close()
			return nil, err
		}
	}
	return lw, nil
}

// Path returns the file being written.
func (lw *LLMWriter) Path() string { return lw.path }

// Write appends one result and flushes it to disk.
func (lw *LLMWriter) Write(r *model.LLMResult) error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.writeRecord(r.Strings())
}

func (lw *LLMWriter) writeRecord(rec []string) error {
	if err := lw.w.Write(rec); err != nil {
		return fmt.Errorf("write %s: %w", lw.path, err)
	}
	lw.w.Flush()
	if err := lw.w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", lw.path, err)
	}
	return nil
}

// Close closes the file.
func (lw *LLMWriter) Close() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.f.Close()
}

// CompletedStudyIDs returns the study IDs of rows in an existing LLM table
// that carry no error. A missing file yields an empty set.
func CompletedStudyIDs(path string) (map[string]bool, error) {
	done := make(map[string]bool)

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return done, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return done, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header %s: %w", path, err)
	}
	errCol := -1
	for i, h := range header {
		if h == "error" {
			errCol = i
		}
	}
	if len(header) == 0 || header[0] != "study_id" || errCol < 0 {
		return nil, fmt.Errorf("%s is not an extraction table", path)
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			return done, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if errCol < len(rec) && rec[errCol] != "" {
			continue
		}
		done[rec[0]] = true
	}
}
