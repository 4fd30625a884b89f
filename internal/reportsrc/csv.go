package reportsrc

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/gyeh/laeextract/internal/model"
)

// CSVReader streams reports from a CSV file with a header row. Report bodies
// are quoted multi-line cells.
type CSVReader struct {
	file      *os.File
	reader    *csv.Reader
	idCol     int
	reportCol int
}

func decoderFor(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1, nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15, nil
	default:
		return nil, fmt.Errorf("unsupported input encoding %q", name)
	}
}

// OpenCSV opens a CSV file, decodes it to UTF-8 if needed and resolves the
// configured columns from the header.
func OpenCSV(path string, opts Options) (*CSVReader, error) {
	enc, err := decoderFor(opts.Encoding)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}

	var src io.Reader = f
	if enc != nil {
		src = transform.NewReader(f, enc.NewDecoder())
	}

	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	idCol, err := headerIndex(header, opts.StudyIDColumn)
	if err != nil {
		f.Close()
		return nil, err
	}
	reportCol, err := headerIndex(header, opts.ReportColumn)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &CSVReader{file: f, reader: r, idCol: idCol, reportCol: reportCol}, nil
}

// NumRows is unknown until the file has been read.
func (r *CSVReader) NumRows() int64 { return -1 }

// Read returns the next report or io.EOF.
func (r *CSVReader) Read() (model.Report, error) {
	rec, err := r.reader.Read()
	if err == io.EOF {
		return model.Report{}, io.EOF
	}
	if err != nil {
		return model.Report{}, fmt.Errorf("read csv row: %w", err)
	}

	line, _ := r.reader.FieldPos(0)
	if r.idCol >= len(rec) || r.reportCol >= len(rec) {
		return model.Report{}, fmt.Errorf("csv line %d: expected at least %d columns, got %d",
			line, max(r.idCol, r.reportCol)+1, len(rec))
	}
	return toReport(rec[r.idCol], rec[r.reportCol]), nil
}

// Close releases the underlying file.
func (r *CSVReader) Close() error {
	return r.file.Close()
}
