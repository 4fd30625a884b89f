package reportsrc

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/laeextract/internal/model"
)

// ParquetReader streams reports from a Parquet file, looking columns up by name.
type ParquetReader struct {
	file      *os.File
	reader    *parquet.Reader
	idCol     int
	reportCol int
	buf       []parquet.Row
}

// OpenParquet opens a Parquet file and resolves the configured columns.
func OpenParquet(path string, opts Options) (*ParquetReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	idCol, reportCol, err := ValidateSchema(pf.Schema(), opts)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &ParquetReader{
		file:      f,
		reader:    parquet.NewReader(pf),
		idCol:     idCol,
		reportCol: reportCol,
		buf:       make([]parquet.Row, 1),
	}, nil
}

// NumRows returns the total number of rows in the Parquet file.
func (r *ParquetReader) NumRows() int64 {
	return r.reader.NumRows()
}

// Read returns the next report or io.EOF.
func (r *ParquetReader) Read() (model.Report, error) {
	n, err := r.reader.ReadRows(r.buf)
	if n == 0 {
		if err == nil || err == io.EOF {
			return model.Report{}, io.EOF
		}
		return model.Report{}, fmt.Errorf("read parquet rows: %w", err)
	}

	var id, body string
	for _, v := range r.buf[0] {
		switch v.Column() {
		case r.idCol:
			id = valueString(v)
		case r.reportCol:
			body = valueString(v)
		}
	}
	return toReport(id, body), nil
}

func valueString(v parquet.Value) string {
	if v.IsNull() {
		return ""
	}
	switch v.Kind() {
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	default:
		return v.String()
	}
}

// Close releases all resources.
func (r *ParquetReader) Close() error {
	if err := r.reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}
