package reportsrc

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ValidateSchema checks that both configured columns exist as leaf columns
// and returns their column indexes.
func ValidateSchema(schema *parquet.Schema, opts Options) (idCol, reportCol int, err error) {
	idCol, err = leafIndex(schema, opts.StudyIDColumn)
	if err != nil {
		return 0, 0, err
	}
	reportCol, err = leafIndex(schema, opts.ReportColumn)
	if err != nil {
		return 0, 0, err
	}
	return idCol, reportCol, nil
}

func leafIndex(schema *parquet.Schema, name string) (int, error) {
	if leaf, ok := schema.Lookup(name); ok {
		return leaf.ColumnIndex, nil
	}
	var have []string
	for _, f := range schema.Fields() {
		have = append(have, f.Name())
	}
	return 0, fmt.Errorf("missing required column %q (have: %s)", name, strings.Join(have, ", "))
}

// headerIndex resolves a column by name in a CSV header.
func headerIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("missing required column %q (have: %s)", name, strings.Join(header, ", "))
}
