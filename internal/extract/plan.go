package extract

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/gyeh/laeextract/internal/config"
	"github.com/gyeh/laeextract/internal/model"
)

// FieldStats counts decode outcomes of one field across a report set.
type FieldStats struct {
	Field   model.Field
	Value   int64
	Null    int64
	Missing int64
	Invalid int64
}

// Plan is the dry-run view of a reports file.
type Plan struct {
	Load    *LoadResult
	Fields  []FieldStats
	Summary model.RunSummary
}

// BuildPlan loads the reports and evaluates them without writing anything.
// Per-report field diagnostics are suppressed.
func BuildPlan(log zerolog.Logger, cfg *config.Config) (*Plan, error) {
	loaded, err := Load(log, cfg)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseLoad, Err: err}
	}

	p := &Plan{
		Load:   loaded,
		Fields: make([]FieldStats, len(model.AllFields)),
		Summary: model.RunSummary{
			Mode:         "rules",
			SourceFile:   loaded.FilePath,
			SourceSHA256: loaded.FileSHA256,
			ReportsRead:  loaded.RowsRead,
		},
	}
	for i, f := range model.AllFields {
		p.Fields[i].Field = f
	}

	results := Evaluate(zerolog.Nop(), Env{}, loaded.Reports, &p.Summary)
	for i := range results {
		for j, o := range results[i].Evaluated.Outcomes() {
			st := &p.Fields[j]
			switch {
			case o.HasValue():
				st.Value++
			case o.IsNull():
				st.Null++
			case o.Err() == model.MissingField:
				st.Missing++
			case o.Err() == model.InvalidValue:
				st.Invalid++
			}
		}
	}
	return p, nil
}

// Print writes a human-readable plan report.
func (p *Plan) Print(w io.Writer) {
	l := p.Load
	fmt.Fprintln(w, "=== laeextract plan ===")
	fmt.Fprintf(w, "File:       %s\n", l.FilePath)
	fmt.Fprintf(w, "SHA-256:    %s\n", l.FileSHA256)
	fmt.Fprintf(w, "Size:       %d bytes\n", l.FileSize)
	if l.NumRows >= 0 {
		fmt.Fprintf(w, "Total rows: %d\n", l.NumRows)
	}
	fmt.Fprintf(w, "Rows read:  %d\n", l.RowsRead)
	fmt.Fprintf(w, "Selected:   %d reports\n", len(l.Reports))
	if len(l.MissingStudyIDs) > 0 {
		fmt.Fprintf(w, "Not found:  %v\n", l.MissingStudyIDs)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Field distribution:")
	fmt.Fprintf(w, "  %-24s %8s %8s %8s %8s\n", "field", "value", "null", "missing", "invalid")
	for _, st := range p.Fields {
		fmt.Fprintf(w, "  %-24s %8d %8d %8d %8d\n", st.Field.Name, st.Value, st.Null, st.Missing, st.Invalid)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Scores computed:  %d\n", p.Summary.ScoresComputed)
	fmt.Fprintf(w, "Score mismatches: %d\n", p.Summary.ScoreMismatches)
}
