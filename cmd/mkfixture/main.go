// mkfixture writes a reproducible set of synthetic CTPA reports for demos and tests.
// Usage: go run ./cmd/mkfixture --out testdata/reports --rows 200 --seed 1
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gyeh/laeextract/internal/fixture"
	"github.com/gyeh/laeextract/internal/output"
)

func main() {
	out := flag.String("out", "testdata/reports", "output path without extension")
	rows := flag.Int("rows", 200, "number of reports")
	seed := flag.Uint64("seed", 1, "random seed")
	invalid := flag.Float64("invalid-rate", 0.02, "share of field values replaced by garbage")
	omit := flag.Float64("omit-rate", 0.01, "share of field lines dropped")
	mismatch := flag.Float64("mismatch-rate", 0.05, "share of reports whose stated score is off")
	flag.Parse()

	if *rows < 1 {
		fmt.Fprintln(os.Stderr, "--rows must be at least 1")
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		os.Exit(1)
	}

	g := fixture.NewGenerator(*seed)
	g.InvalidRate, g.OmitRate, g.MismatchRate = *invalid, *omit, *mismatch
	reports := g.Reports(*rows)

	records := make([][]string, len(reports))
	for i, r := range reports {
		records[i] = []string{r.StudyID, r.Report}
	}
	if err := output.WriteCSV(*out+".csv", []string{"study_id", "report"}, records); err != nil {
		fmt.Fprintf(os.Stderr, "write csv: %v\n", err)
		os.Exit(1)
	}
	if err := output.WriteParquet(*out+".parquet", reports); err != nil {
		fmt.Fprintf(os.Stderr, "write parquet: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d reports to %s.csv and %s.parquet\n", len(reports), *out, *out)
}
