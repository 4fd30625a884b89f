package extract

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/laeextract/internal/config"
	"github.com/gyeh/laeextract/internal/model"
	"github.com/gyeh/laeextract/internal/normalize"
	"github.com/gyeh/laeextract/internal/reportsrc"
)

// LoadResult holds the reports selected for a run and facts about their source.
type LoadResult struct {
	FilePath   string
	FileSHA256 string
	FileSize   int64
	// NumRows is the row count from file metadata, or -1 when the format
	// does not record one.
	NumRows int64
	// RowsRead counts rows read before the study-ID / limit filter.
	RowsRead int64
	Reports  []model.Report
	// MissingStudyIDs lists requested study IDs that were not in the file.
	MissingStudyIDs []string
	Duration        time.Duration
}

// Load hashes the reports file and reads the selected reports.
func Load(log zerolog.Logger, cfg *config.Config) (*LoadResult, error) {
	start := time.Now()

	sha, err := normalize.FileHash(cfg.ReportsFile)
	if err != nil {
		return nil, fmt.Errorf("hash: %w", err)
	}
	stat, err := os.Stat(cfg.ReportsFile)
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}

	reader, err := reportsrc.Open(cfg.ReportsFile, reportsrc.Options{
		StudyIDColumn: cfg.StudyIDColumn,
		ReportColumn:  cfg.ReportColumn,
		Encoding:      cfg.InputEncoding,
	})
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	filter := reportsrc.Filter{
		StudyIDs: normalize.StudyIDSet(cfg.StudyIDs),
		Limit:    cfg.Limit,
	}
	reports, read, err := reportsrc.ReadAll(reader, filter)
	if err != nil {
		return nil, fmt.Errorf("read reports: %w", err)
	}

	res := &LoadResult{
		FilePath:   cfg.ReportsFile,
		FileSHA256: sha,
		FileSize:   stat.Size(),
		NumRows:    reader.NumRows(),
		RowsRead:   read,
		Reports:    reports,
		Duration:   time.Since(start),
	}
	if filter.StudyIDs != nil {
		found := make(map[string]bool, len(reports))
		for _, r := range reports {
			found[r.StudyID] = true
		}
		for _, id := range slices.Sorted(maps.Keys(filter.StudyIDs)) {
			if !found[id] {
				res.MissingStudyIDs = append(res.MissingStudyIDs, id)
			}
		}
		if len(res.MissingStudyIDs) > 0 {
			log.Warn().Strs("study_ids", res.MissingStudyIDs).Msg("requested study IDs not found in reports file")
		}
	}

	log.Info().
		Str("file", res.FilePath).
		Str("sha256", res.FileSHA256).
		Int64("rows_read", res.RowsRead).
		Int("reports", len(res.Reports)).
		Str("duration", res.Duration.String()).
		Msg("reports loaded")
	return res, nil
}
