package normalize

import (
	"strings"

	"github.com/gyeh/laeextract/internal/model"
)

// ToReport builds a Report from one source row. The study ID is trimmed and
// stripped of a leading byte-order mark; the body has CRLF line endings
// folded to LF so the locator sees one line per template field.
func ToReport(studyID, body string) model.Report {
	id := strings.TrimPrefix(studyID, "\ufeff")
	return model.Report{
		StudyID: strings.TrimSpace(id),
		Body:    strings.ReplaceAll(body, "\r\n", "\n"),
	}
}

// StudyIDSet builds a lookup set from user-supplied IDs, ignoring blanks.
// Returns nil when no ID remains.
func StudyIDSet(ids []string) map[string]bool {
	var set map[string]bool
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if set == nil {
			set = make(map[string]bool, len(ids))
		}
		set[id] = true
	}
	return set
}
