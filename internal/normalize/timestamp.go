package normalize

import "time"

// RunTimestampLayout prefixes every output file of a run.
const RunTimestampLayout = "20060102-150405"

// RunTimestamp formats t as an output file prefix, or "" when disabled.
func RunTimestamp(t time.Time, enabled bool) string {
	if !enabled {
		return ""
	}
	return t.Format(RunTimestampLayout)
}

// ParseRunTimestamp parses a prefix produced by RunTimestamp in local time.
// Returns nil if s is empty or not a run timestamp.
func ParseRunTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation(RunTimestampLayout, s, time.Local)
	if err != nil {
		return nil
	}
	return &t
}
