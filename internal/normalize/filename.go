package normalize

import (
	"regexp"
	"strings"
)

var (
	invalidFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]`)
	controlChars         = regexp.MustCompile(`[\x00-\x1f]`)
)

// SanitizeFilename replaces characters that are invalid in file names (model
// names such as "qwen2.5:72b" end up in output paths) and trims trailing
// spaces and periods.
func SanitizeFilename(name string) string {
	s := invalidFilenameChars.ReplaceAllString(name, "_")
	s = controlChars.ReplaceAllString(s, "_")
	return strings.TrimRight(s, " .")
}
