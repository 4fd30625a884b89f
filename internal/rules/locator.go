// Package rules decodes the fixed CTPA report template field by field.
package rules

import "strings"

// Locate returns the text after the last colon of the first line containing
// "<label>:". The trailing colon keeps a label from matching inside a longer
// one. Values with embedded colons keep only their final segment; the
// template never produces them. ok is false when no line matches.
func Locate(body, label string) (string, bool) {
	token := label + ":"
	for _, line := range strings.Split(body, "\n") {
		if !strings.Contains(line, token) {
			continue
		}
		i := strings.LastIndex(line, ":")
		return strings.TrimSpace(line[i+1:]), true
	}
	return "", false
}
