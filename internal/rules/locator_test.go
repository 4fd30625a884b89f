package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocate(t *testing.T) {
	body := "Kopf\n- Rechts Oberlappen: Segmentarterie(n)\n- Heidelberg Clot Burden Score (CBS, PMID: 34581626): 12,5\n" +
		"- EKG-Synchronisation: Nein\n- EKG-Synchronisation: Ja\n- Mittellappen:   -  \r\n"

	tests := []struct {
		name   string
		label  string
		want   string
		wantOK bool
	}{
		{"simple", "Rechts Oberlappen", "Segmentarterie(n)", true},
		{"colon inside label keeps last segment", "Heidelberg Clot Burden Score (CBS, PMID: 34581626)", "12,5", true},
		{"first matching line wins", "EKG-Synchronisation", "Nein", true},
		{"whitespace trimmed", "Mittellappen", "-", true},
		{"absent", "Links Unterlappen", "", false},
		{"label without colon does not match", "Oberlappen: Seg", "", false},
		{"shorter label needs its own colon", "Rechts", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Locate(body, tt.label)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocateEmptyValue(t *testing.T) {
	got, ok := Locate("RV/LV-Quotient:\n", "RV/LV-Quotient")
	assert.True(t, ok)
	assert.Equal(t, "", got)
}
