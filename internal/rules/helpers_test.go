package rules

import (
	"strings"

	"github.com/gyeh/laeextract/internal/model"
)

// templateLines is a complete findings block with a central embolism.
var templateLines = [][2]string{
	{model.LabelECGSync, "Ja"},
	{model.LabelDensityTrPulmonalis, "320 HU"},
	{model.LabelArtefactScore, "1"},
	{model.LabelLaePresence, "Ja"},
	{model.LabelMainBranchRight, "Partiell okkludiert"},
	{model.LabelUpperLobeRight, "-"},
	{model.LabelMiddleLobeRight, "-"},
	{model.LabelLowerLobeRight, "-"},
	{model.LabelMainBranchLeft, "-"},
	{model.LabelUpperLobeLeft, "Subsegmentarterie(n)"},
	{model.LabelLowerLobeLeft, "Lappenarterie partiell okkludiert"},
	{model.LabelClotBurdenScore, "16"},
	{model.LabelPerfusionDeficit, "<25%"},
	{model.LabelRVLVQuotient, "<1"},
}

// buildReport renders the template with overridden values; labels listed in
// omit are dropped entirely.
func buildReport(overrides map[string]string, omit ...string) string {
	skip := make(map[string]bool, len(omit))
	for _, l := range omit {
		skip[l] = true
	}

	var b strings.Builder
	b.WriteString("Klinische Angaben: Dyspnoe seit 2 Tagen\n")
	b.WriteString("Fragestellung: LAE?\n\n")
	b.WriteString("» Lungenarterienembolie\n")
	for _, kv := range templateLines {
		label, value := kv[0], kv[1]
		if skip[label] {
			continue
		}
		if v, ok := overrides[label]; ok {
			value = v
		}
		b.WriteString("- " + label + ": " + value + "\n")
	}
	b.WriteString("\nBeurteilung: Zentrale LAE rechts.\n")
	return b.String()
}
