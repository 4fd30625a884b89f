// Package fixture renders synthetic CTPA reports in the structured
// findings template.
package fixture

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/gyeh/laeextract/internal/model"
	"github.com/gyeh/laeextract/internal/score"
)

// Line is one "label: value" entry of the findings block.
type Line struct {
	Label string
	Value string
}

// Render builds a report body with the clinical header, the findings block
// and an impression. Lines with an empty Label are skipped.
func Render(clinical string, lines []Line, impression string) string {
	var b strings.Builder
	b.WriteString("Klinische Angaben: " + clinical + "\n")
	b.WriteString("Fragestellung: LAE?\n\n")
	b.WriteString("Befund:\n")
	b.WriteString("» Lungenarterienembolie\n")
	for _, l := range lines {
		if l.Label == "" {
			continue
		}
		b.WriteString("- " + l.Label + ": " + l.Value + "\n")
	}
	b.WriteString("\nBeurteilung: " + impression + "\n")
	return b.String()
}

var (
	clinicalNotes = []string{
		"Dyspnoe seit 3 Tagen, D-Dimere erhöht",
		"Tachykardie, pO2 88%",
		"Z.n. TVT links, Thoraxschmerz",
		"Troponin erhöht, V.a. LAE",
		"Postoperativ Sättigungsabfall",
	}
	artefacts  = []string{"0 (keine Artefakte)", "1", "2", "3", "4", "5 (nicht beurteilbar)"}
	mainValues = []string{"-", "-", "-", "Partiell okkludiert", "Total okkludiert"}
	lobeValues = []string{
		"-", "-", "Subsegmentarterie(n)", "Segmentarterie(n)",
		"Lappenarterie partiell okkludiert", "Lappenarterie total okkludiert",
	}
	perfusionValues = []string{"-", "Keine", "<25%", "≥25%", "=25%"}
	quotientValues  = []string{"-", "<1", "≥1", "=1"}
	invalidValues   = []string{"unklar", "s. Vorbefund", "n.b.", "?"}
)

// Generator produces reproducible synthetic reports. A share of them carries
// blank, malformed or omitted fields so every decode path is exercised.
type Generator struct {
	rng *rand.Rand
	// InvalidRate is the chance that a field's value is replaced by garbage.
	InvalidRate float64
	// OmitRate is the chance that a field line is dropped.
	OmitRate float64
	// MismatchRate is the chance that the reported score disagrees with the
	// score implied by the occlusion fields.
	MismatchRate float64
}

// NewGenerator returns a Generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		rng:          rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		InvalidRate:  0.02,
		OmitRate:     0.01,
		MismatchRate: 0.05,
	}
}

func (g *Generator) pick(values []string) string { return values[g.rng.IntN(len(values))] }

// Report returns one synthetic report row.
func (g *Generator) Report(studyID string) model.ReportRow {
	positive := g.rng.Float64() < 0.4

	sites := make([]Line, len(model.OcclusionLabels))
	for i, label := range model.OcclusionLabels {
		v := "-"
		if positive {
			if label == model.LabelMainBranchRight || label == model.LabelMainBranchLeft {
				v = g.pick(mainValues)
			} else {
				v = g.pick(lobeValues)
			}
		}
		sites[i] = Line{Label: label, Value: v}
	}

	presence := "Nein"
	switch {
	case positive:
		presence = "Ja"
	case g.rng.Float64() < 0.05:
		presence = g.pick([]string{"Verdacht auf Lungenarterienembolie", "Nicht beurteilbar"})
	}

	reported := impliedScore(sites)
	if g.rng.Float64() < g.MismatchRate {
		reported = min(reported+2.5, score.MaxClotBurden)
	}

	lines := []Line{
		{model.LabelECGSync, g.pick([]string{"Ja", "Nein", "-"})},
		{model.LabelDensityTrPulmonalis, g.density()},
		{model.LabelArtefactScore, g.pick(artefacts)},
		{model.LabelLaePresence, presence},
	}
	lines = append(lines, sites...)
	lines = append(lines,
		Line{model.LabelClotBurdenScore, formatScore(reported)},
		Line{model.LabelPerfusionDeficit, g.pick(perfusionValues)},
		Line{model.LabelRVLVQuotient, g.pick(quotientValues)},
	)
	for i := range lines {
		switch r := g.rng.Float64(); {
		case r < g.OmitRate:
			lines[i].Label = ""
		case r < g.OmitRate+g.InvalidRate:
			lines[i].Value = g.pick(invalidValues)
		}
	}

	impression := "Kein Nachweis einer Lungenarterienembolie."
	if positive {
		impression = "Nachweis einer Lungenarterienembolie."
	}
	return model.ReportRow{
		StudyID: studyID,
		Report:  Render(g.pick(clinicalNotes), lines, impression),
	}
}

// Reports returns n rows with study IDs "CTPA-000001" onwards.
func (g *Generator) Reports(n int) []model.ReportRow {
	rows := make([]model.ReportRow, n)
	for i := range rows {
		rows[i] = g.Report(fmt.Sprintf("CTPA-%06d", i+1))
	}
	return rows
}

func (g *Generator) density() string {
	switch g.rng.IntN(6) {
	case 0:
		return "-"
	case 1:
		return fmt.Sprintf("%d,%d HU", 150+g.rng.IntN(350), g.rng.IntN(10))
	default:
		return fmt.Sprintf("%d HU", 150+g.rng.IntN(350))
	}
}

var (
	mainSite = map[string]model.MainBranchOcclusion{
		"Partiell okkludiert": model.MainBranchPartial,
		"Total okkludiert":    model.MainBranchTotal,
	}
	lobeSite = map[string]model.LobeOcclusion{
		"Subsegmentarterie(n)":              model.LobeSubsegmental,
		"Segmentarterie(n)":                 model.LobeSegmental,
		"Lappenarterie partiell okkludiert": model.LobePartial,
		"Lappenarterie total okkludiert":    model.LobeTotal,
	}
)

// impliedScore computes the clot burden score of the generated sites.
func impliedScore(lines []Line) float64 {
	v := make(map[string]string, len(lines))
	for _, l := range lines {
		v[l.Label] = l.Value
	}
	return score.ClotBurden(score.Sites{
		MainBranchRight: mainSite[v[model.LabelMainBranchRight]],
		UpperLobeRight:  lobeSite[v[model.LabelUpperLobeRight]],
		MiddleLobeRight: lobeSite[v[model.LabelMiddleLobeRight]],
		LowerLobeRight:  lobeSite[v[model.LabelLowerLobeRight]],
		MainBranchLeft:  mainSite[v[model.LabelMainBranchLeft]],
		UpperLobeLeft:   lobeSite[v[model.LabelUpperLobeLeft]],
		LowerLobeLeft:   lobeSite[v[model.LabelLowerLobeLeft]],
	})
}

// formatScore renders a score the way radiologists write it: "16" or "16,5".
func formatScore(v float64) string {
	s := fmt.Sprintf("%g", v)
	return strings.Replace(s, ".", ",", 1)
}
