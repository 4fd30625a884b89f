package rules

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/gyeh/laeextract/internal/model"
	"github.com/gyeh/laeextract/internal/normalize"
)

// Classifiers are total: every (raw, present) pair maps to exactly one of a
// value, null or an error code. present=false always yields MissingField.

var (
	densityPattern = regexp.MustCompile(`^(\d+(?:,\d+)?) HU$`)
	scorePattern   = regexp.MustCompile(`^\d+(?:,\d+)?$`)

	maxReportedScore = decimal.NewFromInt(40)
)

var artefactScores = map[string]int{
	"0 (keine Artefakte)":   0,
	"1":                     1,
	"2":                     2,
	"3":                     3,
	"4":                     4,
	"5 (nicht beurteilbar)": 5,
}

var laePresences = map[string]model.LaePresence{
	"Nein":                               model.LaeNo,
	"Ja":                                 model.LaeYes,
	"Verdacht auf Lungenarterienembolie": model.LaeSuspected,
	"Nicht beurteilbar":                  model.LaeNotAssessable,
}

var perfusionDeficits = map[string]model.PerfusionDeficit{
	"Keine": model.PerfusionNone,
	"<25%":  model.PerfusionLT25,
	"≥25%":  model.PerfusionGE25,
	"=25%":  model.PerfusionGE25,
}

var rvLvQuotients = map[string]model.RightHeartQuotient{
	"<1": model.QuotientLT1,
	"≥1": model.QuotientGE1,
	"=1": model.QuotientGE1,
}

var mainBranchOcclusions = map[string]model.MainBranchOcclusion{
	"Total okkludiert":    model.MainBranchTotal,
	"Partiell okkludiert": model.MainBranchPartial,
}

var lobeOcclusions = map[string]model.LobeOcclusion{
	"Lappenarterie total okkludiert":    model.LobeTotal,
	"Lappenarterie partiell okkludiert": model.LobePartial,
	"Segmentarterie(n)":                 model.LobeSegmental,
	"Subsegmentarterie(n)":              model.LobeSubsegmental,
}

func blank(raw string) bool { return raw == "" || raw == "-" }

// ECGSync decodes "EKG-Synchronisation". "Nein", "-" and "" mean false.
func ECGSync(raw string, present bool) model.Decoded[bool] {
	switch {
	case !present:
		return model.Failed[bool](model.MissingField)
	case raw == "Ja":
		return model.Value(true)
	case raw == "Nein" || blank(raw):
		return model.Value(false)
	default:
		return model.Failed[bool](model.InvalidValue)
	}
}

// Density decodes the pulmonary trunk density, e.g. "120,5 HU" -> 121.
func Density(raw string, present bool) model.Decoded[int] {
	if !present {
		return model.Failed[int](model.MissingField)
	}
	if blank(raw) {
		return model.Null[int]()
	}
	m := densityPattern.FindStringSubmatch(raw)
	if m == nil {
		return model.Failed[int](model.InvalidValue)
	}
	d, err := normalize.ParseCommaDecimal(m[1])
	if err != nil {
		return model.Failed[int](model.InvalidValue)
	}
	n, ok := normalize.RoundHalfUp(d)
	if !ok {
		return model.Failed[int](model.InvalidValue)
	}
	return model.Value(n)
}

// ArtefactScore decodes the 0-5 artefact grade.
func ArtefactScore(raw string, present bool) model.Decoded[int] {
	if !present {
		return model.Failed[int](model.MissingField)
	}
	if blank(raw) {
		return model.Null[int]()
	}
	if v, ok := artefactScores[raw]; ok {
		return model.Value(v)
	}
	return model.Failed[int](model.InvalidValue)
}

// LaePresenceOf decodes the embolism verdict. There is no neutral input.
func LaePresenceOf(raw string, present bool) model.Decoded[model.LaePresence] {
	if !present {
		return model.Failed[model.LaePresence](model.MissingField)
	}
	return lookup(laePresences, raw)
}

// ReportedClotBurden decodes the score as written by the radiologist. Only
// values in [0, 40] are accepted; there is no neutral input.
func ReportedClotBurden(raw string, present bool) model.Decoded[float64] {
	if !present {
		return model.Failed[float64](model.MissingField)
	}
	if !scorePattern.MatchString(raw) {
		return model.Failed[float64](model.InvalidValue)
	}
	d, err := normalize.ParseCommaDecimal(raw)
	if err != nil || d.IsNegative() || d.GreaterThan(maxReportedScore) {
		return model.Failed[float64](model.InvalidValue)
	}
	return model.Value(d.InexactFloat64())
}

// PerfusionDeficitOf decodes the DE-CT perfusion deficit. "=25%" is filed
// under "≥25%".
func PerfusionDeficitOf(raw string, present bool) model.Decoded[model.PerfusionDeficit] {
	if !present {
		return model.Failed[model.PerfusionDeficit](model.MissingField)
	}
	if blank(raw) {
		return model.Null[model.PerfusionDeficit]()
	}
	return lookup(perfusionDeficits, raw)
}

// RVLVQuotient decodes the right-heart quotient. "=1" is filed under "≥1".
func RVLVQuotient(raw string, present bool) model.Decoded[model.RightHeartQuotient] {
	if !present {
		return model.Failed[model.RightHeartQuotient](model.MissingField)
	}
	if blank(raw) {
		return model.Null[model.RightHeartQuotient]()
	}
	return lookup(rvLvQuotients, raw)
}

// MainBranch decodes either pulmonary main artery. Blank means no occlusion.
func MainBranch(raw string, present bool) model.Decoded[model.MainBranchOcclusion] {
	if !present {
		return model.Failed[model.MainBranchOcclusion](model.MissingField)
	}
	if blank(raw) {
		return model.Value(model.MainBranchNone)
	}
	return lookup(mainBranchOcclusions, raw)
}

// Lobe decodes any of the five lobe arteries. Blank means no occlusion.
func Lobe(raw string, present bool) model.Decoded[model.LobeOcclusion] {
	if !present {
		return model.Failed[model.LobeOcclusion](model.MissingField)
	}
	if blank(raw) {
		return model.Value(model.LobeNone)
	}
	return lookup(lobeOcclusions, raw)
}

func lookup[T any](lexicon map[string]T, raw string) model.Decoded[T] {
	if v, ok := lexicon[raw]; ok {
		return model.Value(v)
	}
	return model.Failed[T](model.InvalidValue)
}
