package model

import (
	"fmt"
	"strconv"
)

// MainBranchOcclusion grades the most proximal embolus in a main pulmonary artery.
type MainBranchOcclusion int

const (
	MainBranchNone MainBranchOcclusion = iota
	MainBranchTotal
	MainBranchPartial
)

var mainBranchLabels = []string{
	MainBranchNone:    "Keine Okklusion",
	MainBranchTotal:   "Totale Okklusion",
	MainBranchPartial: "Partielle Okklusion",
}

func (o MainBranchOcclusion) String() string { return label(mainBranchLabels, o, "MainBranchOcclusion") }

// ParseMainBranchOcclusion maps a canonical label back to its variant.
func ParseMainBranchOcclusion(s string) (MainBranchOcclusion, bool) {
	return parseLabel[MainBranchOcclusion](mainBranchLabels, s)
}

// LobeOcclusion grades the most proximal embolus within a lobe.
type LobeOcclusion int

const (
	LobeNone LobeOcclusion = iota
	LobeTotal
	LobePartial
	LobeSegmental
	LobeSubsegmental
)

var lobeLabels = []string{
	LobeNone:         "Keine Okklusion",
	LobeTotal:        "Totale Okklusion",
	LobePartial:      "Partielle Okklusion",
	LobeSegmental:    "Segmentale Okklusion",
	LobeSubsegmental: "Subsegmentale Okklusion",
}

func (o LobeOcclusion) String() string { return label(lobeLabels, o, "LobeOcclusion") }

// ParseLobeOcclusion maps a canonical label back to its variant.
func ParseLobeOcclusion(s string) (LobeOcclusion, bool) {
	return parseLabel[LobeOcclusion](lobeLabels, s)
}

// LaePresence is the overall pulmonary embolism verdict of a report.
type LaePresence int

const (
	LaeNotAssessable LaePresence = iota
	LaeSuspected
	LaeNo
	LaeYes
)

var laePresenceLabels = []string{
	LaeNotAssessable: "Nicht beurteilbar",
	LaeSuspected:     "Verdacht auf LAE",
	LaeNo:            "Nein",
	LaeYes:           "Ja",
}

func (p LaePresence) String() string { return label(laePresenceLabels, p, "LaePresence") }

// ParseLaePresence maps a canonical label back to its variant.
func ParseLaePresence(s string) (LaePresence, bool) {
	return parseLabel[LaePresence](laePresenceLabels, s)
}

// PerfusionDeficit is the dual-energy perfusion deficit class.
// "No information" is carried as a null Decoded value, not as PerfusionNone.
type PerfusionDeficit int

const (
	PerfusionNone PerfusionDeficit = iota
	PerfusionLT25
	PerfusionGE25
)

var perfusionLabels = []string{
	PerfusionNone: "Keine",
	PerfusionLT25: "< 25%",
	PerfusionGE25: "≥ 25%",
}

func (p PerfusionDeficit) String() string { return label(perfusionLabels, p, "PerfusionDeficit") }

// ParsePerfusionDeficit maps a canonical label back to its variant.
func ParsePerfusionDeficit(s string) (PerfusionDeficit, bool) {
	return parseLabel[PerfusionDeficit](perfusionLabels, s)
}

// RightHeartQuotient is the RV/LV diameter ratio class.
type RightHeartQuotient int

const (
	QuotientLT1 RightHeartQuotient = iota
	QuotientGE1
)

var quotientLabels = []string{
	QuotientLT1: "< 1",
	QuotientGE1: "≥ 1",
}

func (q RightHeartQuotient) String() string { return label(quotientLabels, q, "RightHeartQuotient") }

// ParseRightHeartQuotient maps a canonical label back to its variant.
func ParseRightHeartQuotient(s string) (RightHeartQuotient, bool) {
	return parseLabel[RightHeartQuotient](quotientLabels, s)
}

func label[T ~int](labels []string, v T, typ string) string {
	if int(v) < 0 || int(v) >= len(labels) {
		return fmt.Sprintf("%s(%d)", typ, int(v))
	}
	return labels[v]
}

func parseLabel[T ~int](labels []string, s string) (T, bool) {
	for i, l := range labels {
		if l == s {
			return T(i), true
		}
	}
	return 0, false
}

// FormatBool renders booleans the way the result tables have always carried them.
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// FormatInt renders an integer in base 10.
func FormatInt(v int) string { return strconv.Itoa(v) }

// FormatFloat renders a float with at least one decimal place (40 -> "40.0").
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s
		}
	}
	return s + ".0"
}
