package model

// Field is one tracked variable of the CTPA report template.
type Field struct {
	Name  string // output column, e.g. "ecg_sync"
	Label string // report label without the trailing colon
}

// Report labels as they appear in the template.
const (
	LabelECGSync             = "EKG-Synchronisation"
	LabelDensityTrPulmonalis = "CT-Dichte Truncus pulmonalis (Standard)"
	LabelArtefactScore       = "Artefakt-Score (0-5)"
	LabelLaePresence         = "Nachweis einer Lungenarterienembolie"
	LabelMainBranchRight     = "Rechts Pulmonalhauptarterie"
	LabelUpperLobeRight      = "Rechts Oberlappen"
	LabelMiddleLobeRight     = "Mittellappen"
	LabelLowerLobeRight      = "Rechts Unterlappen"
	LabelMainBranchLeft      = "Links Pulmonalhauptarterie"
	LabelUpperLobeLeft       = "Links Oberlappen"
	LabelLowerLobeLeft       = "Links Unterlappen"
	LabelClotBurdenScore     = "Heidelberg Clot Burden Score (CBS, PMID: 34581626)"
	LabelPerfusionDeficit    = "Perfusionsausfälle (DE-CT)"
	LabelRVLVQuotient        = "RV/LV-Quotient"
)

// AllFields lists the tracked fields in canonical output column order.
var AllFields = []Field{
	{Name: "ecg_sync", Label: LabelECGSync},
	{Name: "density_tr_pulmonalis", Label: LabelDensityTrPulmonalis},
	{Name: "artefact_score", Label: LabelArtefactScore},
	{Name: "lae_presence", Label: LabelLaePresence},
	{Name: "lae_main_branch_right", Label: LabelMainBranchRight},
	{Name: "lae_upper_lobe_right", Label: LabelUpperLobeRight},
	{Name: "lae_lower_lobe_right", Label: LabelLowerLobeRight},
	{Name: "lae_middle_lobe_right", Label: LabelMiddleLobeRight},
	{Name: "lae_main_branch_left", Label: LabelMainBranchLeft},
	{Name: "lae_upper_lobe_left", Label: LabelUpperLobeLeft},
	{Name: "lae_lower_lobe_left", Label: LabelLowerLobeLeft},
	{Name: "clot_burden_score", Label: LabelClotBurdenScore},
	{Name: "perfusion_deficit", Label: LabelPerfusionDeficit},
	{Name: "rv_lv_quotient", Label: LabelRVLVQuotient},
}

// OcclusionLabels is the thrombus-burden group checked for wholesale absence.
var OcclusionLabels = []string{
	LabelMainBranchRight,
	LabelUpperLobeRight,
	LabelMiddleLobeRight,
	LabelLowerLobeRight,
	LabelMainBranchLeft,
	LabelUpperLobeLeft,
	LabelLowerLobeLeft,
}

// FieldColumns returns just the column names for all fields.
func FieldColumns() []string {
	cols := make([]string, len(AllFields))
	for i, f := range AllFields {
		cols[i] = f.Name
	}
	return cols
}
