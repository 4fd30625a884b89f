package model

import "github.com/google/uuid"

// InputValuesRow is one line of the input_values table.
type InputValuesRow struct {
	StudyID             string `parquet:"study_id"`
	ECGSync             string `parquet:"ecg_sync"`
	DensityTrPulmonalis string `parquet:"density_tr_pulmonalis"`
	ArtefactScore       string `parquet:"artefact_score"`
	LaePresence         string `parquet:"lae_presence"`
	MainBranchRight     string `parquet:"lae_main_branch_right"`
	UpperLobeRight      string `parquet:"lae_upper_lobe_right"`
	LowerLobeRight      string `parquet:"lae_lower_lobe_right"`
	MiddleLobeRight     string `parquet:"lae_middle_lobe_right"`
	MainBranchLeft      string `parquet:"lae_main_branch_left"`
	UpperLobeLeft       string `parquet:"lae_upper_lobe_left"`
	LowerLobeLeft       string `parquet:"lae_lower_lobe_left"`
	ClotBurdenScore     string `parquet:"clot_burden_score"`
	PerfusionDeficit    string `parquet:"perfusion_deficit"`
	RVLVQuotient        string `parquet:"rv_lv_quotient"`
}

// NewInputValuesRow flattens a Result into its input_values line.
func NewInputValuesRow(r *Result) InputValuesRow {
	in := r.Input
	return InputValuesRow{
		StudyID:             r.StudyID,
		ECGSync:             in.ECGSync,
		DensityTrPulmonalis: in.DensityTrPulmonalis,
		ArtefactScore:       in.ArtefactScore,
		LaePresence:         in.LaePresence,
		MainBranchRight:     in.MainBranchRight,
		UpperLobeRight:      in.UpperLobeRight,
		LowerLobeRight:      in.LowerLobeRight,
		MiddleLobeRight:     in.MiddleLobeRight,
		MainBranchLeft:      in.MainBranchLeft,
		UpperLobeLeft:       in.UpperLobeLeft,
		LowerLobeLeft:       in.LowerLobeLeft,
		ClotBurdenScore:     in.ClotBurdenScore,
		PerfusionDeficit:    in.PerfusionDeficit,
		RVLVQuotient:        in.RVLVQuotient,
	}
}

// InputValuesColumns returns the ordered header of the input_values table.
func InputValuesColumns() []string {
	return append([]string{"study_id"}, FieldColumns()...)
}

// Strings returns the row in InputValuesColumns() order.
func (r *InputValuesRow) Strings() []string {
	return []string{
		r.StudyID,
		r.ECGSync,
		r.DensityTrPulmonalis,
		r.ArtefactScore,
		r.LaePresence,
		r.MainBranchRight,
		r.UpperLobeRight,
		r.LowerLobeRight,
		r.MiddleLobeRight,
		r.MainBranchLeft,
		r.UpperLobeLeft,
		r.LowerLobeLeft,
		r.ClotBurdenScore,
		r.PerfusionDeficit,
		r.RVLVQuotient,
	}
}

// CopyValues returns run_id followed by Strings(), suitable for pgx CopyFromSource.
func (r *InputValuesRow) CopyValues(runID uuid.UUID) []any {
	return prependRunID(runID, r.Strings())
}

// EvaluatedValuesRow is one line of the evaluated_values table. Every field
// column carries the canonical label, "" for null, or the error text.
type EvaluatedValuesRow struct {
	StudyID             string   `parquet:"study_id"`
	ECGSync             string   `parquet:"ecg_sync"`
	DensityTrPulmonalis string   `parquet:"density_tr_pulmonalis"`
	ArtefactScore       string   `parquet:"artefact_score"`
	LaePresence         string   `parquet:"lae_presence"`
	MainBranchRight     string   `parquet:"lae_main_branch_right"`
	UpperLobeRight      string   `parquet:"lae_upper_lobe_right"`
	LowerLobeRight      string   `parquet:"lae_lower_lobe_right"`
	MiddleLobeRight     string   `parquet:"lae_middle_lobe_right"`
	MainBranchLeft      string   `parquet:"lae_main_branch_left"`
	UpperLobeLeft       string   `parquet:"lae_upper_lobe_left"`
	LowerLobeLeft       string   `parquet:"lae_lower_lobe_left"`
	ClotBurdenScore     string   `parquet:"clot_burden_score"`
	PerfusionDeficit    string   `parquet:"perfusion_deficit"`
	RVLVQuotient        string   `parquet:"rv_lv_quotient"`
	ClotBurdenScoreCalc *float64 `parquet:"clot_burden_score_calc,optional"`
}

// NewEvaluatedValuesRow flattens a Result into its evaluated_values line.
func NewEvaluatedValuesRow(r *Result) EvaluatedValuesRow {
	l := r.Evaluated.Labels()
	return EvaluatedValuesRow{
		StudyID:             r.StudyID,
		ECGSync:             l[0],
		DensityTrPulmonalis: l[1],
		ArtefactScore:       l[2],
		LaePresence:         l[3],
		MainBranchRight:     l[4],
		UpperLobeRight:      l[5],
		LowerLobeRight:      l[6],
		MiddleLobeRight:     l[7],
		MainBranchLeft:      l[8],
		UpperLobeLeft:       l[9],
		LowerLobeLeft:       l[10],
		ClotBurdenScore:     l[11],
		PerfusionDeficit:    l[12],
		RVLVQuotient:        l[13],
		ClotBurdenScoreCalc: r.ClotBurden,
	}
}

// EvaluatedValuesColumns returns the ordered header of the evaluated_values table.
func EvaluatedValuesColumns() []string {
	cols := append([]string{"study_id"}, FieldColumns()...)
	return append(cols, "clot_burden_score_calc")
}

// Strings returns the row in EvaluatedValuesColumns() order.
func (r *EvaluatedValuesRow) Strings() []string {
	calc := ""
	if r.ClotBurdenScoreCalc != nil {
		calc = FormatFloat(*r.ClotBurdenScoreCalc)
	}
	return []string{
		r.StudyID,
		r.ECGSync,
		r.DensityTrPulmonalis,
		r.ArtefactScore,
		r.LaePresence,
		r.MainBranchRight,
		r.UpperLobeRight,
		r.LowerLobeRight,
		r.MiddleLobeRight,
		r.MainBranchLeft,
		r.UpperLobeLeft,
		r.LowerLobeLeft,
		r.ClotBurdenScore,
		r.PerfusionDeficit,
		r.RVLVQuotient,
		calc,
	}
}

// CopyValues returns run_id, the label columns and the calculated score
// (as a nullable double), suitable for pgx CopyFromSource.
func (r *EvaluatedValuesRow) CopyValues(runID uuid.UUID) []any {
	s := r.Strings()
	vals := prependRunID(runID, s[:len(s)-1])
	return append(vals, r.ClotBurdenScoreCalc)
}

func prependRunID(runID uuid.UUID, s []string) []any {
	vals := make([]any, 0, len(s)+1)
	vals = append(vals, runID)
	for _, v := range s {
		vals = append(vals, v)
	}
	return vals
}
