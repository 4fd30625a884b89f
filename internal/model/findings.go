package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ClinicalInformation is extracted from the "Klinische Angaben" section.
type ClinicalInformation struct {
	Keywords           []string `json:"keywords"`
	Morbidity          int      `json:"morbidity"`
	SymptomDuration    *int     `json:"symptom_duration"`
	DeepVeinThrombosis bool     `json:"deep_vein_thrombosis"`
	Dyspnea            bool     `json:"dyspnea"`
	Tachycardia        bool     `json:"tachycardia"`
	PO2Reduction       bool     `json:"pO2_reduction"`
	PO2Percentage      *int     `json:"pO2_percentage"`
	TroponinElevated   bool     `json:"troponin_elevated"`
	TroponinValue      *float64 `json:"troponin_value"`
	NTProBNPElevated   bool     `json:"nt_pro_bnp_elevated"`
	NTProBNPValue      *float64 `json:"nt_pro_bnp_value"`
	DDimersElevated    bool     `json:"d_dimers_elevated"`
	DDimersValue       *float64 `json:"d_dimers_value"`
}

// Indication is extracted from the "Fragestellung" section.
type Indication struct {
	InflammationQuestion  bool `json:"inflammation_question"`
	LungQuestion          bool `json:"lung_question"`
	AortaQuestion         bool `json:"aorta_question"`
	CardiacQuestion       bool `json:"cardiac_question"`
	TripleRuleOutQuestion bool `json:"triple_rule_out_question"`
}

// Findings carries the model's reading of the findings section. Enumerated
// fields hold canonical labels; "NA" stands for no information where allowed.
type Findings struct {
	ECGSync             bool     `json:"ecg_sync"`
	DensityTrPulmonalis *int     `json:"density_tr_pulmonalis"`
	ArtefactScore       *int     `json:"artefact_score"`
	PreviousExamination bool     `json:"previous_examination"`
	LaePresence         string   `json:"lae_presence"`
	MainBranchRight     string   `json:"lae_main_branch_right"`
	UpperLobeRight      string   `json:"lae_upper_lobe_right"`
	LowerLobeRight      string   `json:"lae_lower_lobe_right"`
	MiddleLobeRight     string   `json:"lae_middle_lobe_right"`
	MainBranchLeft      string   `json:"lae_main_branch_left"`
	UpperLobeLeft       string   `json:"lae_upper_lobe_left"`
	LowerLobeLeft       string   `json:"lae_lower_lobe_left"`
	ClotBurdenScore     *float64 `json:"clot_burden_score"`
	PerfusionDeficit    string   `json:"perfusion_deficit"`
	RVLVQuotient        string   `json:"rv_lv_quotient"`
	Inflammation        bool     `json:"inflammation"`
	Congestion          bool     `json:"congestion"`
	SuspectFinding      bool     `json:"suspect_finding"`
	HeartPathology      bool     `json:"heart_pathology"`
	VascularPathology   bool     `json:"vascular_pathology"`
	BonePathology       bool     `json:"bone_pathology"`
}

// ExtractedData is the JSON document requested from the language model.
type ExtractedData struct {
	ClinicalInformation ClinicalInformation `json:"clinical_information"`
	Indication          Indication          `json:"indication"`
	Findings            Findings            `json:"findings"`
}

// LLMResult is the outcome of one report's model extraction.
type LLMResult struct {
	StudyID          string
	Model            string
	Data             *ExtractedData // nil when Error is set
	ClotBurden       *float64
	PromptTokens     int
	CompletionTokens int
	Duration         time.Duration
	Error            string
}

// LLMColumns returns the ordered header of the extracted-data table.
func LLMColumns() []string {
	return []string{
		"study_id",
		"keywords", "morbidity", "symptom_duration", "deep_vein_thrombosis", "dyspnea",
		"tachycardia", "pO2_reduction", "pO2_percentage", "troponin_elevated", "troponin_value",
		"nt_pro_bnp_elevated", "nt_pro_bnp_value", "d_dimers_elevated", "d_dimers_value",
		"inflammation_question", "lung_question", "aorta_question", "cardiac_question",
		"triple_rule_out_question",
		"ecg_sync", "density_tr_pulmonalis", "artefact_score", "previous_examination",
		"lae_presence", "lae_main_branch_right", "lae_upper_lobe_right", "lae_lower_lobe_right",
		"lae_middle_lobe_right", "lae_main_branch_left", "lae_upper_lobe_left", "lae_lower_lobe_left",
		"clot_burden_score", "perfusion_deficit", "rv_lv_quotient",
		"inflammation", "congestion", "suspect_finding", "heart_pathology", "vascular_pathology",
		"bone_pathology",
		"clot_burden_score_calc", "total_tokens", "prompt_tokens", "completion_tokens",
		"duration_seconds", "error",
	}
}

// Strings returns the result in LLMColumns() order. Failed extractions keep
// only the study ID, usage and error columns.
func (r *LLMResult) Strings() []string {
	out := make([]string, 0, len(LLMColumns()))
	out = append(out, r.StudyID)
	if r.Data == nil {
		// everything between study_id and the six trailing usage columns
		for i := 0; i < len(LLMColumns())-7; i++ {
			out = append(out, "")
		}
	} else {
		c, ind, f := r.Data.ClinicalInformation, r.Data.Indication, r.Data.Findings
		out = append(out,
			strings.Join(c.Keywords, ", "), FormatInt(c.Morbidity), optInt(c.SymptomDuration),
			FormatBool(c.DeepVeinThrombosis), FormatBool(c.Dyspnea), FormatBool(c.Tachycardia),
			FormatBool(c.PO2Reduction), optInt(c.PO2Percentage), FormatBool(c.TroponinElevated),
			optFloat(c.TroponinValue), FormatBool(c.NTProBNPElevated), optFloat(c.NTProBNPValue),
			FormatBool(c.DDimersElevated), optFloat(c.DDimersValue),
			FormatBool(ind.InflammationQuestion), FormatBool(ind.LungQuestion),
			FormatBool(ind.AortaQuestion), FormatBool(ind.CardiacQuestion),
			FormatBool(ind.TripleRuleOutQuestion),
			FormatBool(f.ECGSync), optInt(f.DensityTrPulmonalis), optInt(f.ArtefactScore),
			FormatBool(f.PreviousExamination), f.LaePresence,
			f.MainBranchRight, f.UpperLobeRight, f.LowerLobeRight, f.MiddleLobeRight,
			f.MainBranchLeft, f.UpperLobeLeft, f.LowerLobeLeft,
			optFloat(f.ClotBurdenScore), f.PerfusionDeficit, f.RVLVQuotient,
			FormatBool(f.Inflammation), FormatBool(f.Congestion), FormatBool(f.SuspectFinding),
			FormatBool(f.HeartPathology), FormatBool(f.VascularPathology), FormatBool(f.BonePathology),
		)
	}
	return append(out,
		optFloat(r.ClotBurden),
		FormatInt(r.PromptTokens+r.CompletionTokens),
		FormatInt(r.PromptTokens),
		FormatInt(r.CompletionTokens),
		strconv.FormatFloat(r.Duration.Seconds(), 'f', 3, 64),
		r.Error,
	)
}

// CopyValues returns the row for lae.llm_extractions; payload is the JSON
// document (nil on failure).
func (r *LLMResult) CopyValues(runID uuid.UUID, payload []byte) []any {
	var p any
	if payload != nil {
		p = string(payload)
	}
	var errText *string
	if r.Error != "" {
		errText = &r.Error
	}
	return []any{
		runID,
		r.StudyID,
		r.Model,
		p,
		r.ClotBurden,
		int32(r.PromptTokens),
		int32(r.CompletionTokens),
		r.Duration.Seconds(),
		errText,
	}
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return FormatInt(*v)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return FormatFloat(*v)
}
