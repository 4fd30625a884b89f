package model

// InputValues holds the raw text found after each field label, "" if absent.
type InputValues struct {
	ECGSync             string
	DensityTrPulmonalis string
	ArtefactScore       string
	LaePresence         string
	MainBranchRight     string
	UpperLobeRight      string
	LowerLobeRight      string
	MiddleLobeRight     string
	MainBranchLeft      string
	UpperLobeLeft       string
	LowerLobeLeft       string
	ClotBurdenScore     string
	PerfusionDeficit    string
	RVLVQuotient        string
}

// Values returns the raw strings in FieldColumns() order.
func (v *InputValues) Values() []string {
	return []string{
		v.ECGSync,
		v.DensityTrPulmonalis,
		v.ArtefactScore,
		v.LaePresence,
		v.MainBranchRight,
		v.UpperLobeRight,
		v.LowerLobeRight,
		v.MiddleLobeRight,
		v.MainBranchLeft,
		v.UpperLobeLeft,
		v.LowerLobeLeft,
		v.ClotBurdenScore,
		v.PerfusionDeficit,
		v.RVLVQuotient,
	}
}

// EvaluatedValues holds the decode outcome of every tracked field.
type EvaluatedValues struct {
	ECGSync             Decoded[bool]
	DensityTrPulmonalis Decoded[int]
	ArtefactScore       Decoded[int]
	LaePresence         Decoded[LaePresence]
	MainBranchRight     Decoded[MainBranchOcclusion]
	UpperLobeRight      Decoded[LobeOcclusion]
	LowerLobeRight      Decoded[LobeOcclusion]
	MiddleLobeRight     Decoded[LobeOcclusion]
	MainBranchLeft      Decoded[MainBranchOcclusion]
	UpperLobeLeft       Decoded[LobeOcclusion]
	LowerLobeLeft       Decoded[LobeOcclusion]
	ClotBurdenScore     Decoded[float64]
	PerfusionDeficit    Decoded[PerfusionDeficit]
	RVLVQuotient        Decoded[RightHeartQuotient]
}

// Labels renders every field in FieldColumns() order.
func (v *EvaluatedValues) Labels() []string {
	return []string{
		v.ECGSync.Label(FormatBool),
		v.DensityTrPulmonalis.Label(FormatInt),
		v.ArtefactScore.Label(FormatInt),
		v.LaePresence.Label(EnumLabel[LaePresence]),
		v.MainBranchRight.Label(EnumLabel[MainBranchOcclusion]),
		v.UpperLobeRight.Label(EnumLabel[LobeOcclusion]),
		v.LowerLobeRight.Label(EnumLabel[LobeOcclusion]),
		v.MiddleLobeRight.Label(EnumLabel[LobeOcclusion]),
		v.MainBranchLeft.Label(EnumLabel[MainBranchOcclusion]),
		v.UpperLobeLeft.Label(EnumLabel[LobeOcclusion]),
		v.LowerLobeLeft.Label(EnumLabel[LobeOcclusion]),
		v.ClotBurdenScore.Label(FormatFloat),
		v.PerfusionDeficit.Label(EnumLabel[PerfusionDeficit]),
		v.RVLVQuotient.Label(EnumLabel[RightHeartQuotient]),
	}
}

// ErrorCodes returns each field's error code in FieldColumns() order.
func (v *EvaluatedValues) ErrorCodes() []ErrorCode {
	outcomes := v.Outcomes()
	codes := make([]ErrorCode, len(outcomes))
	for i, o := range outcomes {
		codes[i] = o.Err()
	}
	return codes
}

// Outcomes returns every field's decode outcome in FieldColumns() order.
func (v *EvaluatedValues) Outcomes() []Outcome {
	return []Outcome{
		v.ECGSync,
		v.DensityTrPulmonalis,
		v.ArtefactScore,
		v.LaePresence,
		v.MainBranchRight,
		v.UpperLobeRight,
		v.LowerLobeRight,
		v.MiddleLobeRight,
		v.MainBranchLeft,
		v.UpperLobeLeft,
		v.LowerLobeLeft,
		v.ClotBurdenScore,
		v.PerfusionDeficit,
		v.RVLVQuotient,
	}
}

// Result is everything the rules engine derives from one report.
type Result struct {
	StudyID   string
	Input     InputValues
	Evaluated EvaluatedValues
	// ClotBurden is the calculated score; nil unless all seven occlusion
	// fields decoded without error.
	ClotBurden *float64
}
