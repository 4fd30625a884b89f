// Package score computes the Heidelberg Clot Burden Score (PMID 34581626)
// from the seven graded occlusion sites of a CTPA report.
package score

import "github.com/gyeh/laeextract/internal/model"

// MaxClotBurden is the score of a report with both main branches totally occluded.
const MaxClotBurden = 40.0

// Sites holds the graded occlusion of every scored site.
type Sites struct {
	MainBranchRight model.MainBranchOcclusion
	UpperLobeRight  model.LobeOcclusion
	MiddleLobeRight model.LobeOcclusion
	LowerLobeRight  model.LobeOcclusion
	MainBranchLeft  model.MainBranchOcclusion
	UpperLobeLeft   model.LobeOcclusion
	LowerLobeLeft   model.LobeOcclusion
}

// lobePoints are indexed by LobeOcclusion. Every entry is an exact binary
// fraction, so sums are exact.
type lobePoints [5]float64

var (
	upperLobeLeft   = lobePoints{model.LobeTotal: 10, model.LobePartial: 5, model.LobeSegmental: 2.5, model.LobeSubsegmental: 1}
	lowerLobeLeft   = lobePoints{model.LobeTotal: 10, model.LobePartial: 5, model.LobeSegmental: 2.5, model.LobeSubsegmental: 1}
	upperLobeRight  = lobePoints{model.LobeTotal: 6, model.LobePartial: 3, model.LobeSegmental: 1.5, model.LobeSubsegmental: 1}
	middleLobeRight = lobePoints{model.LobeTotal: 4, model.LobePartial: 2, model.LobeSegmental: 1, model.LobeSubsegmental: 0.5}
	lowerLobeRight  = lobePoints{model.LobeTotal: 10, model.LobePartial: 5, model.LobeSegmental: 2.5, model.LobeSubsegmental: 1}
)

func (p lobePoints) of(o model.LobeOcclusion) float64 {
	if int(o) < 0 || int(o) >= len(p) {
		return 0
	}
	return p[o]
}

// mainBranch returns the points awarded for a main branch and whether the
// side's lobes are still to be scored.
func mainBranch(o model.MainBranchOcclusion) (float64, bool) {
	switch o {
	case model.MainBranchTotal:
		return 20, false
	case model.MainBranchPartial:
		return 10, false
	default:
		return 0, true
	}
}

// ClotBurden scores each lung side independently and sums them. An occluded
// main branch caps its side and its lobes are not counted. Result is in [0, 40].
func ClotBurden(s Sites) float64 {
	right, scoreLobes := mainBranch(s.MainBranchRight)
	if scoreLobes {
		right = upperLobeRight.of(s.UpperLobeRight) +
			middleLobeRight.of(s.MiddleLobeRight) +
			lowerLobeRight.of(s.LowerLobeRight)
	}

	left, scoreLobes := mainBranch(s.MainBranchLeft)
	if scoreLobes {
		left = upperLobeLeft.of(s.UpperLobeLeft) + lowerLobeLeft.of(s.LowerLobeLeft)
	}

	return right + left
}

// FromEvaluated scores the occlusion fields of a decoded report. ok is false
// when any of the seven fields carries an error code.
func FromEvaluated(ev *model.EvaluatedValues) (float64, bool) {
	mr, ok1 := ev.MainBranchRight.Get()
	ur, ok2 := ev.UpperLobeRight.Get()
	mlr, ok3 := ev.MiddleLobeRight.Get()
	lr, ok4 := ev.LowerLobeRight.Get()
	ml, ok5 := ev.MainBranchLeft.Get()
	ul, ok6 := ev.UpperLobeLeft.Get()
	ll, ok7 := ev.LowerLobeLeft.Get()
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7) {
		return 0, false
	}
	return ClotBurden(Sites{
		MainBranchRight: mr,
		UpperLobeRight:  ur,
		MiddleLobeRight: mlr,
		LowerLobeRight:  lr,
		MainBranchLeft:  ml,
		UpperLobeLeft:   ul,
		LowerLobeLeft:   ll,
	}), true
}
