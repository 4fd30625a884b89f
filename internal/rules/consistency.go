package rules

import "github.com/gyeh/laeextract/internal/model"

// ApplyOcclusionBaseline rewrites the seven occlusion sites to "no occlusion"
// when every one of them is MissingField: the template drops the whole
// thrombus-burden block when no embolism was found. A partially present
// block is left as is, so silently dropped sites surface as MissingField.
// It reports whether the rewrite happened.
func ApplyOcclusionBaseline(ev *model.EvaluatedValues) bool {
	group := []model.ErrorCode{
		ev.MainBranchRight.Err(),
		ev.UpperLobeRight.Err(),
		ev.MiddleLobeRight.Err(),
		ev.LowerLobeRight.Err(),
		ev.MainBranchLeft.Err(),
		ev.UpperLobeLeft.Err(),
		ev.LowerLobeLeft.Err(),
	}
	for _, code := range group {
		if code != model.MissingField {
			return false
		}
	}

	ev.MainBranchRight = model.Value(model.MainBranchNone)
	ev.UpperLobeRight = model.Value(model.LobeNone)
	ev.MiddleLobeRight = model.Value(model.LobeNone)
	ev.LowerLobeRight = model.Value(model.LobeNone)
	ev.MainBranchLeft = model.Value(model.MainBranchNone)
	ev.UpperLobeLeft = model.Value(model.LobeNone)
	ev.LowerLobeLeft = model.Value(model.LobeNone)
	return true
}
