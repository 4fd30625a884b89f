package rules

import (
	"github.com/rs/zerolog"

	"github.com/gyeh/laeextract/internal/model"
	"github.com/gyeh/laeextract/internal/score"
)

// Extractor turns reports into Results. It holds no per-report state and
// is safe to reuse across a batch.
type Extractor struct {
	log zerolog.Logger
}

// NewExtractor returns an Extractor that logs field diagnostics to log.
func NewExtractor(log zerolog.Logger) *Extractor {
	return &Extractor{log: log}
}

// fieldReader locates labels in a single report body and logs diagnostics
// tagged with the report's study ID.
type fieldReader struct {
	body string
	log  zerolog.Logger
}

func (f *fieldReader) locate(label string) (string, bool) {
	raw, ok := Locate(f.body, label)
	if !ok {
		f.log.Error().Str("field", label).Msg("no field found with this label")
	}
	return raw, ok
}

func decode[T any](f *fieldReader, label string, classify func(string, bool) model.Decoded[T]) (string, model.Decoded[T]) {
	raw, ok := f.locate(label)
	d := classify(raw, ok)
	if d.Err() == model.InvalidValue {
		f.log.Warn().Str("field", label).Str("raw", raw).Msg("invalid field value")
	}
	return raw, d
}

// Extract decodes every tracked field of r. A field that fails to decode
// only affects its own column; Extract never fails as a whole.
func (e *Extractor) Extract(r model.Report) model.Result {
	f := &fieldReader{
		body: r.Body,
		log:  e.log.With().Str("study_id", r.StudyID).Logger(),
	}
	res := model.Result{StudyID: r.StudyID}
	in, ev := &res.Input, &res.Evaluated

	in.ECGSync, ev.ECGSync = decode(f, model.LabelECGSync, ECGSync)
	in.DensityTrPulmonalis, ev.DensityTrPulmonalis = decode(f, model.LabelDensityTrPulmonalis, Density)
	in.ArtefactScore, ev.ArtefactScore = decode(f, model.LabelArtefactScore, ArtefactScore)
	in.LaePresence, ev.LaePresence = decode(f, model.LabelLaePresence, LaePresenceOf)

	in.MainBranchRight, ev.MainBranchRight = decode(f, model.LabelMainBranchRight, MainBranch)
	in.UpperLobeRight, ev.UpperLobeRight = decode(f, model.LabelUpperLobeRight, Lobe)
	in.MiddleLobeRight, ev.MiddleLobeRight = decode(f, model.LabelMiddleLobeRight, Lobe)
	in.LowerLobeRight, ev.LowerLobeRight = decode(f, model.LabelLowerLobeRight, Lobe)
	in.MainBranchLeft, ev.MainBranchLeft = decode(f, model.LabelMainBranchLeft, MainBranch)
	in.UpperLobeLeft, ev.UpperLobeLeft = decode(f, model.LabelUpperLobeLeft, Lobe)
	in.LowerLobeLeft, ev.LowerLobeLeft = decode(f, model.LabelLowerLobeLeft, Lobe)

	in.ClotBurdenScore, ev.ClotBurdenScore = decode(f, model.LabelClotBurdenScore, ReportedClotBurden)
	in.PerfusionDeficit, ev.PerfusionDeficit = decode(f, model.LabelPerfusionDeficit, PerfusionDeficitOf)
	in.RVLVQuotient, ev.RVLVQuotient = decode(f, model.LabelRVLVQuotient, RVLVQuotient)

	if ApplyOcclusionBaseline(ev) {
		f.log.Debug().Msg("occlusion block absent, treating all sites as not occluded")
	}

	if cbs, ok := score.FromEvaluated(ev); ok {
		res.ClotBurden = &cbs
		if reported, mismatch := ScoreMismatch(&res); mismatch {
			f.log.Warn().
				Float64("reported", reported).
				Float64("calculated", cbs).
				Msg("reported clot burden score differs from calculated score")
		}
	}

	return res
}

// ScoreMismatch reports whether the radiologist's clot burden score decoded
// and disagrees with the calculated one. Both must be defined.
func ScoreMismatch(r *model.Result) (reported float64, mismatch bool) {
	if r.ClotBurden == nil {
		return 0, false
	}
	reported, ok := r.Evaluated.ClotBurdenScore.Get()
	if !ok {
		return 0, false
	}
	return reported, reported != *r.ClotBurden
}
