package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gyeh/laeextract/internal/model"
	"github.com/gyeh/laeextract/internal/score"
)

var (
	ErrEmptyResponse = errors.New("empty response from model")
	ErrInvalidJSON   = errors.New("model returned invalid JSON")
	ErrInvalidLabel  = errors.New("model returned an unknown label")
)

// Template literals and near misses the model echoes instead of the
// requested labels. "" marks no information.
var (
	laePresenceAliases = map[string]string{
		"Verdacht auf":                       model.LaeSuspected.String(),
		"Verdacht auf Lungenarterienembolie": model.LaeSuspected.String(),
	}
	perfusionAliases = map[string]string{
		"":     "",
		"NA":   "",
		"-":    "",
		"<25%": model.PerfusionLT25.String(),
		"≥25%": model.PerfusionGE25.String(),
		"=25%": model.PerfusionGE25.String(),
	}
	quotientAliases = map[string]string{
		"":   "",
		"NA": "",
		"-":  "",
		"<1": model.QuotientLT1.String(),
		"≥1": model.QuotientGE1.String(),
		"=1": model.QuotientGE1.String(),
	}
	occlusionAliases = map[string]string{
		"":   model.LobeNone.String(),
		"NA": model.LobeNone.String(),
		"-":  model.LobeNone.String(),
	}
)

// stripFences removes a markdown code fence around the JSON document.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// ParseExtraction decodes and validates a model reply. Enumerated findings
// are rewritten to their canonical labels.
func ParseExtraction(content string) (*model.ExtractedData, error) {
	content = stripFences(content)
	if content == "" {
		return nil, ErrEmptyResponse
	}

	var data model.ExtractedData
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if err := normalizeFindings(&data.Findings); err != nil {
		return nil, err
	}
	return &data, nil
}

func canonical(field, value string, aliases map[string]string, valid func(string) bool) (string, error) {
	v := strings.TrimSpace(value)
	if a, ok := aliases[v]; ok {
		return a, nil
	}
	if valid(v) {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s=%q", ErrInvalidLabel, field, value)
}

func validLae(s string) bool        { _, ok := model.ParseLaePresence(s); return ok }
func validPerfusion(s string) bool  { _, ok := model.ParsePerfusionDeficit(s); return ok }
func validQuotient(s string) bool   { _, ok := model.ParseRightHeartQuotient(s); return ok }
func validMainBranch(s string) bool { _, ok := model.ParseMainBranchOcclusion(s); return ok }
func validLobe(s string) bool       { _, ok := model.ParseLobeOcclusion(s); return ok }

func normalizeFindings(f *model.Findings) error {
	fields := []struct {
		name    string
		value   *string
		aliases map[string]string
		valid   func(string) bool
	}{
		{"lae_presence", &f.LaePresence, laePresenceAliases, validLae},
		{"lae_main_branch_right", &f.MainBranchRight, occlusionAliases, validMainBranch},
		{"lae_upper_lobe_right", &f.UpperLobeRight, occlusionAliases, validLobe},
		{"lae_lower_lobe_right", &f.LowerLobeRight, occlusionAliases, validLobe},
		{"lae_middle_lobe_right", &f.MiddleLobeRight, occlusionAliases, validLobe},
		{"lae_main_branch_left", &f.MainBranchLeft, occlusionAliases, validMainBranch},
		{"lae_upper_lobe_left", &f.UpperLobeLeft, occlusionAliases, validLobe},
		{"lae_lower_lobe_left", &f.LowerLobeLeft, occlusionAliases, validLobe},
		{"perfusion_deficit", &f.PerfusionDeficit, perfusionAliases, validPerfusion},
		{"rv_lv_quotient", &f.RVLVQuotient, quotientAliases, validQuotient},
	}

	for _, fld := range fields {
		v, err := canonical(fld.name, *fld.value, fld.aliases, fld.valid)
		if err != nil {
			return err
		}
		*fld.value = v
	}
	return nil
}

// Sites converts normalized findings into scorer input.
func Sites(f *model.Findings) (score.Sites, error) {
	var s score.Sites

	mains := []struct {
		dst *model.MainBranchOcclusion
		val string
	}{
		{&s.MainBranchRight, f.MainBranchRight},
		{&s.MainBranchLeft, f.MainBranchLeft},
	}
	for _, m := range mains {
		o, ok := model.ParseMainBranchOcclusion(m.val)
		if !ok {
			return score.Sites{}, fmt.Errorf("%w: main branch %q", ErrInvalidLabel, m.val)
		}
		*m.dst = o
	}

	lobes := []struct {
		dst *model.LobeOcclusion
		val string
	}{
		{&s.UpperLobeRight, f.UpperLobeRight},
		{&s.MiddleLobeRight, f.MiddleLobeRight},
		{&s.LowerLobeRight, f.LowerLobeRight},
		{&s.UpperLobeLeft, f.UpperLobeLeft},
		{&s.LowerLobeLeft, f.LowerLobeLeft},
	}
	for _, l := range lobes {
		o, ok := model.ParseLobeOcclusion(l.val)
		if !ok {
			return score.Sites{}, fmt.Errorf("%w: lobe %q", ErrInvalidLabel, l.val)
		}
		*l.dst = o
	}

	return s, nil
}
