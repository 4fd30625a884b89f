package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/laeextract/internal/exitcode"
	"github.com/gyeh/laeextract/internal/extract"
	"github.com/gyeh/laeextract/internal/model"
	"github.com/gyeh/laeextract/internal/normalize"
	"github.com/gyeh/laeextract/internal/rules"
)

func TestPipelineExit(t *testing.T) {
	cases := []struct {
		phase string
		want  int
	}{
		{extract.PhaseLoad, exitcode.ValidationError},
		{extract.PhaseEvaluate, exitcode.ExtractError},
		{extract.PhaseExport, exitcode.ExportError},
		{extract.PhaseStore, exitcode.DBError},
	}
	for _, tc := range cases {
		t.Run(tc.phase, func(t *testing.T) {
			err := pipelineExit(zerolog.Nop(), &extract.PipelineError{Phase: tc.phase, Err: errors.New("boom")}, "failed")
			var ee *exitError
			require.ErrorAs(t, err, &ee)
			assert.Equal(t, tc.want, ee.code)
			assert.True(t, ee.logged)
		})
	}

	err := pipelineExit(zerolog.Nop(), fmt.Errorf("plain"), "failed")
	var ee *exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, exitcode.ExtractError, ee.code)
}

func TestPrintResult(t *testing.T) {
	var lines []string
	for _, label := range model.OcclusionLabels {
		v := "-"
		if label == model.LabelMainBranchRight || label == model.LabelMainBranchLeft {
			v = "Total okkludiert"
		}
		lines = append(lines, "- "+label+": "+v)
	}
	body := strings.Join(lines, "\n")
	res := rules.NewExtractor(zerolog.Nop()).Extract(normalize.ToReport("S1", body))

	var b strings.Builder
	printResult(&b, &res)
	out := b.String()
	assert.Contains(t, out, "lae_main_branch_right")
	assert.Contains(t, out, "Totale Okklusion")
	assert.Contains(t, out, model.MissingField.String())
	assert.Regexp(t, `clot_burden_score_calc\s+40\.0`, out)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("LAE_TEST_STR", "x")
	t.Setenv("LAE_TEST_INT", "12")
	t.Setenv("LAE_TEST_BAD", "twelve")

	assert.Equal(t, "x", envOr("LAE_TEST_STR", "y"))
	assert.Equal(t, "y", envOr("LAE_TEST_UNSET", "y"))
	assert.Equal(t, 12, envInt("LAE_TEST_INT", 0))
	assert.Equal(t, 3, envInt("LAE_TEST_BAD", 3))
}

func TestStudyIDFlagKeepsCommas(t *testing.T) {
	pf := rootCmd.PersistentFlags()
	prev := cfg.StudyIDs
	t.Cleanup(func() {
		cfg.StudyIDs = prev
		pf.Lookup("study-id").Changed = false
	})

	require.NoError(t, pf.Parse([]string{"--study-id", "A,B", "--study-id", "C"}))
	assert.Equal(t, []string{"A,B", "C"}, cfg.StudyIDs)
	assert.Equal(t, "stringArray", pf.Lookup("study-id").Value.Type())
}
