package extract

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/gyeh/laeextract/internal/config"
	"github.com/gyeh/laeextract/internal/fixture"
	"github.com/gyeh/laeextract/internal/metrics"
	"github.com/gyeh/laeextract/internal/model"
	"github.com/gyeh/laeextract/internal/output"
)

// templateLines is a complete findings block scoring 16.
func templateLines() []fixture.Line {
	return []fixture.Line{
		{Label: model.LabelECGSync, Value: "Ja"},
		{Label: model.LabelDensityTrPulmonalis, Value: "320 HU"},
		{Label: model.LabelArtefactScore, Value: "1"},
		{Label: model.LabelLaePresence, Value: "Ja"},
		{Label: model.LabelMainBranchRight, Value: "Partiell okkludiert"},
		{Label: model.LabelUpperLobeRight, Value: "-"},
		{Label: model.LabelMiddleLobeRight, Value: "-"},
		{Label: model.LabelLowerLobeRight, Value: "-"},
		{Label: model.LabelMainBranchLeft, Value: "-"},
		{Label: model.LabelUpperLobeLeft, Value: "Subsegmentarterie(n)"},
		{Label: model.LabelLowerLobeLeft, Value: "Lappenarterie partiell okkludiert"},
		{Label: model.LabelClotBurdenScore, Value: "16"},
		{Label: model.LabelPerfusionDeficit, Value: "<25%"},
		{Label: model.LabelRVLVQuotient, Value: "<1"},
	}
}

func report(edit func(lines []fixture.Line)) string {
	lines := templateLines()
	if edit != nil {
		edit(lines)
	}
	return fixture.Render("Dyspnoe", lines, "LAE.")
}

// writeReports writes a study_id,report CSV and returns a config reading it.
func writeReports(t *testing.T, rows [][2]string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "reports.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := csv.NewWriter(f)
	require.NoError(t, w.Write([]string{"study_id", "report"}))
	for _, r := range rows {
		require.NoError(t, w.Write([]string{r[0], r[1]}))
	}
	w.Flush()
	require.NoError(t, w.Error())
	require.NoError(t, f.Close())

	return &config.Config{
		ReportsFile:   path,
		StudyIDColumn: "study_id",
		ReportColumn:  "report",
		OutputDir:     dir,
		OutputFormat:  "csv",
		NoTimestamp:   true,
		LLM: config.LLMConfig{
			Model:       "qwen2.5:72b",
			Concurrency: 3,
		},
	}
}

func readTable(t *testing.T, path string) map[string]map[string]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	out := make(map[string]map[string]string)
	for _, rec := range recs[1:] {
		row := make(map[string]string, len(rec))
		for i, h := range recs[0] {
			row[h] = rec[i]
		}
		out[rec[0]] = row
	}
	return out
}

func testEnv(cfg *config.Config) Env {
	return Env{Paths: output.Paths{Dir: cfg.OutputDir}, Metrics: metrics.New()}
}

func sampleRows() [][2]string {
	return [][2]string{
		{"S1", report(nil)},
		{"S2", report(func(l []fixture.Line) { l[11].Label = "" })},     // reported score missing
		{"S3", report(func(l []fixture.Line) { l[11].Value = "20" })},   // mismatch
		{"S4", report(func(l []fixture.Line) { l[4].Value = "unklar" })}, // invalid main branch
	}
}

func TestRunRules(t *testing.T) {
	cfg := writeReports(t, sampleRows())
	env := testEnv(cfg)

	summary, err := RunRules(context.Background(), zerolog.Nop(), cfg, env)
	require.NoError(t, err)

	assert.Equal(t, "rules", summary.Mode)
	assert.Equal(t, int64(4), summary.ReportsRead)
	assert.Equal(t, int64(4), summary.ReportsProcessed)
	assert.Equal(t, int64(1), summary.FieldsMissing)
	assert.Equal(t, int64(1), summary.FieldsInvalid)
	assert.Equal(t, int64(3), summary.ScoresComputed)
	assert.Equal(t, int64(1), summary.ScoreMismatches)
	require.Len(t, summary.OutputFiles, 2)
	assert.NotEmpty(t, summary.SourceSHA256)

	input := readTable(t, filepath.Join(cfg.OutputDir, "input_values.csv"))
	assert.Equal(t, "Partiell okkludiert", input["S1"]["lae_main_branch_right"])
	assert.Equal(t, "unklar", input["S4"]["lae_main_branch_right"])

	ev := readTable(t, filepath.Join(cfg.OutputDir, "evaluated_values.csv"))
	assert.Equal(t, "16.0", ev["S1"]["clot_burden_score"])
	assert.Equal(t, "16.0", ev["S1"]["clot_burden_score_calc"])
	assert.Equal(t, "Missing field", ev["S2"]["clot_burden_score"])
	assert.Equal(t, "16.0", ev["S2"]["clot_burden_score_calc"])
	assert.Equal(t, "20.0", ev["S3"]["clot_burden_score"])
	assert.Equal(t, "Invalid value", ev["S4"]["lae_main_branch_right"])
	assert.Equal(t, "", ev["S4"]["clot_burden_score_calc"])
}

func TestRunRulesParquet(t *testing.T) {
	cfg := writeReports(t, sampleRows())
	cfg.OutputFormat = "parquet"
	cfg.StudyIDs = []string{"S3", "S9"}

	summary, err := RunRules(context.Background(), zerolog.Nop(), cfg, testEnv(cfg))
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.ReportsProcessed)
	for _, f := range summary.OutputFiles {
		assert.True(t, strings.HasSuffix(f, ".parquet"), f)
		assert.FileExists(t, f)
	}
}

func TestRunRulesLoadError(t *testing.T) {
	cfg := writeReports(t, nil)
	cfg.ReportColumn = "befund"

	_, err := RunRules(context.Background(), zerolog.Nop(), cfg, testEnv(cfg))
	var pe *PipelineError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, PhaseLoad, pe.Phase)
}

func TestRunRulesExportError(t *testing.T) {
	cfg := writeReports(t, sampleRows())
	env := testEnv(cfg)
	env.Paths.Dir = filepath.Join(cfg.OutputDir, "does", "not", "exist")

	_, err := RunRules(context.Background(), zerolog.Nop(), cfg, env)
	var pe *PipelineError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, PhaseExport, pe.Phase)
}

func TestLoadLimitAndMissingStudyIDs(t *testing.T) {
	cfg := writeReports(t, sampleRows())
	cfg.Limit = 2
	loaded, err := Load(zerolog.Nop(), cfg)
	require.NoError(t, err)
	assert.Len(t, loaded.Reports, 2)
	assert.Equal(t, int64(-1), loaded.NumRows)

	cfg.StudyIDs = []string{"S4", "X1"}
	loaded, err = Load(zerolog.Nop(), cfg)
	require.NoError(t, err)
	require.Len(t, loaded.Reports, 1)
	assert.Equal(t, "S4", loaded.Reports[0].StudyID)
	assert.Equal(t, []string{"X1"}, loaded.MissingStudyIDs)

	cfg.StudyIDs = []string{" S4", "S4 ", "", "X2", "X1"}
	loaded, err = Load(zerolog.Nop(), cfg)
	require.NoError(t, err)
	require.Len(t, loaded.Reports, 1)
	assert.Equal(t, []string{"X1", "X2"}, loaded.MissingStudyIDs)
}

func TestBuildPlan(t *testing.T) {
	cfg := writeReports(t, sampleRows())
	p, err := BuildPlan(zerolog.Nop(), cfg)
	require.NoError(t, err)

	byName := make(map[string]FieldStats)
	for _, st := range p.Fields {
		byName[st.Field.Name] = st
		assert.Equal(t, int64(4), st.Value+st.Null+st.Missing+st.Invalid, st.Field.Name)
	}
	assert.Equal(t, int64(1), byName["clot_burden_score"].Missing)
	assert.Equal(t, int64(1), byName["lae_main_branch_right"].Invalid)
	assert.Equal(t, int64(4), byName["ecg_sync"].Value)

	var b strings.Builder
	p.Print(&b)
	assert.Contains(t, b.String(), "Selected:   4 reports")
	assert.Contains(t, b.String(), "Score mismatches: 1")
}

const llmReply = `{"findings": {
  "lae_presence": "Ja",
  "lae_main_branch_right": "Totale Okklusion",
  "lae_main_branch_left": "Keine Okklusion",
  "lae_upper_lobe_left": "Segmentale Okklusion",
  "clot_burden_score": 22.5,
  "perfusion_deficit": "NA",
  "rv_lv_quotient": "≥1"
}}`

// scriptedGenerator answers every report with llmReply, except reports
// containing "unklar", which get a reply that is not JSON.
type scriptedGenerator struct {
	calls atomic.Int64
}

func (g *scriptedGenerator) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	g.calls.Add(1)
	body := messages[len(messages)-1].Parts[0].(llms.TextContent).Text
	content := llmReply
	if strings.Contains(body, "unklar") {
		content = "Ich kann diesen Befund nicht auswerten."
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		Content:        content,
		GenerationInfo: map[string]any{"PromptTokens": 100, "CompletionTokens": 40},
	}}}, nil
}

func TestRunLLM(t *testing.T) {
	cfg := writeReports(t, sampleRows())
	env := testEnv(cfg)
	gen := &scriptedGenerator{}

	summary, err := RunLLM(context.Background(), zerolog.Nop(), cfg, gen, env)
	require.NoError(t, err)
	assert.Equal(t, "llm", summary.Mode)
	assert.Equal(t, int64(4), summary.ReportsProcessed)
	assert.Equal(t, int64(1), summary.ReportsFailed)
	assert.Equal(t, int64(3), summary.ScoresComputed)
	assert.Equal(t, int64(300), summary.PromptTokens)
	assert.Equal(t, int64(4), gen.calls.Load())

	path := filepath.Join(cfg.OutputDir, "extracted_qwen2.5_72b.csv")
	require.Equal(t, []string{path}, summary.OutputFiles)
	rows := readTable(t, path)
	require.Len(t, rows, 4)
	assert.Equal(t, "Totale Okklusion", rows["S1"]["lae_main_branch_right"])
	assert.Equal(t, "22.5", rows["S1"]["clot_burden_score_calc"])
	assert.Equal(t, "", rows["S1"]["perfusion_deficit"])
	assert.Equal(t, "≥ 1", rows["S1"]["rv_lv_quotient"])
	assert.Equal(t, "140", rows["S1"]["total_tokens"])
	assert.Contains(t, rows["S4"]["error"], "invalid JSON")

	// Resume retries only the failed report.
	cfg.LLM.Resume = true
	summary, err = RunLLM(context.Background(), zerolog.Nop(), cfg, gen, env)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.ReportsSkipped)
	assert.Equal(t, int64(1), summary.ReportsProcessed)
	assert.Equal(t, int64(5), gen.calls.Load())

	// A fresh run replaces the table.
	cfg.LLM.Resume = false
	_, err = RunLLM(context.Background(), zerolog.Nop(), cfg, gen, env)
	require.NoError(t, err)
	assert.Len(t, readTable(t, path), 4)
}

func TestRunLLMCancelled(t *testing.T) {
	cfg := writeReports(t, sampleRows())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunLLM(ctx, zerolog.Nop(), cfg, &scriptedGenerator{}, testEnv(cfg))
	var pe *PipelineError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, PhaseEvaluate, pe.Phase)
	assert.True(t, errors.Is(err, context.Canceled))
}
