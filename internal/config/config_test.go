package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromFile_Valid(t *testing.T) {
	path := writeConfig(t, `
study_id_column: accession
report_column: befund
output_format: parquet
study_ids: [A-1, A-2]
llm:
  model: qwen2.5-lae:72b
  concurrency: 4
  rate_limit_rpm: 30
  max_retries: 0
  timeout: 90s
`)

	c := Config{StudyIDColumn: "study_id", ReportColumn: "report", LLM: LLMConfig{MaxRetries: 3}}
	if err := c.LoadFromFile(path, nil); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.StudyIDColumn != "accession" || c.ReportColumn != "befund" {
		t.Errorf("columns not merged: %q %q", c.StudyIDColumn, c.ReportColumn)
	}
	if c.OutputFormat != "parquet" {
		t.Errorf("OutputFormat = %q", c.OutputFormat)
	}
	if len(c.StudyIDs) != 2 {
		t.Errorf("expected 2 study IDs, got %v", c.StudyIDs)
	}
	if c.LLM.Model != "qwen2.5-lae:72b" || c.LLM.Concurrency != 4 || c.LLM.RequestsPerMinute != 30 {
		t.Errorf("llm settings not merged: %+v", c.LLM)
	}
	if c.LLM.MaxRetries != 0 {
		t.Errorf("explicit max_retries: 0 must override, got %d", c.LLM.MaxRetries)
	}
	if c.LLM.Timeout != 90*time.Second {
		t.Errorf("Timeout = %s", c.LLM.Timeout)
	}
}

func TestLoadFromFile_FlagsWin(t *testing.T) {
	path := writeConfig(t, "report_column: befund\nllm:\n  model: gpt-4o\n")

	c := Config{ReportColumn: "text", LLM: LLMConfig{Model: "llama3.3-lae:70b"}}
	explicit := func(flag string) bool { return flag == "model" }
	if err := c.LoadFromFile(path, explicit); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.LLM.Model != "llama3.3-lae:70b" {
		t.Errorf("flag value overwritten: %q", c.LLM.Model)
	}
	if c.ReportColumn != "befund" {
		t.Errorf("file value not applied: %q", c.ReportColumn)
	}
}

func TestLoadFromFile_Invalid(t *testing.T) {
	path := writeConfig(t, "llm: [not, a, map]\n")

	var c Config
	if err := c.LoadFromFile(path, nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	var c Config
	err := c.LoadFromFile("/nonexistent/config.yaml", nil)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func validConfig(t *testing.T) Config {
	t.Helper()
	reports := filepath.Join(t.TempDir(), "reports.csv")
	if err := os.WriteFile(reports, []byte("study_id,report\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return Config{
		ReportsFile:   reports,
		StudyIDColumn: "study_id",
		ReportColumn:  "report",
		OutputFormat:  "csv",
		LLM:           LLMConfig{Model: "qwen2.5-lae:72b", Concurrency: 1},
	}
}

func TestValidate(t *testing.T) {
	c := validConfig(t)
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no reports file", func(c *Config) { c.ReportsFile = "" }},
		{"missing reports file", func(c *Config) { c.ReportsFile = "/nonexistent/reports.csv" }},
		{"empty column", func(c *Config) { c.ReportColumn = "" }},
		{"bad format", func(c *Config) { c.OutputFormat = "xlsx" }},
		{"negative limit", func(c *Config) { c.Limit = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig(t)
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateLLM(t *testing.T) {
	c := validConfig(t)
	if err := c.ValidateLLM(); err != nil {
		t.Fatalf("ValidateLLM: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no model", func(c *Config) { c.LLM.Model = "" }},
		{"openai without key", func(c *Config) { c.LLM.Model = "gpt-4o" }},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "anthropic" }},
		{"zero concurrency", func(c *Config) { c.LLM.Concurrency = 0 }},
		{"negative retries", func(c *Config) { c.LLM.MaxRetries = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig(t)
			tt.mutate(&c)
			if err := c.ValidateLLM(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	c = validConfig(t)
	c.LLM.Model = "gpt-4o"
	c.LLM.BaseURL = "http://vllm.internal:8000/v1"
	if err := c.ValidateLLM(); err != nil {
		t.Errorf("self-hosted OpenAI-compatible endpoint needs no key: %v", err)
	}
}
