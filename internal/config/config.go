package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/laeextract/internal/llm"
	"github.com/gyeh/laeextract/internal/output"
)

// Config holds all runtime configuration for a laeextract run.
type Config struct {
	DSN           string
	ReportsFile   string
	StudyIDColumn string
	ReportColumn  string
	OutputDir     string
	OutputFormat  string // "csv" or "parquet"
	InputEncoding string
	LogFormat     string // "text" or "json"
	MetricsFile   string
	NoTimestamp   bool
	Limit         int
	StudyIDs      []string // takes precedence over Limit
	LLM           LLMConfig
}

// LLMConfig configures the model extraction path.
type LLMConfig struct {
	Model             string
	Provider          string // "", "auto", "openai" or "ollama"
	BaseURL           string
	APIKey            string
	OllamaHost        string
	Concurrency       int
	RequestsPerMinute float64
	MaxRetries        int
	Timeout           time.Duration
	ContextSize       int
	Resume            bool
}

// yamlConfig is the on-disk YAML structure. Every key is optional.
type yamlConfig struct {
	StudyIDColumn string   `yaml:"study_id_column"`
	ReportColumn  string   `yaml:"report_column"`
	OutputDir     string   `yaml:"output_dir"`
	OutputFormat  string   `yaml:"output_format"`
	InputEncoding string   `yaml:"input_encoding"`
	MetricsFile   string   `yaml:"metrics_file"`
	StudyIDs      []string `yaml:"study_ids"`
	LLM           struct {
		Model             string        `yaml:"model"`
		Provider          string        `yaml:"provider"`
		BaseURL           string        `yaml:"base_url"`
		OllamaHost        string        `yaml:"ollama_host"`
		Concurrency       int           `yaml:"concurrency"`
		RequestsPerMinute float64       `yaml:"rate_limit_rpm"`
		MaxRetries        *int          `yaml:"max_retries"`
		Timeout           time.Duration `yaml:"timeout"`
		ContextSize       int           `yaml:"context_size"`
	} `yaml:"llm"`
}

// LoadFromFile reads a YAML config file and merges its non-empty values into
// Config. explicit reports whether a flag was set on the command line; those
// values win over the file. explicit may be nil.
func (c *Config) LoadFromFile(path string, explicit func(flag string) bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if explicit == nil {
		explicit = func(string) bool { return false }
	}

	setStr := func(flag string, dst *string, v string) {
		if v != "" && !explicit(flag) {
			*dst = v
		}
	}
	setStr("study-id-column", &c.StudyIDColumn, yc.StudyIDColumn)
	setStr("report-column", &c.ReportColumn, yc.ReportColumn)
	setStr("output-dir", &c.OutputDir, yc.OutputDir)
	setStr("format", &c.OutputFormat, yc.OutputFormat)
	setStr("input-encoding", &c.InputEncoding, yc.InputEncoding)
	setStr("metrics-file", &c.MetricsFile, yc.MetricsFile)
	setStr("model", &c.LLM.Model, yc.LLM.Model)
	setStr("provider", &c.LLM.Provider, yc.LLM.Provider)
	setStr("base-url", &c.LLM.BaseURL, yc.LLM.BaseURL)
	setStr("ollama-host", &c.LLM.OllamaHost, yc.LLM.OllamaHost)

	if len(yc.StudyIDs) > 0 && !explicit("study-id") {
		c.StudyIDs = yc.StudyIDs
	}
	if yc.LLM.Concurrency > 0 && !explicit("concurrency") {
		c.LLM.Concurrency = yc.LLM.Concurrency
	}
	if yc.LLM.RequestsPerMinute > 0 && !explicit("rate-limit-rpm") {
		c.LLM.RequestsPerMinute = yc.LLM.RequestsPerMinute
	}
	if yc.LLM.MaxRetries != nil && !explicit("max-retries") {
		c.LLM.MaxRetries = *yc.LLM.MaxRetries
	}
	if yc.LLM.Timeout > 0 && !explicit("timeout") {
		c.LLM.Timeout = yc.LLM.Timeout
	}
	if yc.LLM.ContextSize > 0 && !explicit("context-size") {
		c.LLM.ContextSize = yc.LLM.ContextSize
	}
	return nil
}

// Validate checks the settings every extraction needs.
func (c *Config) Validate() error {
	if c.ReportsFile == "" {
		return fmt.Errorf("--reports-file or REPORTS_FILE is required")
	}
	if _, err := os.Stat(c.ReportsFile); err != nil {
		return fmt.Errorf("reports file not accessible: %w", err)
	}
	if c.StudyIDColumn == "" || c.ReportColumn == "" {
		return fmt.Errorf("--study-id-column and --report-column must not be empty")
	}
	if c.OutputFormat != "" {
		if _, err := output.ParseFormat(c.OutputFormat); err != nil {
			return err
		}
	}
	if c.Limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	return nil
}

// ValidateLLM checks the model settings on top of Validate.
func (c *Config) ValidateLLM() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("--model or LLM_MODEL is required")
	}
	provider, err := llm.ParseProvider(c.LLM.Provider)
	if err != nil {
		return err
	}
	if provider == llm.ProviderAuto {
		provider = llm.ProviderForModel(c.LLM.Model)
	}
	if provider == llm.ProviderOpenAI && c.LLM.APIKey == "" && c.LLM.BaseURL == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for model %q", c.LLM.Model)
	}
	if c.LLM.Concurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1")
	}
	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("--max-retries must not be negative")
	}
	if c.LLM.RequestsPerMinute < 0 {
		return fmt.Errorf("--rate-limit-rpm must not be negative")
	}
	return nil
}

// ValidateWithDSN checks the database settings.
func (c *Config) ValidateWithDSN() error {
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	return nil
}
