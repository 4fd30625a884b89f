package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/laeextract/internal/exitcode"
	"github.com/gyeh/laeextract/internal/extract"
	"github.com/gyeh/laeextract/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Extract findings with a language model",
	Long: "Sends every report to an OpenAI-compatible or Ollama model and writes one row per report. " +
		"Known OpenAI model names go to OpenAI; everything else goes to Ollama unless --provider says otherwise.",
	RunE: runLLM,
}

func init() {
	f := llmCmd.Flags()
	f.StringVar(&cfg.LLM.Model, "model", os.Getenv("LLM_MODEL"), "Model name, e.g. gpt-4o or qwen2.5:72b (or set LLM_MODEL)")
	f.StringVar(&cfg.LLM.Provider, "provider", os.Getenv("LLM_PROVIDER"), "Provider: auto, openai or ollama")
	f.StringVar(&cfg.LLM.BaseURL, "base-url", os.Getenv("OPENAI_BASE_URL"), "OpenAI-compatible endpoint (or set OPENAI_BASE_URL)")
	f.StringVar(&cfg.LLM.OllamaHost, "ollama-host", envOr("OLLAMA_HOST", "http://localhost:11434"), "Ollama server URL (or set OLLAMA_HOST)")
	f.IntVar(&cfg.LLM.Concurrency, "concurrency", envInt("LLM_CONCURRENCY", 4), "Reports extracted in parallel")
	f.Float64Var(&cfg.LLM.RequestsPerMinute, "rate-limit-rpm", 0, "Maximum model requests per minute (0 = unlimited)")
	f.IntVar(&cfg.LLM.MaxRetries, "max-retries", 3, "Retries per report after transport errors")
	f.DurationVar(&cfg.LLM.Timeout, "timeout", 5*time.Minute, "Timeout of a single model request")
	f.IntVar(&cfg.LLM.ContextSize, "context-size", llm.DefaultContextSize, "Ollama context window in tokens")
	f.BoolVar(&cfg.LLM.Resume, "resume", false, "Skip study IDs already extracted without error into the output table")
	cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	rootCmd.AddCommand(llmCmd)
}

func runLLM(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.LLM.Resume && !cfg.NoTimestamp {
		return usageError(fmt.Errorf("--resume needs --no-timestamp so the previous output table can be found"))
	}
	if err := cfg.ValidateLLM(); err != nil {
		return fail(newLogger(), exitcode.UsageError, err, "config validation failed")
	}
	provider, _ := llm.ParseProvider(cfg.LLM.Provider)

	gen, provider, err := llm.NewGenerator(llm.ClientConfig{
		Provider:    provider,
		Model:       cfg.LLM.Model,
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		OllamaHost:  cfg.LLM.OllamaHost,
		ContextSize: cfg.LLM.ContextSize,
	})
	if err != nil {
		return fail(newLogger(), exitcode.UsageError, err, "model client setup failed")
	}

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()
	s.log.Info().Str("provider", string(provider)).Str("model", cfg.LLM.Model).Msg("model client ready")

	summary, err := extract.RunLLM(ctx, s.log, &cfg, gen, s.env)
	s.writeMetrics()
	if err != nil {
		return pipelineExit(s.log, err, "llm extraction failed")
	}
	printSummary(summary)
	if summary.ReportsFailed > 0 {
		s.log.Warn().Int64("failed", summary.ReportsFailed).Msg("some reports could not be extracted; rerun with --resume")
		return &exitError{code: exitcode.PartialSuccess, logged: true}
	}
	return nil
}
