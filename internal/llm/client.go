// Package llm extracts report variables with a chat model.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider selects the chat backend.
type Provider string

const (
	ProviderAuto   Provider = ""
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
)

// DefaultContextSize is the Ollama context window; the system prompt plus a
// long report does not fit the server default.
const DefaultContextSize = 8192

// openAIModels are served by the OpenAI API; every other model name is
// looked up on the Ollama server.
var openAIModels = map[string]bool{
	"gpt-4o":       true,
	"gpt-4o-mini":  true,
	"gpt-4.1":      true,
	"gpt-4.1-mini": true,
	"gpt-4.1-nano": true,
	"gpt-4-turbo":  true,
	"o1":           true,
	"o1-mini":      true,
	"o3-mini":      true,
}

// ProviderForModel returns the backend that serves model.
func ProviderForModel(model string) Provider {
	if openAIModels[model] {
		return ProviderOpenAI
	}
	return ProviderOllama
}

// ParseProvider validates a --provider value. "" and "auto" select by model name.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return ProviderAuto, nil
	case string(ProviderOpenAI):
		return ProviderOpenAI, nil
	case string(ProviderOllama):
		return ProviderOllama, nil
	default:
		return "", fmt.Errorf("unknown provider %q: want auto, openai or ollama", s)
	}
}

// Generator is the part of llms.Model the extractor uses.
type Generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// ClientConfig configures NewGenerator.
type ClientConfig struct {
	Provider    Provider
	Model       string
	BaseURL     string // OpenAI-compatible endpoint; empty for api.openai.com
	APIKey      string
	OllamaHost  string
	ContextSize int
}

// NewGenerator builds a langchaingo client for cfg.Model.
func NewGenerator(cfg ClientConfig) (Generator, Provider, error) {
	provider := cfg.Provider
	if provider == ProviderAuto {
		provider = ProviderForModel(cfg.Model)
	}

	switch provider {
	case ProviderOpenAI:
		token := cfg.APIKey
		if token == "" && cfg.BaseURL != "" {
			// self-hosted OpenAI-compatible servers ignore the token, langchaingo still wants one
			token = "unused"
		}
		opts := []openai.Option{
			openai.WithModel(cfg.Model),
			openai.WithToken(token),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		client, err := openai.New(opts...)
		if err != nil {
			return nil, provider, fmt.Errorf("create openai client: %w", err)
		}
		return client, provider, nil

	case ProviderOllama:
		numCtx := cfg.ContextSize
		if numCtx <= 0 {
			numCtx = DefaultContextSize
		}
		opts := []ollama.Option{
			ollama.WithModel(cfg.Model),
			ollama.WithRunnerNumCtx(numCtx),
		}
		if cfg.OllamaHost != "" {
			opts = append(opts, ollama.WithServerURL(cfg.OllamaHost))
		}
		client, err := ollama.New(opts...)
		if err != nil {
			return nil, provider, fmt.Errorf("create ollama client: %w", err)
		}
		return client, provider, nil

	default:
		return nil, provider, fmt.Errorf("unknown provider %q", provider)
	}
}
