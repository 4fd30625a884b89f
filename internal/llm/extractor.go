package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"golang.org/x/time/rate"

	"github.com/gyeh/laeextract/internal/model"
	"github.com/gyeh/laeextract/internal/score"
)

// Options tunes request pacing and retries.
type Options struct {
	Model             string
	MaxRetries        int           // retries after the first attempt
	Timeout           time.Duration // per attempt; 0 means none
	RequestsPerMinute float64       // 0 means unlimited
	InitialBackoff    time.Duration
}

// Extractor sends reports to a Generator and parses the replies. It is safe
// for concurrent use; the rate limit is shared by all callers.
type Extractor struct {
	gen     Generator
	opts    Options
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewExtractor returns an Extractor for gen.
func NewExtractor(gen Generator, opts Options, log zerolog.Logger) *Extractor {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerMinute/60), 1)
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = time.Second
	}
	return &Extractor{gen: gen, opts: opts, limiter: limiter, log: log}
}

type reply struct {
	data             *model.ExtractedData
	promptTokens     int
	completionTokens int
}

// Extract runs one report through the model. Failures are reported in the
// result's Error field; only context cancellation is returned as an error.
func (e *Extractor) Extract(ctx context.Context, r model.Report) (model.LLMResult, error) {
	log := e.log.With().Str("study_id", r.StudyID).Logger()
	res := model.LLMResult{StudyID: r.StudyID, Model: e.opts.Model}
	start := time.Now()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.opts.InitialBackoff

	rep, err := backoff.Retry(ctx, func() (reply, error) {
		return e.attempt(ctx, r.Body)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(e.opts.MaxRetries)+1),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn().Err(err).Str("retry_in", next.String()).Msg("model request failed, retrying")
		}),
	)
	res.Duration = time.Since(start)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}
	if err != nil {
		res.Error = err.Error()
		log.Error().Err(err).Msg("extraction failed")
		return res, nil
	}

	res.Data = rep.data
	res.PromptTokens = rep.promptTokens
	res.CompletionTokens = rep.completionTokens

	if sites, err := Sites(&rep.data.Findings); err == nil {
		cbs := score.ClotBurden(sites)
		res.ClotBurden = &cbs
	}

	log.Info().
		Int("prompt_tokens", res.PromptTokens).
		Int("completion_tokens", res.CompletionTokens).
		Str("duration", res.Duration.String()).
		Msg("report extracted")
	return res, nil
}

// attempt performs one rate-limited request. Malformed replies are
// permanent: at temperature 0 a retry returns the same text.
func (e *Extractor) attempt(ctx context.Context, body string) (reply, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return reply{}, backoff.Permanent(fmt.Errorf("rate limiter: %w", err))
	}

	callCtx := ctx
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	resp, err := e.gen.GenerateContent(callCtx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, SystemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, body),
	}, llms.WithTemperature(0))
	if err != nil {
		if ctx.Err() != nil {
			return reply{}, backoff.Permanent(err)
		}
		return reply{}, fmt.Errorf("generate: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return reply{}, backoff.Permanent(ErrEmptyResponse)
	}

	choice := resp.Choices[0]
	data, err := ParseExtraction(choice.Content)
	if err != nil {
		return reply{}, backoff.Permanent(err)
	}

	return reply{
		data:             data,
		promptTokens:     intInfo(choice.GenerationInfo, "PromptTokens"),
		completionTokens: intInfo(choice.GenerationInfo, "CompletionTokens"),
	}, nil
}

// intInfo reads a token count from GenerationInfo; providers disagree on
// the numeric type.
func intInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
