package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/snapmeta/snapmeta/internal/llm"
	"github.com/snapmeta/snapmeta/internal/logger"
	"github.com/snapmeta/snapmeta/internal/pricing"
	"github.com/snapmeta/snapmeta/pkg/photometa"
)

// ParseErrorMessage is the error field value used when the provider's
// response is not valid JSON.
const ParseErrorMessage = "Failed to parse response as JSON"

// ErrorPayload is the fallback metadata value used when the provider's
// response cannot be used as a record.
type ErrorPayload struct {
	Error   string `json:"error"`
	RawText string `json:"raw_text"`
}

// Envelope is the single output structure produced per invocation.
// Metadata holds either a photometa.Record or an ErrorPayload.
type Envelope struct {
	Message  string `json:"message"`
	Metadata any    `json:"metadata"`
}

// Config holds extractor settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens: 4096,
		Timeout:   60 * time.Second,
	}
}

// Extractor performs LLM-based metadata extraction.
type Extractor struct {
	provider llm.Provider
	config   Config
}

// Option configures the extractor.
type Option func(*Config)

// WithMaxTokens sets the maximum tokens for responses.
func WithMaxTokens(n int) Option {
	return func(c *Config) {
		c.MaxTokens = n
	}
}

// WithTemperature sets the LLM temperature.
func WithTemperature(t float64) Option {
	return func(c *Config) {
		c.Temperature = t
	}
}

// WithTimeout bounds the provider round trip.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// New creates a new Extractor.
func New(provider llm.Provider, opts ...Option) *Extractor {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Extractor{
		provider: provider,
		config:   cfg,
	}
}

// ExtractFresh builds a metadata record from a free-text query with no
// prior state. The returned envelope is always emittable; a non-nil error
// indicates a provider/transport failure that is also reflected inside
// the envelope.
func (e *Extractor) ExtractFresh(ctx context.Context, query string) (Envelope, error) {
	logger.Debug("fresh extraction starting", "provider", e.provider.Name(), "query_size", len(query))
	return e.run(ctx, BuildFreshPrompt(query))
}

// Refine updates a previously extracted record using a natural-language
// correction. The previous record is never mutated; the model returns the
// merged record.
func (e *Extractor) Refine(ctx context.Context, prev photometa.Record, correction string) (Envelope, error) {
	logger.Debug("refinement starting", "provider", e.provider.Name(), "correction_size", len(correction))
	return e.run(ctx, BuildRefinePrompt(prev, correction))
}

// run issues exactly one completion request and converts the outcome into
// an envelope. Parse failures and schema drift are recovered into an
// ErrorPayload; provider failures are enveloped too, but reported back so
// the caller can exit non-zero after emitting.
func (e *Extractor) run(ctx context.Context, prompt string) (Envelope, error) {
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: GetSystemPrompt()},
			{Role: llm.RoleUser, Content: prompt},
		},
		MaxTokens:   e.config.MaxTokens,
		Temperature: e.config.Temperature,
	})
	if err != nil {
		logger.Error("inference request failed", "provider", e.provider.Name(), "error", err)
		return Envelope{
			Message: e.costMessage(resp),
			Metadata: ErrorPayload{
				Error:   fmt.Sprintf("inference request failed: %v", err),
				RawText: "",
			},
		}, fmt.Errorf("inference request failed: %w", err)
	}

	logger.Debug("inference response received",
		"model", e.invokedModel(resp),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	return Envelope{
		Message:  e.costMessage(resp),
		Metadata: e.validate(resp.Content),
	}, nil
}

// validate parses and conformance-checks the response text, falling back
// to an ErrorPayload on any mismatch.
func (e *Extractor) validate(text string) any {
	var rec photometa.Record
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		logger.Warn("response is not valid JSON", "error", err)
		return ErrorPayload{Error: ParseErrorMessage, RawText: text}
	}

	if errs := photometa.Validate(rec); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, ve := range errs {
			msgs = append(msgs, ve.Error())
		}
		logger.Warn("response does not conform to the metadata schema", "errors", len(errs))
		return ErrorPayload{
			Error:   "Response does not conform to the metadata schema: " + strings.Join(msgs, "; "),
			RawText: text,
		}
	}

	photometa.NormalizeCountry(rec)
	return rec
}

// costMessage formats the envelope message with the estimated cost for the
// model that actually served the request.
func (e *Extractor) costMessage(resp llm.CompletionResponse) string {
	cost := pricing.Estimate(e.invokedModel(resp), resp.Usage)
	return fmt.Sprintf("Extracted metadata from GPT (cost: $%.6f)", cost)
}

// invokedModel prefers the model reported by the provider over the
// configured one, since auto-routing backends may substitute models.
func (e *Extractor) invokedModel(resp llm.CompletionResponse) string {
	if resp.Model != "" {
		return resp.Model
	}
	return e.provider.Model()
}
