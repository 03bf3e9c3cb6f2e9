// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package perplexity scores text by its perplexity under a language model
// served behind an OpenAI-compatible completions API.
//
// The model is asked to echo each prompt with per-token log-probabilities
// and generate a single token. Perplexity is exp of the mean negative
// log-probability of the prompt tokens. The first prompt token has no
// context and is never scored; when a start token is added it is that
// token, so every token of the text counts.
package perplexity

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"slices"

	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/pdiddy/perplexity-search/pkg/types"
)

// Defaults for ScorerConfig fields left empty.
const (
	DefaultModel     = "gpt2"
	DefaultBOSText   = "<|endoftext|>"
	DefaultEncoding  = "r50k_base"
	DefaultMaxTokens = 1024
	DefaultEndpoint  = "http://localhost:8080/v1"
)

// Scorer computes one perplexity per input text, in input order.
type Scorer interface {
	Score(ctx context.Context, texts []string) ([]float64, error)
}

// Model is a loaded scoring handle. Load it once and reuse it across runs.
type Model struct {
	cfg    types.ScorerConfig
	client *openai.Client
	tok    Tokenizer
	logger *log.Logger

	httpClient *http.Client
}

// Option configures Load.
type Option func(*Model)

// WithTokenizer replaces the tokenizer Load would build from cfg.Encoding.
func WithTokenizer(t Tokenizer) Option {
	return func(m *Model) { m.tok = t }
}

// WithHTTPClient sets the HTTP client used to reach the model server.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Model) { m.httpClient = c }
}

// Load prepares a Model: it fills config defaults, loads the tokenizer, and
// when cfg.VerifyModel is set confirms the server lists cfg.Model.
func Load(ctx context.Context, cfg types.ScorerConfig, logger *log.Logger, opts ...Option) (*Model, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.AddStartToken && cfg.BOSText == "" {
		cfg.BOSText = DefaultBOSText
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if logger == nil {
		logger = log.Default()
	}

	m := &Model{cfg: cfg, logger: logger.WithPrefix("perplexity")}
	for _, opt := range opts {
		opt(m)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.Endpoint
	if m.httpClient != nil {
		clientCfg.HTTPClient = m.httpClient
	}
	m.client = openai.NewClientWithConfig(clientCfg)

	if m.tok == nil && cfg.Encoding != "" {
		tok, err := NewTiktoken(cfg.Encoding)
		if err != nil {
			return nil, fmt.Errorf("loading tokenizer %s: %w", cfg.Encoding, err)
		}
		m.tok = tok
	}

	if cfg.VerifyModel {
		if err := m.verify(ctx); err != nil {
			return nil, err
		}
	}

	m.logger.Debug("model loaded", "model", cfg.Model, "endpoint", cfg.Endpoint, "add_start_token", cfg.AddStartToken)
	return m, nil
}

// Name returns the model identifier.
func (m *Model) Name() string { return m.cfg.Model }

func (m *Model) verify(ctx context.Context) error {
	list, err := m.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("listing models: %w", err)
	}
	for _, mod := range list.Models {
		if mod.ID == m.cfg.Model {
			return nil
		}
	}
	return fmt.Errorf("model %q is not served at %s", m.cfg.Model, m.cfg.Endpoint)
}

// Score returns the perplexity of every text in one batched request. Any
// failure fails the whole batch; the result is either len(texts) values or
// an error. A text with no scorable token scores NaN.
func (m *Model) Score(ctx context.Context, texts []string) ([]float64, error) {
	if len(texts) == 0 {
		return []float64{}, nil
	}

	prompts := make([]string, len(texts))
	for i, t := range texts {
		prompts[i] = m.prompt(t)
	}

	resp, err := m.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:     m.cfg.Model,
		Prompt:    prompts,
		MaxTokens: 1,
		Echo:      true,
		LogProbs:  1,
	})
	if err != nil {
		return nil, fmt.Errorf("completion request: %w", err)
	}
	if len(resp.Choices) != len(prompts) {
		return nil, fmt.Errorf("model returned %d choices for %d prompts", len(resp.Choices), len(prompts))
	}

	choices := slices.Clone(resp.Choices)
	slices.SortStableFunc(choices, func(a, b openai.CompletionChoice) int { return a.Index - b.Index })

	scores := make([]float64, len(prompts))
	for i, ch := range choices {
		if ch.Index != i {
			return nil, fmt.Errorf("model returned choice index %d at position %d", ch.Index, i)
		}
		lp, err := promptLogprobs(ch.LogProbs, prompts[i])
		if err != nil {
			return nil, fmt.Errorf("prompt %d: %w", i, err)
		}
		scores[i] = fromLogprobs(lp)
	}
	return scores, nil
}

// prompt truncates text to the model context and prepends the start token.
// The context must hold the start token, the text and the one generated
// token the request asks for.
func (m *Model) prompt(text string) string {
	limit := m.cfg.MaxTokens - 1
	if m.cfg.AddStartToken {
		limit--
	}
	if m.tok != nil {
		text = truncate(m.tok, text, limit)
	}
	if m.cfg.AddStartToken {
		return m.cfg.BOSText + text
	}
	return text
}

// fromLogprobs is exp(-mean(lp)). An empty slice yields NaN.
func fromLogprobs(lp []float64) float64 {
	if len(lp) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range lp {
		sum += v
	}
	return math.Exp(-sum / float64(len(lp)))
}
