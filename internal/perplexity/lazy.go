// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package perplexity

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/perplexity-search/pkg/types"
)

// Lazy is a Scorer that loads its Model on the first non-empty Score call
// and reuses it afterwards. A failed load is returned from that Score call
// and tried again on the next one, so a missing tokenizer or an unreachable
// model server fails scoring instead of the whole program.
type Lazy struct {
	cfg    types.ScorerConfig
	logger *log.Logger
	opts   []Option

	mu    sync.Mutex
	model *Model
}

// NewLazy returns a handle that calls Load with cfg, logger and opts when
// first needed.
func NewLazy(cfg types.ScorerConfig, logger *log.Logger, opts ...Option) *Lazy {
	return &Lazy{cfg: cfg, logger: logger, opts: opts}
}

// Model returns the loaded model, loading it if needed.
func (l *Lazy) Model(ctx context.Context) (*Model, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.model != nil {
		return l.model, nil
	}
	m, err := Load(ctx, l.cfg, l.logger, l.opts...)
	if err != nil {
		model := l.cfg.Model
		if model == "" {
			model = DefaultModel
		}
		return nil, fmt.Errorf("loading model %s: %w", model, err)
	}
	l.model = m
	return m, nil
}

// Score implements Scorer. Empty input returns an empty result without
// loading anything.
func (l *Lazy) Score(ctx context.Context, texts []string) ([]float64, error) {
	if len(texts) == 0 {
		return []float64{}, nil
	}
	m, err := l.Model(ctx)
	if err != nil {
		return nil, err
	}
	return m.Score(ctx, texts)
}
