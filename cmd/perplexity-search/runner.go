// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/charmbracelet/log"

	"github.com/pdiddy/perplexity-search/internal/config"
	"github.com/pdiddy/perplexity-search/internal/entrez"
	"github.com/pdiddy/perplexity-search/internal/httputil"
	"github.com/pdiddy/perplexity-search/internal/perplexity"
	"github.com/pdiddy/perplexity-search/internal/pipeline"
	"github.com/pdiddy/perplexity-search/pkg/types"
)

// newRunner loads configuration and wires PubMed and the model. The model is
// loaded on first use, so an unreachable server or a missing tokenizer shows
// up as a failed scoring stage rather than a command error. The returned
// runner has no Notifier or Busy; callers set those.
func newRunner(l *log.Logger) (pipeline.Runner, types.Config, error) {
	cfg, err := config.Load(settings, loadedSecrets)
	if err != nil {
		return pipeline.Runner{}, types.Config{}, err
	}

	pubmed := entrez.New(cfg.Entrez, httputil.NewClient(cfg.Entrez.HTTPConfig), l)

	model := perplexity.NewLazy(cfg.Scorer, l, perplexity.WithHTTPClient(httputil.NewClient(cfg.Scorer.HTTPConfig)))

	return pipeline.Runner{
		Searcher: pubmed,
		Fetcher:  pubmed,
		Scorer:   model,
		Logger:   l,
	}, cfg, nil
}
