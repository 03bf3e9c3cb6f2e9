// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config builds types.Config from viper settings and secrets.
//
// Keys are grouped under entrez.*, scorer.*, http.* and log.*. Every key
// has a default so environment variables such as
// PERPLEXITY_SEARCH_ENTREZ_CONTACT_EMAIL are picked up by Unmarshal.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/perplexity-search/internal/entrez"
	"github.com/pdiddy/perplexity-search/internal/perplexity"
	"github.com/pdiddy/perplexity-search/internal/secrets"
	"github.com/pdiddy/perplexity-search/pkg/types"
)

// EnvPrefix is prepended to environment variable names.
const EnvPrefix = "PERPLEXITY_SEARCH"

const (
	defaultUserAgent     = "perplexity-search/0.1"
	defaultEntrezTimeout = 30 * time.Second
	defaultScorerTimeout = 120 * time.Second
)

// New returns a viper instance with defaults and environment binding set.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// SetDefaults registers a default for every known key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("http.user_agent", defaultUserAgent)

	v.SetDefault("entrez.base_url", entrez.DefaultBaseURL)
	v.SetDefault("entrez.database", "pubmed")
	v.SetDefault("entrez.timeout", defaultEntrezTimeout)
	v.SetDefault("entrez.user_agent", "")
	v.SetDefault("entrez.contact.tool", entrez.DefaultTool)
	v.SetDefault("entrez.contact.email", "")
	v.SetDefault("entrez.contact.api_key", "")

	v.SetDefault("scorer.endpoint", perplexity.DefaultEndpoint)
	v.SetDefault("scorer.api_key", "")
	v.SetDefault("scorer.model", perplexity.DefaultModel)
	v.SetDefault("scorer.add_start_token", true)
	v.SetDefault("scorer.bos_text", perplexity.DefaultBOSText)
	v.SetDefault("scorer.encoding", perplexity.DefaultEncoding)
	v.SetDefault("scorer.max_tokens", perplexity.DefaultMaxTokens)
	v.SetDefault("scorer.verify_model", false)
	v.SetDefault("scorer.timeout", defaultScorerTimeout)
	v.SetDefault("scorer.user_agent", "")
}

// Load decodes v into a Config. Values still empty afterwards are filled
// from s, so flags and config files take precedence over secrets.
func Load(v *viper.Viper, s secrets.Set) (types.Config, error) {
	// Unmarshal walks every key, so env and Set overrides of nested keys apply.
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}

	ua := v.GetString("http.user_agent")
	if cfg.Entrez.UserAgent == "" {
		cfg.Entrez.UserAgent = ua
	}
	if cfg.Scorer.UserAgent == "" {
		cfg.Scorer.UserAgent = ua
	}

	if cfg.Entrez.Contact.Email == "" {
		cfg.Entrez.Contact.Email = s.Get(secrets.NCBIEmail)
	}
	if cfg.Entrez.Contact.APIKey == "" {
		cfg.Entrez.Contact.APIKey = s.Get(secrets.NCBIAPIKey)
	}
	if cfg.Scorer.APIKey == "" {
		cfg.Scorer.APIKey = s.Get(secrets.ScorerAPIKey)
	}

	if cfg.Scorer.MaxTokens < 3 {
		return types.Config{}, fmt.Errorf("scorer.max_tokens must be at least 3, got %d", cfg.Scorer.MaxTokens)
	}
	return cfg, nil
}
