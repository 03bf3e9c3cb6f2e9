package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "perplexity-search/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// EntrezConfig holds settings for the PubMed search and fetch stages.
type EntrezConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the E-utilities root (default https://eutils.ncbi.nlm.nih.gov/entrez/eutils).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Database is the Entrez database name (default "pubmed").
	Database string `json:"database" yaml:"database" mapstructure:"database"`

	// Contact is sent with every request.
	Contact Contact `json:"contact" yaml:"contact" mapstructure:"contact"`
}

// ScorerConfig holds settings for the perplexity stage.
type ScorerConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Endpoint is the base URL of an OpenAI-compatible completions API
	// (e.g. "http://localhost:8080/v1").
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`

	// APIKey is sent as a bearer token when the model server requires one.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`

	// Model is the model identifier (default "gpt2").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// AddStartToken prepends BOSText to every title so the first title
	// token is scored too (default true).
	AddStartToken bool `json:"add_start_token" yaml:"add_start_token" mapstructure:"add_start_token"`

	// BOSText is the textual form of the model's beginning-of-sequence token.
	BOSText string `json:"bos_text" yaml:"bos_text" mapstructure:"bos_text"`

	// Encoding is the tiktoken encoding used to truncate titles to the
	// model context. Empty disables truncation.
	Encoding string `json:"encoding" yaml:"encoding" mapstructure:"encoding"`

	// MaxTokens is the model context length in tokens (default 1024).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`

	// VerifyModel checks the model list on Load.
	VerifyModel bool `json:"verify_model" yaml:"verify_model" mapstructure:"verify_model"`
}

// Config groups all stage configurations.
type Config struct {
	Entrez EntrezConfig `json:"entrez" yaml:"entrez" mapstructure:"entrez"`
	Scorer ScorerConfig `json:"scorer" yaml:"scorer" mapstructure:"scorer"`
}
