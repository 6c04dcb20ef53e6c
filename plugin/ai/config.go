package ai

import (
	"github.com/pkg/errors"

	"github.com/hrygo/animesense/internal/profile"
)

// Config represents AI configuration.
type Config struct {
	Embedding EmbeddingConfig
	LLM       LLMConfig
}

// EmbeddingConfig represents vector embedding configuration.
type EmbeddingConfig struct {
	Model   string // text-embedding-3-small
	APIKey  string
	BaseURL string
}

// LLMConfig represents LLM configuration.
type LLMConfig struct {
	Model       string // llama-3.3-70b-versatile
	APIKey      string
	BaseURL     string
	Temperature float32 // default: 0, maximally deterministic
}

// NewConfigFromProfile creates AI config from profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Model:   p.EmbeddingModel,
			APIKey:  p.EmbeddingAPIKey,
			BaseURL: p.EmbeddingBaseURL,
		},
		LLM: LLMConfig{
			Model:       p.LLMModel,
			APIKey:      p.LLMAPIKey,
			BaseURL:     p.LLMBaseURL,
			Temperature: p.LLMTemperature,
		},
	}
}

// Validate checks the configuration for required fields.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return errors.New("LLM API key is required")
	}
	if c.LLM.Model == "" {
		return errors.New("LLM model is required")
	}
	if c.Embedding.APIKey == "" {
		return errors.New("embedding API key is required")
	}
	if c.Embedding.Model == "" {
		return errors.New("embedding model is required")
	}
	return nil
}
