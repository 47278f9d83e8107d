package ai

import (
	"errors"

	"github.com/studysense/studysense/internal/profile"
)

// Config represents AI configuration.
type Config struct {
	Enabled bool

	LLM LLMConfig
}

// LLMConfig represents LLM configuration.
type LLMConfig struct {
	Provider    string  // gemini, openai, deepseek
	Model       string  // gemini-1.5-flash
	APIKey      string
	BaseURL     string
	MaxTokens   int     // default: 2048
	Temperature float32 // default: 0.7
}

// Default base URLs for the OpenAI-compatible providers.
const (
	geminiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/openai"
	openaiBaseURL   = "https://api.openai.com/v1"
	deepseekBaseURL = "https://api.deepseek.com"
)

// NewConfigFromProfile creates AI config from profile. The flag alone is not
// enough: without an API key or base URL there is nothing to call, so the
// config comes back disabled and generation degrades to canned content.
func NewConfigFromProfile(p *profile.Profile) *Config {
	cfg := &Config{
		Enabled: p.IsAIEnabled(),
	}

	if !cfg.Enabled {
		return cfg
	}

	cfg.LLM = LLMConfig{
		Provider:    p.AIProvider,
		Model:       p.AIModel,
		APIKey:      p.AIAPIKey,
		BaseURL:     p.AIBaseURL,
		MaxTokens:   p.AIMaxTokens,
		Temperature: 0.7,
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 2048
	}

	if cfg.LLM.BaseURL == "" {
		switch cfg.LLM.Provider {
		case "gemini":
			cfg.LLM.BaseURL = geminiBaseURL
		case "openai":
			cfg.LLM.BaseURL = openaiBaseURL
		case "deepseek":
			cfg.LLM.BaseURL = deepseekBaseURL
		}
	}

	return cfg
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.LLM.Provider == "" {
		return errors.New("LLM provider is required")
	}
	if c.LLM.Model == "" {
		return errors.New("LLM model is required")
	}
	// Keyless endpoints (self-hosted OpenAI-compatible servers) are allowed
	// when an explicit base URL is configured.
	if c.LLM.APIKey == "" && c.LLM.BaseURL == "" {
		return errors.New("LLM API key is required")
	}

	return nil
}
