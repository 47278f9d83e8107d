package ai

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studysense/studysense/internal/profile"
)

func TestNewConfigFromProfile(t *testing.T) {
	t.Run("disabled flag", func(t *testing.T) {
		cfg := NewConfigFromProfile(&profile.Profile{AIAPIKey: "k"})
		require.False(t, cfg.Enabled)
	})

	t.Run("enabled without key or base URL stays disabled", func(t *testing.T) {
		cfg := NewConfigFromProfile(&profile.Profile{AIEnabled: true})
		require.False(t, cfg.Enabled)
		require.NoError(t, cfg.Validate())
	})

	t.Run("provider default base URL", func(t *testing.T) {
		cfg := NewConfigFromProfile(&profile.Profile{
			AIEnabled:  true,
			AIProvider: "gemini",
			AIModel:    "gemini-1.5-flash",
			AIAPIKey:   "k",
		})
		require.True(t, cfg.Enabled)
		require.Equal(t, geminiBaseURL, cfg.LLM.BaseURL)
		require.Equal(t, 2048, cfg.LLM.MaxTokens)
		require.NoError(t, cfg.Validate())
	})

	t.Run("explicit base URL wins", func(t *testing.T) {
		cfg := NewConfigFromProfile(&profile.Profile{
			AIEnabled:  true,
			AIProvider: "openai",
			AIModel:    "gpt-4o-mini",
			AIAPIKey:   "k",
			AIBaseURL:  "http://localhost:11434/v1",
		})
		require.Equal(t, "http://localhost:11434/v1", cfg.LLM.BaseURL)
	})

	t.Run("keyless self-hosted endpoint validates", func(t *testing.T) {
		cfg := NewConfigFromProfile(&profile.Profile{
			AIEnabled:  true,
			AIProvider: "openai",
			AIModel:    "llama3",
			AIBaseURL:  "http://localhost:11434/v1",
		})
		require.True(t, cfg.Enabled)
		require.NoError(t, cfg.Validate())
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled is always valid", Config{}, false},
		{"missing provider", Config{Enabled: true, LLM: LLMConfig{Model: "m", APIKey: "k"}}, true},
		{"missing model", Config{Enabled: true, LLM: LLMConfig{Provider: "gemini", APIKey: "k"}}, true},
		{"missing key and base URL", Config{Enabled: true, LLM: LLMConfig{Provider: "gemini", Model: "m"}}, true},
		{"complete", Config{Enabled: true, LLM: LLMConfig{Provider: "gemini", Model: "m", APIKey: "k"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
