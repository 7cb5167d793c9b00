// Package llm is the boundary to the language model: it accepts a prompt and
// generation parameters and returns the response text.
package llm

import (
	"github.com/jonathan/market-copilot/internal/config"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-pro"

// GenerationParams are the sampling settings sent with a single call.
type GenerationParams struct {
	Temperature     float32
	MaxOutputTokens int32
	TopP            float32
	TopK            int32
}

// InsightParams are the fixed settings used for market insight answers.
func InsightParams() GenerationParams {
	return GenerationParams{
		Temperature:     0.5,
		MaxOutputTokens: 3072,
		TopP:            0.95,
		TopK:            40,
	}
}

// Config selects the provider, model and credentials.
type Config struct {
	Provider        Provider
	Model           string
	APIKey          string
	CredentialsFile string
	CredentialsJSON string
}

// ConfigFrom builds an llm Config from the application Gemini settings.
func ConfigFrom(cfg config.GeminiConfig) *Config {
	c := &Config{
		Provider:        ProviderGemini,
		Model:           cfg.Model,
		APIKey:          cfg.APIKey,
		CredentialsFile: cfg.CredentialsFile,
		CredentialsJSON: cfg.CredentialsJSON,
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	return c
}
