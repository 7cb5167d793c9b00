package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("llm: empty response")

// Client is an abstraction over LLM providers
type Client interface {
	// Generate sends prompt with params and returns the concatenated response text.
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
	// Model returns the model name used for calls.
	Model() string
	Close() error
}

// NewClient creates a client for the configured provider.
func NewClient(ctx context.Context, cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, errors.New("llm config is required")
	}

	switch cfg.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini client using the first available credential:
// inline service account JSON, a service account file, then an API key.
func NewGeminiClient(ctx context.Context, cfg *Config) (*GeminiClient, error) {
	opt, err := credentialOption(cfg)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GeminiClient{client: client, model: model}, nil
}

func credentialOption(cfg *Config) (option.ClientOption, error) {
	switch {
	case cfg.CredentialsJSON != "":
		if !json.Valid([]byte(cfg.CredentialsJSON)) {
			return nil, errors.New("GCP_SERVICE_ACCOUNT_JSON is not valid JSON")
		}
		return option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)), nil
	case cfg.CredentialsFile != "":
		if _, err := os.Stat(cfg.CredentialsFile); err != nil {
			return nil, fmt.Errorf("credentials file not found: %s: %w", cfg.CredentialsFile, err)
		}
		return option.WithCredentialsFile(cfg.CredentialsFile), nil
	case cfg.APIKey != "":
		return option.WithAPIKey(cfg.APIKey), nil
	default:
		return nil, errors.New("no Gemini credentials configured: set GEMINI_API_KEY, GCP_SERVICE_ACCOUNT_FILE or GCP_SERVICE_ACCOUNT_JSON")
	}
}

// Generate implements Client.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(params.Temperature)
	model.SetTopP(params.TopP)
	model.SetTopK(params.TopK)
	if params.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(params.MaxOutputTokens)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// Model implements Client.
func (c *GeminiClient) Model() string {
	return c.model
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response: %w", ErrEmptyResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response: %w", ErrEmptyResponse)
	}

	var text string
	found := false
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
			found = true
		}
	}
	if !found {
		return "", fmt.Errorf("no text parts in response: %w", ErrEmptyResponse)
	}
	return text, nil
}
