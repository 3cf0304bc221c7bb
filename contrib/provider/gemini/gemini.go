// Package gemini implements the llm.Client interface using the official
// Google Generative AI SDK.
package gemini

import (
	"context"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Config holds Gemini provider configuration.
type Config struct {
	APIKey string
	Model  string
}

// DefaultConfig builds a config from the environment.
func DefaultConfig() *Config {
	return &Config{
		APIKey: os.Getenv("GEMINI_API_KEY"),
		Model:  os.Getenv("SLIDE_LLM_MODEL"),
	}
}

// Provider implements llm.Client for Gemini.
type Provider struct {
	config *Config
	client *genai.Client
}

// New creates a Gemini provider. The API key is required.
func New(ctx context.Context, config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for the Gemini provider")
	}
	if config.Model == "" {
		config.Model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &Provider{
		config: config,
		client: client,
	}, nil
}

// Generate implements llm.Client.
func (p *Provider) Generate(ctx context.Context, system, user string, temperature float64) (string, error) {
	model := p.client.GenerativeModel(p.config.Model)
	if temperature > 0 {
		model.SetTemperature(float32(temperature))
	}
	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates in Gemini response")
	}

	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out += string(text)
		}
	}
	if out == "" {
		return "", fmt.Errorf("no text content in Gemini response")
	}
	return out, nil
}

// Close releases the underlying client.
func (p *Provider) Close() error {
	return p.client.Close()
}
