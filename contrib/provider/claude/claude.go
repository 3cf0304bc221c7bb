// Package claude implements the llm.Client interface using the official
// Anthropic SDK.
package claude

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

// Config holds Claude provider configuration.
type Config struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int64
}

// DefaultConfig builds a config from the environment.
func DefaultConfig() *Config {
	return &Config{
		APIKey: os.Getenv("ANTHROPIC_API_KEY"),
		Model:  os.Getenv("SLIDE_LLM_MODEL"),
	}
}

// Provider implements llm.Client for Claude.
type Provider struct {
	config *Config
	client anthropic.Client
}

// New creates a Claude provider. The API key is required.
func New(config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for the Claude provider")
	}
	if config.Model == "" {
		config.Model = "claude-sonnet-4-5-20250929"
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 8192
	}

	options := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		options = append(options, option.WithBaseURL(config.BaseURL))
	}

	return &Provider{
		config: config,
		client: anthropic.NewClient(options...),
	}, nil
}

// Generate implements llm.Client.
func (p *Provider) Generate(ctx context.Context, system, user string, temperature float64) (string, error) {
	params := anthropic.MessageNewParams{
		Model: anthropic.Model(p.config.Model),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
		MaxTokens: p.config.MaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
	}
	if temperature > 0 {
		params.Temperature = param.NewOpt(temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("Claude API error: %w", err)
	}

	var out string
	for _, block := range msg.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	if out == "" {
		return "", fmt.Errorf("no text content in Claude response")
	}
	return out, nil
}
