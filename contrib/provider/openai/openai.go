// Package openai implements the llm.Client interface using the official
// OpenAI SDK.
package openai

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

// Config holds OpenAI provider configuration.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int64
}

// DefaultConfig builds a config from the environment.
func DefaultConfig() *Config {
	return &Config{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("SLIDE_OPENAI_URL"),
		Model:   os.Getenv("SLIDE_LLM_MODEL"),
	}
}

// WithModel sets the model.
func (cfg *Config) WithModel(model string) *Config {
	cfg.Model = model
	return cfg
}

// WithBaseURL sets the base URL.
func (cfg *Config) WithBaseURL(url string) *Config {
	cfg.BaseURL = url
	return cfg
}

// Provider implements llm.Client for OpenAI.
type Provider struct {
	config *Config
	client openai.Client
}

// New creates an OpenAI provider. The API key is required.
func New(config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for the OpenAI provider")
	}
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
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
		client: openai.NewClient(options...),
	}, nil
}

// Generate implements llm.Client.
func (p *Provider) Generate(ctx context.Context, system, user string, temperature float64) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model: openai.ChatModel(p.config.Model),
	}
	if temperature > 0 {
		params.Temperature = param.NewOpt(temperature)
	}
	if p.config.MaxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(p.config.MaxTokens)
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}
	return completion.Choices[0].Message.Content, nil
}
