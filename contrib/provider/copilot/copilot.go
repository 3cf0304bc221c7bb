// Package copilot implements the llm.Client interface against the GitHub
// Copilot chat completions API.
package copilot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	// DefaultURL is the Copilot chat completions endpoint.
	DefaultURL = "https://api.githubcopilot.com/chat/completions"
	// DefaultModel matches what the Copilot API serves by default.
	DefaultModel = "gpt-5.2"

	editorVersion = "vscode/1.96.0"
	integrationID = "slide-builder-ghcp"
)

// Config holds Copilot provider configuration.
type Config struct {
	Token   string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig builds a config from the environment.
func DefaultConfig() *Config {
	cfg := &Config{
		Token:   os.Getenv("GITHUB_TOKEN"),
		Model:   os.Getenv("SLIDE_LLM_MODEL"),
		BaseURL: os.Getenv("SLIDE_COPILOT_URL"),
	}
	if secs, err := strconv.Atoi(os.Getenv("SLIDE_LLM_TIMEOUT")); err == nil && secs > 0 {
		cfg.Timeout = time.Duration(secs) * time.Second
	}
	return cfg
}

// Provider implements llm.Client for GitHub Copilot.
type Provider struct {
	config *Config
	client *http.Client
}

// New creates a Copilot provider. The token is required.
func New(config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN is required for the Copilot provider")
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultURL
	}
	if config.Timeout == 0 {
		config.Timeout = 120 * time.Second
	}

	return &Provider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate implements llm.Client.
func (p *Provider) Generate(ctx context.Context, system, user string, temperature float64) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: p.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.Token)
	req.Header.Set("Editor-Version", editorVersion)
	req.Header.Set("Copilot-Integration-Id", integrationID)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("copilot request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", fmt.Errorf("read copilot response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("copilot API returned %d: %s", resp.StatusCode, data)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode copilot response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in copilot response")
	}
	return parsed.Choices[0].Message.Content, nil
}
