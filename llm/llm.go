// Package llm defines the client contract the pipeline agents consume and
// the tolerant JSON decoding applied to model output.
package llm

import (
	"context"
	"fmt"
)

// Client is the capability every agent depends on: a single prompt/response
// exchange against some chat-completion backend. Implementations live in
// contrib/provider.
type Client interface {
	// Generate sends a system + user prompt pair and returns the raw
	// assistant reply.
	Generate(ctx context.Context, system, user string, temperature float64) (string, error)
}

// GenerateJSON sends a prompt pair and decodes the reply as a JSON object,
// tolerating markdown fences and surrounding prose.
func GenerateJSON(ctx context.Context, c Client, system, user string, temperature float64) (map[string]any, error) {
	raw, err := c.Generate(ctx, system, user, temperature)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := DecodeJSON(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateAs sends a prompt pair and decodes the reply into T.
func GenerateAs[T any](ctx context.Context, c Client, system, user string, temperature float64) (*T, error) {
	raw, err := c.Generate(ctx, system, user, temperature)
	if err != nil {
		return nil, err
	}
	var out T
	if err := DecodeJSON(raw, &out); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	return &out, nil
}
