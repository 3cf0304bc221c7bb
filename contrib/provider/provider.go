// Package provider selects and constructs an llm.Client backend.
//
// Resolution order: explicit name, then SLIDE_LLM_PROVIDER, then
// auto-detection from whichever credential is present in the environment.
package provider

import (
	"context"
	"fmt"
	"os"

	"github.com/sweetpotato0/slidecraft/contrib/provider/claude"
	"github.com/sweetpotato0/slidecraft/contrib/provider/copilot"
	"github.com/sweetpotato0/slidecraft/contrib/provider/gemini"
	"github.com/sweetpotato0/slidecraft/contrib/provider/openai"
	"github.com/sweetpotato0/slidecraft/errors"
	"github.com/sweetpotato0/slidecraft/llm"
	"github.com/sweetpotato0/slidecraft/pkg/logging"
)

// Known provider names.
const (
	Copilot = "copilot"
	OpenAI  = "openai"
	Claude  = "claude"
	Gemini  = "gemini"
)

// New builds an llm.Client for the named provider. An empty name falls back
// to SLIDE_LLM_PROVIDER, then to credential auto-detection:
// GITHUB_TOKEN, OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY, in that
// order.
func New(ctx context.Context, name string) (llm.Client, error) {
	logger := logging.WithComponent("provider")

	if name == "" {
		name = os.Getenv("SLIDE_LLM_PROVIDER")
	}

	switch name {
	case Copilot:
		return copilot.New(nil)
	case OpenAI:
		return openai.New(nil)
	case Claude:
		return claude.New(nil)
	case Gemini:
		return gemini.New(ctx, nil)
	case "":
		// fall through to auto-detection
	default:
		return nil, fmt.Errorf("unknown LLM provider %q: %w", name, errors.ErrInvalidInput)
	}

	switch {
	case os.Getenv("GITHUB_TOKEN") != "":
		logger.Info("auto-detected GitHub token, using Copilot")
		return copilot.New(nil)
	case os.Getenv("OPENAI_API_KEY") != "":
		logger.Info("auto-detected OpenAI key, using OpenAI")
		return openai.New(nil)
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		logger.Info("auto-detected Anthropic key, using Claude")
		return claude.New(nil)
	case os.Getenv("GEMINI_API_KEY") != "":
		logger.Info("auto-detected Gemini key, using Gemini")
		return gemini.New(ctx, nil)
	}

	return nil, fmt.Errorf(
		"set GITHUB_TOKEN, OPENAI_API_KEY, ANTHROPIC_API_KEY, or GEMINI_API_KEY, "+
			"or set SLIDE_LLM_PROVIDER explicitly: %w", errors.ErrNoProvider)
}
