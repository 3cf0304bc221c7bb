package pipeline

import (
	"context"
	"fmt"
	"strings"
)

// stubLLM routes Generate through a test-provided function.
type stubLLM struct {
	fn func(system, user string) (string, error)
}

func (s *stubLLM) Generate(_ context.Context, system, user string, _ float64) (string, error) {
	return s.fn(system, user)
}

// routedLLM answers each agent by recognizing its system prompt.
func routedLLM(research, deck, style, edit string) *stubLLM {
	return &stubLLM{fn: func(system, user string) (string, error) {
		switch {
		case strings.Contains(system, "research analyst"):
			if research == "" {
				return "", fmt.Errorf("research backend down")
			}
			return research, nil
		case strings.Contains(system, "presentation curator"):
			if deck == "" {
				return "", fmt.Errorf("curation backend down")
			}
			return deck, nil
		case strings.Contains(system, "design expert"):
			if style == "" {
				return "", fmt.Errorf("style backend down")
			}
			return style, nil
		case strings.Contains(system, "presentation editor"):
			if edit == "" {
				return "", fmt.Errorf("edit backend down")
			}
			return edit, nil
		}
		return "", fmt.Errorf("unexpected system prompt: %s", system)
	}}
}

// stubGatherer implements sourceGatherer with per-call functions. Unset
// functions report failure.
type stubGatherer struct {
	fetch  func(url string) (string, error)
	read   func(path string) (string, error)
	search func(query string) (string, error)
}

func (g *stubGatherer) fetchURL(_ context.Context, url string) (string, error) {
	if g.fetch == nil {
		return "", fmt.Errorf("no network")
	}
	return g.fetch(url)
}

func (g *stubGatherer) readFile(path string) (string, error) {
	if g.read == nil {
		return "", fmt.Errorf("no filesystem")
	}
	return g.read(path)
}

func (g *stubGatherer) webSearch(_ context.Context, query string, _ int) (string, error) {
	if g.search == nil {
		return "", nil
	}
	return g.search(query)
}

const researchJSON = `{
  "title_suggestion": "The Future of Tidal Power",
  "key_themes": ["renewable energy", "ocean engineering"],
  "key_facts": [
    {"fact": "Tidal turbines can exceed 40% capacity factor", "source": "example.com", "importance": "high"}
  ],
  "statistics": [
    {"stat": "1.2 GW installed globally", "context": "as of 2025", "source": "example.com"}
  ],
  "quotes": [
    {"quote": "The tide waits for no one", "attribution": "Anonymous", "source": ""}
  ],
  "sections": [
    {"heading": "How it works", "summary": "Turbines in tidal streams", "key_points": ["predictable output"]}
  ],
  "audience_insights": "Engineers want numbers",
  "narrative_arc": "problem, technology, outlook"
}`

const deckJSON = `[
  {"type": "title", "title": "The Future of Tidal Power", "subtitle": "Predictable renewables"},
  {"type": "content", "title": "Why Tides", "bullets": ["Predictable", "Dense energy"]},
  {"type": "quote", "quote": "The tide waits for no one", "attribution": "Anonymous"},
  {"type": "feature_grid", "title": "Technologies", "cards": [
    {"title": "Stream turbines", "description": "Underwater rotors", "icon": "~"},
    {"title": "Barrages", "description": "Dammed estuaries", "icon": "="}
  ]},
  {"type": "closing", "title": "Catch the Tide", "subtitle": "Questions?"}
]`

const styleRecsJSON = `[
  {"name": "neon_cyber", "reason": "Technical energy topic", "confidence": 0.9},
  {"name": "bold_signal", "reason": "Strong numbers", "confidence": 0.7},
  {"name": "terminal_green", "reason": "Engineering audience", "confidence": 0.6}
]`

const editJSON = `{
  "slides": [
    {"type": "title", "title": "Tidal Power, Revised", "subtitle": "Predictable renewables"},
    {"type": "content", "title": "Why Tides", "bullets": ["Predictable"]},
    {"type": "closing", "title": "Catch the Tide"}
  ],
  "summary": "Shortened the deck"
}`
