package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/sweetpotato0/slidecraft/slides"
)

func existingDeck() []slides.Slide {
	return []slides.Slide{
		{Type: "title", Title: "Tidal Power"},
		{Type: "content", Title: "Why Tides", Bullets: []string{"Predictable"}},
		{Type: "closing", Title: "Thanks"},
	}
}

func TestEditorAppliesInstruction(t *testing.T) {
	var prompt string
	e := NewEditor(&stubLLM{fn: func(_, user string) (string, error) {
		prompt = user
		return editJSON, nil
	}})

	pc := NewContext("tidal power")
	pc.Slides = existingDeck()
	pc.EditInstruction = "Shorten the deck"

	result := e.Run(context.Background(), pc)
	if !result.Success {
		t.Fatalf("run failed: %v", result.Err)
	}
	if result.Summary != "Shortened the deck" {
		t.Errorf("summary = %q", result.Summary)
	}
	if len(result.Slides) != 3 {
		t.Errorf("slides = %d, want 3", len(result.Slides))
	}
	if result.Slides[0].Title != "Tidal Power, Revised" {
		t.Errorf("title = %q, edit not applied", result.Slides[0].Title)
	}
	if !strings.Contains(prompt, "Shorten the deck") {
		t.Error("instruction missing from prompt")
	}
	if !strings.Contains(prompt, "Why Tides") {
		t.Error("current slides missing from prompt")
	}
}

func TestEditorRequiresInstructionAndSlides(t *testing.T) {
	e := NewEditor(&stubLLM{fn: func(_, _ string) (string, error) {
		t.Fatal("model should not be called")
		return "", nil
	}})

	pc := NewContext("tidal power")
	pc.Slides = existingDeck()
	if result := e.Run(context.Background(), pc); result.Success {
		t.Error("expected failure without instruction")
	}

	pc = NewContext("tidal power")
	pc.EditInstruction = "do something"
	if result := e.Run(context.Background(), pc); result.Success {
		t.Error("expected failure without slides")
	}
}

func TestEditorRejectsEmptyModelDeck(t *testing.T) {
	e := NewEditor(&stubLLM{fn: func(_, _ string) (string, error) {
		return `{"slides": [], "summary": "deleted everything"}`, nil
	}})

	pc := NewContext("tidal power")
	pc.Slides = existingDeck()
	pc.EditInstruction = "remove all slides"

	result := e.Run(context.Background(), pc)
	if result.Success {
		t.Fatal("expected failure when model returns no slides")
	}
}

func TestEditorRevalidatesDeck(t *testing.T) {
	// Model drops the title slide; validation must restore the invariants.
	e := NewEditor(&stubLLM{fn: func(_, _ string) (string, error) {
		return `{"slides": [
  {"type": "content", "title": "Orphan", "bullets": ["a", "b", "c", "d", "e", "f", "g", "h"]},
  {"type": "closing", "title": "Bye"}
], "summary": "broke the deck"}`, nil
	}})

	pc := NewContext("tidal power")
	pc.Slides = existingDeck()
	pc.EditInstruction = "mangle"

	result := e.Run(context.Background(), pc)
	if !result.Success {
		t.Fatalf("run failed: %v", result.Err)
	}
	if result.Slides[0].Type != "title" {
		t.Errorf("first slide type = %q, want title", result.Slides[0].Type)
	}
	for _, s := range result.Slides {
		if len(s.Bullets) > slides.MaxBullets {
			t.Errorf("slide %q has %d bullets, max %d", s.Title, len(s.Bullets), slides.MaxBullets)
		}
	}
}
