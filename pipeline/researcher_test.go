package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func TestResearcherGatherPreservesOrder(t *testing.T) {
	r := NewResearcher(&stubLLM{fn: func(_, _ string) (string, error) {
		return researchJSON, nil
	}})
	r.sources = &stubGatherer{
		fetch: func(url string) (string, error) {
			return "content of " + url, nil
		},
		read: func(path string) (string, error) {
			return "text from " + path, nil
		},
		search: func(string) (string, error) { return "", nil },
	}

	pc := NewContext("tidal power")
	pc.URLs = []string{"https://a.example", "https://b.example"}
	pc.Files = []string{"notes.md"}

	sources, errs := r.gather(context.Background(), pc)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(sources) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(sources))
	}
	want := []string{"https://a.example", "https://b.example", "notes.md"}
	for i, w := range want {
		if sources[i].Source != w {
			t.Errorf("source %d = %q, want %q", i, sources[i].Source, w)
		}
	}
	if sources[2].Type != "file" {
		t.Errorf("source 2 type = %q, want file", sources[2].Type)
	}
}

func TestResearcherPartialFailureIsNotFatal(t *testing.T) {
	r := NewResearcher(&stubLLM{fn: func(_, user string) (string, error) {
		if !strings.Contains(user, "good content") {
			t.Errorf("surviving source missing from prompt")
		}
		return researchJSON, nil
	}})
	r.sources = &stubGatherer{
		fetch: func(url string) (string, error) {
			if strings.Contains(url, "bad") {
				return "", fmt.Errorf("connection refused")
			}
			return "good content", nil
		},
	}

	pc := NewContext("tidal power")
	pc.URLs = []string{"https://bad.example", "https://good.example"}

	result := r.Run(context.Background(), pc)
	if !result.Success {
		t.Fatalf("run failed: %v", result.Err)
	}
	var sawErr bool
	for _, m := range result.Messages {
		if strings.Contains(m, "bad.example") {
			sawErr = true
		}
	}
	if !sawErr {
		t.Error("failed source not reported in messages")
	}
	if len(result.Research.RawSources) != 1 {
		t.Errorf("raw sources = %d, want 1", len(result.Research.RawSources))
	}
}

func TestResearcherFallsBackToModelKnowledge(t *testing.T) {
	var prompt string
	r := NewResearcher(&stubLLM{fn: func(_, user string) (string, error) {
		prompt = user
		return researchJSON, nil
	}})
	r.sources = &stubGatherer{}

	pc := NewContext("tidal power")
	result := r.Run(context.Background(), pc)
	if !result.Success {
		t.Fatalf("run failed: %v", result.Err)
	}
	if !strings.Contains(prompt, "llm_knowledge") {
		t.Error("expected llm_knowledge fallback source in prompt")
	}
	if result.Research.TitleSuggestion != "The Future of Tidal Power" {
		t.Errorf("title suggestion = %q", result.Research.TitleSuggestion)
	}
}

func TestResearcherSynthesisFailureIsFatal(t *testing.T) {
	r := NewResearcher(&stubLLM{fn: func(_, _ string) (string, error) {
		return "", fmt.Errorf("model unavailable")
	}})
	r.sources = &stubGatherer{}

	result := r.Run(context.Background(), NewContext("tidal power"))
	if result.Success {
		t.Fatal("expected failure when synthesis errors")
	}
	if result.Err == nil || !strings.Contains(result.Err.Error(), "synthesis") {
		t.Errorf("error = %v, want synthesis failure", result.Err)
	}
}
