package llm

import (
	"reflect"
	"testing"
)

func TestDecodeJSONStrict(t *testing.T) {
	var out map[string]any
	if err := DecodeJSON(`{"a": 1}`, &out); err != nil {
		t.Fatalf("DecodeJSON error: %v", err)
	}
	if out["a"] != float64(1) {
		t.Fatalf("expected a=1, got %#v", out)
	}
}

func TestDecodeJSONFenced(t *testing.T) {
	raw := "```json\n{\"title\": \"Deck\"}\n```"
	var out map[string]any
	if err := DecodeJSON(raw, &out); err != nil {
		t.Fatalf("DecodeJSON error: %v", err)
	}
	if out["title"] != "Deck" {
		t.Fatalf("expected title=Deck, got %#v", out)
	}
}

func TestDecodeJSONEmbeddedInProse(t *testing.T) {
	raw := `Sure! Here are your slides:

[{"type": "title", "title": "Hello"}]

Let me know if you need edits.`
	var out []map[string]any
	if err := DecodeJSON(raw, &out); err != nil {
		t.Fatalf("DecodeJSON error: %v", err)
	}
	if len(out) != 1 || out[0]["title"] != "Hello" {
		t.Fatalf("unexpected decode result: %#v", out)
	}
}

func TestDecodeJSONObjectWithLeadingProse(t *testing.T) {
	raw := `The updated deck is {"slides": [], "summary": "noop"} as requested.`
	var out struct {
		Summary string `json:"summary"`
	}
	if err := DecodeJSON(raw, &out); err != nil {
		t.Fatalf("DecodeJSON error: %v", err)
	}
	if out.Summary != "noop" {
		t.Fatalf("expected summary=noop, got %q", out.Summary)
	}
}

func TestDecodeJSONGarbage(t *testing.T) {
	var out map[string]any
	if err := DecodeJSON("not json at all", &out); err == nil {
		t.Fatal("expected error for garbage input")
	}
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n[1]\n```": "[1]",
		"```\n[1]\n```":     "[1]",
		"  [1]  ":           "[1]",
	}
	for in, want := range cases {
		if got := StripFences(in); got != want {
			t.Errorf("StripFences(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecodeJSONIntoSlice(t *testing.T) {
	raw := "```\n[{\"type\":\"content\",\"title\":\"A\"},{\"type\":\"closing\",\"title\":\"B\"}]\n```"
	var out []map[string]any
	if err := DecodeJSON(raw, &out); err != nil {
		t.Fatalf("DecodeJSON error: %v", err)
	}
	titles := []string{out[0]["title"].(string), out[1]["title"].(string)}
	if !reflect.DeepEqual(titles, []string{"A", "B"}) {
		t.Fatalf("unexpected titles: %v", titles)
	}
}
