package copilot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewRequiresToken(t *testing.T) {
	if _, err := New(&Config{}); err == nil {
		t.Fatal("expected error without token")
	}
}

func TestNewDefaults(t *testing.T) {
	p, err := New(&Config{Token: "tok"})
	if err != nil {
		t.Fatal(err)
	}
	if p.config.Model != DefaultModel {
		t.Errorf("model = %q, want %q", p.config.Model, DefaultModel)
	}
	if p.config.BaseURL != DefaultURL {
		t.Errorf("base url = %q, want %q", p.config.BaseURL, DefaultURL)
	}
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization = %q", got)
		}
		if got := r.Header.Get("Editor-Version"); got != editorVersion {
			t.Errorf("editor version = %q", got)
		}
		if got := r.Header.Get("Copilot-Integration-Id"); got != integrationID {
			t.Errorf("integration id = %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("stream should be false")
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("messages = %+v", req.Messages)
		}
		if req.Temperature != 0.3 {
			t.Errorf("temperature = %v", req.Temperature)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "hello back"}},
			},
		})
	}))
	defer srv.Close()

	p, err := New(&Config{Token: "tok", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	out, err := p.Generate(context.Background(), "be brief", "say hello", 0.3)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "hello back" {
		t.Errorf("output = %q", out)
	}
}

func TestGenerateErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusBadGateway, "upstream down"},
		{"no choices", http.StatusOK, `{"choices": []}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			p, err := New(&Config{Token: "tok", BaseURL: srv.URL})
			if err != nil {
				t.Fatal(err)
			}
			if _, err := p.Generate(context.Background(), "s", "u", 0); err == nil {
				t.Error("expected error")
			}
		})
	}
}
