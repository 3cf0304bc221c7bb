package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeJSON unmarshals model output into v using a fixed tolerance ladder:
// strict parse, then fence stripping, then the outermost bracket span.
// Models wrap JSON in ```json fences or lead with prose often enough that
// each step earns its keep.
func DecodeJSON(raw string, v any) error {
	cleaned := StripFences(raw)

	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	for _, pair := range [][2]byte{{'{', '}'}, {'[', ']'}} {
		start := strings.IndexByte(cleaned, pair[0])
		end := strings.LastIndexByte(cleaned, pair[1])
		if start == -1 || end <= start {
			continue
		}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), v); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no valid JSON in model response: %s", truncate(raw, 200))
}

// StripFences removes a surrounding markdown code fence, if any.
func StripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = trimmed[3:]
	trimmed = strings.TrimPrefix(trimmed, "json")
	trimmed = strings.TrimPrefix(trimmed, "JSON")
	if idx := strings.Index(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

func truncate(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
