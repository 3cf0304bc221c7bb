package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sweetpotato0/slidecraft/llm"
	"github.com/sweetpotato0/slidecraft/pkg/logging"
	"github.com/sweetpotato0/slidecraft/slides"
)

// Editor applies natural language edit instructions to an existing deck.
// The model always returns the complete updated slide array, which is
// revalidated before use.
type Editor struct {
	llm    llm.Client
	logger *slog.Logger
}

// NewEditor creates an editor backed by the given LLM client.
func NewEditor(client llm.Client) *Editor {
	return &Editor{
		llm:    client,
		logger: logging.WithComponent("pipeline.editor"),
	}
}

func (e *Editor) Name() string { return "editor" }

const editSystemPrompt = `You are a presentation editor. Given the current slides and an edit instruction,
return the modified slides array.

You can:
- Edit specific slide content (text, bullets, titles)
- Change slide types (e.g., content to quote, content to feature_grid)
- Add new slides at specific positions
- Remove slides
- Reorder slides
- Expand or compress content
- Improve wording and structure
- Add or modify speaker notes

Return a JSON object with:
{
  "slides": [...],  // The complete updated slides array
  "summary": "Brief description of changes made"
}

Rules:
- First slide must remain type "title"
- Last slide must remain type "closing"
- Keep the same slide schema: type, title, subtitle, bullets, cards, code, quote, attribution, speaker_notes
- Max 6 bullets per slide, max 6 cards per feature_grid
- Return ALL slides (modified and unmodified)`

func (e *Editor) Run(ctx context.Context, pc *Context) *Result {
	if pc.EditInstruction == "" {
		return failure(fmt.Errorf("no edit instruction provided"))
	}
	if len(pc.Slides) == 0 {
		return failure(fmt.Errorf("no slides to edit, generate slides first"))
	}

	e.logger.Info("editing slides", "instruction", pc.EditInstruction, "slides", len(pc.Slides))

	current, err := json.MarshalIndent(pc.Slides, "", "  ")
	if err != nil {
		return failure(fmt.Errorf("encode current slides: %w", err))
	}

	userPrompt := fmt.Sprintf(`Current slides (%d total):
%s

Edit instruction: %s

Apply the edit and return the complete updated slides array.`,
		len(pc.Slides), current, pc.EditInstruction)

	type editResponse struct {
		Slides  []slides.Slide `json:"slides"`
		Summary string         `json:"summary"`
	}
	parsed, err := llm.GenerateAs[editResponse](ctx, e.llm, editSystemPrompt, userPrompt, 0.3)
	if err != nil {
		return failure(fmt.Errorf("edit failed: %w", err))
	}
	if len(parsed.Slides) == 0 {
		return failure(fmt.Errorf("edit failed: model returned no slides"))
	}

	summary := parsed.Summary
	if summary == "" {
		summary = "Slides updated"
	}

	return &Result{
		Success:  true,
		Slides:   slides.Validate(parsed.Slides),
		Summary:  summary,
		Messages: []string{summary},
	}
}
