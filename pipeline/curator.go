package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sweetpotato0/slidecraft/llm"
	"github.com/sweetpotato0/slidecraft/pkg/logging"
	"github.com/sweetpotato0/slidecraft/slides"
)

// Curator turns a research bundle into a structured, validated slide deck.
type Curator struct {
	llm    llm.Client
	logger *slog.Logger
}

// NewCurator creates a curator backed by the given LLM client.
func NewCurator(client llm.Client) *Curator {
	return &Curator{
		llm:    client,
		logger: logging.WithComponent("pipeline.curator"),
	}
}

func (c *Curator) Name() string { return "curator" }

const curationSystemPrompt = `You are an expert presentation curator. Transform research data into
a structured slide deck.

Return a JSON array where each slide object has these fields:
- "type": one of "title", "content", "feature_grid", "code", "quote", "image", "closing"
- "title": the slide heading (required)
- "subtitle": optional subtitle text
- "bullets": optional array of bullet points (max 6, keep each to 1-2 lines)
- "cards": optional array of {"title", "description", "icon"} for feature_grid (max 6)
- "code": optional code string for code slides
- "quote": optional quote text for quote slides
- "attribution": optional attribution for quote slides
- "speaker_notes": optional notes for the presenter

Rules:
1. First slide MUST be type "title" with a compelling title and subtitle
2. Last slide MUST be type "closing" with a memorable takeaway
3. Use "feature_grid" for comparisons, features, or categorized information
4. Use "quote" for impactful quotes from the research (with attribution)
5. Use "content" with bullets for most informational slides
6. Keep bullets concise, max 6 per slide and 1-2 lines each
7. Create a clear narrative arc from intro through body to conclusion
8. Include speaker_notes with talking points for each slide
9. Ensure information density is appropriate
10. Use data and statistics where available from the research

Return ONLY the JSON array.`

// Run creates the deck. Missing research is fatal here; the orchestrator
// passes an empty bundle when research failed so curation can still draw on
// model knowledge.
func (c *Curator) Run(ctx context.Context, pc *Context) *Result {
	c.logger.Info("curating slides", "topic", pc.Topic, "count", pc.SlideCount)

	if pc.Research == nil {
		return failure(fmt.Errorf("no research data available, run the researcher first"))
	}

	deck, err := c.curate(ctx, pc)
	if err != nil {
		return failure(fmt.Errorf("curation failed: %w", err))
	}
	deck = slides.Validate(deck)
	title := c.determineTitle(pc, deck)

	types := make([]string, len(deck))
	for i, s := range deck {
		types[i] = s.Type
	}
	return &Result{
		Success: true,
		Slides:  deck,
		Title:   title,
		Messages: []string{
			fmt.Sprintf("Created %d slides", len(deck)),
			"Title: " + title,
			"Slide types: " + strings.Join(types, ", "),
		},
	}
}

func (c *Curator) curate(ctx context.Context, pc *Context) ([]slides.Slide, error) {
	audience := pc.Audience
	if audience == "" {
		audience = "General professional audience"
	}
	mood := pc.Mood
	if mood == "" {
		mood = "Professional"
	}
	extra := pc.ExtraInstructions
	if extra == "" {
		extra = "None"
	}

	userPrompt := fmt.Sprintf(`Create a %d-slide %s presentation.

Topic: %s
Target audience: %s
Desired mood/feeling: %s
Extra instructions: %s

Research data:
%s

Generate exactly %d slides with a compelling narrative arc.`,
		pc.SlideCount, pc.Purpose, pc.Topic, audience, mood, extra,
		formatResearch(pc.Research), pc.SlideCount)

	raw, err := c.llm.Generate(ctx, curationSystemPrompt, userPrompt, 0.5)
	if err != nil {
		return nil, err
	}
	return parseSlides(raw)
}

// parseSlides accepts either a bare slide array or an object wrapping one
// under "slides".
func parseSlides(raw string) ([]slides.Slide, error) {
	var deck []slides.Slide
	if err := llm.DecodeJSON(raw, &deck); err == nil {
		return deck, nil
	}
	var wrapped struct {
		Slides []slides.Slide `json:"slides"`
	}
	if err := llm.DecodeJSON(raw, &wrapped); err == nil && len(wrapped.Slides) > 0 {
		return wrapped.Slides, nil
	}
	return nil, fmt.Errorf("could not parse slides from model response")
}

// formatResearch digests the bundle into prompt text, bounding each list so
// huge bundles do not crowd out the instructions.
func formatResearch(r *Research) string {
	var parts []string

	if r.NarrativeArc != "" {
		parts = append(parts, "Suggested narrative: "+r.NarrativeArc)
	}
	if len(r.KeyThemes) > 0 {
		parts = append(parts, "Key themes: "+strings.Join(r.KeyThemes, ", "))
	}
	if len(r.KeyFacts) > 0 {
		parts = append(parts, "Key facts:")
		for _, f := range head(r.KeyFacts, 10) {
			importance := f.Importance
			if importance == "" {
				importance = "medium"
			}
			src := f.Source
			if src == "" {
				src = "N/A"
			}
			parts = append(parts, fmt.Sprintf("  [%s] %s (Source: %s)", importance, f.Fact, src))
		}
	}
	if len(r.Statistics) > 0 {
		parts = append(parts, "Statistics:")
		for _, s := range head(r.Statistics, 5) {
			parts = append(parts, fmt.Sprintf("  * %s (%s)", s.Stat, s.Context))
		}
	}
	if len(r.Quotes) > 0 {
		parts = append(parts, "Notable quotes:")
		for _, q := range head(r.Quotes, 4) {
			attribution := q.Attribution
			if attribution == "" {
				attribution = "Unknown"
			}
			parts = append(parts, fmt.Sprintf("  %q (%s)", q.Quote, attribution))
		}
	}
	if len(r.Sections) > 0 {
		parts = append(parts, "Research sections:")
		for _, sec := range head(r.Sections, 7) {
			parts = append(parts, "  ## "+sec.Heading, "  "+sec.Summary)
			for _, kp := range head(sec.KeyPoints, 3) {
				parts = append(parts, "    * "+kp)
			}
		}
	}
	if r.AudienceInsights != "" {
		parts = append(parts, "Audience insights: "+r.AudienceInsights)
	}
	return strings.Join(parts, "\n")
}

func head[T any](in []T, n int) []T {
	if len(in) <= n {
		return in
	}
	return in[:n]
}

// determineTitle prefers the title slide's heading, then the research
// suggestion, then the topic itself.
func (c *Curator) determineTitle(pc *Context, deck []slides.Slide) string {
	if len(deck) > 0 && deck[0].Title != "" && deck[0].Title != "Untitled Slide" {
		return deck[0].Title
	}
	if pc.Research != nil && pc.Research.TitleSuggestion != "" {
		return pc.Research.TitleSuggestion
	}
	return pc.Topic
}
