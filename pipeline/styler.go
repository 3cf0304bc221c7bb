package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sweetpotato0/slidecraft/llm"
	"github.com/sweetpotato0/slidecraft/pkg/logging"
	"github.com/sweetpotato0/slidecraft/styles"
)

// StyleRecommender picks the visual preset: a user choice wins outright, a
// PPTX template yields a custom preset, otherwise mood mapping plus model
// analysis of the content rank the built-in presets.
type StyleRecommender struct {
	llm    llm.Client
	logger *slog.Logger
}

// NewStyleRecommender creates a style recommender backed by the given LLM
// client.
func NewStyleRecommender(client llm.Client) *StyleRecommender {
	return &StyleRecommender{
		llm:    client,
		logger: logging.WithComponent("pipeline.styler"),
	}
}

func (s *StyleRecommender) Name() string { return "style_recommender" }

func (s *StyleRecommender) Run(ctx context.Context, pc *Context) *Result {
	s.logger.Info("recommending styles", "topic", pc.Topic, "mood", pc.Mood)

	// User-selected style wins if it exists.
	if pc.StyleName != "" {
		preset, err := styles.LoadPreset(pc.StyleName)
		if err == nil {
			return &Result{
				Success:          true,
				RecommendedStyle: pc.StyleName,
				Recommendations: []StyleRecommendation{{
					Name:        pc.StyleName,
					DisplayName: preset.DisplayName,
					Vibe:        preset.Vibe,
					Category:    preset.Category,
					Reason:      "User-selected style",
					Confidence:  1.0,
				}},
				Messages: []string{"Using user-selected style: " + pc.StyleName},
			}
		}
		s.logger.Warn("user-specified style not found, recommending alternatives",
			"style", pc.StyleName)
	}

	// A provided PPTX template overrides preset recommendation.
	if pc.PPTXTemplatePath != "" {
		preset, err := styles.ExtractPPTXTheme(pc.PPTXTemplatePath)
		if err == nil {
			return &Result{
				Success:          true,
				RecommendedStyle: "custom",
				CustomPreset:     preset,
				Recommendations: []StyleRecommendation{{
					Name:        "custom",
					DisplayName: "Custom (from PPTX template)",
					Vibe:        "Matched to your template",
					Reason:      "Extracted from provided PPTX template",
					Confidence:  0.9,
				}},
				Messages: []string{"Extracted custom theme from PPTX template"},
			}
		}
		s.logger.Warn("pptx theme extraction failed", "path", pc.PPTXTemplatePath, "error", err)
	}

	var moodPresets []string
	if pc.Mood != "" {
		moodPresets = styles.PresetsForMood(pc.Mood)
	}

	recs, err := s.analyze(ctx, pc, moodPresets)
	if err != nil {
		s.logger.Warn("model recommendation failed, using fallback", "error", err)
		if moodPresets == nil {
			moodPresets = []string{"bold_signal", "notebook_tabs", "neon_cyber"}
		}
		recs = fallbackRecommendations(moodPresets)
	}

	top := styles.DefaultPreset
	var alternatives []string
	if len(recs) > 0 {
		top = recs[0].Name
		for _, r := range recs[1:] {
			alternatives = append(alternatives, r.Name)
		}
	}

	return &Result{
		Success:          true,
		RecommendedStyle: top,
		Recommendations:  recs,
		Messages: []string{
			"Top recommendation: " + top,
			"Alternatives: " + strings.Join(alternatives, ", "),
		},
	}
}

const styleSystemPrompt = `You are a presentation design expert. Analyze the presentation context
and recommend the 3 best style presets from the available options.

Return a JSON array of 3 recommendations:
[
  {
    "name": "preset_name",
    "reason": "Why this style fits the content and audience",
    "confidence": 0.95
  },
  ...
]

Consider: topic gravity, audience expectations, content type (technical vs creative),
and desired emotional impact. Order by best fit (highest confidence first).`

func (s *StyleRecommender) analyze(ctx context.Context, pc *Context, moodPresets []string) ([]StyleRecommendation, error) {
	presets, err := styles.LoadAllPresets()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*styles.Preset, len(presets))
	var catalog []string
	for _, p := range presets {
		byName[p.Name] = p
		catalog = append(catalog, fmt.Sprintf("  %s: %s (%s, category: %s)",
			p.Name, p.DisplayName, p.Vibe, p.Category))
	}

	var researchSummary string
	if pc.Research != nil {
		if len(pc.Research.KeyThemes) > 0 {
			researchSummary = "Key themes: " + strings.Join(pc.Research.KeyThemes, ", ")
		}
		if pc.Research.NarrativeArc != "" {
			researchSummary += "\nNarrative arc: " + pc.Research.NarrativeArc
		}
	}

	audience := pc.Audience
	if audience == "" {
		audience = "General"
	}
	mood := pc.Mood
	if mood == "" {
		mood = "Not specified"
	}
	var moodLine string
	if len(moodPresets) > 0 {
		moodLine = "Mood-matched presets (prioritize these): " + strings.Join(moodPresets, ", ")
	}

	userPrompt := fmt.Sprintf(`Topic: %s
Purpose: %s
Audience: %s
Desired mood: %s
%s

%s

Available styles:
%s`, pc.Topic, pc.Purpose, audience, mood, researchSummary, moodLine, strings.Join(catalog, "\n"))

	type rawRec struct {
		Name       string  `json:"name"`
		Reason     string  `json:"reason"`
		Confidence float64 `json:"confidence"`
	}
	parsed, err := llm.GenerateAs[[]rawRec](ctx, s.llm, styleSystemPrompt, userPrompt, 0.3)
	if err != nil {
		return nil, err
	}

	var recs []StyleRecommendation
	for _, rec := range head(*parsed, 3) {
		preset, ok := byName[rec.Name]
		if !ok {
			continue
		}
		confidence := rec.Confidence
		if confidence == 0 {
			confidence = 0.5
		}
		recs = append(recs, StyleRecommendation{
			Name:        rec.Name,
			DisplayName: preset.DisplayName,
			Vibe:        preset.Vibe,
			Category:    preset.Category,
			Reason:      rec.Reason,
			Confidence:  confidence,
		})
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("model recommended no known presets")
	}
	return recs, nil
}

func fallbackRecommendations(names []string) []StyleRecommendation {
	var recs []StyleRecommendation
	for _, name := range head(names, 3) {
		preset, err := styles.LoadPreset(name)
		if err != nil {
			continue
		}
		recs = append(recs, StyleRecommendation{
			Name:        name,
			DisplayName: preset.DisplayName,
			Vibe:        preset.Vibe,
			Category:    preset.Category,
			Reason:      "Default recommendation based on mood mapping",
			Confidence:  0.5,
		})
	}
	return recs
}
