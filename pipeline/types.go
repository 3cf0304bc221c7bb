// Package pipeline implements the agent pipeline that turns a topic into a
// styled slide deck: research, curation, style recommendation, and the edit
// loop, coordinated by the Orchestrator.
package pipeline

import (
	"context"
	"encoding/json"

	"github.com/sweetpotato0/slidecraft/slides"
	"github.com/sweetpotato0/slidecraft/styles"
)

// Fact is one researched fact with its source and importance.
type Fact struct {
	Fact       string `json:"fact"`
	Source     string `json:"source"`
	Importance string `json:"importance"`
}

// Statistic is one researched figure with context.
type Statistic struct {
	Stat    string `json:"stat"`
	Context string `json:"context"`
	Source  string `json:"source"`
}

// Quote is one researched quote with attribution.
type Quote struct {
	Quote       string `json:"quote"`
	Attribution string `json:"attribution"`
	Source      string `json:"source"`
}

// Section is one thematic section of the research bundle.
type Section struct {
	Heading   string   `json:"heading"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
}

// SourceRef records a consumed source without its content.
type SourceRef struct {
	Type   string `json:"type"`
	Source string `json:"source"`
	Length int    `json:"length"`
}

// Research is the structured bundle the researcher produces and the curator
// and style recommender consume.
type Research struct {
	TitleSuggestion  string      `json:"title_suggestion"`
	KeyThemes        []string    `json:"key_themes"`
	KeyFacts         []Fact      `json:"key_facts"`
	Statistics       []Statistic `json:"statistics"`
	Quotes           []Quote     `json:"quotes"`
	Sections         []Section   `json:"sections"`
	AudienceInsights string      `json:"audience_insights"`
	NarrativeArc     string      `json:"narrative_arc"`
	RawSources       []SourceRef `json:"raw_sources"`
}

// ToMap converts the bundle to the free-form shape sessions persist.
func (r *Research) ToMap() map[string]any {
	if r == nil {
		return nil
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// ResearchFromMap rebuilds a bundle from persisted session data. Unknown
// fields are dropped; a nil or empty map yields nil.
func ResearchFromMap(m map[string]any) *Research {
	if len(m) == 0 {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	var out Research
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return &out
}

// StyleRecommendation is one ranked style suggestion.
type StyleRecommendation struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Vibe        string  `json:"vibe"`
	Category    string  `json:"category"`
	Reason      string  `json:"reason"`
	Confidence  float64 `json:"confidence"`
}

// Context carries the evolving state of one pipeline run between agents.
type Context struct {
	Topic             string
	Purpose           string
	URLs              []string
	Files             []string
	SlideCount        int
	Mood              string
	Audience          string
	StyleName         string
	PPTXTemplatePath  string
	OutputDir         string
	OutputFormats     []string
	ExtraInstructions string

	Research             *Research
	Slides               []slides.Slide
	PresentationTitle    string
	CustomPreset         *styles.Preset
	StyleRecommendations []StyleRecommendation
	EditInstruction      string
	OutputPaths          map[string]string
}

// NewContext returns a run context with fresh collections.
func NewContext(topic string) *Context {
	return &Context{
		Topic:         topic,
		Purpose:       "presentation",
		SlideCount:    10,
		OutputDir:     ".",
		OutputFormats: []string{"html"},
		OutputPaths:   map[string]string{},
	}
}

// Result is the outcome of one agent run. Success false carries Err; the
// payload fields are set by whichever agent produced the result.
type Result struct {
	Success  bool
	Err      error
	Messages []string

	Research         *Research
	Slides           []slides.Slide
	Title            string
	RecommendedStyle string
	Recommendations  []StyleRecommendation
	CustomPreset     *styles.Preset
	Summary          string
}

func failure(err error, messages ...string) *Result {
	return &Result{Success: false, Err: err, Messages: messages}
}

// Agent is one stage of the pipeline.
type Agent interface {
	Name() string
	Run(ctx context.Context, pc *Context) *Result
}
