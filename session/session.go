// Package session persists presentation pipeline state so the edit loop can
// continue across CLI invocations and MCP tool calls.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/sweetpotato0/slidecraft/slides"
	"github.com/sweetpotato0/slidecraft/styles"
)

// EditRecord is one entry in a session's edit history.
type EditRecord struct {
	Instruction string `json:"instruction"`
	Summary     string `json:"summary"`
	Timestamp   string `json:"timestamp"`
}

// Session is the persistent state of one presentation run.
type Session struct {
	ID                string         `json:"id"`
	Topic             string         `json:"topic"`
	Purpose           string         `json:"purpose"`
	ResearchData      map[string]any `json:"research_data"`
	Slides            []slides.Slide `json:"slides"`
	PresentationTitle string         `json:"presentation_title"`
	StyleName         string         `json:"style_name"`
	CustomPreset      *styles.Preset `json:"custom_preset,omitempty"`
	OutputPaths       map[string]string `json:"output_paths"`
	EditHistory       []EditRecord   `json:"edit_history"`
	CreatedAt         string         `json:"created_at"`
	UpdatedAt         string         `json:"updated_at"`

	URLs          []string `json:"urls"`
	Files         []string `json:"files"`
	Mood          string   `json:"mood"`
	Audience      string   `json:"audience"`
	SlideCount    int      `json:"slide_count"`
	OutputFormats []string `json:"output_formats"`
}

// New returns a session for the given topic with a fresh 12-hex-digit ID
// and both timestamps set to now.
func New(topic string) *Session {
	now := time.Now().Format(time.RFC3339)
	return &Session{
		ID:            NewID(),
		Topic:         topic,
		Purpose:       "presentation",
		ResearchData:  map[string]any{},
		OutputPaths:   map[string]string{},
		SlideCount:    10,
		OutputFormats: []string{"html"},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NewID returns a 12-character lowercase hex session ID.
func NewID() string {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// AddEdit records an edit instruction and its outcome, bumping UpdatedAt.
func (s *Session) AddEdit(instruction, summary string) {
	now := time.Now().Format(time.RFC3339)
	s.EditHistory = append(s.EditHistory, EditRecord{
		Instruction: instruction,
		Summary:     summary,
		Timestamp:   now,
	})
	s.UpdatedAt = now
}

// Touch bumps UpdatedAt to now.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now().Format(time.RFC3339)
}
