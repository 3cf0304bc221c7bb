// Package slides holds the slide data model shared by the curator, editor,
// and exporters, plus the validation pass that repairs model output.
package slides

// Slide types understood by the exporters.
const (
	TypeTitle       = "title"
	TypeContent     = "content"
	TypeFeatureGrid = "feature_grid"
	TypeCode        = "code"
	TypeQuote       = "quote"
	TypeImage       = "image"
	TypeClosing     = "closing"
)

// MaxBullets and MaxCards bound per-slide content density.
const (
	MaxBullets = 6
	MaxCards   = 6
)

var validTypes = map[string]bool{
	TypeTitle:       true,
	TypeContent:     true,
	TypeFeatureGrid: true,
	TypeCode:        true,
	TypeQuote:       true,
	TypeImage:       true,
	TypeClosing:     true,
}

// ValidType reports whether t is one of the supported slide types.
func ValidType(t string) bool {
	return validTypes[t]
}

// Card is one cell of a feature_grid slide.
type Card struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

// Slide is a single tagged slide record. Only Type and Title are required;
// the remaining fields are meaningful per type.
type Slide struct {
	Type         string   `json:"type"`
	Title        string   `json:"title"`
	Subtitle     string   `json:"subtitle,omitempty"`
	Bullets      []string `json:"bullets,omitempty"`
	Cards        []Card   `json:"cards,omitempty"`
	Code         string   `json:"code,omitempty"`
	Quote        string   `json:"quote,omitempty"`
	Attribution  string   `json:"attribution,omitempty"`
	ImageSrc     string   `json:"image_src,omitempty"`
	SpeakerNotes string   `json:"speaker_notes,omitempty"`
}

// Clone returns a deep copy of the slide.
func (s Slide) Clone() Slide {
	cloned := s
	if s.Bullets != nil {
		cloned.Bullets = append([]string(nil), s.Bullets...)
	}
	if s.Cards != nil {
		cloned.Cards = append([]Card(nil), s.Cards...)
	}
	return cloned
}

// CloneAll deep-copies a slide sequence.
func CloneAll(in []Slide) []Slide {
	if in == nil {
		return nil
	}
	out := make([]Slide, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

// Validate repairs a slide sequence in place and returns it:
// unknown types become "content", missing titles get a placeholder, bullets
// and cards are truncated to their bounds, and the deck is forced to open
// with a "title" slide and close with a "closing" slide.
//
// The two deck-level rules run unconditionally in that order, so a
// single-slide deck ends up typed "closing". That matches the historical
// behavior and downstream consumers rely on it; do not reorder the checks.
//
// Validate is idempotent and passes empty input through unchanged.
func Validate(in []Slide) []Slide {
	if len(in) == 0 {
		return in
	}

	for i := range in {
		s := &in[i]
		if !ValidType(s.Type) {
			s.Type = TypeContent
		}
		if s.Title == "" {
			s.Title = "Untitled Slide"
		}
		if len(s.Bullets) > MaxBullets {
			s.Bullets = s.Bullets[:MaxBullets]
		}
		if len(s.Cards) > MaxCards {
			s.Cards = s.Cards[:MaxCards]
		}
	}

	if in[0].Type != TypeTitle {
		in[0].Type = TypeTitle
	}
	if in[len(in)-1].Type != TypeClosing {
		in[len(in)-1].Type = TypeClosing
	}

	return in
}
