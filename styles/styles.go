// Package styles manages the visual preset catalog: embedded JSON presets
// defining colors, fonts, and CSS for each theme, plus mood-to-preset
// recommendation and PPTX theme extraction.
package styles

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sweetpotato0/slidecraft/errors"
)

//go:embed presets/*.json
var presetFS embed.FS

// FontConfig describes a font family and its weights.
type FontConfig struct {
	Family  string `json:"family"`
	Weights []int  `json:"weights"`
	Source  string `json:"source"`
}

// Preset holds the full configuration for a single style preset.
type Preset struct {
	Name              string                `json:"name"`
	DisplayName       string                `json:"display_name"`
	Category          string                `json:"category"`
	Vibe              string                `json:"vibe"`
	Description       string                `json:"description"`
	Fonts             map[string]FontConfig `json:"fonts"`
	Colors            map[string]string     `json:"colors"`
	SignatureElements []string              `json:"signature_elements"`
	FontImport        string                `json:"font_import"`
	ExtraCSS          string                `json:"extra_css"`
}

// DefaultPreset is used when no style is requested and recommendation fails.
const DefaultPreset = "bold_signal"

// AllPresetNames is the ordered list of all available preset names.
var AllPresetNames = []string{
	"bold_signal",
	"electric_studio",
	"creative_voltage",
	"dark_botanical",
	"notebook_tabs",
	"pastel_geometry",
	"split_pastel",
	"vintage_editorial",
	"neon_cyber",
	"terminal_green",
}

// MoodMap maps mood keywords to their recommended preset names.
var MoodMap = map[string][]string{
	"impressed":    {"bold_signal", "electric_studio", "dark_botanical"},
	"confident":    {"bold_signal", "electric_studio", "dark_botanical"},
	"excited":      {"creative_voltage", "neon_cyber", "split_pastel"},
	"energized":    {"creative_voltage", "neon_cyber", "split_pastel"},
	"calm":         {"notebook_tabs", "vintage_editorial", "pastel_geometry"},
	"focused":      {"notebook_tabs", "vintage_editorial", "pastel_geometry"},
	"inspired":     {"dark_botanical", "vintage_editorial", "pastel_geometry"},
	"moved":        {"dark_botanical", "vintage_editorial", "pastel_geometry"},
	"professional": {"bold_signal", "notebook_tabs", "electric_studio"},
	"playful":      {"creative_voltage", "split_pastel", "pastel_geometry"},
	"technical":    {"terminal_green", "neon_cyber", "electric_studio"},
	"elegant":      {"dark_botanical", "vintage_editorial", "notebook_tabs"},
}

// LoadPreset parses a single embedded preset by name.
func LoadPreset(name string) (*Preset, error) {
	data, err := presetFS.ReadFile("presets/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("preset %q: %w", name, errors.ErrNotFound)
	}
	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("invalid preset %q: %w", name, err)
	}
	return &p, nil
}

// LoadAllPresets loads every preset in AllPresetNames order.
func LoadAllPresets() ([]*Preset, error) {
	presets := make([]*Preset, 0, len(AllPresetNames))
	for _, name := range AllPresetNames {
		p, err := LoadPreset(name)
		if err != nil {
			continue
		}
		presets = append(presets, p)
	}
	if len(presets) == 0 {
		return nil, fmt.Errorf("no presets could be loaded")
	}
	return presets, nil
}

// PresetsForMood returns up to 3 preset names matching the given mood.
// Lookup is exact first, then substring in either direction, then a fixed
// cross-category default.
func PresetsForMood(mood string) []string {
	mood = strings.ToLower(strings.TrimSpace(mood))
	if names, ok := MoodMap[mood]; ok {
		return names
	}
	if mood != "" {
		for key, names := range MoodMap {
			if strings.Contains(mood, key) || strings.Contains(key, mood) {
				return names
			}
		}
	}
	return []string{"bold_signal", "notebook_tabs", "neon_cyber"}
}

// PresetSummary is a condensed view of a preset for display.
type PresetSummary struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
	Vibe        string `json:"vibe"`
	Description string `json:"description"`
}

// ListPresets returns a summary of every available preset.
func ListPresets() ([]PresetSummary, error) {
	presets, err := LoadAllPresets()
	if err != nil {
		return nil, err
	}
	out := make([]PresetSummary, 0, len(presets))
	for _, p := range presets {
		out = append(out, PresetSummary{
			Name:        p.Name,
			DisplayName: p.DisplayName,
			Category:    p.Category,
			Vibe:        p.Vibe,
			Description: p.Description,
		})
	}
	return out, nil
}
