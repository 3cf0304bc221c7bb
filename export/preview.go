package export

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"

	"github.com/sweetpotato0/slidecraft/styles"
)

//go:embed templates/preview.html.tmpl
var previewTemplate string

var previewTmpl = template.Must(template.New("preview").Parse(previewTemplate))

// Preview text defaults, used when the caller passes empty strings.
const (
	DefaultPreviewTitle    = "Your Presentation Title"
	DefaultPreviewSubtitle = "A beautiful slide deck crafted just for you"
)

type previewData struct {
	PresetName  string
	Title       string
	Subtitle    string
	FontImport  template.URL
	DisplayFont string
	BodyFont    string
	ColorVars   template.CSS
	ExtraCSS    template.CSS
	Swatches    []swatch
}

type swatch struct {
	Name  string
	Value template.CSS
}

// PreviewResult describes one generated style preview file.
type PreviewResult struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Vibe        string `json:"vibe"`
	Path        string `json:"path"`
}

// WritePreview renders a single-page style preview: the preset's fonts and
// palette around sample title text, with a swatch per color.
func WritePreview(preset *styles.Preset, outputPath, title, subtitle string) (string, error) {
	if title == "" {
		title = DefaultPreviewTitle
	}
	if subtitle == "" {
		subtitle = DefaultPreviewSubtitle
	}

	names := make([]string, 0, len(preset.Colors))
	for name := range preset.Colors {
		names = append(names, name)
	}
	sort.Strings(names)
	swatches := make([]swatch, 0, len(names))
	for _, name := range names {
		swatches = append(swatches, swatch{Name: name, Value: template.CSS(preset.Colors[name])})
	}

	data := previewData{
		PresetName:  preset.DisplayName,
		Title:       title,
		Subtitle:    subtitle,
		FontImport:  template.URL(preset.FontImport),
		DisplayFont: fontFamily(preset, "display"),
		BodyFont:    fontFamily(preset, "body"),
		ColorVars:   colorVars(preset.Colors),
		ExtraCSS:    template.CSS(preset.ExtraCSS),
		Swatches:    swatches,
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("create preview dir: %w", err)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer f.Close()

	if err := previewTmpl.Execute(f, data); err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}

	abs, err := filepath.Abs(outputPath)
	if err != nil {
		return outputPath, nil
	}
	return abs, nil
}

// WriteMoodPreviews generates up to three preview files for the presets
// matching a mood, named style-a.html, style-b.html, style-c.html under
// outputDir.
func WriteMoodPreviews(mood, outputDir, title, subtitle string) ([]PreviewResult, error) {
	if outputDir == "" {
		outputDir = "."
	}

	var out []PreviewResult
	for i, name := range styles.PresetsForMood(mood) {
		if i >= 3 {
			break
		}
		preset, err := styles.LoadPreset(name)
		if err != nil {
			continue
		}
		outPath := filepath.Join(outputDir, fmt.Sprintf("style-%c.html", 'a'+i))
		path, err := WritePreview(preset, outPath, title, subtitle)
		if err != nil {
			return nil, fmt.Errorf("preview %s: %w", name, err)
		}
		out = append(out, PreviewResult{
			Name:        preset.Name,
			DisplayName: preset.DisplayName,
			Vibe:        preset.Vibe,
			Path:        path,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no presets matched mood %q", mood)
	}
	return out, nil
}
