package export

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sweetpotato0/slidecraft/slides"
	"github.com/sweetpotato0/slidecraft/styles"
)

//go:embed templates/base.html.tmpl
var baseTemplate string

var htmlTmpl = template.Must(template.New("base").Parse(baseTemplate))

type htmlData struct {
	Title       string
	FontImport  template.URL
	DisplayFont string
	BodyFont    string
	ColorVars   template.CSS
	ExtraCSS    template.CSS
	Slides      []slides.Slide
}

// WriteHTML renders the deck as a self-contained HTML presentation.
func WriteHTML(title string, deck []slides.Slide, preset *styles.Preset, outputPath string) (string, error) {
	data := htmlData{
		Title:       title,
		FontImport:  template.URL(preset.FontImport),
		DisplayFont: fontFamily(preset, "display"),
		BodyFont:    fontFamily(preset, "body"),
		ColorVars:   colorVars(preset.Colors),
		ExtraCSS:    template.CSS(preset.ExtraCSS),
		Slides:      deck,
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer f.Close()

	if err := htmlTmpl.Execute(f, data); err != nil {
		return "", fmt.Errorf("render presentation: %w", err)
	}

	abs, err := filepath.Abs(outputPath)
	if err != nil {
		return outputPath, nil
	}
	return abs, nil
}

func fontFamily(preset *styles.Preset, role string) string {
	if cfg, ok := preset.Fonts[role]; ok && cfg.Family != "" {
		return cfg.Family
	}
	return "Inter"
}

// colorVars turns preset colors into CSS custom properties, with keys like
// bg_primary becoming --bg-primary. Sorted for stable output.
func colorVars(colors map[string]string) template.CSS {
	keys := make([]string, 0, len(colors))
	for k := range colors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "    --%s: %s;\n", strings.ReplaceAll(k, "_", "-"), colors[k])
	}
	return template.CSS(b.String())
}
