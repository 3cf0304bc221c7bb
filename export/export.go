// Package export renders a slide deck to its output formats: a
// self-contained HTML presentation, a PPTX deck, and a PDF printed from the
// HTML artifact. Formats fail independently; a failed format records an
// ERROR marker instead of a path so one bad exporter never loses the rest.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/sweetpotato0/slidecraft/pkg/logging"
	"github.com/sweetpotato0/slidecraft/slides"
	"github.com/sweetpotato0/slidecraft/styles"
)

// Options describes one export run.
type Options struct {
	Title        string
	Slides       []slides.Slide
	StyleName    string
	CustomPreset *styles.Preset
	OutputDir    string
	Formats      []string
	PPTXTemplate string
}

// Formats understood by ExportAll.
const (
	FormatHTML = "html"
	FormatPPTX = "pptx"
	FormatPDF  = "pdf"
)

// SafeName derives a filesystem-safe base name from a presentation title:
// alphanumerics, spaces, dashes and underscores survive, spaces become
// dashes, and the result is lowercased and capped at 50 characters.
func SafeName(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	name := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "-"))
	if len(name) > 50 {
		name = name[:50]
	}
	if name == "" {
		name = "presentation"
	}
	return name
}

// ExportAll writes every requested format and returns format to path. A
// format that fails maps to "ERROR: <cause>" instead of a path. Unknown
// formats are skipped.
func ExportAll(ctx context.Context, opts Options) map[string]string {
	logger := logging.WithComponent("export")

	if len(opts.Formats) == 0 {
		opts.Formats = []string{FormatHTML}
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		out := map[string]string{}
		for _, format := range opts.Formats {
			out[strings.ToLower(strings.TrimSpace(format))] = "ERROR: " + err.Error()
		}
		return out
	}

	preset, err := resolvePreset(opts)
	if err != nil {
		out := map[string]string{}
		for _, format := range opts.Formats {
			out[strings.ToLower(strings.TrimSpace(format))] = "ERROR: " + err.Error()
		}
		return out
	}

	base := SafeName(opts.Title)
	results := map[string]string{}

	for _, format := range opts.Formats {
		format = strings.ToLower(strings.TrimSpace(format))

		var path string
		var exportErr error
		switch format {
		case FormatHTML:
			path, exportErr = WriteHTML(opts.Title, opts.Slides, preset,
				filepath.Join(opts.OutputDir, base+".html"))
		case FormatPPTX:
			path, exportErr = WritePPTX(opts.Title, opts.Slides, preset,
				filepath.Join(opts.OutputDir, base+".pptx"))
		case FormatPDF:
			htmlPath := results[FormatHTML]
			if htmlPath == "" || strings.HasPrefix(htmlPath, "ERROR:") {
				htmlPath, exportErr = WriteHTML(opts.Title, opts.Slides, preset,
					filepath.Join(opts.OutputDir, base+".html"))
			}
			if exportErr == nil {
				path, exportErr = WritePDF(ctx, htmlPath, filepath.Join(opts.OutputDir, base+".pdf"))
			}
		default:
			logger.Warn("unknown export format", "format", format)
			continue
		}

		if exportErr != nil {
			logger.Error("export failed", "format", format, "error", exportErr)
			results[format] = "ERROR: " + exportErr.Error()
			continue
		}
		logger.Info("exported", "format", format, "path", path)
		results[format] = path
	}

	return results
}

// resolvePreset prefers the custom preset, then the named style, then the
// default.
func resolvePreset(opts Options) (*styles.Preset, error) {
	if opts.CustomPreset != nil {
		return opts.CustomPreset, nil
	}
	name := opts.StyleName
	if name == "" {
		name = styles.DefaultPreset
	}
	preset, err := styles.LoadPreset(name)
	if err != nil {
		return nil, fmt.Errorf("load style preset: %w", err)
	}
	return preset, nil
}
