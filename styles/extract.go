package styles

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"
)

// ooxml theme1.xml, drawingml namespace. Only the pieces we read.
type themeXML struct {
	ClrScheme struct {
		Dk1     themeColor `xml:"dk1"`
		Lt1     themeColor `xml:"lt1"`
		Dk2     themeColor `xml:"dk2"`
		Lt2     themeColor `xml:"lt2"`
		Accent1 themeColor `xml:"accent1"`
	} `xml:"themeElements>clrScheme"`
	FontScheme struct {
		Major themeFont `xml:"majorFont>latin"`
		Minor themeFont `xml:"minorFont>latin"`
	} `xml:"themeElements>fontScheme"`
}

type themeColor struct {
	Srgb struct {
		Val string `xml:"val,attr"`
	} `xml:"srgbClr"`
	Sys struct {
		LastClr string `xml:"lastClr,attr"`
	} `xml:"sysClr"`
}

func (c themeColor) hex() string {
	if c.Srgb.Val != "" {
		return "#" + strings.ToLower(c.Srgb.Val)
	}
	if c.Sys.LastClr != "" {
		return "#" + strings.ToLower(c.Sys.LastClr)
	}
	return ""
}

type themeFont struct {
	Typeface string `xml:"typeface,attr"`
}

// ExtractPPTXTheme builds a custom preset from the theme of a PPTX file.
// Extraction is best effort: colors or fonts the theme does not declare
// fall back to a dark default palette.
func ExtractPPTXTheme(path string) (*Preset, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open pptx %s: %w", path, err)
	}
	defer r.Close()

	colors := map[string]string{
		"bg_primary":     "#1a1a2e",
		"text_primary":   "#ffffff",
		"text_secondary": "#b0b0b0",
		"accent":         "#e94560",
	}
	displayFamily, bodyFamily := "Inter", "Inter"

	for _, f := range r.File {
		if !strings.HasPrefix(f.Name, "ppt/theme/theme") || !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		var theme themeXML
		decodeErr := xml.NewDecoder(rc).Decode(&theme)
		rc.Close()
		if decodeErr != nil {
			continue
		}
		if v := theme.ClrScheme.Dk1.hex(); v != "" {
			colors["bg_primary"] = v
		}
		if v := theme.ClrScheme.Lt1.hex(); v != "" {
			colors["text_primary"] = v
		}
		if v := theme.ClrScheme.Dk2.hex(); v != "" {
			colors["text_secondary"] = v
		}
		if v := theme.ClrScheme.Accent1.hex(); v != "" {
			colors["accent"] = v
		}
		if v := theme.FontScheme.Major.Typeface; v != "" {
			displayFamily = v
		}
		if v := theme.FontScheme.Minor.Typeface; v != "" {
			bodyFamily = v
		}
		break
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	fontImport := fmt.Sprintf(
		"https://fonts.googleapis.com/css2?family=%s:wght@400;700;900&family=%s:wght@400;500&display=swap",
		strings.ReplaceAll(displayFamily, " ", "+"),
		strings.ReplaceAll(bodyFamily, " ", "+"),
	)

	return &Preset{
		Name:        "custom_template",
		DisplayName: fmt.Sprintf("Custom (%s)", stem),
		Category:    "custom",
		Vibe:        "Matched to your PPTX template",
		Description: fmt.Sprintf("Theme extracted from %s", filepath.Base(path)),
		Fonts: map[string]FontConfig{
			"display": {Family: displayFamily, Weights: []int{700, 900}, Source: "google"},
			"body":    {Family: bodyFamily, Weights: []int{400, 500}, Source: "google"},
		},
		Colors:            colors,
		SignatureElements: []string{},
		FontImport:        fontImport,
	}, nil
}
