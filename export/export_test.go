package export

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sweetpotato0/slidecraft/slides"
	"github.com/sweetpotato0/slidecraft/styles"
)

func testDeck() []slides.Slide {
	return []slides.Slide{
		{Type: "title", Title: "Tidal Power", Subtitle: "Predictable renewables"},
		{Type: "content", Title: "Why Tides", Bullets: []string{"Predictable", "Dense energy"}},
		{Type: "quote", Title: "Wisdom", Quote: "The tide waits for no one", Attribution: "Anonymous"},
		{Type: "feature_grid", Title: "Technologies", Cards: []slides.Card{
			{Title: "Stream turbines", Description: "Underwater rotors"},
			{Title: "Barrages", Description: "Dammed estuaries"},
		}},
		{Type: "code", Title: "Sizing", Code: "power = 0.5 * rho * A * v**3"},
		{Type: "closing", Title: "Catch the Tide"},
	}
}

func TestSafeName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Tidal Power", "tidal-power"},
		{"  Spaces  Around  ", "spaces--around"},
		{"Symbols!@#$%^&*()", "symbols"},
		{"MixedCASE_and-dash 9", "mixedcase_and-dash-9"},
		{"", "presentation"},
		{"日本語タイトル", "presentation"},
		{strings.Repeat("a", 80), strings.Repeat("a", 50)},
	}
	for _, tc := range cases {
		if got := SafeName(tc.in); got != tc.want {
			t.Errorf("SafeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWriteHTML(t *testing.T) {
	preset, err := styles.LoadPreset("neon_cyber")
	if err != nil {
		t.Fatalf("load preset: %v", err)
	}

	out := filepath.Join(t.TempDir(), "deck.html")
	path, err := WriteHTML("Tidal Power", testDeck(), preset, out)
	if err != nil {
		t.Fatalf("write html: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	html := string(raw)

	for _, want := range []string{
		"<title>Tidal Power</title>",
		"The tide waits for no one",
		"class=\"slide title-slide\"",
		"class=\"slide closing-slide\"",
		"--bg-primary:",
		"Stream turbines",
		"power = 0.5 * rho * A * v**3",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
	if !strings.Contains(html, preset.Colors["accent"]) {
		t.Error("preset accent color not rendered")
	}
}

func TestWriteHTMLEscapesContent(t *testing.T) {
	preset, err := styles.LoadPreset("bold_signal")
	if err != nil {
		t.Fatalf("load preset: %v", err)
	}
	deck := []slides.Slide{
		{Type: "title", Title: "<script>alert(1)</script>"},
		{Type: "closing", Title: "Bye"},
	}

	path, err := WriteHTML("x", deck, preset, filepath.Join(t.TempDir(), "x.html"))
	if err != nil {
		t.Fatalf("write html: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if strings.Contains(string(raw), "<script>alert(1)</script>") {
		t.Error("slide title not escaped")
	}
}

func TestWritePPTX(t *testing.T) {
	preset, err := styles.LoadPreset("bold_signal")
	if err != nil {
		t.Fatalf("load preset: %v", err)
	}

	out := filepath.Join(t.TempDir(), "deck.pptx")
	path, err := WritePPTX("Tidal Power", testDeck(), preset, out)
	if err != nil {
		t.Fatalf("write pptx: %v", err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer zr.Close()

	have := map[string]bool{}
	for _, f := range zr.File {
		have[f.Name] = true
	}
	for _, want := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slide6.xml",
	} {
		if !have[want] {
			t.Errorf("archive missing %s", want)
		}
	}
	if have["ppt/slides/slide7.xml"] {
		t.Error("archive has more slides than the deck")
	}
}

func TestExportAllIsolation(t *testing.T) {
	t.Setenv("SLIDE_CHROMIUM", filepath.Join(t.TempDir(), "no-such-browser"))

	dir := t.TempDir()
	results := ExportAll(context.Background(), Options{
		Title:     "Tidal Power",
		Slides:    testDeck(),
		Formats:   []string{"html", "pptx", "pdf", "docx"},
		OutputDir: dir,
	})

	if p := results["html"]; strings.HasPrefix(p, "ERROR:") {
		t.Errorf("html failed: %q", p)
	}
	if p := results["pptx"]; strings.HasPrefix(p, "ERROR:") {
		t.Errorf("pptx failed: %q", p)
	}
	if p := results["pdf"]; !strings.HasPrefix(p, "ERROR:") {
		t.Errorf("pdf = %q, want ERROR marker without a browser", p)
	}
	if _, ok := results["docx"]; ok {
		t.Error("unknown format should be skipped, not reported")
	}
}

func TestExportAllDefaultsToHTML(t *testing.T) {
	dir := t.TempDir()
	results := ExportAll(context.Background(), Options{
		Title:     "Tidal Power",
		Slides:    testDeck(),
		OutputDir: dir,
	})
	if len(results) != 1 {
		t.Fatalf("results = %v, want html only", results)
	}
	if _, err := os.Stat(results["html"]); err != nil {
		t.Errorf("html artifact missing: %v", err)
	}
}

func TestExportAllBadPresetMarksAllFormats(t *testing.T) {
	results := ExportAll(context.Background(), Options{
		Title:     "x",
		Slides:    testDeck(),
		StyleName: "no_such_preset",
		Formats:   []string{"html", "pptx"},
		OutputDir: t.TempDir(),
	})
	for format, path := range results {
		if !strings.HasPrefix(path, "ERROR:") {
			t.Errorf("%s = %q, want ERROR marker", format, path)
		}
	}
}

func TestExportAllCustomPresetWins(t *testing.T) {
	custom := &styles.Preset{
		Name: "custom",
		Colors: map[string]string{
			"bg_primary":   "#123456",
			"text_primary": "#ffffff",
			"accent":       "#abcdef",
		},
	}
	dir := t.TempDir()
	results := ExportAll(context.Background(), Options{
		Title:        "Tidal Power",
		Slides:       testDeck(),
		StyleName:    "bold_signal",
		CustomPreset: custom,
		Formats:      []string{"html"},
		OutputDir:    dir,
	})

	raw, err := os.ReadFile(results["html"])
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	if !strings.Contains(string(raw), "#123456") {
		t.Error("custom preset colors not used")
	}
}
