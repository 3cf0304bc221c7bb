package styles

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const themeFixture = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Office">
  <a:themeElements>
    <a:clrScheme name="Office">
      <a:dk1><a:srgbClr val="101820"/></a:dk1>
      <a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>
      <a:dk2><a:srgbClr val="44546A"/></a:dk2>
      <a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>
      <a:accent1><a:srgbClr val="4472C4"/></a:accent1>
    </a:clrScheme>
    <a:fontScheme name="Office">
      <a:majorFont><a:latin typeface="Montserrat"/></a:majorFont>
      <a:minorFont><a:latin typeface="Open Sans"/></a:minorFont>
    </a:fontScheme>
  </a:themeElements>
</a:theme>`

func writePPTX(t *testing.T, withTheme bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.pptx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	if withTheme {
		w, err := zw.Create("ppt/theme/theme1.xml")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(themeFixture)); err != nil {
			t.Fatal(err)
		}
	} else {
		w, err := zw.Create("ppt/presentation.xml")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte("<p/>")); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractPPTXTheme(t *testing.T) {
	p, err := ExtractPPTXTheme(writePPTX(t, true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Colors["bg_primary"] != "#101820" {
		t.Errorf("bg_primary = %q", p.Colors["bg_primary"])
	}
	if p.Colors["text_primary"] != "#ffffff" {
		t.Errorf("text_primary = %q", p.Colors["text_primary"])
	}
	if p.Colors["text_secondary"] != "#44546a" {
		t.Errorf("text_secondary = %q", p.Colors["text_secondary"])
	}
	if p.Colors["accent"] != "#4472c4" {
		t.Errorf("accent = %q", p.Colors["accent"])
	}
	if p.Fonts["display"].Family != "Montserrat" {
		t.Errorf("display font = %q", p.Fonts["display"].Family)
	}
	if p.Fonts["body"].Family != "Open Sans" {
		t.Errorf("body font = %q", p.Fonts["body"].Family)
	}
	if p.Category != "custom" || p.Name != "custom_template" {
		t.Errorf("unexpected identity: %q/%q", p.Name, p.Category)
	}
	if want := "family=Montserrat"; !strings.Contains(p.FontImport, want) {
		t.Errorf("font import %q missing %q", p.FontImport, want)
	}
	if want := "family=Open+Sans"; !strings.Contains(p.FontImport, want) {
		t.Errorf("font import %q missing %q", p.FontImport, want)
	}
}

func TestExtractPPTXThemeNoTheme(t *testing.T) {
	p, err := ExtractPPTXTheme(writePPTX(t, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Colors["bg_primary"] != "#1a1a2e" {
		t.Errorf("expected default palette, got %q", p.Colors["bg_primary"])
	}
	if p.Fonts["display"].Family != "Inter" {
		t.Errorf("expected default fonts, got %q", p.Fonts["display"].Family)
	}
}

func TestExtractPPTXThemeMissingFile(t *testing.T) {
	if _, err := ExtractPPTXTheme(filepath.Join(t.TempDir(), "nope.pptx")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
