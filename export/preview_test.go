package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sweetpotato0/slidecraft/styles"
)

func TestWritePreview(t *testing.T) {
	preset, err := styles.LoadPreset("terminal_green")
	if err != nil {
		t.Fatalf("load preset: %v", err)
	}

	outPath := filepath.Join(t.TempDir(), "preview.html")
	path, err := WritePreview(preset, outPath, "Q4 Results", "Board meeting")
	if err != nil {
		t.Fatalf("WritePreview: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read preview: %v", err)
	}
	html := string(raw)
	for _, want := range []string{
		"Q4 Results",
		"Board meeting",
		preset.DisplayName,
		"--bg-primary:",
		preset.Colors["accent"],
		"class=\"swatch\"",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("preview missing %q", want)
		}
	}
}

func TestWritePreviewDefaultsSampleText(t *testing.T) {
	preset, err := styles.LoadPreset(styles.DefaultPreset)
	if err != nil {
		t.Fatalf("load preset: %v", err)
	}

	path, err := WritePreview(preset, filepath.Join(t.TempDir(), "preview.html"), "", "")
	if err != nil {
		t.Fatalf("WritePreview: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), DefaultPreviewTitle) {
		t.Error("preview should fall back to the default sample title")
	}
}

func TestWriteMoodPreviews(t *testing.T) {
	dir := t.TempDir()

	results, err := WriteMoodPreviews("technical", dir, "", "")
	if err != nil {
		t.Fatalf("WriteMoodPreviews: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if results[0].Name != "terminal_green" {
		t.Errorf("first preview = %q, want the mood's top preset", results[0].Name)
	}
	for i, suffix := range []string{"a", "b", "c"} {
		want := filepath.Join(dir, "style-"+suffix+".html")
		if filepath.Base(results[i].Path) != filepath.Base(want) {
			t.Errorf("preview %d path = %q, want %q", i, results[i].Path, want)
		}
		if _, err := os.Stat(want); err != nil {
			t.Errorf("preview file missing: %v", err)
		}
	}
}

func TestWriteMoodPreviewsUnknownMoodFallsBack(t *testing.T) {
	results, err := WriteMoodPreviews("grumpy-on-a-monday", t.TempDir(), "", "")
	if err != nil {
		t.Fatalf("WriteMoodPreviews: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want the cross-category default trio", len(results))
	}
}
