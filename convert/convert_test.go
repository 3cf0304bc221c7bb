package convert

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sweetpotato0/slidecraft/slides"
)

const (
	testSlide1 = `<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
<p:cSld><p:spTree>
<p:sp><p:nvSpPr><p:nvPr><p:ph type="ctrTitle"/></p:nvPr></p:nvSpPr>
<p:txBody><a:p><a:r><a:t>Quarterly Review</a:t></a:r></a:p></p:txBody></p:sp>
<p:sp><p:nvSpPr><p:nvPr><p:ph type="subTitle"/></p:nvPr></p:nvSpPr>
<p:txBody><a:p><a:r><a:t>FY25 </a:t></a:r><a:r><a:t>results</a:t></a:r></a:p></p:txBody></p:sp>
</p:spTree></p:cSld></p:sld>`

	testSlide2 = `<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<p:cSld><p:spTree>
<p:sp><p:nvSpPr><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>
<p:txBody><a:p><a:r><a:t>Highlights</a:t></a:r></a:p></p:txBody></p:sp>
<p:sp><p:nvSpPr><p:nvPr/></p:nvSpPr>
<p:txBody><a:p><a:r><a:t>Revenue up 14%</a:t></a:r></a:p><a:p><a:r><a:t>Churn down</a:t></a:r></a:p><a:p><a:r><a:t>Two new regions</a:t></a:r></a:p></p:txBody></p:sp>
<p:pic><p:blipFill><a:blip r:embed="rId5"/></p:blipFill></p:pic>
</p:spTree></p:cSld></p:sld>`

	testSlide3 = `<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
<p:cSld><p:spTree>
<p:sp><p:nvSpPr><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>
<p:txBody><a:p><a:r><a:t>Numbers</a:t></a:r></a:p></p:txBody></p:sp>
<p:graphicFrame><a:graphic><a:graphicData><a:tbl>
<a:tr><a:tc><a:txBody><a:p><a:r><a:t>Region</a:t></a:r></a:p></a:txBody></a:tc><a:tc><a:txBody><a:p><a:r><a:t>Revenue</a:t></a:r></a:p></a:txBody></a:tc></a:tr>
<a:tr><a:tc><a:txBody><a:p><a:r><a:t>EMEA</a:t></a:r></a:p></a:txBody></a:tc><a:tc><a:txBody><a:p><a:r><a:t>4.2M</a:t></a:r></a:p></a:txBody></a:tc></a:tr>
</a:tbl></a:graphicData></a:graphic></p:graphicFrame>
</p:spTree></p:cSld></p:sld>`

	testSlide4 = `<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
<p:cSld><p:spTree>
<p:sp><p:nvSpPr><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>
<p:txBody><a:p><a:r><a:t>Thank You</a:t></a:r></a:p></p:txBody></p:sp>
<p:sp><p:nvSpPr><p:nvPr/></p:nvSpPr>
<p:txBody><a:p><a:r><a:t>Questions welcome</a:t></a:r></a:p></p:txBody></p:sp>
</p:spTree></p:cSld></p:sld>`

	testSlide1Rels = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId2" Type="notesSlide" Target="../notesSlides/notesSlide1.xml"/>
</Relationships>`

	testSlide2Rels = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId5" Type="image" Target="../media/image1.png"/>
</Relationships>`

	testNotes1 = `<p:notes xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
<p:cSld><p:spTree>
<p:sp><p:nvSpPr><p:nvPr><p:ph type="body"/></p:nvPr></p:nvSpPr>
<p:txBody><a:p><a:r><a:t>Welcome everyone</a:t></a:r></a:p></p:txBody></p:sp>
</p:spTree></p:cSld></p:notes>`
)

func writeTestPPTX(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "review.pptx")
	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(out)
	// slides written out of order to exercise numeric ordering
	entries := []struct{ name, body string }{
		{"ppt/slides/slide3.xml", testSlide3},
		{"ppt/slides/slide1.xml", testSlide1},
		{"ppt/slides/slide4.xml", testSlide4},
		{"ppt/slides/slide2.xml", testSlide2},
		{"ppt/slides/_rels/slide1.xml.rels", testSlide1Rels},
		{"ppt/slides/_rels/slide2.xml.rels", testSlide2Rels},
		{"ppt/notesSlides/notesSlide1.xml", testNotes1},
		{"ppt/media/image1.png", "\x89PNG-not-really"},
	}
	for _, entry := range entries {
		w, err := zw.Create(entry.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(entry.body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtract(t *testing.T) {
	pptx := writeTestPPTX(t)
	outDir := t.TempDir()

	ex, err := Extract(pptx, outDir)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(ex.Slides) != 4 {
		t.Fatalf("slides = %d, want 4", len(ex.Slides))
	}
	if ex.Source != "review.pptx" {
		t.Errorf("source = %q", ex.Source)
	}

	first := ex.Slides[0]
	if first.Title != "Quarterly Review" {
		t.Errorf("slide 1 title = %q", first.Title)
	}
	if len(first.Blocks) != 1 || first.Blocks[0][0] != "FY25 results" {
		t.Errorf("slide 1 blocks = %#v, want joined runs", first.Blocks)
	}
	if first.Notes != "Welcome everyone" {
		t.Errorf("slide 1 notes = %q", first.Notes)
	}

	second := ex.Slides[1]
	if second.Title != "Highlights" {
		t.Errorf("slide 2 title = %q", second.Title)
	}
	if got := second.paragraphs(10); len(got) != 3 || got[0] != "Revenue up 14%" {
		t.Errorf("slide 2 paragraphs = %v", got)
	}
	if len(second.Images) != 1 || second.Images[0] != "assets/slide2_img1.png" {
		t.Fatalf("slide 2 images = %v", second.Images)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "assets", "slide2_img1.png"))
	if err != nil {
		t.Fatalf("extracted image missing: %v", err)
	}
	if string(data) != "\x89PNG-not-really" {
		t.Error("extracted image bytes do not match the embedded media")
	}

	third := ex.Slides[2]
	if len(third.Blocks) != 1 || third.Blocks[0][0] != "Region | Revenue" {
		t.Errorf("slide 3 table block = %#v", third.Blocks)
	}
	if third.Blocks[0][1] != "EMEA | 4.2M" {
		t.Errorf("slide 3 table row = %q", third.Blocks[0][1])
	}
}

func TestDeckMapping(t *testing.T) {
	pptx := writeTestPPTX(t)

	title, deck, err := Deck(pptx, t.TempDir())
	if err != nil {
		t.Fatalf("Deck: %v", err)
	}
	if title != "Quarterly Review" {
		t.Errorf("title = %q", title)
	}
	if len(deck) != 4 {
		t.Fatalf("deck = %d slides, want 4", len(deck))
	}

	if deck[0].Type != slides.TypeTitle || deck[0].Subtitle != "FY25 results" {
		t.Errorf("first slide = %+v, want title slide with subtitle", deck[0])
	}
	if deck[0].SpeakerNotes != "Welcome everyone" {
		t.Errorf("speaker notes = %q", deck[0].SpeakerNotes)
	}
	if deck[1].Type != slides.TypeImage || deck[1].ImageSrc != "assets/slide2_img1.png" {
		t.Errorf("second slide = %+v, want image slide", deck[1])
	}
	if len(deck[1].Bullets) != 3 {
		t.Errorf("second slide bullets = %v", deck[1].Bullets)
	}
	if deck[2].Type != slides.TypeContent {
		t.Errorf("third slide type = %q, want content", deck[2].Type)
	}
	if deck[3].Type != slides.TypeClosing || deck[3].Subtitle != "Questions welcome" {
		t.Errorf("last slide = %+v, want closing with subtitle", deck[3])
	}
}

func TestSummarize(t *testing.T) {
	pptx := writeTestPPTX(t)
	outDir := t.TempDir()

	summary, err := Summarize(pptx, outDir)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	for _, want := range []string{
		"Extracted 4 slides from review.pptx",
		"Slide 1: Quarterly Review",
		"1 image(s)",
		"Speaker notes: Welcome everyone",
		filepath.Join(outDir, "assets"),
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestExtractRejectsEmptyArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pptx")
	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(out)
	w, _ := zw.Create("docProps/app.xml")
	w.Write([]byte("<Properties/>"))
	zw.Close()
	out.Close()

	if _, err := Extract(path, t.TempDir()); err == nil {
		t.Fatal("expected error for archive with no slides")
	}
}

func TestExtractMissingFile(t *testing.T) {
	if _, err := Extract(filepath.Join(t.TempDir(), "nope.pptx"), t.TempDir()); err == nil {
		t.Fatal("expected error for missing file")
	}
}
