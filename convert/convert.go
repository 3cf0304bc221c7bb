// Package convert extracts content from existing PowerPoint decks and maps
// it onto the slide model, so a .pptx file can be regenerated as a styled
// presentation. Embedded images are copied to an assets directory next to
// the output and referenced by relative path.
package convert

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sweetpotato0/slidecraft/slides"
)

// AssetsDirName is created under the output directory for extracted images.
const AssetsDirName = "assets"

// ExtractedSlide is the raw content of one PowerPoint slide.
type ExtractedSlide struct {
	Number int        `json:"number"`
	Title  string     `json:"title"`
	// Blocks holds the paragraphs of each non-title text shape, in shape
	// order. Table rows appear as one block with cells joined by " | ".
	Blocks [][]string `json:"blocks"`
	// Images are paths relative to the output directory, e.g.
	// assets/slide1_img1.png.
	Images []string   `json:"images"`
	Notes  string     `json:"notes"`
}

func (es *ExtractedSlide) firstParagraph() string {
	for _, block := range es.Blocks {
		if len(block) > 0 {
			return block[0]
		}
	}
	return ""
}

func (es *ExtractedSlide) paragraphs(limit int) []string {
	var out []string
	for _, block := range es.Blocks {
		out = append(out, block...)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Extraction is the full content of a PowerPoint file.
type Extraction struct {
	Slides    []ExtractedSlide `json:"slides"`
	Source    string           `json:"source"`
	AssetsDir string           `json:"assets_dir"`
}

// drawingml slide markup, reduced to the pieces we read. The same shape
// works for notes slides; only the root element name differs.
type slideXML struct {
	Shapes []shapeXML `xml:"cSld>spTree>sp"`
	Pics   []picXML   `xml:"cSld>spTree>pic"`
	Tables []tableXML `xml:"cSld>spTree>graphicFrame>graphic>graphicData>tbl"`
}

type shapeXML struct {
	Ph struct {
		Type string `xml:"type,attr"`
	} `xml:"nvSpPr>nvPr>ph"`
	Paras []paraXML `xml:"txBody>p"`
}

func (s shapeXML) isTitle() bool {
	return s.Ph.Type == "title" || s.Ph.Type == "ctrTitle"
}

func (s shapeXML) paragraphs() []string {
	var out []string
	for _, p := range s.Paras {
		if text := p.text(); text != "" {
			out = append(out, text)
		}
	}
	return out
}

type paraXML struct {
	Runs []string `xml:"r>t"`
}

func (p paraXML) text() string {
	return strings.TrimSpace(strings.Join(p.Runs, ""))
}

type picXML struct {
	Blip struct {
		Embed string `xml:"embed,attr"`
	} `xml:"blipFill>blip"`
}

type tableXML struct {
	Rows []tableRowXML `xml:"tr"`
}

type tableRowXML struct {
	Cells []cellXML `xml:"tc"`
}

type cellXML struct {
	Paras []paraXML `xml:"txBody>p"`
}

type relsXML struct {
	Rels []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// Extract reads every slide of a .pptx file: titles, text paragraphs,
// tables, speaker notes, and embedded images. Images are written under
// outputDir/assets.
func Extract(pptxPath, outputDir string) (*Extraction, error) {
	r, err := zip.OpenReader(pptxPath)
	if err != nil {
		return nil, fmt.Errorf("open pptx %s: %w", pptxPath, err)
	}
	defer r.Close()

	parts := make(map[string]*zip.File, len(r.File))
	var slidePaths []string
	for _, f := range r.File {
		parts[f.Name] = f
		if slideNumber(f.Name) > 0 {
			slidePaths = append(slidePaths, f.Name)
		}
	}
	sort.Slice(slidePaths, func(i, j int) bool {
		return slideNumber(slidePaths[i]) < slideNumber(slidePaths[j])
	})
	if len(slidePaths) == 0 {
		return nil, fmt.Errorf("no slides in %s", pptxPath)
	}

	if outputDir == "" {
		outputDir = "."
	}
	assetsDir := filepath.Join(outputDir, AssetsDirName)

	ex := &Extraction{
		Source:    filepath.Base(pptxPath),
		AssetsDir: assetsDir,
	}
	for i, slidePath := range slidePaths {
		es := ExtractedSlide{Number: i + 1}

		var sld slideXML
		if err := decodePart(parts[slidePath], &sld); err != nil {
			return nil, fmt.Errorf("parse %s: %w", slidePath, err)
		}
		for _, shape := range sld.Shapes {
			paras := shape.paragraphs()
			if shape.isTitle() {
				if es.Title == "" && len(paras) > 0 {
					es.Title = paras[0]
				}
				continue
			}
			if len(paras) > 0 {
				es.Blocks = append(es.Blocks, paras)
			}
		}
		for _, tbl := range sld.Tables {
			if rows := tbl.rowText(); len(rows) > 0 {
				es.Blocks = append(es.Blocks, rows)
			}
		}

		rels := slideRels(parts, slidePath)
		for _, pic := range sld.Pics {
			target := rels[pic.Blip.Embed]
			if target == "" {
				continue
			}
			name := fmt.Sprintf("slide%d_img%d%s", es.Number, len(es.Images)+1, path.Ext(target))
			if err := saveMedia(parts, target, filepath.Join(assetsDir, name)); err != nil {
				return nil, fmt.Errorf("extract image from slide %d: %w", es.Number, err)
			}
			es.Images = append(es.Images, path.Join(AssetsDirName, name))
		}

		es.Notes = notesText(parts, rels)
		ex.Slides = append(ex.Slides, es)
	}
	return ex, nil
}

// Deck converts a .pptx file to a slide deck plus a presentation title
// taken from the first slide. First slide becomes the title slide, a short
// last slide becomes the closing, slides with pictures keep their first
// image, and everything else becomes bulleted content.
func Deck(pptxPath, outputDir string) (string, []slides.Slide, error) {
	ex, err := Extract(pptxPath, outputDir)
	if err != nil {
		return "", nil, err
	}

	deck := make([]slides.Slide, 0, len(ex.Slides))
	for i := range ex.Slides {
		es := &ex.Slides[i]
		s := slides.Slide{Title: es.Title, SpeakerNotes: es.Notes}
		switch {
		case i == 0:
			s.Type = slides.TypeTitle
			s.Subtitle = es.firstParagraph()
		case i == len(ex.Slides)-1 && len(es.Blocks) <= 1:
			s.Type = slides.TypeClosing
			s.Subtitle = es.firstParagraph()
		case len(es.Images) > 0:
			s.Type = slides.TypeImage
			s.ImageSrc = es.Images[0]
			s.Bullets = es.paragraphs(slides.MaxBullets)
		default:
			s.Type = slides.TypeContent
			s.Bullets = es.paragraphs(slides.MaxBullets)
		}
		deck = append(deck, s)
	}

	title := deck[0].Title
	if title == "" {
		title = "Presentation"
	}
	return title, deck, nil
}

// Summarize extracts a .pptx file and renders a human-readable rundown of
// its slides, for review before conversion.
func Summarize(pptxPath, outputDir string) (string, error) {
	ex, err := Extract(pptxPath, outputDir)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Extracted %d slides from %s:\n\n", len(ex.Slides), ex.Source)

	totalImages := 0
	for i := range ex.Slides {
		es := &ex.Slides[i]
		title := es.Title
		if title == "" {
			title = "(no title)"
		}
		fmt.Fprintf(&b, "Slide %d: %s\n", es.Number, title)
		fmt.Fprintf(&b, "  %d text block(s)", len(es.Blocks))
		if len(es.Images) > 0 {
			fmt.Fprintf(&b, ", %d image(s)", len(es.Images))
			totalImages += len(es.Images)
		}
		b.WriteString("\n")
		if es.Notes != "" {
			fmt.Fprintf(&b, "  Speaker notes: %s\n", firstLine(es.Notes, 80))
		}
	}
	if totalImages > 0 {
		fmt.Fprintf(&b, "\nAll images saved to %s\n", ex.AssetsDir)
	}
	return b.String(), nil
}

func (t tableXML) rowText() []string {
	var rows []string
	for _, row := range t.Rows {
		var cells []string
		for _, cell := range row.Cells {
			var texts []string
			for _, p := range cell.Paras {
				if text := p.text(); text != "" {
					texts = append(texts, text)
				}
			}
			cells = append(cells, strings.Join(texts, " "))
		}
		if row := strings.TrimSpace(strings.Join(cells, " | ")); row != "" {
			rows = append(rows, row)
		}
	}
	return rows
}

// slideNumber returns the N of ppt/slides/slideN.xml, or 0 for other parts.
func slideNumber(name string) int {
	if !strings.HasPrefix(name, "ppt/slides/slide") || !strings.HasSuffix(name, ".xml") {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slides/slide"), ".xml"))
	if err != nil {
		return 0
	}
	return n
}

// slideRels maps relationship IDs to zip part names for one slide.
func slideRels(parts map[string]*zip.File, slidePath string) map[string]string {
	relsPath := "ppt/slides/_rels/" + path.Base(slidePath) + ".rels"
	part, ok := parts[relsPath]
	if !ok {
		return nil
	}
	var rels relsXML
	if err := decodePart(part, &rels); err != nil {
		return nil
	}
	out := make(map[string]string, len(rels.Rels))
	for _, rel := range rels.Rels {
		// targets are relative to ppt/slides/
		out[rel.ID] = path.Clean(path.Join("ppt/slides", rel.Target))
	}
	return out
}

func notesText(parts map[string]*zip.File, rels map[string]string) string {
	for _, target := range rels {
		if !strings.Contains(target, "notesSlide") {
			continue
		}
		part, ok := parts[target]
		if !ok {
			return ""
		}
		var notes slideXML
		if err := decodePart(part, &notes); err != nil {
			return ""
		}
		var texts []string
		for _, shape := range notes.Shapes {
			texts = append(texts, shape.paragraphs()...)
		}
		return strings.Join(texts, "\n")
	}
	return ""
}

func saveMedia(parts map[string]*zip.File, target, destPath string) error {
	part, ok := parts[target]
	if !ok {
		return fmt.Errorf("media part %s not in archive", target)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	rc, err := part.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	dest, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer dest.Close()
	if _, err := io.Copy(dest, rc); err != nil {
		return err
	}
	return nil
}

func decodePart(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(v)
}

func firstLine(text string, limit int) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	runes := []rune(text)
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return text
}
