package export

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sweetpotato0/slidecraft/slides"
	"github.com/sweetpotato0/slidecraft/styles"
)

// 16:9 slide surface in EMU.
const (
	slideWidthEMU  = 12192000
	slideHeightEMU = 6858000
)

// WritePPTX renders the deck as a PowerPoint package. The output is a
// minimal but valid OOXML presentation: one master, one blank layout, a
// theme derived from the preset, and one slide per deck entry.
func WritePPTX(title string, deck []slides.Slide, preset *styles.Preset, outputPath string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	p := pptxWriter{preset: preset}

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", p.contentTypes(len(deck))},
		{"_rels/.rels", rootRels},
		{"ppt/presentation.xml", p.presentation(len(deck))},
		{"ppt/_rels/presentation.xml.rels", p.presentationRels(len(deck))},
		{"ppt/slideMasters/slideMaster1.xml", p.slideMaster()},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", masterRels},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayout},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", layoutRels},
		{"ppt/theme/theme1.xml", p.theme()},
	}
	for i, slide := range deck {
		parts = append(parts,
			struct{ name, content string }{
				fmt.Sprintf("ppt/slides/slide%d.xml", i+1), p.slide(slide),
			},
			struct{ name, content string }{
				fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), slideRels,
			},
		)
	}

	for _, part := range parts {
		zw, err := w.Create(part.name)
		if err != nil {
			return "", fmt.Errorf("create pptx part %s: %w", part.name, err)
		}
		if _, err := zw.Write([]byte(part.content)); err != nil {
			return "", fmt.Errorf("write pptx part %s: %w", part.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize pptx: %w", err)
	}

	abs, err := filepath.Abs(outputPath)
	if err != nil {
		return outputPath, nil
	}
	return abs, nil
}

type pptxWriter struct {
	preset *styles.Preset
}

// color returns the preset color as bare OOXML hex, skipping values that are
// not hex colors (gradients, rgba).
func (p *pptxWriter) color(key, fallback string) string {
	v := p.preset.Colors[key]
	if strings.HasPrefix(v, "#") && (len(v) == 7 || len(v) == 4) {
		return strings.ToUpper(strings.TrimPrefix(v, "#"))
	}
	return fallback
}

func (p *pptxWriter) font(role, fallback string) string {
	if cfg, ok := p.preset.Fonts[role]; ok && cfg.Family != "" {
		return cfg.Family
	}
	return fallback
}

func (p *pptxWriter) contentTypes(slideCount int) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

const rootRels = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/></Relationships>`

func (p *pptxWriter) presentation(slideCount int) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	b.WriteString(`<p:sldIdLst>`)
	for i := 0; i < slideCount; i++ {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+2)
	}
	b.WriteString(`</p:sldIdLst>`)
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/><p:notesSz cx="%d" cy="%d"/>`,
		slideWidthEMU, slideHeightEMU, slideHeightEMU, slideWidthEMU)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func (p *pptxWriter) presentationRels(slideCount int) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := 0; i < slideCount; i++ {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i+2, i+1)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func (p *pptxWriter) slideMaster() string {
	return xml.Header + fmt.Sprintf(`<p:sldMaster xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:bg><p:bgPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:effectLst/></p:bgPr></p:bg><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld><p:clrMap bg1="dk1" tx1="lt1" bg2="dk2" tx2="lt2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/><p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst></p:sldMaster>`,
		p.color("bg_primary", "1A1A2E"))
}

const masterRels = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/><Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/></Relationships>`

const slideLayout = xml.Header + `<p:sldLayout xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" type="blank"><p:cSld name="Blank"><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`

const layoutRels = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="../slideMasters/slideMaster1.xml"/></Relationships>`

const slideRels = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/></Relationships>`

func (p *pptxWriter) theme() string {
	return xml.Header + fmt.Sprintf(`<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="SlideCraft"><a:themeElements><a:clrScheme name="SlideCraft"><a:dk1><a:srgbClr val="%[1]s"/></a:dk1><a:lt1><a:srgbClr val="%[2]s"/></a:lt1><a:dk2><a:srgbClr val="%[3]s"/></a:dk2><a:lt2><a:srgbClr val="%[2]s"/></a:lt2><a:accent1><a:srgbClr val="%[4]s"/></a:accent1><a:accent2><a:srgbClr val="%[4]s"/></a:accent2><a:accent3><a:srgbClr val="%[4]s"/></a:accent3><a:accent4><a:srgbClr val="%[4]s"/></a:accent4><a:accent5><a:srgbClr val="%[4]s"/></a:accent5><a:accent6><a:srgbClr val="%[4]s"/></a:accent6><a:hlink><a:srgbClr val="%[4]s"/></a:hlink><a:folHlink><a:srgbClr val="%[3]s"/></a:folHlink></a:clrScheme><a:fontScheme name="SlideCraft"><a:majorFont><a:latin typeface="%[5]s"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont><a:minorFont><a:latin typeface="%[6]s"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont></a:fontScheme><a:fmtScheme name="Office"><a:fillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:fillStyleLst><a:lnStyleLst><a:ln><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln></a:lnStyleLst><a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst><a:bgFillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:bgFillStyleLst></a:fmtScheme></a:themeElements></a:theme>`,
		p.color("bg_primary", "1A1A2E"),
		p.color("text_primary", "FFFFFF"),
		p.color("text_secondary", "B0B0B0"),
		p.color("accent", "E94560"),
		p.font("display", "Inter"),
		p.font("body", "Inter"))
}

// slide renders one deck entry as a slide with a heading box and a body box.
func (p *pptxWriter) slide(s slides.Slide) string {
	heading := s.Title
	headingSize := 3200
	var bodyLines []string
	bullet := false

	switch s.Type {
	case slides.TypeTitle, slides.TypeClosing:
		headingSize = 4400
		if s.Subtitle != "" {
			bodyLines = append(bodyLines, s.Subtitle)
		}
	case slides.TypeQuote:
		heading = "“" + s.Quote + "”"
		if s.Attribution != "" {
			bodyLines = append(bodyLines, "— "+s.Attribution)
		}
	case slides.TypeCode:
		bodyLines = strings.Split(s.Code, "\n")
	case slides.TypeFeatureGrid:
		bullet = true
		for _, card := range s.Cards {
			line := card.Title
			if card.Description != "" {
				line += ": " + card.Description
			}
			bodyLines = append(bodyLines, line)
		}
	default:
		bullet = len(s.Bullets) > 0
		if bullet {
			bodyLines = s.Bullets
		} else if s.Subtitle != "" {
			bodyLines = append(bodyLines, s.Subtitle)
		}
	}

	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld>`)
	fmt.Fprintf(&b, `<p:bg><p:bgPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`,
		p.color("bg_primary", "1A1A2E"))
	b.WriteString(`<p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)

	b.WriteString(p.textBox(2, "Heading", 838200, 914400, 10515600, 1828800,
		[]string{heading}, headingSize, p.font("display", "Inter"),
		p.color("text_primary", "FFFFFF"), true, false))

	if len(bodyLines) > 0 {
		font := p.font("body", "Inter")
		color := p.color("text_secondary", "B0B0B0")
		if s.Type == slides.TypeCode {
			font = "Consolas"
		}
		b.WriteString(p.textBox(3, "Body", 838200, 2971800, 10515600, 3200400,
			bodyLines, 1800, font, color, false, bullet))
	}

	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return b.String()
}

func (p *pptxWriter) textBox(id int, name string, x, y, w, h int, lines []string, size int, font, color string, bold, bullet bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, name)
	fmt.Fprintf(&b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`, x, y, w, h)
	b.WriteString(`<p:txBody><a:bodyPr wrap="square"><a:normAutofit/></a:bodyPr><a:lstStyle/>`)

	boldAttr := ""
	if bold {
		boldAttr = ` b="1"`
	}
	for _, line := range lines {
		b.WriteString(`<a:p>`)
		if bullet {
			b.WriteString(`<a:pPr><a:buChar char="&#8226;"/></a:pPr>`)
		} else {
			b.WriteString(`<a:pPr><a:buNone/></a:pPr>`)
		}
		fmt.Fprintf(&b, `<a:r><a:rPr lang="en-US" sz="%d"%s dirty="0"><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:latin typeface="%s"/></a:rPr><a:t>%s</a:t></a:r></a:p>`,
			size, boldAttr, color, font, xmlEscape(line))
	}
	b.WriteString(`</p:txBody></p:sp>`)
	return b.String()
}

func xmlEscape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return ""
	}
	return b.String()
}
