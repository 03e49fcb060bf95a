// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deck

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/pdiddy/pdf2deck/pkg/types"
)

// Font size bounds accepted by DrawingML, in hundredths of a point.
const (
	minFontSize = 100
	maxFontSize = 400000
)

// Save writes the presentation to path, replacing any existing file.
func (p *Presentation) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := p.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write serializes the presentation as a .pptx package.
func (p *Presentation) Write(w io.Writer) error {
	zw := zip.NewWriter(w)
	n := len(p.slides)

	parts := []struct{ name, body string }{
		{"[Content_Types].xml", contentTypesXML(n)},
		{"_rels/.rels", rootRelsXML()},
		{"docProps/core.xml", corePropsXML(p.Title, time.Now())},
		{"docProps/app.xml", appPropsXML(n)},
		{"ppt/presentation.xml", presentationXML(p.Width, p.Height, n)},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML(n)},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML()},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML()},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML()},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRelsXML()},
		{"ppt/theme/theme1.xml", themeXML()},
	}
	for _, part := range parts {
		if err := writeZipTextFile(zw, part.name, part.body); err != nil {
			zw.Close()
			return err
		}
	}
	for i, s := range p.slides {
		if err := writeZipTextFile(zw, fmt.Sprintf("ppt/slides/slide%d.xml", i+1), slideXML(s)); err != nil {
			zw.Close()
			return err
		}
		if err := writeZipTextFile(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), slideRelsXML()); err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing package: %w", err)
	}
	return nil
}

func writeZipTextFile(zw *zip.Writer, name, content string) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", name, err)
	}
	if _, err := io.WriteString(w, content); err != nil {
		return fmt.Errorf("write zip entry %s: %w", name, err)
	}
	return nil
}

func slideXML(s *Slide) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld ` + nsA + ` ` + nsR + ` ` + nsP + `>`)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(emptyGroup)
	for _, sh := range s.shapes {
		switch v := sh.(type) {
		case *TextBox:
			writeTextBox(&b, v)
		case *AutoShape:
			writeAutoShape(&b, v)
		}
	}
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)
	return b.String()
}

func writeXfrm(b *strings.Builder, f Frame) {
	w, h := f.W, f.H
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	fmt.Fprintf(b, `<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, f.X, f.Y, w, h)
}

func writeTextBox(b *strings.Builder, t *TextBox) {
	b.WriteString(`<p:sp><p:nvSpPr>`)
	fmt.Fprintf(b, `<p:cNvPr id="%d" name="TextBox %d"/>`, t.id, t.id-1)
	b.WriteString(`<p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`)
	b.WriteString(`<p:spPr>`)
	writeXfrm(b, t.frame)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`)

	wrap := "none"
	if t.WordWrap {
		wrap = "square"
	}
	anchor := t.Anchor
	if anchor == "" {
		anchor = AnchorTop
	}
	fmt.Fprintf(b, `<p:txBody><a:bodyPr wrap="%s" anchor="%s" rtlCol="0"/><a:lstStyle/>`, wrap, anchor)
	for _, p := range t.paragraphs {
		writeParagraph(b, p)
	}
	b.WriteString(`</p:txBody></p:sp>`)
}

func writeParagraph(b *strings.Builder, p *Paragraph) {
	b.WriteString(`<a:p><a:pPr`)
	if p.Align != "" {
		fmt.Fprintf(b, ` algn="%s"`, p.Align)
	}
	if p.Bullet != "" {
		b.WriteString(` marL="285750" indent="-285750"><a:buFont typeface="Arial"/>`)
		fmt.Fprintf(b, `<a:buChar char="%s"/>`, escape(p.Bullet))
	} else {
		b.WriteString(`><a:buNone/>`)
	}
	b.WriteString(`</a:pPr>`)
	for _, r := range p.runs {
		b.WriteString(`<a:r>`)
		writeRunProps(b, "a:rPr", r.Font)
		b.WriteString(`<a:t>` + escape(r.Text) + `</a:t></a:r>`)
	}
	b.WriteString(`<a:endParaRPr lang="en-US" dirty="0"/></a:p>`)
}

func writeRunProps(b *strings.Builder, tag string, f Font) {
	b.WriteString(`<` + tag + ` lang="en-US"`)
	if f.SizePt > 0 {
		fmt.Fprintf(b, ` sz="%d"`, fontSize(f.SizePt))
	}
	if f.Bold {
		b.WriteString(` b="1"`)
	}
	if f.Italic {
		b.WriteString(` i="1"`)
	}
	b.WriteString(` dirty="0">`)
	if f.Color != nil && f.Color.Valid() {
		b.WriteString(solidFill(*f.Color))
	}
	if f.Name != "" {
		fmt.Fprintf(b, `<a:latin typeface="%s"/>`, escape(f.Name))
	}
	b.WriteString(`</` + tag + `>`)
}

func fontSize(pt float64) int {
	sz := int(math.Round(pt * 100))
	switch {
	case sz < minFontSize:
		return minFontSize
	case sz > maxFontSize:
		return maxFontSize
	}
	return sz
}

func writeAutoShape(b *strings.Builder, a *AutoShape) {
	name := a.Name
	if name == "" {
		name = fmt.Sprintf("Shape %d", a.id-1)
	}
	geom := a.Geometry
	if geom == "" {
		geom = GeomRect
	}
	b.WriteString(`<p:sp><p:nvSpPr>`)
	fmt.Fprintf(b, `<p:cNvPr id="%d" name="%s"/>`, a.id, escape(name))
	b.WriteString(`<p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr>`)
	writeXfrm(b, a.frame)
	fmt.Fprintf(b, `<a:prstGeom prst="%s"><a:avLst/></a:prstGeom>`, geom)
	if a.Fill != nil && a.Fill.Valid() {
		b.WriteString(solidFill(*a.Fill))
	} else {
		b.WriteString(`<a:noFill/>`)
	}
	if a.Line != nil && a.Line.Valid() {
		b.WriteString(`<a:ln w="12700">` + solidFill(*a.Line) + `</a:ln>`)
	} else {
		b.WriteString(`<a:ln><a:noFill/></a:ln>`)
	}
	b.WriteString(`</p:spPr></p:sp>`)
}

func solidFill(c types.RGB) string {
	return fmt.Sprintf(`<a:solidFill><a:srgbClr val="%02X%02X%02X"/></a:solidFill>`, c.R, c.G, c.B)
}

func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
