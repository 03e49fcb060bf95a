// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deck

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsawler/tabula/pptx"

	"github.com/pdiddy/pdf2deck/pkg/types"
)

func TestUnits(t *testing.T) {
	assert.Equal(t, EMU(914400), Inches(1))
	assert.Equal(t, EMU(14630400), Inches(16))
	assert.Equal(t, EMU(8229600), Inches(9))
	assert.Equal(t, EMU(12700), Points(1))
	assert.InDelta(t, 0.5, Inches(0.5).Inches(), 1e-9)
}

func TestSlideShapes(t *testing.T) {
	p := New(16, 9)
	s := p.AddSlide()
	tb := s.AddTextBox(Frame{X: 1, Y: 2, W: 3, H: 4})
	as := s.AddShape(GeomEllipse, Frame{W: 10, H: 10})

	assert.Equal(t, 1, p.SlideCount())
	assert.Equal(t, 0, s.Index())
	assert.Len(t, tb.Paragraphs(), 1, "new text box starts with one paragraph")
	assert.Equal(t, []*TextBox{tb}, s.TextBoxes())
	assert.Equal(t, []*AutoShape{as}, s.AutoShapes())
	assert.NotEqual(t, tb.ID(), as.ID())
	assert.Equal(t, Frame{X: 1, Y: 2, W: 3, H: 4}, tb.Frame())

	tb.Paragraphs()[0].AddRun("one")
	tb.AddParagraph().AddRun("two")
	assert.Equal(t, "one\ntwo", tb.Text())
}

func buildSample() *Presentation {
	p := New(16, 9)
	p.Title = "Sample & Co"

	s1 := p.AddSlide()
	title := s1.AddTextBox(Frame{X: Inches(0.5), Y: Inches(0.5), W: Inches(15), H: Inches(1)})
	title.WordWrap = true
	para := title.Paragraphs()[0]
	para.Align = AlignCenter
	r := para.AddRun("Quarterly <Review>")
	r.Font = Font{Name: "Calibri", SizePt: 24, Bold: true}

	s2 := p.AddSlide()
	body := s2.AddTextBox(Frame{X: 0, Y: 0, W: Inches(4), H: Inches(2)})
	body.WordWrap = true
	body.Anchor = AnchorTop
	first := body.Paragraphs()[0]
	first.Bullet = "•"
	first.AddRun("Item one").Font = Font{SizePt: 12, Italic: true, Color: &types.RGB{R: 255}}
	second := body.AddParagraph()
	second.AddRun("Plain line").Font = Font{SizePt: 11.5}
	card := s2.AddShape(GeomRoundRect, Frame{W: Inches(4), H: Inches(2)})
	card.Fill = &types.RGB{R: 255, G: 255, B: 255}
	card.Line = &types.RGB{R: 230, G: 230, B: 230}

	s3 := p.AddSlide()
	s3.AddShape(GeomRect, Frame{W: Inches(2), H: Inches(0.4)}).Fill = &types.RGB{R: 0, G: 120, B: 212}
	return p
}

func TestWriteReadBack(t *testing.T) {
	p := buildSample()
	path := filepath.Join(t.TempDir(), "out.pptx")
	require.NoError(t, p.Save(path))

	r, err := pptx.Open(path)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, 3, r.SlideCount())

	s1, err := r.Slide(0)
	require.NoError(t, err)
	require.Len(t, s1.Content, 1)
	require.Len(t, s1.Content[0].Paragraphs, 1)
	titlePara := s1.Content[0].Paragraphs[0]
	assert.Equal(t, "Quarterly <Review>", titlePara.Text)
	assert.Equal(t, "ctr", titlePara.Alignment)
	require.Len(t, titlePara.Runs, 1)
	assert.True(t, titlePara.Runs[0].Bold)
	assert.Equal(t, 2400, titlePara.Runs[0].FontSize)
	assert.False(t, titlePara.IsBullet)

	s2, err := r.Slide(1)
	require.NoError(t, err)
	require.Len(t, s2.Content, 1, "shapes without text are not reported")
	paras := s2.Content[0].Paragraphs
	require.Len(t, paras, 2)
	assert.True(t, paras[0].IsBullet)
	assert.Equal(t, "•", paras[0].BulletChar)
	assert.Equal(t, "Item one", paras[0].Text)
	assert.True(t, paras[0].Runs[0].Italic)
	assert.Equal(t, 1200, paras[0].Runs[0].FontSize)
	assert.False(t, paras[1].IsBullet)
	assert.Equal(t, 1150, paras[1].Runs[0].FontSize)
}

func TestWriteParts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, buildSample().Write(&buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	files := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		files[f.Name] = string(data)
	}

	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slide3.xml",
		"ppt/slides/_rels/slide3.xml.rels",
	} {
		assert.Contains(t, files, name)
	}

	assert.Contains(t, files["ppt/presentation.xml"], `<p:sldSz cx="14630400" cy="8229600"/>`)
	assert.Contains(t, files["docProps/core.xml"], "Sample &amp; Co")
	assert.Contains(t, files["ppt/slides/slide1.xml"], "Quarterly &lt;Review&gt;")
	assert.Contains(t, files["ppt/slides/slide2.xml"], `<a:srgbClr val="FF0000"/>`)
	assert.Contains(t, files["ppt/slides/slide2.xml"], `prst="roundRect"`)
	assert.Contains(t, files["ppt/slides/slide3.xml"], `<a:srgbClr val="0078D4"/>`)
	assert.Equal(t, 3, strings.Count(files["[Content_Types].xml"], "/ppt/slides/slide"))
}

func TestWriteSkipsInvalidColorsAndNegativeExtents(t *testing.T) {
	p := New(16, 9)
	s := p.AddSlide()
	tb := s.AddTextBox(Frame{W: -5, H: 10})
	tb.Paragraphs()[0].AddRun("x").Font = Font{Color: &types.RGB{R: 300, G: -2}}
	s.AddShape(GeomRect, Frame{W: -100, H: 10}).Fill = &types.RGB{R: 256}

	xml := slideXML(s)
	assert.NotContains(t, xml, "srgbClr")
	assert.NotContains(t, xml, `cx="-`)
	assert.Contains(t, xml, `<a:noFill/>`)
}

func TestFontSizeBounds(t *testing.T) {
	assert.Equal(t, 100, fontSize(0.2))
	assert.Equal(t, 1200, fontSize(12))
	assert.Equal(t, 400000, fontSize(5000))
}
