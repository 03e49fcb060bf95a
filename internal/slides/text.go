// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package slides

import (
	"log/slog"
	"strings"

	"github.com/pdiddy/pdf2deck/internal/deck"
	"github.com/pdiddy/pdf2deck/internal/textutil"
	"github.com/pdiddy/pdf2deck/pkg/types"
)

// Title box placement and style.
var (
	titleTop    = deck.Inches(0.5)
	titleMargin = deck.Inches(0.5)
	titleHeight = deck.Inches(1)
)

const titleSizePt = 24

// TextOptions controls how text blocks become text boxes.
type TextOptions struct {
	DefaultFont string
	TitleMarker string
	Strict      bool
	Logger      *slog.Logger
}

// TextStats summarizes what AddTextBlocks placed on a slide.
type TextStats struct {
	Blocks        int
	Paragraphs    int
	Bullets       int
	Title         bool
	SkippedColors int
}

// FindTitleBlock returns the index of the first block with a span whose
// text contains marker, or -1. An empty marker never matches.
func FindTitleBlock(blocks []types.TextBlock, marker string) int {
	if marker == "" {
		return -1
	}
	for i, b := range blocks {
		for _, l := range b.Lines {
			for _, s := range l.Spans {
				if strings.Contains(s.Text, marker) {
					return i
				}
			}
		}
	}
	return -1
}

// AddTextBlocks places one text box per block that has lines. The title
// block, if any, is placed as a centered title instead.
func AddTextBlocks(slide *deck.Slide, page types.SourcePage, tr Transform, canvasW deck.EMU, opts TextOptions) TextStats {
	var st TextStats
	titleIdx := FindTitleBlock(page.Blocks, opts.TitleMarker)

	for i, block := range page.Blocks {
		if len(block.Lines) == 0 {
			continue
		}
		if i == titleIdx {
			AddTitle(slide, canvasW, blockText(block))
			st.Title = true
			st.Blocks++
			st.Paragraphs++
			continue
		}
		addBlock(slide, block, tr, opts, &st)
		st.Blocks++
	}
	return st
}

// AddTitle places a centered bold title across the top of the slide.
func AddTitle(slide *deck.Slide, canvasW deck.EMU, text string) *deck.TextBox {
	tb := slide.AddTextBox(deck.Frame{
		X: titleMargin,
		Y: titleTop,
		W: canvasW - 2*titleMargin,
		H: titleHeight,
	})
	tb.WordWrap = true
	tb.Anchor = deck.AnchorTop
	p := tb.Paragraphs()[0]
	p.Align = deck.AlignCenter
	r := p.AddRun(text)
	r.Font = deck.Font{SizePt: titleSizePt, Bold: true}
	return tb
}

func blockText(b types.TextBlock) string {
	lines := make([]string, 0, len(b.Lines))
	for _, l := range b.Lines {
		if t := strings.TrimSpace(l.Text()); t != "" {
			lines = append(lines, t)
		}
	}
	return textutil.NormalizeText(strings.Join(lines, " "))
}

func addBlock(slide *deck.Slide, block types.TextBlock, tr Transform, opts TextOptions, st *TextStats) {
	tb := slide.AddTextBox(tr.Frame(block.Box))
	tb.WordWrap = true
	tb.Anchor = deck.AnchorTop

	for li, line := range block.Lines {
		para := tb.Paragraphs()[0]
		if li > 0 {
			para = tb.AddParagraph()
		}
		st.Paragraphs++

		for si, span := range line.Spans {
			text := span.Text
			if si == 0 {
				if g := textutil.LeadingBullet(text); g != "" {
					para.Bullet = g
					text = textutil.CleanBulletText(text)
					st.Bullets++
				}
			}
			run := para.AddRun(textutil.NormalizeText(text))
			run.Font = spanFont(span, opts, st)
		}
	}
}

func spanFont(span types.TextSpan, opts TextOptions, st *TextStats) deck.Font {
	f := deck.Font{
		Name:   span.Font,
		SizePt: span.Size,
		Bold:   span.Bold(),
		Italic: span.Italic(),
	}
	if f.Name == "" {
		f.Name = opts.DefaultFont
	}
	if span.Color != nil {
		rgb := textutil.FloatToRGB(*span.Color, opts.Strict)
		if rgb.Valid() {
			f.Color = &rgb
		} else {
			st.SkippedColors++
			logger(opts.Logger).Warn("Span color out of range, using default.",
				"text", span.Text, "r", rgb.R, "g", rgb.G, "b", rgb.B)
		}
	}
	return f
}
