// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package slides turns source pages into editable slides: text blocks
// become text boxes, vector shapes are classified into visual roles, and
// widget data is laid out as status cards and progress bars.
package slides

import (
	"io"
	"log/slog"

	"github.com/pdiddy/pdf2deck/internal/classify"
	"github.com/pdiddy/pdf2deck/internal/deck"
	"github.com/pdiddy/pdf2deck/internal/textutil"
	"github.com/pdiddy/pdf2deck/pkg/types"
)

// Widget grid layout.
var (
	gridCardW    = deck.Inches(4)
	gridCardH    = deck.Inches(2)
	gridMargin   = deck.Inches(0.5)
	gridTop      = deck.Inches(2)
	gridBarLeft  = deck.Inches(2)
	gridBarInset = deck.Inches(2.5)
	gridBarH     = deck.Inches(0.3)
	gridBarStep  = deck.Inches(0.5)
)

// PageReport describes what was placed on one slide.
type PageReport struct {
	Page          int
	Blocks        int
	Paragraphs    int
	Bullets       int
	Title         bool
	SkippedColors int
	Shapes        map[string]int
	StatusCards   int
	ProgressBars  int
}

// Converter builds one slide per source page. It holds no per-page state
// and may be reused across pages of one presentation.
type Converter struct {
	cfg    types.ConversionConfig
	table  *types.WidgetTable
	logger *slog.Logger
}

// NewConverter returns a page converter. A nil table draws no widgets and
// a nil logger discards log output.
func NewConverter(cfg types.ConversionConfig, table *types.WidgetTable, logger *slog.Logger) *Converter {
	return &Converter{cfg: cfg.WithDefaults(), table: table, logger: logger}
}

// ConvertPage appends a slide for page to pres. The slide is always
// appended; a *types.LayoutError is returned with a blank slide when the
// page has no usable size.
func (c *Converter) ConvertPage(pres *deck.Presentation, page types.SourcePage) (*deck.Slide, PageReport, error) {
	slide := pres.AddSlide()
	rep := PageReport{Page: page.Number}

	tr, err := NewTransform(page, pres.Width, pres.Height)
	if err != nil {
		return slide, rep, err
	}

	buckets := classify.Partition(page.Shapes, tr.Rect)
	rep.Shapes = buckets.Counts()
	if c.cfg.RenderShapes {
		c.renderShapes(slide, buckets, &rep)
	}

	st := AddTextBlocks(slide, page, tr, pres.Width, TextOptions{
		DefaultFont: c.cfg.DefaultFont,
		TitleMarker: c.cfg.TitleMarker,
		Strict:      c.cfg.Strict,
		Logger:      c.logger,
	})
	rep.Blocks = st.Blocks
	rep.Paragraphs = st.Paragraphs
	rep.Bullets = st.Bullets
	rep.Title = st.Title
	rep.SkippedColors = st.SkippedColors

	c.layoutWidgets(slide, pres.Width, c.table.ForPage(page.Number), &rep)

	logger(c.logger).Debug("Converted page.",
		"page", page.Number, "blocks", rep.Blocks, "shapes", buckets.Len(),
		"status_cards", rep.StatusCards, "progress_bars", rep.ProgressBars)
	return slide, rep, nil
}

// renderShapes draws each classified shape in its visual role.
func (c *Converter) renderShapes(slide *deck.Slide, b classify.Buckets, rep *PageReport) {
	for _, it := range b.Rectangles {
		f := frameOf(it.Box)
		s := slide.AddShape(deck.GeomRect, f)
		s.Fill = c.shapeColor(it.Shape.Fill)
		s.Line = c.shapeColor(it.Shape.Stroke)
	}
	for _, it := range b.Cards {
		f := frameOf(it.Box)
		s := slide.AddShape(deck.GeomRoundRect, f)
		s.Name = "Card"
		s.Fill = rgbPtr(White)
		s.Line = rgbPtr(LightGray)
	}
	for _, it := range b.ProgressBars {
		f := frameOf(it.Box)
		CreateProgressBar(slide, f.X, f.Y, f.W, f.H, 100, "")
		rep.ProgressBars++
	}
	for _, it := range b.StatusDots {
		f := frameOf(it.Box)
		s := slide.AddShape(deck.GeomEllipse, f)
		s.Name = "Status Dot"
		s.Fill = c.shapeColor(it.Shape.Fill)
	}
}

func (c *Converter) shapeColor(fc *types.FloatColor) *types.RGB {
	if fc == nil {
		return nil
	}
	rgb := textutil.FloatToRGB(*fc, c.cfg.Strict)
	if !rgb.Valid() {
		return nil
	}
	return &rgb
}

// layoutWidgets places status cards left to right from the grid top,
// wrapping at the canvas edge, then stacks progress bars below them.
func (c *Converter) layoutWidgets(slide *deck.Slide, canvasW deck.EMU, w types.PageWidgets, rep *PageReport) {
	left, top := gridMargin, gridTop
	bottom := gridTop - gridMargin
	for _, sc := range w.StatusCards {
		if left+gridCardW > canvasW && left > gridMargin {
			left = gridMargin
			top += gridCardH + gridMargin
		}
		CreateStatusCard(slide, left, top, gridCardW, gridCardH, sc.Label, sc.Status, sc.Date, sc.Color)
		rep.StatusCards++
		bottom = top + gridCardH
		left += gridCardW + gridMargin
	}

	barTop := bottom + gridMargin
	barW := canvasW - gridBarInset
	for i, pb := range w.ProgressBars {
		pct := pb.Percent
		if c.cfg.Strict {
			pct = ClampPercent(pct)
		}
		CreateProgressBar(slide, gridBarLeft, barTop+deck.EMU(i)*gridBarStep, barW, gridBarH, pct, pb.Label)
		rep.ProgressBars++
	}
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l
}
