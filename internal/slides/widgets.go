// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package slides

import (
	"github.com/pdiddy/pdf2deck/internal/deck"
	"github.com/pdiddy/pdf2deck/pkg/types"
)

// Widget palette.
var (
	White        = types.RGB{R: 255, G: 255, B: 255}
	LightGray    = types.RGB{R: 230, G: 230, B: 230}
	MidGray      = types.RGB{R: 128, G: 128, B: 128}
	ProgressBlue = types.RGB{R: 0, G: 120, B: 212}
)

// Status card geometry, relative to the card's top-left corner.
var (
	cardInset      = deck.Inches(0.2)
	cardTitleH     = deck.Inches(0.4)
	dotSize        = deck.Inches(0.15)
	dotFromRight   = deck.Inches(0.35)
	dotFromTop     = deck.Inches(0.25)
	statusOffset   = deck.Inches(0.8)
	statusH        = deck.Inches(0.4)
	dateOffset     = deck.Inches(1.3)
	dateH          = deck.Inches(0.3)
	barLabelOffset = deck.Inches(1.2)
	barLabelRaise  = deck.Inches(0.05)
	barLabelW      = deck.Inches(1.1)
	barLabelH      = deck.Inches(0.3)
)

const (
	cardTitlePt  = 16
	cardStatusPt = 12
	cardDatePt   = 10
	barLabelPt   = 10
)

// CreateStatusCard draws a rounded white card with a bold title, an
// optional colored indicator dot near the top-right corner, a status line
// and an optional gray date line.
func CreateStatusCard(slide *deck.Slide, left, top, width, height deck.EMU, title, status, date string, color *types.RGB) {
	card := slide.AddShape(deck.GeomRoundRect, deck.Frame{X: left, Y: top, W: width, H: height})
	card.Name = "Status Card"
	card.Fill = rgbPtr(White)
	card.Line = rgbPtr(LightGray)

	innerW := width - 2*cardInset

	addLabel(slide, deck.Frame{X: left + cardInset, Y: top + cardInset, W: innerW, H: cardTitleH},
		title, deck.Font{SizePt: cardTitlePt, Bold: true})

	if color != nil {
		dot := slide.AddShape(deck.GeomEllipse, deck.Frame{
			X: left + width - dotFromRight,
			Y: top + dotFromTop,
			W: dotSize,
			H: dotSize,
		})
		dot.Name = "Status Dot"
		c := *color
		dot.Fill = &c
	}

	addLabel(slide, deck.Frame{X: left + cardInset, Y: top + statusOffset, W: innerW, H: statusH},
		status, deck.Font{SizePt: cardStatusPt})

	if date != "" {
		addLabel(slide, deck.Frame{X: left + cardInset, Y: top + dateOffset, W: innerW, H: dateH},
			date, deck.Font{SizePt: cardDatePt, Color: rgbPtr(MidGray)})
	}
}

// CreateProgressBar draws a gray track, a blue fill covering percent of
// the track when percent is positive, and a label to the left of the bar.
// Percent is not clamped; values over 100 draw past the track. An empty
// label draws no label box.
func CreateProgressBar(slide *deck.Slide, left, top, width, height deck.EMU, percent float64, label string) {
	track := slide.AddShape(deck.GeomRect, deck.Frame{X: left, Y: top, W: width, H: height})
	track.Name = "Progress Track"
	track.Fill = rgbPtr(LightGray)

	if percent > 0 {
		fill := slide.AddShape(deck.GeomRect, deck.Frame{
			X: left,
			Y: top,
			W: deck.EMU(float64(width) * percent / 100),
			H: height,
		})
		fill.Name = "Progress Fill"
		fill.Fill = rgbPtr(ProgressBlue)
	}

	if label != "" {
		addLabel(slide, deck.Frame{X: left - barLabelOffset, Y: top - barLabelRaise, W: barLabelW, H: barLabelH},
			label, deck.Font{SizePt: barLabelPt})
	}
}

// ClampPercent limits p to 0-100.
func ClampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

func addLabel(slide *deck.Slide, f deck.Frame, text string, font deck.Font) *deck.TextBox {
	tb := slide.AddTextBox(f)
	tb.WordWrap = true
	tb.Anchor = deck.AnchorTop
	tb.Paragraphs()[0].AddRun(text).Font = font
	return tb
}

func rgbPtr(c types.RGB) *types.RGB { return &c }
