// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package slides

import (
	"math"

	"github.com/pdiddy/pdf2deck/internal/deck"
	"github.com/pdiddy/pdf2deck/pkg/types"
)

// Transform maps source page units onto the output canvas. The axes scale
// independently, so a page whose aspect ratio differs from the canvas is
// stretched rather than letterboxed.
type Transform struct {
	ScaleX float64 // EMU per source unit, horizontal
	ScaleY float64 // EMU per source unit, vertical
}

// NewTransform computes the scale factors for a page on the given canvas.
// A page without positive dimensions is a *types.LayoutError.
func NewTransform(page types.SourcePage, canvasW, canvasH deck.EMU) (Transform, error) {
	if page.Width <= 0 || page.Height <= 0 {
		return Transform{}, &types.LayoutError{Page: page.Number, Reason: "page has no positive size"}
	}
	return Transform{
		ScaleX: float64(canvasW) / page.Width,
		ScaleY: float64(canvasH) / page.Height,
	}, nil
}

// Rect scales a source box into canvas EMU coordinates.
func (t Transform) Rect(r types.Rect) types.Rect {
	return types.Rect{
		X0: r.X0 * t.ScaleX,
		Y0: r.Y0 * t.ScaleY,
		X1: r.X1 * t.ScaleX,
		Y1: r.Y1 * t.ScaleY,
	}
}

// Frame scales a source box into a slide frame.
func (t Transform) Frame(r types.Rect) deck.Frame {
	return frameOf(t.Rect(r))
}

// frameOf converts an already scaled box to a frame.
func frameOf(r types.Rect) deck.Frame {
	return deck.Frame{
		X: emu(r.X0),
		Y: emu(r.Y0),
		W: emu(r.X1) - emu(r.X0),
		H: emu(r.Y1) - emu(r.Y0),
	}
}

func emu(v float64) deck.EMU { return deck.EMU(math.Round(v)) }
