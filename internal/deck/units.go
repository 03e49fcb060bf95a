// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deck

import "math"

// EMU is an English Metric Unit, the DrawingML coordinate unit.
type EMU int64

const (
	EMUPerInch  = 914400
	EMUPerPoint = 12700
)

// Inches converts inches to EMU, rounding to the nearest unit.
func Inches(v float64) EMU {
	return EMU(math.Round(v * EMUPerInch))
}

// Points converts points to EMU, rounding to the nearest unit.
func Points(v float64) EMU {
	return EMU(math.Round(v * EMUPerPoint))
}

// Inches returns e in inches.
func (e EMU) Inches() float64 {
	return float64(e) / EMUPerInch
}

// Frame is the absolute position and size of a shape on a slide.
type Frame struct {
	X, Y, W, H EMU
}
