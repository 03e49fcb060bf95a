// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Span style flags, as reported by the source page model.
const (
	FlagSuperscript = 1 << 0
	FlagItalic      = 1 << 1
	FlagSerif       = 1 << 2
	FlagMono        = 1 << 3
	FlagBold        = 1 << 4
)

// Rect is an axis-aligned box in source page units. The origin is the
// top-left corner of the page and Y grows downward.
type Rect struct {
	X0 float64 `json:"x0" yaml:"x0"`
	Y0 float64 `json:"y0" yaml:"y0"`
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
}

// Width returns X1 - X0.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns Y1 - Y0.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// FloatColor is an RGB triple with channels nominally in [0,1]. Values are
// not validated; the source may report channels outside that range.
type FloatColor [3]float64

// RGB is an integer color. Channels are nominally 0-255 but may fall
// outside that range when a FloatColor is converted without clamping.
type RGB struct {
	R int `json:"r" yaml:"r"`
	G int `json:"g" yaml:"g"`
	B int `json:"b" yaml:"b"`
}

// Valid reports whether every channel is within 0-255.
func (c RGB) Valid() bool {
	return inByte(c.R) && inByte(c.G) && inByte(c.B)
}

func inByte(v int) bool { return v >= 0 && v <= 255 }

// TextSpan is a run of text sharing one font, size, style and color.
type TextSpan struct {
	Text  string      `json:"text" yaml:"text"`
	Font  string      `json:"font,omitempty" yaml:"font,omitempty"`
	Size  float64     `json:"size" yaml:"size"`
	Flags int         `json:"flags" yaml:"flags"`
	Color *FloatColor `json:"color,omitempty" yaml:"color,omitempty"`
}

// Bold reports whether the bold flag is set.
func (s TextSpan) Bold() bool { return s.Flags&FlagBold != 0 }

// Italic reports whether the italic flag is set.
func (s TextSpan) Italic() bool { return s.Flags&FlagItalic != 0 }

// TextLine is an ordered sequence of spans on one baseline.
type TextLine struct {
	Spans []TextSpan `json:"spans" yaml:"spans"`
}

// Text concatenates the text of every span in the line.
func (l TextLine) Text() string {
	var b strings.Builder
	for _, sp := range l.Spans {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// TextBlock is a group of lines sharing a bounding box.
type TextBlock struct {
	Box   Rect       `json:"box" yaml:"box"`
	Lines []TextLine `json:"lines" yaml:"lines"`
}

// VectorShape is a drawn primitive reduced to its bounding box.
type VectorShape struct {
	Box    Rect        `json:"box" yaml:"box"`
	Fill   *FloatColor `json:"fill,omitempty" yaml:"fill,omitempty"`
	Stroke *FloatColor `json:"stroke,omitempty" yaml:"stroke,omitempty"`
}

// SourcePage is one page of the source document as seen by the
// conversion engine. Number is 1-based.
type SourcePage struct {
	Number int           `json:"number" yaml:"number"`
	Width  float64       `json:"width" yaml:"width"`
	Height float64       `json:"height" yaml:"height"`
	Blocks []TextBlock   `json:"blocks" yaml:"blocks"`
	Shapes []VectorShape `json:"shapes" yaml:"shapes"`
}
