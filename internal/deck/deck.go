// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package deck is an in-memory slide deck model with text boxes, auto
// shapes and styled runs, and a writer that serializes it as a PowerPoint
// (.pptx) package.
package deck

import (
	"strings"

	"github.com/pdiddy/pdf2deck/pkg/types"
)

// Presentation is an ordered list of slides on a fixed-size canvas.
// It is not safe for concurrent use.
type Presentation struct {
	Width  EMU
	Height EMU
	Title  string

	slides []*Slide
}

// New returns an empty presentation with the given canvas size in inches.
func New(widthIn, heightIn float64) *Presentation {
	return &Presentation{Width: Inches(widthIn), Height: Inches(heightIn)}
}

// AddSlide appends a blank slide and returns it.
func (p *Presentation) AddSlide() *Slide {
	s := &Slide{index: len(p.slides), nextID: 2}
	p.slides = append(p.slides, s)
	return s
}

// Slides returns the slides in order.
func (p *Presentation) Slides() []*Slide { return p.slides }

// SlideCount returns the number of slides.
func (p *Presentation) SlideCount() int { return len(p.slides) }

// Shape is an element placed on a slide: a *TextBox or an *AutoShape.
type Shape interface {
	ID() int
	Frame() Frame
}

// Slide holds shapes in z-order; later shapes draw on top.
type Slide struct {
	index  int
	nextID int
	shapes []Shape
}

// Index returns the 0-based position of the slide in its presentation.
func (s *Slide) Index() int { return s.index }

// Shapes returns every shape on the slide in insertion order.
func (s *Slide) Shapes() []Shape { return s.shapes }

// TextBoxes returns the text boxes on the slide in insertion order.
func (s *Slide) TextBoxes() []*TextBox {
	var out []*TextBox
	for _, sh := range s.shapes {
		if tb, ok := sh.(*TextBox); ok {
			out = append(out, tb)
		}
	}
	return out
}

// AutoShapes returns the auto shapes on the slide in insertion order.
func (s *Slide) AutoShapes() []*AutoShape {
	var out []*AutoShape
	for _, sh := range s.shapes {
		if as, ok := sh.(*AutoShape); ok {
			out = append(out, as)
		}
	}
	return out
}

func (s *Slide) allocID() int {
	id := s.nextID
	s.nextID++
	return id
}

// AddTextBox places a text box with one empty paragraph.
func (s *Slide) AddTextBox(f Frame) *TextBox {
	tb := &TextBox{id: s.allocID(), frame: f, paragraphs: []*Paragraph{{}}}
	s.shapes = append(s.shapes, tb)
	return tb
}

// AddShape places an auto shape with no fill and no outline.
func (s *Slide) AddShape(g Geometry, f Frame) *AutoShape {
	as := &AutoShape{id: s.allocID(), frame: f, Geometry: g}
	s.shapes = append(s.shapes, as)
	return as
}

// Anchor is the vertical alignment of text inside its box.
type Anchor string

const (
	AnchorTop    Anchor = "t"
	AnchorMiddle Anchor = "ctr"
	AnchorBottom Anchor = "b"
)

// Align is the horizontal alignment of a paragraph.
type Align string

const (
	AlignLeft   Align = "l"
	AlignCenter Align = "ctr"
	AlignRight  Align = "r"
)

// TextBox is a rectangular text frame.
type TextBox struct {
	id         int
	frame      Frame
	WordWrap   bool
	Anchor     Anchor
	paragraphs []*Paragraph
}

func (t *TextBox) ID() int      { return t.id }
func (t *TextBox) Frame() Frame { return t.frame }

// Paragraphs returns the paragraphs in order. There is always at least one.
func (t *TextBox) Paragraphs() []*Paragraph { return t.paragraphs }

// AddParagraph appends an empty paragraph.
func (t *TextBox) AddParagraph() *Paragraph {
	p := &Paragraph{}
	t.paragraphs = append(t.paragraphs, p)
	return p
}

// Text joins paragraph text with newlines.
func (t *TextBox) Text() string {
	lines := make([]string, len(t.paragraphs))
	for i, p := range t.paragraphs {
		lines[i] = p.Text()
	}
	return strings.Join(lines, "\n")
}

// Paragraph is a sequence of runs. Bullet holds the bullet glyph for list
// items and is empty otherwise.
type Paragraph struct {
	Align  Align
	Bullet string
	runs   []*Run
}

// AddRun appends a run with the given text and default font.
func (p *Paragraph) AddRun(text string) *Run {
	r := &Run{Text: text}
	p.runs = append(p.runs, r)
	return r
}

// Runs returns the runs in order.
func (p *Paragraph) Runs() []*Run { return p.runs }

// Text concatenates the run text.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Run is text with a single font.
type Run struct {
	Text string
	Font Font
}

// Font styles a run. Zero values inherit from the slide master.
type Font struct {
	Name   string
	SizePt float64
	Bold   bool
	Italic bool
	Color  *types.RGB
}

// Geometry is a preset shape outline.
type Geometry string

const (
	GeomRect      Geometry = "rect"
	GeomRoundRect Geometry = "roundRect"
	GeomEllipse   Geometry = "ellipse"
)

// AutoShape is a filled or outlined preset shape. A nil Fill draws no
// fill and a nil Line draws no outline.
type AutoShape struct {
	id       int
	frame    Frame
	Name     string
	Geometry Geometry
	Fill     *types.RGB
	Line     *types.RGB
}

func (a *AutoShape) ID() int      { return a.id }
func (a *AutoShape) Frame() Frame { return a.frame }
