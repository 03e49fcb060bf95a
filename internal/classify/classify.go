// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify assigns visual roles to vector shapes from their
// bounding boxes.
package classify

import "github.com/pdiddy/pdf2deck/pkg/types"

// ShapeClass is the visual role of a vector shape.
type ShapeClass int

const (
	Rectangle ShapeClass = iota
	StatusDot
	ProgressBar
	Card
)

var classNames = [...]string{
	Rectangle:   "rectangle",
	StatusDot:   "status_dot",
	ProgressBar: "progress_bar",
	Card:        "card",
}

func (c ShapeClass) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "unknown"
	}
	return classNames[c]
}

// Thresholds in source page units.
const (
	dotMinRatio      = 0.9
	dotMaxRatio      = 1.1
	dotMaxWidth      = 20.0
	barMinAspect     = 3.0
	cardMinDimension = 100.0
)

// Classify applies the rules in order and returns the first match:
// degenerate boxes are rectangles, small near-squares are status dots,
// boxes more than three times wider than tall are progress bars, boxes
// larger than 100 on both sides are cards, and everything else is a
// rectangle.
func Classify(width, height float64) ShapeClass {
	if width == 0 || height == 0 {
		return Rectangle
	}
	ratio := width / height
	switch {
	case ratio >= dotMinRatio && ratio <= dotMaxRatio && width < dotMaxWidth:
		return StatusDot
	case width > barMinAspect*height:
		return ProgressBar
	case width > cardMinDimension && height > cardMinDimension:
		return Card
	}
	return Rectangle
}

// ClassifyBox classifies a rectangle by its width and height.
func ClassifyBox(r types.Rect) ShapeClass {
	return Classify(r.Width(), r.Height())
}

// Item is a classified shape with its box mapped onto the output canvas.
type Item struct {
	Shape types.VectorShape
	Box   types.Rect
	Class ShapeClass
}

// Buckets groups a page's shapes by class, preserving source order
// within each bucket.
type Buckets struct {
	Cards        []Item
	ProgressBars []Item
	StatusDots   []Item
	Rectangles   []Item
}

// Len returns the total number of shapes across all buckets.
func (b Buckets) Len() int {
	return len(b.Cards) + len(b.ProgressBars) + len(b.StatusDots) + len(b.Rectangles)
}

// Counts returns the bucket sizes keyed by class name.
func (b Buckets) Counts() map[string]int {
	return map[string]int{
		Card.String():        len(b.Cards),
		ProgressBar.String(): len(b.ProgressBars),
		StatusDot.String():   len(b.StatusDots),
		Rectangle.String():   len(b.Rectangles),
	}
}

// Partition classifies each shape by its source box and files it, with
// its box passed through scale, into the matching bucket. A nil scale
// keeps source coordinates.
func Partition(shapes []types.VectorShape, scale func(types.Rect) types.Rect) Buckets {
	var b Buckets
	for _, s := range shapes {
		box := s.Box
		if scale != nil {
			box = scale(box)
		}
		it := Item{Shape: s, Box: box, Class: ClassifyBox(s.Box)}
		switch it.Class {
		case Card:
			b.Cards = append(b.Cards, it)
		case ProgressBar:
			b.ProgressBars = append(b.ProgressBars, it)
		case StatusDot:
			b.StatusDots = append(b.StatusDots, it)
		default:
			b.Rectangles = append(b.Rectangles, it)
		}
	}
	return b
}
