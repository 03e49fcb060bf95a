// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/pdf2deck/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		w, h float64
		want ShapeClass
	}{
		{name: "small near-square", w: 18, h: 19, want: StatusDot},
		{name: "wide bar", w: 300, h: 50, want: ProgressBar},
		{name: "large square", w: 150, h: 150, want: Card},
		{name: "medium square", w: 50, h: 50, want: Rectangle},
		{name: "zero width", w: 0, h: 40, want: Rectangle},
		{name: "zero height", w: 40, h: 0, want: Rectangle},
		{name: "ratio exactly 0.9", w: 9, h: 10, want: StatusDot},
		{name: "ratio exactly 1.1", w: 11, h: 10, want: StatusDot},
		{name: "ratio just below 0.9", w: 8.9, h: 10, want: Rectangle},
		{name: "ratio just above 1.1", w: 11.1, h: 10, want: Rectangle},
		{name: "square at width 20 is not a dot", w: 20, h: 20, want: Rectangle},
		{name: "width exactly three times height", w: 30, h: 10, want: Rectangle},
		{name: "just over three times height", w: 30.1, h: 10, want: ProgressBar},
		{name: "wide and large prefers bar", w: 400, h: 120, want: ProgressBar},
		{name: "card needs both sides over 100", w: 100, h: 150, want: Rectangle},
		{name: "tall strip", w: 10, h: 300, want: Rectangle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.w, tt.h))
		})
	}
}

func TestShapeClassString(t *testing.T) {
	assert.Equal(t, "status_dot", StatusDot.String())
	assert.Equal(t, "progress_bar", ProgressBar.String())
	assert.Equal(t, "card", Card.String())
	assert.Equal(t, "rectangle", Rectangle.String())
	assert.Equal(t, "unknown", ShapeClass(42).String())
}

func TestPartition(t *testing.T) {
	shapes := []types.VectorShape{
		{Box: types.Rect{X0: 0, Y0: 0, X1: 300, Y1: 50}},
		{Box: types.Rect{X0: 10, Y0: 10, X1: 28, Y1: 29}},
		{Box: types.Rect{X0: 0, Y0: 100, X1: 150, Y1: 250}},
		{Box: types.Rect{X0: 0, Y0: 0, X1: 50, Y1: 50}},
		{Box: types.Rect{X0: 0, Y0: 300, X1: 400, Y1: 320}},
	}
	double := func(r types.Rect) types.Rect {
		return types.Rect{X0: r.X0 * 2, Y0: r.Y0 * 2, X1: r.X1 * 2, Y1: r.Y1 * 2}
	}

	b := Partition(shapes, double)

	assert.Equal(t, 5, b.Len())
	assert.Len(t, b.ProgressBars, 2)
	assert.Len(t, b.StatusDots, 1)
	assert.Len(t, b.Cards, 1)
	assert.Len(t, b.Rectangles, 1)
	assert.Equal(t, types.Rect{X0: 0, Y0: 0, X1: 600, Y1: 100}, b.ProgressBars[0].Box)
	assert.Equal(t, shapes[4], b.ProgressBars[1].Shape)
	assert.Equal(t, map[string]int{"card": 1, "progress_bar": 2, "status_dot": 1, "rectangle": 1}, b.Counts())
}

func TestPartitionNilScale(t *testing.T) {
	shapes := []types.VectorShape{{Box: types.Rect{X0: 5, Y0: 5, X1: 200, Y1: 205}}}
	b := Partition(shapes, nil)
	assert.Len(t, b.Cards, 1)
	assert.Equal(t, shapes[0].Box, b.Cards[0].Box)
}
