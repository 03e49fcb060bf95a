// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// StatusCardSpec describes one status card to synthesize on a slide.
// Color is the indicator dot color; nil means no dot.
type StatusCardSpec struct {
	Label  string `json:"label" yaml:"label"`
	Status string `json:"status" yaml:"status"`
	Date   string `json:"date,omitempty" yaml:"date,omitempty"`
	Color  *RGB   `json:"color,omitempty" yaml:"-"`
}

// ProgressBarSpec describes one labelled progress bar. Percent is not
// bounded; values above 100 overdraw the track.
type ProgressBarSpec struct {
	Label   string  `json:"label" yaml:"label"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// PageWidgets is the widget data for a single slide.
type PageWidgets struct {
	StatusCards  []StatusCardSpec  `json:"status_cards,omitempty" yaml:"status_cards,omitempty"`
	ProgressBars []ProgressBarSpec `json:"progress_bars,omitempty" yaml:"progress_bars,omitempty"`
}

// Empty reports whether there is nothing to draw.
func (w PageWidgets) Empty() bool {
	return len(w.StatusCards) == 0 && len(w.ProgressBars) == 0
}

// WidgetTable is caller-supplied widget data. Pages holds per-page
// overrides keyed by 1-based page number; every other page uses Default.
type WidgetTable struct {
	Default PageWidgets         `json:"default" yaml:"default"`
	Pages   map[int]PageWidgets `json:"pages,omitempty" yaml:"pages,omitempty"`
}

// ForPage returns the widgets for the given 1-based page number.
// A nil table yields no widgets.
func (t *WidgetTable) ForPage(page int) PageWidgets {
	if t == nil {
		return PageWidgets{}
	}
	if w, ok := t.Pages[page]; ok {
		return w
	}
	return t.Default
}
