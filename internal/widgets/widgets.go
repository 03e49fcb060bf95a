// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package widgets loads the per-page widget table that drives status card
// and progress bar synthesis. Tables are YAML files of the form:
//
//	default:
//	  status_cards:
//	    - label: Build
//	      status: Passing
//	      date: "2026-03-02"
//	      color: "#2E7D32"
//	  progress_bars:
//	    - label: Design
//	      percent: 100
//	pages:
//	  2:
//	    progress_bars:
//	      - label: Testing
//	        percent: 40
//
// A page listed under pages replaces the default for that page entirely.
package widgets

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf2deck/internal/textutil"
	"github.com/pdiddy/pdf2deck/pkg/types"
)

type cardFile struct {
	Label  string `yaml:"label"`
	Status string `yaml:"status"`
	Date   string `yaml:"date"`
	Color  string `yaml:"color"`
}

type pageFile struct {
	StatusCards  []cardFile              `yaml:"status_cards"`
	ProgressBars []types.ProgressBarSpec `yaml:"progress_bars"`
}

type tableFile struct {
	Default pageFile         `yaml:"default"`
	Pages   map[int]pageFile `yaml:"pages"`
}

// Load reads a widget table from a YAML file.
func Load(path string) (*types.WidgetTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading widget table %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("widget table %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a widget table. Card colors are "#RRGGBB"; a malformed
// color is a *types.FormatError. Page keys must be 1 or greater.
func Parse(data []byte) (*types.WidgetTable, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	def, err := f.Default.widgets()
	if err != nil {
		return nil, fmt.Errorf("default: %w", err)
	}
	t := &types.WidgetTable{Default: def}

	if len(f.Pages) > 0 {
		t.Pages = make(map[int]types.PageWidgets, len(f.Pages))
	}
	for n, pf := range f.Pages {
		if n < 1 {
			return nil, fmt.Errorf("page %d: page numbers start at 1", n)
		}
		w, err := pf.widgets()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", n, err)
		}
		t.Pages[n] = w
	}
	return t, nil
}

func (p pageFile) widgets() (types.PageWidgets, error) {
	var w types.PageWidgets
	for i, c := range p.StatusCards {
		spec := types.StatusCardSpec{Label: c.Label, Status: c.Status, Date: c.Date}
		if c.Color != "" {
			rgb, err := textutil.HexToRGB(c.Color)
			if err != nil {
				return types.PageWidgets{}, fmt.Errorf("status card %d: %w", i+1, err)
			}
			spec.Color = &rgb
		}
		w.StatusCards = append(w.StatusCards, spec)
	}
	w.ProgressBars = append(w.ProgressBars, p.ProgressBars...)
	return w, nil
}

// DefaultTable returns the built-in demonstration table: three project
// status cards and three phase progress bars on every page.
func DefaultTable() *types.WidgetTable {
	green := types.RGB{R: 46, G: 125, B: 50}
	amber := types.RGB{R: 249, G: 168, B: 37}
	red := types.RGB{R: 198, G: 40, B: 40}
	return &types.WidgetTable{
		Default: types.PageWidgets{
			StatusCards: []types.StatusCardSpec{
				{Label: "Schedule", Status: "On Track", Date: "Updated 2026-03-02", Color: &green},
				{Label: "Budget", Status: "At Risk", Date: "Updated 2026-03-02", Color: &amber},
				{Label: "Scope", Status: "Blocked", Color: &red},
			},
			ProgressBars: []types.ProgressBarSpec{
				{Label: "Design", Percent: 100},
				{Label: "Build", Percent: 65},
				{Label: "Testing", Percent: 20},
			},
		},
	}
}
