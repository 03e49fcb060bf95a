// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfsource

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tsawler/tabula/contentstream"
	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/text"

	"github.com/pdiddy/pdf2deck/internal/textutil"
	"github.com/pdiddy/pdf2deck/pkg/types"
)

// spaceGap is the horizontal gap, as a fraction of the font size, above
// which two fragments on a line are separated by a space.
const spaceGap = 0.2

type fontInfo struct {
	family string
	flags  int
}

func fontTable(ex *text.Extractor) map[string]fontInfo {
	out := make(map[string]fontInfo)
	for name, f := range ex.GetFonts() {
		if f == nil {
			continue
		}
		base := f.BaseFont
		if base == "" {
			base = f.Name
		}
		out[name] = fontInfo{family: textutil.FontFamily(base), flags: textutil.FontFlags(base)}
	}
	return out
}

// fragmentColors pairs each text fragment with the fill color active when
// it was shown. The walk mirrors the extractor's text-showing operators so
// the nth string shown is the nth fragment. Fragments are keyed by value
// because the block detector copies and reorders them; identical fragments
// shown twice resolve to the last color drawn, the one left visible.
func fragmentColors(ops []contentstream.Operation, frags []text.TextFragment) map[text.TextFragment]types.FloatColor {
	var shown []types.FloatColor
	cur := types.FloatColor{0, 0, 0}
	var stack []types.FloatColor

	for _, op := range ops {
		switch op.Operator {
		case "q":
			stack = append(stack, cur)
		case "Q":
			if n := len(stack); n > 0 {
				cur = stack[n-1]
				stack = stack[:n-1]
			}
		case "rg":
			if c, ok := floats(op.Operands, 3); ok {
				cur = types.FloatColor{c[0], c[1], c[2]}
			}
		case "g":
			if c, ok := floats(op.Operands, 1); ok {
				cur = types.FloatColor{c[0], c[0], c[0]}
			}
		case "k":
			if c, ok := floats(op.Operands, 4); ok {
				cur = cmykToRGB(c[0], c[1], c[2], c[3])
			}
		case "sc", "scn":
			switch len(op.Operands) {
			case 1:
				if c, ok := floats(op.Operands, 1); ok {
					cur = types.FloatColor{c[0], c[0], c[0]}
				}
			case 3:
				if c, ok := floats(op.Operands, 3); ok {
					cur = types.FloatColor{c[0], c[1], c[2]}
				}
			case 4:
				if c, ok := floats(op.Operands, 4); ok {
					cur = cmykToRGB(c[0], c[1], c[2], c[3])
				}
			}
		case "Tj", "'":
			if len(op.Operands) == 1 {
				if _, ok := op.Operands[0].(core.String); ok {
					shown = append(shown, cur)
				}
			}
		case "\"":
			if len(op.Operands) == 3 {
				if _, ok := op.Operands[2].(core.String); ok {
					shown = append(shown, cur)
				}
			}
		case "TJ":
			if len(op.Operands) == 1 {
				if arr, ok := op.Operands[0].(core.Array); ok {
					for _, item := range arr {
						if _, ok := item.(core.String); ok {
							shown = append(shown, cur)
						}
					}
				}
			}
		}
	}

	if len(shown) != len(frags) {
		return nil
	}
	out := make(map[text.TextFragment]types.FloatColor, len(frags))
	for i, f := range frags {
		out[f] = shown[i]
	}
	return out
}

// buildLine merges consecutive fragments that share a style into spans.
func buildLine(frags []text.TextFragment, fonts map[string]fontInfo, colors map[text.TextFragment]types.FloatColor) types.TextLine {
	var line types.TextLine
	var prev *text.TextFragment

	for i := range frags {
		f := frags[i]
		if f.Text == "" {
			continue
		}
		span := types.TextSpan{Text: f.Text, Size: f.FontSize}
		if fi, ok := fonts[f.FontName]; ok {
			span.Font = fi.family
			span.Flags = fi.flags
		}
		if c, ok := colors[f]; ok {
			span.Color = &c
		}

		gap := prev != nil && needsSpace(*prev, f)
		if n := len(line.Spans); n > 0 && sameStyle(line.Spans[n-1], span) {
			last := &line.Spans[n-1]
			if gap {
				last.Text += " "
			}
			last.Text += span.Text
		} else {
			if gap {
				span.Text = " " + span.Text
			}
			line.Spans = append(line.Spans, span)
		}
		prev = &frags[i]
	}

	if strings.TrimSpace(line.Text()) == "" {
		return types.TextLine{}
	}
	return line
}

func needsSpace(prev, next text.TextFragment) bool {
	if endsWithSpace(prev.Text) || startsWithSpace(next.Text) {
		return false
	}
	size := next.FontSize
	if size <= 0 {
		size = prev.FontSize
	}
	return next.X-(prev.X+prev.Width) > size*spaceGap
}

func sameStyle(a, b types.TextSpan) bool {
	if a.Font != b.Font || a.Size != b.Size || a.Flags != b.Flags {
		return false
	}
	switch {
	case a.Color == nil && b.Color == nil:
		return true
	case a.Color == nil || b.Color == nil:
		return false
	}
	return *a.Color == *b.Color
}

func endsWithSpace(s string) bool {
	r, n := utf8.DecodeLastRuneInString(s)
	return n > 0 && unicode.IsSpace(r)
}

func startsWithSpace(s string) bool {
	r, n := utf8.DecodeRuneInString(s)
	return n > 0 && unicode.IsSpace(r)
}

func floats(ops []core.Object, n int) ([]float64, bool) {
	if len(ops) != n {
		return nil, false
	}
	out := make([]float64, n)
	for i, o := range ops {
		switch v := o.(type) {
		case core.Int:
			out[i] = float64(v)
		case core.Real:
			out[i] = float64(v)
		default:
			return nil, false
		}
	}
	return out, true
}

func cmykToRGB(c, m, y, k float64) types.FloatColor {
	return types.FloatColor{(1 - c) * (1 - k), (1 - m) * (1 - k), (1 - y) * (1 - k)}
}
