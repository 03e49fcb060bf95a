// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfsource reads PDF pages into the page model consumed by the
// slide builder. Content streams are parsed with tabula; pdfcpu optionally
// validates the file before it is opened.
package pdfsource

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/tsawler/tabula/contentstream"
	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/graphicsstate"
	"github.com/tsawler/tabula/layout"
	"github.com/tsawler/tabula/pages"
	"github.com/tsawler/tabula/reader"
	"github.com/tsawler/tabula/text"

	"github.com/pdiddy/pdf2deck/pkg/types"
)

// Options configures how documents are opened.
type Options struct {
	// Validate runs pdfcpu's relaxed validation before the file is parsed.
	Validate bool
	Logger   *slog.Logger
}

// Document is an open PDF. Pages are read lazily, one at a time.
type Document struct {
	path   string
	r      *reader.Reader
	pages  int
	logger *slog.Logger
}

// Open opens the PDF at path. Any failure to read or parse the file is a
// *types.SourceOpenError.
func Open(path string, opts Options) (*Document, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if _, err := os.Stat(path); err != nil {
		return nil, &types.SourceOpenError{Path: path, Err: err}
	}

	if opts.Validate {
		conf := model.NewDefaultConfiguration()
		conf.ValidationMode = model.ValidationRelaxed
		if err := api.ValidateFile(path, conf); err != nil {
			return nil, &types.SourceOpenError{Path: path, Err: fmt.Errorf("validating: %w", err)}
		}
	}

	r, err := reader.Open(path)
	if err != nil {
		return nil, &types.SourceOpenError{Path: path, Err: err}
	}
	n, err := r.PageCount()
	if err != nil {
		r.Close()
		return nil, &types.SourceOpenError{Path: path, Err: fmt.Errorf("counting pages: %w", err)}
	}

	if opts.Validate {
		if want, err := api.PageCountFile(path); err == nil && want != n {
			log.Warn("Page count mismatch between parsers.", "path", path, "tabula", n, "pdfcpu", want)
		}
	}

	log.Debug("Opened PDF.", "path", path, "pages", n, "version", r.Version().String())
	return &Document{path: path, r: r, pages: n, logger: log}, nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return d.pages }

// Close releases the underlying file.
func (d *Document) Close() error {
	if d.r == nil {
		return nil
	}
	err := d.r.Close()
	d.r = nil
	return err
}

// Page reads page i (0-based). The returned page uses a top-left origin,
// y increasing downward, in PDF points.
func (d *Document) Page(i int) (types.SourcePage, error) {
	if d.r == nil {
		return types.SourcePage{}, fmt.Errorf("document %s is closed", d.path)
	}
	if i < 0 || i >= d.pages {
		return types.SourcePage{}, fmt.Errorf("page %d out of range [0, %d)", i, d.pages)
	}

	p, err := d.r.GetPage(i)
	if err != nil {
		return types.SourcePage{}, fmt.Errorf("reading page %d: %w", i+1, err)
	}

	sp := types.SourcePage{Number: i + 1}
	box, err := p.MediaBox()
	if err != nil || len(box) != 4 {
		d.logger.Warn("Page has no usable media box.", "page", i+1, "error", err)
		return sp, nil
	}
	sp.Width = abs(box[2] - box[0])
	sp.Height = abs(box[3] - box[1])
	fr := frame{originX: min(box[0], box[2]), top: max(box[1], box[3])}

	ops, err := d.operations(p)
	if err != nil {
		return types.SourcePage{}, fmt.Errorf("reading page %d content: %w", i+1, err)
	}
	if len(ops) == 0 {
		return sp, nil
	}

	sp.Blocks = d.textBlocks(p, ops, sp, fr)
	sp.Shapes = d.vectorShapes(ops, sp.Number, fr)
	return sp, nil
}

// operations decodes and parses every content stream of the page.
func (d *Document) operations(p *pages.Page) ([]contentstream.Operation, error) {
	contents, err := p.Contents()
	if err != nil {
		return nil, err
	}
	var data []byte
	for _, obj := range contents {
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		b, err := stream.Decode()
		if err != nil {
			return nil, fmt.Errorf("decoding content stream: %w", err)
		}
		data = append(data, b...)
		data = append(data, '\n')
	}
	if len(data) == 0 {
		return nil, nil
	}
	return contentstream.NewParser(data).Parse()
}

func (d *Document) textBlocks(p *pages.Page, ops []contentstream.Operation, sp types.SourcePage, fr frame) []types.TextBlock {
	ex := text.NewExtractor()
	if err := ex.RegisterFontsFromPage(p, d.r.ResolveReference); err != nil {
		d.logger.Debug("Font registration incomplete.", "page", sp.Number, "error", err)
	}
	frags, err := ex.Extract(ops)
	if err != nil {
		d.logger.Warn("Skipping page text.", "page", sp.Number, "error", err)
		return nil
	}
	if len(frags) == 0 {
		return nil
	}

	colors := fragmentColors(ops, frags)
	fonts := fontTable(ex)
	det := layout.NewBlockDetector().Detect(frags, sp.Width, sp.Height)

	blocks := make([]types.TextBlock, 0, len(det.Blocks))
	for _, b := range det.Blocks {
		tb := types.TextBlock{Box: fr.rect(b.BBox.X, b.BBox.Y, b.BBox.Width, b.BBox.Height)}
		for _, line := range b.Lines {
			if l := buildLine(line, fonts, colors); len(l.Spans) > 0 {
				tb.Lines = append(tb.Lines, l)
			}
		}
		if len(tb.Lines) > 0 {
			blocks = append(blocks, tb)
		}
	}
	return blocks
}

func (d *Document) vectorShapes(ops []contentstream.Operation, page int, fr frame) []types.VectorShape {
	ge := graphicsstate.NewGraphicsExtractor()
	if err := ge.Extract(ops); err != nil {
		d.logger.Warn("Skipping page shapes.", "page", page, "error", err)
		return nil
	}
	rects := ge.GetRectangles()
	shapes := make([]types.VectorShape, 0, len(rects))
	for _, r := range rects {
		vs := types.VectorShape{Box: fr.rect(r.BBox.X, r.BBox.Y, r.BBox.Width, r.BBox.Height)}
		if r.IsFilled {
			c := types.FloatColor(r.FillColor)
			vs.Fill = &c
		}
		if r.IsStroked {
			c := types.FloatColor(r.StrokeColor)
			vs.Stroke = &c
		}
		shapes = append(shapes, vs)
	}
	return shapes
}

// frame converts bottom-left PDF user space into top-left page space.
type frame struct {
	originX float64
	top     float64
}

func (f frame) rect(x, y, w, h float64) types.Rect {
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	x0 := x - f.originX
	y0 := f.top - (y + h)
	return types.Rect{X0: x0, Y0: y0, X1: x0 + w, Y1: y0 + h}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
