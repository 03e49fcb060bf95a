// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives whole-document conversion: it opens a source
// document, builds one slide per page in source order and writes the deck
// to disk. A failed conversion leaves no output file behind.
package convert

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/pdf2deck/internal/deck"
	"github.com/pdiddy/pdf2deck/internal/slides"
	"github.com/pdiddy/pdf2deck/pkg/types"
)

// DeckExt is the extension given to output files.
const DeckExt = ".pptx"

// Document is an open source document. Pages are 0-indexed.
type Document interface {
	PageCount() int
	Page(i int) (types.SourcePage, error)
	Close() error
}

// Opener opens source documents. Different readers implement this
// interface; PDFOpener is the production one.
type Opener interface {
	Open(path string) (Document, error)
}

// Recorder persists conversion jobs. The history store implements it.
type Recorder interface {
	Record(job types.Job) (int64, error)
	Update(job types.Job) error
}

// Result describes a finished conversion.
type Result struct {
	Source  string
	Output  string
	Pages   int
	Slides  int
	Blank   int // pages left blank because they could not be laid out
	Reports []slides.PageReport
}

// Converter turns source documents into decks. The zero value is not
// usable; Opener must be set.
type Converter struct {
	Opener   Opener
	Config   types.ConversionConfig
	Widgets  *types.WidgetTable
	Logger   *slog.Logger
	Recorder Recorder
}

// DefaultOutputPath replaces the extension of src with .pptx.
func DefaultOutputPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + DeckExt
}

// Convert converts src into a deck at out. An empty out writes next to the
// source. The source is closed exactly once whether or not conversion
// succeeds. Errors are *types.SourceOpenError for an unreadable source and
// *types.OutputWriteError when the deck cannot be saved; cancellation of
// ctx between pages aborts with ctx's error.
func (c *Converter) Convert(ctx context.Context, src, out string) (Result, error) {
	if out == "" {
		out = DefaultOutputPath(src)
	}
	log := c.logger().With("source", src, "output", out)

	job := types.Job{SourcePath: src, OutputPath: out, Status: types.JobConverting, StartedAt: time.Now().UTC()}
	if c.Recorder != nil {
		if h, err := sourceHash(src); err == nil {
			job.SourceHash = h
		}
		id, err := c.Recorder.Record(job)
		if err != nil {
			log.Warn("Could not record job.", "error", err)
		}
		job.ID = id
	}

	start := time.Now()
	res, err := c.convert(ctx, src, out, log)

	if c.Recorder != nil && job.ID != 0 {
		job.Pages, job.Slides = res.Pages, res.Slides
		job.FinishedAt = time.Now().UTC()
		job.Status = types.JobConverted
		if err != nil {
			job.Status = types.JobFailed
			job.Error = err.Error()
		}
		if uerr := c.Recorder.Update(job); uerr != nil {
			log.Warn("Could not update job.", "id", job.ID, "error", uerr)
		}
	}

	if err != nil {
		log.Error("Conversion failed.", "error", err)
		return res, err
	}
	log.Info("Converted document.", "pages", res.Pages, "slides", res.Slides,
		"blank", res.Blank, "elapsed", time.Since(start).Round(time.Millisecond))
	return res, nil
}

func (c *Converter) convert(ctx context.Context, src, out string, log *slog.Logger) (Result, error) {
	res := Result{Source: src, Output: out}
	if c.Opener == nil {
		return res, errors.New("converter has no opener")
	}

	opened, err := c.Opener.Open(src)
	if err != nil {
		var soe *types.SourceOpenError
		if !errors.As(err, &soe) {
			err = &types.SourceOpenError{Path: src, Err: err}
		}
		return res, err
	}
	doc := &closeOnce{Document: opened}
	defer doc.Close()

	cfg := c.Config.WithDefaults()
	pres := deck.New(cfg.Canvas.WidthIn, cfg.Canvas.HeightIn)
	pres.Title = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	pc := slides.NewConverter(cfg, c.Widgets, log)

	res.Pages = doc.PageCount()
	for i := 0; i < res.Pages; i++ {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("converting %s: %w", src, err)
		}
		page, err := doc.Page(i)
		if err != nil {
			return res, &types.SourceOpenError{Path: src, Err: err}
		}
		if page.Number == 0 {
			page.Number = i + 1
		}

		_, rep, err := pc.ConvertPage(pres, page)
		if err != nil {
			var le *types.LayoutError
			if !errors.As(err, &le) {
				return res, fmt.Errorf("converting page %d: %w", i+1, err)
			}
			log.Warn("Page left blank.", "page", le.Page, "reason", le.Reason)
			res.Blank++
		}
		res.Reports = append(res.Reports, rep)
	}
	res.Slides = pres.SlideCount()

	if err := save(pres, out); err != nil {
		return res, err
	}
	if err := doc.Close(); err != nil {
		log.Warn("Closing source.", "error", err)
	}
	return res, nil
}

// save writes the deck to a temporary file beside out and renames it into
// place, so a failure never leaves a partial deck at out.
func save(pres *deck.Presentation, out string) error {
	tmp, err := os.CreateTemp(filepath.Dir(out), ".pdf2deck-*"+DeckExt)
	if err != nil {
		return &types.OutputWriteError{Path: out, Err: err}
	}
	tmpPath := tmp.Name()

	if err := pres.Write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &types.OutputWriteError{Path: out, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &types.OutputWriteError{Path: out, Err: err}
	}
	if err := os.Rename(tmpPath, out); err != nil {
		os.Remove(tmpPath)
		return &types.OutputWriteError{Path: out, Err: err}
	}
	return nil
}

// closeOnce guards a Document so that Close reaches it at most once.
type closeOnce struct {
	Document
	once sync.Once
	err  error
}

func (d *closeOnce) Close() error {
	d.once.Do(func() { d.err = d.Document.Close() })
	return d.err
}

func sourceHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (c *Converter) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}
