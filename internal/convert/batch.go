// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int
	Results   []Result
}

// Total returns the number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// OutputPath returns where src is written: beside the source when outDir
// is empty, otherwise in outDir under the source's base name.
func OutputPath(src, outDir string) string {
	if outDir == "" {
		return DefaultOutputPath(src)
	}
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return filepath.Join(outDir, base+DeckExt)
}

// OutputPaths returns the output path for each source. Sources that would
// land on the same path get a numeric suffix ("report-2.pptx") so no deck
// overwrites another.
func OutputPaths(srcs []string, outDir string) []string {
	used := make(map[string]bool, len(srcs))
	outs := make([]string, len(srcs))
	for i, src := range srcs {
		out := OutputPath(src, outDir)
		stem := strings.TrimSuffix(out, DeckExt)
		for n := 2; used[filepath.Clean(out)]; n++ {
			out = fmt.Sprintf("%s-%d%s", stem, n, DeckExt)
		}
		used[filepath.Clean(out)] = true
		outs[i] = out
	}
	return outs
}

// ConvertBatch converts each source, at most Config.Jobs at a time, and
// prints per-file status to w followed by a summary. Pages inside one file
// are always converted in order on a single goroutine. Successful results
// are returned in input order.
func (c *Converter) ConvertBatch(ctx context.Context, srcs []string, outDir string, w io.Writer) BatchResult {
	var (
		mu      sync.Mutex
		result  BatchResult
		results = make([]*Result, len(srcs))
		outs    = OutputPaths(srcs, outDir)
	)

	g := new(errgroup.Group)
	g.SetLimit(c.Config.WithDefaults().Jobs)
	for i, src := range srcs {
		g.Go(func() error {
			res, err := c.Convert(ctx, src, outs[i])
			name := filepath.Base(src)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
				return nil
			}
			result.Converted++
			results[i] = &res
			fmt.Fprintf(w, "converted: %s (%d slides)\n", name, res.Slides)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r != nil {
			result.Results = append(result.Results, *r)
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return result
}
