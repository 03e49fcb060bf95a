// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsawler/tabula/pptx"

	"github.com/pdiddy/pdf2deck/pkg/types"
)

// fakeDoc implements Document over canned pages and counts Close calls.
type fakeDoc struct {
	pages  []types.SourcePage
	failAt int
	closes int
}

func (d *fakeDoc) PageCount() int { return len(d.pages) }

func (d *fakeDoc) Page(i int) (types.SourcePage, error) {
	if i == d.failAt {
		return types.SourcePage{}, errors.New("corrupt page")
	}
	return d.pages[i], nil
}

func (d *fakeDoc) Close() error {
	d.closes++
	return nil
}

// fakeOpener hands out a fresh fakeDoc per path and remembers them.
type fakeOpener struct {
	mu     sync.Mutex
	pages  map[string][]types.SourcePage
	failAt map[string]int
	errs   map[string]error
	opened map[string]*fakeDoc
}

func newFakeOpener() *fakeOpener {
	return &fakeOpener{
		pages:  map[string][]types.SourcePage{},
		failAt: map[string]int{},
		errs:   map[string]error{},
		opened: map[string]*fakeDoc{},
	}
}

func (o *fakeOpener) Open(path string) (Document, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err, ok := o.errs[path]; ok {
		return nil, err
	}
	fail, ok := o.failAt[path]
	if !ok {
		fail = -1
	}
	d := &fakeDoc{pages: o.pages[path], failAt: fail}
	o.opened[path] = d
	return d, nil
}

// fakeRecorder captures jobs in memory.
type fakeRecorder struct {
	recorded []types.Job
	updated  []types.Job
}

func (r *fakeRecorder) Record(job types.Job) (int64, error) {
	r.recorded = append(r.recorded, job)
	return int64(len(r.recorded)), nil
}

func (r *fakeRecorder) Update(job types.Job) error {
	r.updated = append(r.updated, job)
	return nil
}

func span(text string) types.TextSpan {
	return types.TextSpan{Text: text, Font: "Helvetica", Size: 12}
}

func block(y float64, texts ...string) types.TextBlock {
	b := types.TextBlock{Box: types.Rect{X0: 72, Y0: y, X1: 400, Y1: y + 20}}
	for _, t := range texts {
		b.Lines = append(b.Lines, types.TextLine{Spans: []types.TextSpan{span(t)}})
	}
	return b
}

// threePages is a title page, a bulleted page and a page holding a single
// wide rectangle.
func threePages() []types.SourcePage {
	return []types.SourcePage{
		{Number: 1, Width: 612, Height: 792, Blocks: []types.TextBlock{block(80, "Test Page 1: Text and Shapes")}},
		{Number: 2, Width: 612, Height: 792, Blocks: []types.TextBlock{block(200, "• First item", "Plain line")}},
		{Number: 3, Width: 612, Height: 792, Shapes: []types.VectorShape{
			{Box: types.Rect{X0: 100, Y0: 300, X1: 400, Y1: 350}},
		}},
	}
}

func noTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".pdf2deck-"), "temp file left behind: %s", e.Name())
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"report.pdf", "report.pptx"},
		{"/tmp/dir/Report.PDF", "/tmp/dir/Report.pptx"},
		{"noext", "noext.pptx"},
		{"a.b.pdf", "a.b.pptx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DefaultOutputPath(tt.src), tt.src)
	}
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "in/a.pptx", OutputPath("in/a.pdf", ""))
	assert.Equal(t, filepath.Join("out", "a.pptx"), OutputPath("in/a.pdf", "out"))
}

func TestConvert_ThreePages(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "deck.pdf")
	op := newFakeOpener()
	op.pages[src] = threePages()

	c := &Converter{Opener: op, Config: types.DefaultConversionConfig()}
	res, err := c.Convert(context.Background(), src, "")
	require.NoError(t, err)

	out := filepath.Join(dir, "deck.pptx")
	assert.Equal(t, out, res.Output)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, 3, res.Slides)
	assert.Equal(t, 1, op.opened[src].closes)
	noTempFiles(t, dir)

	require.Len(t, res.Reports, 3)
	assert.True(t, res.Reports[0].Title)
	assert.Equal(t, 1, res.Reports[1].Bullets)
	assert.Equal(t, 1, res.Reports[2].Shapes["progress_bar"], "wide rectangle is a progress bar")
	assert.Equal(t, 1, res.Reports[2].ProgressBars, "progress bar is drawn by the synthesizer")
	assert.Equal(t, 0, res.Reports[2].Shapes["rectangle"])

	r, err := pptx.Open(out)
	require.NoError(t, err)
	defer r.Close()
	require.Equal(t, 3, r.SlideCount())

	s1, err := r.Slide(0)
	require.NoError(t, err)
	require.NotEmpty(t, s1.Content)
	assert.Equal(t, "Test Page 1: Text and Shapes", s1.Content[0].Paragraphs[0].Text)

	s2, err := r.Slide(1)
	require.NoError(t, err)
	require.Len(t, s2.Content, 1)
	paras := s2.Content[0].Paragraphs
	require.Len(t, paras, 2)
	assert.True(t, paras[0].IsBullet)
	assert.Equal(t, "First item", paras[0].Text, "bullet glyph is stripped from the run")
	assert.Equal(t, "Plain line", paras[1].Text)

	s3, err := r.Slide(2)
	require.NoError(t, err)
	assert.Empty(t, s3.Content, "unlabelled progress bar has no text")
}

func TestConvert_WidgetsOnEveryPage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "w.pdf")
	op := newFakeOpener()
	op.pages[src] = []types.SourcePage{{Number: 1, Width: 612, Height: 792}, {Number: 2, Width: 612, Height: 792}}

	table := &types.WidgetTable{
		Default: types.PageWidgets{
			StatusCards:  []types.StatusCardSpec{{Label: "Build", Status: "Passing"}},
			ProgressBars: []types.ProgressBarSpec{{Label: "Done", Percent: 50}},
		},
		Pages: map[int]types.PageWidgets{2: {}},
	}
	c := &Converter{Opener: op, Widgets: table}
	res, err := c.Convert(context.Background(), src, "")
	require.NoError(t, err)

	require.Len(t, res.Reports, 2)
	assert.Equal(t, 1, res.Reports[0].StatusCards)
	assert.Equal(t, 1, res.Reports[0].ProgressBars)
	assert.Equal(t, 0, res.Reports[1].StatusCards, "page override wins")
}

func TestConvert_OpenFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "missing.pdf")
	op := newFakeOpener()
	op.errs[src] = os.ErrNotExist

	c := &Converter{Opener: op}
	_, err := c.Convert(context.Background(), src, "")

	var soe *types.SourceOpenError
	require.True(t, errors.As(err, &soe))
	assert.Equal(t, src, soe.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoFileExists(t, filepath.Join(dir, "missing.pptx"))
}

func TestConvert_PageFailureRemovesOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.pdf")
	out := filepath.Join(dir, "bad.pptx")
	op := newFakeOpener()
	op.pages[src] = threePages()
	op.failAt[src] = 1

	c := &Converter{Opener: op}
	_, err := c.Convert(context.Background(), src, out)

	var soe *types.SourceOpenError
	require.True(t, errors.As(err, &soe))
	assert.Equal(t, 1, op.opened[src].closes)
	assert.NoFileExists(t, out)
	noTempFiles(t, dir)
}

func TestConvert_OutputWriteFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.pdf")
	out := filepath.Join(dir, "no-such-dir", "a.pptx")
	op := newFakeOpener()
	op.pages[src] = threePages()

	c := &Converter{Opener: op}
	_, err := c.Convert(context.Background(), src, out)

	var owe *types.OutputWriteError
	require.True(t, errors.As(err, &owe))
	assert.Equal(t, out, owe.Path)
	assert.Equal(t, 1, op.opened[src].closes)
	assert.NoFileExists(t, out)
}

func TestConvert_Canceled(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.pdf")
	op := newFakeOpener()
	op.pages[src] = threePages()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &Converter{Opener: op}
	_, err := c.Convert(ctx, src, "")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, op.opened[src].closes)
	assert.NoFileExists(t, filepath.Join(dir, "a.pptx"))
}

func TestConvert_ZeroSizePageLeftBlank(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "z.pdf")
	op := newFakeOpener()
	op.pages[src] = []types.SourcePage{
		{Number: 1, Width: 612, Height: 792, Blocks: []types.TextBlock{block(100, "Hello")}},
		{Number: 2},
	}

	c := &Converter{Opener: op}
	res, err := c.Convert(context.Background(), src, "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Slides, "blank slide keeps page order")
	assert.Equal(t, 1, res.Blank)
}

func TestConvert_NoOpener(t *testing.T) {
	_, err := (&Converter{}).Convert(context.Background(), "x.pdf", filepath.Join(t.TempDir(), "x.pptx"))
	assert.Error(t, err)
}

func TestConvert_RecordsJobs(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-fake"), 0o644))
	bad := filepath.Join(dir, "b.pdf")

	op := newFakeOpener()
	op.pages[src] = threePages()
	op.errs[bad] = errors.New("unreadable")
	rec := &fakeRecorder{}

	c := &Converter{Opener: op, Recorder: rec}
	_, err := c.Convert(context.Background(), src, "")
	require.NoError(t, err)
	_, err = c.Convert(context.Background(), bad, "")
	require.Error(t, err)

	require.Len(t, rec.recorded, 2)
	assert.Equal(t, types.JobConverting, rec.recorded[0].Status)
	assert.Len(t, rec.recorded[0].SourceHash, 64)
	assert.Empty(t, rec.recorded[1].SourceHash, "missing source has no hash")

	require.Len(t, rec.updated, 2)
	assert.Equal(t, int64(1), rec.updated[0].ID)
	assert.Equal(t, types.JobConverted, rec.updated[0].Status)
	assert.Equal(t, 3, rec.updated[0].Slides)
	assert.False(t, rec.updated[0].FinishedAt.IsZero())
	assert.Equal(t, types.JobFailed, rec.updated[1].Status)
	assert.Contains(t, rec.updated[1].Error, "unreadable")
}

func TestConvertBatch(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	op := newFakeOpener()
	var srcs []string
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		p := filepath.Join(in, name)
		srcs = append(srcs, p)
		op.pages[p] = threePages()
	}
	op.errs[srcs[1]] = errors.New("bad pdf")

	c := &Converter{Opener: op, Config: types.ConversionConfig{Jobs: 2}}
	var log bytes.Buffer
	result := c.ConvertBatch(context.Background(), srcs, out, &log)

	assert.Equal(t, 2, result.Converted)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())
	require.Len(t, result.Results, 2)
	assert.Equal(t, srcs[0], result.Results[0].Source)
	assert.Equal(t, srcs[2], result.Results[1].Source)

	assert.FileExists(t, filepath.Join(out, "a.pptx"))
	assert.NoFileExists(t, filepath.Join(out, "b.pptx"))
	assert.FileExists(t, filepath.Join(out, "c.pptx"))

	output := log.String()
	assert.Contains(t, output, "converted: a.pdf (3 slides)")
	assert.Contains(t, output, "failed:  b.pdf")
	assert.Contains(t, output, "Batch summary: 2 converted, 1 failed (total: 3)")
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name   string
		srcs   []string
		outDir string
		want   []string
	}{
		{"distinct", []string{"q1/a.pdf", "q2/b.pdf"}, "out", []string{"out/a.pptx", "out/b.pptx"}},
		{"same base name", []string{"q1/report.pdf", "q2/report.pdf", "q3/report.PDF"}, "out",
			[]string{"out/report.pptx", "out/report-2.pptx", "out/report-3.pptx"}},
		{"suffix already taken", []string{"a/report.pdf", "b/report-2.pdf", "c/report.pdf"}, "out",
			[]string{"out/report.pptx", "out/report-2.pptx", "out/report-3.pptx"}},
		{"same source twice beside itself", []string{"in/a.pdf", "in/a.pdf"}, "",
			[]string{"in/a.pptx", "in/a-2.pptx"}},
		{"beside sources", []string{"q1/report.pdf", "q2/report.pdf"}, "",
			[]string{"q1/report.pptx", "q2/report.pptx"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OutputPaths(tt.srcs, tt.outDir)
			want := make([]string, len(tt.want))
			for i, w := range tt.want {
				want[i] = filepath.FromSlash(w)
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestConvertBatch_SameBaseName(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	op := newFakeOpener()
	var srcs []string
	for _, dir := range []string{"q1", "q2"} {
		p := filepath.Join(in, dir, "report.pdf")
		srcs = append(srcs, p)
		op.pages[p] = threePages()
	}

	c := &Converter{Opener: op, Config: types.ConversionConfig{Jobs: 2}}
	result := c.ConvertBatch(context.Background(), srcs, out, io.Discard)

	assert.Equal(t, 2, result.Converted)
	require.Len(t, result.Results, 2)
	assert.Equal(t, filepath.Join(out, "report.pptx"), result.Results[0].Output)
	assert.Equal(t, filepath.Join(out, "report-2.pptx"), result.Results[1].Output)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "each source keeps its own deck")
}
