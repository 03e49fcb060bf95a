// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf2deck/internal/history"
	"github.com/pdiddy/pdf2deck/pkg/types"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "a.pdf", 40, "a.pdf"},
		{"exact", "abcde", 5, "abcde"},
		{"ascii", "abcdefgh", 6, "abc..."},
		{"multi-byte", "日本語の報告書をまとめた資料.pdf", 8, "日本語の報..."},
		{"tiny limit", "abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, utf8.RuneCountInString(got), tt.n)
		})
	}
}

func TestWriteJobTable_MultiByteSource(t *testing.T) {
	name := strings.Repeat("資料", 30) + ".pdf"
	jobs := []types.Job{{
		ID: 1, SourcePath: "/in/" + name, SourceHash: "0123456789abcdef",
		Status: types.JobConverted, Slides: 3, StartedAt: time.Now(),
	}}

	var buf bytes.Buffer
	writeJobTable(&buf, jobs)
	out := buf.String()
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, "012345678...")
	assert.NotContains(t, out, name)
}

func TestSelectJobs_ByHash(t *testing.T) {
	store, err := history.NewStore(types.HistoryConfig{DBPath: filepath.Join(t.TempDir(), "history.db")})
	require.NoError(t, err)
	defer store.Close()

	for _, j := range []types.Job{
		{SourcePath: "/q1/report.pdf", SourceHash: "abc", Status: types.JobConverted},
		{SourcePath: "/q2/other.pdf", SourceHash: "def", Status: types.JobConverted},
		{SourcePath: "/q3/copy.pdf", SourceHash: "abc", Status: types.JobFailed},
	} {
		_, err := store.Record(j)
		require.NoError(t, err)
	}
	ctx := context.Background()

	jobs, err := selectJobs(ctx, store, history.ListOptions{}, " ABC ")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "/q3/copy.pdf", jobs[0].SourcePath)
	assert.Equal(t, "/q1/report.pdf", jobs[1].SourcePath)

	all, err := selectJobs(ctx, store, history.ListOptions{}, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
