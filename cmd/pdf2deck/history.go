// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf2deck/internal/history"
	"github.com/pdiddy/pdf2deck/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded conversions (list, export)",
	Long: `History reads the local SQLite database of conversion jobs. Jobs are
recorded when history.enabled is set or convert runs with --history.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent conversions, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	opts, err := listOptsFromFlags(cmd)
	if err != nil {
		return err
	}
	hash, _ := cmd.Flags().GetString("hash")
	jobs, err := selectJobs(context.Background(), store, opts, hash)
	if err != nil {
		return err
	}

	if len(jobs) == 0 {
		fmt.Println("No conversions recorded.")
		return nil
	}
	writeJobTable(os.Stdout, jobs)
	return nil
}

// selectJobs lists jobs by filter, or every conversion of the same source
// content when hash is set.
func selectJobs(ctx context.Context, store *history.Store, opts history.ListOptions, hash string) ([]types.Job, error) {
	if hash != "" {
		return store.FindByHash(ctx, strings.ToLower(strings.TrimSpace(hash)))
	}
	return store.List(ctx, opts)
}

func writeJobTable(w io.Writer, jobs []types.Job) {
	fmt.Fprintf(w, "%-5s  %-10s  %-40s  %-12s  %6s  %-20s\n", "ID", "Status", "Source", "Hash", "Slides", "Started")
	fmt.Fprintln(w, strings.Repeat("-", 104))
	for _, j := range jobs {
		fmt.Fprintf(w, "%-5d  %-10s  %-40s  %-12s  %6d  %-20s\n",
			j.ID, j.Status, truncate(filepath.Base(j.SourcePath), 40), truncate(j.SourceHash, 12),
			j.Slides, j.StartedAt.Local().Format("2006-01-02 15:04:05"))
	}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded conversions as YAML or JSON",
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "yaml" && format != "json" {
		return fmt.Errorf("unknown format %q: use yaml or json", format)
	}

	store, err := history.NewStore(historyConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	opts, err := listOptsFromFlags(cmd)
	if err != nil {
		return err
	}

	w := os.Stdout
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	if format == "json" {
		return store.ExportJSON(context.Background(), w, opts)
	}
	return store.ExportYAML(context.Background(), w, opts)
}

func listOptsFromFlags(cmd *cobra.Command) (history.ListOptions, error) {
	status, _ := cmd.Flags().GetString("status")
	source, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")

	switch types.JobStatus(status) {
	case "", types.JobConverting, types.JobConverted, types.JobFailed:
	default:
		return history.ListOptions{}, fmt.Errorf("unknown status %q", status)
	}
	return history.ListOptions{Status: types.JobStatus(status), Source: source, Limit: limit}, nil
}

func init() {
	for _, c := range []*cobra.Command{historyListCmd, historyExportCmd} {
		c.Flags().String("status", "", "filter by status: converting, converted, failed")
		c.Flags().String("source", "", "filter by source path substring")
	}
	historyListCmd.Flags().Int("limit", 0, "maximum jobs to list (default 50)")
	historyListCmd.Flags().String("hash", "", "list every conversion of the source with this SHA-256 digest")
	historyExportCmd.Flags().Int("limit", 0, "maximum jobs to export (default all)")
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")

	historyCmd.AddCommand(historyListCmd, historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
