// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf2deck/pkg/types"
)

// ExportYAML writes the jobs matching opts to w as a YAML list. A zero
// Limit exports every job.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, opts ListOptions) error {
	jobs, err := s.exportJobs(ctx, opts)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(jobs)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportJSON writes the jobs matching opts to w as an indented JSON array.
// A zero Limit exports every job.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer, opts ListOptions) error {
	jobs, err := s.exportJobs(ctx, opts)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func (s *Store) exportJobs(ctx context.Context, opts ListOptions) ([]types.Job, error) {
	if opts.Limit == 0 {
		opts.Limit = -1
	}
	jobs, err := s.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if jobs == nil {
		jobs = []types.Job{}
	}
	return jobs, nil
}
