// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// JobStatus tracks the lifecycle of a conversion job.
type JobStatus string

const (
	JobConverting JobStatus = "converting"
	JobConverted  JobStatus = "converted"
	JobFailed     JobStatus = "failed"
)

// Job is one recorded conversion of a source document into a deck.
type Job struct {
	ID         int64     `json:"id" yaml:"id"`
	SourcePath string    `json:"source_path" yaml:"source_path"`
	SourceHash string    `json:"source_hash" yaml:"source_hash"`
	OutputPath string    `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	Pages      int       `json:"pages" yaml:"pages"`
	Slides     int       `json:"slides" yaml:"slides"`
	Status     JobStatus `json:"status" yaml:"status"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
}
