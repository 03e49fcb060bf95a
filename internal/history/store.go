// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records conversion jobs in a SQLite database so past
// conversions can be listed, looked up by source content and exported.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdf2deck/pkg/types"
)

const defaultLimit = 50

// ErrNotFound is returned by Get when no job has the requested ID.
var ErrNotFound = errors.New("job not found")

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database at cfg.DBPath and creates
// the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = types.DefaultHistoryDB
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Batch conversions record from several goroutines.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_path TEXT NOT NULL,
			source_hash TEXT,
			output_path TEXT,
			pages INTEGER NOT NULL DEFAULT 0,
			slides INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			error TEXT,
			started_at TEXT NOT NULL,
			finished_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_source_hash ON jobs(source_hash)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts a new job and returns its ID.
func (s *Store) Record(job types.Job) (int64, error) {
	if job.StartedAt.IsZero() {
		job.StartedAt = time.Now().UTC()
	}
	res, err := s.db.Exec(
		`INSERT INTO jobs (source_path, source_hash, output_path, pages, slides, status, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.SourcePath, nullString(job.SourceHash), nullString(job.OutputPath),
		job.Pages, job.Slides, string(job.Status), nullString(job.Error),
		formatTime(job.StartedAt), nullTime(job.FinishedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting job: %w", err)
	}
	return res.LastInsertId()
}

// Update rewrites the mutable fields of an existing job.
func (s *Store) Update(job types.Job) error {
	res, err := s.db.Exec(
		`UPDATE jobs SET output_path = ?, pages = ?, slides = ?, status = ?, error = ?, finished_at = ?
		WHERE id = ?`,
		nullString(job.OutputPath), job.Pages, job.Slides, string(job.Status),
		nullString(job.Error), nullTime(job.FinishedAt), job.ID,
	)
	if err != nil {
		return fmt.Errorf("updating job %d: %w", job.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("updating job %d: %w", job.ID, ErrNotFound)
	}
	return nil
}

// Get returns the job with the given ID.
func (s *Store) Get(ctx context.Context, id int64) (types.Job, error) {
	jobs, err := s.query(ctx, `WHERE id = ?`, []any{id}, 1)
	if err != nil {
		return types.Job{}, err
	}
	if len(jobs) == 0 {
		return types.Job{}, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	return jobs[0], nil
}

// ListOptions filters List.
type ListOptions struct {
	// Status keeps only jobs in this state. Empty keeps all.
	Status types.JobStatus

	// Source keeps only jobs whose source path contains this substring.
	Source string

	// Limit caps the result count. Zero uses the default of 50; a
	// negative limit returns every job.
	Limit int
}

// List returns jobs newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.Job, error) {
	var (
		where strings.Builder
		args  []any
	)
	where.WriteString(`WHERE 1=1`)
	if opts.Status != "" {
		where.WriteString(` AND status = ?`)
		args = append(args, string(opts.Status))
	}
	if opts.Source != "" {
		where.WriteString(` AND instr(source_path, ?) > 0`)
		args = append(args, opts.Source)
	}

	limit := opts.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	return s.query(ctx, where.String(), args, limit)
}

// FindByHash returns every job whose source had the given SHA-256 digest,
// newest first.
func (s *Store) FindByHash(ctx context.Context, hash string) ([]types.Job, error) {
	return s.query(ctx, `WHERE source_hash = ?`, []any{hash}, -1)
}

func (s *Store) query(ctx context.Context, where string, args []any, limit int) ([]types.Job, error) {
	q := `SELECT id, source_path, source_hash, output_path, pages, slides, status, error, started_at, finished_at
		FROM jobs ` + where + ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		var (
			j                 types.Job
			status, started   string
			hash, out, errMsg sql.NullString
			finished          sql.NullString
		)
		if err := rows.Scan(&j.ID, &j.SourcePath, &hash, &out, &j.Pages, &j.Slides,
			&status, &errMsg, &started, &finished); err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		j.SourceHash = hash.String
		j.OutputPath = out.String
		j.Error = errMsg.String
		j.Status = types.JobStatus(status)
		j.StartedAt = parseTime(started)
		if finished.Valid {
			j.FinishedAt = parseTime(finished.String)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}
	return jobs, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(t), Valid: true}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
