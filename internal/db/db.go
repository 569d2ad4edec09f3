// Package db provides PostgreSQL persistence for scrape runs and their jobs.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/jobscout/internal/types"
)

// DefaultListLimit caps ListRuns when no limit is given
const DefaultListLimit = 50

// ErrRunNotFound is returned when a run ID has no record
var ErrRunNotFound = errors.New("run not found")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS scrape_runs (
	id               UUID PRIMARY KEY,
	status           TEXT NOT NULL,
	hours_limit      INTEGER NOT NULL,
	keywords         TEXT[] NOT NULL DEFAULT '{}',
	exclude_keywords TEXT[] NOT NULL DEFAULT '{}',
	job_count        INTEGER NOT NULL DEFAULT 0,
	company_count    INTEGER NOT NULL DEFAULT 0,
	failed_count     INTEGER NOT NULL DEFAULT 0,
	started_at       TIMESTAMPTZ NOT NULL,
	completed_at     TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS scraped_jobs (
	id         BIGSERIAL PRIMARY KEY,
	run_id     UUID NOT NULL REFERENCES scrape_runs(id) ON DELETE CASCADE,
	title      TEXT NOT NULL,
	company    TEXT NOT NULL,
	ats        TEXT NOT NULL,
	location   TEXT NOT NULL,
	posted_at  TIMESTAMPTZ,
	apply_url  TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (run_id, apply_url, title)
);

CREATE INDEX IF NOT EXISTS idx_scrape_runs_started_at ON scrape_runs (started_at DESC);
CREATE INDEX IF NOT EXISTS idx_scraped_jobs_run_id ON scraped_jobs (run_id);
`

const upsertJobSQL = `INSERT INTO scraped_jobs (run_id, title, company, ats, location, posted_at, apply_url)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (run_id, apply_url, title) DO UPDATE
	SET company = $3, ats = $4, location = $5, posted_at = $6`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the run and job tables when they do not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// CreateRun inserts a run in the running state. A nil id gets a fresh UUID.
func (db *DB) CreateRun(ctx context.Context, id uuid.UUID, startedAt time.Time, filters types.FilterConfig) (uuid.UUID, error) {
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO scrape_runs (id, status, hours_limit, keywords, exclude_keywords, started_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, RunStatusRunning, filters.HoursLimit, nonNil(filters.Keywords), nonNil(filters.ExcludeKeywords), startedAt.UTC(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun records the final status and totals of a run
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string, counts RunCounts) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE scrape_runs
		 SET status = $1, job_count = $2, company_count = $3, failed_count = $4, completed_at = NOW()
		 WHERE id = $5`,
		status, counts.Jobs, counts.Companies, counts.Failed, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// SaveJobs upserts the jobs of a run in a single batch
func (db *DB) SaveJobs(ctx context.Context, runID uuid.UUID, jobs []types.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, job := range jobs {
		batch.Queue(upsertJobSQL, jobArgs(runID, job)...)
	}

	br := db.pool.SendBatch(ctx, batch)
	defer br.Close() //nolint:errcheck

	for i := range jobs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to save job %d (%s): %w", i, jobs[i].ApplyURL, err)
		}
	}
	return nil
}

// GetRun retrieves a run by ID
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+runColumns+` FROM scrape_runs WHERE id = $1`, runID)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// LatestRun returns the most recently started run, or nil when none exist
func (db *DB) LatestRun(ctx context.Context) (*Run, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+runColumns+` FROM scrape_runs ORDER BY started_at DESC LIMIT 1`)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves recent runs, newest first
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+runColumns+` FROM scrape_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// ListJobs retrieves the jobs saved for a run in insertion order
func (db *DB) ListJobs(ctx context.Context, runID uuid.UUID) ([]StoredJob, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, title, company, ats, location, posted_at, apply_url, created_at
		 FROM scraped_jobs WHERE run_id = $1 ORDER BY id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []StoredJob{}
	for rows.Next() {
		var j StoredJob
		var postedAt *time.Time
		if err := rows.Scan(&j.ID, &j.RunID, &j.Title, &j.Company, &j.Source, &j.Location,
			&postedAt, &j.ApplyURL, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		j.PostedAt = instantFrom(postedAt)
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

const runColumns = `id, status, hours_limit, keywords, exclude_keywords,
	job_count, company_count, failed_count, started_at, completed_at`

func scanRun(row pgx.Row) (*Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.Status, &run.HoursLimit, &run.Keywords, &run.ExcludeKeywords,
		&run.JobCount, &run.CompanyCount, &run.FailedCount, &run.StartedAt, &run.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func jobArgs(runID uuid.UUID, job types.Job) []any {
	return []any{runID, job.Title, job.Company, job.Source, job.Location, postedAtArg(job.PostedAt), job.ApplyURL}
}

// postedAtArg maps the unknown instant to SQL NULL.
func postedAtArg(at types.Instant) *time.Time {
	if !at.Known() {
		return nil
	}
	t := at.Time()
	return &t
}

func instantFrom(t *time.Time) types.Instant {
	if t == nil {
		return types.UnknownInstant
	}
	return types.At(*t)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
