package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/jobscout/internal/types"
)

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusCanceled  = "canceled"
	RunStatusFailed    = "failed"
)

// Run represents a scrape run record
type Run struct {
	ID              uuid.UUID  `json:"id"`
	Status          string     `json:"status"`
	HoursLimit      int        `json:"hours_limit"`
	Keywords        []string   `json:"keywords"`
	ExcludeKeywords []string   `json:"exclude_keywords"`
	JobCount        int        `json:"job_count"`
	CompanyCount    int        `json:"company_count"`
	FailedCount     int        `json:"failed_count"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// RunCounts holds the totals written when a run completes
type RunCounts struct {
	Jobs      int
	Companies int
	Failed    int
}

// StoredJob is a job row belonging to a run
type StoredJob struct {
	ID    int64     `json:"id"`
	RunID uuid.UUID `json:"run_id"`
	types.Job
	CreatedAt time.Time `json:"created_at"`
}
