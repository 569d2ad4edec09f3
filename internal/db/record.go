package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/jobscout/internal/pipeline"
)

// StatusFor maps a run error onto the stored run status.
func StatusFor(runErr error) string {
	switch {
	case runErr == nil:
		return RunStatusCompleted
	case errors.Is(runErr, context.Canceled), errors.Is(runErr, context.DeadlineExceeded):
		return RunStatusCanceled
	default:
		return RunStatusFailed
	}
}

// CountsFor totals a run summary for CompleteRun.
func CountsFor(summary *pipeline.Summary) RunCounts {
	return RunCounts{
		Jobs:      summary.TotalJobs(),
		Companies: len(summary.Results),
		Failed:    summary.FailedCompanies(),
	}
}

// RecordRun persists a finished run: the run row, its jobs, and its totals.
func (db *DB) RecordRun(ctx context.Context, summary *pipeline.Summary, runErr error) error {
	if summary == nil {
		return fmt.Errorf("no run summary to record")
	}
	id, err := db.CreateRun(ctx, summary.RunID, summary.StartedAt, summary.Filters)
	if err != nil {
		return err
	}
	if err := db.SaveJobs(ctx, id, summary.Jobs()); err != nil {
		return err
	}
	return db.CompleteRun(ctx, id, StatusFor(runErr), CountsFor(summary))
}
