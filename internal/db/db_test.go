package db

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobscout/internal/pipeline"
	"github.com/jonathan/jobscout/internal/types"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, RunStatusCompleted, StatusFor(nil))
	assert.Equal(t, RunStatusCanceled, StatusFor(context.Canceled))
	assert.Equal(t, RunStatusCanceled, StatusFor(fmt.Errorf("run: %w", context.DeadlineExceeded)))
	assert.Equal(t, RunStatusFailed, StatusFor(errors.New("boom")))
}

func TestCountsFor(t *testing.T) {
	summary := &pipeline.Summary{Results: []pipeline.CompanyResult{
		{Company: "A", Jobs: []types.Job{{Title: "x"}, {Title: "y"}}},
		{Company: "B", Jobs: []types.Job{}, Errors: []string{"HTTP status 500"}},
		{Company: "C", Jobs: []types.Job{}},
	}}

	counts := CountsFor(summary)
	assert.Equal(t, RunCounts{Jobs: 2, Companies: 3, Failed: 1}, counts)
}

func TestJobArgs_UnknownPostedAtIsNull(t *testing.T) {
	runID := uuid.New()
	job := types.Job{Title: "Java Engineer", Company: "ACME", Source: "Lever", Location: "Austin, TX", ApplyURL: "https://x/1"}

	args := jobArgs(runID, job)
	require.Len(t, args, 7)
	assert.Equal(t, runID, args[0])
	assert.Nil(t, args[5].(*time.Time))
	assert.Equal(t, "https://x/1", args[6])

	posted := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	job.PostedAt = types.At(posted)
	args = jobArgs(runID, job)
	if assert.NotNil(t, args[5]) {
		assert.True(t, posted.Equal(*args[5].(*time.Time)))
	}
}

func TestInstantFrom(t *testing.T) {
	assert.False(t, instantFrom(nil).Known())

	posted := time.Date(2025, 6, 10, 9, 0, 0, 0, time.FixedZone("EST", -5*3600))
	at := instantFrom(&posted)
	assert.True(t, at.Known())
	assert.Equal(t, time.UTC, at.Time().Location())
}

func TestNonNil(t *testing.T) {
	assert.Equal(t, []string{}, nonNil(nil))
	assert.Equal(t, []string{"a"}, nonNil([]string{"a"}))
}
