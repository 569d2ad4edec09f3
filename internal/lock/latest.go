package lock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jonathan/jobscout/internal/pipeline"
)

// RunEvent is published on RunEventChannel after a run finishes.
type RunEvent struct {
	RunID      uuid.UUID `json:"run_id"`
	Jobs       int       `json:"jobs"`
	Failed     int       `json:"failed_companies"`
	FinishedAt time.Time `json:"finished_at"`
}

// Store caches the latest run summary in Redis.
type Store struct {
	client Client
	ttl    time.Duration
}

// NewStore creates a Store. A zero ttl keeps the summary until overwritten.
func NewStore(client Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// SaveLatest stores summary under LatestRunKey and announces it on RunEventChannel.
func (s *Store) SaveLatest(ctx context.Context, summary *pipeline.Summary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}
	if err := s.client.Set(ctx, LatestRunKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache latest run: %w", err)
	}

	event, err := json.Marshal(RunEvent{
		RunID:      summary.RunID,
		Jobs:       summary.TotalJobs(),
		Failed:     summary.FailedCompanies(),
		FinishedAt: summary.FinishedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal run event: %w", err)
	}
	if err := s.client.Publish(ctx, RunEventChannel, event).Err(); err != nil {
		return fmt.Errorf("failed to publish run event: %w", err)
	}
	return nil
}

// LoadLatest returns the cached summary, or nil when nothing is cached.
func (s *Store) LoadLatest(ctx context.Context) (*pipeline.Summary, error) {
	data, err := s.client.Get(ctx, LatestRunKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read latest run: %w", err)
	}

	var summary pipeline.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode latest run: %w", err)
	}
	return &summary, nil
}
