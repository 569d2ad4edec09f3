// Package lock coordinates runs through Redis: a run lock so overlapping
// runs are skipped, and a cache of the latest run summary.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key names
const (
	RunLockKey      = "jobscout:runs:lock"
	LatestRunKey    = "jobscout:runs:latest"
	RunEventChannel = "jobscout:runs:events"
)

// DefaultLockTTL bounds how long a crashed holder can block other runs.
const DefaultLockTTL = 30 * time.Minute

// Client is the subset of redis commands used here. *redis.Client satisfies it.
type Client interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}
