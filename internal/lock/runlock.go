package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrLocked is returned when another run holds the lock.
var ErrLocked = errors.New("another run is in progress")

// releaseScript deletes the key only while it still holds our token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// RunLock is a single-holder Redis lock taken with SET NX PX.
type RunLock struct {
	client Client
	key    string
	ttl    time.Duration
}

// NewRunLock creates a lock on RunLockKey. A non-positive ttl uses DefaultLockTTL.
func NewRunLock(client Client, ttl time.Duration) *RunLock {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &RunLock{client: client, key: RunLockKey, ttl: ttl}
}

// Acquire takes the lock. It returns ErrLocked when the lock is held and a
// release func otherwise.
func (l *RunLock) Acquire(ctx context.Context) (func(context.Context) error, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	release := func(ctx context.Context) error {
		if err := l.client.Eval(ctx, releaseScript, []string{l.key}, token).Err(); err != nil {
			return fmt.Errorf("failed to release run lock: %w", err)
		}
		return nil
	}
	return release, nil
}

// WithLock runs fn while holding the lock.
func (l *RunLock) WithLock(ctx context.Context, fn func(context.Context) error) error {
	release, err := l.Acquire(ctx)
	if err != nil {
		return err
	}
	fnErr := fn(ctx)
	// release even when ctx is already canceled
	relErr := release(context.WithoutCancel(ctx))
	return errors.Join(fnErr, relErr)
}
