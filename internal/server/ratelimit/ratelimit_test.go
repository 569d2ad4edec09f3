package ratelimit

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(cfg *Config) (*Limiter, *clock) {
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	c := &clock{t: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)}
	l.now = c.now
	return l, c
}

func TestLimiter_RunsEndpoint(t *testing.T) {
	l, c := newTestLimiter(DefaultConfig())
	defer l.Stop()

	ok, info := l.Allow("10.0.0.1", "/runs", http.MethodPost)
	assert.True(t, ok)
	assert.Equal(t, 6, info.Limit)
	assert.Equal(t, 1, info.Remaining)

	ok, _ = l.Allow("10.0.0.1", "/runs", http.MethodPost)
	assert.True(t, ok)

	ok, info = l.Allow("10.0.0.1", "/runs", http.MethodPost)
	assert.False(t, ok, "burst of 2 exhausted")
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, 10*time.Minute, info.RetryAfter.Round(time.Second))

	// another client has its own bucket
	ok, _ = l.Allow("10.0.0.2", "/runs", http.MethodPost)
	assert.True(t, ok)

	c.advance(10 * time.Minute)
	ok, _ = l.Allow("10.0.0.1", "/runs", http.MethodPost)
	assert.True(t, ok, "one token refilled")
}

func TestLimiter_DefaultLimitForReads(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultLimit = 3
	l, _ := newTestLimiter(cfg)

	for i := 0; i < 3; i++ {
		ok, _ := l.Allow("c", "/runs/latest", http.MethodGet)
		require.True(t, ok, "request %d", i+1)
	}
	ok, info := l.Allow("c", "/runs/latest", http.MethodGet)
	assert.False(t, ok)
	assert.Equal(t, 3, info.Limit)
	assert.True(t, info.ResetTime.After(l.now()))
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultLimit = 1
	l, _ := newTestLimiter(cfg)

	for i := 0; i < 50; i++ {
		ok, info := l.Allow("c", "/health", http.MethodGet)
		require.True(t, ok)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_AllowAndDenyLists(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultLimit = 1
	cfg.Allowlist = map[string]bool{"trusted": true}
	cfg.Denylist = map[string]bool{"blocked": true}
	l, _ := newTestLimiter(cfg)

	for i := 0; i < 5; i++ {
		ok, _ := l.Allow("trusted", "/runs/latest", http.MethodGet)
		assert.True(t, ok)
	}
	ok, _ := l.Allow("blocked", "/health", http.MethodGet)
	assert.False(t, ok)
}

func TestLimiter_Disabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	cfg.DefaultLimit = 1
	l, _ := newTestLimiter(cfg)

	for i := 0; i < 5; i++ {
		ok, _ := l.Allow("c", "/runs", http.MethodPost)
		assert.True(t, ok)
	}
}

func TestLimiter_Sweep(t *testing.T) {
	l, c := newTestLimiter(DefaultConfig())

	l.Allow("a", "/runs/latest", http.MethodGet)
	c.advance(30 * time.Minute)
	l.Allow("b", "/runs/latest", http.MethodGet)
	c.advance(45 * time.Minute)

	assert.Equal(t, 1, l.Sweep())
	assert.Len(t, l.buckets, 1)
	assert.Contains(t, l.buckets, "b GET /runs/latest")
}

func TestLimiter_Concurrent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultLimit = 100
	l, _ := newTestLimiter(cfg)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 150; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "/runs", http.MethodGet); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, allowed, "clock is frozen so no refill happens")
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(nil)
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestMatch(t *testing.T) {
	rules := []Rule{
		{Path: "/runs", Method: http.MethodPost, Limit: 1},
		{Path: "/runs/", Method: http.MethodGet, Limit: 2},
		{Path: "/runs/latest", Method: http.MethodGet, Limit: 3},
	}

	assert.Equal(t, 1, Match("/runs", http.MethodPost, rules).Limit)
	assert.Equal(t, 3, Match("/runs/latest", http.MethodGet, rules).Limit, "exact beats prefix")
	assert.Equal(t, 2, Match("/runs/latest/jobs", http.MethodGet, rules).Limit)
	assert.Nil(t, Match("/runs", http.MethodGet, rules))
	assert.Nil(t, Match("/other", http.MethodPost, rules))
}

func TestLoadConfig(t *testing.T) {
	env := map[string]string{
		"JOBSCOUT_RATE_LIMIT_DEFAULT":       "42",
		"JOBSCOUT_RATE_LIMIT_WINDOW":        "30s",
		"JOBSCOUT_RATE_LIMIT_RUNS_PER_HOUR": "12",
		"JOBSCOUT_RATE_LIMIT_ALLOW":         "127.0.0.1, 10.0.0.1,",
		"JOBSCOUT_RATE_LIMIT_DENY":          "6.6.6.6",
	}
	cfg := LoadConfig(func(k string) string { return env[k] })

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, 12, Match("/runs", http.MethodPost, cfg.Rules).Limit)
	assert.Equal(t, map[string]bool{"127.0.0.1": true, "10.0.0.1": true}, cfg.Allowlist)
	assert.True(t, cfg.Denylist["6.6.6.6"])

	env = map[string]string{"JOBSCOUT_RATE_LIMIT_ENABLED": "false", "JOBSCOUT_RATE_LIMIT_DEFAULT": "junk"}
	cfg = LoadConfig(func(k string) string { return env[k] })
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 600, cfg.DefaultLimit)
}
