// Package ratelimit provides per-client token bucket rate limiting for the
// HTTP API.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info describes the limit state after a request.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type bucket struct {
	lim      *rate.Limiter
	limit    int
	lastSeen time.Time
}

// Limiter tracks one bucket per client, endpoint and method.
type Limiter struct {
	cfg *Config
	now func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter. A nil cfg uses DefaultConfig. When enabled, a
// background sweep drops idle buckets until Stop is called.
func NewLimiter(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	l := &Limiter{
		cfg:     cfg,
		now:     time.Now,
		buckets: map[string]*bucket{},
		stop:    make(chan struct{}),
	}
	if cfg.Enabled && cfg.CleanupInterval > 0 {
		go l.sweepLoop(cfg.CleanupInterval)
	}
	return l
}

// Allow consumes one token for the request and reports the outcome.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.cfg.Enabled || l.cfg.Allowlist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.cfg.Denylist[clientID] {
		return false, Info{}
	}

	rule := Match(path, method, l.cfg.Rules)
	if rule == nil {
		rule = &Rule{Limit: l.cfg.DefaultLimit, Window: l.cfg.DefaultWindow}
	}
	if rule.Limit <= 0 || rule.Window <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	b := l.bucketFor(clientID+" "+method+" "+path, *rule, now)

	allowed := b.lim.AllowN(now, 1)
	tokens := b.lim.TokensAt(now)
	perSecond := float64(b.lim.Limit())

	info := Info{
		Allowed:   allowed,
		Limit:     b.limit,
		Remaining: max(int(tokens), 0),
		ResetTime: now.Add(secondsToDuration((float64(b.lim.Burst()) - tokens) / perSecond)),
	}
	if !allowed {
		info.RetryAfter = secondsToDuration((1 - tokens) / perSecond)
	}
	return allowed, info
}

func (l *Limiter) bucketFor(key string, rule Rule, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		burst := rule.Burst
		if burst <= 0 {
			burst = rule.Limit
		}
		perSecond := rate.Limit(float64(rule.Limit) / rule.Window.Seconds())
		b = &bucket{lim: rate.NewLimiter(perSecond, burst), limit: rule.Limit}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b
}

// Sweep removes buckets idle for longer than the configured IdleTTL.
func (l *Limiter) Sweep() int {
	cutoff := l.now().Add(-l.cfg.IdleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

func (l *Limiter) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-l.stop:
			return
		}
	}
}

// Stop ends the background sweep. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func secondsToDuration(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
