package ratelimit

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule limits one endpoint. A Path ending in "/" matches every path under it.
type Rule struct {
	Path   string
	Method string
	Limit  int           // requests per Window; 0 means unlimited
	Window time.Duration
	Burst  int // defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Allowlist       map[string]bool
	Denylist        map[string]bool
	Rules           []Rule
}

// DefaultConfig is used when no environment overrides are set.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Allowlist:       map[string]bool{},
		Denylist:        map[string]bool{},
		Rules:           DefaultRules(),
	}
}

// DefaultRules returns the per-endpoint limits. Triggering a run fans out to
// every configured company, so it is limited far below reads.
func DefaultRules() []Rule {
	return []Rule{
		{Path: "/runs", Method: http.MethodPost, Limit: 6, Window: time.Hour, Burst: 2},
		{Path: "/health", Method: http.MethodGet, Limit: 0},
	}
}

// LoadConfig reads JOBSCOUT_RATE_LIMIT_* settings through getenv, which is
// usually os.Getenv.
func LoadConfig(getenv func(string) string) *Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := DefaultConfig()

	if v, err := strconv.ParseBool(getenv("JOBSCOUT_RATE_LIMIT_ENABLED")); err == nil {
		cfg.Enabled = v
	}
	if v, err := strconv.Atoi(getenv("JOBSCOUT_RATE_LIMIT_DEFAULT")); err == nil && v >= 0 {
		cfg.DefaultLimit = v
	}
	if v, err := time.ParseDuration(getenv("JOBSCOUT_RATE_LIMIT_WINDOW")); err == nil && v > 0 {
		cfg.DefaultWindow = v
	}
	if v, err := strconv.Atoi(getenv("JOBSCOUT_RATE_LIMIT_RUNS_PER_HOUR")); err == nil && v >= 0 {
		cfg.Rules[0].Limit = v
	}
	cfg.Allowlist = parseIPList(getenv("JOBSCOUT_RATE_LIMIT_ALLOW"))
	cfg.Denylist = parseIPList(getenv("JOBSCOUT_RATE_LIMIT_DENY"))
	return cfg
}

// Match returns the rule for a request, or nil when the default applies.
// Exact rules win over prefix rules.
func Match(path, method string, rules []Rule) *Rule {
	for i := range rules {
		if rules[i].Method == method && rules[i].Path == path {
			return &rules[i]
		}
	}
	for i := range rules {
		r := &rules[i]
		if r.Method == method && strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			return r
		}
	}
	return nil
}

func parseIPList(list string) map[string]bool {
	out := map[string]bool{}
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			out[ip] = true
		}
	}
	return out
}
