// Package service runs the scrape pipeline for the CLI, the scheduler and the
// HTTP API, and takes care of everything around a run: locking, persistence,
// and caching the latest summary.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonathan/jobscout/internal/ats"
	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/db"
	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/filtering"
	"github.com/jonathan/jobscout/internal/lock"
	"github.com/jonathan/jobscout/internal/pipeline"
	"github.com/jonathan/jobscout/internal/types"
)

var (
	// ErrRunInProgress is returned when a run is requested while another is going.
	ErrRunInProgress = errors.New("a run is already in progress")
	// ErrNoDatabase is returned by history queries when no database is configured.
	ErrNoDatabase = errors.New("no database configured")
	// ErrInvalidRequest wraps problems with a run Request.
	ErrInvalidRequest = errors.New("invalid run request")
)

// RunStore persists finished runs. *db.DB implements it.
type RunStore interface {
	RecordRun(ctx context.Context, summary *pipeline.Summary, runErr error) error
	ListRuns(ctx context.Context, limit int) ([]db.Run, error)
}

// LatestCache holds the most recent run summary. *lock.Store implements it.
type LatestCache interface {
	SaveLatest(ctx context.Context, summary *pipeline.Summary) error
	LoadLatest(ctx context.Context) (*pipeline.Summary, error)
}

// Locker serializes runs across processes. *lock.RunLock implements it.
type Locker interface {
	WithLock(ctx context.Context, fn func(context.Context) error) error
}

// Options configures a Service. Zero values disable the optional parts.
type Options struct {
	Logger      *slog.Logger
	HTTPTimeout time.Duration
	Delay       time.Duration
	Concurrency int

	// Fetcher overrides the adapter registry built from the config.
	Fetcher pipeline.Fetcher

	Store RunStore
	Cache LatestCache
	Lock  Locker
}

// Request narrows a single run. Empty fields fall back to the config.
type Request struct {
	HoursLimit      int      `json:"hours_limit,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
	ExcludeKeywords []string `json:"exclude_keywords,omitempty"`
	Sources         []string `json:"sources,omitempty"`

	OnProgress pipeline.ProgressCallback `json:"-"`
}

// Service executes runs against one loaded configuration.
type Service struct {
	cfg     *config.Config
	runner  *pipeline.Runner
	opts    Options
	logger  *slog.Logger
	running atomic.Bool

	mu     sync.RWMutex
	latest *pipeline.Summary
}

// New creates a Service. cfg must already have defaults applied and be valid.
func New(cfg *config.Config, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = NewRegistry(cfg, opts.HTTPTimeout, opts.Logger)
	}
	return &Service{
		cfg:    cfg,
		runner: pipeline.NewRunner(fetcher, opts.Logger),
		opts:   opts,
		logger: opts.Logger,
	}
}

// NewRegistry builds the adapter registry for cfg, extending the location
// lists with the config's extra tokens.
func NewRegistry(cfg *config.Config, timeout time.Duration, logger *slog.Logger) ats.Registry {
	fetchOpts := fetch.DefaultOptions()
	if timeout > 0 {
		fetchOpts.Timeout = timeout
	}
	return ats.NewRegistry(ats.Deps{
		Client:     fetch.NewClient(fetchOpts),
		Classifier: filtering.NewClassifier(filtering.DefaultLists().Extend(cfg.LocationLists)),
		Logger:     logger,
	})
}

// Config returns the configuration runs are built from.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// Options resolves req against the config into pipeline options.
func (s *Service) Options(req Request) (pipeline.RunOptions, error) {
	filters := s.cfg.Filters
	if req.HoursLimit < 0 {
		return pipeline.RunOptions{}, fmt.Errorf("%w: hours_limit must be positive, got %d", ErrInvalidRequest, req.HoursLimit)
	}
	if req.HoursLimit > 0 {
		filters.HoursLimit = req.HoursLimit
	}
	if len(req.Keywords) > 0 {
		filters.Keywords = req.Keywords
	}
	if len(req.ExcludeKeywords) > 0 {
		filters.ExcludeKeywords = req.ExcludeKeywords
	}
	if filters.HoursLimit <= 0 {
		filters.HoursLimit = config.DefaultHoursLimit
	}

	sources, err := s.cfg.SelectSources(req.Sources)
	if err != nil {
		return pipeline.RunOptions{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	return pipeline.RunOptions{
		Filters:     filters,
		Sources:     sources,
		Delay:       s.opts.Delay,
		Concurrency: s.opts.Concurrency,
		OnProgress:  req.OnProgress,
	}, nil
}

// Execute performs one run. The summary is returned even when the run was
// canceled part way, together with the context error. Persistence and cache
// failures are logged and never fail the run.
func (s *Service) Execute(ctx context.Context, req Request) (*pipeline.Summary, error) {
	runOpts, err := s.Options(req)
	if err != nil {
		return nil, err
	}

	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer s.running.Store(false)

	var summary *pipeline.Summary
	run := func(ctx context.Context) error {
		var runErr error
		summary, runErr = s.runner.Run(ctx, runOpts)
		s.finish(ctx, summary, runErr)
		return runErr
	}

	if s.opts.Lock == nil {
		err = run(ctx)
	} else {
		err = s.opts.Lock.WithLock(ctx, run)
		if errors.Is(err, lock.ErrLocked) {
			return nil, fmt.Errorf("%w: %w", ErrRunInProgress, err)
		}
	}
	return summary, err
}

// Running reports whether this process is executing a run.
func (s *Service) Running() bool {
	return s.running.Load()
}

func (s *Service) finish(ctx context.Context, summary *pipeline.Summary, runErr error) {
	if summary == nil {
		return
	}
	s.mu.Lock()
	s.latest = summary
	s.mu.Unlock()

	// a canceled run is still recorded
	ctx = context.WithoutCancel(ctx)

	if s.opts.Store != nil {
		if err := s.opts.Store.RecordRun(ctx, summary, runErr); err != nil {
			s.logger.Warn("failed to persist run",
				slog.String("run_id", summary.RunID.String()), slog.Any("error", err))
		}
	}
	if s.opts.Cache != nil {
		if err := s.opts.Cache.SaveLatest(ctx, summary); err != nil {
			s.logger.Warn("failed to cache latest run",
				slog.String("run_id", summary.RunID.String()), slog.Any("error", err))
		}
	}
}

// Latest returns the most recent summary from this process, falling back to
// the shared cache. It returns nil when no run has finished yet.
func (s *Service) Latest(ctx context.Context) (*pipeline.Summary, error) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()
	if latest != nil {
		return latest, nil
	}
	if s.opts.Cache == nil {
		return nil, nil
	}
	return s.opts.Cache.LoadLatest(ctx)
}

// LatestJobs returns the jobs of the most recent run.
func (s *Service) LatestJobs(ctx context.Context) ([]types.Job, error) {
	latest, err := s.Latest(ctx)
	if err != nil || latest == nil {
		return nil, err
	}
	return latest.Jobs(), nil
}

// History lists stored runs, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]db.Run, error) {
	if s.opts.Store == nil {
		return nil, ErrNoDatabase
	}
	return s.opts.Store.ListRuns(ctx, limit)
}
