// Package scheduler triggers scrape runs on a fixed interval with robfig/cron.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is the work performed on every tick.
type Job func(ctx context.Context)

// Scheduler wraps robfig/cron and manages the run loop.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	job    Job
	logger *slog.Logger
}

// New creates a Scheduler that fires job every interval. Ticks that arrive
// while the previous run is still going are skipped.
func New(interval time.Duration, job Job, logger *slog.Logger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("schedule interval must be positive, got %s", interval)
	}
	if job == nil {
		return nil, errors.New("scheduler needs a job")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		spec:   Spec(interval),
		job:    job,
		logger: logger,
	}, nil
}

// Spec renders interval as a cron descriptor, e.g. "@every 6h0m0s".
func Spec(interval time.Duration) string {
	return "@every " + interval.String()
}

// Start registers the job and starts the scheduler. One run starts
// immediately so results exist without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.job(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", slog.String("spec", s.spec))

	go s.job(ctx)
	return nil
}

// Stop halts future ticks and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	s.logger.Info("scheduler stopped")
}

// Spec returns the cron descriptor in use.
func (s *Scheduler) Spec() string {
	return s.spec
}

// cronLogger routes cron's logging through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{slog.Any("error", err)}, keysAndValues...)...)
}
