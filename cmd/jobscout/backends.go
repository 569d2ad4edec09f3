package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/db"
	"github.com/jonathan/jobscout/internal/lock"
	"github.com/jonathan/jobscout/internal/service"
)

// connectTimeout bounds the initial database and redis handshakes.
const connectTimeout = 10 * time.Second

// backends holds the optional Postgres and Redis connections.
type backends struct {
	closers []func()
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// setupLogger builds the process logger. Commands that print a report to
// stdout pass quiet so per-company Info lines stay out of the way unless the
// level was asked for explicitly.
func setupLogger(env config.Env, verbose, quiet bool) (*slog.Logger, func() error) {
	level := env.LogLevel
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet && os.Getenv("JOBSCOUT_LOG_LEVEL") == "":
		level = slog.LevelWarn
	}
	logger, closeLog := config.SetupLogger(env.LogFile, level)
	slog.SetDefault(logger)
	return logger, closeLog
}

// connectBackends opens the database and redis when their URLs are set and
// fills the matching service options. A database that cannot be reached is
// an error; persistence was asked for explicitly.
func connectBackends(ctx context.Context, databaseURL, redisURL string, opts *service.Options) (*backends, error) {
	b := &backends{}
	logger := opts.Logger

	if databaseURL != "" {
		cctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		database, err := db.Connect(cctx, databaseURL)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, database.Close)
		if err := database.EnsureSchema(cctx); err != nil {
			b.Close()
			return nil, err
		}
		opts.Store = database
		logger.Info("run persistence enabled")
	}

	if redisURL != "" {
		cctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		client, err := lock.NewRedisClient(cctx, redisURL)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = client.Close() })
		opts.Lock = lock.NewRunLock(client, 0)
		opts.Cache = lock.NewStore(client, 0)
		logger.Info("redis run lock and cache enabled")
	}

	return b, nil
}
