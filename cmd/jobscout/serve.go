package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/scheduler"
	"github.com/jonathan/jobscout/internal/server"
	"github.com/jonathan/jobscout/internal/server/ratelimit"
	"github.com/jonathan/jobscout/internal/service"
)

var (
	serveAddr  string
	serveEvery time.Duration
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that triggers runs and serves their results.

With --every (or JOBSCOUT_SCHEDULE) the server also runs the scrape on that
interval, starting immediately.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCommand.Flags().StringVar(&serveAddr, "addr", "", "Listen address (defaults to JOBSCOUT_LISTEN_ADDR, then :8080)")
	serveCommand.Flags().DurationVar(&serveEvery, "every", 0, "Also run on this interval, e.g. 6h (defaults to JOBSCOUT_SCHEDULE)")
	rootCmd.AddCommand(serveCommand)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := config.LoadEnv()
	if cmd.Flags().Changed("addr") {
		env.ListenAddr = serveAddr
	}
	if cmd.Flags().Changed("every") {
		env.Schedule = serveEvery
	}

	logger, closeLog := setupLogger(env, false, false)
	defer func() { _ = closeLog() }()

	svc, b, err := newService(ctx, env, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	if env.Schedule > 0 {
		sched, err := newScheduler(svc, env.Schedule, logger)
		if err != nil {
			return err
		}
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop(context.Background())
	}

	srv := server.New(svc, server.Config{
		Addr:      env.ListenAddr,
		APIKey:    os.Getenv("JOBSCOUT_API_KEY"),
		RateLimit: ratelimit.LoadConfig(os.Getenv),
		Logger:    logger,
	})
	return srv.Start(ctx)
}

// newService loads the config and wires the optional backends from env.
func newService(ctx context.Context, env config.Env, logger *slog.Logger) (*service.Service, *backends, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	opts := service.Options{
		Logger:      logger,
		HTTPTimeout: env.HTTPTimeout,
		Delay:       env.CompanyDelay,
		Concurrency: env.Concurrency,
	}
	b, err := connectBackends(ctx, env.DatabaseURL, env.RedisURL, &opts)
	if err != nil {
		return nil, nil, err
	}
	return service.New(cfg, opts), b, nil
}

// newScheduler runs svc on every tick and logs the outcome.
func newScheduler(svc *service.Service, every time.Duration, logger *slog.Logger) (*scheduler.Scheduler, error) {
	return scheduler.New(every, func(ctx context.Context) {
		summary, err := svc.Execute(ctx, service.Request{})
		switch {
		case errors.Is(err, service.ErrRunInProgress):
			logger.Info("scheduled run skipped", slog.Any("reason", err))
		case summary == nil:
			logger.Error("scheduled run failed", slog.Any("error", err))
		case err != nil:
			logger.Warn("scheduled run ended early",
				slog.String("run_id", summary.RunID.String()),
				slog.Int("jobs", summary.TotalJobs()),
				slog.Any("error", err))
		default:
			logger.Info("scheduled run complete",
				slog.String("run_id", summary.RunID.String()),
				slog.Int("jobs", summary.TotalJobs()),
				slog.Int("failed_companies", summary.FailedCompanies()))
		}
	}, logger)
}
