package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobscout/internal/config"
)

var scheduleEvery time.Duration

var scheduleCommand = &cobra.Command{
	Use:   "schedule",
	Short: "Run the scrape on an interval without the HTTP API",
	Long: `Runs immediately, then every --every interval until interrupted. Results
go to the database and redis when DATABASE_URL and REDIS_URL are set.`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func init() {
	scheduleCommand.Flags().DurationVar(&scheduleEvery, "every", 0, "Interval between runs, e.g. 6h (defaults to JOBSCOUT_SCHEDULE)")
	rootCmd.AddCommand(scheduleCommand)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := config.LoadEnv()
	if cmd.Flags().Changed("every") {
		env.Schedule = scheduleEvery
	}
	if env.Schedule <= 0 {
		return errors.New("an interval is required: pass --every or set JOBSCOUT_SCHEDULE")
	}

	logger, closeLog := setupLogger(env, false, false)
	defer func() { _ = closeLog() }()

	svc, b, err := newService(ctx, env, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	sched, err := newScheduler(svc, env.Schedule, logger)
	if err != nil {
		return err
	}
	if err := sched.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sched.Stop(stopCtx)
	return nil
}
