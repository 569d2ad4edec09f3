package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/export"
	"github.com/jonathan/jobscout/internal/observability"
	"github.com/jonathan/jobscout/internal/service"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Scrape every configured company once and report the matches",
	Long: `Fetches every company of every configured source, keeps listings that are
recent, match the keywords and are located in the USA, prints a report and
writes the jobs to a JSON file.

Command-line flags override the config file for this run only.`,
	RunE: runScrapeCmd,
}

var (
	runHours       int
	runKeywords    []string
	runExclude     []string
	runSources     []string
	runOut         string
	runCSV         string
	runDatabaseURL string
	runConcurrency int
	runDelay       time.Duration
	runVerbose     bool
)

func init() {
	runCommand.Flags().IntVar(&runHours, "hours", 0, "Recency window in hours (overrides filters.hours_limit)")
	runCommand.Flags().StringSliceVarP(&runKeywords, "keyword", "k", nil, "Include keyword, repeatable (overrides filters.keywords)")
	runCommand.Flags().StringSliceVarP(&runExclude, "exclude", "x", nil, "Exclude keyword, repeatable (overrides filters.exclude_keywords)")
	runCommand.Flags().StringSliceVarP(&runSources, "source", "s", nil, "Only run the named sources, repeatable")
	runCommand.Flags().StringVarP(&runOut, "out", "o", export.DefaultJSONPath, "JSON output path")
	runCommand.Flags().StringVar(&runCSV, "csv", "", "Also write a CSV file to this path")
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL URL for run history (defaults to DATABASE_URL)")
	runCommand.Flags().IntVar(&runConcurrency, "concurrency", 0, "Companies fetched at once (defaults to JOBSCOUT_CONCURRENCY, then 1)")
	runCommand.Flags().DurationVar(&runDelay, "delay", 0, "Pause between companies (defaults to JOBSCOUT_COMPANY_DELAY, then 400ms)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Log filter decisions at debug level")

	rootCmd.AddCommand(runCommand)
}

// runRequest turns explicitly set flags into a per-run override.
func runRequest(flags *pflag.FlagSet) (service.Request, error) {
	var req service.Request
	if flags.Changed("hours") {
		if runHours <= 0 {
			return req, fmt.Errorf("--hours must be positive, got %d", runHours)
		}
		req.HoursLimit = runHours
	}
	if flags.Changed("keyword") {
		req.Keywords = runKeywords
	}
	if flags.Changed("exclude") {
		req.ExcludeKeywords = runExclude
	}
	if flags.Changed("source") {
		req.Sources = runSources
	}
	return req, nil
}

// applyRuntimeFlags layers flag values over the environment.
func applyRuntimeFlags(flags *pflag.FlagSet, env *config.Env) {
	if flags.Changed("db-url") {
		env.DatabaseURL = runDatabaseURL
	}
	if flags.Changed("concurrency") {
		env.Concurrency = runConcurrency
	}
	if flags.Changed("delay") {
		env.CompanyDelay = runDelay
	}
}

func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := config.LoadEnv()
	applyRuntimeFlags(cmd.Flags(), &env)

	logger, closeLog := setupLogger(env, runVerbose, true)
	defer func() { _ = closeLog() }()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	req, err := runRequest(cmd.Flags())
	if err != nil {
		return err
	}

	opts := service.Options{
		Logger:      logger,
		HTTPTimeout: env.HTTPTimeout,
		Delay:       env.CompanyDelay,
		Concurrency: env.Concurrency,
	}
	// redis is for coordinating long-running processes; a one-off run skips it
	b, err := connectBackends(ctx, env.DatabaseURL, "", &opts)
	if err != nil {
		return err
	}
	defer b.Close()

	svc := service.New(cfg, opts)
	runOpts, err := svc.Options(req)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintRunHeader(len(runOpts.Sources), runOpts.CompanyCount(), runOpts.Filters, time.Now())
	req.OnProgress = printer.Progress

	summary, runErr := svc.Execute(ctx, req)
	if summary == nil {
		return runErr
	}

	printer.PrintResults(summary)
	printer.PrintSummary(summary)

	jobs := summary.Jobs()
	if err := export.SaveJSON(runOut, jobs); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n  Saved %s (%d USA jobs)\n", runOut, len(jobs)) //nolint:errcheck
	if runCSV != "" {
		if err := export.SaveCSV(runCSV, jobs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  Saved %s\n", runCSV) //nolint:errcheck
	}

	if runErr != nil {
		return fmt.Errorf("run interrupted, partial results saved: %w", runErr)
	}
	return nil
}
