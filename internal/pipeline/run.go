// Package pipeline orchestrates a scrape run across every configured source
// and company.
package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobscout/internal/ats"
	"github.com/jonathan/jobscout/internal/normalize"
	"github.com/jonathan/jobscout/internal/types"
)

// DefaultDelay is the pause between companies.
const DefaultDelay = 400 * time.Millisecond

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step    string `json:"step"`
	Source  string `json:"source"`
	Company string `json:"company,omitempty"`
	Total   int    `json:"total,omitempty"`
	Jobs    int    `json:"jobs"`
	Failed  bool   `json:"failed,omitempty"`
}

// Progress steps.
const (
	StepSourceStarted = "source_started"
	StepCompanyDone   = "company_done"
)

// ProgressCallback is called when run progress occurs
type ProgressCallback func(event ProgressEvent)

// Fetcher fetches one (source, company) pair. ats.Registry implements it.
type Fetcher interface {
	Fetch(ctx context.Context, source types.SourceDescriptor, company types.CompanySelector, filters types.FilterConfig) ats.Result
}

// RunOptions holds configuration for a run
type RunOptions struct {
	Filters types.FilterConfig
	Sources []types.SourceDescriptor
	// Delay separates consecutive companies handled by the same worker.
	Delay time.Duration
	// Concurrency above 1 fetches that many companies at once.
	Concurrency int
	OnProgress  ProgressCallback
}

// CompanyCount returns the number of companies the run will fetch.
func (o RunOptions) CompanyCount() int {
	n := 0
	for _, src := range o.Sources {
		n += len(src.Companies)
	}
	return n
}

// CompanyResult is the outcome for one (source, company) pair.
type CompanyResult struct {
	Source   string          `json:"source"`
	Company  string          `json:"company"`
	Jobs     []types.Job     `json:"jobs"`
	Stats    normalize.Stats `json:"stats"`
	Requests int             `json:"requests"`
	Errors   []string        `json:"errors,omitempty"`
	Duration time.Duration   `json:"duration_ns"`
}

// Failed reports whether the company yielded nothing because of failures.
func (c CompanyResult) Failed() bool {
	return len(c.Jobs) == 0 && len(c.Errors) > 0
}

// Summary is the result of a run. Results keep configuration order.
type Summary struct {
	RunID      uuid.UUID          `json:"run_id"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Filters    types.FilterConfig `json:"filters"`
	Results    []CompanyResult    `json:"results"`
}

// Jobs returns every job in configuration order.
func (s *Summary) Jobs() []types.Job {
	var out []types.Job
	for _, r := range s.Results {
		out = append(out, r.Jobs...)
	}
	if out == nil {
		out = []types.Job{}
	}
	return out
}

// TotalJobs counts jobs across all companies.
func (s *Summary) TotalJobs() int {
	n := 0
	for _, r := range s.Results {
		n += len(r.Jobs)
	}
	return n
}

// FailedCompanies counts companies that failed outright.
func (s *Summary) FailedCompanies() int {
	n := 0
	for _, r := range s.Results {
		if r.Failed() {
			n++
		}
	}
	return n
}

// Stats sums listing outcomes across all companies.
func (s *Summary) Stats() normalize.Stats {
	var total normalize.Stats
	for _, r := range s.Results {
		total.Add(r.Stats)
	}
	return total
}

// Ranked returns companies with at least one job, most jobs first. Ties keep
// configuration order.
func (s *Summary) Ranked() []CompanyResult {
	var out []CompanyResult
	for _, r := range s.Results {
		if len(r.Jobs) > 0 {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Jobs) > len(out[j].Jobs)
	})
	return out
}

// Runner executes runs against a Fetcher.
type Runner struct {
	fetcher Fetcher
	logger  *slog.Logger
	emitMu  sync.Mutex
}

// NewRunner creates a Runner. A nil logger uses slog.Default.
func NewRunner(fetcher Fetcher, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{fetcher: fetcher, logger: logger}
}

type task struct {
	index   int
	source  types.SourceDescriptor
	company types.CompanySelector
	last    bool
}

// Run fetches every configured company. Failures are recorded per company and
// never stop the run. A canceled context ends the run early; the partial
// summary is returned together with the context error.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*Summary, error) {
	summary := &Summary{
		RunID:     uuid.New(),
		StartedAt: time.Now().UTC(),
		Filters:   opts.Filters,
	}

	var tasks []task
	for _, src := range opts.Sources {
		for _, company := range src.Companies {
			tasks = append(tasks, task{index: len(tasks), source: src, company: company})
		}
	}
	if len(tasks) > 0 {
		tasks[len(tasks)-1].last = true
	}

	results := make([]CompanyResult, len(tasks))
	done := make([]bool, len(tasks))

	r.logger.Info("run started",
		slog.String("run_id", summary.RunID.String()),
		slog.Int("sources", len(opts.Sources)),
		slog.Int("companies", len(tasks)),
		slog.Int("hours_limit", opts.Filters.HoursLimit))

	var err error
	if opts.Concurrency > 1 {
		err = r.runConcurrent(ctx, opts, tasks, results, done)
	} else {
		err = r.runSequential(ctx, opts, tasks, results, done)
	}

	for i, ok := range done {
		if ok {
			summary.Results = append(summary.Results, results[i])
		}
	}
	summary.FinishedAt = time.Now().UTC()

	r.logger.Info("run finished",
		slog.String("run_id", summary.RunID.String()),
		slog.Int("jobs", summary.TotalJobs()),
		slog.Int("failed_companies", summary.FailedCompanies()),
		slog.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)))

	return summary, err
}

func (r *Runner) runSequential(ctx context.Context, opts RunOptions, tasks []task, results []CompanyResult, done []bool) error {
	current := ""
	for i, t := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i == 0 || t.source.Name != current {
			current = t.source.Name
			r.emit(opts, ProgressEvent{Step: StepSourceStarted, Source: t.source.Name, Total: len(t.source.Companies)})
		}

		results[i] = r.fetchOne(ctx, opts, t)
		done[i] = true

		if !t.last {
			if err := sleep(ctx, opts.Delay); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Runner) runConcurrent(ctx context.Context, opts RunOptions, tasks []task, results []CompanyResult, done []bool) error {
	for _, src := range opts.Sources {
		r.emit(opts, ProgressEvent{Step: StepSourceStarted, Source: src.Name, Total: len(src.Companies)})
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for _, t := range tasks {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			// each slot is written by exactly one goroutine
			results[t.index] = r.fetchOne(gCtx, opts, t)
			done[t.index] = true
			if t.last {
				return nil
			}
			return sleep(gCtx, opts.Delay)
		})
	}

	return g.Wait()
}

func (r *Runner) fetchOne(ctx context.Context, opts RunOptions, t task) CompanyResult {
	res := r.fetcher.Fetch(ctx, t.source, t.company, opts.Filters)

	cr := CompanyResult{
		Source:   t.source.Name,
		Company:  t.company.DisplayName(),
		Jobs:     res.Jobs,
		Stats:    res.Stats,
		Requests: res.Requests,
		Duration: res.Duration,
	}
	if cr.Jobs == nil {
		cr.Jobs = []types.Job{}
	}
	for _, f := range res.Failures {
		cr.Errors = append(cr.Errors, f.Error())
	}

	attrs := []any{
		slog.String("source", cr.Source),
		slog.String("company", cr.Company),
		slog.Int("jobs", len(cr.Jobs)),
		slog.Int("listings", cr.Stats.Seen),
		slog.Duration("duration", cr.Duration),
	}
	if len(cr.Errors) > 0 {
		r.logger.Warn("company fetched with failures", append(attrs, slog.Any("errors", cr.Errors))...)
	} else {
		r.logger.Info("company fetched", attrs...)
	}

	r.emit(opts, ProgressEvent{
		Step:    StepCompanyDone,
		Source:  cr.Source,
		Company: cr.Company,
		Jobs:    len(cr.Jobs),
		Failed:  cr.Failed(),
	})
	return cr
}

func (r *Runner) emit(opts RunOptions, event ProgressEvent) {
	if opts.OnProgress == nil {
		return
	}
	r.emitMu.Lock()
	defer r.emitMu.Unlock()
	opts.OnProgress(event)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
