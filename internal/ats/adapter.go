// Package ats implements one fetch adapter per ATS wire protocol.
//
// Adapters never panic and never return an error value: transport and decode
// failures are recorded on the Result so the caller can see them while the
// run carries on with the next company.
package ats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/filtering"
	"github.com/jonathan/jobscout/internal/normalize"
	"github.com/jonathan/jobscout/internal/types"
)

// Result is the outcome of fetching one (source, company) pair.
type Result struct {
	Source   string
	Company  string
	Jobs     []types.Job
	Stats    normalize.Stats
	Requests int
	Failures []error
	Duration time.Duration
}

// Failed reports whether the fetch produced nothing because of failures.
func (r Result) Failed() bool {
	return len(r.Jobs) == 0 && len(r.Failures) > 0
}

// Err joins all recorded failures.
func (r Result) Err() error {
	return errors.Join(r.Failures...)
}

func (r *Result) fail(err error) {
	r.Failures = append(r.Failures, err)
}

// Adapter fetches and normalizes listings for one strategy.
type Adapter interface {
	Strategy() types.FetchStrategy
	Fetch(ctx context.Context, source types.SourceDescriptor, company types.CompanySelector, filters types.FilterConfig) Result
}

// Deps are the collaborators shared by all adapters.
type Deps struct {
	Client     *fetch.Client
	Classifier *filtering.Classifier
	Logger     *slog.Logger
	Now        func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Client == nil {
		d.Client = fetch.NewClient(nil)
	}
	if d.Classifier == nil {
		d.Classifier = filtering.NewClassifier(filtering.DefaultLists())
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

func (d Deps) normalizer(filters types.FilterConfig) *normalize.Normalizer {
	return normalize.New(filters, d.Classifier, d.Now().UTC())
}

// Registry maps strategies to adapters.
type Registry map[types.FetchStrategy]Adapter

// NewRegistry wires the three built-in adapters over shared deps.
func NewRegistry(deps Deps) Registry {
	deps = deps.withDefaults()
	r := Registry{}
	r.Register(NewRESTAdapter(deps))
	r.Register(NewGraphQLAdapter(deps))
	r.Register(NewWorkdayAdapter(deps))
	return r
}

// Register adds or replaces the adapter for its strategy.
func (r Registry) Register(a Adapter) {
	r[a.Strategy()] = a
}

// UnsupportedStrategyError is returned for a strategy with no adapter.
type UnsupportedStrategyError struct {
	Strategy types.FetchStrategy
}

func (e *UnsupportedStrategyError) Error() string {
	return fmt.Sprintf("unsupported fetch strategy %q", e.Strategy)
}

// Lookup returns the adapter for strategy.
func (r Registry) Lookup(strategy types.FetchStrategy) (Adapter, error) {
	a, ok := r[strategy]
	if !ok {
		return nil, &UnsupportedStrategyError{Strategy: strategy}
	}
	return a, nil
}

// Fetch resolves the adapter for source and runs it. An unknown strategy is
// reported as a failed Result like any other failure.
func (r Registry) Fetch(ctx context.Context, source types.SourceDescriptor, company types.CompanySelector, filters types.FilterConfig) Result {
	a, err := r.Lookup(source.Strategy)
	if err != nil {
		res := newResult(source, company)
		res.fail(err)
		return res
	}
	return a.Fetch(ctx, source, company, filters)
}

func newResult(source types.SourceDescriptor, company types.CompanySelector) Result {
	return Result{Source: source.Name, Company: company.DisplayName()}
}
