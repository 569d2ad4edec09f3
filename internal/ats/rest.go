package ats

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/fieldpath"
	"github.com/jonathan/jobscout/internal/types"
)

// RESTAdapter issues a single GET per company and reads a JSON listing array.
type RESTAdapter struct {
	deps Deps
}

// NewRESTAdapter creates a REST adapter.
func NewRESTAdapter(deps Deps) *RESTAdapter {
	return &RESTAdapter{deps: deps.withDefaults()}
}

// Strategy implements Adapter.
func (a *RESTAdapter) Strategy() types.FetchStrategy {
	return types.StrategyREST
}

// Endpoint substitutes the company slug into the source's base URL.
func (a *RESTAdapter) Endpoint(source types.SourceDescriptor, company types.CompanySelector) string {
	return strings.ReplaceAll(source.BaseURL, "{company}", company.Slug)
}

// Fetch implements Adapter.
func (a *RESTAdapter) Fetch(ctx context.Context, source types.SourceDescriptor, company types.CompanySelector, filters types.FilterConfig) (res Result) {
	start := time.Now()
	res = newResult(source, company)
	defer func() { res.Duration = time.Since(start) }()

	endpoint := a.Endpoint(source, company)
	res.Requests++

	var data any
	if err := a.deps.Client.GetJSON(ctx, endpoint, &data); err != nil {
		a.deps.Logger.Warn("rest fetch failed",
			slog.String("source", source.Name),
			slog.String("company", res.Company),
			slog.Any("error", err))
		res.fail(err)
		return res
	}

	listings, err := listingArray(data, source.JobsKey)
	if err != nil {
		res.fail(&fetch.Error{URL: endpoint, Message: "unexpected response shape", Cause: err})
		return res
	}

	n := a.deps.normalizer(filters)
	res.Jobs, res.Stats = n.NormalizeAll(listings, source, res.Company)
	return res
}

// listingArray extracts the listing array from a decoded REST response. With
// a jobs key the array lives at that dot path, otherwise the document itself
// must be an array.
func listingArray(data any, jobsKey string) ([]any, error) {
	if jobsKey == "" {
		arr, ok := data.([]any)
		if !ok {
			return nil, fmt.Errorf("response is not a JSON array")
		}
		return arr, nil
	}

	v, ok := fieldpath.Get(data, jobsKey)
	if !ok {
		return nil, fmt.Errorf("jobs key %q not found", jobsKey)
	}
	if v == nil {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("jobs key %q is not an array", jobsKey)
	}
	return arr, nil
}
