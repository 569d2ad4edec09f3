package ats

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/jobscout/internal/dates"
	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/normalize"
	"github.com/jonathan/jobscout/internal/types"
)

// DefaultWorkdayURL is the public Workday candidate search endpoint.
const DefaultWorkdayURL = "https://{slug}.wd{instance}.myworkdayjobs.com/wday/cxs/{slug}/{site}/jobs"

// DefaultSearchTerms are issued in order, one query each. Workday search
// cannot list every posting without a search term.
var DefaultSearchTerms = []string{"java", "software engineer", "backend", "python", "full stack"}

const workdayPageSize = 20

type workdaySearch struct {
	AppliedFacets map[string]any `json:"appliedFacets"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
	SearchText    string         `json:"searchText"`
}

type workdayPosting struct {
	Title         string `json:"title"`
	PostedOn      any    `json:"postedOn"`
	LocationsText string `json:"locationsText"`
	ExternalPath  string `json:"externalPath"`
}

type workdayResponse struct {
	JobPostings []workdayPosting `json:"jobPostings"`
}

// WorkdayAdapter runs one search query per term and merges the results,
// keeping the first posting seen for each exact title.
type WorkdayAdapter struct {
	deps Deps
}

// NewWorkdayAdapter creates a Workday adapter.
func NewWorkdayAdapter(deps Deps) *WorkdayAdapter {
	return &WorkdayAdapter{deps: deps.withDefaults()}
}

// Strategy implements Adapter.
func (a *WorkdayAdapter) Strategy() types.FetchStrategy {
	return types.StrategyWorkday
}

// Endpoint builds the search URL from the company's routing fields.
func (a *WorkdayAdapter) Endpoint(source types.SourceDescriptor, company types.CompanySelector) (string, error) {
	var missing []string
	if company.Slug == "" {
		missing = append(missing, "slug")
	}
	if company.Instance == "" {
		missing = append(missing, "instance")
	}
	if company.Site == "" {
		missing = append(missing, "site")
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("workday company %q is missing %s", company.DisplayName(), strings.Join(missing, ", "))
	}

	tmpl := source.BaseURL
	if tmpl == "" {
		tmpl = DefaultWorkdayURL
	}
	return strings.NewReplacer(
		"{slug}", company.Slug,
		"{company}", company.Slug,
		"{instance}", company.Instance,
		"{site}", company.Site,
	).Replace(tmpl), nil
}

// SearchTerms returns the source's terms or the defaults.
func SearchTerms(source types.SourceDescriptor) []string {
	if len(source.SearchTerms) > 0 {
		return source.SearchTerms
	}
	return DefaultSearchTerms
}

// Fetch implements Adapter.
func (a *WorkdayAdapter) Fetch(ctx context.Context, source types.SourceDescriptor, company types.CompanySelector, filters types.FilterConfig) (res Result) {
	start := time.Now()
	res = newResult(source, company)
	defer func() { res.Duration = time.Since(start) }()

	endpoint, err := a.Endpoint(source, company)
	if err != nil {
		res.fail(err)
		return res
	}
	origin, err := originOf(endpoint)
	if err != nil {
		res.fail(&fetch.Error{URL: endpoint, Message: "invalid URL", Cause: err})
		return res
	}

	n := a.deps.normalizer(filters)
	seen := make(map[string]bool)

	for _, term := range SearchTerms(source) {
		if ctx.Err() != nil {
			res.fail(ctx.Err())
			break
		}

		res.Requests++
		var resp workdayResponse
		payload := workdaySearch{
			AppliedFacets: map[string]any{},
			Limit:         workdayPageSize,
			Offset:        0,
			SearchText:    term,
		}
		if err := a.deps.Client.PostJSON(ctx, endpoint, payload, &resp); err != nil {
			a.deps.Logger.Warn("workday query failed",
				slog.String("company", res.Company),
				slog.String("term", term),
				slog.Any("error", err))
			res.fail(err)
			continue
		}

		for _, p := range resp.JobPostings {
			job := types.Job{
				Title:    p.Title,
				Company:  res.Company,
				Source:   source.Name,
				Location: p.LocationsText,
				PostedAt: dates.ParseFirst(p.PostedOn, n.Now(), types.DateISO, types.DateRelative),
				ApplyURL: origin + p.ExternalPath,
			}

			rejection := n.Filter(job)
			res.Stats.Record(rejection)
			if rejection != normalize.Kept {
				continue
			}
			if seen[job.Title] {
				res.Stats.Kept--
				res.Stats.Duplicate++
				continue
			}
			seen[job.Title] = true
			res.Jobs = append(res.Jobs, job)
		}
	}

	return res
}

func originOf(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("endpoint %q has no scheme or host", endpoint)
	}
	return u.Scheme + "://" + u.Host, nil
}
