// Package normalize turns raw vendor listings into canonical Job records and
// runs the recency, keyword and location filters over them.
package normalize

import (
	"time"

	"github.com/jonathan/jobscout/internal/dates"
	"github.com/jonathan/jobscout/internal/fieldpath"
	"github.com/jonathan/jobscout/internal/filtering"
	"github.com/jonathan/jobscout/internal/types"
)

// Rejection names the filter that dropped a listing. The zero value means
// the listing was kept.
type Rejection string

const (
	Kept             Rejection = ""
	RejectedRecency  Rejection = "recency"
	RejectedKeyword  Rejection = "keyword"
	RejectedLocation Rejection = "location"
)

// Stats counts listing outcomes for one fetch.
type Stats struct {
	Seen      int `json:"seen"`
	Kept      int `json:"kept"`
	Recency   int `json:"rejected_recency"`
	Keyword   int `json:"rejected_keyword"`
	Location  int `json:"rejected_location"`
	Malformed int `json:"malformed"`
	Duplicate int `json:"duplicate"`
}

// Record tallies one outcome.
func (s *Stats) Record(r Rejection) {
	s.Seen++
	switch r {
	case Kept:
		s.Kept++
	case RejectedRecency:
		s.Recency++
	case RejectedKeyword:
		s.Keyword++
	case RejectedLocation:
		s.Location++
	}
}

// Add merges other into s.
func (s *Stats) Add(other Stats) {
	s.Seen += other.Seen
	s.Kept += other.Kept
	s.Recency += other.Recency
	s.Keyword += other.Keyword
	s.Location += other.Location
	s.Malformed += other.Malformed
	s.Duplicate += other.Duplicate
}

// Normalizer applies one run's filter settings. now is fixed at construction
// so every listing in a pass is judged against the same instant.
type Normalizer struct {
	hours      int
	keywords   filtering.KeywordFilter
	classifier *filtering.Classifier
	now        time.Time
}

// New creates a Normalizer. A nil classifier uses the built-in lists.
func New(filters types.FilterConfig, classifier *filtering.Classifier, now time.Time) *Normalizer {
	if classifier == nil {
		classifier = filtering.NewClassifier(filtering.DefaultLists())
	}
	return &Normalizer{
		hours:      filters.HoursLimit,
		keywords:   filtering.NewKeywordFilter(filters.Keywords, filters.ExcludeKeywords),
		classifier: classifier,
		now:        now,
	}
}

// Now returns the reference time for this pass.
func (n *Normalizer) Now() time.Time {
	return n.now
}

// Extract builds a Job from listing using the source's field mapping. Missing
// fields become empty strings and an unparseable date becomes unknown.
func (n *Normalizer) Extract(listing types.RawListing, source types.SourceDescriptor, company string) types.Job {
	dateRaw, _ := fieldpath.Get(listing, source.Date)
	return types.Job{
		Title:    field(listing, source.Title),
		Company:  company,
		Source:   source.Name,
		Location: field(listing, source.Location),
		PostedAt: dates.ParseAt(dateRaw, source.DateFormat, n.now),
		ApplyURL: field(listing, source.URL),
	}
}

// Filter runs recency, keyword and location checks in that order and stops
// at the first failure.
func (n *Normalizer) Filter(job types.Job) Rejection {
	if !dates.WithinHours(job.PostedAt, n.hours, n.now) {
		return RejectedRecency
	}
	if !n.keywords.Match(job.Title) {
		return RejectedKeyword
	}
	if !n.classifier.Classify(job.Location).Accepted() {
		return RejectedLocation
	}
	return Kept
}

// Normalize extracts and filters a single listing.
func (n *Normalizer) Normalize(listing types.RawListing, source types.SourceDescriptor, company string) (types.Job, Rejection) {
	job := n.Extract(listing, source, company)
	return job, n.Filter(job)
}

// NormalizeAll normalizes every listing, keeping the survivors in input
// order. Elements that are not JSON objects are counted as malformed.
func (n *Normalizer) NormalizeAll(listings []any, source types.SourceDescriptor, company string) ([]types.Job, Stats) {
	var (
		jobs  []types.Job
		stats Stats
	)
	for _, item := range listings {
		listing, ok := item.(map[string]any)
		if !ok {
			stats.Malformed++
			continue
		}
		job, rejection := n.Normalize(listing, source, company)
		stats.Record(rejection)
		if rejection == Kept {
			jobs = append(jobs, job)
		}
	}
	return jobs, stats
}
