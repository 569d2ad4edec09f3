// Package observability provides formatted console output for scrape runs.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/jobscout/internal/pipeline"
	"github.com/jonathan/jobscout/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// ruleWidth is the width of section separators
	ruleWidth = 70
	// companyColumn is the padded width of company names in progress lines
	companyColumn = 30
)

// Printer handles formatted run output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	if content != "" {
		fmt.Fprintf(p.out, "├%s┤\n", border)
		for _, line := range strings.Split(content, "\n") {
			fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
		}
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) rule(ch string) {
	fmt.Fprintln(p.out, strings.Repeat(ch, ruleWidth))
}

// PrintRunHeader prints the banner shown before any company is fetched.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRunHeader(sources, companies int, filters types.FilterConfig, at time.Time) {
	p.rule("═")
	fmt.Fprintf(p.out, "  JOB SCOUT  |  %d sources  |  %d companies  |  USA only  |  last %dh\n",
		sources, companies, filters.HoursLimit)
	fmt.Fprintf(p.out, "  keywords: %s\n", strings.Join(filters.Keywords, ", "))
	if len(filters.ExcludeKeywords) > 0 {
		fmt.Fprintf(p.out, "  excluding: %s\n", strings.Join(filters.ExcludeKeywords, ", "))
	}
	fmt.Fprintf(p.out, "  started: %s\n", at.Format("2006-01-02 15:04"))
	p.rule("═")
}

// Progress renders pipeline progress events as they arrive.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) Progress(event pipeline.ProgressEvent) {
	switch event.Step {
	case pipeline.StepSourceStarted:
		fmt.Fprintln(p.out)
		p.rule("▓")
		fmt.Fprintf(p.out, "  [%s]  %d companies\n", strings.ToUpper(event.Source), event.Total)
		p.rule("▓")
	case pipeline.StepCompanyDone:
		status := "none"
		switch {
		case event.Failed:
			status = "failed"
		case event.Jobs > 0:
			status = fmt.Sprintf("%d found", event.Jobs)
		}
		fmt.Fprintf(p.out, "  %-*s %s\n", companyColumn, event.Company, status)
	}
}

// PrintCompanyBlock prints every job found for one company.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintCompanyBlock(result pipeline.CompanyResult) {
	p.printBox(fmt.Sprintf("%s [%s] - %d job(s)", result.Company, result.Source, len(result.Jobs)), "")
	for i, job := range result.Jobs {
		fmt.Fprintf(p.out, "\n    #%d\n", i+1)
		fmt.Fprintf(p.out, "    title:    %s\n", job.Title)
		fmt.Fprintf(p.out, "    location: %s\n", job.Location)
		fmt.Fprintf(p.out, "    posted:   %s\n", job.PostedAt)
		fmt.Fprintf(p.out, "    apply:    %s\n", job.ApplyURL)
	}
	fmt.Fprintln(p.out)
}

// PrintResults prints company blocks, most jobs first, or a hint when the
// run found nothing.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintResults(summary *pipeline.Summary) {
	if summary == nil {
		return
	}

	fmt.Fprintln(p.out)
	p.rule("═")
	fmt.Fprintln(p.out, "  DETAILED RESULTS - COMPANY BY COMPANY")
	p.rule("═")

	ranked := summary.Ranked()
	if len(ranked) == 0 {
		fmt.Fprintf(p.out, "\n  No matching USA jobs found in the last %dh.\n", summary.Filters.HoursLimit)
		fmt.Fprintln(p.out, "  Try a larger hours_limit or broader keywords.")
		fmt.Fprintln(p.out)
		return
	}
	for _, r := range ranked {
		p.PrintCompanyBlock(r)
	}
}

// PrintSummary prints the per-company job count table.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSummary(summary *pipeline.Summary) {
	if summary == nil {
		return
	}

	fmt.Fprintln(p.out)
	p.rule("═")
	fmt.Fprintf(p.out, "  SUMMARY  (USA only | last %dh)\n", summary.Filters.HoursLimit)
	p.rule("═")
	fmt.Fprintf(p.out, "  %-4s%-30s%-16s%s\n", "#", "Company", "ATS", "Jobs")
	fmt.Fprintf(p.out, "  %s\n", strings.Repeat("─", 58))

	for i, r := range summary.Ranked() {
		fmt.Fprintf(p.out, "  %-4d%-30s%-16s%d\n", i+1, truncate(r.Company, 29), truncate(r.Source, 15), len(r.Jobs))
	}

	fmt.Fprintf(p.out, "  %s\n", strings.Repeat("─", 58))
	fmt.Fprintf(p.out, "  %-50s%d\n", "TOTAL USA JOBS", summary.TotalJobs())
	if failed := summary.FailedCompanies(); failed > 0 {
		fmt.Fprintf(p.out, "  %-50s%d\n", "COMPANIES FAILED", failed)
	}
	stats := summary.Stats()
	fmt.Fprintf(p.out, "  listings seen %d | recency %d | keyword %d | location %d | duplicate %d\n",
		stats.Seen, stats.Recency, stats.Keyword, stats.Location, stats.Duplicate)
	p.rule("═")
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
