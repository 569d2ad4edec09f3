package ats

import (
	"io"
	"log/slog"
	"time"

	"github.com/jonathan/jobscout/internal/types"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func testDeps() Deps {
	return Deps{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    func() time.Time { return testNow },
	}
}

func testFilters() types.FilterConfig {
	return types.FilterConfig{
		HoursLimit:      24,
		Keywords:        []string{"java", "python", "software engineer", "backend"},
		ExcludeKeywords: []string{"senior", "staff"},
	}
}

// recent returns an ISO timestamp hoursAgo before testNow.
func recent(hoursAgo int) string {
	return testNow.Add(-time.Duration(hoursAgo) * time.Hour).Format(time.RFC3339)
}
