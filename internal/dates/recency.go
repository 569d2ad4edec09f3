package dates

import (
	"time"

	"github.com/jonathan/jobscout/internal/types"
)

// WithinHours reports whether at falls inside the window [now-hours, ...].
// Unknown instants are never within any window.
func WithinHours(at types.Instant, hours int, now time.Time) bool {
	if !at.Known() {
		return false
	}
	cutoff := now.Add(-time.Duration(hours) * time.Hour)
	return !at.Time().Before(cutoff)
}
