package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/jobscout/internal/types"
)

var daysAgoPattern = regexp.MustCompile(`^(\d+)\+?\s+days?\s+ago$`)

// ParseRelative interprets Workday-style posting phrases such as
// "Posted Today", "Posted Yesterday", "Posted 3 Days Ago" and
// "Posted 30+ Days Ago" relative to now.
func ParseRelative(s string, now time.Time) types.Instant {
	phrase := strings.ToLower(strings.TrimSpace(s))
	phrase = strings.TrimSpace(strings.TrimPrefix(phrase, "posted"))

	switch phrase {
	case "":
		return types.UnknownInstant
	case "today", "just now":
		return types.At(now)
	case "yesterday":
		return types.At(now.Add(-24 * time.Hour))
	}

	m := daysAgoPattern.FindStringSubmatch(phrase)
	if m == nil {
		return types.UnknownInstant
	}
	days, err := strconv.Atoi(m[1])
	if err != nil {
		return types.UnknownInstant
	}
	return types.At(now.AddDate(0, 0, -days))
}
