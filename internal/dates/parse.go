// Package dates normalizes vendor timestamps into canonical UTC instants.
//
// Parsing never fails loudly: any value that cannot be interpreted in the
// requested format becomes types.UnknownInstant.
package dates

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/jonathan/jobscout/internal/types"
)

// isoLayouts are tried in order. Fractional seconds are accepted after the
// seconds field by time.Parse even though the layouts do not spell them out.
var isoLayouts = []string{
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05-07",
	"2006-01-02T15:04-07:00",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04-07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var (
	minInstant = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	maxInstant = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
)

// Parse converts value according to format, using the current time for
// relative phrases.
func Parse(value any, format types.DateFormat) types.Instant {
	return ParseAt(value, format, time.Now())
}

// ParseAt is Parse with an explicit reference time for relative phrases.
func ParseAt(value any, format types.DateFormat, now time.Time) types.Instant {
	if isEmpty(value) {
		return types.UnknownInstant
	}

	switch format {
	case types.DateISO:
		s, ok := value.(string)
		if !ok {
			return types.UnknownInstant
		}
		return parseISO(s)
	case types.DateUnixMS:
		n, ok := toFloat(value)
		if !ok {
			return types.UnknownInstant
		}
		return fromUnix(n / 1000)
	case types.DateUnixS:
		n, ok := toFloat(value)
		if !ok {
			return types.UnknownInstant
		}
		return fromUnix(n)
	case types.DateRelative:
		s, ok := value.(string)
		if !ok {
			return types.UnknownInstant
		}
		return ParseRelative(s, now)
	default:
		return types.UnknownInstant
	}
}

// ParseFirst tries each format in turn and returns the first known instant.
func ParseFirst(value any, now time.Time, formats ...types.DateFormat) types.Instant {
	for _, f := range formats {
		if at := ParseAt(value, f, now); at.Known() {
			return at
		}
	}
	return types.UnknownInstant
}

func parseISO(s string) types.Instant {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return types.At(t)
		}
	}
	return types.UnknownInstant
}

func fromUnix(seconds float64) types.Instant {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return types.UnknownInstant
	}
	if seconds < float64(minInstant.Unix()) || seconds > float64(maxInstant.Unix()) {
		return types.UnknownInstant
	}
	whole, frac := math.Modf(seconds)
	return types.At(time.Unix(int64(whole), int64(math.Round(frac*1e9))))
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// isEmpty mirrors the falsy values vendors use for "no date".
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case json.Number:
		f, err := v.Float64()
		return err == nil && f == 0
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	if f, ok := toFloat(value); ok {
		return f == 0
	}
	return false
}
