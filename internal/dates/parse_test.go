package dates

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/jobscout/internal/types"
)

func TestParse_ISO(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  time.Time
	}{
		{"zulu", "2024-05-01T12:30:00Z", time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{"zulu with fraction", "2024-05-01T12:30:00.250Z", time.Date(2024, 5, 1, 12, 30, 0, 250_000_000, time.UTC)},
		{"offset", "2024-05-01T08:30:00-04:00", time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{"offset without colon", "2024-05-01T14:30:00+0200", time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{"hour-only offset", "2025-01-02T03:04:05+05", time.Date(2025, 1, 1, 22, 4, 5, 0, time.UTC)},
		{"hour-only negative offset", "2024-05-01T08:30:00.5-04", time.Date(2024, 5, 1, 12, 30, 0, 500_000_000, time.UTC)},
		{"naive", "2024-05-01T12:30:00", time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{"space separator", "2024-05-01 12:30:00", time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{"date only", "2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.value, types.DateISO)
			assert.True(t, got.Known())
			assert.True(t, tt.want.Equal(got.Time()), "got %s", got.Time())
			assert.Equal(t, time.UTC, got.Time().Location())
		})
	}
}

func TestParse_Unknown(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		format types.DateFormat
	}{
		{"malformed iso", "not-a-date", types.DateISO},
		{"nil iso", nil, types.DateISO},
		{"empty string", "", types.DateISO},
		{"number as iso", float64(1700000000), types.DateISO},
		{"zero millis", float64(0), types.DateUnixMS},
		{"zero json number", json.Number("0"), types.DateUnixS},
		{"string millis", "1700000000000", types.DateUnixMS},
		{"bool", true, types.DateUnixS},
		{"out of range", float64(1e20), types.DateUnixS},
		{"unknown format", "2024-05-01", types.DateFormat("rfc822")},
		{"empty map", map[string]any{}, types.DateISO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, Parse(tt.value, tt.format).Known())
			})
		})
	}
}

func TestParse_UnixMillis(t *testing.T) {
	got := Parse(float64(1700000000000), types.DateUnixMS)
	assert.True(t, got.Known())
	assert.Equal(t, 2023, got.Time().Year())
	assert.Equal(t, "2023-11-14 22:13 UTC", got.String())

	fromNumber := Parse(json.Number("1700000000000"), types.DateUnixMS)
	assert.Equal(t, got, fromNumber)

	fromInt := Parse(int64(1700000000000), types.DateUnixMS)
	assert.Equal(t, got, fromInt)
}

func TestParse_UnixSeconds(t *testing.T) {
	got := Parse(json.Number("1700000000.5"), types.DateUnixS)
	assert.True(t, got.Known())
	assert.Equal(t, time.Unix(1700000000, 500_000_000).UTC(), got.Time())
}

func TestParseRelative(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		phrase string
		want   types.Instant
	}{
		{"Posted Today", types.At(now)},
		{"Posted Yesterday", types.At(now.Add(-24 * time.Hour))},
		{"Posted 3 Days Ago", types.At(now.AddDate(0, 0, -3))},
		{"Posted 1 Day Ago", types.At(now.AddDate(0, 0, -1))},
		{"Posted 30+ Days Ago", types.At(now.AddDate(0, 0, -30))},
		{"Posted", types.UnknownInstant},
		{"Closing soon", types.UnknownInstant},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRelative(tt.phrase, now))
		})
	}
}

func TestParseFirst(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

	iso := ParseFirst("2025-06-10T09:00:00Z", now, types.DateISO, types.DateRelative)
	assert.Equal(t, "2025-06-10 09:00 UTC", iso.String())

	rel := ParseFirst("Posted Today", now, types.DateISO, types.DateRelative)
	assert.Equal(t, types.At(now), rel)

	none := ParseFirst("soon", now, types.DateISO, types.DateRelative)
	assert.False(t, none.Known())
}

func TestWithinHours(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	assert.False(t, WithinHours(types.UnknownInstant, 24, now))
	assert.False(t, WithinHours(types.UnknownInstant, 100000, now))

	assert.True(t, WithinHours(types.At(now.Add(-23*time.Hour)), 24, now))
	assert.True(t, WithinHours(types.At(now.Add(-24*time.Hour)), 24, now), "boundary is inclusive")
	assert.False(t, WithinHours(types.At(now.Add(-25*time.Hour)), 24, now))
	assert.True(t, WithinHours(types.At(now.Add(time.Hour)), 24, now), "future postings are recent")
}
