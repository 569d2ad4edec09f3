package types

import (
	"encoding/json"
	"time"
)

// PostedAtLayout is the display layout for known posting times.
const PostedAtLayout = "2006-01-02 15:04 UTC"

// UnknownPostedAt is rendered when a posting time could not be determined.
const UnknownPostedAt = "Unknown"

// Instant is a canonical UTC time or the unknown sentinel.
type Instant struct {
	t time.Time
}

// UnknownInstant is the sentinel for a posting time that could not be parsed.
var UnknownInstant = Instant{}

// At wraps t as a known instant, converted to UTC.
func At(t time.Time) Instant {
	if t.IsZero() {
		return UnknownInstant
	}
	return Instant{t: t.UTC()}
}

// Known reports whether the instant carries a time.
func (i Instant) Known() bool {
	return !i.t.IsZero()
}

// Time returns the UTC time, or the zero time when unknown.
func (i Instant) Time() time.Time {
	return i.t
}

func (i Instant) String() string {
	if !i.Known() {
		return UnknownPostedAt
	}
	return i.t.Format(PostedAtLayout)
}

// MarshalJSON renders the display form used by job exports.
func (i Instant) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

// UnmarshalJSON parses the display form back into an instant.
func (i *Instant) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" || s == UnknownPostedAt {
		*i = UnknownInstant
		return nil
	}
	t, err := time.Parse(PostedAtLayout, s)
	if err != nil {
		return err
	}
	*i = At(t)
	return nil
}

// Job is the canonical record produced for every listing that survives filtering.
type Job struct {
	Title    string  `json:"title"`
	Company  string  `json:"company"`
	Source   string  `json:"ats"`
	Location string  `json:"location"`
	PostedAt Instant `json:"posted_at"`
	ApplyURL string  `json:"apply_url"`
}

// RawListing is one undecoded vendor record. Numbers are kept as json.Number.
type RawListing = map[string]any
