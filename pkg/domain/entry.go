package domain

import (
	"time"

	"github.com/araddon/dateparse"
)

// Tag is a single category marker attached to a feed entry. Feeds disagree on
// whether the value lives in term or label, so both are kept.
type Tag struct {
	Term  string
	Label string
}

// Entry is one item from the changelog feed. Feeds are sparse and
// inconsistent, so every field is optional and read sites must tolerate
// zero values.
type Entry struct {
	ID              string // guid/id as reported by the feed
	Title           string
	Link            string
	Summary         string // raw HTML
	Tags            []Tag
	Category        string
	Published       string // raw date string as given by the feed
	PublishedParsed *time.Time
}

// EffectiveTime resolves the entry timestamp. The raw published string is
// preferred since some feeds carry timezone details the pre-parsed value
// loses; the pre-parsed value is the fallback, and entries with no date at
// all get the current time. Result is always UTC.
func (e Entry) EffectiveTime() time.Time {
	if e.Published != "" {
		if ts, err := dateparse.ParseAny(e.Published); err == nil {
			return ts.UTC()
		}
	}
	if e.PublishedParsed != nil {
		return e.PublishedParsed.UTC()
	}
	return time.Now().UTC()
}
