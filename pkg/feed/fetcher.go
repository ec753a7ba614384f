package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/ceponatia/copilot-changelog/pkg/domain"
)

// HTTPFetcher fetches and parses the changelog RSS/Atom feed. One fetch per
// run, no retries and no caching; a network or parse failure is a hard error
// for the caller to handle.
type HTTPFetcher struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

// NewHTTPFetcher creates a new feed fetcher with a per-request timeout
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		parser:  gofeed.NewParser(),
		timeout: timeout,
	}
}

// Fetch retrieves and parses the feed at the given URL into domain entries
func (f *HTTPFetcher) Fetch(ctx context.Context, feedURL string) ([]domain.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	parsed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	entries := make([]domain.Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entry := domain.Entry{
			ID:              item.GUID,
			Title:           item.Title,
			Link:            item.Link,
			Summary:         item.Description,
			Published:       item.Published,
			PublishedParsed: item.PublishedParsed,
		}

		// some feeds put the body in content:encoded only
		if entry.Summary == "" {
			entry.Summary = item.Content
		}

		// updated time is the fallback when published is missing
		if entry.Published == "" {
			entry.Published = item.Updated
		}
		if entry.PublishedParsed == nil {
			entry.PublishedParsed = item.UpdatedParsed
		}

		for _, c := range item.Categories {
			entry.Tags = append(entry.Tags, domain.Tag{Term: c})
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
