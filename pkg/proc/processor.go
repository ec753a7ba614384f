package proc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/ceponatia/copilot-changelog/pkg/domain"
	"github.com/ceponatia/copilot-changelog/pkg/feed"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/summarizer.go -pkg mocks -skip-ensure -fmt goimports . Summarizer
//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

// Fetcher retrieves the changelog feed
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]domain.Entry, error)
}

// Summarizer produces the embed description and the thread title for an entry
type Summarizer interface {
	Summarize(ctx context.Context, e domain.Entry) string
	ThreadTitle(ctx context.Context, e domain.Entry) string
}

// Notifier delivers rendered embeds to the webhook
type Notifier interface {
	Send(ctx context.Context, embeds []domain.Embed, threadName string) error
}

// Store persists the set of delivered entry identifiers
type Store interface {
	Load() (map[string]struct{}, error)
	Save(ids []string) error
}

// ErrDelivery indicates at least one webhook post failed; entries from failed
// posts stay unseen and will be retried on the next run
var ErrDelivery = errors.New("delivery failed")

// Config holds pipeline settings
type Config struct {
	FeedURL        string
	Keyword        string          // relevance filter, e.g. "copilot"
	MaxItems       int             // per-run safety cap, default 5
	Mode           domain.PostMode // posting mode, default auto
	ExplicitThread bool            // a thread ID or name is configured externally
	Force          bool            // bypass dedup and persistence
	FallbackTitle  string          // embed title when the entry has none
	FallbackURL    string          // embed link when the entry has none
}

// Processor runs the delivery pipeline: fetch, filter, dedupe, order, cap,
// render, post, persist. Identifiers enter the seen set only after their post
// is confirmed successful, so a failed batch is retried on the next run.
type Processor struct {
	cfg        Config
	fetcher    Fetcher
	summarizer Summarizer
	notifier   Notifier
	store      Store
}

// New creates a processor with the given dependencies
func New(cfg Config, fetcher Fetcher, summarizer Summarizer, notifier Notifier, store Store) *Processor {
	if cfg.MaxItems == 0 {
		cfg.MaxItems = 5
	}
	if cfg.Mode == "" {
		cfg.Mode = domain.ModeAuto
	}
	return &Processor{cfg: cfg, fetcher: fetcher, summarizer: summarizer, notifier: notifier, store: store}
}

// item is one entry that survived filtering, with its dedup key and, after
// rendering, its embed
type item struct {
	entry domain.Entry
	id    string
	embed domain.Embed
}

// Run executes one pipeline pass. Returns nil when there was nothing to do or
// everything was delivered; ErrDelivery when one or more posts failed.
func (p *Processor) Run(ctx context.Context) error {
	entries, err := p.fetcher.Fetch(ctx, p.cfg.FeedURL)
	if err != nil {
		return fmt.Errorf("fetch feed: %w", err)
	}
	if len(entries) == 0 {
		lgr.Printf("[INFO] feed is empty, nothing to do")
		return nil
	}

	seen, err := p.store.Load()
	if err != nil {
		lgr.Printf("[WARN] can't load seen state, treating as empty: %v", err)
		seen = map[string]struct{}{}
	}

	survivors := p.filter(entries, seen)
	if len(survivors) == 0 {
		lgr.Printf("[INFO] no new relevant entries among %d", len(entries))
		return nil
	}

	// oldest first for reading order, then the per-run cap
	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].entry.EffectiveTime().Before(survivors[j].entry.EffectiveTime())
	})
	if len(survivors) > p.cfg.MaxItems {
		survivors = survivors[:p.cfg.MaxItems]
	}

	for i := range survivors {
		survivors[i].embed = p.render(ctx, survivors[i].entry)
	}
	lgr.Printf("[INFO] delivering %d entries, mode %q", len(survivors), p.cfg.Mode)

	if p.cfg.ExplicitThread {
		// notifier applies the configured thread target itself
		return p.postBatch(ctx, survivors, "")
	}

	switch p.cfg.Mode {
	case domain.ModePerItem:
		return p.postPerItem(ctx, survivors, true)
	case domain.ModeSingle:
		return p.postBatch(ctx, survivors, p.summarizer.ThreadTitle(ctx, survivors[0].entry))
	case domain.ModeOff:
		return p.postBatch(ctx, survivors, "")
	default: // auto: batched thread first, per-item without titles on failure
		title := p.summarizer.ThreadTitle(ctx, survivors[0].entry)
		if err := p.postBatch(ctx, survivors, title); err == nil {
			return nil
		}
		lgr.Printf("[WARN] batched post failed, falling back to per-item")
		return p.postPerItem(ctx, survivors, false)
	}
}

// filter keeps entries that match the keyword, carry a usable identifier and
// were not delivered before (unless force-reposting)
func (p *Processor) filter(entries []domain.Entry, seen map[string]struct{}) []item {
	var survivors []item
	for _, e := range entries {
		if !feed.Relevant(e, p.cfg.Keyword) {
			continue
		}
		id := feed.Fingerprint(e)
		if id == "" {
			lgr.Printf("[WARN] entry %q has no usable identifier, dropped", e.Title)
			continue
		}
		if _, ok := seen[id]; ok && !p.cfg.Force {
			continue
		}
		survivors = append(survivors, item{entry: e, id: id})
	}
	return survivors
}

// render builds the embed for one entry, summarizing lazily
func (p *Processor) render(ctx context.Context, e domain.Entry) domain.Embed {
	embed := domain.Embed{
		Title:       e.Title,
		URL:         e.Link,
		Description: p.summarizer.Summarize(ctx, e),
		Timestamp:   e.EffectiveTime().Format(time.RFC3339),
	}
	if embed.Title == "" {
		embed.Title = p.cfg.FallbackTitle
	}
	if embed.URL == "" {
		embed.URL = p.cfg.FallbackURL
	}
	return embed
}

// postBatch sends all embeds as one message and marks the whole batch seen on
// success, all-or-nothing
func (p *Processor) postBatch(ctx context.Context, items []item, threadName string) error {
	embeds := make([]domain.Embed, len(items))
	for i, it := range items {
		embeds[i] = it.embed
	}
	if err := p.notifier.Send(ctx, embeds, threadName); err != nil {
		lgr.Printf("[WARN] batched post of %d entries failed: %v", len(items), err)
		return fmt.Errorf("%w: batch of %d", ErrDelivery, len(items))
	}
	return p.markSeen(items)
}

// postPerItem sends one message per embed, marking each entry seen
// individually; partial success is expected and preserved
func (p *Processor) postPerItem(ctx context.Context, items []item, withTitles bool) error {
	allOK := true
	var posted []item
	for _, it := range items {
		title := ""
		if withTitles {
			title = p.summarizer.ThreadTitle(ctx, it.entry)
		}
		if err := p.notifier.Send(ctx, []domain.Embed{it.embed}, title); err != nil {
			lgr.Printf("[WARN] post failed for %q: %v", it.entry.Title, err)
			allOK = false
			continue
		}
		posted = append(posted, it)
	}
	if len(posted) > 0 {
		if err := p.markSeen(posted); err != nil {
			return err
		}
	}
	if !allOK {
		return fmt.Errorf("%w: %d of %d posted", ErrDelivery, len(posted), len(items))
	}
	return nil
}

// markSeen persists the identifiers of successfully posted items; skipped
// entirely when force-reposting
func (p *Processor) markSeen(items []item) error {
	if p.cfg.Force {
		return nil
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.id
	}
	if err := p.store.Save(ids); err != nil {
		return fmt.Errorf("save seen state: %w", err)
	}
	return nil
}
