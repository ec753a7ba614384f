package summary

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"github.com/sashabaranov/go-openai"

	"github.com/ceponatia/copilot-changelog/pkg/domain"
)

//go:generate moq -out mocks/enricher.go -pkg mocks -skip-ensure -fmt goimports . Enricher

// Enricher pulls full text for entries whose feed summary is too thin to
// summarize well
type Enricher interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Config holds generation service credentials and output limits. All fields
// are optional; with no credentials the deterministic fallbacks still produce
// results.
type Config struct {
	GithubToken    string        // primary service, GitHub Models
	GithubModel    string        // default openai/gpt-5-mini
	GithubEndpoint string        // chat-completions base URL of the primary service
	OpenAIKey      string        // secondary service
	OpenAIModel    string        // default gpt-4o-mini
	Temperature    float32       // default 0.2
	Timeout        time.Duration // per-request cap for both services, default 20s
	MaxLen         int           // basic summary cap, default 420
	MaxTitleLen    int           // thread title cap, default 90
	MaxLines       int           // bullet lines kept from a generated summary, default 4
	FallbackTitle  string        // last-resort thread title
	MinContentLen  int           // below this, enrichment kicks in (when available)
}

// Summarizer produces a short description and a thread title for an entry via
// an ordered chain of generation strategies with a guaranteed deterministic
// fallback. Strategy failures are never fatal, they just yield nothing and
// the chain moves on.
type Summarizer struct {
	cfg       Config
	primary   *openai.Client
	secondary *openai.Client
	enricher  Enricher
}

// New creates a summarizer. Clients are only constructed for services with a
// credential; enricher may be nil to disable content enrichment.
func New(cfg Config, enricher Enricher) *Summarizer {
	if cfg.GithubModel == "" {
		cfg.GithubModel = "openai/gpt-5-mini"
	}
	if cfg.GithubEndpoint == "" {
		cfg.GithubEndpoint = "https://api.githubcopilot.com/v1"
	}
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}
	if cfg.MaxLen == 0 {
		cfg.MaxLen = 420
	}
	if cfg.MaxTitleLen == 0 {
		cfg.MaxTitleLen = 90
	}
	if cfg.MaxLines == 0 {
		cfg.MaxLines = 4
	}
	if cfg.FallbackTitle == "" {
		cfg.FallbackTitle = "GitHub Copilot Changelog"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}

	s := &Summarizer{cfg: cfg, enricher: enricher}
	if cfg.GithubToken != "" {
		cc := openai.DefaultConfig(cfg.GithubToken)
		// accept both a base URL and a full chat-completions URL
		cc.BaseURL = strings.TrimSuffix(strings.TrimSuffix(cfg.GithubEndpoint, "/chat/completions"), "/")
		cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
		s.primary = openai.NewClientWithConfig(cc)
	}
	if cfg.OpenAIKey != "" {
		cc := openai.DefaultConfig(cfg.OpenAIKey)
		cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
		s.secondary = openai.NewClientWithConfig(cc)
	}
	return s
}

// strategy is one step of a generation chain; an empty result means the step
// produced nothing and the next one runs
type strategy struct {
	name string
	run  func(ctx context.Context, e domain.Entry, content string) string
}

// Summarize returns a short description for the entry: generated bullets when
// a service cooperates, the truncated stripped summary otherwise
func (s *Summarizer) Summarize(ctx context.Context, e domain.Entry) string {
	content := s.entryContent(ctx, e)

	chain := []strategy{
		{"github models", s.generatedSummary(s.primary, s.cfg.GithubModel)},
		{"openai", s.generatedSummary(s.secondary, s.cfg.OpenAIModel)},
		{"basic", func(_ context.Context, _ domain.Entry, content string) string {
			return clip(content, s.cfg.MaxLen)
		}},
	}

	for _, st := range chain {
		if out := st.run(ctx, e, content); out != "" {
			lgr.Printf("[DEBUG] summary via %s for %q", st.name, e.Title)
			return out
		}
	}
	return ""
}

// ThreadTitle derives a forum thread name for the entry. Preference order:
// primary service, secondary service, cleaned entry title, a phrase from the
// basic summary, configured fallback.
func (s *Summarizer) ThreadTitle(ctx context.Context, e domain.Entry) string {
	content := s.entryContent(ctx, e)

	chain := []strategy{
		{"github models", s.generatedTitle(s.primary, s.cfg.GithubModel)},
		{"openai", s.generatedTitle(s.secondary, s.cfg.OpenAIModel)},
		{"entry title", func(_ context.Context, e domain.Entry, _ string) string {
			return CleanTitle(e.Title, s.cfg.MaxTitleLen)
		}},
		{"summary phrase", func(_ context.Context, _ domain.Entry, content string) string {
			return s.titleFromSummary(content)
		}},
	}

	for _, st := range chain {
		if out := st.run(ctx, e, content); out != "" {
			lgr.Printf("[DEBUG] title via %s for %q", st.name, e.Title)
			return out
		}
	}
	return s.cfg.FallbackTitle
}

// Basic is the deterministic fallback summary: entry HTML stripped to plain
// text and truncated to maxLen with a trailing ellipsis when cut
func Basic(e domain.Entry, maxLen int) string {
	return clip(StripHTML(e.Summary), maxLen)
}

func clip(text string, maxLen int) string {
	return Truncate(strings.TrimSpace(text), maxLen)
}

// generatedSummary builds the strategy for one service's description task
func (s *Summarizer) generatedSummary(client *openai.Client, model string) func(context.Context, domain.Entry, string) string {
	return func(ctx context.Context, e domain.Entry, content string) string {
		if client == nil {
			return ""
		}
		msg, err := s.complete(ctx, client, model, summarizerRole, summaryPrompt(e.Title, content))
		if err != nil {
			lgr.Printf("[DEBUG] %s summary failed for %q: %v", model, e.Title, err)
			return ""
		}
		return s.bullets(msg)
	}
}

// generatedTitle builds the strategy for one service's title task
func (s *Summarizer) generatedTitle(client *openai.Client, model string) func(context.Context, domain.Entry, string) string {
	return func(ctx context.Context, e domain.Entry, content string) string {
		if client == nil {
			return ""
		}
		msg, err := s.complete(ctx, client, model, titlerRole, titlePrompt(e.Title, content))
		if err != nil {
			lgr.Printf("[DEBUG] %s title failed for %q: %v", model, e.Title, err)
			return ""
		}
		return CleanTitle(msg, s.cfg.MaxTitleLen)
	}
}

// complete performs one chat completion with a bounded transport retry.
// Persistent failure is reported to the caller, which treats it as "this
// strategy produced nothing".
func (s *Summarizer) complete(ctx context.Context, client *openai.Client, model, system, user string) (string, error) {
	var content string
	retrier := repeater.NewBackoff(3, 100*time.Millisecond, repeater.WithMaxDelay(time.Second))
	err := retrier.Do(ctx, func() error {
		resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       model,
			Temperature: s.cfg.Temperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
		})
		if err != nil {
			return fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no choices in response")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// bullets normalizes a generated summary: trimmed non-empty lines, capped at
// MaxLines, scrubbed of markup
func (s *Summarizer) bullets(msg string) string {
	var lines []string
	for _, ln := range strings.Split(msg, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	if len(lines) > s.cfg.MaxLines {
		lines = lines[:s.cfg.MaxLines]
	}
	return scrub(strings.Join(lines, "\n"))
}

var sentenceEnd = regexp.MustCompile(`[.!?]\s|\n`)

// titleFromSummary derives a short phrase from the entry content: first
// sentence, at most 10 words
func (s *Summarizer) titleFromSummary(content string) string {
	first := sentenceEnd.Split(clip(content, s.cfg.MaxTitleLen), 2)[0]
	words := strings.Fields(first)
	if len(words) > 10 {
		words = words[:10]
	}
	return CleanTitle(strings.Join(words, " "), s.cfg.MaxTitleLen)
}

// entryContent returns the stripped entry summary, enriched from the linked
// page when an enricher is configured and the feed gave us too little text
func (s *Summarizer) entryContent(ctx context.Context, e domain.Entry) string {
	content := strings.TrimSpace(StripHTML(e.Summary))
	if s.enricher == nil || e.Link == "" || len([]rune(content)) >= s.cfg.MinContentLen {
		return content
	}
	extracted, err := s.enricher.Extract(ctx, e.Link)
	if err != nil {
		lgr.Printf("[DEBUG] content extraction failed for %s: %v", e.Link, err)
		return content
	}
	if extracted = strings.TrimSpace(extracted); len(extracted) > len(content) {
		return extracted
	}
	return content
}
