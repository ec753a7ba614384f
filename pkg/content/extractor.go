package content

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markusmobius/go-trafilatura"
)

// Extractor pulls readable text from a changelog entry's page, used to enrich
// summarization prompts when the feed itself carries little content
type Extractor struct {
	client    *http.Client
	userAgent string
}

// NewExtractor creates an extractor with the given per-request timeout
func NewExtractor(timeout time.Duration) *Extractor {
	return &Extractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: "Mozilla/5.0 (compatible; copilot-changelog/1.0)",
	}
}

// Extract fetches the page and returns its main text content
func (e *Extractor) Extract(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, pageURL)
	}

	result, err := trafilatura.Extract(resp.Body, trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		OriginalURL:     parsed,
	})
	if err != nil {
		return "", fmt.Errorf("extract content from %s: %w", pageURL, err)
	}
	if result == nil || result.ContentText == "" {
		return "", fmt.Errorf("no text content extracted from %s", pageURL)
	}

	return strings.TrimSpace(result.ContentText), nil
}
