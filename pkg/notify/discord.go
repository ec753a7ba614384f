package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/ceponatia/copilot-changelog/pkg/domain"
)

// discord error code returned when a forum channel webhook is posted to
// without a thread
const codeRequiresThread = 220001

// Config holds webhook delivery settings
type Config struct {
	WebhookURL string
	ThreadID   string // existing thread, appended as thread_id query param
	ThreadName string // default thread display name when creating threads
	Source     string // footer source text
	Timeout    time.Duration
	DryRun     bool // print the payload instead of sending
}

// Client posts embeds to a Discord webhook. One POST per call, 2xx is
// success; the client never retries, the caller decides what to do on
// failure.
type Client struct {
	cfg    Config
	client *http.Client
	out    io.Writer // dry-run payload destination
}

// New creates a webhook client
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.Source == "" {
		cfg.Source = "GitHub Copilot Changelog"
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		out:    os.Stdout,
	}
}

// APIError is a non-2xx webhook response
type APIError struct {
	Status int
	Code   int // discord error code, 0 when absent
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord webhook error: status %d code %d: %s", e.Status, e.Code, e.Body)
}

type footer struct {
	Text string `json:"text"`
}

type embedPayload struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
	Footer      footer `json:"footer"`
}

type messagePayload struct {
	Content    *string        `json:"content"`
	Embeds     []embedPayload `json:"embeds"`
	ThreadName string         `json:"thread_name,omitempty"`
}

// Send posts all supplied embeds as one message. A non-empty threadName (or
// the configured default) creates a forum thread unless an existing thread ID
// is configured, in which case the post goes to that thread instead.
func (c *Client) Send(ctx context.Context, embeds []domain.Embed, threadName string) error {
	if len(embeds) == 0 {
		return nil
	}

	target, err := c.targetURL()
	if err != nil {
		return err
	}

	payload := messagePayload{Content: nil, Embeds: make([]embedPayload, 0, len(embeds))}
	for _, e := range embeds {
		payload.Embeds = append(payload.Embeds, embedPayload{
			Title:       e.Title,
			URL:         e.URL,
			Description: e.Description,
			Timestamp:   e.Timestamp,
			Footer:      footer{Text: c.footerText(e.Timestamp)},
		})
	}

	// thread creation only applies when no existing thread is targeted
	if name := c.chosenThreadName(threadName); name != "" && c.cfg.ThreadID == "" {
		payload.ThreadName = name
	}

	if c.cfg.DryRun {
		return c.printPayload(target, payload)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	apiErr := &APIError{Status: resp.StatusCode, Body: string(respBody)}

	var discordErr struct {
		Code int `json:"code"`
	}
	if json.Unmarshal(respBody, &discordErr) == nil {
		apiErr.Code = discordErr.Code
	}
	if apiErr.Code == codeRequiresThread {
		lgr.Printf("[WARN] webhook targets a forum channel, provide a thread via " +
			"DISCORD_THREAD_ID (existing thread) or DISCORD_THREAD_NAME (create one)")
	}
	return apiErr
}

// targetURL appends the configured thread_id query parameter when present
func (c *Client) targetURL() (string, error) {
	if c.cfg.ThreadID == "" {
		return c.cfg.WebhookURL, nil
	}
	u, err := url.Parse(c.cfg.WebhookURL)
	if err != nil {
		return "", fmt.Errorf("parse webhook url: %w", err)
	}
	q := u.Query()
	q.Set("thread_id", c.cfg.ThreadID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) chosenThreadName(threadName string) string {
	if threadName != "" {
		return threadName
	}
	return c.cfg.ThreadName
}

// footerText restates the source plus a human-readable date
func (c *Client) footerText(timestamp string) string {
	ts, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return c.cfg.Source
	}
	return fmt.Sprintf("%s • %s", c.cfg.Source, ts.UTC().Format("2006-01-02 15:04 UTC"))
}

// printPayload writes the would-be request to stdout and skips the network
func (c *Client) printPayload(target string, payload messagePayload) error {
	dump := struct {
		URL string `json:"url"`
		messagePayload
	}{URL: target, messagePayload: payload}

	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dry-run payload: %w", err)
	}
	fmt.Fprintln(c.out, string(data))
	lgr.Printf("[INFO] dry-run, skipping webhook post")
	return nil
}
