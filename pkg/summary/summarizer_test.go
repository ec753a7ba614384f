package summary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceponatia/copilot-changelog/pkg/domain"
	"github.com/ceponatia/copilot-changelog/pkg/summary/mocks"
)

// chatServer fakes a chat-completions endpoint returning the given content
func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Contains(t, r.Header.Get("Authorization"), "Bearer ")

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestSummarizer_Summarize(t *testing.T) {
	entry := domain.Entry{
		Title:   "Copilot code review",
		Summary: "<p>Copilot can now review pull requests automatically.</p>",
	}

	t.Run("generated bullets win", func(t *testing.T) {
		server := chatServer(t, "- reviews pull requests\n- available everywhere")
		defer server.Close()

		s := New(Config{GithubToken: "tok", GithubEndpoint: server.URL + "/v1"}, nil)
		got := s.Summarize(context.Background(), entry)
		assert.Equal(t, "- reviews pull requests\n- available everywhere", got)
	})

	t.Run("bullet lines capped at four", func(t *testing.T) {
		server := chatServer(t, "- a\n- b\n\n- c\n- d\n- e\n- f")
		defer server.Close()

		s := New(Config{GithubToken: "tok", GithubEndpoint: server.URL + "/v1"}, nil)
		got := s.Summarize(context.Background(), entry)
		assert.Equal(t, "- a\n- b\n- c\n- d", got)
	})

	t.Run("blank response falls back to basic", func(t *testing.T) {
		server := chatServer(t, "   \n  ")
		defer server.Close()

		s := New(Config{GithubToken: "tok", GithubEndpoint: server.URL + "/v1"}, nil)
		got := s.Summarize(context.Background(), entry)
		assert.Equal(t, "Copilot can now review pull requests automatically.", got)
	})

	t.Run("service failure falls back to basic", func(t *testing.T) {
		var calls int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt64(&calls, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		s := New(Config{GithubToken: "tok", GithubEndpoint: server.URL + "/v1"}, nil)
		got := s.Summarize(context.Background(), entry)
		assert.Equal(t, "Copilot can now review pull requests automatically.", got)
		assert.GreaterOrEqual(t, atomic.LoadInt64(&calls), int64(1))
	})

	t.Run("hung service bounded by the request timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(2 * time.Second)
		}))
		defer server.Close()

		s := New(Config{GithubToken: "tok", GithubEndpoint: server.URL + "/v1", Timeout: 50 * time.Millisecond}, nil)
		started := time.Now()
		got := s.Summarize(context.Background(), entry)
		assert.Less(t, time.Since(started), 1500*time.Millisecond)
		assert.Equal(t, "Copilot can now review pull requests automatically.", got)
	})

	t.Run("no credentials still produce a summary", func(t *testing.T) {
		s := New(Config{}, nil)
		got := s.Summarize(context.Background(), entry)
		assert.Equal(t, "Copilot can now review pull requests automatically.", got)
	})

	t.Run("long basic summary respects the cap", func(t *testing.T) {
		s := New(Config{MaxLen: 50}, nil)
		long := domain.Entry{Summary: strings.Repeat("words and more words ", 20)}
		got := s.Summarize(context.Background(), long)
		assert.NotEmpty(t, got)
		assert.LessOrEqual(t, len([]rune(got)), 50)
		assert.True(t, strings.HasSuffix(got, "…"))
	})
}

func TestSummarizer_ThreadTitle(t *testing.T) {
	entry := domain.Entry{
		Title:   "Copilot code review goes GA",
		Summary: "<p>Copilot can now review pull requests. More features follow.</p>",
	}

	t.Run("generated title cleaned", func(t *testing.T) {
		server := chatServer(t, `"Copilot Reviews Pull Requests!"`)
		defer server.Close()

		s := New(Config{GithubToken: "tok", GithubEndpoint: server.URL + "/v1"}, nil)
		got := s.ThreadTitle(context.Background(), entry)
		assert.Equal(t, "Copilot Reviews Pull Requests", got)
	})

	t.Run("no credentials fall back to entry title", func(t *testing.T) {
		s := New(Config{}, nil)
		got := s.ThreadTitle(context.Background(), entry)
		assert.Equal(t, "Copilot code review goes GA", got)
	})

	t.Run("no title derives phrase from summary", func(t *testing.T) {
		s := New(Config{}, nil)
		e := domain.Entry{Summary: "<p>Copilot can now review pull requests. More features follow.</p>"}
		got := s.ThreadTitle(context.Background(), e)
		assert.Equal(t, "Copilot can now review pull requests", got)
	})

	t.Run("empty entry uses the fallback title", func(t *testing.T) {
		s := New(Config{}, nil)
		got := s.ThreadTitle(context.Background(), domain.Entry{})
		assert.Equal(t, "GitHub Copilot Changelog", got)
	})
}

func TestSummarizer_Enrichment(t *testing.T) {
	t.Run("thin summary gets enriched", func(t *testing.T) {
		extracted := "Copilot now reviews pull requests in every editor with detailed comments."
		enricher := &mocks.EnricherMock{
			ExtractFunc: func(ctx context.Context, url string) (string, error) { return extracted, nil },
		}
		s := New(Config{MinContentLen: 80}, enricher)
		e := domain.Entry{Link: "https://example.com/x", Summary: "short"}

		got := s.Summarize(context.Background(), e)
		assert.Equal(t, extracted, got)
		require.Len(t, enricher.ExtractCalls(), 1)
		assert.Equal(t, "https://example.com/x", enricher.ExtractCalls()[0].URL)
	})

	t.Run("rich summary skips enrichment", func(t *testing.T) {
		enricher := &mocks.EnricherMock{
			ExtractFunc: func(ctx context.Context, url string) (string, error) { return "unused", nil },
		}
		s := New(Config{MinContentLen: 10}, enricher)
		e := domain.Entry{Link: "https://example.com/x", Summary: "already plenty of feed content"}

		s.Summarize(context.Background(), e)
		assert.Empty(t, enricher.ExtractCalls())
	})

	t.Run("extraction failure keeps feed content", func(t *testing.T) {
		enricher := &mocks.EnricherMock{
			ExtractFunc: func(ctx context.Context, url string) (string, error) { return "", assert.AnError },
		}
		s := New(Config{MinContentLen: 80}, enricher)
		e := domain.Entry{Link: "https://example.com/x", Summary: "short"}

		got := s.Summarize(context.Background(), e)
		assert.Equal(t, "short", got)
	})
}
