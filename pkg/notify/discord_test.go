package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceponatia/copilot-changelog/pkg/domain"
)

func testEmbed() domain.Embed {
	return domain.Embed{
		Title:       "Copilot code review",
		URL:         "https://github.blog/changelog/copilot-review",
		Description: "- reviews pull requests",
		Timestamp:   "2006-01-02T22:04:05Z",
	}
}

func TestClient_Send(t *testing.T) {
	t.Run("payload shape", func(t *testing.T) {
		var got map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(body, &got))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		c := New(Config{WebhookURL: server.URL})
		err := c.Send(context.Background(), []domain.Embed{testEmbed()}, "")
		require.NoError(t, err)

		// content must be present and null
		content, ok := got["content"]
		assert.True(t, ok)
		assert.Nil(t, content)
		assert.NotContains(t, got, "thread_name")

		embeds := got["embeds"].([]any)
		require.Len(t, embeds, 1)
		embed := embeds[0].(map[string]any)
		assert.Equal(t, "Copilot code review", embed["title"])
		assert.Equal(t, "https://github.blog/changelog/copilot-review", embed["url"])
		assert.Equal(t, "- reviews pull requests", embed["description"])
		assert.Equal(t, "2006-01-02T22:04:05Z", embed["timestamp"])

		footer := embed["footer"].(map[string]any)
		assert.Equal(t, "GitHub Copilot Changelog • 2006-01-02 22:04 UTC", footer["text"])
	})

	t.Run("thread name attached when creating a thread", func(t *testing.T) {
		var got map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		c := New(Config{WebhookURL: server.URL})
		require.NoError(t, c.Send(context.Background(), []domain.Embed{testEmbed()}, "Copilot news"))
		assert.Equal(t, "Copilot news", got["thread_name"])
	})

	t.Run("configured thread name is the default", func(t *testing.T) {
		var got map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		c := New(Config{WebhookURL: server.URL, ThreadName: "Default thread"})
		require.NoError(t, c.Send(context.Background(), []domain.Embed{testEmbed()}, ""))
		assert.Equal(t, "Default thread", got["thread_name"])
	})

	t.Run("existing thread id goes into the query, no thread name", func(t *testing.T) {
		var gotQuery, gotBody = "", map[string]any{}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("thread_id")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		c := New(Config{WebhookURL: server.URL, ThreadID: "12345", ThreadName: "ignored"})
		require.NoError(t, c.Send(context.Background(), []domain.Embed{testEmbed()}, "also ignored"))
		assert.Equal(t, "12345", gotQuery)
		assert.NotContains(t, gotBody, "thread_name")
	})

	t.Run("non-2xx returns api error with code", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Webhooks posted to forum channels must have a thread_name or thread_id","code":220001}`))
		}))
		defer server.Close()

		c := New(Config{WebhookURL: server.URL})
		err := c.Send(context.Background(), []domain.Embed{testEmbed()}, "")
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, 220001, apiErr.Code)
	})

	t.Run("network failure is an error", func(t *testing.T) {
		c := New(Config{WebhookURL: "http://127.0.0.1:1"})
		err := c.Send(context.Background(), []domain.Embed{testEmbed()}, "")
		require.Error(t, err)
	})

	t.Run("no embeds is a no-op", func(t *testing.T) {
		c := New(Config{WebhookURL: "http://127.0.0.1:1"})
		require.NoError(t, c.Send(context.Background(), nil, ""))
	})

	t.Run("unparsable timestamp keeps footer source only", func(t *testing.T) {
		var got map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		e := testEmbed()
		e.Timestamp = "not a time"
		c := New(Config{WebhookURL: server.URL})
		require.NoError(t, c.Send(context.Background(), []domain.Embed{e}, ""))

		embed := got["embeds"].([]any)[0].(map[string]any)
		footer := embed["footer"].(map[string]any)
		assert.Equal(t, "GitHub Copilot Changelog", footer["text"])
	})
}

func TestClient_DryRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("dry-run must not hit the network")
	}))
	defer server.Close()

	c := New(Config{WebhookURL: server.URL, DryRun: true})
	var buf bytes.Buffer
	c.out = &buf

	require.NoError(t, c.Send(context.Background(), []domain.Embed{testEmbed()}, "Copilot news"))

	var dump map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &dump))
	assert.Equal(t, server.URL, dump["url"])
	assert.Equal(t, "Copilot news", dump["thread_name"])
	require.Len(t, dump["embeds"], 1)
}
