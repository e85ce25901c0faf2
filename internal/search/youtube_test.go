package search

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipvault/clipvault/internal/config"
	"github.com/clipvault/clipvault/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(baseURL string) *Client {
	return NewClient(config.YouTubeConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	}, testLogger())
}

const searchBody = `{
  "items": [
    {
      "id": {"videoId": "abc123"},
      "snippet": {
        "title": "Test Video",
        "channelTitle": "Test Channel",
        "publishedAt": "2024-01-02T03:04:05Z",
        "thumbnails": {
          "default": {"url": "http://img/default.jpg"},
          "medium": {"url": "http://img/medium.jpg"},
          "high": {"url": "http://img/high.jpg"}
        }
      }
    },
    {
      "id": {"videoId": "def456"},
      "snippet": {"title": "Other Video", "channelTitle": "Other Channel"}
    }
  ]
}`

const videosBody = `{
  "items": [
    {
      "id": "abc123",
      "statistics": {"viewCount": "1234567"},
      "contentDetails": {"duration": "PT4M13S"}
    }
  ]
}`

func TestSearch_MergesDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			assert.Equal(t, "test", r.URL.Query().Get("q"))
			assert.Equal(t, "snippet", r.URL.Query().Get("part"))
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			io.WriteString(w, searchBody)
		case "/videos":
			assert.Equal(t, "abc123,def456", r.URL.Query().Get("id"))
			io.WriteString(w, videosBody)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	results, err := newTestClient(srv.URL).Search(context.Background(), "test", 12)
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results[0]
	assert.Equal(t, "abc123", first.ID)
	assert.Equal(t, "Test Video", first.Title)
	assert.Equal(t, "Test Channel", first.Channel)
	assert.Equal(t, "http://img/high.jpg", first.Thumbnails.High)
	assert.Equal(t, "1234567", first.ViewCount)
	assert.Equal(t, "PT4M13S", first.Duration)

	// Missing details default to empty, not an error.
	second := results[1]
	assert.Equal(t, "def456", second.ID)
	assert.Empty(t, second.ViewCount)
	assert.Empty(t, second.Duration)
}

func TestSearch_DetailFailureDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			io.WriteString(w, searchBody)
		case "/videos":
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	results, err := newTestClient(srv.URL).Search(context.Background(), "test", 12)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Empty(t, results[0].ViewCount)
}

func TestSearch_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"error": {"message": "quota exceeded"}}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Search(context.Background(), "test", 12)
	require.Error(t, err)

	var pe *domain.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "quota exceeded", pe.Message)
}

func TestSearch_EmptyQuery(t *testing.T) {
	c := newTestClient("http://unused")

	_, err := c.Search(context.Background(), "  ", 12)
	assert.ErrorIs(t, err, domain.ErrMissingQuery)
}

func TestSearch_MissingAPIKey(t *testing.T) {
	c := NewClient(config.YouTubeConfig{BaseURL: "http://unused"}, testLogger())

	_, err := c.Search(context.Background(), "test", 12)
	assert.ErrorIs(t, err, domain.ErrAPIKeyMissing)
}

func TestSearch_MaxResultsClamped(t *testing.T) {
	var gotMax string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			gotMax = r.URL.Query().Get("maxResults")
		}
		io.WriteString(w, `{"items": []}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	_, err := c.Search(context.Background(), "test", 500)
	require.NoError(t, err)
	assert.Equal(t, "50", gotMax)

	_, err = c.Search(context.Background(), "test", 0)
	require.NoError(t, err)
	assert.Equal(t, "12", gotMax)
}

func TestSearch_EmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/videos" {
			t.Error("detail call should be skipped for empty search results")
		}
		io.WriteString(w, `{"items": []}`)
	}))
	defer srv.Close()

	results, err := newTestClient(srv.URL).Search(context.Background(), "test", 12)
	require.NoError(t, err)
	assert.Empty(t, results)
}
