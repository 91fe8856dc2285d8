package youtube

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

	"github.com/sells-group/expert-answers/internal/resilience"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestSearch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "what is maya Swami", q.Get("q"))
		assert.Equal(t, "video", q.Get("type"))
		assert.Equal(t, "relevance", q.Get("order"))
		assert.Equal(t, "5", q.Get("maxResults"))
		assert.Equal(t, "UC123", q.Get("channelId"))
		assert.Equal(t, "2024-01-01T00:00:00Z", q.Get("publishedAfter"))
		assert.Empty(t, q.Get("publishedBefore"))

		writeJSON(w, map[string]any{
			"items": []map[string]any{
				{
					"id": map[string]any{"videoId": "vid1"},
					"snippet": map[string]any{
						"title":        "What is Maya?",
						"description":  "Answer at 3:15",
						"publishedAt":  "2024-02-01T10:00:00Z",
						"channelTitle": "Vedanta Society of New York",
						"channelId":    "UC123",
						"thumbnails": map[string]any{
							"default": map[string]any{"url": "https://i.ytimg.com/vi/vid1/default.jpg"},
							"high":    map[string]any{"url": "https://i.ytimg.com/vi/vid1/hqdefault.jpg"},
						},
					},
				},
				{"id": map[string]any{"channelId": "UCnotavideo"}, "snippet": map[string]any{"title": "channel"}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	videos, err := client.Search(context.Background(), SearchRequest{
		Query:          "what is maya Swami",
		ChannelID:      "UC123",
		MaxResults:     5,
		PublishedAfter: "2024-01-01T00:00:00Z",
	})

	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "vid1", videos[0].VideoID)
	assert.Equal(t, "What is Maya?", videos[0].Title)
	assert.Equal(t, "UC123", videos[0].ChannelID)
	assert.Equal(t, "https://i.ytimg.com/vi/vid1/hqdefault.jpg", videos[0].Thumbnail)
}

func TestSearch_ClampsMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("maxResults"))
		writeJSON(w, map[string]any{"items": []any{}})
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL))
	videos, err := client.Search(context.Background(), SearchRequest{Query: "q", MaxResults: 500})
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestSearch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"message": "quotaExceeded"}}`))
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))
	videos, err := client.Search(context.Background(), SearchRequest{Query: "q"})

	assert.Error(t, err)
	assert.Nil(t, videos)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "youtube: search")
}

func TestSearch_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient("k", WithBaseURL(srv.URL))
	_, err := client.Search(ctx, SearchRequest{Query: "q"})
	assert.Error(t, err)
}

func TestGetThumbnail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		if r.URL.Query().Get("id") == "missing" {
			writeJSON(w, map[string]any{"items": []any{}})
			return
		}
		writeJSON(w, map[string]any{
			"items": []map[string]any{{
				"id": "vid1",
				"snippet": map[string]any{
					"thumbnails": map[string]any{
						"medium": map[string]any{"url": "https://img/medium.jpg"},
						"maxres": map[string]any{"url": "https://img/maxres.jpg"},
					},
				},
			}},
		})
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL))

	url, err := client.GetThumbnail(context.Background(), "vid1")
	require.NoError(t, err)
	assert.Equal(t, "https://img/maxres.jpg", url)

	url, err = client.GetThumbnail(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestListVideos_TooManyIDs(t *testing.T) {
	client := NewClient("k", WithBaseURL("http://127.0.0.1:0"))
	ids := make([]string, MaxResults+1)
	_, err := client.ListVideos(context.Background(), ids)
	assert.Error(t, err)

	videos, err := client.ListVideos(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestGetChannelDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels", r.URL.Path)
		assert.Equal(t, "snippet,contentDetails", r.URL.Query().Get("part"))
		if r.URL.Query().Get("id") != "UC1" {
			writeJSON(w, map[string]any{"items": []any{}})
			return
		}
		writeJSON(w, map[string]any{
			"items": []map[string]any{{
				"snippet": map[string]any{
					"title":     "Vedanta NY",
					"country":   "US",
					"customUrl": "@vedantany",
				},
			}},
		})
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL))

	details, err := client.GetChannelDetails(context.Background(), "UC1")
	require.NoError(t, err)
	require.NotNil(t, details)
	assert.Equal(t, "US", details.Country)
	assert.Equal(t, "@vedantany", details.CustomURL)

	details, err = client.GetChannelDetails(context.Background(), "UCunknown")
	require.NoError(t, err)
	assert.Nil(t, details)
}

func TestListPlaylistVideoIDs_Paginates(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/playlistItems", r.URL.Path)
		assert.Equal(t, "PL1", r.URL.Query().Get("playlistId"))
		switch r.URL.Query().Get("pageToken") {
		case "":
			writeJSON(w, map[string]any{
				"nextPageToken": "p2",
				"items": []map[string]any{
					{"contentDetails": map[string]any{"videoId": "a"}},
					{"contentDetails": map[string]any{"videoId": "b"}},
				},
			})
		case "p2":
			writeJSON(w, map[string]any{
				"items": []map[string]any{
					{"contentDetails": map[string]any{"videoId": "c"}},
				},
			})
		default:
			t.Errorf("unexpected page token %q", r.URL.Query().Get("pageToken"))
		}
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL+"/"))
	ids, err := client.ListPlaylistVideoIDs(context.Background(), "PL1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Equal(t, 2, calls)
}

func TestRateLimit_Applied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"items": []any{}})
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(20))
	start := time.Now()
	for range 3 {
		_, err := client.Search(context.Background(), SearchRequest{Query: "q"})
		require.NoError(t, err)
	}
	// Burst of 1 at 20/s: the 2nd and 3rd calls each wait ~50ms.
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL))
	_, err := client.Search(context.Background(), SearchRequest{Query: "q"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unmarshal"))
}

func TestRetry_TransientStatusThenSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, map[string]any{"items": []any{}})
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL), WithRetry(resilience.Policy{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
	}))
	videos, err := client.Search(context.Background(), SearchRequest{Query: "q"})

	require.NoError(t, err)
	assert.Empty(t, videos)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRetry_Disabled(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL), WithRetry(resilience.Policy{MaxAttempts: 1}))
	_, err := client.Search(context.Background(), SearchRequest{Query: "q"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRetry_PermanentStatusNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL), WithRetry(resilience.Policy{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
	}))
	_, err := client.GetThumbnail(context.Background(), "vid")

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
