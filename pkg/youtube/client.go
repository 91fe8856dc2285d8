// Package youtube is a minimal YouTube Data API v3 client covering video
// search, thumbnails, channel metadata and playlist listing.
package youtube

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/expert-answers/internal/model"
	"github.com/sells-group/expert-answers/internal/resilience"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"

	// MaxResults is the API's per-page ceiling.
	MaxResults = 50
)

// Client performs YouTube Data API operations.
type Client interface {
	Search(ctx context.Context, req SearchRequest) ([]model.VideoSummary, error)
	GetThumbnail(ctx context.Context, videoID string) (string, error)
	GetChannelDetails(ctx context.Context, channelID string) (*model.ChannelDetails, error)
	ListPlaylistVideoIDs(ctx context.Context, playlistID string) ([]string, error)
	ListVideos(ctx context.Context, ids []string) ([]model.VideoSummary, error)
}

// SearchRequest holds the search filters. Published bounds are RFC 3339.
type SearchRequest struct {
	Query           string
	ChannelID       string
	MaxResults      int
	PublishedAfter  string
	PublishedBefore string
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outbound requests per second. Zero or negative disables
// limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *httpClient) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithRetry replaces the retry policy applied to throttled and failed
// requests. MaxAttempts 1 disables retries.
func WithRetry(p resilience.Policy) Option {
	return func(c *httpClient) {
		c.retry = p
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.Policy
}

// NewClient creates a YouTube Data API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		retry: resilience.DefaultPolicy(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type thumbnail struct {
	URL string `json:"url"`
}

type snippet struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	PublishedAt  string               `json:"publishedAt"`
	ChannelTitle string               `json:"channelTitle"`
	ChannelID    string               `json:"channelId"`
	Country      string               `json:"country"`
	CustomURL    string               `json:"customUrl"`
	Thumbnails   map[string]thumbnail `json:"thumbnails"`
}

// thumbnailPreference lists thumbnail sizes from largest to smallest.
var thumbnailPreference = []string{"maxres", "standard", "high", "medium", "default"}

func (s snippet) bestThumbnail() string {
	for _, size := range thumbnailPreference {
		if t, ok := s.Thumbnails[size]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}

func (s snippet) summary(videoID string) model.VideoSummary {
	return model.VideoSummary{
		VideoID:      videoID,
		Title:        s.Title,
		Description:  s.Description,
		PublishedAt:  s.PublishedAt,
		ChannelTitle: s.ChannelTitle,
		ChannelID:    s.ChannelID,
		Thumbnail:    s.bestThumbnail(),
	}
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet snippet `json:"snippet"`
	} `json:"items"`
}

func (c *httpClient) Search(ctx context.Context, req SearchRequest) ([]model.VideoSummary, error) {
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	params := url.Values{
		"part":       {"snippet"},
		"q":          {req.Query},
		"type":       {"video"},
		"order":      {"relevance"},
		"maxResults": {strconv.Itoa(min(maxResults, MaxResults))},
	}
	if req.ChannelID != "" {
		params.Set("channelId", req.ChannelID)
	}
	if req.PublishedAfter != "" {
		params.Set("publishedAfter", req.PublishedAfter)
	}
	if req.PublishedBefore != "" {
		params.Set("publishedBefore", req.PublishedBefore)
	}

	var resp searchResponse
	if err := c.get(ctx, "/search", params, &resp); err != nil {
		return nil, eris.Wrap(err, "youtube: search")
	}

	videos := make([]model.VideoSummary, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, item.Snippet.summary(item.ID.VideoID))
	}
	return videos, nil
}

type videosResponse struct {
	Items []struct {
		ID      string  `json:"id"`
		Snippet snippet `json:"snippet"`
	} `json:"items"`
}

func (c *httpClient) ListVideos(ctx context.Context, ids []string) ([]model.VideoSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxResults {
		return nil, eris.Errorf("youtube: list videos: %d ids exceeds limit of %d", len(ids), MaxResults)
	}
	params := url.Values{
		"part":       {"snippet"},
		"id":         {strings.Join(ids, ",")},
		"maxResults": {strconv.Itoa(MaxResults)},
	}

	var resp videosResponse
	if err := c.get(ctx, "/videos", params, &resp); err != nil {
		return nil, eris.Wrap(err, "youtube: list videos")
	}

	videos := make([]model.VideoSummary, 0, len(resp.Items))
	for _, item := range resp.Items {
		videos = append(videos, item.Snippet.summary(item.ID))
	}
	return videos, nil
}

func (c *httpClient) GetThumbnail(ctx context.Context, videoID string) (string, error) {
	videos, err := c.ListVideos(ctx, []string{videoID})
	if err != nil {
		return "", eris.Wrapf(err, "youtube: thumbnail %s", videoID)
	}
	if len(videos) == 0 {
		return "", nil
	}
	return videos[0].Thumbnail, nil
}

func (c *httpClient) GetChannelDetails(ctx context.Context, channelID string) (*model.ChannelDetails, error) {
	params := url.Values{
		"part": {"snippet,contentDetails"},
		"id":   {channelID},
	}

	var resp struct {
		Items []struct {
			Snippet snippet `json:"snippet"`
		} `json:"items"`
	}
	if err := c.get(ctx, "/channels", params, &resp); err != nil {
		return nil, eris.Wrapf(err, "youtube: channel %s", channelID)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}

	s := resp.Items[0].Snippet
	return &model.ChannelDetails{
		Title:       s.Title,
		Description: s.Description,
		Country:     s.Country,
		CustomURL:   s.CustomURL,
	}, nil
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ContentDetails struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	} `json:"items"`
}

func (c *httpClient) ListPlaylistVideoIDs(ctx context.Context, playlistID string) ([]string, error) {
	var ids []string
	pageToken := ""
	for {
		params := url.Values{
			"part":       {"contentDetails"},
			"playlistId": {playlistID},
			"maxResults": {strconv.Itoa(MaxResults)},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var resp playlistItemsResponse
		if err := c.get(ctx, "/playlistItems", params, &resp); err != nil {
			return nil, eris.Wrapf(err, "youtube: playlist %s", playlistID)
		}
		for _, item := range resp.Items {
			if item.ContentDetails.VideoID != "" {
				ids = append(ids, item.ContentDetails.VideoID)
			}
		}

		if resp.NextPageToken == "" {
			return ids, nil
		}
		pageToken = resp.NextPageToken
	}
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	p := c.retry
	if p.OnRetry == nil {
		p.OnRetry = resilience.LogRetries("youtube", path)
	}
	return resilience.Do(ctx, p, func(ctx context.Context) error {
		return c.do(ctx, endpoint, out)
	})
}

func (c *httpClient) do(ctx context.Context, endpoint string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "rate limit wait")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := eris.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
		if resilience.IsTransientStatus(resp.StatusCode) {
			return resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return statusErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}
