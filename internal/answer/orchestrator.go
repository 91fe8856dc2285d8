// Package answer turns a free-text question into a response by trying, in
// order, a direct catalog match, a related catalog question, a live video
// search, and finally an empty result.
package answer

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/expert-answers/internal/model"
	"github.com/sells-group/expert-answers/internal/timestamp"
	"github.com/sells-group/expert-answers/pkg/youtube"
)

// ErrInvalidInput marks requests rejected before any stage runs.
var ErrInvalidInput = eris.New("answer: invalid input")

const (
	// MaxCount bounds Request.Count and ExpertQuery.Count.
	MaxCount = 50

	relatedCount    = 3
	maxVideoResults = 5
)

// Matcher is the catalog matcher the orchestrator delegates to.
type Matcher interface {
	Match(ctx context.Context, query string, topN int) ([]model.MatchCandidate, error)
	FindRelated(ctx context.Context, query string, n int) ([]string, error)
	SuggestFollowup(ctx context.Context, query string, matched []string) (string, bool)
}

// Playlists resolves the playlist a video belongs to.
type Playlists interface {
	PlaylistID(ctx context.Context, videoID string) (string, bool)
}

// Config holds the live-search settings.
type Config struct {
	// ExpertName is appended to live search queries.
	ExpertName string
	// ChannelID restricts live search to one channel when set.
	ChannelID string
}

// Orchestrator runs the fallback stages. It holds no per-request state.
type Orchestrator struct {
	matcher   Matcher
	videos    youtube.Client
	playlists Playlists
	cfg       Config
}

// New creates an Orchestrator. videos may be nil, which disables thumbnail
// lookups and the live search stage.
func New(matcher Matcher, videos youtube.Client, playlists Playlists, cfg Config) *Orchestrator {
	return &Orchestrator{
		matcher:   matcher,
		videos:    videos,
		playlists: playlists,
		cfg:       cfg,
	}
}

// Request is a single question to answer.
type Request struct {
	Question       string
	Count          int
	IncludeRelated bool
}

func (r Request) validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return eris.Wrap(ErrInvalidInput, "question is required")
	}
	if r.Count < 1 || r.Count > MaxCount {
		return eris.Wrapf(ErrInvalidInput, "count must be between 1 and %d, got %d", MaxCount, r.Count)
	}
	return nil
}

// Answer runs the stages in order and returns the first productive response.
// Finding nothing is not an error: the last stage always answers with
// status no_results.
func (o *Orchestrator) Answer(ctx context.Context, req Request) (*model.Response, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	req.Question = strings.TrimSpace(req.Question)

	for _, st := range stages {
		resp, done, err := o.transition(st)(ctx, req)
		if err != nil {
			return nil, eris.Wrapf(err, "answer: %s", st)
		}
		if done {
			zap.L().Debug("answer: resolved",
				zap.String("question", req.Question),
				zap.String("status", string(resp.SearchStatus)),
			)
			return resp, nil
		}
	}
	// The no_results stage always finishes.
	return model.NewResponse(model.SearchStatusNoResults), nil
}

// Enrichment below is best-effort: lookup failures leave fields empty.

func (o *Orchestrator) thumbnail(ctx context.Context, videoID string) string {
	if o.videos == nil || videoID == "" {
		return ""
	}
	url, err := o.videos.GetThumbnail(ctx, videoID)
	if err != nil {
		zap.L().Warn("answer: thumbnail lookup failed", zap.String("video_id", videoID), zap.Error(err))
		return ""
	}
	return url
}

func (o *Orchestrator) playlist(ctx context.Context, videoID string) string {
	if o.playlists == nil || videoID == "" {
		return ""
	}
	id, _ := o.playlists.PlaylistID(ctx, videoID)
	return id
}

func (o *Orchestrator) searchQuery(question string) string {
	if name := strings.TrimSpace(o.cfg.ExpertName); name != "" {
		return question + " " + name
	}
	return question
}

func videoResult(v model.VideoSummary) model.VideoResult {
	ts := timestamp.Resolve(v.Description, v.Title)
	return model.VideoResult{
		VideoID:      v.VideoID,
		Title:        v.Title,
		Description:  v.Description,
		VideoLink:    timestamp.FormatChapterLink(v.VideoID, timestamp.Seconds(ts)),
		Time:         ts,
		PublishedAt:  v.PublishedAt,
		ChannelTitle: v.ChannelTitle,
		ChannelID:    v.ChannelID,
		Thumbnail:    v.Thumbnail,
	}
}
