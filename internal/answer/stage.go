package answer

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/expert-answers/internal/model"
	"github.com/sells-group/expert-answers/internal/timestamp"
	"github.com/sells-group/expert-answers/pkg/youtube"
)

// Stage is one step of the fallback sequence.
type Stage int

// Stages in evaluation order.
const (
	StageQAMatch Stage = iota
	StageRelatedQuestions
	StageYouTubeSearch
	StageNoResults
)

var stages = []Stage{StageQAMatch, StageRelatedQuestions, StageYouTubeSearch, StageNoResults}

// Status returns the search status a response from this stage carries.
func (s Stage) Status() model.SearchStatus {
	switch s {
	case StageQAMatch:
		return model.SearchStatusQAMatch
	case StageRelatedQuestions:
		return model.SearchStatusRelatedQuestions
	case StageYouTubeSearch:
		return model.SearchStatusYouTubeSearch
	default:
		return model.SearchStatusNoResults
	}
}

func (s Stage) String() string { return string(s.Status()) }

// transitionFunc returns a terminal response with done=true, or done=false
// to fall through to the next stage.
type transitionFunc func(ctx context.Context, req Request) (resp *model.Response, done bool, err error)

func (o *Orchestrator) transition(s Stage) transitionFunc {
	switch s {
	case StageQAMatch:
		return o.qaMatch
	case StageRelatedQuestions:
		return o.relatedQuestions
	case StageYouTubeSearch:
		return o.youtubeSearch
	default:
		return o.noResults
	}
}

func (o *Orchestrator) qaMatch(ctx context.Context, req Request) (*model.Response, bool, error) {
	matches, err := o.matcher.Match(ctx, req.Question, req.Count)
	if err != nil {
		return nil, false, err
	}
	if len(matches) == 0 {
		return nil, false, nil
	}

	resp := model.NewResponse(model.SearchStatusQAMatch)
	for _, m := range matches {
		videoID := timestamp.VideoID(m.URL)
		resp.Answers = append(resp.Answers, model.Answer{
			QuestionTitle: m.Question,
			VideoLink:     m.URL,
			Time:          m.Timestamp,
			VideoID:       videoID,
			Thumbnail:     o.thumbnail(ctx, videoID),
			PlaylistID:    o.playlist(ctx, videoID),
			MatchRank:     m.MatchRank,
		})
	}

	if req.IncludeRelated {
		if q, ok := o.matcher.SuggestFollowup(ctx, req.Question, model.Texts(matches)); ok {
			resp.RelatedQuestion = &q
		}
	}
	return resp, true, nil
}

func (o *Orchestrator) relatedQuestions(ctx context.Context, req Request) (*model.Response, bool, error) {
	related, err := o.matcher.FindRelated(ctx, req.Question, relatedCount)
	if err != nil {
		return nil, false, err
	}
	if len(related) == 0 {
		return nil, false, nil
	}

	// Only offer related questions the catalog can actually answer.
	probe, err := o.matcher.Match(ctx, related[0], 1)
	if err != nil {
		return nil, false, err
	}
	if len(probe) == 0 {
		return nil, false, nil
	}

	resp := model.NewResponse(model.SearchStatusRelatedQuestions)
	resp.RelatedQuestions = append(resp.RelatedQuestions, related[:min(len(related), relatedCount)]...)
	return resp, true, nil
}

func (o *Orchestrator) youtubeSearch(ctx context.Context, req Request) (*model.Response, bool, error) {
	if o.videos == nil {
		return nil, false, nil
	}

	videos, err := o.videos.Search(ctx, youtube.SearchRequest{
		Query:      o.searchQuery(req.Question),
		ChannelID:  o.cfg.ChannelID,
		MaxResults: min(req.Count, maxVideoResults),
	})
	if err != nil {
		zap.L().Warn("answer: video search failed",
			zap.String("stage", StageYouTubeSearch.String()),
			zap.String("query", req.Question),
			zap.Error(err),
		)
		return nil, false, nil
	}
	if len(videos) == 0 {
		return nil, false, nil
	}

	resp := model.NewResponse(model.SearchStatusYouTubeSearch)
	for _, v := range videos {
		r := videoResult(v)
		if r.Thumbnail == "" {
			r.Thumbnail = o.thumbnail(ctx, v.VideoID)
		}
		r.PlaylistID = o.playlist(ctx, v.VideoID)
		resp.YouTubeSearchResults = append(resp.YouTubeSearchResults, r)
	}
	return resp, true, nil
}

func (o *Orchestrator) noResults(context.Context, Request) (*model.Response, bool, error) {
	return model.NewResponse(model.SearchStatusNoResults), true, nil
}
