package answer

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/expert-answers/internal/model"
)

// --- Matcher Mock ---

type mockMatcher struct {
	mock.Mock
}

func (m *mockMatcher) Match(ctx context.Context, query string, topN int) ([]model.MatchCandidate, error) {
	args := m.Called(ctx, query, topN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MatchCandidate), args.Error(1)
}

func (m *mockMatcher) FindRelated(ctx context.Context, query string, n int) ([]string, error) {
	args := m.Called(ctx, query, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockMatcher) SuggestFollowup(ctx context.Context, query string, matched []string) (string, bool) {
	args := m.Called(ctx, query, matched)
	return args.String(0), args.Bool(1)
}

// --- Playlists Fake ---

type fakePlaylists map[string]string

func (f fakePlaylists) PlaylistID(_ context.Context, videoID string) (string, bool) {
	id, ok := f[videoID]
	return id, ok
}

func candidate(question, url, ts string, rank int) model.MatchCandidate {
	return model.MatchCandidate{
		QuestionRecord: model.QuestionRecord{Question: question, URL: url, Timestamp: ts},
		MatchRank:      rank,
	}
}
