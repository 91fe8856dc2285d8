package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/expert-answers/internal/answer"
	"github.com/sells-group/expert-answers/internal/catalog"
	"github.com/sells-group/expert-answers/internal/model"
	"github.com/sells-group/expert-answers/internal/timestamp"
)

func serve(t *testing.T, a Answerer, tags TagSource, target string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(a, tags, Options{})
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRootAndHealth(t *testing.T) {
	rr := serve(t, nil, nil, "/")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Expert Answers API","version":"0.1.0"}`, rr.Body.String())

	rr = serve(t, nil, nil, "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"status":"healthy"}`, rr.Body.String())
}

func TestAnswerDefaults(t *testing.T) {
	a := &mockAnswerer{}
	a.On("Answer", mock.Anything, answer.Request{Question: "What is Maya?", Count: 5}).
		Return(model.NewResponse(model.SearchStatusNoResults), nil)

	rr := serve(t, a, nil, "/api/answers/v1?question=What+is+Maya%3F")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"answers":[],"relatedQuestions":[],"youtubeSearchResults":[],"searchStatus":"no_results"}`, rr.Body.String())
	a.AssertExpectations(t)
}

func TestAnswerPassesParams(t *testing.T) {
	resp := model.NewResponse(model.SearchStatusQAMatch)
	resp.Answers = []model.Answer{{QuestionTitle: "What is Maya?", VideoLink: "https://www.youtube.com/watch?v=aaa&t=65s", Time: "00:01:05", MatchRank: 1}}

	a := &mockAnswerer{}
	a.On("Answer", mock.Anything, answer.Request{Question: "maya", Count: 3, IncludeRelated: true}).Return(resp, nil)

	rr := serve(t, a, nil, "/api/answers/v1?question=maya&count=3&include_related=true")

	require.Equal(t, http.StatusOK, rr.Code)
	var got model.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, model.SearchStatusQAMatch, got.SearchStatus)
	require.Len(t, got.Answers, 1)
	assert.Equal(t, 1, got.Answers[0].MatchRank)
	a.AssertExpectations(t)
}

func TestAnswerBadParams(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"count not a number", "/api/answers/v1?question=q&count=ten", "count must be an integer"},
		{"include_related not a bool", "/api/answers/v1?question=q&include_related=maybe", "include_related must be a boolean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &mockAnswerer{}
			rr := serve(t, a, nil, tt.target)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.want)
			a.AssertNotCalled(t, "Answer", mock.Anything, mock.Anything)
		})
	}
}

func TestAnswerInvalidInput(t *testing.T) {
	a := &mockAnswerer{}
	a.On("Answer", mock.Anything, answer.Request{Question: "q", Count: 51}).
		Return(nil, eris.Wrap(answer.ErrInvalidInput, "count must be between 1 and 50, got 51"))

	rr := serve(t, a, nil, "/api/answers/v1?question=q&count=51")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "count must be between 1 and 50")
}

func TestAnswerInternalError(t *testing.T) {
	a := &mockAnswerer{}
	a.On("Answer", mock.Anything, mock.Anything).
		Return(nil, eris.Wrap(catalog.ErrNotFound, "answer: qa_match"))

	rr := serve(t, a, nil, "/api/answers/v1?question=q")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())
}

func TestSearchExperts(t *testing.T) {
	region := "India"
	a := &mockAnswerer{}
	a.On("SearchExperts", mock.Anything, answer.ExpertQuery{
		Topic: "karma", Author: "Swami", DateRange: "2024-01-01,2024-12-31", Count: 10,
	}).Return([]model.ExpertAnswer{{VideoLink: "https://www.youtube.com/watch?v=aaa", Time: "00:00:00", Speakers: "Swami", Date: "2024-03-01", Region: &region}}, nil)

	rr := serve(t, a, nil, "/api/answers?topic=karma&author=Swami&dateRange=2024-01-01,2024-12-31")

	require.Equal(t, http.StatusOK, rr.Code)
	var got []model.ExpertAnswer
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Region)
	assert.Equal(t, "India", *got[0].Region)
	a.AssertExpectations(t)
}

func TestSearchExpertsEmptyIsArray(t *testing.T) {
	a := &mockAnswerer{}
	a.On("SearchExperts", mock.Anything, mock.Anything).Return(nil, nil)

	rr := serve(t, a, nil, "/api/answers?topic=karma&count=2")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestSearchExpertsBadDateRange(t *testing.T) {
	a := &mockAnswerer{}
	a.On("SearchExperts", mock.Anything, mock.Anything).Return(nil, timestamp.ErrInvalidDateRange)

	rr := serve(t, a, nil, "/api/answers?topic=karma&dateRange=2024")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "date range")
}

func TestTags(t *testing.T) {
	tags := &mockTags{}
	tags.On("Tags", mock.Anything).Return([]model.TagCount{{Tag: "Vedanta", Count: 2}, {Tag: "Other", Count: 1}}, nil)

	rr := serve(t, nil, tags, "/api/tags")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"tag":"Vedanta","count":2},{"tag":"Other","count":1}]`, rr.Body.String())
}

func TestQuestionsByTag(t *testing.T) {
	tags := &mockTags{}
	tags.On("QuestionsByTag", mock.Anything, "Meditation").Return([]model.TaggedQuestion{{
		Question: "How to meditate?", URL: "https://www.youtube.com/watch?v=bbb&t=65s",
		Timestamp: "00:01:05", PrimaryTag: "Meditation", Tags: []string{"Meditation"},
	}}, nil)

	rr := serve(t, nil, tags, "/api/tags/Meditation/questions")

	require.Equal(t, http.StatusOK, rr.Code)
	var got []model.TaggedQuestion
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "00:01:05", got[0].Timestamp)
	tags.AssertExpectations(t)
}

func TestTagsCatalogMissing(t *testing.T) {
	tags := &mockTags{}
	tags.On("Tags", mock.Anything).Return(nil, eris.Wrap(catalog.ErrNotFound, "catalog: askswami_chapters_tagged.json"))

	rr := serve(t, nil, tags, "/api/tags")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "file not found")
}

func TestCORS(t *testing.T) {
	router := NewRouter(nil, nil, Options{AllowedOrigins: []string{"https://app.example.org"}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example.org")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, "https://app.example.org", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	rr := serve(t, nil, nil, "/api/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
