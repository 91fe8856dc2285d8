package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient implements Client for testing.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MessageResponse), args.Error(1)
}

func TestComplete_BuildsSingleTurnRequest(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("CreateMessage", ctx, mock.MatchedBy(func(req MessageRequest) bool {
		return req.Model == "claude-haiku-4-5-20251001" &&
			req.MaxTokens == 150 &&
			len(req.System) == 1 && req.System[0].Text == "be terse" &&
			len(req.Messages) == 1 && req.Messages[0].Role == "user" && req.Messages[0].Content == "hello" &&
			req.Temperature != nil && *req.Temperature == 0
	})).Return(&MessageResponse{
		Content: []ContentBlock{{Type: "text", Text: "[1, 2]"}},
		Usage:   TokenUsage{InputTokens: 10, OutputTokens: 4},
	}, nil)

	text, err := Complete(ctx, mc, CompletionRequest{
		Model:     "claude-haiku-4-5-20251001",
		System:    "be terse",
		User:      "hello",
		MaxTokens: 150,
		Phase:     "test",
	})
	require.NoError(t, err)
	assert.Equal(t, "[1, 2]", text)
	mc.AssertExpectations(t)
}

func TestComplete_NoSystemPrompt(t *testing.T) {
	mc := new(MockClient)
	mc.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req MessageRequest) bool {
		return len(req.System) == 0
	})).Return(&MessageResponse{Content: []ContentBlock{{Type: "text", Text: "ok"}}}, nil)

	text, err := Complete(context.Background(), mc, CompletionRequest{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestComplete_ProviderError(t *testing.T) {
	mc := new(MockClient)
	mc.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("overloaded"))

	_, err := Complete(context.Background(), mc, CompletionRequest{User: "hi", Phase: "candidates"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "candidates")
	assert.Contains(t, err.Error(), "overloaded")
}

func TestComplete_NilClient(t *testing.T) {
	_, err := Complete(context.Background(), nil, CompletionRequest{User: "hi"})
	assert.Error(t, err)
}

func TestExtractText(t *testing.T) {
	assert.Equal(t, "", ExtractText(nil))
	resp := &MessageResponse{Content: []ContentBlock{
		{Type: "text", Text: "a"},
		{Type: "tool_use"},
		{Type: "text", Text: "b"},
	}}
	assert.Equal(t, "a\nb", ExtractText(resp))
}

func TestEstimateCost(t *testing.T) {
	u := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	assert.InDelta(t, 4.80, u.EstimateCost("claude-haiku-4-5-20251001"), 0.0001)
	assert.Equal(t, 0.0, u.EstimateCost("unknown-model"))
}

func TestSDKClient_CreateMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "/messages")

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 0.0, body["temperature"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"id":   "msg_test_001",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": "[3, 1]"},
			},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": "end_turn",
			"usage": map[string]any{
				"input_tokens":  12,
				"output_tokens": 4,
			},
		})
	}))
	defer ts.Close()

	client := NewClient("test-key", option.WithBaseURL(ts.URL), option.WithMaxRetries(0))
	text, err := Complete(context.Background(), client, CompletionRequest{
		Model:     "claude-haiku-4-5-20251001",
		System:    "match questions",
		User:      "which?",
		MaxTokens: 150,
	})
	require.NoError(t, err)
	assert.Equal(t, "[3, 1]", text)
}

func TestSDKClient_CreateMessage_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	defer ts.Close()

	client := NewClient("test-key", option.WithBaseURL(ts.URL), option.WithMaxRetries(0))
	resp, err := client.CreateMessage(context.Background(), MessageRequest{
		Model:     "claude-haiku-4-5-20251001",
		MaxTokens: 10,
		Messages:  []Message{{Role: "user", Content: "hi"}},
	})
	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "anthropic: create message")
}
