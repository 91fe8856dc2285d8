package matcher

import (
	"context"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/expert-answers/internal/model"
	"github.com/sells-group/expert-answers/pkg/anthropic"
)

type fakeCatalog struct {
	questions []model.QuestionRecord
	err       error
}

func (f *fakeCatalog) Questions(context.Context) ([]model.QuestionRecord, error) {
	return f.questions, f.err
}

func reply(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}
}

// stage matches requests by their system prompt.
func stage(system string) any {
	return mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return len(req.System) > 0 && req.System[0].Text == system
	})
}

// userPrompt matches requests whose user prompt contains substr.
func userPrompt(substr string) any {
	return mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return len(req.Messages) > 0 && strings.Contains(req.Messages[0].Content, substr)
	})
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{questions: []model.QuestionRecord{
		{Question: "What is Maya?", URL: "https://www.youtube.com/watch?v=aaa&t=65s", Timestamp: "00:01:05"},
		{Question: "Is the world an illusion?", URL: "https://www.youtube.com/watch?v=aaa&t=300s", Timestamp: "00:05:00"},
		{Question: "How to meditate?", URL: "https://www.youtube.com/watch?v=bbb", Timestamp: "00:00:00"},
		{Question: "What is Brahman?", URL: "https://www.youtube.com/watch?v=ccc&t=10s", Timestamp: "00:00:10"},
		{Question: "Why do we suffer?", URL: "https://www.youtube.com/watch?v=ddd&t=20s", Timestamp: "00:00:20"},
	}}
}
