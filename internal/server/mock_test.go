package server

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/expert-answers/internal/answer"
	"github.com/sells-group/expert-answers/internal/model"
)

type mockAnswerer struct {
	mock.Mock
}

func (m *mockAnswerer) Answer(ctx context.Context, req answer.Request) (*model.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Response), args.Error(1)
}

func (m *mockAnswerer) SearchExperts(ctx context.Context, q answer.ExpertQuery) ([]model.ExpertAnswer, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ExpertAnswer), args.Error(1)
}

type mockTags struct {
	mock.Mock
}

func (m *mockTags) Tags(ctx context.Context) ([]model.TagCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TagCount), args.Error(1)
}

func (m *mockTags) QuestionsByTag(ctx context.Context, tag string) ([]model.TaggedQuestion, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TaggedQuestion), args.Error(1)
}
