// Package mocks provides test doubles for the youtube client.
package mocks

import (
	"context"

	model "github.com/sells-group/expert-answers/internal/model"
	youtube "github.com/sells-group/expert-answers/pkg/youtube"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Search provides a mock function with given fields: ctx, req
func (_m *MockClient) Search(ctx context.Context, req youtube.SearchRequest) ([]model.VideoSummary, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Search")
	}

	var r0 []model.VideoSummary
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, youtube.SearchRequest) ([]model.VideoSummary, error)); ok {
		return rf(ctx, req)
	}
	if rf, ok := ret.Get(0).(func(context.Context, youtube.SearchRequest) []model.VideoSummary); ok {
		r0 = rf(ctx, req)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.VideoSummary)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, youtube.SearchRequest) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GetThumbnail provides a mock function with given fields: ctx, videoID
func (_m *MockClient) GetThumbnail(ctx context.Context, videoID string) (string, error) {
	ret := _m.Called(ctx, videoID)

	if len(ret) == 0 {
		panic("no return value specified for GetThumbnail")
	}

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (string, error)); ok {
		return rf(ctx, videoID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) string); ok {
		r0 = rf(ctx, videoID)
	} else {
		r0 = ret.Get(0).(string)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, videoID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GetChannelDetails provides a mock function with given fields: ctx, channelID
func (_m *MockClient) GetChannelDetails(ctx context.Context, channelID string) (*model.ChannelDetails, error) {
	ret := _m.Called(ctx, channelID)

	if len(ret) == 0 {
		panic("no return value specified for GetChannelDetails")
	}

	var r0 *model.ChannelDetails
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*model.ChannelDetails, error)); ok {
		return rf(ctx, channelID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *model.ChannelDetails); ok {
		r0 = rf(ctx, channelID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.ChannelDetails)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, channelID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ListPlaylistVideoIDs provides a mock function with given fields: ctx, playlistID
func (_m *MockClient) ListPlaylistVideoIDs(ctx context.Context, playlistID string) ([]string, error) {
	ret := _m.Called(ctx, playlistID)

	if len(ret) == 0 {
		panic("no return value specified for ListPlaylistVideoIDs")
	}

	var r0 []string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]string, error)); ok {
		return rf(ctx, playlistID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) []string); ok {
		r0 = rf(ctx, playlistID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]string)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, playlistID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ListVideos provides a mock function with given fields: ctx, ids
func (_m *MockClient) ListVideos(ctx context.Context, ids []string) ([]model.VideoSummary, error) {
	ret := _m.Called(ctx, ids)

	if len(ret) == 0 {
		panic("no return value specified for ListVideos")
	}

	var r0 []model.VideoSummary
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, []string) ([]model.VideoSummary, error)); ok {
		return rf(ctx, ids)
	}
	if rf, ok := ret.Get(0).(func(context.Context, []string) []model.VideoSummary); ok {
		r0 = rf(ctx, ids)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.VideoSummary)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, []string) error); ok {
		r1 = rf(ctx, ids)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	mock := &MockClient{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
