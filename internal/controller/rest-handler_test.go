package controller

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduplay/server/internal/repository/connection/inmemory"
	"github.com/eduplay/server/internal/service/video"
	"github.com/eduplay/server/internal/upstream"
)

type stubVideoService struct {
	list     video.VideoList
	detail   video.VideoDetail
	comments []upstream.Comment
	err      error
}

func (f *stubVideoService) ListVideos(ctx context.Context, params *video.ListVideosParams) (video.VideoList, error) {
	return f.list, f.err
}

func (f *stubVideoService) GetVideo(ctx context.Context, videoId string) (video.VideoDetail, error) {
	return f.detail, f.err
}

func (f *stubVideoService) CreateVideo(ctx context.Context, params *video.CreateVideoParams) (string, error) {
	return "created", f.err
}

func (f *stubVideoService) UpdateVideo(ctx context.Context, params *video.UpdateVideoParams) (string, error) {
	return "updated", f.err
}

func (f *stubVideoService) ListComments(ctx context.Context, videoId string) ([]upstream.Comment, error) {
	return f.comments, f.err
}

func (f *stubVideoService) CreateComment(ctx context.Context, params *video.CreateCommentParams) (string, error) {
	return "commented", f.err
}

type stubSessionService struct {
	iSessionService
}

func newRESTController(videos *stubVideoService) http.Handler {
	c := NewController(stubSessionService{}, videos, inmemory.NewRepo(), slog.Default())
	return c.GetMux()
}

func TestListVideosHandler(t *testing.T) {
	mux := newRESTController(&stubVideoService{
		list: video.VideoList{
			Videos:  []video.VideoItem{{Video: upstream.Video{Id: "v1"}}},
			Total:   1,
			HasNext: false,
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/videos?page=1&limit=8", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data video.VideoList `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Len(t, body.Data.Videos, 1)
}

func TestGetVideoHandlerRequiresId(t *testing.T) {
	mux := newRESTController(&stubVideoService{})

	req := httptest.NewRequest(http.MethodGet, "/api/videos/single", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateVideoHandlerValidatesPayload(t *testing.T) {
	mux := newRESTController(&stubVideoService{})

	req := httptest.NewRequest(http.MethodPost, "/api/videos",
		strings.NewReader(`{"user_id":"u1","title":"","video_url":"not a url"}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "errors")
}

func TestCreateVideoHandler(t *testing.T) {
	mux := newRESTController(&stubVideoService{})

	req := httptest.NewRequest(http.MethodPost, "/api/videos",
		strings.NewReader(`{"user_id":"u1","title":"My video","video_url":"https://youtu.be/abc123"}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "created")
}

func TestUpstreamErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *upstream.Error
		status int
	}{
		{"validation", &upstream.Error{Kind: upstream.ErrorKindValidation, Message: "bad"}, http.StatusUnprocessableEntity},
		{"not found", &upstream.Error{Kind: upstream.ErrorKindNotFound, Message: "missing"}, http.StatusNotFound},
		{"auth", &upstream.Error{Kind: upstream.ErrorKindAuth, Message: "nope"}, http.StatusUnauthorized},
		{"network", &upstream.Error{Kind: upstream.ErrorKindNetwork, Message: "down"}, http.StatusBadGateway},
		{"parse", &upstream.Error{Kind: upstream.ErrorKindParse, Message: "garbled"}, http.StatusBadGateway},
		{"api passthrough", &upstream.Error{Kind: upstream.ErrorKindAPI, Status: 503, Message: "unavailable"}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newRESTController(&stubVideoService{err: tt.err})

			req := httptest.NewRequest(http.MethodGet, "/api/videos/single?video_id=v1", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestCreateCommentHandler(t *testing.T) {
	mux := newRESTController(&stubVideoService{})

	req := httptest.NewRequest(http.MethodPost, "/api/videos/comments",
		strings.NewReader(`{"video_id":"v1","user_id":"u1","content":"nice"}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "commented")
}
