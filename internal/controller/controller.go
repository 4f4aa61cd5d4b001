package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/eduplay/server/internal/service/session"
	"github.com/eduplay/server/internal/service/video"
	"github.com/eduplay/server/internal/upstream"
	"github.com/eduplay/server/pkg/validator"
)

type iSessionService interface {
	CreateSession(context.Context, *session.CreateSessionParams) (session.CreateSessionResponse, error)
	CloseSession(context.Context, string) error
	PlayPause(sessionId string) error
	SeekToFraction(sessionId string, fraction float64) error
	SeekBy(sessionId string, seconds float64) error
	SetVolume(sessionId string, volume float64) error
	ToggleMute(sessionId string) error
	SetRate(sessionId string, rate float64) error
	ToggleFullscreen(sessionId string) error
	Interact(sessionId string) error
	PressKey(sessionId string, key string) error
	RetryPlayer(sessionId string) (session.CreateSessionResponse, error)
	ApplyEngineEvent(sessionId string, event *session.EngineEvent) error
	LoadMoreVideos(ctx context.Context, sessionId string) error
	ResetVideos(sessionId string) error
	LoadVideo(ctx context.Context, sessionId string, videoId string) error
	LoadComments(ctx context.Context, sessionId string, videoId string) error
	SubmitComment(ctx context.Context, sessionId string, params *video.CreateCommentParams) error
}

type iVideoService interface {
	ListVideos(context.Context, *video.ListVideosParams) (video.VideoList, error)
	GetVideo(context.Context, string) (video.VideoDetail, error)
	CreateVideo(context.Context, *video.CreateVideoParams) (string, error)
	UpdateVideo(context.Context, *video.UpdateVideoParams) (string, error)
	ListComments(context.Context, string) ([]upstream.Comment, error)
	CreateComment(context.Context, *video.CreateCommentParams) (string, error)
}

type iConnRepo interface {
	Add(conn *websocket.Conn, sessionId string) error
	RemoveByConn(conn *websocket.Conn) (string, error)
	GetSessionId(conn *websocket.Conn) (string, error)
	GetConn(sessionId string) (*websocket.Conn, error)
}

type controller struct {
	sessionService iSessionService
	videoService   iVideoService
	connRepo       iConnRepo
	upgrader       websocket.Upgrader
	validate       *validator.Validator
	logger         *slog.Logger
}

func NewController(sessionService iSessionService, videoService iVideoService, connRepo iConnRepo, logger *slog.Logger) *controller {
	return &controller{
		sessionService: sessionService,
		videoService:   videoService,
		connRepo:       connRepo,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		logger:   logger,
	}
}
