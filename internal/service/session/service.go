// Package session owns the server-side player sessions. A websocket
// connection mounts exactly one session: the video URL is classified, the
// matching adapter is constructed, and every state transition is pushed back
// over the connection. Closing the connection unmounts the session and
// releases every timer the adapter armed.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/eduplay/server/internal/service/video"
	"github.com/eduplay/server/internal/upstream"
	"github.com/eduplay/server/pkg/clock"
	"github.com/eduplay/server/pkg/videourl"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

type iVideoService interface {
	ListVideos(context.Context, *video.ListVideosParams) (video.VideoList, error)
	GetVideo(context.Context, string) (video.VideoDetail, error)
	ListComments(context.Context, string) ([]upstream.Comment, error)
	CreateComment(context.Context, *video.CreateCommentParams) (string, error)
}

type Config struct {
	PageLimit int
}

type service struct {
	videoService iVideoService
	clk          clock.Clock
	pageLimit    int
	logger       *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewService(videoService iVideoService, clk clock.Clock, cfg *Config, logger *slog.Logger) *service {
	return &service{
		videoService: videoService,
		clk:          clk,
		pageLimit:    cfg.PageLimit,
		logger:       logger,
		sessions:     make(map[string]*session),
	}
}

func (s *service) CreateSession(ctx context.Context, params *CreateSessionParams) (CreateSessionResponse, error) {
	classification := videourl.Classify(params.VideoURL)

	sess := &session{
		id:             uuid.NewString(),
		userId:         params.UserId,
		classification: classification,
		nativeEngine:   params.NativeEngine,
		vimeoEngine:    params.VimeoEngine,
		send:           params.Send,
		clk:            s.clk,
		logger:         s.logger,
	}

	if err := sess.mountAdapter(); err != nil {
		return CreateSessionResponse{}, fmt.Errorf("failed to mount adapter: %w", err)
	}
	sess.mountLoaders(s.videoService, s.pageLimit)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "session created",
		"session_id", sess.id,
		"kind", classification.Kind,
	)

	return CreateSessionResponse{
		SessionId:      sess.id,
		Classification: classification,
		EmbedURL:       sess.embedURL(),
		State:          sess.adapter.State(),
	}, nil
}

func (s *service) CloseSession(ctx context.Context, sessionId string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionId]
	delete(s.sessions, sessionId)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	sess.close()
	s.logger.InfoContext(ctx, "session closed", "session_id", sessionId)

	return nil
}

func (s *service) getSession(sessionId string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionId]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// player actions

func (s *service) PlayPause(sessionId string) error {
	sess, err := s.getSession(sessionId)
	if err != nil {
		return err
	}
	sess.adapter.PlayPause()
	return nil
}

func (s *service) SeekToFraction(sessionId string, fraction float64) error {
	sess, err := s.getSession(sessionId)
	if err != nil {
		return err
	}
	sess.adapter.SeekToFraction(fraction)
	return nil
}

func (s *service) SeekBy(sessionId string, seconds float64) error {
	sess, err := s.getSession(sessionId)
	if err != nil {
		return err
	}
	sess.adapter.SeekBy(seconds)
	return nil
}

func (s *service) SetVolume(sessionId string, volume float64) error {
	sess, err := s.getSession(sessionId)
	if err != nil {
		return err
	}
	sess.adapter.SetVolume(volume)
	return nil
}

func (s *service) ToggleMute(sessionId string) error {
	sess, err := s.getSession(sessionId)
	if err != nil {
		return err
	}
	sess.adapter.ToggleMute()
	return nil
}

func (s *service) SetRate(sessionId string, rate float64) error {
	sess, err := s.getSession(sessionId)
	if err != nil {
		return err
	}
	sess.adapter.SetRate(rate)
	return nil
}

func (s *service) ToggleFullscreen(sessionId string) error {
	sess, err := s.getSession(sessionId)
	if err != nil {
		return err
	}
	sess.adapter.ToggleFullscreen()
	return nil
}

func (s *service) Interact(sessionId string) error {
	sess, err := s.getSession(sessionId)
	if err != nil {
		return err
	}
	sess.adapter.Interact()
	return nil
}

func (s *service) PressKey(sessionId string, key string) error {
	sess, err := s.getSession(sessionId)
	if err != nil {
		return err
	}
	sess.adapter.HandleKey(key)
	return nil
}

// RetryPlayer remounts the adapter after a terminal engine error. The
// youtube adapter has a native remount (forced iframe reload); the others
// are rebuilt from scratch.
func (s *service) RetryPlayer(sessionId string) (CreateSessionResponse, error) {
	sess, err := s.getSession(sessionId)
	if err != nil {
		return CreateSessionResponse{}, err
	}

	if err := sess.remountAdapter(); err != nil {
		return CreateSessionResponse{}, fmt.Errorf("failed to remount adapter: %w", err)
	}

	return CreateSessionResponse{
		SessionId:      sess.id,
		Classification: sess.classification,
		EmbedURL:       sess.embedURL(),
		State:          sess.adapter.State(),
	}, nil
}

// ApplyEngineEvent routes a browser-side engine callback to the adapter.
// Events for a kind that does not understand them are ignored, not errors:
// a late callback after a remount is normal.
func (s *service) ApplyEngineEvent(sessionId string, event *EngineEvent) error {
	sess, err := s.getSession(sessionId)
	if err != nil {
		return err
	}

	sess.applyEngineEvent(event)
	return nil
}

// browsing operations, each driven through the fetch layer

func (s *service) LoadMoreVideos(ctx context.Context, sessionId string) error {
	sess, err := s.getSession(sessionId)
	if err != nil {
		return err
	}
	go sess.videosPager.LoadMore(ctx)
	return nil
}

func (s *service) ResetVideos(sessionId string) error {
	sess, err := s.getSession(sessionId)
	if err != nil {
		return err
	}
	sess.videosPager.Reset()
	return nil
}

func (s *service) LoadVideo(ctx context.Context, sessionId string, videoId string) error {
	sess, err := s.getSession(sessionId)
	if err != nil {
		return err
	}
	sess.loadVideo(ctx, videoId)
	return nil
}

func (s *service) LoadComments(ctx context.Context, sessionId string, videoId string) error {
	sess, err := s.getSession(sessionId)
	if err != nil {
		return err
	}
	sess.loadComments(ctx, videoId)
	return nil
}

func (s *service) SubmitComment(ctx context.Context, sessionId string, params *video.CreateCommentParams) error {
	sess, err := s.getSession(sessionId)
	if err != nil {
		return err
	}
	sess.submitComment(ctx, params)
	return nil
}
