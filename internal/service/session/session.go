package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/eduplay/server/internal/fetch"
	"github.com/eduplay/server/internal/player"
	"github.com/eduplay/server/internal/service/video"
	"github.com/eduplay/server/internal/upstream"
	"github.com/eduplay/server/pkg/clock"
	"github.com/eduplay/server/pkg/videourl"
)

var errEngineMissing = errors.New("no engine provided for platform")

// session is the state one connection owns: the mounted adapter plus the
// fetch-layer loaders backing the page it renders. Nothing here is shared
// across sessions.
type session struct {
	id             string
	userId         string
	classification videourl.Classification
	nativeEngine   player.NativeEngine
	vimeoEngine    player.VimeoEngine
	send           Sender
	clk            clock.Clock
	logger         *slog.Logger
	videoService   iVideoService

	adapter player.Adapter

	videosPager     *fetch.Paginated[video.VideoItem]
	videoLoader     *fetch.Loader[video.VideoDetail]
	commentsLoader  *fetch.Loader[[]upstream.Comment]
	commentMutation *fetch.Mutation[*video.CreateCommentParams, string]
}

// mountAdapter picks the adapter for the classification. Unknown kinds fall
// back to the native adapter, which surfaces its own engine error if the
// source cannot be decoded.
func (s *session) mountAdapter() error {
	switch s.classification.Kind {
	case videourl.KindYouTube:
		s.adapter = player.NewYouTube(s.classification.ID, s.clk, s.logger)
	case videourl.KindVimeo:
		if s.vimeoEngine == nil {
			return errEngineMissing
		}
		s.adapter = player.NewVimeo(s.vimeoEngine, s.clk, s.logger)
	default:
		if s.nativeEngine == nil {
			return errEngineMissing
		}
		s.adapter = player.NewNative(s.nativeEngine, s.clk, s.logger)
	}

	s.adapter.Subscribe(func(state player.State) {
		s.send("PLAYER_STATE", state)
	})

	return nil
}

func (s *session) remountAdapter() error {
	if yt, ok := s.adapter.(*player.YouTube); ok {
		yt.Retry()
		return nil
	}

	s.adapter.Close()
	return s.mountAdapter()
}

func (s *session) embedURL() string {
	if yt, ok := s.adapter.(*player.YouTube); ok {
		return yt.EmbedURL()
	}
	return s.classification.EmbedURL
}

func (s *session) applyEngineEvent(event *EngineEvent) {
	switch a := s.adapter.(type) {
	case *player.Native:
		switch event.Type {
		case EngineEventReady:
			a.OnReady(event.Duration)
		case EngineEventProgress:
			a.OnProgress(event.Played, event.Loaded)
		case EngineEventDuration:
			a.OnDuration(event.Duration)
		case EngineEventError:
			a.OnError(event.Message)
		}
	case *player.YouTube:
		switch event.Type {
		case EngineEventReady, EngineEventLoaded:
			a.OnLoaded()
		case EngineEventError:
			a.OnError(event.Message)
		}
	case *player.Vimeo:
		switch event.Type {
		case EngineEventLoaded, EngineEventReady:
			a.OnLoaded()
		case EngineEventPlay:
			a.OnPlay()
		case EngineEventPause:
			a.OnPause()
		case EngineEventTimeUpdate:
			a.OnTimeUpdate(event.Percent)
		case EngineEventError:
			a.OnError(event.Message)
		}
	}
}

func (s *session) mountLoaders(videoService iVideoService, pageLimit int) {
	s.videosPager = fetch.NewPaginated(func(ctx context.Context, page int) ([]video.VideoItem, bool, error) {
		list, err := videoService.ListVideos(ctx, &video.ListVideosParams{
			UserId: s.userId,
			Page:   page,
			Limit:  pageLimit,
		})
		if err != nil {
			return nil, false, err
		}
		return list.Videos, list.HasNext, nil
	})
	s.videosPager.OnChange(func(state fetch.PageState[video.VideoItem]) {
		s.send("VIDEO_LIST", toListPayload(state))
	})

	s.commentMutation = fetch.NewMutation(func(ctx context.Context, params *video.CreateCommentParams) (string, error) {
		return videoService.CreateComment(ctx, params)
	})
	s.commentMutation.OnChange(func(state fetch.State[string]) {
		s.send("COMMENT_SUBMITTED", toMutationPayload(state))
	})

	s.videoService = videoService
}

// loadVideo replaces the single-video loader; the superseded request is
// canceled and can no longer write state.
func (s *session) loadVideo(ctx context.Context, videoId string) {
	if s.videoLoader != nil {
		s.videoLoader.Close()
	}

	loader := fetch.NewLoader(func(ctx context.Context) (video.VideoDetail, error) {
		return s.videoService.GetVideo(ctx, videoId)
	})
	loader.OnChange(func(state fetch.State[video.VideoDetail]) {
		s.send("VIDEO_DETAIL", toDetailPayload(state))
	})
	s.videoLoader = loader

	go loader.Execute(ctx)
}

func (s *session) loadComments(ctx context.Context, videoId string) {
	if s.commentsLoader != nil {
		s.commentsLoader.Close()
	}

	loader := fetch.NewLoader(func(ctx context.Context) ([]upstream.Comment, error) {
		return s.videoService.ListComments(ctx, videoId)
	})
	loader.OnChange(func(state fetch.State[[]upstream.Comment]) {
		s.send("COMMENTS", toCommentsPayload(state))
	})
	s.commentsLoader = loader

	go loader.Execute(ctx)
}

func (s *session) submitComment(ctx context.Context, params *video.CreateCommentParams) {
	go func() {
		if _, err := s.commentMutation.Do(ctx, params); err != nil {
			return
		}
		// comment list is append-only upstream, refetch to pick it up
		s.loadComments(ctx, params.VideoId)
	}()
}

// close unmounts everything: player timers, in-flight loads, observers.
func (s *session) close() {
	s.adapter.Close()
	s.videosPager.Close()
	s.commentMutation.Close()
	if s.videoLoader != nil {
		s.videoLoader.Close()
	}
	if s.commentsLoader != nil {
		s.commentsLoader.Close()
	}
}

func toListPayload(state fetch.PageState[video.VideoItem]) listPayload {
	payload := listPayload{
		Status:  string(state.Status),
		Videos:  make([]videoListEntry, 0, len(state.Items)),
		HasMore: state.HasMore,
	}
	if state.Err != nil {
		payload.Error = state.Err.Error()
	}
	for _, item := range state.Items {
		payload.Videos = append(payload.Videos, videoListEntry{
			Id:             item.Id,
			Title:          item.Title,
			Description:    item.Description,
			VideoURL:       item.VideoURL,
			CreatedAt:      item.CreatedAt,
			NumComments:    item.NumComments,
			Classification: item.Classification,
			ThumbnailSrc:   item.ThumbnailSrc,
		})
	}
	return payload
}

func toDetailPayload(state fetch.State[video.VideoDetail]) detailPayload {
	payload := detailPayload{Status: string(state.Status)}
	if state.Err != nil {
		payload.Error = state.Err.Error()
	}
	if state.Status == fetch.StatusSuccess {
		payload.Video = state.Data
	}
	return payload
}

func toCommentsPayload(state fetch.State[[]upstream.Comment]) commentsPayload {
	payload := commentsPayload{
		Status:   string(state.Status),
		Comments: state.Data,
	}
	if state.Err != nil {
		payload.Error = state.Err.Error()
	}
	return payload
}

func toMutationPayload(state fetch.State[string]) mutationPayload {
	payload := mutationPayload{
		Status: string(state.Status),
		Token:  state.Data,
	}
	if state.Err != nil {
		payload.Error = state.Err.Error()
	}
	return payload
}
