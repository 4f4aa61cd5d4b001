package video

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/eduplay/server/internal/repository/cache"
	"github.com/eduplay/server/internal/thumbnail"
	"github.com/eduplay/server/internal/upstream"
	"github.com/eduplay/server/pkg/videourl"
	"github.com/eduplay/server/pkg/ytmeta"
)

type iUpstream interface {
	ListVideos(context.Context, *upstream.ListVideosParams) (upstream.VideoPage, error)
	GetVideo(context.Context, string) (upstream.Video, error)
	CreateVideo(context.Context, *upstream.CreateVideoParams) (string, error)
	UpdateVideo(context.Context, *upstream.UpdateVideoParams) (string, error)
	ListComments(context.Context, string) ([]upstream.Comment, error)
	CreateComment(context.Context, *upstream.CreateCommentParams) (string, error)
}

type iThumbnailResolver interface {
	Resolve(ctx context.Context, rawURL string, c videourl.Classification) thumbnail.ImageRef
}

type iMetadataCache interface {
	GetVideoMetadata(ctx context.Context, videoId string) (cache.VideoMetadata, error)
	SetVideoMetadata(ctx context.Context, params *cache.SetVideoMetadataParams) error
}

type iYtMeta interface {
	Get(ctx context.Context, videoId string) (*ytmeta.VideoData, error)
}

type service struct {
	upstream      iUpstream
	thumbnails    iThumbnailResolver
	metadataCache iMetadataCache
	ytMeta        iYtMeta
	logger        *slog.Logger
}

func NewService(upstreamClient iUpstream, thumbnails iThumbnailResolver, metadataCache iMetadataCache, ytMeta iYtMeta, logger *slog.Logger) *service {
	return &service{
		upstream:      upstreamClient,
		thumbnails:    thumbnails,
		metadataCache: metadataCache,
		ytMeta:        ytMeta,
		logger:        logger,
	}
}

func (s service) ListVideos(ctx context.Context, params *ListVideosParams) (VideoList, error) {
	page, err := s.upstream.ListVideos(ctx, &upstream.ListVideosParams{
		UserId: params.UserId,
		Page:   params.Page,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return VideoList{}, fmt.Errorf("failed to list videos: %w", err)
	}

	videos := make([]VideoItem, 0, len(page.Videos))
	for _, v := range page.Videos {
		videos = append(videos, s.enrich(ctx, v))
	}

	return VideoList{
		Videos:  videos,
		Total:   page.Total,
		HasNext: page.HasNext,
	}, nil
}

func (s service) GetVideo(ctx context.Context, videoId string) (VideoDetail, error) {
	v, err := s.upstream.GetVideo(ctx, videoId)
	if err != nil {
		return VideoDetail{}, fmt.Errorf("failed to get video: %w", err)
	}

	detail := VideoDetail{VideoItem: s.enrich(ctx, v)}

	if detail.Classification.Kind == videourl.KindYouTube {
		detail.Metadata = s.youtubeMetadata(ctx, detail.Classification.ID)
	}

	return detail, nil
}

func (s service) CreateVideo(ctx context.Context, params *CreateVideoParams) (string, error) {
	token, err := s.upstream.CreateVideo(ctx, &upstream.CreateVideoParams{
		UserId:      params.UserId,
		Title:       params.Title,
		Description: params.Description,
		VideoURL:    params.VideoURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create video: %w", err)
	}

	return token, nil
}

func (s service) UpdateVideo(ctx context.Context, params *UpdateVideoParams) (string, error) {
	token, err := s.upstream.UpdateVideo(ctx, &upstream.UpdateVideoParams{
		VideoId:     params.VideoId,
		Title:       params.Title,
		Description: params.Description,
	})
	if err != nil {
		return "", fmt.Errorf("failed to update video: %w", err)
	}

	return token, nil
}

func (s service) ListComments(ctx context.Context, videoId string) ([]upstream.Comment, error) {
	comments, err := s.upstream.ListComments(ctx, videoId)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

func (s service) CreateComment(ctx context.Context, params *CreateCommentParams) (string, error) {
	token, err := s.upstream.CreateComment(ctx, &upstream.CreateCommentParams{
		VideoId: params.VideoId,
		UserId:  params.UserId,
		Content: params.Content,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create comment: %w", err)
	}

	return token, nil
}

func (s service) enrich(ctx context.Context, v upstream.Video) VideoItem {
	classification := videourl.Classify(v.VideoURL)

	return VideoItem{
		Video:          v,
		Classification: classification,
		ThumbnailSrc:   s.thumbnails.Resolve(ctx, v.VideoURL, classification).Src(),
	}
}

// youtubeMetadata is best effort: cache first, then the oembed lookup. A
// failed lookup only costs the enrichment, never the video itself.
func (s service) youtubeMetadata(ctx context.Context, videoId string) *cache.VideoMetadata {
	if s.metadataCache != nil {
		metadata, err := s.metadataCache.GetVideoMetadata(ctx, videoId)
		if err == nil {
			return &metadata
		}
		if !errors.Is(err, cache.ErrNotFound) {
			s.logger.InfoContext(ctx, "failed to read metadata cache", "video_id", videoId, "error", err)
		}
	}

	if s.ytMeta == nil {
		return nil
	}

	data, err := s.ytMeta.Get(ctx, videoId)
	if err != nil {
		s.logger.InfoContext(ctx, "failed to fetch youtube metadata", "video_id", videoId, "error", err)
		return nil
	}

	metadata := cache.VideoMetadata{
		Title:        data.Title,
		AuthorName:   data.AuthorName,
		ThumbnailURL: data.ThumbnailUrl,
	}

	if s.metadataCache != nil {
		if err := s.metadataCache.SetVideoMetadata(ctx, &cache.SetVideoMetadataParams{
			VideoId:  videoId,
			Metadata: metadata,
		}); err != nil {
			s.logger.InfoContext(ctx, "failed to write metadata cache", "video_id", videoId, "error", err)
		}
	}

	return &metadata
}
