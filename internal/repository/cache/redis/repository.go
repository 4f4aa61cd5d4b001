package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eduplay/server/internal/repository/cache"
)

type repo struct {
	rc             *redis.Client
	expireDuration time.Duration
}

func NewRepo(rc *redis.Client, expireDuration time.Duration) *repo {
	return &repo{
		rc:             rc,
		expireDuration: expireDuration,
	}
}

func (r repo) getThumbnailKey(videoURL string) string {
	return "thumbnail:" + videoURL
}

func (r repo) getVideoMetadataKey(videoId string) string {
	return "video-metadata:" + videoId
}

func (r repo) GetThumbnail(ctx context.Context, videoURL string) (string, error) {
	src, err := r.rc.Get(ctx, r.getThumbnailKey(videoURL)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", cache.ErrNotFound
		}
		return "", fmt.Errorf("failed to get thumbnail: %w", err)
	}

	return src, nil
}

func (r repo) SetThumbnail(ctx context.Context, params *cache.SetThumbnailParams) error {
	key := r.getThumbnailKey(params.VideoURL)
	if err := r.rc.Set(ctx, key, params.Src, r.expireDuration).Err(); err != nil {
		return fmt.Errorf("failed to set thumbnail: %w", err)
	}

	return nil
}

func (r repo) GetVideoMetadata(ctx context.Context, videoId string) (cache.VideoMetadata, error) {
	key := r.getVideoMetadataKey(videoId)
	res, err := r.rc.Exists(ctx, key).Result()
	if err != nil {
		return cache.VideoMetadata{}, fmt.Errorf("failed to check if video metadata exists: %w", err)
	}
	if res == 0 {
		return cache.VideoMetadata{}, cache.ErrNotFound
	}

	var metadata cache.VideoMetadata
	if err := r.rc.HGetAll(ctx, key).Scan(&metadata); err != nil {
		return cache.VideoMetadata{}, fmt.Errorf("failed to get video metadata: %w", err)
	}

	return metadata, nil
}

func (r repo) SetVideoMetadata(ctx context.Context, params *cache.SetVideoMetadataParams) error {
	pipe := r.rc.TxPipeline()

	key := r.getVideoMetadataKey(params.VideoId)
	pipe.HSet(ctx, key, params.Metadata)
	pipe.Expire(ctx, key, r.expireDuration)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set video metadata: %w", err)
	}

	return nil
}
