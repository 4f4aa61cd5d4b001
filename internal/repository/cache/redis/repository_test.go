package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduplay/server/internal/repository/cache"
)

func newTestRepo(t *testing.T) (*repo, *miniredis.Miniredis) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	return NewRepo(rc, time.Hour), s
}

func TestThumbnailRoundTrip(t *testing.T) {
	r, s := newTestRepo(t)
	ctx := context.Background()

	_, err := r.GetThumbnail(ctx, "http://localhost/clip.mp4")
	assert.ErrorIs(t, err, cache.ErrNotFound)

	err = r.SetThumbnail(ctx, &cache.SetThumbnailParams{
		VideoURL: "http://localhost/clip.mp4",
		Src:      "data:image/png;base64,xxxx",
	})
	require.NoError(t, err)

	src, err := r.GetThumbnail(ctx, "http://localhost/clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,xxxx", src)

	s.FastForward(2 * time.Hour)

	_, err = r.GetThumbnail(ctx, "http://localhost/clip.mp4")
	assert.ErrorIs(t, err, cache.ErrNotFound, "entries must expire")
}

func TestVideoMetadataRoundTrip(t *testing.T) {
	r, s := newTestRepo(t)
	ctx := context.Background()

	_, err := r.GetVideoMetadata(ctx, "abc123")
	assert.ErrorIs(t, err, cache.ErrNotFound)

	metadata := cache.VideoMetadata{
		Title:        "Some lecture",
		AuthorName:   "Prof. Example",
		ThumbnailURL: "https://img.youtube.com/vi/abc123/maxresdefault.jpg",
	}
	err = r.SetVideoMetadata(ctx, &cache.SetVideoMetadataParams{
		VideoId:  "abc123",
		Metadata: metadata,
	})
	require.NoError(t, err)

	got, err := r.GetVideoMetadata(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, metadata, got)

	s.FastForward(2 * time.Hour)

	_, err = r.GetVideoMetadata(ctx, "abc123")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}
