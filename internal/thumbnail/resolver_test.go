package thumbnail

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduplay/server/internal/repository/cache"
	"github.com/eduplay/server/pkg/videourl"
)

type fakeCapturer struct {
	frame string
	err   error
	calls int
}

func (c *fakeCapturer) CaptureFrame(ctx context.Context, videoURL string) (string, error) {
	c.calls++
	return c.frame, c.err
}

type fakeCache struct {
	entries map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}}
}

func (c *fakeCache) GetThumbnail(ctx context.Context, videoURL string) (string, error) {
	src, ok := c.entries[videoURL]
	if !ok {
		return "", cache.ErrNotFound
	}
	return src, nil
}

func (c *fakeCache) SetThumbnail(ctx context.Context, params *cache.SetThumbnailParams) error {
	c.entries[params.VideoURL] = params.Src
	return nil
}

func TestResolvePlatformURLs(t *testing.T) {
	r := NewResolver(nil, nil, "http://localhost:3000", slog.Default())

	yt := videourl.Classify("https://youtu.be/abc123")
	ref := r.Resolve(context.Background(), "https://youtu.be/abc123", yt)
	assert.Equal(t, "https://img.youtube.com/vi/abc123/maxresdefault.jpg", ref.Src())

	vm := videourl.Classify("https://vimeo.com/123456")
	ref = r.Resolve(context.Background(), "https://vimeo.com/123456", vm)
	assert.Equal(t, "https://vumbnail.com/123456.jpg", ref.Src())
}

func TestResolveUnknownKindGetsPlaceholder(t *testing.T) {
	r := NewResolver(nil, nil, "http://localhost:3000", slog.Default())

	ref := r.Resolve(context.Background(), "https://example.com/page", videourl.Classification{Kind: videourl.KindUnknown})
	assert.True(t, strings.HasPrefix(ref.Src(), "data:image/svg+xml;base64,"))
}

func TestResolveDirectCapturesAndCaches(t *testing.T) {
	capturer := &fakeCapturer{frame: "data:image/png;base64,xxxx"}
	cached := newFakeCache()
	r := NewResolver(capturer, cached, "http://localhost:3000", slog.Default())

	url := "http://localhost:3000/uploads/clip.mp4"
	c := videourl.Classify(url)
	require.Equal(t, videourl.KindDirect, c.Kind)

	ref := r.Resolve(context.Background(), url, c)
	assert.Equal(t, capturer.frame, ref.Src())
	assert.Equal(t, 1, capturer.calls)

	// second resolve must hit the cache
	ref = r.Resolve(context.Background(), url, c)
	assert.Equal(t, capturer.frame, ref.Src())
	assert.Equal(t, 1, capturer.calls)
}

func TestResolveDirectCrossOriginSkipsCapture(t *testing.T) {
	capturer := &fakeCapturer{frame: "data:image/png;base64,xxxx"}
	r := NewResolver(capturer, newFakeCache(), "http://myapp.example.com", slog.Default())

	url := "https://other-cdn.example.net/clip.mp4"
	ref := r.Resolve(context.Background(), url, videourl.Classify(url))

	assert.True(t, strings.HasPrefix(ref.Src(), "data:image/svg+xml;base64,"))
	assert.Zero(t, capturer.calls, "cross-origin sources cannot be captured")
}

func TestResolveDirectSameOriginAllowed(t *testing.T) {
	capturer := &fakeCapturer{frame: "data:image/png;base64,xxxx"}
	r := NewResolver(capturer, nil, "http://myapp.example.com", slog.Default())

	url := "http://myapp.example.com/uploads/clip.mp4"
	ref := r.Resolve(context.Background(), url, videourl.Classify(url))

	assert.Equal(t, capturer.frame, ref.Src())
}

func TestResolveDirectCaptureFailureGetsPlaceholder(t *testing.T) {
	capturer := &fakeCapturer{err: errors.New("no keyframe")}
	r := NewResolver(capturer, nil, "http://localhost:3000", slog.Default())

	url := "http://localhost:3000/clip.mp4"
	ref := r.Resolve(context.Background(), url, videourl.Classify(url))

	assert.True(t, strings.HasPrefix(ref.Src(), "data:image/svg+xml;base64,"),
		"resolution is total, capture failures settle to the placeholder")
}

func TestResolveDirectNilCapturer(t *testing.T) {
	r := NewResolver(nil, nil, "http://localhost:3000", slog.Default())

	url := "http://localhost:3000/clip.mp4"
	ref := r.Resolve(context.Background(), url, videourl.Classify(url))

	assert.NotEmpty(t, ref.Src(), "every input must settle to a usable image")
}
