// Package thumbnail resolves a displayable image for a classified video URL.
// Resolution is total: every input settles to a usable image reference, with
// capture and cache failures absorbed into a generated placeholder.
package thumbnail

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/eduplay/server/internal/repository/cache"
	"github.com/eduplay/server/pkg/videourl"
)

type ImageRef struct {
	URL     string `json:"url,omitempty"`
	DataURI string `json:"data_uri,omitempty"`
}

func (r ImageRef) Src() string {
	if r.URL != "" {
		return r.URL
	}
	return r.DataURI
}

// Capturer extracts a representative frame from a directly hosted video file
// and returns it as an image data URI. Implementations should grab the frame
// at min(1s, 10% of duration).
type Capturer interface {
	CaptureFrame(ctx context.Context, videoURL string) (string, error)
}

type iCache interface {
	GetThumbnail(ctx context.Context, videoURL string) (string, error)
	SetThumbnail(ctx context.Context, params *cache.SetThumbnailParams) error
}

type Resolver struct {
	capturer  Capturer
	cache     iCache
	appOrigin *url.URL
	logger    *slog.Logger
}

// NewResolver builds a resolver. capturer and cacheRepo may be nil; direct
// files then always resolve to the placeholder.
func NewResolver(capturer Capturer, cacheRepo iCache, appOrigin string, logger *slog.Logger) *Resolver {
	origin, err := url.Parse(appOrigin)
	if err != nil || origin.Host == "" {
		origin = nil
	}

	return &Resolver{
		capturer:  capturer,
		cache:     cacheRepo,
		appOrigin: origin,
		logger:    logger,
	}
}

func (r *Resolver) Resolve(ctx context.Context, rawURL string, c videourl.Classification) ImageRef {
	switch c.Kind {
	case videourl.KindYouTube, videourl.KindVimeo:
		// platform CDN url, no existence probe
		return ImageRef{URL: c.ThumbnailURL}
	case videourl.KindDirect:
		return r.resolveDirect(ctx, rawURL)
	default:
		return ImageRef{DataURI: placeholderDataURI("No thumbnail available")}
	}
}

func (r *Resolver) resolveDirect(ctx context.Context, rawURL string) ImageRef {
	placeholder := ImageRef{DataURI: placeholderDataURI("No preview")}

	// a cross-origin source cannot be captured, skip without trying
	if !r.captureAllowed(rawURL) {
		return placeholder
	}

	if r.cache != nil {
		if src, err := r.cache.GetThumbnail(ctx, rawURL); err == nil {
			return ImageRef{DataURI: src}
		}
	}

	if r.capturer == nil {
		return placeholder
	}

	frame, err := r.capturer.CaptureFrame(ctx, rawURL)
	if err != nil {
		r.logger.InfoContext(ctx, "failed to capture frame", "url", rawURL, "error", err)
		return placeholder
	}

	if r.cache != nil {
		if err := r.cache.SetThumbnail(ctx, &cache.SetThumbnailParams{
			VideoURL: rawURL,
			Src:      frame,
		}); err != nil {
			r.logger.InfoContext(ctx, "failed to cache thumbnail", "url", rawURL, "error", err)
		}
	}

	return ImageRef{DataURI: frame}
}

func (r *Resolver) captureAllowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	hostname := strings.ToLower(u.Hostname())
	if hostname == "localhost" || hostname == "127.0.0.1" {
		return true
	}

	return r.appOrigin != nil && u.Host == r.appOrigin.Host
}
