package videourl

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

type Kind string

const (
	KindYouTube Kind = "youtube"
	KindVimeo   Kind = "vimeo"
	KindDirect  Kind = "direct"
	KindUnknown Kind = "unknown"
)

type Classification struct {
	Kind         Kind   `json:"kind"`
	ID           string `json:"id,omitempty"`
	EmbedURL     string `json:"embed_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// youtube patterns are tested in order, first match wins
var youtubePatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?v=([^&\n?#]+)`),
	regexp.MustCompile(`youtu\.be/([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/embed/([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/v/([^&\n?#]+)`),
}

var vimeoPattern = regexp.MustCompile(`vimeo\.com/(\d+)(?:[/?#]|$)`)

var directExtensions = []string{".mp4", ".webm", ".ogg", ".mov", ".avi"}

// Classify inspects a raw video URL and determines its hosting platform.
// It never fails: anything unparseable or unrecognized is KindUnknown.
func Classify(raw string) Classification {
	for _, p := range youtubePatterns {
		if m := p.FindStringSubmatch(raw); m != nil {
			return Classification{
				Kind:         KindYouTube,
				ID:           m[1],
				EmbedURL:     YouTubeEmbedURL(m[1]),
				ThumbnailURL: fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", m[1]),
			}
		}
	}

	if m := vimeoPattern.FindStringSubmatch(raw); m != nil {
		return Classification{
			Kind:         KindVimeo,
			ID:           m[1],
			EmbedURL:     VimeoEmbedURL(m[1]),
			ThumbnailURL: fmt.Sprintf("https://vumbnail.com/%s.jpg", m[1]),
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Classification{Kind: KindUnknown}
	}

	path := strings.ToLower(u.Path)
	for _, ext := range directExtensions {
		if strings.HasSuffix(path, ext) {
			return Classification{Kind: KindDirect}
		}
	}

	return Classification{Kind: KindUnknown}
}

// YouTubeEmbedURL builds the fixed-parameter embed URL. Autoplay requires
// mute, native controls stay on, related videos and branding are suppressed.
func YouTubeEmbedURL(videoId string) string {
	return fmt.Sprintf(
		"https://www.youtube.com/embed/%s?autoplay=1&mute=1&controls=1&rel=0&modestbranding=1&fs=1&cc_load_policy=0&iv_load_policy=3&playsinline=1",
		videoId,
	)
}

func VimeoEmbedURL(videoId string) string {
	return fmt.Sprintf("https://player.vimeo.com/video/%s?autoplay=1&muted=1", videoId)
}
