package video

import (
	"github.com/eduplay/server/internal/repository/cache"
	"github.com/eduplay/server/internal/upstream"
	"github.com/eduplay/server/pkg/videourl"
)

type ListVideosParams struct {
	UserId string
	Page   int
	Limit  int
	Offset int
}

// VideoItem is an upstream video enriched with its platform classification
// and a resolved thumbnail.
type VideoItem struct {
	upstream.Video
	Classification videourl.Classification `json:"classification"`
	ThumbnailSrc   string                  `json:"thumbnail_src"`
}

type VideoList struct {
	Videos  []VideoItem `json:"videos"`
	Total   int         `json:"total"`
	HasNext bool        `json:"has_next"`
}

type VideoDetail struct {
	VideoItem
	Metadata *cache.VideoMetadata `json:"metadata,omitempty"`
}

type CreateVideoParams struct {
	UserId      string
	Title       string
	Description string
	VideoURL    string
}

type UpdateVideoParams struct {
	VideoId     string
	Title       string
	Description string
}

type CreateCommentParams struct {
	VideoId string
	UserId  string
	Content string
}
