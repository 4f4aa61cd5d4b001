package cache

type SetThumbnailParams struct {
	VideoURL string
	Src      string
}

type VideoMetadata struct {
	Title        string `redis:"title"`
	AuthorName   string `redis:"author_name"`
	ThumbnailURL string `redis:"thumbnail_url"`
}

type SetVideoMetadataParams struct {
	VideoId  string
	Metadata VideoMetadata
}
