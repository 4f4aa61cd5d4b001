package upstream

type Video struct {
	Id          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	VideoURL    string  `json:"video_url"`
	CreatedAt   string  `json:"created_at"`
	UserId      string  `json:"user_id"`
	NumComments int     `json:"num_comments"`
	Duration    float64 `json:"duration,omitempty"`
}

type Comment struct {
	Id        string `json:"id"`
	VideoId   string `json:"video_id"`
	UserId    string `json:"user_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type ListVideosParams struct {
	UserId string
	Page   int
	Limit  int
	Offset int
}

type VideoPage struct {
	Videos  []Video
	Total   int
	HasNext bool
}

type CreateVideoParams struct {
	UserId      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
}

type UpdateVideoParams struct {
	VideoId     string `json:"video_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type CreateCommentParams struct {
	VideoId string `json:"video_id"`
	UserId  string `json:"user_id"`
	Content string `json:"content"`
}
