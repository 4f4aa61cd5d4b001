package session

import (
	"github.com/eduplay/server/internal/player"
	"github.com/eduplay/server/internal/upstream"
	"github.com/eduplay/server/pkg/videourl"
)

// Sender pushes an output message to the session's connection.
type Sender func(messageType string, payload any)

type CreateSessionParams struct {
	VideoURL     string
	UserId       string
	Send         Sender
	NativeEngine player.NativeEngine
	VimeoEngine  player.VimeoEngine
}

type CreateSessionResponse struct {
	SessionId      string                  `json:"session_id"`
	Classification videourl.Classification `json:"classification"`
	EmbedURL       string                  `json:"embed_url,omitempty"`
	State          player.State            `json:"state"`
}

// EngineEvent is a callback from the browser-side engine, normalized across
// platforms. Which fields matter depends on Type.
type EngineEvent struct {
	Type     string  `json:"type"`
	Duration float64 `json:"duration,omitempty"`
	Played   float64 `json:"played,omitempty"`
	Loaded   float64 `json:"loaded,omitempty"`
	Percent  float64 `json:"percent,omitempty"`
	Message  string  `json:"message,omitempty"`
}

const (
	EngineEventReady      = "ready"
	EngineEventLoaded     = "loaded"
	EngineEventProgress   = "progress"
	EngineEventDuration   = "duration"
	EngineEventPlay       = "play"
	EngineEventPause      = "pause"
	EngineEventTimeUpdate = "timeupdate"
	EngineEventError      = "error"
)

// listPayload is the JSON shape for paginated listing updates; fetch states
// carry error values that do not marshal, so they are flattened here.
type listPayload struct {
	Status  string           `json:"status"`
	Videos  []videoListEntry `json:"videos"`
	HasMore bool             `json:"has_more"`
	Error   string           `json:"error,omitempty"`
}

type videoListEntry struct {
	Id             string                  `json:"id"`
	Title          string                  `json:"title"`
	Description    string                  `json:"description"`
	VideoURL       string                  `json:"video_url"`
	CreatedAt      string                  `json:"created_at"`
	NumComments    int                     `json:"num_comments"`
	Classification videourl.Classification `json:"classification"`
	ThumbnailSrc   string                  `json:"thumbnail_src"`
}

type detailPayload struct {
	Status string `json:"status"`
	Video  any    `json:"video,omitempty"`
	Error  string `json:"error,omitempty"`
}

type commentsPayload struct {
	Status   string             `json:"status"`
	Comments []upstream.Comment `json:"comments"`
	Error    string             `json:"error,omitempty"`
}

type mutationPayload struct {
	Status string `json:"status"`
	Token  string `json:"token,omitempty"`
	Error  string `json:"error,omitempty"`
}
