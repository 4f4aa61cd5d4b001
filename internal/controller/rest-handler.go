package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/eduplay/server/internal/service/video"
	"github.com/eduplay/server/internal/upstream"
	"github.com/eduplay/server/pkg/rest"
)

func (c controller) ListVideos(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := video.ListVideosParams{
		UserId: query.Get("user_id"),
		Page:   intQueryParam(query.Get("page")),
		Limit:  intQueryParam(query.Get("limit")),
		Offset: intQueryParam(query.Get("offset")),
	}

	list, err := c.videoService.ListVideos(r.Context(), &params)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": list})
}

func (c controller) GetVideo(w http.ResponseWriter, r *http.Request) {
	videoId := r.URL.Query().Get("video_id")
	if videoId == "" {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "video_id is required"})
		return
	}

	detail, err := c.videoService.GetVideo(r.Context(), videoId)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": detail})
}

type createVideoRequest struct {
	UserId      string `json:"user_id" validate:"required"`
	Title       string `json:"title" validate:"required,max=120"`
	Description string `json:"description" validate:"max=5000"`
	VideoURL    string `json:"video_url" validate:"required,url"`
}

func (c controller) CreateVideo(w http.ResponseWriter, r *http.Request) {
	var req createVideoRequest

	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	token, err := c.videoService.CreateVideo(r.Context(), &video.CreateVideoParams{
		UserId:      req.UserId,
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"data": token})
}

type updateVideoRequest struct {
	VideoId     string `json:"video_id" validate:"required"`
	Title       string `json:"title" validate:"required,max=120"`
	Description string `json:"description" validate:"max=5000"`
}

func (c controller) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	var req updateVideoRequest

	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	token, err := c.videoService.UpdateVideo(r.Context(), &video.UpdateVideoParams{
		VideoId:     req.VideoId,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": token})
}

func (c controller) ListComments(w http.ResponseWriter, r *http.Request) {
	videoId := r.URL.Query().Get("video_id")
	if videoId == "" {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "video_id is required"})
		return
	}

	comments, err := c.videoService.ListComments(r.Context(), videoId)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": comments})
}

type createCommentRequest struct {
	VideoId string `json:"video_id" validate:"required"`
	UserId  string `json:"user_id" validate:"required"`
	Content string `json:"content" validate:"required,max=2000"`
}

func (c controller) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest

	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	token, err := c.videoService.CreateComment(r.Context(), &video.CreateCommentParams{
		VideoId: req.VideoId,
		UserId:  req.UserId,
		Content: req.Content,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"data": token})
}

// writeServiceError maps the upstream error taxonomy onto response statuses;
// anything untyped is an internal error.
func (c controller) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var upErr *upstream.Error
	if !errors.As(err, &upErr) {
		c.logger.InfoContext(r.Context(), "request failed", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal error"})
		return
	}

	c.logger.InfoContext(r.Context(), "upstream error", "kind", upErr.Kind, "error", upErr.Message)

	switch upErr.Kind {
	case upstream.ErrorKindValidation:
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{
			"error":  upErr.Message,
			"fields": upErr.Fields,
		})
	case upstream.ErrorKindNotFound:
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": upErr.Message})
	case upstream.ErrorKindAuth:
		rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": upErr.Message})
	case upstream.ErrorKindNetwork, upstream.ErrorKindParse:
		rest.WriteJSON(w, http.StatusBadGateway, rest.Envelope{"error": upErr.Message})
	default:
		status := upErr.Status
		if status < 400 {
			status = http.StatusBadGateway
		}
		rest.WriteJSON(w, status, rest.Envelope{"error": upErr.Message})
	}
}

func intQueryParam(raw string) int {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}
