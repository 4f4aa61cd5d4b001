// Package upstream is the client for the videos backend. It owns request
// building, response-shape normalization and the error taxonomy; nothing
// above it ever sees a raw HTTP response.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

func (c *Client) ListVideos(ctx context.Context, params *ListVideosParams) (VideoPage, error) {
	query := url.Values{}
	if params.UserId != "" {
		query.Set("user_id", params.UserId)
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		query.Set("offset", strconv.Itoa(params.Offset))
	}

	body, err := c.do(ctx, http.MethodGet, "/videos", query, nil)
	if err != nil {
		return VideoPage{}, fmt.Errorf("failed to list videos: %w", err)
	}

	videos, meta, err := decodeList[Video](body, "videos", "data")
	if err != nil {
		return VideoPage{}, fmt.Errorf("failed to decode videos: %w", err)
	}

	page := VideoPage{Videos: videos, Total: meta.Total}
	page.HasNext = hasNextPage(len(videos), params.Page, params.Limit, meta)

	return page, nil
}

func (c *Client) GetVideo(ctx context.Context, videoId string) (Video, error) {
	query := url.Values{"video_id": {videoId}}

	body, err := c.do(ctx, http.MethodGet, "/videos/single", query, nil)
	if err != nil {
		return Video{}, fmt.Errorf("failed to get video: %w", err)
	}

	video, err := decodeObject[Video](body, "video", "data")
	if err != nil {
		return Video{}, fmt.Errorf("failed to decode video: %w", err)
	}

	return video, nil
}

func (c *Client) CreateVideo(ctx context.Context, params *CreateVideoParams) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/videos", nil, params)
	if err != nil {
		return "", fmt.Errorf("failed to create video: %w", err)
	}

	return decodeToken(body), nil
}

func (c *Client) UpdateVideo(ctx context.Context, params *UpdateVideoParams) (string, error) {
	body, err := c.do(ctx, http.MethodPut, "/videos", nil, params)
	if err != nil {
		return "", fmt.Errorf("failed to update video: %w", err)
	}

	return decodeToken(body), nil
}

func (c *Client) ListComments(ctx context.Context, videoId string) ([]Comment, error) {
	query := url.Values{"video_id": {videoId}}

	body, err := c.do(ctx, http.MethodGet, "/videos/comments", query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	comments, _, err := decodeList[Comment](body, "comments", "data")
	if err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}

	return comments, nil
}

func (c *Client) CreateComment(ctx context.Context, params *CreateCommentParams) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/videos/comments", nil, params)
	if err != nil {
		return "", fmt.Errorf("failed to create comment: %w", err)
	}

	return decodeToken(body), nil
}

// hasNextPage prefers the authoritative total when the backend sends one and
// falls back to the full-page heuristic when it does not.
func hasNextPage(got, page, limit int, meta listMeta) bool {
	if limit <= 0 {
		return false
	}
	if page <= 0 {
		page = 1
	}

	if meta.HasTotal {
		return page*limit < meta.Total
	}

	return got == limit
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newNetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError(err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	c.logger.InfoContext(ctx, "upstream request failed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
	)

	switch resp.StatusCode {
	case http.StatusUnprocessableEntity:
		return nil, newValidationError(decodeFieldErrors(body))
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &Error{Kind: ErrorKindAuth, Status: resp.StatusCode, Message: "not authorized"}
	case http.StatusNotFound:
		return nil, &Error{Kind: ErrorKindNotFound, Status: resp.StatusCode, Message: "not found"}
	default:
		return nil, newAPIError(resp.StatusCode)
	}
}

// decodeFieldErrors parses a 422 body into a field-error list. Unparseable
// bodies degrade to a single generic entry so the validation kind survives.
func decodeFieldErrors(body []byte) []FieldError {
	var structured struct {
		Errors []FieldError `json:"errors"`
	}
	if err := json.Unmarshal(body, &structured); err == nil && len(structured.Errors) > 0 {
		return structured.Errors
	}

	var detail struct {
		Detail []struct {
			Loc []any  `json:"loc"`
			Msg string `json:"msg"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && len(detail.Detail) > 0 {
		fields := make([]FieldError, 0, len(detail.Detail))
		for _, d := range detail.Detail {
			field := ""
			if len(d.Loc) > 0 {
				field = fmt.Sprint(d.Loc[len(d.Loc)-1])
			}
			fields = append(fields, FieldError{Field: field, Message: d.Msg})
		}
		return fields
	}

	return []FieldError{{Message: "validation failed"}}
}
