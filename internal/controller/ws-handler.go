package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/eduplay/server/internal/service/session"
	"github.com/eduplay/server/internal/service/video"
	"github.com/eduplay/server/pkg/ctxlogger"
	"github.com/eduplay/server/pkg/rest"
	"github.com/eduplay/server/pkg/wsrouter"
)

// PlayerSession upgrades the connection and mounts a player session for the
// requested video URL. The connection lifetime is the session lifetime:
// when the read loop ends, the session is unmounted and every timer it owns
// is released.
func (c controller) PlayerSession(w http.ResponseWriter, r *http.Request) {
	videoURL := r.URL.Query().Get("video_url")
	if videoURL == "" {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "video_url is required"})
		return
	}
	userId := r.URL.Query().Get("user_id")

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}

	engine := newWSEngine(conn, c.logger)

	resp, err := c.sessionService.CreateSession(r.Context(), &session.CreateSessionParams{
		VideoURL:     videoURL,
		UserId:       userId,
		Send:         engine.Send,
		NativeEngine: nativeEngine{engine},
		VimeoEngine:  vimeoEngine{engine},
	})
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to create session", "error", err)
		engine.Send("ERROR", map[string]string{"error": "failed to create session"})
		conn.Close()
		return
	}

	if err := c.connRepo.Add(conn, resp.SessionId); err != nil {
		c.logger.InfoContext(r.Context(), "failed to register connection", "error", err)
		conn.Close()
		return
	}

	engine.Send("SESSION_CREATED", resp)

	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("session_id", resp.SessionId))

	if err := c.getWSRouter(resp.SessionId, engine).ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(ctx, "conn closed", "error", err)
	}

	c.connRepo.RemoveByConn(conn)
	if err := c.sessionService.CloseSession(ctx, resp.SessionId); err != nil {
		c.logger.InfoContext(ctx, "failed to close session", "error", err)
	}
	conn.Close()
}

func (c controller) getWSRouter(sessionId string, engine *wsEngine) *wsrouter.WSRouter {
	r := wsrouter.New()

	r.Handle("alive", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		return nil
	})

	r.Handle("play_pause", c.sessionAction(engine, func(ctx context.Context, payload json.RawMessage) error {
		return c.sessionService.PlayPause(sessionId)
	}))

	r.Handle("seek", c.sessionAction(engine, func(ctx context.Context, payload json.RawMessage) error {
		var input struct {
			Fraction float64 `json:"fraction"`
		}
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return c.sessionService.SeekToFraction(sessionId, input.Fraction)
	}))

	r.Handle("seek_by", c.sessionAction(engine, func(ctx context.Context, payload json.RawMessage) error {
		var input struct {
			Seconds float64 `json:"seconds"`
		}
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return c.sessionService.SeekBy(sessionId, input.Seconds)
	}))

	r.Handle("set_volume", c.sessionAction(engine, func(ctx context.Context, payload json.RawMessage) error {
		var input struct {
			Volume float64 `json:"volume"`
		}
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return c.sessionService.SetVolume(sessionId, input.Volume)
	}))

	r.Handle("toggle_mute", c.sessionAction(engine, func(ctx context.Context, payload json.RawMessage) error {
		return c.sessionService.ToggleMute(sessionId)
	}))

	r.Handle("set_rate", c.sessionAction(engine, func(ctx context.Context, payload json.RawMessage) error {
		var input struct {
			Rate float64 `json:"rate"`
		}
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return c.sessionService.SetRate(sessionId, input.Rate)
	}))

	r.Handle("fullscreen", c.sessionAction(engine, func(ctx context.Context, payload json.RawMessage) error {
		return c.sessionService.ToggleFullscreen(sessionId)
	}))

	r.Handle("interact", c.sessionAction(engine, func(ctx context.Context, payload json.RawMessage) error {
		return c.sessionService.Interact(sessionId)
	}))

	r.Handle("key", c.sessionAction(engine, func(ctx context.Context, payload json.RawMessage) error {
		var input struct {
			Key string `json:"key"`
		}
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return c.sessionService.PressKey(sessionId, input.Key)
	}))

	r.Handle("retry_player", c.sessionAction(engine, func(ctx context.Context, payload json.RawMessage) error {
		resp, err := c.sessionService.RetryPlayer(sessionId)
		if err != nil {
			return err
		}
		engine.Send("SESSION_REMOUNTED", resp)
		return nil
	}))

	r.Handle("engine_event", c.sessionAction(engine, func(ctx context.Context, payload json.RawMessage) error {
		var event session.EngineEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return err
		}
		return c.sessionService.ApplyEngineEvent(sessionId, &event)
	}))

	r.Handle("engine_reply", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		var input struct {
			Id    string  `json:"id"`
			Value float64 `json:"value"`
		}
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		engine.HandleReply(input.Id, input.Value)
		return nil
	})

	r.Handle("load_videos", c.sessionAction(engine, func(ctx context.Context, payload json.RawMessage) error {
		return c.sessionService.LoadMoreVideos(ctx, sessionId)
	}))

	r.Handle("reset_videos", c.sessionAction(engine, func(ctx context.Context, payload json.RawMessage) error {
		return c.sessionService.ResetVideos(sessionId)
	}))

	r.Handle("load_video", c.sessionAction(engine, func(ctx context.Context, payload json.RawMessage) error {
		var input struct {
			VideoId string `json:"video_id"`
		}
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return c.sessionService.LoadVideo(ctx, sessionId, input.VideoId)
	}))

	r.Handle("load_comments", c.sessionAction(engine, func(ctx context.Context, payload json.RawMessage) error {
		var input struct {
			VideoId string `json:"video_id"`
		}
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return c.sessionService.LoadComments(ctx, sessionId, input.VideoId)
	}))

	r.Handle("add_comment", c.sessionAction(engine, func(ctx context.Context, payload json.RawMessage) error {
		var input struct {
			VideoId string `json:"video_id"`
			UserId  string `json:"user_id"`
			Content string `json:"content"`
		}
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return c.sessionService.SubmitComment(ctx, sessionId, &video.CreateCommentParams{
			VideoId: input.VideoId,
			UserId:  input.UserId,
			Content: input.Content,
		})
	}))

	return r
}

// sessionAction keeps per-message failures on the connection: the client
// gets an ERROR push and the read loop stays alive. Only a vanished session
// tears the connection down.
func (c controller) sessionAction(engine *wsEngine, fn func(ctx context.Context, payload json.RawMessage) error) wsrouter.HandlerFunc {
	return func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		err := fn(ctx, payload)
		if err == nil {
			return nil
		}
		if errors.Is(err, session.ErrSessionNotFound) {
			return err
		}

		c.logger.InfoContext(ctx, "message failed",
			"type", wsrouter.GetMessageTypeFromCtx(ctx),
			"error", err,
		)
		engine.Send("ERROR", map[string]string{"error": err.Error()})
		return nil
	}
}
