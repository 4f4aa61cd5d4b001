package controller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const engineReplyTimeout = 5 * time.Second

// wsEngine bridges player commands to the engine running in the viewer's
// browser: commands go out as ENGINE_COMMAND messages, getters as ENGINE_GET
// round trips matched back by correlation id. It also owns the connection's
// write lock, so session pushes and engine commands never interleave.
type wsEngine struct {
	conn   *websocket.Conn
	logger *slog.Logger

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]chan float64
}

func newWSEngine(conn *websocket.Conn, logger *slog.Logger) *wsEngine {
	return &wsEngine{
		conn:    conn,
		logger:  logger,
		pending: make(map[string]chan float64),
	}
}

type output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func (e *wsEngine) Send(messageType string, payload any) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	if err := e.conn.WriteJSON(&output{Type: messageType, Payload: payload}); err != nil {
		e.logger.Debug("failed to write to conn", "type", messageType, "error", err)
	}
}

func (e *wsEngine) command(command string, args map[string]any) error {
	payload := map[string]any{"command": command}
	for k, v := range args {
		payload[k] = v
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	return e.conn.WriteJSON(&output{Type: "ENGINE_COMMAND", Payload: payload})
}

func (e *wsEngine) Play() error  { return e.command("play", nil) }
func (e *wsEngine) Pause() error { return e.command("pause", nil) }

func (e *wsEngine) Seek(seconds float64) error {
	return e.command("seek", map[string]any{"seconds": seconds})
}

func (e *wsEngine) SetVolume(volume float64) error {
	return e.command("set_volume", map[string]any{"volume": volume})
}

func (e *wsEngine) SetMuted(muted bool) error {
	return e.command("set_muted", map[string]any{"muted": muted})
}

func (e *wsEngine) SetRate(rate float64) error {
	return e.command("set_rate", map[string]any{"rate": rate})
}

func (e *wsEngine) Fullscreen() error   { return e.command("fullscreen", nil) }
func (e *wsEngine) InjectScript() error { return e.command("inject_script", nil) }
func (e *wsEngine) RemoveScript() error { return e.command("remove_script", nil) }

// The native and vimeo engine ports disagree on the Duration signature, so
// two thin views over the shared transport satisfy them.

type nativeEngine struct{ *wsEngine }

func (e nativeEngine) Duration() (float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), engineReplyTimeout)
	defer cancel()
	return e.request(ctx, "duration")
}

type vimeoEngine struct{ *wsEngine }

func (e vimeoEngine) Duration(ctx context.Context) (float64, error) {
	return e.request(ctx, "duration")
}

func (e vimeoEngine) CurrentTime(ctx context.Context) (float64, error) {
	return e.request(ctx, "current_time")
}

func (e *wsEngine) request(ctx context.Context, property string) (float64, error) {
	id := uuid.NewString()
	ch := make(chan float64, 1)

	e.pendingMu.Lock()
	e.pending[id] = ch
	e.pendingMu.Unlock()

	defer func() {
		e.pendingMu.Lock()
		delete(e.pending, id)
		e.pendingMu.Unlock()
	}()

	e.writeMu.Lock()
	err := e.conn.WriteJSON(&output{Type: "ENGINE_GET", Payload: map[string]any{
		"id":       id,
		"property": property,
	}})
	e.writeMu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("failed to request %s: %w", property, err)
	}

	select {
	case value := <-ch:
		return value, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(engineReplyTimeout):
		return 0, fmt.Errorf("engine reply for %s timed out", property)
	}
}

// HandleReply resolves a pending ENGINE_GET. Unmatched ids are dropped; a
// reply racing a timed-out request is expected.
func (e *wsEngine) HandleReply(id string, value float64) {
	e.pendingMu.Lock()
	ch, ok := e.pending[id]
	delete(e.pending, id)
	e.pendingMu.Unlock()

	if ok {
		ch <- value
	}
}
