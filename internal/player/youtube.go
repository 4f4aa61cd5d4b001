package player

import (
	"fmt"
	"log/slog"

	"github.com/eduplay/server/pkg/clock"
	"github.com/eduplay/server/pkg/videourl"
)

// YouTube wraps the iframe embed. The embed exposes its own native controls
// and accepts no programmatic playback commands, so this adapter only tracks
// load vs error vs retry; playback actions are deliberate no-ops.
type YouTube struct {
	machine
	videoId string
	nonce   int
}

func NewYouTube(videoId string, clk clock.Clock, logger *slog.Logger) *YouTube {
	return &YouTube{
		machine: newMachine(clk, logger),
		videoId: videoId,
	}
}

// EmbedURL is the iframe src. After Retry it carries a nonce so the frame is
// forced to reload.
func (y *YouTube) EmbedURL() string {
	url := videourl.YouTubeEmbedURL(y.videoId)

	y.mu.Lock()
	nonce := y.nonce
	y.mu.Unlock()

	if nonce > 0 {
		url += fmt.Sprintf("&replay=%d", nonce)
	}
	return url
}

func (y *YouTube) OnLoaded() {
	y.ready(0)
}

func (y *YouTube) OnError(message string) {
	y.fail(message)
}

// Retry remounts the embed: fresh initial state, bumped nonce.
func (y *YouTube) Retry() {
	y.mu.Lock()
	if y.closed {
		y.mu.Unlock()
		return
	}
	y.nonce++
	y.state = initialState()
	state := y.state
	y.mu.Unlock()

	y.emit(state)
}

func (y *YouTube) PlayPause()               { y.ignore("play_pause") }
func (y *YouTube) SeekToFraction(_ float64) { y.ignore("seek") }
func (y *YouTube) SeekBy(_ float64)         { y.ignore("seek_by") }
func (y *YouTube) SetVolume(_ float64)      { y.ignore("set_volume") }
func (y *YouTube) ToggleMute()              { y.ignore("toggle_mute") }
func (y *YouTube) SetRate(_ float64)        { y.ignore("set_rate") }
func (y *YouTube) ToggleFullscreen()        { y.ignore("fullscreen") }
func (y *YouTube) HandleKey(key string)     { y.ignore("key " + key) }

func (y *YouTube) Interact() {
	y.interact()
}

func (y *YouTube) Close() {
	y.close()
}

func (y *YouTube) ignore(action string) {
	y.logger.Debug("youtube embed owns playback, ignoring action", "action", action)
}
