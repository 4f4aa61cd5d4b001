package player

import (
	"log/slog"

	"github.com/eduplay/server/pkg/clock"
)

// Native drives a directly hosted media file through an HTML5-capable
// engine. It is the fallback adapter for unknown classifications; an
// undecodable source surfaces as an engine error like any other.
type Native struct {
	machine
	engine NativeEngine

	pollTimer    clock.Timer
	pollAttempts int
}

func NewNative(engine NativeEngine, clk clock.Clock, logger *slog.Logger) *Native {
	return &Native{
		machine: newMachine(clk, logger),
		engine:  engine,
	}
}

// engine events

func (n *Native) OnReady(duration float64) {
	n.ready(duration)

	// some engines report duration late; poll once a second for up to ten
	// seconds, then give up silently
	if !n.durationKnown() {
		n.startDurationPoll()
	}
}

func (n *Native) OnProgress(played, loaded float64) {
	n.progress(played, loaded)
}

func (n *Native) OnDuration(duration float64) {
	n.adoptDuration(duration)
}

func (n *Native) OnError(message string) {
	n.stopDurationPoll()
	n.fail(message)
}

// user actions

func (n *Native) PlayPause() {
	if n.togglePlay() {
		n.forward("play", n.engine.Play)
	} else {
		n.forward("pause", n.engine.Pause)
	}
}

func (n *Native) SeekToFraction(fraction float64) {
	seconds := n.seekToFraction(fraction)
	n.forward("seek", func() error { return n.engine.Seek(seconds) })
}

func (n *Native) SeekBy(delta float64) {
	seconds := n.seekBySeconds(delta)
	n.forward("seek", func() error { return n.engine.Seek(seconds) })
}

func (n *Native) SetVolume(volume float64) {
	volume, muted := n.setVolume(volume)
	n.forward("set volume", func() error { return n.engine.SetVolume(volume) })
	n.forward("set muted", func() error { return n.engine.SetMuted(muted) })
}

func (n *Native) ToggleMute() {
	muted := n.toggleMute()
	n.forward("set muted", func() error { return n.engine.SetMuted(muted) })
}

func (n *Native) SetRate(rate float64) {
	if n.setRate(rate) {
		n.forward("set rate", func() error { return n.engine.SetRate(rate) })
	}
}

func (n *Native) ToggleFullscreen() {
	n.interact()
	n.forward("fullscreen", n.engine.Fullscreen)
}

func (n *Native) Interact() {
	n.interact()
}

func (n *Native) HandleKey(key string) {
	handleKey(n, key)
}

func (n *Native) Close() {
	n.stopDurationPoll()
	n.close()
}

func (n *Native) startDurationPoll() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed || n.pollTimer != nil {
		return
	}
	n.pollAttempts = 0
	n.pollTimer = n.clk.AfterFunc(durationPollInterval, n.pollDuration)
}

func (n *Native) pollDuration() {
	n.mu.Lock()
	n.pollTimer = nil
	if n.closed || n.state.DurationKnown {
		n.mu.Unlock()
		return
	}
	n.pollAttempts++
	attempts := n.pollAttempts
	n.mu.Unlock()

	duration, err := n.engine.Duration()
	if err == nil && validDuration(duration) {
		n.adoptDuration(duration)
		return
	}

	if attempts >= durationPollAttempts {
		return
	}

	n.mu.Lock()
	if !n.closed {
		n.pollTimer = n.clk.AfterFunc(durationPollInterval, n.pollDuration)
	}
	n.mu.Unlock()
}

func (n *Native) stopDurationPoll() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.pollTimer != nil {
		n.pollTimer.Stop()
		n.pollTimer = nil
	}
}
