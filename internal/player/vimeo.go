package player

import (
	"context"
	"log/slog"

	"github.com/eduplay/server/pkg/clock"
)

// Vimeo drives the iframe through the remote player-control script. The
// script is injected on construction and must be removed on Close. Duration
// arrives from an asynchronous fetch after construction, progress both from
// timeupdate events and a once-a-second position poll.
type Vimeo struct {
	machine
	engine VimeoEngine

	ctx       context.Context
	cancelCtx context.CancelFunc
	pollTimer clock.Timer
}

func NewVimeo(engine VimeoEngine, clk clock.Clock, logger *slog.Logger) *Vimeo {
	ctx, cancel := context.WithCancel(context.Background())

	v := &Vimeo{
		machine:   newMachine(clk, logger),
		engine:    engine,
		ctx:       ctx,
		cancelCtx: cancel,
	}

	v.forward("inject script", engine.InjectScript)

	go v.fetchDuration()

	return v
}

func (v *Vimeo) fetchDuration() {
	duration, err := v.engine.Duration(v.ctx)
	if err != nil {
		v.logger.Info("failed to fetch vimeo duration", "error", err)
		return
	}
	v.adoptDuration(duration)
}

// engine events

// OnLoaded clears loading, pushes the initial volume to the remote player
// and starts the position poll.
func (v *Vimeo) OnLoaded() {
	v.ready(0)

	state := v.State()
	v.forward("set volume", func() error { return v.engine.SetVolume(state.Volume) })
	v.forward("set muted", func() error { return v.engine.SetMuted(state.Muted) })

	v.startPositionPoll()
}

func (v *Vimeo) OnPlay() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.state.Playing = true
	v.revealControlsLocked()
	state := v.state
	v.mu.Unlock()

	v.emit(state)
}

func (v *Vimeo) OnPause() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.state.Playing = false
	v.revealControlsLocked()
	state := v.state
	v.mu.Unlock()

	v.emit(state)
}

// OnTimeUpdate receives the percent field of the remote timeupdate event.
// The embed reports no loaded fraction, so the buffering heuristic is
// skipped.
func (v *Vimeo) OnTimeUpdate(percent float64) {
	v.progress(percent, -1)
}

func (v *Vimeo) OnError(message string) {
	v.stopPositionPoll()
	v.fail(message)
}

// user actions

func (v *Vimeo) PlayPause() {
	if v.togglePlay() {
		v.forward("play", v.engine.Play)
	} else {
		v.forward("pause", v.engine.Pause)
	}
}

func (v *Vimeo) SeekToFraction(fraction float64) {
	seconds := v.seekToFraction(fraction)
	v.forward("seek", func() error { return v.engine.Seek(seconds) })
}

// SeekBy chains two remote getters before seeking: the target is clamped
// against the freshly fetched duration, not the cached one, so the two-step
// race cannot overshoot the end of the video.
func (v *Vimeo) SeekBy(delta float64) {
	current, err := v.engine.CurrentTime(v.ctx)
	if err != nil {
		v.logger.Info("failed to get vimeo current time", "error", err)
		return
	}

	duration, err := v.engine.Duration(v.ctx)
	if err != nil {
		v.logger.Info("failed to get vimeo duration", "error", err)
		return
	}
	v.adoptDuration(duration)

	target := clamp(current+delta, 0, duration)
	if duration > 0 {
		v.progress(target/duration, -1)
	}
	v.interact()
	v.forward("seek", func() error { return v.engine.Seek(target) })
}

func (v *Vimeo) SetVolume(volume float64) {
	volume, muted := v.setVolume(volume)
	v.forward("set volume", func() error { return v.engine.SetVolume(volume) })
	v.forward("set muted", func() error { return v.engine.SetMuted(muted) })
}

func (v *Vimeo) ToggleMute() {
	muted := v.toggleMute()
	v.forward("set muted", func() error { return v.engine.SetMuted(muted) })
}

func (v *Vimeo) SetRate(rate float64) {
	if v.setRate(rate) {
		v.forward("set rate", func() error { return v.engine.SetRate(rate) })
	}
}

func (v *Vimeo) ToggleFullscreen() {
	v.interact()
	v.forward("fullscreen", v.engine.Fullscreen)
}

func (v *Vimeo) Interact() {
	v.interact()
}

func (v *Vimeo) HandleKey(key string) {
	handleKey(v, key)
}

// Close cancels the in-flight remote calls, stops the position poll and
// removes the injected control script from the document.
func (v *Vimeo) Close() {
	v.cancelCtx()
	v.stopPositionPoll()
	v.forward("remove script", v.engine.RemoveScript)
	v.close()
}

func (v *Vimeo) startPositionPoll() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || v.pollTimer != nil {
		return
	}
	v.pollTimer = v.clk.AfterFunc(durationPollInterval, v.pollPosition)
}

func (v *Vimeo) pollPosition() {
	v.mu.Lock()
	v.pollTimer = nil
	if v.closed {
		v.mu.Unlock()
		return
	}
	duration := v.state.DurationSeconds
	known := v.state.DurationKnown
	v.mu.Unlock()

	if known && duration > 0 {
		if current, err := v.engine.CurrentTime(v.ctx); err == nil {
			v.progress(current/duration, -1)
		}
	}

	v.mu.Lock()
	if !v.closed {
		v.pollTimer = v.clk.AfterFunc(durationPollInterval, v.pollPosition)
	}
	v.mu.Unlock()
}

func (v *Vimeo) stopPositionPoll() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.pollTimer != nil {
		v.pollTimer.Stop()
		v.pollTimer = nil
	}
}
