package player

import (
	"log/slog"
	"sync"
	"time"

	"github.com/eduplay/server/pkg/clock"
)

const (
	controlsHideDelay    = 3 * time.Second
	durationPollInterval = time.Second
	durationPollAttempts = 10
	keySeekSeconds       = 10.0
)

// machine is the state machine shared by all adapters. Engine callbacks and
// user actions may arrive on any goroutine; the mutex serializes them, so
// updates apply in arrival order. An engine error is terminal for the
// instance: the retry affordance is a remount, not a state reset.
type machine struct {
	mu        sync.Mutex
	state     State
	clk       clock.Clock
	logger    *slog.Logger
	hideTimer clock.Timer
	onChange  func(State)
	closed    bool
}

func newMachine(clk clock.Clock, logger *slog.Logger) machine {
	return machine{
		state:  initialState(),
		clk:    clk,
		logger: logger,
	}
}

func (m *machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers the single observer notified after every transition.
func (m *machine) Subscribe(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

func (m *machine) emit(state State) {
	m.mu.Lock()
	onChange := m.onChange
	m.mu.Unlock()

	if onChange != nil {
		onChange(state)
	}
}

// armHideTimerLocked replaces any pending hide timer; at most one is live
// per instance.
func (m *machine) armHideTimerLocked() {
	if m.hideTimer != nil {
		m.hideTimer.Stop()
	}

	m.hideTimer = m.clk.AfterFunc(controlsHideDelay, func() {
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			return
		}
		m.hideTimer = nil
		m.state.ShowControls = false
		state := m.state
		m.mu.Unlock()

		m.emit(state)
	})
}

func (m *machine) revealControlsLocked() {
	m.state.ShowControls = true
	m.armHideTimerLocked()
}

func (m *machine) ready(duration float64) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.state.Loading = false
	m.state.Error = ""
	if !m.state.DurationKnown && validDuration(duration) {
		m.state.DurationSeconds = duration
		m.state.DurationKnown = true
	}
	m.revealControlsLocked()
	state := m.state
	m.mu.Unlock()

	m.emit(state)
}

// progress applies a time update. loaded < 0 means the engine has no
// loaded-fraction signal and the buffering heuristic is skipped.
func (m *machine) progress(played, loaded float64) {
	m.mu.Lock()
	if m.closed || m.state.Error != "" {
		m.mu.Unlock()
		return
	}
	m.state.PlayedFraction = clamp01(played)
	if loaded >= 0 {
		m.state.Buffering = clamp01(loaded)-m.state.PlayedFraction < 0.1
	}
	state := m.state
	m.mu.Unlock()

	m.emit(state)
}

func (m *machine) adoptDuration(duration float64) {
	m.mu.Lock()
	if m.closed || m.state.DurationKnown || !validDuration(duration) {
		m.mu.Unlock()
		return
	}
	m.state.DurationSeconds = duration
	m.state.DurationKnown = true
	state := m.state
	m.mu.Unlock()

	m.emit(state)
}

func (m *machine) fail(message string) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.state.Error = message
	m.state.Loading = false
	m.state.Buffering = false
	state := m.state
	m.mu.Unlock()

	m.emit(state)
}

// togglePlay flips the optimistic playing flag and reports the new value.
func (m *machine) togglePlay() bool {
	m.mu.Lock()
	m.state.Playing = !m.state.Playing
	m.revealControlsLocked()
	playing := m.state.Playing
	state := m.state
	m.mu.Unlock()

	m.emit(state)
	return playing
}

// setVolume clamps and applies the coupled volume/mute rule: zero volume
// mutes, raising the volume while muted unmutes.
func (m *machine) setVolume(volume float64) (float64, bool) {
	m.mu.Lock()
	volume = clamp01(volume)
	m.state.Volume = volume
	if volume == 0 {
		m.state.Muted = true
	} else if m.state.Muted {
		m.state.Muted = false
	}
	muted := m.state.Muted
	m.revealControlsLocked()
	state := m.state
	m.mu.Unlock()

	m.emit(state)
	return volume, muted
}

func (m *machine) toggleMute() bool {
	m.mu.Lock()
	m.state.Muted = !m.state.Muted
	muted := m.state.Muted
	m.revealControlsLocked()
	state := m.state
	m.mu.Unlock()

	m.emit(state)
	return muted
}

func (m *machine) setRate(rate float64) bool {
	if !ValidRate(rate) {
		m.logger.Info("ignoring unsupported playback rate", "rate", rate)
		return false
	}

	m.mu.Lock()
	m.state.PlaybackRate = rate
	m.revealControlsLocked()
	state := m.state
	m.mu.Unlock()

	m.emit(state)
	return true
}

// seekToFraction clamps the requested fraction and reports the absolute
// target in seconds (0 while the duration is unknown).
func (m *machine) seekToFraction(fraction float64) float64 {
	m.mu.Lock()
	fraction = clamp01(fraction)
	m.state.PlayedFraction = fraction
	seconds := fraction * m.state.DurationSeconds
	m.revealControlsLocked()
	state := m.state
	m.mu.Unlock()

	m.emit(state)
	return seconds
}

// seekBySeconds computes a relative seek target clamped to [0, duration]
// from the locally known position.
func (m *machine) seekBySeconds(delta float64) float64 {
	m.mu.Lock()
	current := m.state.PlayedFraction * m.state.DurationSeconds
	target := clamp(current+delta, 0, m.state.DurationSeconds)
	if m.state.DurationKnown && m.state.DurationSeconds > 0 {
		m.state.PlayedFraction = clamp01(target / m.state.DurationSeconds)
	}
	m.revealControlsLocked()
	state := m.state
	m.mu.Unlock()

	m.emit(state)
	return target
}

func (m *machine) interact() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.revealControlsLocked()
	state := m.state
	m.mu.Unlock()

	m.emit(state)
}

func (m *machine) durationKnown() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.DurationKnown
}

// forward sends a command to the engine. Engine rejections are logged and
// swallowed; the optimistic local state stays the source of truth.
func (m *machine) forward(op string, fn func() error) {
	if err := fn(); err != nil {
		m.logger.Info("engine command failed", "op", op, "error", err)
	}
}

// close releases the hide timer and stops all further callbacks.
func (m *machine) close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	if m.hideTimer != nil {
		m.hideTimer.Stop()
		m.hideTimer = nil
	}
	m.onChange = nil
}

func (m *machine) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
