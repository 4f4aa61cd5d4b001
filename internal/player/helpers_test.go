package player

import (
	"context"
	"log/slog"
	"sync"
)

type fakeEngine struct {
	mu    sync.Mutex
	calls []string
	err   error

	duration    float64
	durationErr error
	current     float64
	currentErr  error
}

func (e *fakeEngine) record(call string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, call)
	return e.err
}

func (e *fakeEngine) callList() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

func (e *fakeEngine) lastCall() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.calls) == 0 {
		return ""
	}
	return e.calls[len(e.calls)-1]
}

func (e *fakeEngine) setDuration(d float64, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.duration = d
	e.durationErr = err
}

func (e *fakeEngine) Play() error  { return e.record("play") }
func (e *fakeEngine) Pause() error { return e.record("pause") }

func (e *fakeEngine) SetVolume(volume float64) error { return e.record("set_volume") }
func (e *fakeEngine) SetMuted(muted bool) error      { return e.record("set_muted") }
func (e *fakeEngine) SetRate(rate float64) error     { return e.record("set_rate") }
func (e *fakeEngine) Fullscreen() error              { return e.record("fullscreen") }

type fakeNativeEngine struct {
	fakeEngine

	seekMu  sync.Mutex
	seekArg float64
}

func (e *fakeNativeEngine) Seek(seconds float64) error {
	e.seekMu.Lock()
	e.seekArg = seconds
	e.seekMu.Unlock()
	return e.record("seek")
}

func (e *fakeNativeEngine) lastSeek() float64 {
	e.seekMu.Lock()
	defer e.seekMu.Unlock()
	return e.seekArg
}

func (e *fakeNativeEngine) Duration() (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration, e.durationErr
}

type fakeVimeoEngine struct {
	fakeEngine

	seekMu  sync.Mutex
	seekArg float64
}

func (e *fakeVimeoEngine) Seek(seconds float64) error {
	e.seekMu.Lock()
	e.seekArg = seconds
	e.seekMu.Unlock()
	return e.record("seek")
}

func (e *fakeVimeoEngine) lastSeek() float64 {
	e.seekMu.Lock()
	defer e.seekMu.Unlock()
	return e.seekArg
}

func (e *fakeVimeoEngine) CurrentTime(ctx context.Context) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current, e.currentErr
}

func (e *fakeVimeoEngine) Duration(ctx context.Context) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration, e.durationErr
}

func (e *fakeVimeoEngine) InjectScript() error { return e.record("inject_script") }
func (e *fakeVimeoEngine) RemoveScript() error { return e.record("remove_script") }

func testLogger() *slog.Logger {
	return slog.Default()
}
