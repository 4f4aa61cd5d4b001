package player

import "context"

// Engine is the command port to the underlying playback engine. Engines live
// outside the process (a media element or embed in the viewer's browser), so
// every command may fail; adapters log and swallow those failures instead of
// rolling back their optimistic state.
type Engine interface {
	Play() error
	Pause() error
	Seek(seconds float64) error
	SetVolume(volume float64) error
	SetMuted(muted bool) error
	SetRate(rate float64) error
	Fullscreen() error
}

// NativeEngine additionally exposes the media element's duration for the
// polling fallback.
type NativeEngine interface {
	Engine
	Duration() (float64, error)
}

// VimeoEngine is the remote-control API of the Vimeo player. Getters are
// asynchronous round trips; the control script has to be injected before the
// player answers and removed again when the instance goes away, or duplicate
// scripts leak across navigations.
type VimeoEngine interface {
	Engine
	CurrentTime(ctx context.Context) (float64, error)
	Duration(ctx context.Context) (float64, error)
	InjectScript() error
	RemoveScript() error
}
