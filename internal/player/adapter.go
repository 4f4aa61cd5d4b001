package player

// Adapter is the unified control surface every platform realization
// implements. User actions are idempotent optimistic commands; engine events
// arrive through adapter-specific On* methods. Close is the only
// cancellation signal and must release every timer and subscription.
type Adapter interface {
	State() State
	Subscribe(fn func(State))

	PlayPause()
	SeekToFraction(fraction float64)
	SeekBy(seconds float64)
	SetVolume(volume float64)
	ToggleMute()
	SetRate(rate float64)
	ToggleFullscreen()
	Interact()
	HandleKey(key string)

	Close()
}
