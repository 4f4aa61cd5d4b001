package player

// handleKey maps the global keyboard shortcuts onto adapter actions. Seeks
// are relative and clamped by the adapter; fullscreen denial is swallowed by
// the engine forwarding path.
func handleKey(a Adapter, key string) {
	switch key {
	case " ", "Space":
		a.PlayPause()
	case "ArrowRight":
		a.SeekBy(keySeekSeconds)
	case "ArrowLeft":
		a.SeekBy(-keySeekSeconds)
	case "f", "F":
		a.ToggleFullscreen()
	}
}
