package player

import "math"

// Rates are the playback rates the control surface offers.
var Rates = []float64{0.75, 1, 1.25, 1.5, 2}

func ValidRate(rate float64) bool {
	for _, r := range Rates {
		if r == rate {
			return true
		}
	}
	return false
}

// State is the unified control-surface state every adapter maintains,
// whatever the underlying engine looks like. DurationSeconds is 0 until the
// engine reports an authoritative value; DurationKnown makes the unknown
// case explicit so the UI never renders a fake 0:00 total.
type State struct {
	Playing         bool    `json:"playing"`
	Volume          float64 `json:"volume"`
	Muted           bool    `json:"muted"`
	PlayedFraction  float64 `json:"played_fraction"`
	DurationSeconds float64 `json:"duration_seconds"`
	DurationKnown   bool    `json:"duration_known"`
	PlaybackRate    float64 `json:"playback_rate"`
	ShowControls    bool    `json:"show_controls"`
	Loading         bool    `json:"loading"`
	Buffering       bool    `json:"buffering"`
	Error           string  `json:"error,omitempty"`
}

// initialState is the mount state. Muted autoplay is mandatory: browsers and
// embeds refuse unmuted autoplay.
func initialState() State {
	return State{
		Volume:       0.8,
		Muted:        true,
		PlaybackRate: 1,
		ShowControls: true,
		Loading:      true,
	}
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func validDuration(d float64) bool {
	return d > 0 && !math.IsInf(d, 0) && !math.IsNaN(d)
}
