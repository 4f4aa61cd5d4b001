package player

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduplay/server/pkg/clock"
)

func TestNativeInitialState(t *testing.T) {
	clk := clock.NewFake()
	n := NewNative(&fakeNativeEngine{}, clk, testLogger())
	defer n.Close()

	state := n.State()
	assert.True(t, state.Loading, "must mount in loading state")
	assert.True(t, state.Muted, "autoplay must start muted")
	assert.Equal(t, 0.8, state.Volume)
	assert.Equal(t, 1.0, state.PlaybackRate)
	assert.True(t, state.ShowControls)
	assert.False(t, state.DurationKnown)
}

func TestNativeReadyAndControlsHide(t *testing.T) {
	clk := clock.NewFake()
	n := NewNative(&fakeNativeEngine{}, clk, testLogger())
	defer n.Close()

	n.OnReady(120)

	state := n.State()
	assert.False(t, state.Loading)
	assert.True(t, state.DurationKnown)
	assert.Equal(t, 120.0, state.DurationSeconds)
	assert.True(t, state.ShowControls)

	clk.Advance(3 * time.Second)
	assert.False(t, n.State().ShowControls, "controls must hide after the idle delay")

	n.Interact()
	assert.True(t, n.State().ShowControls)

	// another interaction within the window must restart the timer, not
	// stack a second one
	clk.Advance(2 * time.Second)
	n.Interact()
	clk.Advance(2 * time.Second)
	assert.True(t, n.State().ShowControls, "re-armed timer must not fire early")

	clk.Advance(time.Second)
	assert.False(t, n.State().ShowControls)
}

func TestNativePlayPause(t *testing.T) {
	clk := clock.NewFake()
	engine := &fakeNativeEngine{}
	n := NewNative(engine, clk, testLogger())
	defer n.Close()

	n.OnReady(60)

	n.PlayPause()
	assert.True(t, n.State().Playing)
	assert.Equal(t, "play", engine.lastCall())

	n.PlayPause()
	assert.False(t, n.State().Playing)
	assert.Equal(t, "pause", engine.lastCall())
}

func TestNativeEngineErrorsAreSwallowed(t *testing.T) {
	clk := clock.NewFake()
	engine := &fakeNativeEngine{}
	engine.err = errors.New("engine rejected command")
	n := NewNative(engine, clk, testLogger())
	defer n.Close()

	n.OnReady(60)

	n.PlayPause()
	assert.True(t, n.State().Playing, "optimistic state must survive a rejected command")

	n.SetVolume(0.3)
	assert.Equal(t, 0.3, n.State().Volume)
}

func TestNativeVolumeMuteCoupling(t *testing.T) {
	clk := clock.NewFake()
	engine := &fakeNativeEngine{}
	n := NewNative(engine, clk, testLogger())
	defer n.Close()

	n.OnReady(60)
	require.True(t, n.State().Muted)

	n.SetVolume(0.5)
	state := n.State()
	assert.Equal(t, 0.5, state.Volume)
	assert.False(t, state.Muted, "raising volume while muted must unmute")

	n.SetVolume(0)
	state = n.State()
	assert.Equal(t, 0.0, state.Volume)
	assert.True(t, state.Muted, "zero volume must mute")

	n.SetVolume(1.5)
	state = n.State()
	assert.Equal(t, 1.0, state.Volume, "volume must clamp to [0, 1]")
	assert.False(t, state.Muted)

	n.ToggleMute()
	assert.True(t, n.State().Muted)
	assert.Equal(t, "set_muted", engine.lastCall())
}

func TestNativeSeekClamping(t *testing.T) {
	clk := clock.NewFake()
	engine := &fakeNativeEngine{}
	n := NewNative(engine, clk, testLogger())
	defer n.Close()

	n.OnReady(100)

	n.SeekToFraction(1.5)
	assert.Equal(t, 1.0, n.State().PlayedFraction)
	assert.Equal(t, 100.0, engine.lastSeek())

	n.SeekToFraction(-0.5)
	assert.Equal(t, 0.0, n.State().PlayedFraction)
	assert.Equal(t, 0.0, engine.lastSeek())

	n.SeekToFraction(0.5)
	n.SeekBy(1000)
	assert.Equal(t, 1.0, n.State().PlayedFraction)
	assert.Equal(t, 100.0, engine.lastSeek())

	n.SeekBy(-1000)
	assert.Equal(t, 0.0, n.State().PlayedFraction)
	assert.Equal(t, 0.0, engine.lastSeek())
}

func TestNativeSetRate(t *testing.T) {
	clk := clock.NewFake()
	engine := &fakeNativeEngine{}
	n := NewNative(engine, clk, testLogger())
	defer n.Close()

	n.SetRate(1.5)
	assert.Equal(t, 1.5, n.State().PlaybackRate)
	assert.Equal(t, "set_rate", engine.lastCall())

	calls := len(engine.callList())
	n.SetRate(3)
	assert.Equal(t, 1.5, n.State().PlaybackRate, "unsupported rate must be ignored")
	assert.Len(t, engine.callList(), calls, "unsupported rate must not reach the engine")
}

func TestNativeKeyboard(t *testing.T) {
	clk := clock.NewFake()
	engine := &fakeNativeEngine{}
	n := NewNative(engine, clk, testLogger())
	defer n.Close()

	n.OnReady(100)
	n.SeekToFraction(0.5)

	n.HandleKey(" ")
	assert.True(t, n.State().Playing)

	n.HandleKey("ArrowRight")
	assert.Equal(t, 60.0, engine.lastSeek())

	n.HandleKey("ArrowLeft")
	assert.Equal(t, 50.0, engine.lastSeek())

	n.HandleKey("f")
	assert.Equal(t, "fullscreen", engine.lastCall())
}

func TestNativeProgressBuffering(t *testing.T) {
	clk := clock.NewFake()
	n := NewNative(&fakeNativeEngine{}, clk, testLogger())
	defer n.Close()

	n.OnReady(100)

	n.OnProgress(0.5, 0.9)
	state := n.State()
	assert.Equal(t, 0.5, state.PlayedFraction)
	assert.False(t, state.Buffering)

	n.OnProgress(0.5, 0.55)
	assert.True(t, n.State().Buffering, "loaded within 0.1 of played means buffering")

	n.OnProgress(0.5, -1)
	assert.True(t, n.State().Buffering, "missing loaded signal must not touch buffering")
}

func TestNativeDurationPoll(t *testing.T) {
	clk := clock.NewFake()
	engine := &fakeNativeEngine{}
	engine.setDuration(0, nil)
	n := NewNative(engine, clk, testLogger())
	defer n.Close()

	n.OnReady(0)
	require.False(t, n.State().DurationKnown)

	clk.Advance(time.Second)
	assert.False(t, n.State().DurationKnown)

	engine.setDuration(240, nil)
	clk.Advance(time.Second)
	state := n.State()
	assert.True(t, state.DurationKnown)
	assert.Equal(t, 240.0, state.DurationSeconds)

	// no further polls once the duration is adopted
	pending := clk.Pending()
	clk.Advance(time.Second)
	assert.LessOrEqual(t, clk.Pending(), pending)
}

func TestNativeDurationPollGivesUp(t *testing.T) {
	clk := clock.NewFake()
	engine := &fakeNativeEngine{}
	engine.setDuration(0, errors.New("not ready"))
	n := NewNative(engine, clk, testLogger())
	defer n.Close()

	n.OnReady(0)

	for i := 0; i < 15; i++ {
		clk.Advance(time.Second)
	}

	assert.False(t, n.State().DurationKnown)
	assert.Zero(t, clk.Pending(), "poll must stop after the attempt limit")
}

func TestNativeErrorIsTerminal(t *testing.T) {
	clk := clock.NewFake()
	n := NewNative(&fakeNativeEngine{}, clk, testLogger())
	defer n.Close()

	n.OnReady(100)
	n.OnError("decode failed")

	state := n.State()
	assert.Equal(t, "decode failed", state.Error)
	assert.False(t, state.Loading)
	assert.False(t, state.Buffering)

	n.OnProgress(0.5, 0.9)
	assert.Equal(t, 0.0, n.State().PlayedFraction, "progress after a terminal error must be ignored")
}

func TestNativeCloseReleasesTimers(t *testing.T) {
	clk := clock.NewFake()
	engine := &fakeNativeEngine{}
	engine.setDuration(0, nil)
	n := NewNative(engine, clk, testLogger())

	n.OnReady(0)
	require.NotZero(t, clk.Pending())

	n.Close()
	assert.Zero(t, clk.Pending(), "close must release the hide and poll timers")
}

func TestNativeSubscribe(t *testing.T) {
	clk := clock.NewFake()
	n := NewNative(&fakeNativeEngine{}, clk, testLogger())
	defer n.Close()

	var got []State
	n.Subscribe(func(s State) { got = append(got, s) })

	n.OnReady(60)
	n.PlayPause()

	require.Len(t, got, 2)
	assert.False(t, got[0].Loading)
	assert.True(t, got[1].Playing)
}
