package player

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduplay/server/pkg/clock"
)

func TestVimeoMountInjectsScriptAndFetchesDuration(t *testing.T) {
	clk := clock.NewFake()
	engine := &fakeVimeoEngine{}
	engine.setDuration(300, nil)

	v := NewVimeo(engine, clk, testLogger())
	defer v.Close()

	assert.Contains(t, engine.callList(), "inject_script")

	require.Eventually(t, func() bool {
		return v.State().DurationKnown
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 300.0, v.State().DurationSeconds)
}

func TestVimeoLoadedPushesVolumeAndPolls(t *testing.T) {
	clk := clock.NewFake()
	engine := &fakeVimeoEngine{}
	engine.setDuration(100, nil)
	engine.current = 25

	v := NewVimeo(engine, clk, testLogger())
	defer v.Close()

	require.Eventually(t, func() bool {
		return v.State().DurationKnown
	}, time.Second, 5*time.Millisecond)

	v.OnLoaded()
	calls := engine.callList()
	assert.Contains(t, calls, "set_volume")
	assert.Contains(t, calls, "set_muted")

	clk.Advance(time.Second)
	assert.Equal(t, 0.25, v.State().PlayedFraction, "position poll must advance the fraction")
}

func TestVimeoRemoteEvents(t *testing.T) {
	clk := clock.NewFake()
	engine := &fakeVimeoEngine{}
	v := NewVimeo(engine, clk, testLogger())
	defer v.Close()

	v.OnPlay()
	assert.True(t, v.State().Playing)

	v.OnPause()
	assert.False(t, v.State().Playing)

	v.OnTimeUpdate(0.4)
	state := v.State()
	assert.Equal(t, 0.4, state.PlayedFraction)
	assert.False(t, state.Buffering, "timeupdate carries no loaded fraction")
}

func TestVimeoSeekByClampsAgainstFreshDuration(t *testing.T) {
	clk := clock.NewFake()
	engine := &fakeVimeoEngine{}
	engine.setDuration(60, nil)
	engine.current = 50

	v := NewVimeo(engine, clk, testLogger())
	defer v.Close()

	v.SeekBy(30)
	assert.Equal(t, 60.0, engine.lastSeek(), "target must clamp to the freshly fetched duration")

	engine.mu.Lock()
	engine.current = 5
	engine.mu.Unlock()

	v.SeekBy(-10)
	assert.Equal(t, 0.0, engine.lastSeek())
}

func TestVimeoSeekByAbortsWhenGetterFails(t *testing.T) {
	clk := clock.NewFake()
	engine := &fakeVimeoEngine{}
	engine.setDuration(60, nil)
	engine.currentErr = errors.New("no reply")

	v := NewVimeo(engine, clk, testLogger())
	defer v.Close()

	v.SeekBy(10)
	assert.NotContains(t, engine.callList(), "seek")
}

func TestVimeoCloseRemovesScriptAndStopsPoll(t *testing.T) {
	clk := clock.NewFake()
	engine := &fakeVimeoEngine{}
	engine.setDuration(100, nil)

	v := NewVimeo(engine, clk, testLogger())

	require.Eventually(t, func() bool {
		return v.State().DurationKnown
	}, time.Second, 5*time.Millisecond)

	v.OnLoaded()
	require.NotZero(t, clk.Pending())

	v.Close()
	assert.Contains(t, engine.callList(), "remove_script")
	assert.Zero(t, clk.Pending(), "close must release the hide and poll timers")
}

func TestVimeoErrorStopsPoll(t *testing.T) {
	clk := clock.NewFake()
	engine := &fakeVimeoEngine{}
	engine.setDuration(100, nil)

	v := NewVimeo(engine, clk, testLogger())
	defer v.Close()

	v.OnLoaded()
	v.OnError("player gone")

	assert.Equal(t, "player gone", v.State().Error)

	v.OnTimeUpdate(0.7)
	assert.Equal(t, 0.0, v.State().PlayedFraction)
}
