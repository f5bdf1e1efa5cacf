package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moovidex/engine/internal/repository/session/inmemory"
)

type fakeElement struct {
	mu          sync.Mutex
	calls       []string
	playErr     error
	currentTime float64
	duration    float64
	readyState  ReadyState
	fullscreen  bool

	events chan Event
}

func newFakeElement() *fakeElement {
	return &fakeElement{events: make(chan Event, 16)}
}

func (e *fakeElement) record(call string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, call)
}

func (e *fakeElement) recorded() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

func (e *fakeElement) Play(context.Context) error {
	e.record("play")
	return e.playErr
}

func (e *fakeElement) Pause() { e.record("pause") }

func (e *fakeElement) SetSource(url string) { e.record("set_source " + url) }

func (e *fakeElement) SetCurrentTime(seconds float64) {
	e.mu.Lock()
	e.currentTime = seconds
	e.mu.Unlock()
	e.record(fmt.Sprintf("set_current_time %v", seconds))
}

func (e *fakeElement) SetVolume(volume float64) { e.record(fmt.Sprintf("set_volume %v", volume)) }

func (e *fakeElement) SetMuted(muted bool) { e.record(fmt.Sprintf("set_muted %v", muted)) }

func (e *fakeElement) SetPlaybackRate(rate float64) {
	e.record(fmt.Sprintf("set_playback_rate %v", rate))
}

func (e *fakeElement) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentTime
}

func (e *fakeElement) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

func (e *fakeElement) ReadyState() ReadyState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.readyState
}

func (e *fakeElement) BufferedEnd() float64 { return 0 }

func (e *fakeElement) RequestFullscreen() error {
	e.record("request_fullscreen")
	return nil
}

func (e *fakeElement) ExitFullscreen() { e.record("exit_fullscreen") }

func (e *fakeElement) IsFullscreen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fullscreen
}

func (e *fakeElement) Events() <-chan Event { return e.events }

type testPlayer struct {
	element    *fakeElement
	store      *Store
	controller *Controller
	states     chan State
	sessions   SessionRepository
}

func newTestPlayer(t *testing.T, sessionID string) *testPlayer {
	t.Helper()

	element := newFakeElement()
	store := NewStore()
	sessions := inmemory.NewRepo()
	adapter := NewAdapter(element, sessions, sessionID, slog.Default())
	controller := NewController(adapter, store, time.Hour, slog.Default())

	states := make(chan State, 256)
	controller.OnRender(func(state State) {
		states <- state
	})

	p := &testPlayer{
		element:    element,
		store:      store,
		controller: controller,
		states:     states,
		sessions:   sessions,
	}
	t.Cleanup(func() {
		close(element.events)
		controller.Close()
	})

	controller.Start(context.Background())

	return p
}

func (p *testPlayer) waitForState(t *testing.T, cond func(State) bool) State {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case state := <-p.states:
			if cond(state) {
				return state
			}
		case <-deadline:
			t.Fatal("timed out waiting for state")
		}
	}
}

func TestControllerMetadataForcesAudible(t *testing.T) {
	p := newTestPlayer(t, "session-1")

	p.element.events <- Event{Type: EventLoadedMetadata, Duration: 100, Volume: 0.8, PlaybackRate: 1}
	p.waitForState(t, func(s State) bool { return s.Duration == 100 })

	calls := p.element.recorded()
	assert.Contains(t, calls, "set_muted false", "metadata arrival must force the resource audible")
	assert.Contains(t, calls, "set_volume 0.8", "metadata arrival must reapply the observed volume")
}

func TestControllerPlayingAndPauseEvents(t *testing.T) {
	p := newTestPlayer(t, "session-1")

	p.element.events <- Event{Type: EventPause}
	state := p.waitForState(t, func(s State) bool { return !s.IsPlaying })
	assert.False(t, state.IsPlaying)

	p.element.events <- Event{Type: EventPlaying}
	state = p.waitForState(t, func(s State) bool { return s.IsPlaying })
	assert.False(t, state.IsLoading, "playing must clear the loading state")
}

func TestControllerLoadingOverlayRule(t *testing.T) {
	p := newTestPlayer(t, "session-1")

	// cold start: loading with nothing buffered shows the overlay
	p.element.events <- Event{Type: EventWaiting}
	state := p.waitForState(t, func(s State) bool { return s.IsLoading })
	assert.True(t, state.ShowLoadingOverlay)

	// mid-playback blip with enough data buffered must not flash it
	p.element.events <- Event{Type: EventTimeUpdate, CurrentTime: 42, Duration: 100}
	p.waitForState(t, func(s State) bool { return s.CurrentTime == 42 })

	p.element.mu.Lock()
	p.element.readyState = HaveEnoughData
	p.element.mu.Unlock()

	p.element.events <- Event{Type: EventWaiting}
	state = p.waitForState(t, func(s State) bool { return s.IsLoading && s.CurrentTime == 42 })
	assert.False(t, state.ShowLoadingOverlay, "buffering blips past the first second must not show the overlay")
}

func TestControllerReadinessEventsSettleLoading(t *testing.T) {
	p := newTestPlayer(t, "session-1")

	p.element.events <- Event{Type: EventCanPlay, ReadyState: HaveCurrentData}
	state := p.waitForState(t, func(s State) bool { return s.IsLoading })
	assert.True(t, state.IsLoading, "canplay below the stall threshold keeps loading")

	p.element.events <- Event{Type: EventCanPlayThrough, ReadyState: HaveEnoughData}
	p.waitForState(t, func(s State) bool { return !s.IsLoading })
}

func TestControllerEscapeFullscreenResync(t *testing.T) {
	p := newTestPlayer(t, "session-1")

	p.controller.ToggleFullscreen(context.Background())
	state := p.waitForState(t, func(s State) bool { return s.IsFullscreen })
	assert.True(t, state.IsFullscreen, "request sets the state optimistically")

	// the environment left fullscreen on its own (Esc); the change event is
	// the source of truth
	p.element.events <- Event{Type: EventFullscreenChange, IsFullscreen: false}
	p.waitForState(t, func(s State) bool { return !s.IsFullscreen })

	calls := p.element.recorded()
	assert.NotContains(t, calls, "exit_fullscreen", "resync must not issue a second transition")
}

func TestControllerRejectedPlayKeepsIntent(t *testing.T) {
	p := newTestPlayer(t, "session-1")
	p.element.playErr = errors.New("NotAllowedError")

	p.controller.TogglePlay(context.Background())
	state := p.waitForState(t, func(s State) bool { return !s.IsPlaying })
	assert.False(t, state.IsPlaying)

	p.controller.TogglePlay(context.Background())
	state = p.waitForState(t, func(s State) bool { return s.IsPlaying })
	assert.True(t, state.IsPlaying, "the intent stands even when play() is rejected")
}

func TestControllerClickDisambiguation(t *testing.T) {
	p := newTestPlayer(t, "session-1")
	ctx := context.Background()

	p.controller.ToggleSettings()
	state := p.waitForState(t, func(s State) bool { return s.SettingsOpen })
	assert.True(t, state.IsPlaying)

	// a video click while the overlay is open only closes it
	p.controller.Click(ctx, ClickVideo)
	state = p.waitForState(t, func(s State) bool { return !s.SettingsOpen })
	assert.True(t, state.IsPlaying, "closing the overlay must not toggle playback")
	assert.NotContains(t, p.element.recorded(), "pause")

	// with the overlay closed the same click toggles playback
	p.controller.Click(ctx, ClickVideo)
	state = p.waitForState(t, func(s State) bool { return !s.IsPlaying })
	assert.Contains(t, p.element.recorded(), "pause")

	// overlay-surface clicks are consumed
	p.controller.ToggleSettings()
	p.waitForState(t, func(s State) bool { return s.SettingsOpen })
	p.controller.Click(ctx, ClickOverlay)
	assert.True(t, p.controller.CurrentState().SettingsOpen, "overlay clicks must not close the overlay")

	p.controller.Click(ctx, ClickOutside)
	p.waitForState(t, func(s State) bool { return !s.SettingsOpen })
}

func TestControllerPlaybackRateClosesOverlay(t *testing.T) {
	p := newTestPlayer(t, "session-1")
	ctx := context.Background()

	p.controller.ToggleSettings()
	p.controller.SetSettingsTab("Speed")
	p.waitForState(t, func(s State) bool { return s.SettingsOpen && s.ActiveSettingsTab == "Speed" })

	p.controller.SetPlaybackRate(ctx, 1.5)
	p.waitForState(t, func(s State) bool { return s.PlaybackRate == 1.5 && !s.SettingsOpen })
	assert.Contains(t, p.element.recorded(), "set_playback_rate 1.5")

	p.controller.SetPlaybackRate(ctx, 3)
	assert.Equal(t, 1.5, p.controller.CurrentState().PlaybackRate, "a rate outside the speed set is rejected")
}

func TestControllerResumePositionRoundTrip(t *testing.T) {
	sessions := inmemory.NewRepo()
	ctx := context.Background()
	require.NoError(t, sessions.SetResumePosition(ctx, "session-2", 123.5))

	element := newFakeElement()
	adapter := NewAdapter(element, sessions, "session-2", slog.Default())
	controller := NewController(adapter, NewStore(), time.Hour, slog.Default())

	controller.Start(ctx)
	assert.Contains(t, element.recorded(), "set_current_time 123.5", "attach must restore the saved offset")

	element.mu.Lock()
	element.currentTime = 321.25
	element.mu.Unlock()

	close(element.events)
	controller.Close()

	seconds, err := sessions.GetResumePosition(ctx, "session-2")
	require.NoError(t, err)
	assert.Equal(t, 321.25, seconds, "close must persist the last observed offset")
}
