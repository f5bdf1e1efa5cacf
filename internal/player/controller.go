package player

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/moovidex/engine/internal/domain"
)

// State is what the rendering surface receives: the snapshot plus the
// overlay state and the derived loading-overlay visibility.
type State struct {
	domain.Snapshot
	SettingsOpen       bool               `json:"settings_open"`
	ActiveSettingsTab  domain.SettingsTab `json:"active_settings_tab"`
	ShowLoadingOverlay bool               `json:"show_loading_overlay"`
}

// Controller wires the adapter's event stream into store transitions and
// exposes the user-facing command set. Events are consumed by a single
// goroutine in delivery order, so no two transitions of the same kind can
// reorder.
type Controller struct {
	store   *Store
	adapter *Adapter
	idle    *IdleTimer
	overlay *Overlay
	logger  *slog.Logger

	renderMu sync.Mutex
	render   func(State)

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

func NewController(adapter *Adapter, store *Store, idleHideDelay time.Duration, logger *slog.Logger) *Controller {
	c := &Controller{
		store:   store,
		adapter: adapter,
		overlay: NewOverlay(),
		logger:  logger,
		done:    make(chan struct{}),
	}
	c.idle = NewIdleTimer(idleHideDelay, c.overlay.IsOpen, func(visible bool) {
		c.store.SetControlsVisible(visible)
	})
	c.store.OnChange(func(domain.Snapshot) {
		c.publish()
	})

	return c
}

// OnRender registers the sink the derived UI state is pushed to after every
// change.
func (c *Controller) OnRender(fn func(State)) {
	c.renderMu.Lock()
	c.render = fn
	c.renderMu.Unlock()
}

func (c *Controller) publish() {
	c.renderMu.Lock()
	render := c.render
	c.renderMu.Unlock()

	if render != nil {
		render(c.CurrentState())
	}
}

func (c *Controller) CurrentState() State {
	return State{
		Snapshot:           c.store.Snapshot(),
		SettingsOpen:       c.overlay.IsOpen(),
		ActiveSettingsTab:  c.overlay.ActiveTab(),
		ShowLoadingOverlay: c.LoadingOverlayVisible(),
	}
}

// LoadingOverlayVisible derives the overlay rule: loading AND (cold start
// OR readiness below can-play-through). Routine mid-playback buffering
// blips do not flash the overlay.
func (c *Controller) LoadingOverlayVisible() bool {
	snap := c.store.Snapshot()
	return snap.IsLoading && (snap.CurrentTime < 1 || !c.adapter.ReadyState().CanPlayWithoutStalling())
}

// Start restores the resume position and begins consuming resource events.
func (c *Controller) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)

	if err := c.adapter.Attach(ctx); err != nil {
		c.logger.WarnContext(ctx, "failed to attach media adapter", "error", err)
	}
	c.idle.Touch()

	go c.run(ctx)
}

func (c *Controller) run(ctx context.Context) {
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-c.adapter.Events():
			if !ok {
				return
			}
			c.handleEvent(ctx, event)
		}
	}
}

func (c *Controller) handleEvent(ctx context.Context, event Event) {
	switch event.Type {
	case EventTimeUpdate:
		c.store.ApplyTimeProgress(event.CurrentTime, event.Duration)
	case EventLoadedMetadata:
		snap := c.store.ApplyMetadata(event.Duration, event.Volume, event.PlaybackRate)
		c.adapter.ForceAudible(snap.Volume)
	case EventProgress:
		c.store.ApplyBufferProgress(event.BufferedEnd, event.Duration)
	case EventWaiting, EventStalled, EventSeeking:
		c.store.SetLoading(true)
	case EventPlaying:
		c.store.SetPlaying(true)
		c.store.SetLoading(false)
	case EventPause:
		c.store.SetPlaying(false)
	case EventCanPlay, EventCanPlayThrough, EventSeeked:
		c.store.SetLoading(!event.ReadyState.CanPlayWithoutStalling())
	case EventFullscreenChange:
		c.store.SetFullscreen(event.IsFullscreen)
	default:
		c.logger.DebugContext(ctx, "unhandled media event", "type", event.Type)
	}
}

// TogglePlay flips the play intent and issues the matching element call. A
// rejected play() is recoverable noise: the intent stands and the next
// native playing/pause event corrects any divergence.
func (c *Controller) TogglePlay(ctx context.Context) {
	snap := c.store.TogglePlay()
	if snap.IsPlaying {
		if err := c.adapter.Play(ctx); err != nil {
			c.logger.WarnContext(ctx, "play request failed", "error", err)
		}
	} else {
		c.adapter.Pause()
	}
}

func (c *Controller) SeekBy(delta float64) {
	newTime, _ := c.store.Seek(delta)
	c.adapter.SetCurrentTime(newTime)
}

func (c *Controller) ScrubTo(progress float64) {
	newTime, ok := c.store.ScrubTo(progress)
	if !ok {
		return
	}
	c.adapter.SetCurrentTime(newTime)
}

func (c *Controller) SetVolume(volume float64) {
	volume = c.store.SetVolume(volume)
	c.adapter.ApplyVolume(volume)
}

func (c *Controller) ToggleMute() {
	volume := c.store.ToggleMute()
	c.adapter.ApplyVolume(volume)
}

// SetPlaybackRate applies a speed from the fixed set and closes the
// settings overlay.
func (c *Controller) SetPlaybackRate(ctx context.Context, rate float64) {
	if !c.store.SetPlaybackRate(rate) {
		c.logger.WarnContext(ctx, "rejected playback rate outside the speed set", "rate", rate)
		return
	}
	c.adapter.SetPlaybackRate(rate)
	c.overlay.Close()
	c.publish()
}

func (c *Controller) SetAspectRatio(mode domain.AspectRatioMode) {
	c.store.SetAspectRatio(mode)
}

// ToggleFullscreen requests or exits fullscreen on the player container.
// The new state is set optimistically; the environment's own change
// notification remains the source of truth and corrects a rejected request.
func (c *Controller) ToggleFullscreen(ctx context.Context) {
	if !c.adapter.IsFullscreen() {
		if err := c.adapter.RequestFullscreen(); err != nil {
			c.logger.WarnContext(ctx, "fullscreen request failed", "error", err)
		}
		c.store.SetFullscreen(true)
	} else {
		c.adapter.ExitFullscreen()
		c.store.SetFullscreen(false)
	}
}

// Click disambiguates by target. A video click while the overlay is open
// only closes the overlay; overlay and trigger clicks never reach the
// play/pause toggle.
func (c *Controller) Click(ctx context.Context, target ClickTarget) {
	c.idle.Touch()

	switch target {
	case ClickVideo:
		if c.overlay.IsOpen() {
			c.overlay.Close()
			c.publish()
			return
		}
		c.TogglePlay(ctx)
	case ClickTrigger:
		c.ToggleSettings()
	case ClickOverlay:
		// consumed by the overlay itself
	case ClickOutside:
		c.overlay.Close()
		c.publish()
	}
}

// Activity registers pointer movement or a key press inside the player.
func (c *Controller) Activity() {
	c.idle.Touch()
}

func (c *Controller) PointerLeave() {
	c.idle.PointerLeave()
}

func (c *Controller) ToggleSettings() {
	c.overlay.Toggle()
	c.publish()
}

func (c *Controller) SetSettingsTab(tab domain.SettingsTab) {
	if c.overlay.SetTab(tab) {
		c.publish()
	}
}

func (c *Controller) SetSource(url string) {
	c.store.SetError(nil)
	c.adapter.SetSource(url)
}

// SetError surfaces a user-facing failure message on the snapshot; nil
// clears it.
func (c *Controller) SetError(message *string) {
	c.store.SetError(message)
}

// Close tears the player down exactly once: the event loop stops, the idle
// countdown is released and the resume position is persisted.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
			<-c.done
		}
		c.idle.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.adapter.Detach(ctx); err != nil {
			c.logger.Warn("failed to detach media adapter", "error", err)
		}
	})
}
