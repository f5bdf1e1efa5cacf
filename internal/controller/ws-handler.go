package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/moovidex/engine/internal/catalog"
	"github.com/moovidex/engine/internal/domain"
	"github.com/moovidex/engine/internal/export"
	"github.com/moovidex/engine/internal/player"
	"github.com/moovidex/engine/internal/search"
	"github.com/moovidex/engine/pkg/ctxlogger"
	"github.com/moovidex/engine/pkg/wsrouter"
)

var ErrValidationError = errors.New("validation error")

// genericPlaybackError is the only playback failure text a surface ever
// sees.
const genericPlaybackError = "Failed to start playback. Please try again."

const genericDetailError = "Failed to fetch details. Please try again."

// watchSession is the engine state bound to one connected surface.
type watchSession struct {
	id          string
	writer      *connWriter
	element     *surfaceElement
	player      *player.Controller
	coordinator *search.Coordinator

	mu           sync.Mutex
	details      *domain.TitleDetails
	qualityIndex int
}

func (s *watchSession) setDetails(details domain.TitleDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details = &details
	s.qualityIndex = 0
}

func (s *watchSession) selectQuality(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.details == nil {
		return errors.New("no title loaded")
	}
	if index < 0 || index >= len(s.details.Quality) {
		return fmt.Errorf("quality index %d out of range", index)
	}
	s.qualityIndex = index

	return nil
}

func (s *watchSession) streamRequest() (catalog.StreamRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.details == nil {
		return catalog.StreamRequest{}, errors.New("no title loaded")
	}

	return catalog.StreamRequest{
		ContentID:    s.details.ID,
		MediaType:    s.details.MediaType,
		QualityIndex: s.qualityIndex,
	}, nil
}

// ServePlayer upgrades the surface connection and runs one player engine
// for its lifetime. Everything acquired here is released when the
// connection goes away.
func (c *Controller) ServePlayer(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("session_id", sessionID))

	writer := newConnWriter(conn, c.logger)
	element := newSurfaceElement(writer)

	store := player.NewStore()
	adapter := player.NewAdapter(element, c.sessions, sessionID, c.logger)
	playerCtrl := player.NewController(adapter, store, c.cfg.IdleHideDelay, c.logger)
	playerCtrl.OnRender(func(state player.State) {
		writer.write("PLAYER_STATE", state)
	})

	session := &watchSession{
		id:      sessionID,
		writer:  writer,
		element: element,
		player:  playerCtrl,
	}
	session.coordinator = search.NewCoordinator(c.searchClient, searchSink{writer: writer}, search.Config{
		Debounce:       c.cfg.SearchDebounce,
		MinQueryLength: c.cfg.MinQueryLength,
	}, c.logger)

	playerCtrl.Start(ctx)
	writer.write("PLAYER_STATE", playerCtrl.CurrentState())

	err = c.getWSRouter(session).ServeConn(ctx, conn, func(ctx context.Context, messageType string, err error) {
		c.logger.WarnContext(ctx, "failed to handle websocket message", "type", messageType, "error", err)
	})
	if err != nil {
		c.logger.DebugContext(ctx, "websocket read loop ended", "error", err)
	}

	// teardown order matters: the read loop is done, so no more events can
	// be delivered; closing the element lets the player loop drain and
	// exit before the coordinator is cancelled.
	session.element.Close()
	session.player.Close()
	session.coordinator.Close()
}

func (c *Controller) getWSRouter(s *watchSession) *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.loggingWSMw())

	// media resource events
	wsrouter.Handle(mux, "MEDIA_EVENT", c.handleMediaEvent(s))
	wsrouter.Handle(mux, "ALIVE", c.handleAlive(s))

	// transport commands
	wsrouter.Handle(mux, "TOGGLE_PLAY", c.handleTogglePlay(s))
	wsrouter.Handle(mux, "SEEK", c.handleSeek(s))
	wsrouter.Handle(mux, "SCRUB", c.handleScrub(s))
	wsrouter.Handle(mux, "SET_VOLUME", c.handleSetVolume(s))
	wsrouter.Handle(mux, "TOGGLE_MUTE", c.handleToggleMute(s))
	wsrouter.Handle(mux, "SET_PLAYBACK_RATE", c.handleSetPlaybackRate(s))
	wsrouter.Handle(mux, "SET_ASPECT_RATIO", c.handleSetAspectRatio(s))
	wsrouter.Handle(mux, "TOGGLE_FULLSCREEN", c.handleToggleFullscreen(s))

	// interaction
	wsrouter.Handle(mux, "CLICK", c.handleClick(s))
	wsrouter.Handle(mux, "ACTIVITY", c.handleActivity(s))
	wsrouter.Handle(mux, "POINTER_LEAVE", c.handlePointerLeave(s))
	wsrouter.Handle(mux, "TOGGLE_SETTINGS", c.handleToggleSettings(s))
	wsrouter.Handle(mux, "SET_SETTINGS_TAB", c.handleSetSettingsTab(s))

	// search
	wsrouter.Handle(mux, "SEARCH_INPUT", c.handleSearchInput(s))

	// catalog and playback
	wsrouter.Handle(mux, "LOAD_TITLE", c.handleLoadTitle(s))
	wsrouter.Handle(mux, "SELECT_QUALITY", c.handleSelectQuality(s))
	wsrouter.Handle(mux, "REQUEST_PLAYBACK", c.handleRequestPlayback(s))
	wsrouter.Handle(mux, "OPEN_EXTERNAL", c.handleOpenExternal(s))

	return mux
}

type EmptyInput struct{}

func (c *Controller) handleAlive(*watchSession) wsrouter.HandlerFunc[EmptyInput] {
	return func(ctx context.Context, conn *websocket.Conn, input EmptyInput) error {
		return nil
	}
}

func (c *Controller) handleMediaEvent(s *watchSession) wsrouter.HandlerFunc[player.Event] {
	return func(ctx context.Context, conn *websocket.Conn, event player.Event) error {
		if event.Type == "" {
			return fmt.Errorf("%w: event type is required", ErrValidationError)
		}
		s.element.Deliver(event)
		return nil
	}
}

func (c *Controller) handleTogglePlay(s *watchSession) wsrouter.HandlerFunc[EmptyInput] {
	return func(ctx context.Context, conn *websocket.Conn, input EmptyInput) error {
		s.player.TogglePlay(ctx)
		return nil
	}
}

type SeekInput struct {
	Delta float64 `json:"delta"`
}

func (c *Controller) handleSeek(s *watchSession) wsrouter.HandlerFunc[SeekInput] {
	return func(ctx context.Context, conn *websocket.Conn, input SeekInput) error {
		s.player.SeekBy(input.Delta)
		return nil
	}
}

type ScrubInput struct {
	Progress float64 `json:"progress" validate:"min=0,max=100"`
}

func (c *Controller) handleScrub(s *watchSession) wsrouter.HandlerFunc[ScrubInput] {
	return func(ctx context.Context, conn *websocket.Conn, input ScrubInput) error {
		if validationErrors, ok := c.validate.Validate(input); !ok {
			return fmt.Errorf("%w: %v", ErrValidationError, validationErrors)
		}
		s.player.ScrubTo(input.Progress)
		return nil
	}
}

type SetVolumeInput struct {
	Volume float64 `json:"volume"`
}

func (c *Controller) handleSetVolume(s *watchSession) wsrouter.HandlerFunc[SetVolumeInput] {
	return func(ctx context.Context, conn *websocket.Conn, input SetVolumeInput) error {
		s.player.SetVolume(input.Volume)
		return nil
	}
}

func (c *Controller) handleToggleMute(s *watchSession) wsrouter.HandlerFunc[EmptyInput] {
	return func(ctx context.Context, conn *websocket.Conn, input EmptyInput) error {
		s.player.ToggleMute()
		return nil
	}
}

type SetPlaybackRateInput struct {
	Rate float64 `json:"rate"`
}

func (c *Controller) handleSetPlaybackRate(s *watchSession) wsrouter.HandlerFunc[SetPlaybackRateInput] {
	return func(ctx context.Context, conn *websocket.Conn, input SetPlaybackRateInput) error {
		s.player.SetPlaybackRate(ctx, input.Rate)
		return nil
	}
}

type SetAspectRatioInput struct {
	Mode string `json:"mode" validate:"required"`
}

func (c *Controller) handleSetAspectRatio(s *watchSession) wsrouter.HandlerFunc[SetAspectRatioInput] {
	return func(ctx context.Context, conn *websocket.Conn, input SetAspectRatioInput) error {
		if validationErrors, ok := c.validate.Validate(input); !ok {
			return fmt.Errorf("%w: %v", ErrValidationError, validationErrors)
		}
		s.player.SetAspectRatio(domain.AspectRatioMode(input.Mode))
		return nil
	}
}

func (c *Controller) handleToggleFullscreen(s *watchSession) wsrouter.HandlerFunc[EmptyInput] {
	return func(ctx context.Context, conn *websocket.Conn, input EmptyInput) error {
		s.player.ToggleFullscreen(ctx)
		return nil
	}
}

type ClickInput struct {
	Target string `json:"target" validate:"required,oneof=video overlay trigger outside"`
}

func (c *Controller) handleClick(s *watchSession) wsrouter.HandlerFunc[ClickInput] {
	return func(ctx context.Context, conn *websocket.Conn, input ClickInput) error {
		if validationErrors, ok := c.validate.Validate(input); !ok {
			return fmt.Errorf("%w: %v", ErrValidationError, validationErrors)
		}
		s.player.Click(ctx, player.ClickTarget(input.Target))
		return nil
	}
}

func (c *Controller) handleActivity(s *watchSession) wsrouter.HandlerFunc[EmptyInput] {
	return func(ctx context.Context, conn *websocket.Conn, input EmptyInput) error {
		s.player.Activity()
		return nil
	}
}

func (c *Controller) handlePointerLeave(s *watchSession) wsrouter.HandlerFunc[EmptyInput] {
	return func(ctx context.Context, conn *websocket.Conn, input EmptyInput) error {
		s.player.PointerLeave()
		return nil
	}
}

func (c *Controller) handleToggleSettings(s *watchSession) wsrouter.HandlerFunc[EmptyInput] {
	return func(ctx context.Context, conn *websocket.Conn, input EmptyInput) error {
		s.player.ToggleSettings()
		return nil
	}
}

type SetSettingsTabInput struct {
	Tab string `json:"tab" validate:"required,oneof=Speed Subtitles Settings"`
}

func (c *Controller) handleSetSettingsTab(s *watchSession) wsrouter.HandlerFunc[SetSettingsTabInput] {
	return func(ctx context.Context, conn *websocket.Conn, input SetSettingsTabInput) error {
		if validationErrors, ok := c.validate.Validate(input); !ok {
			return fmt.Errorf("%w: %v", ErrValidationError, validationErrors)
		}
		s.player.SetSettingsTab(domain.SettingsTab(input.Tab))
		return nil
	}
}

type SearchInputInput struct {
	Query string `json:"query"`
}

func (c *Controller) handleSearchInput(s *watchSession) wsrouter.HandlerFunc[SearchInputInput] {
	return func(ctx context.Context, conn *websocket.Conn, input SearchInputInput) error {
		s.coordinator.SetQuery(input.Query)
		return nil
	}
}

type LoadTitleInput struct {
	ContentID int    `json:"content_id" validate:"required"`
	MediaType string `json:"media_type" validate:"required,oneof=movie tv"`
}

type titleDetailsPayload struct {
	domain.TitleDetails
	Year        int    `json:"year"`
	PosterURL   string `json:"poster_url"`
	BackdropURL string `json:"backdrop_url"`
	LogoURL     string `json:"logo_url"`
}

func (c *Controller) handleLoadTitle(s *watchSession) wsrouter.HandlerFunc[LoadTitleInput] {
	return func(ctx context.Context, conn *websocket.Conn, input LoadTitleInput) error {
		if validationErrors, ok := c.validate.Validate(input); !ok {
			return fmt.Errorf("%w: %v", ErrValidationError, validationErrors)
		}

		var (
			details domain.TitleDetails
			err     error
		)
		switch domain.MediaType(input.MediaType) {
		case domain.MediaTypeMovie:
			details, err = c.detailClient.MovieDetails(ctx, input.ContentID)
		case domain.MediaTypeTV:
			details, err = c.detailClient.TVDetails(ctx, input.ContentID)
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			s.writer.write("ERROR", map[string]string{"message": genericDetailError})
			return fmt.Errorf("failed to fetch title details: %w", err)
		}

		s.setDetails(details)
		s.writer.write("TITLE_DETAILS", titleDetailsPayload{
			TitleDetails: details,
			Year:         details.Year(),
			PosterURL:    c.images.Poster(details.PosterPath),
			BackdropURL:  c.images.Backdrop(details.BackdropPath),
			LogoURL:      c.images.Logo(details.LogoPath),
		})

		return nil
	}
}

type SelectQualityInput struct {
	Index int `json:"index"`
}

func (c *Controller) handleSelectQuality(s *watchSession) wsrouter.HandlerFunc[SelectQualityInput] {
	return func(ctx context.Context, conn *websocket.Conn, input SelectQualityInput) error {
		if err := s.selectQuality(input.Index); err != nil {
			return fmt.Errorf("%w: %v", ErrValidationError, err)
		}
		return nil
	}
}

func (c *Controller) handleRequestPlayback(s *watchSession) wsrouter.HandlerFunc[EmptyInput] {
	return func(ctx context.Context, conn *websocket.Conn, input EmptyInput) error {
		streamReq, err := s.streamRequest()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidationError, err)
		}

		// playback must not start until a URL resolves
		streamURL, err := c.tokenProvider.StreamURL(ctx, streamReq)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			message := genericPlaybackError
			s.player.SetError(&message)
			s.writer.write("ERROR", map[string]string{"message": genericPlaybackError})
			return fmt.Errorf("failed to resolve stream url: %w", err)
		}

		s.player.SetSource(streamURL)

		return nil
	}
}

type OpenExternalInput struct {
	Method string `json:"method" validate:"required,oneof=clipboard strm protocol"`
}

func (c *Controller) handleOpenExternal(s *watchSession) wsrouter.HandlerFunc[OpenExternalInput] {
	return func(ctx context.Context, conn *websocket.Conn, input OpenExternalInput) error {
		if validationErrors, ok := c.validate.Validate(input); !ok {
			return fmt.Errorf("%w: %v", ErrValidationError, validationErrors)
		}

		streamReq, err := s.streamRequest()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidationError, err)
		}

		streamURL, err := c.tokenProvider.StreamURL(ctx, streamReq)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			s.writer.write("ERROR", map[string]string{"message": genericPlaybackError})
			return fmt.Errorf("failed to resolve stream url: %w", err)
		}

		// fire-and-forget: the export must never block the player
		go c.exporter.Open(export.Method(input.Method), streamURL)

		return nil
	}
}
