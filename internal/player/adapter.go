package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/moovidex/engine/internal/repository/session"
)

// SessionRepository persists the playback resume marker for the lifetime of
// a viewing session.
type SessionRepository interface {
	GetResumePosition(ctx context.Context, sessionID string) (float64, error)
	SetResumePosition(ctx context.Context, sessionID string, seconds float64) error
}

// Adapter wraps the media element. It is the only component that touches
// the element's mutable fields; everything above it speaks in commands and
// events.
type Adapter struct {
	element   MediaElement
	sessions  SessionRepository
	sessionID string
	logger    *slog.Logger
}

func NewAdapter(element MediaElement, sessions SessionRepository, sessionID string, logger *slog.Logger) *Adapter {
	return &Adapter{
		element:   element,
		sessions:  sessions,
		sessionID: sessionID,
		logger:    logger,
	}
}

// Attach restores a previously saved playback offset, if any.
func (a *Adapter) Attach(ctx context.Context) error {
	seconds, err := a.sessions.GetResumePosition(ctx, a.sessionID)
	if err != nil {
		if errors.Is(err, session.ErrResumePositionNotFound) {
			return nil
		}
		return fmt.Errorf("failed to restore resume position: %w", err)
	}

	if seconds > 0 {
		a.element.SetCurrentTime(seconds)
	}

	return nil
}

// Detach persists the current offset back to session storage, the
// before-navigate counterpart of Attach.
func (a *Adapter) Detach(ctx context.Context) error {
	seconds := a.element.CurrentTime()
	if seconds <= 0 {
		return nil
	}

	if err := a.sessions.SetResumePosition(ctx, a.sessionID, seconds); err != nil {
		return fmt.Errorf("failed to persist resume position: %w", err)
	}

	return nil
}

func (a *Adapter) Events() <-chan Event {
	return a.element.Events()
}

func (a *Adapter) Play(ctx context.Context) error {
	return a.element.Play(ctx)
}

func (a *Adapter) Pause() {
	a.element.Pause()
}

func (a *Adapter) SetSource(url string) {
	a.element.SetSource(url)
}

func (a *Adapter) SetCurrentTime(seconds float64) {
	a.element.SetCurrentTime(seconds)
}

// ApplyVolume sets the resource volume and keeps the muted flag in lockstep
// with a zero level.
func (a *Adapter) ApplyVolume(volume float64) {
	a.element.SetVolume(volume)
	a.element.SetMuted(volume == 0)
}

// ForceAudible unmutes the resource and reapplies the given volume. Some
// resources come up muted by default, which would silently desynchronize
// audible volume from displayed volume.
func (a *Adapter) ForceAudible(volume float64) {
	a.element.SetMuted(false)
	a.element.SetVolume(volume)
}

func (a *Adapter) SetPlaybackRate(rate float64) {
	a.element.SetPlaybackRate(rate)
}

func (a *Adapter) RequestFullscreen() error {
	return a.element.RequestFullscreen()
}

func (a *Adapter) ExitFullscreen() {
	a.element.ExitFullscreen()
}

func (a *Adapter) IsFullscreen() bool {
	return a.element.IsFullscreen()
}

func (a *Adapter) CurrentTime() float64 {
	return a.element.CurrentTime()
}

func (a *Adapter) ReadyState() ReadyState {
	return a.element.ReadyState()
}
