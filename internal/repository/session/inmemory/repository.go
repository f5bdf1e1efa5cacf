package inmemory

import (
	"context"
	"sync"

	"github.com/moovidex/engine/internal/repository/session"
)

type repo struct {
	mu        sync.RWMutex
	positions map[string]float64
}

func NewRepo() *repo {
	return &repo{
		positions: make(map[string]float64),
	}
}

func (r *repo) SetResumePosition(_ context.Context, sessionID string, seconds float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.positions[sessionID] = seconds

	return nil
}

func (r *repo) GetResumePosition(_ context.Context, sessionID string) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seconds, ok := r.positions[sessionID]
	if !ok {
		return 0, session.ErrResumePositionNotFound
	}

	return seconds, nil
}

func (r *repo) RemoveResumePosition(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.positions, sessionID)

	return nil
}
