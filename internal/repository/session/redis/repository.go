package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moovidex/engine/internal/repository/session"
)

type repo struct {
	rc             *redis.Client
	expireDuration time.Duration
}

func NewRepo(rc *redis.Client, expireDuration time.Duration) *repo {
	return &repo{
		rc:             rc,
		expireDuration: expireDuration,
	}
}

func (r repo) getResumeKey(sessionID string) string {
	return "session:" + sessionID + ":" + session.ResumeKey
}

func (r repo) SetResumePosition(ctx context.Context, sessionID string, seconds float64) error {
	key := r.getResumeKey(sessionID)
	value := strconv.FormatFloat(seconds, 'f', -1, 64)
	if err := r.rc.Set(ctx, key, value, r.expireDuration).Err(); err != nil {
		return fmt.Errorf("failed to set resume position: %w", err)
	}

	return nil
}

func (r repo) GetResumePosition(ctx context.Context, sessionID string) (float64, error) {
	key := r.getResumeKey(sessionID)
	value, err := r.rc.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, session.ErrResumePositionNotFound
		}
		return 0, fmt.Errorf("failed to get resume position: %w", err)
	}

	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse resume position: %w", err)
	}

	r.rc.Expire(ctx, key, r.expireDuration)

	return seconds, nil
}

func (r repo) RemoveResumePosition(ctx context.Context, sessionID string) error {
	key := r.getResumeKey(sessionID)
	if err := r.rc.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to remove resume position: %w", err)
	}

	return nil
}
