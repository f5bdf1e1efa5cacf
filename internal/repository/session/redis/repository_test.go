package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moovidex/engine/internal/repository/session"
)

func newTestRepo(t *testing.T) (*repo, *miniredis.Miniredis) {
	t.Helper()

	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})

	return NewRepo(rc, time.Hour), s
}

func TestResumePositionRoundTrip(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := r.GetResumePosition(ctx, "session-1")
	assert.ErrorIs(t, err, session.ErrResumePositionNotFound)

	require.NoError(t, r.SetResumePosition(ctx, "session-1", 1543.25))

	seconds, err := r.GetResumePosition(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, 1543.25, seconds)

	require.NoError(t, r.RemoveResumePosition(ctx, "session-1"))
	_, err = r.GetResumePosition(ctx, "session-1")
	assert.ErrorIs(t, err, session.ErrResumePositionNotFound)
}

func TestResumePositionIsolatedPerSession(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SetResumePosition(ctx, "session-1", 10))
	require.NoError(t, r.SetResumePosition(ctx, "session-2", 20))

	seconds, err := r.GetResumePosition(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, seconds)
}

func TestResumePositionExpires(t *testing.T) {
	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	r := NewRepo(rc, time.Minute)
	ctx := context.Background()

	require.NoError(t, r.SetResumePosition(ctx, "session-1", 10))

	s.FastForward(2 * time.Minute)
	_, err := r.GetResumePosition(ctx, "session-1")
	assert.ErrorIs(t, err, session.ErrResumePositionNotFound, "the marker must not outlive the session ttl")
}

func TestResumePositionReadRefreshesTTL(t *testing.T) {
	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	r := NewRepo(rc, time.Minute)
	ctx := context.Background()

	require.NoError(t, r.SetResumePosition(ctx, "session-1", 10))

	s.FastForward(40 * time.Second)
	_, err := r.GetResumePosition(ctx, "session-1")
	require.NoError(t, err)

	// the read reset the countdown, so the original deadline has no effect
	s.FastForward(40 * time.Second)
	_, err = r.GetResumePosition(ctx, "session-1")
	assert.NoError(t, err)
}
