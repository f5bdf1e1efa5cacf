package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moovidex/engine/internal/repository/session"
)

func TestResumePositionRoundTrip(t *testing.T) {
	r := NewRepo()
	ctx := context.Background()

	_, err := r.GetResumePosition(ctx, "session-1")
	assert.ErrorIs(t, err, session.ErrResumePositionNotFound)

	require.NoError(t, r.SetResumePosition(ctx, "session-1", 99.5))

	seconds, err := r.GetResumePosition(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, 99.5, seconds)

	require.NoError(t, r.RemoveResumePosition(ctx, "session-1"))
	_, err = r.GetResumePosition(ctx, "session-1")
	assert.ErrorIs(t, err, session.ErrResumePositionNotFound)
}
