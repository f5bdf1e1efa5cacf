package player

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type visibilityLog struct {
	mu      sync.Mutex
	changes []bool
}

func (l *visibilityLog) record(visible bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changes = append(l.changes, visible)
}

func (l *visibilityLog) last() (bool, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.changes) == 0 {
		return false, false
	}
	return l.changes[len(l.changes)-1], true
}

func waitForHidden(t *testing.T, log *visibilityLog) {
	t.Helper()
	require.Eventually(t, func() bool {
		visible, ok := log.last()
		return ok && !visible
	}, time.Second, 5*time.Millisecond, "controls never hid")
}

func TestIdleTimerHidesAfterDelay(t *testing.T) {
	log := &visibilityLog{}
	timer := NewIdleTimer(20*time.Millisecond, func() bool { return false }, log.record)
	defer timer.Stop()

	timer.Touch()
	visible, ok := log.last()
	require.True(t, ok)
	assert.True(t, visible, "touch must show the controls immediately")

	waitForHidden(t, log)
}

func TestIdleTimerTouchRestartsCountdown(t *testing.T) {
	log := &visibilityLog{}
	timer := NewIdleTimer(50*time.Millisecond, func() bool { return false }, log.record)
	defer timer.Stop()

	timer.Touch()
	time.Sleep(30 * time.Millisecond)
	timer.Touch()
	time.Sleep(30 * time.Millisecond)

	// first countdown would have expired by now; the reset must have
	// swallowed it
	visible, ok := log.last()
	require.True(t, ok)
	assert.True(t, visible, "controls must still be visible after a reset")

	waitForHidden(t, log)
}

func TestIdleTimerResetAtExpiryBoundary(t *testing.T) {
	log := &visibilityLog{}
	delay := 20 * time.Millisecond
	timer := NewIdleTimer(delay, func() bool { return false }, log.record)
	defer timer.Stop()

	// land the reset right on the expiry boundary repeatedly: the old
	// countdown may already have fired when Touch stops it, and its leftover
	// callback must not hide the controls through the fresh reset
	for i := 0; i < 20; i++ {
		timer.Touch()
		time.Sleep(delay)
		timer.Touch()
		time.Sleep(200 * time.Microsecond)

		visible, ok := log.last()
		require.True(t, ok)
		assert.True(t, visible, "iteration %d: a stale countdown hid the controls right after a reset", i)
	}
}

func TestIdleTimerPointerLeaveHidesImmediately(t *testing.T) {
	log := &visibilityLog{}
	timer := NewIdleTimer(time.Hour, func() bool { return false }, log.record)
	defer timer.Stop()

	timer.Touch()
	timer.PointerLeave()

	visible, ok := log.last()
	require.True(t, ok)
	assert.False(t, visible, "pointer leave must hide the controls without waiting")
}

func TestIdleTimerPointerLeaveGuardedByOverlay(t *testing.T) {
	log := &visibilityLog{}
	timer := NewIdleTimer(time.Hour, func() bool { return true }, log.record)
	defer timer.Stop()

	timer.Touch()
	timer.PointerLeave()

	visible, ok := log.last()
	require.True(t, ok)
	assert.True(t, visible, "pointer leave must be ignored while the overlay is open")
}

func TestIdleTimerStopSilencesExpiry(t *testing.T) {
	log := &visibilityLog{}
	timer := NewIdleTimer(50*time.Millisecond, func() bool { return false }, log.record)

	timer.Touch()
	timer.Stop()
	time.Sleep(100 * time.Millisecond)

	visible, ok := log.last()
	require.True(t, ok)
	assert.True(t, visible, "a stopped timer must not report changes")

	timer.Touch()
	visible, _ = log.last()
	assert.True(t, visible, "touch after stop must be a no-op, leaving the last change untouched")
}
