package player

import (
	"sync"
	"time"
)

// IdleTimer derives controls visibility from recent activity. Any touch
// forces the controls visible and restarts a single countdown; expiry hides
// them. At most one countdown is live at a time: every reset advances a
// generation, and an expiry whose generation is no longer current is a
// leftover of a superseded countdown and must not hide anything.
type IdleTimer struct {
	mu          sync.Mutex
	delay       time.Duration
	timer       *time.Timer
	generation  uint64
	onChange    func(visible bool)
	overlayOpen func() bool
	stopped     bool
}

// NewIdleTimer creates a timer that reports visibility changes through
// onChange. overlayOpen guards pointer-leave: overlay interaction must not
// be interrupted by hiding the controls.
func NewIdleTimer(delay time.Duration, overlayOpen func() bool, onChange func(visible bool)) *IdleTimer {
	return &IdleTimer{
		delay:       delay,
		onChange:    onChange,
		overlayOpen: overlayOpen,
	}
}

// Touch registers pointer or keyboard activity: controls become visible and
// the countdown restarts. A countdown that already fired but has not run
// yet is invalidated by the generation bump; Stop alone cannot catch it.
func (t *IdleTimer) Touch() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}

	if t.timer != nil {
		t.timer.Stop()
	}
	t.generation++
	generation := t.generation
	t.timer = time.AfterFunc(t.delay, func() {
		t.expire(generation)
	})
	t.mu.Unlock()

	t.onChange(true)
}

func (t *IdleTimer) expire(generation uint64) {
	t.mu.Lock()
	if t.stopped || generation != t.generation {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	t.onChange(false)
}

// PointerLeave hides the controls immediately, unless the settings overlay
// is open.
func (t *IdleTimer) PointerLeave() {
	t.mu.Lock()
	if t.stopped || (t.overlayOpen != nil && t.overlayOpen()) {
		t.mu.Unlock()
		return
	}

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.generation++
	t.mu.Unlock()

	t.onChange(false)
}

// Stop releases the pending countdown. The timer is unusable afterwards.
func (t *IdleTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
	t.generation++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
