package player

import (
	"math"
	"sync"

	"github.com/moovidex/engine/internal/domain"
)

// Store owns the playback snapshot. Every mutation goes through a named
// transition; each transition computes from the snapshot as it is at apply
// time, under the store lock, so updates landing in the same tick can never
// overwrite each other with stale reads.
type Store struct {
	mu       sync.Mutex
	snap     domain.Snapshot
	onChange func(domain.Snapshot)
}

func NewStore() *Store {
	return &Store{snap: domain.NewSnapshot()}
}

// OnChange registers the render sink notified after every transition.
func (s *Store) OnChange(fn func(domain.Snapshot)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Store) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *Store) update(mutate func(*domain.Snapshot)) domain.Snapshot {
	s.mu.Lock()
	mutate(&s.snap)
	snap := s.snap
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange(snap)
	}

	return snap
}

// TogglePlay flips the play intent. The intent may transiently disagree
// with the resource while a play() request settles; the next native
// playing/pause event corrects it.
func (s *Store) TogglePlay() domain.Snapshot {
	return s.update(func(snap *domain.Snapshot) {
		snap.IsPlaying = !snap.IsPlaying
	})
}

func (s *Store) SetPlaying(playing bool) domain.Snapshot {
	return s.update(func(snap *domain.Snapshot) {
		snap.IsPlaying = playing
	})
}

// Seek moves the position by delta seconds, clamped to [0, duration].
// CurrentTime and Progress are written together.
func (s *Store) Seek(delta float64) (float64, domain.Snapshot) {
	var newTime float64
	snap := s.update(func(snap *domain.Snapshot) {
		newTime = clamp(snap.CurrentTime+delta, 0, snap.Duration)
		snap.CurrentTime = newTime
		if hasFiniteDuration(snap.Duration) {
			snap.Progress = newTime / snap.Duration * 100
		}
	})

	return newTime, snap
}

// ScrubTo jumps to the given progress percentage. Valid only while the
// duration is finite and positive; otherwise the snapshot is untouched and
// ok is false.
func (s *Store) ScrubTo(progress float64) (float64, bool) {
	var (
		newTime float64
		ok      bool
	)
	s.update(func(snap *domain.Snapshot) {
		if !hasFiniteDuration(snap.Duration) {
			return
		}
		progress = clamp(progress, 0, 100)
		newTime = progress / 100 * snap.Duration
		snap.CurrentTime = newTime
		snap.Progress = progress
		ok = true
	})

	return newTime, ok
}

// SetVolume clamps to [0,1]. LastVolume follows only user-set audible
// levels so that unmute can restore the pre-mute volume.
func (s *Store) SetVolume(volume float64) float64 {
	volume = clamp(volume, 0, 1)
	s.update(func(snap *domain.Snapshot) {
		snap.Volume = volume
		if volume > 0 {
			snap.LastVolume = volume
		}
	})

	return volume
}

// ToggleMute zeroes the volume, remembering it, or restores the remembered
// level. A remembered level of 0 restores to full volume instead.
func (s *Store) ToggleMute() float64 {
	var newVolume float64
	s.update(func(snap *domain.Snapshot) {
		if snap.Volume > 0 {
			snap.LastVolume = snap.Volume
			snap.Volume = 0
			newVolume = 0
			return
		}

		newVolume = snap.LastVolume
		if newVolume == 0 {
			newVolume = 1
		}
		snap.Volume = newVolume
	})

	return newVolume
}

// SetPlaybackRate applies a rate from the fixed speed set. Rates outside
// the set are rejected.
func (s *Store) SetPlaybackRate(rate float64) bool {
	if !domain.IsValidPlaybackRate(rate) {
		return false
	}

	s.update(func(snap *domain.Snapshot) {
		snap.PlaybackRate = rate
	})

	return true
}

func (s *Store) SetAspectRatio(mode domain.AspectRatioMode) bool {
	if !mode.IsValid() {
		return false
	}

	s.update(func(snap *domain.Snapshot) {
		snap.AspectRatio = mode
	})

	return true
}

// SetFullscreen records the environment-observed fullscreen state. The
// environment is the source of truth here, not user intent.
func (s *Store) SetFullscreen(fullscreen bool) domain.Snapshot {
	return s.update(func(snap *domain.Snapshot) {
		snap.IsFullscreen = fullscreen
	})
}

func (s *Store) SetControlsVisible(visible bool) domain.Snapshot {
	return s.update(func(snap *domain.Snapshot) {
		snap.ShowControls = visible
	})
}

func (s *Store) SetLoading(loading bool) domain.Snapshot {
	return s.update(func(snap *domain.Snapshot) {
		snap.IsLoading = loading
	})
}

func (s *Store) SetError(message *string) domain.Snapshot {
	return s.update(func(snap *domain.Snapshot) {
		snap.Error = message
	})
}

// ApplyTimeProgress handles a native time-progress event. Progress is only
// recomputed while the duration is finite; otherwise both fields hold their
// last valid values.
func (s *Store) ApplyTimeProgress(currentTime, duration float64) domain.Snapshot {
	return s.update(func(snap *domain.Snapshot) {
		if !hasFiniteDuration(duration) {
			return
		}
		snap.CurrentTime = currentTime
		snap.Progress = currentTime / duration * 100
	})
}

// ApplyMetadata handles metadata arrival: the resource's own duration,
// volume and playback rate become the observed truth.
func (s *Store) ApplyMetadata(duration, volume, playbackRate float64) domain.Snapshot {
	return s.update(func(snap *domain.Snapshot) {
		snap.Duration = duration
		snap.Volume = volume
		snap.PlaybackRate = playbackRate
	})
}

// ApplyBufferProgress derives the buffer bar from the furthest contiguous
// buffered range end.
func (s *Store) ApplyBufferProgress(bufferedEnd, duration float64) domain.Snapshot {
	return s.update(func(snap *domain.Snapshot) {
		if !hasFiniteDuration(duration) {
			return
		}
		snap.BufferProgress = clamp(bufferedEnd/duration*100, 0, 100)
	})
}

func hasFiniteDuration(duration float64) bool {
	return duration > 0 && !math.IsInf(duration, 0) && !math.IsNaN(duration)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
