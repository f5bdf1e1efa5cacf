package player

import "context"

// ReadyState mirrors the native media element readiness levels.
type ReadyState int

const (
	HaveNothing ReadyState = iota
	HaveMetadata
	HaveCurrentData
	HaveFutureData
	HaveEnoughData
)

// CanPlayWithoutStalling reports whether the resource buffered enough to
// keep playing without an immediate stall.
func (s ReadyState) CanPlayWithoutStalling() bool {
	return s >= HaveFutureData
}

type EventType string

const (
	EventTimeUpdate       EventType = "timeupdate"
	EventLoadedMetadata   EventType = "loadedmetadata"
	EventProgress         EventType = "progress"
	EventWaiting          EventType = "waiting"
	EventPlaying          EventType = "playing"
	EventCanPlay          EventType = "canplay"
	EventCanPlayThrough   EventType = "canplaythrough"
	EventStalled          EventType = "stalled"
	EventSeeking          EventType = "seeking"
	EventSeeked           EventType = "seeked"
	EventPause            EventType = "pause"
	EventFullscreenChange EventType = "fullscreenchange"
)

// Event is one notification from the media resource. Readable fields are
// sampled at delivery time so transitions never read a moving target.
type Event struct {
	Type         EventType  `json:"type"`
	CurrentTime  float64    `json:"current_time"`
	Duration     float64    `json:"duration"`
	BufferedEnd  float64    `json:"buffered_end"`
	ReadyState   ReadyState `json:"ready_state"`
	Volume       float64    `json:"volume"`
	PlaybackRate float64    `json:"playback_rate"`
	IsFullscreen bool       `json:"is_fullscreen"`
}

// MediaElement is the boundary to the environment-provided playable
// resource. The adapter is the only component allowed to call its mutating
// methods.
type MediaElement interface {
	// Play starts playback. Settlement is asynchronous on real elements,
	// so a rejection is recoverable noise rather than a fault.
	Play(ctx context.Context) error
	Pause()

	SetSource(url string)
	SetCurrentTime(seconds float64)
	SetVolume(volume float64)
	SetMuted(muted bool)
	SetPlaybackRate(rate float64)

	CurrentTime() float64
	Duration() float64
	ReadyState() ReadyState
	BufferedEnd() float64

	RequestFullscreen() error
	ExitFullscreen()
	IsFullscreen() bool

	// Events delivers the native event stream in environment order. The
	// channel closes when the element is torn down.
	Events() <-chan Event
}
