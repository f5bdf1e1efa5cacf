package domain

// Snapshot is the single consistent record of all observed and derived
// player state. It has exactly one writer, the player store; every other
// component receives copies.
type Snapshot struct {
	IsPlaying      bool            `json:"is_playing"`
	Progress       float64         `json:"progress"`
	CurrentTime    float64         `json:"current_time"`
	Duration       float64         `json:"duration"`
	Volume         float64         `json:"volume"`
	LastVolume     float64         `json:"last_volume"`
	PlaybackRate   float64         `json:"playback_rate"`
	IsFullscreen   bool            `json:"is_fullscreen"`
	ShowControls   bool            `json:"show_controls"`
	IsLoading      bool            `json:"is_loading"`
	BufferProgress float64         `json:"buffer_progress"`
	AspectRatio    AspectRatioMode `json:"aspect_ratio"`
	Error          *string         `json:"error"`
}

// NewSnapshot returns the state a freshly mounted player starts from:
// autoplay intent, full volume, normal speed, controls shown, loading.
func NewSnapshot() Snapshot {
	return Snapshot{
		IsPlaying:    true,
		Volume:       1,
		LastVolume:   1,
		PlaybackRate: 1,
		ShowControls: true,
		IsLoading:    true,
		AspectRatio:  AspectBestFit,
	}
}
