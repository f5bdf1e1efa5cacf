package domain

// PlaybackRates is the fixed set of selectable playback speeds.
var PlaybackRates = []float64{0.5, 0.75, 1, 1.25, 1.5, 2}

func IsValidPlaybackRate(rate float64) bool {
	for _, r := range PlaybackRates {
		if r == rate {
			return true
		}
	}
	return false
}
