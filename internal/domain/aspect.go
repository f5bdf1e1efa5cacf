package domain

// AspectRatioMode selects how the video surface is laid out. Pure UI
// state, it never touches the media resource.
type AspectRatioMode string

const (
	AspectBestFit   AspectRatioMode = "bestFit"
	AspectFitScreen AspectRatioMode = "fitScreen"
	AspectFill      AspectRatioMode = "fill"
	AspectRatio16x9 AspectRatioMode = "ratio16_9"
	AspectRatio4x3  AspectRatioMode = "ratio4_3"
)

var AspectRatioModes = []AspectRatioMode{
	AspectBestFit,
	AspectFitScreen,
	AspectFill,
	AspectRatio16x9,
	AspectRatio4x3,
}

func (m AspectRatioMode) IsValid() bool {
	for _, mode := range AspectRatioModes {
		if m == mode {
			return true
		}
	}
	return false
}

func (m AspectRatioMode) Label() string {
	switch m {
	case AspectBestFit:
		return "Best Fit"
	case AspectFitScreen:
		return "Fit Screen"
	case AspectFill:
		return "Fill"
	case AspectRatio16x9:
		return "16:9"
	case AspectRatio4x3:
		return "4:3"
	default:
		return "Aspect Ratio"
	}
}
