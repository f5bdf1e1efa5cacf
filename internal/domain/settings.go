package domain

// SettingsTab is one tab of the player settings overlay.
type SettingsTab string

const (
	TabSpeed     SettingsTab = "Speed"
	TabSubtitles SettingsTab = "Subtitles"
	TabSettings  SettingsTab = "Settings"
)

var SettingsTabs = []SettingsTab{TabSpeed, TabSubtitles, TabSettings}

func (t SettingsTab) IsValid() bool {
	for _, tab := range SettingsTabs {
		if t == tab {
			return true
		}
	}
	return false
}
