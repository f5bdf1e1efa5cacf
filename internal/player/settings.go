package player

import (
	"sync"

	"github.com/moovidex/engine/internal/domain"
)

// ClickTarget identifies what a click inside the player area landed on, so
// overlay clicks can be disambiguated from video-surface clicks.
type ClickTarget string

const (
	ClickVideo   ClickTarget = "video"
	ClickOverlay ClickTarget = "overlay"
	ClickTrigger ClickTarget = "trigger"
	ClickOutside ClickTarget = "outside"
)

// Overlay is the settings menu state: whether it is open and which tab is
// active. Opening always lands on the Settings tab.
type Overlay struct {
	mu   sync.Mutex
	open bool
	tab  domain.SettingsTab
}

func NewOverlay() *Overlay {
	return &Overlay{tab: domain.TabSettings}
}

func (o *Overlay) IsOpen() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.open
}

func (o *Overlay) ActiveTab() domain.SettingsTab {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.tab
}

// Toggle opens or closes the overlay. Opening resets the active tab to
// Settings regardless of which tab was last open.
func (o *Overlay) Toggle() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.open = !o.open
	if o.open {
		o.tab = domain.TabSettings
	}

	return o.open
}

func (o *Overlay) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.open = false
}

func (o *Overlay) SetTab(tab domain.SettingsTab) bool {
	if !tab.IsValid() {
		return false
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.open {
		return false
	}
	o.tab = tab

	return true
}
