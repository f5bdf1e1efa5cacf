package player

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moovidex/engine/internal/domain"
)

func TestOverlayOpensOnSettingsTab(t *testing.T) {
	overlay := NewOverlay()

	assert.False(t, overlay.IsOpen())
	assert.True(t, overlay.Toggle())
	assert.Equal(t, domain.TabSettings, overlay.ActiveTab())

	assert.True(t, overlay.SetTab(domain.TabSpeed))
	assert.Equal(t, domain.TabSpeed, overlay.ActiveTab())

	// reopening lands back on Settings, not on the last active tab
	assert.False(t, overlay.Toggle())
	assert.True(t, overlay.Toggle())
	assert.Equal(t, domain.TabSettings, overlay.ActiveTab())
}

func TestOverlayTabChangesOnlyWhileOpen(t *testing.T) {
	overlay := NewOverlay()

	assert.False(t, overlay.SetTab(domain.TabSubtitles), "tab change must be rejected while closed")
	assert.Equal(t, domain.TabSettings, overlay.ActiveTab())

	overlay.Toggle()
	assert.False(t, overlay.SetTab("Downloads"), "unknown tab must be rejected")
	assert.True(t, overlay.SetTab(domain.TabSubtitles))
}
