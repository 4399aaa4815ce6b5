package ui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depeter/lookbook/internal/config"
)

func focusSetting(t *testing.T, ss *SettingsScreen, label string) {
	t.Helper()
	for si, sec := range ss.sections {
		for ii, item := range sec.Items {
			if item.Label == label {
				ss.sectionIndex, ss.itemIndex = si, ii
				return
			}
		}
	}
	t.Fatalf("no setting %q", label)
}

func editSetting(t *testing.T, ss *SettingsScreen, label, value string) {
	t.Helper()
	focusSetting(t, ss, label)
	ss.activate(1)
	require.True(t, ss.Editing())
	ss.editInput.SetText(value)
	ss.commit()
}

func TestSettingsRackNumbers(t *testing.T) {
	cfg := config.DefaultConfig()
	saves := 0
	ss := NewSettingsScreen(cfg, nil, func() { saves++ })

	editSetting(t, ss, "Card gap", "30")
	assert.False(t, ss.Editing())
	assert.Equal(t, 30.0, cfg.Rack.CardGap)

	editSetting(t, ss, "Card width", "wide")
	assert.Equal(t, "invalid number: wide", ss.editError)
	assert.True(t, ss.Editing())

	ss.editInput.SetText("-5")
	ss.commit()
	assert.NotEmpty(t, ss.editError)
	assert.Equal(t, 264.0, cfg.Rack.CardWidth, "invalid geometry is rolled back")

	ss.OnExit()
	ss.OnExit()
	assert.Equal(t, 1, saves)
}

func TestSettingsNoSaveWithoutChanges(t *testing.T) {
	saves := 0
	ss := NewSettingsScreen(config.DefaultConfig(), nil, func() { saves++ })
	ss.OnExit()
	assert.Zero(t, saves)
}

func TestSettingsKeys(t *testing.T) {
	cfg := config.DefaultConfig()
	valid := func(name string) bool { return name == "J" }
	ss := NewSettingsScreen(cfg, valid, nil)

	editSetting(t, ss, "Previous", "hyper")
	assert.Equal(t, "unknown key: hyper", ss.editError)
	assert.Equal(t, "Left", cfg.Keybinds.Previous)

	ss.editInput.SetText("J")
	ss.commit()
	assert.Equal(t, "J", cfg.Keybinds.Previous)

	editSetting(t, ss, "Next", "")
	assert.Empty(t, cfg.Keybinds.Next, "blank restores the default binding")
}

func TestSettingsOptionsAndActions(t *testing.T) {
	cfg := config.DefaultConfig()
	ss := NewSettingsScreen(cfg, nil, nil)

	focusSetting(t, ss, "Auto name")
	ss.activate(1)
	assert.False(t, cfg.Supabase.AutoSuggest)
	ss.activate(-1)
	assert.True(t, cfg.Supabase.AutoSuggest)
	assert.False(t, ss.Editing())

	cleared := 0
	ss.OnClearCache = func() error { cleared++; return nil }
	focusSetting(t, ss, "Image cache")
	ss.activate(1)
	assert.Equal(t, 1, cleared)
	assert.Equal(t, "Image cache cleared", ss.status)

	ss.OnClearCache = func() error { return errors.New("read-only cache dir") }
	ss.activate(1)
	assert.Equal(t, "read-only cache dir", ss.status)

	editSetting(t, ss, "Bucket", "")
	assert.Equal(t, "bucket name is required", ss.editError)
	assert.Equal(t, "item-images", cfg.Supabase.ImageBucket)
}

func TestSettingsMoveClamps(t *testing.T) {
	ss := NewSettingsScreen(config.DefaultConfig(), nil, nil)
	ss.move(-1)
	assert.Equal(t, 0, ss.sectionIndex)
	assert.Equal(t, 0, ss.itemIndex)

	for i := 0; i < 4; i++ {
		ss.move(1)
	}
	assert.Equal(t, "Auto name", ss.focusedItem().Label, "crosses into the next section")

	for i := 0; i < 50; i++ {
		ss.move(1)
	}
	assert.Equal(t, "Fullscreen", ss.focusedItem().Label)
}
