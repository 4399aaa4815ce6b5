package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_MissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 288.0, cfg.Rack.Stride())
}

func TestLoadFile_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[supabase]
url = "https://abc.supabase.co"
anon_key = "anon"

[rack]
card_width = 300
card_gap = 20
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://abc.supabase.co", cfg.Supabase.URL)
	assert.Equal(t, "item-images", cfg.Supabase.ImageBucket, "unset keys keep defaults")
	assert.Equal(t, 320.0, cfg.Rack.Stride())
	assert.Equal(t, 80.0, cfg.Rack.WheelThreshold)
}

func TestLoadFile_RejectsBadRack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[rack]\ncard_width = 0\n"), 0o644))

	_, err := LoadFile(path)
	assert.ErrorContains(t, err, "card_width")
}

func TestSaveFile_RoundTripsSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := DefaultConfig()
	cfg.Session = SessionConfig{Email: "v@example.com", AccessToken: "tok", UserID: "u1"}
	require.NoError(t, cfg.SaveFile(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, loaded.SignedIn())

	loaded.ClearSession()
	assert.False(t, loaded.SignedIn())
	assert.Equal(t, "v@example.com", loaded.Session.Email)
}
