package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Supabase SupabaseConfig `toml:"supabase"`
	Session  SessionConfig  `toml:"session"`
	UI       UIConfig       `toml:"ui"`
	Rack     RackConfig     `toml:"rack"`
	Keybinds KeybindConfig  `toml:"keybinds"`
}

type SupabaseConfig struct {
	URL         string `toml:"url"`
	AnonKey     string `toml:"anon_key"`
	ImageBucket string `toml:"image_bucket"`
	SuggestURL  string `toml:"suggest_url"` // empty uses the project's groq-suggest function
	AutoSuggest bool   `toml:"auto_suggest"`
}

type SessionConfig struct {
	Email        string `toml:"email"`
	AccessToken  string `toml:"access_token"`
	RefreshToken string `toml:"refresh_token"`
	UserID       string `toml:"user_id"`
}

type UIConfig struct {
	Fullscreen bool `toml:"fullscreen"`
	Width      int  `toml:"width"`
	Height     int  `toml:"height"`
}

type RackConfig struct {
	CardWidth      float64 `toml:"card_width"`
	CardGap        float64 `toml:"card_gap"`
	TapSlop        float64 `toml:"tap_slop"`
	WheelThreshold float64 `toml:"wheel_threshold"`
}

// Stride is the distance between consecutive card centers.
func (r RackConfig) Stride() float64 {
	return r.CardWidth + r.CardGap
}

type KeybindConfig struct {
	Previous   string `toml:"previous"`
	Next       string `toml:"next"`
	Open       string `toml:"open"`
	Add        string `toml:"add"`
	Archive    string `toml:"archive"`
	Fullscreen string `toml:"fullscreen"`
}

func DefaultConfig() *Config {
	return &Config{
		Supabase: SupabaseConfig{
			ImageBucket: "item-images",
			AutoSuggest: true,
		},
		UI: UIConfig{
			Fullscreen: false,
			Width:      430,
			Height:     860,
		},
		Rack: RackConfig{
			CardWidth:      264,
			CardGap:        24,
			TapSlop:        8,
			WheelThreshold: 80,
		},
		Keybinds: KeybindConfig{
			Previous:   "Left",
			Next:       "Right",
			Open:       "Enter",
			Add:        "A",
			Archive:    "H",
			Fullscreen: "F",
		},
	}
}

// Validate reports configuration the rack cannot run with.
func (c *Config) Validate() error {
	if c.Rack.CardWidth <= 0 || c.Rack.CardGap < 0 {
		return fmt.Errorf("rack: card_width must be positive and card_gap non-negative (got %v, %v)",
			c.Rack.CardWidth, c.Rack.CardGap)
	}
	if c.UI.Width <= 0 || c.UI.Height <= 0 {
		return fmt.Errorf("ui: invalid window size %dx%d", c.UI.Width, c.UI.Height)
	}
	return nil
}

// SignedIn reports whether a session token is stored.
func (c *Config) SignedIn() bool {
	return c.Session.AccessToken != "" && c.Session.UserID != ""
}

// ClearSession forgets the stored session, keeping the email for the login form.
func (c *Config) ClearSession() {
	email := c.Session.Email
	c.Session = SessionConfig{Email: email}
}

func ConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "lookbook"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads path over the defaults. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	// session tokens live here
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
