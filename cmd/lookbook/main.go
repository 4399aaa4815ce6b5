package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/depeter/lookbook/assets/icon"
	"github.com/depeter/lookbook/internal/app"
	"github.com/depeter/lookbook/internal/cache"
	"github.com/depeter/lookbook/internal/config"
	"github.com/depeter/lookbook/internal/supabase"
	"github.com/depeter/lookbook/internal/ui"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Init fonts
	if err := ui.InitFonts(nil); err != nil {
		log.Fatalf("Failed to init fonts: %v", err)
	}

	keys, err := app.KeyBindings(cfg.Keybinds)
	if err != nil {
		log.Fatalf("Invalid keybinds: %v", err)
	}

	// Init image cache
	cacheDir := filepath.Join(os.TempDir(), "lookbook", "images")
	if configDir, err := config.ConfigDir(); err == nil {
		cacheDir = filepath.Join(configDir, "cache", "images")
	}
	imgCache, err := cache.NewImageCache(cacheDir)
	if err != nil {
		log.Fatalf("Failed to init image cache: %v", err)
	}

	game := app.NewGame(cfg, nil, imgCache)
	sf := &screenFactory{game: game, cfg: cfg, imgCache: imgCache, keys: keys}

	// Restore the stored session, if any
	if cfg.Supabase.URL != "" && cfg.Supabase.AnonKey != "" {
		sf.connect(cfg.Supabase.URL, cfg.Supabase.AnonKey)
		if cfg.SignedIn() {
			game.Client.SetSession(supabase.Session{
				AccessToken:  cfg.Session.AccessToken,
				RefreshToken: cfg.Session.RefreshToken,
				UserID:       cfg.Session.UserID,
				Email:        cfg.Session.Email,
			})
		}
	}

	// Determine initial screen; an expired token is refreshed on first use
	if game.Client == nil || !cfg.SignedIn() {
		sf.pushLogin()
	} else {
		sf.pushRack()
	}

	// Configure window
	ebiten.SetWindowSize(cfg.UI.Width, cfg.UI.Height)
	ebiten.SetWindowTitle("lookbook")
	ebiten.SetWindowIcon(icon.Generate())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.UI.Fullscreen)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
