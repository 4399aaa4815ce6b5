package main

import (
	"log"

	"github.com/depeter/lookbook/internal/app"
	"github.com/depeter/lookbook/internal/cache"
	"github.com/depeter/lookbook/internal/config"
	"github.com/depeter/lookbook/internal/supabase"
	"github.com/depeter/lookbook/internal/ui"
)

// screenFactory captures the shared dependencies for creating and wiring screens.
type screenFactory struct {
	game     *app.Game
	cfg      *config.Config
	imgCache *cache.ImageCache
	keys     ui.KeyBindings

	rack *ui.RackScreen
}

// connect creates the project client and persists every session change.
func (sf *screenFactory) connect(projectURL, anonKey string) *supabase.Client {
	c := supabase.NewClient(projectURL, anonKey)
	c.SetBucket(sf.cfg.Supabase.ImageBucket)
	if sf.cfg.Supabase.SuggestURL != "" {
		c.SetSuggestURL(sf.cfg.Supabase.SuggestURL)
	}
	c.OnSessionChange(func(s supabase.Session) {
		sf.game.Do(func() { sf.saveSession(s) })
	})
	sf.game.Client = c
	return c
}

func (sf *screenFactory) saveSession(s supabase.Session) {
	if s.Valid() {
		sf.cfg.Session = config.SessionConfig{
			Email:        s.Email,
			AccessToken:  s.AccessToken,
			RefreshToken: s.RefreshToken,
			UserID:       s.UserID,
		}
	} else {
		sf.cfg.ClearSession()
	}
	if err := sf.cfg.Save(); err != nil {
		log.Printf("Failed to save config: %v", err)
	}
}

func (sf *screenFactory) pushLogin() {
	sf.rack = nil
	var loginScreen *ui.LoginScreen
	loginScreen = ui.NewLoginScreen(sf.cfg.Supabase.URL, sf.cfg.Supabase.AnonKey, sf.cfg.Session.Email,
		func(projectURL, anonKey, email, password string) {
			loginScreen.Busy = true
			go func() {
				c := supabase.NewClient(projectURL, anonKey)
				if _, err := c.SignIn(email, password); err != nil {
					log.Printf("Sign in failed: %v", err)
					sf.game.Do(func() {
						loginScreen.Busy = false
						loginScreen.Error = "sign in failed: " + err.Error()
					})
					return
				}
				session := c.Session()
				sf.game.Do(func() {
					sf.cfg.Supabase.URL = c.BaseURL()
					sf.cfg.Supabase.AnonKey = anonKey
					client := sf.connect(projectURL, anonKey)
					client.SetSession(session)
					sf.saveSession(session)
					sf.pushRack()
				})
			}()
		})
	sf.game.Screens.ClearStack()
	sf.game.Screens.Replace(loginScreen)
}

func (sf *screenFactory) pushRack() {
	rack, err := ui.NewRackScreen(sf.game.Client, sf.imgCache, sf.cfg.Rack, sf.keys)
	if err != nil {
		log.Fatalf("Failed to create rack: %v", err)
	}
	rack.OnItemSelected = func(item supabase.Item) {
		sf.pushDetail(item)
	}
	rack.OnArchive = sf.pushArchive
	rack.OnAdd = sf.pushAddItem
	rack.OnSettings = sf.pushSettings
	rack.OnSignOut = sf.signOut
	rack.OnAuthError = sf.pushLogin
	if sf.rack != nil {
		rack.SetView(sf.rack.View())
	}
	sf.rack = rack
	sf.game.Screens.ClearStack()
	sf.game.Screens.Replace(rack)
}

func (sf *screenFactory) pushDetail(item supabase.Item) {
	detail := ui.NewDetailScreen(sf.game.Client, sf.imgCache, item)
	detail.OnArchived = func(supabase.Item) {
		if sf.rack != nil {
			sf.rack.Reload()
		}
	}
	detail.OnAuthError = sf.pushLogin
	sf.game.Screens.Push(detail)
}

func (sf *screenFactory) pushArchive() {
	archive := ui.NewArchiveScreen(sf.game.Client, sf.imgCache)
	archive.OnItemSelected = func(item supabase.Item) {
		sf.pushDetail(item)
	}
	archive.OnAuthError = sf.pushLogin
	sf.game.Screens.Push(archive)
}

func (sf *screenFactory) pushAddItem() {
	sheet := ui.NewAddItemScreen(sf.game.Client, sf.cfg.Supabase.AutoSuggest)
	sheet.OnAdded = func(count int) {
		log.Printf("Added %d item(s)", count)
		if sf.rack != nil {
			sf.rack.Reload()
		}
	}
	sheet.OnAuthError = sf.pushLogin
	sf.game.Screens.Push(sheet)
}

func (sf *screenFactory) pushSettings() {
	settings := ui.NewSettingsScreen(sf.cfg, app.ValidKey, func() {
		if err := sf.cfg.Save(); err != nil {
			log.Printf("Failed to save config: %v", err)
		}
		if keys, err := app.KeyBindings(sf.cfg.Keybinds); err != nil {
			log.Printf("Keybinds: %v", err)
		} else {
			sf.keys = keys
		}
		if c := sf.game.Client; c != nil {
			c.SetBucket(sf.cfg.Supabase.ImageBucket)
			c.SetSuggestURL(sf.cfg.Supabase.SuggestURL)
		}
		if sf.rack != nil {
			if err := sf.rack.Configure(sf.cfg.Rack, sf.keys); err != nil {
				log.Printf("Rack settings: %v", err)
			}
		}
	})
	settings.OnClearCache = func() error {
		sf.imgCache.Clear()
		return sf.imgCache.ClearDisk()
	}
	sf.game.Screens.Push(settings)
}

func (sf *screenFactory) signOut() {
	c := sf.game.Client
	go func() {
		if err := c.SignOut(); err != nil {
			log.Printf("Sign out: %v", err)
		}
	}()
	sf.pushLogin()
}
