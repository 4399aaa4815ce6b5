package app

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/depeter/lookbook/internal/cache"
	"github.com/depeter/lookbook/internal/config"
	"github.com/depeter/lookbook/internal/supabase"
	"github.com/depeter/lookbook/internal/ui"
)

// Game implements ebiten.Game and manages the overall application.
type Game struct {
	Config  *config.Config
	Client  *supabase.Client
	Cache   *cache.ImageCache
	Screens *ui.ScreenManager

	Width, Height int

	mu    sync.Mutex
	queue []func()
}

// NewGame creates the Game with all dependencies.
func NewGame(cfg *config.Config, client *supabase.Client, imgCache *cache.ImageCache) *Game {
	return &Game{
		Config:  cfg,
		Client:  client,
		Cache:   imgCache,
		Screens: ui.NewScreenManager(),
		Width:   ui.ScreenWidth,
		Height:  ui.ScreenHeight,
	}
}

// Do schedules fn to run on the frame loop before the next screen update.
// Background work uses it to change screens.
func (g *Game) Do(fn func()) {
	g.mu.Lock()
	g.queue = append(g.queue, fn)
	g.mu.Unlock()
}

func (g *Game) runQueued() {
	g.mu.Lock()
	queue := g.queue
	g.queue = nil
	g.mu.Unlock()
	for _, fn := range queue {
		fn()
	}
}

func (g *Game) Update() error {
	g.runQueued()

	// Alt+Enter or the fullscreen key toggles fullscreen
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && ebiten.IsKeyPressed(ebiten.KeyAlt) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	} else if !g.typing() && keyJustPressed(g.Config.Keybinds.Fullscreen) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	// F12 toggles debug overlay
	ui.ToggleDebugOverlay()

	if err := g.Screens.Update(); err != nil {
		return err
	}

	ui.UpdateInputState()
	return nil
}

// typing reports whether the current screen takes text input, in which case
// single-letter shortcuts are left to it.
func (g *Game) typing() bool {
	switch s := g.Screens.Current().(type) {
	case *ui.LoginScreen, *ui.AddItemScreen:
		return true
	case *ui.SettingsScreen:
		return s.Editing()
	}
	return false
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(ui.ColorBackground)
	g.Screens.Draw(screen)
	ui.DrawDebugOverlay(screen, g.Screens.Current())
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.Width, g.Height
}
