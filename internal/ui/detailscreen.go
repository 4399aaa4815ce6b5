package ui

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/depeter/lookbook/internal/cache"
	"github.com/depeter/lookbook/internal/supabase"
)

// detailFadeIn is how long the detail view takes to fade in, in seconds.
const detailFadeIn = 0.25

// DetailScreen shows one item full screen. In-stock items can be marked as
// out of stock; archived items are read-only.
type DetailScreen struct {
	client *supabase.Client
	photos *photoSource
	item   supabase.Item

	panel    DetailPanel
	button   ArchiveButton
	readOnly bool
	fade     *gween.Tween

	closeRect  ButtonRect
	buttonRect ButtonRect
	cancelRect ButtonRect
	errDisplay ErrorDisplay

	mu         sync.Mutex
	archived   bool
	errMsg     string
	authFailed bool

	OnArchived  func(item supabase.Item)
	OnAuthError func()
}

func NewDetailScreen(client *supabase.Client, imgCache *cache.ImageCache, item supabase.Item) *DetailScreen {
	return &DetailScreen{
		client:   client,
		photos:   newPhotoSource(imgCache),
		item:     item,
		panel:    DetailPanel{Item: item},
		readOnly: item.Status == supabase.StatusArchived,
		fade:     gween.New(0, 1, detailFadeIn, ease.OutQuad),
	}
}

func (ds *DetailScreen) Name() string { return "Detail: " + ds.item.ID }

func (ds *DetailScreen) OnEnter() {
	ds.photos.Request(ds.item.ImageURL)
}

func (ds *DetailScreen) OnExit() {}

func (ds *DetailScreen) archive() {
	err := ds.client.WithRefresh(func() error {
		return ds.client.ArchiveItem(ds.item.ID, time.Now())
	})

	ds.mu.Lock()
	defer ds.mu.Unlock()
	if err != nil {
		log.Printf("Failed to archive %s: %v", ds.item.ID, err)
		ds.errMsg = err.Error()
		ds.authFailed = errors.Is(err, supabase.ErrUnauthorized)
		ds.button.Failed()
		return
	}
	ds.archived = true
}

// press handles the archive button. Returns true if a request was started.
func (ds *DetailScreen) press() bool {
	if ds.readOnly {
		return false
	}
	ds.mu.Lock()
	start := ds.button.Press()
	if start {
		ds.errMsg = ""
	}
	ds.mu.Unlock()
	if start {
		go ds.archive()
	}
	return start
}

func (ds *DetailScreen) Update() (*ScreenTransition, error) {
	ds.mu.Lock()
	archived, authFailed, errMsg := ds.archived, ds.authFailed, ds.errMsg
	ds.authFailed = false
	confirming, busy := ds.button.Confirming(), ds.button.Busy()
	ds.mu.Unlock()

	if archived {
		if ds.OnArchived != nil {
			ds.OnArchived(ds.item)
		}
		return &ScreenTransition{Type: TransitionPop}, nil
	}
	if authFailed && ds.OnAuthError != nil {
		ds.OnAuthError()
		return nil, nil
	}

	dt := float32(1 / float64(ebiten.TPS()))
	if v, _ := ds.fade.Update(dt); v > 0 {
		ds.panel.Alpha = v
	}

	_, enter, back := InputState()
	if back {
		if confirming {
			ds.mu.Lock()
			ds.button.Cancel()
			ds.mu.Unlock()
			return nil, nil
		}
		return &ScreenTransition{Type: TransitionPop}, nil
	}
	if enter && !busy {
		ds.press()
		return nil, nil
	}

	if mx, my, ok := MouseJustClicked(); ok {
		switch {
		case ds.errDisplay.HandleClick(mx, my, errMsg):
		case ds.closeRect.Contains(mx, my):
			return &ScreenTransition{Type: TransitionPop}, nil
		case ds.buttonRect.Contains(mx, my) && !busy:
			ds.press()
		case ds.cancelRect.Contains(mx, my) && confirming:
			ds.mu.Lock()
			ds.button.Cancel()
			ds.mu.Unlock()
		}
	}
	return nil, nil
}

func (ds *DetailScreen) Draw(dst *ebiten.Image) {
	ds.mu.Lock()
	label := ds.button.Label()
	confirming := ds.button.Confirming()
	errMsg := ds.errMsg
	ds.mu.Unlock()

	dst.Fill(ColorBackground)

	// Close
	ds.closeRect = ButtonRect{X: ScreenWidth - 56, Y: 12, W: 40, H: 40}
	drawCloseIcon(dst, float32(ds.closeRect.X+20), float32(ds.closeRect.Y+20), 9, ColorTextSecondary)

	ds.panel.Photo = ds.photos.Image(ds.item.ImageURL)

	bottom := float64(ScreenHeight - 40)
	if !ds.readOnly {
		bottom -= 110
	}
	y := ds.panel.Draw(dst, bottom)

	if errMsg != "" {
		ds.errDisplay.Draw(dst, errMsg, SectionPadding, y, ScreenWidth-2*SectionPadding, FontSizeSmall)
	}

	if ds.readOnly {
		ds.buttonRect = ButtonRect{}
		ds.cancelRect = ButtonRect{}
		return
	}

	bx, by := float64(SectionPadding+4), bottom+20
	bw, bh := float64(ScreenWidth-2*(SectionPadding+4)), 52.0
	ds.buttonRect = ButtonRect{X: bx, Y: by, W: bw, H: bh}
	bg, fg := ColorSurface, ColorTextSecondary
	if confirming {
		bg, fg = ColorSurfaceHover, ColorError
	}
	DrawFilledRoundRect(dst, float32(bx), float32(by), float32(bw), float32(bh), 12, bg)
	if confirming {
		vector.StrokeRect(dst, float32(bx), float32(by), float32(bw), float32(bh), 1, fade(ColorError, 0.4), true)
	}
	DrawTextCentered(dst, label, bx+bw/2, by+bh/2, FontSizeSmall, fg)

	if confirming {
		ds.cancelRect = ButtonRect{X: bx, Y: by + bh + 6, W: bw, H: 30}
		DrawTextCentered(dst, "cancel", bx+bw/2, by+bh+21, FontSizeSmall, ColorTextMuted)
	} else {
		ds.cancelRect = ButtonRect{}
	}
}
