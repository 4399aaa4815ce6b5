package ui

import (
	"errors"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/depeter/lookbook/internal/cache"
	"github.com/depeter/lookbook/internal/supabase"
)

// archivedAlpha dims archived photos.
const archivedAlpha = 0.7

// ArchiveScreen lists out-of-stock items, most recently archived first.
type ArchiveScreen struct {
	client *supabase.Client
	photos *photoSource

	grid  *ItemGrid
	items []supabase.Item

	backRect   ButtonRect
	errDisplay ErrorDisplay

	mu         sync.Mutex
	pending    []supabase.Item
	hasPending bool
	loading    bool
	loaded     bool
	errMsg     string
	authFailed bool

	OnItemSelected func(item supabase.Item)
	OnAuthError    func()
}

func NewArchiveScreen(client *supabase.Client, imgCache *cache.ImageCache) *ArchiveScreen {
	return &ArchiveScreen{
		client: client,
		photos: newPhotoSource(imgCache),
		grid:   NewItemGrid(GridColumns, HeaderHeight+8, archivedAlpha),
	}
}

func (as *ArchiveScreen) Name() string { return "Archive" }

// OnEnter reloads every time, since items may have been archived since the
// last visit.
func (as *ArchiveScreen) OnEnter() {
	as.mu.Lock()
	start := !as.loading
	if start {
		as.loading = true
	}
	as.mu.Unlock()
	if start {
		go as.load()
	}
}

func (as *ArchiveScreen) OnExit() {}

func (as *ArchiveScreen) load() {
	var items []supabase.Item
	err := as.client.WithRefresh(func() error {
		var err error
		items, err = as.client.ListArchived()
		return err
	})

	as.mu.Lock()
	defer as.mu.Unlock()
	as.loading = false
	if err != nil {
		log.Printf("Failed to load archive: %v", err)
		as.errMsg = err.Error()
		as.authFailed = errors.Is(err, supabase.ErrUnauthorized)
		return
	}
	as.errMsg = ""
	as.loaded = true
	as.pending = items
	as.hasPending = true
}

func (as *ArchiveScreen) Update() (*ScreenTransition, error) {
	as.mu.Lock()
	if as.hasPending {
		as.items = as.pending
		gridItems := make([]GridItem, len(as.items))
		for i, it := range as.items {
			gridItems[i] = GridItem{ID: it.ID, URL: it.ImageURL}
		}
		as.grid.SetItems(gridItems)
		as.pending = nil
		as.hasPending = false
	}
	authFailed, errMsg := as.authFailed, as.errMsg
	as.authFailed = false
	as.mu.Unlock()

	if authFailed && as.OnAuthError != nil {
		as.OnAuthError()
		return nil, nil
	}

	dir, enter, back := InputState()
	if back {
		return &ScreenTransition{Type: TransitionPop}, nil
	}

	if mx, my, ok := MouseJustClicked(); ok {
		if as.errDisplay.HandleClick(mx, my, errMsg) {
			return nil, nil
		}
		if as.backRect.Contains(mx, my) {
			return &ScreenTransition{Type: TransitionPop}, nil
		}
		if i := as.grid.ItemAt(mx, my); i >= 0 {
			as.grid.Focus.Focused = i
			as.open(i)
			return nil, nil
		}
	}

	as.grid.Update(dir)
	if enter && len(as.items) > 0 {
		as.open(as.grid.Focus.Focused)
	}
	return nil, nil
}

func (as *ArchiveScreen) open(i int) {
	if i < 0 || i >= len(as.items) || as.OnItemSelected == nil {
		return
	}
	as.OnItemSelected(as.items[i])
}

func (as *ArchiveScreen) Draw(dst *ebiten.Image) {
	as.mu.Lock()
	loaded, errMsg := as.loaded, as.errMsg
	as.mu.Unlock()

	dst.Fill(ColorBackground)

	// Header
	w, h := MeasureText("back", FontSizeSmall)
	drawBackIcon(dst, SectionPadding+6, 30, 6, ColorTextSecondary)
	DrawText(dst, "back", SectionPadding+18, 30-h/2, FontSizeSmall, ColorTextSecondary)
	as.backRect = ButtonRect{X: SectionPadding - 4, Y: 14, W: w + 30, H: 32}
	DrawTextCentered(dst, "archive", ScreenWidth/2, 30, FontSizeHeading, ColorText)

	switch {
	case errMsg != "" && !loaded:
		as.errDisplay.Draw(dst, errMsg, SectionPadding, ScreenHeight/2-20, ScreenWidth-2*SectionPadding, FontSizeBody)
		return
	case !loaded:
		DrawTextCentered(dst, "loading...", ScreenWidth/2, ScreenHeight/2, FontSizeBody, ColorTextSecondary)
		return
	case len(as.items) == 0:
		DrawTextCentered(dst, "nothing archived yet", ScreenWidth/2, ScreenHeight/2, FontSizeBody, ColorTextMuted)
		return
	}

	as.grid.Resolve(as.photos.Image)
	as.grid.Draw(dst)
}
