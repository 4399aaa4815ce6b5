package ui

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/depeter/lookbook/internal/cache"
	"github.com/depeter/lookbook/internal/config"
	"github.com/depeter/lookbook/internal/rack"
	"github.com/depeter/lookbook/internal/supabase"
)

// RackView selects how the rack is laid out.
type RackView int

const (
	ViewCarousel RackView = iota
	ViewGrid
)

// prefetchRadius is how many cards on each side of the active one have
// their photos loaded ahead of time.
const prefetchRadius = 3

// RackScreen shows the in-stock items as a swipeable carousel of cards, or
// as a grid.
type RackScreen struct {
	client *supabase.Client
	photos *photoSource
	keys   KeyBindings

	ctrl    *rack.Controller
	anim    *rack.FrameAnimator
	hub     *rack.Hub
	input   *EbitenInput
	pointer *rack.PointerAdapter
	wheel   *rack.WheelAdapter
	keyAd   *rack.KeyAdapter
	layout  cardLayout

	view  RackView
	grid  *ItemGrid
	enter *entrances

	items     []supabase.Item
	activated int

	mu         sync.Mutex
	pending    []supabase.Item
	hasPending bool
	loading    bool
	loaded     bool
	errMsg     string
	authFailed bool

	errDisplay   ErrorDisplay
	archiveRect  ButtonRect
	outRect      ButtonRect
	settingsRect ButtonRect
	toggleRect   [2]ButtonRect
	addRect      ButtonRect

	// Callbacks
	OnItemSelected func(item supabase.Item)
	OnArchive      func()
	OnAdd          func()
	OnSettings     func()
	OnSignOut      func()
	OnAuthError    func()
}

func NewRackScreen(client *supabase.Client, imgCache *cache.ImageCache, cfg config.RackConfig, keys KeyBindings) (*RackScreen, error) {
	anim := rack.NewFrameAnimator()
	ctrl, err := rack.NewController(rack.Config{
		Stride:         cfg.Stride(),
		TapSlop:        cfg.TapSlop,
		WheelThreshold: cfg.WheelThreshold,
	}, anim)
	if err != nil {
		return nil, err
	}

	rs := &RackScreen{
		client:    client,
		photos:    newPhotoSource(imgCache),
		keys:      keys,
		ctrl:      ctrl,
		anim:      anim,
		hub:       rack.NewHub(),
		pointer:   rack.NewPointerAdapter(ctrl),
		wheel:     rack.NewWheelAdapter(ctrl),
		keyAd:     rack.NewKeyAdapter(ctrl),
		layout:    newCardLayout(cfg.CardWidth, cfg.Stride()),
		grid:      NewItemGrid(GridColumns, HeaderHeight+40, 1),
		enter:     newEntrances(),
		activated: -1,
	}
	rs.input = NewEbitenInput(rs.hub, keys)
	rs.input.Bounds = rs.layout.bounds()
	rs.pointer.HitTest = rs.hitTest
	ctrl.OnActiveChange = rs.prefetchAround
	ctrl.OnActivate = func(index int) { rs.activated = index }
	return rs, nil
}

func (rs *RackScreen) Name() string { return "Rack" }

func (rs *RackScreen) OnEnter() {
	rs.pointer.Attach(rs.hub)
	rs.wheel.Attach(rs.hub)
	rs.keyAd.Attach(rs.hub)

	rs.mu.Lock()
	start := !rs.loaded && !rs.loading
	if start {
		rs.loading = true
	}
	rs.mu.Unlock()
	if start {
		go rs.load()
	}
}

func (rs *RackScreen) OnExit() {
	rs.input.Reset()
	rs.pointer.Detach(rs.hub)
	rs.wheel.Detach(rs.hub)
	rs.keyAd.Detach(rs.hub)
}

// Reload fetches the rack again, keeping the active item centered if it is
// still in stock.
func (rs *RackScreen) Reload() {
	rs.mu.Lock()
	if rs.loading {
		rs.mu.Unlock()
		return
	}
	rs.loading = true
	rs.mu.Unlock()
	go rs.load()
}

func (rs *RackScreen) load() {
	var items []supabase.Item
	err := rs.client.WithRefresh(func() error {
		var err error
		items, err = rs.client.ListInStock()
		return err
	})

	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.loading = false
	if err != nil {
		log.Printf("Failed to load rack: %v", err)
		rs.errMsg = err.Error()
		rs.authFailed = errors.Is(err, supabase.ErrUnauthorized)
		return
	}
	rs.errMsg = ""
	rs.loaded = true
	rs.pending = items
	rs.hasPending = true
}

// applyItems swaps in a freshly loaded rack. Runs on the frame loop.
func (rs *RackScreen) applyItems(items []supabase.Item) {
	prevID := ""
	if idx := rs.ctrl.ActiveIndex(); idx >= 0 && idx < len(rs.items) {
		prevID = rs.items[idx].ID
	}

	rs.items = items
	rs.ctrl.SetCount(len(items))

	ids := make([]string, len(items))
	gridItems := make([]GridItem, len(items))
	target := -1
	for i, it := range items {
		ids[i] = it.ID
		gridItems[i] = GridItem{ID: it.ID, URL: it.ImageURL}
		if it.ID == prevID {
			target = i
		}
	}
	if target >= 0 && target != rs.ctrl.ActiveIndex() {
		rs.ctrl.SnapTo(target)
	}
	rs.enter.Add(ids)
	rs.grid.SetItems(gridItems)
	rs.prefetchAround(max(rs.ctrl.ActiveIndex(), 0))
}

func (rs *RackScreen) prefetchAround(index int) {
	lo := max(0, index-prefetchRadius)
	hi := min(len(rs.items)-1, index+prefetchRadius)
	for i := lo; i <= hi; i++ {
		rs.photos.Request(rs.items[i].ImageURL)
	}
}

func (rs *RackScreen) hitTest(x, y float64) int {
	styles := rs.styles()
	return rs.layout.hitTest(styles, x, y)
}

func (rs *RackScreen) styles() []rack.Style {
	styles := make([]rack.Style, len(rs.items))
	for i := range styles {
		styles[i] = rs.ctrl.Style(i)
	}
	return styles
}

// Configure applies new rack geometry, thresholds and key bindings in place,
// keeping the loaded items and the active card.
func (rs *RackScreen) Configure(cfg config.RackConfig, keys KeyBindings) error {
	if err := rs.ctrl.SetStride(cfg.Stride()); err != nil {
		return err
	}
	rs.ctrl.SetThresholds(cfg.TapSlop, cfg.WheelThreshold)
	rs.layout = newCardLayout(cfg.CardWidth, cfg.Stride())
	rs.input.Bounds = rs.layout.bounds()
	rs.keys = keys
	rs.input.Keys = keys
	return nil
}

// SetView switches between the carousel and the grid.
func (rs *RackScreen) SetView(v RackView) {
	if v == rs.view {
		return
	}
	rs.input.Reset()
	rs.view = v
	if v == ViewGrid {
		if idx := rs.ctrl.ActiveIndex(); idx >= 0 {
			rs.grid.Focus.Focused = idx
		}
		return
	}
	if f := rs.grid.Focus.Focused; f >= 0 && f < len(rs.items) {
		rs.ctrl.SnapTo(f)
	}
}

func (rs *RackScreen) View() RackView { return rs.view }

func (rs *RackScreen) Update() (*ScreenTransition, error) {
	rs.mu.Lock()
	if rs.hasPending {
		rs.applyItems(rs.pending)
		rs.pending = nil
		rs.hasPending = false
	}
	authFailed := rs.authFailed
	rs.authFailed = false
	errMsg := rs.errMsg
	rs.mu.Unlock()

	if authFailed && rs.OnAuthError != nil {
		rs.OnAuthError()
		return nil, nil
	}

	dt := time.Second / time.Duration(ebiten.TPS())
	rs.anim.Step(dt)
	rs.enter.Update(float32(dt.Seconds()))

	if mx, my, ok := MouseJustClicked(); ok {
		if rs.handleClick(mx, my, errMsg) {
			return nil, nil
		}
	}

	// Shortcuts wait while a card drag holds the pointer.
	if !IsModifierPressed() && !rs.hub.Capturing() {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyG):
			if rs.view == ViewCarousel {
				rs.SetView(ViewGrid)
			} else {
				rs.SetView(ViewCarousel)
			}
			return nil, nil
		case inpututil.IsKeyJustPressed(rs.keys.Add):
			if rs.OnAdd != nil {
				rs.OnAdd()
			}
			return nil, nil
		case inpututil.IsKeyJustPressed(rs.keys.Archive):
			if rs.OnArchive != nil {
				rs.OnArchive()
			}
			return nil, nil
		case inpututil.IsKeyJustPressed(ebiten.KeyComma):
			if rs.OnSettings != nil {
				rs.OnSettings()
			}
			return nil, nil
		case inpututil.IsKeyJustPressed(ebiten.KeyF5):
			rs.Reload()
		}
	}

	if rs.view == ViewGrid {
		rs.updateGrid()
		return nil, nil
	}

	rs.activated = -1
	rs.input.Update()
	if idx := rs.activated; idx >= 0 && idx < len(rs.items) {
		rs.activated = -1
		if rs.OnItemSelected != nil {
			rs.OnItemSelected(rs.items[idx])
		}
	}
	return nil, nil
}

func (rs *RackScreen) updateGrid() {
	dir, enter, _ := InputState()
	rs.grid.Update(dir)
	if enter {
		if sel := rs.grid.Selected(); sel != nil {
			rs.selectByID(sel.ID)
		}
		return
	}
	if mx, my, ok := MouseJustClicked(); ok {
		if i := rs.grid.ItemAt(mx, my); i >= 0 {
			rs.grid.Focus.Focused = i
			rs.selectByID(rs.grid.Items[i].ID)
		}
	}
}

func (rs *RackScreen) selectByID(id string) {
	for _, it := range rs.items {
		if it.ID == id {
			if rs.OnItemSelected != nil {
				rs.OnItemSelected(it)
			}
			return
		}
	}
}

// handleClick dispatches clicks on the header, the add button and the
// pagination dots. Returns true if the click was consumed.
func (rs *RackScreen) handleClick(mx, my int, errMsg string) bool {
	if rs.errDisplay.HandleClick(mx, my, errMsg) {
		return true
	}
	switch {
	case rs.archiveRect.Contains(mx, my):
		if rs.OnArchive != nil {
			rs.OnArchive()
		}
		return true
	case rs.outRect.Contains(mx, my):
		if rs.OnSignOut != nil {
			rs.OnSignOut()
		}
		return true
	case rs.settingsRect.Contains(mx, my):
		if rs.OnSettings != nil {
			rs.OnSettings()
		}
		return true
	case rs.toggleRect[ViewCarousel].Contains(mx, my):
		rs.SetView(ViewCarousel)
		return true
	case rs.toggleRect[ViewGrid].Contains(mx, my):
		rs.SetView(ViewGrid)
		return true
	case rs.addRect.Contains(mx, my):
		if rs.OnAdd != nil {
			rs.OnAdd()
		}
		return true
	}
	if rs.view == ViewCarousel && rs.ctrl.Count() > 0 {
		if idx := dotAt(rs.ctrl.Count(), rs.ctrl.ActiveIndex(), rs.layout.dotsY(), float64(mx), float64(my)); idx >= 0 {
			rs.ctrl.SnapTo(idx)
			return true
		}
	}
	return false
}

func (rs *RackScreen) Draw(dst *ebiten.Image) {
	rs.mu.Lock()
	loaded, errMsg := rs.loaded, rs.errMsg
	rs.mu.Unlock()

	rs.drawHeader(dst)
	rs.drawAddButton(dst)

	switch {
	case errMsg != "" && !loaded:
		rs.errDisplay.Draw(dst, errMsg, SectionPadding, ScreenHeight/2-20, ScreenWidth-2*SectionPadding, FontSizeBody)
		return
	case !loaded:
		DrawTextCentered(dst, "loading...", ScreenWidth/2, ScreenHeight/2, FontSizeBody, ColorTextSecondary)
		return
	case len(rs.items) == 0:
		DrawTextCentered(dst, "your rack is empty", ScreenWidth/2, ScreenHeight/2, FontSizeBody, ColorTextMuted)
		return
	}

	if rs.view == ViewGrid {
		rs.grid.Resolve(rs.photos.Image)
		rs.grid.Draw(dst)
	} else {
		rs.drawCarousel(dst)
	}

	if errMsg != "" {
		rs.errDisplay.Draw(dst, errMsg, SectionPadding, ScreenHeight-140, ScreenWidth-2*SectionPadding-AddButtonSize-AddButtonInset, FontSizeSmall)
	}
}

func (rs *RackScreen) drawCarousel(dst *ebiten.Image) {
	styles := rs.styles()
	for _, i := range drawOrder(styles) {
		st := styles[i]
		if !rs.layout.visible(st) {
			continue
		}
		it := rs.items[i]
		drawCard(dst, rs.layout, st, rs.photos.Image(it.ImageURL), rs.enter.Lift(it.ID))
	}

	active := rs.ctrl.ActiveIndex()
	dotsY := rs.layout.dotsY()
	drawDots(dst, len(rs.items), active, dotsY)

	if active < 0 {
		return
	}
	it := rs.items[active]
	y := dotsY + 28
	if name := it.DisplayName(); name != "" {
		name = truncateText(name, ScreenWidth-2*SectionPadding, FontSizeHeading)
		DrawTextCentered(dst, name, ScreenWidth/2, y, FontSizeHeading, ColorText)
		y += FontSizeHeading + 10
	}
	if size := it.DisplaySize(); size != "" {
		DrawTextCentered(dst, size, ScreenWidth/2, y, FontSizeSmall, ColorTextSecondary)
	}
}

func (rs *RackScreen) drawHeader(dst *ebiten.Image) {
	DrawText(dst, "lookbook", SectionPadding, 20, FontSizeTitle, ColorPrimary)

	x := float64(ScreenWidth - SectionPadding)
	for _, link := range []struct {
		label string
		rect  *ButtonRect
	}{
		{"out", &rs.outRect},
		{"archive", &rs.archiveRect},
		{"settings", &rs.settingsRect},
	} {
		w, h := MeasureText(link.label, FontSizeSmall)
		x -= w
		DrawText(dst, link.label, x, 28, FontSizeSmall, ColorTextSecondary)
		*link.rect = ButtonRect{X: x - 6, Y: 22, W: w + 12, H: h + 12}
		x -= 18
	}

	const btnW, btnH = 32.0, 26.0
	tx := float64(ScreenWidth)/2 - btnW - 2
	ty := float64(HeaderHeight) + 4
	for v := ViewCarousel; v <= ViewGrid; v++ {
		r := ButtonRect{X: tx + float64(v)*(btnW+4), Y: ty, W: btnW, H: btnH}
		rs.toggleRect[v] = r
		clr := ColorTextMuted
		if v == rs.view {
			vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), ColorSurface, false)
			clr = ColorPrimary
		}
		if v == ViewCarousel {
			drawCarouselIcon(dst, float32(r.X+7.5), float32(r.Y+6), clr)
		} else {
			drawGridIcon(dst, float32(r.X+9), float32(r.Y+6), clr)
		}
	}
}

func (rs *RackScreen) drawAddButton(dst *ebiten.Image) {
	x := float64(ScreenWidth - AddButtonInset - AddButtonSize)
	y := float64(ScreenHeight - AddButtonInset - AddButtonSize)
	rs.addRect = ButtonRect{X: x, Y: y, W: AddButtonSize, H: AddButtonSize}
	r := float32(AddButtonSize) / 2
	cx, cy := float32(x)+r, float32(y)+r
	vector.DrawFilledCircle(dst, cx, cy+3, r, ColorShadow, true)
	vector.DrawFilledCircle(dst, cx, cy, r, ColorPrimary, true)
	drawPlusIcon(dst, cx, cy, 10, ColorBackground)
}

// DebugLines reports carousel state for the debug overlay.
func (rs *RackScreen) DebugLines() []string {
	return []string{
		"view: " + [...]string{"carousel", "grid"}[rs.view],
		"state: " + rs.ctrl.State().String(),
		formatDebug("offset", rs.ctrl.Offset()),
		formatDebug("active", float64(rs.ctrl.ActiveIndex())),
		formatDebug("count", float64(rs.ctrl.Count())),
		formatDebug("travel", rs.ctrl.Travel()),
		formatDebug("wheel", rs.ctrl.WheelAccum()),
		formatBool("capturing", rs.hub.Capturing()),
		formatDebug("adapters", float64(rs.hub.Attached())),
	}
}
