package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// GridItem represents a single photo tile.
type GridItem struct {
	ID    string
	URL   string
	Image *ebiten.Image
}

// ItemGrid is a vertically scrolling grid of square photo tiles.
type ItemGrid struct {
	Items []GridItem
	Cols  int
	Top   float64 // y of the first row, before scrolling
	Alpha float32 // tile opacity; archived items are dimmed

	Focus     *FocusGrid
	ShowFocus bool // keyboard focus ring, shown after arrow key use

	scroll ScrollState
}

func NewItemGrid(cols int, top float64, alpha float32) *ItemGrid {
	return &ItemGrid{
		Cols:  cols,
		Top:   top,
		Alpha: alpha,
		Focus: NewFocusGrid(cols, 0),
	}
}

// SetItems replaces the tiles and keeps focus in range.
func (g *ItemGrid) SetItems(items []GridItem) {
	g.Items = items
	g.Focus.SetTotal(len(items))
	g.scroll.SetContentHeight(g.contentHeight(), ScreenHeight-g.Top)
}

func (g *ItemGrid) cellSize() float64 {
	return (ScreenWidth - GridGap*float64(g.Cols+1)) / float64(g.Cols)
}

func (g *ItemGrid) rowHeight() float64 {
	return g.cellSize() + GridGap
}

func (g *ItemGrid) contentHeight() float64 {
	rows := (len(g.Items) + g.Cols - 1) / g.Cols
	return float64(rows)*g.rowHeight() + GridGap
}

// cellRect returns the top-left corner and side of tile i at scroll offset
// scrollY.
func (g *ItemGrid) cellRect(i int, scrollY float64) (x, y, side float64) {
	side = g.cellSize()
	col, row := i%g.Cols, i/g.Cols
	x = GridGap + float64(col)*(side+GridGap)
	y = g.Top + GridGap + float64(row)*(side+GridGap) - scrollY
	return x, y, side
}

// ItemAt returns the tile under (px, py), or -1.
func (g *ItemGrid) ItemAt(px, py int) int {
	if float64(py) < g.Top {
		return -1
	}
	for i := range g.Items {
		x, y, s := g.cellRect(i, g.scroll.ScrollY)
		if PointInRect(px, py, x, y, s, s) {
			return i
		}
	}
	return -1
}

// Update applies keyboard navigation and wheel scrolling.
func (g *ItemGrid) Update(dir Direction) {
	if dir != DirNone {
		g.ShowFocus = true
		if g.Focus.Update(dir) {
			g.scroll.EnsureRowVisible(g.Focus.FocusedRow(), g.rowHeight(), g.Top, ScreenHeight)
		}
	}
	g.scroll.HandleMouseWheel()
}

// Selected returns the focused tile, or nil.
func (g *ItemGrid) Selected() *GridItem {
	if g.Focus.Focused < 0 || g.Focus.Focused >= len(g.Items) {
		return nil
	}
	return &g.Items[g.Focus.Focused]
}

// VisibleRange returns the half-open range of tiles that may be on screen.
func (g *ItemGrid) VisibleRange() (lo, hi int) {
	rh := g.rowHeight()
	first := int(g.scroll.ScrollY / rh)
	rows := int((ScreenHeight-g.Top)/rh) + 2
	lo = min(len(g.Items), max(0, first*g.Cols))
	hi = min(len(g.Items), (first+rows)*g.Cols)
	return lo, max(lo, hi)
}

// Resolve fills in the photos of the visible tiles.
func (g *ItemGrid) Resolve(photo func(url string) *ebiten.Image) {
	lo, hi := g.VisibleRange()
	for i := lo; i < hi; i++ {
		g.Items[i].Image = photo(g.Items[i].URL)
	}
}

func (g *ItemGrid) Draw(dst *ebiten.Image) {
	g.scroll.Animate()
	clip := dst.SubImage(image.Rect(0, int(g.Top), ScreenWidth, ScreenHeight)).(*ebiten.Image)

	for i := range g.Items {
		x, y, s := g.cellRect(i, g.scroll.ScrollY)
		if y+s < g.Top || y > ScreenHeight {
			continue
		}
		item := &g.Items[i]
		if item.Image != nil {
			drawImageCover(clip, item.Image, x, y, s, s, g.Alpha)
		} else {
			vector.DrawFilledRect(clip, float32(x), float32(y), float32(s), float32(s), ColorSurface, false)
		}
		if g.ShowFocus && i == g.Focus.Focused {
			vector.StrokeRect(clip, float32(x), float32(y), float32(s), float32(s), 2, ColorFocusBorder, false)
		}
	}
}

// DrawFilledRoundRect draws a filled rectangle with rounded corners. The
// pieces overlap at the corners, so clr should be opaque.
func DrawFilledRoundRect(dst *ebiten.Image, x, y, w, h, radius float32, clr color.Color) {
	r := min(radius, w/2, h/2)
	vector.DrawFilledRect(dst, x+r, y, w-2*r, h, clr, true)
	vector.DrawFilledRect(dst, x, y+r, r, h-2*r, clr, true)
	vector.DrawFilledRect(dst, x+w-r, y+r, r, h-2*r, clr, true)
	vector.DrawFilledCircle(dst, x+r, y+r, r, clr, true)
	vector.DrawFilledCircle(dst, x+w-r, y+r, r, clr, true)
	vector.DrawFilledCircle(dst, x+r, y+h-r, r, clr, true)
	vector.DrawFilledCircle(dst, x+w-r, y+h-r, r, clr, true)
}
