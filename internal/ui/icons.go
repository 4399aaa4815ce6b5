package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// drawPlusIcon draws a "+" centered at (cx, cy) with arm length r.
func drawPlusIcon(dst *ebiten.Image, cx, cy, r float32, clr color.Color) {
	vector.StrokeLine(dst, cx-r, cy, cx+r, cy, 2, clr, true)
	vector.StrokeLine(dst, cx, cy-r, cx, cy+r, 2, clr, true)
}

// drawCloseIcon draws a "×" centered at (cx, cy).
func drawCloseIcon(dst *ebiten.Image, cx, cy, r float32, clr color.Color) {
	vector.StrokeLine(dst, cx-r, cy-r, cx+r, cy+r, 1.5, clr, true)
	vector.StrokeLine(dst, cx-r, cy+r, cx+r, cy-r, 1.5, clr, true)
}

// drawBackIcon draws a left arrow centered at (cx, cy).
func drawBackIcon(dst *ebiten.Image, cx, cy, r float32, clr color.Color) {
	vector.StrokeLine(dst, cx-r, cy, cx+r, cy, 1.5, clr, true)
	vector.StrokeLine(dst, cx-r, cy, cx-r/2, cy-r/2, 1.5, clr, true)
	vector.StrokeLine(dst, cx-r, cy, cx-r/2, cy+r/2, 1.5, clr, true)
}

// drawCarouselIcon draws three upright bars, the middle one emphasized.
func drawCarouselIcon(dst *ebiten.Image, x, y float32, clr color.Color) {
	dim := fade(clr, 0.5)
	vector.DrawFilledRect(dst, x, y, 5, 14, dim, false)
	vector.DrawFilledRect(dst, x+6, y, 5, 14, clr, false)
	vector.DrawFilledRect(dst, x+12, y, 5, 14, dim, false)
}

// drawGridIcon draws a 2x2 block of squares.
func drawGridIcon(dst *ebiten.Image, x, y float32, clr color.Color) {
	for _, o := range [][2]float32{{0, 0}, {8, 0}, {0, 8}, {8, 8}} {
		vector.DrawFilledRect(dst, x+o[0], y+o[1], 6, 6, clr, false)
	}
}

// fade scales the alpha of clr by a.
func fade(clr color.Color, a float64) color.Color {
	r, g, b, al := clr.RGBA()
	return color.RGBA64{
		R: uint16(float64(r) * a),
		G: uint16(float64(g) * a),
		B: uint16(float64(b) * a),
		A: uint16(float64(al) * a),
	}
}
