package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ButtonRect is a clickable screen region.
type ButtonRect struct {
	X, Y, W, H float64
}

func (r ButtonRect) Contains(px, py int) bool {
	return r.W > 0 && PointInRect(px, py, r.X, r.Y, r.W, r.H)
}

// ErrorDisplay draws an error message with a "Copy" button.
// Store one per screen that shows errors, call Draw each frame and HandleClick in Update.
type ErrorDisplay struct {
	copyRect    ButtonRect
	copiedTimer int // frames remaining to show "copied" feedback
}

// Draw renders the wrapped error text and a Copy button below it. Returns
// the total height used.
func (ed *ErrorDisplay) Draw(dst *ebiten.Image, errText string, x, y, maxWidth, fontSize float64) float64 {
	if errText == "" {
		ed.copyRect = ButtonRect{}
		return 0
	}

	h := DrawTextWrapped(dst, errText, x, y, maxWidth, fontSize, 4, ColorError)

	btnX := x
	btnY := y + h + 2
	btnW := 50.0
	btnH := fontSize + 6

	ed.copyRect = ButtonRect{X: btnX, Y: btnY, W: btnW, H: btnH}

	if ed.copiedTimer > 0 {
		ed.copiedTimer--
		DrawText(dst, "copied", btnX, btnY+3, FontSizeSmall, ColorSuccess)
	} else {
		vector.DrawFilledRect(dst, float32(btnX), float32(btnY), float32(btnW), float32(btnH), ColorSurface, false)
		vector.StrokeRect(dst, float32(btnX), float32(btnY), float32(btnW), float32(btnH), 1, ColorTextMuted, false)
		DrawTextCentered(dst, "copy", btnX+btnW/2, btnY+btnH/2, FontSizeSmall, ColorTextSecondary)
	}

	return h + btnH + 8
}

// HandleClick checks if the copy button was clicked. Call from Update with mouse coords.
// Returns true if the click was consumed.
func (ed *ErrorDisplay) HandleClick(mx, my int, errText string) bool {
	if errText == "" {
		return false
	}
	if ed.copyRect.Contains(mx, my) {
		writeClipboard(errText)
		ed.copiedTimer = 120 // ~2 seconds at 60fps
		return true
	}
	return false
}
