package ui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var debugOverlayVisible bool

// DebugSource is implemented by screens with state worth showing in the
// debug overlay.
type DebugSource interface {
	DebugLines() []string
}

// ToggleDebugOverlay toggles the debug overlay on F12.
func ToggleDebugOverlay() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		debugOverlayVisible = !debugOverlayVisible
	}
}

func formatDebug(label string, v float64) string {
	return fmt.Sprintf("%s: %.1f", label, v)
}

func formatBool(label string, v bool) string {
	return fmt.Sprintf("%s: %t", label, v)
}

// DrawDebugOverlay draws the debug overlay if visible. s is the current
// screen; its DebugLines are listed when it provides them.
func DrawDebugOverlay(screen *ebiten.Image, s Screen) {
	if !debugOverlayVisible {
		return
	}

	const (
		padX    = 12.0
		padY    = 10.0
		lineH   = 17.0
		marginR = 12.0
		marginT = 12.0
	)

	// Collect data
	var stateLines []string
	name := "(none)"
	if s != nil {
		name = s.Name()
		if ds, ok := s.(DebugSource); ok {
			stateLines = ds.DebugLines()
		}
	}
	var pressedKeys []ebiten.Key
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		if ebiten.IsKeyPressed(k) {
			pressedKeys = append(pressedKeys, k)
		}
	}

	lines := 3 // header, fps, screen
	lines += len(stateLines)
	lines += 2 // blank + keys header
	lines += max(len(pressedKeys), 1)
	panelH := float64(lines)*lineH + padY*2
	panelW := 240.0
	px := float64(ScreenWidth) - panelW - marginR
	py := marginT

	vector.DrawFilledRect(screen, float32(px), float32(py), float32(panelW), float32(panelH), ColorOverlay, false)

	x := px + padX
	y := py + padY

	DrawText(screen, "debug (F12 to close)", x, y, FontSizeSmall, ColorPrimary)
	y += lineH
	DrawText(screen, fmt.Sprintf("fps %.0f  tps %.0f", ebiten.ActualFPS(), ebiten.ActualTPS()), x, y, FontSizeSmall, ColorTextSecondary)
	y += lineH
	DrawText(screen, "screen: "+name, x, y, FontSizeSmall, ColorText)
	y += lineH
	for _, l := range stateLines {
		DrawText(screen, l, x, y, FontSizeSmall, ColorText)
		y += lineH
	}

	y += lineH * 0.5
	DrawText(screen, "--- keys pressed ---", x, y, FontSizeSmall, ColorTextMuted)
	y += lineH

	if len(pressedKeys) == 0 {
		DrawText(screen, "(none)", x, y, FontSizeSmall, ColorTextSecondary)
		return
	}
	for _, k := range pressedKeys {
		DrawText(screen, fmt.Sprintf("  %s (%d)", k.String(), int(k)), x, y, FontSizeSmall, ColorText)
		y += lineH
	}
}
