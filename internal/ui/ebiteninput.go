package ui

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/depeter/lookbook/internal/rack"
)

// KeyBindings maps rack commands to keys.
type KeyBindings struct {
	Previous ebiten.Key
	Next     ebiten.Key
	Open     ebiten.Key
	Add      ebiten.Key
	Archive  ebiten.Key
}

// DefaultKeyBindings are the arrow keys and Enter, A to add and H for the
// archive.
var DefaultKeyBindings = KeyBindings{
	Previous: ebiten.KeyArrowLeft,
	Next:     ebiten.KeyArrowRight,
	Open:     ebiten.KeyEnter,
	Add:      ebiten.KeyA,
	Archive:  ebiten.KeyH,
}

// mouseID is the pointer ID used for the mouse; touch IDs are offset past it.
const mouseID = 0

// EbitenInput polls Ebitengine input once per frame and feeds a rack.Hub.
// Pointer downs only start inside Bounds; moves and releases are delivered
// wherever they happen.
type EbitenInput struct {
	Hub    *rack.Hub
	Keys   KeyBindings
	Bounds image.Rectangle

	start      time.Time
	mouseDown  bool
	touches    []ebiten.TouchID
	lastTouchX map[ebiten.TouchID]int
	lastTouchY map[ebiten.TouchID]int
}

func NewEbitenInput(hub *rack.Hub, keys KeyBindings) *EbitenInput {
	return &EbitenInput{
		Hub:        hub,
		Keys:       keys,
		start:      time.Now(),
		lastTouchX: map[ebiten.TouchID]int{},
		lastTouchY: map[ebiten.TouchID]int{},
	}
}

func (in *EbitenInput) now() time.Duration {
	return time.Since(in.start)
}

// Update polls all devices. Call it once per tick from the screen's Update.
func (in *EbitenInput) Update() {
	t := in.now()
	in.updateMouse(t)
	in.updateTouches(t)
	in.updateWheel()
	in.updateKeys()
}

// Reset cancels any gesture in flight, for example when the screen is left
// while a finger is still down.
func (in *EbitenInput) Reset() {
	if in.mouseDown || len(in.touches) > 0 {
		in.Hub.PointerCancel()
	}
	in.mouseDown = false
	in.touches = in.touches[:0]
	clear(in.lastTouchX)
	clear(in.lastTouchY)
}

func mouseButtons() rack.Buttons {
	var b rack.Buttons
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		b |= rack.ButtonPrimary
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		b |= rack.ButtonSecondary
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		b |= rack.ButtonMiddle
	}
	return b
}

func (in *EbitenInput) updateMouse(t time.Duration) {
	x, y := ebiten.CursorPosition()
	ev := rack.PointerEvent{
		ID:      mouseID,
		Kind:    rack.PointerMouse,
		X:       float64(x),
		Y:       float64(y),
		Buttons: mouseButtons(),
		Time:    t,
	}

	if in.mouseDown {
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			in.mouseDown = false
			in.Hub.PointerUp(ev)
			return
		}
		in.Hub.PointerMove(ev)
		return
	}

	pressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle)
	if !pressed || !image.Pt(x, y).In(in.Bounds) {
		return
	}
	if in.Hub.PointerDown(ev) {
		in.mouseDown = true
	}
}

func (in *EbitenInput) updateTouches(t time.Duration) {
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		if !image.Pt(x, y).In(in.Bounds) {
			continue
		}
		ev := touchEvent(id, x, y, t)
		if in.Hub.PointerDown(ev) {
			in.touches = append(in.touches, id)
			in.lastTouchX[id], in.lastTouchY[id] = x, y
		}
	}

	kept := in.touches[:0]
	for _, id := range in.touches {
		if inpututil.IsTouchJustReleased(id) {
			x, y := in.lastTouchX[id], in.lastTouchY[id]
			in.Hub.PointerUp(touchEvent(id, x, y, t))
			delete(in.lastTouchX, id)
			delete(in.lastTouchY, id)
			continue
		}
		x, y := ebiten.TouchPosition(id)
		if x != in.lastTouchX[id] || y != in.lastTouchY[id] {
			in.lastTouchX[id], in.lastTouchY[id] = x, y
			in.Hub.PointerMove(touchEvent(id, x, y, t))
		}
		kept = append(kept, id)
	}
	in.touches = kept
}

func touchEvent(id ebiten.TouchID, x, y int, t time.Duration) rack.PointerEvent {
	return rack.PointerEvent{
		ID:   mouseID + 1 + int(id),
		Kind: rack.PointerTouch,
		X:    float64(x),
		Y:    float64(y),
		Time: t,
	}
}

// updateWheel converts Ebitengine wheel units (positive is up/left) to
// pixel deltas where positive scrolls toward later cards.
func (in *EbitenInput) updateWheel() {
	wx, wy := ebiten.Wheel()
	if wx == 0 && wy == 0 {
		return
	}
	in.Hub.Wheel(-wx*ScrollWheelSpeed, -wy*ScrollWheelSpeed)
}

func (in *EbitenInput) updateKeys() {
	if IsModifierPressed() {
		return
	}
	if inputRepeating(in.Keys.Previous) {
		in.Hub.Key(rack.KeyLeft)
	}
	if inputRepeating(in.Keys.Next) {
		in.Hub.Key(rack.KeyRight)
	}
	if inpututil.IsKeyJustPressed(in.Keys.Open) {
		in.Hub.Key(rack.KeyEnter)
	}
}
