package rack

import (
	"math"
	"slices"
	"time"
)

// PointerKind classifies the device behind a pointer event.
type PointerKind int

const (
	PointerMouse PointerKind = iota
	PointerTouch
	PointerPen
)

// Coarse reports whether the pointer uses the touch release path.
func (k PointerKind) Coarse() bool { return k == PointerTouch }

// Buttons is a mask of pressed mouse buttons.
type Buttons uint8

const (
	ButtonPrimary Buttons = 1 << iota
	ButtonSecondary
	ButtonMiddle
)

// PointerEvent is a platform-neutral pointer sample.
type PointerEvent struct {
	ID      int
	Kind    PointerKind
	X, Y    float64
	Buttons Buttons
	Time    time.Duration // monotonic timestamp
}

// Hub fans platform input out to attached adapters. Adapters register and
// unregister themselves with Attach and Detach.
type Hub struct {
	pointers []*PointerAdapter
	wheels   []*WheelAdapter
	keys     []*KeyAdapter
}

// NewHub returns a hub with no adapters attached.
func NewHub() *Hub {
	return &Hub{}
}

// PointerDown dispatches to the first adapter that claims the pointer.
func (h *Hub) PointerDown(ev PointerEvent) bool {
	for _, a := range slices.Clone(h.pointers) {
		if a.Down(ev) {
			return true
		}
	}
	return false
}

func (h *Hub) PointerMove(ev PointerEvent) {
	for _, a := range slices.Clone(h.pointers) {
		a.Move(ev)
	}
}

func (h *Hub) PointerUp(ev PointerEvent) {
	for _, a := range slices.Clone(h.pointers) {
		a.Up(ev)
	}
}

func (h *Hub) PointerCancel() {
	for _, a := range slices.Clone(h.pointers) {
		a.Cancel()
	}
}

// Wheel reports whether any adapter consumed the delta.
func (h *Hub) Wheel(dx, dy float64) bool {
	consumed := false
	for _, a := range slices.Clone(h.wheels) {
		if a.HandleWheel(dx, dy) {
			consumed = true
		}
	}
	return consumed
}

func (h *Hub) Key(k Key) {
	for _, a := range slices.Clone(h.keys) {
		a.HandleKey(k)
	}
}

// Capturing reports whether a horizontal drag is in progress, in which case
// the host should not scroll vertically.
func (h *Hub) Capturing() bool {
	for _, a := range slices.Clone(h.pointers) {
		if a.Capturing() {
			return true
		}
	}
	return false
}

// Attached reports the number of attached adapters.
func (h *Hub) Attached() int {
	return len(h.pointers) + len(h.wheels) + len(h.keys)
}

// PointerAdapter turns pointer events into drag gestures and card taps.
type PointerAdapter struct {
	ctrl *Controller
	hub  *Hub

	// HitTest maps a point to the card under it, or -1.
	HitTest func(x, y float64) int

	tracker    VelocityTracker
	down       bool
	id         int
	kind       PointerKind
	downX      float64
	downY      float64
	horizontal bool
}

func NewPointerAdapter(ctrl *Controller) *PointerAdapter {
	return &PointerAdapter{ctrl: ctrl}
}

func (a *PointerAdapter) Attach(h *Hub) {
	if a.hub != nil {
		a.Detach(a.hub)
	}
	h.pointers = append(h.pointers, a)
	a.hub = h
}

// Detach unregisters the adapter, cancelling any gesture in flight.
func (a *PointerAdapter) Detach(h *Hub) {
	a.Cancel()
	h.pointers = slices.DeleteFunc(h.pointers, func(p *PointerAdapter) bool { return p == a })
	if a.hub == h {
		a.hub = nil
	}
}

// Down starts tracking a pointer. Mouse drags start only with the primary
// button alone; one pointer is tracked at a time.
func (a *PointerAdapter) Down(ev PointerEvent) bool {
	if a.down {
		return false
	}
	if ev.Kind == PointerMouse && ev.Buttons != ButtonPrimary {
		return false
	}
	a.down = true
	a.id = ev.ID
	a.kind = ev.Kind
	a.downX, a.downY = ev.X, ev.Y
	a.horizontal = false
	a.tracker.Reset()
	a.tracker.Add(ev.Time, ev.X)
	a.ctrl.GestureStart(ev.X)
	return true
}

func (a *PointerAdapter) Move(ev PointerEvent) {
	if !a.down || ev.ID != a.id {
		return
	}
	a.tracker.Add(ev.Time, ev.X)
	dx, dy := math.Abs(ev.X-a.downX), math.Abs(ev.Y-a.downY)
	if !a.horizontal && dx > a.ctrl.cfg.TapSlop && dx >= dy {
		a.horizontal = true
	}
	a.ctrl.GestureMove(ev.X)
}

// Up releases the gesture and forwards a tap when the pointer barely moved.
func (a *PointerAdapter) Up(ev PointerEvent) {
	if !a.down || ev.ID != a.id {
		return
	}
	a.tracker.Add(ev.Time, ev.X)
	a.down = false
	a.horizontal = false
	a.ctrl.GestureEnd(ev.X, a.tracker.Velocity(), a.kind.Coarse())
	if a.HitTest == nil || math.Abs(ev.X-a.downX) > a.ctrl.cfg.TapSlop {
		return
	}
	if idx := a.HitTest(ev.X, ev.Y); idx >= 0 {
		a.ctrl.CardTap(idx)
	}
}

func (a *PointerAdapter) Cancel() {
	if !a.down {
		return
	}
	a.down = false
	a.horizontal = false
	a.ctrl.GestureCancel()
}

func (a *PointerAdapter) Capturing() bool { return a.down && a.horizontal }

// WheelAdapter forwards wheel deltas to the controller.
type WheelAdapter struct {
	ctrl *Controller
}

func NewWheelAdapter(ctrl *Controller) *WheelAdapter {
	return &WheelAdapter{ctrl: ctrl}
}

func (a *WheelAdapter) Attach(h *Hub) { h.wheels = append(h.wheels, a) }

func (a *WheelAdapter) Detach(h *Hub) {
	h.wheels = slices.DeleteFunc(h.wheels, func(w *WheelAdapter) bool { return w == a })
}

func (a *WheelAdapter) HandleWheel(dx, dy float64) bool {
	return a.ctrl.Wheel(dx, dy)
}

// KeyAdapter forwards keyboard commands to the controller.
type KeyAdapter struct {
	ctrl *Controller
}

func NewKeyAdapter(ctrl *Controller) *KeyAdapter {
	return &KeyAdapter{ctrl: ctrl}
}

func (a *KeyAdapter) Attach(h *Hub) { h.keys = append(h.keys, a) }

func (a *KeyAdapter) Detach(h *Hub) {
	h.keys = slices.DeleteFunc(h.keys, func(k *KeyAdapter) bool { return k == a })
}

func (a *KeyAdapter) HandleKey(k Key) {
	if k == KeyNone {
		return
	}
	a.ctrl.KeyPress(k)
}

// velocityWindow bounds the samples used for release velocity.
const velocityWindow = 100 * time.Millisecond

type sample struct {
	t time.Duration
	x float64
}

// VelocityTracker estimates horizontal pointer velocity over the most recent
// samples.
type VelocityTracker struct {
	samples []sample
}

func (vt *VelocityTracker) Reset() { vt.samples = vt.samples[:0] }

func (vt *VelocityTracker) Add(t time.Duration, x float64) {
	vt.samples = append(vt.samples, sample{t: t, x: x})
	cutoff := t - velocityWindow
	i := 0
	for i < len(vt.samples)-1 && vt.samples[i].t < cutoff {
		i++
	}
	if i > 0 {
		vt.samples = append(vt.samples[:0], vt.samples[i:]...)
	}
}

// Velocity returns px/s across the retained window, or 0 with fewer than two
// distinct samples.
func (vt *VelocityTracker) Velocity() float64 {
	if len(vt.samples) < 2 {
		return 0
	}
	first, last := vt.samples[0], vt.samples[len(vt.samples)-1]
	dt := (last.t - first.t).Seconds()
	if dt <= 0 {
		return 0
	}
	return (last.x - first.x) / dt
}
