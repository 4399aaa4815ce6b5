package rack

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func TestVelocityTracker(t *testing.T) {
	var vt VelocityTracker
	assert.Zero(t, vt.Velocity())

	vt.Add(0, 0)
	assert.Zero(t, vt.Velocity(), "single sample")

	vt.Add(ms(50), 100)
	assert.InDelta(t, 2000, vt.Velocity(), 1e-6)

	vt.Reset()
	vt.Add(0, 0)
	vt.Add(ms(200), 10)
	vt.Add(ms(250), 60)
	assert.InDelta(t, 1000, vt.Velocity(), 1e-6, "old samples fall out of the window")

	vt.Reset()
	vt.Add(ms(10), 5)
	vt.Add(ms(10), 50)
	assert.Zero(t, vt.Velocity(), "no elapsed time")
}

func newAdapters(t *testing.T, n int) (*Hub, *Controller, *fakeAnimator, *PointerAdapter) {
	t.Helper()
	c, anim := newTestController(t, n)
	hub := NewHub()
	pa := NewPointerAdapter(c)
	pa.Attach(hub)
	NewWheelAdapter(c).Attach(hub)
	NewKeyAdapter(c).Attach(hub)
	return hub, c, anim, pa
}

func TestPointerAdapter_MouseDragSnaps(t *testing.T) {
	hub, c, anim, _ := newAdapters(t, 5)

	require.True(t, hub.PointerDown(PointerEvent{Kind: PointerMouse, X: 400, Buttons: ButtonPrimary}))
	assert.False(t, hub.Capturing(), "not horizontal until past the slop")
	hub.PointerMove(PointerEvent{Kind: PointerMouse, X: 300, Y: 5, Buttons: ButtonPrimary, Time: ms(500)})
	assert.True(t, hub.Capturing())
	assert.Equal(t, -100.0, c.Offset())

	// pause before release: no fling velocity
	hub.PointerUp(PointerEvent{Kind: PointerMouse, X: 240, Time: ms(1000)})
	assert.False(t, hub.Capturing())
	_, isSpring := anim.profile.(SpringProfile)
	assert.True(t, isSpring)
	assert.Equal(t, -testStride, anim.to)
}

func TestPointerAdapter_RejectsSecondaryButtons(t *testing.T) {
	hub, c, _, _ := newAdapters(t, 5)

	assert.False(t, hub.PointerDown(PointerEvent{Kind: PointerMouse, Buttons: ButtonSecondary}))
	assert.False(t, hub.PointerDown(PointerEvent{Kind: PointerMouse, Buttons: ButtonPrimary | ButtonMiddle}))
	assert.Equal(t, Idle, c.State())
}

func TestPointerAdapter_TouchFlingCoasts(t *testing.T) {
	hub, c, anim, _ := newAdapters(t, 5)

	hub.PointerDown(PointerEvent{ID: 3, Kind: PointerTouch, X: 200})
	hub.PointerMove(PointerEvent{ID: 3, Kind: PointerTouch, X: 150, Time: ms(16)})
	hub.PointerMove(PointerEvent{ID: 3, Kind: PointerTouch, X: 100, Time: ms(32)})
	hub.PointerUp(PointerEvent{ID: 3, Kind: PointerTouch, X: 100, Time: ms(48)})

	assert.Equal(t, Settling, c.State())
	_, isTween := anim.profile.(TweenProfile)
	require.True(t, isTween)
	v := -100 / ms(48).Seconds()
	assert.InDelta(t, -100+v*0.4, anim.to, 1e-6)
}

func TestPointerAdapter_IgnoresOtherPointers(t *testing.T) {
	hub, c, _, _ := newAdapters(t, 5)

	hub.PointerDown(PointerEvent{ID: 1, Kind: PointerTouch, X: 200})
	assert.False(t, hub.PointerDown(PointerEvent{ID: 2, Kind: PointerTouch, X: 500}))
	hub.PointerMove(PointerEvent{ID: 2, Kind: PointerTouch, X: 0})
	assert.Equal(t, 0.0, c.Offset())
	hub.PointerUp(PointerEvent{ID: 2, Kind: PointerTouch, X: 0})
	assert.Equal(t, Dragging, c.State())
}

func TestPointerAdapter_TapForwardsHit(t *testing.T) {
	hub, c, anim, pa := newAdapters(t, 5)
	pa.HitTest = func(x, y float64) int {
		if x > 500 {
			return 1
		}
		return 0
	}
	var activated []int
	c.OnActivate = func(i int) { activated = append(activated, i) }

	hub.PointerDown(PointerEvent{Kind: PointerMouse, X: 100, Buttons: ButtonPrimary})
	hub.PointerUp(PointerEvent{Kind: PointerMouse, X: 103, Time: ms(80)})
	assert.Equal(t, []int{0}, activated)

	anim.finish()
	hub.PointerDown(PointerEvent{Kind: PointerMouse, X: 600, Buttons: ButtonPrimary})
	hub.PointerUp(PointerEvent{Kind: PointerMouse, X: 600, Time: ms(80)})
	assert.Equal(t, []int{0}, activated, "off-center tap selects instead of activating")
	assert.Equal(t, -testStride, anim.to)
}

func TestPointerAdapter_DragDoesNotTap(t *testing.T) {
	hub, c, _, pa := newAdapters(t, 5)
	hits := 0
	pa.HitTest = func(x, y float64) int { hits++; return 0 }
	c.OnActivate = func(int) { t.Fatal("drag activated a card") }

	hub.PointerDown(PointerEvent{Kind: PointerMouse, X: 100, Buttons: ButtonPrimary})
	hub.PointerMove(PointerEvent{Kind: PointerMouse, X: 80, Buttons: ButtonPrimary, Time: ms(16)})
	hub.PointerUp(PointerEvent{Kind: PointerMouse, X: 80, Time: ms(32)})
	assert.Zero(t, hits)
}

func TestAdapters_DetachIsSymmetric(t *testing.T) {
	c, _ := newTestController(t, 5)
	hub := NewHub()
	pa, wa, ka := NewPointerAdapter(c), NewWheelAdapter(c), NewKeyAdapter(c)
	pa.Attach(hub)
	wa.Attach(hub)
	ka.Attach(hub)
	assert.Equal(t, 3, hub.Attached())

	hub.PointerDown(PointerEvent{Kind: PointerTouch, X: 10})
	require.Equal(t, Dragging, c.State())

	pa.Detach(hub)
	wa.Detach(hub)
	ka.Detach(hub)
	assert.Zero(t, hub.Attached())
	assert.Equal(t, Settling, c.State(), "detaching cancels the drag")

	assert.False(t, hub.Wheel(0, 500))
	hub.Key(KeyRight)
	assert.False(t, hub.PointerDown(PointerEvent{Kind: PointerTouch}))
}

func TestHub_WheelAndKeys(t *testing.T) {
	hub, c, anim, _ := newAdapters(t, 5)

	assert.True(t, hub.Wheel(0, 100))
	assert.Equal(t, -testStride, anim.to)
	anim.finish()

	hub.Key(KeyLeft)
	anim.finish()
	assert.Equal(t, 0, c.ActiveIndex())

	hub.PointerDown(PointerEvent{Kind: PointerTouch, X: 0})
	assert.False(t, hub.Wheel(0, 100), "wheel is not consumed while dragging")
}
