// Package rack implements the card carousel interaction core: a horizontal
// track offset driven by drag, wheel and keyboard input, settling through
// springs or eased coasting, and the per-card styles derived from it.
package rack

import (
	"errors"
	"math"
	"time"
)

// GestureState is the controller's interaction phase.
type GestureState int

const (
	Idle GestureState = iota
	Dragging
	Settling
)

func (s GestureState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Settling:
		return "settling"
	default:
		return "unknown"
	}
}

// Key is a keyboard command understood by the controller.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyEnter
)

// Release and input tuning.
const (
	coastFactor     = 0.4    // s of travel projected from release velocity
	coastRate       = 1500.0 // px/s per second of coast
	minCoast        = 500 * time.Millisecond
	maxCoast        = 2 * time.Second
	flingBias       = 0.04
	maxFlingBias    = 2.0
	springSeedRatio = 0.15

	DefaultTapSlop        = 8.0
	DefaultWheelThreshold = 80.0
)

var snapSpring = SpringProfile{Stiffness: 120, Damping: 18, Mass: 1.2}

// ErrInvalidStride is returned for a zero or negative stride.
var ErrInvalidStride = errors.New("rack: stride must be positive")

// Config holds controller geometry and input thresholds. Zero thresholds
// take the defaults.
type Config struct {
	Stride         float64 // card width + gap, px
	TapSlop        float64 // max pointer travel of a tap, px
	WheelThreshold float64 // accumulated wheel delta per step
}

// Controller owns the track offset and gesture state. It is not safe for
// concurrent use; drive it from the frame loop.
type Controller struct {
	cfg   Config
	count int
	anim  Animator

	offset float64
	state  GestureState
	active int

	startX      float64
	startOffset float64
	travel      float64
	tapArmed    bool
	wheelAccum  float64

	// OnActiveChange is called once for each new active index.
	OnActiveChange func(index int)
	// OnActivate is called when the centered card is tapped or activated.
	OnActivate func(index int)
}

// NewController returns an idle controller over an empty track.
func NewController(cfg Config, anim Animator) (*Controller, error) {
	if !(cfg.Stride > 0) {
		return nil, ErrInvalidStride
	}
	if cfg.TapSlop <= 0 {
		cfg.TapSlop = DefaultTapSlop
	}
	if cfg.WheelThreshold <= 0 {
		cfg.WheelThreshold = DefaultWheelThreshold
	}
	if anim == nil {
		anim = NewFrameAnimator()
	}
	return &Controller{cfg: cfg, anim: anim, active: -1}, nil
}

func (c *Controller) Offset() float64     { return c.offset }
func (c *Controller) State() GestureState { return c.state }
func (c *Controller) Count() int          { return c.count }
func (c *Controller) Stride() float64     { return c.cfg.Stride }
func (c *Controller) WheelAccum() float64 { return c.wheelAccum }
func (c *Controller) Travel() float64     { return c.travel }

// ActiveIndex returns the centered card, or -1 for an empty track. Ties at
// half a stride round away from zero.
func (c *Controller) ActiveIndex() int {
	if c.count == 0 {
		return -1
	}
	return c.clampIndex(int(math.Round(-c.offset / c.cfg.Stride)))
}

// Style returns the style of card index at the current offset. An empty
// track yields the zero Style.
func (c *Controller) Style(index int) Style {
	if c.count == 0 {
		return Style{}
	}
	return StyleFor(c.offset, index, c.cfg.Stride)
}

// SetCount replaces the track length. Any settle animation stops and the
// offset lands on the nearest valid card.
func (c *Controller) SetCount(n int) {
	if n < 0 {
		n = 0
	}
	c.count = n
	if c.state == Settling {
		c.anim.Cancel()
		c.state = Idle
	}
	if c.state == Dragging {
		c.syncActive()
		return
	}
	if n == 0 {
		c.offset = 0
	} else {
		c.offset = -float64(c.ActiveIndex()) * c.cfg.Stride
	}
	c.syncActive()
}

// SetStride updates the stride after a resize, keeping the active card
// centered.
func (c *Controller) SetStride(stride float64) error {
	if !(stride > 0) {
		return ErrInvalidStride
	}
	old := c.cfg.Stride
	c.cfg.Stride = stride
	switch c.state {
	case Dragging:
		ratio := stride / old
		c.offset *= ratio
		c.startOffset *= ratio
	case Settling:
		c.anim.Cancel()
		c.state = Idle
		fallthrough
	default:
		if c.active >= 0 {
			c.offset = -float64(c.active) * stride
		}
	}
	c.syncActive()
	return nil
}

// SetThresholds changes the tap slop and wheel step. Non-positive values
// take the defaults.
func (c *Controller) SetThresholds(tapSlop, wheelThreshold float64) {
	if tapSlop <= 0 {
		tapSlop = DefaultTapSlop
	}
	if wheelThreshold <= 0 {
		wheelThreshold = DefaultWheelThreshold
	}
	c.cfg.TapSlop = tapSlop
	c.cfg.WheelThreshold = wheelThreshold
	c.wheelAccum = 0
}

// GestureStart begins a drag. A running settle animation is cancelled first.
func (c *Controller) GestureStart(pointerX float64) {
	if c.count == 0 {
		return
	}
	if c.state == Settling {
		c.anim.Cancel()
		c.state = Idle
	}
	if c.state != Idle {
		return
	}
	c.startX = pointerX
	c.startOffset = c.offset
	c.travel = 0
	c.tapArmed = false
	c.state = Dragging
}

// GestureMove tracks the pointer 1:1 without clamping.
func (c *Controller) GestureMove(pointerX float64) {
	if c.state != Dragging {
		return
	}
	c.travel = pointerX - c.startX
	c.setOffset(c.startOffset + c.travel)
}

// GestureEnd releases the drag. Coarse pointers coast to a clamped stop;
// fine pointers snap to a card biased by the fling velocity (px/s).
func (c *Controller) GestureEnd(pointerX, velocity float64, coarse bool) {
	if c.state != Dragging {
		return
	}
	c.GestureMove(pointerX)
	c.tapArmed = math.Abs(c.travel) <= c.cfg.TapSlop
	if coarse {
		c.coast(velocity)
		return
	}
	fractional := -c.offset / c.cfg.Stride
	bias := clamp(-(velocity*flingBias)/c.cfg.Stride, -maxFlingBias, maxFlingBias)
	c.snap(int(math.Round(fractional+bias)), velocity*springSeedRatio)
}

// GestureCancel behaves as a zero-velocity fine release. It is a no-op
// unless dragging.
func (c *Controller) GestureCancel() {
	if c.state != Dragging {
		return
	}
	c.tapArmed = false
	c.snap(int(math.Round(-c.offset/c.cfg.Stride)), 0)
}

// Wheel accumulates the dominant axis delta and steps one card each time
// the accumulated magnitude reaches the threshold. It reports whether the
// delta was consumed.
func (c *Controller) Wheel(deltaX, deltaY float64) bool {
	if c.count == 0 || c.state == Dragging {
		return false
	}
	d := deltaX
	if math.Abs(deltaY) > math.Abs(deltaX) {
		d = deltaY
	}
	c.wheelAccum += d
	if math.Abs(c.wheelAccum) < c.cfg.WheelThreshold {
		return true
	}
	step := 1
	if c.wheelAccum < 0 {
		step = -1
	}
	c.wheelAccum = 0
	c.snap(c.ActiveIndex()+step, 0)
	return true
}

// KeyPress handles arrow navigation (no wraparound) and Enter activation.
func (c *Controller) KeyPress(k Key) {
	if c.count == 0 || c.state == Dragging {
		return
	}
	switch k {
	case KeyLeft:
		c.snap(c.ActiveIndex()-1, 0)
	case KeyRight:
		c.snap(c.ActiveIndex()+1, 0)
	case KeyEnter:
		c.Activate()
	}
}

// CardTap handles a tap on card index after a gesture whose travel stayed
// within the tap slop. Tapping the centered card activates it and returns
// true; tapping another card brings it to center. Each gesture yields at
// most one tap.
func (c *Controller) CardTap(index int) bool {
	if c.count == 0 || c.state == Dragging || !c.tapArmed {
		return false
	}
	if index < 0 || index >= c.count {
		return false
	}
	c.tapArmed = false
	if index == c.ActiveIndex() {
		c.Activate()
		return true
	}
	c.snap(index, 0)
	return false
}

// Activate signals activation of the centered card.
func (c *Controller) Activate() {
	idx := c.ActiveIndex()
	if idx < 0 || c.OnActivate == nil {
		return
	}
	c.OnActivate(idx)
}

// SnapTo springs to index, clamped to the track.
func (c *Controller) SnapTo(index int) {
	if c.count == 0 || c.state == Dragging {
		return
	}
	c.snap(index, 0)
}

func (c *Controller) coast(velocity float64) {
	target := clamp(c.offset+velocity*coastFactor, c.minOffset(), 0)
	secs := clamp(math.Abs(velocity)/coastRate, minCoast.Seconds(), maxCoast.Seconds())
	c.state = Settling
	c.anim.Start(c.offset, target, TweenProfile{
		Duration: time.Duration(secs * float64(time.Second)),
	}, c.setOffset, c.settled)
}

func (c *Controller) snap(index int, velocity float64) {
	target := -float64(c.clampIndex(index)) * c.cfg.Stride
	p := snapSpring
	p.Velocity = velocity
	c.state = Settling
	c.anim.Start(c.offset, target, p, c.setOffset, c.settled)
}

func (c *Controller) settled() {
	if c.state == Settling {
		c.state = Idle
	}
}

func (c *Controller) setOffset(v float64) {
	c.offset = v
	c.syncActive()
}

func (c *Controller) syncActive() {
	idx := c.ActiveIndex()
	if idx == c.active {
		return
	}
	c.active = idx
	if idx >= 0 && c.OnActiveChange != nil {
		c.OnActiveChange(idx)
	}
}

func (c *Controller) minOffset() float64 {
	if c.count == 0 {
		return 0
	}
	return -float64(c.count-1) * c.cfg.Stride
}

func (c *Controller) clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i > c.count-1 {
		return c.count - 1
	}
	return i
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
