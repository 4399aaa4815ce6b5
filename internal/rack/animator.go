package rack

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Profile describes how an animation moves from its start to its target.
// It is either a SpringProfile or a TweenProfile.
type Profile interface {
	motion(from, to float64) motion
}

// SpringProfile settles with a damped spring seeded with an initial velocity.
type SpringProfile struct {
	Stiffness float64
	Damping   float64
	Mass      float64
	Velocity  float64 // px/s
}

// TweenProfile moves over a fixed duration along an easing curve.
type TweenProfile struct {
	Duration time.Duration
	Ease     ease.TweenFunc // nil means ease.OutCubic
}

// Animator drives Offset toward a target over time. The controller only
// issues targets; stepping belongs to the host frame loop.
type Animator interface {
	// Start replaces any running animation. onTick receives every
	// intermediate value; onDone runs once after the final tick.
	Start(from, to float64, p Profile, onTick func(float64), onDone func())
	// Cancel stops the running animation without calling onDone.
	Cancel()
	Running() bool
}

// Spring rest thresholds.
const (
	restDistance = 0.5 // px
	restVelocity = 5.0 // px/s
)

type motion interface {
	step(dt float64) (pos float64, done bool)
}

// FrameAnimator is an Animator stepped explicitly, once per frame.
type FrameAnimator struct {
	cur    motion
	onTick func(float64)
	onDone func()
}

// NewFrameAnimator returns an idle animator.
func NewFrameAnimator() *FrameAnimator {
	return &FrameAnimator{}
}

func (fa *FrameAnimator) Start(from, to float64, p Profile, onTick func(float64), onDone func()) {
	fa.cur = p.motion(from, to)
	fa.onTick = onTick
	fa.onDone = onDone
}

func (fa *FrameAnimator) Cancel() {
	fa.cur = nil
	fa.onTick = nil
	fa.onDone = nil
}

func (fa *FrameAnimator) Running() bool { return fa.cur != nil }

// Step advances the running animation by dt. Callbacks may start or cancel
// animations on this animator.
func (fa *FrameAnimator) Step(dt time.Duration) {
	if fa.cur == nil || dt <= 0 {
		return
	}
	cur, onTick, onDone := fa.cur, fa.onTick, fa.onDone
	pos, done := cur.step(dt.Seconds())
	if done {
		fa.Cancel()
	}
	if onTick != nil {
		onTick(pos)
	}
	if done && onDone != nil {
		onDone()
	}
}

func (p SpringProfile) motion(from, to float64) motion {
	mass := p.Mass
	if mass <= 0 {
		mass = 1
	}
	return &springMotion{
		omega:  math.Sqrt(p.Stiffness / mass),
		zeta:   p.Damping / (2 * math.Sqrt(p.Stiffness*mass)),
		pos:    from,
		vel:    p.Velocity,
		target: to,
	}
}

type springMotion struct {
	omega, zeta float64
	pos, vel    float64
	target      float64

	// harmonica precomputes coefficients per time step
	spring harmonica.Spring
	dt     float64
}

func (m *springMotion) step(dt float64) (float64, bool) {
	if dt != m.dt {
		m.spring = harmonica.NewSpring(dt, m.omega, m.zeta)
		m.dt = dt
	}
	m.pos, m.vel = m.spring.Update(m.pos, m.vel, m.target)
	if math.Abs(m.pos-m.target) < restDistance && math.Abs(m.vel) < restVelocity {
		m.pos, m.vel = m.target, 0
		return m.target, true
	}
	return m.pos, false
}

func (p TweenProfile) motion(from, to float64) motion {
	fn := p.Ease
	if fn == nil {
		fn = ease.OutCubic
	}
	return &tweenMotion{
		tween: gween.New(float32(from), float32(to), float32(p.Duration.Seconds()), fn),
		to:    to,
	}
}

type tweenMotion struct {
	tween *gween.Tween
	to    float64
}

func (m *tweenMotion) step(dt float64) (float64, bool) {
	v, done := m.tween.Update(float32(dt))
	if done {
		return m.to, true
	}
	return float64(v), false
}
