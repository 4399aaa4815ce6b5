package rack

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = time.Second / 60

func run(fa *FrameAnimator, maxFrames int) int {
	n := 0
	for ; n < maxFrames && fa.Running(); n++ {
		fa.Step(frame)
	}
	return n
}

func TestFrameAnimator_SpringConverges(t *testing.T) {
	fa := NewFrameAnimator()
	var ticks []float64
	done := 0
	fa.Start(0, -288, snapSpring, func(v float64) { ticks = append(ticks, v) }, func() { done++ })

	frames := run(fa, 600)
	require.False(t, fa.Running())
	assert.Less(t, frames, 120, "settles within two seconds")
	assert.Equal(t, 1, done)
	assert.Equal(t, -288.0, ticks[len(ticks)-1])
	assert.Len(t, ticks, frames)
}

func TestFrameAnimator_SpringSeedVelocity(t *testing.T) {
	fa := NewFrameAnimator()
	var first float64
	p := snapSpring
	p.Velocity = -3000
	fa.Start(0, 0, p, func(v float64) {
		if first == 0 {
			first = v
		}
	}, nil)
	fa.Step(frame)
	assert.Less(t, first, 0.0, "initial velocity carries the track past its target")
	run(fa, 600)
	assert.False(t, fa.Running())
}

func TestFrameAnimator_TweenEasesOut(t *testing.T) {
	fa := NewFrameAnimator()
	var ticks []float64
	done := false
	fa.Start(0, 100, TweenProfile{Duration: 500 * time.Millisecond}, func(v float64) {
		ticks = append(ticks, v)
	}, func() { done = true })

	frames := run(fa, 100)
	assert.True(t, done)
	assert.InDelta(t, 30, frames, 1)
	assert.Equal(t, 100.0, ticks[len(ticks)-1])

	for i := 1; i < len(ticks); i++ {
		assert.GreaterOrEqual(t, ticks[i], ticks[i-1], "monotonic")
	}
	// decelerating: the first half of the time covers most of the distance
	assert.Greater(t, ticks[len(ticks)/2], 75.0)
}

func TestFrameAnimator_CancelSkipsDone(t *testing.T) {
	fa := NewFrameAnimator()
	done := false
	fa.Start(0, 100, snapSpring, func(float64) {}, func() { done = true })
	fa.Step(frame)
	fa.Cancel()
	assert.False(t, fa.Running())
	fa.Step(frame)
	assert.False(t, done)
}

func TestFrameAnimator_RestartFromCallback(t *testing.T) {
	fa := NewFrameAnimator()
	var second bool
	fa.Start(0, 10, TweenProfile{Duration: 500 * time.Millisecond}, func(float64) {}, func() {
		fa.Start(10, 20, TweenProfile{Duration: 500 * time.Millisecond}, func(float64) {}, func() { second = true })
	})
	run(fa, 100)
	assert.True(t, second)
}

func TestFrameAnimator_IgnoresNonPositiveStep(t *testing.T) {
	fa := NewFrameAnimator()
	ticks := 0
	fa.Start(0, 100, snapSpring, func(float64) { ticks++ }, nil)
	fa.Step(0)
	fa.Step(-frame)
	assert.Zero(t, ticks)
	assert.True(t, fa.Running())
}
