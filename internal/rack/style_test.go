package rack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyleFor_CenteredCard(t *testing.T) {
	for _, stride := range []float64{1, 100, 288, 1234.5} {
		for index := 0; index < 4; index++ {
			offset := -float64(index) * stride
			s := StyleFor(offset, index, stride)
			assert.Equal(t, 1.0, s.Scale)
			assert.Equal(t, 1.0, s.Opacity)
			assert.Equal(t, TierTop, s.Stack)
			assert.Equal(t, ShadowStrong, s.Shadow)
		}
	}
}

func TestStyleFor_Curves(t *testing.T) {
	tests := []struct {
		distance float64
		scale    float64
		opacity  float64
		stack    StackTier
		shadow   float64
	}{
		{-3, 0.82, 0, TierBottom, ShadowWeak},
		{-2, 0.82, 0, TierBottom, ShadowWeak},
		{-1.5, 0.82, 0.6, TierBottom, ShadowWeak},
		{-1, 0.85, 0.675, TierLow, ShadowWeak},
		{-0.5, 0.925, 0.75, TierMid, ShadowWeak},
		{-0.25, 0.9625, 0.875, TierTop, ShadowStrong},
		{0.25, 0.9625, 0.875, TierTop, ShadowStrong},
		{0.5, 0.925, 0.75, TierMid, ShadowWeak},
		{1, 0.85, 0.675, TierLow, ShadowWeak},
		{1.25, 0.835, 0.6375, TierLow, ShadowWeak},
		{1.75, 0.82, 0.3, TierBottom, ShadowWeak},
		{2.5, 0.82, 0, TierBottom, ShadowWeak},
	}
	const stride = 288.0
	for _, tt := range tests {
		// card 0 at distance d sits at offset d*stride
		s := StyleFor(tt.distance*stride, 0, stride)
		assert.InDelta(t, tt.distance, s.Distance, 1e-9, "distance")
		assert.InDelta(t, tt.scale, s.Scale, 1e-9, "scale at %v", tt.distance)
		assert.InDelta(t, tt.opacity, s.Opacity, 1e-9, "opacity at %v", tt.distance)
		assert.Equal(t, tt.stack, s.Stack, "stack at %v", tt.distance)
		assert.Equal(t, tt.shadow, s.Shadow, "shadow at %v", tt.distance)
	}
}

func TestStyleFor_StackBoundaries(t *testing.T) {
	assert.Equal(t, TierMid, styleAtDistance(0.3).Stack)
	assert.Equal(t, TierLow, styleAtDistance(-0.8).Stack)
	assert.Equal(t, TierBottom, styleAtDistance(1.3).Stack)
	assert.Equal(t, ShadowWeak, styleAtDistance(0.3).Shadow)
}
