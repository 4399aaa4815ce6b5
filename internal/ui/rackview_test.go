package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/depeter/lookbook/internal/rack"
)

func testLayout() cardLayout {
	return newCardLayout(264, 288)
}

func stylesAt(active, count int, stride float64) []rack.Style {
	styles := make([]rack.Style, count)
	for i := range styles {
		styles[i] = rack.StyleFor(-float64(active)*stride, i, stride)
	}
	return styles
}

func TestCardLayoutRect(t *testing.T) {
	l := testLayout()
	x, y, w, h := l.rect(rack.StyleFor(0, 0, 288))
	assert.Equal(t, 83.0, x)
	assert.Equal(t, float64(CardTopY), y)
	assert.Equal(t, 264.0, w)
	assert.Equal(t, 352.0, h)

	// Neighbours are scaled about their own center.
	x, y, w, h = l.rect(rack.StyleFor(0, 1, 288))
	assert.InDelta(t, 264*0.85, w, 1e-9)
	assert.InDelta(t, 215+288-w/2, x, 1e-9)
	assert.InDelta(t, CardTopY+176-h/2, y, 1e-9)
}

func TestCardLayoutVisible(t *testing.T) {
	l := testLayout()
	styles := stylesAt(2, 6, 288)
	assert.False(t, l.visible(styles[0]), "two cards away is fully transparent")
	assert.True(t, l.visible(styles[1]))
	assert.True(t, l.visible(styles[2]))
	assert.True(t, l.visible(styles[3]))
	assert.False(t, l.visible(styles[5]))
}

func TestDrawOrderBackToFront(t *testing.T) {
	styles := stylesAt(2, 5, 288)
	assert.Equal(t, []int{0, 4, 1, 3, 2}, drawOrder(styles))
}

func TestCardLayoutHitTest(t *testing.T) {
	l := testLayout()
	styles := stylesAt(0, 3, 288)

	assert.Equal(t, 0, l.hitTest(styles, 215, 300))
	assert.Equal(t, 1, l.hitTest(styles, 420, 300))
	assert.Equal(t, -1, l.hitTest(styles, 215, 60), "above the track")
	assert.Equal(t, -1, l.hitTest(nil, 215, 300))
}

func TestDotWindow(t *testing.T) {
	tests := []struct {
		count, active int
		first, n      int
	}{
		{0, -1, 0, 0},
		{5, 2, 0, 5},
		{9, 8, 0, 9},
		{20, 0, 0, 9},
		{20, 10, 6, 9},
		{20, 19, 11, 9},
	}
	for _, tt := range tests {
		first, n := dotWindow(tt.count, tt.active)
		assert.Equal(t, tt.first, first, "count=%d active=%d", tt.count, tt.active)
		assert.Equal(t, tt.n, n, "count=%d active=%d", tt.count, tt.active)
	}
}

func TestDotAt(t *testing.T) {
	const y = 500.0
	// Five dots centered on the screen, DotGap apart.
	assert.Equal(t, 2, dotAt(5, 0, y, ScreenWidth/2, y))
	assert.Equal(t, 0, dotAt(5, 0, y, ScreenWidth/2-2*DotGap, y+3))
	assert.Equal(t, -1, dotAt(5, 0, y, ScreenWidth/2, y+20))
	assert.Equal(t, -1, dotAt(5, 0, y, ScreenWidth/2+4*DotGap, y))

	// With a window the dot maps back to its track index.
	assert.Equal(t, 10, dotAt(20, 10, y, ScreenWidth/2, y))
	assert.Equal(t, 6, dotAt(20, 10, y, ScreenWidth/2-4*DotGap, y))
}
