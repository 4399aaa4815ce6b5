package ui

// ScrollState provides reusable vertical scroll tracking with smooth animation.
// Embed this struct in screens that need scrollable content.
type ScrollState struct {
	ScrollY       float64
	TargetScrollY float64
	MaxScrollY    float64
}

// HandleMouseWheel updates the target scroll position from mouse wheel input.
func (s *ScrollState) HandleMouseWheel() {
	_, wy := MouseWheelDelta()
	s.ScrollBy(-wy * ScrollWheelSpeed)
}

// ScrollBy moves the target by dy, clamped to the content.
func (s *ScrollState) ScrollBy(dy float64) {
	if dy == 0 {
		return
	}
	s.TargetScrollY = clampScroll(s.TargetScrollY+dy, s.MaxScrollY)
}

// SetContentHeight records the scrollable extent for a viewport.
func (s *ScrollState) SetContentHeight(content, viewHeight float64) {
	s.MaxScrollY = max(content-viewHeight, 0)
	s.TargetScrollY = clampScroll(s.TargetScrollY, s.MaxScrollY)
}

// Animate performs smooth scroll interpolation. Call this from Draw().
func (s *ScrollState) Animate() {
	s.ScrollY = Lerp(s.ScrollY, s.TargetScrollY, ScrollAnimSpeed)
}

// Reset sets scroll position back to top.
func (s *ScrollState) Reset() {
	s.ScrollY = 0
	s.TargetScrollY = 0
}

// EnsureRowVisible scrolls to make the given row index visible in a grid layout.
// gridBaseY is the top of the grid area (without scroll offset applied).
// viewHeight is the visible viewport height.
func (s *ScrollState) EnsureRowVisible(row int, rowHeight, gridBaseY, viewHeight float64) {
	rowTop := gridBaseY + float64(row)*rowHeight
	rowBottom := rowTop + rowHeight

	if rowBottom > viewHeight+s.TargetScrollY {
		s.TargetScrollY = rowBottom - viewHeight
	}
	if rowTop-gridBaseY < s.TargetScrollY {
		s.TargetScrollY = max(rowTop-gridBaseY, 0)
	}
}

func clampScroll(v, maxV float64) float64 {
	if v < 0 {
		return 0
	}
	if maxV > 0 && v > maxV {
		return maxV
	}
	return v
}
