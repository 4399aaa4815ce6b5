package ui

import (
	"image"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/depeter/lookbook/internal/rack"
)

// cardLayout places track cards on screen. A card at distance d from center
// is centered d strides right of centerX and scaled about its own center.
type cardLayout struct {
	centerX float64
	top     float64
	width   float64
	height  float64
	stride  float64
}

func newCardLayout(cardWidth, stride float64) cardLayout {
	return cardLayout{
		centerX: ScreenWidth / 2,
		top:     CardTopY,
		width:   cardWidth,
		height:  math.Round(cardWidth * CardAspect),
		stride:  stride,
	}
}

// rect returns the on-screen rectangle of a card with style st.
func (l cardLayout) rect(st rack.Style) (x, y, w, h float64) {
	w = l.width * st.Scale
	h = l.height * st.Scale
	cx := l.centerX + st.Distance*l.stride
	cy := l.top + l.height/2
	return cx - w/2, cy - h/2, w, h
}

// bounds is the region where pointer gestures start: the full width of the
// track band.
func (l cardLayout) bounds() image.Rectangle {
	return image.Rect(0, int(l.top), ScreenWidth, int(l.top+l.height))
}

// visible reports whether a card with style st can be seen at all.
func (l cardLayout) visible(st rack.Style) bool {
	if st.Opacity <= 0 {
		return false
	}
	x, _, w, _ := l.rect(st)
	return x+w > 0 && x < ScreenWidth
}

// drawOrder returns card indices back to front: lower stack tiers first and,
// within a tier, cards farther from center first.
func drawOrder(styles []rack.Style) []int {
	order := make([]int, len(styles))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := styles[order[a]], styles[order[b]]
		if sa.Stack != sb.Stack {
			return sa.Stack < sb.Stack
		}
		return math.Abs(sa.Distance) > math.Abs(sb.Distance)
	})
	return order
}

// hitTest returns the topmost visible card under (px, py), or -1.
func (l cardLayout) hitTest(styles []rack.Style, px, py float64) int {
	order := drawOrder(styles)
	for i := len(order) - 1; i >= 0; i-- {
		idx := order[i]
		st := styles[idx]
		if !l.visible(st) {
			continue
		}
		x, y, w, h := l.rect(st)
		if px >= x && px <= x+w && py >= y && py <= y+h {
			return idx
		}
	}
	return -1
}

// maxDots caps the pagination row; longer racks show a window of dots that
// follows the active card.
const maxDots = 9

// dotWindow returns the first index and number of dots to show.
func dotWindow(count, active int) (first, n int) {
	if count <= maxDots {
		return 0, count
	}
	first = active - maxDots/2
	first = max(0, min(first, count-maxDots))
	return first, maxDots
}

// dotsY is the baseline of the pagination row, just under the cards.
func (l cardLayout) dotsY() float64 {
	return l.top + l.height + DotsMargin
}

// dotCenter returns the screen position of the k-th visible dot out of n.
func dotCenter(k, n int, y float64) (float64, float64) {
	rowW := float64(n-1) * DotGap
	return ScreenWidth/2 - rowW/2 + float64(k)*DotGap, y
}

// dotAt returns the track index of the dot under (px, py), or -1.
func dotAt(count, active int, y, px, py float64) int {
	first, n := dotWindow(count, active)
	const slop = DotGap / 2
	for k := 0; k < n; k++ {
		cx, cy := dotCenter(k, n, y)
		if math.Abs(px-cx) <= slop && math.Abs(py-cy) <= slop+4 {
			return first + k
		}
	}
	return -1
}

func drawDots(dst *ebiten.Image, count, active int, y float64) {
	first, n := dotWindow(count, active)
	for k := 0; k < n; k++ {
		cx, cy := dotCenter(k, n, y)
		clr, r := ColorDotInactive, float32(DotRadius)
		if first+k == active {
			clr, r = ColorPrimary, DotRadius+1
		}
		vector.DrawFilledCircle(dst, float32(cx), float32(cy), r, clr, true)
	}
}

// drawCard renders one card: shadow, photo cropped to fill, and opacity.
// lift shifts the card down and fades it for the entrance animation
// (0 = settled).
func drawCard(dst *ebiten.Image, l cardLayout, st rack.Style, img *ebiten.Image, lift float64) {
	x, y, w, h := l.rect(st)
	y += lift * 16
	alpha := float32(st.Opacity * (1 - lift))
	if alpha <= 0 {
		return
	}

	spread := float32(ShadowSpread * st.Shadow)
	shadow := ColorShadow
	shadow.A = uint8(float64(shadow.A) * st.Shadow * float64(alpha))
	vector.DrawFilledRect(dst, float32(x)-spread/2, float32(y)+spread, float32(w)+spread, float32(h), shadow, true)

	if img == nil {
		bg := ColorSurface
		bg.A = uint8(255 * alpha)
		vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), bg, true)
		return
	}
	drawImageCover(dst, img, x, y, w, h, alpha)
}

// drawImageCover draws img scaled to cover the rect, cropping the overflow
// like CSS object-fit: cover.
func drawImageCover(dst, img *ebiten.Image, x, y, w, h float64, alpha float32) {
	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw == 0 || ih == 0 {
		return
	}
	scale := math.Max(w/iw, h/ih)
	cw, ch := w/scale, h/scale
	sx := b.Min.X + int((iw-cw)/2)
	sy := b.Min.Y + int((ih-ch)/2)
	sub := img.SubImage(image.Rect(sx, sy, sx+int(cw), sy+int(ch))).(*ebiten.Image)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleAlpha(alpha)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(sub, op)
}

// drawImageContain draws img scaled to fit inside the rect, centered.
func drawImageContain(dst, img *ebiten.Image, x, y, w, h float64, alpha float32) {
	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw == 0 || ih == 0 {
		return
	}
	scale := math.Min(w/iw, h/ih)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x+(w-iw*scale)/2, y+(h-ih*scale)/2)
	op.ColorScale.ScaleAlpha(alpha)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img, op)
}
