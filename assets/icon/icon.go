package icon

import (
	"image"
	"image/color"
	"math"
)

// Theme colors from the app
var (
	darkBG   = color.RGBA{R: 0x12, G: 0x11, B: 0x10, A: 0xFF}
	bone     = color.RGBA{R: 0xE8, G: 0xDF, B: 0xD2, A: 0xFF}
	rust     = color.RGBA{R: 0xC8, G: 0x7C, B: 0x4A, A: 0xFF}
	sand     = color.RGBA{R: 0xB9, G: 0xAE, B: 0x9F, A: 0xFF}
	railCol  = color.RGBA{R: 0x9C, G: 0x96, B: 0x8E, A: 0xFF}
	shadowBG = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0x60}
)

// Generate returns 64x64 and 32x32 icon images for use with ebiten.SetWindowIcon.
func Generate() []image.Image {
	return []image.Image{
		generate(64),
		generate(32),
	}
}

func generate(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float64(size)

	fillRect(img, 0, 0, size, size, darkBG)
	drawRack(img, s)

	// Three garments, the middle one in front like the centered card
	drawGarment(img, s*0.27, s, sand, 0.85)
	drawGarment(img, s*0.73, s, rust, 0.85)
	drawGarment(img, s*0.50, s, bone, 1.0)

	return img
}

// drawRack draws the rail and its two legs.
func drawRack(img *image.RGBA, s float64) {
	w := math.Max(1, s*0.03)
	strokeLine(img, s*0.10, s*0.16, s*0.90, s*0.16, w, railCol)
	strokeLine(img, s*0.12, s*0.16, s*0.12, s*0.90, w, railCol)
	strokeLine(img, s*0.88, s*0.16, s*0.88, s*0.90, w, railCol)
	strokeLine(img, s*0.05, s*0.90, s*0.19, s*0.90, w, railCol)
	strokeLine(img, s*0.81, s*0.90, s*0.95, s*0.90, w, railCol)
}

// drawGarment draws a hanger hook and a shirt body centered at cx, scaled by
// scale.
func drawGarment(img *image.RGBA, cx, s float64, c color.Color, scale float64) {
	top := s * 0.16
	hook := s * 0.08 * scale
	w := math.Max(1, s*0.02)

	// Hook and shoulders
	strokeLine(img, cx, top, cx, top+hook, w, railCol)
	shoulderY := top + hook
	half := s * 0.15 * scale
	strokeLine(img, cx, shoulderY, cx-half, shoulderY+s*0.06*scale, w, railCol)
	strokeLine(img, cx, shoulderY, cx+half, shoulderY+s*0.06*scale, w, railCol)

	// Body with a soft drop shadow
	bodyY := shoulderY + s*0.04*scale
	bodyW := half * 1.7
	bodyH := s * 0.44 * scale
	fillRoundedRect(img, cx-bodyW/2+s*0.02, bodyY+s*0.02, bodyW, bodyH, s*0.04, shadowBG)
	fillRoundedRect(img, cx-bodyW/2, bodyY, bodyW, bodyH, s*0.04, c)

	// Sleeves
	fillRoundedRect(img, cx-half-s*0.02, bodyY, s*0.07*scale, bodyH*0.45, s*0.02, c)
	fillRoundedRect(img, cx+half-s*0.05*scale, bodyY, s*0.07*scale, bodyH*0.45, s*0.02, c)
}

// strokeLine draws a line of width w by stamping circles along it.
func strokeLine(img *image.RGBA, x0, y0, x1, y1, w float64, c color.Color) {
	steps := int(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		fillCircle(img, x0+(x1-x0)*t, y0+(y1-y0)*t, w/2, c)
	}
}

func fillRect(img *image.RGBA, x0, y0, w, h int, c color.Color) {
	bounds := img.Bounds()
	for y := y0; y < y0+h && y < bounds.Max.Y; y++ {
		for x := x0; x < x0+w && x < bounds.Max.X; x++ {
			if x >= 0 && y >= 0 {
				blendPixel(img, x, y, c)
			}
		}
	}
}

func fillRoundedRect(img *image.RGBA, xf, yf, wf, hf, rf float64, c color.Color) {
	x0 := int(xf)
	y0 := int(yf)
	x1 := int(xf + wf)
	y1 := int(yf + hf)
	r := rf
	bounds := img.Bounds()

	for y := y0; y <= y1 && y < bounds.Max.Y; y++ {
		for x := x0; x <= x1 && x < bounds.Max.X; x++ {
			if x < 0 || y < 0 {
				continue
			}
			// Check if inside rounded rect
			fx := float64(x)
			fy := float64(y)
			inside := true

			// Check corners
			if fx < xf+r && fy < yf+r {
				// Top-left corner
				dx := xf + r - fx
				dy := yf + r - fy
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx > xf+wf-r && fy < yf+r {
				// Top-right corner
				dx := fx - (xf + wf - r)
				dy := yf + r - fy
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx < xf+r && fy > yf+hf-r {
				// Bottom-left corner
				dx := xf + r - fx
				dy := fy - (yf + hf - r)
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx > xf+wf-r && fy > yf+hf-r {
				// Bottom-right corner
				dx := fx - (xf + wf - r)
				dy := fy - (yf + hf - r)
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			}

			if inside {
				blendPixel(img, x, y, c)
			}
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, r float64, c color.Color) {
	bounds := img.Bounds()
	x0 := int(cx - r)
	y0 := int(cy - r)
	x1 := int(cx + r + 1)
	y1 := int(cy + r + 1)
	r2 := r * r

	for y := y0; y <= y1 && y < bounds.Max.Y; y++ {
		for x := x0; x <= x1 && x < bounds.Max.X; x++ {
			if x < 0 || y < 0 {
				continue
			}
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= r2 {
				blendPixel(img, x, y, c)
			}
		}
	}
}

// blendPixel alpha-blends color c onto the existing pixel at (x, y).
func blendPixel(img *image.RGBA, x, y int, c color.Color) {
	r0, g0, b0, a0 := c.RGBA()
	if a0 == 0 {
		return
	}
	if a0 == 0xFFFF {
		img.Set(x, y, c)
		return
	}

	// Existing pixel
	existing := img.RGBAAt(x, y)
	er := uint32(existing.R) * 257
	eg := uint32(existing.G) * 257
	eb := uint32(existing.B) * 257

	// Alpha blend
	alpha := a0
	invAlpha := 0xFFFF - alpha
	nr := (r0*alpha + er*invAlpha) / 0xFFFF
	ng := (g0*alpha + eg*invAlpha) / 0xFFFF
	nb := (b0*alpha + eb*invAlpha) / 0xFFFF

	img.SetRGBA(x, y, color.RGBA{
		R: uint8(nr >> 8),
		G: uint8(ng >> 8),
		B: uint8(nb >> 8),
		A: 0xFF,
	})
}
