package ui

import "image/color"

// Colors: warm dark theme, a rack of clothes under low light
var (
	ColorBackground    = color.RGBA{R: 0x12, G: 0x11, B: 0x10, A: 0xFF}
	ColorSurface       = color.RGBA{R: 0x1F, G: 0x1D, B: 0x1B, A: 0xFF}
	ColorSurfaceHover  = color.RGBA{R: 0x2B, G: 0x28, B: 0x25, A: 0xFF}
	ColorPrimary       = color.RGBA{R: 0xE8, G: 0xDF, B: 0xD2, A: 0xFF} // bone
	ColorPrimaryDark   = color.RGBA{R: 0xB9, G: 0xAE, B: 0x9F, A: 0xFF}
	ColorAccent        = color.RGBA{R: 0xC8, G: 0x7C, B: 0x4A, A: 0xFF} // rust
	ColorText          = color.RGBA{R: 0xEE, G: 0xEA, B: 0xE4, A: 0xFF}
	ColorTextSecondary = color.RGBA{R: 0x9C, G: 0x96, B: 0x8E, A: 0xFF}
	ColorTextMuted     = color.RGBA{R: 0x64, G: 0x5F, B: 0x59, A: 0xFF}
	ColorFocusBorder   = color.RGBA{R: 0xE8, G: 0xDF, B: 0xD2, A: 0xFF}
	ColorOverlay       = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xC0}
	ColorShadow        = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0x90}
	ColorError         = color.RGBA{R: 0xE0, G: 0x5A, B: 0x4A, A: 0xFF}
	ColorSuccess       = color.RGBA{R: 0x7C, G: 0xB8, B: 0x7A, A: 0xFF}
	ColorDotInactive   = color.RGBA{R: 0x4A, G: 0x46, B: 0x42, A: 0xFF}
)

// Layout constants. The logical screen is portrait, sized for a phone held
// upright or a narrow desktop window.
const (
	ScreenWidth  = 430
	ScreenHeight = 860

	SectionPadding = 20
	HeaderHeight   = 64

	CardAspect     = 4.0 / 3.0 // height / width
	CardTopY       = 120
	ShadowSpread   = 10
	DotRadius      = 3.5
	DotGap         = 12
	DotsMargin     = 36
	AddButtonSize  = 56
	AddButtonInset = 24

	GridColumns = 3
	GridGap     = 6

	FontSizeTitle   = 24
	FontSizeHeading = 18
	FontSizeBody    = 15
	FontSizeSmall   = 13
	FontSizeCaption = 11

	ScrollAnimSpeed = 0.18

	// ScrollWheelSpeed is pixels per mouse wheel scroll unit.
	ScrollWheelSpeed = 60
)
