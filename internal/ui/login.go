package ui

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const loginFieldCount = 4

// LoginScreen collects the project URL, anon key and the vendor's
// credentials.
type LoginScreen struct {
	Error string
	Busy  bool

	fields     [loginFieldCount]TextInput
	labels     [loginFieldCount]string
	fieldIndex int // loginFieldCount = sign in button

	fieldRects [loginFieldCount]ButtonRect
	buttonRect ButtonRect
	errDisplay ErrorDisplay

	OnLogin func(projectURL, anonKey, email, password string)
}

func NewLoginScreen(projectURL, anonKey, email string, onLogin func(projectURL, anonKey, email, password string)) *LoginScreen {
	ls := &LoginScreen{OnLogin: onLogin}
	ls.fields[0] = NewTextInput(projectURL)
	ls.fields[1] = NewTextInput(anonKey)
	ls.fields[2] = NewTextInput(email)
	ls.fields[3].Masked = true
	ls.labels = [loginFieldCount]string{"project url", "anon key", "email", "password"}

	// Skip straight to the first empty field.
	for i := range ls.fields {
		if ls.fields[i].Text == "" {
			ls.fieldIndex = i
			break
		}
	}
	return ls
}

func (ls *LoginScreen) Name() string { return "Login" }
func (ls *LoginScreen) OnEnter()     {}
func (ls *LoginScreen) OnExit()      {}

// Values returns the trimmed field contents.
func (ls *LoginScreen) Values() (projectURL, anonKey, email, password string) {
	return strings.TrimSpace(ls.fields[0].Text),
		strings.TrimSpace(ls.fields[1].Text),
		strings.TrimSpace(ls.fields[2].Text),
		ls.fields[3].Text
}

// canSubmit reports whether every field has a value.
func (ls *LoginScreen) canSubmit() bool {
	p, k, e, pw := ls.Values()
	return p != "" && k != "" && e != "" && pw != ""
}

func (ls *LoginScreen) submit() {
	if ls.Busy || !ls.canSubmit() || ls.OnLogin == nil {
		return
	}
	ls.Error = ""
	ls.OnLogin(ls.Values())
}

func (ls *LoginScreen) Update() (*ScreenTransition, error) {
	if mx, my, ok := MouseJustClicked(); ok {
		if ls.errDisplay.HandleClick(mx, my, ls.Error) {
			return nil, nil
		}
		for i, r := range ls.fieldRects {
			if r.Contains(mx, my) {
				ls.fieldIndex = i
			}
		}
		if ls.buttonRect.Contains(mx, my) {
			ls.fieldIndex = loginFieldCount
			ls.submit()
			return nil, nil
		}
	}

	if ls.Busy {
		return nil, nil
	}

	if ls.fieldIndex < loginFieldCount {
		ls.fields[ls.fieldIndex].Update()
	}

	// Navigation
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyTab) && shift, inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		ls.fieldIndex = (ls.fieldIndex + loginFieldCount) % (loginFieldCount + 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyTab), inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		ls.fieldIndex = (ls.fieldIndex + 1) % (loginFieldCount + 1)
	}

	// Submit
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && !IsModifierPressed() {
		if ls.canSubmit() {
			ls.submit()
		} else if ls.fieldIndex < loginFieldCount {
			ls.fieldIndex++
		}
	}

	return nil, nil
}

func (ls *LoginScreen) Draw(dst *ebiten.Image) {
	dst.Fill(ColorBackground)

	cx := float64(ScreenWidth) / 2
	cy := float64(ScreenHeight)/2 - 180

	DrawTextCentered(dst, "lookbook", cx, cy-80, FontSizeTitle+8, ColorPrimary)
	DrawTextCentered(dst, "sign in to your rack", cx, cy-40, FontSizeBody, ColorTextSecondary)

	fieldW := float32(ScreenWidth - 2*SectionPadding - 20)
	fieldH := float32(44)
	startY := float32(cy)

	for i := range ls.fields {
		fy := startY + float32(i)*70
		fx := float32(cx) - fieldW/2
		ls.fieldRects[i] = ButtonRect{X: float64(fx), Y: float64(fy), W: float64(fieldW), H: float64(fieldH)}

		DrawText(dst, ls.labels[i], float64(fx), float64(fy-20), FontSizeSmall, ColorTextSecondary)

		bgColor := ColorSurface
		if i == ls.fieldIndex {
			bgColor = ColorSurfaceHover
		}
		vector.DrawFilledRect(dst, fx, fy, fieldW, fieldH, bgColor, false)
		if i == ls.fieldIndex {
			vector.StrokeRect(dst, fx, fy, fieldW, fieldH, 2, ColorFocusBorder, false)
		}

		ti := &ls.fields[i]
		if ti.Text == "" && i != ls.fieldIndex {
			DrawText(dst, loginPlaceholders[i], float64(fx+10), float64(fy+12), FontSizeBody, ColorTextMuted)
			continue
		}
		val := truncateText(ti.DisplayText(i == ls.fieldIndex && !ls.Busy), float64(fieldW-20), FontSizeBody)
		DrawText(dst, val, float64(fx+10), float64(fy+12), FontSizeBody, ColorText)
	}

	btnY := startY + loginFieldCount*70
	btnW := fieldW
	btnH := float32(48)
	bx := float32(cx) - btnW/2
	ls.buttonRect = ButtonRect{X: float64(bx), Y: float64(btnY), W: float64(btnW), H: float64(btnH)}

	btnColor := ColorPrimary
	if ls.fieldIndex == loginFieldCount || ls.Busy {
		btnColor = ColorPrimaryDark
	}
	vector.DrawFilledRect(dst, bx, btnY, btnW, btnH, btnColor, false)
	if ls.fieldIndex == loginFieldCount {
		vector.StrokeRect(dst, bx, btnY, btnW, btnH, 2, ColorFocusBorder, false)
	}
	label := "sign in"
	if ls.Busy {
		label = "signing in..."
	}
	DrawTextCentered(dst, label, cx, float64(btnY+btnH/2), FontSizeBody, ColorBackground)

	ls.errDisplay.Draw(dst, ls.Error, float64(bx), float64(btnY+btnH+20), float64(btnW), FontSizeSmall)
}

var loginPlaceholders = [loginFieldCount]string{
	"https://xyz.supabase.co",
	"public anon key",
	"you@example.com",
	"password",
}
