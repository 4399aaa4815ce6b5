package ui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// TextInput handles text editing with cursor navigation.
type TextInput struct {
	Text   string
	Cursor int // rune position within Text
	Masked bool
}

// NewTextInput creates a TextInput initialized with the given text and cursor at the end.
func NewTextInput(text string) TextInput {
	return TextInput{
		Text:   text,
		Cursor: utf8.RuneCountInString(text),
	}
}

// SetText replaces the text and moves cursor to the end.
func (ti *TextInput) SetText(text string) {
	ti.Text = text
	ti.Cursor = utf8.RuneCountInString(text)
}

// Clear resets the text and cursor.
func (ti *TextInput) Clear() {
	ti.Text = ""
	ti.Cursor = 0
}

// Update processes input events. Returns true if the text changed.
func (ti *TextInput) Update() bool {
	changed := false

	if inputRepeating(ebiten.KeyArrowLeft) {
		ti.MoveCursor(-1)
	}
	if inputRepeating(ebiten.KeyArrowRight) {
		ti.MoveCursor(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		ti.Cursor = 0
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) {
		ti.Cursor = utf8.RuneCountInString(ti.Text)
	}

	// Ctrl+V paste from clipboard
	if inpututil.IsKeyJustPressed(ebiten.KeyV) && (ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)) {
		if clip := readClipboard(); clip != "" {
			ti.Insert(strings.TrimRight(clip, "\r\n"))
			changed = true
		}
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		if !unicode.IsControl(r) {
			ti.Insert(string(r))
			changed = true
		}
	}

	if inputRepeating(ebiten.KeyBackspace) && ti.Backspace() {
		changed = true
	}
	if inputRepeating(ebiten.KeyDelete) && ti.Delete() {
		changed = true
	}

	return changed
}

// MoveCursor moves the cursor by n runes, clamped to the text.
func (ti *TextInput) MoveCursor(n int) {
	ti.Cursor = min(max(ti.Cursor+n, 0), utf8.RuneCountInString(ti.Text))
}

// Insert adds s at the cursor.
func (ti *TextInput) Insert(s string) {
	before, after := ti.splitAtCursor()
	ti.Text = before + s + after
	ti.Cursor += utf8.RuneCountInString(s)
}

// Backspace deletes the rune before the cursor.
func (ti *TextInput) Backspace() bool {
	if ti.Cursor == 0 {
		return false
	}
	before, after := ti.splitAtCursor()
	_, size := utf8.DecodeLastRuneInString(before)
	ti.Text = before[:len(before)-size] + after
	ti.Cursor--
	return true
}

// Delete deletes the rune after the cursor.
func (ti *TextInput) Delete() bool {
	before, after := ti.splitAtCursor()
	if after == "" {
		return false
	}
	_, size := utf8.DecodeRuneInString(after)
	ti.Text = before + after[size:]
	return true
}

// DisplayText returns the visible text, masked if needed, with a cursor
// indicator when focused.
func (ti *TextInput) DisplayText(focused bool) string {
	before, after := ti.splitAtCursor()
	if ti.Masked {
		before = strings.Repeat("•", utf8.RuneCountInString(before))
		after = strings.Repeat("•", utf8.RuneCountInString(after))
	}
	if !focused {
		return before + after
	}
	return before + "│" + after
}

// splitAtCursor returns the text before and after the cursor position.
func (ti *TextInput) splitAtCursor() (before, after string) {
	bytePos := 0
	for i := 0; i < ti.Cursor && bytePos < len(ti.Text); i++ {
		_, size := utf8.DecodeRuneInString(ti.Text[bytePos:])
		bytePos += size
	}
	return ti.Text[:bytePos], ti.Text[bytePos:]
}
