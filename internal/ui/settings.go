package ui

import (
	"fmt"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/depeter/lookbook/internal/config"
)

// SettingsScreen edits the rack, suggestion and key settings. Changes are
// handed to OnSave when the screen is left.
type SettingsScreen struct {
	cfg *config.Config

	sections     []settingsSection
	sectionIndex int
	itemIndex    int
	editing      bool
	editInput    TextInput
	editError    string
	status       string
	dirty        bool

	// Row rects for mouse clicks (flat list across all sections)
	rowRects  []settingsRowRect
	pasteRect ButtonRect
	backRect  ButtonRect

	OnSave       func()
	OnClearCache func() error
}

type settingsRowRect struct {
	SectionIdx int
	ItemIdx    int
	X, Y, W, H float64
}

type settingsSection struct {
	Label string
	Items []settingsItem
}

type settingsItem struct {
	Label    string
	Value    func() string
	OnChange func(val string) error // returns error if validation fails
	Options  []string               // when set, Left/Right cycles through these instead of text edit
	Action   func() error           // when set, Enter runs it
}

var onOffOptions = []string{"on", "off"}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// NewSettingsScreen builds the settings list over cfg. validKey reports
// whether a key name can be bound.
func NewSettingsScreen(cfg *config.Config, validKey func(string) bool, onSave func()) *SettingsScreen {
	ss := &SettingsScreen{
		cfg:    cfg,
		OnSave: onSave,
	}

	rackNumber := func(label string, field *float64) settingsItem {
		return settingsItem{
			Label: label,
			Value: func() string { return strconv.FormatFloat(*field, 'f', -1, 64) },
			OnChange: func(v string) error {
				f, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return fmt.Errorf("invalid number: %s", v)
				}
				old := *field
				*field = f
				if err := cfg.Validate(); err != nil {
					*field = old
					return err
				}
				return nil
			},
		}
	}
	keyItem := func(label string, field *string) settingsItem {
		return settingsItem{
			Label: label,
			Value: func() string { return *field },
			OnChange: func(v string) error {
				if v != "" && validKey != nil && !validKey(v) {
					return fmt.Errorf("unknown key: %s", v)
				}
				*field = v
				return nil
			},
		}
	}

	ss.sections = []settingsSection{
		{
			Label: "Rack",
			Items: []settingsItem{
				rackNumber("Card width", &cfg.Rack.CardWidth),
				rackNumber("Card gap", &cfg.Rack.CardGap),
				rackNumber("Tap slop", &cfg.Rack.TapSlop),
				rackNumber("Wheel step", &cfg.Rack.WheelThreshold),
			},
		},
		{
			Label: "Photos",
			Items: []settingsItem{
				{Label: "Auto name", Value: func() string { return onOff(cfg.Supabase.AutoSuggest) }, OnChange: func(v string) error {
					cfg.Supabase.AutoSuggest = v == "on"
					return nil
				}, Options: onOffOptions},
				{Label: "Bucket", Value: func() string { return cfg.Supabase.ImageBucket }, OnChange: func(v string) error {
					if v == "" {
						return fmt.Errorf("bucket name is required")
					}
					cfg.Supabase.ImageBucket = v
					return nil
				}},
				{Label: "Suggest URL", Value: func() string { return cfg.Supabase.SuggestURL }, OnChange: func(v string) error { cfg.Supabase.SuggestURL = v; return nil }},
				{Label: "Image cache", Value: func() string { return "clear" }, Action: func() error {
					if ss.OnClearCache == nil {
						return nil
					}
					return ss.OnClearCache()
				}},
			},
		},
		{
			Label: "Keys",
			Items: []settingsItem{
				keyItem("Previous", &cfg.Keybinds.Previous),
				keyItem("Next", &cfg.Keybinds.Next),
				keyItem("Open", &cfg.Keybinds.Open),
				keyItem("Add", &cfg.Keybinds.Add),
				keyItem("Archive", &cfg.Keybinds.Archive),
				keyItem("Fullscreen", &cfg.Keybinds.Fullscreen),
			},
		},
	}

	return ss
}

func (ss *SettingsScreen) Name() string { return "Settings" }
func (ss *SettingsScreen) OnEnter()     {}
func (ss *SettingsScreen) OnExit() {
	if ss.dirty && ss.OnSave != nil {
		ss.OnSave()
	}
	ss.dirty = false
}

// Editing reports whether a value is being typed.
func (ss *SettingsScreen) Editing() bool { return ss.editing }

// focusedItem returns the currently focused settings item.
func (ss *SettingsScreen) focusedItem() *settingsItem {
	return &ss.sections[ss.sectionIndex].Items[ss.itemIndex]
}

// cycleOption moves to the next or previous option for an Options item.
func cycleOption(item *settingsItem, delta int) {
	current := item.Value()
	idx := -1
	for i, opt := range item.Options {
		if opt == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx = 0
	} else {
		idx += delta
		if idx < 0 {
			idx = len(item.Options) - 1
		} else if idx >= len(item.Options) {
			idx = 0
		}
	}
	item.OnChange(item.Options[idx])
}

// move steps the focus through the flat list of rows, clamping at both ends.
func (ss *SettingsScreen) move(delta int) {
	ss.itemIndex += delta
	if ss.itemIndex < 0 {
		if ss.sectionIndex == 0 {
			ss.itemIndex = 0
			return
		}
		ss.sectionIndex--
		ss.itemIndex = len(ss.sections[ss.sectionIndex].Items) - 1
	} else if ss.itemIndex >= len(ss.sections[ss.sectionIndex].Items) {
		if ss.sectionIndex == len(ss.sections)-1 {
			ss.itemIndex = len(ss.sections[ss.sectionIndex].Items) - 1
			return
		}
		ss.sectionIndex++
		ss.itemIndex = 0
	}
}

// activate runs the focused row: cycles an option, runs an action or
// opens the text editor.
func (ss *SettingsScreen) activate(delta int) {
	item := ss.focusedItem()
	ss.status = ""
	switch {
	case item.Action != nil:
		if err := item.Action(); err != nil {
			ss.status = err.Error()
		} else {
			ss.status = item.Label + " cleared"
		}
	case item.Options != nil:
		cycleOption(item, delta)
		ss.dirty = true
	default:
		ss.editInput = NewTextInput(item.Value())
		ss.editing = true
		ss.editError = ""
	}
}

// commit applies the edited text to the focused item.
func (ss *SettingsScreen) commit() {
	if err := ss.focusedItem().OnChange(ss.editInput.Text); err != nil {
		ss.editError = err.Error()
		return
	}
	ss.editing = false
	ss.editError = ""
	ss.dirty = true
}

func (ss *SettingsScreen) Update() (*ScreenTransition, error) {
	if ss.editing {
		if ss.editInput.Update() {
			ss.editError = ""
		}
		mx, my, clicked := MouseJustClicked()
		if clicked && ss.pasteRect.Contains(mx, my) {
			if clip := readClipboard(); clip != "" {
				ss.editInput.Insert(clip)
				ss.editError = ""
			}
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			ss.commit()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			ss.editing = false
			ss.editError = ""
		}
		return nil, nil
	}

	dir, enter, back := InputState()
	if back {
		return &ScreenTransition{Type: TransitionPop}, nil
	}

	if mx, my, clicked := MouseJustClicked(); clicked {
		if ss.backRect.Contains(mx, my) {
			return &ScreenTransition{Type: TransitionPop}, nil
		}
		for _, rect := range ss.rowRects {
			if PointInRect(mx, my, rect.X, rect.Y, rect.W, rect.H) {
				ss.sectionIndex = rect.SectionIdx
				ss.itemIndex = rect.ItemIdx
				ss.activate(1)
				return nil, nil
			}
		}
	}

	switch dir {
	case DirUp:
		ss.move(-1)
	case DirDown:
		ss.move(1)
	case DirLeft:
		if item := ss.focusedItem(); item.Options != nil {
			ss.activate(-1)
		}
	case DirRight:
		if item := ss.focusedItem(); item.Options != nil {
			ss.activate(1)
		}
	}

	if enter {
		ss.activate(1)
	}
	return nil, nil
}

func (ss *SettingsScreen) Draw(dst *ebiten.Image) {
	dst.Fill(ColorBackground)

	w, h := MeasureText("back", FontSizeSmall)
	drawBackIcon(dst, SectionPadding+6, 30, 6, ColorTextSecondary)
	DrawText(dst, "back", SectionPadding+18, 30-h/2, FontSizeSmall, ColorTextSecondary)
	ss.backRect = ButtonRect{X: SectionPadding - 4, Y: 14, W: w + 30, H: 32}
	DrawTextCentered(dst, "settings", ScreenWidth/2, 30, FontSizeHeading, ColorText)

	y := float64(HeaderHeight + 8)
	ss.rowRects = ss.rowRects[:0]

	const rowH = 36.0
	rowX := float64(SectionPadding - 8)
	rowW := float64(ScreenWidth - SectionPadding*2 + 16)
	valueX := float64(SectionPadding) + 150

	for si, sec := range ss.sections {
		DrawText(dst, sec.Label, SectionPadding, y, FontSizeSmall, ColorTextMuted)
		y += FontSizeSmall + 10

		for ii, item := range sec.Items {
			isFocused := si == ss.sectionIndex && ii == ss.itemIndex
			ss.rowRects = append(ss.rowRects, settingsRowRect{
				SectionIdx: si, ItemIdx: ii,
				X: rowX, Y: y - 4, W: rowW, H: rowH,
			})

			if isFocused {
				vector.DrawFilledRect(dst, float32(rowX), float32(y-4), float32(rowW), rowH, ColorSurfaceHover, false)
			}

			labelColor := ColorTextSecondary
			if isFocused {
				labelColor = ColorText
			}
			DrawText(dst, item.Label, SectionPadding, y+4, FontSizeBody, labelColor)

			value := item.Value()
			isEditing := ss.editing && isFocused
			maxValueW := rowX + rowW - valueX - 8

			if isEditing {
				value = ss.editInput.DisplayText(true)
				vx := float32(valueX - 4)
				vw := float32(rowX+rowW-valueX) - 4
				vector.StrokeRect(dst, vx, float32(y-2), vw, rowH-4, 1, ColorFocusBorder, false)
				pasteW := 52.0
				pasteH := rowH - 8
				pasteX := float64(vx+vw) - pasteW - 4
				pasteY := y
				ss.pasteRect = ButtonRect{X: pasteX, Y: pasteY, W: pasteW, H: pasteH}
				vector.DrawFilledRect(dst, float32(pasteX), float32(pasteY), float32(pasteW), float32(pasteH), ColorSurface, false)
				DrawTextCentered(dst, "paste", pasteX+pasteW/2, pasteY+pasteH/2, FontSizeCaption, ColorTextSecondary)
				maxValueW -= pasteW + 8
			}

			switch {
			case item.Options != nil && isFocused:
				DrawText(dst, "<", valueX-14, y+4, FontSizeBody, ColorPrimary)
				DrawText(dst, value, valueX, y+4, FontSizeBody, ColorText)
				vw, _ := MeasureText(value, FontSizeBody)
				DrawText(dst, ">", valueX+vw+8, y+4, FontSizeBody, ColorPrimary)
			case item.Action != nil:
				DrawText(dst, value, valueX, y+4, FontSizeBody, ColorAccent)
			default:
				valueColor := ColorTextSecondary
				if isFocused {
					valueColor = ColorText
				}
				DrawText(dst, truncateText(value, maxValueW, FontSizeBody), valueX, y+4, FontSizeBody, valueColor)
			}

			if isEditing && ss.editError != "" {
				y += rowH
				DrawText(dst, ss.editError, valueX, y-6, FontSizeCaption, ColorError)
			}
			y += rowH
		}
		y += 14
	}

	if ss.status != "" {
		DrawTextCentered(dst, ss.status, ScreenWidth/2, y+10, FontSizeSmall, ColorTextSecondary)
	}
}
