package ui

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sqweek/dialog"

	"github.com/depeter/lookbook/internal/cache"
	"github.com/depeter/lookbook/internal/rack"
	"github.com/depeter/lookbook/internal/supabase"
)

const (
	sheetHeight  = 340.0
	sheetRadius  = 16
	previewEdge  = 160
	maxPreviews  = 5
	previewThumb = 56.0
)

var sheetSpring = rack.SpringProfile{Stiffness: 320, Damping: 32, Mass: 1}

// photoFile is one image to add, read from Path unless Data is set.
type photoFile struct {
	Name string
	Path string
	Data []byte
}

func (f photoFile) read() ([]byte, error) {
	if f.Data != nil {
		return f.Data, nil
	}
	return os.ReadFile(f.Path)
}

// splitPaths parses a comma or newline separated list of file paths. A path
// may be quoted to keep a comma in it, and a leading ~ expands to the home
// directory.
func splitPaths(s string) []string {
	var (
		out   []string
		cur   strings.Builder
		quote rune
	)
	flush := func() {
		f := strings.TrimSpace(cur.String())
		cur.Reset()
		if f == "" {
			return
		}
		if f == "~" || strings.HasPrefix(f, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				f = filepath.Join(home, strings.TrimPrefix(f, "~"))
			}
		}
		out = append(out, f)
	}
	for _, r := range s {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '"' || r == '\''):
			quote = r
		case quote == 0 && (r == ',' || r == '\n' || r == '\r'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

// progressText is the status line shown while uploading; done counts the
// photos already stored.
func progressText(done, total int) string {
	if total > 1 {
		return fmt.Sprintf("uploading %d of %d...", min(done+1, total), total)
	}
	return "uploading..."
}

// AddItemScreen is a bottom sheet for adding photos to the rack, either from
// file paths or from an image on the clipboard.
type AddItemScreen struct {
	client   *supabase.Client
	describe bool

	anim    *rack.FrameAnimator
	offset  float64 // sheet drop below its resting place; sheetHeight = hidden
	closing bool
	closed  bool

	paths      TextInput
	browseRect ButtonRect
	uploadRect ButtonRect
	pasteRect  ButtonRect
	errDisplay ErrorDisplay

	mu         sync.Mutex
	uploading  bool
	done       int
	total      int
	added      int
	notified   bool
	finished   bool
	errMsg     string
	authFailed bool
	previews   map[string]*ebiten.Image // nil value = decoding or unreadable
	picked     []string
	stored     []string // field paths already added, dropped on the next Update
	browsing   bool

	OnAdded     func(count int)
	OnAuthError func()
}

// NewAddItemScreen returns the sheet. With describe set, each photo is named
// by the suggestion function before it is stored.
func NewAddItemScreen(client *supabase.Client, describe bool) *AddItemScreen {
	return &AddItemScreen{
		client:   client,
		describe: describe,
		anim:     rack.NewFrameAnimator(),
		offset:   sheetHeight,
		previews: map[string]*ebiten.Image{},
	}
}

func (s *AddItemScreen) Name() string    { return "AddItem" }
func (s *AddItemScreen) IsOverlay() bool { return true }

func (s *AddItemScreen) OnEnter() {
	if s.closing || s.offset == 0 {
		return
	}
	s.anim.Start(s.offset, 0, sheetSpring, func(v float64) { s.offset = v }, nil)
}

func (s *AddItemScreen) OnExit() {}

func (s *AddItemScreen) sheetTop() float64 {
	return ScreenHeight - sheetHeight + s.offset
}

func (s *AddItemScreen) close() {
	if s.closing {
		return
	}
	s.closing = true
	s.notifyAdded()
	s.anim.Start(s.offset, sheetHeight, sheetSpring, func(v float64) { s.offset = v }, func() { s.closed = true })
}

func (s *AddItemScreen) notifyAdded() {
	s.mu.Lock()
	added, notified := s.added, s.notified
	s.notified = true
	s.mu.Unlock()
	if added > 0 && !notified && s.OnAdded != nil {
		s.OnAdded(added)
	}
}

func (s *AddItemScreen) start(files []photoFile) {
	if len(files) == 0 {
		return
	}
	s.mu.Lock()
	if s.uploading {
		s.mu.Unlock()
		return
	}
	s.uploading = true
	s.done, s.total = 0, len(files)
	s.errMsg = ""
	s.mu.Unlock()
	go s.upload(files)
}

func (s *AddItemScreen) upload(files []photoFile) {
	for _, f := range files {
		data, err := f.read()
		if err == nil {
			_, err = s.client.AddPhoto(f.Name, data, s.describe)
		}

		s.mu.Lock()
		if err != nil {
			log.Printf("Failed to add %s: %v", f.Name, err)
			s.errMsg = err.Error()
			s.authFailed = errors.Is(err, supabase.ErrUnauthorized)
			s.uploading = false
			s.mu.Unlock()
			return
		}
		s.done++
		s.added++
		if f.Path != "" {
			s.stored = append(s.stored, f.Path)
		}
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.finished = true
	s.mu.Unlock()
}

func (s *AddItemScreen) pathFiles() []photoFile {
	var files []photoFile
	for _, p := range splitPaths(s.paths.Text) {
		files = append(files, photoFile{Name: filepath.Base(p), Path: p})
	}
	return files
}

// browse opens the native file picker off the frame loop; the chosen path
// is appended to the field on the next Update.
func (s *AddItemScreen) browse() {
	s.mu.Lock()
	if s.browsing {
		s.mu.Unlock()
		return
	}
	s.browsing = true
	s.mu.Unlock()

	go func() {
		path, err := dialog.File().
			Title("Choose a photo").
			Filter("Images", "jpg", "jpeg", "png", "webp").
			Load()
		s.mu.Lock()
		defer s.mu.Unlock()
		s.browsing = false
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				log.Printf("File dialog: %v", err)
				s.errMsg = err.Error()
			}
			return
		}
		s.picked = append(s.picked, path)
	}()
}

// appendPaths adds paths to the field, comma separated.
func appendPaths(field string, paths []string) string {
	field = strings.TrimRight(strings.TrimSpace(field), ",")
	for _, p := range paths {
		if strings.ContainsRune(p, ',') {
			p = `"` + p + `"`
		}
		if field != "" {
			field += ", "
		}
		field += p
	}
	return field
}

// withoutPaths removes the given paths from the field.
func withoutPaths(field string, drop []string) string {
	gone := make(map[string]bool, len(drop))
	for _, p := range drop {
		gone[p] = true
	}
	var keep []string
	for _, p := range splitPaths(field) {
		if !gone[p] {
			keep = append(keep, p)
		}
	}
	return appendPaths("", keep)
}

// dropStored removes photos already added from the path field, so a retry
// after a failure only sends the rest.
func (s *AddItemScreen) dropStored() {
	s.mu.Lock()
	stored := s.stored
	s.stored = nil
	s.mu.Unlock()
	if len(stored) > 0 {
		s.paths.SetText(withoutPaths(s.paths.Text, stored))
	}
}

func (s *AddItemScreen) paste() {
	data := readClipboardImage()
	if len(data) == 0 {
		s.mu.Lock()
		s.errMsg = "no image on the clipboard"
		s.mu.Unlock()
		return
	}
	name := fmt.Sprintf("clipboard-%d.png", time.Now().Unix())
	s.start([]photoFile{{Name: name, Data: data}})
}

// refreshPreviews decodes thumbnails for the first few paths in the field.
func (s *AddItemScreen) refreshPreviews() {
	paths := splitPaths(s.paths.Text)
	if len(paths) > maxPreviews {
		paths = paths[:maxPreviews]
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range paths {
		if _, ok := s.previews[p]; ok {
			continue
		}
		s.previews[p] = nil
		go func(p string) {
			img, err := cache.DecodeFile(p, previewEdge)
			if err != nil {
				return
			}
			eimg := ebiten.NewImageFromImage(img)
			s.mu.Lock()
			s.previews[p] = eimg
			s.mu.Unlock()
		}(p)
	}
}

func (s *AddItemScreen) Update() (*ScreenTransition, error) {
	s.anim.Step(time.Second / time.Duration(ebiten.TPS()))
	if s.closed {
		return &ScreenTransition{Type: TransitionPop}, nil
	}

	s.mu.Lock()
	uploading, finished, authFailed, errMsg := s.uploading, s.finished, s.authFailed, s.errMsg
	picked := s.picked
	s.authFailed = false
	s.picked = nil
	s.mu.Unlock()

	s.dropStored()

	if len(picked) > 0 {
		s.paths.SetText(appendPaths(s.paths.Text, picked))
		s.refreshPreviews()
	}

	if finished {
		s.close()
		return nil, nil
	}
	if authFailed && s.OnAuthError != nil {
		s.OnAuthError()
		return nil, nil
	}
	if s.closing || uploading {
		return nil, nil
	}

	_, enter, back := InputState()
	if back {
		s.close()
		return nil, nil
	}

	if mx, my, ok := MouseJustClicked(); ok {
		switch {
		case s.errDisplay.HandleClick(mx, my, errMsg):
		case float64(my) < s.sheetTop():
			s.close()
		case s.browseRect.Contains(mx, my):
			s.browse()
		case s.uploadRect.Contains(mx, my):
			s.start(s.pathFiles())
		case s.pasteRect.Contains(mx, my):
			s.paste()
		}
		return nil, nil
	}

	if s.paths.Update() {
		s.refreshPreviews()
	}
	if enter {
		s.start(s.pathFiles())
	}
	return nil, nil
}

func (s *AddItemScreen) Draw(dst *ebiten.Image) {
	s.mu.Lock()
	uploading, done, total, errMsg := s.uploading, s.done, s.total, s.errMsg
	var thumbs []*ebiten.Image
	paths := splitPaths(s.paths.Text)
	for i, p := range paths {
		if i == maxPreviews {
			break
		}
		if img := s.previews[p]; img != nil {
			thumbs = append(thumbs, img)
		}
	}
	s.mu.Unlock()

	// Backdrop
	shown := 1 - s.offset/sheetHeight
	vector.DrawFilledRect(dst, 0, 0, ScreenWidth, ScreenHeight, fade(ColorOverlay, max(0, shown)), false)

	top := s.sheetTop()
	DrawFilledRoundRect(dst, 0, float32(top), ScreenWidth, sheetHeight+sheetRadius, sheetRadius, ColorSurface)

	cx := float64(ScreenWidth) / 2
	vector.DrawFilledRect(dst, float32(cx-20), float32(top+12), 40, 4, ColorSurfaceHover, false)
	DrawTextCentered(dst, "add to rack", cx, top+40, FontSizeSmall, ColorTextMuted)

	y := top + 62
	if errMsg != "" {
		y += s.errDisplay.Draw(dst, errMsg, SectionPadding+4, y, ScreenWidth-2*(SectionPadding+4), FontSizeSmall)
	}

	if uploading {
		s.browseRect, s.uploadRect, s.pasteRect = ButtonRect{}, ButtonRect{}, ButtonRect{}
		DrawTextCentered(dst, progressText(done, total), cx, top+sheetHeight/2+20, FontSizeBody, ColorTextSecondary)
		return
	}

	// Path field with a browse link at its right end
	fx, fw, fh := float64(SectionPadding+4), float64(ScreenWidth-2*(SectionPadding+4)), 40.0
	vector.DrawFilledRect(dst, float32(fx), float32(y), float32(fw), float32(fh), ColorBackground, false)
	vector.StrokeRect(dst, float32(fx), float32(y), float32(fw), float32(fh), 1, ColorSurfaceHover, false)
	bw, _ := MeasureText("browse", FontSizeSmall)
	s.browseRect = ButtonRect{X: fx + fw - bw - 20, Y: y, W: bw + 20, H: fh}
	DrawText(dst, "browse", fx+fw-bw-10, y+11, FontSizeSmall, ColorPrimary)
	textW := fw - bw - 40
	if s.paths.Text == "" {
		DrawText(dst, "image paths, comma separated", fx+10, y+11, FontSizeSmall, ColorTextMuted)
	} else {
		txt := s.paths.DisplayText(true)
		DrawText(dst, truncateText(txt, textW, FontSizeSmall), fx+10, y+11, FontSizeSmall, ColorText)
	}
	y += fh + 10

	if len(thumbs) > 0 {
		x := fx
		for _, img := range thumbs {
			drawImageCover(dst, img, x, y, previewThumb, previewThumb, 1)
			x += previewThumb + 6
		}
		if extra := len(paths) - len(thumbs); extra > 0 {
			DrawText(dst, fmt.Sprintf("+%d", extra), x+4, y+previewThumb/2-7, FontSizeSmall, ColorTextSecondary)
		}
		y += previewThumb + 10
	}

	for _, b := range []struct {
		label string
		rect  *ButtonRect
	}{
		{"upload image", &s.uploadRect},
		{"paste image", &s.pasteRect},
	} {
		*b.rect = ButtonRect{X: fx, Y: y, W: fw, H: 48}
		DrawFilledRoundRect(dst, float32(fx), float32(y), float32(fw), 48, 12, ColorSurfaceHover)
		DrawTextCentered(dst, b.label, cx, y+24, FontSizeBody, ColorText)
		y += 60
	}
}
