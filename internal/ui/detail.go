package ui

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/depeter/lookbook/internal/supabase"
)

type archiveStep int

const (
	archiveIdle archiveStep = iota
	archiveConfirming
	archiveBusy
)

// ArchiveButton is the two-step "mark as out of stock" action: the first
// press asks for confirmation, the second starts the request.
type ArchiveButton struct {
	step archiveStep
}

// Press advances the button and reports whether the archive request should
// start now.
func (b *ArchiveButton) Press() bool {
	switch b.step {
	case archiveIdle:
		b.step = archiveConfirming
	case archiveConfirming:
		b.step = archiveBusy
		return true
	}
	return false
}

// Cancel backs out of the confirmation step.
func (b *ArchiveButton) Cancel() {
	if b.step == archiveConfirming {
		b.step = archiveIdle
	}
}

// Failed returns the button to its first step after a failed request.
func (b *ArchiveButton) Failed() {
	b.step = archiveIdle
}

func (b *ArchiveButton) Confirming() bool { return b.step == archiveConfirming }
func (b *ArchiveButton) Busy() bool       { return b.step == archiveBusy }

func (b *ArchiveButton) Label() string {
	switch b.step {
	case archiveConfirming:
		return "confirm - mark as out of stock"
	case archiveBusy:
		return "archiving..."
	default:
		return "mark as out of stock"
	}
}

// DetailPanel shows one item's photo and metadata.
type DetailPanel struct {
	Item  supabase.Item
	Photo *ebiten.Image
	Alpha float32
}

// photoRect is the area the photo is fitted into, between the close button
// and the metadata block.
func photoRect(bottom float64) (x, y, w, h float64) {
	x = SectionPadding + 4
	y = 64
	return x, y, ScreenWidth - 2*x, bottom - y - 16
}

// Draw renders the panel with its photo fitted above bottom and returns
// the y where the metadata ends.
func (dp *DetailPanel) Draw(dst *ebiten.Image, bottom float64) float64 {
	meta := dp.metaLines()
	metaH := float64(len(meta)) * (FontSizeBody + 8)
	px, py, pw, ph := photoRect(bottom - metaH)

	if dp.Photo != nil {
		drawImageContain(dst, dp.Photo, px, py, pw, ph, dp.Alpha)
	} else {
		c := ColorSurface
		c.A = uint8(255 * dp.Alpha)
		vector.DrawFilledRect(dst, float32(px), float32(py), float32(pw), float32(ph), c, false)
	}

	y := py + ph + 16
	for i, line := range meta {
		clr, size := ColorTextSecondary, float64(FontSizeSmall)
		if i == 0 && dp.Item.DisplayName() != "" {
			clr, size = ColorText, FontSizeHeading
		}
		DrawTextCentered(dst, truncateText(line, ScreenWidth-2*SectionPadding, size), ScreenWidth/2, y, size, fade(clr, float64(dp.Alpha)))
		y += FontSizeBody + 8
	}
	return y
}

// metaLines lists the non-empty metadata fields in display order.
func (dp *DetailPanel) metaLines() []string {
	var lines []string
	it := dp.Item
	if n := it.DisplayName(); n != "" {
		lines = append(lines, n)
	}
	if s := it.DisplaySize(); s != "" {
		lines = append(lines, "size "+s)
	}
	if d := it.DisplayDescription(); d != "" {
		lines = append(lines, d)
	}
	if it.ArchivedAt != nil {
		lines = append(lines, "archived "+FormatArchivedAt(*it.ArchivedAt))
	}
	return lines
}

// FormatArchivedAt renders an archive timestamp in local time.
func FormatArchivedAt(t time.Time) string {
	return t.Local().Format("Jan 2, 2006")
}
