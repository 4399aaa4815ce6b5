package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/depeter/lookbook/internal/supabase"
)

func strPtr(s string) *string { return &s }

func TestArchiveButtonSteps(t *testing.T) {
	var b ArchiveButton
	assert.Equal(t, "mark as out of stock", b.Label())

	assert.False(t, b.Press(), "first press only asks for confirmation")
	assert.True(t, b.Confirming())
	assert.Equal(t, "confirm - mark as out of stock", b.Label())

	b.Cancel()
	assert.False(t, b.Confirming())

	b.Press()
	assert.True(t, b.Press())
	assert.True(t, b.Busy())
	assert.Equal(t, "archiving...", b.Label())
	assert.False(t, b.Press(), "presses while busy are ignored")

	b.Cancel()
	assert.True(t, b.Busy(), "cancel does not abort a running request")

	b.Failed()
	assert.False(t, b.Busy())
	assert.Equal(t, "mark as out of stock", b.Label())
}

func TestDetailPanelMetaLines(t *testing.T) {
	archived := time.Date(2024, 3, 5, 12, 0, 0, 0, time.Local)
	dp := DetailPanel{Item: supabase.Item{
		Name:       strPtr("Wool Coat"),
		Size:       strPtr("M"),
		ArchivedAt: &archived,
	}}
	assert.Equal(t, []string{"Wool Coat", "size M", "archived Mar 5, 2024"}, dp.metaLines())

	dp = DetailPanel{Item: supabase.Item{Description: strPtr("linen, a little faded")}}
	assert.Equal(t, []string{"linen, a little faded"}, dp.metaLines())

	dp = DetailPanel{}
	assert.Empty(t, dp.metaLines())
}

func TestPhotoRectLeavesRoomForMeta(t *testing.T) {
	x, y, w, h := photoRect(600)
	assert.Equal(t, float64(SectionPadding+4), x)
	assert.Equal(t, float64(ScreenWidth)-2*x, w)
	assert.Equal(t, 600-y-16, h)
}
