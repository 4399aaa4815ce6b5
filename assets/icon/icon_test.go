package icon

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSizes(t *testing.T) {
	imgs := Generate()
	require.Len(t, imgs, 2)
	assert.Equal(t, image.Rect(0, 0, 64, 64), imgs[0].Bounds())
	assert.Equal(t, image.Rect(0, 0, 32, 32), imgs[1].Bounds())
}

func TestGenerateDrawsGarment(t *testing.T) {
	img := generate(64).(*image.RGBA)
	assert.Equal(t, darkBG, img.RGBAAt(1, 1))
	// Middle of the front garment
	assert.Equal(t, bone, img.RGBAAt(32, 40))
}
