package postprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(size int, r image.Rectangle, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestDownsampleKeepsColorOnTransparentEdges(t *testing.T) {
	red := color.NRGBA{200, 10, 10, 255}
	img := square(64, image.Rect(0, 0, 32, 64), red)

	out := Downsample(img, 16, 16)
	require.Equal(t, image.Rect(0, 0, 16, 16), out.Bounds())
	inside := out.NRGBAAt(2, 8)
	assert.InDelta(t, 200, int(inside.R), 1)
	assert.InDelta(t, 10, int(inside.G), 1)
	assert.Equal(t, uint8(255), inside.A)

	// Partially covered edge pixels keep the hue instead of darkening.
	edge := out.NRGBAAt(8, 8)
	if edge.A > 0 {
		assert.Greater(t, int(edge.R), 150)
		assert.Less(t, int(edge.G), 50)
	}
	assert.Equal(t, uint8(0), out.NRGBAAt(14, 8).A)
}

func TestDownsampleNoop(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	assert.Same(t, img, Downsample(img, 8, 8))
}

func TestOpaqueBounds(t *testing.T) {
	img := square(32, image.Rect(4, 6, 10, 20), color.NRGBA{1, 2, 3, 255})
	r, ok := OpaqueBounds(img)
	require.True(t, ok)
	assert.Equal(t, image.Rect(4, 6, 10, 20), r)

	_, ok = OpaqueBounds(image.NewNRGBA(image.Rect(0, 0, 4, 4)))
	assert.False(t, ok)
}

func TestFrameCentersContent(t *testing.T) {
	img := square(100, image.Rect(0, 0, 10, 20), color.NRGBA{0, 255, 0, 255})
	out := Frame(img, 64, 0.5)
	require.Equal(t, image.Rect(0, 0, 64, 64), out.Bounds())

	r, ok := OpaqueBounds(out)
	require.True(t, ok)
	assert.InDelta(t, 32, r.Dy(), 2)
	assert.InDelta(t, 32, (r.Min.X+r.Max.X)/2, 1)
	assert.InDelta(t, 32, (r.Min.Y+r.Max.Y)/2, 1)

	empty := Frame(image.NewNRGBA(image.Rect(0, 0, 8, 8)), 16, 0.9)
	_, ok = OpaqueBounds(empty)
	assert.False(t, ok)
}
