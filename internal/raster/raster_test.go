package raster

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbx-decoder/internal/mathutil"
	"fbx-decoder/internal/scene"
)

func TestRasterizeTriangleDepth(t *testing.T) {
	fb := NewFrameBuffer(16, 16)
	lc := DefaultLightConfig()
	red := color.NRGBA{255, 0, 0, 255}
	blue := color.NRGBA{0, 0, 255, 255}

	RasterizeTriangle(fb, mathutil.Vec3{0, 0, 1}, mathutil.Vec3{16, 0, 1}, mathutil.Vec3{0, 16, 1}, red, &lc)
	// Behind the red one: must not overwrite it.
	RasterizeTriangle(fb, mathutil.Vec3{0, 0, 0}, mathutil.Vec3{16, 0, 0}, mathutil.Vec3{0, 16, 0}, blue, &lc)

	img := fb.Image()
	px := img.NRGBAAt(2, 2)
	assert.Equal(t, uint8(255), px.A)
	assert.Greater(t, px.R, px.B)
	assert.Equal(t, uint8(0), img.NRGBAAt(15, 15).A, "outside the triangle")
}

func TestRenderScene(t *testing.T) {
	s := &scene.Scene{
		Models: []scene.Model{{
			LocalRotation:    scene.IdentityQuat,
			LocalTranslation: scene.Vec3{10, 0, 0},
			Meshes:           []int{0},
		}},
		Meshes: []scene.Mesh{
			{Geometry: scene.Geometry{
				Positions: []scene.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
				Indices:   []uint32{0, 1, 2, 0, 2, 3},
			}},
			{Geometry: scene.Geometry{Positions: []scene.Vec3{{0, 0, 0}}}},
		},
	}
	inst := Instances(s)
	require.Len(t, inst, 2)
	assert.Equal(t, mathutil.Vec3{11, 0, 0}, inst[0].Transform.MulPoint(mathutil.Vec3{1, 0, 0}))
	assert.Equal(t, mathutil.Mat4Identity(), inst[1].Transform, "unattached mesh")

	img := Render(inst[:1], Options{Size: 32, Supersample: 2, View: mathutil.Mat3Identity(), Margin: 2})
	require.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, uint8(255), img.NRGBAAt(32, 32).A, "quad fills the frame center")
	assert.Equal(t, uint8(0), img.NRGBAAt(1, 1).A, "margin stays transparent")
}

func TestRenderEmpty(t *testing.T) {
	img := Render(nil, Options{Size: 8, View: mathutil.ViewDefault})
	assert.Equal(t, 8, img.Bounds().Dx())
}
