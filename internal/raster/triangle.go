package raster

import (
	"image/color"

	"github.com/chewxy/math32"

	"fbx-decoder/internal/mathutil"
)

// RasterizeTriangle fills one screen-space triangle with a flat-shaded color,
// keeping the nearest (largest z) fragment per pixel.
//
// Hot path: no allocation in the pixel loop.
func RasterizeTriangle(fb *FrameBuffer, v0, v1, v2 mathutil.Vec3, c color.NRGBA, lc *LightConfig) {
	x0, y0, z0 := v0[0], v0[1], v0[2]
	x1, y1, z1 := v1[0], v1[1], v1[2]
	x2, y2, z2 := v2[0], v2[1], v2[2]

	// Screen y grows downwards, so flip it for a right-handed face normal.
	n := mathutil.Vec3{x1 - x0, y0 - y1, z1 - z0}.Cross(mathutil.Vec3{x2 - x0, y0 - y2, z2 - z0})
	if n.Len() < 1e-8 {
		return
	}
	r, g, b := lc.ShadeColor(c.R, c.G, c.B, lc.Shade(n.Normalize()))

	minX := max(0, int(math32.Floor(min(x0, x1, x2))))
	maxX := min(fb.Width-1, int(math32.Ceil(max(x0, x1, x2))))
	minY := max(0, int(math32.Floor(min(y0, y1, y2))))
	maxY := min(fb.Height-1, int(math32.Ceil(max(y0, y1, y2))))
	if minX > maxX || minY > maxY {
		return
	}

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float32(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float32(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}
			fb.ZBuf[zIdx] = z

			px := zIdx * 4
			fb.Color[px] = r
			fb.Color[px+1] = g
			fb.Color[px+2] = b
			fb.Color[px+3] = c.A
		}
	}
}
