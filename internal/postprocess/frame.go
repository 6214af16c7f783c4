package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Frame crops img to its opaque pixels and centers the result on a
// size×size transparent canvas, scaled so the longer side covers fill of it.
func Frame(img *image.NRGBA, size int, fill float32) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, size, size))
	r, ok := OpaqueBounds(img)
	if !ok {
		return canvas
	}

	longest := max(r.Dx(), r.Dy())
	scale := float32(size) * fill / float32(longest)
	w := max(1, int(float32(r.Dx())*scale+0.5))
	h := max(1, int(float32(r.Dy())*scale+0.5))

	dst := image.Rect(0, 0, w, h).Add(image.Pt((size-w)/2, (size-h)/2))
	draw.CatmullRom.Scale(canvas, dst, img, r, draw.Src, nil)
	return canvas
}

// OpaqueBounds returns the bounding box of the pixels with non-zero alpha.
func OpaqueBounds(img *image.NRGBA) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] == 0 {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}
