package raster

import (
	"github.com/chewxy/math32"

	"fbx-decoder/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters.
type LightConfig struct {
	LightDir mathutil.Vec3
	RimDir   mathutil.Vec3
	HalfMain mathutil.Vec3 // half-vector for Blinn-Phong
	Ambient  float32
	Hemi     float32
	Direct   float32
	Rim      float32
	SpecInt  float32
	SpecPow  float32
	Exposure float32
	InvGamma float32
}

// DefaultLightConfig returns a key light from the upper right, a rim light
// from behind and a camera looking down -Z.
func DefaultLightConfig() LightConfig {
	lightDir := mathutil.Vec3{180, 260, 140}.Normalize()
	rimDir := mathutil.Vec3{-160, 130, -210}.Normalize()
	viewDir := mathutil.Vec3{0, 0, -1}

	return LightConfig{
		LightDir: lightDir,
		RimDir:   rimDir,
		HalfMain: lightDir.Sub(viewDir).Normalize(),
		Ambient:  0.35,
		Hemi:     0.35,
		Direct:   0.90,
		Rim:      0.30,
		SpecInt:  0.25,
		SpecPow:  12,
		Exposure: 1.0,
		InvGamma: 1 / 2.2,
	}
}

// Shade returns the lighting scalar for a unit face normal. Faces are lit
// from both sides.
func (lc *LightConfig) Shade(n mathutil.Vec3) float32 {
	ndlMain := math32.Abs(n.Dot(lc.LightDir))
	ndlRim := math32.Abs(n.Dot(lc.RimDir))
	hemi := (1-math32.Abs(n[1]))*0.5 + 0.5

	ndh := math32.Abs(n.Dot(lc.HalfMain))
	spec := math32.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemi*lc.Hemi + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// srgbToLinear is the 8-bit sRGB decode table.
var srgbToLinear [256]float32

func init() {
	for i := range srgbToLinear {
		srgbToLinear[i] = math32.Pow(float32(i)/255, 2.2)
	}
}

// ACESTonemap applies ACES filmic tone mapping to a linear value.
func ACESTonemap(x float32) float32 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// ShadeColor lights an sRGB color and returns the tone-mapped sRGB result.
func (lc *LightConfig) ShadeColor(r, g, b uint8, shade float32) (uint8, uint8, uint8) {
	k := shade * lc.Exposure
	enc := func(c uint8) uint8 {
		return clamp255(math32.Pow(ACESTonemap(srgbToLinear[c]*k), lc.InvGamma) * 255)
	}
	return enc(r), enc(g), enc(b)
}

func clamp255(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
