// Package raster is a small software renderer for scene previews.
package raster

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"

	"fbx-decoder/internal/export"
	"fbx-decoder/internal/mathutil"
	"fbx-decoder/internal/scene"
)

// Instance is one mesh placed in the world with a flat color.
type Instance struct {
	Geometry  *scene.Geometry
	Transform mathutil.Mat4
	Color     color.NRGBA
}

// Instances places every model mesh by the model's local rotation and
// translation and colors it with its material's diffuse color. Meshes no
// model references are drawn untransformed in white.
func Instances(s *scene.Scene) []Instance {
	var out []Instance
	used := make([]bool, len(s.Meshes))
	for mi := range s.Models {
		m := &s.Models[mi]
		xf := mathutil.FromRotationTranslation(mathutil.Quat(m.LocalRotation), mathutil.Vec3(m.LocalTranslation))
		for _, i := range m.Meshes {
			used[i] = true
			out = append(out, Instance{
				Geometry:  &s.Meshes[i].Geometry,
				Transform: xf,
				Color:     export.MeshColor(s, m, &s.Meshes[i]),
			})
		}
	}
	for i := range s.Meshes {
		if !used[i] {
			out = append(out, Instance{Geometry: &s.Meshes[i].Geometry, Transform: mathutil.Mat4Identity(), Color: export.White})
		}
	}
	return out
}

// Options controls the preview camera and resolution.
type Options struct {
	Size        int           // output edge length in pixels
	Supersample int           // render at Size*Supersample
	View        mathutil.Mat3 // camera rotation applied after placement
	Margin      int           // border in output pixels
}

// Render draws the instances with an orthographic camera that fits their
// bounding box into the frame. The result is Size*Supersample pixels wide.
func Render(instances []Instance, opts Options) *image.NRGBA {
	ss := max(1, opts.Supersample)
	renderSize := opts.Size * ss
	fb := NewFrameBuffer(renderSize, renderSize)

	// Camera-space positions per instance.
	views := make([][]mathutil.Vec3, len(instances))
	lo := mathutil.Vec3{math32.Inf(1), math32.Inf(1), math32.Inf(1)}
	hi := mathutil.Vec3{math32.Inf(-1), math32.Inf(-1), math32.Inf(-1)}
	for i, inst := range instances {
		vs := make([]mathutil.Vec3, len(inst.Geometry.Positions))
		for j, p := range inst.Geometry.Positions {
			v := opts.View.MulVec3(inst.Transform.MulPoint(mathutil.Vec3(p)))
			vs[j] = v
			lo, hi = lo.Min(v), hi.Max(v)
		}
		views[i] = vs
	}
	if lo[0] > hi[0] {
		return fb.Image()
	}

	center := lo.Add(hi).Scale(0.5)
	span := max(hi[0]-lo[0], hi[1]-lo[1], 0.001)
	margin := opts.Margin * ss
	scale := float32(renderSize-2*margin) / span
	half := float32(renderSize) / 2

	lc := DefaultLightConfig()
	for i, inst := range instances {
		vs := views[i]
		screen := make([]mathutil.Vec3, len(vs))
		for j, v := range vs {
			screen[j] = mathutil.Vec3{
				half + (v[0]-center[0])*scale,
				half - (v[1]-center[1])*scale,
				(v[2] - center[2]) * scale,
			}
		}
		idx := inst.Geometry.Indices
		for t := 0; t+2 < len(idx); t += 3 {
			a, b, c := int(idx[t]), int(idx[t+1]), int(idx[t+2])
			if a >= len(screen) || b >= len(screen) || c >= len(screen) {
				continue
			}
			RasterizeTriangle(fb, screen[a], screen[b], screen[c], inst.Color, &lc)
		}
	}
	return fb.Image()
}
