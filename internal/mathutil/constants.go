package mathutil

// Preview camera matrices.
var (
	// MirrorX flips handedness: diag(-1, 1, 1)
	MirrorX = Mat3Diag(-1, 1, 1)

	// ViewDefault looks at the scene slightly from above and to the side:
	// Rx(20°) @ Ry(-30°)
	ViewDefault = Mat3Mul(RotX(Deg2Rad(20)), RotY(Deg2Rad(-30)))

	// ViewFront looks straight down the -Z axis.
	ViewFront = Mat3Identity()
)

// Camera returns the preview camera rotation called name: "default",
// "front" or "mirror" (the default view with X flipped, for left-handed
// exports).
func Camera(name string) (Mat3, bool) {
	switch name {
	case "default", "":
		return ViewDefault, true
	case "front":
		return ViewFront, true
	case "mirror":
		return Mat3Mul(MirrorX, ViewDefault), true
	}
	return Mat3{}, false
}
