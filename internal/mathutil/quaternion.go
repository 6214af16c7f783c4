package mathutil

import "github.com/chewxy/math32"

// Quat represents a quaternion (x, y, z, w).
type Quat [4]float32

// QuatIdentity is the zero rotation.
var QuatIdentity = Quat{0, 0, 0, 1}

// EulerToQuat converts Euler angles in radians, applied X then Y then Z
// (R = Rz·Ry·Rx), to a quaternion.
func EulerToQuat(rx, ry, rz float32) Quat {
	sx, cx := math32.Sincos(rx * 0.5)
	sy, cy := math32.Sincos(ry * 0.5)
	sz, cz := math32.Sincos(rz * 0.5)

	return Quat{
		sx*cy*cz - cx*sy*sz, // x
		cx*sy*cz + sx*cy*sz, // y
		cx*cy*sz - sx*sy*cz, // z
		cx*cy*cz + sx*sy*sz, // w
	}
}

// EulerDegToQuat is EulerToQuat for angles in degrees.
func EulerDegToQuat(v Vec3) Quat {
	return EulerToQuat(Deg2Rad(v[0]), Deg2Rad(v[1]), Deg2Rad(v[2]))
}

// Mat3 converts a unit quaternion to a 3×3 rotation matrix.
func (q Quat) Mat3() Mat3 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Mat3{
		1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy),
		2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx),
		2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy),
	}
}
