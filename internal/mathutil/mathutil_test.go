package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVec(t *testing.T, want, got Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, "component %d of %v", i, got)
	}
}

func TestEulerToQuatMatchesMatrices(t *testing.T) {
	rx, ry, rz := Deg2Rad(30), Deg2Rad(-45), Deg2Rad(60)
	q := EulerToQuat(rx, ry, rz)
	want := Mat3Mul(Mat3Mul(RotZ(rz), RotY(ry)), RotX(rx))

	for _, v := range []Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 2, 3}} {
		assertVec(t, want.MulVec3(v), q.Mat3().MulVec3(v))
	}
}

func TestEulerDegToQuat(t *testing.T) {
	q := EulerDegToQuat(Vec3{0, 0, 90})
	assertVec(t, Vec3{0, 1, 0}, q.Mat3().MulVec3(Vec3{1, 0, 0}))
	assert.Equal(t, QuatIdentity, EulerDegToQuat(Vec3{}))
}

func TestFromRotationTranslation(t *testing.T) {
	m := FromRotationTranslation(EulerDegToQuat(Vec3{90, 0, 0}), Vec3{1, 2, 3})
	assertVec(t, Vec3{1, 2, 4}, m.MulPoint(Vec3{0, 1, 0}))
	assert.Equal(t, Vec3{5, 6, 7}, FromRotationTranslation(QuatIdentity, Vec3{5, 6, 7}).MulPoint(Vec3{}))
}

func TestVecOps(t *testing.T) {
	a, b := Vec3{1, 0, 0}, Vec3{0, 1, 0}
	assert.Equal(t, Vec3{0, 0, 1}, a.Cross(b))
	assert.Equal(t, float32(0), a.Dot(b))
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
	assert.InDelta(t, 1, Vec3{3, 4, 0}.Normalize().Len(), 1e-6)
	assert.Equal(t, Vec3{0, 0, 0}, a.Min(b))
	assert.Equal(t, Vec3{1, 1, 0}, a.Max(b))
}

func TestCamera(t *testing.T) {
	m, ok := Camera("front")
	require.True(t, ok)
	assert.Equal(t, Mat3Identity(), m)

	m, ok = Camera("mirror")
	require.True(t, ok)
	assertVec(t, ViewDefault.MulVec3(Vec3{1, 2, 3}), Mat3Diag(-1, 1, 1).MulVec3(m.MulVec3(Vec3{1, 2, 3})))

	_, ok = Camera("top")
	assert.False(t, ok)
}
