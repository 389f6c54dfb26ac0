package core

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

func assertVec(t *testing.T, what string, expected, actual mgl32.Vec3) {
	t.Helper()
	assert.Truef(t, expected.ApproxEqualThreshold(actual, eps), "%s: expected %v, got %v", what, expected, actual)
}

func TestTransit_FacingPortalsScenario(t *testing.T) {
	a := YawPose(mgl32.Vec3{0, 0, 0}, 0)
	b := YawPose(mgl32.Vec3{10, 0, 0}, math32.Pi)

	assertVec(t, "A forward", mgl32.Vec3{0, 0, 1}, a.Forward())
	assertVec(t, "B forward", mgl32.Vec3{0, 0, -1}, b.Forward())

	body := Pose{Position: a.TransformPoint(mgl32.Vec3{0, 0, -1}), Rotation: mgl32.QuatIdent()}
	velocity := mgl32.Vec3{0, 0, 1}

	out := Transit(TransitFull, a, b, body)
	outVel := TransitVelocity(TransitFull, a, b, velocity)

	assertVec(t, "position", mgl32.Vec3{10, 0, 1}, out.Position)
	assertVec(t, "offset relative to B", mgl32.Vec3{0, 0, 1}, out.Position.Sub(b.Position))
	assertVec(t, "velocity", mgl32.Vec3{0, 0, -1}, outVel)
	assertVec(t, "body heading", b.Forward(), out.Forward())
}

func TestTransit_RoundTripFull(t *testing.T) {
	a := NewPose(mgl32.Vec3{1, 2, 3}, mgl32.QuatRotate(0.7, mgl32.Vec3{1, 1, 0}.Normalize()))
	b := NewPose(mgl32.Vec3{-4, 0, 9}, mgl32.QuatRotate(2.1, mgl32.Vec3{0, 0, 1}))

	poses := []Pose{
		PoseIdent(),
		NewPose(mgl32.Vec3{0.5, -1, 2}, mgl32.QuatRotate(1.3, WorldUp)),
		NewPose(mgl32.Vec3{-7, 3, 0.25}, mgl32.QuatRotate(-2.9, mgl32.Vec3{0.3, -0.2, 0.9}.Normalize())),
	}

	for i, x := range poses {
		there := Transit(TransitFull, a, b, x)
		back := Transit(TransitFull, b, a, there)
		assert.True(t, x.ApproxEqual(back, eps), "pose %d: %+v != %+v", i, x, back)

		v := mgl32.Vec3{1, -2, 0.5}
		vBack := TransitVelocity(TransitFull, b, a, TransitVelocity(TransitFull, a, b, v))
		assertVec(t, "velocity", v, vBack)
	}
}

func TestTransit_RoundTripOffset(t *testing.T) {
	a := YawPose(mgl32.Vec3{2, 0, -3}, 0.4)
	b := YawPose(mgl32.Vec3{-6, 1, 5}, -1.9)
	x := NewPose(mgl32.Vec3{2.5, 0.8, -2}, mgl32.QuatRotate(0.3, WorldUp))

	there := Transit(TransitOffset, a, b, x)
	back := Transit(TransitOffset, b, a, there)
	assert.True(t, x.ApproxEqual(back, eps), "%+v != %+v", x, back)
}

func TestTransit_OffsetAddsHalfTurn(t *testing.T) {
	a := YawPose(mgl32.Vec3{0, 0, 0}, 0)
	b := YawPose(mgl32.Vec3{10, 0, 0}, 0)
	x := YawPose(mgl32.Vec3{0, 0, -1}, 0)

	out := Transit(TransitOffset, a, b, x)
	assertVec(t, "position", mgl32.Vec3{10, 0, -1}, out.Position)
	assert.InDelta(t, float64(math32.Pi), math32.Abs(out.Yaw()), eps)
}

func TestPortalTransform_MatchesMatrixComposition(t *testing.T) {
	a := NewPose(mgl32.Vec3{3, -1, 2}, mgl32.QuatRotate(1.1, mgl32.Vec3{0, 1, 1}.Normalize()))
	b := NewPose(mgl32.Vec3{0, 4, -8}, mgl32.QuatRotate(-0.6, mgl32.Vec3{1, 0, 0}))

	expected := b.Mat4().Mul4(a.Mat4().Inv())
	actual := PortalTransform(a, b).Mat4()
	assert.True(t, expected.ApproxEqualThreshold(actual, eps), "expected %v, got %v", expected, actual)

	decoded := PoseFromMat4(expected)
	assert.True(t, decoded.ApproxEqual(PortalTransform(a, b), eps))
}

func TestInFrontOf(t *testing.T) {
	portal := YawPose(mgl32.Vec3{10, 0, 0}, math32.Pi)

	assert.True(t, InFrontOf(portal, mgl32.Vec3{10, 0, -2}))
	assert.False(t, InFrontOf(portal, mgl32.Vec3{10, 0, 2}))
}

func TestTransitMode_Text(t *testing.T) {
	var m TransitMode
	require.NoError(t, m.UnmarshalText([]byte("offset")))
	assert.Equal(t, TransitOffset, m)

	b, err := TransitFull.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "full", string(b))

	assert.Error(t, m.UnmarshalText([]byte("sideways")))
}

func TestTransit_MirrorLeavesThroughPartnerFront(t *testing.T) {
	a := YawPose(mgl32.Vec3{0, 1, 0}, 0)
	b := YawPose(mgl32.Vec3{10, 1, -5}, math32.Pi/2)
	assertVec(t, "B forward", mgl32.Vec3{1, 0, 0}, b.Forward())

	body := YawPose(mgl32.Vec3{0, 1, 0.1}, 0)
	velocity := mgl32.Vec3{0, 0, -1}

	out := Transit(TransitMirror, a, b, body)
	assertVec(t, "position", mgl32.Vec3{9.9, 1, -5}, out.Position)
	assertVec(t, "velocity", mgl32.Vec3{1, 0, 0}, TransitVelocity(TransitMirror, a, b, velocity))
	assert.False(t, InFrontOf(b, out.Position))

	back := Transit(TransitMirror, b, a, out)
	assert.True(t, body.ApproxEqual(back, eps), "%+v != %+v", body, back)
}
