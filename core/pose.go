package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	WorldUp      = mgl32.Vec3{0, 1, 0}
	WorldForward = mgl32.Vec3{0, 0, -1}
)

// Pose is a rigid transform: rotation followed by translation.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

func PoseIdent() Pose {
	return Pose{Rotation: mgl32.QuatIdent()}
}

func NewPose(position mgl32.Vec3, rotation mgl32.Quat) Pose {
	return Pose{Position: position, Rotation: rotation.Normalize()}
}

// YawPose builds a pose rotated about world up by yaw radians.
func YawPose(position mgl32.Vec3, yaw float32) Pose {
	return Pose{Position: position, Rotation: mgl32.QuatRotate(yaw, WorldUp)}
}

// Mul returns p * o, i.e. o expressed in p's frame mapped to world.
func (p Pose) Mul(o Pose) Pose {
	return Pose{
		Position: p.Position.Add(p.Rotation.Rotate(o.Position)),
		Rotation: p.Rotation.Mul(o.Rotation).Normalize(),
	}
}

func (p Pose) Inverse() Pose {
	inv := p.Rotation.Conjugate()
	return Pose{
		Position: inv.Rotate(p.Position.Mul(-1)),
		Rotation: inv,
	}
}

func (p Pose) TransformPoint(v mgl32.Vec3) mgl32.Vec3 {
	return p.Position.Add(p.Rotation.Rotate(v))
}

func (p Pose) TransformDirection(v mgl32.Vec3) mgl32.Vec3 {
	return p.Rotation.Rotate(v)
}

func (p Pose) Mat4() mgl32.Mat4 {
	return mgl32.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z()).Mul4(p.Rotation.Mat4())
}

// PoseFromMat4 reads translation and rotation back out of a rigid matrix.
func PoseFromMat4(m mgl32.Mat4) Pose {
	return Pose{
		Position: m.Col(3).Vec3(),
		Rotation: mgl32.Mat4ToQuat(m).Normalize(),
	}
}

// Forward is the local +Z axis in world space. Placement puts the surface normal there.
func (p Pose) Forward() mgl32.Vec3 {
	return p.Rotation.Rotate(mgl32.Vec3{0, 0, 1})
}

func (p Pose) Up() mgl32.Vec3 {
	return p.Rotation.Rotate(WorldUp)
}

// Yaw is the heading of the local +Z axis around world up, in radians.
func (p Pose) Yaw() float32 {
	return Yaw(p.Rotation)
}

func Yaw(q mgl32.Quat) float32 {
	f := q.Rotate(mgl32.Vec3{0, 0, 1})
	return math32.Atan2(f.X(), f.Z())
}

// ApproxEqual compares positions and rotations, treating q and -q as the same rotation.
func (p Pose) ApproxEqual(o Pose, eps float32) bool {
	if !p.Position.ApproxEqualThreshold(o.Position, eps) {
		return false
	}
	return math32.Abs(p.Rotation.Normalize().Dot(o.Rotation.Normalize())) >= 1-eps
}
