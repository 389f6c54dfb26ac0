package core

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var ErrDegenerateNormal = errors.New("surface normal has zero length")

// HorizontalThreshold is the |dot(normal, up)| above which a surface counts as floor or ceiling.
const HorizontalThreshold = 0.99

// SurfaceBasis builds an orthonormal basis whose columns are (tangent, bitangent, normal).
// World up is the reference for the tangent, except on near horizontal surfaces where world
// forward is used instead to keep the cross product from collapsing.
func SurfaceBasis(normal mgl32.Vec3, threshold float32) (mgl32.Mat3, error) {
	if normal.Len() < 1e-6 {
		return mgl32.Mat3{}, ErrDegenerateNormal
	}
	n := normal.Normalize()

	up := WorldUp
	if math32.Abs(n.Dot(up)) > threshold {
		up = WorldForward
	}

	tangent := up.Cross(n).Normalize()
	bitangent := n.Cross(tangent)

	return mgl32.Mat3FromCols(tangent, bitangent, n), nil
}

// SurfacePose offsets hit along the normal and orients the result with the normal as +Z.
func SurfacePose(hit, normal mgl32.Vec3, offset, threshold float32) (Pose, error) {
	basis, err := SurfaceBasis(normal, threshold)
	if err != nil {
		return Pose{}, err
	}
	n := basis.Col(2)
	return Pose{
		Position: hit.Add(n.Mul(offset)),
		Rotation: mgl32.Mat4ToQuat(basis.Mat4()).Normalize(),
	}, nil
}

// IsOrthonormal checks unit length columns that are mutually perpendicular.
func IsOrthonormal(m mgl32.Mat3, eps float32) bool {
	for i := 0; i < 3; i++ {
		if math32.Abs(m.Col(i).Len()-1) > eps {
			return false
		}
		for j := i + 1; j < 3; j++ {
			if math32.Abs(m.Col(i).Dot(m.Col(j))) > eps {
				return false
			}
		}
	}
	return true
}
