package core

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// TransitMode picks how a pose at one portal is carried over to its partner.
type TransitMode int

const (
	// TransitFull is dst * inverse(src) * x and holds for any portal orientation.
	TransitFull TransitMode = iota
	// TransitOffset translates by the portal offset and adds the yaw difference plus a
	// half turn. Only meaningful for upright portals that differ by yaw alone.
	TransitOffset
	// TransitMirror is dst * halfTurn * inverse(src). A body entering one portal through its
	// front leaves the partner through its front, which is what placed portals need.
	TransitMirror
)

func (m TransitMode) String() string {
	switch m {
	case TransitFull:
		return "full"
	case TransitOffset:
		return "offset"
	case TransitMirror:
		return "mirror"
	}
	return fmt.Sprintf("TransitMode(%d)", int(m))
}

func ParseTransitMode(s string) (TransitMode, error) {
	switch s {
	case "", "full":
		return TransitFull, nil
	case "offset":
		return TransitOffset, nil
	case "mirror":
		return TransitMirror, nil
	}
	return TransitFull, fmt.Errorf("unknown transit mode %q", s)
}

func (m TransitMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *TransitMode) UnmarshalText(b []byte) error {
	parsed, err := ParseTransitMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// HalfTurn is a 180 degree rotation about world up.
func HalfTurn() mgl32.Quat {
	return mgl32.QuatRotate(math32.Pi, WorldUp)
}

// PortalTransform is the rigid transform that carries world poses at src to world poses at dst.
func PortalTransform(src, dst Pose) Pose {
	return dst.Mul(src.Inverse())
}

// MirroredPortalTransform is PortalTransform with a half turn about the portal's local up.
func MirroredPortalTransform(src, dst Pose) Pose {
	return dst.Mul(Pose{Rotation: HalfTurn()}).Mul(src.Inverse())
}

// Transit maps the world pose x from src's frame into dst's frame.
func Transit(mode TransitMode, src, dst, x Pose) Pose {
	switch mode {
	case TransitOffset:
		return offsetTransit(src, dst, x)
	case TransitMirror:
		return MirroredPortalTransform(src, dst).Mul(x)
	default:
		return PortalTransform(src, dst).Mul(x)
	}
}

// TransitVelocity maps a world space velocity the same way Transit maps orientation.
func TransitVelocity(mode TransitMode, src, dst Pose, v mgl32.Vec3) mgl32.Vec3 {
	switch mode {
	case TransitOffset:
		return offsetRotation(src, dst).Rotate(v)
	case TransitMirror:
		return MirroredPortalTransform(src, dst).TransformDirection(v)
	default:
		return PortalTransform(src, dst).TransformDirection(v)
	}
}

func offsetRotation(src, dst Pose) mgl32.Quat {
	delta := dst.Yaw() - src.Yaw()
	return mgl32.QuatRotate(delta, WorldUp).Mul(HalfTurn())
}

func offsetTransit(src, dst, x Pose) Pose {
	return Pose{
		Position: x.Position.Add(dst.Position.Sub(src.Position)),
		Rotation: offsetRotation(src, dst).Mul(x.Rotation).Normalize(),
	}
}

// InFrontOf reports whether point lies on the side of the portal its forward axis points to.
func InFrontOf(portal Pose, point mgl32.Vec3) bool {
	local := portal.Inverse().TransformPoint(point)
	return local.Z() > 0
}
