package portals

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/gekko3d/portals/core"
	"github.com/go-gl/mathgl/mgl32"
)

// TriggerVolume is a box in the portal's local frame.
type TriggerVolume struct {
	HalfExtents mgl32.Vec3
}

func (v TriggerVolume) Contains(portal core.Pose, point mgl32.Vec3) bool {
	local := portal.Inverse().TransformPoint(point)
	for i := 0; i < 3; i++ {
		if math32.Abs(local[i]) > v.HalfExtents[i] {
			return false
		}
	}
	return true
}

// DisplaySurface is the mesh the partner's capture is shown on.
type DisplaySurface struct {
	Material Material
}

type Portal struct {
	Color   PortalColor
	Pose    core.Pose
	Trigger TriggerVolume
	Capture *core.Camera
	Target  TextureSource
	Screen  *DisplaySurface

	wall      *Wall
	wallHint  *Wall
	wallDirty bool
	ghosts    map[BodyId]*Ghost
}

func NewPortal(color PortalColor, pose core.Pose, halfExtents mgl32.Vec3, target TextureSource) *Portal {
	return &Portal{
		Color:     color,
		Pose:      pose,
		Trigger:   TriggerVolume{HalfExtents: halfExtents},
		Capture:   core.NewCamera(),
		Target:    target,
		Screen:    &DisplaySurface{},
		wallDirty: true,
		ghosts:    make(map[BodyId]*Ghost),
	}
}

// SetPose moves the portal. The attached wall is resolved again on the next occlusion pass.
func (p *Portal) SetPose(pose core.Pose) {
	p.Pose = pose
	p.MarkMoved()
}

// SetPoseOnWall moves the portal onto a known wall, skipping the nearest wall search.
func (p *Portal) SetPoseOnWall(pose core.Pose, w *Wall) {
	p.SetPose(pose)
	p.wallHint = w
}

func (p *Portal) MarkMoved() {
	p.wallDirty = true
}

func (p *Portal) Wall() *Wall {
	return p.wall
}

func (p *Portal) Contains(point mgl32.Vec3) bool {
	return p.Trigger.Contains(p.Pose, point)
}

func (p *Portal) Ghost(id BodyId) *Ghost {
	return p.ghosts[id]
}

func (p *Portal) String() string {
	return fmt.Sprintf("%s portal at %v", p.Color, p.Pose.Position)
}

// PortalRegistry holds at most one portal per color.
type PortalRegistry struct {
	slots [len(portalColors)]*Portal
}

func NewPortalRegistry() *PortalRegistry {
	return &PortalRegistry{}
}

func (r *PortalRegistry) Register(p *Portal) error {
	if p == nil || !p.Color.Valid() {
		return ErrUnknownColor
	}
	if r.slots[p.Color] != nil {
		return fmt.Errorf("%w: %s", ErrDuplicatePortal, p.Color)
	}
	r.slots[p.Color] = p
	return nil
}

func (r *PortalRegistry) Unregister(color PortalColor) *Portal {
	if !color.Valid() {
		return nil
	}
	p := r.slots[color]
	r.slots[color] = nil
	return p
}

// GetPortal returns the portal of the given color, or nil when none is registered.
func (r *PortalRegistry) GetPortal(color PortalColor) *Portal {
	if !color.Valid() {
		return nil
	}
	return r.slots[color]
}

func (r *PortalRegistry) Lookup(color PortalColor) (*Portal, error) {
	if !color.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownColor, int(color))
	}
	if p := r.slots[color]; p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrPortalNotFound, color)
}

func (r *PortalRegistry) Partner(p *Portal) *Portal {
	if p == nil {
		return nil
	}
	return r.GetPortal(p.Color.Partner())
}

// Pair returns both portals when both are registered.
func (r *PortalRegistry) Pair() (blue, orange *Portal, ok bool) {
	blue, orange = r.slots[Blue], r.slots[Orange]
	return blue, orange, blue != nil && orange != nil
}

func (r *PortalRegistry) Each(fn func(p *Portal)) {
	for _, p := range r.slots {
		if p != nil {
			fn(p)
		}
	}
}
