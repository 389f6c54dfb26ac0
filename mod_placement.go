package portals

import (
	"github.com/gekko3d/portals/core"
	"github.com/go-gl/mathgl/mgl32"
)

// PortalShot asks for a portal of Color to be fired from the player camera.
type PortalShot struct {
	Color PortalColor
}

type PlacementQueue struct {
	shots []PortalShot
}

func (q *PlacementQueue) Shoot(color PortalColor) {
	q.shots = append(q.shots, PortalShot{Color: color})
}

func (q *PlacementQueue) Drain() []PortalShot {
	shots := q.shots
	q.shots = nil
	return shots
}

type Placer struct {
	cfg     Config
	reg     *PortalRegistry
	rays    Raycaster
	viewer  CameraProvider
	targets func(color PortalColor) TextureSource
	logger  Logger
}

func NewPlacer(cfg Config, reg *PortalRegistry, host Host, logger Logger) *Placer {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Placer{
		cfg:     cfg,
		reg:     reg,
		rays:    host.Rays,
		viewer:  host.Viewer,
		targets: host.Targets,
		logger:  logger,
	}
}

// Place moves p onto the surface at hit, offset along normal and facing along it.
func (pl *Placer) Place(p *Portal, hit, normal mgl32.Vec3) error {
	return pl.placeOn(p, hit, normal, nil)
}

func (pl *Placer) placeOn(p *Portal, hit, normal mgl32.Vec3, wall *Wall) error {
	pose, err := core.SurfacePose(hit, normal, pl.cfg.SurfaceOffset, pl.cfg.HorizontalThreshold)
	if err != nil {
		return err
	}
	p.SetPoseOnWall(pose, wall)
	pl.logger.Debugf("placed %s", p)
	return nil
}

// PlaceColor places the portal of the given color, creating and registering it on first use.
func (pl *Placer) PlaceColor(color PortalColor, hit, normal mgl32.Vec3) (*Portal, error) {
	return pl.placeColorOn(color, hit, normal, nil)
}

func (pl *Placer) placeColorOn(color PortalColor, hit, normal mgl32.Vec3, wall *Wall) (*Portal, error) {
	if !color.Valid() {
		return nil, ErrUnknownColor
	}
	if p := pl.reg.GetPortal(color); p != nil {
		return p, pl.placeOn(p, hit, normal, wall)
	}

	var target TextureSource
	if pl.targets != nil {
		target = pl.targets(color)
	}
	p := NewPortal(color, core.PoseIdent(), pl.cfg.triggerExtents(), target)
	if err := pl.placeOn(p, hit, normal, wall); err != nil {
		return nil, err
	}
	if err := pl.reg.Register(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Shoot casts a ray along the player's view and places the portal where it lands. It reports
// false when there is no camera or nothing was hit.
func (pl *Placer) Shoot(color PortalColor) (*Portal, bool, error) {
	if pl.viewer == nil || pl.rays == nil {
		return nil, false, nil
	}
	cam := pl.viewer.PlayerCamera()
	if cam == nil {
		return nil, false, nil
	}
	hit, ok := pl.rays.CastRay(cam.Pose.Position, cam.GetForward(), pl.cfg.RayLength)
	if !ok {
		pl.logger.Debugf("%s shot missed", color)
		return nil, false, nil
	}
	p, err := pl.placeColorOn(color, hit.Position, hit.Normal, hit.Wall)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func PlacementSystem(q *PlacementQueue, pl *Placer) {
	for _, shot := range q.Drain() {
		if _, _, err := pl.Shoot(shot.Color); err != nil {
			pl.logger.Warnf("%s shot: %v", shot.Color, err)
		}
	}
}
