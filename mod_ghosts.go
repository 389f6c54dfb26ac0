package portals

import (
	"fmt"

	"github.com/gekko3d/portals/core"
)

// Ghost is a frozen clone of a body shown at the partner portal.
type Ghost struct {
	Source Teleportable
	Copy   Teleportable
	Portal PortalColor
}

// Ghosts keeps ghost copies in step with their live bodies. It never moves the live body.
type Ghosts struct {
	cfg     Config
	reg     *PortalRegistry
	spawner Spawner
	logger  Logger
}

func NewGhosts(cfg Config, reg *PortalRegistry, spawner Spawner, logger Logger) *Ghosts {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Ghosts{cfg: cfg, reg: reg, spawner: spawner, logger: logger}
}

// Track starts showing body at the partner of the color portal.
func (g *Ghosts) Track(color PortalColor, body Teleportable) (*Ghost, error) {
	p, err := g.reg.Lookup(color)
	if err != nil {
		return nil, err
	}
	partner, err := g.reg.Lookup(color.Partner())
	if err != nil {
		return nil, err
	}
	if ghost, ok := p.ghosts[body.Id()]; ok {
		return ghost, nil
	}

	dup, ok := body.(Duplicator)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotDuplicable, body)
	}
	clone := dup.Duplicate()
	if f, ok := clone.(Freezer); ok {
		f.SetFrozen(true)
	}
	if c, ok := clone.(CollisionLayered); ok {
		c.SetCollisionMask(core.LayerMask(g.cfg.GroundLayer))
	}
	if _, ok := body.(*RigidBody); ok {
		clone.SetVelocity(core.HalfTurn().Rotate(body.Velocity()))
	}
	clone.SetPose(core.Transit(g.cfg.TransitMode, p.Pose, partner.Pose, body.Pose()))

	if g.spawner != nil {
		g.spawner.Spawn(clone)
	}
	ghost := &Ghost{Source: body, Copy: clone, Portal: color}
	p.ghosts[body.Id()] = ghost
	g.logger.Debugf("%s portal: ghost %s for %s", color, clone.Id(), body.Id())
	return ghost, nil
}

// IsSource reports whether the body has a ghost at either portal.
func (g *Ghosts) IsSource(id BodyId) bool {
	found := false
	g.reg.Each(func(p *Portal) {
		if _, ok := p.ghosts[id]; ok {
			found = true
		}
	})
	return found
}

func (g *Ghosts) Release(color PortalColor, id BodyId) bool {
	p := g.reg.GetPortal(color)
	if p == nil {
		return false
	}
	ghost, ok := p.ghosts[id]
	if !ok {
		return false
	}
	delete(p.ghosts, id)
	if g.spawner != nil {
		g.spawner.Despawn(ghost.Copy.Id())
	}
	g.logger.Debugf("%s portal: released ghost of %s", color, id)
	return true
}

func (g *Ghosts) ReleaseAll() {
	g.reg.Each(func(p *Portal) {
		for id := range p.ghosts {
			g.Release(p.Color, id)
		}
	})
}

// Update moves every ghost to where its body would appear through the portal pair.
func (g *Ghosts) Update() {
	g.reg.Each(func(p *Portal) {
		partner := g.reg.Partner(p)
		if partner == nil {
			return
		}
		for _, ghost := range p.ghosts {
			ghost.Copy.SetPose(core.Transit(g.cfg.TransitMode, p.Pose, partner.Pose, ghost.Source.Pose()))
		}
	})
}

func GhostSystem(g *Ghosts) {
	g.Update()
}
