package portals

func colorBit(c PortalColor) uint8 {
	return 1 << uint(c)
}

// WallOcclusion hides each portal's mounting wall from that portal's own capture camera.
type WallOcclusion struct {
	cfg    Config
	scene  SceneQuery
	index  *WallIndex
	logger Logger

	stale     bool
	occupants map[*Wall]uint8
}

func NewWallOcclusion(cfg Config, scene SceneQuery, logger Logger) *WallOcclusion {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &WallOcclusion{
		cfg:       cfg,
		scene:     scene,
		index:     NewWallIndex(cfg.WallCellSize),
		logger:    logger,
		stale:     true,
		occupants: make(map[*Wall]uint8),
	}
}

// Invalidate forces the wall index to be rebuilt on the next lookup.
func (o *WallOcclusion) Invalidate() {
	o.stale = true
}

func (o *WallOcclusion) reindex() {
	o.stale = false
	if o.scene == nil {
		o.index.Clear()
		return
	}
	o.index.Rebuild(o.scene.StaticSurfaces(), func(w *Wall) bool {
		return w.Name != o.cfg.FloorName
	})
}

// FindAdjacentWall returns the static surface nearest to the portal, ignoring the floor.
// It returns nil when the scene has no candidate.
func (o *WallOcclusion) FindAdjacentWall(p *Portal) *Wall {
	if p == nil {
		return nil
	}
	if o.stale || o.cfg.RescanWallsEveryFrame {
		o.reindex()
	}
	return o.index.Nearest(p.Pose.Position)
}

// Occlude attaches the portal to the wall and updates the layer bits of both the wall and the
// portal's capture camera. A nil wall leaves everything untouched.
func (o *WallOcclusion) Occlude(p *Portal, w *Wall) {
	if p == nil {
		return
	}
	if w == nil {
		o.logger.Debugf("%s portal: no wall to occlude", p.Color)
		return
	}
	if p.wall != nil && p.wall != w {
		o.Release(p)
	}
	p.wall = w
	o.occupants[w] |= colorBit(p.Color)
	o.applyWall(w)

	if p.Capture != nil {
		p.Capture.CullMask.Set(o.cfg.ColorLayer(p.Color), false)
		p.Capture.CullMask.Set(o.cfg.SharedLayer, false)
	}
}

// Release detaches the portal from its wall. The wall gets its default layer back once no
// portal occupies it.
func (o *WallOcclusion) Release(p *Portal) {
	if p == nil || p.wall == nil {
		return
	}
	w := p.wall
	p.wall = nil

	bits := o.occupants[w] &^ colorBit(p.Color)
	if bits == 0 {
		delete(o.occupants, w)
	} else {
		o.occupants[w] = bits
	}
	o.applyWall(w)
}

func (o *WallOcclusion) applyWall(w *Wall) {
	bits := o.occupants[w]
	blue := bits&colorBit(Blue) != 0
	orange := bits&colorBit(Orange) != 0

	layers := w.Layers
	switch {
	case blue && orange:
		layers.Set(o.cfg.DefaultLayer, false)
		layers.Set(o.cfg.BlueLayer, false)
		layers.Set(o.cfg.OrangeLayer, false)
		layers.Set(o.cfg.SharedLayer, true)
	case blue || orange:
		layers.Set(o.cfg.DefaultLayer, false)
		layers.Set(o.cfg.BlueLayer, blue)
		layers.Set(o.cfg.OrangeLayer, orange)
		layers.Set(o.cfg.SharedLayer, false)
	default:
		layers.Set(o.cfg.DefaultLayer, true)
		layers.Set(o.cfg.BlueLayer, false)
		layers.Set(o.cfg.OrangeLayer, false)
		layers.Set(o.cfg.SharedLayer, false)
	}
	if layers != w.Layers {
		o.logger.Debugf("wall %q layers %v -> %v", w.Name, w.Layers, layers)
		w.Layers = layers
	}
}

// Update resolves walls for moved portals and reapplies occlusion for the rest.
func (o *WallOcclusion) Update(reg *PortalRegistry) {
	reg.Each(func(p *Portal) {
		if !p.wallDirty && !o.cfg.RescanWallsEveryFrame {
			if p.wall != nil {
				o.Occlude(p, p.wall)
			}
			return
		}
		p.wallDirty = false

		w := p.wallHint
		p.wallHint = nil
		if w == nil || w.Name == o.cfg.FloorName {
			w = o.FindAdjacentWall(p)
		}
		if w == nil {
			o.Release(p)
			o.logger.Debugf("%s portal: no static surface found", p.Color)
			return
		}
		o.Occlude(p, w)
	})
}

// Occupants reports which portal colors are mounted on the wall.
func (o *WallOcclusion) Occupants(w *Wall) []PortalColor {
	var res []PortalColor
	for _, c := range portalColors {
		if o.occupants[w]&colorBit(c) != 0 {
			res = append(res, c)
		}
	}
	return res
}

func WallOcclusionSystem(reg *PortalRegistry, occ *WallOcclusion) {
	occ.Update(reg)
}
