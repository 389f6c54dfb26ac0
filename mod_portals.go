package portals

// PortalModule wires placement, occlusion, transit, ghosts and capture cameras into the app.
type PortalModule struct {
	Config Config
	Host   Host
	Scene  *SceneDef
	// ExternalPhysics is set when the host steps bodies and pushes trigger events itself.
	ExternalPhysics bool
}

func (m PortalModule) Install(app *App, cmd *Commands) {
	cfg := m.Config
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	logger := cmd.Logger()
	if cfg.Debug {
		logger.SetDebug(true)
	}

	if GetResource[Time](app) == nil {
		TimeModule{FixedStep: cfg.FixedStep}.Install(app, cmd)
	}
	world := GetResource[PhysicsWorld](app)
	if world == nil {
		world = NewPhysicsWorld()
		cmd.AddResources(world)
	}

	host := m.Host
	if host.Materials == nil {
		host.Materials = ShaderMaterials{}
	}
	if host.Targets == nil {
		host.Targets = func(PortalColor) TextureSource { return NewStaticTexture() }
	}
	if host.Spawner == nil {
		host.Spawner = world
	}
	staticScene, _ := host.Scene.(*StaticScene)
	if host.Scene == nil {
		staticScene = &StaticScene{}
		host.Scene = staticScene
	}
	if host.Rays == nil && staticScene != nil {
		host.Rays = staticScene
	}

	reg := NewPortalRegistry()
	ghosts := NewGhosts(cfg, reg, host.Spawner, logger)
	placer := NewPlacer(cfg, reg, host, logger)

	if m.Scene != nil {
		spawned, err := m.Scene.Spawn(staticScene, world, placer)
		if err != nil {
			panic(err)
		}
		if spawned.Player != nil {
			cmd.AddResources(spawned.Player)
			if host.Viewer == nil {
				host.Viewer = spawned.Player
				placer.viewer = spawned.Player
			}
		}
	}

	machine := NewTransitMachine(cfg, reg, ghosts, logger)
	detector := NewOverlapDetector()
	world.OnRemove(machine.Forget)
	world.OnRemove(detector.Forget)

	cmd.AddResources(
		&cfg,
		reg,
		ghosts,
		placer,
		machine,
		NewWallOcclusion(cfg, host.Scene, logger),
		NewPortalCameras(cfg, host.Viewer, host.Materials, logger),
		detector,
		&OverlapQueue{},
		&PlacementQueue{},
	)

	playing := func(s systemScheduleBuilder) systemScheduleBuilder {
		if cmd.Stateful() {
			return s.InState(OnExecute(StatePlaying))
		}
		return s.RunAlways()
	}

	if !m.ExternalPhysics {
		cmd.UseSystem(playing(System(PhysicsSystem).InStage(Physics)))
		cmd.UseSystem(playing(System(OverlapDetectionSystem).InStage(Physics)))
	}
	cmd.UseSystem(playing(System(TransitSystem).InStage(Physics)))
	cmd.UseSystem(System(PlacementSystem).InStage(Update).RunAlways())
	cmd.UseSystem(playing(System(GhostSystem).InStage(PostUpdate)))
	cmd.UseSystem(System(WallOcclusionSystem).InStage(PostUpdate).RunAlways())
	cmd.UseSystem(playing(System(PortalCameraSystem).InStage(PreRender)))

	if cmd.Stateful() && app.finalState >= StateEditing {
		cmd.UseSystem(System(releaseGhostsSystem).InStage(PreUpdate).InState(OnEnter(StateEditing)))
		cmd.UseSystem(System(rescanWallsSystem).InStage(PreUpdate).InState(OnExit(StateEditing)))
	}

	logger.Infof("portals installed (transit mode %s)", cfg.TransitMode)
}

// Ghosts are dropped while editing; walls may change before play resumes.
func releaseGhostsSystem(g *Ghosts) {
	g.ReleaseAll()
}

func rescanWallsSystem(reg *PortalRegistry, occ *WallOcclusion) {
	occ.Invalidate()
	reg.Each(func(p *Portal) { p.MarkMoved() })
}
