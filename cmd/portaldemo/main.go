package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gekko3d/portals"
	"github.com/gekko3d/portals/core"
)

var defaultScene = portals.SceneDef{
	Walls: []portals.WallDef{
		{Name: "Floor", Position: [3]float32{0, -0.5, 0}, HalfExtents: [3]float32{20, 0.5, 20}},
		{Name: "NorthWall", Position: [3]float32{0, 2, -10.5}, HalfExtents: [3]float32{10, 2, 0.5}},
		{Name: "EastWall", Position: [3]float32{10.5, 2, 0}, HalfExtents: [3]float32{0.5, 2, 10}},
	},
	Portals: []portals.PortalDef{
		{Color: portals.Orange, Position: [3]float32{10, 1.5, 0}, Normal: [3]float32{-1, 0, 0}},
	},
	Bodies: []portals.BodyDef{
		{Position: [3]float32{0, 1.5, -5}, Velocity: [3]float32{0, 0, -2}, Mass: 1},
	},
	Player: &portals.PlayerDef{Position: [3]float32{0, 0, 0}},
}

func main() {
	configPath := flag.String("config", "", "Path to a portal config yaml")
	scenePath := flag.String("scene", "", "Path to a scene yaml (built-in room when empty)")
	frames := flag.Int("frames", 600, "Frames to simulate")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg := portals.DefaultConfig()
	cfg.TransitMode = core.TransitMirror
	if *configPath != "" {
		var err error
		if cfg, err = portals.LoadConfig(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(1)
		}
	}
	cfg.Debug = cfg.Debug || *debug

	scene := defaultScene
	if *scenePath != "" {
		var err error
		if scene, err = portals.LoadSceneDef(*scenePath); err != nil {
			fmt.Fprintln(os.Stderr, "scene:", err)
			os.Exit(1)
		}
	}

	app := portals.NewAppBuilder().
		UseStates(portals.StatePlaying, portals.StateEditing).
		UseModule(
			portals.LoggingModule{Prefix: "portaldemo", Debug: cfg.Debug},
			portals.PortalModule{Config: cfg, Scene: &scene},
		).
		Build()

	log := app.Logger()
	if shots := portals.GetResource[portals.PlacementQueue](app); shots != nil {
		shots.Shoot(portals.Blue)
	}

	step := cfg.FixedStep
	if step <= 0 {
		step = time.Second / 60
	}
	app.Run(*frames, step)

	report(app, log)
	if l, ok := log.(*portals.DefaultLogger); ok {
		_ = l.Sync()
	}
}

func report(app *portals.App, log portals.Logger) {
	reg := portals.GetResource[portals.PortalRegistry](app)
	machine := portals.GetResource[portals.TransitMachine](app)
	world := portals.GetResource[portals.PhysicsWorld](app)
	occlusion := portals.GetResource[portals.WallOcclusion](app)

	reg.Each(func(p *portals.Portal) {
		wall := "none"
		if w := p.Wall(); w != nil {
			wall = fmt.Sprintf("%s %v occupied by %v", w.Name, w.Layers, occlusion.Occupants(w))
		}
		log.Infof("%s: wall %s, capture active %v, cull %v", p, wall, p.Capture.Active, p.Capture.CullMask)
	})
	for _, b := range world.Bodies {
		log.Infof("body %s at %v moving %v", b.Id(), b.Pose().Position, b.Velocity())
	}
	log.Infof("%d crossings", machine.Teleports)
}
