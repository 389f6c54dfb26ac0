package portals

import (
	"github.com/gekko3d/portals/core"
)

const AlbedoParameter = "texture_albedo"

// PortalCameras places each portal's capture camera and cross-wires the partner's output onto
// its screen.
type PortalCameras struct {
	cfg       Config
	viewer    CameraProvider
	materials MaterialFactory
	logger    Logger
}

func NewPortalCameras(cfg Config, viewer CameraProvider, materials MaterialFactory, logger Logger) *PortalCameras {
	if materials == nil {
		materials = ShaderMaterials{}
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	return &PortalCameras{cfg: cfg, viewer: viewer, materials: materials, logger: logger}
}

// Update runs once per frame before rendering. Nothing happens until both portals exist and
// the player has an active camera.
func (pc *PortalCameras) Update(reg *PortalRegistry) {
	blue, orange, ok := reg.Pair()
	if !ok {
		return
	}
	if pc.viewer == nil {
		return
	}
	player := pc.viewer.PlayerCamera()
	if player == nil {
		return
	}

	pc.place(blue, orange, player)
	pc.place(orange, blue, player)
}

// place positions p's capture camera as the player camera seen from partner t, mapped into p.
func (pc *PortalCameras) place(p, t *Portal, player *core.Camera) {
	if p.Capture == nil {
		p.Capture = core.NewCamera()
	}
	capture := p.Capture
	capture.Pose = core.Transit(pc.cfg.TransitMode, t.Pose, p.Pose, player.Pose)
	capture.Fov = player.Fov
	capture.Near = player.Near
	capture.Far = player.Far
	// p's capture is shown on t's screen; skip it when the player is behind that screen.
	capture.Active = core.InFrontOf(t.Pose, player.Pose.Position)

	pc.bind(p, t)
}

func (pc *PortalCameras) bind(p, t *Portal) {
	if p.Screen == nil {
		p.Screen = &DisplaySurface{}
	}
	if p.Screen.Material == nil {
		p.Screen.Material = pc.materials.NewMaterial(pc.cfg.ScreenShader)
		pc.logger.Debugf("%s portal: created screen material %q", p.Color, pc.cfg.ScreenShader)
	}
	if t.Target == nil {
		return
	}
	tex := t.Target.Texture()
	if cur, ok := p.Screen.Material.Parameter(AlbedoParameter); ok && cur == tex {
		return
	}
	p.Screen.Material.SetParameter(AlbedoParameter, tex)
}

func PortalCameraSystem(reg *PortalRegistry, pc *PortalCameras) {
	pc.Update(reg)
}
