package portals

import (
	"sync/atomic"

	"github.com/chewxy/math32"
	"github.com/gekko3d/portals/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type WallId uuid.UUID

func NewWallId() WallId {
	return WallId(uuid.New())
}

func (id WallId) String() string {
	return uuid.UUID(id).String()
}

// Wall is a static collidable surface. Only Layers is ever written by this package.
type Wall struct {
	Id          WallId
	Name        string
	Position    mgl32.Vec3
	HalfExtents mgl32.Vec3
	Layers      core.RenderLayers
}

func NewWall(name string, position, halfExtents mgl32.Vec3) *Wall {
	return &Wall{
		Id:          NewWallId(),
		Name:        name,
		Position:    position,
		HalfExtents: halfExtents,
		Layers:      core.LayerMask(core.DefaultLayer),
	}
}

func (w *Wall) Bounds() AABB {
	return AABB{Min: w.Position.Sub(w.HalfExtents), Max: w.Position.Add(w.HalfExtents)}
}

type RayHit struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Distance float32
	Wall     *Wall
}

type SceneQuery interface {
	StaticSurfaces() []*Wall
}

type Raycaster interface {
	CastRay(origin, direction mgl32.Vec3, length float32) (RayHit, bool)
}

type CameraProvider interface {
	PlayerCamera() *core.Camera
}

type Spawner interface {
	Spawn(body Teleportable)
	Despawn(id BodyId)
}

type TextureHandle uint64

type TextureSource interface {
	Texture() TextureHandle
}

type Material interface {
	Shader() string
	SetParameter(name string, value any)
	Parameter(name string) (any, bool)
}

type MaterialFactory interface {
	NewMaterial(shader string) Material
}

// Host bundles the engine collaborators the portal systems consume.
type Host struct {
	Scene     SceneQuery
	Rays      Raycaster
	Viewer    CameraProvider
	Spawner   Spawner
	Materials MaterialFactory
	Targets   func(color PortalColor) TextureSource
}

// ShaderMaterial is an in-memory parameter set.
type ShaderMaterial struct {
	shader string
	params map[string]any
}

func NewShaderMaterial(shader string) *ShaderMaterial {
	return &ShaderMaterial{shader: shader, params: make(map[string]any)}
}

func (m *ShaderMaterial) Shader() string {
	return m.shader
}

func (m *ShaderMaterial) SetParameter(name string, value any) {
	m.params[name] = value
}

func (m *ShaderMaterial) Parameter(name string) (any, bool) {
	v, ok := m.params[name]
	return v, ok
}

type ShaderMaterials struct{}

func (ShaderMaterials) NewMaterial(shader string) Material {
	return NewShaderMaterial(shader)
}

var nextTexture atomic.Uint64

// StaticTexture stands in for a render target owned by the host renderer.
type StaticTexture struct {
	handle TextureHandle
}

func NewStaticTexture() *StaticTexture {
	return &StaticTexture{handle: TextureHandle(nextTexture.Add(1))}
}

func (t *StaticTexture) Texture() TextureHandle {
	return t.handle
}

// StaticScene is a flat list of walls answering surface and ray queries.
type StaticScene struct {
	Walls []*Wall
}

func (s *StaticScene) StaticSurfaces() []*Wall {
	return s.Walls
}

func (s *StaticScene) Add(walls ...*Wall) {
	s.Walls = append(s.Walls, walls...)
}

func (s *StaticScene) Find(name string) *Wall {
	for _, w := range s.Walls {
		if w.Name == name {
			return w
		}
	}
	return nil
}

// CastRay returns the closest wall box hit along the ray.
func (s *StaticScene) CastRay(origin, direction mgl32.Vec3, length float32) (RayHit, bool) {
	if direction.Len() == 0 {
		return RayHit{}, false
	}
	dir := direction.Normalize()

	var best RayHit
	found := false
	for _, w := range s.Walls {
		t, normal, ok := w.Bounds().intersectRay(origin, dir)
		if !ok || t > length {
			continue
		}
		if !found || t < best.Distance {
			best = RayHit{
				Position: origin.Add(dir.Mul(t)),
				Normal:   normal,
				Distance: t,
				Wall:     w,
			}
			found = true
		}
	}
	return best, found
}

type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func (b AABB) Contains(p mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// intersectRay is a slab test. Rays starting inside the box do not hit it.
func (b AABB) intersectRay(origin, dir mgl32.Vec3) (float32, mgl32.Vec3, bool) {
	tMin := float32(0)
	tMax := math32.Inf(1)
	axis := -1
	var sign float32

	for i := 0; i < 3; i++ {
		if math32.Abs(dir[i]) < 1e-8 {
			if origin[i] < b.Min[i] || origin[i] > b.Max[i] {
				return 0, mgl32.Vec3{}, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (b.Min[i] - origin[i]) * inv
		t2 := (b.Max[i] - origin[i]) * inv
		s := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1
		}
		if t1 > tMin {
			tMin = t1
			axis = i
			sign = s
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, mgl32.Vec3{}, false
		}
	}
	if axis < 0 {
		return 0, mgl32.Vec3{}, false
	}

	var normal mgl32.Vec3
	normal[axis] = sign
	return tMin, normal, true
}
