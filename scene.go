package portals

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gekko3d/portals/core"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// SceneDef defines the initial state of a portal scene.
type SceneDef struct {
	Walls   []WallDef   `yaml:"walls"`
	Portals []PortalDef `yaml:"portals"`
	Bodies  []BodyDef   `yaml:"bodies"`
	Player  *PlayerDef  `yaml:"player"`
}

type WallDef struct {
	Name        string     `yaml:"name"`
	Position    [3]float32 `yaml:"position,flow"`
	HalfExtents [3]float32 `yaml:"half_extents,flow"`
}

// PortalDef places a portal as if a shot hit Position on a surface facing Normal.
type PortalDef struct {
	Color    PortalColor `yaml:"color"`
	Position [3]float32  `yaml:"position,flow"`
	Normal   [3]float32  `yaml:"normal,flow"`
}

type BodyDef struct {
	Position     [3]float32 `yaml:"position,flow"`
	Velocity     [3]float32 `yaml:"velocity,flow"`
	Yaw          float32    `yaml:"yaw"`
	Mass         float32    `yaml:"mass"`
	// GravityScale defaults to 1 when omitted.
	GravityScale *float32   `yaml:"gravity_scale"`
}

type PlayerDef struct {
	Position [3]float32 `yaml:"position,flow"`
	Yaw      float32    `yaml:"yaw"`
	Pitch    float32    `yaml:"pitch"`
}

func ParseSceneDef(r io.Reader) (SceneDef, error) {
	var def SceneDef
	if err := yaml.NewDecoder(r).Decode(&def); err != nil && !errors.Is(err, io.EOF) {
		return SceneDef{}, fmt.Errorf("scene: %w", err)
	}
	return def, nil
}

func LoadSceneDef(path string) (SceneDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return SceneDef{}, err
	}
	defer f.Close()
	return ParseSceneDef(f)
}

// Spawned holds what a SceneDef created.
type Spawned struct {
	Walls   []*Wall
	Portals []*Portal
	Bodies  []*RigidBody
	Player  *Player
}

// Spawn adds the scene's walls to scene, its bodies to world and places its portals.
func (def SceneDef) Spawn(scene *StaticScene, world *PhysicsWorld, placer *Placer) (Spawned, error) {
	var out Spawned
	for _, w := range def.Walls {
		wall := NewWall(w.Name, mgl32.Vec3(w.Position), mgl32.Vec3(w.HalfExtents))
		if scene != nil {
			scene.Add(wall)
		}
		out.Walls = append(out.Walls, wall)
	}

	for _, b := range def.Bodies {
		rb := NewRigidBody(core.YawPose(mgl32.Vec3(b.Position), b.Yaw), b.Mass)
		if b.GravityScale != nil {
			rb.GravityScale = *b.GravityScale
		}
		rb.SetVelocity(mgl32.Vec3(b.Velocity))
		if world != nil {
			world.Add(rb)
		}
		out.Bodies = append(out.Bodies, rb)
	}

	if def.Player != nil {
		out.Player = NewPlayer(core.YawPose(mgl32.Vec3(def.Player.Position), def.Player.Yaw))
		out.Player.Look(def.Player.Pitch)
		if world != nil {
			world.Add(out.Player)
		}
	}

	for _, p := range def.Portals {
		portal, err := placer.PlaceColor(p.Color, mgl32.Vec3(p.Position), mgl32.Vec3(p.Normal))
		if err != nil {
			return out, fmt.Errorf("scene: %s portal: %w", p.Color, err)
		}
		out.Portals = append(out.Portals, portal)
	}
	return out, nil
}
