package portals

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSceneYaml = `
walls:
  - name: Floor
    position: [0, -0.5, 0]
    half_extents: [20, 0.5, 20]
  - name: NorthWall
    position: [0, 2, -10.5]
    half_extents: [10, 2, 0.5]
  - name: EastWall
    position: [10.5, 2, 0]
    half_extents: [0.5, 2, 10]
portals:
  - color: blue
    position: [0, 1.5, -10]
    normal: [0, 0, 1]
  - color: orange
    position: [10, 1.5, 0]
    normal: [-1, 0, 0]
bodies:
  - position: [0, 1.5, -8.02]
    velocity: [0, 0, -3]
    mass: 1
    gravity_scale: 0
player:
  position: [0, 0, 0]
  pitch: -0.2
`

func TestParseSceneDef(t *testing.T) {
	def, err := ParseSceneDef(strings.NewReader(testSceneYaml))
	require.NoError(t, err)

	require.Len(t, def.Walls, 3)
	assert.Equal(t, "EastWall", def.Walls[2].Name)
	assert.Equal(t, [3]float32{0.5, 2, 10}, def.Walls[2].HalfExtents)

	require.Len(t, def.Portals, 2)
	assert.Equal(t, Blue, def.Portals[0].Color)
	assert.Equal(t, Orange, def.Portals[1].Color)
	assert.Equal(t, [3]float32{-1, 0, 0}, def.Portals[1].Normal)

	require.Len(t, def.Bodies, 1)
	assert.Equal(t, [3]float32{0, 0, -3}, def.Bodies[0].Velocity)
	require.NotNil(t, def.Bodies[0].GravityScale)
	assert.Equal(t, float32(0), *def.Bodies[0].GravityScale)

	require.NotNil(t, def.Player)
	assert.Equal(t, float32(-0.2), def.Player.Pitch)
}

func TestParseSceneDef_Errors(t *testing.T) {
	_, err := ParseSceneDef(strings.NewReader("portals:\n  - color: green\n"))
	assert.ErrorIs(t, err, ErrUnknownColor)

	def, err := ParseSceneDef(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, def.Walls)
	assert.Nil(t, def.Player)
}

func TestSceneDef_Spawn(t *testing.T) {
	def, err := ParseSceneDef(strings.NewReader(testSceneYaml))
	require.NoError(t, err)

	scene := &StaticScene{}
	world := NewPhysicsWorld()
	reg := NewPortalRegistry()
	placer := NewPlacer(DefaultConfig(), reg, Host{Rays: scene}, nil)

	spawned, err := def.Spawn(scene, world, placer)
	require.NoError(t, err)

	assert.Len(t, scene.Walls, 3)
	assert.Same(t, spawned.Walls[1], scene.Find("NorthWall"))
	require.Len(t, spawned.Bodies, 1)
	require.NotNil(t, spawned.Player)
	assert.Len(t, world.Bodies, 2)
	assert.Equal(t, float32(-0.2), spawned.Player.Pitch)

	blue, orange, ok := reg.Pair()
	require.True(t, ok)
	assertVec3(t, mgl32.Vec3{0, 1.5, -9.9}, blue.Pose.Position)
	assertVec3(t, mgl32.Vec3{9.9, 1.5, 0}, orange.Pose.Position)
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, orange.Pose.Forward())
	assert.Equal(t, DefaultConfig().triggerExtents(), blue.Trigger.HalfExtents)
}

func TestSceneDef_SpawnGravityScale(t *testing.T) {
	def, err := ParseSceneDef(strings.NewReader(`
bodies:
  - position: [0, 1, 0]
    mass: 1
  - position: [0, 1, 0]
    mass: 1
    gravity_scale: 0
  - position: [0, 1, 0]
    mass: 1
    gravity_scale: 0.5
`))
	require.NoError(t, err)
	assert.Nil(t, def.Bodies[0].GravityScale)

	spawned, err := def.Spawn(nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, spawned.Bodies, 3)
	assert.Equal(t, float32(1), spawned.Bodies[0].GravityScale)
	assert.Equal(t, float32(0), spawned.Bodies[1].GravityScale)
	assert.Equal(t, float32(0.5), spawned.Bodies[2].GravityScale)
}

func TestSceneDef_SpawnDegenerateNormal(t *testing.T) {
	def := SceneDef{Portals: []PortalDef{{Color: Blue, Position: [3]float32{1, 1, 1}}}}
	placer := NewPlacer(DefaultConfig(), NewPortalRegistry(), Host{}, nil)

	_, err := def.Spawn(nil, nil, placer)
	assert.ErrorIs(t, err, ErrDegenerateNormal)
}
