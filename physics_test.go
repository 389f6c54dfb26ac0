package portals

import (
	"testing"
	"time"

	"github.com/gekko3d/portals/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestPhysicsIntegration(t *testing.T) {
	physics := NewPhysicsWorld()
	physics.Gravity = mgl32.Vec3{0, -10, 0}

	rb := NewRigidBody(core.YawPose(mgl32.Vec3{0, 10, 0}, 0), 1.0)
	physics.Add(rb)

	tm := &Time{FixedDt: 100 * time.Millisecond}

	for i := 0; i < 10; i++ {
		PhysicsSystem(tm, physics)
	}

	if rb.Pose().Position.Y() >= 10 {
		t.Errorf("Body should have fallen, but Y = %f", rb.Pose().Position.Y())
	}
	if rb.Velocity().Y() >= 0 {
		t.Errorf("Body should have negative velocity, but VY = %f", rb.Velocity().Y())
	}
}

func TestPhysicsSkipsFrozenAndSleeping(t *testing.T) {
	physics := NewPhysicsWorld()

	frozen := NewRigidBody(core.PoseIdent(), 1)
	frozen.SetFrozen(true)
	frozen.SetVelocity(mgl32.Vec3{1, 0, 0})

	sleeping := NewRigidBody(core.PoseIdent(), 1)
	sleeping.Sleeping = true

	physics.Add(frozen, sleeping)
	physics.Step(0.1)

	assert.Equal(t, mgl32.Vec3{}, frozen.Pose().Position)
	assert.Equal(t, mgl32.Vec3{}, sleeping.Pose().Position)

	sleeping.ApplyImpulse(mgl32.Vec3{0, 2, 0})
	assert.False(t, sleeping.Sleeping)
	assert.Equal(t, mgl32.Vec3{0, 2, 0}, sleeping.Velocity())
}

func TestPhysicsWorld_SpawnDespawn(t *testing.T) {
	physics := NewPhysicsWorld()
	rb := NewRigidBody(core.PoseIdent(), 1)

	var spawner Spawner = physics
	spawner.Spawn(rb)
	assert.Same(t, rb, physics.Find(rb.Id()))

	spawner.Despawn(rb.Id())
	assert.Nil(t, physics.Find(rb.Id()))
	assert.Empty(t, physics.Bodies)
}

func TestPlayer_CameraFollowsBody(t *testing.T) {
	player := NewPlayer(core.YawPose(mgl32.Vec3{1, 0, 2}, 0))

	cam := player.PlayerCamera()
	assert.NotNil(t, cam)
	assertVec3(t, mgl32.Vec3{1, 1.6, 2}, cam.Pose.Position)
	assertVec3(t, mgl32.Vec3{0, 0, -1}, cam.GetForward())

	player.SetPose(core.YawPose(mgl32.Vec3{5, 0, 0}, 0))
	assertVec3(t, mgl32.Vec3{5, 1.6, 0}, cam.Pose.Position)

	player.Camera.Active = false
	assert.Nil(t, player.PlayerCamera())
}

func TestDuplicate_KeepsStateWithNewId(t *testing.T) {
	rb := NewRigidBody(core.YawPose(mgl32.Vec3{1, 2, 3}, 0.5), 2)
	rb.SetVelocity(mgl32.Vec3{0, 0, 4})

	dup := rb.Duplicate()
	assert.NotEqual(t, rb.Id(), dup.Id())
	assert.True(t, rb.Pose().ApproxEqual(dup.Pose(), 1e-5))
	assert.Equal(t, rb.Velocity(), dup.Velocity())
	assert.Nil(t, dup.IgnorePortal())
}

func assertVec3(t *testing.T, expected, actual mgl32.Vec3) {
	t.Helper()
	assert.Truef(t, expected.ApproxEqualThreshold(actual, 1e-4), "expected %v, got %v", expected, actual)
}

func TestPhysicsWorld_OnRemove(t *testing.T) {
	physics := NewPhysicsWorld()
	rb := NewRigidBody(core.PoseIdent(), 1)
	physics.Add(rb)

	var removed []BodyId
	physics.OnRemove(func(id BodyId) { removed = append(removed, id) })

	physics.Remove(NewBodyId())
	assert.Empty(t, removed)

	physics.Despawn(rb.Id())
	assert.Equal(t, []BodyId{rb.Id()}, removed)
}
