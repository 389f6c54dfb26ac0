package portals

import (
	"math"

	"github.com/gekko3d/portals/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type BodyId uuid.UUID

func NewBodyId() BodyId {
	return BodyId(uuid.New())
}

func (id BodyId) String() string {
	return uuid.UUID(id).String()
}

// Teleportable is the capability the transit machine acts on.
type Teleportable interface {
	Id() BodyId
	Pose() core.Pose
	SetPose(pose core.Pose)
	Velocity() mgl32.Vec3
	SetVelocity(velocity mgl32.Vec3)
	IgnorePortal() *Portal
	SetIgnorePortal(portal *Portal)
}

type Freezable interface {
	Frozen() bool
}

type Freezer interface {
	Freezable
	SetFrozen(frozen bool)
}

type CollisionLayered interface {
	CollisionMask() core.RenderLayers
	SetCollisionMask(mask core.RenderLayers)
}

// Duplicator bodies can produce a ghost copy of themselves.
type Duplicator interface {
	Duplicate() Teleportable
}

type body struct {
	id       BodyId
	pose     core.Pose
	velocity mgl32.Vec3
	ignore   *Portal
}

func newBody(pose core.Pose) body {
	return body{id: NewBodyId(), pose: pose}
}

func (b *body) Id() BodyId                      { return b.id }
func (b *body) Pose() core.Pose                 { return b.pose }
func (b *body) SetPose(pose core.Pose)          { b.pose = pose }
func (b *body) Velocity() mgl32.Vec3            { return b.velocity }
func (b *body) SetVelocity(velocity mgl32.Vec3) { b.velocity = velocity }
func (b *body) IgnorePortal() *Portal           { return b.ignore }
func (b *body) SetIgnorePortal(portal *Portal)  { b.ignore = portal }

type RigidBody struct {
	body
	Mass         float32
	GravityScale float32
	Sleeping     bool

	frozen        bool
	collisionMask core.RenderLayers
}

func NewRigidBody(pose core.Pose, mass float32) *RigidBody {
	return &RigidBody{
		body:          newBody(pose),
		Mass:          mass,
		GravityScale:  1,
		collisionMask: core.AllLayers,
	}
}

func (rb *RigidBody) Wake() {
	rb.Sleeping = false
}

func (rb *RigidBody) ApplyImpulse(impulse mgl32.Vec3) {
	rb.Wake()
	if rb.Mass > 0 {
		rb.velocity = rb.velocity.Add(impulse.Mul(1.0 / rb.Mass))
	} else {
		rb.velocity = rb.velocity.Add(impulse)
	}
}

func (rb *RigidBody) Frozen() bool                            { return rb.frozen }
func (rb *RigidBody) SetFrozen(frozen bool)                   { rb.frozen = frozen }
func (rb *RigidBody) CollisionMask() core.RenderLayers        { return rb.collisionMask }
func (rb *RigidBody) SetCollisionMask(mask core.RenderLayers) { rb.collisionMask = mask }

func (rb *RigidBody) Duplicate() Teleportable {
	dup := NewRigidBody(rb.Pose(), rb.Mass)
	dup.GravityScale = rb.GravityScale
	dup.velocity = rb.velocity
	dup.collisionMask = rb.collisionMask
	return dup
}

// MaxPitch bounds how far the player camera tilts up or down.
var MaxPitch = mgl32.DegToRad(80)

// Player is the character body. Its camera follows the body at eye height.
type Player struct {
	body
	Camera    *core.Camera
	EyeHeight float32
	Pitch     float32
}

func NewPlayer(pose core.Pose) *Player {
	p := &Player{
		body:      newBody(pose),
		Camera:    core.NewCamera(),
		EyeHeight: 1.6,
	}
	p.syncCamera()
	return p
}

func (p *Player) SetPose(pose core.Pose) {
	p.body.SetPose(pose)
	p.syncCamera()
}

func (p *Player) Look(pitch float32) {
	p.Pitch = mgl32.Clamp(pitch, -MaxPitch, MaxPitch)
	p.syncCamera()
}

func (p *Player) PlayerCamera() *core.Camera {
	if p.Camera == nil || !p.Camera.Active {
		return nil
	}
	return p.Camera
}

func (p *Player) Duplicate() Teleportable {
	dup := NewRigidBody(p.Pose(), 0)
	dup.GravityScale = 0
	return dup
}

func (p *Player) syncCamera() {
	if p.Camera == nil {
		return
	}
	pose := p.Pose()
	eye := pose.Position.Add(pose.Up().Mul(p.EyeHeight))
	pitch := mgl32.QuatRotate(p.Pitch, mgl32.Vec3{1, 0, 0})
	p.Camera.Pose = core.NewPose(eye, pose.Rotation.Mul(pitch))
}

// PhysicsWorld is a minimal integrator for bodies the host does not simulate itself.
type PhysicsWorld struct {
	Gravity mgl32.Vec3
	Bodies  []Teleportable

	removed []func(BodyId)
}

func NewPhysicsWorld() *PhysicsWorld {
	return &PhysicsWorld{
		Gravity: mgl32.Vec3{0, -9.81, 0},
	}
}

func (w *PhysicsWorld) Add(bodies ...Teleportable) {
	w.Bodies = append(w.Bodies, bodies...)
}

// OnRemove registers fn to run after a body leaves the world.
func (w *PhysicsWorld) OnRemove(fn func(BodyId)) {
	w.removed = append(w.removed, fn)
}

func (w *PhysicsWorld) Remove(id BodyId) {
	for i, b := range w.Bodies {
		if b.Id() == id {
			w.Bodies = append(w.Bodies[:i], w.Bodies[i+1:]...)
			for _, fn := range w.removed {
				fn(id)
			}
			return
		}
	}
}

func (w *PhysicsWorld) Find(id BodyId) Teleportable {
	for _, b := range w.Bodies {
		if b.Id() == id {
			return b
		}
	}
	return nil
}

func (w *PhysicsWorld) Step(dt float32) {
	if dt <= 0 || dt > 1.0 {
		return
	}
	for _, b := range w.Bodies {
		if f, ok := b.(Freezable); ok && f.Frozen() {
			continue
		}
		velocity := b.Velocity()
		if rb, ok := b.(*RigidBody); ok {
			if rb.Sleeping {
				continue
			}
			if rb.GravityScale != 0 {
				velocity = velocity.Add(w.Gravity.Mul(rb.GravityScale * dt))
			}
		}

		displacement := velocity.Mul(dt)
		if math.IsNaN(float64(displacement.Len())) || math.IsInf(float64(displacement.Len()), 0) {
			b.SetVelocity(mgl32.Vec3{})
			continue
		}

		pose := b.Pose()
		pose.Position = pose.Position.Add(displacement)
		b.SetVelocity(velocity)
		b.SetPose(pose)
	}
}

// Spawn and Despawn let the world act as the ghost spawner.
func (w *PhysicsWorld) Spawn(b Teleportable) {
	w.Add(b)
}

func (w *PhysicsWorld) Despawn(id BodyId) {
	w.Remove(id)
}

func PhysicsSystem(t *Time, world *PhysicsWorld) {
	step := t.FixedDt
	if step <= 0 {
		step = t.Dt
	}
	world.Step(float32(step.Seconds()))
}
