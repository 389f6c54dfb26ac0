package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is either the player's view or a portal capture camera.
type Camera struct {
	Pose     Pose
	Fov      float32 // degrees
	Near     float32
	Far      float32
	CullMask RenderLayers
	// Active is false when nothing would ever sample this camera's output this frame.
	Active bool
}

func NewCamera() *Camera {
	return &Camera{
		Pose:     PoseIdent(),
		Fov:      75,
		Near:     0.05,
		Far:      4000,
		CullMask: AllLayers,
		Active:   true,
	}
}

// GetForward is the view direction. Cameras look down their local -Z.
func (c *Camera) GetForward() mgl32.Vec3 {
	return c.Pose.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	eye := c.Pose.Position
	target := eye.Add(c.GetForward())
	up := c.Pose.Up()
	return mgl32.LookAtV(eye, target, up)
}

// Sees reports whether a mesh on the given layers passes this camera's cull mask.
func (c *Camera) Sees(layers RenderLayers) bool {
	return c.CullMask.Intersects(layers)
}
