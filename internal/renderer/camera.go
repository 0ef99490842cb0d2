package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is an orientation driven viewer. Its rotation is set from outside,
// typically from material.Sway, and the basis vectors follow.
type Camera struct {
	Position   mgl32.Vec3
	Rotation   mgl32.Quat
	Front      mgl32.Vec3
	Up         mgl32.Vec3
	Right      mgl32.Vec3
	Projection mgl32.Mat4

	Fov         float32 // degrees
	Near        float32
	Far         float32
	AspectRatio float32
}

func NewDefaultCamera(height int32, width int32) *Camera {
	camera := Camera{
		Position:    mgl32.Vec3{0, 150, 0},
		Rotation:    mgl32.QuatIdent(),
		Fov:         45.0,
		Near:        0.1,
		Far:         10000.0,
		AspectRatio: float32(width) / float32(height),
	}
	camera.updateCameraVectors()
	camera.UpdateProjection()
	return &camera
}

func (c *Camera) UpdateProjection() {
	c.Projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far)
}

func (c *Camera) SetRotation(q mgl32.Quat) {
	c.Rotation = q.Normalize()
	c.updateCameraVectors()
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return c.Projection
}

func (c *Camera) GetViewProjection() mgl32.Mat4 {
	return c.Projection.Mul4(c.GetViewMatrix())
}

// The camera looks down -Z with +Y up in its local frame.
func (c *Camera) updateCameraVectors() {
	c.Front = c.Rotation.Rotate(mgl32.Vec3{0, 0, -1}).Normalize()
	c.Up = c.Rotation.Rotate(mgl32.Vec3{0, 1, 0}).Normalize()
	c.Right = c.Front.Cross(c.Up).Normalize()
}
