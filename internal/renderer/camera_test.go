package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultCamera(t *testing.T) {
	cam := NewDefaultCamera(600, 800)
	require.NotNil(t, cam)

	assert.True(t, cam.Front.ApproxEqual(mgl32.Vec3{0, 0, -1}), "Front = %v, want -Z", cam.Front)
	assert.Greater(t, cam.AspectRatio, float32(1), "aspect ratio is width/height")
}

func TestCameraSetRotation(t *testing.T) {
	cam := NewDefaultCamera(600, 800)
	cam.SetRotation(mgl32.QuatRotate(mgl32.DegToRad(-90), mgl32.Vec3{1, 0, 0}))

	assert.True(t, cam.Front.ApproxEqualThreshold(mgl32.Vec3{0, -1, 0}, 1e-5), "Front = %v, want straight down", cam.Front)
	assert.True(t, cam.Right.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5), "Right = %v, want +X", cam.Right)
}

func TestCameraGetViewMatrix(t *testing.T) {
	cam := NewDefaultCamera(600, 800)
	cam.Position = mgl32.Vec3{0, 0, 5}

	view := cam.GetViewMatrix()
	assert.Equal(t, float32(1), view.At(3, 3))

	// the camera position maps to the view space origin
	origin := view.Mul4x1(cam.Position.Vec4(1))
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 0, origin[i], 1e-5)
	}
}

func TestCameraGetProjectionMatrix(t *testing.T) {
	cam := NewDefaultCamera(600, 800)
	assert.Equal(t, float32(0), cam.GetProjectionMatrix().At(3, 3), "perspective projection has w=0 at (3,3)")
}

func TestCameraGetViewProjection(t *testing.T) {
	cam := NewDefaultCamera(600, 800)
	assert.NotEqual(t, mgl32.Mat4{}, cam.GetViewProjection())
}
