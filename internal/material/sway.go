package material

import (
	"math"

	"Cloudscape/internal/noise"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	swayAmplitude = 0.2
	swaySpeed     = 0.1
)

// Sway is a slowly drifting camera orientation around a fixed downward
// looking pose. Each Euler angle follows value noise sampled along its own
// line through time, so the three axes stay decorrelated.
func Sway(elapsed float32) mgl32.Quat {
	const pi, e = float32(math.Pi), float32(math.E)
	t := elapsed * swaySpeed

	angle := func(a, b, c float32) float32 {
		return (noise.Value(mgl32.Vec3{t * a, t * b, t * c}) - 0.5) * swayAmplitude
	}
	x := angle(1, pi, e) - 1.5
	y := angle(e, 1, pi)
	z := angle(pi, e, 1) + pi

	q := mgl32.QuatRotate(x, mgl32.Vec3{1, 0, 0}).
		Mul(mgl32.QuatRotate(y, mgl32.Vec3{0, 1, 0})).
		Mul(mgl32.QuatRotate(z, mgl32.Vec3{0, 0, 1}))
	return q.Normalize()
}
