package noise

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Edge centres of a cube; gives an even statistical distribution of
// gradients without needing normalisation.
var gradients = [12]mgl32.Vec3{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

func fade(t float32) float32 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float32) float32 {
	return a + t*(b-a)
}

// grad picks the corner gradient from the lattice hash and dots it with the
// offset d from that corner.
func grad(corner mgl32.Vec3, d mgl32.Vec3) float32 {
	idx := int(Hash13(corner) * 12)
	if idx > 11 {
		idx = 11
	}
	return gradients[idx].Dot(d)
}

// Gradient returns untiled Perlin-style gradient noise, roughly in [-1, 1].
func Gradient(x mgl32.Vec3) float32 {
	return GradientTiled(x, mgl32.Vec3{})
}

// GradientTiled returns gradient noise repeating every period.
func GradientTiled(x, period mgl32.Vec3) float32 {
	i := floor3(x)
	f := x.Sub(i)

	u := fade(f[0])
	v := fade(f[1])
	w := fade(f[2])

	g := func(c mgl32.Vec3) float32 {
		return grad(wrap(i.Add(c), period), f.Sub(c))
	}

	return lerp(w,
		lerp(v,
			lerp(u, g(mgl32.Vec3{0, 0, 0}), g(mgl32.Vec3{1, 0, 0})),
			lerp(u, g(mgl32.Vec3{0, 1, 0}), g(mgl32.Vec3{1, 1, 0}))),
		lerp(v,
			lerp(u, g(mgl32.Vec3{0, 0, 1}), g(mgl32.Vec3{1, 0, 1})),
			lerp(u, g(mgl32.Vec3{0, 1, 1}), g(mgl32.Vec3{1, 1, 1}))))
}
