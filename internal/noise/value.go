package noise

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Smoothing selects the interpolation polynomial used between lattice corners.
type Smoothing int

const (
	// SmoothCubic is 3t^2 - 2t^3.
	SmoothCubic Smoothing = iota
	// SmoothQuintic is 6t^5 - 15t^4 + 10t^3, continuous in the second derivative.
	SmoothQuintic
)

// curve returns the interpolant and its derivative at w.
func (s Smoothing) curve(w float32) (u, du float32) {
	if s == SmoothQuintic {
		return w * w * w * (w*(w*6-15) + 10), 30 * w * w * (w*(w-2) + 1)
	}
	return w * w * (3 - 2*w), 6 * w * (1 - w)
}

var cubeCorners = [8]mgl32.Vec3{
	{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
}

// Value returns untiled value noise in [0, 1).
func Value(x mgl32.Vec3) float32 {
	return ValueD(x, mgl32.Vec3{}, SmoothCubic)[0]
}

// ValueTiled returns value noise that repeats every period along each axis
// with a positive period component.
func ValueTiled(x, period mgl32.Vec3) float32 {
	return ValueD(x, period, SmoothCubic)[0]
}

// ValueD returns value noise in component 0 and its analytic gradient in
// components 1..3.
func ValueD(x, period mgl32.Vec3, s Smoothing) mgl32.Vec4 {
	i := floor3(x)
	w := x.Sub(i)

	var u, du mgl32.Vec3
	for axis := 0; axis < 3; axis++ {
		u[axis], du[axis] = s.curve(w[axis])
	}

	var v [8]float32
	for n, c := range cubeCorners {
		v[n] = Hash(wrap(i.Add(c), period))
	}
	a, b, c, d, e, f, g, h := v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7]

	k0 := a
	k1 := b - a
	k2 := c - a
	k3 := e - a
	k4 := a - b - c + d
	k5 := a - c - e + g
	k6 := a - b - e + f
	k7 := -a + b + c - d + e - f - g + h

	value := k0 +
		k1*u[0] + k2*u[1] + k3*u[2] +
		k4*u[0]*u[1] + k5*u[1]*u[2] + k6*u[2]*u[0] +
		k7*u[0]*u[1]*u[2]

	return mgl32.Vec4{
		value,
		du[0] * (k1 + k4*u[1] + k6*u[2] + k7*u[1]*u[2]),
		du[1] * (k2 + k5*u[2] + k4*u[0] + k7*u[2]*u[0]),
		du[2] * (k3 + k6*u[0] + k5*u[1] + k7*u[0]*u[1]),
	}
}

// Value2D is value noise restricted to the z = 0 plane. It matches
// Value(Vec3{p.X(), p.Y(), 0}) but only hashes four corners.
func Value2D(p, period mgl32.Vec2) float32 {
	p3 := mgl32.Vec3{p[0], p[1], 0}
	per := mgl32.Vec3{period[0], period[1], 0}
	i := floor3(p3)
	w := p3.Sub(i)

	ux, _ := SmoothCubic.curve(w[0])
	uy, _ := SmoothCubic.curve(w[1])

	a := Hash(wrap(i, per))
	b := Hash(wrap(i.Add(mgl32.Vec3{1, 0, 0}), per))
	c := Hash(wrap(i.Add(mgl32.Vec3{0, 1, 0}), per))
	d := Hash(wrap(i.Add(mgl32.Vec3{1, 1, 0}), per))

	return a + (b-a)*ux + (c-a)*uy + (a-b-c+d)*ux*uy
}
