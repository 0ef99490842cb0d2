package noise

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Fract returns the fractional part of x, always in [0, 1).
func Fract(x float32) float32 {
	f := x - math32.Floor(x)
	// x just below an integer can round up to exactly 1
	if f >= 1 {
		return 0
	}
	return f
}

func fract3(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{Fract(p[0]), Fract(p[1]), Fract(p[2])}
}

func floor3(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{math32.Floor(p[0]), math32.Floor(p[1]), math32.Floor(p[2])}
}

func mul3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func add3s(a mgl32.Vec3, s float32) mgl32.Vec3 {
	return mgl32.Vec3{a[0] + s, a[1] + s, a[2] + s}
}

// wrap maps a lattice coordinate into [0, period) per axis. Axes with a
// non-positive period are left untouched.
func wrap(p, period mgl32.Vec3) mgl32.Vec3 {
	for i := 0; i < 3; i++ {
		if period[i] > 0 {
			p[i] -= period[i] * math32.Floor(p[i]/period[i])
		}
	}
	return p
}

// Hash returns a pseudo random scalar in [0, 1) for the lattice point p.
func Hash(p mgl32.Vec3) float32 {
	p = fract3(add3s(p.Mul(0.3183099), 0.1)).Mul(17)
	return Fract(p[0] * p[1] * p[2] * (p[0] + p[1] + p[2]))
}

// Hash13 returns a pseudo random scalar in [0, 1). Used for metaball radii.
func Hash13(p mgl32.Vec3) float32 {
	p = fract3(p.Mul(0.1031))
	zyx := mgl32.Vec3{p[2], p[1], p[0]}
	p = add3s(p, p.Dot(add3s(zyx, 31.32)))
	return Fract((p[0] + p[1]) * p[2])
}

// Hash33 returns a pseudo random vector in [0, 1)^3.
func Hash33(p mgl32.Vec3) mgl32.Vec3 {
	p = fract3(mul3(p, mgl32.Vec3{0.1031, 0.1030, 0.0973}))
	yxz := mgl32.Vec3{p[1], p[0], p[2]}
	p = add3s(p, p.Dot(add3s(yxz, 33.33)))
	xxy := mgl32.Vec3{p[0], p[0], p[1]}
	yxx := mgl32.Vec3{p[1], p[0], p[0]}
	zyx := mgl32.Vec3{p[2], p[1], p[0]}
	return fract3(mul3(xxy.Add(yxx), zyx))
}
