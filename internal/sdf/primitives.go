package sdf

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Sphere is the exact distance to a sphere of radius r at the origin.
func Sphere(p mgl32.Vec3, r float32) float32 {
	return p.Len() - r
}

// Ellipsoid is the bound-corrected ellipsoid distance with semi-axes r.
// It is not exact but has the right sign and is close to the surface.
func Ellipsoid(p, r mgl32.Vec3) float32 {
	k0 := mgl32.Vec3{p[0] / r[0], p[1] / r[1], p[2] / r[2]}.Len()
	k1 := mgl32.Vec3{p[0] / (r[0] * r[0]), p[1] / (r[1] * r[1]), p[2] / (r[2] * r[2])}.Len()
	if k1 == 0 {
		// the formula is 0/0 at the centre
		return -math32.Min(r[0], math32.Min(r[1], r[2]))
	}
	return k0 * (k0 - 1) / k1
}

// Torus lies in the xz plane with the given major and minor radii.
func Torus(p mgl32.Vec3, major, minor float32) float32 {
	q := mgl32.Vec2{mgl32.Vec2{p[0], p[2]}.Len() - major, p[1]}
	return q.Len() - minor
}

// SmoothMin is the polynomial smooth minimum with blend radius k. k <= 0
// gives the hard minimum.
func SmoothMin(a, b, k float32) float32 {
	if k <= 0 {
		return math32.Min(a, b)
	}
	h := mgl32.Clamp(0.5+0.5*(b-a)/k, 0, 1)
	return mix(b, a, h) - k*h*(1-h)
}

// SmoothMax is the quadratic smooth maximum with blend radius k. k <= 0
// gives the hard maximum.
func SmoothMax(a, b, k float32) float32 {
	if k <= 0 {
		return math32.Max(a, b)
	}
	h := math32.Max(0, k-math32.Abs(a-b))
	return math32.Max(a, b) + h*h*0.25/k
}

func mix(a, b, t float32) float32 {
	return a*(1-t) + b*t
}
