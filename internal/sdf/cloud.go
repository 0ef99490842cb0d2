package sdf

import (
	"fmt"
	"math"

	"Cloudscape/internal/noise"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Shape selects the coarse silhouette of a cloud.
type Shape string

const (
	ShapeEllipsoid Shape = "ellipsoid"
	ShapeSphere    Shape = "sphere"
	ShapeTorus     Shape = "torus"
)

// Cloud is a signed distance field made of a coarse primitive carved and
// grown by octaves of randomly sized lattice metaballs. Negative is inside.
type Cloud struct {
	Shape  Shape      `yaml:"shape"`
	Center mgl32.Vec3 `yaml:"center,flow"`
	// Ellipsoid semi-axes. Sphere uses Radii[0]; torus uses Radii[0] as the
	// major and Radii[1] as the minor radius.
	Radii mgl32.Vec3 `yaml:"radii,flow"`

	// Detail is evaluated at p*DomainScale + DomainOffset and the result is
	// divided by DomainScale.
	DomainScale  float32    `yaml:"domain_scale"`
	DomainOffset mgl32.Vec3 `yaml:"domain_offset,flow"`

	Octaves int `yaml:"octaves"`
	// Metaball layers per octave; layer n is offset by n*LayerOffset.
	Layers      int     `yaml:"layers"`
	LayerOffset float32 `yaml:"layer_offset"`
	// Per octave, with s the octave scale: the metaballs are clipped to
	// d - Inflate*s and blended in with radius Blend*s.
	Inflate     float32 `yaml:"inflate"`
	Blend       float32 `yaml:"blend"`
	OctaveScale float32 `yaml:"octave_scale"`
}

// DefaultCloud is the flattened ellipsoid cumulus used by the volume bake.
func DefaultCloud() Cloud {
	return Cloud{
		Shape:        ShapeEllipsoid,
		Center:       mgl32.Vec3{0, -0.15, 0},
		Radii:        mgl32.Vec3{0.5, 0.2, 0.5},
		DomainScale:  2,
		DomainOffset: mgl32.Vec3{100.123, -23.13, 124.23},
		Octaves:      6,
		Layers:       2,
		LayerOffset:  100,
		Inflate:      0.1,
		Blend:        0.3,
		OctaveScale:  0.4,
	}
}

// Validate reports parameters that would produce NaN or a meaningless field.
func (c Cloud) Validate() error {
	switch c.Shape {
	case ShapeEllipsoid:
		if c.Radii[0] <= 0 || c.Radii[1] <= 0 || c.Radii[2] <= 0 {
			return fmt.Errorf("ellipsoid radii must be positive, got %v", c.Radii)
		}
	case ShapeSphere:
		if c.Radii[0] <= 0 {
			return fmt.Errorf("sphere radius must be positive, got %v", c.Radii[0])
		}
	case ShapeTorus:
		if c.Radii[0] <= 0 || c.Radii[1] <= 0 {
			return fmt.Errorf("torus radii must be positive, got %v", c.Radii)
		}
	default:
		return fmt.Errorf("unknown cloud shape %q", c.Shape)
	}
	if c.DomainScale <= 0 {
		return fmt.Errorf("domain scale must be positive, got %v", c.DomainScale)
	}
	if c.OctaveScale <= 0 || c.OctaveScale >= 1 {
		return fmt.Errorf("octave scale must be in (0, 1), got %v", c.OctaveScale)
	}
	return nil
}

// Base is the distance to the coarse silhouette only.
func (c Cloud) Base(p mgl32.Vec3) float32 {
	q := p.Sub(c.Center)
	switch c.Shape {
	case ShapeSphere:
		return Sphere(q, c.Radii[0])
	case ShapeTorus:
		return Torus(q, c.Radii[0], c.Radii[1])
	default:
		return Ellipsoid(q, c.Radii)
	}
}

// Distance is the full cloud field.
func (c Cloud) Distance(p mgl32.Vec3) float32 {
	d := c.Base(p)
	q := p.Mul(c.DomainScale).Add(c.DomainOffset)
	return c.Erode(q, d) / c.DomainScale
}

// Erode blends octaves of lattice metaballs into the distance d. Each
// octave is first smooth-max clipped against an inflated copy of d, so the
// detail only lives near the surface, then smooth-min unioned with d.
func (c Cloud) Erode(p mgl32.Vec3, d float32) float32 {
	s := float32(1)
	for i := 0; i < c.Octaves; i++ {
		for layer := 0; layer < c.Layers; layer++ {
			offset := float32(layer) * c.LayerOffset
			n := s * GridSpheres(p.Add(mgl32.Vec3{offset, offset, offset}))
			n = SmoothMax(n, d-c.Inflate*s, c.Blend*s)
			d = SmoothMin(n, d, c.Blend*s)
		}
		p = noise.OctaveRotation.Mul3x1(p)
		s *= c.OctaveScale
	}
	return d
}

// GridSpheres is the distance to spheres centred on the 8 lattice corners
// around p, each with a hashed radius in [0, 0.5).
func GridSpheres(p mgl32.Vec3) float32 {
	i := mgl32.Vec3{math32.Floor(p[0]), math32.Floor(p[1]), math32.Floor(p[2])}
	f := p.Sub(i)

	d := float32(math.MaxFloat32)
	for _, c := range [8]mgl32.Vec3{
		{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1},
		{1, 0, 0}, {1, 0, 1}, {1, 1, 0}, {1, 1, 1},
	} {
		d = math32.Min(d, gridSphere(i, f, c))
	}
	return d
}

func gridSphere(i, f, c mgl32.Vec3) float32 {
	rad := 0.5 * noise.Hash13(i.Add(c))
	return f.Sub(c).Len() - rad
}
