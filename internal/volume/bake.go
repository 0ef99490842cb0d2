package volume

import (
	"errors"
	"fmt"
	"time"

	"Cloudscape/internal/logger"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// DensityMode selects how a record is turned into extinction density.
type DensityMode string

const (
	// DensitySDF treats negative distance as density.
	DensitySDF DensityMode = "sdf"
	// DensityNoise uses the aux channel above Threshold.
	DensityNoise DensityMode = "noise"
)

type BakeOptions struct {
	// Extinction is the Beer-Lambert coefficient k in t *= exp(-k*density*dt).
	Extinction float32     `yaml:"extinction"`
	Density    DensityMode `yaml:"density"`
	Threshold  float32     `yaml:"threshold"`
	// StepScale multiplies the base step of 2/min(res), one voxel.
	StepScale float32 `yaml:"step_scale"`
	Workers   int     `yaml:"-"`
}

func DefaultBakeOptions() BakeOptions {
	return BakeOptions{
		Extinction: 20,
		Density:    DensitySDF,
		StepScale:  1,
	}
}

func (o BakeOptions) Validate() error {
	switch o.Density {
	case DensitySDF, DensityNoise:
	default:
		return fmt.Errorf("unknown density mode %q", o.Density)
	}
	if o.Extinction < 0 {
		return fmt.Errorf("extinction must not be negative, got %v", o.Extinction)
	}
	if o.StepScale <= 0 {
		return fmt.Errorf("step scale must be positive, got %v", o.StepScale)
	}
	return nil
}

func (o BakeOptions) density(r mgl32.Vec4) float32 {
	if o.Density == DensityNoise {
		return math32.Max(r[2]-o.Threshold, 0)
	}
	return math32.Max(-r[0], 0)
}

// Step is the march length for g.
func (o BakeOptions) Step(g *Grid) float32 {
	return o.StepScale * 2 / float32(g.MinDim())
}

func finite3(v mgl32.Vec3) bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Transmittance marches from voxel (x, y, z) towards dir and returns the
// fraction of light that survives, in [0, 1]. The voxel itself is the first
// sample. The march ends once the point leaves [-1, 1]^3 or the grid, and
// never takes more steps than the domain diagonal allows. A direction that
// cannot be normalized transmits everything.
func Transmittance(g *Grid, x, y, z int, dir mgl32.Vec3, opts BakeOptions) float32 {
	dt := opts.Step(g)
	step := dir.Normalize().Mul(dt)
	if !finite3(step) || step.Len() == 0 {
		return 1
	}
	maxSteps := int(math32.Ceil(2*math32.Sqrt(3)/dt)) + 1
	p := g.CoordToPos(x, y, z)
	t := float32(1)
	for i := 0; i < maxSteps; i++ {
		if math32.Abs(p[0]) > 1 || math32.Abs(p[1]) > 1 || math32.Abs(p[2]) > 1 {
			break
		}
		r, ok := g.Lookup(p)
		if !ok {
			break
		}
		if d := opts.density(r); d > 0 {
			t *= math32.Exp(-opts.Extinction * d * dt)
		}
		p = p.Add(step)
	}
	return t
}

// Light averages the transmittance of every sample, weighted by phase.
// A zero total weight falls back to the plain mean.
func Light(g *Grid, x, y, z int, suns []SunSample, opts BakeOptions) float32 {
	var weighted, plain, weights float32
	for _, s := range suns {
		t := Transmittance(g, x, y, z, s.Direction, opts)
		weighted += s.Phase * t
		plain += t
		weights += s.Phase
	}
	if weights > 0 {
		return weighted / weights
	}
	return plain / float32(len(suns))
}

// Bake computes the light channel (record component 1) of a filled grid.
// All lookups read the grid as filled; the results are written back only
// once every voxel has been marched.
func Bake(g *Grid, suns []SunSample, opts BakeOptions) error {
	if len(suns) == 0 {
		return errors.New("bake needs at least one sun sample")
	}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("bake: %w", err)
	}
	for i, s := range suns {
		if !finite3(s.Direction) || s.Direction.Len() == 0 {
			return fmt.Errorf("sun sample %d has an invalid direction %v", i, s.Direction)
		}
		if math32.IsNaN(s.Phase) || math32.IsInf(s.Phase, 0) || s.Phase < 0 {
			return fmt.Errorf("sun sample %d has an invalid phase %v", i, s.Phase)
		}
	}

	start := time.Now()
	light := make([]float32, g.Len())
	err := ParallelFor(opts.Workers, g.Depth, func(z int) {
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				light[g.Index(x, y, z)] = Light(g, x, y, z, suns, opts)
			}
		}
	})
	if err != nil {
		return fmt.Errorf("bake: %w", err)
	}

	for i, l := range light {
		g.Data[i][1] = l
	}

	logger.Log.Debug("Baked cloud light",
		zap.Int("voxels", g.Len()),
		zap.Int("sun_samples", len(suns)),
		zap.Float32("step", opts.Step(g)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
