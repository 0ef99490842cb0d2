package pipeline

import (
	"fmt"
	"time"

	"Cloudscape/internal/config"
	"Cloudscape/internal/logger"
	"Cloudscape/internal/noise"
	"Cloudscape/internal/texture"
	"Cloudscape/internal/volume"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Texture names produced by Run.
const (
	CloudTexture    = "cloud"
	DetailTexture   = "detail"
	WorleyTexture   = "worley"
	ValueTexture    = "value"
	CoverageTexture = "coverage"
	NoiseTexture    = "noise"
)

// Texture is a named, packed pipeline output.
type Texture struct {
	Name   string
	Buffer *texture.Buffer
}

// Pipeline generates every cloud texture from one configuration.
type Pipeline struct {
	cfg *config.Config
}

func New(cfg *config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}
	return &Pipeline{cfg: cfg}, nil
}

// CloudVolume fills the cloud SDF grid and bakes its light channel.
// Records are {distance, light, aux, 0}.
func (p *Pipeline) CloudVolume() (*volume.Grid, error) {
	res := p.cfg.Volume.Resolution
	g, err := volume.NewGrid(res[0], res[1], res[2])
	if err != nil {
		return nil, err
	}

	fill := p.cfg.Volume.Fill
	fill.Workers = p.cfg.Workers
	if err := volume.Fill(g, p.cfg.Cloud, fill); err != nil {
		return nil, err
	}

	bake := p.cfg.Bake.BakeOptions
	bake.Workers = p.cfg.Workers
	if err := volume.Bake(g, p.cfg.Bake.Sun.Samples(), bake); err != nil {
		return nil, err
	}
	return g, nil
}

// DetailVolume is a tileable Worley fBm volume.
func (p *Pipeline) DetailVolume() (*texture.Samples, error) {
	c := p.cfg.Detail
	period := mgl32.Vec3{c.Scale, c.Scale, c.Scale}
	return p.volume(c.Resolution, func(q mgl32.Vec3) float32 {
		return p.cfg.FBM.Worley.Eval(noise.WorleySource, q.Mul(c.Scale), period)
	})
}

// NoiseVolume blends value and Worley fBm and goes through the file cache.
// The boolean reports a cache hit.
func (p *Pipeline) NoiseVolume() (*texture.Samples, bool, error) {
	c := p.cfg.NoiseVolume
	worleyPeriod := mgl32.Vec3{c.WorleyPeriod, c.WorleyPeriod, c.WorleyPeriod}
	generate := func() (*texture.Samples, error) {
		return p.volume(c.Resolution, func(q mgl32.Vec3) float32 {
			q = q.Mul(c.Scale)
			v := c.Value.Eval(q, mgl32.Vec3{})[0]
			w := p.cfg.FBM.Worley.Eval(noise.WorleySource, q.Mul(c.WorleyScale), worleyPeriod)
			return v*(1-c.Mix) + w*c.Mix
		})
	}
	return texture.LoadOrGenerate(c.CachePath, c.Resolution, c.Resolution, c.Resolution, 1, generate)
}

// WorleyMap is the 2D Worley fBm map.
func (p *Pipeline) WorleyMap() (*texture.Samples, error) {
	return p.plane(func(q, period mgl32.Vec3) float32 {
		return p.cfg.FBM.Worley.Eval(noise.WorleySource, q, period)
	})
}

// ValueMap is the 2D value fBm map, layered from the planar value noise.
func (p *Pipeline) ValueMap() (*texture.Samples, error) {
	return p.plane(func(q, period mgl32.Vec3) float32 {
		return p.cfg.FBM.Value.Eval(noise.Value2DSource, q, period)
	})
}

// CoverageMap is the 2D large scale coverage map in [0, 1].
func (p *Pipeline) CoverageMap() (*texture.Samples, error) {
	src, err := p.coverageSource()
	if err != nil {
		return nil, err
	}
	return p.plane(func(q, period mgl32.Vec3) float32 {
		return p.cfg.FBM.Coverage.Eval(src, q, period)
	})
}

func (p *Pipeline) coverageSource() (noise.Source, error) {
	m := p.cfg.Maps
	switch m.CoverageBackend {
	case config.BackendGradient:
		return noise.GradientSource, nil
	case config.BackendPerlin:
		return noise.NewPerlinSource(m.Alpha, m.Beta, m.Seed), nil
	case config.BackendSimplex:
		return noise.NewSimplexSource(m.Seed), nil
	}
	return nil, fmt.Errorf("unknown coverage backend %q", m.CoverageBackend)
}

// plane samples fn over the z = 0 plane at p = coord/res*scale.
func (p *Pipeline) plane(fn func(q, period mgl32.Vec3) float32) (*texture.Samples, error) {
	m := p.cfg.Maps
	var period mgl32.Vec3
	if m.Tile {
		period = mgl32.Vec3{m.Scale, m.Scale, 0}
	}

	res := m.Resolution
	values := make([]float32, res*res)
	err := volume.ParallelFor(p.cfg.Workers, res, func(y int) {
		for x := 0; x < res; x++ {
			q := mgl32.Vec3{float32(x) / float32(res) * m.Scale, float32(y) / float32(res) * m.Scale, 0}
			values[x+res*y] = fn(q, period)
		}
	})
	if err != nil {
		return nil, err
	}
	return &texture.Samples{Width: res, Height: res, Depth: 1, Components: 1, Values: values}, nil
}

// volume samples fn over a res^3 cube at q = coord/res.
func (p *Pipeline) volume(res int, fn func(q mgl32.Vec3) float32) (*texture.Samples, error) {
	values := make([]float32, res*res*res)
	err := volume.ParallelFor(p.cfg.Workers, res, func(z int) {
		for y := 0; y < res; y++ {
			for x := 0; x < res; x++ {
				q := mgl32.Vec3{float32(x), float32(y), float32(z)}.Mul(1 / float32(res))
				values[x+res*y+res*res*z] = fn(q)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return &texture.Samples{Width: res, Height: res, Depth: res, Components: 1, Values: values}, nil
}

// Run produces every texture, in a fixed order.
func (p *Pipeline) Run() ([]Texture, error) {
	var out []Texture
	stage := func(name string, build func() (*texture.Buffer, error)) error {
		start := time.Now()
		buf, err := build()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		logger.Log.Info("Generated texture",
			zap.String("name", name),
			zap.Stringer("format", buf.Format),
			zap.Int("width", buf.Width),
			zap.Int("height", buf.Height),
			zap.Int("depth", buf.Depth),
			zap.Duration("elapsed", time.Since(start)))
		out = append(out, Texture{Name: name, Buffer: buf})
		return nil
	}
	fromSamples := func(gen func() (*texture.Samples, error)) func() (*texture.Buffer, error) {
		return func() (*texture.Buffer, error) {
			s, err := gen()
			if err != nil {
				return nil, err
			}
			return s.Buffer()
		}
	}

	stages := []struct {
		name  string
		build func() (*texture.Buffer, error)
	}{
		{CloudTexture, func() (*texture.Buffer, error) {
			g, err := p.CloudVolume()
			if err != nil {
				return nil, err
			}
			return texture.Pack(g, texture.Rgba32Float)
		}},
		{DetailTexture, fromSamples(p.DetailVolume)},
		{WorleyTexture, fromSamples(p.WorleyMap)},
		{ValueTexture, fromSamples(p.ValueMap)},
		{CoverageTexture, fromSamples(p.CoverageMap)},
		{NoiseTexture, fromSamples(func() (*texture.Samples, error) {
			s, _, err := p.NoiseVolume()
			return s, err
		})},
	}
	for _, s := range stages {
		if err := stage(s.name, s.build); err != nil {
			return nil, err
		}
	}
	return out, nil
}
