package volume

import (
	"fmt"
	"time"

	"Cloudscape/internal/logger"
	"Cloudscape/internal/noise"
	"Cloudscape/internal/sdf"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// FillMode selects what goes into the distance channel.
type FillMode string

const (
	// FillSDF stores the cloud distance as is.
	FillSDF FillMode = "sdf"
	// FillSDFNoise keeps the exterior distance but replaces the interior with
	// negated noise magnitude, so density varies inside the cloud.
	FillSDFNoise FillMode = "sdf-noise"
)

type FillOptions struct {
	Mode FillMode `yaml:"mode"`
	// Aux is sampled into record component 2.
	Aux       noise.DerivativeFBM `yaml:"aux"`
	AuxPeriod float32             `yaml:"aux_period"`
	Workers   int                 `yaml:"-"`
}

func DefaultFillOptions() FillOptions {
	return FillOptions{
		Mode:      FillSDF,
		Aux:       noise.DerivativeFBMDefaults(),
		AuxPeriod: 1000,
	}
}

// Fill evaluates the cloud at every voxel centre. Records are
// {distance, 0, aux, 0}; the light channel is left for Bake.
func Fill(g *Grid, cloud sdf.Cloud, opts FillOptions) error {
	if opts.Mode != FillSDF && opts.Mode != FillSDFNoise {
		return fmt.Errorf("unknown fill mode %q", opts.Mode)
	}
	if err := cloud.Validate(); err != nil {
		return fmt.Errorf("fill: %w", err)
	}

	start := time.Now()
	period := mgl32.Vec3{opts.AuxPeriod, opts.AuxPeriod, opts.AuxPeriod}
	err := Generate(g, opts.Workers, func(x, y, z int) mgl32.Vec4 {
		p := g.CoordToPos(x, y, z)
		d := cloud.Distance(p)
		aux := opts.Aux.Eval(p, period)[0]
		if opts.Mode == FillSDFNoise && d <= 0 {
			d = -math32.Abs(aux)
		}
		return mgl32.Vec4{d, 0, aux, 0}
	})
	if err != nil {
		return fmt.Errorf("fill: %w", err)
	}

	logger.Log.Debug("Filled cloud volume",
		zap.String("mode", string(opts.Mode)),
		zap.Int("voxels", g.Len()),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
