package volume

import (
	"github.com/go-gl/mathgl/mgl32"
)

// SunSample is one direction towards the light with its phase weight.
type SunSample struct {
	Direction mgl32.Vec3
	Phase     float32
}

// Sun describes a finite sized light source.
type Sun struct {
	Base mgl32.Vec3 `yaml:"base,flow"`
	// JitterAngle is the per axis rotation, in radians, of the outer stencil
	// directions.
	JitterAngle float32 `yaml:"jitter_angle"`
	Jitter      bool    `yaml:"jitter"`
}

func DefaultSun() Sun {
	return Sun{
		Base:        mgl32.Vec3{0, 1, 1}.Normalize(),
		JitterAngle: 0.15,
		Jitter:      true,
	}
}

// Samples expands the sun into its direction stencil. With Jitter the base
// is rotated by every XYZ Euler triple in {-a, 0, a}^3, giving 27 samples
// weighted by Mie of their angle to the base. Without it there is one
// sample along the base.
func (s Sun) Samples() []SunSample {
	base := s.Base.Normalize()
	if !s.Jitter {
		return []SunSample{{Direction: base, Phase: Mie(1)}}
	}

	angles := [3]float32{-s.JitterAngle, 0, s.JitterAngle}
	samples := make([]SunSample, 0, 27)
	for _, ax := range angles {
		for _, ay := range angles {
			for _, az := range angles {
				rot := mgl32.Rotate3DX(ax).Mul3(mgl32.Rotate3DY(ay)).Mul3(mgl32.Rotate3DZ(az))
				dir := rot.Mul3x1(base).Normalize()
				samples = append(samples, SunSample{
					Direction: dir,
					Phase:     Mie(mgl32.Clamp(base.Dot(dir), -1, 1)),
				})
			}
		}
	}
	return samples
}
