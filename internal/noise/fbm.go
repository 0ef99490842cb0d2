package noise

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// OctaveRotation decorrelates successive octaves. It is twice an orthonormal
// rotation, so applying it also doubles the frequency.
var OctaveRotation = mgl32.Mat3{
	0.00, 1.60, 1.20,
	-1.60, 0.72, -0.96,
	-1.20, -0.96, 1.28,
}

// UnitOctaveRotation is OctaveRotation without the scale.
func UnitOctaveRotation() mgl32.Mat3 {
	return OctaveRotation.Mul(0.5)
}

// FBM layers a Source over several octaves:
//
//	clamp(Bias + Scale * sum(Gain^i * src(p_i * Lacunarity^i)), Min, Max)
//
// where p_i is p shifted by StartShift once and by Shift before every octave,
// and optionally rotated after every octave. A zero Rotation with Rotate set
// means UnitOctaveRotation. Rotation does not preserve tiling, so leave
// Rotate off for tileable textures.
type FBM struct {
	Octaves    int        `yaml:"octaves"`
	Lacunarity float32    `yaml:"lacunarity"`
	Gain       float32    `yaml:"gain"`
	StartShift mgl32.Vec3 `yaml:"start_shift,flow"`
	Shift      mgl32.Vec3 `yaml:"shift,flow"`
	Rotate     bool       `yaml:"rotate"`
	Rotation   mgl32.Mat3 `yaml:"-"`
	Scale      float32    `yaml:"scale"`
	Bias       float32    `yaml:"bias"`
	// Output is clamped to [Min, Max] when Min < Max.
	Min float32 `yaml:"min"`
	Max float32 `yaml:"max"`
}

// ValueFBMDefaults is the 8 octave value fBm used for the 2D value map.
func ValueFBMDefaults() FBM {
	return FBM{
		Octaves:    8,
		Lacunarity: 2,
		Gain:       0.5,
		Shift:      mgl32.Vec3{24, 16, 34},
		Scale:      1.75 / math.E,
		Min:        0,
		Max:        2,
	}
}

// WorleyFBMDefaults is the 3 octave billowy Worley fBm. Distances are
// subtracted from a constant so that cell cores come out bright.
func WorleyFBMDefaults() FBM {
	return FBM{
		Octaves:    3,
		Lacunarity: 3,
		Gain:       1.0 / 3.0,
		StartShift: mgl32.Vec3{100.123, -12.24245, 13.414},
		Shift:      mgl32.Vec3{13.123, -72, 234.23},
		Scale:      -1,
		Bias:       math.E - 1.25,
		Min:        0,
		Max:        2,
	}
}

// CoverageFBMDefaults layers a signed [-1, 1] source with a 2^-0.85 power-law
// gain and remaps the result to [0, 1].
func CoverageFBMDefaults() FBM {
	return FBM{
		Octaves:    5,
		Lacunarity: 2,
		Gain:       float32(math.Pow(2, -0.85)),
		Shift:      mgl32.Vec3{13.123, -72, 234.23},
		Rotate:     true,
		Rotation:   UnitOctaveRotation(),
		Scale:      0.5,
		Bias:       0.5,
		Min:        0,
		Max:        1,
	}
}

// Sum returns the raw octave sum before Scale, Bias and clamping.
func (f FBM) Sum(src Source, p, period mgl32.Vec3) float32 {
	rot := f.Rotation
	if f.Rotate && rot == (mgl32.Mat3{}) {
		rot = UnitOctaveRotation()
	}
	p = p.Add(f.StartShift)
	var t float32
	s := float32(1)
	c := float32(1)
	for i := 0; i < f.Octaves; i++ {
		p = p.Add(f.Shift)
		t += src.Eval(p.Mul(s), period.Mul(s)) * c
		s *= f.Lacunarity
		c *= f.Gain
		if f.Rotate {
			p = rot.Mul3x1(p)
		}
	}
	return t
}

// Eval returns the shaped fBm value.
func (f FBM) Eval(src Source, p, period mgl32.Vec3) float32 {
	v := f.Bias + f.Scale*f.Sum(src, p, period)
	if f.Min < f.Max {
		v = mgl32.Clamp(v, f.Min, f.Max)
	}
	return v
}

// DerivativeFBM layers ValueD and keeps the analytic gradient of the first
// DerivativeOctaves octaves only, which gives smooth macro-shape normals.
type DerivativeFBM struct {
	Octaves           int        `yaml:"octaves"`
	DerivativeOctaves int        `yaml:"derivative_octaves"`
	Lacunarity        float32    `yaml:"lacunarity"`
	Gain              float32    `yaml:"gain"`
	Shift             mgl32.Vec3 `yaml:"shift,flow"`
	// Rotations applied in the xz then yz planes between octaves, radians.
	AngleXZ float32 `yaml:"angle_xz"`
	AngleYZ float32 `yaml:"angle_yz"`
}

func DerivativeFBMDefaults() DerivativeFBM {
	return DerivativeFBM{
		Octaves:           4,
		DerivativeOctaves: 1,
		Lacunarity:        2,
		Gain:              0.5,
		Shift:             mgl32.Vec3{13.123, -72, 234.23},
		AngleXZ:           2.135532,
		AngleYZ:           1.5532,
	}
}

// Eval returns the summed value in component 0 and the partial gradient in 1..3.
func (f DerivativeFBM) Eval(p, period mgl32.Vec3) mgl32.Vec4 {
	var t mgl32.Vec4
	s := float32(1)
	c := float32(1)
	sinXZ, cosXZ := math32.Sin(f.AngleXZ), math32.Cos(f.AngleXZ)
	sinYZ, cosYZ := math32.Sin(f.AngleYZ), math32.Cos(f.AngleYZ)
	for i := 0; i < f.Octaves; i++ {
		p = p.Add(f.Shift)
		n := ValueD(p.Mul(s), period.Mul(s), SmoothCubic).Mul(c)
		t[0] += n[0]
		if i < f.DerivativeOctaves {
			t[1] += n[1]
			t[2] += n[2]
			t[3] += n[3]
		}
		s *= f.Lacunarity
		c *= f.Gain

		p = mgl32.Vec3{cosXZ*p[0] + sinXZ*p[2], p[1], -sinXZ*p[0] + cosXZ*p[2]}
		p = mgl32.Vec3{p[0], cosYZ*p[1] + sinYZ*p[2], -sinYZ*p[1] + cosYZ*p[2]}
	}
	return t
}
