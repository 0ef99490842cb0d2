package noise

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFBMPresetsStayInRange(t *testing.T) {
	value := ValueFBMDefaults()
	worley := WorleyFBMDefaults()
	period := mgl32.Vec3{1000, 1000, 1000}

	for _, p := range randomPoints(10, 500, 0, 10) {
		v := value.Eval(ValueSource, p, period)
		require.True(t, v >= 0 && v <= 2, "value fbm %v", v)

		w := worley.Eval(WorleySource, p, period)
		require.True(t, w >= 0 && w <= 2, "worley fbm %v", w)
	}
}

func TestFBMTilingIsPreserved(t *testing.T) {
	period := mgl32.Vec3{4, 4, 4}
	cases := []struct {
		name string
		fbm  FBM
		src  Source
	}{
		{"value", FBM{Octaves: 3, Lacunarity: 2, Gain: 0.5, Shift: mgl32.Vec3{24, 16, 34}, Scale: 1}, ValueSource},
		{"worley", WorleyFBMDefaults(), WorleySource},
		{"gradient", FBM{Octaves: 3, Lacunarity: 2, Gain: 0.5, Scale: 1}, GradientSource},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, p := range randomPoints(11, 100, 0, 4) {
				a := tc.fbm.Eval(tc.src, p, period)
				b := tc.fbm.Eval(tc.src, p.Add(period), period)
				assert.InDelta(t, a, b, 2e-3)
			}
		})
	}
}

func TestFBMSingleOctaveIsBaseNoise(t *testing.T) {
	f := FBM{Octaves: 1, Lacunarity: 2, Gain: 0.5, Scale: 1}
	for _, p := range randomPoints(12, 50, -5, 5) {
		assert.Equal(t, Value(p), f.Eval(ValueSource, p, mgl32.Vec3{}))
	}
}

func TestFBMClampDisabledWhenRangeEmpty(t *testing.T) {
	f := FBM{Octaves: 1, Lacunarity: 2, Gain: 0.5, Scale: 10, Bias: 5}
	v := f.Eval(SourceFunc(func(_, _ mgl32.Vec3) float32 { return 1 }), mgl32.Vec3{}, mgl32.Vec3{})
	assert.Equal(t, float32(15), v)
}

func TestCoverageFBMWithLibrarySources(t *testing.T) {
	cov := CoverageFBMDefaults()
	perlinA := NewPerlinSource(2, 2, 42)
	perlinB := NewPerlinSource(2, 2, 42)
	simplex := NewSimplexSource(42)

	for _, p := range randomPoints(13, 200, -10, 10) {
		a := cov.Eval(perlinA, p, mgl32.Vec3{})
		require.True(t, a >= 0 && a <= 1)
		assert.Equal(t, a, cov.Eval(perlinB, p, mgl32.Vec3{}), "same seed must give the same field")

		s := cov.Eval(simplex, p, mgl32.Vec3{})
		require.True(t, s >= 0 && s <= 1)

		g := cov.Eval(GradientSource, p, mgl32.Vec3{})
		require.True(t, g >= 0 && g <= 1)
	}
}

func TestUnitOctaveRotationIsOrthonormal(t *testing.T) {
	r := UnitOctaveRotation()
	got := r.Mul3(r.Transpose())
	want := mgl32.Ident3()
	for i := range got {
		assert.InDelta(t, want[i], got[i], 1e-5, "entry %d", i)
	}
}

func TestRotateWithoutMatrixUsesUnitRotation(t *testing.T) {
	explicit := ValueFBMDefaults()
	explicit.Rotate = true
	explicit.Rotation = UnitOctaveRotation()

	implicit := ValueFBMDefaults()
	implicit.Rotate = true

	a := mgl32.Vec3{0.3, 1.7, -2.2}
	b := mgl32.Vec3{4.1, -0.6, 0.9}
	assert.Equal(t, explicit.Sum(ValueSource, a, mgl32.Vec3{}), implicit.Sum(ValueSource, a, mgl32.Vec3{}))

	// later octaves must still depend on the input point
	first := ValueFBMDefaults()
	first.Octaves = 1
	tailA := implicit.Sum(ValueSource, a, mgl32.Vec3{}) - first.Sum(ValueSource, a, mgl32.Vec3{})
	tailB := implicit.Sum(ValueSource, b, mgl32.Vec3{}) - first.Sum(ValueSource, b, mgl32.Vec3{})
	assert.Greater(t, math32.Abs(tailA-tailB), float32(1e-4))
}

func TestDerivativeFBMKeepsFirstOctaveGradient(t *testing.T) {
	f := DerivativeFBMDefaults()
	period := mgl32.Vec3{1000, 1000, 1000}
	for _, p := range randomPoints(14, 50, -2, 2) {
		got := f.Eval(p, period)
		first := ValueD(p.Add(f.Shift), period, SmoothCubic)
		assert.InDelta(t, first[1], got[1], 1e-5)
		assert.InDelta(t, first[2], got[2], 1e-5)
		assert.InDelta(t, first[3], got[3], 1e-5)
		// sum of c_i * [0,1) with c = 1, .5, .25, .125
		assert.True(t, got[0] >= 0 && got[0] < 1.875)
	}
}
