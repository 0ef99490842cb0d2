package noise

import (
	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/ojrac/opensimplex-go"
)

// Source is a base noise field that fBm can layer. period carries the tiling
// period already scaled to the octave being evaluated; sources that cannot
// tile ignore it.
type Source interface {
	Eval(p, period mgl32.Vec3) float32
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(p, period mgl32.Vec3) float32

func (f SourceFunc) Eval(p, period mgl32.Vec3) float32 { return f(p, period) }

var (
	ValueSource          Source = SourceFunc(ValueTiled)
	GradientSource       Source = SourceFunc(GradientTiled)
	WorleySource         Source = SourceFunc(Worley)
	InvertedWorleySource Source = SourceFunc(InvertedWorley)

	// Value2DSource samples Value2D on the xy plane; z is ignored.
	Value2DSource Source = SourceFunc(func(p, period mgl32.Vec3) float32 {
		return Value2D(p.Vec2(), period.Vec2())
	})
)

// PerlinSource evaluates the seeded permutation-table Perlin noise from
// aquilax/go-perlin. It does not tile.
type PerlinSource struct {
	p *perlin.Perlin
}

// NewPerlinSource creates a single-octave library Perlin source. Layering is
// left to FBM, so the library's own octave count is fixed at 1.
func NewPerlinSource(alpha, beta float64, seed int64) *PerlinSource {
	return &PerlinSource{p: perlin.NewPerlin(alpha, beta, 1, seed)}
}

func (s *PerlinSource) Eval(p, _ mgl32.Vec3) float32 {
	return float32(s.p.Noise3D(float64(p[0]), float64(p[1]), float64(p[2])))
}

// SimplexSource evaluates OpenSimplex noise in [-1, 1]. It does not tile.
type SimplexSource struct {
	n opensimplex.Noise
}

func NewSimplexSource(seed int64) *SimplexSource {
	return &SimplexSource{n: opensimplex.New(seed)}
}

func (s *SimplexSource) Eval(p, _ mgl32.Vec3) float32 {
	return float32(s.n.Eval3(float64(p[0]), float64(p[1]), float64(p[2])))
}
