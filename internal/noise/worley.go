package noise

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Worley returns the distance from p to the nearest jittered feature point of
// the 27 surrounding cells. Cell ids are wrapped by period before hashing so
// the pattern tiles.
func Worley(p, period mgl32.Vec3) float32 {
	id := floor3(p)
	f := p.Sub(id)

	minDist := float32(10000)
	for x := float32(-1); x <= 1; x++ {
		for y := float32(-1); y <= 1; y++ {
			for z := float32(-1); z <= 1; z++ {
				offset := mgl32.Vec3{x, y, z}
				h := add3s(Hash33(wrap(id.Add(offset), period)).Mul(0.5), 0.5).Add(offset)
				d := f.Sub(h)
				if dd := d.Dot(d); dd < minDist {
					minDist = dd
				}
			}
		}
	}
	return math32.Sqrt(minDist)
}

// InvertedWorley is 1 - Worley clamped to [0, 1]; high values sit in cell cores.
func InvertedWorley(p, period mgl32.Vec3) float32 {
	return mgl32.Clamp(1-Worley(p, period), 0, 1)
}
