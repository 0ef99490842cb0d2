package volume

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Grid is a dense voxel volume of four component records.
//
// Records are stored x fastest: Index(x, y, z) = x + Width*y + Width*Height*z.
// Every writer and every lookup goes through Index.
type Grid struct {
	Width  int
	Height int
	Depth  int
	Data   []mgl32.Vec4
}

func NewGrid(width, height, depth int) (*Grid, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions %dx%dx%d", width, height, depth)
	}
	return &Grid{
		Width:  width,
		Height: height,
		Depth:  depth,
		Data:   make([]mgl32.Vec4, width*height*depth),
	}, nil
}

func (g *Grid) Len() int {
	return g.Width * g.Height * g.Depth
}

func (g *Grid) Index(x, y, z int) int {
	return x + g.Width*y + g.Width*g.Height*z
}

// Coord is the inverse of Index.
func (g *Grid) Coord(i int) (x, y, z int) {
	slice := g.Width * g.Height
	z = i / slice
	i -= z * slice
	y = i / g.Width
	x = i - y*g.Width
	return
}

func (g *Grid) InBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < g.Width && y < g.Height && z < g.Depth
}

func (g *Grid) At(x, y, z int) mgl32.Vec4 {
	return g.Data[g.Index(x, y, z)]
}

func (g *Grid) Set(x, y, z int, v mgl32.Vec4) {
	g.Data[g.Index(x, y, z)] = v
}

// Resolution returns the dimensions as floats.
func (g *Grid) Resolution() mgl32.Vec3 {
	return mgl32.Vec3{float32(g.Width), float32(g.Height), float32(g.Depth)}
}

// MinDim is the smallest of the three dimensions.
func (g *Grid) MinDim() int {
	return min(g.Width, g.Height, g.Depth)
}

// CoordToPos maps a voxel to the normalized domain: (c/res - 0.5) * 2.
// Coordinate 0 lands on -1 and res lands on +1.
func (g *Grid) CoordToPos(x, y, z int) mgl32.Vec3 {
	res := g.Resolution()
	return mgl32.Vec3{
		(float32(x)/res[0] - 0.5) * 2,
		(float32(y)/res[1] - 0.5) * 2,
		(float32(z)/res[2] - 0.5) * 2,
	}
}

// PosToCoord maps a domain position to the nearest voxel. The result may be
// out of bounds; check with InBounds.
func (g *Grid) PosToCoord(p mgl32.Vec3) (x, y, z int) {
	res := g.Resolution()
	x = int(math32.Round((p[0]/2 + 0.5) * res[0]))
	y = int(math32.Round((p[1]/2 + 0.5) * res[1]))
	z = int(math32.Round((p[2]/2 + 0.5) * res[2]))
	return
}

// Lookup returns the record nearest to p and false when p falls outside the grid.
func (g *Grid) Lookup(p mgl32.Vec3) (mgl32.Vec4, bool) {
	x, y, z := g.PosToCoord(p)
	if !g.InBounds(x, y, z) {
		return mgl32.Vec4{}, false
	}
	return g.At(x, y, z), true
}

// Component copies one record component into a flat slice in grid order.
func (g *Grid) Component(c int) []float32 {
	out := make([]float32, len(g.Data))
	for i, v := range g.Data {
		out[i] = v[c]
	}
	return out
}
