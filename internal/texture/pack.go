package texture

import (
	"encoding/binary"
	"fmt"
	"math"

	"Cloudscape/internal/volume"
)

// Format is the pixel layout of a packed buffer.
type Format int

const (
	R32Float Format = iota
	Rg32Float
	Rgba32Float
)

// Components is the number of float32 channels per pixel.
func (f Format) Components() int {
	switch f {
	case R32Float:
		return 1
	case Rg32Float:
		return 2
	case Rgba32Float:
		return 4
	}
	return 0
}

func (f Format) String() string {
	switch f {
	case R32Float:
		return "r32float"
	case Rg32Float:
		return "rg32float"
	case Rgba32Float:
		return "rgba32float"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFor returns the format holding n components per pixel.
func FormatFor(n int) (Format, error) {
	switch n {
	case 1:
		return R32Float, nil
	case 2:
		return Rg32Float, nil
	case 4:
		return Rgba32Float, nil
	}
	return 0, fmt.Errorf("no float format with %d components", n)
}

type Dimension int

const (
	D2 Dimension = iota + 2
	D3
)

// Buffer is an immutable texture image: native endian float32 pixels in
// x fastest order, ready for upload.
type Buffer struct {
	Data      []byte
	Width     int
	Height    int
	Depth     int
	Format    Format
	Dimension Dimension
}

func (b *Buffer) Pixels() int {
	return b.Width * b.Height * b.Depth
}

// Pack flattens the first format.Components() channels of every record.
// The byte order follows the grid's own index order.
func Pack(g *volume.Grid, format Format) (*Buffer, error) {
	n := format.Components()
	if n == 0 {
		return nil, fmt.Errorf("unsupported texture format %v", format)
	}
	if len(g.Data) != g.Len() {
		return nil, fmt.Errorf("grid holds %d records, expected %d", len(g.Data), g.Len())
	}

	data := make([]byte, 0, len(g.Data)*n*4)
	for _, rec := range g.Data {
		for c := 0; c < n; c++ {
			data = binary.NativeEndian.AppendUint32(data, math.Float32bits(rec[c]))
		}
	}

	dim := D3
	if g.Depth == 1 {
		dim = D2
	}
	return &Buffer{
		Data:      data,
		Width:     g.Width,
		Height:    g.Height,
		Depth:     g.Depth,
		Format:    format,
		Dimension: dim,
	}, nil
}

// FromFloats packs an already flat slice of pixels. Depth 1 gives a 2D texture.
func FromFloats(values []float32, width, height, depth int, format Format) (*Buffer, error) {
	n := format.Components()
	if n == 0 {
		return nil, fmt.Errorf("unsupported texture format %v", format)
	}
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("invalid texture dimensions %dx%dx%d", width, height, depth)
	}
	if want := width * height * depth * n; len(values) != want {
		return nil, fmt.Errorf("got %d floats for a %dx%dx%d %v texture, expected %d",
			len(values), width, height, depth, format, want)
	}

	data := make([]byte, 0, len(values)*4)
	for _, v := range values {
		data = binary.NativeEndian.AppendUint32(data, math.Float32bits(v))
	}

	dim := D3
	if depth == 1 {
		dim = D2
	}
	return &Buffer{
		Data:      data,
		Width:     width,
		Height:    height,
		Depth:     depth,
		Format:    format,
		Dimension: dim,
	}, nil
}

// Floats decodes the buffer back into float32 values.
func (b *Buffer) Floats() ([]float32, error) {
	if want := b.Pixels() * b.Format.Components() * 4; len(b.Data) != want || want == 0 {
		return nil, fmt.Errorf("buffer holds %d bytes, expected %d", len(b.Data), want)
	}
	out := make([]float32, len(b.Data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.NativeEndian.Uint32(b.Data[i*4:]))
	}
	return out, nil
}

// Unpack rebuilds a grid from the buffer. Channels missing from the format
// are zero.
func Unpack(b *Buffer) (*volume.Grid, error) {
	values, err := b.Floats()
	if err != nil {
		return nil, err
	}
	g, err := volume.NewGrid(b.Width, b.Height, b.Depth)
	if err != nil {
		return nil, err
	}
	n := b.Format.Components()
	for i := range g.Data {
		copy(g.Data[i][:n], values[i*n:(i+1)*n])
	}
	return g, nil
}
