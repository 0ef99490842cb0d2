package texture

import (
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"Cloudscape/internal/logger"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	cacheMagic   = 0x4E564F4C // "NVOL"
	cacheVersion = 1
)

// ErrCacheMismatch is returned when a cache file holds a volume of a
// different shape than requested.
var ErrCacheMismatch = errors.New("cached volume does not match the requested shape")

// Samples is a flat float32 volume in x fastest order.
type Samples struct {
	Width      int
	Height     int
	Depth      int
	Components int
	Values     []float32
}

func (s *Samples) sameShape(width, height, depth, components int) bool {
	return s.Width == width && s.Height == height && s.Depth == depth && s.Components == components
}

func (s *Samples) validate() error {
	if s.Width <= 0 || s.Height <= 0 || s.Depth <= 0 || s.Components <= 0 {
		return fmt.Errorf("invalid volume shape %dx%dx%dx%d", s.Width, s.Height, s.Depth, s.Components)
	}
	if want := s.Width * s.Height * s.Depth * s.Components; len(s.Values) != want {
		return fmt.Errorf("volume holds %d values, expected %d", len(s.Values), want)
	}
	return nil
}

// Buffer packs the samples as a texture.
func (s *Samples) Buffer() (*Buffer, error) {
	format, err := FormatFor(s.Components)
	if err != nil {
		return nil, err
	}
	return FromFloats(s.Values, s.Width, s.Height, s.Depth, format)
}

// EncodeSamples writes a gzip compressed volume: a little endian header of
// magic, version, width, height, depth and components, then the values.
func EncodeSamples(w io.Writer, s *Samples) (err error) {
	if err := s.validate(); err != nil {
		return err
	}

	gzWriter := gzip.NewWriter(w)
	defer func() {
		err = multierr.Append(err, gzWriter.Close())
	}()

	header := [6]uint32{
		cacheMagic,
		cacheVersion,
		uint32(s.Width),
		uint32(s.Height),
		uint32(s.Depth),
		uint32(s.Components),
	}
	if err := binary.Write(gzWriter, binary.LittleEndian, header); err != nil {
		return err
	}
	return binary.Write(gzWriter, binary.LittleEndian, s.Values)
}

// DecodeSamples reads a volume written by EncodeSamples.
func DecodeSamples(r io.Reader) (*Samples, error) {
	return decodeSamples(r, nil)
}

// DecodeSamplesShape is DecodeSamples for a known shape. A header of any
// other shape fails with ErrCacheMismatch before any values are read.
func DecodeSamplesShape(r io.Reader, width, height, depth, components int) (*Samples, error) {
	return decodeSamples(r, func(s *Samples) bool {
		return s.sameShape(width, height, depth, components)
	})
}

// decodeChunk bounds each read so that allocation follows the data actually
// present rather than the header's claim.
const decodeChunk = 1 << 16

func decodeSamples(r io.Reader, accept func(*Samples) bool) (*Samples, error) {
	gzReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzReader.Close()

	var header [6]uint32
	if err := binary.Read(gzReader, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	if header[0] != cacheMagic {
		return nil, fmt.Errorf("invalid volume file magic: %x", header[0])
	}
	if header[1] != cacheVersion {
		return nil, fmt.Errorf("unsupported volume version: %d", header[1])
	}

	s := &Samples{
		Width:      int(header[2]),
		Height:     int(header[3]),
		Depth:      int(header[4]),
		Components: int(header[5]),
	}
	count := uint64(header[2]) * uint64(header[3]) * uint64(header[4]) * uint64(header[5])
	if count == 0 || count > 1<<31 {
		return nil, fmt.Errorf("invalid volume shape %dx%dx%dx%d", s.Width, s.Height, s.Depth, s.Components)
	}
	if accept != nil && !accept(s) {
		return nil, ErrCacheMismatch
	}

	s.Values = make([]float32, 0, min(count, decodeChunk))
	chunk := make([]float32, min(count, decodeChunk))
	for remaining := count; remaining > 0; {
		n := min(remaining, decodeChunk)
		if err := binary.Read(gzReader, binary.LittleEndian, chunk[:n]); err != nil {
			return nil, fmt.Errorf("truncated volume data: %w", err)
		}
		s.Values = append(s.Values, chunk[:n]...)
		remaining -= n
	}
	return s, nil
}

// SaveSamples writes the volume next to path and renames it into place, so a
// reader never sees a partial file.
func SaveSamples(path string, s *Samples) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if err = multierr.Append(EncodeSamples(tmp, s), tmp.Close()); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func LoadSamples(path string) (*Samples, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeSamples(f)
}

// LoadSamplesShape loads a volume that must have the given shape.
func LoadSamplesShape(path string, width, height, depth, components int) (*Samples, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeSamplesShape(f, width, height, depth, components)
}

// LoadOrGenerate returns the cached volume at path if it exists and has the
// requested shape. Otherwise it calls generate and writes the result back.
// A failed write is logged and the generated volume is still returned. The
// boolean reports a cache hit.
func LoadOrGenerate(path string, width, height, depth, components int, generate func() (*Samples, error)) (*Samples, bool, error) {
	s, err := LoadSamplesShape(path, width, height, depth, components)
	if err == nil {
		logger.Log.Info("Loaded cached volume", zap.String("path", path))
		return s, true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		logger.Log.Info("No cached volume, generating", zap.String("path", path))
	} else {
		logger.Log.Warn("Discarding unreadable cached volume", zap.String("path", path), zap.Error(err))
	}

	start := time.Now()
	s, err = generate()
	if err != nil {
		return nil, false, err
	}
	if err := s.validate(); err != nil {
		return nil, false, fmt.Errorf("generated volume: %w", err)
	}
	if !s.sameShape(width, height, depth, components) {
		return nil, false, fmt.Errorf("generated volume: %w", ErrCacheMismatch)
	}
	logger.Log.Info("Generated volume",
		zap.String("path", path),
		zap.Int("values", len(s.Values)),
		zap.Duration("elapsed", time.Since(start)))

	if err := SaveSamples(path, s); err != nil {
		logger.Log.Warn("Failed to write volume cache", zap.String("path", path), zap.Error(err))
	}
	return s, false, nil
}

// Samples decodes the buffer into a cacheable volume.
func (b *Buffer) Samples() (*Samples, error) {
	values, err := b.Floats()
	if err != nil {
		return nil, err
	}
	return &Samples{
		Width:      b.Width,
		Height:     b.Height,
		Depth:      b.Depth,
		Components: b.Format.Components(),
		Values:     values,
	}, nil
}
