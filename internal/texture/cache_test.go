package texture

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSamples(w, h, d int) *Samples {
	s := &Samples{Width: w, Height: h, Depth: d, Components: 1, Values: make([]float32, w*h*d)}
	for i := range s.Values {
		s.Values[i] = float32(i)*0.5 - 3
	}
	return s
}

// headerOnly is a gzip stream holding a valid header and no values.
func headerOnly(t *testing.T, w, h, d, c uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	require.NoError(t, binary.Write(gz, binary.LittleEndian, [6]uint32{cacheMagic, cacheVersion, w, h, d, c}))
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestSamplesEncoding(t *testing.T) {
	src := testSamples(3, 4, 5)

	var buf bytes.Buffer
	require.NoError(t, EncodeSamples(&buf, src))
	decoded, err := DecodeSamples(&buf)
	require.NoError(t, err)
	require.True(t, decoded.sameShape(3, 4, 5, 1))
	assert.Equal(t, src.Values, decoded.Values)
}

func TestSamplesEncodingSpansChunks(t *testing.T) {
	src := testSamples(64, 64, 20)

	var buf bytes.Buffer
	require.NoError(t, EncodeSamples(&buf, src))
	decoded, err := DecodeSamplesShape(&buf, 64, 64, 20, 1)
	require.NoError(t, err)
	assert.Equal(t, src.Values, decoded.Values)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := DecodeSamples(bytes.NewReader([]byte("not a volume")))
	assert.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeSamples(&buf, testSamples(2, 2, 2)))
	truncated := buf.Bytes()[:buf.Len()/2]
	_, err = DecodeSamples(bytes.NewReader(truncated))
	assert.Error(t, err)
}

func TestDecodeHeaderClaimingHugeVolume(t *testing.T) {
	data := headerOnly(t, 1024, 1024, 256, 1)

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	_, err := DecodeSamples(bytes.NewReader(data))
	runtime.ReadMemStats(&after)

	assert.Error(t, err)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(16<<20),
		"allocation must follow the data present, not the header")

	_, err = DecodeSamplesShape(bytes.NewReader(data), 8, 8, 8, 1)
	assert.ErrorIs(t, err, ErrCacheMismatch)
}

func TestLoadOrGenerateOversizedHeaderRegenerates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise_data")
	require.NoError(t, os.WriteFile(path, headerOnly(t, 1024, 1024, 256, 1), 0o644))

	s, hit, err := LoadOrGenerate(path, 2, 3, 4, 1, func() (*Samples, error) {
		return testSamples(2, 3, 4), nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.True(t, s.sameShape(2, 3, 4, 1))

	reloaded, err := LoadSamples(path)
	require.NoError(t, err)
	assert.True(t, reloaded.sameShape(2, 3, 4, 1))
}

func TestLoadOrGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets", "noise_data")
	calls := 0
	generate := func() (*Samples, error) {
		calls++
		return testSamples(2, 3, 4), nil
	}

	s, hit, err := LoadOrGenerate(path, 2, 3, 4, 1, generate)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, calls)
	_, err = os.Stat(path)
	require.NoError(t, err, "cache file not written")

	cached, hit, err := LoadOrGenerate(path, 2, 3, 4, 1, generate)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, calls)
	assert.Equal(t, s.Values, cached.Values)
}

func TestLoadOrGenerateShapeMismatchRegenerates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise_data")
	require.NoError(t, SaveSamples(path, testSamples(2, 2, 2)))

	calls := 0
	s, hit, err := LoadOrGenerate(path, 3, 3, 3, 1, func() (*Samples, error) {
		calls++
		return testSamples(3, 3, 3), nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 3, s.Width)

	reloaded, err := LoadSamples(path)
	require.NoError(t, err)
	assert.True(t, reloaded.sameShape(3, 3, 3, 1), "regenerated volume was not written back")
}

func TestLoadOrGenerateCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise_data")
	require.NoError(t, os.WriteFile(path, []byte("corrupt"), 0o644))

	_, hit, err := LoadOrGenerate(path, 2, 3, 4, 1, func() (*Samples, error) {
		return testSamples(2, 3, 4), nil
	})
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestLoadOrGenerateWriteFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	// the parent of the cache path is a regular file, so the write fails
	path := filepath.Join(blocker, "noise_data")

	s, hit, err := LoadOrGenerate(path, 2, 3, 4, 1, func() (*Samples, error) {
		return testSamples(2, 3, 4), nil
	})
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NotNil(t, s)
}

func TestLoadOrGeneratePropagatesGeneratorError(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := LoadOrGenerate(filepath.Join(t.TempDir(), "x"), 1, 1, 1, 1, func() (*Samples, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestSamplesBuffer(t *testing.T) {
	buf, err := testSamples(4, 4, 1).Buffer()
	require.NoError(t, err)
	assert.Equal(t, R32Float, buf.Format)
	assert.Equal(t, D2, buf.Dimension)
}

func TestBufferSamplesRoundTrip(t *testing.T) {
	src := &Samples{Width: 2, Height: 2, Depth: 2, Components: 4, Values: make([]float32, 32)}
	for i := range src.Values {
		src.Values[i] = float32(i) / 3
	}
	buf, err := src.Buffer()
	require.NoError(t, err)
	back, err := buf.Samples()
	require.NoError(t, err)
	require.True(t, back.sameShape(2, 2, 2, 4), "shape changed: %+v", back)
	assert.Equal(t, src.Values, back.Values)
}
