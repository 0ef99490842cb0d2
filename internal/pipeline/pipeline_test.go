package pipeline

import (
	"path/filepath"
	"testing"

	"Cloudscape/internal/config"
	"Cloudscape/internal/noise"
	"Cloudscape/internal/texture"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Workers = 2
	cfg.Volume.Resolution = [3]int{6, 6, 6}
	cfg.Detail.Resolution = 4
	cfg.Maps.Resolution = 16
	cfg.NoiseVolume.Resolution = 4
	cfg.NoiseVolume.CachePath = filepath.Join(t.TempDir(), "assets", "noise_data")
	return cfg
}

func newPipeline(t *testing.T, cfg *config.Config) *Pipeline {
	t.Helper()
	p, err := New(cfg)
	require.NoError(t, err)
	return p
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Maps.Resolution = 0
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestRunProducesEveryTexture(t *testing.T) {
	textures, err := newPipeline(t, smallConfig(t)).Run()
	require.NoError(t, err)

	want := []struct {
		name   string
		format texture.Format
		dim    texture.Dimension
		size   [3]int
	}{
		{CloudTexture, texture.Rgba32Float, texture.D3, [3]int{6, 6, 6}},
		{DetailTexture, texture.R32Float, texture.D3, [3]int{4, 4, 4}},
		{WorleyTexture, texture.R32Float, texture.D2, [3]int{16, 16, 1}},
		{ValueTexture, texture.R32Float, texture.D2, [3]int{16, 16, 1}},
		{CoverageTexture, texture.R32Float, texture.D2, [3]int{16, 16, 1}},
		{NoiseTexture, texture.R32Float, texture.D3, [3]int{4, 4, 4}},
	}
	require.Len(t, textures, len(want))
	for i, w := range want {
		tex := textures[i]
		assert.Equal(t, w.name, tex.Name)
		assert.Equal(t, w.format, tex.Buffer.Format, w.name)
		assert.Equal(t, w.dim, tex.Buffer.Dimension, w.name)
		assert.Equal(t, w.size, [3]int{tex.Buffer.Width, tex.Buffer.Height, tex.Buffer.Depth}, w.name)
		assert.Len(t, tex.Buffer.Data, w.size[0]*w.size[1]*w.size[2]*w.format.Components()*4, w.name)
	}
}

func TestCloudVolumeLightIsBounded(t *testing.T) {
	g, err := newPipeline(t, smallConfig(t)).CloudVolume()
	require.NoError(t, err)

	inside := 0
	for _, r := range g.Data {
		assert.GreaterOrEqual(t, r[1], float32(0))
		assert.LessOrEqual(t, r[1], float32(1)+1e-6)
		if r[0] < 0 {
			inside++
		}
	}
	assert.Greater(t, inside, 0, "the default cloud covers part of the grid")
}

func TestMapsStayInRange(t *testing.T) {
	p := newPipeline(t, smallConfig(t))

	worley, err := p.WorleyMap()
	require.NoError(t, err)
	value, err := p.ValueMap()
	require.NoError(t, err)
	for i := range worley.Values {
		assert.True(t, worley.Values[i] >= 0 && worley.Values[i] <= 2)
		assert.True(t, value.Values[i] >= 0 && value.Values[i] <= 2)
	}
}

func TestValueMapSamplesPlanarNoise(t *testing.T) {
	cfg := smallConfig(t)
	value, err := newPipeline(t, cfg).ValueMap()
	require.NoError(t, err)

	m := cfg.Maps
	period := mgl32.Vec3{m.Scale, m.Scale, 0}
	res := m.Resolution
	for _, xy := range [][2]int{{0, 0}, {3, 7}, {15, 15}} {
		q := mgl32.Vec3{float32(xy[0]) / float32(res) * m.Scale, float32(xy[1]) / float32(res) * m.Scale, 0}
		want := cfg.FBM.Value.Eval(noise.Value2DSource, q, period)
		assert.Equal(t, want, value.Values[xy[0]+res*xy[1]], "pixel %v", xy)
	}
}

func TestCoverageBackends(t *testing.T) {
	for _, backend := range []string{config.BackendGradient, config.BackendPerlin, config.BackendSimplex} {
		cfg := smallConfig(t)
		cfg.Maps.CoverageBackend = backend

		a, err := newPipeline(t, cfg).CoverageMap()
		require.NoError(t, err, backend)
		b, err := newPipeline(t, cfg).CoverageMap()
		require.NoError(t, err, backend)

		assert.Equal(t, a.Values, b.Values, "%s is deterministic", backend)
		for _, v := range a.Values {
			assert.True(t, v >= 0 && v <= 1, "%s value %v", backend, v)
		}
	}
}

func TestNoiseVolumeUsesCache(t *testing.T) {
	cfg := smallConfig(t)
	p := newPipeline(t, cfg)

	first, hit, err := p.NoiseVolume()
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := p.NoiseVolume()
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first.Values, second.Values)

	cfg.NoiseVolume.Resolution = 5
	third, hit, err := newPipeline(t, cfg).NoiseVolume()
	require.NoError(t, err)
	assert.False(t, hit, "a different resolution invalidates the cache")
	assert.Len(t, third.Values, 125)
}
