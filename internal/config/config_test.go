package config

import (
	"os"
	"path/filepath"
	"testing"

	"Cloudscape/internal/noise"
	"Cloudscape/internal/volume"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cloud.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, [3]int{30, 30, 30}, cfg.Volume.Resolution)
	assert.Equal(t, float32(20), cfg.Bake.Extinction)
	assert.Equal(t, float32(0.15), cfg.Bake.Sun.JitterAngle)
	assert.Equal(t, 200, cfg.NoiseVolume.Resolution)
	assert.Equal(t, "assets/noise_data", cfg.NoiseVolume.CachePath)
	assert.Equal(t, mgl32.Vec3{0, -0.15, 0}, cfg.Cloud.Center)
	assert.Equal(t, float32(50), cfg.Material.ShadowDist)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
workers: 3
volume:
  resolution: [16, 8, 4]
  fill:
    mode: sdf-noise
cloud:
  octaves: 3
  radii: [0.4, 0.3, 0.4]
bake:
  extinction: 5
  density: noise
  threshold: 0.2
  sun:
    base: [1, 1, 0]
    jitter: false
maps:
  resolution: 64
  coverage_backend: simplex
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, [3]int{16, 8, 4}, cfg.Volume.Resolution)
	assert.Equal(t, volume.FillSDFNoise, cfg.Volume.Fill.Mode)
	assert.Equal(t, 3, cfg.Cloud.Octaves)
	assert.Equal(t, mgl32.Vec3{0.4, 0.3, 0.4}, cfg.Cloud.Radii)
	assert.Equal(t, float32(5), cfg.Bake.Extinction)
	assert.Equal(t, volume.DensityNoise, cfg.Bake.Density)
	assert.False(t, cfg.Bake.Sun.Jitter)
	assert.Equal(t, 64, cfg.Maps.Resolution)
	assert.Equal(t, BackendSimplex, cfg.Maps.CoverageBackend)

	// untouched keys keep their defaults
	assert.Equal(t, float32(1), cfg.Bake.StepScale)
	assert.Equal(t, float32(0.4), cfg.Cloud.OctaveScale)
	assert.Equal(t, 8, cfg.FBM.Value.Octaves)
	assert.Equal(t, float32(1000), cfg.Volume.Fill.AuxPeriod)
}

func TestLoadReportsEveryProblem(t *testing.T) {
	path := writeConfig(t, `
volume:
  resolution: [0, 8, 8]
bake:
  step_scale: -1
maps:
  coverage_backend: fractal
noise_volume:
  mix: 2
`)
	_, err := Load(path)
	require.Error(t, err)

	cfg := Default()
	cfg.Volume.Resolution[0] = 0
	cfg.Bake.StepScale = -1
	cfg.Maps.CoverageBackend = "fractal"
	cfg.NoiseVolume.Mix = 2
	assert.Len(t, multierr.Errors(cfg.Validate()), 4)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "volume: [not, a, map"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Workers = 7
	cfg.Maps.Seed = 42

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Workers)
	assert.Equal(t, int64(42), loaded.Maps.Seed)
	assert.Equal(t, cfg.Cloud, loaded.Cloud)
}

func TestLoadRotatedPresetDecorrelatesOctaves(t *testing.T) {
	path := writeConfig(t, `
fbm:
  value:
    rotate: true
  worley:
    rotate: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.FBM.Value.Rotate)

	a := mgl32.Vec3{0.3, 1.7, -2.2}
	b := mgl32.Vec3{4.1, -0.6, 0.9}
	for name, f := range map[string]noise.FBM{"value": cfg.FBM.Value, "worley": cfg.FBM.Worley} {
		src := noise.ValueSource
		if name == "worley" {
			src = noise.WorleySource
		}
		first := f
		first.Octaves = 1
		tailA := f.Sum(src, a, mgl32.Vec3{}) - first.Sum(src, a, mgl32.Vec3{})
		tailB := f.Sum(src, b, mgl32.Vec3{}) - first.Sum(src, b, mgl32.Vec3{})
		assert.NotEqual(t, tailA, tailB, "%s octaves after the first collapsed to a constant", name)
	}
}
