package config

import (
	"fmt"
	"os"

	"Cloudscape/internal/material"
	"Cloudscape/internal/noise"
	"Cloudscape/internal/sdf"
	"Cloudscape/internal/volume"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config drives every stage of the cloud pipeline. Keys missing from a
// loaded file keep their defaults.
type Config struct {
	// Workers bounds every parallel stage; 0 means one per CPU.
	Workers int `yaml:"workers"`

	Volume      VolumeConfig      `yaml:"volume"`
	Cloud       sdf.Cloud         `yaml:"cloud"`
	Bake        BakeConfig        `yaml:"bake"`
	FBM         FBMConfig         `yaml:"fbm"`
	Maps        MapsConfig        `yaml:"maps"`
	Detail      DetailConfig      `yaml:"detail"`
	NoiseVolume NoiseVolumeConfig `yaml:"noise_volume"`
	Material    material.Tuning   `yaml:"material"`
	Output      OutputConfig      `yaml:"output"`
}

type VolumeConfig struct {
	Resolution [3]int             `yaml:"resolution,flow"`
	Fill       volume.FillOptions `yaml:"fill"`
}

type BakeConfig struct {
	volume.BakeOptions `yaml:",inline"`
	Sun                volume.Sun `yaml:"sun"`
}

type FBMConfig struct {
	Value    noise.FBM `yaml:"value"`
	Worley   noise.FBM `yaml:"worley"`
	Coverage noise.FBM `yaml:"coverage"`
}

// Coverage map backends.
const (
	BackendGradient = "gradient"
	BackendPerlin   = "perlin"
	BackendSimplex  = "simplex"
)

type MapsConfig struct {
	Resolution int     `yaml:"resolution"`
	Scale      float32 `yaml:"scale"`
	// Tile wraps the noise lattice at Scale so the maps repeat seamlessly.
	Tile            bool   `yaml:"tile"`
	CoverageBackend string `yaml:"coverage_backend"`
	Seed            int64  `yaml:"seed"`
	// Perlin only.
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
}

type DetailConfig struct {
	Resolution int     `yaml:"resolution"`
	Scale      float32 `yaml:"scale"`
}

type NoiseVolumeConfig struct {
	Resolution   int     `yaml:"resolution"`
	Scale        float32 `yaml:"scale"`
	WorleyScale  float32 `yaml:"worley_scale"`
	WorleyPeriod float32 `yaml:"worley_period"`
	// Mix is the Worley weight: mix(value, worley, Mix).
	Mix       float32             `yaml:"mix"`
	Value     noise.DerivativeFBM `yaml:"value"`
	CachePath string              `yaml:"cache_path"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the reference configuration.
func Default() *Config {
	fill := volume.DefaultFillOptions()
	return &Config{
		Volume: VolumeConfig{
			Resolution: [3]int{30, 30, 30},
			Fill:       fill,
		},
		Cloud: sdf.DefaultCloud(),
		Bake: BakeConfig{
			BakeOptions: volume.DefaultBakeOptions(),
			Sun:         volume.DefaultSun(),
		},
		FBM: FBMConfig{
			Value:    noise.ValueFBMDefaults(),
			Worley:   noise.WorleyFBMDefaults(),
			Coverage: noise.CoverageFBMDefaults(),
		},
		Maps: MapsConfig{
			Resolution:      1000,
			Scale:           5,
			Tile:            true,
			CoverageBackend: BackendGradient,
			Seed:            1,
			Alpha:           2,
			Beta:            2,
		},
		Detail: DetailConfig{
			Resolution: 32,
			Scale:      10,
		},
		NoiseVolume: NoiseVolumeConfig{
			Resolution:   200,
			Scale:        10,
			WorleyScale:  0.5,
			WorleyPeriod: 100,
			Mix:          0.7,
			Value:        noise.DerivativeFBMDefaults(),
			CachePath:    "assets/noise_data",
		},
		Material: material.DefaultTuning(),
		Output: OutputConfig{
			Dir: "out",
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var err error
	for i, r := range c.Volume.Resolution {
		if r <= 0 {
			err = multierr.Append(err, fmt.Errorf("volume.resolution[%d] must be positive, got %d", i, r))
		}
	}
	switch c.Volume.Fill.Mode {
	case volume.FillSDF, volume.FillSDFNoise:
	default:
		err = multierr.Append(err, fmt.Errorf("volume.fill.mode: unknown mode %q", c.Volume.Fill.Mode))
	}
	if e := c.Cloud.Validate(); e != nil {
		err = multierr.Append(err, fmt.Errorf("cloud: %w", e))
	}
	if e := c.Bake.Validate(); e != nil {
		err = multierr.Append(err, fmt.Errorf("bake: %w", e))
	}
	if c.Bake.Sun.Base.Len() == 0 {
		err = multierr.Append(err, fmt.Errorf("bake.sun.base must not be zero"))
	}
	presets := []struct {
		name string
		fbm  noise.FBM
	}{
		{"value", c.FBM.Value},
		{"worley", c.FBM.Worley},
		{"coverage", c.FBM.Coverage},
	}
	for _, p := range presets {
		if p.fbm.Octaves <= 0 {
			err = multierr.Append(err, fmt.Errorf("fbm.%s.octaves must be positive, got %d", p.name, p.fbm.Octaves))
		}
	}
	if c.Maps.Resolution <= 0 {
		err = multierr.Append(err, fmt.Errorf("maps.resolution must be positive, got %d", c.Maps.Resolution))
	}
	switch c.Maps.CoverageBackend {
	case BackendGradient, BackendPerlin, BackendSimplex:
	default:
		err = multierr.Append(err, fmt.Errorf("maps.coverage_backend: unknown backend %q", c.Maps.CoverageBackend))
	}
	if c.Detail.Resolution <= 0 {
		err = multierr.Append(err, fmt.Errorf("detail.resolution must be positive, got %d", c.Detail.Resolution))
	}
	if c.NoiseVolume.Resolution <= 0 {
		err = multierr.Append(err, fmt.Errorf("noise_volume.resolution must be positive, got %d", c.NoiseVolume.Resolution))
	}
	if c.NoiseVolume.Mix < 0 || c.NoiseVolume.Mix > 1 {
		err = multierr.Append(err, fmt.Errorf("noise_volume.mix must be in [0, 1], got %v", c.NoiseVolume.Mix))
	}
	return err
}
