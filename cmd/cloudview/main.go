package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"Cloudscape/internal/config"
	"Cloudscape/internal/engine"
	"Cloudscape/internal/logger"
	"Cloudscape/internal/material"
	"Cloudscape/internal/pipeline"
	"Cloudscape/internal/texture"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var textureNames = []string{
	pipeline.CloudTexture,
	pipeline.DetailTexture,
	pipeline.WorleyTexture,
	pipeline.ValueTexture,
	pipeline.CoverageTexture,
	pipeline.NoiseTexture,
}

func main() {
	configPath := flag.String("config", "", "YAML pipeline configuration (defaults when empty)")
	dir := flag.String("dir", "", "directory holding baked textures, overrides output.dir")
	frames := flag.Int("frames", 120, "frames to run, 0 runs until the window closes")
	visible := flag.Bool("visible", false, "show the window")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	logger.InitWith(*logLevel)
	defer logger.Sync()

	if err := run(*configPath, *dir, *frames, *visible); err != nil {
		logger.Log.Error("Viewer failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(configPath, dir string, frames int, visible bool) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if dir == "" {
		dir = cfg.Output.Dir
	}

	buffers := make(map[string]*texture.Buffer, len(textureNames))
	for _, name := range textureNames {
		path := filepath.Join(dir, name+".nvol")
		samples, err := texture.LoadSamples(path)
		if err != nil {
			return fmt.Errorf("failed to load %s (run cloudbake first): %w", path, err)
		}
		if buffers[name], err = samples.Buffer(); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	cloud := buffers[pipeline.CloudTexture]
	mat := material.NewCloud(cfg.Material, cloud.Width, cloud.Height, cloud.Depth)
	sun := cfg.Bake.Sun.Base.Mul(-1)

	gopher := engine.NewGopher()
	gopher.Visible = visible
	gopher.SetOnStartCallback(func() error {
		for _, name := range textureNames {
			if _, err := gopher.Textures.Upload(name, buffers[name]); err != nil {
				return err
			}
		}
		gopher.Textures.LogStats()
		return nil
	})
	gopher.SetOnRenderCallback(func(elapsed, _ float64) {
		gopher.Camera.SetRotation(material.Sway(float32(elapsed)))
		mat.Update(material.Frame{
			CameraPosition: gopher.Camera.Position,
			SunForward:     sun,
			Elapsed:        float32(elapsed),
			Position:       mgl32.Vec3{100, 100, 200},
			Scale:          mgl32.Vec3{100, 100, 100},
		})
		mat.Apply(uniformLog{})
	})

	return gopher.Render(frames)
}

// uniformLog traces the uniform feed at debug level.
type uniformLog struct{}

func (uniformLog) SetFloat(name string, value float32) {
	logger.Log.Debug("Uniform", zap.String("name", name), zap.Float32("value", value))
}

func (uniformLog) SetVec3(name string, x, y, z float32) {
	logger.Log.Debug("Uniform", zap.String("name", name), zap.Float32s("value", []float32{x, y, z}))
}
