package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"Cloudscape/internal/config"
	"Cloudscape/internal/logger"
	"Cloudscape/internal/pipeline"
	"Cloudscape/internal/texture"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "YAML pipeline configuration (defaults when empty)")
	outDir := flag.String("out", "", "output directory, overrides output.dir")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	dumpConfig := flag.String("dump-config", "", "write the effective configuration to this path and exit")
	flag.Parse()

	logger.InitWith(*logLevel)
	defer logger.Sync()

	if err := run(*configPath, *outDir, *dumpConfig); err != nil {
		logger.Log.Error("Bake failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(configPath, outDir, dumpConfig string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
		logger.Log.Info("Loaded config", zap.String("path", configPath))
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if dumpConfig != "" {
		return cfg.Save(dumpConfig)
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	textures, err := p.Run()
	if err != nil {
		return err
	}

	for _, tex := range textures {
		samples, err := tex.Buffer.Samples()
		if err != nil {
			return fmt.Errorf("%s: %w", tex.Name, err)
		}
		path := filepath.Join(cfg.Output.Dir, tex.Name+".nvol")
		if err := texture.SaveSamples(path, samples); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		logger.Log.Info("Wrote texture", zap.String("path", path))
	}

	logger.Log.Info("Bake finished",
		zap.Int("textures", len(textures)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
