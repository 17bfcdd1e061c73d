package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/scenecore/internal/config"
	"github.com/l1jgo/scenecore/internal/scene"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/scenesim.toml"
	if p := os.Getenv("SCENECORE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Optional profiling
	if mode := profileMode(cfg.Profile.Mode); mode != nil {
		p := profile.Start(mode, profile.ProfilePath(cfg.Profile.Path), profile.NoShutdownHook, profile.Quiet)
		defer p.Stop()
		log.Info("profiling enabled", zap.String("mode", cfg.Profile.Mode), zap.String("path", cfg.Profile.Path))
	}

	// 4. Build scene
	sc, err := loadScene(cfg, log)
	if err != nil {
		return err
	}
	defer func() { sc.Close() }()

	// 5. Hot reload
	var reload <-chan string
	var watchErrs <-chan error
	if cfg.Scene.Watch {
		scriptsDir := ""
		if cfg.Scripting.Enabled {
			scriptsDir = cfg.Scripting.Dir
		}
		watcher, err := scene.NewWatcher(cfg.Scene.Path, scriptsDir)
		if err != nil {
			return fmt.Errorf("watch scene: %w", err)
		}
		defer watcher.Close()
		reload, watchErrs = watcher.Events, watcher.Errors
	}

	// 6. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Loop.TickRate)
	defer ticker.Stop()

	log.Info("scene running",
		zap.String("scene", sc.Name),
		zap.Int("entities", sc.World().Len()),
		zap.Duration("tick", cfg.Loop.TickRate))

	var total uint64
	for {
		select {
		case <-ticker.C:
			sc.Tick(cfg.Loop.TickRate)
			total++
			if cfg.Loop.MaxTicks > 0 && total >= uint64(cfg.Loop.MaxTicks) {
				log.Info("tick limit reached", zap.Uint64("ticks", total), zap.Int("entities", sc.World().Len()))
				return nil
			}
		case path := <-reload:
			next, err := loadScene(cfg, log)
			if err != nil {
				log.Warn("scene reload failed, keeping current scene", zap.String("file", path), zap.Error(err))
				continue
			}
			sc.Close()
			sc = next
			log.Info("scene reloaded", zap.String("file", path), zap.Int("entities", sc.World().Len()))
		case err := <-watchErrs:
			if err != nil {
				log.Warn("scene watcher", zap.Error(err))
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()), zap.Uint64("ticks", total))
			return nil
		}
	}
}

func loadScene(cfg *config.Config, log *zap.Logger) (*scene.Scene, error) {
	desc, err := scene.LoadDescription(cfg.Scene.Path)
	if err != nil {
		return nil, err
	}
	sc, err := scene.New(cfg, desc, log)
	if err != nil {
		return nil, eris.Wrapf(err, "load %s", cfg.Scene.Path)
	}
	return sc, nil
}

func profileMode(mode string) func(*profile.Profile) {
	switch mode {
	case "cpu":
		return profile.CPUProfile
	case "mem":
		return profile.MemProfile
	case "alloc":
		return profile.MemProfileAllocs
	case "trace":
		return profile.TraceProfile
	}
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
