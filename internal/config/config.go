package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	World     WorldConfig     `toml:"world"`
	Loop      LoopConfig      `toml:"loop"`
	Scene     SceneConfig     `toml:"scene"`
	Scripting ScriptingConfig `toml:"scripting"`
	Spatial   SpatialConfig   `toml:"spatial"`
	Logging   LoggingConfig   `toml:"logging"`
	Profile   ProfileConfig   `toml:"profile"`
}

type WorldConfig struct {
	EntityCapacity int `toml:"entity_capacity"` // preallocated entity slots
}

type LoopConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
	MaxTicks int           `toml:"max_ticks"` // 0 = run until signalled
}

type SceneConfig struct {
	Path  string `toml:"path"`
	Watch bool   `toml:"watch"` // rebuild the scene when the file changes
}

type ScriptingConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type SpatialConfig struct {
	CellSize float64 `toml:"cell_size"` // proximity grid cell edge, world units
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type ProfileConfig struct {
	Mode string `toml:"mode"` // "", "cpu", "mem", "alloc", "trace"
	Path string `toml:"path"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Loop.TickRate <= 0 {
		return fmt.Errorf("config: loop.tick_rate must be positive, got %s", c.Loop.TickRate)
	}
	if c.Loop.MaxTicks < 0 {
		return fmt.Errorf("config: loop.max_ticks must not be negative, got %d", c.Loop.MaxTicks)
	}
	if c.World.EntityCapacity < 0 {
		return fmt.Errorf("config: world.entity_capacity must not be negative, got %d", c.World.EntityCapacity)
	}
	if c.Spatial.CellSize <= 0 {
		return fmt.Errorf("config: spatial.cell_size must be positive, got %g", c.Spatial.CellSize)
	}
	switch c.Profile.Mode {
	case "", "cpu", "mem", "alloc", "trace":
	default:
		return fmt.Errorf("config: unknown profile.mode %q", c.Profile.Mode)
	}
	return nil
}

func Defaults() *Config {
	return &Config{
		World: WorldConfig{
			EntityCapacity: 1024,
		},
		Loop: LoopConfig{
			TickRate: 50 * time.Millisecond,
		},
		Scene: SceneConfig{
			Path: "scenes/demo.yaml",
		},
		Scripting: ScriptingConfig{
			Enabled: true,
			Dir:     "scripts",
		},
		Spatial: SpatialConfig{
			CellSize: 32,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Profile: ProfileConfig{
			Path: "profile",
		},
	}
}
