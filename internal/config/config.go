package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultHeight   = 4
	DefaultWidth    = 4
	DefaultCellSize = 70
	DefaultFPS      = 30
	DefaultDuration = 500 * time.Millisecond
	DefaultPulse    = 300 * time.Millisecond
	DefaultTheme    = "cyberpunk"
	DefaultAddr     = "127.0.0.1:8080"
	EnvPrefix       = "MAZEVIZ"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Grid      GridConfig      `yaml:"grid" mapstructure:"grid"`
	Animation AnimationConfig `yaml:"animation" mapstructure:"animation"`
	Display   DisplayConfig   `yaml:"display" mapstructure:"display"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Serve     ServeConfig     `yaml:"serve" mapstructure:"serve"`
}

type GridConfig struct {
	Height int `yaml:"height" mapstructure:"height"`
	Width  int `yaml:"width" mapstructure:"width"`
}

type AnimationConfig struct {
	Duration time.Duration `yaml:"duration" mapstructure:"duration"`
	Pulse    time.Duration `yaml:"pulse" mapstructure:"pulse"`
	CellSize int           `yaml:"cell_size" mapstructure:"cell_size"`
	FPS      int           `yaml:"fps" mapstructure:"fps"`
}

type DisplayConfig struct {
	ShowIndices  bool   `yaml:"show_indices" mapstructure:"show_indices"`
	ShowDistance bool   `yaml:"show_distance" mapstructure:"show_distance"`
	Theme        string `yaml:"theme" mapstructure:"theme"`
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	// File receives log output in the terminal UI. Empty discards it.
	File string `yaml:"file" mapstructure:"file"`
}

type ServeConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{Height: DefaultHeight, Width: DefaultWidth},
		Animation: AnimationConfig{
			Duration: DefaultDuration,
			Pulse:    DefaultPulse,
			CellSize: DefaultCellSize,
			FPS:      DefaultFPS,
		},
		Display: DisplayConfig{Theme: DefaultTheme},
		Log:     LogConfig{Level: "info"},
		Serve:   ServeConfig{Addr: DefaultAddr},
	}
}

// Load layers the named preset (or the defaults when preset is empty), the
// file at path when given, and MAZEVIZ_* environment variables.
func Load(path, preset string) (*Config, error) {
	base := DefaultConfig()
	if preset != "" {
		p := GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s", preset)
		}
		base = p
	}

	v := viper.New()
	setDefaults(v, base)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("grid.height", c.Grid.Height)
	v.SetDefault("grid.width", c.Grid.Width)
	v.SetDefault("animation.duration", c.Animation.Duration)
	v.SetDefault("animation.pulse", c.Animation.Pulse)
	v.SetDefault("animation.cell_size", c.Animation.CellSize)
	v.SetDefault("animation.fps", c.Animation.FPS)
	v.SetDefault("display.show_indices", c.Display.ShowIndices)
	v.SetDefault("display.show_distance", c.Display.ShowDistance)
	v.SetDefault("display.theme", c.Display.Theme)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.file", c.Log.File)
	v.SetDefault("serve.addr", c.Serve.Addr)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Grid.Height <= 0 || c.Grid.Width <= 0:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalid, c.Grid.Height, c.Grid.Width)
	case c.Animation.Duration <= 0:
		return fmt.Errorf("%w: animation.duration %v", ErrInvalid, c.Animation.Duration)
	case c.Animation.Pulse < 0 || c.Animation.Pulse >= c.Animation.Duration:
		return fmt.Errorf("%w: animation.pulse %v", ErrInvalid, c.Animation.Pulse)
	case c.Animation.CellSize <= 0:
		return fmt.Errorf("%w: animation.cell_size %d", ErrInvalid, c.Animation.CellSize)
	case c.Animation.FPS <= 0 || c.Animation.FPS > 240:
		return fmt.Errorf("%w: animation.fps %d", ErrInvalid, c.Animation.FPS)
	}
	return nil
}

// FrameInterval is the redraw period of animated renderers.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Animation.FPS)
}
