package config

import (
	"sort"
	"time"
)

var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"fast": withAnimation(DefaultConfig(), AnimationConfig{
		Duration: 150 * time.Millisecond, Pulse: 90 * time.Millisecond, CellSize: DefaultCellSize, FPS: 60,
	}),
	"slow": withAnimation(DefaultConfig(), AnimationConfig{
		Duration: 1500 * time.Millisecond, Pulse: 900 * time.Millisecond, CellSize: DefaultCellSize, FPS: DefaultFPS,
	}),
	"debug": func() *Config {
		c := DefaultConfig()
		c.Display.ShowIndices = true
		c.Display.ShowDistance = true
		c.Log.Level = "debug"
		return c
	}(),
	"large": func() *Config {
		c := DefaultConfig()
		c.Grid = GridConfig{Height: 8, Width: 8}
		c.Animation.CellSize = 40
		return c
	}(),
}

func withAnimation(c *Config, a AnimationConfig) *Config {
	c.Animation = a
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *p
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
