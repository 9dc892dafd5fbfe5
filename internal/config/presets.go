package config

import "sort"

var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"zero-g": func() *Config {
		cfg := DefaultConfig()
		cfg.Physics.Gravity = false
		return cfg
	},
	"moon": func() *Config {
		cfg := DefaultConfig()
		cfg.Physics.GravityAccel = 0.016
		return cfg
	},
	"crowded": func() *Config {
		cfg := DefaultConfig()
		cfg.Spawn.Count = 60
		cfg.Spawn.Radius = 15
		return cfg
	},
	"billiards": func() *Config {
		cfg := DefaultConfig()
		cfg.Physics.Gravity = false
		cfg.Physics.Restitution = 1.0
		cfg.Spawn.Count = 16
		cfg.Spawn.MaxSpeed = 6
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
