package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/bugsim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if !cfg.Physics.Gravity {
		t.Error("gravity should be on by default")
	}
	if cfg.Physics.Restitution != 0.9 {
		t.Errorf("expected restitution 0.9, got %f", cfg.Physics.Restitution)
	}
	if cfg.Spawn.Radius != 25 || cfg.Spawn.Drag != 0.995 {
		t.Errorf("unexpected spawn template %+v", cfg.Spawn)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Viewport.Width = 0 }},
		{"negative height", func(c *Config) { c.Viewport.Height = -10 }},
		{"zero mass", func(c *Config) { c.Spawn.Mass = 0 }},
		{"negative radius", func(c *Config) { c.Spawn.Radius = -1 }},
		{"oversized radius", func(c *Config) { c.Spawn.Radius = 500 }},
		{"drag zero", func(c *Config) { c.Spawn.Drag = 0 }},
		{"restitution above one", func(c *Config) { c.Physics.Restitution = 1.2 }},
		{"unknown integrator", func(c *Config) { c.Physics.Integrator = "rk4" }},
		{"negative impulse", func(c *Config) { c.Impulse = -5 }},
		{"overflowing impulse", func(c *Config) { c.Impulse = 1e308 }},
		{"overflowing max speed", func(c *Config) { c.Spawn.MaxSpeed = math.MaxFloat64 }},
		{"infinite gravity", func(c *Config) { c.Physics.GravityAccel = math.Inf(-1) }},
		{"zero ticks", func(c *Config) { c.Ticks = 0 }},
		{"negative ticks", func(c *Config) { c.Ticks = -1 }},
		{"too many ticks", func(c *Config) { c.Ticks = MaxTicks + 1 }},
		{"negative count", func(c *Config) { c.Spawn.Count = -1 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, dynamo.ErrInvalidConfiguration) {
				t.Errorf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bugs.yaml")
	data := "viewport:\n  width: 320\n  height: 240\nphysics:\n  gravity: false\nspawn:\n  count: 4\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Viewport.Width != 320 || cfg.Viewport.Height != 240 {
		t.Errorf("viewport = %+v", cfg.Viewport)
	}
	if cfg.Physics.Gravity {
		t.Error("gravity should be off")
	}
	if cfg.Physics.Restitution != DefaultRestitution {
		t.Errorf("unset field should keep default, got %f", cfg.Physics.Restitution)
	}
	if cfg.Spawn.Count != 4 {
		t.Errorf("expected 4 entities, got %d", cfg.Spawn.Count)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bugs.toml")
	data := "seed = 7\n\n[physics]\nrestitution = 1.0\nintegrator = \"semi-implicit\"\n\n[logging]\nlevel = \"debug\"\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Seed != 7 {
		t.Errorf("expected seed 7, got %d", cfg.Seed)
	}
	if cfg.Physics.Restitution != 1.0 || cfg.Physics.Integrator != "semi-implicit" {
		t.Errorf("physics = %+v", cfg.Physics)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config invalid: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"out.yaml", "out.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := GetPreset("billiards")
			cfg.Seed = 77

			if err := Save(path, cfg); err != nil {
				t.Fatalf("save failed: %v", err)
			}
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if *loaded != *cfg {
				t.Errorf("loaded %+v, want %+v", loaded, cfg)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("zero-g")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Physics.Gravity {
		t.Error("zero-g preset should disable gravity")
	}

	cfg.Spawn.Count = 999
	if GetPreset("zero-g").Spawn.Count == 999 {
		t.Error("presets must return independent copies")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for _, name := range presets {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
