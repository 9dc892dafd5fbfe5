package config

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/san-kum/bugsim/internal/dynamo"
	"github.com/san-kum/bugsim/internal/integrators"
	"github.com/san-kum/bugsim/internal/lifecycle"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth        = 800.0
	DefaultHeight       = 600.0
	DefaultGravityAccel = 0.1
	DefaultRestitution  = 0.9
	DefaultCount        = 12
	DefaultImpulse      = 1000.0
	DefaultTicks        = 1000
	DefaultFPS          = 60

	// MaxTicks bounds the length of a headless run.
	MaxTicks = 10_000_000
)

type Config struct {
	Viewport ViewportConfig `yaml:"viewport" toml:"viewport"`
	Physics  PhysicsConfig  `yaml:"physics" toml:"physics"`
	Spawn    SpawnConfig    `yaml:"spawn" toml:"spawn"`
	Impulse  float64        `yaml:"impulse" toml:"impulse"`
	Seed     int64          `yaml:"seed" toml:"seed"`
	Ticks    int            `yaml:"ticks" toml:"ticks"`
	FPS      int            `yaml:"fps" toml:"fps"`
	Sound    bool           `yaml:"sound" toml:"sound"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

type ViewportConfig struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

type PhysicsConfig struct {
	Gravity      bool    `yaml:"gravity" toml:"gravity"`
	GravityAccel float64 `yaml:"gravity_accel" toml:"gravity_accel"`
	Restitution  float64 `yaml:"restitution" toml:"restitution"`
	Integrator   string  `yaml:"integrator" toml:"integrator"`
}

type SpawnConfig struct {
	Count    int     `yaml:"count" toml:"count"`
	Mass     float64 `yaml:"mass" toml:"mass"`
	Radius   float64 `yaml:"radius" toml:"radius"`
	Drag     float64 `yaml:"drag" toml:"drag"`
	MaxSpeed float64 `yaml:"max_speed" toml:"max_speed"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // "json" or "console"
}

func DefaultConfig() *Config {
	return &Config{
		Viewport: ViewportConfig{Width: DefaultWidth, Height: DefaultHeight},
		Physics: PhysicsConfig{
			Gravity:      true,
			GravityAccel: DefaultGravityAccel,
			Restitution:  DefaultRestitution,
			Integrator:   "euler",
		},
		Spawn: SpawnConfig{
			Count:    DefaultCount,
			Mass:     lifecycle.DefaultMass,
			Radius:   lifecycle.DefaultRadius,
			Drag:     lifecycle.DefaultDrag,
			MaxSpeed: lifecycle.DefaultMaxSpeed,
		},
		Impulse: DefaultImpulse,
		Ticks:   DefaultTicks,
		FPS:     DefaultFPS,
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads a yaml or toml file (chosen by extension) over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as yaml or toml, chosen by extension the same way as Load.
func Save(path string, cfg *Config) error {
	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("encode config %s: %w", path, err)
		}
	default:
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode config %s: %w", path, err)
		}
		buf.Write(data)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Validate rejects values that would leave the world inconsistent.
func (c *Config) Validate() error {
	if !(c.Viewport.Width > 0) || !(c.Viewport.Height > 0) {
		return invalid("viewport must be positive, got %gx%g", c.Viewport.Width, c.Viewport.Height)
	}
	if !(c.Spawn.Mass > 0) {
		return invalid("spawn mass must be positive, got %g", c.Spawn.Mass)
	}
	if !(c.Spawn.Radius > 0) {
		return invalid("spawn radius must be positive, got %g", c.Spawn.Radius)
	}
	if 2*c.Spawn.Radius > c.Viewport.Width || 2*c.Spawn.Radius > c.Viewport.Height {
		return invalid("spawn diameter %g exceeds viewport", 2*c.Spawn.Radius)
	}
	if !(c.Spawn.Drag > 0 && c.Spawn.Drag <= 1) {
		return invalid("spawn drag must be in (0,1], got %g", c.Spawn.Drag)
	}
	if c.Spawn.Count < 0 {
		return invalid("spawn count must not be negative, got %d", c.Spawn.Count)
	}
	if !(c.Spawn.MaxSpeed >= 0 && c.Spawn.MaxSpeed <= lifecycle.MaxImpulse) {
		return invalid("spawn max speed must be in [0,%g], got %g", lifecycle.MaxImpulse, c.Spawn.MaxSpeed)
	}
	if !(c.Physics.Restitution >= 0 && c.Physics.Restitution <= 1) {
		return invalid("restitution must be in [0,1], got %g", c.Physics.Restitution)
	}
	if !(math.Abs(c.Physics.GravityAccel) <= lifecycle.MaxImpulse) {
		return invalid("gravity acceleration must be in [-%g,%g], got %g", lifecycle.MaxImpulse, lifecycle.MaxImpulse, c.Physics.GravityAccel)
	}
	if _, err := integrators.ByName(c.Physics.Integrator); err != nil {
		return invalid("%v", err)
	}
	if !(c.Impulse >= 0 && c.Impulse <= lifecycle.MaxImpulse) {
		return invalid("impulse must be in [0,%g], got %g", lifecycle.MaxImpulse, c.Impulse)
	}
	if c.Ticks <= 0 || c.Ticks > MaxTicks {
		return invalid("ticks must be in [1,%d], got %d", MaxTicks, c.Ticks)
	}
	if c.FPS <= 0 {
		return invalid("fps must be positive, got %d", c.FPS)
	}
	return nil
}

func (c *Config) Bounds() dynamo.Bounds {
	return dynamo.Bounds{Width: c.Viewport.Width, Height: c.Viewport.Height}
}

func (c *Config) Params() dynamo.Params {
	return dynamo.Params{
		Gravity:      c.Physics.Gravity,
		GravityAccel: c.Physics.GravityAccel,
		Restitution:  c.Physics.Restitution,
	}
}

func (c *Config) Template() lifecycle.Template {
	return lifecycle.Template{
		Mass:     c.Spawn.Mass,
		Radius:   c.Spawn.Radius,
		Drag:     c.Spawn.Drag,
		MaxSpeed: c.Spawn.MaxSpeed,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", dynamo.ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
