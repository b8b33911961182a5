package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultVelocityThreshold is the legacy stop threshold carried over
	// as the configured default: Thrown bodies stop below it, Idle
	// bodies below half of it.
	DefaultVelocityThreshold = 50.0
	DefaultFriction          = 0.98
	DefaultGravity           = 980.0
	DefaultBounce            = 0.8
	DefaultDt                = 1.0 / 60.0
	DefaultDuration          = 10.0
	DefaultRadius            = 25.0
	DefaultMass              = 1.0
)

// Config is the flat, read-only parameter set shared by the state
// machine and the physics engine. Construct once, then treat as
// immutable.
type Config struct {
	VelocityThreshold   float64 `yaml:"velocity_threshold"`
	FrictionCoefficient float64 `yaml:"friction_coefficient"`
	Gravity             float64 `yaml:"gravity"`
	BounceFactor        float64 `yaml:"bounce_factor"`

	ValidateTransitions bool `yaml:"validate_transitions"`
	LogTransitions      bool `yaml:"log_transitions"`
	AsyncNotifications  bool `yaml:"async_notifications"`

	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`

	Ball   BallConfig   `yaml:"ball"`
	Bounds BoundsConfig `yaml:"bounds"`
}

// BallConfig seeds the simulated body.
type BallConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
	Mass   float64 `yaml:"mass"`
}

// BoundsConfig is the confinement rectangle.
type BoundsConfig struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

func DefaultConfig() *Config {
	return &Config{
		VelocityThreshold:   DefaultVelocityThreshold,
		FrictionCoefficient: DefaultFriction,
		Gravity:             DefaultGravity,
		BounceFactor:        DefaultBounce,
		ValidateTransitions: true,
		Dt:                  DefaultDt,
		Duration:            DefaultDuration,
		Ball: BallConfig{
			X:      400,
			Y:      100,
			Radius: DefaultRadius,
			Mass:   DefaultMass,
		},
		Bounds: BoundsConfig{MinX: 0, MinY: 0, MaxX: 800, MaxY: 600},
	}
}

// Load reads a yaml config file over the defaults and normalizes the
// result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Normalize clamps fractional coefficients into [0,1] and repairs
// non-positive step values.
func (c *Config) Normalize() {
	c.FrictionCoefficient = clamp01(c.FrictionCoefficient)
	c.BounceFactor = clamp01(c.BounceFactor)
	if c.VelocityThreshold < 0 {
		c.VelocityThreshold = 0
	}
	if c.Dt <= 0 {
		c.Dt = DefaultDt
	}
	if c.Duration <= 0 {
		c.Duration = DefaultDuration
	}
}

// Validate rejects geometry that no body can exist in.
func (c *Config) Validate() error {
	if c.Bounds.MaxX <= c.Bounds.MinX || c.Bounds.MaxY <= c.Bounds.MinY {
		return fmt.Errorf("config: degenerate bounds [%f,%f]x[%f,%f]",
			c.Bounds.MinX, c.Bounds.MaxX, c.Bounds.MinY, c.Bounds.MaxY)
	}
	if c.Ball.Radius*2 > c.Bounds.MaxX-c.Bounds.MinX || c.Ball.Radius*2 > c.Bounds.MaxY-c.Bounds.MinY {
		return fmt.Errorf("config: ball radius %f does not fit bounds", c.Ball.Radius)
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
