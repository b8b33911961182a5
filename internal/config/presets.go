package config

import "sort"

// Presets are named parameter sets for quick experimentation.
var Presets = map[string]*Config{
	"bouncy": {
		VelocityThreshold:   30,
		FrictionCoefficient: 0.995,
		Gravity:             980,
		BounceFactor:        0.95,
		ValidateTransitions: true,
		Dt:                  DefaultDt,
		Duration:            DefaultDuration,
		Ball:                BallConfig{X: 400, Y: 100, Radius: 25, Mass: 1},
		Bounds:              BoundsConfig{MaxX: 800, MaxY: 600},
	},
	"floaty": {
		VelocityThreshold:   20,
		FrictionCoefficient: 0.999,
		Gravity:             200,
		BounceFactor:        0.9,
		ValidateTransitions: true,
		Dt:                  DefaultDt,
		Duration:            DefaultDuration,
		Ball:                BallConfig{X: 400, Y: 300, Radius: 40, Mass: 0.5},
		Bounds:              BoundsConfig{MaxX: 800, MaxY: 600},
	},
	"ice": {
		VelocityThreshold:   5,
		FrictionCoefficient: 0.9995,
		Gravity:             0,
		BounceFactor:        0.98,
		ValidateTransitions: true,
		Dt:                  DefaultDt,
		Duration:            DefaultDuration,
		Ball:                BallConfig{X: 400, Y: 300, Radius: 25, Mass: 2},
		Bounds:              BoundsConfig{MaxX: 800, MaxY: 600},
	},
	"dead": {
		VelocityThreshold:   80,
		FrictionCoefficient: 0.9,
		Gravity:             980,
		BounceFactor:        0.2,
		ValidateTransitions: true,
		Dt:                  DefaultDt,
		Duration:            DefaultDuration,
		Ball:                BallConfig{X: 400, Y: 100, Radius: 25, Mass: 3},
		Bounds:              BoundsConfig{MaxX: 800, MaxY: 600},
	},
}

// GetPreset returns a copy of the named preset, or nil when unknown.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *p
	return &c
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
