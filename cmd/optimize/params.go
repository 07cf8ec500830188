package main

import (
	"math"

	"github.com/pthm-cable/mon/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the arena encounter parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "attack_chance", Path: "arena.attack_chance", Min: 0.002, Max: 0.08, Default: 0.02},
			{Name: "heal_chance", Path: "arena.heal_chance", Min: 0.0005, Max: 0.03, Default: 0.005},
			{Name: "heal_amount", Path: "arena.heal_amount", Min: 1, Max: 12, Default: 4},
			{Name: "exp_chance", Path: "arena.exp_chance", Min: 0.001, Max: 0.05, Default: 0.01},
			{Name: "terrain_chance", Path: "arena.terrain_chance", Min: 0, Max: 0.02, Default: 0.005},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg. Order matches Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Arena.AttackChance = clamped[0]
	cfg.Arena.HealChance = clamped[1]
	cfg.Arena.HealAmount = int(math.Round(clamped[2]))
	cfg.Arena.ExpChance = clamped[3]
	cfg.Arena.TerrainChance = clamped[4]
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Arena.AttackChance,
		cfg.Arena.HealChance,
		float64(cfg.Arena.HealAmount),
		cfg.Arena.ExpChance,
		cfg.Arena.TerrainChance,
	}
}
