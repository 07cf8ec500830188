// Package config provides configuration loading and access for the creature simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Stats     StatsConfig     `yaml:"stats"`
	Effects   EffectsConfig   `yaml:"effects"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Arena     ArenaConfig     `yaml:"arena"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds world-level tuning values.
type WorldConfig struct {
	TickRate int `yaml:"tick_rate"` // Update calls per simulated second

	// Speed modifiers applied by terrain, per movement capability
	WaterInWater   float64 `yaml:"water_in_water"`
	WaterInGround  float64 `yaml:"water_in_ground"`
	GroundInGround float64 `yaml:"ground_in_ground"`
	GroundInWater  float64 `yaml:"ground_in_water"`

	InvincibilityDuration     float64 `yaml:"invincibility_duration"`      // Seconds after taking damage
	DashInvincibilityDuration float64 `yaml:"dash_invincibility_duration"` // Seconds during a dash ability
}

// StatsConfig holds stat pool parameters.
type StatsConfig struct {
	RegenInterval float64 `yaml:"regen_interval"` // Seconds between energy regeneration ticks
	ExpPerTier    int     `yaml:"exp_per_tier"`   // NeededExp = (tier+1) * this
}

// EffectsConfig holds visual effect timings in seconds.
type EffectsConfig struct {
	DamageFlashDuration    float64 `yaml:"damage_flash_duration"`
	RageFlashDuration      float64 `yaml:"rage_flash_duration"`
	TransformFlashDuration float64 `yaml:"transform_flash_duration"`
	AppearFlashDuration    float64 `yaml:"appear_flash_duration"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds per stats window
}

// CatalogConfig points at species content.
type CatalogConfig struct {
	Path string `yaml:"path"` // Empty = embedded catalog
}

// ArenaConfig drives the headless encounter scenario. Chances are rolled
// once per creature per tick.
type ArenaConfig struct {
	Population       int     `yaml:"population"`        // Creatures spawned at start
	RespawnThreshold int     `yaml:"respawn_threshold"` // Respawn when fewer are alive
	RespawnCount     int     `yaml:"respawn_count"`
	PlayerFamily     string  `yaml:"player_family"` // Empty = no player-owned creature
	AttackChance     float64 `yaml:"attack_chance"`
	HealChance       float64 `yaml:"heal_chance"`
	HealAmount       int     `yaml:"heal_amount"`
	ExpChance        float64 `yaml:"exp_chance"`
	TerrainChance    float64 `yaml:"terrain_chance"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TickDuration              time.Duration
	RegenInterval             time.Duration
	InvincibilityDuration     time.Duration
	DashInvincibilityDuration time.Duration
	DamageFlashDuration       time.Duration
	RageFlashDuration         time.Duration
	TransformFlashDuration    time.Duration
	AppearFlashDuration       time.Duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Set replaces the global configuration, for tools that sweep parameters
// between runs. cfg should come from Load so derived values are filled in.
func Set(cfg *Config) {
	global = cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	if c.World.TickRate <= 0 {
		return fmt.Errorf("world.tick_rate must be positive, got %d", c.World.TickRate)
	}
	if c.Stats.RegenInterval <= 0 {
		return fmt.Errorf("stats.regen_interval must be positive, got %v", c.Stats.RegenInterval)
	}
	if c.Stats.ExpPerTier < 0 {
		return fmt.Errorf("stats.exp_per_tier must not be negative, got %d", c.Stats.ExpPerTier)
	}
	if c.Telemetry.StatsWindow <= 0 {
		return fmt.Errorf("telemetry.stats_window must be positive, got %v", c.Telemetry.StatsWindow)
	}
	chances := map[string]float64{
		"arena.attack_chance":  c.Arena.AttackChance,
		"arena.heal_chance":    c.Arena.HealChance,
		"arena.exp_chance":     c.Arena.ExpChance,
		"arena.terrain_chance": c.Arena.TerrainChance,
	}
	for name, p := range chances {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %v", name, p)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TickDuration = time.Second / time.Duration(c.World.TickRate)
	c.Derived.RegenInterval = seconds(c.Stats.RegenInterval)
	c.Derived.InvincibilityDuration = seconds(c.World.InvincibilityDuration)
	c.Derived.DashInvincibilityDuration = seconds(c.World.DashInvincibilityDuration)
	c.Derived.DamageFlashDuration = seconds(c.Effects.DamageFlashDuration)
	c.Derived.RageFlashDuration = seconds(c.Effects.RageFlashDuration)
	c.Derived.TransformFlashDuration = seconds(c.Effects.TransformFlashDuration)
	c.Derived.AppearFlashDuration = seconds(c.Effects.AppearFlashDuration)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
