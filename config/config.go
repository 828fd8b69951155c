// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Population PopulationConfig `yaml:"population"`
	Agent      AgentConfig      `yaml:"agent"`
	Mating     MatingConfig     `yaml:"mating"`
	Genetics   GeneticsConfig   `yaml:"genetics"`
	Sensor     SensorConfig     `yaml:"sensor"`
	Food       FoodConfig       `yaml:"food"`
	Wander     WanderConfig     `yaml:"wander"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the windowed debug view.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the bounded world dimensions in world units.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig holds tick parameters.
type PhysicsConfig struct {
	DT           float64 `yaml:"dt"`
	GridCellSize float64 `yaml:"grid_cell_size"`
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	Initial      int `yaml:"initial"`
	MaxAgents    int `yaml:"max_agents"`
	MinAgents    int `yaml:"min_agents"`    // respawn floor
	RespawnCount int `yaml:"respawn_count"` // agents spawned when below the floor
}

// AgentConfig holds agent creation and metabolism parameters.
type AgentConfig struct {
	InitialEnergy float64 `yaml:"initial_energy"`
	MaxEnergy     float64 `yaml:"max_energy"`
	Speed         float64 `yaml:"speed"`     // world units per second
	BaseCost      float64 `yaml:"base_cost"` // energy drain per second for existing
	MoveCost      float64 `yaml:"move_cost"` // extra drain per second while moving
	EatRange      float64 `yaml:"eat_range"` // distance at which food is consumed
}

// MatingConfig holds the runtime-tunable mating parameters.
type MatingConfig struct {
	Proximity      float64 `yaml:"proximity"`       // world units
	Duration       float64 `yaml:"duration"`        // seconds
	Cooldown       float64 `yaml:"cooldown"`        // seconds
	EnergyCost     float64 `yaml:"energy_cost"`     // deducted from the initiator
	MinEnergy      float64 `yaml:"min_energy"`      // eligibility floor
	DetectionRange float64 `yaml:"detection_range"` // mate/food sensing radius
	TimeoutMargin  float64 `yaml:"timeout_margin"`  // defensive timeout past duration
	SpawnJitter    float64 `yaml:"spawn_jitter"`    // offspring offset from midpoint
}

// GeneticsConfig holds trait seeding and inheritance parameters.
type GeneticsConfig struct {
	DeathAgeMin    float64 `yaml:"death_age_min"`
	DeathAgeMax    float64 `yaml:"death_age_max"`
	MaturityAgeMin float64 `yaml:"maturity_age_min"`
	MaturityAgeMax float64 `yaml:"maturity_age_max"`
	MutationRate   float64 `yaml:"mutation_rate"`
	MutationAmount float64 `yaml:"mutation_amount"`

	// MutateOffspring enables per-trait mutation during crossover.
	MutateOffspring bool `yaml:"mutate_offspring"`

	// LifespanOverride re-rolls death/maturity age from the configured
	// ranges after crossover instead of keeping the inherited values.
	// Explicit policy switch; both behaviors are valid.
	LifespanOverride bool `yaml:"lifespan_override"`

	// FurTrait registers the optional fur_amount trait on new genomes.
	FurTrait bool `yaml:"fur_trait"`
}

// SensorConfig holds spatial query cache parameters.
type SensorConfig struct {
	CacheTTL           float64 `yaml:"cache_ttl"`            // seconds; 0 disables the cache
	CacheMoveThreshold float64 `yaml:"cache_move_threshold"` // world units
}

// FoodConfig holds food field parameters.
type FoodConfig struct {
	Count           int     `yaml:"count"`
	Energy          float64 `yaml:"energy"`
	RespawnInterval float64 `yaml:"respawn_interval"` // seconds per respawned item
}

// WanderConfig bounds the randomized wander policy.
type WanderConfig struct {
	TurnInterval float64 `yaml:"turn_interval"` // seconds between direction changes
	TurnJitter   float64 `yaml:"turn_jitter"`   // max heading change, radians
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32     float32 // Physics.DT as float32
	WorldW32 float32 // world width as float32
	WorldH32 float32 // world height as float32
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

// MustInit is Init that panics on error, for tests and tools.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(err)
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.WorldW32 = float32(c.World.Width)
	c.Derived.WorldH32 = float32(c.World.Height)
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
