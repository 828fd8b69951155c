// Package game wires the simulation world, systems, and telemetry.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/config"
	"github.com/pthm-cable/meadow/systems"
	"github.com/pthm-cable/meadow/telemetry"
)

// Options configures a simulation run.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	EventLogPath   string // zstd JSONL event log ("" = disabled)
	EventDBPath    string // sqlite event store ("" = disabled)
	StepsPerUpdate int
}

// Game holds the complete simulation state.
type Game struct {
	world *ecs.World
	rng   *rand.Rand
	log   *slog.Logger

	// Entity mappers - the 6 components every agent carries
	agentMapper *ecs.Map6[
		components.Position,
		components.Agent,
		components.Behavior,
		components.Movement,
		components.Reproduction,
		components.Genes,
	]
	agentFilter *ecs.Filter6[
		components.Position,
		components.Agent,
		components.Behavior,
		components.Movement,
		components.Reproduction,
		components.Genes,
	]

	foodFilter *ecs.Filter2[components.Position, components.Food]

	// Individual component mappers for lookups
	posMap   *ecs.Map1[components.Position]
	agentMap *ecs.Map1[components.Agent]
	genesMap *ecs.Map1[components.Genes]
	foodMap  *ecs.Map1[components.Food]

	// Systems
	spatialGrid *systems.SpatialGrid
	sensor      *systems.Sensor
	coordinator *systems.MatingCoordinator
	repro       *systems.ReproductionSystem
	behavior    *systems.BehaviorSystem
	food        *systems.FoodSystem

	// Telemetry
	collector  *telemetry.Collector
	output     *telemetry.OutputManager
	eventLog   *telemetry.JSONLZstdWriter
	eventStore *telemetry.EventStore
	statsSink  func(telemetry.WindowStats) // live observer hook, may be nil

	// State
	tick           int64
	now            float64
	nextID         uint32
	aliveCount     int
	deadCount      int
	maxGeneration  int32
	paused         bool
	speed          int // simulation speed multiplier in windowed mode
	stepsPerUpdate int // headless ticks per update call
	logStats       bool

	worldWidth, worldHeight float32
}

// NewGameWithOptions creates a simulation instance. Requires config.Init.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()
	world := ecs.NewWorld()
	log := slog.Default()

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}

	g := &Game{
		world:          world,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		log:            log,
		speed:          1,
		stepsPerUpdate: stepsPerUpdate,
		logStats:       opts.LogStats,
		worldWidth:     cfg.Derived.WorldW32,
		worldHeight:    cfg.Derived.WorldH32,
		agentMapper: ecs.NewMap6[
			components.Position,
			components.Agent,
			components.Behavior,
			components.Movement,
			components.Reproduction,
			components.Genes,
		](world),
		agentFilter: ecs.NewFilter6[
			components.Position,
			components.Agent,
			components.Behavior,
			components.Movement,
			components.Reproduction,
			components.Genes,
		](world),
		foodFilter: ecs.NewFilter2[components.Position, components.Food](world),
		posMap:     ecs.NewMap1[components.Position](world),
		agentMap:   ecs.NewMap1[components.Agent](world),
		genesMap:   ecs.NewMap1[components.Genes](world),
		foodMap:    ecs.NewMap1[components.Food](world),
	}

	systems.SetWanderParams(systems.WanderParams{
		TurnInterval: float32(cfg.Wander.TurnInterval),
		TurnJitter:   float32(cfg.Wander.TurnJitter),
	})

	g.spatialGrid = systems.NewSpatialGrid(g.worldWidth, g.worldHeight, float32(cfg.Physics.GridCellSize))
	g.sensor = systems.NewSensor(world, g.spatialGrid, g.posMap, cfg.Sensor.CacheTTL, float32(cfg.Sensor.CacheMoveThreshold))
	g.coordinator = systems.NewMatingCoordinator(log)

	g.repro = systems.NewReproductionSystem(world, g.coordinator, systems.ReproParams{
		Proximity:   float32(cfg.Mating.Proximity),
		Duration:    cfg.Mating.Duration,
		Cooldown:    cfg.Mating.Cooldown,
		EnergyCost:  float32(cfg.Mating.EnergyCost),
		MinEnergy:   float32(cfg.Mating.MinEnergy),
		SpawnJitter: float32(cfg.Mating.SpawnJitter),
	}, g.rng, log)

	g.behavior = systems.NewBehaviorSystem(world, g.sensor, g.coordinator, g.repro, systems.BehaviorParams{
		DetectionRange: float32(cfg.Mating.DetectionRange),
		TimeoutMargin:  cfg.Mating.TimeoutMargin,
	}, log)

	g.food = systems.NewFoodSystem(world,
		cfg.Food.Count,
		float32(cfg.Food.Energy),
		cfg.Food.RespawnInterval,
		g.worldWidth, g.worldHeight,
		g.rng,
	)

	// Telemetry
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Derived.DT32)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			log.Error("output disabled", "error", err)
		} else {
			g.output = om
			if err := om.WriteConfig(cfg); err != nil {
				log.Error("writing config snapshot", "error", err)
			}
		}
	}
	if opts.EventLogPath != "" {
		el, err := telemetry.NewJSONLZstdWriter(opts.EventLogPath)
		if err != nil {
			log.Error("event log disabled", "error", err)
		} else {
			g.eventLog = el
		}
	}
	if opts.EventDBPath != "" {
		es, err := telemetry.OpenEventStore(opts.EventDBPath)
		if err != nil {
			log.Error("event store disabled", "error", err)
		} else {
			g.eventStore = es
		}
	}

	// Seed the world
	g.food.Seed()
	g.spawnInitialPopulation()

	return g
}

// SetStatsSink installs a consumer for flushed window stats (e.g. the
// websocket broadcaster).
func (g *Game) SetStatsSink(sink func(telemetry.WindowStats)) {
	g.statsSink = sink
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 {
	return g.tick
}

// AliveCount returns the number of living agents.
func (g *Game) AliveCount() int {
	return g.aliveCount
}

// Unload releases telemetry resources.
func (g *Game) Unload() {
	if g.output != nil {
		if err := g.output.Close(); err != nil {
			g.log.Error("closing output", "error", err)
		}
	}
	if g.eventLog != nil {
		if err := g.eventLog.Close(); err != nil {
			g.log.Error("closing event log", "error", err)
		}
	}
	if g.eventStore != nil {
		if err := g.eventStore.Close(); err != nil {
			g.log.Error("closing event store", "error", err)
		}
	}
}
