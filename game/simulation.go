package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/config"
	"github.com/pthm-cable/meadow/genome"
	"github.com/pthm-cable/meadow/systems"
	"github.com/pthm-cable/meadow/telemetry"
)

// deadAgent carries death info collected during queries so entity
// removal and event emission happen after iteration completes.
type deadAgent struct {
	entity     ecs.Entity
	id         uint32
	generation int32
	age        float32
	cause      systems.DeathCause
}

// simulationStep advances the world by one fixed tick.
//
// Order matters: the spatial grid is rebuilt before sensing, behaviors
// run before movement, and all structural changes (offspring, food
// removal, dead agents) happen outside open queries.
func (g *Game) simulationStep() {
	cfg := config.Cfg()
	dt := cfg.Derived.DT32
	g.now = float64(g.tick) * cfg.Physics.DT

	g.rebuildSpatialGrid()
	g.sensor.Advance(g.now)
	g.repro.Advance(g.now)

	g.behavior.Update(dt)
	dead := g.updateMovementAndEnergy(dt)
	g.updateFeeding()
	g.repro.Update(g.now, g.SpawnOffspring)
	g.cleanupDead(dead)
	g.respawnToFloor()
	g.food.Update(float64(dt))
	g.flushTelemetry()
	g.logWorldState()

	g.tick++
}

// rebuildSpatialGrid reindexes all living agents and food items.
func (g *Game) rebuildSpatialGrid() {
	g.spatialGrid.Clear()

	query := g.agentFilter.Query()
	for query.Next() {
		pos, agent, _, _, _, _ := query.Get()
		if agent.Alive {
			g.spatialGrid.Insert(query.Entity(), pos.X, pos.Y)
		}
	}

	foodQuery := g.foodFilter.Query()
	for foodQuery.Next() {
		pos, _ := foodQuery.Get()
		g.spatialGrid.Insert(foodQuery.Entity(), pos.X, pos.Y)
	}
}

// updateMovementAndEnergy steps every agent's movement policy, then
// applies metabolic drain and aging. Deaths are collected, not applied.
func (g *Game) updateMovementAndEnergy(dt float32) []deadAgent {
	cfg := config.Cfg()
	speed := float32(cfg.Agent.Speed)
	params := systems.EnergyParams{
		BaseCost: float32(cfg.Agent.BaseCost),
		MoveCost: float32(cfg.Agent.MoveCost),
	}

	var dead []deadAgent

	query := g.agentFilter.Query()
	for query.Next() {
		pos, agent, _, mov, _, genes := query.Get()
		if !agent.Alive {
			continue
		}

		systems.ApplyMovement(pos, mov, speed, dt, g.worldWidth, g.worldHeight, g.rng)

		deathAge := 0.0
		if genes.Genome != nil {
			deathAge = genes.Genome.Value(genome.TraitDeathAge)
		}
		moving := mov.Kind != components.PolicyIdle
		if cause := systems.Metabolize(agent, moving, deathAge, params, dt); cause != systems.CauseNone {
			dead = append(dead, deadAgent{
				entity:     query.Entity(),
				id:         agent.ID,
				generation: agent.Generation,
				age:        agent.Age,
				cause:      cause,
			})
		}
	}
	return dead
}

// updateFeeding lets foraging agents consume their targeted food item
// when within eating range. Food entities are removed after the query.
func (g *Game) updateFeeding() {
	cfg := config.Cfg()
	eatRangeSq := float32(cfg.Agent.EatRange * cfg.Agent.EatRange)

	var eaten []ecs.Entity

	query := g.agentFilter.Query()
	for query.Next() {
		pos, agent, beh, _, _, _ := query.Get()
		if !agent.Alive || beh.State != components.StateForaging || !beh.HasTarget {
			continue
		}
		if !g.world.Alive(beh.Target) {
			beh.HasTarget = false
			continue
		}
		food := g.foodMap.Get(beh.Target)
		fpos := g.posMap.Get(beh.Target)
		if food == nil || fpos == nil {
			beh.HasTarget = false
			continue
		}
		// Another agent may have eaten it earlier this tick.
		if containsEntity(eaten, beh.Target) {
			beh.HasTarget = false
			continue
		}

		dx := fpos.X - pos.X
		dy := fpos.Y - pos.Y
		if dx*dx+dy*dy > eatRangeSq {
			continue
		}

		systems.Feed(agent, food)
		g.collector.RecordMeal()
		eaten = append(eaten, beh.Target)
		beh.HasTarget = false
	}

	for _, e := range eaten {
		g.food.Remove(e)
	}
}

func containsEntity(s []ecs.Entity, e ecs.Entity) bool {
	for _, x := range s {
		if x == e {
			return true
		}
	}
	return false
}

// cleanupDead emits death events and removes dead agent entities.
func (g *Game) cleanupDead(dead []deadAgent) {
	for _, d := range dead {
		g.log.Info("agent died",
			"id", d.id,
			"generation", d.generation,
			"age", d.age,
			"cause", d.cause.String(),
		)
		g.collector.RecordDeath(d.cause.String())
		g.emitEvent(telemetry.NewDiedEvent(g.tick, d.id, d.generation, d.age, d.cause.String()))

		// Release any mating claim before the handle goes stale; the
		// surviving partner's suspended process detects the destruction.
		g.repro.HandleDeath(d.entity)

		// Destroy the entity outright so the handle goes dead instead of
		// lingering as an alive, component-less shell.
		g.world.RemoveEntity(d.entity)
		g.aliveCount--
		g.deadCount++
	}
}

// respawnToFloor injects fresh founder-generation agents when the
// population drops below the configured floor.
func (g *Game) respawnToFloor() {
	cfg := config.Cfg()
	if g.aliveCount >= cfg.Population.MinAgents {
		return
	}
	for i := 0; i < cfg.Population.RespawnCount; i++ {
		x := g.rng.Float32() * g.worldWidth
		y := g.rng.Float32() * g.worldHeight
		g.spawnAgent(x, y, g.newGenome(), 0)
	}
	g.log.Info("population floor respawn",
		"alive", g.aliveCount,
		"respawned", cfg.Population.RespawnCount,
	)
}

// flushTelemetry emits a stats window when due.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	energies := make([]float64, 0, g.aliveCount)
	query := g.agentFilter.Query()
	for query.Next() {
		_, agent, _, _, _, _ := query.Get()
		if agent.Alive {
			energies = append(energies, float64(agent.Energy))
		}
	}

	stats := g.collector.Flush(
		g.tick,
		g.aliveCount,
		g.food.Count(),
		energies,
		g.coordinator.ActiveClaims(),
		g.repro.PendingTasks(),
		int(g.maxGeneration),
	)

	if g.output != nil {
		if err := g.output.WriteTelemetry(stats); err != nil {
			g.log.Error("writing telemetry", "error", err)
		}
	}
	if g.statsSink != nil {
		g.statsSink(stats)
	}
	if g.logStats {
		g.log.Info("window stats",
			"tick", stats.WindowEndTick,
			"population", stats.Population,
			"food", stats.FoodCount,
			"births", stats.Births,
			"deaths_starved", stats.DeathsStarved,
			"deaths_old_age", stats.DeathsOldAge,
			"energy_mean", stats.EnergyMean,
			"max_generation", stats.MaxGeneration,
		)
	}
}

// UpdateHeadless advances the simulation without rendering or input.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// Update advances the simulation for the windowed debug view. Input is
// handled once per frame; the step count follows the speed setting.
func (g *Game) Update() {
	g.handleInput()
	if g.paused {
		return
	}
	for i := 0; i < g.speed; i++ {
		g.simulationStep()
	}
}
