package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/config"
	"github.com/pthm-cable/meadow/genome"
	"github.com/pthm-cable/meadow/telemetry"
)

// newGenome seeds a founder genome from the configured trait ranges.
func (g *Game) newGenome() *genome.Genome {
	cfg := config.Cfg().Genetics

	gen := genome.New()
	gen.Set(genome.TraitDeathAge, genome.Trait{
		Value:          cfg.DeathAgeMin + g.rng.Float64()*(cfg.DeathAgeMax-cfg.DeathAgeMin),
		Min:            cfg.DeathAgeMin,
		Max:            cfg.DeathAgeMax,
		MutationRate:   cfg.MutationRate,
		MutationAmount: cfg.MutationAmount,
	})
	gen.Set(genome.TraitMaturityAge, genome.Trait{
		Value:          cfg.MaturityAgeMin + g.rng.Float64()*(cfg.MaturityAgeMax-cfg.MaturityAgeMin),
		Min:            cfg.MaturityAgeMin,
		Max:            cfg.MaturityAgeMax,
		MutationRate:   cfg.MutationRate,
		MutationAmount: cfg.MutationAmount,
	})
	if cfg.FurTrait {
		gen.Set(genome.TraitFurAmount, genome.Trait{
			Value:          g.rng.Float64(),
			Min:            0,
			Max:            1,
			MutationRate:   cfg.MutationRate,
			MutationAmount: cfg.MutationAmount,
		})
	}
	return gen
}

// spawnAgent creates one agent entity and emits its born event.
// LastMating starts at -cooldown so fresh agents are immediately
// eligible once mature.
func (g *Game) spawnAgent(x, y float32, gen *genome.Genome, generation int32) ecs.Entity {
	cfg := config.Cfg()

	g.nextID++
	id := g.nextID

	pos := components.Position{X: x, Y: y}
	agent := components.Agent{
		ID:         id,
		Generation: generation,
		Energy:     float32(cfg.Agent.InitialEnergy),
		MaxEnergy:  float32(cfg.Agent.MaxEnergy),
		Alive:      true,
	}
	beh := components.Behavior{State: components.StateWandering}
	mov := components.Movement{
		Kind:    components.PolicyWander,
		Heading: g.rng.Float32() * 2 * 3.14159265,
	}
	repro := components.Reproduction{
		LastMating: -float32(cfg.Mating.Cooldown),
	}
	genes := components.Genes{Genome: gen}

	e := g.agentMapper.NewEntity(&pos, &agent, &beh, &mov, &repro, &genes)
	g.aliveCount++
	if generation > g.maxGeneration {
		g.maxGeneration = generation
	}

	g.collector.RecordBirth()
	g.emitEvent(telemetry.NewBornEvent(g.tick, id, generation))
	return e
}

// spawnInitialPopulation scatters the founding generation.
func (g *Game) spawnInitialPopulation() {
	cfg := config.Cfg()
	for i := 0; i < cfg.Population.Initial; i++ {
		x := g.rng.Float32() * g.worldWidth
		y := g.rng.Float32() * g.worldHeight
		g.spawnAgent(x, y, g.newGenome(), 0)
	}
	g.log.Info("initial population spawned", "count", cfg.Population.Initial)
}

// SpawnOffspring creates a child from two parents at (x, y). Satisfies
// the reproduction system's spawner contract. Returns the zero entity
// when the population cap is reached or a parent's genome is missing.
func (g *Game) SpawnOffspring(parentA, parentB ecs.Entity, x, y float32) ecs.Entity {
	cfg := config.Cfg()
	if g.aliveCount >= cfg.Population.MaxAgents {
		g.log.Info("offspring suppressed: population cap", "alive", g.aliveCount)
		return ecs.Entity{}
	}

	ga := g.genesMapGet(parentA)
	gb := g.genesMapGet(parentB)
	if ga == nil || gb == nil {
		return ecs.Entity{}
	}

	child := ga.Combine(gb, cfg.Genetics.MutateOffspring, g.rng)

	// Lifespan policy: either inherit death/maturity age through
	// crossover, or re-roll them from the configured ranges.
	if cfg.Genetics.LifespanOverride {
		fresh := g.newGenome()
		if t, ok := fresh.Get(genome.TraitDeathAge); ok {
			child.Set(genome.TraitDeathAge, t)
		}
		if t, ok := fresh.Get(genome.TraitMaturityAge); ok {
			child.Set(genome.TraitMaturityAge, t)
		}
	}

	generation := g.agentGeneration(parentA)
	if genB := g.agentGeneration(parentB); genB > generation {
		generation = genB
	}

	x = clamp32(x, 0, g.worldWidth)
	y = clamp32(y, 0, g.worldHeight)
	return g.spawnAgent(x, y, child, generation+1)
}

// genesMapGet resolves a parent's genome, tolerating destroyed parents.
func (g *Game) genesMapGet(e ecs.Entity) *genome.Genome {
	if !g.world.Alive(e) {
		return nil
	}
	genes := g.genesMap.Get(e)
	if genes == nil {
		return nil
	}
	return genes.Genome
}

// agentGeneration returns the parent's generation, or 0 if destroyed.
func (g *Game) agentGeneration(e ecs.Entity) int32 {
	if !g.world.Alive(e) {
		return 0
	}
	if a := g.agentMap.Get(e); a != nil {
		return a.Generation
	}
	return 0
}

// emitEvent fans one lifecycle event out to the configured sinks.
func (g *Game) emitEvent(e telemetry.Event) {
	if g.eventLog != nil {
		if err := g.eventLog.Write(e); err != nil {
			g.log.Error("writing event log", "error", err)
		}
	}
	if g.eventStore != nil {
		if err := g.eventStore.Record(e); err != nil {
			g.log.Error("recording event", "error", err)
		}
	}
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
