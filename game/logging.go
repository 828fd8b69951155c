package game

import (
	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/config"
)

// worldLogIntervalSec spaces the periodic world-state summaries. Kept
// coarser than the stats window; this is an operator-facing heartbeat,
// not the analysis feed.
const worldLogIntervalSec = 30.0

// logWorldState writes a periodic population summary to the logger.
func (g *Game) logWorldState() {
	interval := int64(worldLogIntervalSec / config.Cfg().Physics.DT)
	if interval < 1 || g.tick == 0 || g.tick%interval != 0 {
		return
	}

	var wandering, foraging, seeking, mating int
	var minEnergy, maxEnergy, sumEnergy float32
	first := true

	query := g.agentFilter.Query()
	for query.Next() {
		_, agent, beh, _, _, _ := query.Get()
		if !agent.Alive {
			continue
		}
		switch beh.State {
		case components.StateWandering:
			wandering++
		case components.StateForaging:
			foraging++
		case components.StateSeekingMate:
			seeking++
		case components.StateMating:
			mating++
		}
		if first || agent.Energy < minEnergy {
			minEnergy = agent.Energy
		}
		if first || agent.Energy > maxEnergy {
			maxEnergy = agent.Energy
		}
		sumEnergy += agent.Energy
		first = false
	}

	avgEnergy := float32(0)
	if g.aliveCount > 0 {
		avgEnergy = sumEnergy / float32(g.aliveCount)
	}

	g.log.Info("world state",
		"tick", g.tick,
		"sim_time", g.now,
		"population", g.aliveCount,
		"dead_total", g.deadCount,
		"food", g.food.Count(),
		"wandering", wandering,
		"foraging", foraging,
		"seeking_mate", seeking,
		"mating", mating,
		"active_claims", g.coordinator.ActiveClaims(),
		"pending_matings", g.repro.PendingTasks(),
		"energy_min", minEnergy,
		"energy_avg", avgEnergy,
		"energy_max", maxEnergy,
		"max_generation", g.maxGeneration,
	)
}
