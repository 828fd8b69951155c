package systems

import "github.com/pthm-cable/meadow/components"

// DeathCause identifies why an agent died.
type DeathCause uint8

const (
	CauseNone DeathCause = iota
	CauseStarvation
	CauseOldAge
)

// String returns the cause name used in events and logs.
func (c DeathCause) String() string {
	switch c {
	case CauseStarvation:
		return "starvation"
	case CauseOldAge:
		return "old_age"
	default:
		return "none"
	}
}

// EnergyParams holds metabolic cost rates, per second.
type EnergyParams struct {
	BaseCost float32 // drain for existing
	MoveCost float32 // extra drain while moving
}

// Metabolize applies one tick of metabolic drain and aging.
// Returns the death cause if the agent died this tick, CauseNone
// otherwise. deathAge <= 0 disables the age limit.
func Metabolize(a *components.Agent, moving bool, deathAge float64, p EnergyParams, dt float32) DeathCause {
	cost := p.BaseCost
	if moving {
		cost += p.MoveCost
	}
	a.Energy -= cost * dt
	a.Age += dt

	if a.Energy <= 0 {
		a.Energy = 0
		a.Alive = false
		return CauseStarvation
	}
	if deathAge > 0 && float64(a.Age) >= deathAge {
		a.Alive = false
		return CauseOldAge
	}
	return CauseNone
}

// Feed transfers the food item's energy to the agent, clamped to the
// agent's capacity. Returns the energy actually gained.
func Feed(a *components.Agent, f *components.Food) float32 {
	gain := f.Energy
	if a.Energy+gain > a.MaxEnergy {
		gain = a.MaxEnergy - a.Energy
	}
	a.Energy += gain
	return gain
}
