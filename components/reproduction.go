package components

import "github.com/mlange-42/ark/ecs"

// Reproduction holds per-agent mating state.
// Invariant: IsMating implies HasPartner.
type Reproduction struct {
	IsMating   bool
	LastMating float32 // sim-seconds of last mating end (negative = never)

	// Partner is a weak handle into the world; a destroyed partner
	// simply fails the liveness lookup.
	Partner    ecs.Entity
	HasPartner bool
}
