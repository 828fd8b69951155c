package components

import "github.com/mlange-42/ark/ecs"

// BehaviorState identifies the agent's active behavior.
type BehaviorState uint8

const (
	StateWandering BehaviorState = iota
	StateForaging
	StateSeekingMate
	StateMating
)

// String returns a human-readable state name.
func (s BehaviorState) String() string {
	switch s {
	case StateWandering:
		return "Wandering"
	case StateForaging:
		return "Foraging"
	case StateSeekingMate:
		return "SeekingMate"
	case StateMating:
		return "Mating"
	default:
		return "Unknown"
	}
}

// Behavior holds the agent-owned behavior state machine.
// Transitions are agent-local decisions; only mating completion or
// timeout forces one externally.
type Behavior struct {
	State     BehaviorState
	StateTime float32 // seconds in the current state

	// Current steering target (food or mate candidate). Weak handle:
	// liveness is re-checked through the world each tick.
	Target    ecs.Entity
	HasTarget bool
}
