// Package components defines the ECS components of the simulation.
package components

// Position represents an entity's world position.
type Position struct {
	X, Y float32
}
