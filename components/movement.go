package components

// PolicyKind tags the movement policy variant.
type PolicyKind uint8

const (
	PolicyIdle PolicyKind = iota
	PolicyWander
	PolicySeek
	PolicyFollow
)

// Movement is the tagged-variant movement policy consumed by the
// movement step function. Behaviors set Kind and target coordinates;
// the step function owns heading integration.
type Movement struct {
	Kind PolicyKind

	// Seek/Follow destination in world coordinates, refreshed each tick
	// by the behavior that set the policy.
	TargetX, TargetY float32

	// Wander state
	Heading   float32 // radians
	TurnTimer float32 // seconds until the next direction change
}
