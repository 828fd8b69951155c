package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/meadow/components"
)

// WanderParams bound the randomized wander policy.
type WanderParams struct {
	TurnInterval float32 // seconds between direction changes
	TurnJitter   float32 // max heading change per turn, radians
}

// ApplyMovement advances pos one step under the agent's movement policy.
// It is the single consumer of the tagged policy variants: Idle holds
// position, Wander integrates a heading with bounded direction-change
// frequency, Seek and Follow move straight toward the target point.
// Positions are clamped to the world bounds.
func ApplyMovement(pos *components.Position, mov *components.Movement, speed, dt, worldW, worldH float32, rng *rand.Rand) {
	switch mov.Kind {
	case components.PolicyIdle:
		return

	case components.PolicyWander:
		mov.TurnTimer -= dt
		if mov.TurnTimer <= 0 {
			mov.Heading += (rng.Float32()*2 - 1) * wanderTurnJitter
			mov.TurnTimer = wanderTurnInterval * (0.5 + rng.Float32())
		}
		pos.X += float32(math.Cos(float64(mov.Heading))) * speed * dt
		pos.Y += float32(math.Sin(float64(mov.Heading))) * speed * dt

	case components.PolicySeek, components.PolicyFollow:
		dx := mov.TargetX - pos.X
		dy := mov.TargetY - pos.Y
		dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
		step := speed * dt
		if dist <= step || dist == 0 {
			pos.X = mov.TargetX
			pos.Y = mov.TargetY
		} else {
			pos.X += dx / dist * step
			pos.Y += dy / dist * step
		}
		mov.Heading = float32(math.Atan2(float64(dy), float64(dx)))
	}

	// Bounded world: clamp, no wrap.
	if pos.X < 0 {
		pos.X = 0
	} else if pos.X > worldW {
		pos.X = worldW
	}
	if pos.Y < 0 {
		pos.Y = 0
	} else if pos.Y > worldH {
		pos.Y = worldH
	}
}

// Wander defaults; overridden via SetWanderParams from config.
var (
	wanderTurnInterval float32 = 1.5
	wanderTurnJitter   float32 = 2.0
)

// SetWanderParams installs the wander policy bounds.
func SetWanderParams(p WanderParams) {
	if p.TurnInterval > 0 {
		wanderTurnInterval = p.TurnInterval
	}
	if p.TurnJitter > 0 {
		wanderTurnJitter = p.TurnJitter
	}
}
