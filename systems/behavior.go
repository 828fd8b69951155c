package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
)

// BehaviorParams holds the tunables of the behavior selector.
type BehaviorParams struct {
	DetectionRange float32 // sensing radius for mates and food
	TimeoutMargin  float64 // extra seconds past mating duration before forcing a reset
}

// BehaviorSystem is the top-level per-agent state machine. Each tick it
// asks the reproduction capability, the sensor, and the movement policy
// what to do, in priority order: mate > seek mate > forage > wander.
type BehaviorSystem struct {
	world  *ecs.World
	filter *ecs.Filter5[components.Position, components.Agent, components.Behavior, components.Movement, components.Reproduction]

	sensor  *Sensor
	coord   *MatingCoordinator
	repro   *ReproductionSystem
	posMap  *ecs.Map1[components.Position]
	foodMap *ecs.Map1[components.Food]

	params   BehaviorParams
	log      *slog.Logger
	degraded bool // a collaborator was missing at init: wander-only mode
}

// NewBehaviorSystem creates the behavior selector. A missing sensor,
// coordinator, or reproduction system is surfaced once as a startup
// diagnostic, after which agents degrade to wandering only.
func NewBehaviorSystem(w *ecs.World, sensor *Sensor, coord *MatingCoordinator, repro *ReproductionSystem, params BehaviorParams, log *slog.Logger) *BehaviorSystem {
	if log == nil {
		log = slog.Default()
	}
	s := &BehaviorSystem{
		world:   w,
		filter:  ecs.NewFilter5[components.Position, components.Agent, components.Behavior, components.Movement, components.Reproduction](w),
		sensor:  sensor,
		coord:   coord,
		repro:   repro,
		posMap:  ecs.NewMap1[components.Position](w),
		foodMap: ecs.NewMap1[components.Food](w),
		params:  params,
		log:     log,
	}
	if sensor == nil || coord == nil || repro == nil {
		log.Error("behavior selector missing collaborator, degrading to wander-only",
			"sensor", sensor != nil, "coordinator", coord != nil, "reproduction", repro != nil)
		s.degraded = true
	}
	return s
}

// Update advances every agent's behavior state machine by one tick.
func (s *BehaviorSystem) Update(dt float32) {
	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, agent, beh, mov, repro := query.Get()

		if !agent.Alive {
			continue
		}
		beh.StateTime += dt

		// Priority 1: currently mating. Stand still and wait for the
		// process to resume. A defensive timeout longer than the mating
		// duration forces a return to wandering if the completion
		// signal is ever missed.
		if repro.IsMating {
			if beh.State != components.StateMating {
				s.transition(beh, components.StateMating)
			}
			mov.Kind = components.PolicyIdle
			if float64(beh.StateTime) > s.repro.Params().Duration+s.params.TimeoutMargin {
				s.log.Warn("mating completion missed, forcing wander", "agent", agent.ID)
				s.repro.ResetMatingState(entity)
				s.transition(beh, components.StateWandering)
				mov.Kind = components.PolicyWander
			}
			continue
		}

		if s.degraded {
			s.transition(beh, components.StateWandering)
			mov.Kind = components.PolicyWander
			continue
		}

		// Priority 2: a qualifying mate in detection range.
		if s.repro.CanMate(entity) {
			if mate, ok := s.sensor.FindNearest(entity, pos.X, pos.Y, s.params.DetectionRange, "mate", s.mateMatch); ok {
				if s.steerToMate(entity, mate, beh, mov) {
					continue
				}
			}
		}

		// Priority 3: food in detection range.
		if food, ok := s.sensor.FindNearest(entity, pos.X, pos.Y, s.params.DetectionRange, "food", s.foodMatch); ok {
			if fpos := s.posMap.Get(food); fpos != nil {
				s.transition(beh, components.StateForaging)
				beh.Target = food
				beh.HasTarget = true
				mov.Kind = components.PolicySeek
				mov.TargetX = fpos.X
				mov.TargetY = fpos.Y
				continue
			}
		}

		// Priority 4: wander.
		s.transition(beh, components.StateWandering)
		beh.HasTarget = false
		mov.Kind = components.PolicyWander
	}
}

// steerToMate requests mating when in proximity, otherwise moves toward
// the candidate. Returns false if the candidate's position is stale.
func (s *BehaviorSystem) steerToMate(entity, mate ecs.Entity, beh *components.Behavior, mov *components.Movement) bool {
	mpos := s.posMap.Get(mate)
	pos := s.posMap.Get(entity)
	if mpos == nil || pos == nil {
		return false
	}

	dx := mpos.X - pos.X
	dy := mpos.Y - pos.Y
	prox := s.repro.Params().Proximity
	if dx*dx+dy*dy <= prox*prox {
		if s.repro.InitiateMating(entity, mate) {
			s.transition(beh, components.StateMating)
			beh.Target = mate
			beh.HasTarget = true
			mov.Kind = components.PolicyIdle
			return true
		}
		// Claim lost to another agent this tick; fall through to seek.
	}

	s.transition(beh, components.StateSeekingMate)
	beh.Target = mate
	beh.HasTarget = true
	mov.Kind = components.PolicyFollow
	mov.TargetX = mpos.X
	mov.TargetY = mpos.Y
	return true
}

// mateMatch accepts eligible, unclaimed agents. Eligibility covers
// cooldown, energy, maturity, and the coordinator's claim map.
func (s *BehaviorSystem) mateMatch(e ecs.Entity) bool {
	return s.repro.CanMate(e)
}

// foodMatch accepts food entities.
func (s *BehaviorSystem) foodMatch(e ecs.Entity) bool {
	return s.foodMap.Get(e) != nil
}

// transition switches states and resets the state clock.
func (s *BehaviorSystem) transition(beh *components.Behavior, state components.BehaviorState) {
	if beh.State != state {
		beh.State = state
		beh.StateTime = 0
	}
}
