package systems

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/genome"
)

// ReproParams holds the runtime-tunable mating parameters.
type ReproParams struct {
	Proximity   float32 // max distance for mating, world units
	Duration    float64 // mating process length, seconds
	Cooldown    float64 // seconds between matings per agent
	EnergyCost  float32 // deducted from the initiator on completion
	MinEnergy   float32 // eligibility floor for both participants
	SpawnJitter float32 // max offspring offset from the midpoint
}

// OffspringSpawner creates the offspring agent at the given position.
// The spawner owns genome crossover and lifespan policy.
type OffspringSpawner func(parentA, parentB ecs.Entity, x, y float32) ecs.Entity

// matingTask is a suspended mating process. It carries entity handles,
// not component pointers, so resumption re-resolves liveness through
// the world instead of trusting a captured reference.
type matingTask struct {
	initiator ecs.Entity
	partner   ecs.Entity
	due       float64
}

// ReproductionSystem governs per-agent mating eligibility, the
// asynchronous mating process, and offspring requests.
type ReproductionSystem struct {
	world    *ecs.World
	coord    *MatingCoordinator
	posMap   *ecs.Map1[components.Position]
	agentMap *ecs.Map1[components.Agent]
	reproMap *ecs.Map1[components.Reproduction]
	genesMap *ecs.Map1[components.Genes]

	params ReproParams
	tasks  []matingTask
	now    float64
	rng    *rand.Rand
	log    *slog.Logger
}

// NewReproductionSystem creates the reproduction system.
func NewReproductionSystem(w *ecs.World, coord *MatingCoordinator, params ReproParams, rng *rand.Rand, log *slog.Logger) *ReproductionSystem {
	if log == nil {
		log = slog.Default()
	}
	return &ReproductionSystem{
		world:    w,
		coord:    coord,
		posMap:   ecs.NewMap1[components.Position](w),
		agentMap: ecs.NewMap1[components.Agent](w),
		reproMap: ecs.NewMap1[components.Reproduction](w),
		genesMap: ecs.NewMap1[components.Genes](w),
		params:   params,
		rng:      rng,
		log:      log,
	}
}

// Advance moves the system clock. Call once per tick before behaviors run.
func (s *ReproductionSystem) Advance(now float64) {
	s.now = now
}

// Params returns the active mating parameters.
func (s *ReproductionSystem) Params() ReproParams {
	return s.params
}

// PendingTasks returns the number of suspended mating processes.
func (s *ReproductionSystem) PendingTasks() int {
	return len(s.tasks)
}

// alive reports whether e still resolves to a living agent.
func (s *ReproductionSystem) alive(e ecs.Entity) bool {
	if !s.world.Alive(e) {
		return false
	}
	a := s.agentMap.Get(e)
	return a != nil && a.Alive
}

// CanMate reports mating eligibility: not currently mating, cooldown
// elapsed, enough energy, and past maturity age.
func (s *ReproductionSystem) CanMate(e ecs.Entity) bool {
	if !s.alive(e) {
		return false
	}
	r := s.reproMap.Get(e)
	a := s.agentMap.Get(e)
	if r == nil || a == nil {
		return false
	}
	if r.IsMating || s.coord.IsAgentMating(e) {
		return false
	}
	if s.now-float64(r.LastMating) < s.params.Cooldown {
		return false
	}
	if a.Energy < s.params.MinEnergy {
		return false
	}
	g := s.genesMap.Get(e)
	if g == nil || g.Genome == nil {
		return false
	}
	return float64(a.Age) >= g.Genome.Value(genome.TraitMaturityAge)
}

// CanMateWith reports whether a may initiate mating with b: both
// eligible and within mating proximity.
func (s *ReproductionSystem) CanMateWith(a, b ecs.Entity) bool {
	if !s.CanMate(a) || !s.CanMate(b) {
		return false
	}
	pa := s.posMap.Get(a)
	pb := s.posMap.Get(b)
	if pa == nil || pb == nil {
		return false
	}
	dx := pa.X - pb.X
	dy := pa.Y - pb.Y
	return dx*dx+dy*dy <= s.params.Proximity*s.params.Proximity
}

// InitiateMating starts the mating process between a and b. The
// coordinator claim is registered before either agent's state changes,
// and the partner-side acceptance runs in the same call, so no third
// agent can ever observe b as eligible between the claim and b's state
// update. Returns false without side effects when either side is
// ineligible or already claimed.
func (s *ReproductionSystem) InitiateMating(a, b ecs.Entity) bool {
	if !s.CanMateWith(a, b) {
		return false
	}
	if !s.coord.RegisterMating(a, b) {
		return false
	}

	ra := s.reproMap.Get(a)
	ra.IsMating = true
	ra.Partner = b
	ra.HasPartner = true

	s.acceptMating(b, a)

	s.tasks = append(s.tasks, matingTask{initiator: a, partner: b, due: s.now + s.params.Duration})

	s.log.Info("mating started",
		"initiator", s.agentID(a),
		"partner", s.agentID(b),
		"completes_at", s.now+s.params.Duration,
	)
	return true
}

// acceptMating is the partner-side entry point: the initiator already
// validated proximity and eligibility. Unlike the trust-the-initiator
// shortcut, the coordinator claim is mandatory here too — it was
// registered for both sides before this runs.
func (s *ReproductionSystem) acceptMating(agent, initiator ecs.Entity) {
	r := s.reproMap.Get(agent)
	if r == nil {
		return
	}
	r.IsMating = true
	r.Partner = initiator
	r.HasPartner = true
}

// Update resumes due mating processes. Resumption re-validates both
// participants' continued existence before producing effects; a partner
// destroyed mid-process aborts without offspring and without error, and
// the surviving agent's state is still reset.
func (s *ReproductionSystem) Update(now float64, spawn OffspringSpawner) {
	s.now = now

	remaining := s.tasks[:0]
	for _, t := range s.tasks {
		if t.due > now {
			remaining = append(remaining, t)
			continue
		}
		s.complete(t, spawn)
	}
	s.tasks = remaining
}

// complete resolves one due mating task.
func (s *ReproductionSystem) complete(t matingTask, spawn OffspringSpawner) {
	aAlive := s.alive(t.initiator)
	bAlive := s.alive(t.partner)

	switch {
	case aAlive && bAlive:
		ea := s.agentMap.Get(t.initiator)
		eb := s.agentMap.Get(t.partner)
		if ea.Energy >= s.params.EnergyCost && eb.Energy >= s.params.MinEnergy {
			ea.Energy -= s.params.EnergyCost

			pa := s.posMap.Get(t.initiator)
			pb := s.posMap.Get(t.partner)
			x := (pa.X + pb.X) / 2
			y := (pa.Y + pb.Y) / 2
			x += (s.rng.Float32()*2 - 1) * s.params.SpawnJitter
			y += (s.rng.Float32()*2 - 1) * s.params.SpawnJitter

			if spawn != nil {
				spawn(t.initiator, t.partner, x, y)
			}
		} else {
			s.log.Info("mating aborted: insufficient energy",
				"initiator", s.agentID(t.initiator),
				"partner", s.agentID(t.partner),
			)
		}
	default:
		s.log.Info("mating aborted: partner destroyed",
			"initiator_alive", aAlive,
			"partner_alive", bAlive,
		)
	}

	// Both sides reset no matter the outcome; a destroyed side simply
	// has no state left to reset.
	if aAlive {
		s.ResetMatingState(t.initiator)
	}
	if bAlive {
		s.ResetMatingState(t.partner)
	}
	s.coord.ClearClaim(t.initiator)
	s.coord.ClearClaim(t.partner)
}

// ResetMatingState returns the agent to Idle with the cooldown clock
// restarted, and drops its coordinator claim.
func (s *ReproductionSystem) ResetMatingState(e ecs.Entity) {
	if r := s.reproMap.Get(e); r != nil {
		r.IsMating = false
		r.HasPartner = false
		r.LastMating = float32(s.now)
	}
	s.coord.ClearClaim(e)
}

// HandleDeath releases any claim the destroyed agent held. The partner
// keeps its state until the suspended process resumes and detects the
// destruction; its partner handle is already invalid in the registry.
func (s *ReproductionSystem) HandleDeath(e ecs.Entity) {
	s.coord.ClearClaim(e)
}

// agentID returns the logging id for e, tolerating dead entities.
func (s *ReproductionSystem) agentID(e ecs.Entity) uint32 {
	if s.world.Alive(e) {
		if a := s.agentMap.Get(e); a != nil {
			return a.ID
		}
	}
	return 0
}
