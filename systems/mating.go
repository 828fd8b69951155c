package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"
)

// MatingCoordinator is the process-wide source of truth for who is
// mating with whom. It exists to enforce at-most-one-claim-per-agent:
// claims are symmetric (a claims b implies b claims a) and both sides
// are always added and removed together. Constructed per simulation run
// and injected where needed, never a lazy global.
type MatingCoordinator struct {
	claims map[ecs.Entity]ecs.Entity
	log    *slog.Logger
}

// NewMatingCoordinator creates an empty coordinator.
func NewMatingCoordinator(log *slog.Logger) *MatingCoordinator {
	if log == nil {
		log = slog.Default()
	}
	return &MatingCoordinator{
		claims: make(map[ecs.Entity]ecs.Entity),
		log:    log,
	}
}

// RegisterMating creates the symmetric claim {a↦b, b↦a}.
// If either side already holds a claim the call is a no-op with a
// diagnostic notice, never an error: a double claim is the invariant
// violation this component exists to absorb.
func (c *MatingCoordinator) RegisterMating(a, b ecs.Entity) bool {
	if a == b {
		c.log.Warn("mating claim rejected: self-claim", "agent", a.ID())
		return false
	}
	if p, ok := c.claims[a]; ok {
		c.log.Warn("mating claim rejected: already claimed", "agent", a.ID(), "partner", p.ID())
		return false
	}
	if p, ok := c.claims[b]; ok {
		c.log.Warn("mating claim rejected: partner already claimed", "agent", b.ID(), "partner", p.ID())
		return false
	}
	c.claims[a] = b
	c.claims[b] = a
	return true
}

// IsAgentMating reports whether the agent holds an active claim.
func (c *MatingCoordinator) IsAgentMating(a ecs.Entity) bool {
	_, ok := c.claims[a]
	return ok
}

// PartnerOf returns the agent's claimed partner.
func (c *MatingCoordinator) PartnerOf(a ecs.Entity) (ecs.Entity, bool) {
	p, ok := c.claims[a]
	return p, ok
}

// ClearClaim removes the agent's claim and the reciprocal claim on its
// partner. Tolerates an agent with no claim and a partner that has
// already been destroyed; safe to call from dead-agent cleanup paths.
func (c *MatingCoordinator) ClearClaim(a ecs.Entity) {
	p, ok := c.claims[a]
	if !ok {
		return
	}
	delete(c.claims, a)
	if rp, ok := c.claims[p]; ok && rp == a {
		delete(c.claims, p)
	}
}

// ActiveClaims returns the number of agents holding a claim.
func (c *MatingCoordinator) ActiveClaims() int {
	return len(c.claims)
}

// Reset drops all claims, for reuse between simulation runs.
func (c *MatingCoordinator) Reset() {
	clear(c.claims)
}
