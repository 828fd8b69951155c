package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
)

func newTestAgents(t *testing.T, n int) (*ecs.World, []ecs.Entity) {
	t.Helper()
	w := ecs.NewWorld()
	mapper := ecs.NewMap2[components.Position, components.Agent](w)

	entities := make([]ecs.Entity, n)
	for i := range entities {
		pos := components.Position{}
		agent := components.Agent{ID: uint32(i + 1), Alive: true}
		entities[i] = mapper.NewEntity(&pos, &agent)
	}
	return w, entities
}

func TestRegisterMatingSymmetric(t *testing.T) {
	_, e := newTestAgents(t, 2)
	c := NewMatingCoordinator(nil)

	if !c.RegisterMating(e[0], e[1]) {
		t.Fatal("RegisterMating failed on empty coordinator")
	}
	if !c.IsAgentMating(e[0]) || !c.IsAgentMating(e[1]) {
		t.Error("claim not symmetric")
	}
	if p, ok := c.PartnerOf(e[0]); !ok || p != e[1] {
		t.Error("PartnerOf(a) != b")
	}
	if p, ok := c.PartnerOf(e[1]); !ok || p != e[0] {
		t.Error("PartnerOf(b) != a")
	}
	if c.ActiveClaims() != 2 {
		t.Errorf("ActiveClaims = %d, want 2", c.ActiveClaims())
	}
}

func TestRegisterMatingRejectsDoubleClaim(t *testing.T) {
	_, e := newTestAgents(t, 3)
	c := NewMatingCoordinator(nil)

	if !c.RegisterMating(e[0], e[1]) {
		t.Fatal("initial claim failed")
	}

	// Neither side of an existing claim may enter a new one.
	if c.RegisterMating(e[0], e[2]) {
		t.Error("claimed agent accepted a second claim")
	}
	if c.RegisterMating(e[2], e[1]) {
		t.Error("third agent claimed an already-claimed partner")
	}

	// The rejected attempts must not disturb the original claim.
	if p, ok := c.PartnerOf(e[0]); !ok || p != e[1] {
		t.Error("original claim disturbed by rejected attempt")
	}
	if c.IsAgentMating(e[2]) {
		t.Error("rejected claimant holds a claim")
	}
}

func TestRegisterMatingRejectsSelfClaim(t *testing.T) {
	_, e := newTestAgents(t, 1)
	c := NewMatingCoordinator(nil)

	if c.RegisterMating(e[0], e[0]) {
		t.Error("self-claim accepted")
	}
	if c.IsAgentMating(e[0]) {
		t.Error("self-claim left state behind")
	}
}

func TestClearClaimRemovesBothSides(t *testing.T) {
	_, e := newTestAgents(t, 2)
	c := NewMatingCoordinator(nil)

	c.RegisterMating(e[0], e[1])
	c.ClearClaim(e[0])

	if c.IsAgentMating(e[0]) || c.IsAgentMating(e[1]) {
		t.Error("ClearClaim left a dangling side")
	}
	if c.ActiveClaims() != 0 {
		t.Errorf("ActiveClaims = %d, want 0", c.ActiveClaims())
	}
}

func TestClearClaimToleratesUnclaimed(t *testing.T) {
	_, e := newTestAgents(t, 1)
	c := NewMatingCoordinator(nil)

	// Must be safe to call for an agent with no claim.
	c.ClearClaim(e[0])

	if c.ActiveClaims() != 0 {
		t.Errorf("ActiveClaims = %d, want 0", c.ActiveClaims())
	}
}

func TestClearClaimAfterPartnerCleared(t *testing.T) {
	_, e := newTestAgents(t, 2)
	c := NewMatingCoordinator(nil)

	c.RegisterMating(e[0], e[1])
	c.ClearClaim(e[1])
	// Second clear finds no claim; dead-agent cleanup paths do this.
	c.ClearClaim(e[0])

	if c.ActiveClaims() != 0 {
		t.Errorf("ActiveClaims = %d, want 0", c.ActiveClaims())
	}
}

func TestResetDropsAllClaims(t *testing.T) {
	_, e := newTestAgents(t, 4)
	c := NewMatingCoordinator(nil)

	c.RegisterMating(e[0], e[1])
	c.RegisterMating(e[2], e[3])
	c.Reset()

	for i, agent := range e {
		if c.IsAgentMating(agent) {
			t.Errorf("agent %d still claimed after Reset", i)
		}
	}
}
