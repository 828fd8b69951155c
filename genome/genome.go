// Package genome defines heritable agent traits and their crossover.
package genome

import "math/rand"

// Names of the traits every agent genome carries by convention.
// The trait set is otherwise open: traits registered on one parent
// survive crossover even if the other parent lacks them.
const (
	TraitDeathAge    = "death_age"
	TraitMaturityAge = "maturity_age"
	TraitFurAmount   = "fur_amount"
)

// Trait is a single bounded, mutable value.
// Invariant: Value stays within [Min, Max].
type Trait struct {
	Value          float64
	Min            float64
	Max            float64
	MutationRate   float64 // probability a mutation is applied on inheritance
	MutationAmount float64 // mutation magnitude as a fraction of (Max - Min)
}

// Clamped returns the trait with Value forced into [Min, Max].
func (t Trait) Clamped() Trait {
	if t.Value < t.Min {
		t.Value = t.Min
	} else if t.Value > t.Max {
		t.Value = t.Max
	}
	return t
}

// mutated applies one independent Bernoulli mutation roll to the trait.
func (t Trait) mutated(rng *rand.Rand) Trait {
	if rng.Float64() >= t.MutationRate {
		return t
	}
	span := t.Max - t.Min
	t.Value += (rng.Float64()*2 - 1) * t.MutationAmount * span
	return t.Clamped()
}

// Genome is an ordered set of named traits.
// Iteration follows insertion order so crossover and logging are stable.
type Genome struct {
	names  []string
	traits map[string]Trait
}

// New creates an empty genome.
func New() *Genome {
	return &Genome{traits: make(map[string]Trait)}
}

// Set registers or replaces a trait, clamping its value into bounds.
func (g *Genome) Set(name string, t Trait) {
	if _, ok := g.traits[name]; !ok {
		g.names = append(g.names, name)
	}
	g.traits[name] = t.Clamped()
}

// Get returns the named trait.
func (g *Genome) Get(name string) (Trait, bool) {
	t, ok := g.traits[name]
	return t, ok
}

// Value returns the named trait's value, or 0 if the trait is absent.
func (g *Genome) Value(name string) float64 {
	return g.traits[name].Value
}

// Has reports whether the genome defines the named trait.
func (g *Genome) Has(name string) bool {
	_, ok := g.traits[name]
	return ok
}

// Names returns the trait names in insertion order.
func (g *Genome) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Len returns the number of traits.
func (g *Genome) Len() int {
	return len(g.names)
}

// Clone returns a deep copy. Traits are values, so copying the map
// suffices; the child never aliases parent trait storage.
func (g *Genome) Clone() *Genome {
	c := &Genome{
		names:  make([]string, len(g.names)),
		traits: make(map[string]Trait, len(g.traits)),
	}
	copy(c.names, g.names)
	for k, v := range g.traits {
		c.traits[k] = v
	}
	return c
}

// Combine produces a child genome from g and other.
// For every trait g defines, the child inherits one parent's trait with
// 50% probability when both define it; traits unique to either parent
// are carried over unchanged. When mutate is true every inherited trait
// rolls its own mutation independently.
func (g *Genome) Combine(other *Genome, mutate bool, rng *rand.Rand) *Genome {
	child := New()

	for _, name := range g.names {
		t := g.traits[name]
		if ot, ok := other.traits[name]; ok && rng.Float64() < 0.5 {
			t = ot
		}
		if mutate {
			t = t.mutated(rng)
		}
		child.Set(name, t)
	}

	// Traits only the other parent carries survive crossover.
	for _, name := range other.names {
		if child.Has(name) {
			continue
		}
		t := other.traits[name]
		if mutate {
			t = t.mutated(rng)
		}
		child.Set(name, t)
	}

	return child
}
