package genome

import (
	"math/rand"
	"testing"
)

func testTrait(value float64) Trait {
	return Trait{Value: value, Min: 0, Max: 100, MutationRate: 0.15, MutationAmount: 0.1}
}

func TestSetClampsValue(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"below min", -5, 0},
		{"above max", 150, 100},
		{"in range", 42, 42},
		{"at min", 0, 0},
		{"at max", 100, 100},
	}

	for _, tt := range tests {
		g := New()
		g.Set("trait", testTrait(tt.value))
		if got := g.Value("trait"); got != tt.want {
			t.Errorf("%s: Value = %f, want %f", tt.name, got, tt.want)
		}
	}
}

func TestValueAbsentTrait(t *testing.T) {
	g := New()
	if got := g.Value("missing"); got != 0 {
		t.Errorf("Value of absent trait = %f, want 0", got)
	}
	if g.Has("missing") {
		t.Error("Has reported an absent trait")
	}
}

func TestNamesInsertionOrder(t *testing.T) {
	g := New()
	g.Set("c", testTrait(1))
	g.Set("a", testTrait(2))
	g.Set("b", testTrait(3))
	g.Set("a", testTrait(4)) // replace must not reorder

	names := g.Names()
	want := []string{"c", "a", "b"}
	if len(names) != len(want) {
		t.Fatalf("Names length = %d, want %d", len(names), len(want))
	}
	for i, n := range names {
		if n != want[i] {
			t.Errorf("Names[%d] = %q, want %q", i, n, want[i])
		}
	}
	if got := g.Value("a"); got != 4 {
		t.Errorf("replaced trait value = %f, want 4", got)
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	g := New()
	g.Set("x", testTrait(10))

	c := g.Clone()
	c.Set("x", testTrait(99))

	if got := g.Value("x"); got != 10 {
		t.Errorf("parent value changed after clone mutation: got %f, want 10", got)
	}
}

func TestCombinePicksFromParents(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	a := New()
	a.Set("x", Trait{Value: 10, Min: 0, Max: 100})
	b := New()
	b.Set("x", Trait{Value: 90, Min: 0, Max: 100})

	sawA, sawB := false, false
	for i := 0; i < 200; i++ {
		child := a.Combine(b, false, rng)
		switch child.Value("x") {
		case 10:
			sawA = true
		case 90:
			sawB = true
		default:
			t.Fatalf("child value %f matches neither parent", child.Value("x"))
		}
	}
	if !sawA || !sawB {
		t.Errorf("crossover never picked both parents: a=%v b=%v", sawA, sawB)
	}
}

func TestCombineNoMutationNoDrift(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	a := New()
	a.Set("x", Trait{Value: 50, Min: 0, Max: 100, MutationRate: 1.0, MutationAmount: 0.5})
	b := a.Clone()

	for i := 0; i < 100; i++ {
		child := a.Combine(b, false, rng)
		if got := child.Value("x"); got != 50 {
			t.Fatalf("value drifted without mutation: got %f, want 50", got)
		}
	}
}

func TestCombineZeroRateNoMutation(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	a := New()
	a.Set("x", Trait{Value: 50, Min: 0, Max: 100, MutationRate: 0, MutationAmount: 0.5})
	b := a.Clone()

	for i := 0; i < 100; i++ {
		child := a.Combine(b, true, rng)
		if got := child.Value("x"); got != 50 {
			t.Fatalf("zero mutation rate still mutated: got %f, want 50", got)
		}
	}
}

func TestCombineMutationStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(4))

	g := New()
	g.Set("x", Trait{Value: 50, Min: 0, Max: 100, MutationRate: 1.0, MutationAmount: 0.5})

	// Repeated self-combination with guaranteed mutation must never
	// escape the trait domain.
	for i := 0; i < 1000; i++ {
		g = g.Combine(g, true, rng)
		v := g.Value("x")
		if v < 0 || v > 100 {
			t.Fatalf("iteration %d: value %f escaped [0, 100]", i, v)
		}
	}
}

func TestCombineUniqueTraitsSurvive(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	a := New()
	a.Set("shared", Trait{Value: 10, Min: 0, Max: 100})
	a.Set("only_a", Trait{Value: 20, Min: 0, Max: 100})
	b := New()
	b.Set("shared", Trait{Value: 30, Min: 0, Max: 100})
	b.Set("only_b", Trait{Value: 40, Min: 0, Max: 100})

	child := a.Combine(b, false, rng)

	if !child.Has("only_a") || child.Value("only_a") != 20 {
		t.Errorf("trait unique to first parent lost: %f", child.Value("only_a"))
	}
	if !child.Has("only_b") || child.Value("only_b") != 40 {
		t.Errorf("trait unique to second parent lost: %f", child.Value("only_b"))
	}
	if child.Len() != 3 {
		t.Errorf("child trait count = %d, want 3", child.Len())
	}
}

func TestCombineChildDoesNotAliasParents(t *testing.T) {
	rng := rand.New(rand.NewSource(6))

	a := New()
	a.Set("x", Trait{Value: 10, Min: 0, Max: 100})
	b := a.Clone()

	child := a.Combine(b, false, rng)
	child.Set("x", Trait{Value: 77, Min: 0, Max: 100})

	if a.Value("x") != 10 || b.Value("x") != 10 {
		t.Error("mutating child changed a parent")
	}
}
