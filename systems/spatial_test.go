package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
)

func newGridWorld(t *testing.T) (*ecs.World, *ecs.Map1[components.Position], func(x, y float32) ecs.Entity) {
	t.Helper()
	w := ecs.NewWorld()
	mapper := ecs.NewMap1[components.Position](w)
	spawn := func(x, y float32) ecs.Entity {
		pos := components.Position{X: x, Y: y}
		return mapper.NewEntity(&pos)
	}
	return w, mapper, spawn
}

func TestQueryRadiusFindsNeighbors(t *testing.T) {
	_, posMap, spawn := newGridWorld(t)
	grid := NewSpatialGrid(96, 64, 4)

	center := spawn(50, 30)
	near := spawn(52, 30)
	far := spawn(80, 30)

	grid.Insert(center, 50, 30)
	grid.Insert(near, 52, 30)
	grid.Insert(far, 80, 30)

	results := grid.QueryRadiusInto(nil, 50, 30, 5, center, posMap)

	if len(results) != 1 {
		t.Fatalf("got %d neighbors, want 1", len(results))
	}
	if results[0].E != near {
		t.Error("wrong neighbor returned")
	}
	if results[0].DistSq != 4 {
		t.Errorf("DistSq = %f, want 4", results[0].DistSq)
	}
}

func TestQueryRadiusExcludesRequester(t *testing.T) {
	_, posMap, spawn := newGridWorld(t)
	grid := NewSpatialGrid(96, 64, 4)

	e := spawn(10, 10)
	grid.Insert(e, 10, 10)

	results := grid.QueryRadiusInto(nil, 10, 10, 5, e, posMap)
	if len(results) != 0 {
		t.Errorf("requester returned as its own neighbor: %d results", len(results))
	}
}

func TestQueryRadiusEmptyRegion(t *testing.T) {
	_, posMap, spawn := newGridWorld(t)
	grid := NewSpatialGrid(96, 64, 4)

	e := spawn(10, 10)
	grid.Insert(e, 10, 10)

	results := grid.QueryRadiusInto(nil, 90, 60, 5, ecs.Entity{}, posMap)
	if len(results) != 0 {
		t.Errorf("got %d neighbors in an empty region", len(results))
	}
}

func TestQueryRadiusNearWorldEdge(t *testing.T) {
	_, posMap, spawn := newGridWorld(t)
	grid := NewSpatialGrid(96, 64, 4)

	// Bounded world: a query at the corner must not wrap to the far side.
	corner := spawn(1, 1)
	opposite := spawn(95, 63)
	grid.Insert(corner, 1, 1)
	grid.Insert(opposite, 95, 63)

	results := grid.QueryRadiusInto(nil, 0, 0, 6, ecs.Entity{}, posMap)
	if len(results) != 1 {
		t.Fatalf("got %d neighbors at corner, want 1", len(results))
	}
	if results[0].E != corner {
		t.Error("edge query returned a wrapped neighbor")
	}
}

func TestQueryRadiusCapsResults(t *testing.T) {
	_, posMap, spawn := newGridWorld(t)
	grid := NewSpatialGrid(96, 64, 4)

	for i := 0; i < MaxQueryResults*2; i++ {
		e := spawn(50, 30)
		grid.Insert(e, 50, 30)
	}

	results := grid.QueryRadiusInto(nil, 50, 30, 5, ecs.Entity{}, posMap)
	if len(results) != MaxQueryResults {
		t.Errorf("got %d results, want cap %d", len(results), MaxQueryResults)
	}
}

func TestClearEmptiesGrid(t *testing.T) {
	_, posMap, spawn := newGridWorld(t)
	grid := NewSpatialGrid(96, 64, 4)

	e := spawn(10, 10)
	grid.Insert(e, 10, 10)
	grid.Clear()

	results := grid.QueryRadiusInto(nil, 10, 10, 5, ecs.Entity{}, posMap)
	if len(results) != 0 {
		t.Errorf("grid not empty after Clear: %d results", len(results))
	}
}
