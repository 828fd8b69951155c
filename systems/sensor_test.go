package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
)

func matchAll(ecs.Entity) bool { return true }

func newSensorWorld(t *testing.T, ttl float64, moveThreshold float32) (*Sensor, *SpatialGrid, *ecs.World, func(x, y float32) ecs.Entity) {
	t.Helper()
	w := ecs.NewWorld()
	posMap := ecs.NewMap1[components.Position](w)
	grid := NewSpatialGrid(96, 64, 4)
	sensor := NewSensor(w, grid, posMap, ttl, moveThreshold)
	spawn := func(x, y float32) ecs.Entity {
		pos := components.Position{X: x, Y: y}
		return posMap.NewEntity(&pos)
	}
	return sensor, grid, w, spawn
}

func TestFindNearestPicksClosest(t *testing.T) {
	sensor, grid, _, spawn := newSensorWorld(t, 0, 0)

	requester := spawn(50, 30)
	near := spawn(51, 30)
	nearer := spawn(50.5, 30)
	grid.Insert(requester, 50, 30)
	grid.Insert(near, 51, 30)
	grid.Insert(nearer, 50.5, 30)

	got, ok := sensor.FindNearest(requester, 50, 30, 5, "any", matchAll)
	if !ok {
		t.Fatal("FindNearest found nothing")
	}
	if got != nearer {
		t.Error("FindNearest did not return the strictly nearest match")
	}
}

func TestFindNearestAppliesPredicate(t *testing.T) {
	sensor, grid, _, spawn := newSensorWorld(t, 0, 0)

	requester := spawn(50, 30)
	nearest := spawn(50.5, 30)
	farther := spawn(52, 30)
	grid.Insert(requester, 50, 30)
	grid.Insert(nearest, 50.5, 30)
	grid.Insert(farther, 52, 30)

	onlyFarther := func(e ecs.Entity) bool { return e == farther }
	got, ok := sensor.FindNearest(requester, 50, 30, 5, "pick", onlyFarther)
	if !ok || got != farther {
		t.Error("predicate was not applied to candidates")
	}
}

func TestFindNearestNoneInRange(t *testing.T) {
	sensor, grid, _, spawn := newSensorWorld(t, 0, 0)

	requester := spawn(10, 10)
	distant := spawn(90, 60)
	grid.Insert(requester, 10, 10)
	grid.Insert(distant, 90, 60)

	if _, ok := sensor.FindNearest(requester, 10, 10, 5, "any", matchAll); ok {
		t.Error("FindNearest returned a match outside the radius")
	}
}

func TestSensorCacheServesFreshResult(t *testing.T) {
	sensor, grid, _, spawn := newSensorWorld(t, 0.25, 0.5)

	requester := spawn(50, 30)
	target := spawn(51, 30)
	grid.Insert(requester, 50, 30)
	grid.Insert(target, 51, 30)

	sensor.Advance(0)
	first, ok := sensor.FindNearest(requester, 50, 30, 5, "any", matchAll)
	if !ok || first != target {
		t.Fatal("initial query failed")
	}

	// Remove the target from the grid. A cached query inside the TTL
	// must still return the stale-but-bounded result.
	grid.Clear()
	grid.Insert(requester, 50, 30)

	sensor.Advance(0.1)
	cached, ok := sensor.FindNearest(requester, 50, 30, 5, "any", matchAll)
	if !ok || cached != target {
		t.Error("cache did not serve the result inside the TTL")
	}
}

func TestSensorCacheExpiresByTTL(t *testing.T) {
	sensor, grid, _, spawn := newSensorWorld(t, 0.25, 0.5)

	requester := spawn(50, 30)
	target := spawn(51, 30)
	grid.Insert(requester, 50, 30)
	grid.Insert(target, 51, 30)

	sensor.Advance(0)
	sensor.FindNearest(requester, 50, 30, 5, "any", matchAll)

	grid.Clear()
	grid.Insert(requester, 50, 30)

	// Past the TTL the stale entry must be recomputed.
	sensor.Advance(0.3)
	if _, ok := sensor.FindNearest(requester, 50, 30, 5, "any", matchAll); ok {
		t.Error("expired cache entry served a stale result")
	}
}

func TestSensorCacheInvalidatedByMovement(t *testing.T) {
	sensor, grid, _, spawn := newSensorWorld(t, 10, 0.5)

	requester := spawn(50, 30)
	target := spawn(51, 30)
	grid.Insert(requester, 50, 30)
	grid.Insert(target, 51, 30)

	sensor.Advance(0)
	sensor.FindNearest(requester, 50, 30, 5, "any", matchAll)

	grid.Clear()
	grid.Insert(requester, 52, 30)

	// Same sim-time window, but the requester moved past the
	// threshold: the cache entry no longer describes its surroundings.
	sensor.Advance(0.05)
	if _, ok := sensor.FindNearest(requester, 52, 30, 5, "any", matchAll); ok {
		t.Error("movement past threshold did not invalidate the cache")
	}
}

func TestSensorCacheKeyedByPredicate(t *testing.T) {
	sensor, grid, _, spawn := newSensorWorld(t, 10, 0.5)

	requester := spawn(50, 30)
	target := spawn(51, 30)
	grid.Insert(requester, 50, 30)
	grid.Insert(target, 51, 30)

	sensor.Advance(0)
	if _, ok := sensor.FindNearest(requester, 50, 30, 5, "all", matchAll); !ok {
		t.Fatal("matchAll query failed")
	}

	// A different predicate id must not reuse the matchAll entry.
	none := func(ecs.Entity) bool { return false }
	if _, ok := sensor.FindNearest(requester, 50, 30, 5, "none", none); ok {
		t.Error("cache entry shared across distinct predicates")
	}
}

func TestSensorCacheHitSkipsDestroyedEntity(t *testing.T) {
	sensor, grid, w, spawn := newSensorWorld(t, 10, 0.5)

	requester := spawn(50, 30)
	target := spawn(51, 30)
	grid.Insert(requester, 50, 30)
	grid.Insert(target, 51, 30)

	sensor.Advance(0)
	if _, ok := sensor.FindNearest(requester, 50, 30, 5, "any", matchAll); !ok {
		t.Fatal("initial query failed")
	}

	// Destroy the cached result. Even inside the TTL the entry must not
	// hand back a dead entity.
	w.RemoveEntity(target)
	grid.Clear()
	grid.Insert(requester, 50, 30)

	sensor.Advance(0.05)
	if _, ok := sensor.FindNearest(requester, 50, 30, 5, "any", matchAll); ok {
		t.Error("cache served a destroyed entity")
	}
}

func TestSensorCacheHitReappliesPredicate(t *testing.T) {
	sensor, grid, _, spawn := newSensorWorld(t, 10, 0.5)

	requester := spawn(50, 30)
	target := spawn(51, 30)
	grid.Insert(requester, 50, 30)
	grid.Insert(target, 51, 30)

	eligible := true
	match := func(ecs.Entity) bool { return eligible }

	sensor.Advance(0)
	if _, ok := sensor.FindNearest(requester, 50, 30, 5, "eligible", match); !ok {
		t.Fatal("initial query failed")
	}

	// The same predicate id can stop matching the stored entity, e.g.
	// when a mate candidate gets claimed between ticks.
	eligible = false
	grid.Clear()
	grid.Insert(requester, 50, 30)
	grid.Insert(target, 51, 30)

	sensor.Advance(0.05)
	if _, ok := sensor.FindNearest(requester, 50, 30, 5, "eligible", match); ok {
		t.Error("cache served an entity the predicate no longer accepts")
	}
}

func TestAdvanceEvictsExpiredEntries(t *testing.T) {
	sensor, grid, _, spawn := newSensorWorld(t, 0.25, 0.5)

	requester := spawn(50, 30)
	target := spawn(51, 30)
	grid.Insert(requester, 50, 30)
	grid.Insert(target, 51, 30)

	sensor.Advance(0)
	sensor.FindNearest(requester, 50, 30, 5, "any", matchAll)

	sensor.Advance(1.0)
	if len(sensor.cache) != 0 {
		t.Errorf("cache holds %d entries after expiry sweep, want 0", len(sensor.cache))
	}
}
