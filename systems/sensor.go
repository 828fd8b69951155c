package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
)

// Match is a predicate over candidate entities.
type Match func(e ecs.Entity) bool

// cacheKey identifies a cached query. Predicate identity is a caller
// supplied string so distinct predicates never share entries.
type cacheKey struct {
	requester ecs.Entity
	radius    float32
	pred      string
}

type cacheEntry struct {
	at     float64 // sim-time the result was computed
	x, y   float32 // requester position at compute time
	result ecs.Entity
	found  bool
}

// Sensor answers nearest-entity queries against the spatial grid.
// Results may be served from a short-lived cache; entries older than
// the TTL, or issued after the requester moved past the movement
// threshold, are discarded. Staleness beyond those bounds would be a
// correctness bug, not a performance tweak.
type Sensor struct {
	world  *ecs.World
	grid   *SpatialGrid
	posMap *ecs.Map1[components.Position]

	ttl           float64
	moveThreshold float32

	now     float64
	cache   map[cacheKey]cacheEntry
	scratch []Neighbor
}

// NewSensor creates a sensor over the given grid. A ttl of 0 disables
// caching entirely.
func NewSensor(world *ecs.World, grid *SpatialGrid, posMap *ecs.Map1[components.Position], ttl float64, moveThreshold float32) *Sensor {
	return &Sensor{
		world:         world,
		grid:          grid,
		posMap:        posMap,
		ttl:           ttl,
		moveThreshold: moveThreshold,
		cache:         make(map[cacheKey]cacheEntry),
	}
}

// Advance moves the sensor clock and drops expired cache entries.
func (s *Sensor) Advance(now float64) {
	s.now = now
	for k, e := range s.cache {
		if now-e.at > s.ttl {
			delete(s.cache, k)
		}
	}
}

// FindNearest returns the nearest entity within radius of (x, y) that
// satisfies match, excluding the requester itself. Strict nearest by
// squared distance; exact ties resolve to the first encountered in grid
// iteration order, which is stable but implementation-defined.
func (s *Sensor) FindNearest(requester ecs.Entity, x, y, radius float32, predID string, match Match) (ecs.Entity, bool) {
	key := cacheKey{requester: requester, radius: radius, pred: predID}

	if s.ttl > 0 {
		if e, ok := s.cache[key]; ok {
			dx := x - e.x
			dy := y - e.y
			fresh := s.now-e.at <= s.ttl && dx*dx+dy*dy <= s.moveThreshold*s.moveThreshold
			// The cache bounds spatial staleness only; whether the
			// stored entity still exists and still qualifies is checked
			// on every hit.
			if fresh && e.found && (!s.world.Alive(e.result) || !match(e.result)) {
				fresh = false
			}
			if fresh {
				return e.result, e.found
			}
			delete(s.cache, key)
		}
	}

	s.scratch = s.grid.QueryRadiusInto(s.scratch[:0], x, y, radius, requester, s.posMap)

	var best ecs.Entity
	var bestDistSq float32
	found := false
	for _, n := range s.scratch {
		if !match(n.E) {
			continue
		}
		if !found || n.DistSq < bestDistSq {
			best = n.E
			bestDistSq = n.DistSq
			found = true
		}
	}

	if s.ttl > 0 {
		s.cache[key] = cacheEntry{at: s.now, x: x, y: y, result: best, found: found}
	}

	return best, found
}
