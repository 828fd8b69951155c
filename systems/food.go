package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
)

// FoodSystem scatters edible items over the world and respawns them at
// a bounded rate after they are eaten.
type FoodSystem struct {
	world  *ecs.World
	mapper *ecs.Map2[components.Position, components.Food]

	target          int
	energy          float32
	respawnInterval float64
	sinceSpawn      float64

	worldW, worldH float32
	rng            *rand.Rand
	count          int
}

// NewFoodSystem creates the food system.
func NewFoodSystem(w *ecs.World, target int, energy float32, respawnInterval float64, worldW, worldH float32, rng *rand.Rand) *FoodSystem {
	return &FoodSystem{
		world:           w,
		mapper:          ecs.NewMap2[components.Position, components.Food](w),
		target:          target,
		energy:          energy,
		respawnInterval: respawnInterval,
		worldW:          worldW,
		worldH:          worldH,
		rng:             rng,
	}
}

// Seed spawns the initial food population.
func (s *FoodSystem) Seed() {
	for i := 0; i < s.target; i++ {
		s.Spawn()
	}
}

// Spawn places one food item at a random position.
func (s *FoodSystem) Spawn() ecs.Entity {
	pos := components.Position{
		X: s.rng.Float32() * s.worldW,
		Y: s.rng.Float32() * s.worldH,
	}
	food := components.Food{Energy: s.energy}
	s.count++
	return s.mapper.NewEntity(&pos, &food)
}

// Remove destroys an eaten food item. Must not be called while a query
// over food entities is open.
func (s *FoodSystem) Remove(e ecs.Entity) {
	s.world.RemoveEntity(e)
	s.count--
}

// Update respawns food at the configured rate while below target.
func (s *FoodSystem) Update(dt float64) {
	if s.count >= s.target {
		s.sinceSpawn = 0
		return
	}
	s.sinceSpawn += dt
	for s.sinceSpawn >= s.respawnInterval && s.count < s.target {
		s.sinceSpawn -= s.respawnInterval
		s.Spawn()
	}
}

// Count returns the number of live food items.
func (s *FoodSystem) Count() int {
	return s.count
}
